// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package registry

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Field names, as they appear in request bodies and in
// ValidationErrors.
const (
	FieldID          = "id"
	FieldAppName     = "app_name"
	FieldAppVersion  = "app_version"
	FieldLogo        = "logo"
	FieldCompanyName = "company_name"
)

// Fields returns the client-settable fields of app as a generic map,
// in the same form Schema.Validate accepts.
func (app Application) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldAppName:     app.AppName,
		FieldAppVersion:  app.AppVersion,
		FieldLogo:        app.Logo,
		FieldCompanyName: app.CompanyName,
	}
}

// CompanySet is an immutable set of company names.  The zero value is
// an empty set.
type CompanySet struct {
	names  map[string]struct{}
	sorted []string
}

// NewCompanySet creates a company set containing names.  Duplicates
// are ignored.
func NewCompanySet(names ...string) CompanySet {
	set := CompanySet{names: make(map[string]struct{}, len(names))}
	for _, name := range names {
		if _, present := set.names[name]; !present {
			set.names[name] = struct{}{}
			set.sorted = append(set.sorted, name)
		}
	}
	sort.Strings(set.sorted)
	return set
}

// CompaniesOf creates a company set from the distinct company names in
// a list of records.
func CompaniesOf(apps []Application) CompanySet {
	names := make([]string, len(apps))
	for i, app := range apps {
		names[i] = app.CompanyName
	}
	return NewCompanySet(names...)
}

// Contains returns true if name is in the set.
func (set CompanySet) Contains(name string) bool {
	_, present := set.names[name]
	return present
}

// Len returns the number of companies in the set.
func (set CompanySet) Len() int {
	return len(set.sorted)
}

// Names returns a sorted copy of the names in the set.
func (set CompanySet) Names() []string {
	return append([]string(nil), set.sorted...)
}

// Schema checks raw input against the shape of an Application.
type Schema struct {
	// Companies holds the acceptable values of the company_name
	// field.
	Companies CompanySet
}

// NewSchema creates a schema that accepts the given set of
// companies.
func NewSchema(companies CompanySet) *Schema {
	return &Schema{Companies: companies}
}

// Validate converts a raw input map into an Application.  If any
// field is missing or invalid, returns a ValidationErrors with one
// entry for each bad field.  Keys not named in the schema are
// ignored, as is any "id" value that is an integer; the caller is
// responsible for assigning the ID.
func (s *Schema) Validate(raw map[string]interface{}) (Application, error) {
	var app Application
	errs := ValidationErrors{}

	if v, present := raw[FieldID]; present && v != nil {
		if _, ok := asInteger(v); !ok {
			errs[FieldID] = "Must be an integer."
		}
	}
	app.AppName = stringField(raw, FieldAppName, errs, nil)
	app.AppVersion = stringField(raw, FieldAppVersion, errs, nil)
	app.Logo = stringField(raw, FieldLogo, errs, nil)
	app.CompanyName = stringField(raw, FieldCompanyName, errs, s.checkCompany)

	if len(errs) > 0 {
		return Application{}, errs
	}
	return app, nil
}

// Check validates an already-typed record.  The record's ID is not
// examined.
func (s *Schema) Check(app Application) error {
	_, err := s.Validate(app.Fields())
	return err
}

func (s *Schema) checkCompany(name string) string {
	if s.Companies.Contains(name) {
		return ""
	}
	quoted := make([]string, len(s.Companies.sorted))
	for i, company := range s.Companies.sorted {
		quoted[i] = strconv.Quote(company)
	}
	return "Must be one of " + strings.Join(quoted, ", ") + "."
}

// stringField extracts a required string field from raw.  If it is
// missing or fails a check, records a message in errs and returns
// an empty string.  extra, if non-nil, runs after the generic checks
// and returns a non-empty message on failure.
func stringField(raw map[string]interface{}, field string, errs ValidationErrors, extra func(string) string) string {
	v, present := raw[field]
	if !present || v == nil {
		errs[field] = fmt.Sprintf("The %q field is required.", field)
		return ""
	}
	s, isString := v.(string)
	switch {
	case !isString:
		errs[field] = "Must be a string."
	case s == "":
		errs[field] = "Must not be blank."
	case utf8.RuneCountInString(s) > MaxFieldLength:
		errs[field] = fmt.Sprintf("Must have no more than %d characters.", MaxFieldLength)
	default:
		if extra != nil {
			if msg := extra(s); msg != "" {
				errs[field] = msg
				return ""
			}
		}
		return s
	}
	return ""
}

// asInteger tries to interpret a decoded value as an integer.  JSON
// decoders may produce any of several numeric types, and form
// submissions produce strings.
func asInteger(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	case string:
		i, err := strconv.Atoi(n)
		if err == nil {
			return i, true
		}
	}
	return 0, false
}
