// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package registry

import (
	"fmt"
	"sort"
	"strings"
)

// ErrNoSuchApplication is returned when a record is requested by an ID
// that is not in the store.
type ErrNoSuchApplication struct {
	ID int
}

func (err ErrNoSuchApplication) Error() string {
	return "Application not found"
}

// IsNotFound returns true if err says that some record does not exist.
func IsNotFound(err error) bool {
	_, isNotFound := err.(ErrNoSuchApplication)
	return isNotFound
}

// ValidationErrors is returned from Schema.Validate when its input
// does not describe a valid record.  It maps field name to a
// human-readable message, with one entry per failing field.
type ValidationErrors map[string]string

func (errs ValidationErrors) Error() string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = fmt.Sprintf("%s: %s", field, errs[field])
	}
	return "invalid application: " + strings.Join(parts, "; ")
}
