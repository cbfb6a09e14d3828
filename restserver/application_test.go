// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package restserver_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/diffeo/go-appregistry/memory"
	"github.com/diffeo/go-appregistry/registry"
	"github.com/diffeo/go-appregistry/restdata"
	"github.com/diffeo/go-appregistry/restserver"
	"github.com/diffeo/go-appregistry/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// APIAssertions drives a fresh REST router over the default seed
// dataset.
type APIAssertions struct {
	*assert.Assertions
	Router http.Handler
}

func NewAPIAssertions(t *testing.T) *APIAssertions {
	apps, err := seed.Default()
	require.NoError(t, err)
	store := memory.New(apps)
	schema := registry.NewSchema(registry.CompaniesOf(apps))
	return &APIAssertions{
		Assertions: assert.New(t),
		Router:     restserver.NewRouter(store, schema),
	}
}

// Do sends a request and returns the response.  If form is non-nil
// it is sent as a URL-encoded body.
func (a *APIAssertions) Do(method, path string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", restdata.FormMediaType)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

// DoJSON sends a request with a JSON body.
func (a *APIAssertions) DoJSON(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)
	return rec
}

// Decode decodes a response body into out.
func (a *APIAssertions) Decode(rec *httptest.ResponseRecorder, out interface{}) bool {
	return a.NoError(restdata.Decode(rec.Header().Get("Content-Type"), rec.Body, out))
}

// List fetches the full application list.
func (a *APIAssertions) List() []registry.Application {
	rec := a.Do("GET", "/", nil)
	var apps []registry.Application
	if a.Equal(http.StatusOK, rec.Code) {
		a.Decode(rec, &apps)
	}
	return apps
}

// Application fetches one application, asserting that it exists.
func (a *APIAssertions) Application(path string) registry.Application {
	rec := a.Do("GET", path, nil)
	var app registry.Application
	if a.Equal(http.StatusOK, rec.Code) {
		a.Decode(rec, &app)
	}
	return app
}

// NotFound asserts that a response is the standard 404.
func (a *APIAssertions) NotFound(rec *httptest.ResponseRecorder) {
	if a.Equal(http.StatusNotFound, rec.Code) {
		var body map[string]string
		if a.Decode(rec, &body) {
			a.Equal(map[string]string{"error": "Application not found"}, body)
		}
	}
}

// Invalid asserts that a response is a 400 validation failure and
// returns the error map.
func (a *APIAssertions) Invalid(rec *httptest.ResponseRecorder) map[string]string {
	var errs map[string]string
	if a.Equal(http.StatusBadRequest, rec.Code) {
		a.Decode(rec, &errs)
	}
	return errs
}

var fintone = registry.Application{
	ID:          1,
	AppName:     "Fintone",
	AppVersion:  "8.4",
	Logo:        "nisl.jpeg",
	CompanyName: "Littel-Collier",
}

var it = registry.Application{
	ID:          777,
	AppName:     "It",
	AppVersion:  "0.9.7",
	Logo:        "dictumst.gif",
	CompanyName: "Donnelly, Hintz and Kuhn",
}

func wootwaForm() url.Values {
	return url.Values{
		"app_name":     {"Wootwa"},
		"app_version":  {"1.0.1"},
		"logo":         {"noce.png"},
		"company_name": {"Littel-Collier"},
	}
}

func TestListApplications(t *testing.T) {
	a := NewAPIAssertions(t)
	apps := a.List()
	if a.Len(apps, 1000) {
		a.Equal(fintone, apps[0])
	}
}

func TestListContentType(t *testing.T) {
	a := NewAPIAssertions(t)
	rec := a.Do("GET", "/", nil)
	a.Equal("application/json", rec.Header().Get("Content-Type"))
	body := rec.Body.Bytes()

	// Field order is up to the encoder; the names are not
	var raw []map[string]interface{}
	if a.NoError(restdata.Decode("application/json", bytes.NewReader(body), &raw)) && a.NotEmpty(raw) {
		keys := make([]string, 0, len(raw[0]))
		for key := range raw[0] {
			keys = append(keys, key)
		}
		a.ElementsMatch([]string{"id", "app_name", "app_version", "logo", "company_name"}, keys)
	}
	var apps []registry.Application
	if a.NoError(restdata.Decode("application/json", bytes.NewReader(body), &apps)) && a.NotEmpty(apps) {
		a.Equal(fintone, apps[0])
	}
}

func TestCreateApplication(t *testing.T) {
	a := NewAPIAssertions(t)
	rec := a.Do("POST", "/", wootwaForm())
	if !a.Equal(http.StatusCreated, rec.Code) {
		return
	}
	a.Equal("/1001/", rec.Header().Get("Location"))
	var created registry.Application
	if a.Decode(rec, &created) {
		a.Equal(1001, created.ID)
	}
	a.Len(a.List(), 1001)

	a.Equal(registry.Application{
		ID:          1001,
		AppName:     "Wootwa",
		AppVersion:  "1.0.1",
		Logo:        "noce.png",
		CompanyName: "Littel-Collier",
	}, a.Application("/1001/"))
}

func TestCreateApplicationJSON(t *testing.T) {
	a := NewAPIAssertions(t)
	rec := a.DoJSON("POST", "/", `{"id": 5, "app_name": "Wootwa", "app_version": "1.0.1", "logo": "noce.png", "company_name": "Littel-Collier"}`)
	if a.Equal(http.StatusCreated, rec.Code) {
		var created registry.Application
		if a.Decode(rec, &created) {
			a.Equal(1001, created.ID)
		}
	}
	// The client's id was ignored
	a.Equal("Fintone", a.Application("/1/").AppName)
	a.NotEqual("Wootwa", a.Application("/5/").AppName)
}

func TestCreateApplicationMissingFields(t *testing.T) {
	a := NewAPIAssertions(t)
	errs := a.Invalid(a.Do("POST", "/", url.Values{"key": {"1"}}))
	a.Equal(map[string]string{
		"app_name":     `The "app_name" field is required.`,
		"app_version":  `The "app_version" field is required.`,
		"logo":         `The "logo" field is required.`,
		"company_name": `The "company_name" field is required.`,
	}, errs)
	a.Len(a.List(), 1000)
}

func TestCreateApplicationEmptyBody(t *testing.T) {
	a := NewAPIAssertions(t)
	errs := a.Invalid(a.Do("POST", "/", nil))
	a.Len(errs, 4)
}

func TestCreateApplicationFieldValidation(t *testing.T) {
	a := NewAPIAssertions(t)
	form := wootwaForm()
	form.Set("company_name", "Google")
	errs := a.Invalid(a.Do("POST", "/", form))
	a.Len(errs, 1)
	a.Contains(errs["company_name"], "Must be one of")
	a.Len(a.List(), 1000)
}

func TestCreateApplicationTooLong(t *testing.T) {
	a := NewAPIAssertions(t)
	form := wootwaForm()
	form.Set("logo", strings.Repeat("x", 101))
	errs := a.Invalid(a.Do("POST", "/", form))
	a.Equal(map[string]string{"logo": "Must have no more than 100 characters."}, errs)
}

func TestGetApplication(t *testing.T) {
	a := NewAPIAssertions(t)
	a.Equal(it, a.Application("/777/"))
}

func TestGetApplicationNotFound(t *testing.T) {
	a := NewAPIAssertions(t)
	a.NotFound(a.Do("GET", "/1111111/", nil))
	a.NotFound(a.Do("GET", "/99999999999999999999999/", nil))
}

func TestGetApplicationBadPath(t *testing.T) {
	a := NewAPIAssertions(t)
	rec := a.Do("GET", "/seven/", nil)
	a.Equal(http.StatusNotFound, rec.Code)
	rec = a.Do("GET", "/777", nil)
	a.NotEqual(http.StatusOK, rec.Code)
}

func TestUpdateApplication(t *testing.T) {
	a := NewAPIAssertions(t)
	form := url.Values{
		"app_name":     {"It"},
		"app_version":  {"1.0"},
		"logo":         {"dictumst.png"},
		"company_name": {"Donnelly, Hintz and Kuhn"},
	}
	rec := a.Do("PUT", "/777/", form)
	if a.Equal(http.StatusOK, rec.Code) {
		var updated registry.Application
		if a.Decode(rec, &updated) {
			a.Equal(777, updated.ID)
			a.Equal("1.0", updated.AppVersion)
		}
	}
	a.Equal(registry.Application{
		ID:          777,
		AppName:     "It",
		AppVersion:  "1.0",
		Logo:        "dictumst.png",
		CompanyName: "Donnelly, Hintz and Kuhn",
	}, a.Application("/777/"))
	a.Len(a.List(), 1000)
}

func TestUpdateApplicationNotFound(t *testing.T) {
	a := NewAPIAssertions(t)
	a.NotFound(a.Do("PUT", "/1111111/", wootwaForm()))
	a.NotFound(a.Do("GET", "/1111111/", nil))
	a.Len(a.List(), 1000)
}

// TestUpdateApplicationNotFoundFirst checks that a missing record is
// reported even if the body is also invalid.
func TestUpdateApplicationNotFoundFirst(t *testing.T) {
	a := NewAPIAssertions(t)
	a.NotFound(a.Do("PUT", "/1111111/", url.Values{"key": {"1"}}))
}

func TestUpdateApplicationMissingFields(t *testing.T) {
	a := NewAPIAssertions(t)
	errs := a.Invalid(a.Do("PUT", "/777/", url.Values{"key": {"1"}}))
	a.Equal(map[string]string{
		"app_name":     `The "app_name" field is required.`,
		"app_version":  `The "app_version" field is required.`,
		"logo":         `The "logo" field is required.`,
		"company_name": `The "company_name" field is required.`,
	}, errs)
	a.Equal(it, a.Application("/777/"))
	a.Len(a.List(), 1000)
}

func TestUpdateApplicationValidation(t *testing.T) {
	a := NewAPIAssertions(t)
	form := wootwaForm()
	form.Set("company_name", "Google")
	errs := a.Invalid(a.Do("PUT", "/777/", form))
	a.Contains(errs["company_name"], "Must be one of")
	a.Equal(it, a.Application("/777/"))
}

func TestDeleteApplication(t *testing.T) {
	a := NewAPIAssertions(t)
	for _, path := range []string{"/11/", "/22/", "/33/"} {
		rec := a.Do("DELETE", path, nil)
		a.Equal(http.StatusNoContent, rec.Code)
		a.Empty(rec.Body.String())
		a.NotFound(a.Do("GET", path, nil))
	}
	a.Len(a.List(), 997)
}

func TestDeleteApplicationNotFound(t *testing.T) {
	a := NewAPIAssertions(t)
	a.NotFound(a.Do("DELETE", "/1111111/", nil))
	a.Len(a.List(), 1000)
}
