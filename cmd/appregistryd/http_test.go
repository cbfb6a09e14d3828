// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diffeo/go-appregistry/memory"
	"github.com/diffeo/go-appregistry/registry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

var apps = []registry.Application{
	{ID: 1, AppName: "Fintone", AppVersion: "8.4", Logo: "nisl.jpeg", CompanyName: "Littel-Collier"},
}

func newTestHandler(reqLogger *logrus.Logger) http.Handler {
	schema := registry.NewSchema(registry.CompaniesOf(apps))
	return newAPIHandler(memory.New(apps), schema, reqLogger)
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, req)
	return resp
}

func TestRequestID(t *testing.T) {
	h := newTestHandler(nil)

	resp := do(h, httptest.NewRequest("GET", "/1/", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, resp.Header().Get(requestIDHeader), 36)

	req := httptest.NewRequest("GET", "/1/", nil)
	req.Header.Set(requestIDHeader, "abc123")
	resp = do(h, req)
	assert.Equal(t, "abc123", resp.Header().Get(requestIDHeader))
}

func TestRequestCounter(t *testing.T) {
	h := newTestHandler(nil)
	counter := requestsTotal.WithLabelValues("application", "GET", "404")
	before := testutil.ToFloat64(counter)
	resp := do(h, httptest.NewRequest("GET", "/1111111/", nil))
	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))

	counter = requestsTotal.WithLabelValues("applications", "POST", "201")
	before = testutil.ToFloat64(counter)
	req := httptest.NewRequest("POST", "/", strings.NewReader(
		"app_name=Wootwa&app_version=1.0.1&logo=noce.png&company_name=Littel-Collier"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp = do(h, req)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "/2/", resp.Header().Get("Location"))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(nil)
	_ = do(h, httptest.NewRequest("GET", "/", nil))
	resp := do(h, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "appregistry_http_requests_total")
	assert.Contains(t, resp.Body.String(), "appregistry_applications")
}

func TestRequestLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	h := newTestHandler(logger)

	req := httptest.NewRequest("DELETE", "/1/", nil)
	req.Header.Set(requestIDHeader, "req-1")
	resp := do(h, req)
	assert.Equal(t, http.StatusNoContent, resp.Code)

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, logrus.DebugLevel, entry.Level)
		assert.Equal(t, "req-1", entry.Data["request_id"])
		assert.Equal(t, "DELETE", entry.Data["method"])
		assert.Equal(t, "/1/", entry.Data["path"])
		assert.Equal(t, http.StatusNoContent, entry.Data["status"])
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	out := logrus.StandardLogger().Out
	logrus.SetOutput(&buf)
	defer logrus.SetOutput(out)

	h := wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), nil)
	resp := do(h, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, buf.String(), "boom")
}

func TestServeShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	server := &http.Server{Addr: "127.0.0.1:0", Handler: newTestHandler(nil)}
	done := make(chan error, 1)
	go func() { done <- serve(ctx, time.Second, server) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Error("serve did not return")
	}
}
