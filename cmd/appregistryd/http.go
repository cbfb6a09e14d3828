// Copyright 2015-2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/diffeo/go-appregistry/registry"
	"github.com/diffeo/go-appregistry/restserver"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

const requestIDHeader = "X-Request-Id"

// newAPIHandler builds the complete API handler: the REST routes and
// /metrics, behind panic recovery, request IDs, and, if reqLogger is
// non-nil, per-request logging.
func newAPIHandler(store registry.Store, schema *registry.Schema, reqLogger *logrus.Logger) http.Handler {
	r := mux.NewRouter()
	restserver.PopulateRouter(r, store, schema)
	r.Handle("/metrics", promhttp.Handler()).Name("metrics")
	r.Use(countRequests)
	return wrap(r, reqLogger)
}

// wrap puts the common middleware in front of a handler.
func wrap(h http.Handler, reqLogger *logrus.Logger) http.Handler {
	recovery := negroni.NewRecovery()
	recovery.Logger = logrus.StandardLogger()
	recovery.PrintStack = false

	n := negroni.New(recovery, negroni.HandlerFunc(requestID))
	if reqLogger != nil {
		n.Use(&requestLogger{Logger: reqLogger})
	}
	n.UseHandler(h)
	return n
}

// requestID makes sure every request carries an X-Request-Id header,
// generating one if the client did not send one, and echoes it in
// the response.
func requestID(w http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
	id := req.Header.Get(requestIDHeader)
	if id == "" {
		id = uuid.NewV4().String()
		req.Header.Set(requestIDHeader, id)
	}
	w.Header().Set(requestIDHeader, id)
	next(w, req)
}

// requestLogger logs one line per request at debug level.
type requestLogger struct {
	Logger *logrus.Logger
}

func (l *requestLogger) ServeHTTP(w http.ResponseWriter, req *http.Request, next http.HandlerFunc) {
	start := time.Now()
	next(w, req)
	fields := logrus.Fields{
		"request_id": req.Header.Get(requestIDHeader),
		"method":     req.Method,
		"path":       req.URL.Path,
		"duration":   time.Since(start),
	}
	if rw, ok := w.(negroni.ResponseWriter); ok {
		fields["status"] = rw.Status()
	}
	l.Logger.WithFields(fields).Debug("request")
}

// serve runs every server until ctx is cancelled or one of them
// fails, then shuts them all down, waiting at most timeout for open
// requests to finish.
func serve(ctx context.Context, timeout time.Duration, servers ...*http.Server) error {
	errs := make(chan error, len(servers))
	for _, server := range servers {
		go func(server *http.Server) {
			logrus.WithField("addr", server.Addr).Info("listening")
			err := server.ListenAndServe()
			if err == http.ErrServerClosed {
				err = nil
			}
			errs <- err
		}(server)
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-errs:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for _, server := range servers {
		if err2 := server.Shutdown(shutdownCtx); err == nil {
			err = err2
		}
	}
	return err
}
