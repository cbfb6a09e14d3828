// Copyright 2015-2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-appregistry/registry"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/urfave/negroni"
)

var requestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "appregistry",
		Name:      "http_requests_total",
		Help:      "API requests by route, method and status",
	},
	[]string{
		"route",
		"method",
		"code",
	},
)

var applicationCount = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "appregistry",
		Name:      "applications",
		Help:      "Number of application records in the store",
	},
)

func init() {
	prometheus.MustRegister(requestsTotal)
	prometheus.MustRegister(applicationCount)
}

// countRequests is a mux middleware that counts requests against
// requestsTotal, labeled with the name of the matched route.
func countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		route := ""
		if r := mux.CurrentRoute(req); r != nil {
			route = r.GetName()
		}
		rw, ok := w.(negroni.ResponseWriter)
		if !ok {
			rw = negroni.NewResponseWriter(w)
		}
		next.ServeHTTP(rw, req)
		requestsTotal.With(prometheus.Labels{
			"route":  route,
			"method": req.Method,
			"code":   strconv.Itoa(rw.Status()),
		}).Inc()
	})
}

// observer periodically records the store size in a gauge.
type observer struct {
	Store    registry.Store
	Gauge    prometheus.Gauge
	Clock    clock.Clock
	Interval time.Duration
}

func (o *observer) observeOnce(ctx context.Context) error {
	count, err := o.Store.Count(ctx)
	if err != nil {
		return err
	}
	o.Gauge.Set(float64(count))
	return nil
}

// Run updates the gauge immediately and then once per interval,
// until ctx is cancelled.
func (o *observer) Run(ctx context.Context) {
	ticker := o.Clock.Ticker(o.Interval)
	defer ticker.Stop()
	for {
		if err := o.observeOnce(ctx); err != nil && ctx.Err() == nil {
			logrus.WithError(err).Warn("could not count applications")
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
