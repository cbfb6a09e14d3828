// Copyright 2015-2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Command appregistryd runs the application registry service.  It
// serves the JSON API, and optionally the accompanying HTML pages on
// a second listener.
//
// Settings can come from a YAML file named with --config or the
// APPREGISTRY_CONFIG environment variable, for instance
//
//     http_bind: ":5000"
//     site_bind: ""
//     backend: "postgres://appregistry@localhost/appregistry"
//     cache_size: 1000
//     metrics_interval: 30s
//
// Command-line flags override the file.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/diffeo/go-appregistry/registry"
	"github.com/diffeo/go-appregistry/seed"
	"github.com/diffeo/go-appregistry/site"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

func flags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:   "config",
			Usage:  "global configuration YAML file",
			EnvVar: "APPREGISTRY_CONFIG",
		},
		cli.StringFlag{
			Name:  "http",
			Value: ":5000",
			Usage: "[ip]:port for HTTP REST interface",
		},
		cli.StringFlag{
			Name:  "site",
			Value: ":5001",
			Usage: "[ip]:port for the HTML pages, empty to disable",
		},
		cli.StringFlag{
			Name:  "backend",
			Value: "memory",
			Usage: "impl[:address] of the storage backend",
		},
		cli.StringFlag{
			Name:  "seed",
			Usage: "JSON file of initial records (default: built-in dataset)",
		},
		cli.StringFlag{
			Name:  "id-policy",
			Value: "sequence",
			Usage: "memory backend ID assignment, sequence or count",
		},
		cli.IntFlag{
			Name:  "cache-size",
			Usage: "cache this many records in front of the backend",
		},
		cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "minimum level of log messages",
		},
		cli.BoolFlag{
			Name:  "log-requests",
			Usage: "log all requests",
		},
		cli.DurationFlag{
			Name:  "metrics-interval",
			Usage: "how often to update the record count gauge, 0 to disable",
		},
	}
}

func main() {
	app := cli.NewApp()
	app.Name = "appregistryd"
	app.Usage = "serve the application registry"
	app.Flags = flags()
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		logrus.WithError(err).Fatal("appregistryd failed")
	}
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Could not load configuration")
		return err
	}
	settings, err := cfg.Parse()
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err": err,
		}).Fatal("Invalid configuration")
		return err
	}
	logrus.SetLevel(settings.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apps, err := seed.Open(ctx, cfg.Seed)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err":  err,
			"seed": cfg.Seed,
		}).Fatal("Could not load seed data")
		return err
	}
	companies := registry.CompaniesOf(apps)
	logrus.WithFields(logrus.Fields{
		"applications": len(apps),
		"companies":    companies.Len(),
	}).Info("loaded seed data")

	store, err := settings.Backend.Store(ctx, apps, settings.Options)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"err":     err,
			"backend": settings.Backend.Implementation,
		}).Fatal("Could not create storage backend")
		return err
	}

	var reqLogger *logrus.Logger
	if cfg.LogRequests {
		stdlog := logrus.StandardLogger()
		reqLogger = &logrus.Logger{
			Out:       stdlog.Out,
			Formatter: stdlog.Formatter,
			Hooks:     stdlog.Hooks,
			Level:     logrus.DebugLevel,
		}
	}

	if cfg.MetricsInterval > 0 {
		obs := &observer{
			Store:    store,
			Gauge:    applicationCount,
			Clock:    clock.New(),
			Interval: cfg.MetricsInterval,
		}
		go obs.Run(ctx)
	}

	servers := []*http.Server{{
		Addr:    cfg.HTTPBind,
		Handler: newAPIHandler(store, registry.NewSchema(companies), reqLogger),
	}}
	if cfg.SiteBind != "" {
		pages, err := site.NewHandler()
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"err": err,
			}).Fatal("Could not load site templates")
			return err
		}
		servers = append(servers, &http.Server{
			Addr:    cfg.SiteBind,
			Handler: wrap(pages, reqLogger),
		})
	}

	err = serve(ctx, cfg.ShutdownTimeout, servers...)
	logrus.Info("shut down")
	return err
}
