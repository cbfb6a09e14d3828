// Copyright 2016-2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

// Command appbench is a load-generation and scripting tool for the
// application registry.  By default it talks to a running
// appregistryd:
//
//     appbench --concurrency 16 add --count 10000
//     appbench get 777
//     appbench clear
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/diffeo/go-appregistry/backend"
	"github.com/diffeo/go-appregistry/registry"
	"github.com/diffeo/go-appregistry/restdata"
	"github.com/diffeo/go-appregistry/seed"
	"github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

type benchWork struct {
	Store       registry.Store
	Concurrency int
}

// Run calls runner from Concurrency goroutines, and at least one,
// and waits for all of them to return.
func (bench *benchWork) Run(runner func()) {
	workers := bench.Concurrency
	if workers < 1 {
		workers = 1
	}
	wg := sync.WaitGroup{}
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			runner()
		}()
	}
	wg.Wait()
}

// ForEach calls f on every int from items, in parallel, and returns
// the number of calls that failed.  Failures are logged.
func (bench *benchWork) ForEach(items <-chan int, f func(int) error) int64 {
	var failed int64
	bench.Run(func() {
		for item := range items {
			if err := f(item); err != nil {
				atomic.AddInt64(&failed, 1)
				logrus.WithField("item", item).WithError(err).Warn("failed")
			}
		}
	})
	return failed
}

var bench benchWork

func idArg(c *cli.Context) (int, error) {
	if c.NArg() != 1 {
		return 0, cli.NewExitError("expected exactly one application id", 2)
	}
	return strconv.Atoi(c.Args().First())
}

func printJSON(v interface{}) error {
	if err := restdata.Encode(os.Stdout, v); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

var listApps = cli.Command{
	Name:  "list",
	Usage: "print every application record",
	Action: func(c *cli.Context) error {
		apps, err := bench.Store.List(context.Background())
		if err != nil {
			return err
		}
		return printJSON(apps)
	},
}

var getApp = cli.Command{
	Name:      "get",
	Usage:     "print one application record",
	ArgsUsage: "id",
	Action: func(c *cli.Context) error {
		id, err := idArg(c)
		if err != nil {
			return err
		}
		app, err := bench.Store.Get(context.Background(), id)
		if err != nil {
			return err
		}
		return printJSON(app)
	},
}

var addApps = cli.Command{
	Name:  "add",
	Usage: "create many application records",
	Flags: []cli.Flag{
		cli.IntFlag{
			Name:  "count",
			Value: 100,
			Usage: "number of records to create",
		},
		cli.StringFlag{
			Name:  "company",
			Value: "Littel-Collier",
			Usage: "company name for the new records",
		},
	},
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		count := c.Int("count")
		company := c.String("company")
		numbers := make(chan int)
		go func() {
			for i := 1; i <= count; i++ {
				numbers <- i
			}
			close(numbers)
		}()
		start := time.Now()
		failed := bench.ForEach(numbers, func(i int) error {
			name := uuid.NewV4().String()
			_, err := bench.Store.Create(ctx, registry.Application{
				AppName:     name[:8],
				AppVersion:  "1." + strconv.Itoa(i),
				Logo:        name + ".png",
				CompanyName: company,
			})
			return err
		})
		logrus.WithFields(logrus.Fields{
			"created":  int64(count) - failed,
			"failed":   failed,
			"duration": time.Since(start),
		}).Info("add finished")
		return nil
	},
}

var deleteApp = cli.Command{
	Name:      "delete",
	Usage:     "delete one application record",
	ArgsUsage: "id",
	Action: func(c *cli.Context) error {
		id, err := idArg(c)
		if err != nil {
			return err
		}
		return bench.Store.Delete(context.Background(), id)
	},
}

var clearApps = cli.Command{
	Name:  "clear",
	Usage: "delete all of the application records",
	Action: func(c *cli.Context) error {
		ctx := context.Background()
		apps, err := bench.Store.List(ctx)
		if err != nil {
			return err
		}
		ids := make(chan int)
		go func() {
			for _, app := range apps {
				ids <- app.ID
			}
			close(ids)
		}()
		start := time.Now()
		failed := bench.ForEach(ids, func(id int) error {
			err := bench.Store.Delete(ctx, id)
			if registry.IsNotFound(err) {
				// Someone else got there first
				err = nil
			}
			return err
		})
		logrus.WithFields(logrus.Fields{
			"deleted":  int64(len(apps)) - failed,
			"failed":   failed,
			"duration": time.Since(start),
		}).Info("clear finished")
		return nil
	},
}

func main() {
	storage := backend.Backend{Implementation: "rest", Address: "http://localhost:5000/"}
	app := cli.NewApp()
	app.Name = "appbench"
	app.Usage = "benchmark the application registry"
	app.Flags = []cli.Flag{
		cli.GenericFlag{
			Name:  "backend",
			Value: &storage,
			Usage: "impl:[address] of registry backend",
		},
		cli.IntFlag{
			Name:  "concurrency",
			Value: runtime.NumCPU(),
			Usage: "run this many jobs in parallel",
		},
	}
	app.Commands = []cli.Command{
		listApps,
		getApp,
		addApps,
		deleteApp,
		clearApps,
	}
	app.Before = func(c *cli.Context) (err error) {
		// A memory backend starts from the built-in dataset; a
		// database is used as it stands
		apps, err := seed.Default()
		if err != nil {
			return
		}
		bench.Store, err = storage.Store(context.Background(), apps, backend.Options{Attach: true})
		if err != nil {
			return
		}
		bench.Concurrency = c.Int("concurrency")
		return
	}
	app.RunAndExitOnError()
}
