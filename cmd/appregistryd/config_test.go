// Copyright 2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/diffeo/go-appregistry/memory"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

// runConfig runs a command with the daemon's flags and returns the
// configuration it would use.
func runConfig(t *testing.T, args ...string) (cfg config, err error) {
	app := cli.NewApp()
	app.Flags = flags()
	app.Action = func(c *cli.Context) error {
		cfg, err = loadConfig(c)
		return nil
	}
	require.NoError(t, app.Run(append([]string{"appregistryd"}, args...)))
	return
}

func writeConfig(t *testing.T, content string) string {
	dir, err := ioutil.TempDir("", "appregistryd")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	filename := filepath.Join(dir, "config.yaml")
	require.NoError(t, ioutil.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestDefaults(t *testing.T) {
	cfg, err := runConfig(t)
	if assert.NoError(t, err) {
		assert.Equal(t, defaultConfig(), cfg)
	}
}

func TestConfigFile(t *testing.T) {
	filename := writeConfig(t, `
http_bind: ":8000"
site_bind: ""
backend: "postgres://localhost/apps"
cache_size: "50"
metrics_interval: 1m
`)
	cfg, err := runConfig(t, "--config", filename)
	if assert.NoError(t, err) {
		assert.Equal(t, ":8000", cfg.HTTPBind)
		assert.Equal(t, "", cfg.SiteBind)
		assert.Equal(t, "postgres://localhost/apps", cfg.Backend)
		assert.Equal(t, 50, cfg.CacheSize)
		assert.Equal(t, time.Minute, cfg.MetricsInterval)
		// Not in the file
		assert.Equal(t, "sequence", cfg.IDPolicy)
	}
}

func TestFlagsOverrideFile(t *testing.T) {
	filename := writeConfig(t, "http_bind: \":8000\"\nlog_level: warn\n")
	cfg, err := runConfig(t, "--config", filename,
		"--http", ":9000", "--id-policy", "count", "--metrics-interval", "5s")
	if assert.NoError(t, err) {
		assert.Equal(t, ":9000", cfg.HTTPBind)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, "count", cfg.IDPolicy)
		assert.Equal(t, 5*time.Second, cfg.MetricsInterval)
	}
}

func TestConfigEnv(t *testing.T) {
	filename := writeConfig(t, "cache_size: 7\n")
	os.Setenv("APPREGISTRY_CONFIG", filename)
	defer os.Unsetenv("APPREGISTRY_CONFIG")
	cfg, err := runConfig(t)
	if assert.NoError(t, err) {
		assert.Equal(t, 7, cfg.CacheSize)
	}
}

func TestConfigUnknownKey(t *testing.T) {
	filename := writeConfig(t, "http_port: 8000\n")
	_, err := runConfig(t, "--config", filename)
	assert.Error(t, err)
}

func TestConfigMissingFile(t *testing.T) {
	_, err := runConfig(t, "--config", "/nonexistent/appregistryd.yaml")
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	cfg := defaultConfig()
	cfg.Backend = "rest:http://localhost:5000/"
	cfg.IDPolicy = "count"
	cfg.CacheSize = 10
	cfg.LogLevel = "debug"
	s, err := cfg.Parse()
	if assert.NoError(t, err) {
		assert.Equal(t, "rest", s.Backend.Implementation)
		assert.Equal(t, "http://localhost:5000/", s.Backend.Address)
		assert.Equal(t, memory.IDCount, s.Options.IDPolicy)
		assert.Equal(t, 10, s.Options.CacheSize)
		assert.Equal(t, logrus.DebugLevel, s.LogLevel)
	}

	for _, bad := range []func(*config){
		func(c *config) { c.Backend = "sqlite" },
		func(c *config) { c.IDPolicy = "random" },
		func(c *config) { c.LogLevel = "chatty" },
	} {
		cfg := defaultConfig()
		bad(&cfg)
		_, err := cfg.Parse()
		assert.Error(t, err)
	}
}
