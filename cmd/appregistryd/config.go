// Copyright 2015-2018 Diffeo, Inc.
// This software is released under an MIT/X11 open source license.

package main

import (
	"io/ioutil"
	"time"

	"github.com/diffeo/go-appregistry/backend"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"gopkg.in/yaml.v2"
)

// config holds the daemon settings.  Each setting can come from the
// YAML configuration file, under the key in its mapstructure tag, or
// from the matching command-line flag; flags win.
type config struct {
	HTTPBind        string        `mapstructure:"http_bind"`
	SiteBind        string        `mapstructure:"site_bind"`
	Backend         string        `mapstructure:"backend"`
	Seed            string        `mapstructure:"seed"`
	IDPolicy        string        `mapstructure:"id_policy"`
	CacheSize       int           `mapstructure:"cache_size"`
	LogLevel        string        `mapstructure:"log_level"`
	LogRequests     bool          `mapstructure:"log_requests"`
	MetricsInterval time.Duration `mapstructure:"metrics_interval"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func defaultConfig() config {
	return config{
		HTTPBind:        ":5000",
		SiteBind:        ":5001",
		Backend:         "memory",
		IDPolicy:        "sequence",
		LogLevel:        "info",
		MetricsInterval: 15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// settings is the parsed form of a config.
type settings struct {
	Backend  backend.Backend
	Options  backend.Options
	LogLevel logrus.Level
}

// Parse checks the string-valued settings.
func (cfg config) Parse() (s settings, err error) {
	if err = s.Backend.Set(cfg.Backend); err != nil {
		return
	}
	if err = s.Options.IDPolicy.Set(cfg.IDPolicy); err != nil {
		return
	}
	s.Options.CacheSize = cfg.CacheSize
	s.LogLevel, err = logrus.ParseLevel(cfg.LogLevel)
	return
}

func loadConfigYaml(filename string) (map[string]interface{}, error) {
	var result map[string]interface{}
	var err error
	var bytes []byte
	bytes, err = ioutil.ReadFile(filename)
	if err == nil {
		err = yaml.Unmarshal(bytes, &result)
	}
	return result, err
}

// decodeConfig overlays a generic configuration map onto cfg.
// Durations may be written as strings like "30s".
func decodeConfig(raw map[string]interface{}, cfg *config) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// loadConfig builds the configuration for a command invocation,
// starting from the defaults, then the configuration file if one is
// named, then any flags that were explicitly set.
func loadConfig(c *cli.Context) (config, error) {
	cfg := defaultConfig()
	if filename := c.String("config"); filename != "" {
		raw, err := loadConfigYaml(filename)
		if err != nil {
			return cfg, err
		}
		if err = decodeConfig(raw, &cfg); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("http") {
		cfg.HTTPBind = c.String("http")
	}
	if c.IsSet("site") {
		cfg.SiteBind = c.String("site")
	}
	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.String("seed")
	}
	if c.IsSet("id-policy") {
		cfg.IDPolicy = c.String("id-policy")
	}
	if c.IsSet("cache-size") {
		cfg.CacheSize = c.Int("cache-size")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-requests") {
		cfg.LogRequests = c.Bool("log-requests")
	}
	if c.IsSet("metrics-interval") {
		cfg.MetricsInterval = c.Duration("metrics-interval")
	}
	return cfg, nil
}
