// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
// Settings are read from a YAML document, then a few of them may be
// overridden by environment variables, and finally they are validated
// and their missing items are filled with defaults.
package cfg1

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/momeni/vehicles/pkg/adapter/config/settings"
	"github.com/momeni/vehicles/pkg/adapter/config/vers"
	"github.com/momeni/vehicles/pkg/adapter/db/postgres"
	"github.com/momeni/vehicles/pkg/core/cerr"
	"github.com/momeni/vehicles/pkg/core/model"
	"github.com/momeni/vehicles/pkg/core/usecase/carsuc"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// Environment variables which override the configuration file.
const (
	EnvDatabaseURL     = "DATABASE_URL"
	EnvListenAddr      = "LISTEN_ADDR"
	EnvPricingEndpoint = "PRICING_ENDPOINT"
	EnvMapsEndpoint    = "MAPS_ENDPOINT"
	EnvRedisAddr       = "REDIS_ADDR"
)

// Default endpoints of the collaborators.
const (
	DefaultPricingEndpoint = "http://localhost:8082"
	DefaultMapsEndpoint    = "http://localhost:9191"
)

// Config contains all settings which are required by different parts
// of the project following the v1.x.y format. It is implemented with
// primitive fields and locally defined structs, so the configuration
// format can be versioned while other layers change freely.
type Config struct {
	Database      Database      `yaml:"database"`
	Gin           Gin           `yaml:"gin"`
	Logging       Logging       `yaml:"logging"`
	Collaborators Collaborators `yaml:"collaborators"`
	Redis         Redis         `yaml:"redis"`

	// Vers contains the configuration file and database schema version
	// strings corresponding to this Config instance and its Database
	// target.
	Vers vers.Config `yaml:",inline"`
}

// Database contains the database related configuration settings.
type Database struct {
	Host    string `yaml:"host"`     // domain name or IP address of DBMS
	Port    int    `yaml:"port"`     // port number of the DBMS server
	Name    string `yaml:"name"`     // database name, like vehicles
	PassDir string `yaml:"pass-dir"` // path of the .pgpass file dir
	Role    string `yaml:"role"`     // database role (user) name

	// URL is a complete connection string which takes precedence over
	// the other fields. It is only taken from $DATABASE_URL.
	URL string `yaml:"-"`
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so missing settings can be detected
// and filled by their defaults.
type Gin struct {
	Listen    *string   `yaml:"listen"`   // like :8080
	Logger    *bool     `yaml:"logger"`   // log each request
	Recovery  *bool     `yaml:"recovery"` // recover from panics
	RateLimit RateLimit `yaml:"rate-limit"`
}

// RateLimit contains the per client rate limiting settings.
// A zero RPS disables the rate limiting.
type RateLimit struct {
	RPS   *float64 `yaml:"rps"`
	Burst *int     `yaml:"burst"`
}

// Logging contains the slog default logger settings.
type Logging struct {
	Level  *string `yaml:"level"`  // debug, info, warn, or error
	Format *string `yaml:"format"` // json or text
}

// Collaborators contains the pricing and maps clients settings and
// the enrichment policy of the cars use case.
type Collaborators struct {
	// Lenient asks the cars use case to use fallback values when a
	// collaborator fails, instead of failing the request.
	Lenient       *bool   `yaml:"lenient"`
	FallbackPrice *string `yaml:"fallback-price"`

	Pricing Endpoint `yaml:"pricing"`
	Maps    Endpoint `yaml:"maps"`

	// TimeoutMinimum and TimeoutMaximum are the inclusive boundaries
	// of the collaborators timeouts. A missing value indicates that
	// there is no boundary on that side.
	TimeoutMinimum *settings.Duration `yaml:"timeout-minimum"`
	TimeoutMaximum *settings.Duration `yaml:"timeout-maximum"`

	Health Health `yaml:"health"`
}

// Endpoint contains the settings of one collaborator client.
type Endpoint struct {
	Endpoint *string           `yaml:"endpoint"`
	Timeout  *settings.Duration `yaml:"timeout"`
}

// Health contains the periodic collaborators probing settings.
type Health struct {
	Schedule     *string            `yaml:"schedule"` // cron spec
	ProbeTimeout *settings.Duration `yaml:"probe-timeout"`
}

// Redis contains the idempotency keys store settings.
// An empty address disables the idempotency checks.
type Redis struct {
	Addr           *string            `yaml:"addr"`
	Prefix         *string            `yaml:"prefix"`
	IdempotencyTTL *settings.Duration `yaml:"idempotency-ttl"`
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
func (c *Config) ConnectionPool(ctx context.Context) (*postgres.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx)
	if err != nil {
		name, host, port := c.Database.ConnectionInfo()
		return nil, fmt.Errorf(
			"connecting to %q database at %s:%d: %w", name, host, port, err,
		)
	}
	return p, nil
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `d` settings.
// If the URL is not set, the .pgpass file in the d.PassDir folder is
// read, expecting lines like this:
//
//	host:port:dbname:role:password
func (d Database) ConnectionPool(ctx context.Context) (*postgres.Pool, error) {
	u := d.URL
	if u == "" {
		path := filepath.Join(d.PassDir, ".pgpass")
		var err error
		u, err = d.ConnectionURL(path)
		if err != nil {
			return nil, fmt.Errorf("using %q pass-file: %w", path, err)
		}
	}
	return postgres.NewPool(ctx, u)
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. The password is
// read from the `path` file which may contain empty or `#`-commented
// lines in addition to the pgpass formatted lines.
func (d Database) ConnectionURL(path string) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, d.Role)
	var pass string
	for _, line := range strings.Split(string(passLines), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || line[0] == '#' {
			continue
		}
		if strings.HasPrefix(line, prfx) {
			pass = line[len(prfx):]
			break
		}
	}
	if pass == "" {
		return "", fmt.Errorf("no matching password line")
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(d.Role, pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// ConnectionInfo returns the host, port, and database name of the
// connection information which are kept in this Database instance.
func (d Database) ConnectionInfo() (dbName, host string, port int) {
	return d.Name, d.Host, d.Port
}

// ValidateAndNormalize fills the default host, port, and role and
// ensures that a database name is given (unless URL is set).
func (d *Database) ValidateAndNormalize() error {
	if d.URL != "" {
		return nil
	}
	if d.Host == "" {
		d.Host = "localhost"
	}
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.Port < 0 || d.Port > 65535 {
		return fmt.Errorf("invalid port number: %d", d.Port)
	}
	if d.Role == "" {
		d.Role = "vehicles"
	}
	if d.Name == "" {
		return fmt.Errorf("database name is missing")
	}
	return nil
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. The environment variables override their corresponding
// settings before validation.
func Load(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, fmt.Errorf("applying environment variables: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides the settings which have a corresponding
// environment variable.
func (c *Config) ApplyEnv() error {
	if u := strings.TrimSpace(os.Getenv(EnvDatabaseURL)); u != "" {
		c.Database.URL = u
	}
	for _, e := range []struct {
		dst **string
		key string
	}{
		{&c.Gin.Listen, EnvListenAddr},
		{&c.Collaborators.Pricing.Endpoint, EnvPricingEndpoint},
		{&c.Collaborators.Maps.Endpoint, EnvMapsEndpoint},
		{&c.Redis.Addr, EnvRedisAddr},
	} {
		ok, err := settings.FromEnv(e.dst, e.key)
		if err != nil {
			return err
		}
		if ok {
			slog.Debug("setting is overridden by environment",
				slog.String("env", e.key))
		}
	}
	return nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It also replaces the
// missing settings with their default values.
func (c *Config) ValidateAndNormalize() error {
	if v := c.Vers.Versions.Config; !Version.Compatible(v) {
		return &cerr.IncompatibleSemVerError{Version, v}
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	settings.Default(&c.Gin.Listen, ":8080")
	settings.Default(&c.Gin.Logger, true)
	settings.Default(&c.Gin.Recovery, true)
	settings.Nil2Zero(&c.Gin.RateLimit.RPS)
	settings.Nil2Zero(&c.Gin.RateLimit.Burst)
	if *c.Gin.RateLimit.RPS < 0 || *c.Gin.RateLimit.Burst < 0 {
		return fmt.Errorf("rate-limit rps and burst may not be negative")
	}
	if err := c.Logging.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating logging settings: %w", err)
	}
	if err := c.Collaborators.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating collaborators settings: %w", err)
	}
	settings.Nil2Zero(&c.Redis.Addr)
	settings.Default(&c.Redis.Prefix, "vehicles:idem")
	settings.Default(&c.Redis.IdempotencyTTL, settings.Duration(24*time.Hour))
	if *c.Redis.IdempotencyTTL <= 0 {
		return fmt.Errorf("redis idempotency-ttl must be positive")
	}
	return nil
}

// ValidateAndNormalize fills the default level (info) and format
// (json) and rejects unknown values.
func (l *Logging) ValidateAndNormalize() error {
	settings.Default(&l.Level, "info")
	settings.Default(&l.Format, "json")
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(*l.Level)); err != nil {
		return fmt.Errorf("level: %w", err)
	}
	switch *l.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown format: %q", *l.Format)
	}
	return nil
}

// ValidateAndNormalize fills the default endpoints, timeouts, and
// health probing schedule, and verifies that the timeouts are within
// the TimeoutMinimum and TimeoutMaximum boundaries.
func (cs *Collaborators) ValidateAndNormalize() error {
	settings.Default(&cs.Lenient, false)
	settings.Default(&cs.FallbackPrice, carsuc.DefaultFallbackPrice)
	settings.Default(&cs.Pricing.Endpoint, DefaultPricingEndpoint)
	settings.Default(&cs.Maps.Endpoint, DefaultMapsEndpoint)
	def := settings.Duration(2 * time.Second)
	settings.Default(&cs.Pricing.Timeout, def)
	settings.Default(&cs.Maps.Timeout, def)
	settings.Default(&cs.Health.Schedule, "@every 30s")
	settings.Default(&cs.Health.ProbeTimeout, def)
	for name, t := range map[string]**settings.Duration{
		"pricing timeout":      &cs.Pricing.Timeout,
		"maps timeout":         &cs.Maps.Timeout,
		"health probe-timeout": &cs.Health.ProbeTimeout,
	} {
		if **t <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
		err := settings.VerifyRange(t, cs.TimeoutMinimum, cs.TimeoutMaximum)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if *cs.FallbackPrice == "" {
		return fmt.Errorf("fallback-price may not be empty")
	}
	return nil
}
