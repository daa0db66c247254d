// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the vehicles service to instantiate
// different components, from the adapter or use cases layers, using
// those loaded configuration settings.
// These settings are versioned and maintained by sub-packages (like
// cfg1). The parsed and validated configurations are passed to their
// ultimate components as a series of individual params (for the
// mandatory items) and a series of functional options (for the
// optional items).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/momeni/vehicles/pkg/adapter/config/cfg1"
	"github.com/momeni/vehicles/pkg/adapter/config/vers"
	"github.com/momeni/vehicles/pkg/adapter/db/postgres"
)

// EnvConfigFile names the environment variable which may select the
// configuration file path.
const EnvConfigFile = "CONFIG_FILE"

// DefaultPath is the configuration file path which is used when no
// path is given explicitly or by the $CONFIG_FILE.
const DefaultPath = "configs/sample-config.yaml"

// LoadDotEnv loads the environment variables from the given .env
// files (or the .env file of the working directory if no file is
// given). Variables which are already set are not overridden.
// Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %q: %w", f, err)
		}
	}
	return nil
}

// Path returns flagPath if it is not empty. Otherwise, it returns the
// $CONFIG_FILE or the DefaultPath.
func Path(flagPath string) string {
	if flagPath != "" {
		return flagPath
	}
	if p := strings.TrimSpace(os.Getenv(EnvConfigFile)); p != "" {
		return p
	}
	return DefaultPath
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
// Given path must belong to a configuration file which is compatible
// with the latest known configuration settings format, and its
// database schema version must be compatible with the latest known
// database schema version.
func Load(path string) (*cfg1.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	v, err := vers.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading versions: %w", err)
	}
	if err := v.Check(cfg1.Version, postgres.Version); err != nil {
		return nil, err
	}
	c, err := cfg1.Load(data)
	if err != nil {
		return nil, fmt.Errorf("loading cfg1.Config: %w", err)
	}
	return c, nil
}
