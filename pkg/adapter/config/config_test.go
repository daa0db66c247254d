// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/momeni/vehicles/pkg/adapter/config"
	"github.com/momeni/vehicles/pkg/core/cerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadSampleConfig(t *testing.T) {
	for _, k := range []string{
		"DATABASE_URL", "LISTEN_ADDR", "PRICING_ENDPOINT",
		"MAPS_ENDPOINT", "REDIS_ADDR",
	} {
		t.Setenv(k, "")
	}
	c, err := config.Load("../../../configs/sample-config.yaml")
	require.NoError(t, err)
	assert.Equal(t, "vehicles", c.Database.Name)
	assert.Equal(t, "http://localhost:8082", *c.Collaborators.Pricing.Endpoint)
}

func TestLoadRejectsIncompatibleDatabase(t *testing.T) {
	path := write(t, "c.yaml", `
database: {name: vehicles}
versions: {config: 1.0.0, database: 2.0.0}
`)
	_, err := config.Load(path)
	var isve *cerr.IncompatibleSemVerError
	assert.ErrorAs(t, err, &isve)
	assert.ErrorContains(t, err, "database schema version")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("VEHICLES_DOTENV_KEPT", "from-env")
	path := write(t, ".env",
		"VEHICLES_DOTENV_NEW=from-file\nVEHICLES_DOTENV_KEPT=from-file\n")
	t.Cleanup(func() { os.Unsetenv("VEHICLES_DOTENV_NEW") })

	require.NoError(t, config.LoadDotEnv(path, path+".missing"))
	assert.Equal(t, "from-file", os.Getenv("VEHICLES_DOTENV_NEW"))
	assert.Equal(t, "from-env", os.Getenv("VEHICLES_DOTENV_KEPT"))
}

func TestPath(t *testing.T) {
	t.Setenv(config.EnvConfigFile, "")
	assert.Equal(t, config.DefaultPath, config.Path(""))
	t.Setenv(config.EnvConfigFile, "/etc/vehicles.yaml")
	assert.Equal(t, "/etc/vehicles.yaml", config.Path(""))
	assert.Equal(t, "x.yaml", config.Path("x.yaml"))
}
