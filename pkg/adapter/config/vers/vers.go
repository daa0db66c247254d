// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vers parses the versions section of the configuration files.
// Two versions are tracked, namely the configuration file format and
// the database schema. They are read before the rest of the file, so
// an incompatible file can be rejected before its settings are decoded.
package vers

import (
	"fmt"

	"github.com/momeni/vehicles/pkg/core/cerr"
	"github.com/momeni/vehicles/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Config may be embedded inline in the versioned config structs.
type Config struct {
	Versions Versions `yaml:"versions"`
}

// Versions contains the configuration file and database schema
// versions.
type Versions struct {
	Database model.SemVer `yaml:"database"`
	Config   model.SemVer `yaml:"config"`
}

// Load deserializes the versions of the data YAML document, ignoring
// its other items.
func Load(data []byte) (*Config, error) {
	vc := &Config{}
	if err := yaml.Unmarshal(data, vc); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	return vc, nil
}

// Check returns a *cerr.IncompatibleSemVerError if the configuration
// file version is not compatible with cfgVer or the database schema
// version is not compatible with dbVer.
func (vc *Config) Check(cfgVer, dbVer model.SemVer) error {
	v := vc.Versions
	if !cfgVer.Compatible(v.Config) {
		return fmt.Errorf("config version: %w",
			&cerr.IncompatibleSemVerError{cfgVer, v.Config})
	}
	if !dbVer.Compatible(v.Database) {
		return fmt.Errorf("database schema version: %w",
			&cerr.IncompatibleSemVerError{dbVer, v.Database})
	}
	return nil
}
