// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/AleutianAI/OrgAtlas/pkg/ux"
	"github.com/AleutianAI/OrgAtlas/services/insight"
	"gopkg.in/yaml.v3"
)

// CLIConfig mirrors the optional orgatlas.yaml configuration file.
// Command-line flags take precedence over file values.
type CLIConfig struct {
	Data struct {
		Path        string `yaml:"path"`
		Catalog     string `yaml:"catalog"`
		Strict      bool   `yaml:"strict"`
		SkipUnknown bool   `yaml:"skip_unknown"`
	} `yaml:"data"`
	Server struct {
		Port      int     `yaml:"port"`
		RateLimit float64 `yaml:"rate_limit"`
		RateBurst int     `yaml:"rate_burst"`
	} `yaml:"server"`
	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`
}

var config CLIConfig

// loadConfigFile reads the optional YAML configuration file. A missing
// file is fine; a present but unparsable one is fatal.
func loadConfigFile(path string) {
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		log.Fatalf("Error reading %s: %v", path, err)
	}

	if err := yaml.Unmarshal(yamlFile, &config); err != nil {
		log.Fatalf("Error parsing %s: %v", path, err)
	}
}

// resolveDataPath returns the snapshot path, flag over config file.
func resolveDataPath() string {
	if dataPath != "" {
		return dataPath
	}
	return config.Data.Path
}

// resolveCatalogPath returns the catalog path, flag over config file.
func resolveCatalogPath() string {
	if catalogPath != "" {
		return catalogPath
	}
	return config.Data.Catalog
}

// resolveStorePath returns the record store directory, flag over config file.
func resolveStorePath() string {
	if storeDBPath != "" {
		return storeDBPath
	}
	return config.Store.Path
}

// newServiceConfig assembles an Insight service configuration from
// flags and the optional config file.
func newServiceConfig() insight.ServiceConfig {
	cfg := insight.DefaultServiceConfig()
	cfg.DataPath = resolveDataPath()
	cfg.CatalogPath = resolveCatalogPath()
	cfg.StrictEndpoints = strictEndpoints || config.Data.Strict
	cfg.SkipUnknown = skipUnknown || config.Data.SkipUnknown
	return cfg
}

// loadService builds the Insight service and loads the snapshot,
// showing a spinner while the load runs.
//
// Outputs:
//
//	*insight.Service - Ready for queries.
//	error - Non-nil when no data path is configured or the load fails.
func loadService(ctx context.Context) (*insight.Service, error) {
	cfg := newServiceConfig()
	if cfg.DataPath == "" {
		return nil, fmt.Errorf("no snapshot configured: pass --data or set data.path in %s", configPath)
	}

	svc, err := insight.NewService(cfg)
	if err != nil {
		return nil, err
	}

	// JSON and quiet modes keep stdout machine-parsable, so no spinner.
	if jsonOutput || quietOutput {
		if _, err := svc.Load(ctx); err != nil {
			return nil, err
		}
		return svc, nil
	}

	err = ux.WithSpinner(fmt.Sprintf("Loading snapshot %s", cfg.DataPath), func() error {
		_, loadErr := svc.Load(ctx)
		return loadErr
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}
