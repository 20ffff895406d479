// Romshelf Core
// Copyright (c) 2025 The Romshelf Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Romshelf Core.
//
// Romshelf Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Romshelf Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Romshelf Core.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/romshelf/romshelf-core/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

const (
	SchemaVersion = 1
	CfgEnv        = "ROMSHELF_CFG"
	DataEnv       = "ROMSHELF_DATA"
	ConfigDirEnv  = "ROMSHELF_CONFIG"
)

type Values struct {
	Library      Library `toml:"library,omitempty"`
	Scraper      Scraper `toml:"scraper,omitempty"`
	Service      Service `toml:"service,omitempty"`
	ConfigSchema int     `toml:"config_schema"`
	DebugLogging bool    `toml:"debug_logging"`
}

// Library holds scanning defaults.
type Library struct {
	// ScanFolders are locations scanned when a scan request carries no
	// explicit paths.
	ScanFolders []string `toml:"scan_folders,omitempty,multiline"`
	// FollowSymlinks enables traversal into symlinked directories.
	FollowSymlinks bool `toml:"follow_symlinks"`
}

// Scraper holds metadata catalog settings.
type Scraper struct {
	// Region preference forwarded to the catalog, e.g. "us".
	Region string `toml:"region,omitempty"`
	// DownloadCovers fetches cover art during enrichment.
	DownloadCovers bool `toml:"download_covers"`
	// DownloadScreenshots fetches screenshots during enrichment.
	DownloadScreenshots bool `toml:"download_screenshots"`
}

// Service holds API server settings.
type Service struct {
	AllowedOrigins []string `toml:"allowed_origins,omitempty,multiline"`
	APIPort        int      `toml:"api_port"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Library: Library{
		FollowSymlinks: true,
	},
	Scraper: Scraper{
		DownloadCovers:      true,
		DownloadScreenshots: true,
	},
	Service: Service{
		APIPort: 7910,
	},
}

type Instance struct {
	cfgPath  string
	authPath string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

//nolint:gocritic // config struct copied for immutability
func NewConfig(configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	cfg := Instance{
		mu:       syncutil.RWMutex{},
		cfgPath:  cfgPath,
		authPath: filepath.Join(configDir, AuthFile),
		vals:     defaults,
		defaults: defaults,
	}

	if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
		log.Info().Msg("saving new default config to disk")

		err := os.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err := cfg.Load()
	if err != nil {
		return nil, err
	}

	loadAuthFile(cfg.authPath)

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return ErrNoConfigPath
	}

	data, err := os.ReadFile(c.cfgPath) // #nosec G304 - path set at startup
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	newVals := c.defaults
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if newVals.ConfigSchema > SchemaVersion {
		log.Warn().
			Int("schema", newVals.ConfigSchema).
			Msg("config schema is newer than this build")
	}

	c.vals = newVals
	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveLocked()
}

func (c *Instance) saveLocked() error {
	if c.cfgPath == "" {
		return ErrNoConfigPath
	}

	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	err = os.WriteFile(c.cfgPath, data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func (c *Instance) Path() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfgPath
}

func (c *Instance) Library() Library {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Library
}

func (c *Instance) SetScanFolders(folders []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Library.ScanFolders = folders
}

func (c *Instance) Scraper() Scraper {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Scraper
}

func (c *Instance) Service() Service {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service
}

func (c *Instance) APIPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.APIPort
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
}
