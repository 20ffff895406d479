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
	"errors"
	"net/url"
	"os"
	"strings"
	"sync/atomic"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
)

var ErrNoConfigPath = errors.New("no config file path configured")

// CredentialEntry holds authentication credentials for a URL. For the IGDB
// catalog, username is the Twitch client ID and password the client secret.
type CredentialEntry struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Bearer   string `toml:"bearer"`
}

type authFormat struct {
	Creds map[string]CredentialEntry `toml:"creds"`
}

// Credentials are kept in a process-wide atomic value, outside the config
// instance, so the HTTP transport can consult them without a config handle.
var authCfg atomic.Value

func GetAuthCfg() map[string]CredentialEntry {
	val := authCfg.Load()
	if val == nil {
		return nil
	}
	creds, ok := val.(map[string]CredentialEntry)
	if !ok {
		return nil
	}
	return creds
}

func SetAuthCfg(creds map[string]CredentialEntry) {
	authCfg.Store(creds)
}

func loadAuthFile(path string) {
	data, err := os.ReadFile(path) // #nosec G304 - path set at startup
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("failed to read auth file")
		}
		return
	}
	SetAuthCfg(LoadAuthFromData(data))
}

// LoadAuthFromData parses auth.toml data. Entries may live at the root level
// (["https://example.com"]) or under a [creds."url"] table; both are merged.
func LoadAuthFromData(data []byte) map[string]CredentialEntry {
	result := make(map[string]CredentialEntry)

	var root map[string]CredentialEntry
	if err := toml.Unmarshal(data, &root); err == nil {
		for k, v := range root {
			if k != "creds" {
				result[k] = v
			}
		}
	}

	var wrapped authFormat
	if err := toml.Unmarshal(data, &wrapped); err == nil {
		for k, v := range wrapped.Creds {
			result[k] = v
		}
	}

	return result
}

// LookupAuth finds credentials for a URL. An exact scheme+host+path-prefix
// match wins; a schemeless "host:port" entry matches any scheme.
func LookupAuth(creds map[string]CredentialEntry, reqURL string) *CredentialEntry {
	if len(creds) == 0 {
		return nil
	}

	u, err := url.Parse(reqURL)
	if err != nil {
		log.Warn().Msgf("invalid auth request url: %s", reqURL)
		return nil
	}

	for k, v := range creds {
		if !strings.Contains(k, "://") {
			continue
		}
		defURL, parseErr := url.Parse(k)
		if parseErr != nil {
			log.Error().Msgf("invalid auth config url: %s", k)
			continue
		}
		if strings.EqualFold(defURL.Scheme, u.Scheme) &&
			strings.EqualFold(defURL.Host, u.Host) &&
			strings.HasPrefix(u.Path, defURL.Path) {
			return &v
		}
	}

	for k, v := range creds {
		if strings.Contains(k, "://") {
			continue
		}
		if strings.EqualFold(k, u.Host) {
			return &v
		}
	}

	return nil
}
