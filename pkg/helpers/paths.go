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

package helpers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/romshelf/romshelf-core/pkg/config"
)

// DataDir returns the directory used for databases, logs and downloaded
// media. Overridable with the ROMSHELF_DATA environment variable.
func DataDir() string {
	if dir := os.Getenv(config.DataEnv); dir != "" {
		return dir
	}
	return filepath.Join(xdg.DataHome, config.AppName)
}

// ConfigDir returns the directory used for config.toml and auth.toml.
func ConfigDir() string {
	if dir := os.Getenv(config.ConfigDirEnv); dir != "" {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

// NormalizePath converts a path to an absolute, symlink-resolved, cleaned
// form. Reconciliation keys entries on this form so the same file scanned
// through different relative paths never produces two entries.
func NormalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// Dangling entries still normalize on the lexical form.
		return filepath.Clean(abs), nil //nolint:nilerr // lexical fallback is intentional
	}
	return resolved, nil
}

// HasExtension reports whether path ends in ext, case-insensitively.
// ext includes the leading dot.
func HasExtension(path, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

// Contains returns true if slice contains value.
func Contains[T comparable](xs []T, x T) bool {
	for i := range xs {
		if xs[i] == x {
			return true
		}
	}
	return false
}
