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

import "time"

// APIRequestTimeout bounds a single JSON-RPC request.
const APIRequestTimeout = 30 * time.Second

const (
	AppName    = "romshelf"
	AppVersion = "0.9.0"

	CfgFile       = "config.toml"
	AuthFile      = "auth.toml"
	LogFile       = "core.log"
	LibraryDbFile = "library.db"
	MediaDir      = "media"

	// IGDBAPIURL is the catalog endpoint credentials in auth.toml are
	// keyed against.
	IGDBAPIURL = "https://api.igdb.com"
)
