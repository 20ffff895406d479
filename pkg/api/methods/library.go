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

package methods

import (
	"errors"
	"fmt"

	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/api/models/requests"
	"github.com/romshelf/romshelf-core/pkg/api/notifications"
	"github.com/romshelf/romshelf-core/pkg/api/validation"
	"github.com/romshelf/romshelf-core/pkg/library/scanner"
)

// HandleLibraryScan reconciles scan locations against the library and
// returns the outcome. Without params the configured scan folders are
// used.
func HandleLibraryScan(env requests.RequestEnv) (any, error) {
	var locations []scanner.Location

	if len(env.Params) > 0 {
		var params models.LibraryScanParams
		if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
			return nil, err
		}
		for _, loc := range params.Locations {
			locations = append(locations, scanner.Location{
				Path:       loc.Path,
				PlatformID: loc.PlatformID,
			})
		}
	} else {
		for _, folder := range env.Config.Library().ScanFolders {
			locations = append(locations, scanner.Location{Path: folder})
		}
	}

	if len(locations) == 0 {
		return nil, errors.New("no scan locations given or configured")
	}

	outcome, err := env.Scanner.Reconcile(env.Ctx, locations)
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	if outcome.GamesAdded > 0 || outcome.GamesUpdated > 0 {
		notifications.LibraryReloaded(env.Notifications)
	}

	return outcome, nil
}
