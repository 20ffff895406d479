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
	"github.com/romshelf/romshelf-core/pkg/scraper"
)

func HandleCatalogSearch(env requests.RequestEnv) (any, error) {
	if env.Catalog == nil {
		return nil, errors.New("no metadata catalog configured")
	}

	var params models.CatalogSearchParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	results, err := env.Catalog.Search(env.Ctx, params.Query, params.PlatformID)
	if err != nil {
		return nil, fmt.Errorf("catalog search failed: %w", err)
	}

	scraper.RankResults(params.Query, results)
	return results, nil
}

// HandleCatalogScrape enriches a single game. Enrichment failure is
// returned as an unsuccessful result rather than a JSON-RPC error so
// the client can show the reason inline.
func HandleCatalogScrape(env requests.RequestEnv) (any, error) {
	if env.Enricher == nil {
		return nil, errors.New("no metadata catalog configured")
	}

	var params models.CatalogScrapeParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	game, err := env.Database.GetGame(params.GameID)
	if err != nil {
		return nil, fmt.Errorf("unknown game: %s", params.GameID)
	}

	updated, err := env.Enricher.EnrichGame(env.Ctx, game, params.ExternalID)
	if err != nil {
		return models.ScrapeResult{
			Error:         err.Error(),
			FieldsUpdated: []string{},
			Success:       false,
		}, nil
	}

	if len(updated) > 0 {
		notifications.LibraryReloaded(env.Notifications)
	}

	return models.ScrapeResult{
		FieldsUpdated: updated,
		Success:       true,
	}, nil
}
