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

package scraper

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/romshelf/romshelf-core/pkg/shared/httpclient"
	"github.com/rs/zerolog/log"
)

// maxScreenshots caps how many screenshots are stored per game.
const maxScreenshots = 5

// Enricher applies catalog metadata to library entries and downloads
// their artwork into the media directory. The entry's title and rom
// path are never overwritten; enrichment only fills metadata fields.
type Enricher struct {
	cfg      *config.Instance
	db       database.LibraryDBI
	catalog  Catalog
	client   *httpclient.Client
	mediaDir string
}

func NewEnricher(
	cfg *config.Instance,
	db database.LibraryDBI,
	catalog Catalog,
	dataDir string,
) *Enricher {
	return &Enricher{
		cfg:      cfg,
		db:       db,
		catalog:  catalog,
		client:   httpclient.NewClient(),
		mediaDir: filepath.Join(dataDir, config.MediaDir),
	}
}

// EnrichGame fetches metadata for one game and persists it. With
// externalID zero the best-ranked catalog search result for the game's
// title is used; otherwise the given catalog entry is fetched directly.
// Returns the names of the fields that were updated.
func (e *Enricher) EnrichGame(
	ctx context.Context, game *database.Game, externalID int64,
) ([]string, error) {
	if externalID == 0 {
		id, err := e.bestMatch(ctx, game)
		if err != nil {
			return nil, err
		}
		externalID = id
	}

	meta, err := e.catalog.GetMetadata(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch metadata: %w", err)
	}

	params, updated := e.buildUpdate(ctx, game, meta)
	if len(updated) == 0 {
		return []string{}, nil
	}

	if err := e.db.UpdateGame(game.ID, &params); err != nil {
		return nil, fmt.Errorf("failed to save metadata: %w", err)
	}

	log.Info().
		Str("game", game.Title).
		Int64("externalId", externalID).
		Strs("fields", updated).
		Msg("enriched game metadata")
	return updated, nil
}

// Process adapts EnrichGame to the batch item processor signature.
func (e *Enricher) Process(ctx context.Context, game *database.Game) error {
	_, err := e.EnrichGame(ctx, game, 0)
	return err
}

func (e *Enricher) bestMatch(
	ctx context.Context, game *database.Game,
) (int64, error) {
	results, err := e.catalog.Search(ctx, game.Title, game.PlatformID)
	if err != nil {
		return 0, fmt.Errorf("catalog search failed: %w", err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("no catalog match for %q", game.Title)
	}
	RankResults(game.Title, results)
	return results[0].ExternalID, nil
}

func (e *Enricher) buildUpdate(
	ctx context.Context, game *database.Game, meta *GameMetadata,
) (database.UpdateGameParams, []string) {
	var params database.UpdateGameParams
	updated := make([]string, 0, 7)

	if meta.Summary != nil {
		params.Description = meta.Summary
		updated = append(updated, "description")
	}
	if meta.ReleaseDate != nil {
		params.ReleaseDate = meta.ReleaseDate
		updated = append(updated, "releaseDate")
	}
	if len(meta.Genres) > 0 {
		genres := meta.Genres
		params.Genres = &genres
		updated = append(updated, "genres")
	}
	if meta.Developer != nil {
		params.Developer = meta.Developer
		updated = append(updated, "developer")
	}
	if meta.Publisher != nil {
		params.Publisher = meta.Publisher
		updated = append(updated, "publisher")
	}

	scraperCfg := e.cfg.Scraper()

	if scraperCfg.DownloadCovers && meta.CoverURL != nil {
		coverPath := filepath.Join(e.mediaDir, "covers", game.ID+".jpg")
		if err := e.client.DownloadFile(ctx, *meta.CoverURL, coverPath); err != nil {
			log.Warn().Err(err).Str("game", game.Title).Msg("cover download failed")
		} else {
			params.CoverArtPath = &coverPath
			updated = append(updated, "coverArtPath")
		}
	}

	if scraperCfg.DownloadScreenshots && len(meta.ScreenshotURLs) > 0 {
		shots := e.downloadScreenshots(ctx, game, meta.ScreenshotURLs)
		if len(shots) > 0 {
			params.Screenshots = &shots
			updated = append(updated, "screenshots")
		}
	}

	return params, updated
}

func (e *Enricher) downloadScreenshots(
	ctx context.Context, game *database.Game, urls []string,
) []string {
	if len(urls) > maxScreenshots {
		urls = urls[:maxScreenshots]
	}

	paths := make([]string, 0, len(urls))
	for i, shotURL := range urls {
		path := filepath.Join(e.mediaDir, "screenshots",
			fmt.Sprintf("%s_%d.jpg", game.ID, i+1))
		if err := e.client.DownloadFile(ctx, shotURL, path); err != nil {
			log.Warn().Err(err).
				Str("game", game.Title).
				Str("url", shotURL).
				Msg("screenshot download failed")
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
