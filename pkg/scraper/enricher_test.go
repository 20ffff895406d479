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
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/romshelf/romshelf-core/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	meta       *GameMetadata
	searchErr  error
	metaErr    error
	results    []SearchResult
	lastSearch string
	lastMetaID int64
}

func (f *fakeCatalog) Search(_ context.Context, query, _ string) ([]SearchResult, error) {
	f.lastSearch = query
	return f.results, f.searchErr
}

func (f *fakeCatalog) GetMetadata(_ context.Context, externalID int64) (*GameMetadata, error) {
	f.lastMetaID = externalID
	return f.meta, f.metaErr
}

func testEnv(t *testing.T) (*config.Instance, *helpers.MemoryLibrary, string) {
	t.Helper()

	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)

	db := helpers.NewMemoryLibrary()
	require.NoError(t, db.AddGame(&database.Game{
		ID:         "game-1",
		Title:      "Chrono Trigger",
		RomPath:    "/roms/snes/Chrono Trigger.sfc",
		PlatformID: "snes",
	}))

	return cfg, db, t.TempDir()
}

func TestEnrichGameAppliesMetadata(t *testing.T) {
	cfg, db, dataDir := testEnv(t)

	imageSrv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("jpeg-bytes"))
		}))
	defer imageSrv.Close()

	catalog := &fakeCatalog{
		results: []SearchResult{{ExternalID: 1068, Name: "Chrono Trigger"}},
		meta: &GameMetadata{
			ExternalID:     1068,
			Name:           "Chrono Trigger",
			Summary:        strPtr("A journey across time."),
			ReleaseDate:    strPtr("1995-03-11"),
			Genres:         []string{"RPG"},
			Developer:      strPtr("Square"),
			Publisher:      strPtr("Square"),
			CoverURL:       strPtr(imageSrv.URL + "/cover.jpg"),
			ScreenshotURLs: []string{imageSrv.URL + "/shot1.jpg"},
		},
	}

	enricher := NewEnricher(cfg, db, catalog, dataDir)
	game, err := db.GetGame("game-1")
	require.NoError(t, err)

	updated, err := enricher.EnrichGame(context.Background(), game, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"description", "releaseDate", "genres", "developer", "publisher",
		"coverArtPath", "screenshots",
	}, updated)
	assert.Equal(t, "Chrono Trigger", catalog.lastSearch)

	game, err = db.GetGame("game-1")
	require.NoError(t, err)
	require.NotNil(t, game.Description)
	assert.Equal(t, "A journey across time.", *game.Description)
	require.NotNil(t, game.ReleaseDate)
	assert.Equal(t, "1995-03-11", *game.ReleaseDate)
	assert.Equal(t, []string{"RPG"}, game.Genres)

	// Title untouched by enrichment.
	assert.Equal(t, "Chrono Trigger", game.Title)

	require.NotNil(t, game.CoverArtPath)
	expectedCover := filepath.Join(dataDir, config.MediaDir, "covers", "game-1.jpg")
	assert.Equal(t, expectedCover, *game.CoverArtPath)
	content, err := os.ReadFile(expectedCover)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(content))

	require.Len(t, game.Screenshots, 1)
	assert.FileExists(t, game.Screenshots[0])
}

func TestEnrichGameExplicitExternalIDSkipsSearch(t *testing.T) {
	cfg, db, dataDir := testEnv(t)

	catalog := &fakeCatalog{
		searchErr: errors.New("search should not be called"),
		meta: &GameMetadata{
			ExternalID: 42,
			Name:       "Chrono Trigger",
			Summary:    strPtr("A journey across time."),
		},
	}

	enricher := NewEnricher(cfg, db, catalog, dataDir)
	game, err := db.GetGame("game-1")
	require.NoError(t, err)

	updated, err := enricher.EnrichGame(context.Background(), game, 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"description"}, updated)
	assert.Empty(t, catalog.lastSearch)
}

func TestEnrichGameNoCatalogMatch(t *testing.T) {
	cfg, db, dataDir := testEnv(t)

	catalog := &fakeCatalog{results: nil}
	enricher := NewEnricher(cfg, db, catalog, dataDir)
	game, err := db.GetGame("game-1")
	require.NoError(t, err)

	_, err = enricher.EnrichGame(context.Background(), game, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no catalog match")
}

func TestEnrichGameCoverDownloadFailureIsNonFatal(t *testing.T) {
	cfg, db, dataDir := testEnv(t)

	imageSrv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
	defer imageSrv.Close()

	catalog := &fakeCatalog{
		meta: &GameMetadata{
			ExternalID: 42,
			Name:       "Chrono Trigger",
			Summary:    strPtr("A journey across time."),
			CoverURL:   strPtr(imageSrv.URL + "/cover.jpg"),
		},
	}

	enricher := NewEnricher(cfg, db, catalog, dataDir)
	game, err := db.GetGame("game-1")
	require.NoError(t, err)

	updated, err := enricher.EnrichGame(context.Background(), game, 42)
	require.NoError(t, err)
	assert.Equal(t, []string{"description"}, updated)

	game, err = db.GetGame("game-1")
	require.NoError(t, err)
	assert.Nil(t, game.CoverArtPath)
}

func TestEnrichGameRanksSearchResults(t *testing.T) {
	cfg, db, dataDir := testEnv(t)

	catalog := &fakeCatalog{
		results: []SearchResult{
			{ExternalID: 1, Name: "Chrono Cross"},
			{ExternalID: 2, Name: "Chrono Trigger"},
		},
		meta: &GameMetadata{ExternalID: 2, Name: "Chrono Trigger"},
	}

	enricher := NewEnricher(cfg, db, catalog, dataDir)
	game, err := db.GetGame("game-1")
	require.NoError(t, err)

	updated, err := enricher.EnrichGame(context.Background(), game, 0)
	require.NoError(t, err)
	assert.Empty(t, updated)
	assert.Equal(t, int64(2), catalog.lastMetaID)
}
