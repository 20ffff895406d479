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

package igdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPlatform(t *testing.T) {
	t.Parallel()

	id, ok := MapPlatform("snes")
	assert.True(t, ok)
	assert.Equal(t, 19, id)

	id, ok = MapPlatform("ps2")
	assert.True(t, ok)
	assert.Equal(t, 8, id)

	_, ok = MapPlatform("scummvm")
	assert.False(t, ok)
}

func TestBuildSearchQuery(t *testing.T) {
	t.Parallel()

	query := buildSearchQuery("Super Mario World", "snes")
	assert.Contains(t, query, `search "Super Mario World"`)
	assert.Contains(t, query, "where platforms = (19)")
	assert.Contains(t, query, "limit 20")

	// Unmapped platform searches unfiltered.
	query = buildSearchQuery("Day of the Tentacle", "scummvm")
	assert.NotContains(t, query, "where platforms")

	// Quotes cannot terminate the search string.
	query = buildSearchQuery(`The "Best" Game`, "")
	assert.Contains(t, query, `search "The \"Best\" Game"`)
}

func TestBuildMetadataQuery(t *testing.T) {
	t.Parallel()

	query := buildMetadataQuery(1068)
	assert.Contains(t, query, "where id = 1068")
	assert.Contains(t, query, "cover.image_id")
	assert.Contains(t, query, "screenshots.image_id")
	assert.Contains(t, query, "involved_companies.company.name")
}

// newTestIGDB points an IGDB client at local token and API servers.
func newTestIGDB(t *testing.T, gamesJSON string) (*IGDB, *int) {
	t.Helper()

	tokenRequests := 0
	tokenSrv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			tokenRequests++
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"tok123","expires_in":3600,"token_type":"bearer"}`))
		}))
	t.Cleanup(tokenSrv.Close)

	apiSrv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer tok123" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(gamesJSON))
		}))
	t.Cleanup(apiSrv.Close)

	config.SetAuthCfg(map[string]config.CredentialEntry{
		config.IGDBAPIURL: {Username: "client-id", Password: "client-secret"},
	})

	igdb := NewIGDB()
	igdb.apiURL = apiSrv.URL
	igdb.tokenURL = tokenSrv.URL
	igdb.rateLimit = 0
	return igdb, &tokenRequests
}

func TestSearchDecodesResults(t *testing.T) {
	igdb, _ := newTestIGDB(t, `[
		{"id": 1068, "name": "Super Mario World",
		 "summary": "A plumber saves a dinosaur island.",
		 "first_release_date": 659577600,
		 "cover": {"image_id": "co2pti"},
		 "platforms": [{"name": "Super Nintendo Entertainment System"}]}
	]`)

	results, err := igdb.Search(context.Background(), "Super Mario World", "snes")
	require.NoError(t, err)
	require.Len(t, results, 1)

	result := results[0]
	assert.Equal(t, int64(1068), result.ExternalID)
	assert.Equal(t, "Super Mario World", result.Name)
	require.NotNil(t, result.ReleaseDate)
	assert.Equal(t, "1990-11-26", *result.ReleaseDate)
	require.NotNil(t, result.CoverURL)
	assert.Equal(t,
		"https://images.igdb.com/igdb/image/upload/t_cover_big/co2pti.jpg",
		*result.CoverURL)
	assert.Equal(t, []string{"Super Nintendo Entertainment System"}, result.Platforms)
}

func TestTokenIsCachedAcrossRequests(t *testing.T) {
	igdb, tokenRequests := newTestIGDB(t, `[]`)

	_, err := igdb.Search(context.Background(), "a", "snes")
	require.NoError(t, err)
	_, err = igdb.Search(context.Background(), "b", "snes")
	require.NoError(t, err)

	assert.Equal(t, 1, *tokenRequests)
}

func TestGetMetadataExtractsCompanies(t *testing.T) {
	igdb, _ := newTestIGDB(t, `[
		{"id": 1068, "name": "Super Mario World",
		 "summary": "A plumber saves a dinosaur island.",
		 "first_release_date": 659577600,
		 "cover": {"image_id": "co2pti"},
		 "screenshots": [{"image_id": "sc1"}, {"image_id": "sc2"}],
		 "genres": [{"name": "Platform"}],
		 "involved_companies": [
			{"company": {"name": "Nintendo EAD"}, "developer": true, "publisher": false},
			{"company": {"name": "Nintendo"}, "developer": false, "publisher": true}
		 ]}
	]`)

	meta, err := igdb.GetMetadata(context.Background(), 1068)
	require.NoError(t, err)

	assert.Equal(t, "Super Mario World", meta.Name)
	require.NotNil(t, meta.Developer)
	assert.Equal(t, "Nintendo EAD", *meta.Developer)
	require.NotNil(t, meta.Publisher)
	assert.Equal(t, "Nintendo", *meta.Publisher)
	assert.Equal(t, []string{"Platform"}, meta.Genres)
	require.Len(t, meta.ScreenshotURLs, 2)
	assert.Equal(t,
		"https://images.igdb.com/igdb/image/upload/t_screenshot_big/sc1.jpg",
		meta.ScreenshotURLs[0])
}

func TestGetMetadataNotFound(t *testing.T) {
	igdb, _ := newTestIGDB(t, `[]`)

	_, err := igdb.GetMetadata(context.Background(), 999999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMissingCredentials(t *testing.T) {
	config.SetAuthCfg(map[string]config.CredentialEntry{})

	igdb := NewIGDB()
	igdb.rateLimit = 0

	_, err := igdb.Search(context.Background(), "anything", "snes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.toml")
}
