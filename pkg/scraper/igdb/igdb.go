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

// Package igdb implements the metadata catalog against the IGDB v4 API.
// Authentication is Twitch client credentials: auth.toml stores the
// client id as username and the client secret as password, keyed by the
// API URL, and the access token is cached until shortly before expiry.
package igdb

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/romshelf/romshelf-core/pkg/helpers/syncutil"
	"github.com/romshelf/romshelf-core/pkg/scraper"
	"github.com/romshelf/romshelf-core/pkg/shared/httpclient"
	"github.com/rs/zerolog/log"
)

const (
	defaultAPIURL   = "https://api.igdb.com/v4"
	defaultTokenURL = "https://id.twitch.tv/oauth2/token" // #nosec G101 - public OAuth endpoint, not a credential
	imageURLFormat  = "https://images.igdb.com/igdb/image/upload/%s/%s.jpg"

	// IGDB allows 4 requests per second.
	defaultRateLimit = 250 * time.Millisecond

	// tokenExpiryMargin refreshes the token before it actually lapses
	// so an in-flight request never carries a stale one.
	tokenExpiryMargin = 60 * time.Second

	searchLimit = 20
)

// IGDB implements scraper.Catalog.
type IGDB struct {
	lastRequest time.Time
	token       *tokenInfo
	client      *httpclient.Client
	apiURL      string
	tokenURL    string
	rateLimit   time.Duration
	tokenMu     syncutil.Mutex
	requestMu   syncutil.Mutex
}

func NewIGDB() *IGDB {
	return &IGDB{
		client:    httpclient.NewClientWithTimeout(30 * time.Second),
		apiURL:    defaultAPIURL,
		tokenURL:  defaultTokenURL,
		rateLimit: defaultRateLimit,
	}
}

// Search queries the catalog for games matching a title. When the
// platform has an IGDB mapping the search is filtered to it, otherwise
// all platforms are searched.
func (i *IGDB) Search(
	ctx context.Context, query, platformID string,
) ([]scraper.SearchResult, error) {
	body := buildSearchQuery(query, platformID)
	games, err := i.request(ctx, body)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("query", query).
		Str("platform", platformID).
		Int("results", len(games)).
		Msg("igdb search")

	results := make([]scraper.SearchResult, 0, len(games))
	for idx := range games {
		results = append(results, toSearchResult(&games[idx]))
	}
	return results, nil
}

// GetMetadata fetches full metadata for one catalog entry.
func (i *IGDB) GetMetadata(
	ctx context.Context, externalID int64,
) (*scraper.GameMetadata, error) {
	games, err := i.request(ctx, buildMetadataQuery(externalID))
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("game %d not found in catalog", externalID)
	}
	return toMetadata(&games[0]), nil
}

// ValidateCredentials checks the configured Twitch credentials by
// requesting a token.
func (i *IGDB) ValidateCredentials(ctx context.Context) error {
	_, err := i.accessToken(ctx)
	return err
}

func (i *IGDB) request(ctx context.Context, body string) ([]game, error) {
	token, err := i.accessToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get valid token: %w", err)
	}

	i.waitForRateLimit()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		i.apiURL+"/games", bytes.NewBufferString(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Client-ID", i.clientID())
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, httpError(resp.StatusCode)
	}

	var games []game
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return games, nil
}

// accessToken returns a cached token or requests a fresh one from
// Twitch using the client credentials grant.
func (i *IGDB) accessToken(ctx context.Context) (string, error) {
	i.tokenMu.Lock()
	defer i.tokenMu.Unlock()

	if i.token != nil && time.Now().Before(i.token.expiresAt) {
		return i.token.accessToken, nil
	}

	creds := i.credentials()
	if creds == nil || creds.Username == "" || creds.Password == "" {
		return "", errors.New("igdb requires Twitch client credentials in auth.toml - " +
			"set username=client_id and password=client_secret for " + config.IGDBAPIURL)
	}

	params := url.Values{}
	params.Set("client_id", creds.Username)
	params.Set("client_secret", creds.Password)
	params.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		i.tokenURL, strings.NewReader(params.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := i.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request token: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	expiresIn := time.Duration(tokenResp.ExpiresIn) * time.Second
	if expiresIn > tokenExpiryMargin {
		expiresIn -= tokenExpiryMargin
	}
	i.token = &tokenInfo{
		accessToken: tokenResp.AccessToken,
		expiresAt:   time.Now().Add(expiresIn),
	}

	log.Info().Msg("obtained igdb access token")
	return i.token.accessToken, nil
}

func (i *IGDB) credentials() *config.CredentialEntry {
	return config.LookupAuth(config.GetAuthCfg(), config.IGDBAPIURL)
}

func (i *IGDB) clientID() string {
	if creds := i.credentials(); creds != nil {
		return creds.Username
	}
	return ""
}

func (i *IGDB) waitForRateLimit() {
	i.requestMu.Lock()
	defer i.requestMu.Unlock()

	elapsed := time.Since(i.lastRequest)
	if elapsed < i.rateLimit {
		time.Sleep(i.rateLimit - elapsed)
	}
	i.lastRequest = time.Now()
}

// buildSearchQuery builds an APIcalypse search body. Quotes in the
// title are escaped so they cannot terminate the search string.
func buildSearchQuery(query, platformID string) string {
	escaped := strings.ReplaceAll(query, `"`, `\"`)

	var where string
	if igdbID, ok := MapPlatform(platformID); ok {
		where = fmt.Sprintf("where platforms = (%d); ", igdbID)
	}

	return fmt.Sprintf(`search "%s"; `+
		`fields name, summary, first_release_date, cover.image_id, platforms.name; `+
		`%slimit %d;`, escaped, where, searchLimit)
}

func buildMetadataQuery(externalID int64) string {
	return fmt.Sprintf(`fields name, summary, first_release_date, cover.image_id, `+
		`screenshots.image_id, genres.name, involved_companies.company.name, `+
		`involved_companies.developer, involved_companies.publisher; `+
		`where id = %d;`, externalID)
}

func httpError(statusCode int) error {
	switch statusCode {
	case http.StatusTooManyRequests:
		return errors.New("rate limited by igdb (429)")
	case http.StatusUnauthorized:
		return errors.New("authentication failed - check Twitch credentials in auth.toml")
	case http.StatusForbidden:
		return errors.New("access forbidden - check API permissions")
	case http.StatusNotFound:
		return errors.New("game not found")
	default:
		return fmt.Errorf("igdb HTTP error %d", statusCode)
	}
}

func toSearchResult(g *game) scraper.SearchResult {
	platforms := make([]string, 0, len(g.Platforms))
	for _, p := range g.Platforms {
		platforms = append(platforms, p.Name)
	}

	return scraper.SearchResult{
		ExternalID:  g.ID,
		Name:        g.Name,
		ReleaseDate: formatReleaseDate(g.FirstReleaseDate),
		CoverURL:    coverURL(g.Cover),
		Platforms:   platforms,
		Summary:     nullableString(g.Summary),
	}
}

func toMetadata(g *game) *scraper.GameMetadata {
	meta := &scraper.GameMetadata{
		ExternalID:  g.ID,
		Name:        g.Name,
		Summary:     nullableString(g.Summary),
		ReleaseDate: formatReleaseDate(g.FirstReleaseDate),
		CoverURL:    coverURL(g.Cover),
	}

	for _, genre := range g.Genres {
		meta.Genres = append(meta.Genres, genre.Name)
	}

	// First developer and first publisher listed win.
	for _, ic := range g.InvolvedCompanies {
		if ic.Developer && meta.Developer == nil {
			name := ic.Company.Name
			meta.Developer = &name
		}
		if ic.Publisher && meta.Publisher == nil {
			name := ic.Company.Name
			meta.Publisher = &name
		}
	}

	for _, shot := range g.Screenshots {
		meta.ScreenshotURLs = append(meta.ScreenshotURLs,
			fmt.Sprintf(imageURLFormat, "t_screenshot_big", shot.ImageID))
	}

	return meta
}

func coverURL(cover *image) *string {
	if cover == nil || cover.ImageID == "" {
		return nil
	}
	u := fmt.Sprintf(imageURLFormat, "t_cover_big", cover.ImageID)
	return &u
}

func formatReleaseDate(ts int64) *string {
	if ts <= 0 {
		return nil
	}
	date := time.Unix(ts, 0).UTC().Format("2006-01-02")
	return &date
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
