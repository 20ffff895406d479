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

// Package scraper defines the metadata catalog abstraction and the
// enrichment flow that applies catalog data to library entries.
package scraper

import (
	"context"
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// Catalog is a remote game metadata source.
type Catalog interface {
	// Search returns candidate matches for a title. platformID is the
	// library platform id and may be empty for an unfiltered search.
	Search(ctx context.Context, query, platformID string) ([]SearchResult, error)

	// GetMetadata fetches full metadata for a catalog entry.
	GetMetadata(ctx context.Context, externalID int64) (*GameMetadata, error)
}

type SearchResult struct {
	ReleaseDate *string  `json:"releaseDate,omitempty"`
	CoverURL    *string  `json:"coverUrl,omitempty"`
	Summary     *string  `json:"summary,omitempty"`
	Name        string   `json:"name"`
	Platforms   []string `json:"platforms"`
	ExternalID  int64    `json:"externalId"`
}

type GameMetadata struct {
	Summary        *string
	ReleaseDate    *string
	Developer      *string
	Publisher      *string
	CoverURL       *string
	Name           string
	Genres         []string
	ScreenshotURLs []string
	ExternalID     int64
}

type rankedResult struct {
	result     SearchResult
	similarity float32
}

// RankResults orders search results by how well they match the queried
// title. Jaro-Winkler similarity ranks first, so exact matches lead,
// then earlier release dates break ties so original releases beat
// remakes and ports.
func RankResults(query string, results []SearchResult) {
	queryLower := strings.ToLower(query)

	ranked := make([]rankedResult, len(results))
	for i := range results {
		ranked[i] = rankedResult{
			result: results[i],
			similarity: edlib.JaroWinklerSimilarity(
				queryLower, strings.ToLower(results[i].Name)),
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].similarity != ranked[j].similarity {
			return ranked[i].similarity > ranked[j].similarity
		}
		return releaseDateBefore(
			ranked[i].result.ReleaseDate, ranked[j].result.ReleaseDate)
	})

	for i := range ranked {
		results[i] = ranked[i].result
	}
}

// releaseDateBefore prefers dated results over undated ones, then
// earlier dates. Dates are ISO strings so string order is date order.
func releaseDateBefore(a, b *string) bool {
	switch {
	case a != nil && b != nil:
		return *a < *b
	case a != nil:
		return true
	default:
		return false
	}
}
