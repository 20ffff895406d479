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

import "time"

// Wire types for the IGDB v4 API. Field names follow the API's
// snake_case responses.

type game struct {
	Cover             *image            `json:"cover"`
	Name              string            `json:"name"`
	Summary           string            `json:"summary"`
	Screenshots       []image           `json:"screenshots"`
	Genres            []named           `json:"genres"`
	Platforms         []named           `json:"platforms"`
	InvolvedCompanies []involvedCompany `json:"involved_companies"`
	ID                int64             `json:"id"`
	FirstReleaseDate  int64             `json:"first_release_date"`
}

type image struct {
	ImageID string `json:"image_id"`
}

type named struct {
	Name string `json:"name"`
}

type involvedCompany struct {
	Company   named `json:"company"`
	Developer bool  `json:"developer"`
	Publisher bool  `json:"publisher"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type tokenInfo struct {
	expiresAt   time.Time
	accessToken string
}
