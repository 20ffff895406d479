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

package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/romshelf/romshelf-core/pkg/database"
)

const (
	NotificationBatchProgress   = "batch.progress"
	NotificationBatchComplete   = "batch.complete"
	NotificationLibraryReloaded = "library.reloaded"
	NotificationScanProgress    = "scan.progress"
)

const (
	MethodLibraryScan              = "library.scan"
	MethodGames                    = "games"
	MethodGamesAdd                 = "games.add"
	MethodGamesUpdate              = "games.update"
	MethodGamesDelete              = "games.delete"
	MethodGamesFavorite            = "games.favorite"
	MethodGamesLaunch              = "games.launch"
	MethodGamesEndSession          = "games.endSession"
	MethodGamesSessions            = "games.sessions"
	MethodPlatforms                = "platforms"
	MethodPlatformsDefaultEmulator = "platforms.defaultEmulator"
	MethodEmulators                = "emulators"
	MethodEmulatorsAdd             = "emulators.add"
	MethodEmulatorsUpdate          = "emulators.update"
	MethodEmulatorsDelete          = "emulators.delete"
	MethodEmulatorsValidatePath    = "emulators.validatePath"
	MethodCollections              = "collections"
	MethodCollectionsAdd           = "collections.add"
	MethodCollectionsUpdate        = "collections.update"
	MethodCollectionsDelete        = "collections.delete"
	MethodCatalogSearch            = "catalog.search"
	MethodCatalogScrape            = "catalog.scrape"
	MethodBatchStart               = "batch.start"
	MethodBatchStatus              = "batch.status"
	MethodBatchCancel              = "batch.cancel"
	MethodSettingsGet              = "settings.get"
	MethodSettingsSet              = "settings.set"
	MethodVersion                  = "version"
)

type Notification struct {
	Method string
	Params json.RawMessage
}

type RequestObject struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uuid.UUID      `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type ErrorObject struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type ResponseObject struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
	Result  any          `json:"result"`
	Error   *ErrorObject `json:"error,omitempty"`
}

// ResponseErrorObject exists for sending errors, so we can omit result from
// the response, but so nil responses are still returned when using the main
// ResponseObject.
type ResponseErrorObject struct {
	JSONRPC string       `json:"jsonrpc"`
	ID      uuid.UUID    `json:"id"`
	Error   *ErrorObject `json:"error"`
}

/*
 * Method params and results
 */

type ScanLocationParams struct {
	Path       string `json:"path"       validate:"required"`
	PlatformID string `json:"platformId,omitempty"`
}

type LibraryScanParams struct {
	Locations []ScanLocationParams `json:"locations" validate:"required,min=1,dive"`
}

type AddGameParams struct {
	Title        string  `json:"title"      validate:"required"`
	RomPath      string  `json:"romPath"    validate:"required"`
	PlatformID   string  `json:"platformId" validate:"required"`
	CoverArtPath *string `json:"coverArtPath,omitempty"`
	Description  *string `json:"description,omitempty"`
}

type GameIDParams struct {
	ID string `json:"id" validate:"required"`
}

// UpdateGameParams wraps a sparse game patch with its target id. Absent
// fields in changes are left untouched.
type UpdateGameParams struct {
	ID      string                    `json:"id" validate:"required"`
	Changes database.UpdateGameParams `json:"changes"`
}

type UpdateEmulatorParams struct {
	ID      string                        `json:"id" validate:"required"`
	Changes database.UpdateEmulatorParams `json:"changes"`
}

type UpdateCollectionParams struct {
	ID      string                          `json:"id" validate:"required"`
	Changes database.UpdateCollectionParams `json:"changes"`
}

type LaunchGameParams struct {
	GameID     string `json:"gameId" validate:"required"`
	EmulatorID string `json:"emulatorId,omitempty"`
}

// LaunchFailedResult is returned when resolution finds no emulator. The
// candidate list lets the client offer ad-hoc selection.
type LaunchFailedResult struct {
	Error      string `json:"error"`
	Candidates any    `json:"candidates"`
	Success    bool   `json:"success"`
}

type DefaultEmulatorParams struct {
	PlatformID string `json:"platformId" validate:"required"`
	EmulatorID string `json:"emulatorId" validate:"required"`
}

type AddEmulatorParams struct {
	Name                 string   `json:"name"           validate:"required"`
	ExecutablePath       string   `json:"executablePath" validate:"required"`
	LaunchArguments      *string  `json:"launchArguments,omitempty"`
	SupportedPlatformIDs []string `json:"supportedPlatformIds"`
}

type ValidatePathParams struct {
	Path string `json:"path" validate:"required"`
}

type AddCollectionParams struct {
	Name string `json:"name" validate:"required"`
}

type CatalogSearchParams struct {
	Query      string `json:"query" validate:"required"`
	PlatformID string `json:"platformId,omitempty"`
}

type CatalogScrapeParams struct {
	GameID     string `json:"gameId" validate:"required"`
	ExternalID int64  `json:"externalId,omitempty"`
}

type ScrapeResult struct {
	Error         string   `json:"error,omitempty"`
	FieldsUpdated []string `json:"fieldsUpdated"`
	Success       bool     `json:"success"`
}

type BatchStartParams struct {
	Operation string   `json:"operation" validate:"required,oneof=scrape delete"`
	GameIDs   []string `json:"gameIds"   validate:"required,min=1"`
}

type BatchStartResult struct {
	Started bool `json:"started"`
	Total   int  `json:"total"`
}

type BatchCancelResult struct {
	Cancelled bool `json:"cancelled"`
}

type ValidatePathResult struct {
	Valid bool `json:"valid"`
}

type SettingsGetParams struct {
	Key string `json:"key" validate:"required"`
}

type SettingsGetResult struct {
	Value *string `json:"value"`
}

type SettingsSetParams struct {
	Key   string `json:"key"   validate:"required"`
	Value string `json:"value" validate:"required"`
}

type VersionResult struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}
