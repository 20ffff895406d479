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

package database

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups for records that do not exist.
var ErrNotFound = errors.New("record not found")

// Database is a portable holder for store bindings.
type Database struct {
	Library LibraryDBI
}

/*
 * Structs for SQL records
 */

type Game struct {
	ID                   string     `json:"id"`
	Title                string     `json:"title"`
	RomPath              string     `json:"romPath"`
	PlatformID           string     `json:"platformId"`
	CoverArtPath         *string    `json:"coverArtPath,omitempty"`
	BackgroundPath       *string    `json:"backgroundPath,omitempty"`
	Screenshots          []string   `json:"screenshots"`
	Description          *string    `json:"description,omitempty"`
	ReleaseDate          *string    `json:"releaseDate,omitempty"`
	Genres               []string   `json:"genres"`
	Developer            *string    `json:"developer,omitempty"`
	Publisher            *string    `json:"publisher,omitempty"`
	TotalPlayTimeSeconds int64      `json:"totalPlayTimeSeconds"`
	LastPlayed           *time.Time `json:"lastPlayed,omitempty"`
	IsFavorite           bool       `json:"isFavorite"`
	PreferredEmulatorID  *string    `json:"preferredEmulatorId,omitempty"`
	CollectionIDs        []string   `json:"collectionIds"`
	CreatedAt            time.Time  `json:"createdAt"`
}

type Platform struct {
	ID                string   `json:"id"`
	DisplayName       string   `json:"displayName"`
	Manufacturer      string   `json:"manufacturer"`
	FileExtensions    []string `json:"fileExtensions"`
	IconPath          *string  `json:"iconPath,omitempty"`
	DefaultEmulatorID *string  `json:"defaultEmulatorId,omitempty"`
	Color             string   `json:"color"`
}

type Emulator struct {
	ID                   string   `json:"id"`
	Name                 string   `json:"name"`
	ExecutablePath       string   `json:"executablePath"`
	LaunchArguments      string   `json:"launchArguments"`
	SupportedPlatformIDs []string `json:"supportedPlatformIds"`
}

type Collection struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	GameIDs     []string `json:"gameIds"`
	CoverGameID *string  `json:"coverGameId,omitempty"`
}

type PlaySession struct {
	ID              string     `json:"id"`
	GameID          string     `json:"gameId"`
	StartTime       time.Time  `json:"startTime"`
	EndTime         *time.Time `json:"endTime,omitempty"`
	DurationSeconds int64      `json:"durationSeconds"`
}

// UpdateGameParams is a sparse patch applied to a Game. Nil fields are left
// untouched.
type UpdateGameParams struct {
	Title               *string   `json:"title,omitempty"`
	PlatformID          *string   `json:"platformId,omitempty"`
	CoverArtPath        *string   `json:"coverArtPath,omitempty"`
	BackgroundPath      *string   `json:"backgroundPath,omitempty"`
	Screenshots         *[]string `json:"screenshots,omitempty"`
	Description         *string   `json:"description,omitempty"`
	ReleaseDate         *string   `json:"releaseDate,omitempty"`
	Genres              *[]string `json:"genres,omitempty"`
	Developer           *string   `json:"developer,omitempty"`
	Publisher           *string   `json:"publisher,omitempty"`
	IsFavorite          *bool     `json:"isFavorite,omitempty"`
	PreferredEmulatorID *string   `json:"preferredEmulatorId,omitempty"`
}

// UpdateEmulatorParams is a sparse patch applied to an Emulator.
type UpdateEmulatorParams struct {
	Name                 *string   `json:"name,omitempty"`
	ExecutablePath       *string   `json:"executablePath,omitempty"`
	LaunchArguments      *string   `json:"launchArguments,omitempty"`
	SupportedPlatformIDs *[]string `json:"supportedPlatformIds,omitempty"`
}

// UpdateCollectionParams is a sparse patch applied to a Collection.
type UpdateCollectionParams struct {
	Name        *string   `json:"name,omitempty"`
	GameIDs     *[]string `json:"gameIds,omitempty"`
	CoverGameID *string   `json:"coverGameId,omitempty"`
}

/*
 * Interfaces for external deps
 */

type GenericDBI interface {
	Open() error
	UnsafeGetSQLDb() *sql.DB
	Truncate() error
	Allocate() error
	MigrateUp() error
	Vacuum() error
	Close() error
	GetDBPath() string
}

type LibraryDBI interface {
	GenericDBI

	GetAllGames() ([]Game, error)
	GetGame(id string) (*Game, error)
	GetGameByPathAndPlatform(romPath, platformID string) (*Game, error)
	AddGame(game *Game) error
	UpdateGame(id string, params *UpdateGameParams) error
	DeleteGame(id string) error
	ToggleFavorite(id string) (bool, error)
	UpdateGamePlayTime(id string, additionalSeconds int64) error

	GetAllEmulators() ([]Emulator, error)
	GetEmulator(id string) (*Emulator, error)
	AddEmulator(emulator *Emulator) error
	UpdateEmulator(id string, params *UpdateEmulatorParams) error
	DeleteEmulator(id string) error

	GetAllPlatforms() ([]Platform, error)
	GetPlatform(id string) (*Platform, error)
	SetPlatformDefaultEmulator(platformID, emulatorID string) error

	GetAllCollections() ([]Collection, error)
	AddCollection(collection *Collection) error
	UpdateCollection(id string, params *UpdateCollectionParams) error
	DeleteCollection(id string) error

	CreatePlaySession(session *PlaySession) error
	EndPlaySession(sessionID string, endTime time.Time, durationSeconds int64) error
	GetPlaySessions(gameID string) ([]PlaySession, error)

	GetSetting(key string) (string, bool, error)
	SetSetting(key, value string) error
}
