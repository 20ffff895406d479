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

// Package helpers provides testing utilities shared across packages.
//
// MemoryLibrary is a map-backed database.LibraryDBI used where tests need
// real stateful behavior (idempotent scans, batch mutations) without a
// SQLite file. Error injection fields let tests force specific operations
// to fail.
package helpers

import (
	"database/sql"
	"sort"
	"time"

	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/romshelf/romshelf-core/pkg/helpers/syncutil"
)

type MemoryLibrary struct {
	games       map[string]database.Game
	emulators   map[string]database.Emulator
	platforms   map[string]database.Platform
	collections map[string]database.Collection
	sessions    map[string]database.PlaySession
	settings    map[string]string

	// Error injection for failure-path tests.
	AddGameErr    error
	UpdateGameErr error
	DeleteGameErr error

	mu syncutil.RWMutex
}

func NewMemoryLibrary() *MemoryLibrary {
	return &MemoryLibrary{
		games:       make(map[string]database.Game),
		emulators:   make(map[string]database.Emulator),
		platforms:   make(map[string]database.Platform),
		collections: make(map[string]database.Collection),
		sessions:    make(map[string]database.PlaySession),
		settings:    make(map[string]string),
	}
}

func (*MemoryLibrary) Open() error             { return nil }
func (*MemoryLibrary) UnsafeGetSQLDb() *sql.DB { return nil }
func (*MemoryLibrary) Allocate() error         { return nil }
func (*MemoryLibrary) MigrateUp() error        { return nil }
func (*MemoryLibrary) Vacuum() error           { return nil }
func (*MemoryLibrary) Close() error            { return nil }
func (*MemoryLibrary) GetDBPath() string       { return ":memory:" }

func (m *MemoryLibrary) Truncate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.games = make(map[string]database.Game)
	m.collections = make(map[string]database.Collection)
	m.sessions = make(map[string]database.PlaySession)
	return nil
}

func (m *MemoryLibrary) SeedPlatform(platform database.Platform) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.platforms[platform.ID] = platform
}

func (m *MemoryLibrary) SeedEmulator(emulator database.Emulator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emulators[emulator.ID] = emulator
}

func (m *MemoryLibrary) GetAllGames() ([]database.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	games := make([]database.Game, 0, len(m.games))
	for _, game := range m.games {
		games = append(games, game)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].Title < games[j].Title })
	return games, nil
}

func (m *MemoryLibrary) GetGame(id string) (*database.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	game, ok := m.games[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &game, nil
}

func (m *MemoryLibrary) GetGameByPathAndPlatform(romPath, platformID string) (*database.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, game := range m.games {
		if game.RomPath == romPath && game.PlatformID == platformID {
			found := game
			return &found, nil
		}
	}
	return nil, database.ErrNotFound
}

func (m *MemoryLibrary) AddGame(game *database.Game) error {
	if m.AddGameErr != nil {
		return m.AddGameErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *game
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	m.games[stored.ID] = stored
	return nil
}

func (m *MemoryLibrary) UpdateGame(id string, params *database.UpdateGameParams) error {
	if m.UpdateGameErr != nil {
		return m.UpdateGameErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[id]
	if !ok {
		return database.ErrNotFound
	}
	if params.Title != nil {
		game.Title = *params.Title
	}
	if params.PlatformID != nil {
		game.PlatformID = *params.PlatformID
	}
	if params.CoverArtPath != nil {
		game.CoverArtPath = params.CoverArtPath
	}
	if params.BackgroundPath != nil {
		game.BackgroundPath = params.BackgroundPath
	}
	if params.Screenshots != nil {
		game.Screenshots = *params.Screenshots
	}
	if params.Description != nil {
		game.Description = params.Description
	}
	if params.ReleaseDate != nil {
		game.ReleaseDate = params.ReleaseDate
	}
	if params.Genres != nil {
		game.Genres = *params.Genres
	}
	if params.Developer != nil {
		game.Developer = params.Developer
	}
	if params.Publisher != nil {
		game.Publisher = params.Publisher
	}
	if params.IsFavorite != nil {
		game.IsFavorite = *params.IsFavorite
	}
	if params.PreferredEmulatorID != nil {
		game.PreferredEmulatorID = params.PreferredEmulatorID
	}
	m.games[id] = game
	return nil
}

func (m *MemoryLibrary) DeleteGame(id string) error {
	if m.DeleteGameErr != nil {
		return m.DeleteGameErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.games, id)
	return nil
}

func (m *MemoryLibrary) ToggleFavorite(id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[id]
	if !ok {
		return false, database.ErrNotFound
	}
	game.IsFavorite = !game.IsFavorite
	m.games[id] = game
	return game.IsFavorite, nil
}

func (m *MemoryLibrary) UpdateGamePlayTime(id string, additionalSeconds int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	game, ok := m.games[id]
	if !ok {
		return database.ErrNotFound
	}
	game.TotalPlayTimeSeconds += additionalSeconds
	now := time.Now()
	game.LastPlayed = &now
	m.games[id] = game
	return nil
}

func (m *MemoryLibrary) GetAllEmulators() ([]database.Emulator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	emulators := make([]database.Emulator, 0, len(m.emulators))
	for _, emulator := range m.emulators {
		emulators = append(emulators, emulator)
	}
	sort.Slice(emulators, func(i, j int) bool { return emulators[i].Name < emulators[j].Name })
	return emulators, nil
}

func (m *MemoryLibrary) GetEmulator(id string) (*database.Emulator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	emulator, ok := m.emulators[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &emulator, nil
}

func (m *MemoryLibrary) AddEmulator(emulator *database.Emulator) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emulators[emulator.ID] = *emulator
	return nil
}

func (m *MemoryLibrary) UpdateEmulator(id string, params *database.UpdateEmulatorParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	emulator, ok := m.emulators[id]
	if !ok {
		return database.ErrNotFound
	}
	if params.Name != nil {
		emulator.Name = *params.Name
	}
	if params.ExecutablePath != nil {
		emulator.ExecutablePath = *params.ExecutablePath
	}
	if params.LaunchArguments != nil {
		emulator.LaunchArguments = *params.LaunchArguments
	}
	if params.SupportedPlatformIDs != nil {
		emulator.SupportedPlatformIDs = *params.SupportedPlatformIDs
	}
	m.emulators[id] = emulator
	return nil
}

func (m *MemoryLibrary) DeleteEmulator(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.emulators[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.emulators, id)
	for pid, platform := range m.platforms {
		if platform.DefaultEmulatorID != nil && *platform.DefaultEmulatorID == id {
			platform.DefaultEmulatorID = nil
			m.platforms[pid] = platform
		}
	}
	for gid, game := range m.games {
		if game.PreferredEmulatorID != nil && *game.PreferredEmulatorID == id {
			game.PreferredEmulatorID = nil
			m.games[gid] = game
		}
	}
	return nil
}

func (m *MemoryLibrary) GetAllPlatforms() ([]database.Platform, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	platforms := make([]database.Platform, 0, len(m.platforms))
	for _, platform := range m.platforms {
		platforms = append(platforms, platform)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i].ID < platforms[j].ID })
	return platforms, nil
}

func (m *MemoryLibrary) GetPlatform(id string) (*database.Platform, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	platform, ok := m.platforms[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return &platform, nil
}

func (m *MemoryLibrary) SetPlatformDefaultEmulator(platformID, emulatorID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	platform, ok := m.platforms[platformID]
	if !ok {
		return database.ErrNotFound
	}
	if emulatorID == "" {
		platform.DefaultEmulatorID = nil
	} else {
		platform.DefaultEmulatorID = &emulatorID
	}
	m.platforms[platformID] = platform
	return nil
}

func (m *MemoryLibrary) GetAllCollections() ([]database.Collection, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	collections := make([]database.Collection, 0, len(m.collections))
	for _, collection := range m.collections {
		collections = append(collections, collection)
	}
	sort.Slice(collections, func(i, j int) bool { return collections[i].Name < collections[j].Name })
	return collections, nil
}

func (m *MemoryLibrary) AddCollection(collection *database.Collection) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.collections[collection.ID] = *collection
	return nil
}

func (m *MemoryLibrary) UpdateCollection(id string, params *database.UpdateCollectionParams) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	collection, ok := m.collections[id]
	if !ok {
		return database.ErrNotFound
	}
	if params.Name != nil {
		collection.Name = *params.Name
	}
	if params.GameIDs != nil {
		collection.GameIDs = *params.GameIDs
	}
	if params.CoverGameID != nil {
		collection.CoverGameID = params.CoverGameID
	}
	m.collections[id] = collection
	return nil
}

func (m *MemoryLibrary) DeleteCollection(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.collections[id]; !ok {
		return database.ErrNotFound
	}
	delete(m.collections, id)
	return nil
}

func (m *MemoryLibrary) CreatePlaySession(session *database.PlaySession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = *session
	return nil
}

func (m *MemoryLibrary) EndPlaySession(sessionID string, endTime time.Time, durationSeconds int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok {
		return database.ErrNotFound
	}
	session.EndTime = &endTime
	session.DurationSeconds = durationSeconds
	m.sessions[sessionID] = session
	return nil
}

func (m *MemoryLibrary) GetPlaySessions(gameID string) ([]database.PlaySession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sessions := make([]database.PlaySession, 0, len(m.sessions))
	for _, session := range m.sessions {
		if session.GameID == gameID {
			sessions = append(sessions, session)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].StartTime.After(sessions[j].StartTime)
	})
	return sessions, nil
}

func (m *MemoryLibrary) GetSetting(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.settings[key]
	return value, ok, nil
}

func (m *MemoryLibrary) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings[key] = value
	return nil
}
