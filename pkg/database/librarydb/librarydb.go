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

package librarydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/romshelf/romshelf-core/pkg/database"
)

var ErrNullSQL = errors.New("LibraryDB is not connected")

const sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"

type LibraryDB struct {
	sql     *sql.DB
	dataDir string
	ctx     context.Context
}

func OpenLibraryDB(ctx context.Context, dataDir string) (*LibraryDB, error) {
	db := &LibraryDB{sql: nil, dataDir: dataDir, ctx: ctx}
	err := db.Open()
	return db, err
}

func (db *LibraryDB) Open() error {
	exists := true
	dbPath := db.GetDBPath()
	_, err := os.Stat(dbPath)
	if err != nil {
		exists = false
		mkdirErr := os.MkdirAll(filepath.Dir(dbPath), 0o750)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory for database: %w", mkdirErr)
		}
	}
	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	if !exists {
		return db.Allocate()
	}
	return db.MigrateUp()
}

func (db *LibraryDB) GetDBPath() string {
	return filepath.Join(db.dataDir, config.LibraryDbFile)
}

func (db *LibraryDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *LibraryDB) Truncate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlTruncate(db.ctx, db.sql)
}

func (db *LibraryDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

func (db *LibraryDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *LibraryDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *LibraryDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting allows injection of a sql.DB instance for testing purposes.
// This method should only be used in tests to set up in-memory databases.
func (db *LibraryDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB) error {
	db.sql = sqlDB
	db.ctx = ctx
	return db.Allocate()
}

func (db *LibraryDB) GetAllGames() ([]database.Game, error) {
	return sqlGetAllGames(db.ctx, db.sql)
}

func (db *LibraryDB) GetGame(id string) (*database.Game, error) {
	return sqlGetGame(db.ctx, db.sql, id)
}

func (db *LibraryDB) GetGameByPathAndPlatform(romPath, platformID string) (*database.Game, error) {
	return sqlGetGameByPathAndPlatform(db.ctx, db.sql, romPath, platformID)
}

func (db *LibraryDB) AddGame(game *database.Game) error {
	return sqlAddGame(db.ctx, db.sql, game)
}

func (db *LibraryDB) UpdateGame(id string, params *database.UpdateGameParams) error {
	return sqlUpdateGame(db.ctx, db.sql, id, params)
}

func (db *LibraryDB) DeleteGame(id string) error {
	return sqlDeleteGame(db.ctx, db.sql, id)
}

func (db *LibraryDB) ToggleFavorite(id string) (bool, error) {
	return sqlToggleFavorite(db.ctx, db.sql, id)
}

func (db *LibraryDB) UpdateGamePlayTime(id string, additionalSeconds int64) error {
	return sqlUpdateGamePlayTime(db.ctx, db.sql, id, additionalSeconds)
}

func (db *LibraryDB) GetAllEmulators() ([]database.Emulator, error) {
	return sqlGetAllEmulators(db.ctx, db.sql)
}

func (db *LibraryDB) GetEmulator(id string) (*database.Emulator, error) {
	return sqlGetEmulator(db.ctx, db.sql, id)
}

func (db *LibraryDB) AddEmulator(emulator *database.Emulator) error {
	return sqlAddEmulator(db.ctx, db.sql, emulator)
}

func (db *LibraryDB) UpdateEmulator(id string, params *database.UpdateEmulatorParams) error {
	return sqlUpdateEmulator(db.ctx, db.sql, id, params)
}

func (db *LibraryDB) DeleteEmulator(id string) error {
	return sqlDeleteEmulator(db.ctx, db.sql, id)
}

func (db *LibraryDB) GetAllPlatforms() ([]database.Platform, error) {
	return sqlGetAllPlatforms(db.ctx, db.sql)
}

func (db *LibraryDB) GetPlatform(id string) (*database.Platform, error) {
	return sqlGetPlatform(db.ctx, db.sql, id)
}

func (db *LibraryDB) SetPlatformDefaultEmulator(platformID, emulatorID string) error {
	return sqlSetPlatformDefaultEmulator(db.ctx, db.sql, platformID, emulatorID)
}

func (db *LibraryDB) GetAllCollections() ([]database.Collection, error) {
	return sqlGetAllCollections(db.ctx, db.sql)
}

func (db *LibraryDB) AddCollection(collection *database.Collection) error {
	return sqlAddCollection(db.ctx, db.sql, collection)
}

func (db *LibraryDB) UpdateCollection(id string, params *database.UpdateCollectionParams) error {
	return sqlUpdateCollection(db.ctx, db.sql, id, params)
}

func (db *LibraryDB) DeleteCollection(id string) error {
	return sqlDeleteCollection(db.ctx, db.sql, id)
}

func (db *LibraryDB) CreatePlaySession(session *database.PlaySession) error {
	return sqlCreatePlaySession(db.ctx, db.sql, session)
}

func (db *LibraryDB) EndPlaySession(sessionID string, endTime time.Time, durationSeconds int64) error {
	return sqlEndPlaySession(db.ctx, db.sql, sessionID, endTime, durationSeconds)
}

func (db *LibraryDB) GetPlaySessions(gameID string) ([]database.PlaySession, error) {
	return sqlGetPlaySessions(db.ctx, db.sql, gameID)
}

func (db *LibraryDB) GetSetting(key string) (string, bool, error) {
	return sqlGetSetting(db.ctx, db.sql, key)
}

func (db *LibraryDB) SetSetting(key, value string) error {
	return sqlSetSetting(db.ctx, db.sql, key, value)
}
