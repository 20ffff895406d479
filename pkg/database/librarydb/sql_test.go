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
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/romshelf/romshelf-core/pkg/database"
	testsqlmock "github.com/romshelf/romshelf-core/pkg/testing/sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlAddGame_Success(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	game := database.Game{
		ID:         "game-1",
		Title:      "Chrono Trigger",
		RomPath:    "/roms/snes/Chrono Trigger.sfc",
		PlatformID: "snes",
	}

	mock.ExpectPrepare(`insert into Games.*values`).
		ExpectExec().
		WithArgs(
			game.ID, game.Title, game.RomPath, game.PlatformID,
			nil, nil, "[]", nil, nil, "[]", nil, nil,
			int64(0), nil, false, nil, "[]", sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = sqlAddGame(context.Background(), db, &game)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlAddGame_DuplicatePathFails(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	game := database.Game{
		ID:         "game-2",
		Title:      "Chrono Trigger",
		RomPath:    "/roms/snes/Chrono Trigger.sfc",
		PlatformID: "snes",
	}

	mock.ExpectPrepare(`insert into Games.*values`).
		ExpectExec().
		WillReturnError(sqlmock.ErrCancelled)

	err = sqlAddGame(context.Background(), db, &game)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute game insert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetGame_Success(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"ID", "Title", "RomPath", "PlatformID", "CoverArtPath", "BackgroundPath",
		"Screenshots", "Description", "ReleaseDate", "Genres", "Developer",
		"Publisher", "TotalPlayTimeSeconds", "LastPlayed", "IsFavorite",
		"PreferredEmulatorID", "CollectionIDs", "CreatedAt",
	}).AddRow(
		"game-1", "Chrono Trigger", "/roms/snes/Chrono Trigger.sfc", "snes",
		"/media/covers/game-1.jpg", nil, `["a.jpg","b.jpg"]`, "A classic.",
		"1995-03-11", `["RPG"]`, "Square", "Square",
		int64(3600), nil, true, nil, "[]", created.Format(time.RFC3339),
	)

	mock.ExpectPrepare(`select.*from Games.*where ID = \?`).
		ExpectQuery().
		WithArgs("game-1").
		WillReturnRows(rows)

	game, err := sqlGetGame(context.Background(), db, "game-1")
	require.NoError(t, err)
	assert.Equal(t, "Chrono Trigger", game.Title)
	require.NotNil(t, game.CoverArtPath)
	assert.Equal(t, "/media/covers/game-1.jpg", *game.CoverArtPath)
	assert.Equal(t, []string{"a.jpg", "b.jpg"}, game.Screenshots)
	assert.Equal(t, []string{"RPG"}, game.Genres)
	assert.True(t, game.IsFavorite)
	assert.Nil(t, game.LastPlayed)
	assert.True(t, game.CreatedAt.Equal(created))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetGame_NotFound(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`select.*from Games.*where ID = \?`).
		ExpectQuery().
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"ID"}))

	_, err = sqlGetGame(context.Background(), db, "missing")
	require.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlUpdateGame_NoFieldsIsNoOp(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	err = sqlUpdateGame(context.Background(), db, "game-1", &database.UpdateGameParams{})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlUpdateGame_PartialFields(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	title := "Chrono Trigger (USA)"
	favorite := true
	params := &database.UpdateGameParams{Title: &title, IsFavorite: &favorite}

	mock.ExpectExec(`update Games set Title = \?, IsFavorite = \? where ID = \?`).
		WithArgs(title, favorite, "game-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = sqlUpdateGame(context.Background(), db, "game-1", params)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlUpdateGame_NotFound(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	title := "New Title"
	mock.ExpectExec(`update Games set Title = \? where ID = \?`).
		WithArgs(title, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = sqlUpdateGame(context.Background(), db, "missing",
		&database.UpdateGameParams{Title: &title})
	require.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlToggleFavorite(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`update Games set IsFavorite = not IsFavorite`).
		WithArgs("game-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`select IsFavorite from Games`).
		WithArgs("game-1").
		WillReturnRows(sqlmock.NewRows([]string{"IsFavorite"}).AddRow(true))

	isFavorite, err := sqlToggleFavorite(context.Background(), db, "game-1")
	require.NoError(t, err)
	assert.True(t, isFavorite)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlSetPlatformDefaultEmulator_NotFound(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`update Platforms set DefaultEmulatorID = \?`).
		ExpectExec().
		WithArgs("emu-1", "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = sqlSetPlatformDefaultEmulator(context.Background(), db, "missing", "emu-1")
	require.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetSetting_Missing(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`select Value from Settings where Key = \?`).
		ExpectQuery().
		WithArgs("theme").
		WillReturnRows(sqlmock.NewRows([]string{"Value"}))

	value, found, err := sqlGetSetting(context.Background(), db, "theme")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlSetSetting(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`insert or replace into Settings`).
		ExpectExec().
		WithArgs("theme", "dark").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = sqlSetSetting(context.Background(), db, "theme", "dark")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarshalStrings_RoundTrip(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "[]", marshalStrings(nil))
	assert.Equal(t, `["a","b"]`, marshalStrings([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "b"}, unmarshalStrings(`["a","b"]`))
	assert.Empty(t, unmarshalStrings("not json"))
}

func TestParseTime_LegacyFormat(t *testing.T) {
	t.Parallel()
	parsed, err := parseTime("2025-03-01 12:00:00")
	require.NoError(t, err)
	assert.Equal(t, 2025, parsed.Year())

	_, err = parseTime("garbage")
	require.Error(t, err)
}
