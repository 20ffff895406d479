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
	"strings"
	"time"

	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/rs/zerolog/log"
)

const gameColumns = `
	ID, Title, RomPath, PlatformID, CoverArtPath, BackgroundPath,
	Screenshots, Description, ReleaseDate, Genres, Developer, Publisher,
	TotalPlayTimeSeconds, LastPlayed, IsFavorite, PreferredEmulatorID,
	CollectionIDs, CreatedAt
`

func scanGame(row interface{ Scan(...any) error }) (*database.Game, error) {
	var (
		game        database.Game
		coverArt    sql.NullString
		background  sql.NullString
		screenshots string
		description sql.NullString
		releaseDate sql.NullString
		genres      string
		developer   sql.NullString
		publisher   sql.NullString
		lastPlayed  sql.NullString
		preferred   sql.NullString
		collections string
		createdAt   string
	)
	err := row.Scan(
		&game.ID, &game.Title, &game.RomPath, &game.PlatformID,
		&coverArt, &background, &screenshots, &description, &releaseDate,
		&genres, &developer, &publisher, &game.TotalPlayTimeSeconds,
		&lastPlayed, &game.IsFavorite, &preferred, &collections, &createdAt,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with query context
	}

	game.CoverArtPath = nullableStr(coverArt)
	game.BackgroundPath = nullableStr(background)
	game.Screenshots = unmarshalStrings(screenshots)
	game.Description = nullableStr(description)
	game.ReleaseDate = nullableStr(releaseDate)
	game.Genres = unmarshalStrings(genres)
	game.Developer = nullableStr(developer)
	game.Publisher = nullableStr(publisher)
	game.LastPlayed = nullableTime(lastPlayed)
	game.PreferredEmulatorID = nullableStr(preferred)
	game.CollectionIDs = unmarshalStrings(collections)
	if t, parseErr := parseTime(createdAt); parseErr == nil {
		game.CreatedAt = t
	}

	return &game, nil
}

func sqlGetAllGames(ctx context.Context, db *sql.DB) ([]database.Game, error) {
	q, err := db.PrepareContext(ctx, `
		select `+gameColumns+`
		from Games
		order by Title;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare games query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	games := make([]database.Game, 0, 100)
	for rows.Next() {
		game, scanErr := scanGame(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", scanErr)
		}
		games = append(games, *game)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate game rows: %w", err)
	}

	return games, nil
}

func sqlGetGame(ctx context.Context, db *sql.DB, id string) (*database.Game, error) {
	q, err := db.PrepareContext(ctx, `
		select `+gameColumns+`
		from Games
		where ID = ?;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare game query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	game, err := scanGame(q.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query game: %w", err)
	}
	return game, nil
}

func sqlGetGameByPathAndPlatform(
	ctx context.Context, db *sql.DB, romPath, platformID string,
) (*database.Game, error) {
	q, err := db.PrepareContext(ctx, `
		select `+gameColumns+`
		from Games
		where RomPath = ? and PlatformID = ?;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare game path query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	game, err := scanGame(q.QueryRowContext(ctx, romPath, platformID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query game by path: %w", err)
	}
	return game, nil
}

func sqlAddGame(ctx context.Context, db *sql.DB, game *database.Game) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into Games(
			ID, Title, RomPath, PlatformID, CoverArtPath, BackgroundPath,
			Screenshots, Description, ReleaseDate, Genres, Developer, Publisher,
			TotalPlayTimeSeconds, LastPlayed, IsFavorite, PreferredEmulatorID,
			CollectionIDs, CreatedAt
		) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare game insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	createdAt := game.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	var lastPlayed any
	if game.LastPlayed != nil {
		lastPlayed = formatTime(*game.LastPlayed)
	}

	_, err = stmt.ExecContext(ctx,
		game.ID,
		game.Title,
		game.RomPath,
		game.PlatformID,
		game.CoverArtPath,
		game.BackgroundPath,
		marshalStrings(game.Screenshots),
		game.Description,
		game.ReleaseDate,
		marshalStrings(game.Genres),
		game.Developer,
		game.Publisher,
		game.TotalPlayTimeSeconds,
		lastPlayed,
		game.IsFavorite,
		game.PreferredEmulatorID,
		marshalStrings(game.CollectionIDs),
		formatTime(createdAt),
	)
	if err != nil {
		return fmt.Errorf("failed to execute game insert: %w", err)
	}
	return nil
}

func sqlUpdateGame(ctx context.Context, db *sql.DB, id string, params *database.UpdateGameParams) error {
	sets := make([]string, 0, 12)
	args := make([]any, 0, 13)

	addSet := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if params.Title != nil {
		addSet("Title", *params.Title)
	}
	if params.PlatformID != nil {
		addSet("PlatformID", *params.PlatformID)
	}
	if params.CoverArtPath != nil {
		addSet("CoverArtPath", *params.CoverArtPath)
	}
	if params.BackgroundPath != nil {
		addSet("BackgroundPath", *params.BackgroundPath)
	}
	if params.Screenshots != nil {
		addSet("Screenshots", marshalStrings(*params.Screenshots))
	}
	if params.Description != nil {
		addSet("Description", *params.Description)
	}
	if params.ReleaseDate != nil {
		addSet("ReleaseDate", *params.ReleaseDate)
	}
	if params.Genres != nil {
		addSet("Genres", marshalStrings(*params.Genres))
	}
	if params.Developer != nil {
		addSet("Developer", *params.Developer)
	}
	if params.Publisher != nil {
		addSet("Publisher", *params.Publisher)
	}
	if params.IsFavorite != nil {
		addSet("IsFavorite", *params.IsFavorite)
	}
	if params.PreferredEmulatorID != nil {
		addSet("PreferredEmulatorID", *params.PreferredEmulatorID)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	//nolint:gosec // column names are fixed strings, values are bound
	query := "update Games set " + strings.Join(sets, ", ") + " where ID = ?;"

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute game update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func sqlDeleteGame(ctx context.Context, db *sql.DB, id string) error {
	stmt, err := db.PrepareContext(ctx, `delete from Games where ID = ?;`)
	if err != nil {
		return fmt.Errorf("failed to prepare game delete statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to execute game delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func sqlToggleFavorite(ctx context.Context, db *sql.DB, id string) (bool, error) {
	result, err := db.ExecContext(ctx,
		`update Games set IsFavorite = not IsFavorite where ID = ?;`, id)
	if err != nil {
		return false, fmt.Errorf("failed to toggle favorite: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return false, database.ErrNotFound
	}

	var isFavorite bool
	err = db.QueryRowContext(ctx,
		`select IsFavorite from Games where ID = ?;`, id).Scan(&isFavorite)
	if err != nil {
		return false, fmt.Errorf("failed to read favorite state: %w", err)
	}
	return isFavorite, nil
}

func sqlUpdateGamePlayTime(ctx context.Context, db *sql.DB, id string, additionalSeconds int64) error {
	stmt, err := db.PrepareContext(ctx, `
		update Games
		set TotalPlayTimeSeconds = TotalPlayTimeSeconds + ?,
			LastPlayed = ?
		where ID = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare play time update statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	result, err := stmt.ExecContext(ctx, additionalSeconds, formatTime(time.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to execute play time update: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}
	return nil
}
