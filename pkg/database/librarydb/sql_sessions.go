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
	"fmt"
	"time"

	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/rs/zerolog/log"
)

func sqlCreatePlaySession(ctx context.Context, db *sql.DB, session *database.PlaySession) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into PlaySessions(ID, GameID, StartTime, EndTime, DurationSeconds)
		values (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare play session insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	var endTime any
	if session.EndTime != nil {
		endTime = formatTime(*session.EndTime)
	}
	_, err = stmt.ExecContext(ctx,
		session.ID,
		session.GameID,
		formatTime(session.StartTime),
		endTime,
		session.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("failed to execute play session insert: %w", err)
	}
	return nil
}

func sqlEndPlaySession(
	ctx context.Context, db *sql.DB, sessionID string, endTime time.Time, durationSeconds int64,
) error {
	stmt, err := db.PrepareContext(ctx, `
		update PlaySessions set EndTime = ?, DurationSeconds = ? where ID = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare play session update statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	result, err := stmt.ExecContext(ctx, formatTime(endTime), durationSeconds, sessionID)
	if err != nil {
		return fmt.Errorf("failed to execute play session update: %w", err)
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

func sqlGetPlaySessions(ctx context.Context, db *sql.DB, gameID string) ([]database.PlaySession, error) {
	q, err := db.PrepareContext(ctx, `
		select ID, GameID, StartTime, EndTime, DurationSeconds
		from PlaySessions
		where GameID = ?
		order by StartTime desc;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare play sessions query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query play sessions: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	sessions := make([]database.PlaySession, 0, 25)
	for rows.Next() {
		var (
			session   database.PlaySession
			startTime string
			endTime   sql.NullString
		)
		err := rows.Scan(&session.ID, &session.GameID, &startTime,
			&endTime, &session.DurationSeconds)
		if err != nil {
			return nil, fmt.Errorf("failed to scan play session row: %w", err)
		}
		if t, parseErr := parseTime(startTime); parseErr == nil {
			session.StartTime = t
		}
		session.EndTime = nullableTime(endTime)
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate play session rows: %w", err)
	}

	return sessions, nil
}
