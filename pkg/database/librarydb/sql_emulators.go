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

	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/rs/zerolog/log"
)

func scanEmulator(row interface{ Scan(...any) error }) (*database.Emulator, error) {
	var (
		emulator  database.Emulator
		platforms string
	)
	err := row.Scan(
		&emulator.ID, &emulator.Name, &emulator.ExecutablePath,
		&emulator.LaunchArguments, &platforms,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with query context
	}
	emulator.SupportedPlatformIDs = unmarshalStrings(platforms)
	return &emulator, nil
}

func sqlGetAllEmulators(ctx context.Context, db *sql.DB) ([]database.Emulator, error) {
	q, err := db.PrepareContext(ctx, `
		select ID, Name, ExecutablePath, LaunchArguments, SupportedPlatformIDs
		from Emulators
		order by Name;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare emulators query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query emulators: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	emulators := make([]database.Emulator, 0, 10)
	for rows.Next() {
		emulator, scanErr := scanEmulator(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan emulator row: %w", scanErr)
		}
		emulators = append(emulators, *emulator)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate emulator rows: %w", err)
	}

	return emulators, nil
}

func sqlGetEmulator(ctx context.Context, db *sql.DB, id string) (*database.Emulator, error) {
	q, err := db.PrepareContext(ctx, `
		select ID, Name, ExecutablePath, LaunchArguments, SupportedPlatformIDs
		from Emulators
		where ID = ?;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare emulator query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	emulator, err := scanEmulator(q.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query emulator: %w", err)
	}
	return emulator, nil
}

func sqlAddEmulator(ctx context.Context, db *sql.DB, emulator *database.Emulator) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into Emulators(
			ID, Name, ExecutablePath, LaunchArguments, SupportedPlatformIDs
		) values (?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare emulator insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	_, err = stmt.ExecContext(ctx,
		emulator.ID,
		emulator.Name,
		emulator.ExecutablePath,
		emulator.LaunchArguments,
		marshalStrings(emulator.SupportedPlatformIDs),
	)
	if err != nil {
		return fmt.Errorf("failed to execute emulator insert: %w", err)
	}
	return nil
}

func sqlUpdateEmulator(
	ctx context.Context, db *sql.DB, id string, params *database.UpdateEmulatorParams,
) error {
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)

	if params.Name != nil {
		sets = append(sets, "Name = ?")
		args = append(args, *params.Name)
	}
	if params.ExecutablePath != nil {
		sets = append(sets, "ExecutablePath = ?")
		args = append(args, *params.ExecutablePath)
	}
	if params.LaunchArguments != nil {
		sets = append(sets, "LaunchArguments = ?")
		args = append(args, *params.LaunchArguments)
	}
	if params.SupportedPlatformIDs != nil {
		sets = append(sets, "SupportedPlatformIDs = ?")
		args = append(args, marshalStrings(*params.SupportedPlatformIDs))
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "update Emulators set " + strings.Join(sets, ", ") + " where ID = ?;"

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute emulator update: %w", err)
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

func sqlDeleteEmulator(ctx context.Context, db *sql.DB, id string) error {
	stmt, err := db.PrepareContext(ctx, `delete from Emulators where ID = ?;`)
	if err != nil {
		return fmt.Errorf("failed to prepare emulator delete statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to execute emulator delete: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return database.ErrNotFound
	}

	// Clear any platform defaults and game preferences pointing at the
	// removed emulator so launch resolution falls through cleanly.
	_, err = db.ExecContext(ctx,
		`update Platforms set DefaultEmulatorID = null where DefaultEmulatorID = ?;`, id)
	if err != nil {
		return fmt.Errorf("failed to clear platform defaults: %w", err)
	}
	_, err = db.ExecContext(ctx,
		`update Games set PreferredEmulatorID = null where PreferredEmulatorID = ?;`, id)
	if err != nil {
		return fmt.Errorf("failed to clear game emulator preferences: %w", err)
	}
	return nil
}
