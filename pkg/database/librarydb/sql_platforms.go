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

	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/rs/zerolog/log"
)

func scanPlatform(row interface{ Scan(...any) error }) (*database.Platform, error) {
	var (
		platform   database.Platform
		extensions string
		iconPath   sql.NullString
		defaultEmu sql.NullString
	)
	err := row.Scan(
		&platform.ID, &platform.DisplayName, &platform.Manufacturer,
		&extensions, &iconPath, &defaultEmu, &platform.Color,
	)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers wrap with query context
	}
	platform.FileExtensions = unmarshalStrings(extensions)
	platform.IconPath = nullableStr(iconPath)
	platform.DefaultEmulatorID = nullableStr(defaultEmu)
	return &platform, nil
}

func sqlGetAllPlatforms(ctx context.Context, db *sql.DB) ([]database.Platform, error) {
	q, err := db.PrepareContext(ctx, `
		select ID, DisplayName, Manufacturer, FileExtensions, IconPath,
			DefaultEmulatorID, Color
		from Platforms
		order by Manufacturer, DisplayName;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare platforms query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query platforms: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	platforms := make([]database.Platform, 0, 40)
	for rows.Next() {
		platform, scanErr := scanPlatform(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan platform row: %w", scanErr)
		}
		platforms = append(platforms, *platform)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate platform rows: %w", err)
	}

	return platforms, nil
}

func sqlGetPlatform(ctx context.Context, db *sql.DB, id string) (*database.Platform, error) {
	q, err := db.PrepareContext(ctx, `
		select ID, DisplayName, Manufacturer, FileExtensions, IconPath,
			DefaultEmulatorID, Color
		from Platforms
		where ID = ?;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare platform query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	platform, err := scanPlatform(q.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, database.ErrNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to query platform: %w", err)
	}
	return platform, nil
}

func sqlSetPlatformDefaultEmulator(
	ctx context.Context, db *sql.DB, platformID, emulatorID string,
) error {
	stmt, err := db.PrepareContext(ctx, `
		update Platforms set DefaultEmulatorID = ? where ID = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare platform default statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	var value any
	if emulatorID != "" {
		value = emulatorID
	}
	result, err := stmt.ExecContext(ctx, value, platformID)
	if err != nil {
		return fmt.Errorf("failed to execute platform default update: %w", err)
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
