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

	"github.com/rs/zerolog/log"
)

func sqlGetSetting(ctx context.Context, db *sql.DB, key string) (string, bool, error) {
	q, err := db.PrepareContext(ctx, `select Value from Settings where Key = ?;`)
	if err != nil {
		return "", false, fmt.Errorf("failed to prepare setting query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	var value string
	err = q.QueryRowContext(ctx, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	} else if err != nil {
		return "", false, fmt.Errorf("failed to query setting: %w", err)
	}
	return value, true, nil
}

func sqlSetSetting(ctx context.Context, db *sql.DB, key, value string) error {
	stmt, err := db.PrepareContext(ctx, `
		insert or replace into Settings(Key, Value) values (?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare setting upsert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	_, err = stmt.ExecContext(ctx, key, value)
	if err != nil {
		return fmt.Errorf("failed to execute setting upsert: %w", err)
	}
	return nil
}
