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
	"strings"

	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/rs/zerolog/log"
)

func sqlGetAllCollections(ctx context.Context, db *sql.DB) ([]database.Collection, error) {
	q, err := db.PrepareContext(ctx, `
		select ID, Name, GameIDs, CoverGameID
		from Collections
		order by Name;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare collections query statement: %w", err)
	}
	defer func() {
		if closeErr := q.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query collections: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql rows")
		}
	}()

	collections := make([]database.Collection, 0, 10)
	for rows.Next() {
		var (
			collection database.Collection
			gameIDs    string
			coverGame  sql.NullString
		)
		err := rows.Scan(&collection.ID, &collection.Name, &gameIDs, &coverGame)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collection row: %w", err)
		}
		collection.GameIDs = unmarshalStrings(gameIDs)
		collection.CoverGameID = nullableStr(coverGame)
		collections = append(collections, collection)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collection rows: %w", err)
	}

	return collections, nil
}

func sqlAddCollection(ctx context.Context, db *sql.DB, collection *database.Collection) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into Collections(ID, Name, GameIDs, CoverGameID)
		values (?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare collection insert statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	_, err = stmt.ExecContext(ctx,
		collection.ID,
		collection.Name,
		marshalStrings(collection.GameIDs),
		collection.CoverGameID,
	)
	if err != nil {
		return fmt.Errorf("failed to execute collection insert: %w", err)
	}
	return nil
}

func sqlUpdateCollection(
	ctx context.Context, db *sql.DB, id string, params *database.UpdateCollectionParams,
) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if params.Name != nil {
		sets = append(sets, "Name = ?")
		args = append(args, *params.Name)
	}
	if params.GameIDs != nil {
		sets = append(sets, "GameIDs = ?")
		args = append(args, marshalStrings(*params.GameIDs))
	}
	if params.CoverGameID != nil {
		sets = append(sets, "CoverGameID = ?")
		args = append(args, *params.CoverGameID)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := "update Collections set " + strings.Join(sets, ", ") + " where ID = ?;"

	result, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to execute collection update: %w", err)
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

func sqlDeleteCollection(ctx context.Context, db *sql.DB, id string) error {
	stmt, err := db.PrepareContext(ctx, `delete from Collections where ID = ?;`)
	if err != nil {
		return fmt.Errorf("failed to prepare collection delete statement: %w", err)
	}
	defer func() {
		if closeErr := stmt.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close sql statement")
		}
	}()

	result, err := stmt.ExecContext(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to execute collection delete: %w", err)
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
