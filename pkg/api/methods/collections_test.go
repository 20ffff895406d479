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

package methods

import (
	"testing"

	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAddCollection(t *testing.T) {
	t.Parallel()

	env, db, _ := testEnv(t)
	env.Params = mustMarshal(t, models.AddCollectionParams{Name: "RPGs"})

	result, err := HandleAddCollection(env)
	require.NoError(t, err)

	collection, ok := result.(*database.Collection)
	require.True(t, ok)
	assert.NotEmpty(t, collection.ID)
	assert.Equal(t, "RPGs", collection.Name)
	assert.Empty(t, collection.GameIDs)

	stored, err := db.GetAllCollections()
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestHandleUpdateCollectionMembership(t *testing.T) {
	t.Parallel()

	env, db, _ := testEnv(t)
	require.NoError(t, db.AddCollection(&database.Collection{
		ID:      "col-1",
		Name:    "Favorites",
		GameIDs: []string{},
	}))

	gameIDs := []string{"game-1"}
	env.Params = mustMarshal(t, models.UpdateCollectionParams{
		ID: "col-1",
		Changes: database.UpdateCollectionParams{
			GameIDs: &gameIDs,
		},
	})

	_, err := HandleUpdateCollection(env)
	require.NoError(t, err)

	stored, err := db.GetAllCollections()
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, []string{"game-1"}, stored[0].GameIDs)
	// name untouched
	assert.Equal(t, "Favorites", stored[0].Name)
}

func TestHandleDeleteCollectionUnknown(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(t)
	env.Params = mustMarshal(t, models.GameIDParams{ID: "missing"})

	_, err := HandleDeleteCollection(env)
	require.Error(t, err)
}
