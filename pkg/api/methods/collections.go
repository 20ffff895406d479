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
	"fmt"

	"github.com/google/uuid"
	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/api/models/requests"
	"github.com/romshelf/romshelf-core/pkg/api/validation"
	"github.com/romshelf/romshelf-core/pkg/database"
)

func HandleCollections(env requests.RequestEnv) (any, error) {
	collections, err := env.Database.GetAllCollections()
	if err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return collections, nil
}

func HandleAddCollection(env requests.RequestEnv) (any, error) {
	var params models.AddCollectionParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	collection := &database.Collection{
		ID:      uuid.NewString(),
		Name:    params.Name,
		GameIDs: []string{},
	}

	if err := env.Database.AddCollection(collection); err != nil {
		return nil, fmt.Errorf("failed to add collection: %w", err)
	}
	return collection, nil
}

func HandleUpdateCollection(env requests.RequestEnv) (any, error) {
	var params models.UpdateCollectionParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Database.UpdateCollection(params.ID, &params.Changes); err != nil {
		return nil, fmt.Errorf("failed to update collection: %w", err)
	}
	return nil, nil
}

func HandleDeleteCollection(env requests.RequestEnv) (any, error) {
	var params models.GameIDParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Database.DeleteCollection(params.ID); err != nil {
		return nil, fmt.Errorf("failed to delete collection: %w", err)
	}
	return nil, nil
}
