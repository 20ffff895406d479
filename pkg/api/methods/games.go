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
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/api/models/requests"
	"github.com/romshelf/romshelf-core/pkg/api/notifications"
	"github.com/romshelf/romshelf-core/pkg/api/validation"
	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/romshelf/romshelf-core/pkg/helpers"
	"github.com/romshelf/romshelf-core/pkg/library/launcher"
)

func HandleGames(env requests.RequestEnv) (any, error) {
	games, err := env.Database.GetAllGames()
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

// HandleAddGame creates a manual library entry. The platform must
// exist; the rom path is accepted as-is since manual entries bypass
// extension matching.
func HandleAddGame(env requests.RequestEnv) (any, error) {
	var params models.AddGameParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if _, err := env.Database.GetPlatform(params.PlatformID); err != nil {
		return nil, fmt.Errorf("unknown platform: %s", params.PlatformID)
	}

	romPath, err := helpers.NormalizePath(params.RomPath)
	if err != nil {
		return nil, fmt.Errorf("invalid rom path: %w", err)
	}

	game := &database.Game{
		ID:           uuid.NewString(),
		Title:        params.Title,
		RomPath:      romPath,
		PlatformID:   params.PlatformID,
		CoverArtPath: params.CoverArtPath,
		Description:  params.Description,
	}

	if err := env.Database.AddGame(game); err != nil {
		return nil, fmt.Errorf("failed to add game: %w", err)
	}

	notifications.LibraryReloaded(env.Notifications)
	return game, nil
}

func HandleUpdateGame(env requests.RequestEnv) (any, error) {
	var params models.UpdateGameParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Database.UpdateGame(params.ID, &params.Changes); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	game, err := env.Database.GetGame(params.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload game: %w", err)
	}
	return game, nil
}

func HandleDeleteGame(env requests.RequestEnv) (any, error) {
	var params models.GameIDParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Database.DeleteGame(params.ID); err != nil {
		return nil, fmt.Errorf("failed to delete game: %w", err)
	}

	notifications.LibraryReloaded(env.Notifications)
	return nil, nil
}

func HandleFavoriteGame(env requests.RequestEnv) (any, error) {
	var params models.GameIDParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if _, err := env.Database.ToggleFavorite(params.ID); err != nil {
		return nil, fmt.Errorf("failed to toggle favorite: %w", err)
	}

	game, err := env.Database.GetGame(params.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload game: %w", err)
	}
	return game, nil
}

// HandleLaunchGame resolves an emulator and spawns it. Resolution
// failure is returned as a result, not an error, so the client gets the
// candidate list for ad-hoc selection.
func HandleLaunchGame(env requests.RequestEnv) (any, error) {
	var params models.LaunchGameParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	result, err := env.Launcher.Launch(params.GameID, params.EmulatorID)
	if err != nil {
		var noEmu *launcher.NoEmulatorError
		if errors.As(err, &noEmu) {
			return models.LaunchFailedResult{
				Error:      noEmu.Error(),
				Candidates: noEmu.Candidates,
				Success:    false,
			}, nil
		}
		return nil, fmt.Errorf("failed to launch game: %w", err)
	}

	return result, nil
}

func HandleEndGameSession(env requests.RequestEnv) (any, error) {
	var params models.GameIDParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Launcher.EndSession(params.ID); err != nil {
		return nil, fmt.Errorf("failed to end session: %w", err)
	}
	return nil, nil
}

func HandleGameSessions(env requests.RequestEnv) (any, error) {
	var params models.GameIDParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	sessions, err := env.Database.GetPlaySessions(params.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}
