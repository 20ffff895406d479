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
	"github.com/romshelf/romshelf-core/pkg/library/launcher"
)

// defaultLaunchArguments passes just the rom path to the emulator.
const defaultLaunchArguments = "{rom}"

func HandleEmulators(env requests.RequestEnv) (any, error) {
	emulators, err := env.Database.GetAllEmulators()
	if err != nil {
		return nil, fmt.Errorf("failed to list emulators: %w", err)
	}
	return emulators, nil
}

func HandleAddEmulator(env requests.RequestEnv) (any, error) {
	var params models.AddEmulatorParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	launchArgs := defaultLaunchArguments
	if params.LaunchArguments != nil && *params.LaunchArguments != "" {
		launchArgs = *params.LaunchArguments
	}

	for _, platformID := range params.SupportedPlatformIDs {
		if _, err := env.Database.GetPlatform(platformID); err != nil {
			return nil, fmt.Errorf("unknown platform: %s", platformID)
		}
	}

	emulator := &database.Emulator{
		ID:                   uuid.NewString(),
		Name:                 params.Name,
		ExecutablePath:       params.ExecutablePath,
		LaunchArguments:      launchArgs,
		SupportedPlatformIDs: params.SupportedPlatformIDs,
	}

	if err := env.Database.AddEmulator(emulator); err != nil {
		return nil, fmt.Errorf("failed to add emulator: %w", err)
	}
	return emulator, nil
}

func HandleUpdateEmulator(env requests.RequestEnv) (any, error) {
	var params models.UpdateEmulatorParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Database.UpdateEmulator(params.ID, &params.Changes); err != nil {
		return nil, fmt.Errorf("failed to update emulator: %w", err)
	}

	emulator, err := env.Database.GetEmulator(params.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload emulator: %w", err)
	}
	return emulator, nil
}

// HandleDeleteEmulator removes an emulator. References from platform
// defaults and game preferences are cleared by the store.
func HandleDeleteEmulator(env requests.RequestEnv) (any, error) {
	var params models.GameIDParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Database.DeleteEmulator(params.ID); err != nil {
		return nil, fmt.Errorf("failed to delete emulator: %w", err)
	}
	return nil, nil
}

func HandleValidateEmulatorPath(env requests.RequestEnv) (any, error) {
	var params models.ValidatePathParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	return models.ValidatePathResult{
		Valid: launcher.ValidateEmulatorPath(params.Path),
	}, nil
}
