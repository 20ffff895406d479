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

	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/api/models/requests"
	"github.com/romshelf/romshelf-core/pkg/api/validation"
	"github.com/romshelf/romshelf-core/pkg/helpers"
)

func HandlePlatforms(env requests.RequestEnv) (any, error) {
	platforms, err := env.Database.GetAllPlatforms()
	if err != nil {
		return nil, fmt.Errorf("failed to list platforms: %w", err)
	}
	return platforms, nil
}

// HandleDefaultEmulator sets a platform's default emulator. The
// emulator must declare the platform in its capability set.
func HandleDefaultEmulator(env requests.RequestEnv) (any, error) {
	var params models.DefaultEmulatorParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	emulator, err := env.Database.GetEmulator(params.EmulatorID)
	if err != nil {
		return nil, fmt.Errorf("unknown emulator: %s", params.EmulatorID)
	}
	if !helpers.Contains(emulator.SupportedPlatformIDs, params.PlatformID) {
		return nil, fmt.Errorf("emulator %s does not support platform %s",
			emulator.Name, params.PlatformID)
	}

	if err := env.Database.SetPlatformDefaultEmulator(
		params.PlatformID, params.EmulatorID); err != nil {
		return nil, fmt.Errorf("failed to set default emulator: %w", err)
	}

	platform, err := env.Database.GetPlatform(params.PlatformID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload platform: %w", err)
	}
	return platform, nil
}
