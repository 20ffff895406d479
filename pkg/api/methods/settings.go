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
	"runtime"

	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/api/models/requests"
	"github.com/romshelf/romshelf-core/pkg/api/validation"
	"github.com/romshelf/romshelf-core/pkg/config"
)

// HandleSettingsGet returns a stored setting, null value when unset.
func HandleSettingsGet(env requests.RequestEnv) (any, error) {
	var params models.SettingsGetParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	value, found, err := env.Database.GetSetting(params.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to read setting: %w", err)
	}
	if !found {
		return models.SettingsGetResult{}, nil
	}
	return models.SettingsGetResult{Value: &value}, nil
}

func HandleSettingsSet(env requests.RequestEnv) (any, error) {
	var params models.SettingsSetParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if err := env.Database.SetSetting(params.Key, params.Value); err != nil {
		return nil, fmt.Errorf("failed to write setting: %w", err)
	}
	return nil, nil
}

func HandleVersion(_ requests.RequestEnv) (any, error) {
	return models.VersionResult{
		Version:  config.AppVersion,
		Platform: runtime.GOOS,
	}, nil
}
