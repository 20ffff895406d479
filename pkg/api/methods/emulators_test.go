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
	"os"
	"path/filepath"
	"testing"

	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleAddEmulatorDefaultsLaunchArguments(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(t)
	env.Params = mustMarshal(t, models.AddEmulatorParams{
		Name:                 "bsnes",
		ExecutablePath:       "/usr/bin/bsnes",
		SupportedPlatformIDs: []string{"snes"},
	})

	result, err := HandleAddEmulator(env)
	require.NoError(t, err)

	emulator, ok := result.(*database.Emulator)
	require.True(t, ok)
	assert.Equal(t, "{rom}", emulator.LaunchArguments)
	assert.NotEmpty(t, emulator.ID)
}

func TestHandleAddEmulatorUnknownPlatform(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(t)
	env.Params = mustMarshal(t, models.AddEmulatorParams{
		Name:                 "Dolphin",
		ExecutablePath:       "/usr/bin/dolphin-emu",
		SupportedPlatformIDs: []string{"gamecube"},
	})

	_, err := HandleAddEmulator(env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown platform")
}

func TestHandleDeleteEmulatorClearsPlatformDefault(t *testing.T) {
	t.Parallel()

	env, db, _ := testEnv(t)
	require.NoError(t, db.SetPlatformDefaultEmulator("snes", "emu-1"))

	env.Params = mustMarshal(t, models.GameIDParams{ID: "emu-1"})
	_, err := HandleDeleteEmulator(env)
	require.NoError(t, err)

	platform, err := db.GetPlatform("snes")
	require.NoError(t, err)
	assert.Nil(t, platform.DefaultEmulatorID)
}

func TestHandleDefaultEmulator(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(t)
	env.Params = mustMarshal(t, models.DefaultEmulatorParams{
		PlatformID: "snes",
		EmulatorID: "emu-1",
	})

	result, err := HandleDefaultEmulator(env)
	require.NoError(t, err)

	platform, ok := result.(*database.Platform)
	require.True(t, ok)
	require.NotNil(t, platform.DefaultEmulatorID)
	assert.Equal(t, "emu-1", *platform.DefaultEmulatorID)
}

func TestHandleDefaultEmulatorRejectsIncapable(t *testing.T) {
	t.Parallel()

	env, db, _ := testEnv(t)
	db.SeedPlatform(database.Platform{ID: "nes", DisplayName: "NES"})

	env.Params = mustMarshal(t, models.DefaultEmulatorParams{
		PlatformID: "nes",
		EmulatorID: "emu-1",
	})

	_, err := HandleDefaultEmulator(env)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not support")
}

func TestHandleValidateEmulatorPath(t *testing.T) {
	t.Parallel()

	env, _, _ := testEnv(t)

	exe := filepath.Join(t.TempDir(), "emu")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))

	env.Params = mustMarshal(t, models.ValidatePathParams{Path: exe})
	result, err := HandleValidateEmulatorPath(env)
	require.NoError(t, err)
	assert.Equal(t, models.ValidatePathResult{Valid: true}, result)

	env.Params = mustMarshal(t, models.ValidatePathParams{Path: "/does/not/exist"})
	result, err = HandleValidateEmulatorPath(env)
	require.NoError(t, err)
	assert.Equal(t, models.ValidatePathResult{Valid: false}, result)
}
