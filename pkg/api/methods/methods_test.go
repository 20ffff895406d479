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
	"context"
	"encoding/json"
	"testing"

	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/api/models/requests"
	"github.com/romshelf/romshelf-core/pkg/database"
	testhelpers "github.com/romshelf/romshelf-core/pkg/testing/helpers"
	"github.com/stretchr/testify/require"
)

// testEnv builds a RequestEnv backed by an in-memory library seeded
// with one platform, one emulator and one game.
func testEnv(t *testing.T) (requests.RequestEnv, *testhelpers.MemoryLibrary, chan models.Notification) {
	t.Helper()

	db := testhelpers.NewMemoryLibrary()
	db.SeedPlatform(database.Platform{
		ID:             "snes",
		DisplayName:    "Super Nintendo",
		FileExtensions: []string{".sfc", ".smc"},
	})
	db.SeedEmulator(database.Emulator{
		ID:                   "emu-1",
		Name:                 "Snes9x",
		ExecutablePath:       "/usr/bin/snes9x",
		LaunchArguments:      "{rom}",
		SupportedPlatformIDs: []string{"snes"},
	})
	require.NoError(t, db.AddGame(&database.Game{
		ID:         "game-1",
		Title:      "Chrono Trigger",
		RomPath:    "/roms/snes/chrono trigger.sfc",
		PlatformID: "snes",
	}))

	notifs := make(chan models.Notification, 16)
	env := requests.RequestEnv{
		Ctx:           context.Background(),
		Database:      db,
		Notifications: notifs,
	}
	return env, db, notifs
}

func mustMarshal(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func drainNotifications(notifs chan models.Notification) []models.Notification {
	var out []models.Notification
	for {
		select {
		case n := <-notifs:
			out = append(out, n)
		default:
			return out
		}
	}
}
