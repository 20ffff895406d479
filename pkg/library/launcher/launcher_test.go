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

package launcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/romshelf/romshelf-core/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProc struct {
	program string
	args    []string
	pid     int
	err     error
}

func (f *fakeProc) Start(program string, args []string) (int, error) {
	f.program = program
	f.args = args
	if f.err != nil {
		return 0, f.err
	}
	return f.pid, nil
}

func strPtr(s string) *string { return &s }

func seedLibrary(t *testing.T) *helpers.MemoryLibrary {
	t.Helper()
	db := helpers.NewMemoryLibrary()
	db.SeedPlatform(database.Platform{
		ID:                "snes",
		DisplayName:       "SNES",
		FileExtensions:    []string{".sfc"},
		DefaultEmulatorID: strPtr("snes9x"),
	})
	db.SeedEmulator(database.Emulator{
		ID:                   "snes9x",
		Name:                 "Snes9x",
		ExecutablePath:       "/usr/bin/snes9x",
		LaunchArguments:      "{rom}",
		SupportedPlatformIDs: []string{"snes"},
	})
	db.SeedEmulator(database.Emulator{
		ID:                   "retroarch",
		Name:                 "RetroArch",
		ExecutablePath:       "/usr/bin/retroarch",
		LaunchArguments:      "-L snes_core {rom}",
		SupportedPlatformIDs: []string{"snes", "nes"},
	})
	require.NoError(t, db.AddGame(&database.Game{
		ID:         "game-1",
		Title:      "Chrono Trigger",
		RomPath:    "/roms/snes/Chrono Trigger.sfc",
		PlatformID: "snes",
	}))
	return db
}

func TestRenderArguments(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/roms/a.sfc",
		RenderArguments("{rom}", "/roms/a.sfc", "A"))
	assert.Equal(t, "-t A /roms/a.sfc",
		RenderArguments("-t {title} {rom}", "/roms/a.sfc", "A"))
	// Unrecognized tokens pass through.
	assert.Equal(t, "{core} /roms/a.sfc",
		RenderArguments("{core} {rom}", "/roms/a.sfc", "A"))
}

func TestResolvePreferredBeatsPlatformDefault(t *testing.T) {
	t.Parallel()

	db := seedLibrary(t)
	require.NoError(t, db.UpdateGame("game-1", &database.UpdateGameParams{
		PreferredEmulatorID: strPtr("retroarch"),
	}))

	l := NewLauncher(db)
	spec, err := l.Resolve("game-1", "")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/retroarch", spec.Program)
	assert.Equal(t, "-L snes_core /roms/snes/Chrono Trigger.sfc", spec.Arguments)
}

func TestResolveFallsBackToPlatformDefault(t *testing.T) {
	t.Parallel()

	db := seedLibrary(t)
	l := NewLauncher(db)

	spec, err := l.Resolve("game-1", "")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/snes9x", spec.Program)
}

func TestResolveExplicitOverride(t *testing.T) {
	t.Parallel()

	db := seedLibrary(t)
	l := NewLauncher(db)

	spec, err := l.Resolve("game-1", "retroarch")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/retroarch", spec.Program)
}

func TestResolveDanglingPreferredFallsThrough(t *testing.T) {
	t.Parallel()

	db := seedLibrary(t)
	require.NoError(t, db.UpdateGame("game-1", &database.UpdateGameParams{
		PreferredEmulatorID: strPtr("uninstalled"),
	}))

	l := NewLauncher(db)
	spec, err := l.Resolve("game-1", "")
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/snes9x", spec.Program)
}

func TestResolveNoEmulatorListsCandidates(t *testing.T) {
	t.Parallel()

	db := seedLibrary(t)
	require.NoError(t, db.SetPlatformDefaultEmulator("snes", ""))

	l := NewLauncher(db)
	_, err := l.Resolve("game-1", "")
	require.Error(t, err)

	var noEmu *NoEmulatorError
	require.ErrorAs(t, err, &noEmu)
	require.Len(t, noEmu.Candidates, 2)
	names := []string{noEmu.Candidates[0].Name, noEmu.Candidates[1].Name}
	assert.Contains(t, names, "Snes9x")
	assert.Contains(t, names, "RetroArch")
}

func TestLaunchSpawnsAndTracksSession(t *testing.T) {
	t.Parallel()

	db := seedLibrary(t)
	proc := &fakeProc{pid: 4242}
	clock := clockwork.NewFakeClock()
	l := NewLauncherWith(db, proc, clock)

	result, err := l.Launch("game-1", "")
	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, result.PID)
	assert.Equal(t, 4242, *result.PID)
	assert.Equal(t, "/usr/bin/snes9x", proc.program)
	assert.Equal(t, []string{"/roms/snes/Chrono", "Trigger.sfc"}, proc.args)

	clock.Advance(90 * time.Second)
	require.NoError(t, l.EndSession("game-1"))

	game, err := db.GetGame("game-1")
	require.NoError(t, err)
	assert.Equal(t, int64(90), game.TotalPlayTimeSeconds)

	sessions, err := db.GetPlaySessions("game-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].EndTime)
	assert.Equal(t, int64(90), sessions[0].DurationSeconds)
}

func TestLaunchSpawnFailureIsResult(t *testing.T) {
	t.Parallel()

	db := seedLibrary(t)
	proc := &fakeProc{err: errors.New("exec format error")}
	l := NewLauncherWith(db, proc, clockwork.NewFakeClock())

	result, err := l.Launch("game-1", "")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "exec format error")
	assert.Nil(t, result.PID)

	// No session tracked for a failed spawn.
	require.NoError(t, l.EndSession("game-1"))
	sessions, err := db.GetPlaySessions("game-1")
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestEndSessionUnknownGameIsNoOp(t *testing.T) {
	t.Parallel()

	db := seedLibrary(t)
	l := NewLauncher(db)
	require.NoError(t, l.EndSession("never-launched"))
}

func TestValidateEmulatorPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "emu")
	require.NoError(t, os.WriteFile(file, []byte("#!/bin/sh"), 0o700)) // #nosec G306

	assert.True(t, ValidateEmulatorPath(file))
	assert.False(t, ValidateEmulatorPath(dir))
	assert.False(t, ValidateEmulatorPath(filepath.Join(dir, "missing")))
}
