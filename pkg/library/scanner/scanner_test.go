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

package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/romshelf/romshelf-core/pkg/testing/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Instance {
	t.Helper()
	cfg, err := config.NewConfig(t.TempDir(), config.BaseDefaults)
	require.NoError(t, err)
	return cfg
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o600))
}

func TestReconcileIdempotent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Game.nes"))
	writeFile(t, filepath.Join(dir, "Game.txt"))

	db := helpers.NewMemoryLibrary()
	db.SeedPlatform(database.Platform{ID: "nes", FileExtensions: []string{".nes"}})

	r := NewReconciler(testConfig(t), db)

	outcome, err := r.Reconcile(context.Background(), []Location{{Path: dir}})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.GamesFound)
	assert.Equal(t, 1, outcome.GamesAdded)
	assert.Equal(t, 0, outcome.GamesUpdated)
	assert.Empty(t, outcome.Errors)

	// Same unchanged folder again: nothing new.
	outcome, err = r.Reconcile(context.Background(), []Location{{Path: dir}})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.GamesFound)
	assert.Equal(t, 0, outcome.GamesAdded)
	assert.Equal(t, 1, outcome.GamesUpdated)

	games, err := db.GetAllGames()
	require.NoError(t, err)
	assert.Len(t, games, 1)
	assert.Equal(t, "Game", games[0].Title)
	assert.Equal(t, "nes", games[0].PlatformID)
}

func TestReconcileMissingLocationContinues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Mario.nes"))

	db := helpers.NewMemoryLibrary()
	db.SeedPlatform(database.Platform{ID: "nes", FileExtensions: []string{".nes"}})

	r := NewReconciler(testConfig(t), db)
	outcome, err := r.Reconcile(context.Background(), []Location{
		{Path: filepath.Join(dir, "does-not-exist")},
		{Path: dir},
	})
	require.NoError(t, err)
	assert.Len(t, outcome.Errors, 1)
	assert.Contains(t, outcome.Errors[0], "does not exist")
	assert.Equal(t, 1, outcome.GamesAdded)
}

func TestReconcilePlatformOverrideAcceptsAnyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Doom.wad.custom"))

	db := helpers.NewMemoryLibrary()
	db.SeedPlatform(database.Platform{ID: "dos", FileExtensions: []string{}})

	r := NewReconciler(testConfig(t), db)
	outcome, err := r.Reconcile(context.Background(), []Location{
		{Path: dir, PlatformID: "dos"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.GamesAdded)

	games, err := db.GetAllGames()
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "dos", games[0].PlatformID)
}

func TestReconcileManualOnlyPlatformSkippedWithoutOverride(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Setup.exe.bak"))

	db := helpers.NewMemoryLibrary()
	db.SeedPlatform(database.Platform{ID: "windows", FileExtensions: []string{}})

	r := NewReconciler(testConfig(t), db)
	outcome, err := r.Reconcile(context.Background(), []Location{{Path: dir}})
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.GamesFound)
	assert.Equal(t, 0, outcome.GamesAdded)
}

func TestReconcileAmbiguousExtensionUsesFolderHint(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "psp", "Lumines.iso"))

	db := helpers.NewMemoryLibrary()
	db.SeedPlatform(database.Platform{ID: "ps2", FileExtensions: []string{".iso"}})
	db.SeedPlatform(database.Platform{ID: "psp", FileExtensions: []string{".iso"}})

	r := NewReconciler(testConfig(t), db)
	outcome, err := r.Reconcile(context.Background(), []Location{{Path: dir}})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.GamesAdded)

	games, err := db.GetAllGames()
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "psp", games[0].PlatformID)
}

func TestReconcileGroupedDirectoryIsOneEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	gameDir := filepath.Join(dir, "Journey")
	writeFile(t, filepath.Join(gameDir, "PS3_DISC.SFB"))
	writeFile(t, filepath.Join(gameDir, "content.iso"))

	db := helpers.NewMemoryLibrary()
	db.SeedPlatform(database.Platform{ID: "ps3", FileExtensions: []string{}})
	db.SeedPlatform(database.Platform{ID: "ps2", FileExtensions: []string{".iso"}})

	r := NewReconciler(testConfig(t), db)
	outcome, err := r.Reconcile(context.Background(), []Location{{Path: dir}})
	require.NoError(t, err)
	assert.Equal(t, 1, outcome.GamesFound)
	assert.Equal(t, 1, outcome.GamesAdded)

	games, err := db.GetAllGames()
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "ps3", games[0].PlatformID)
	assert.Equal(t, "Journey", games[0].Title)
}

func TestReconcileAddErrorDoesNotAbort(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "One.nes"))
	writeFile(t, filepath.Join(dir, "Two.nes"))

	db := helpers.NewMemoryLibrary()
	db.SeedPlatform(database.Platform{ID: "nes", FileExtensions: []string{".nes"}})
	db.AddGameErr = assert.AnError

	r := NewReconciler(testConfig(t), db)
	outcome, err := r.Reconcile(context.Background(), []Location{{Path: dir}})
	require.NoError(t, err)
	assert.Equal(t, 2, outcome.GamesFound)
	assert.Equal(t, 0, outcome.GamesAdded)
	assert.Len(t, outcome.Errors, 2)
}

func TestReconcileCancelledContext(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Game.nes"))

	db := helpers.NewMemoryLibrary()
	db.SeedPlatform(database.Platform{ID: "nes", FileExtensions: []string{".nes"}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewReconciler(testConfig(t), db)
	outcome, err := r.Reconcile(ctx, []Location{{Path: dir}})
	require.NoError(t, err)
	assert.Equal(t, 0, outcome.GamesAdded)
	assert.Contains(t, outcome.Errors, "scan cancelled")
}

func TestCleanTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"Chrono Trigger (USA)", "Chrono Trigger"},
		{"Super Mario Bros [!]", "Super Mario Bros"},
		{"Sonic {Europe} (Rev A) [b1]", "Sonic"},
		{"Final  Fantasy   VII", "Final Fantasy VII"},
		{"Plain Title", "Plain Title"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CleanTitle(tt.input))
	}
}
