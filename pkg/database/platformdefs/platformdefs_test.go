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

package platformdefs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "exact folder component",
			path:     "/roms/ps2/Shadow of the Colossus.iso",
			expected: "ps2",
		},
		{
			name:     "case insensitive",
			path:     "/roms/PS2/Game.iso",
			expected: "ps2",
		},
		{
			name:     "spaced keyword in component",
			path:     "/mnt/games/playstation 2 collection/Game.iso",
			expected: "ps2",
		},
		{
			name:     "underscore prefix",
			path:     "/roms/snes_usa/Game.sfc",
			expected: "snes",
		},
		{
			name:     "windows separators",
			path:     `C:\Games\Dreamcast\Game.cdi`,
			expected: "dreamcast",
		},
		{
			name:     "ps2 matched before ps1 substring",
			path:     "/roms/ps2/Game.iso",
			expected: "ps2",
		},
		{
			name:     "no hint match",
			path:     "/downloads/Game.iso",
			expected: "",
		},
		{
			name:     "keyword inside word does not match",
			path:     "/roms/snesmusic/Game.iso",
			expected: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, DetectFromPath(tt.path))
		})
	}
}
