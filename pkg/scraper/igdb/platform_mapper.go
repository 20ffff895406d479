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

package igdb

// platformIDs maps library platform ids to IGDB numeric platform ids.
// Reference: https://api-docs.igdb.com/#platform
var platformIDs = map[string]int{
	// Nintendo
	"nes":        18,
	"snes":       19,
	"n64":        4,
	"gamecube":   21,
	"wii":        5,
	"wiiu":       41,
	"switch":     130,
	"gb":         33,
	"gbc":        22,
	"gba":        24,
	"nds":        20,
	"3ds":        37,
	"virtualboy": 87,

	// Sony
	"ps1":  7,
	"ps2":  8,
	"ps3":  9,
	"ps4":  48,
	"psp":  38,
	"vita": 46,

	// Sega
	"genesis":      29,
	"megadrive":    29,
	"mastersystem": 64,
	"gamegear":     35,
	"saturn":       32,
	"dreamcast":    23,
	"segacd":       78,
	"32x":          30,

	// Microsoft
	"xbox":    11,
	"xbox360": 12,
	"xboxone": 49,

	// Atari
	"atari2600":   59,
	"atari7800":   60,
	"atarijaguar": 62,
	"atarilynx":   61,

	// SNK
	"neogeo":   80,
	"neogeocd": 136,
	"ngp":      119,
	"ngpc":     120,

	// NEC
	"pcengine": 86,
	"pcfx":     274,

	// Other
	"arcade":          52,
	"dos":             13,
	"windows":         6,
	"3do":             50,
	"wonderswan":      57,
	"wonderswancolor": 123,
	"msx":             27,
	"msx2":            53,
	"coleco":          68,
	"intellivision":   67,
}

// MapPlatform returns the IGDB platform id for a library platform id.
// Platforms with no IGDB equivalent (e.g. scummvm) report false and
// searches for them go unfiltered.
func MapPlatform(platformID string) (int, bool) {
	id, ok := platformIDs[platformID]
	return id, ok
}
