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
	"strings"
)

// Hints are folder-name heuristics used to disambiguate a file whose
// extension maps to more than one platform. Given a path like
// "/roms/PS2/Game.iso", any path component matching a hint keyword
// associates the file with that platform.
//
// Order matters: more specific names are listed before substrings of
// themselves (ps2 before ps1, gbc before gb) so lookup is first-match.

type Hint struct {
	PlatformID string
	Keywords   []string
}

var Hints = []Hint{
	{PlatformID: "ps2", Keywords: []string{"ps2", "playstation 2", "playstation2", "sony ps2"}},
	{PlatformID: "ps1", Keywords: []string{"ps1", "psx", "playstation 1", "playstation1", "psone"}},
	{PlatformID: "psp", Keywords: []string{"psp", "playstation portable"}},
	{PlatformID: "ps3", Keywords: []string{"ps3", "playstation 3", "playstation3"}},
	{PlatformID: "vita", Keywords: []string{"vita", "psvita", "ps vita"}},
	{PlatformID: "gamecube", Keywords: []string{"gamecube", "gcn", "ngc", "nintendo gamecube"}},
	{PlatformID: "wii", Keywords: []string{"wii", "nintendo wii"}},
	{PlatformID: "switch", Keywords: []string{"switch", "nintendo switch", "nx"}},
	{PlatformID: "n64", Keywords: []string{"n64", "nintendo 64", "nintendo64"}},
	{PlatformID: "snes", Keywords: []string{"snes", "super nintendo", "super nes", "sfc"}},
	{PlatformID: "nes", Keywords: []string{"nes", "nintendo entertainment", "famicom"}},
	{PlatformID: "gba", Keywords: []string{"gba", "gameboy advance", "game boy advance"}},
	{PlatformID: "gbc", Keywords: []string{"gbc", "gameboy color", "game boy color"}},
	{PlatformID: "gb", Keywords: []string{"gameboy", "game boy"}},
	{PlatformID: "nds", Keywords: []string{"nds", "nintendo ds", "ds"}},
	{PlatformID: "3ds", Keywords: []string{"3ds", "nintendo 3ds"}},
	{PlatformID: "genesis", Keywords: []string{"genesis", "mega drive", "megadrive", "sega genesis"}},
	{PlatformID: "saturn", Keywords: []string{"saturn", "sega saturn"}},
	{PlatformID: "dreamcast", Keywords: []string{"dreamcast", "sega dreamcast"}},
	{PlatformID: "xbox", Keywords: []string{"xbox", "original xbox"}},
	{PlatformID: "xbox360", Keywords: []string{"xbox 360", "xbox360", "x360"}},
	{PlatformID: "arcade", Keywords: []string{"arcade", "mame", "fba", "fbneo"}},
}

// DetectFromPath attempts to associate a file path with a platform by
// matching path components against the hint keywords. Returns an empty
// string when nothing matches.
func DetectFromPath(path string) string {
	pathLower := strings.ToLower(path)
	parts := strings.FieldsFunc(pathLower, func(r rune) bool {
		return r == '/' || r == '\\'
	})

	for _, hint := range Hints {
		for _, keyword := range hint.Keywords {
			for _, part := range parts {
				if part == keyword ||
					strings.Contains(part, keyword+" ") ||
					strings.Contains(part, " "+keyword) ||
					strings.HasPrefix(part, keyword+"_") ||
					strings.HasSuffix(part, "_"+keyword) {
					return hint.PlatformID
				}
			}
		}
	}

	return ""
}
