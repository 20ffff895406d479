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

package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var ordering = []string{"g1", "g2", "g3", "g4", "g5"}

func TestPlainSelectResetsSet(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	tr.Select("g2", false, ordering)
	tr.Select("g4", false, ordering)

	assert.ElementsMatch(t, []string{"g4"}, tr.Selected())
	assert.Equal(t, "g4", tr.Anchor())
}

func TestExtendWalksRange(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	tr.Select("g2", false, ordering)
	assert.Equal(t, "g2", tr.Anchor())

	tr.Select("g4", true, ordering)
	assert.ElementsMatch(t, []string{"g2", "g3", "g4"}, tr.Selected())
	assert.Equal(t, "g4", tr.Anchor())

	// Anchor moved to g4, so extending to g1 unions g4..g1.
	tr.Select("g1", true, ordering)
	assert.ElementsMatch(t, []string{"g1", "g2", "g3", "g4"}, tr.Selected())
	assert.Equal(t, "g1", tr.Anchor())
}

func TestExtendWithoutAnchorDegrades(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	tr.Select("g3", true, ordering)

	assert.ElementsMatch(t, []string{"g3"}, tr.Selected())
	assert.Equal(t, "g3", tr.Anchor())
}

func TestExtendWithMissingIDDegrades(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	tr.Select("g2", false, ordering)

	// View was filtered between clicks: anchor no longer in ordering.
	tr.Select("g5", true, []string{"g4", "g5"})
	assert.ElementsMatch(t, []string{"g2", "g5"}, tr.Selected())
	assert.Equal(t, "g5", tr.Anchor())
}

func TestRangeSelectionSymmetry(t *testing.T) {
	t.Parallel()

	forward := NewTracker()
	forward.Select("g2", false, ordering)
	forward.Select("g4", true, ordering)

	backward := NewTracker()
	backward.Select("g4", false, ordering)
	backward.Select("g2", true, ordering)

	assert.ElementsMatch(t, forward.Selected(), backward.Selected())
}

func TestClear(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	tr.Select("g1", false, ordering)
	tr.Select("g3", true, ordering)
	tr.Clear()

	assert.Empty(t, tr.Selected())
	assert.Empty(t, tr.Anchor())

	// Extend after clear behaves like a fresh select.
	tr.Select("g5", true, ordering)
	assert.ElementsMatch(t, []string{"g5"}, tr.Selected())
}

func TestOrderedFollowsViewOrder(t *testing.T) {
	t.Parallel()

	tr := NewTracker()
	tr.Select("g4", false, ordering)
	tr.Select("g2", true, ordering)

	assert.Equal(t, []string{"g2", "g3", "g4"}, tr.Ordered(ordering))
	assert.True(t, tr.Contains("g3"))
	assert.False(t, tr.Contains("g5"))
}
