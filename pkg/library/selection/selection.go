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

// Package selection tracks which library entries are selected for a bulk
// action. Range extension is computed against an externally supplied
// ordering, so any change to the caller's filter or sort must Clear the
// tracker first.
package selection

import (
	"github.com/romshelf/romshelf-core/pkg/helpers/syncutil"
)

type Tracker struct {
	selected map[string]struct{}
	anchor   string
	mu       syncutil.Mutex
}

func NewTracker() *Tracker {
	return &Tracker{selected: make(map[string]struct{})}
}

// Select updates the selection with a click on id. A plain select resets
// the set to the single id. An extending select unions the contiguous
// range between the current anchor and id in orderedIDs into the set.
// The clicked id always becomes the new anchor, so repeated extends walk
// the range instead of measuring from the original anchor. When the
// anchor or id is missing from orderedIDs the extend degrades to adding
// just the clicked id.
func (t *Tracker) Select(id string, extend bool, orderedIDs []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !extend || t.anchor == "" {
		t.selected = map[string]struct{}{id: {}}
		t.anchor = id
		return
	}

	anchorIdx := indexOf(orderedIDs, t.anchor)
	clickedIdx := indexOf(orderedIDs, id)
	if anchorIdx < 0 || clickedIdx < 0 {
		t.selected[id] = struct{}{}
		t.anchor = id
		return
	}

	lo, hi := anchorIdx, clickedIdx
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo; i <= hi; i++ {
		t.selected[orderedIDs[i]] = struct{}{}
	}
	t.anchor = id
}

func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = make(map[string]struct{})
	t.anchor = ""
}

// Selected returns a snapshot of the selected ids in no particular order.
func (t *Tracker) Selected() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.selected))
	for id := range t.selected {
		ids = append(ids, id)
	}
	return ids
}

// Ordered returns the selected ids in the order they appear in
// orderedIDs, which is what a batch job wants as its working set.
func (t *Tracker) Ordered(orderedIDs []string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.selected))
	for _, id := range orderedIDs {
		if _, ok := t.selected[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (t *Tracker) Anchor() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.anchor
}

func (t *Tracker) Contains(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.selected[id]
	return ok
}

func indexOf(ids []string, id string) int {
	for i := range ids {
		if ids[i] == id {
			return i
		}
	}
	return -1
}
