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

package batch

import (
	"encoding/json"
	"time"

	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/helpers/syncutil"
)

// ProgressTracker manages batch progress state and notifications.
type ProgressTracker struct {
	progress      *Progress
	notifications chan<- models.Notification
	progressMu    syncutil.RWMutex
}

func NewProgressTracker(notificationsChan chan<- models.Notification) *ProgressTracker {
	return &ProgressTracker{
		progress:      &Progress{Status: StatusIdle},
		notifications: notificationsChan,
	}
}

// Update applies updateFunc to the progress under lock and emits a
// batch.progress notification. The send is non-blocking: a slow client
// drops updates rather than stalling the batch loop.
func (pt *ProgressTracker) Update(updateFunc func(*Progress)) {
	pt.progressMu.Lock()
	defer pt.progressMu.Unlock()

	updateFunc(pt.progress)

	pt.notify(models.NotificationBatchProgress, pt.progress.snapshot())
}

func (pt *ProgressTracker) notify(method string, payload any) {
	if pt.notifications == nil {
		return
	}
	paramsBytes, err := json.Marshal(payload)
	if err != nil {
		return
	}
	select {
	case pt.notifications <- models.Notification{Method: method, Params: paramsBytes}:
	default:
	}
}

// Get returns a copy of the current progress.
func (pt *ProgressTracker) Get() *Progress {
	pt.progressMu.RLock()
	defer pt.progressMu.RUnlock()
	copied := pt.progress.snapshot()
	return &copied
}

func (pt *ProgressTracker) reset(operation Operation, items []Item, startedAt time.Time) {
	pt.Update(func(p *Progress) {
		p.StartedAt = &startedAt
		p.EndedAt = nil
		p.Status = StatusRunning
		p.Operation = operation
		p.Items = items
		p.Total = len(items)
		p.Processed = 0
		p.Successful = 0
		p.Failed = 0
		p.CurrentTitle = ""
	})
}

func (p *Progress) snapshot() Progress {
	copied := *p
	copied.Items = make([]Item, len(p.Items))
	copy(copied.Items, p.Items)
	return copied
}
