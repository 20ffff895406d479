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

// Package notifications publishes server-push events onto the
// notifications channel. Sends are non-blocking: a full channel drops
// the event rather than stalling the sender.
package notifications

import (
	"encoding/json"

	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/rs/zerolog/log"
)

// LibraryReloaded signals that clients should re-read the library.
func LibraryReloaded(ns chan<- models.Notification) {
	send(ns, models.NotificationLibraryReloaded, nil)
}

// ScanProgress reports reconciliation progress.
func ScanProgress(ns chan<- models.Notification, payload any) {
	params, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Msg("marshalling scan progress")
		return
	}
	send(ns, models.NotificationScanProgress, params)
}

func send(ns chan<- models.Notification, method string, params json.RawMessage) {
	if ns == nil {
		return
	}
	select {
	case ns <- models.Notification{Method: method, Params: params}:
	default:
		log.Warn().Str("method", method).Msg("notification channel full, dropping")
	}
}
