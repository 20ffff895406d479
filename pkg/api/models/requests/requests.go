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

package requests

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/romshelf/romshelf-core/pkg/library/launcher"
	"github.com/romshelf/romshelf-core/pkg/library/scanner"
	"github.com/romshelf/romshelf-core/pkg/scraper"
	"github.com/romshelf/romshelf-core/pkg/service/batch"
)

// RequestEnv carries the service collaborators into method handlers.
type RequestEnv struct {
	Ctx           context.Context
	Config        *config.Instance
	Database      database.LibraryDBI
	Scanner       *scanner.Reconciler
	Launcher      *launcher.Launcher
	Batch         *batch.Orchestrator
	Catalog       scraper.Catalog
	Enricher      *scraper.Enricher
	Notifications chan<- models.Notification
	Params        json.RawMessage
	ID            uuid.UUID
	IsLocal       bool
}
