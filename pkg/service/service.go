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

// Package service assembles the library core: database, scanner,
// launcher, catalog client and API server, wired together around a
// shared notifications channel.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/romshelf/romshelf-core/pkg/api"
	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/api/models/requests"
	"github.com/romshelf/romshelf-core/pkg/api/notifications"
	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/romshelf/romshelf-core/pkg/database/librarydb"
	"github.com/romshelf/romshelf-core/pkg/helpers"
	"github.com/romshelf/romshelf-core/pkg/library/launcher"
	"github.com/romshelf/romshelf-core/pkg/library/scanner"
	"github.com/romshelf/romshelf-core/pkg/scraper"
	"github.com/romshelf/romshelf-core/pkg/scraper/igdb"
	"github.com/romshelf/romshelf-core/pkg/service/batch"
	"github.com/rs/zerolog/log"
)

// notificationBuffer is sized so bursts of scan progress events do not
// drop before the broadcaster catches up.
const notificationBuffer = 100

func setupEnvironment() error {
	log.Info().Msg("creating data directories")
	dirs := []string{
		helpers.ConfigDir(),
		helpers.DataDir(),
		filepath.Join(helpers.DataDir(), config.MediaDir),
		filepath.Join(helpers.DataDir(), config.MediaDir, "covers"),
		filepath.Join(helpers.DataDir(), config.MediaDir, "screenshots"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Start brings up the full service and returns a stop function that
// shuts it down and blocks until cleanup finishes.
func Start(cfg *config.Instance) (stop func() error, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	ctx, cancel := context.WithCancel(context.Background())

	if err := setupEnvironment(); err != nil {
		cancel()
		log.Error().Err(err).Msg("error setting up environment")
		return nil, err
	}

	log.Info().Msg("opening library database")
	db, err := librarydb.OpenLibraryDB(ctx, helpers.DataDir())
	if err != nil {
		cancel()
		log.Error().Err(err).Msg("error opening library database")
		return nil, fmt.Errorf("failed to open library database: %w", err)
	}

	ns := make(chan models.Notification, notificationBuffer)

	reconciler := scanner.NewReconciler(cfg, db)
	reconciler.Progress = func(outcome scanner.Outcome) {
		notifications.ScanProgress(ns, outcome)
	}

	gameLauncher := launcher.NewLauncher(db)

	catalog := igdb.NewIGDB()
	enricher := scraper.NewEnricher(cfg, db, catalog, helpers.DataDir())
	orchestrator := batch.NewOrchestrator(db, enricher.Process, ns)

	env := requests.RequestEnv{
		Ctx:           ctx,
		Config:        cfg,
		Database:      db,
		Scanner:       reconciler,
		Launcher:      gameLauncher,
		Batch:         orchestrator,
		Catalog:       catalog,
		Enricher:      enricher,
		Notifications: ns,
	}

	log.Info().Msg("starting API service")
	go func() {
		if apiErr := api.Start(ctx, env, ns); apiErr != nil {
			log.Error().Err(apiErr).Msg("api server stopped")
		}
	}()

	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		log.Info().Msg("service context cancelled, running cleanup")

		orchestrator.Cancel()
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing library database")
		}

		log.Info().Msg("service cleanup completed")
		close(done)
	}()

	stop = func() error {
		cancel()
		<-done
		return nil
	}
	return stop, nil
}
