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

// Package batch drives long-running multi-item operations over the
// library: metadata scraping and bulk deletion. Items run strictly
// sequentially, one item's failure never aborts the rest, and
// cancellation is cooperative, observed only at item boundaries.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/romshelf/romshelf-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

type Operation string

const (
	OperationScrape Operation = "scrape"
	OperationDelete Operation = "delete"
)

type ItemStatus string

const (
	ItemPending    ItemStatus = "pending"
	ItemInProgress ItemStatus = "inProgress"
	ItemSucceeded  ItemStatus = "succeeded"
	ItemFailed     ItemStatus = "failed"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Item struct {
	GameID string     `json:"gameId"`
	Title  string     `json:"title,omitempty"`
	Status ItemStatus `json:"status"`
	Error  string     `json:"error,omitempty"`
}

type Progress struct {
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	EndedAt      *time.Time `json:"endedAt,omitempty"`
	Status       Status     `json:"status"`
	Operation    Operation  `json:"operation,omitempty"`
	CurrentTitle string     `json:"currentTitle,omitempty"`
	Items        []Item     `json:"items"`
	Total        int        `json:"total"`
	Processed    int        `json:"processed"`
	Successful   int        `json:"successful"`
	Failed       int        `json:"failed"`
}

type AggregateResult struct {
	Errors     []string `json:"errors"`
	Total      int      `json:"total"`
	Successful int      `json:"successful"`
	Failed     int      `json:"failed"`
	Cancelled  bool     `json:"cancelled"`
}

// maxErrors caps the aggregate error list.
const maxErrors = 50

const truncationMarker = "(further errors truncated)"

var ErrBatchRunning = errors.New("a batch operation is already running")

// ItemProcessor performs the per-item work for the scrape operation.
// It is the seam between the orchestrator and the metadata catalog.
type ItemProcessor func(ctx context.Context, game *database.Game) error

type Orchestrator struct {
	db            database.LibraryDBI
	tracker       *ProgressTracker
	scrape        ItemProcessor
	notifications chan<- models.Notification
	clock         clockwork.Clock
	cancelled     atomic.Bool
	running       bool
	runningMu     syncutil.Mutex
}

func NewOrchestrator(
	db database.LibraryDBI,
	scrape ItemProcessor,
	notificationsChan chan<- models.Notification,
) *Orchestrator {
	return &Orchestrator{
		db:            db,
		tracker:       NewProgressTracker(notificationsChan),
		scrape:        scrape,
		notifications: notificationsChan,
		clock:         clockwork.NewRealClock(),
	}
}

// NewOrchestratorWith injects the clock, for tests.
func NewOrchestratorWith(
	db database.LibraryDBI,
	scrape ItemProcessor,
	notificationsChan chan<- models.Notification,
	clock clockwork.Clock,
) *Orchestrator {
	o := NewOrchestrator(db, scrape, notificationsChan)
	o.clock = clock
	return o
}

// Status returns a snapshot of the current batch progress.
func (o *Orchestrator) Status() *Progress {
	return o.tracker.Get()
}

// Cancel requests cooperative cancellation of the running batch. The
// current item finishes; items not yet started stay pending.
func (o *Orchestrator) Cancel() {
	o.cancelled.Store(true)
}

// Running reports whether a batch job is currently in flight.
func (o *Orchestrator) Running() bool {
	o.runningMu.Lock()
	defer o.runningMu.Unlock()
	return o.running
}

// Run executes one batch job synchronously and returns its aggregate
// result. Only one job may run at a time; a second concurrent call
// fails with ErrBatchRunning. Item order follows gameIDs.
func (o *Orchestrator) Run(
	ctx context.Context, operation Operation, gameIDs []string,
) (AggregateResult, error) {
	o.runningMu.Lock()
	if o.running {
		o.runningMu.Unlock()
		return AggregateResult{}, ErrBatchRunning
	}
	o.running = true
	o.cancelled.Store(false)
	o.runningMu.Unlock()

	defer func() {
		o.runningMu.Lock()
		o.running = false
		o.runningMu.Unlock()
	}()

	items := make([]Item, len(gameIDs))
	for i, id := range gameIDs {
		items[i] = Item{GameID: id, Status: ItemPending}
	}
	o.tracker.reset(operation, items, o.clock.Now())

	result := AggregateResult{Total: len(gameIDs), Errors: []string{}}

	for i := range gameIDs {
		if o.cancelled.Load() || ctx.Err() != nil {
			result.Cancelled = true
			break
		}
		o.runItem(ctx, operation, i, &result)
	}

	o.finish(&result)
	return result, nil
}

func (o *Orchestrator) runItem(
	ctx context.Context, operation Operation, index int, result *AggregateResult,
) {
	var gameID string
	o.tracker.Update(func(p *Progress) {
		gameID = p.Items[index].GameID
		p.Items[index].Status = ItemInProgress
	})

	label := gameID
	var opErr error

	game, err := o.db.GetGame(gameID)
	switch {
	case err != nil:
		opErr = fmt.Errorf("failed to load game: %w", err)
	case operation == OperationDelete:
		label = game.Title
		opErr = o.db.DeleteGame(gameID)
	case operation == OperationScrape:
		label = game.Title
		if o.scrape == nil {
			opErr = errors.New("no metadata catalog configured")
		} else {
			opErr = o.scrape(ctx, game)
		}
	default:
		opErr = fmt.Errorf("unknown operation: %s", operation)
	}

	o.tracker.Update(func(p *Progress) {
		p.Items[index].Title = label
		p.Processed++
		p.CurrentTitle = label
		if opErr != nil {
			p.Items[index].Status = ItemFailed
			p.Items[index].Error = opErr.Error()
			p.Failed++
		} else {
			p.Items[index].Status = ItemSucceeded
			p.Successful++
		}
	})

	if opErr != nil {
		log.Warn().Err(opErr).Str("game", label).Msg("batch item failed")
		result.Failed++
		appendError(result, fmt.Sprintf("%s: %v", label, opErr))
	} else {
		result.Successful++
	}
}

// finish runs once per job, completed or cancelled: the library reload
// signal fires so clients re-read everything changed so far, then the
// final state and aggregate go out.
func (o *Orchestrator) finish(result *AggregateResult) {
	status := StatusCompleted
	if result.Cancelled {
		status = StatusCancelled
	}
	endedAt := o.clock.Now()
	o.tracker.Update(func(p *Progress) {
		p.Status = status
		p.CurrentTitle = ""
		p.EndedAt = &endedAt
	})

	o.notifyRaw(models.NotificationLibraryReloaded, nil)

	payload, err := json.Marshal(result)
	if err == nil {
		o.notifyRaw(models.NotificationBatchComplete, payload)
	}

	log.Info().
		Int("total", result.Total).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Bool("cancelled", result.Cancelled).
		Msg("batch finished")
}

func (o *Orchestrator) notifyRaw(method string, params json.RawMessage) {
	if o.notifications == nil {
		return
	}
	select {
	case o.notifications <- models.Notification{Method: method, Params: params}:
	default:
	}
}

func appendError(result *AggregateResult, msg string) {
	if len(result.Errors) > maxErrors {
		return
	}
	if len(result.Errors) == maxErrors {
		result.Errors = append(result.Errors, truncationMarker)
		return
	}
	result.Errors = append(result.Errors, msg)
}
