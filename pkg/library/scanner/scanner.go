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

// Package scanner reconciles on-disk ROM files against the library.
// Scanning is idempotent: a file already tracked under the same
// (normalized path, platform) pair is counted as an update, never added
// twice.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charlievieth/fastwalk"
	"github.com/google/uuid"
	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/romshelf/romshelf-core/pkg/database/platformdefs"
	"github.com/romshelf/romshelf-core/pkg/helpers"
	"github.com/rs/zerolog/log"
)

// Location is one scan request entry. PlatformID, when set, forces every
// file under Path onto that platform regardless of extension.
type Location struct {
	Path       string `json:"path"`
	PlatformID string `json:"platformId,omitempty"`
}

// Outcome reports the result of a reconciliation pass. Partial success is
// a valid outcome: per-file errors are collected, not thrown.
type Outcome struct {
	Errors       []string `json:"errors"`
	GamesFound   int      `json:"gamesFound"`
	GamesAdded   int      `json:"gamesAdded"`
	GamesUpdated int      `json:"gamesUpdated"`
}

// maxErrors caps the outcome error list so a scan of a broken disk does
// not return megabytes of strings.
const maxErrors = 50

const truncationMarker = "(further errors truncated)"

func (o *Outcome) appendError(msg string) {
	if len(o.Errors) > maxErrors {
		return
	}
	if len(o.Errors) == maxErrors {
		o.Errors = append(o.Errors, truncationMarker)
		return
	}
	o.Errors = append(o.Errors, msg)
}

// GroupPredicate reports whether dir is a multi-file packaging of a single
// logical game, and if so which platform owns it. Matching directories
// become one entry and are not descended into.
type GroupPredicate func(dir string) (platformID string, ok bool)

// DefaultGroupPredicate detects PS3 disc folders by their PS3_DISC.SFB
// marker file.
func DefaultGroupPredicate(dir string) (string, bool) {
	if _, err := os.Stat(filepath.Join(dir, "PS3_DISC.SFB")); err == nil {
		return "ps3", true
	}
	return "", false
}

type Reconciler struct {
	cfg   *config.Instance
	db    database.LibraryDBI
	group GroupPredicate
	// Progress, if set, is called after each processed candidate.
	Progress func(outcome Outcome)
}

func NewReconciler(cfg *config.Instance, db database.LibraryDBI) *Reconciler {
	return &Reconciler{
		cfg:   cfg,
		db:    db,
		group: DefaultGroupPredicate,
	}
}

// SetGroupPredicate replaces the directory grouping rule. A nil predicate
// disables directory grouping entirely.
func (r *Reconciler) SetGroupPredicate(p GroupPredicate) {
	r.group = p
}

type candidate struct {
	path       string
	platformID string
}

// Reconcile scans each location in order and merges matched files into the
// library. Locations are processed independently: a missing folder is one
// error string and later locations still run. The only fatal error is the
// platform catalog being unreadable.
func (r *Reconciler) Reconcile(ctx context.Context, locations []Location) (Outcome, error) {
	var outcome Outcome

	platforms, err := r.db.GetAllPlatforms()
	if err != nil {
		return outcome, fmt.Errorf("failed to read platform catalog: %w", err)
	}

	// One extension can map to multiple platforms.
	extToPlatforms := make(map[string][]string)
	for i := range platforms {
		for _, ext := range platforms[i].FileExtensions {
			key := strings.ToLower(ext)
			extToPlatforms[key] = append(extToPlatforms[key], platforms[i].ID)
		}
	}

	for _, location := range locations {
		if err := ctx.Err(); err != nil {
			outcome.appendError("scan cancelled")
			return outcome, nil
		}
		r.reconcileLocation(ctx, location, extToPlatforms, &outcome)
	}

	return outcome, nil
}

func (r *Reconciler) reconcileLocation(
	ctx context.Context,
	location Location,
	extToPlatforms map[string][]string,
	outcome *Outcome,
) {
	root, err := helpers.NormalizePath(location.Path)
	if err != nil {
		outcome.appendError(fmt.Sprintf("Invalid path: %s", location.Path))
		return
	}
	if _, err := os.Stat(root); err != nil {
		outcome.appendError(fmt.Sprintf("Path does not exist: %s", location.Path))
		return
	}

	candidates, walkErrs := r.collectCandidates(root, location.PlatformID, extToPlatforms)
	for _, msg := range walkErrs {
		outcome.appendError(msg)
	}

	for i := range candidates {
		if err := ctx.Err(); err != nil {
			outcome.appendError("scan cancelled")
			return
		}
		r.reconcileCandidate(&candidates[i], outcome)
		if r.Progress != nil {
			r.Progress(*outcome)
		}
	}
}

// collectCandidates walks root and returns every file (or grouped
// directory) that resolves to a platform. The walk itself is not
// cancellable; candidate processing is.
func (r *Reconciler) collectCandidates(
	root, overrideID string,
	extToPlatforms map[string][]string,
) (candidates []candidate, walkErrs []string) {
	conf := fastwalk.Config{
		Follow:     r.cfg.Library().FollowSymlinks,
		NumWorkers: 1,
		Sort:       fastwalk.SortLexical,
	}

	err := fastwalk.Walk(&conf, root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			walkErrs = append(walkErrs, fmt.Sprintf("Failed to read %s: %v", path, err))
			return nil
		}

		if entry.IsDir() {
			if r.group == nil {
				return nil
			}
			platformID, ok := r.group(path)
			if !ok {
				return nil
			}
			if overrideID != "" {
				platformID = overrideID
			}
			candidates = append(candidates, candidate{path: path, platformID: platformID})
			return filepath.SkipDir
		}

		if !entry.Type().IsRegular() && entry.Type()&fs.ModeSymlink == 0 {
			return nil
		}

		platformID := resolvePlatform(path, overrideID, extToPlatforms)
		if platformID == "" {
			return nil
		}
		candidates = append(candidates, candidate{path: path, platformID: platformID})
		return nil
	})
	if err != nil {
		walkErrs = append(walkErrs, fmt.Sprintf("Failed to walk %s: %v", root, err))
	}

	return candidates, walkErrs
}

// resolvePlatform picks the platform for a file. An explicit override wins
// unconditionally. Otherwise the extension must be claimed by at least one
// platform; ties are broken by folder-name hints, then by catalog order.
func resolvePlatform(path, overrideID string, extToPlatforms map[string][]string) string {
	if overrideID != "" {
		return overrideID
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	possible := extToPlatforms[ext]
	switch len(possible) {
	case 0:
		return ""
	case 1:
		return possible[0]
	}

	if detected := platformdefs.DetectFromPath(path); detected != "" &&
		helpers.Contains(possible, detected) {
		return detected
	}
	return possible[0]
}

func (r *Reconciler) reconcileCandidate(c *candidate, outcome *Outcome) {
	romPath, err := helpers.NormalizePath(c.path)
	if err != nil {
		outcome.appendError(fmt.Sprintf("Failed to normalize %s: %v", c.path, err))
		return
	}

	outcome.GamesFound++

	_, err = r.db.GetGameByPathAndPlatform(romPath, c.platformID)
	switch {
	case err == nil:
		// Already tracked. The derived title and platform cannot have
		// changed without the path changing, so the row is left alone.
		outcome.GamesUpdated++
	case errors.Is(err, database.ErrNotFound):
		game := database.Game{
			ID:         uuid.NewString(),
			Title:      CleanTitle(titleFromPath(romPath)),
			RomPath:    romPath,
			PlatformID: c.platformID,
		}
		if addErr := r.db.AddGame(&game); addErr != nil {
			outcome.appendError(fmt.Sprintf("Failed to add %s: %v", romPath, addErr))
			return
		}
		log.Debug().
			Str("title", game.Title).
			Str("platform", game.PlatformID).
			Msg("added game from scan")
		outcome.GamesAdded++
	default:
		outcome.appendError(fmt.Sprintf("Database error for %s: %v", romPath, err))
	}
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	title := strings.TrimSuffix(base, ext)
	if title == "" {
		return "Unknown"
	}
	return title
}

// Common ROM naming tags: (USA), [!], {Europe} and friends.
var (
	parenTagRe   = regexp.MustCompile(`\s*\([^)]*\)`)
	bracketTagRe = regexp.MustCompile(`\s*\[[^\]]*\]`)
	braceTagRe   = regexp.MustCompile(`\s*\{[^}]*\}`)
)

// CleanTitle strips release-group tags from a filename-derived title and
// collapses leftover whitespace.
func CleanTitle(title string) string {
	clean := parenTagRe.ReplaceAllString(title, "")
	clean = bracketTagRe.ReplaceAllString(clean, "")
	clean = braceTagRe.ReplaceAllString(clean, "")
	return strings.Join(strings.Fields(clean), " ")
}
