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

// Package launcher resolves which emulator runs a library entry and
// spawns it. Resolution is a fixed precedence chain; rendering the
// argument template and tracking play sessions live here too.
package launcher

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/romshelf/romshelf-core/pkg/database"
	"github.com/romshelf/romshelf-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

// NoEmulatorError means the precedence chain found nothing to launch
// with. Candidates carries every emulator claiming the entry's platform
// so the caller can offer manual selection.
type NoEmulatorError struct {
	Candidates []database.Emulator
}

func (*NoEmulatorError) Error() string {
	return "no emulator configured for this game or platform"
}

// Spec is a resolved launch: the program to run and its rendered
// argument string. Quoting is the spawner's problem, not ours.
type Spec struct {
	Program   string `json:"program"`
	Arguments string `json:"arguments"`
}

// Result mirrors what the UI needs to know about a launch attempt.
type Result struct {
	PID     *int   `json:"pid,omitempty"`
	Error   string `json:"error,omitempty"`
	Success bool   `json:"success"`
}

// ProcessLauncher spawns the resolved program. Implementations report
// the child PID and must not wait for the process to exit.
type ProcessLauncher interface {
	Start(program string, args []string) (pid int, err error)
}

// ExecLauncher is the default ProcessLauncher backed by os/exec.
type ExecLauncher struct{}

func (ExecLauncher) Start(program string, args []string) (int, error) {
	cmd := exec.Command(program, args...) // #nosec G204 - user-configured emulator
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start emulator: %w", err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		log.Warn().Err(err).Msg("failed to release emulator process handle")
	}
	return pid, nil
}

type session struct {
	sessionID string
	startedAt int64
	pid       int
}

type Launcher struct {
	db      database.LibraryDBI
	proc    ProcessLauncher
	clock   clockwork.Clock
	active  map[string]session
	procsMu syncutil.Mutex
}

func NewLauncher(db database.LibraryDBI) *Launcher {
	return &Launcher{
		db:     db,
		proc:   ExecLauncher{},
		clock:  clockwork.NewRealClock(),
		active: make(map[string]session),
	}
}

// NewLauncherWith injects the process spawner and clock, for tests.
func NewLauncherWith(db database.LibraryDBI, proc ProcessLauncher, clock clockwork.Clock) *Launcher {
	return &Launcher{
		db:     db,
		proc:   proc,
		clock:  clock,
		active: make(map[string]session),
	}
}

// RenderArguments substitutes {rom} and {title} in an argument template.
// Unrecognized tokens pass through verbatim.
func RenderArguments(template, romPath, title string) string {
	return strings.NewReplacer(
		"{rom}", romPath,
		"{title}", title,
	).Replace(template)
}

// Resolve picks the emulator for a game. Precedence, first valid match
// wins: the game's own preferred emulator, then an explicit override
// from the caller, then the platform default. A dangling reference at
// any level falls through to the next. When nothing resolves the error
// is a *NoEmulatorError listing the capable emulators.
func (l *Launcher) Resolve(gameID, overrideEmulatorID string) (*Spec, error) {
	game, err := l.db.GetGame(gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game: %w", err)
	}

	candidates := make([]string, 0, 3)
	if game.PreferredEmulatorID != nil && *game.PreferredEmulatorID != "" {
		candidates = append(candidates, *game.PreferredEmulatorID)
	}
	if overrideEmulatorID != "" {
		candidates = append(candidates, overrideEmulatorID)
	}
	platform, err := l.db.GetPlatform(game.PlatformID)
	if err == nil && platform.DefaultEmulatorID != nil && *platform.DefaultEmulatorID != "" {
		candidates = append(candidates, *platform.DefaultEmulatorID)
	}

	for _, id := range candidates {
		emulator, lookupErr := l.db.GetEmulator(id)
		if lookupErr != nil {
			log.Debug().Str("emulator", id).Msg("skipping dangling emulator reference")
			continue
		}
		return &Spec{
			Program:   emulator.ExecutablePath,
			Arguments: RenderArguments(emulator.LaunchArguments, game.RomPath, game.Title),
		}, nil
	}

	return nil, &NoEmulatorError{Candidates: l.capableEmulators(game.PlatformID)}
}

func (l *Launcher) capableEmulators(platformID string) []database.Emulator {
	emulators, err := l.db.GetAllEmulators()
	if err != nil {
		return nil
	}
	capable := make([]database.Emulator, 0, len(emulators))
	for i := range emulators {
		for _, id := range emulators[i].SupportedPlatformIDs {
			if id == platformID {
				capable = append(capable, emulators[i])
				break
			}
		}
	}
	return capable
}

// Launch resolves and spawns a game. Spawn failures come back as an
// unsuccessful Result, not an error; errors are reserved for unknown
// games and resolution failure.
func (l *Launcher) Launch(gameID, overrideEmulatorID string) (Result, error) {
	game, err := l.db.GetGame(gameID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to load game: %w", err)
	}

	spec, err := l.Resolve(gameID, overrideEmulatorID)
	if err != nil {
		return Result{}, err
	}

	pid, err := l.proc.Start(spec.Program, strings.Fields(spec.Arguments))
	if err != nil {
		return Result{Success: false, Error: err.Error()}, nil
	}

	playSession := database.PlaySession{
		ID:        uuid.NewString(),
		GameID:    game.ID,
		StartTime: l.clock.Now(),
	}
	if err := l.db.CreatePlaySession(&playSession); err != nil {
		log.Warn().Err(err).Msg("failed to create play session")
	}

	l.procsMu.Lock()
	l.active[game.ID] = session{
		sessionID: playSession.ID,
		startedAt: l.clock.Now().Unix(),
		pid:       pid,
	}
	l.procsMu.Unlock()

	log.Info().
		Str("title", game.Title).
		Str("program", spec.Program).
		Int("pid", pid).
		Msg("launched game")

	return Result{Success: true, PID: &pid}, nil
}

// EndSession closes the active play session for a game and credits the
// elapsed time to the entry. Unknown game ids are a no-op.
func (l *Launcher) EndSession(gameID string) error {
	l.procsMu.Lock()
	active, ok := l.active[gameID]
	if ok {
		delete(l.active, gameID)
	}
	l.procsMu.Unlock()
	if !ok {
		return nil
	}

	endTime := l.clock.Now()
	duration := endTime.Unix() - active.startedAt

	if err := l.db.EndPlaySession(active.sessionID, endTime, duration); err != nil {
		return fmt.Errorf("failed to end play session: %w", err)
	}
	if err := l.db.UpdateGamePlayTime(gameID, duration); err != nil {
		return fmt.Errorf("failed to update play time: %w", err)
	}
	return nil
}

// ValidateEmulatorPath reports whether path exists and is a regular file.
func ValidateEmulatorPath(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
