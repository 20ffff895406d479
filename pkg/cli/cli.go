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

// Package cli implements the command line flags shared by the service
// binary. Flags that talk to a running service go through the local API
// client so the binary doubles as a thin remote control.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/romshelf/romshelf-core/pkg/api/client"
	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/romshelf/romshelf-core/pkg/helpers"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	API     *string
	Scan    *bool
	Games   *bool
	Version *bool
}

// SetupFlags defines the common CLI flags.
func SetupFlags() *Flags {
	return &Flags{
		API: flag.String(
			"api",
			"",
			"send method and params to the running service and print response",
		),
		Scan: flag.Bool(
			"scan",
			false,
			"trigger a library scan of the configured folders",
		),
		Games: flag.Bool(
			"games",
			false,
			"print the game library as JSON",
		),
		Version: flag.Bool(
			"version",
			false,
			"print version and exit",
		),
	}
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// Pre runs flag parsing and actions any immediate flags that don't
// require environment setup. Add any custom flags before running this.
func (f *Flags) Pre() {
	flag.Parse()

	if *f.Version {
		_, _ = fmt.Printf("Romshelf v%s\n", config.AppVersion)
		os.Exit(0)
	}
}

func callAPI(cfg *config.Instance, method, params string) {
	resp, err := client.LocalClient(context.Background(), cfg, method, params)
	if err != nil {
		log.Error().Err(err).Str("method", method).Msg("error calling API")
		_, _ = fmt.Fprintf(os.Stderr, "Error calling API: %v\n", err)
		os.Exit(1)
	}

	_, _ = fmt.Println(resp)
	os.Exit(0)
}

// Post actions all remaining common flags that require the environment
// to be set up. Logging is allowed.
func (f *Flags) Post(cfg *config.Instance) {
	switch {
	case isFlagPassed("api"):
		if *f.API == "" {
			_, _ = fmt.Fprint(os.Stderr, "Error: api flag requires a value\n")
			os.Exit(1)
		}

		ps := strings.SplitN(*f.API, ":", 2)
		method := ps[0]
		params := ""
		if len(ps) > 1 {
			params = ps[1]
		}
		callAPI(cfg, method, params)
	case *f.Scan:
		callAPI(cfg, models.MethodLibraryScan, "")
	case *f.Games:
		callAPI(cfg, models.MethodGames, "")
	}
}

// Setup initializes logging and the user config.
//
//nolint:gocritic // config struct copied for immutability
func Setup(defaultConfig config.Values, writers []io.Writer) *config.Instance {
	err := helpers.InitLogging(helpers.DataDir(), writers)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.NewConfig(helpers.ConfigDir(), defaultConfig)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if cfg.DebugLogging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	return cfg
}
