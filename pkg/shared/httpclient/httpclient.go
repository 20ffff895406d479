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

// Package httpclient provides the shared outbound HTTP client. Requests
// pick up credentials from auth.toml automatically based on the target
// URL, so callers never handle secrets directly.
package httpclient

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/rs/zerolog/log"
)

const DefaultTimeout = 30 * time.Second

// AuthTransport injects an Authorization header when auth.toml has an
// entry matching the request URL. Bearer tokens win over basic auth.
type AuthTransport struct {
	Base http.RoundTripper
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Base == nil {
		t.Base = http.DefaultTransport
	}

	if req.Header.Get("Authorization") == "" {
		creds := config.LookupAuth(config.GetAuthCfg(), req.URL.String())
		if creds != nil {
			switch {
			case creds.Bearer != "":
				req.Header.Set("Authorization", "Bearer "+creds.Bearer)
			case creds.Username != "":
				auth := base64.StdEncoding.EncodeToString(
					[]byte(creds.Username + ":" + creds.Password))
				req.Header.Set("Authorization", "Basic "+auth)
			}
		}
	}

	resp, err := t.Base.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform HTTP round trip: %w", err)
	}
	return resp, nil
}

// DefaultTransport pools connections across catalog requests and media
// downloads.
var DefaultTransport = &http.Transport{
	DialContext: (&net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ResponseHeaderTimeout: 30 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
}

type Client struct {
	*http.Client
}

func NewClient() *Client {
	return NewClientWithTimeout(DefaultTimeout)
}

func NewClientWithTimeout(timeout time.Duration) *Client {
	return &Client{
		Client: &http.Client{
			Transport: &AuthTransport{Base: DefaultTransport},
			Timeout:   timeout,
		},
	}
}

// DownloadFile fetches a URL into outputPath, creating parent
// directories as needed. Partial downloads are removed so a failed
// fetch never leaves a truncated file behind.
func (c *Client) DownloadFile(ctx context.Context, fileURL, outputPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("error getting url: %w", err)
	}
	if resp == nil {
		return errors.New("received nil response")
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("invalid status code: %d", resp.StatusCode)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o750); err != nil {
		return fmt.Errorf("error creating media directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304 - path built from data dir
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}

	written, err := io.Copy(file, resp.Body)
	if err != nil {
		discardPartial(file, outputPath)
		return fmt.Errorf("error downloading file: %w", err)
	}

	if expected := resp.ContentLength; expected > 0 && written != expected {
		discardPartial(file, outputPath)
		return fmt.Errorf("download incomplete: expected %d bytes, got %d",
			expected, written)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing file: %w", err)
	}
	return nil
}

func discardPartial(file *os.File, path string) {
	if err := file.Close(); err != nil {
		log.Warn().Err(err).Msgf("error closing file: %s", path)
	}
	if err := os.Remove(path); err != nil {
		log.Warn().Err(err).Msgf("error removing partial download: %s", path)
	}
}
