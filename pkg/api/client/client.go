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

// Package client is a minimal JSON-RPC client for the local API
// service, used by the CLI flags.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestTimeout   = errors.New("request timed out")
	ErrInvalidParams    = errors.New("invalid params")
	ErrRequestCancelled = errors.New("request cancelled")
)

const APIPath = "/api/v1"

func localURL(cfg *config.Instance) string {
	u := url.URL{
		Scheme: "ws",
		Host:   "localhost:" + strconv.Itoa(cfg.APIPort()),
		Path:   APIPath,
	}
	return u.String()
}

func closeConn(c *websocket.Conn) {
	if err := c.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing websocket")
	}
}

// LocalClient sends a single method with params to the local running
// API service, waits for a response until timeout then disconnects.
func LocalClient(
	ctx context.Context,
	cfg *config.Instance,
	method string,
	params string,
) (string, error) {
	id := uuid.New()
	req := models.RequestObject{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  method,
	}

	switch {
	case len(params) == 0:
		req.Params = nil
	case json.Valid([]byte(params)):
		req.Params = []byte(params)
	default:
		return "", ErrInvalidParams
	}

	c, resp, err := websocket.DefaultDialer.Dial(localURL(cfg), nil)
	if err != nil {
		return "", errors.New("service is not running")
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer closeConn(c)

	done := make(chan struct{})
	var response *models.ResponseObject

	go func() {
		defer close(done)
		for {
			_, message, readErr := c.ReadMessage()
			if readErr != nil {
				log.Error().Err(readErr).Msg("error reading message")
				return
			}

			var m models.ResponseObject
			if unmarshalErr := json.Unmarshal(message, &m); unmarshalErr != nil {
				continue
			}
			if m.JSONRPC != "2.0" || m.ID != id {
				continue
			}

			response = &m
			return
		}
	}()

	if err := c.WriteJSON(req); err != nil {
		return "", err
	}

	timer := time.NewTimer(config.APIRequestTimeout)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		closeConn(c)
		return "", ErrRequestTimeout
	case <-ctx.Done():
		closeConn(c)
		return "", ErrRequestCancelled
	}

	if response == nil {
		return "", ErrRequestTimeout
	}
	if response.Error != nil {
		return "", errors.New(response.Error.Message)
	}

	result, err := json.Marshal(response.Result)
	if err != nil {
		return "", err
	}
	return string(result), nil
}

// WaitNotification blocks until the service broadcasts a notification
// with the given method and returns its params. A zero timeout uses the
// default request timeout; negative waits forever.
func WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	cfg *config.Instance,
	method string,
) (string, error) {
	c, resp, err := websocket.DefaultDialer.Dial(localURL(cfg), nil)
	if err != nil {
		return "", errors.New("service is not running")
	}
	if resp != nil {
		_ = resp.Body.Close()
	}
	defer closeConn(c)

	done := make(chan struct{})
	var notif *models.RequestObject

	go func() {
		defer close(done)
		for {
			_, message, readErr := c.ReadMessage()
			if readErr != nil {
				log.Error().Err(readErr).Msg("error reading message")
				return
			}

			var m models.RequestObject
			if unmarshalErr := json.Unmarshal(message, &m); unmarshalErr != nil {
				continue
			}
			// notifications carry no id
			if m.JSONRPC != "2.0" || m.ID != nil || m.Method != method {
				continue
			}

			notif = &m
			return
		}
	}()

	var timerChan <-chan time.Time
	if timeout == 0 {
		timeout = config.APIRequestTimeout
	}
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timerChan = timer.C
	}

	select {
	case <-done:
	case <-timerChan:
		closeConn(c)
		return "", ErrRequestTimeout
	case <-ctx.Done():
		closeConn(c)
		return "", ErrRequestCancelled
	}

	if notif == nil {
		return "", ErrRequestTimeout
	}

	params, err := json.Marshal(notif.Params)
	if err != nil {
		return "", err
	}
	return string(params), nil
}
