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

// Package api exposes the JSON-RPC 2.0 surface over WebSocket and HTTP
// POST. Server-push notifications broadcast to all connected WebSocket
// sessions.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/romshelf/romshelf-core/pkg/api/methods"
	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/api/models/requests"
	"github.com/romshelf/romshelf-core/pkg/config"
	"github.com/rs/zerolog/log"
)

var (
	JSONRPCErrorParseError = models.ErrorObject{
		Code:    -32700,
		Message: "Parse error",
	}
	JSONRPCErrorInvalidRequest = models.ErrorObject{
		Code:    -32600,
		Message: "Invalid Request",
	}
	JSONRPCErrorMethodNotFound = models.ErrorObject{
		Code:    -32601,
		Message: "Method not found",
	}
	JSONRPCErrorServerError = models.ErrorObject{
		Code:    -32000,
		Message: "Server error",
	}
)

var methodMap = map[string]func(requests.RequestEnv) (any, error){
	// library
	models.MethodLibraryScan: methods.HandleLibraryScan,
	// games
	models.MethodGames:           methods.HandleGames,
	models.MethodGamesAdd:        methods.HandleAddGame,
	models.MethodGamesUpdate:     methods.HandleUpdateGame,
	models.MethodGamesDelete:     methods.HandleDeleteGame,
	models.MethodGamesFavorite:   methods.HandleFavoriteGame,
	models.MethodGamesLaunch:     methods.HandleLaunchGame,
	models.MethodGamesEndSession: methods.HandleEndGameSession,
	models.MethodGamesSessions:   methods.HandleGameSessions,
	// platforms
	models.MethodPlatforms:                methods.HandlePlatforms,
	models.MethodPlatformsDefaultEmulator: methods.HandleDefaultEmulator,
	// emulators
	models.MethodEmulators:              methods.HandleEmulators,
	models.MethodEmulatorsAdd:           methods.HandleAddEmulator,
	models.MethodEmulatorsUpdate:        methods.HandleUpdateEmulator,
	models.MethodEmulatorsDelete:        methods.HandleDeleteEmulator,
	models.MethodEmulatorsValidatePath:  methods.HandleValidateEmulatorPath,
	// collections
	models.MethodCollections:       methods.HandleCollections,
	models.MethodCollectionsAdd:    methods.HandleAddCollection,
	models.MethodCollectionsUpdate: methods.HandleUpdateCollection,
	models.MethodCollectionsDelete: methods.HandleDeleteCollection,
	// catalog
	models.MethodCatalogSearch: methods.HandleCatalogSearch,
	models.MethodCatalogScrape: methods.HandleCatalogScrape,
	// batch
	models.MethodBatchStart:  methods.HandleBatchStart,
	models.MethodBatchStatus: methods.HandleBatchStatus,
	models.MethodBatchCancel: methods.HandleBatchCancel,
	// settings
	models.MethodSettingsGet: methods.HandleSettingsGet,
	models.MethodSettingsSet: methods.HandleSettingsSet,
	// utils
	models.MethodVersion: methods.HandleVersion,
}

// Method lookup is case-insensitive.
var methodIndex = func() map[string]func(requests.RequestEnv) (any, error) {
	index := make(map[string]func(requests.RequestEnv) (any, error), len(methodMap))
	for name, fn := range methodMap {
		index[strings.ToLower(name)] = fn
	}
	return index
}()

func maybeUUID(req *models.RequestObject) uuid.UUID {
	if req.ID == nil {
		return uuid.Nil
	}
	return *req.ID
}

func handleRequest(env requests.RequestEnv, req *models.RequestObject) (any, *models.ErrorObject) {
	log.Debug().Str("method", req.Method).Msg("received request")

	fn, ok := methodIndex[strings.ToLower(req.Method)]
	if !ok {
		return nil, &JSONRPCErrorMethodNotFound
	}

	env.ID = *req.ID
	env.Params = req.Params

	result, err := fn(env)
	if err != nil {
		log.Warn().Err(err).Str("method", req.Method).Msg("request failed")
		return nil, &models.ErrorObject{
			Code:    JSONRPCErrorServerError.Code,
			Message: err.Error(),
		}
	}
	return result, nil
}

func marshalResponse(id uuid.UUID, result any, errObj *models.ErrorObject) ([]byte, error) {
	if errObj != nil {
		return json.Marshal(models.ResponseErrorObject{
			JSONRPC: "2.0",
			ID:      id,
			Error:   errObj,
		})
	}
	data, err := json.Marshal(models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
	if err != nil {
		return nil, fmt.Errorf("error marshalling response: %w", err)
	}
	return data, nil
}

func sendWS(session *melody.Session, id uuid.UUID, result any, errObj *models.ErrorObject) {
	data, err := marshalResponse(id, result, errObj)
	if err != nil {
		log.Error().Err(err).Msg("error marshalling response")
		return
	}
	if err := session.Write(data); err != nil {
		log.Error().Err(err).Msg("error sending response")
	}
}

func broadcastNotifications(
	ctx context.Context,
	session *melody.Melody,
	notifications <-chan models.Notification,
) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("stopping notification broadcast")
			return
		case notif := <-notifications:
			req := models.RequestObject{
				JSONRPC: "2.0",
				Method:  notif.Method,
				Params:  notif.Params,
			}
			data, err := json.Marshal(req)
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification request")
				continue
			}
			if err := session.Broadcast(data); err != nil {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

func handleWSMessage(baseEnv requests.RequestEnv) func(*melody.Session, []byte) {
	return func(session *melody.Session, msg []byte) {
		// ping command for heartbeat operation
		if bytes.Equal(msg, []byte("ping")) {
			if err := session.Write([]byte("pong")); err != nil {
				log.Error().Err(err).Msg("sending pong")
			}
			return
		}

		if !json.Valid(msg) {
			sendWS(session, uuid.Nil, nil, &JSONRPCErrorParseError)
			return
		}

		var req models.RequestObject
		err := json.Unmarshal(msg, &req)
		if err != nil || req.JSONRPC != "2.0" || req.Method == "" {
			sendWS(session, maybeUUID(&req), nil, &JSONRPCErrorInvalidRequest)
			return
		}

		if req.ID == nil {
			// request is a notification, nothing to respond to
			log.Info().Str("method", req.Method).Msg("received notification, ignoring")
			return
		}

		env := baseEnv
		env.IsLocal = isLocalAddr(session.Request.RemoteAddr)

		result, errObj := handleRequest(env, &req)
		sendWS(session, *req.ID, result, errObj)
	}
}

// handlePost serves single JSON-RPC requests over plain HTTP for
// clients without a WebSocket.
func handlePost(baseEnv requests.RequestEnv) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		var req models.RequestObject
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writePostResponse(w, uuid.Nil, nil, &JSONRPCErrorParseError)
			return
		}
		if req.JSONRPC != "2.0" || req.Method == "" {
			writePostResponse(w, maybeUUID(&req), nil, &JSONRPCErrorInvalidRequest)
			return
		}
		if req.ID == nil {
			// notification, the server must not reply
			log.Info().Str("method", req.Method).Msg("received notification, ignoring")
			w.WriteHeader(http.StatusNoContent)
			return
		}

		env := baseEnv
		env.Ctx = r.Context()
		env.IsLocal = isLocalAddr(r.RemoteAddr)

		result, errObj := handleRequest(env, &req)
		writePostResponse(w, *req.ID, result, errObj)
	}
}

func writePostResponse(w http.ResponseWriter, id uuid.UUID, result any, errObj *models.ErrorObject) {
	data, err := marshalResponse(id, result, errObj)
	if err != nil {
		log.Error().Err(err).Msg("error marshalling response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if _, err := w.Write(data); err != nil {
		log.Error().Err(err).Msg("error writing response")
	}
}

func isLocalAddr(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func allowedOrigins(cfg *config.Instance) []string {
	origins := cfg.Service().AllowedOrigins
	if len(origins) == 0 {
		return []string{"https://*", "http://*"}
	}
	return origins
}

// NewRouter builds the HTTP routing for the API without binding a
// listener, so tests can drive it through httptest.
func NewRouter(ctx context.Context, baseEnv requests.RequestEnv,
	notifications <-chan models.Notification,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(config.APIRequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(baseEnv.Config),
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	session := melody.New()
	session.Upgrader.CheckOrigin = func(_ *http.Request) bool { return true }
	go broadcastNotifications(ctx, session, notifications)

	session.HandleMessage(handleWSMessage(baseEnv))

	r.Get("/api/v1", func(w http.ResponseWriter, r *http.Request) {
		if err := session.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	})
	r.Post("/api/v1", handlePost(baseEnv))

	return r
}

// Start runs the API server until ctx is cancelled.
func Start(ctx context.Context, baseEnv requests.RequestEnv,
	notifications <-chan models.Notification,
) error {
	router := NewRouter(ctx, baseEnv, notifications)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(baseEnv.Config.APIPort()),
		Handler:           router,
		ReadHeaderTimeout: config.APIRequestTimeout,
	}

	go func() {
		<-ctx.Done()
		if err := server.Close(); err != nil {
			log.Warn().Err(err).Msg("closing http server")
		}
	}()

	log.Info().Int("port", baseEnv.Config.APIPort()).Msg("starting api server")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error starting http server: %w", err)
	}
	return nil
}
