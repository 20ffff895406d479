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

package methods

import (
	"context"

	"github.com/romshelf/romshelf-core/pkg/api/models"
	"github.com/romshelf/romshelf-core/pkg/api/models/requests"
	"github.com/romshelf/romshelf-core/pkg/api/validation"
	"github.com/romshelf/romshelf-core/pkg/service/batch"
	"github.com/rs/zerolog/log"
)

// HandleBatchStart launches a batch job in the background. Progress
// and the final aggregate arrive as notifications; batch.status polls
// the same state.
func HandleBatchStart(env requests.RequestEnv) (any, error) {
	var params models.BatchStartParams
	if err := validation.ValidateAndUnmarshal(env.Params, &params); err != nil {
		return nil, err
	}

	if env.Batch.Running() {
		return nil, batch.ErrBatchRunning
	}

	// The job must outlive this request.
	go func() {
		_, err := env.Batch.Run(context.Background(),
			batch.Operation(params.Operation), params.GameIDs)
		if err != nil {
			log.Error().Err(err).
				Str("operation", params.Operation).
				Msg("batch run failed")
		}
	}()

	return models.BatchStartResult{
		Started: true,
		Total:   len(params.GameIDs),
	}, nil
}

func HandleBatchStatus(env requests.RequestEnv) (any, error) {
	return env.Batch.Status(), nil
}

func HandleBatchCancel(env requests.RequestEnv) (any, error) {
	env.Batch.Cancel()
	return models.BatchCancelResult{Cancelled: true}, nil
}
