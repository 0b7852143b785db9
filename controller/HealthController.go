// Copyright 2024-2025 Maykin Media
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package controller

import (
	"net/http"

	"github.com/maykinmedia/archiefbeheer/client"
	"github.com/maykinmedia/archiefbeheer/db"
	"github.com/maykinmedia/archiefbeheer/utils"
	"github.com/maykinmedia/archiefbeheer/view"
)

type HealthController interface {
	HandleLivenessRequest(w http.ResponseWriter, r *http.Request)
	HandleReadinessRequest(w http.ResponseWriter, r *http.Request)
}

func NewHealthController(cp db.ConnectionProvider, pool client.ClientPool) HealthController {
	return &healthControllerImpl{cp: cp, pool: pool}
}

type healthControllerImpl struct {
	cp   db.ConnectionProvider
	pool client.ClientPool
}

func (h healthControllerImpl) HandleLivenessRequest(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// HandleReadinessRequest reports whether this instance can serve: the database
// answers and every api family a destruction run needs has a configured
// service. A missing upstream also blocks start-destruction, this just
// surfaces it before anyone tries.
func (h healthControllerImpl) HandleReadinessRequest(w http.ResponseWriter, r *http.Request) {
	if err := h.cp.GetConnection().Ping(r.Context()); err != nil {
		utils.RespondWithJson(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "down", "error": err.Error()})
		return
	}
	if err := h.pool.CheckConfigured(r.Context(), view.RequiredApiFamilies()); err != nil {
		utils.RespondWithJson(w, http.StatusServiceUnavailable, map[string]interface{}{"status": "down", "error": err.Error()})
		return
	}
	utils.RespondWithJson(w, http.StatusOK, map[string]interface{}{"status": "up"})
}
