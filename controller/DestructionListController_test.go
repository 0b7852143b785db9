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
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStatusesListsWorkflowStatuses(t *testing.T) {
	controller := NewDestructionListController(nil)
	recorder := httptest.NewRecorder()
	controller.GetStatuses(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/statuses", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	var body struct {
		Statuses []string `json:"statuses"`
	}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, []string{
		"new", "ready_to_review", "changes_requested", "internally_reviewed",
		"ready_for_archivist", "ready_to_delete", "deleted",
	}, body.Statuses)
}
