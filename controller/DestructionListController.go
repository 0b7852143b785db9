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

	"github.com/maykinmedia/archiefbeheer/service"
	"github.com/maykinmedia/archiefbeheer/utils"
	"github.com/maykinmedia/archiefbeheer/view"
)

type DestructionListController interface {
	CreateList(w http.ResponseWriter, r *http.Request)
	ListLists(w http.ResponseWriter, r *http.Request)
	GetList(w http.ResponseWriter, r *http.Request)
	UpdateList(w http.ResponseWriter, r *http.Request)
	DeleteList(w http.ResponseWriter, r *http.Request)
	GetListItems(w http.ResponseWriter, r *http.Request)
	GetProgress(w http.ResponseWriter, r *http.Request)
	GetStatuses(w http.ResponseWriter, r *http.Request)

	Submit(w http.ResponseWriter, r *http.Request)
	Abort(w http.ResponseWriter, r *http.Request)
	MarkFinal(w http.ResponseWriter, r *http.Request)
	ArchivistAccept(w http.ResponseWriter, r *http.Request)
	ArchivistReject(w http.ResponseWriter, r *http.Request)
	Reassign(w http.ResponseWriter, r *http.Request)
	SetPlannedDestructionDate(w http.ResponseWriter, r *http.Request)
	StartDestruction(w http.ResponseWriter, r *http.Request)
}

func NewDestructionListController(listService service.DestructionListService) DestructionListController {
	return &destructionListControllerImpl{listService: listService}
}

type destructionListControllerImpl struct {
	listService service.DestructionListService
}

func (c destructionListControllerImpl) CreateList(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	var req view.CreateDestructionListRequest
	if customErr := readBody(r, &req); customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	list, err := c.listService.CreateList(r.Context(), actor, req)
	if err != nil {
		utils.RespondWithError(w, "Failed to create destruction list", err)
		return
	}
	utils.RespondWithJson(w, http.StatusCreated, list)
}

func (c destructionListControllerImpl) ListLists(w http.ResponseWriter, r *http.Request) {
	limit, customErr := getLimitParam(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	offset, customErr := getOffsetParam(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	lists, err := c.listService.ListLists(r.Context(), limit, offset)
	if err != nil {
		utils.RespondWithError(w, "Failed to list destruction lists", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, map[string]interface{}{"destructionLists": lists})
}

func (c destructionListControllerImpl) GetList(w http.ResponseWriter, r *http.Request) {
	list, err := c.listService.GetList(r.Context(), getStringParam(r, "listUuid"))
	if err != nil {
		utils.RespondWithError(w, "Failed to get destruction list", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, list)
}

func (c destructionListControllerImpl) UpdateList(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	var req view.UpdateDestructionListRequest
	if customErr := readBody(r, &req); customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	list, err := c.listService.UpdateList(r.Context(), getStringParam(r, "listUuid"), actor, req)
	if err != nil {
		utils.RespondWithError(w, "Failed to update destruction list", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, list)
}

func (c destructionListControllerImpl) DeleteList(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	if err := c.listService.DeleteList(r.Context(), getStringParam(r, "listUuid"), actor); err != nil {
		utils.RespondWithError(w, "Failed to delete destruction list", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c destructionListControllerImpl) GetListItems(w http.ResponseWriter, r *http.Request) {
	statuses := r.URL.Query()["status"]
	items, err := c.listService.GetListItems(r.Context(), getStringParam(r, "listUuid"), statuses)
	if err != nil {
		utils.RespondWithError(w, "Failed to get destruction list items", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (c destructionListControllerImpl) GetStatuses(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJson(w, http.StatusOK, map[string]interface{}{"statuses": view.ListStatuses()})
}

func (c destructionListControllerImpl) GetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := c.listService.GetProcessingProgress(r.Context(), getStringParam(r, "listUuid"))
	if err != nil {
		utils.RespondWithError(w, "Failed to get destruction progress", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, progress)
}

func (c destructionListControllerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	list, err := c.listService.Submit(r.Context(), getStringParam(r, "listUuid"), actor)
	if err != nil {
		utils.RespondWithError(w, "Failed to submit destruction list for review", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, list)
}

func (c destructionListControllerImpl) Abort(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	var req view.CommentRequest
	if customErr := readBody(r, &req); customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	list, err := c.listService.Abort(r.Context(), getStringParam(r, "listUuid"), actor, req.Comment)
	if err != nil {
		utils.RespondWithError(w, "Failed to abort destruction list", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, list)
}

func (c destructionListControllerImpl) MarkFinal(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	var req view.MarkFinalRequest
	if customErr := readBody(r, &req); customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	list, err := c.listService.MarkFinal(r.Context(), getStringParam(r, "listUuid"), actor, req)
	if err != nil {
		utils.RespondWithError(w, "Failed to mark destruction list as final", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, list)
}

func (c destructionListControllerImpl) ArchivistAccept(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	list, err := c.listService.ArchivistAccept(r.Context(), getStringParam(r, "listUuid"), actor)
	if err != nil {
		utils.RespondWithError(w, "Failed to accept destruction list", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, list)
}

func (c destructionListControllerImpl) ArchivistReject(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	var req view.CommentRequest
	if customErr := readBody(r, &req); customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	list, err := c.listService.ArchivistReject(r.Context(), getStringParam(r, "listUuid"), actor, req.Comment)
	if err != nil {
		utils.RespondWithError(w, "Failed to reject destruction list", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, list)
}

func (c destructionListControllerImpl) Reassign(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	var req view.ReassignRequest
	if customErr := readBody(r, &req); customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	if err := c.listService.Reassign(r.Context(), getStringParam(r, "listUuid"), actor, req); err != nil {
		utils.RespondWithError(w, "Failed to reassign destruction list", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c destructionListControllerImpl) SetPlannedDestructionDate(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	var req view.PlannedDestructionDateRequest
	if customErr := readBody(r, &req); customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	if err := c.listService.SetPlannedDestructionDate(r.Context(), getStringParam(r, "listUuid"), actor, req.Date); err != nil {
		utils.RespondWithError(w, "Failed to set planned destruction date", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c destructionListControllerImpl) StartDestruction(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	if err := c.listService.StartDestruction(r.Context(), getStringParam(r, "listUuid"), actor); err != nil {
		utils.RespondWithError(w, "Failed to start destruction", err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
