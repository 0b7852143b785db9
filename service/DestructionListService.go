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

package service

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/google/uuid"
	"github.com/maykinmedia/archiefbeheer/client"
	"github.com/maykinmedia/archiefbeheer/config"
	"github.com/maykinmedia/archiefbeheer/entity"
	"github.com/maykinmedia/archiefbeheer/exception"
	"github.com/maykinmedia/archiefbeheer/repository"
	"github.com/maykinmedia/archiefbeheer/service/destruction"
	"github.com/maykinmedia/archiefbeheer/utils"
	"github.com/maykinmedia/archiefbeheer/view"
	log "github.com/sirupsen/logrus"
)

// DestructionListService is the outward face of the workflow: list CRUD, the
// author/archivist actions and the handoff to the destruction scheduler.
type DestructionListService interface {
	CreateList(ctx context.Context, author string, req view.CreateDestructionListRequest) (*view.DestructionList, error)
	GetList(ctx context.Context, listUuid string) (*view.DestructionList, error)
	ListLists(ctx context.Context, limit int, offset int) ([]view.DestructionList, error)
	UpdateList(ctx context.Context, listUuid string, actor string, req view.UpdateDestructionListRequest) (*view.DestructionList, error)
	DeleteList(ctx context.Context, listUuid string, actor string) error
	// GetListItems returns the items of a list, optionally filtered by item
	// status.
	GetListItems(ctx context.Context, listUuid string, statuses []string) ([]view.DestructionListItem, error)
	GetProcessingProgress(ctx context.Context, listUuid string) (*view.ProcessingProgress, error)

	Submit(ctx context.Context, listUuid string, actor string) (*view.DestructionList, error)
	Abort(ctx context.Context, listUuid string, actor string, comment string) (*view.DestructionList, error)
	MarkFinal(ctx context.Context, listUuid string, actor string, req view.MarkFinalRequest) (*view.DestructionList, error)
	ArchivistAccept(ctx context.Context, listUuid string, actor string) (*view.DestructionList, error)
	ArchivistReject(ctx context.Context, listUuid string, actor string, comment string) (*view.DestructionList, error)
	Reassign(ctx context.Context, listUuid string, actor string, req view.ReassignRequest) error
	SetPlannedDestructionDate(ctx context.Context, listUuid string, actor string, date *time.Time) error
	StartDestruction(ctx context.Context, listUuid string, actor string) error
}

func NewDestructionListService(features config.FeatureFlags,
	listRepo repository.DestructionListRepository, taskRepo repository.TaskRepository,
	assignmentService AssignmentService, stateMachine StateMachine,
	scheduler destruction.Scheduler, pool client.ClientPool) DestructionListService {
	return &destructionListServiceImpl{
		features:          features,
		listRepo:          listRepo,
		taskRepo:          taskRepo,
		assignmentService: assignmentService,
		stateMachine:      stateMachine,
		scheduler:         scheduler,
		pool:              pool,
	}
}

type destructionListServiceImpl struct {
	features          config.FeatureFlags
	listRepo          repository.DestructionListRepository
	taskRepo          repository.TaskRepository
	assignmentService AssignmentService
	stateMachine      StateMachine
	scheduler         destruction.Scheduler
	pool              client.ClientPool
}

func (s *destructionListServiceImpl) CreateList(ctx context.Context, author string, req view.CreateDestructionListRequest) (*view.DestructionList, error) {
	if err := utils.ValidateObject(req); err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	for _, item := range req.Items {
		if seen[item.ZaakUrl] {
			return nil, duplicateZaakError(item.ZaakUrl)
		}
		seen[item.ZaakUrl] = true
	}

	now := time.Now().UTC()
	list := entity.DestructionListEntity{
		Uuid:                   uuid.NewString(),
		Name:                   req.Name,
		Author:                 author,
		Comment:                req.Comment,
		Status:                 string(view.ListStatusNew),
		ProcessingStatus:       string(view.ProcessingStatusNew),
		StatusChanged:          now,
		CreatedAt:              now,
		UpdatedAt:              now,
		AssigneeUser:           author,
		PlannedDestructionDate: req.PlannedDestructionDate,
	}
	items := make([]entity.DestructionListItemEntity, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, entity.DestructionListItemEntity{
			Uuid:              uuid.NewString(),
			ListUuid:          list.Uuid,
			ZaakUrl:           item.ZaakUrl,
			Status:            string(view.ItemStatusSuggested),
			ProcessingStatus:  string(view.ProcessingStatusNew),
			ExtraZaakData:     item.ExtraZaakData,
			ExcludedRelations: item.ExcludedRelations,
		})
	}
	assignees, err := s.assignmentService.BuildInitialAssignees(list.Uuid, author, req.Reviewers)
	if err != nil {
		return nil, err
	}
	if err := s.listRepo.CreateListWithItems(ctx, &list, items, assignees); err != nil {
		var pgErr pg.Error
		if errors.As(err, &pgErr) && pgErr.IntegrityViolation() {
			return nil, duplicateZaakError("")
		}
		return nil, err
	}
	log.Infof("Destruction list %s created by %s with %d items", list.Uuid, author, len(items))
	return entity.MakeDestructionListView(&list, assignees), nil
}

func (s *destructionListServiceImpl) GetList(ctx context.Context, listUuid string) (*view.DestructionList, error) {
	list, err := s.getList(ctx, listUuid)
	if err != nil {
		return nil, err
	}
	return s.makeView(ctx, list)
}

func (s *destructionListServiceImpl) ListLists(ctx context.Context, limit int, offset int) ([]view.DestructionList, error) {
	lists, err := s.listRepo.ListLists(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	result := make([]view.DestructionList, 0, len(lists))
	for i := range lists {
		listView, err := s.makeView(ctx, &lists[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *listView)
	}
	return result, nil
}

func (s *destructionListServiceImpl) UpdateList(ctx context.Context, listUuid string, actor string, req view.UpdateDestructionListRequest) (*view.DestructionList, error) {
	list, err := s.getList(ctx, listUuid)
	if err != nil {
		return nil, err
	}
	if err := s.requireAuthor(list, actor); err != nil {
		return nil, err
	}
	if err := requireStatus(list, "update", view.ListStatusNew); err != nil {
		return nil, err
	}
	name := req.Name
	if name == "" {
		name = list.Name
	}
	if err := s.listRepo.UpdateListMeta(ctx, listUuid, name, req.Comment); err != nil {
		return nil, err
	}
	return s.GetList(ctx, listUuid)
}

func (s *destructionListServiceImpl) DeleteList(ctx context.Context, listUuid string, actor string) error {
	list, err := s.getList(ctx, listUuid)
	if err != nil {
		return err
	}
	if err := s.requireAuthor(list, actor); err != nil {
		return err
	}
	if err := requireStatus(list, "delete", view.ListStatusNew); err != nil {
		return err
	}
	return s.listRepo.DeleteList(ctx, listUuid)
}

func (s *destructionListServiceImpl) GetListItems(ctx context.Context, listUuid string, statuses []string) ([]view.DestructionListItem, error) {
	if _, err := s.getList(ctx, listUuid); err != nil {
		return nil, err
	}
	for _, status := range statuses {
		if _, err := view.ParseItemStatus(status); err != nil {
			return nil, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.IncorrectParamType,
				Message: exception.IncorrectParamTypeMsg,
				Params:  map[string]interface{}{"param": "status", "type": "item status"},
			}
		}
	}
	items, err := s.listRepo.GetItems(ctx, listUuid, statuses)
	if err != nil {
		return nil, err
	}
	result := make([]view.DestructionListItem, 0, len(items))
	for i := range items {
		result = append(result, *entity.MakeDestructionListItemView(&items[i], s.relatedCount(ctx, &items[i])))
	}
	return result, nil
}

// relatedCount counts the relations a deletion of the zaak would take with
// it. Purely informational for reviewers; any upstream trouble degrades to
// "unknown" instead of failing the listing.
func (s *destructionListServiceImpl) relatedCount(ctx context.Context, item *entity.DestructionListItemEntity) *int {
	if s.features.RelatedCountDisabled {
		return nil
	}
	zakenBase, err := s.pool.ClientForFamily(view.ApiFamilyZaken)
	if err != nil {
		return nil
	}
	zaken := client.NewZakenClient(zakenBase)
	count := 0
	zaakObjecten, err := zaken.ListZaakObjecten(ctx, item.ZaakUrl)
	if err != nil {
		log.Debugf("Failed to count relations of zaak %s: %v", item.ZaakUrl, err)
		return nil
	}
	count += len(zaakObjecten)
	links, err := zaken.ListZaakInformatieObjecten(ctx, item.ZaakUrl)
	if err != nil {
		log.Debugf("Failed to count relations of zaak %s: %v", item.ZaakUrl, err)
		return nil
	}
	count += len(links)
	if besluitenBase, err := s.pool.ClientForFamily(view.ApiFamilyBesluiten); err == nil {
		besluiten, err := client.NewBesluitenClient(besluitenBase).ListBesluiten(ctx, item.ZaakUrl)
		if err != nil {
			log.Debugf("Failed to count relations of zaak %s: %v", item.ZaakUrl, err)
			return nil
		}
		count += len(besluiten)
	}
	return &count
}

func (s *destructionListServiceImpl) GetProcessingProgress(ctx context.Context, listUuid string) (*view.ProcessingProgress, error) {
	list, err := s.getList(ctx, listUuid)
	if err != nil {
		return nil, err
	}
	counts, err := s.listRepo.CountItemsByProcessingStatus(ctx, listUuid)
	if err != nil {
		return nil, err
	}
	tasks, err := s.taskRepo.GetTasksForList(ctx, listUuid)
	if err != nil {
		return nil, err
	}
	taskViews := make([]view.ProcessingTask, 0, len(tasks))
	for i := range tasks {
		taskViews = append(taskViews, view.ProcessingTask{
			Uuid:       tasks[i].Uuid,
			ItemUuid:   tasks[i].ItemUuid,
			Status:     tasks[i].Status,
			ClaimedBy:  tasks[i].ClaimedBy,
			CreatedAt:  tasks[i].CreatedAt,
			FinishedAt: tasks[i].FinishedAt,
		})
	}
	return &view.ProcessingProgress{
		ListUuid:         listUuid,
		ProcessingStatus: view.ProcessingStatus(list.ProcessingStatus),
		ItemCounts:       counts,
		Tasks:            taskViews,
	}, nil
}

func (s *destructionListServiceImpl) Submit(ctx context.Context, listUuid string, actor string) (*view.DestructionList, error) {
	if err := s.requireAuthorOf(ctx, listUuid, actor); err != nil {
		return nil, err
	}
	return s.transition(ctx, listUuid, ActionSubmit, actor)
}

func (s *destructionListServiceImpl) Abort(ctx context.Context, listUuid string, actor string, comment string) (*view.DestructionList, error) {
	if err := s.requireAuthorOf(ctx, listUuid, actor); err != nil {
		return nil, err
	}
	if comment != "" {
		log.Infof("Destruction list %s aborted by %s: %s", listUuid, actor, comment)
	}
	return s.transition(ctx, listUuid, ActionAbort, actor)
}

func (s *destructionListServiceImpl) MarkFinal(ctx context.Context, listUuid string, actor string, req view.MarkFinalRequest) (*view.DestructionList, error) {
	if err := utils.ValidateObject(req); err != nil {
		return nil, err
	}
	if err := s.requireAuthorOf(ctx, listUuid, actor); err != nil {
		return nil, err
	}
	// the archivist must be assigned before the transition computes its
	// target assignee
	if err := s.assignmentService.Finalize(ctx, listUuid, req.Archivist); err != nil {
		return nil, err
	}
	return s.transition(ctx, listUuid, ActionMarkFinal, actor)
}

func (s *destructionListServiceImpl) ArchivistAccept(ctx context.Context, listUuid string, actor string) (*view.DestructionList, error) {
	if err := s.requireArchivist(ctx, listUuid, actor); err != nil {
		return nil, err
	}
	return s.transition(ctx, listUuid, ActionArchivistAccept, actor)
}

func (s *destructionListServiceImpl) ArchivistReject(ctx context.Context, listUuid string, actor string, comment string) (*view.DestructionList, error) {
	if err := s.requireArchivist(ctx, listUuid, actor); err != nil {
		return nil, err
	}
	if comment == "" {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "comment"},
		}
	}
	log.Infof("Destruction list %s rejected by archivist %s: %s", listUuid, actor, comment)
	return s.transition(ctx, listUuid, ActionArchivistReject, actor)
}

func (s *destructionListServiceImpl) Reassign(ctx context.Context, listUuid string, actor string, req view.ReassignRequest) error {
	if err := utils.ValidateObject(req); err != nil {
		return err
	}
	list, err := s.getList(ctx, listUuid)
	if err != nil {
		return err
	}
	if err := s.assignmentService.Reassign(ctx, list, actor, req); err != nil {
		return err
	}
	// the departed user may be the one currently expected to act;
	// carry the handle over to the replacement
	if list.AssigneeUser == req.OldUser {
		return s.listRepo.SetAssignee(ctx, listUuid, req.NewUser)
	}
	return nil
}

func (s *destructionListServiceImpl) SetPlannedDestructionDate(ctx context.Context, listUuid string, actor string, date *time.Time) error {
	if err := s.requireAuthorOf(ctx, listUuid, actor); err != nil {
		return err
	}
	return s.listRepo.SetPlannedDestructionDate(ctx, listUuid, date)
}

func (s *destructionListServiceImpl) StartDestruction(ctx context.Context, listUuid string, actor string) error {
	if err := s.requireAuthorOf(ctx, listUuid, actor); err != nil {
		return err
	}
	return s.scheduler.StartDestruction(ctx, listUuid)
}

func (s *destructionListServiceImpl) transition(ctx context.Context, listUuid string, action TransitionAction, actor string) (*view.DestructionList, error) {
	list, err := s.stateMachine.Transition(ctx, listUuid, action, actor)
	if err != nil {
		return nil, err
	}
	return s.makeView(ctx, list)
}

func (s *destructionListServiceImpl) makeView(ctx context.Context, list *entity.DestructionListEntity) (*view.DestructionList, error) {
	assignees, err := s.assignmentService.GetAssignees(ctx, list.Uuid)
	if err != nil {
		return nil, err
	}
	return entity.MakeDestructionListView(list, assignees), nil
}

func (s *destructionListServiceImpl) getList(ctx context.Context, listUuid string) (*entity.DestructionListEntity, error) {
	list, err := s.listRepo.GetList(ctx, listUuid)
	if err != nil {
		return nil, err
	}
	if list == nil {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.DestructionListNotFound,
			Message: exception.DestructionListNotFoundMsg,
			Params:  map[string]interface{}{"list": listUuid},
		}
	}
	return list, nil
}

func (s *destructionListServiceImpl) requireAuthorOf(ctx context.Context, listUuid string, actor string) error {
	list, err := s.getList(ctx, listUuid)
	if err != nil {
		return err
	}
	return s.requireAuthor(list, actor)
}

func (s *destructionListServiceImpl) requireAuthor(list *entity.DestructionListEntity, actor string) error {
	if list.Author != actor {
		return &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
			Params:  map[string]interface{}{"user": actor},
		}
	}
	return nil
}

func (s *destructionListServiceImpl) requireArchivist(ctx context.Context, listUuid string, actor string) error {
	list, err := s.getList(ctx, listUuid)
	if err != nil {
		return err
	}
	if list.AssigneeUser != actor {
		return &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.NotCurrentAssignee,
			Message: exception.NotCurrentAssigneeMsg,
			Params:  map[string]interface{}{"user": actor, "list": listUuid},
		}
	}
	archivists, err := s.assignmentService.GetAssignees(ctx, listUuid)
	if err != nil {
		return err
	}
	for _, assignee := range archivists {
		if assignee.User == actor && view.AssigneeRole(assignee.Role) == view.RoleArchivist {
			return nil
		}
	}
	return &exception.CustomError{
		Status:  http.StatusForbidden,
		Code:    exception.IncorrectAssigneeRole,
		Message: exception.IncorrectAssigneeRoleMsg,
		Params:  map[string]interface{}{"user": actor, "role": view.RoleArchivist, "list": listUuid},
	}
}

func requireStatus(list *entity.DestructionListEntity, action string, allowed view.ListStatus) error {
	if view.ListStatus(list.Status) == allowed {
		return nil
	}
	return &exception.CustomError{
		Status:  http.StatusConflict,
		Code:    exception.InvalidListStatus,
		Message: exception.InvalidListStatusMsg,
		Params:  map[string]interface{}{"action": action, "status": list.Status},
	}
}

func duplicateZaakError(zaakUrl string) error {
	return &exception.CustomError{
		Status:  http.StatusBadRequest,
		Code:    exception.DuplicateZaakInList,
		Message: exception.DuplicateZaakInListMsg,
		Params:  map[string]interface{}{"zaak": zaakUrl},
	}
}
