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
	"net/http"
	"time"

	"github.com/maykinmedia/archiefbeheer/entity"
	"github.com/maykinmedia/archiefbeheer/exception"
	"github.com/maykinmedia/archiefbeheer/metrics"
	"github.com/maykinmedia/archiefbeheer/repository"
	"github.com/maykinmedia/archiefbeheer/view"
	log "github.com/sirupsen/logrus"
)

// TransitionAction names a workflow step a user can take on a destruction
// list. Each action is valid from exactly the statuses listed in
// transitionTable.
type TransitionAction string

const (
	ActionSubmit          TransitionAction = "submit"
	ActionReviewAccepted  TransitionAction = "review_accepted"
	ActionReviewRejected  TransitionAction = "review_rejected"
	ActionResubmit        TransitionAction = "resubmit"
	ActionMarkFinal       TransitionAction = "mark_final"
	ActionAbort           TransitionAction = "abort"
	ActionArchivistAccept TransitionAction = "archivist_accepted"
	ActionArchivistReject TransitionAction = "archivist_rejected"
	ActionMarkDeleted     TransitionAction = "mark_deleted"
)

type transitionRule struct {
	from view.ListStatus
	to   view.ListStatus
}

// transitionTable is the complete workflow. An (action, from) pair absent
// from the table is an invalid transition.
var transitionTable = map[TransitionAction][]transitionRule{
	ActionSubmit: {
		{view.ListStatusNew, view.ListStatusReadyToReview},
	},
	ActionReviewAccepted: {
		// the last main reviewer accepted; intermediate accepts only
		// advance the assignee and stay in ready_to_review
		{view.ListStatusReadyToReview, view.ListStatusInternallyReviewed},
	},
	ActionReviewRejected: {
		{view.ListStatusReadyToReview, view.ListStatusChangesRequested},
	},
	ActionResubmit: {
		{view.ListStatusChangesRequested, view.ListStatusReadyToReview},
	},
	ActionMarkFinal: {
		{view.ListStatusInternallyReviewed, view.ListStatusReadyForArchivist},
	},
	ActionAbort: {
		{view.ListStatusInternallyReviewed, view.ListStatusNew},
	},
	ActionArchivistAccept: {
		{view.ListStatusReadyForArchivist, view.ListStatusReadyToDelete},
	},
	ActionArchivistReject: {
		// an archivist rejection reopens the internal stage; the author can
		// re-finalise or abort from there
		{view.ListStatusReadyForArchivist, view.ListStatusInternallyReviewed},
	},
	ActionMarkDeleted: {
		{view.ListStatusReadyToDelete, view.ListStatusDeleted},
	},
}

// StateMachine applies workflow transitions to destruction lists. Every
// transition runs under the per-list lock, re-reads the list inside the
// critical section and bumps status_changed monotonically.
type StateMachine interface {
	// Transition moves the list along the workflow and returns the updated
	// entity. actor is recorded in the emitted event only; permission checks
	// belong to the calling service.
	Transition(ctx context.Context, listUuid string, action TransitionAction, actor string) (*entity.DestructionListEntity, error)
	// TransitionLocked is Transition for callers that already hold the
	// per-list lock. The lock is not re-entrant, so a caller serialising a
	// larger protocol must use this variant inside its critical section.
	TransitionLocked(ctx context.Context, listUuid string, action TransitionAction, actor string) (*entity.DestructionListEntity, error)
	// TargetStatus resolves the destination of action from the given status
	// without applying it.
	TargetStatus(from view.ListStatus, action TransitionAction) (view.ListStatus, error)
}

func NewStateMachine(listRepo repository.DestructionListRepository, assignmentService AssignmentService,
	lockService LockService, publisher EventPublisher) StateMachine {
	return &stateMachineImpl{
		listRepo:          listRepo,
		assignmentService: assignmentService,
		lockService:       lockService,
		publisher:         publisher,
	}
}

type stateMachineImpl struct {
	listRepo          repository.DestructionListRepository
	assignmentService AssignmentService
	lockService       LockService
	publisher         EventPublisher
}

func (m *stateMachineImpl) TargetStatus(from view.ListStatus, action TransitionAction) (view.ListStatus, error) {
	for _, rule := range transitionTable[action] {
		if rule.from == from {
			return rule.to, nil
		}
	}
	return "", &exception.CustomError{
		Status:  http.StatusConflict,
		Code:    exception.InvalidStatusTransition,
		Message: exception.InvalidStatusTransitionMsg,
		Params:  map[string]interface{}{"action": string(action), "from": from},
	}
}

func (m *stateMachineImpl) Transition(ctx context.Context, listUuid string, action TransitionAction, actor string) (*entity.DestructionListEntity, error) {
	var result *entity.DestructionListEntity
	err := m.lockService.WithListLock(ctx, listUuid, func(ctx context.Context) error {
		var err error
		result, err = m.TransitionLocked(ctx, listUuid, action, actor)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (m *stateMachineImpl) TransitionLocked(ctx context.Context, listUuid string, action TransitionAction, actor string) (*entity.DestructionListEntity, error) {
	list, err := m.listRepo.GetList(ctx, listUuid)
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
	from := view.ListStatus(list.Status)
	to, err := m.TargetStatus(from, action)
	if err != nil {
		return nil, err
	}
	assignee, err := m.assignmentService.CurrentAssigneeFor(ctx, list, to)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if !now.After(list.StatusChanged) {
		now = list.StatusChanged.Add(time.Millisecond)
	}
	if err := m.listRepo.UpdateStatus(ctx, listUuid, string(to), assignee, now); err != nil {
		return nil, err
	}
	list.Status = string(to)
	list.AssigneeUser = assignee
	list.StatusChanged = now
	list.UpdatedAt = now

	metrics.ListTransitions.WithLabelValues(string(action), string(to)).Inc()
	m.publisher.PublishListEvent(ListEvent{
		ListUuid: listUuid,
		Action:   string(action),
		Actor:    actor,
		From:     from,
		To:       to,
		At:       now,
	})
	log.Debugf("Destruction list %s: %s -> %s (%s by %s)", listUuid, from, to, action, actor)
	return list, nil
}
