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
	"testing"
	"time"

	"github.com/maykinmedia/archiefbeheer/entity"
	"github.com/maykinmedia/archiefbeheer/exception"
	"github.com/maykinmedia/archiefbeheer/view"
	"github.com/stretchr/testify/assert"
)

const testListUuid = "33333333-3333-3333-3333-333333333333"

func makeTestList(status view.ListStatus) *entity.DestructionListEntity {
	now := time.Now().UTC().Add(-time.Hour)
	return &entity.DestructionListEntity{
		Uuid:          testListUuid,
		Name:          "Vernietigingslijst 2017",
		Author:        "record.manager",
		Status:        string(status),
		StatusChanged: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func makeTestAssignees() *fakeAssigneeRepository {
	return &fakeAssigneeRepository{assignees: []entity.AssigneeEntity{
		{Id: 1, ListUuid: testListUuid, User: "record.manager", Role: string(view.RoleAuthor), Order: 0},
		{Id: 2, ListUuid: testListUuid, User: "first.reviewer", Role: string(view.RoleMainReviewer), Order: 1},
		{Id: 3, ListUuid: testListUuid, User: "second.reviewer", Role: string(view.RoleMainReviewer), Order: 2},
		{Id: 4, ListUuid: testListUuid, User: "helpful.colleague", Role: string(view.RoleCoReviewer), Order: 3},
	}}
}

func makeStateMachine(list *entity.DestructionListEntity) (StateMachine, *fakeListRepository, *fakeAssigneeRepository, *fakeReviewRepository, *capturingPublisher) {
	listRepo := newFakeListRepository(list)
	assigneeRepo := makeTestAssignees()
	reviewRepo := newFakeReviewRepository()
	assignmentService := NewAssignmentService(assigneeRepo, reviewRepo)
	publisher := &capturingPublisher{}
	stateMachine := NewStateMachine(listRepo, assignmentService, inlineLockService{}, publisher)
	return stateMachine, listRepo, assigneeRepo, reviewRepo, publisher
}

func TestTargetStatusTable(t *testing.T) {
	stateMachine, _, _, _, _ := makeStateMachine(makeTestList(view.ListStatusNew))

	cases := []struct {
		from   view.ListStatus
		action TransitionAction
		to     view.ListStatus
	}{
		{view.ListStatusNew, ActionSubmit, view.ListStatusReadyToReview},
		{view.ListStatusReadyToReview, ActionReviewAccepted, view.ListStatusInternallyReviewed},
		{view.ListStatusReadyToReview, ActionReviewRejected, view.ListStatusChangesRequested},
		{view.ListStatusChangesRequested, ActionResubmit, view.ListStatusReadyToReview},
		{view.ListStatusInternallyReviewed, ActionMarkFinal, view.ListStatusReadyForArchivist},
		{view.ListStatusReadyForArchivist, ActionArchivistAccept, view.ListStatusReadyToDelete},
		{view.ListStatusReadyForArchivist, ActionArchivistReject, view.ListStatusInternallyReviewed},
		{view.ListStatusReadyToDelete, ActionMarkDeleted, view.ListStatusDeleted},
		{view.ListStatusInternallyReviewed, ActionAbort, view.ListStatusNew},
	}
	for _, c := range cases {
		to, err := stateMachine.TargetStatus(c.from, c.action)
		assert.NoError(t, err)
		assert.Equal(t, c.to, to)
	}
}

func TestTargetStatusInvalidPairs(t *testing.T) {
	stateMachine, _, _, _, _ := makeStateMachine(makeTestList(view.ListStatusNew))

	invalid := []struct {
		from   view.ListStatus
		action TransitionAction
	}{
		{view.ListStatusNew, ActionReviewAccepted},
		{view.ListStatusNew, ActionAbort},
		{view.ListStatusDeleted, ActionSubmit},
		{view.ListStatusReadyToDelete, ActionAbort},
		{view.ListStatusReadyToReview, ActionAbort},
		{view.ListStatusChangesRequested, ActionAbort},
		{view.ListStatusReadyForArchivist, ActionAbort},
		{view.ListStatusChangesRequested, ActionMarkFinal},
		{view.ListStatusReadyToReview, ActionArchivistAccept},
	}
	for _, c := range invalid {
		_, err := stateMachine.TargetStatus(c.from, c.action)
		assert.Error(t, err)
		customError, ok := err.(*exception.CustomError)
		assert.True(t, ok)
		assert.Equal(t, exception.InvalidStatusTransition, customError.Code)
	}
}

func TestTransitionSubmitAssignsFirstReviewer(t *testing.T) {
	stateMachine, listRepo, _, _, publisher := makeStateMachine(makeTestList(view.ListStatusNew))

	list, err := stateMachine.Transition(context.Background(), testListUuid, ActionSubmit, "record.manager")
	assert.NoError(t, err)
	assert.Equal(t, string(view.ListStatusReadyToReview), list.Status)
	assert.Equal(t, "first.reviewer", list.AssigneeUser)
	assert.Equal(t, list.Status, listRepo.lists[testListUuid].Status)

	assert.Len(t, publisher.events, 1)
	assert.Equal(t, string(ActionSubmit), publisher.events[0].Action)
	assert.Equal(t, view.ListStatusNew, publisher.events[0].From)
	assert.Equal(t, view.ListStatusReadyToReview, publisher.events[0].To)
	assert.Equal(t, "record.manager", publisher.events[0].Actor)
}

func TestTransitionAssignsAuthorOnReject(t *testing.T) {
	stateMachine, _, _, _, _ := makeStateMachine(makeTestList(view.ListStatusReadyToReview))

	list, err := stateMachine.Transition(context.Background(), testListUuid, ActionReviewRejected, "first.reviewer")
	assert.NoError(t, err)
	assert.Equal(t, string(view.ListStatusChangesRequested), list.Status)
	assert.Equal(t, "record.manager", list.AssigneeUser)
}

func TestTransitionInvalidActionLeavesListUntouched(t *testing.T) {
	stateMachine, listRepo, _, _, publisher := makeStateMachine(makeTestList(view.ListStatusNew))

	_, err := stateMachine.Transition(context.Background(), testListUuid, ActionMarkFinal, "record.manager")
	assert.Error(t, err)
	assert.Equal(t, string(view.ListStatusNew), listRepo.lists[testListUuid].Status)
	assert.Empty(t, publisher.events)
}

func TestTransitionUnknownList(t *testing.T) {
	stateMachine, _, _, _, _ := makeStateMachine(makeTestList(view.ListStatusNew))

	_, err := stateMachine.Transition(context.Background(), "99999999-9999-9999-9999-999999999999", ActionSubmit, "record.manager")
	assert.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	assert.True(t, ok)
	assert.Equal(t, exception.DestructionListNotFound, customError.Code)
}

func TestTransitionBumpsStatusChangedMonotonically(t *testing.T) {
	list := makeTestList(view.ListStatusNew)
	// a clock skew put the last change in the future; the next change must
	// still move forward
	list.StatusChanged = time.Now().UTC().Add(time.Hour)
	stateMachine, _, _, _, _ := makeStateMachine(list)

	before := list.StatusChanged
	updated, err := stateMachine.Transition(context.Background(), testListUuid, ActionSubmit, "record.manager")
	assert.NoError(t, err)
	assert.True(t, updated.StatusChanged.After(before))
}

func TestTransitionMarkFinalRequiresArchivist(t *testing.T) {
	stateMachine, _, assigneeRepo, _, _ := makeStateMachine(makeTestList(view.ListStatusInternallyReviewed))

	// no archivist assigned yet
	_, err := stateMachine.Transition(context.Background(), testListUuid, ActionMarkFinal, "record.manager")
	assert.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	assert.True(t, ok)
	assert.Equal(t, exception.ArchivistRequired, customError.Code)

	err = assigneeRepo.AddAssignee(context.Background(), &entity.AssigneeEntity{
		ListUuid: testListUuid, User: "city.archivist", Role: string(view.RoleArchivist),
	})
	assert.NoError(t, err)

	list, err := stateMachine.Transition(context.Background(), testListUuid, ActionMarkFinal, "record.manager")
	assert.NoError(t, err)
	assert.Equal(t, string(view.ListStatusReadyForArchivist), list.Status)
	assert.Equal(t, "city.archivist", list.AssigneeUser)
}

func TestTransitionArchivistRejectReopensInternalStage(t *testing.T) {
	stateMachine, _, assigneeRepo, _, _ := makeStateMachine(makeTestList(view.ListStatusReadyForArchivist))
	err := assigneeRepo.AddAssignee(context.Background(), &entity.AssigneeEntity{
		ListUuid: testListUuid, User: "city.archivist", Role: string(view.RoleArchivist),
	})
	assert.NoError(t, err)

	list, err := stateMachine.Transition(context.Background(), testListUuid, ActionArchivistReject, "city.archivist")
	assert.NoError(t, err)
	assert.Equal(t, string(view.ListStatusInternallyReviewed), list.Status)
	assert.Equal(t, "record.manager", list.AssigneeUser)

	// the author can finalise again without a fresh review round
	list, err = stateMachine.Transition(context.Background(), testListUuid, ActionMarkFinal, "record.manager")
	assert.NoError(t, err)
	assert.Equal(t, string(view.ListStatusReadyForArchivist), list.Status)
	assert.Equal(t, "city.archivist", list.AssigneeUser)
}
