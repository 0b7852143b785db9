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

	"github.com/maykinmedia/archiefbeheer/entity"
	"github.com/maykinmedia/archiefbeheer/exception"
	"github.com/maykinmedia/archiefbeheer/view"
	"github.com/stretchr/testify/assert"
)

const (
	testItemUuid  = "44444444-4444-4444-4444-444444444444"
	testZaakUrl   = "https://zaken.example.nl/zaken/z1"
	testZaakUrl2  = "https://zaken.example.nl/zaken/z2"
	testItemUuid2 = "55555555-5555-5555-5555-555555555555"
)

func makeReviewService(list *entity.DestructionListEntity) (ReviewService, *fakeListRepository, *fakeReviewRepository, *capturingPublisher) {
	listRepo := newFakeListRepository(list)
	listRepo.addItem(&entity.DestructionListItemEntity{
		Uuid: testItemUuid, ListUuid: testListUuid, ZaakUrl: testZaakUrl,
		Status: string(view.ItemStatusSuggested), ProcessingStatus: string(view.ProcessingStatusNew),
	})
	listRepo.addItem(&entity.DestructionListItemEntity{
		Uuid: testItemUuid2, ListUuid: testListUuid, ZaakUrl: testZaakUrl2,
		Status: string(view.ItemStatusSuggested), ProcessingStatus: string(view.ProcessingStatusNew),
	})
	assigneeRepo := makeTestAssignees()
	reviewRepo := newFakeReviewRepository()
	assignmentService := NewAssignmentService(assigneeRepo, reviewRepo)
	publisher := &capturingPublisher{}
	stateMachine := NewStateMachine(listRepo, assignmentService, inlineLockService{}, publisher)
	reviewService := NewReviewService(listRepo, reviewRepo, assignmentService, stateMachine, inlineLockService{})
	return reviewService, listRepo, reviewRepo, publisher
}

func TestSubmitReviewAcceptAdvancesReviewer(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, listRepo, _, publisher := makeReviewService(list)

	review, err := reviewService.SubmitReview(context.Background(), testListUuid, "first.reviewer", view.SubmitReviewRequest{
		Decision: view.ReviewDecisionAccepted,
	})
	assert.NoError(t, err)
	assert.Equal(t, view.ReviewDecisionAccepted, review.Decision)

	// still under review, handed to the second reviewer without a transition
	assert.Equal(t, string(view.ListStatusReadyToReview), listRepo.lists[testListUuid].Status)
	assert.Equal(t, []string{"second.reviewer"}, listRepo.setAssignees)
	assert.Empty(t, publisher.events)
}

func TestSubmitReviewLastAcceptTransitions(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, listRepo, _, publisher := makeReviewService(list)

	_, err := reviewService.SubmitReview(context.Background(), testListUuid, "first.reviewer", view.SubmitReviewRequest{
		Decision: view.ReviewDecisionAccepted,
	})
	assert.NoError(t, err)

	_, err = reviewService.SubmitReview(context.Background(), testListUuid, "second.reviewer", view.SubmitReviewRequest{
		Decision: view.ReviewDecisionAccepted,
	})
	assert.NoError(t, err)
	assert.Equal(t, string(view.ListStatusInternallyReviewed), listRepo.lists[testListUuid].Status)
	assert.Len(t, publisher.events, 1)
	assert.Equal(t, string(ActionReviewAccepted), publisher.events[0].Action)
}

func TestSubmitReviewRejectedTransitions(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, listRepo, _, _ := makeReviewService(list)

	review, err := reviewService.SubmitReview(context.Background(), testListUuid, "first.reviewer", view.SubmitReviewRequest{
		Decision:     view.ReviewDecisionRejected,
		ListFeedback: "selection too broad",
		ItemReviews: []view.SubmitItemReviewRequest{
			{ZaakUrl: testZaakUrl, Action: view.ItemReviewActionRemove, Reason: "ongoing appeal"},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, review.ItemReviews, 1)
	assert.Equal(t, string(view.ListStatusChangesRequested), listRepo.lists[testListUuid].Status)
	assert.Equal(t, "record.manager", listRepo.lists[testListUuid].AssigneeUser)
}

func TestSubmitReviewOnlyCurrentReviewer(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, _, _, _ := makeReviewService(list)

	_, err := reviewService.SubmitReview(context.Background(), testListUuid, "second.reviewer", view.SubmitReviewRequest{
		Decision: view.ReviewDecisionAccepted,
	})
	assert.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	assert.True(t, ok)
	assert.Equal(t, exception.NotCurrentAssignee, customError.Code)
}

func TestSubmitReviewWrongStatus(t *testing.T) {
	list := makeTestList(view.ListStatusNew)
	reviewService, _, _, _ := makeReviewService(list)

	_, err := reviewService.SubmitReview(context.Background(), testListUuid, "first.reviewer", view.SubmitReviewRequest{
		Decision: view.ReviewDecisionAccepted,
	})
	assert.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	assert.True(t, ok)
	assert.Equal(t, exception.InvalidListStatus, customError.Code)
}

func TestSubmitReviewAcceptedForbidsItemReviews(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, _, _, _ := makeReviewService(list)

	_, err := reviewService.SubmitReview(context.Background(), testListUuid, "first.reviewer", view.SubmitReviewRequest{
		Decision: view.ReviewDecisionAccepted,
		ItemReviews: []view.SubmitItemReviewRequest{
			{ZaakUrl: testZaakUrl, Action: view.ItemReviewActionRemove, Reason: "ongoing appeal"},
		},
	})
	assert.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	assert.True(t, ok)
	assert.Equal(t, exception.ReviewItemsNotAllowed, customError.Code)
}

func TestSubmitReviewRejectedRequiresItemReviews(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, _, _, _ := makeReviewService(list)

	_, err := reviewService.SubmitReview(context.Background(), testListUuid, "first.reviewer", view.SubmitReviewRequest{
		Decision: view.ReviewDecisionRejected,
	})
	assert.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	assert.True(t, ok)
	assert.Equal(t, exception.ReviewItemsRequired, customError.Code)
}

func TestSubmitReviewUnknownZaak(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, _, _, _ := makeReviewService(list)

	_, err := reviewService.SubmitReview(context.Background(), testListUuid, "first.reviewer", view.SubmitReviewRequest{
		Decision: view.ReviewDecisionRejected,
		ItemReviews: []view.SubmitItemReviewRequest{
			{ZaakUrl: "https://zaken.example.nl/zaken/not-in-list", Action: view.ItemReviewActionRemove, Reason: "stale"},
		},
	})
	assert.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	assert.True(t, ok)
	assert.Equal(t, exception.ItemNotInList, customError.Code)
}

func TestSubmitCoReview(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, listRepo, _, _ := makeReviewService(list)

	coReview, err := reviewService.SubmitCoReview(context.Background(), testListUuid, "helpful.colleague", view.SubmitCoReviewRequest{
		ListFeedback: "zaak z2 may still be needed by the permit team",
	})
	assert.NoError(t, err)
	assert.Equal(t, "helpful.colleague", coReview.Author)
	// advisory only: no status change
	assert.Equal(t, string(view.ListStatusReadyToReview), listRepo.lists[testListUuid].Status)

	coReviews, err := reviewService.GetCoReviews(context.Background(), testListUuid)
	assert.NoError(t, err)
	assert.Len(t, coReviews, 1)
}

func TestSubmitCoReviewOnlyWhileUnderReview(t *testing.T) {
	list := makeTestList(view.ListStatusChangesRequested)
	reviewService, _, _, _ := makeReviewService(list)

	_, err := reviewService.SubmitCoReview(context.Background(), testListUuid, "helpful.colleague", view.SubmitCoReviewRequest{
		ListFeedback: "too late",
	})
	assert.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	assert.True(t, ok)
	assert.Equal(t, exception.CoReviewNotAllowed, customError.Code)
}

func TestSubmitCoReviewRequiresCoReviewerRole(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, _, _, _ := makeReviewService(list)

	_, err := reviewService.SubmitCoReview(context.Background(), testListUuid, "first.reviewer", view.SubmitCoReviewRequest{
		ListFeedback: "looks fine",
	})
	assert.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	assert.True(t, ok)
	assert.Equal(t, exception.IncorrectAssigneeRole, customError.Code)
}

func submitRejection(t *testing.T, reviewService ReviewService) *view.Review {
	review, err := reviewService.SubmitReview(context.Background(), testListUuid, "first.reviewer", view.SubmitReviewRequest{
		Decision: view.ReviewDecisionRejected,
		ItemReviews: []view.SubmitItemReviewRequest{
			{ZaakUrl: testZaakUrl, Action: view.ItemReviewActionRemove, Reason: "ongoing appeal"},
			{ZaakUrl: testZaakUrl2, Action: view.ItemReviewActionKeep, Reason: "double-check retention"},
		},
	})
	assert.NoError(t, err)
	return review
}

func TestSubmitReviewResponseResubmits(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, listRepo, _, _ := makeReviewService(list)
	review := submitRejection(t, reviewService)

	response, err := reviewService.SubmitReviewResponse(context.Background(), testListUuid, "record.manager", view.SubmitReviewResponseRequest{
		Comment: "removed the appealed zaak",
		ItemResponses: []view.SubmitItemResponseRequest{
			{ItemReviewUuid: review.ItemReviews[0].Uuid, Action: view.ItemReviewActionRemove, Comment: "agreed"},
			{ItemReviewUuid: review.ItemReviews[1].Uuid, Action: view.ItemReviewActionKeep, Comment: "retention confirmed"},
		},
	})
	assert.NoError(t, err)
	assert.Len(t, response.ItemResponses, 2)

	// the removed item dropped out of the selection, the kept one stayed
	assert.Equal(t, string(view.ItemStatusRemoved), listRepo.items[testItemUuid].Status)
	assert.Equal(t, string(view.ItemStatusSuggested), listRepo.items[testItemUuid2].Status)
	// a fresh review round started
	assert.Equal(t, string(view.ListStatusReadyToReview), listRepo.lists[testListUuid].Status)
	assert.Equal(t, "first.reviewer", listRepo.lists[testListUuid].AssigneeUser)
}

func TestSubmitReviewResponseMustCoverAllItems(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, _, _, _ := makeReviewService(list)
	review := submitRejection(t, reviewService)

	_, err := reviewService.SubmitReviewResponse(context.Background(), testListUuid, "record.manager", view.SubmitReviewResponseRequest{
		ItemResponses: []view.SubmitItemResponseRequest{
			{ItemReviewUuid: review.ItemReviews[0].Uuid, Action: view.ItemReviewActionRemove},
		},
	})
	assert.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	assert.True(t, ok)
	assert.Equal(t, exception.ReviewResponseIncomplete, customError.Code)
}

func TestSubmitReviewResponseAuthorOnly(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, _, _, _ := makeReviewService(list)
	review := submitRejection(t, reviewService)

	_, err := reviewService.SubmitReviewResponse(context.Background(), testListUuid, "first.reviewer", view.SubmitReviewResponseRequest{
		ItemResponses: []view.SubmitItemResponseRequest{
			{ItemReviewUuid: review.ItemReviews[0].Uuid, Action: view.ItemReviewActionKeep},
			{ItemReviewUuid: review.ItemReviews[1].Uuid, Action: view.ItemReviewActionKeep},
		},
	})
	assert.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	assert.True(t, ok)
	assert.Equal(t, exception.InsufficientPrivileges, customError.Code)
}

func TestSubmitReviewResponseNeedsRejection(t *testing.T) {
	list := makeTestList(view.ListStatusChangesRequested)
	reviewService, _, _, _ := makeReviewService(list)

	_, err := reviewService.SubmitReviewResponse(context.Background(), testListUuid, "record.manager", view.SubmitReviewResponseRequest{
		ItemResponses: []view.SubmitItemResponseRequest{
			{ItemReviewUuid: testItemUuid, Action: view.ItemReviewActionKeep},
		},
	})
	assert.Error(t, err)
	customError, ok := err.(*exception.CustomError)
	assert.True(t, ok)
	assert.Equal(t, exception.ReviewNotFound, customError.Code)
}

func TestGetReviewResponse(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	reviewService, _, _, _ := makeReviewService(list)
	review := submitRejection(t, reviewService)

	_, err := reviewService.SubmitReviewResponse(context.Background(), testListUuid, "record.manager", view.SubmitReviewResponseRequest{
		ItemResponses: []view.SubmitItemResponseRequest{
			{ItemReviewUuid: review.ItemReviews[0].Uuid, Action: view.ItemReviewActionRemove},
			{ItemReviewUuid: review.ItemReviews[1].Uuid, Action: view.ItemReviewActionKeep},
		},
	})
	assert.NoError(t, err)

	response, err := reviewService.GetReviewResponse(context.Background(), review.Uuid)
	assert.NoError(t, err)
	assert.NotNil(t, response)
	assert.Len(t, response.ItemResponses, 2)

	missing, err := reviewService.GetReviewResponse(context.Background(), "99999999-9999-9999-9999-999999999999")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

// lockCheckingReviewRepo records whether the per-list lock was held when a
// review row was written.
type lockCheckingReviewRepo struct {
	*fakeReviewRepository
	lock      *trackingLockService
	underLock []bool
}

func (r *lockCheckingReviewRepo) CreateReview(ctx context.Context, review *entity.ReviewEntity, itemReviews []entity.ItemReviewEntity) error {
	r.underLock = append(r.underLock, r.lock.held)
	return r.fakeReviewRepository.CreateReview(ctx, review, itemReviews)
}

func TestSubmitReviewRunsUnderListLock(t *testing.T) {
	list := makeTestList(view.ListStatusReadyToReview)
	listRepo := newFakeListRepository(list)
	assigneeRepo := makeTestAssignees()
	lock := &trackingLockService{}
	reviewRepo := &lockCheckingReviewRepo{fakeReviewRepository: newFakeReviewRepository(), lock: lock}
	assignmentService := NewAssignmentService(assigneeRepo, reviewRepo)
	publisher := &capturingPublisher{}
	stateMachine := NewStateMachine(listRepo, assignmentService, lock, publisher)
	reviewService := NewReviewService(listRepo, reviewRepo, assignmentService, stateMachine, lock)

	_, err := reviewService.SubmitReview(context.Background(), testListUuid, "first.reviewer", view.SubmitReviewRequest{
		Decision: view.ReviewDecisionAccepted,
	})
	assert.NoError(t, err)

	// the status check, authority check and review insert all happened inside
	// one critical section
	assert.Equal(t, 1, lock.acquisitions)
	assert.Equal(t, []bool{true}, reviewRepo.underLock)
}
