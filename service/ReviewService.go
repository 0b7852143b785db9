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

	"github.com/google/uuid"
	"github.com/maykinmedia/archiefbeheer/entity"
	"github.com/maykinmedia/archiefbeheer/exception"
	"github.com/maykinmedia/archiefbeheer/repository"
	"github.com/maykinmedia/archiefbeheer/utils"
	"github.com/maykinmedia/archiefbeheer/view"
	log "github.com/sirupsen/logrus"
)

// ReviewService implements the multi-party review protocol: sequential
// main-reviewer passes, advisory co-reviews and the author's response to a
// rejection.
type ReviewService interface {
	SubmitReview(ctx context.Context, listUuid string, actor string, req view.SubmitReviewRequest) (*view.Review, error)
	SubmitCoReview(ctx context.Context, listUuid string, actor string, req view.SubmitCoReviewRequest) (*view.CoReview, error)
	SubmitReviewResponse(ctx context.Context, listUuid string, actor string, req view.SubmitReviewResponseRequest) (*view.ReviewResponse, error)
	GetReviews(ctx context.Context, listUuid string) ([]view.Review, error)
	GetCoReviews(ctx context.Context, listUuid string) ([]view.CoReview, error)
	GetReviewResponse(ctx context.Context, reviewUuid string) (*view.ReviewResponse, error)
}

func NewReviewService(listRepo repository.DestructionListRepository, reviewRepo repository.ReviewRepository,
	assignmentService AssignmentService, stateMachine StateMachine, lockService LockService) ReviewService {
	return &reviewServiceImpl{
		listRepo:          listRepo,
		reviewRepo:        reviewRepo,
		assignmentService: assignmentService,
		stateMachine:      stateMachine,
		lockService:       lockService,
	}
}

type reviewServiceImpl struct {
	listRepo          repository.DestructionListRepository
	reviewRepo        repository.ReviewRepository
	assignmentService AssignmentService
	stateMachine      StateMachine
	lockService       LockService
}

// SubmitReview runs the whole protocol under the per-list lock: two
// concurrent submissions for the same list serialise, so the second one sees
// the status and assignee the first one left behind.
func (s *reviewServiceImpl) SubmitReview(ctx context.Context, listUuid string, actor string, req view.SubmitReviewRequest) (*view.Review, error) {
	if err := utils.ValidateObject(req); err != nil {
		return nil, err
	}
	var result *view.Review
	err := s.lockService.WithListLock(ctx, listUuid, func(ctx context.Context) error {
		var err error
		result, err = s.submitReviewLocked(ctx, listUuid, actor, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *reviewServiceImpl) submitReviewLocked(ctx context.Context, listUuid string, actor string, req view.SubmitReviewRequest) (*view.Review, error) {
	list, err := s.getList(ctx, listUuid)
	if err != nil {
		return nil, err
	}
	if view.ListStatus(list.Status) != view.ListStatusReadyToReview {
		return nil, &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.InvalidListStatus,
			Message: exception.InvalidListStatusMsg,
			Params:  map[string]interface{}{"action": "review", "status": list.Status},
		}
	}
	reviewer, err := s.assignmentService.CurrentMainReviewer(ctx, list)
	if err != nil {
		return nil, err
	}
	if reviewer == nil || reviewer.User != actor {
		return nil, &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.NotCurrentAssignee,
			Message: exception.NotCurrentAssigneeMsg,
			Params:  map[string]interface{}{"user": actor, "list": listUuid},
		}
	}

	switch req.Decision {
	case view.ReviewDecisionAccepted:
		if len(req.ItemReviews) > 0 {
			return nil, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.ReviewItemsNotAllowed,
				Message: exception.ReviewItemsNotAllowedMsg,
			}
		}
	case view.ReviewDecisionRejected:
		if len(req.ItemReviews) == 0 {
			return nil, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.ReviewItemsRequired,
				Message: exception.ReviewItemsRequiredMsg,
			}
		}
	}

	review := entity.ReviewEntity{
		Uuid:         uuid.NewString(),
		ListUuid:     listUuid,
		Author:       actor,
		Decision:     string(req.Decision),
		ListFeedback: req.ListFeedback,
		CreatedAt:    time.Now().UTC(),
	}
	itemReviews := make([]entity.ItemReviewEntity, 0, len(req.ItemReviews))
	for _, itemReview := range req.ItemReviews {
		item, err := s.listRepo.GetItemByZaak(ctx, listUuid, itemReview.ZaakUrl)
		if err != nil {
			return nil, err
		}
		if item == nil || view.ItemStatus(item.Status) != view.ItemStatusSuggested {
			return nil, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.ItemNotInList,
				Message: exception.ItemNotInListMsg,
				Params:  map[string]interface{}{"zaak": itemReview.ZaakUrl, "list": listUuid},
			}
		}
		itemReviews = append(itemReviews, entity.ItemReviewEntity{
			Uuid:       uuid.NewString(),
			ReviewUuid: review.Uuid,
			ItemUuid:   item.Uuid,
			ZaakUrl:    itemReview.ZaakUrl,
			Action:     string(itemReview.Action),
			Reason:     itemReview.Reason,
		})
	}
	if err := s.reviewRepo.CreateReview(ctx, &review, itemReviews); err != nil {
		return nil, err
	}

	if req.Decision == view.ReviewDecisionRejected {
		if _, err := s.stateMachine.TransitionLocked(ctx, listUuid, ActionReviewRejected, actor); err != nil {
			return nil, err
		}
		return entity.MakeReviewView(&review, itemReviews), nil
	}

	// accepted: hand over to the next main reviewer, or leave review when
	// the last one accepted
	next, err := s.assignmentService.CurrentMainReviewer(ctx, list)
	if err != nil {
		return nil, err
	}
	if next == nil {
		if _, err := s.stateMachine.TransitionLocked(ctx, listUuid, ActionReviewAccepted, actor); err != nil {
			return nil, err
		}
	} else {
		if err := s.listRepo.SetAssignee(ctx, listUuid, next.User); err != nil {
			return nil, err
		}
		log.Infof("Destruction list %s accepted by %s, next reviewer %s", listUuid, actor, next.User)
	}
	return entity.MakeReviewView(&review, itemReviews), nil
}

// SubmitCoReview records advisory feedback. Co-reviews are only accepted
// while the list is under review; they never affect the workflow status.
func (s *reviewServiceImpl) SubmitCoReview(ctx context.Context, listUuid string, actor string, req view.SubmitCoReviewRequest) (*view.CoReview, error) {
	if err := utils.ValidateObject(req); err != nil {
		return nil, err
	}
	list, err := s.getList(ctx, listUuid)
	if err != nil {
		return nil, err
	}
	if view.ListStatus(list.Status) != view.ListStatusReadyToReview {
		return nil, &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.CoReviewNotAllowed,
			Message: exception.CoReviewNotAllowedMsg,
			Params:  map[string]interface{}{"status": list.Status},
		}
	}
	isCoReviewer, err := s.assignmentService.IsCoReviewer(ctx, listUuid, actor)
	if err != nil {
		return nil, err
	}
	if !isCoReviewer {
		return nil, &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.IncorrectAssigneeRole,
			Message: exception.IncorrectAssigneeRoleMsg,
			Params:  map[string]interface{}{"user": actor, "role": view.RoleCoReviewer, "list": listUuid},
		}
	}
	coReview := entity.CoReviewEntity{
		Uuid:         uuid.NewString(),
		ListUuid:     listUuid,
		Author:       actor,
		ListFeedback: req.ListFeedback,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.reviewRepo.CreateCoReview(ctx, &coReview); err != nil {
		return nil, err
	}
	return entity.MakeCoReviewView(&coReview), nil
}

// SubmitReviewResponse is the author's answer to the latest rejection. It must
// address every item the reviewer flagged, applies the chosen actions to the
// items and resubmits the list for a fresh review round.
func (s *reviewServiceImpl) SubmitReviewResponse(ctx context.Context, listUuid string, actor string, req view.SubmitReviewResponseRequest) (*view.ReviewResponse, error) {
	if err := utils.ValidateObject(req); err != nil {
		return nil, err
	}
	var result *view.ReviewResponse
	err := s.lockService.WithListLock(ctx, listUuid, func(ctx context.Context) error {
		var err error
		result, err = s.submitReviewResponseLocked(ctx, listUuid, actor, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *reviewServiceImpl) submitReviewResponseLocked(ctx context.Context, listUuid string, actor string, req view.SubmitReviewResponseRequest) (*view.ReviewResponse, error) {
	list, err := s.getList(ctx, listUuid)
	if err != nil {
		return nil, err
	}
	if actor != list.Author {
		return nil, &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
		}
	}
	if view.ListStatus(list.Status) != view.ListStatusChangesRequested {
		return nil, &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.InvalidListStatus,
			Message: exception.InvalidListStatusMsg,
			Params:  map[string]interface{}{"action": "review_response", "status": list.Status},
		}
	}
	review, err := s.reviewRepo.GetLatestReview(ctx, listUuid)
	if err != nil {
		return nil, err
	}
	if review == nil || view.ReviewDecision(review.Decision) != view.ReviewDecisionRejected {
		return nil, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.ReviewNotFound,
			Message: exception.ReviewNotFoundMsg,
			Params:  map[string]interface{}{"review": "latest rejection of list " + listUuid},
		}
	}
	itemReviews, err := s.reviewRepo.GetItemReviews(ctx, review.Uuid)
	if err != nil {
		return nil, err
	}
	itemReviewByUuid := make(map[string]entity.ItemReviewEntity, len(itemReviews))
	for _, itemReview := range itemReviews {
		itemReviewByUuid[itemReview.Uuid] = itemReview
	}
	answered := make(map[string]bool, len(req.ItemResponses))
	for _, itemResponse := range req.ItemResponses {
		if _, exists := itemReviewByUuid[itemResponse.ItemReviewUuid]; !exists {
			return nil, &exception.CustomError{
				Status:  http.StatusBadRequest,
				Code:    exception.ReviewResponseIncomplete,
				Message: exception.ReviewResponseIncompleteMsg,
				Params:  map[string]interface{}{"missing": itemResponse.ItemReviewUuid},
			}
		}
		answered[itemResponse.ItemReviewUuid] = true
	}
	if len(answered) != len(itemReviews) {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.ReviewResponseIncomplete,
			Message: exception.ReviewResponseIncompleteMsg,
			Params:  map[string]interface{}{"missing": len(itemReviews) - len(answered)},
		}
	}

	response := entity.ReviewResponseEntity{
		Uuid:       uuid.NewString(),
		ReviewUuid: review.Uuid,
		Comment:    req.Comment,
		CreatedAt:  time.Now().UTC(),
	}
	itemResponses := make([]entity.ItemReviewResponseEntity, 0, len(req.ItemResponses))
	for _, itemResponse := range req.ItemResponses {
		itemResponses = append(itemResponses, entity.ItemReviewResponseEntity{
			ResponseUuid:   response.Uuid,
			ItemReviewUuid: itemResponse.ItemReviewUuid,
			Action:         string(itemResponse.Action),
			Comment:        itemResponse.Comment,
		})
	}
	if err := s.reviewRepo.CreateReviewResponse(ctx, &response, itemResponses); err != nil {
		return nil, err
	}
	for _, itemResponse := range req.ItemResponses {
		if itemResponse.Action != view.ItemReviewActionRemove {
			continue
		}
		itemReview := itemReviewByUuid[itemResponse.ItemReviewUuid]
		if err := s.listRepo.SetItemStatus(ctx, itemReview.ItemUuid, string(view.ItemStatusRemoved)); err != nil {
			return nil, err
		}
	}
	if _, err := s.stateMachine.TransitionLocked(ctx, listUuid, ActionResubmit, actor); err != nil {
		return nil, err
	}
	return entity.MakeReviewResponseView(&response, itemResponses), nil
}

func (s *reviewServiceImpl) GetReviews(ctx context.Context, listUuid string) ([]view.Review, error) {
	reviews, err := s.reviewRepo.GetReviews(ctx, listUuid)
	if err != nil {
		return nil, err
	}
	result := make([]view.Review, 0, len(reviews))
	for i := range reviews {
		itemReviews, err := s.reviewRepo.GetItemReviews(ctx, reviews[i].Uuid)
		if err != nil {
			return nil, err
		}
		result = append(result, *entity.MakeReviewView(&reviews[i], itemReviews))
	}
	return result, nil
}

func (s *reviewServiceImpl) GetCoReviews(ctx context.Context, listUuid string) ([]view.CoReview, error) {
	coReviews, err := s.reviewRepo.GetCoReviews(ctx, listUuid)
	if err != nil {
		return nil, err
	}
	result := make([]view.CoReview, 0, len(coReviews))
	for i := range coReviews {
		result = append(result, *entity.MakeCoReviewView(&coReviews[i]))
	}
	return result, nil
}

func (s *reviewServiceImpl) GetReviewResponse(ctx context.Context, reviewUuid string) (*view.ReviewResponse, error) {
	response, err := s.reviewRepo.GetReviewResponse(ctx, reviewUuid)
	if err != nil {
		return nil, err
	}
	if response == nil {
		return nil, nil
	}
	itemResponses, err := s.reviewRepo.GetItemReviewResponses(ctx, response.Uuid)
	if err != nil {
		return nil, err
	}
	return entity.MakeReviewResponseView(response, itemResponses), nil
}

func (s *reviewServiceImpl) getList(ctx context.Context, listUuid string) (*entity.DestructionListEntity, error) {
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
