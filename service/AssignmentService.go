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
	"fmt"
	"net/http"

	"github.com/maykinmedia/archiefbeheer/entity"
	"github.com/maykinmedia/archiefbeheer/exception"
	"github.com/maykinmedia/archiefbeheer/repository"
	"github.com/maykinmedia/archiefbeheer/view"
	log "github.com/sirupsen/logrus"
)

// AssignmentService maintains the ordered assignee set of a destruction list
// and derives the current assignee from the list status and the review
// cursor.
type AssignmentService interface {
	BuildInitialAssignees(listUuid string, author string, reviewers []view.AssigneeRequest) ([]entity.AssigneeEntity, error)
	GetAssignees(ctx context.Context, listUuid string) ([]entity.AssigneeEntity, error)
	// ReviewCursor is the number of accepted main-reviewer passes in the
	// current review round.
	ReviewCursor(ctx context.Context, list *entity.DestructionListEntity) (int, error)
	CurrentMainReviewer(ctx context.Context, list *entity.DestructionListEntity) (*entity.AssigneeEntity, error)
	// CurrentAssigneeFor computes who must act once the list is in status.
	CurrentAssigneeFor(ctx context.Context, list *entity.DestructionListEntity, status view.ListStatus) (string, error)
	IsCoReviewer(ctx context.Context, listUuid string, user string) (bool, error)
	Reassign(ctx context.Context, list *entity.DestructionListEntity, actor string, req view.ReassignRequest) error
	Finalize(ctx context.Context, listUuid string, archivist string) error
}

func NewAssignmentService(assigneeRepo repository.AssigneeRepository, reviewRepo repository.ReviewRepository) AssignmentService {
	return &assignmentServiceImpl{assigneeRepo: assigneeRepo, reviewRepo: reviewRepo}
}

type assignmentServiceImpl struct {
	assigneeRepo repository.AssigneeRepository
	reviewRepo   repository.ReviewRepository
}

func (s *assignmentServiceImpl) BuildInitialAssignees(listUuid string, author string, reviewers []view.AssigneeRequest) ([]entity.AssigneeEntity, error) {
	assignees := []entity.AssigneeEntity{{
		ListUuid: listUuid,
		User:     author,
		Role:     string(view.RoleAuthor),
		Order:    0,
	}}
	mainReviewers := 0
	order := 1
	for _, reviewer := range reviewers {
		if reviewer.Role == view.RoleMainReviewer {
			mainReviewers++
		}
		assignees = append(assignees, entity.AssigneeEntity{
			ListUuid: listUuid,
			User:     reviewer.User,
			Role:     string(reviewer.Role),
			Order:    order,
		})
		order++
	}
	if mainReviewers == 0 {
		return nil, &exception.CustomError{
			Status:  http.StatusBadRequest,
			Code:    exception.RequiredParamsMissing,
			Message: exception.RequiredParamsMissingMsg,
			Params:  map[string]interface{}{"params": "at least one main_reviewer"},
		}
	}
	return assignees, nil
}

func (s *assignmentServiceImpl) GetAssignees(ctx context.Context, listUuid string) ([]entity.AssigneeEntity, error) {
	return s.assigneeRepo.GetAssignees(ctx, listUuid)
}

func (s *assignmentServiceImpl) ReviewCursor(ctx context.Context, list *entity.DestructionListEntity) (int, error) {
	// The round starts at the last (re-)submission, which is the moment the
	// list last entered ready_to_review.
	return s.reviewRepo.CountAcceptedReviewsSince(ctx, list.Uuid, list.StatusChanged)
}

func (s *assignmentServiceImpl) CurrentMainReviewer(ctx context.Context, list *entity.DestructionListEntity) (*entity.AssigneeEntity, error) {
	reviewers, err := s.assigneeRepo.GetAssigneesByRole(ctx, list.Uuid, string(view.RoleMainReviewer))
	if err != nil {
		return nil, err
	}
	cursor, err := s.ReviewCursor(ctx, list)
	if err != nil {
		return nil, err
	}
	if cursor >= len(reviewers) {
		return nil, nil
	}
	return &reviewers[cursor], nil
}

func (s *assignmentServiceImpl) CurrentAssigneeFor(ctx context.Context, list *entity.DestructionListEntity, status view.ListStatus) (string, error) {
	switch status {
	case view.ListStatusNew, view.ListStatusChangesRequested, view.ListStatusInternallyReviewed,
		view.ListStatusReadyToDelete, view.ListStatusDeleted:
		return list.Author, nil
	case view.ListStatusReadyToReview:
		reviewers, err := s.assigneeRepo.GetAssigneesByRole(ctx, list.Uuid, string(view.RoleMainReviewer))
		if err != nil {
			return "", err
		}
		if len(reviewers) == 0 {
			return "", fmt.Errorf("destruction list %s has no main reviewers", list.Uuid)
		}
		return reviewers[0].User, nil
	case view.ListStatusReadyForArchivist:
		archivists, err := s.assigneeRepo.GetAssigneesByRole(ctx, list.Uuid, string(view.RoleArchivist))
		if err != nil {
			return "", err
		}
		if len(archivists) == 0 {
			return "", &exception.CustomError{
				Status:  http.StatusConflict,
				Code:    exception.ArchivistRequired,
				Message: exception.ArchivistRequiredMsg,
			}
		}
		return archivists[0].User, nil
	}
	return "", fmt.Errorf("no assignee rule for status %s", status)
}

func (s *assignmentServiceImpl) IsCoReviewer(ctx context.Context, listUuid string, user string) (bool, error) {
	coReviewers, err := s.assigneeRepo.GetAssigneesByRole(ctx, listUuid, string(view.RoleCoReviewer))
	if err != nil {
		return false, err
	}
	for _, coReviewer := range coReviewers {
		if coReviewer.User == user {
			return true, nil
		}
	}
	return false, nil
}

// Reassign swaps a reviewer. Only the author may do this; prior reviews are
// kept, so a swapped-in reviewer continues at the current cursor.
func (s *assignmentServiceImpl) Reassign(ctx context.Context, list *entity.DestructionListEntity, actor string, req view.ReassignRequest) error {
	if actor != list.Author {
		return &exception.CustomError{
			Status:  http.StatusForbidden,
			Code:    exception.InsufficientPrivileges,
			Message: exception.InsufficientPrivilegesMsg,
		}
	}
	status := view.ListStatus(list.Status)
	if status == view.ListStatusReadyToDelete || status == view.ListStatusDeleted {
		return &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.InvalidListStatus,
			Message: exception.InvalidListStatusMsg,
			Params:  map[string]interface{}{"action": "reassign", "status": status},
		}
	}
	if err := s.assigneeRepo.ReplaceAssignee(ctx, list.Uuid, string(req.Role), req.OldUser, req.NewUser); err != nil {
		return err
	}
	log.Infof("Reassigned %s %s -> %s on list %s: %s", req.Role, req.OldUser, req.NewUser, list.Uuid, req.Comment)
	return nil
}

func (s *assignmentServiceImpl) Finalize(ctx context.Context, listUuid string, archivist string) error {
	archivists, err := s.assigneeRepo.GetAssigneesByRole(ctx, listUuid, string(view.RoleArchivist))
	if err != nil {
		return err
	}
	if len(archivists) > 0 {
		// at most one archivist per list; replace rather than append
		return s.assigneeRepo.ReplaceAssignee(ctx, listUuid, string(view.RoleArchivist), archivists[0].User, archivist)
	}
	return s.assigneeRepo.AddAssignee(ctx, &entity.AssigneeEntity{
		ListUuid: listUuid,
		User:     archivist,
		Role:     string(view.RoleArchivist),
		Order:    0,
	})
}
