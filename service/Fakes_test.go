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
	"time"

	"github.com/maykinmedia/archiefbeheer/entity"
	"github.com/maykinmedia/archiefbeheer/view"
)

// In-memory fakes over the repository interfaces, shared by the service tests
// in this package.

type fakeListRepository struct {
	lists        map[string]*entity.DestructionListEntity
	items        map[string]*entity.DestructionListItemEntity
	setAssignees []string
}

func newFakeListRepository(lists ...*entity.DestructionListEntity) *fakeListRepository {
	repo := &fakeListRepository{
		lists: map[string]*entity.DestructionListEntity{},
		items: map[string]*entity.DestructionListItemEntity{},
	}
	for _, list := range lists {
		repo.lists[list.Uuid] = list
	}
	return repo
}

func (r *fakeListRepository) addItem(item *entity.DestructionListItemEntity) {
	r.items[item.Uuid] = item
}

func (r *fakeListRepository) CreateListWithItems(ctx context.Context, list *entity.DestructionListEntity, items []entity.DestructionListItemEntity, assignees []entity.AssigneeEntity) error {
	r.lists[list.Uuid] = list
	for i := range items {
		item := items[i]
		r.items[item.Uuid] = &item
	}
	return nil
}

func (r *fakeListRepository) GetList(ctx context.Context, listUuid string) (*entity.DestructionListEntity, error) {
	return r.lists[listUuid], nil
}

func (r *fakeListRepository) ListLists(ctx context.Context, limit int, offset int) ([]entity.DestructionListEntity, error) {
	var result []entity.DestructionListEntity
	for _, list := range r.lists {
		result = append(result, *list)
	}
	return result, nil
}

func (r *fakeListRepository) UpdateListMeta(ctx context.Context, listUuid string, name string, comment string) error {
	r.lists[listUuid].Name = name
	r.lists[listUuid].Comment = comment
	return nil
}

func (r *fakeListRepository) UpdateStatus(ctx context.Context, listUuid string, status string, assigneeUser string, statusChanged time.Time) error {
	list := r.lists[listUuid]
	list.Status = status
	list.AssigneeUser = assigneeUser
	list.StatusChanged = statusChanged
	return nil
}

func (r *fakeListRepository) SetProcessingStatus(ctx context.Context, listUuid string, processingStatus string) error {
	r.lists[listUuid].ProcessingStatus = processingStatus
	return nil
}

func (r *fakeListRepository) SetAssignee(ctx context.Context, listUuid string, assigneeUser string) error {
	r.lists[listUuid].AssigneeUser = assigneeUser
	r.setAssignees = append(r.setAssignees, assigneeUser)
	return nil
}

func (r *fakeListRepository) SetPlannedDestructionDate(ctx context.Context, listUuid string, date *time.Time) error {
	r.lists[listUuid].PlannedDestructionDate = date
	return nil
}

func (r *fakeListRepository) DeleteList(ctx context.Context, listUuid string) error {
	delete(r.lists, listUuid)
	return nil
}

func (r *fakeListRepository) GetItems(ctx context.Context, listUuid string, statuses []string) ([]entity.DestructionListItemEntity, error) {
	var result []entity.DestructionListItemEntity
	for _, item := range r.items {
		if item.ListUuid != listUuid {
			continue
		}
		if len(statuses) > 0 {
			matched := false
			for _, status := range statuses {
				if item.Status == status {
					matched = true
				}
			}
			if !matched {
				continue
			}
		}
		result = append(result, *item)
	}
	return result, nil
}

func (r *fakeListRepository) GetItem(ctx context.Context, itemUuid string) (*entity.DestructionListItemEntity, error) {
	return r.items[itemUuid], nil
}

func (r *fakeListRepository) GetItemByZaak(ctx context.Context, listUuid string, zaakUrl string) (*entity.DestructionListItemEntity, error) {
	for _, item := range r.items {
		if item.ListUuid == listUuid && item.ZaakUrl == zaakUrl {
			return item, nil
		}
	}
	return nil, nil
}

func (r *fakeListRepository) SetItemStatus(ctx context.Context, itemUuid string, status string) error {
	r.items[itemUuid].Status = status
	return nil
}

func (r *fakeListRepository) SetItemProcessingStatus(ctx context.Context, itemUuid string, processingStatus string) error {
	r.items[itemUuid].ProcessingStatus = processingStatus
	return nil
}

func (r *fakeListRepository) CountItemsByProcessingStatus(ctx context.Context, listUuid string) (map[string]int, error) {
	counts := map[string]int{}
	for _, item := range r.items {
		if item.ListUuid == listUuid && item.Status == string(view.ItemStatusSuggested) {
			counts[item.ProcessingStatus]++
		}
	}
	return counts, nil
}

type fakeAssigneeRepository struct {
	assignees []entity.AssigneeEntity
}

func (r *fakeAssigneeRepository) GetAssignees(ctx context.Context, listUuid string) ([]entity.AssigneeEntity, error) {
	var result []entity.AssigneeEntity
	for _, assignee := range r.assignees {
		if assignee.ListUuid == listUuid {
			result = append(result, assignee)
		}
	}
	return result, nil
}

func (r *fakeAssigneeRepository) GetAssigneesByRole(ctx context.Context, listUuid string, role string) ([]entity.AssigneeEntity, error) {
	var result []entity.AssigneeEntity
	for _, assignee := range r.assignees {
		if assignee.ListUuid == listUuid && assignee.Role == role {
			result = append(result, assignee)
		}
	}
	return result, nil
}

func (r *fakeAssigneeRepository) AddAssignee(ctx context.Context, assignee *entity.AssigneeEntity) error {
	r.assignees = append(r.assignees, *assignee)
	return nil
}

func (r *fakeAssigneeRepository) ReplaceAssignee(ctx context.Context, listUuid string, role string, oldUser string, newUser string) error {
	for i := range r.assignees {
		if r.assignees[i].ListUuid == listUuid && r.assignees[i].Role == role && r.assignees[i].User == oldUser {
			r.assignees[i].User = newUser
		}
	}
	return nil
}

type fakeReviewRepository struct {
	reviews       []entity.ReviewEntity
	itemReviews   map[string][]entity.ItemReviewEntity
	coReviews     []entity.CoReviewEntity
	responses     []entity.ReviewResponseEntity
	itemResponses map[string][]entity.ItemReviewResponseEntity
}

func newFakeReviewRepository() *fakeReviewRepository {
	return &fakeReviewRepository{
		itemReviews:   map[string][]entity.ItemReviewEntity{},
		itemResponses: map[string][]entity.ItemReviewResponseEntity{},
	}
}

func (r *fakeReviewRepository) CreateReview(ctx context.Context, review *entity.ReviewEntity, itemReviews []entity.ItemReviewEntity) error {
	r.reviews = append(r.reviews, *review)
	r.itemReviews[review.Uuid] = itemReviews
	return nil
}

func (r *fakeReviewRepository) GetReviews(ctx context.Context, listUuid string) ([]entity.ReviewEntity, error) {
	var result []entity.ReviewEntity
	for _, review := range r.reviews {
		if review.ListUuid == listUuid {
			result = append(result, review)
		}
	}
	return result, nil
}

func (r *fakeReviewRepository) GetLatestReview(ctx context.Context, listUuid string) (*entity.ReviewEntity, error) {
	for i := len(r.reviews) - 1; i >= 0; i-- {
		if r.reviews[i].ListUuid == listUuid {
			return &r.reviews[i], nil
		}
	}
	return nil, nil
}

func (r *fakeReviewRepository) GetItemReviews(ctx context.Context, reviewUuid string) ([]entity.ItemReviewEntity, error) {
	return r.itemReviews[reviewUuid], nil
}

func (r *fakeReviewRepository) CountAcceptedReviewsSince(ctx context.Context, listUuid string, roundStart time.Time) (int, error) {
	count := 0
	for _, review := range r.reviews {
		if review.ListUuid == listUuid && review.Decision == string(view.ReviewDecisionAccepted) && !review.CreatedAt.Before(roundStart) {
			count++
		}
	}
	return count, nil
}

func (r *fakeReviewRepository) CreateCoReview(ctx context.Context, coReview *entity.CoReviewEntity) error {
	r.coReviews = append(r.coReviews, *coReview)
	return nil
}

func (r *fakeReviewRepository) GetCoReviews(ctx context.Context, listUuid string) ([]entity.CoReviewEntity, error) {
	var result []entity.CoReviewEntity
	for _, coReview := range r.coReviews {
		if coReview.ListUuid == listUuid {
			result = append(result, coReview)
		}
	}
	return result, nil
}

func (r *fakeReviewRepository) CreateReviewResponse(ctx context.Context, response *entity.ReviewResponseEntity, itemResponses []entity.ItemReviewResponseEntity) error {
	r.responses = append(r.responses, *response)
	r.itemResponses[response.Uuid] = itemResponses
	return nil
}

func (r *fakeReviewRepository) GetReviewResponse(ctx context.Context, reviewUuid string) (*entity.ReviewResponseEntity, error) {
	for i := range r.responses {
		if r.responses[i].ReviewUuid == reviewUuid {
			return &r.responses[i], nil
		}
	}
	return nil, nil
}

func (r *fakeReviewRepository) GetItemReviewResponses(ctx context.Context, responseUuid string) ([]entity.ItemReviewResponseEntity, error) {
	return r.itemResponses[responseUuid], nil
}

// inlineLockService runs the critical section directly; single-goroutine
// tests need no exclusion.
type inlineLockService struct{}

func (s inlineLockService) WithListLock(ctx context.Context, listUuid string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// trackingLockService records whether the lock is held so tests can assert a
// protocol step ran inside the critical section.
type trackingLockService struct {
	held         bool
	acquisitions int
}

func (s *trackingLockService) WithListLock(ctx context.Context, listUuid string, fn func(ctx context.Context) error) error {
	s.acquisitions++
	s.held = true
	defer func() { s.held = false }()
	return fn(ctx)
}

type capturingPublisher struct {
	events []ListEvent
}

func (p *capturingPublisher) PublishListEvent(event ListEvent) {
	p.events = append(p.events, event)
}

type fakeTaskRepository struct {
	tasks []entity.DestructionTaskEntity
}

func (r *fakeTaskRepository) CreateTasks(ctx context.Context, tasks []entity.DestructionTaskEntity) error {
	r.tasks = append(r.tasks, tasks...)
	return nil
}

func (r *fakeTaskRepository) ClaimTask(ctx context.Context, taskUuid string, instanceId string, leaseSeconds int) (bool, error) {
	return true, nil
}

func (r *fakeTaskRepository) Heartbeat(ctx context.Context, taskUuid string, instanceId string, leaseSeconds int) error {
	return nil
}

func (r *fakeTaskRepository) CompleteTask(ctx context.Context, taskUuid string, status string) error {
	for i := range r.tasks {
		if r.tasks[i].Uuid == taskUuid {
			r.tasks[i].Status = status
		}
	}
	return nil
}

func (r *fakeTaskRepository) GetTasksForList(ctx context.Context, listUuid string) ([]entity.DestructionTaskEntity, error) {
	var result []entity.DestructionTaskEntity
	for _, task := range r.tasks {
		if task.ListUuid == listUuid {
			result = append(result, task)
		}
	}
	return result, nil
}

func (r *fakeTaskRepository) RecoverStaleTasks(ctx context.Context) ([]string, error) {
	return nil, nil
}
