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

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/maykinmedia/archiefbeheer/db"
	"github.com/maykinmedia/archiefbeheer/entity"
)

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *entity.ReviewEntity, itemReviews []entity.ItemReviewEntity) error
	GetReviews(ctx context.Context, listUuid string) ([]entity.ReviewEntity, error)
	GetLatestReview(ctx context.Context, listUuid string) (*entity.ReviewEntity, error)
	GetItemReviews(ctx context.Context, reviewUuid string) ([]entity.ItemReviewEntity, error)
	CountAcceptedReviewsSince(ctx context.Context, listUuid string, roundStart time.Time) (int, error)

	CreateCoReview(ctx context.Context, coReview *entity.CoReviewEntity) error
	GetCoReviews(ctx context.Context, listUuid string) ([]entity.CoReviewEntity, error)

	CreateReviewResponse(ctx context.Context, response *entity.ReviewResponseEntity, itemResponses []entity.ItemReviewResponseEntity) error
	GetReviewResponse(ctx context.Context, reviewUuid string) (*entity.ReviewResponseEntity, error)
	GetItemReviewResponses(ctx context.Context, responseUuid string) ([]entity.ItemReviewResponseEntity, error)
}

func NewReviewRepository(cp db.ConnectionProvider) ReviewRepository {
	return &reviewRepositoryImpl{cp: cp}
}

type reviewRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r *reviewRepositoryImpl) CreateReview(ctx context.Context, review *entity.ReviewEntity, itemReviews []entity.ItemReviewEntity) error {
	return r.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		if _, err := tx.Model(review).Insert(); err != nil {
			return fmt.Errorf("failed to insert review: %w", err)
		}
		if len(itemReviews) > 0 {
			if _, err := tx.Model(&itemReviews).Insert(); err != nil {
				return fmt.Errorf("failed to insert item reviews: %w", err)
			}
		}
		return nil
	})
}

func (r *reviewRepositoryImpl) GetReviews(ctx context.Context, listUuid string) ([]entity.ReviewEntity, error) {
	var reviews []entity.ReviewEntity
	err := r.cp.GetConnection().ModelContext(ctx, &reviews).
		Where("list_uuid = ?", listUuid).
		Order("created_at ASC").
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews of list %s: %w", listUuid, err)
	}
	return reviews, nil
}

func (r *reviewRepositoryImpl) GetLatestReview(ctx context.Context, listUuid string) (*entity.ReviewEntity, error) {
	var review entity.ReviewEntity
	err := r.cp.GetConnection().ModelContext(ctx, &review).
		Where("list_uuid = ?", listUuid).
		Order("created_at DESC").
		Limit(1).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest review of list %s: %w", listUuid, err)
	}
	return &review, nil
}

func (r *reviewRepositoryImpl) GetItemReviews(ctx context.Context, reviewUuid string) ([]entity.ItemReviewEntity, error) {
	var itemReviews []entity.ItemReviewEntity
	err := r.cp.GetConnection().ModelContext(ctx, &itemReviews).
		Where("review_uuid = ?", reviewUuid).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to get item reviews of review %s: %w", reviewUuid, err)
	}
	return itemReviews, nil
}

// CountAcceptedReviewsSince counts accepted main-reviewer passes of the current
// round; roundStart is the timestamp of the last (re-)submission.
func (r *reviewRepositoryImpl) CountAcceptedReviewsSince(ctx context.Context, listUuid string, roundStart time.Time) (int, error) {
	count, err := r.cp.GetConnection().ModelContext(ctx, (*entity.ReviewEntity)(nil)).
		Where("list_uuid = ? AND decision = 'accepted' AND created_at >= ?", listUuid, roundStart).
		Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count accepted reviews of list %s: %w", listUuid, err)
	}
	return count, nil
}

func (r *reviewRepositoryImpl) CreateCoReview(ctx context.Context, coReview *entity.CoReviewEntity) error {
	if _, err := r.cp.GetConnection().ModelContext(ctx, coReview).Insert(); err != nil {
		return fmt.Errorf("failed to insert co-review: %w", err)
	}
	return nil
}

func (r *reviewRepositoryImpl) GetCoReviews(ctx context.Context, listUuid string) ([]entity.CoReviewEntity, error) {
	var coReviews []entity.CoReviewEntity
	err := r.cp.GetConnection().ModelContext(ctx, &coReviews).
		Where("list_uuid = ?", listUuid).
		Order("created_at ASC").
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to get co-reviews of list %s: %w", listUuid, err)
	}
	return coReviews, nil
}

func (r *reviewRepositoryImpl) CreateReviewResponse(ctx context.Context, response *entity.ReviewResponseEntity, itemResponses []entity.ItemReviewResponseEntity) error {
	return r.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		if _, err := tx.Model(response).Insert(); err != nil {
			return fmt.Errorf("failed to insert review response: %w", err)
		}
		if len(itemResponses) > 0 {
			if _, err := tx.Model(&itemResponses).Insert(); err != nil {
				return fmt.Errorf("failed to insert item review responses: %w", err)
			}
		}
		return nil
	})
}

func (r *reviewRepositoryImpl) GetReviewResponse(ctx context.Context, reviewUuid string) (*entity.ReviewResponseEntity, error) {
	var response entity.ReviewResponseEntity
	err := r.cp.GetConnection().ModelContext(ctx, &response).
		Where("review_uuid = ?", reviewUuid).
		Order("created_at DESC").
		Limit(1).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get response of review %s: %w", reviewUuid, err)
	}
	return &response, nil
}

func (r *reviewRepositoryImpl) GetItemReviewResponses(ctx context.Context, responseUuid string) ([]entity.ItemReviewResponseEntity, error) {
	var itemResponses []entity.ItemReviewResponseEntity
	err := r.cp.GetConnection().ModelContext(ctx, &itemResponses).
		Where("response_uuid = ?", responseUuid).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to get item responses of response %s: %w", responseUuid, err)
	}
	return itemResponses, nil
}
