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

var ErrStatusChangedNotMonotonic = errors.New("status_changed must strictly increase")

type DestructionListRepository interface {
	CreateListWithItems(ctx context.Context, list *entity.DestructionListEntity, items []entity.DestructionListItemEntity, assignees []entity.AssigneeEntity) error
	GetList(ctx context.Context, listUuid string) (*entity.DestructionListEntity, error)
	ListLists(ctx context.Context, limit int, offset int) ([]entity.DestructionListEntity, error)
	UpdateListMeta(ctx context.Context, listUuid string, name string, comment string) error
	UpdateStatus(ctx context.Context, listUuid string, status string, assigneeUser string, statusChanged time.Time) error
	SetProcessingStatus(ctx context.Context, listUuid string, processingStatus string) error
	// SetAssignee moves the current assignee without a status transition
	// (reviewer advancement within ready_to_review).
	SetAssignee(ctx context.Context, listUuid string, assigneeUser string) error
	SetPlannedDestructionDate(ctx context.Context, listUuid string, date *time.Time) error
	DeleteList(ctx context.Context, listUuid string) error

	GetItems(ctx context.Context, listUuid string, statuses []string) ([]entity.DestructionListItemEntity, error)
	GetItem(ctx context.Context, itemUuid string) (*entity.DestructionListItemEntity, error)
	GetItemByZaak(ctx context.Context, listUuid string, zaakUrl string) (*entity.DestructionListItemEntity, error)
	SetItemStatus(ctx context.Context, itemUuid string, status string) error
	SetItemProcessingStatus(ctx context.Context, itemUuid string, processingStatus string) error
	CountItemsByProcessingStatus(ctx context.Context, listUuid string) (map[string]int, error)
}

func NewDestructionListRepository(cp db.ConnectionProvider) DestructionListRepository {
	return &destructionListRepositoryImpl{cp: cp}
}

type destructionListRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r *destructionListRepositoryImpl) CreateListWithItems(ctx context.Context, list *entity.DestructionListEntity, items []entity.DestructionListItemEntity, assignees []entity.AssigneeEntity) error {
	return r.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		if _, err := tx.Model(list).Insert(); err != nil {
			return fmt.Errorf("failed to insert destruction list: %w", err)
		}
		if len(items) > 0 {
			if _, err := tx.Model(&items).Insert(); err != nil {
				return fmt.Errorf("failed to insert destruction list items: %w", err)
			}
		}
		if len(assignees) > 0 {
			if _, err := tx.Model(&assignees).Insert(); err != nil {
				return fmt.Errorf("failed to insert destruction list assignees: %w", err)
			}
		}
		return nil
	})
}

func (r *destructionListRepositoryImpl) GetList(ctx context.Context, listUuid string) (*entity.DestructionListEntity, error) {
	var list entity.DestructionListEntity
	err := r.cp.GetConnection().ModelContext(ctx, &list).
		Where("uuid = ?", listUuid).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get destruction list %s: %w", listUuid, err)
	}
	return &list, nil
}

func (r *destructionListRepositoryImpl) ListLists(ctx context.Context, limit int, offset int) ([]entity.DestructionListEntity, error) {
	var lists []entity.DestructionListEntity
	err := r.cp.GetConnection().ModelContext(ctx, &lists).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to list destruction lists: %w", err)
	}
	return lists, nil
}

func (r *destructionListRepositoryImpl) UpdateListMeta(ctx context.Context, listUuid string, name string, comment string) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, &entity.DestructionListEntity{}).
		Set("name = ?, comment = ?, updated_at = now()", name, comment).
		Where("uuid = ?", listUuid).
		Update()
	return err
}

// UpdateStatus writes status, current assignee and status_changed in one
// statement. The status_changed guard makes invariant "status_changed strictly
// increases" hold even under concurrent transition attempts.
func (r *destructionListRepositoryImpl) UpdateStatus(ctx context.Context, listUuid string, status string, assigneeUser string, statusChanged time.Time) error {
	result, err := r.cp.GetConnection().ModelContext(ctx, &entity.DestructionListEntity{}).
		Set("status = ?, assignee_user = ?, status_changed = ?, updated_at = ?", status, assigneeUser, statusChanged, statusChanged).
		Where("uuid = ? AND status_changed < ?", listUuid, statusChanged).
		Update()
	if err != nil {
		return fmt.Errorf("failed to update status of list %s: %w", listUuid, err)
	}
	if result.RowsAffected() == 0 {
		return ErrStatusChangedNotMonotonic
	}
	return nil
}

func (r *destructionListRepositoryImpl) SetProcessingStatus(ctx context.Context, listUuid string, processingStatus string) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, &entity.DestructionListEntity{}).
		Set("processing_status = ?, updated_at = now()", processingStatus).
		Where("uuid = ?", listUuid).
		Update()
	return err
}

func (r *destructionListRepositoryImpl) SetAssignee(ctx context.Context, listUuid string, assigneeUser string) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, &entity.DestructionListEntity{}).
		Set("assignee_user = ?, updated_at = now()", assigneeUser).
		Where("uuid = ?", listUuid).
		Update()
	return err
}

func (r *destructionListRepositoryImpl) SetPlannedDestructionDate(ctx context.Context, listUuid string, date *time.Time) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, &entity.DestructionListEntity{}).
		Set("planned_destruction_date = ?, updated_at = now()", date).
		Where("uuid = ?", listUuid).
		Update()
	return err
}

// DeleteList is the administrative purge; the workflow never calls it.
func (r *destructionListRepositoryImpl) DeleteList(ctx context.Context, listUuid string) error {
	return r.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		if _, err := tx.Model(&entity.DestructionTaskEntity{}).Where("list_uuid = ?", listUuid).Delete(); err != nil {
			return err
		}
		if _, err := tx.Model(&entity.AssigneeEntity{}).Where("list_uuid = ?", listUuid).Delete(); err != nil {
			return err
		}
		if _, err := tx.Model(&entity.DestructionListItemEntity{}).Where("list_uuid = ?", listUuid).Delete(); err != nil {
			return err
		}
		if _, err := tx.Model(&entity.DestructionListEntity{}).Where("uuid = ?", listUuid).Delete(); err != nil {
			return err
		}
		return nil
	})
}

func (r *destructionListRepositoryImpl) GetItems(ctx context.Context, listUuid string, statuses []string) ([]entity.DestructionListItemEntity, error) {
	var items []entity.DestructionListItemEntity
	query := r.cp.GetConnection().ModelContext(ctx, &items).
		Where("list_uuid = ?", listUuid).
		Order("zaak_url ASC")
	if len(statuses) > 0 {
		query = query.Where("status in (?)", pg.In(statuses))
	}
	if err := query.Select(); err != nil {
		return nil, fmt.Errorf("failed to get items of list %s: %w", listUuid, err)
	}
	return items, nil
}

func (r *destructionListRepositoryImpl) GetItem(ctx context.Context, itemUuid string) (*entity.DestructionListItemEntity, error) {
	var item entity.DestructionListItemEntity
	err := r.cp.GetConnection().ModelContext(ctx, &item).
		Where("uuid = ?", itemUuid).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item %s: %w", itemUuid, err)
	}
	return &item, nil
}

func (r *destructionListRepositoryImpl) GetItemByZaak(ctx context.Context, listUuid string, zaakUrl string) (*entity.DestructionListItemEntity, error) {
	var item entity.DestructionListItemEntity
	err := r.cp.GetConnection().ModelContext(ctx, &item).
		Where("list_uuid = ? AND zaak_url = ?", listUuid, zaakUrl).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item for zaak %s: %w", zaakUrl, err)
	}
	return &item, nil
}

func (r *destructionListRepositoryImpl) SetItemStatus(ctx context.Context, itemUuid string, status string) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, &entity.DestructionListItemEntity{}).
		Set("status = ?", status).
		Where("uuid = ?", itemUuid).
		Update()
	return err
}

func (r *destructionListRepositoryImpl) SetItemProcessingStatus(ctx context.Context, itemUuid string, processingStatus string) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, &entity.DestructionListItemEntity{}).
		Set("processing_status = ?", processingStatus).
		Where("uuid = ?", itemUuid).
		Update()
	return err
}

func (r *destructionListRepositoryImpl) CountItemsByProcessingStatus(ctx context.Context, listUuid string) (map[string]int, error) {
	var rows []struct {
		ProcessingStatus string
		Count            int
	}
	err := r.cp.GetConnection().ModelContext(ctx, (*entity.DestructionListItemEntity)(nil)).
		Column("processing_status").
		ColumnExpr("count(*) AS count").
		Where("list_uuid = ? AND status = 'suggested'", listUuid).
		Group("processing_status").
		Select(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to count items of list %s: %w", listUuid, err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.ProcessingStatus] = row.Count
	}
	return counts, nil
}
