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
	"fmt"

	"github.com/go-pg/pg/v10"
	"github.com/maykinmedia/archiefbeheer/db"
	"github.com/maykinmedia/archiefbeheer/entity"
)

type AssigneeRepository interface {
	GetAssignees(ctx context.Context, listUuid string) ([]entity.AssigneeEntity, error)
	GetAssigneesByRole(ctx context.Context, listUuid string, role string) ([]entity.AssigneeEntity, error)
	AddAssignee(ctx context.Context, assignee *entity.AssigneeEntity) error
	ReplaceAssignee(ctx context.Context, listUuid string, role string, oldUser string, newUser string) error
}

func NewAssigneeRepository(cp db.ConnectionProvider) AssigneeRepository {
	return &assigneeRepositoryImpl{cp: cp}
}

type assigneeRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r *assigneeRepositoryImpl) GetAssignees(ctx context.Context, listUuid string) ([]entity.AssigneeEntity, error) {
	var assignees []entity.AssigneeEntity
	err := r.cp.GetConnection().ModelContext(ctx, &assignees).
		Where("list_uuid = ?", listUuid).
		Order("assignee_order ASC").
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to get assignees of list %s: %w", listUuid, err)
	}
	return assignees, nil
}

func (r *assigneeRepositoryImpl) GetAssigneesByRole(ctx context.Context, listUuid string, role string) ([]entity.AssigneeEntity, error) {
	var assignees []entity.AssigneeEntity
	err := r.cp.GetConnection().ModelContext(ctx, &assignees).
		Where("list_uuid = ? AND role = ?", listUuid, role).
		Order("assignee_order ASC").
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to get %s assignees of list %s: %w", role, listUuid, err)
	}
	return assignees, nil
}

func (r *assigneeRepositoryImpl) AddAssignee(ctx context.Context, assignee *entity.AssigneeEntity) error {
	_, err := r.cp.GetConnection().ModelContext(ctx, assignee).Insert()
	if err != nil {
		return fmt.Errorf("failed to add assignee %s to list %s: %w", assignee.User, assignee.ListUuid, err)
	}
	return nil
}

// ReplaceAssignee swaps the user of an assignee row in place; order and role
// are preserved so prior reviews keep their position in the sequence.
func (r *assigneeRepositoryImpl) ReplaceAssignee(ctx context.Context, listUuid string, role string, oldUser string, newUser string) error {
	return r.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		result, err := tx.Model(&entity.AssigneeEntity{}).
			Set("user_id = ?", newUser).
			Where("list_uuid = ? AND role = ? AND user_id = ?", listUuid, role, oldUser).
			Update()
		if err != nil {
			return fmt.Errorf("failed to replace assignee: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("no %s assignee %s on list %s", role, oldUser, listUuid)
		}
		// keep the denormalised current assignee on the list in sync
		_, err = tx.Model(&entity.DestructionListEntity{}).
			Set("assignee_user = ?", newUser).
			Where("uuid = ? AND assignee_user = ?", listUuid, oldUser).
			Update()
		return err
	})
}
