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
	"time"

	"github.com/go-pg/pg/v10"
	"github.com/maykinmedia/archiefbeheer/db"
	"github.com/maykinmedia/archiefbeheer/entity"
)

type TaskRepository interface {
	CreateTasks(ctx context.Context, tasks []entity.DestructionTaskEntity) error
	// ClaimTask takes ownership of a queued (or expired-claim) task. Returns
	// false when another worker holds a live claim.
	ClaimTask(ctx context.Context, taskUuid string, instanceId string, leaseSeconds int) (bool, error)
	Heartbeat(ctx context.Context, taskUuid string, instanceId string, leaseSeconds int) error
	CompleteTask(ctx context.Context, taskUuid string, status string) error
	GetTasksForList(ctx context.Context, listUuid string) ([]entity.DestructionTaskEntity, error)
	// RecoverStaleTasks flips tasks whose claim expired while still processing
	// to failed and returns the affected item uuids.
	RecoverStaleTasks(ctx context.Context) ([]string, error)
}

func NewTaskRepository(cp db.ConnectionProvider) TaskRepository {
	return &taskRepositoryImpl{cp: cp}
}

type taskRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r *taskRepositoryImpl) CreateTasks(ctx context.Context, tasks []entity.DestructionTaskEntity) error {
	if len(tasks) == 0 {
		return nil
	}
	if _, err := r.cp.GetConnection().ModelContext(ctx, &tasks).Insert(); err != nil {
		return fmt.Errorf("failed to insert destruction tasks: %w", err)
	}
	return nil
}

func (r *taskRepositoryImpl) ClaimTask(ctx context.Context, taskUuid string, instanceId string, leaseSeconds int) (bool, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(time.Duration(leaseSeconds) * time.Second)
	result, err := r.cp.GetConnection().ModelContext(ctx, &entity.DestructionTaskEntity{}).
		Set("status = 'processing', claimed_by = ?, claim_expires_at = ?, heartbeat_at = ?", instanceId, expiresAt, now).
		Where("uuid = ? AND (status = 'queued' OR (status = 'processing' AND claim_expires_at < ?))", taskUuid, now).
		Update()
	if err != nil {
		return false, fmt.Errorf("failed to claim task %s: %w", taskUuid, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *taskRepositoryImpl) Heartbeat(ctx context.Context, taskUuid string, instanceId string, leaseSeconds int) error {
	now := time.Now().UTC()
	expiresAt := now.Add(time.Duration(leaseSeconds) * time.Second)
	result, err := r.cp.GetConnection().ModelContext(ctx, &entity.DestructionTaskEntity{}).
		Set("claim_expires_at = ?, heartbeat_at = ?", expiresAt, now).
		Where("uuid = ? AND claimed_by = ? AND status = 'processing'", taskUuid, instanceId).
		Update()
	if err != nil {
		return fmt.Errorf("failed to heartbeat task %s: %w", taskUuid, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("task %s is no longer owned by %s", taskUuid, instanceId)
	}
	return nil
}

func (r *taskRepositoryImpl) CompleteTask(ctx context.Context, taskUuid string, status string) error {
	now := time.Now().UTC()
	_, err := r.cp.GetConnection().ModelContext(ctx, &entity.DestructionTaskEntity{}).
		Set("status = ?, finished_at = ?, claim_expires_at = NULL", status, now).
		Where("uuid = ?", taskUuid).
		Update()
	if err != nil {
		return fmt.Errorf("failed to complete task %s: %w", taskUuid, err)
	}
	return nil
}

func (r *taskRepositoryImpl) GetTasksForList(ctx context.Context, listUuid string) ([]entity.DestructionTaskEntity, error) {
	var tasks []entity.DestructionTaskEntity
	err := r.cp.GetConnection().ModelContext(ctx, &tasks).
		Where("list_uuid = ?", listUuid).
		Order("created_at ASC").
		Select()
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks of list %s: %w", listUuid, err)
	}
	return tasks, nil
}

func (r *taskRepositoryImpl) RecoverStaleTasks(ctx context.Context) ([]string, error) {
	var itemUuids []string
	err := r.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		var stale []entity.DestructionTaskEntity
		err := tx.Model(&stale).
			Column("uuid", "item_uuid").
			Where("status = 'processing' AND claim_expires_at < ?", time.Now().UTC()).
			For("UPDATE SKIP LOCKED").
			Select()
		if err != nil {
			return fmt.Errorf("failed to find stale tasks: %w", err)
		}
		for _, task := range stale {
			if _, err := tx.Model(&entity.DestructionTaskEntity{}).
				Set("status = 'failed', finished_at = ?", time.Now().UTC()).
				Where("uuid = ?", task.Uuid).
				Update(); err != nil {
				return fmt.Errorf("failed to fail stale task %s: %w", task.Uuid, err)
			}
			if _, err := tx.Model(&entity.DestructionListItemEntity{}).
				Set("processing_status = 'failed'").
				Where("uuid = ? AND processing_status = 'processing'", task.ItemUuid).
				Update(); err != nil {
				return fmt.Errorf("failed to fail item %s of stale task: %w", task.ItemUuid, err)
			}
			itemUuids = append(itemUuids, task.ItemUuid)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return itemUuids, nil
}
