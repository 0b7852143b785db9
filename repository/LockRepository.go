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

var (
	ErrLockAlreadyAcquired = errors.New("lock is already acquired by another holder")
	ErrLockNotFound        = errors.New("lock not found")
)

const clockSkewMargin = 10 * time.Second

// LockRepository backs the per-list advisory locks that serialise state
// machine transitions. Locks are leased rows with optimistic versioning; an
// expired lease can be taken over.
type LockRepository interface {
	TryAcquireLock(ctx context.Context, lockName string, holderId string, leaseSeconds int) (bool, error)
	ReleaseLock(ctx context.Context, lockName string, holderId string) error
	GetLockInfo(ctx context.Context, lockName string) (*entity.LockEntity, error)
}

func NewLockRepository(cp db.ConnectionProvider) LockRepository {
	return &lockRepositoryImpl{cp: cp}
}

type lockRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r *lockRepositoryImpl) TryAcquireLock(ctx context.Context, lockName string, holderId string, leaseSeconds int) (bool, error) {
	now := time.Now().UTC()
	safeNow := now.Add(-clockSkewMargin)
	expiresAt := now.Add(time.Duration(leaseSeconds) * time.Second)

	existing, err := r.GetLockInfo(ctx, lockName)
	if err != nil && !errors.Is(err, ErrLockNotFound) {
		return false, err
	}

	if existing == nil {
		lock := &entity.LockEntity{
			Name:       lockName,
			InstanceId: holderId,
			AcquiredAt: now,
			ExpiresAt:  expiresAt,
			Version:    1,
		}
		_, err := r.cp.GetConnection().ModelContext(ctx, lock).Insert()
		if err != nil {
			if pgErr, ok := err.(pg.Error); ok && pgErr.IntegrityViolation() {
				return false, nil
			}
			return false, fmt.Errorf("failed to insert lock %s: %w", lockName, err)
		}
		return true, nil
	}

	if existing.ExpiresAt.After(safeNow) && existing.InstanceId != holderId {
		return false, nil
	}

	result, err := r.cp.GetConnection().ModelContext(ctx, &entity.LockEntity{}).
		Set("instance_id = ?, acquired_at = ?, expires_at = ?, version = version + 1", holderId, now, expiresAt).
		Where("name = ? AND version = ? AND (expires_at < ? OR instance_id = ?)", lockName, existing.Version, safeNow, holderId).
		Update()
	if err != nil {
		return false, fmt.Errorf("failed to take over lock %s: %w", lockName, err)
	}
	return result.RowsAffected() > 0, nil
}

func (r *lockRepositoryImpl) ReleaseLock(ctx context.Context, lockName string, holderId string) error {
	pastTime := time.Now().UTC().Add(-clockSkewMargin)
	result, err := r.cp.GetConnection().ModelContext(ctx, &entity.LockEntity{}).
		Set("expires_at = ?, version = version + 1", pastTime).
		Where("name = ? AND instance_id = ?", lockName, holderId).
		Update()
	if err != nil {
		return fmt.Errorf("failed to release lock %s: %w", lockName, err)
	}
	if result.RowsAffected() == 0 {
		info, err := r.GetLockInfo(ctx, lockName)
		if err != nil {
			if errors.Is(err, ErrLockNotFound) {
				return nil
			}
			return err
		}
		if info.InstanceId != holderId {
			return ErrLockAlreadyAcquired
		}
	}
	return nil
}

func (r *lockRepositoryImpl) GetLockInfo(ctx context.Context, lockName string) (*entity.LockEntity, error) {
	var lock entity.LockEntity
	err := r.cp.GetConnection().ModelContext(ctx, &lock).
		Where("name = ?", lockName).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, ErrLockNotFound
		}
		return nil, fmt.Errorf("failed to get lock %s: %w", lockName, err)
	}
	return &lock, nil
}
