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
	"time"

	"github.com/maykinmedia/archiefbeheer/repository"
	log "github.com/sirupsen/logrus"
)

const (
	listLockLeaseSeconds = 60
	lockAcquireAttempts  = 5
	lockAcquireBackoff   = 200 * time.Millisecond
)

// LockService serialises state machine transitions per destruction list.
// Transitions are short; the lease is only a safety net against a crashed
// holder.
type LockService interface {
	WithListLock(ctx context.Context, listUuid string, fn func(ctx context.Context) error) error
}

func NewLockService(lockRepo repository.LockRepository, instanceId string) LockService {
	return &lockServiceImpl{lockRepo: lockRepo, instanceId: instanceId}
}

type lockServiceImpl struct {
	lockRepo   repository.LockRepository
	instanceId string
}

func (s *lockServiceImpl) WithListLock(ctx context.Context, listUuid string, fn func(ctx context.Context) error) error {
	lockName := "destruction-list/" + listUuid

	acquired := false
	for attempt := 0; attempt < lockAcquireAttempts; attempt++ {
		ok, err := s.lockRepo.TryAcquireLock(ctx, lockName, s.instanceId, listLockLeaseSeconds)
		if err != nil {
			return fmt.Errorf("failed to acquire lock for list %s: %w", listUuid, err)
		}
		if ok {
			acquired = true
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(lockAcquireBackoff * time.Duration(attempt+1)):
		}
	}
	if !acquired {
		return fmt.Errorf("destruction list %s is locked by a concurrent transition", listUuid)
	}

	defer func() {
		if err := s.lockRepo.ReleaseLock(context.Background(), lockName, s.instanceId); err != nil {
			log.Errorf("Failed to release lock %s: %v", lockName, err)
		}
	}()

	return fn(ctx)
}
