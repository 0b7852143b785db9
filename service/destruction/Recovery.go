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

package destruction

import (
	"context"

	"github.com/maykinmedia/archiefbeheer/metrics"
	"github.com/maykinmedia/archiefbeheer/repository"
	"github.com/maykinmedia/archiefbeheer/utils"
	"github.com/maykinmedia/archiefbeheer/view"
	log "github.com/sirupsen/logrus"
)

// RecoveryService reclaims work lost to crashed workers. Tasks whose claim
// expired while still processing are flipped to failed, their items with
// them, and the owning lists are marked failed so an operator (or the author)
// can restart the run. The ledger makes the restart resume instead of repeat.
type RecoveryService interface {
	// Sweep runs one recovery pass and returns the number of recovered tasks.
	Sweep(ctx context.Context) (int, error)
}

func NewRecoveryService(listRepo repository.DestructionListRepository, taskRepo repository.TaskRepository) RecoveryService {
	return &recoveryServiceImpl{listRepo: listRepo, taskRepo: taskRepo}
}

type recoveryServiceImpl struct {
	listRepo repository.DestructionListRepository
	taskRepo repository.TaskRepository
}

func (s *recoveryServiceImpl) Sweep(ctx context.Context) (int, error) {
	itemUuids, err := s.taskRepo.RecoverStaleTasks(ctx)
	if err != nil {
		return 0, err
	}
	if len(itemUuids) == 0 {
		return 0, nil
	}
	listUuids := map[string]bool{}
	for _, itemUuid := range itemUuids {
		item, err := s.listRepo.GetItem(ctx, itemUuid)
		if err != nil {
			log.Errorf("Failed to load recovered item %s: %v", itemUuid, err)
			continue
		}
		if item != nil {
			listUuids[item.ListUuid] = true
		}
	}
	for listUuid := range listUuids {
		if err := s.listRepo.SetProcessingStatus(ctx, listUuid, string(view.ProcessingStatusFailed)); err != nil {
			log.Errorf("Failed to mark recovered list %s failed: %v", listUuid, err)
		}
	}
	metrics.RecoveredTasks.WithLabelValues().Add(float64(len(itemUuids)))
	log.Warnf("Recovered %d stale destruction tasks across %d lists", len(itemUuids), len(listUuids))
	return len(itemUuids), nil
}

// RunSweep is the cron entrypoint; errors are logged, the schedule goes on.
func RunSweep(recovery RecoveryService) func() {
	return func() {
		utils.SafeAsync(func() {
			if _, err := recovery.Sweep(context.Background()); err != nil {
				log.Errorf("Destruction task recovery sweep failed: %v", err)
			}
		})
	}
}
