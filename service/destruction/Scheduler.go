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
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maykinmedia/archiefbeheer/client"
	"github.com/maykinmedia/archiefbeheer/config"
	"github.com/maykinmedia/archiefbeheer/entity"
	"github.com/maykinmedia/archiefbeheer/exception"
	"github.com/maykinmedia/archiefbeheer/metrics"
	"github.com/maykinmedia/archiefbeheer/repository"
	"github.com/maykinmedia/archiefbeheer/utils"
	"github.com/maykinmedia/archiefbeheer/view"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// Scheduler drives the destruction run of a list: it fans the items out over
// a bounded worker pool, one claimed task per item, and settles the list when
// every item is done. The run itself is asynchronous; StartDestruction only
// validates, enqueues and returns.
type Scheduler interface {
	StartDestruction(ctx context.Context, listUuid string) error
}

func NewScheduler(cfg config.DestructionConfig, instanceId string,
	listRepo repository.DestructionListRepository, taskRepo repository.TaskRepository,
	pool client.ClientPool, executor Executor, reporter Reporter, completer Completer) Scheduler {
	return &schedulerImpl{
		cfg:        cfg,
		instanceId: instanceId,
		listRepo:   listRepo,
		taskRepo:   taskRepo,
		pool:       pool,
		executor:   executor,
		reporter:   reporter,
		completer:  completer,
	}
}

type schedulerImpl struct {
	cfg        config.DestructionConfig
	instanceId string
	listRepo   repository.DestructionListRepository
	taskRepo   repository.TaskRepository
	pool       client.ClientPool
	executor   Executor
	reporter   Reporter
	completer  Completer
}

func (s *schedulerImpl) StartDestruction(ctx context.Context, listUuid string) error {
	list, err := s.listRepo.GetList(ctx, listUuid)
	if err != nil {
		return err
	}
	if list == nil {
		return &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.DestructionListNotFound,
			Message: exception.DestructionListNotFoundMsg,
			Params:  map[string]interface{}{"list": listUuid},
		}
	}
	if view.ListStatus(list.Status) != view.ListStatusReadyToDelete {
		return &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.DestructionNotAllowed,
			Message: exception.DestructionNotAllowedMsg,
			Params:  map[string]interface{}{"list": listUuid, "reason": "status is " + list.Status},
		}
	}
	processingStatus := view.ProcessingStatus(list.ProcessingStatus)
	if processingStatus != view.ProcessingStatusNew && processingStatus != view.ProcessingStatusFailed {
		return &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.DestructionNotAllowed,
			Message: exception.DestructionNotAllowedMsg,
			Params:  map[string]interface{}{"list": listUuid, "reason": "processing status is " + list.ProcessingStatus},
		}
	}
	if list.PlannedDestructionDate != nil && list.PlannedDestructionDate.After(time.Now().UTC()) {
		return &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.PlannedDestructionDateNotReached,
			Message: exception.PlannedDestructionDateNotReachedMsg,
			Params:  map[string]interface{}{"list": listUuid, "date": list.PlannedDestructionDate.Format("2006-01-02")},
		}
	}
	if err := s.pool.CheckConfigured(ctx, view.RequiredApiFamilies()); err != nil {
		return &exception.CustomError{
			Status:  http.StatusConflict,
			Code:    exception.ServiceNotConfigured,
			Message: exception.ServiceNotConfiguredMsg,
			Params:  map[string]interface{}{"details": err.Error()},
			Debug:   err.Error(),
		}
	}

	items, err := s.listRepo.GetItems(ctx, listUuid, []string{string(view.ItemStatusSuggested)})
	if err != nil {
		return err
	}
	// a rerun only picks up what has not succeeded yet
	var pending []entity.DestructionListItemEntity
	for _, item := range items {
		if view.ProcessingStatus(item.ProcessingStatus) != view.ProcessingStatusSucceeded {
			pending = append(pending, item)
		}
	}
	if len(pending) == 0 {
		return s.settleList(context.Background(), listUuid)
	}

	tasks := make([]entity.DestructionTaskEntity, 0, len(pending))
	now := time.Now().UTC()
	for _, item := range pending {
		tasks = append(tasks, entity.DestructionTaskEntity{
			Uuid:      uuid.NewString(),
			ListUuid:  listUuid,
			ItemUuid:  item.Uuid,
			Status:    "queued",
			CreatedAt: now,
		})
	}
	if err := s.taskRepo.CreateTasks(ctx, tasks); err != nil {
		return err
	}
	if err := s.listRepo.SetProcessingStatus(ctx, listUuid, string(view.ProcessingStatusQueued)); err != nil {
		return err
	}
	for _, item := range pending {
		if err := s.listRepo.SetItemProcessingStatus(ctx, item.Uuid, string(view.ProcessingStatusQueued)); err != nil {
			return err
		}
	}

	utils.SafeAsync(func() {
		s.runList(context.Background(), listUuid, pending, tasks)
	})
	return nil
}

func (s *schedulerImpl) runList(ctx context.Context, listUuid string, items []entity.DestructionListItemEntity, tasks []entity.DestructionTaskEntity) {
	log.Infof("Starting destruction of list %s (%d items, concurrency %d)", listUuid, len(items), s.cfg.WorkerConcurrency)
	if err := s.listRepo.SetProcessingStatus(ctx, listUuid, string(view.ProcessingStatusProcessing)); err != nil {
		log.Errorf("Failed to mark list %s processing: %v", listUuid, err)
		return
	}

	itemByUuid := make(map[string]entity.DestructionListItemEntity, len(items))
	for _, item := range items {
		itemByUuid[item.Uuid] = item
	}

	sem := semaphore.NewWeighted(int64(s.cfg.WorkerConcurrency))
	var wg sync.WaitGroup
	for _, task := range tasks {
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Errorf("Destruction of list %s interrupted: %v", listUuid, err)
			break
		}
		task := task
		item := itemByUuid[task.ItemUuid]
		wg.Add(1)
		utils.SafeAsync(func() {
			defer wg.Done()
			defer sem.Release(1)
			s.runTask(ctx, &task, &item)
		})
	}
	wg.Wait()

	counts, err := s.listRepo.CountItemsByProcessingStatus(ctx, listUuid)
	if err != nil {
		log.Errorf("Failed to aggregate destruction outcome of list %s: %v", listUuid, err)
		return
	}
	for status, count := range counts {
		if view.ProcessingStatus(status) != view.ProcessingStatusSucceeded && count > 0 {
			log.Warnf("Destruction of list %s incomplete: %d items %s", listUuid, count, status)
			if err := s.listRepo.SetProcessingStatus(ctx, listUuid, string(view.ProcessingStatusFailed)); err != nil {
				log.Errorf("Failed to mark list %s failed: %v", listUuid, err)
			}
			return
		}
	}
	if err := s.settleList(ctx, listUuid); err != nil {
		log.Errorf("Failed to settle destruction list %s: %v", listUuid, err)
	}
}

func (s *schedulerImpl) runTask(ctx context.Context, task *entity.DestructionTaskEntity, item *entity.DestructionListItemEntity) {
	claimed, err := s.taskRepo.ClaimTask(ctx, task.Uuid, s.instanceId, s.cfg.ClaimLeaseSeconds)
	if err != nil {
		log.Errorf("Failed to claim task %s: %v", task.Uuid, err)
		return
	}
	if !claimed {
		// another instance holds a live claim on this item
		log.Debugf("Task %s already claimed elsewhere, skipping", task.Uuid)
		return
	}
	if err := s.listRepo.SetItemProcessingStatus(ctx, item.Uuid, string(view.ProcessingStatusProcessing)); err != nil {
		log.Errorf("Failed to mark item %s processing: %v", item.Uuid, err)
		return
	}

	taskCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.TaskSoftTimeLimitSeconds)*time.Second)
	defer cancel()
	stopHeartbeat := s.keepClaimAlive(taskCtx, task.Uuid)
	err = s.executor.ProcessItem(taskCtx, item)
	stopHeartbeat()

	if err != nil {
		metrics.ItemsDestroyed.WithLabelValues("failed").Inc()
		log.Errorf("Destruction of item %s (zaak %s) failed: %v", item.Uuid, item.ZaakUrl, err)
		if err := s.listRepo.SetItemProcessingStatus(ctx, item.Uuid, string(view.ProcessingStatusFailed)); err != nil {
			log.Errorf("Failed to mark item %s failed: %v", item.Uuid, err)
		}
		if err := s.taskRepo.CompleteTask(ctx, task.Uuid, "failed"); err != nil {
			log.Errorf("Failed to complete task %s: %v", task.Uuid, err)
		}
		return
	}
	metrics.ItemsDestroyed.WithLabelValues("succeeded").Inc()
	if err := s.listRepo.SetItemProcessingStatus(ctx, item.Uuid, string(view.ProcessingStatusSucceeded)); err != nil {
		log.Errorf("Failed to mark item %s succeeded: %v", item.Uuid, err)
	}
	if err := s.taskRepo.CompleteTask(ctx, task.Uuid, "succeeded"); err != nil {
		log.Errorf("Failed to complete task %s: %v", task.Uuid, err)
	}
}

// keepClaimAlive renews the task claim until the returned stop function is
// called or ctx ends.
func (s *schedulerImpl) keepClaimAlive(ctx context.Context, taskUuid string) func() {
	interval := time.Duration(s.cfg.ClaimLeaseSeconds) * time.Second / 3
	if interval < time.Second {
		interval = time.Second
	}
	done := make(chan struct{})
	var once sync.Once
	utils.SafeAsync(func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.taskRepo.Heartbeat(context.Background(), taskUuid, s.instanceId, s.cfg.ClaimLeaseSeconds); err != nil {
					log.Warnf("Heartbeat of task %s failed: %v", taskUuid, err)
				}
			}
		}
	})
	return func() {
		once.Do(func() { close(done) })
	}
}

// settleList finishes a fully succeeded run: report, processing status and
// the final workflow transition.
func (s *schedulerImpl) settleList(ctx context.Context, listUuid string) error {
	if location, err := s.reporter.BuildReport(ctx, listUuid); err != nil {
		// the zaken are gone either way; a missing report must not block the
		// workflow from settling
		log.Errorf("Failed to build destruction report of list %s: %v", listUuid, err)
	} else if location != "" {
		log.Infof("Destruction report of list %s stored at %s", listUuid, location)
	}
	if err := s.listRepo.SetProcessingStatus(ctx, listUuid, string(view.ProcessingStatusSucceeded)); err != nil {
		return err
	}
	if err := s.completer(ctx, listUuid); err != nil {
		return err
	}
	log.Infof("Destruction list %s fully processed", listUuid)
	return nil
}
