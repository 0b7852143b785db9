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

	"github.com/go-pg/pg/v10"
	"github.com/maykinmedia/archiefbeheer/db"
	"github.com/maykinmedia/archiefbeheer/entity"
	"github.com/maykinmedia/archiefbeheer/utils"
)

var ErrItemNotFound = errors.New("destruction list item not found")

// LedgerState is a read snapshot of an item's deletion journal.
type LedgerState struct {
	ItemUuid          string
	DeletedResources  map[string][]string
	ResourcesToDelete map[string][]string
	LastTrace         string
}

func (s *LedgerState) HasDeleted(kind string, url string) bool {
	return utils.SliceContains(s.DeletedResources[kind], url)
}

func (s *LedgerState) Pending(kind string) []string {
	return s.ResourcesToDelete[kind]
}

// LedgerRepository is the only write path into the per-item ledger columns.
// Every mutation is one durable statement; concurrent writers are excluded by
// the scheduler's per-item claim, the row lock here is a backstop.
type LedgerRepository interface {
	Get(ctx context.Context, itemUuid string) (*LedgerState, error)
	RecordDeleted(ctx context.Context, itemUuid string, kind string, url string) error
	Queue(ctx context.Context, itemUuid string, kind string, url string) error
	Drain(ctx context.Context, itemUuid string, kind string) error
	DrainAll(ctx context.Context, itemUuid string) error
	RecordError(ctx context.Context, itemUuid string, trace string) error
}

func NewLedgerRepository(cp db.ConnectionProvider) LedgerRepository {
	return &ledgerRepositoryImpl{cp: cp}
}

type ledgerRepositoryImpl struct {
	cp db.ConnectionProvider
}

func (r *ledgerRepositoryImpl) Get(ctx context.Context, itemUuid string) (*LedgerState, error) {
	var item entity.DestructionListItemEntity
	err := r.cp.GetConnection().ModelContext(ctx, &item).
		Column("uuid", "deleted_resources", "resources_to_delete", "internal_trace").
		Where("uuid = ?", itemUuid).
		Select()
	if err != nil {
		if errors.Is(err, pg.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to read ledger of item %s: %w", itemUuid, err)
	}
	return makeLedgerState(&item), nil
}

func makeLedgerState(item *entity.DestructionListItemEntity) *LedgerState {
	state := &LedgerState{
		ItemUuid:          item.Uuid,
		DeletedResources:  item.DeletedResources,
		ResourcesToDelete: item.ResourcesToDelete,
		LastTrace:         item.InternalTrace,
	}
	if state.DeletedResources == nil {
		state.DeletedResources = map[string][]string{}
	}
	if state.ResourcesToDelete == nil {
		state.ResourcesToDelete = map[string][]string{}
	}
	return state
}

func (r *ledgerRepositoryImpl) RecordDeleted(ctx context.Context, itemUuid string, kind string, url string) error {
	return r.mutate(ctx, itemUuid, func(item *entity.DestructionListItemEntity) {
		if item.DeletedResources == nil {
			item.DeletedResources = map[string][]string{}
		}
		if !utils.SliceContains(item.DeletedResources[kind], url) {
			item.DeletedResources[kind] = append(item.DeletedResources[kind], url)
		}
	})
}

func (r *ledgerRepositoryImpl) Queue(ctx context.Context, itemUuid string, kind string, url string) error {
	return r.mutate(ctx, itemUuid, func(item *entity.DestructionListItemEntity) {
		if item.ResourcesToDelete == nil {
			item.ResourcesToDelete = map[string][]string{}
		}
		if !utils.SliceContains(item.ResourcesToDelete[kind], url) {
			item.ResourcesToDelete[kind] = append(item.ResourcesToDelete[kind], url)
		}
	})
}

func (r *ledgerRepositoryImpl) Drain(ctx context.Context, itemUuid string, kind string) error {
	return r.mutate(ctx, itemUuid, func(item *entity.DestructionListItemEntity) {
		delete(item.ResourcesToDelete, kind)
	})
}

func (r *ledgerRepositoryImpl) DrainAll(ctx context.Context, itemUuid string) error {
	return r.mutate(ctx, itemUuid, func(item *entity.DestructionListItemEntity) {
		item.ResourcesToDelete = map[string][]string{}
		item.InternalTrace = ""
	})
}

func (r *ledgerRepositoryImpl) RecordError(ctx context.Context, itemUuid string, trace string) error {
	return r.mutate(ctx, itemUuid, func(item *entity.DestructionListItemEntity) {
		item.InternalTrace = trace
	})
}

func (r *ledgerRepositoryImpl) mutate(ctx context.Context, itemUuid string, change func(*entity.DestructionListItemEntity)) error {
	return r.cp.GetConnection().RunInTransaction(ctx, func(tx *pg.Tx) error {
		var item entity.DestructionListItemEntity
		err := tx.Model(&item).
			Column("uuid", "deleted_resources", "resources_to_delete", "internal_trace").
			Where("uuid = ?", itemUuid).
			For("UPDATE").
			Select()
		if err != nil {
			if errors.Is(err, pg.ErrNoRows) {
				return ErrItemNotFound
			}
			return fmt.Errorf("failed to lock ledger of item %s: %w", itemUuid, err)
		}
		change(&item)
		_, err = tx.Model(&item).
			Set("deleted_resources = ?, resources_to_delete = ?, internal_trace = ?",
				item.DeletedResources, item.ResourcesToDelete, item.InternalTrace).
			Where("uuid = ?", itemUuid).
			Update()
		if err != nil {
			return fmt.Errorf("failed to persist ledger of item %s: %w", itemUuid, err)
		}
		return nil
	})
}
