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
	"fmt"

	"github.com/maykinmedia/archiefbeheer/entity"
	"github.com/maykinmedia/archiefbeheer/repository"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Executor runs the deletion protocol for a single destruction list item. It
// is idempotent: every upstream delete is journaled before the next one is
// attempted, so a rerun after a crash or failure resumes where the previous
// run stopped and never repeats a destructive call.
type Executor interface {
	ProcessItem(ctx context.Context, item *entity.DestructionListItemEntity) error
}

func NewExecutor(gateway Gateway, ledger repository.LedgerRepository) Executor {
	return &executorImpl{gateway: gateway, ledger: ledger}
}

type executorImpl struct {
	gateway Gateway
	ledger  repository.LedgerRepository
}

func (e *executorImpl) ProcessItem(ctx context.Context, item *entity.DestructionListItemEntity) error {
	if err := e.processItem(ctx, item); err != nil {
		// the full trace goes to the ledger, never to API consumers
		trace := fmt.Sprintf("%+v", errors.WithStack(err))
		if ledgerErr := e.ledger.RecordError(ctx, item.Uuid, trace); ledgerErr != nil {
			log.Errorf("Failed to record error trace for item %s: %v", item.Uuid, ledgerErr)
		}
		return err
	}
	return nil
}

func (e *executorImpl) processItem(ctx context.Context, item *entity.DestructionListItemEntity) error {
	state, err := e.ledger.Get(ctx, item.Uuid)
	if err != nil {
		return err
	}
	// replay guard: once the zaak itself is journaled as deleted there is
	// nothing left to do
	if state.HasDeleted(KindZaken, item.ZaakUrl) {
		return nil
	}

	graph, err := e.gateway.FetchCaseGraph(ctx, item.ZaakUrl)
	if err != nil {
		if err == ErrZaakGone {
			return e.settleZaakGone(ctx, state, item.ZaakUrl)
		}
		return err
	}

	excluded := make(map[string]bool, len(item.ExcludedRelations))
	for _, url := range item.ExcludedRelations {
		excluded[url] = true
	}
	plan := BuildPlan(graph, excluded)

	for _, step := range plan {
		if step.Kind == KindZaken {
			// documents queued by an earlier partial run whose links are
			// already gone no longer show up in the graph; drain them first
			if err := e.deletePendingDocuments(ctx, state); err != nil {
				return err
			}
		}
		if err := e.executeStep(ctx, state, step); err != nil {
			return err
		}
	}
	return e.ledger.DrainAll(ctx, state.ItemUuid)
}

func (e *executorImpl) executeStep(ctx context.Context, state *repository.LedgerState, step PlanStep) error {
	if state.HasDeleted(step.Kind, step.Url) {
		return nil
	}
	if step.QueueDocument != "" && !state.HasDeleted(KindDocumenten, step.QueueDocument) {
		// journal the document before its link disappears, otherwise a crash
		// in between would leave it unreachable
		if err := e.ledger.Queue(ctx, state.ItemUuid, KindDocumenten, step.QueueDocument); err != nil {
			return err
		}
	}
	var err error
	if step.Action == ActionUnlink {
		err = e.gateway.Unlink(ctx, step.Kind, step.Url, step.ZaakUrl)
	} else {
		err = e.gateway.Delete(ctx, step.Kind, step.Url)
	}
	if err != nil {
		return err
	}
	return e.markDeleted(ctx, state, step.Kind, step.Url)
}

func (e *executorImpl) deletePendingDocuments(ctx context.Context, state *repository.LedgerState) error {
	for _, documentUrl := range state.Pending(KindDocumenten) {
		if state.HasDeleted(KindDocumenten, documentUrl) {
			continue
		}
		if err := e.gateway.Delete(ctx, KindDocumenten, documentUrl); err != nil {
			return err
		}
		if err := e.markDeleted(ctx, state, KindDocumenten, documentUrl); err != nil {
			return err
		}
	}
	return nil
}

func (e *executorImpl) markDeleted(ctx context.Context, state *repository.LedgerState, kind string, url string) error {
	if err := e.ledger.RecordDeleted(ctx, state.ItemUuid, kind, url); err != nil {
		return err
	}
	state.DeletedResources[kind] = append(state.DeletedResources[kind], url)
	return nil
}

// settleZaakGone records the zaak as deleted without issuing any calls; some
// other process removed it upstream.
func (e *executorImpl) settleZaakGone(ctx context.Context, state *repository.LedgerState, zaakUrl string) error {
	log.Infof("Zaak %s already gone upstream, settling item %s", zaakUrl, state.ItemUuid)
	if err := e.ledger.RecordDeleted(ctx, state.ItemUuid, KindZaken, zaakUrl); err != nil {
		return err
	}
	return e.ledger.DrainAll(ctx, state.ItemUuid)
}
