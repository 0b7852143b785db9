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

package entity

import (
	"github.com/maykinmedia/archiefbeheer/view"
)

type DestructionListItemEntity struct {
	tableName struct{} `pg:"destruction_list_item"`

	Uuid              string                 `pg:"uuid, pk, type:uuid"`
	ListUuid          string                 `pg:"list_uuid, type:uuid, notnull, unique:list_zaak"`
	ZaakUrl           string                 `pg:"zaak_url, type:varchar, notnull, unique:list_zaak"`
	Status            string                 `pg:"status, type:varchar, notnull, default:'suggested'"`
	ProcessingStatus  string                 `pg:"processing_status, type:varchar, notnull, default:'new'"`
	ExtraZaakData     map[string]interface{} `pg:"extra_zaak_data, type:jsonb"`
	ExcludedRelations []string               `pg:"excluded_relations, array"`

	// Ledger columns, mutated only through LedgerRepository.
	DeletedResources  map[string][]string `pg:"deleted_resources, type:jsonb"`
	ResourcesToDelete map[string][]string `pg:"resources_to_delete, type:jsonb"`
	InternalTrace     string              `pg:"internal_trace, type:varchar"`
}

func MakeDestructionListItemView(ent *DestructionListItemEntity, relatedCount *int) *view.DestructionListItem {
	return &view.DestructionListItem{
		Uuid:              ent.Uuid,
		ZaakUrl:           ent.ZaakUrl,
		Status:            view.ItemStatus(ent.Status),
		ProcessingStatus:  view.ProcessingStatus(ent.ProcessingStatus),
		ExtraZaakData:     ent.ExtraZaakData,
		ExcludedRelations: ent.ExcludedRelations,
		RelatedCount:      relatedCount,
	}
}
