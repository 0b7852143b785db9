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
	"time"

	"github.com/maykinmedia/archiefbeheer/view"
)

type DestructionListEntity struct {
	tableName struct{} `pg:"destruction_list"`

	Uuid                   string     `pg:"uuid, pk, type:uuid"`
	Name                   string     `pg:"name, type:varchar, notnull"`
	Author                 string     `pg:"author, type:varchar, notnull"`
	Comment                string     `pg:"comment, type:varchar"`
	Status                 string     `pg:"status, type:varchar, notnull"`
	ProcessingStatus       string     `pg:"processing_status, type:varchar, notnull, default:'new'"`
	StatusChanged          time.Time  `pg:"status_changed, type:timestamp without time zone, notnull"`
	CreatedAt              time.Time  `pg:"created_at, type:timestamp without time zone, notnull"`
	UpdatedAt              time.Time  `pg:"updated_at, type:timestamp without time zone, notnull"`
	AssigneeUser           string     `pg:"assignee_user, type:varchar"`
	PlannedDestructionDate *time.Time `pg:"planned_destruction_date, type:timestamp without time zone"`
}

func MakeDestructionListView(ent *DestructionListEntity, assignees []AssigneeEntity) *view.DestructionList {
	result := &view.DestructionList{
		Uuid:                   ent.Uuid,
		Name:                   ent.Name,
		Author:                 ent.Author,
		Comment:                ent.Comment,
		Status:                 view.ListStatus(ent.Status),
		ProcessingStatus:       view.ProcessingStatus(ent.ProcessingStatus),
		StatusChanged:          ent.StatusChanged,
		CreatedAt:              ent.CreatedAt,
		UpdatedAt:              ent.UpdatedAt,
		PlannedDestructionDate: ent.PlannedDestructionDate,
	}
	for _, assignee := range assignees {
		assigneeView := MakeAssigneeView(&assignee)
		result.Assignees = append(result.Assignees, *assigneeView)
		if assignee.User == ent.AssigneeUser && result.Assignee == nil {
			result.Assignee = assigneeView
		}
	}
	return result
}
