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

type AssigneeEntity struct {
	tableName struct{} `pg:"destruction_list_assignee"`

	Id       int64  `pg:"id, pk"`
	ListUuid string `pg:"list_uuid, type:uuid, notnull"`
	User     string `pg:"user_id, type:varchar, notnull"`
	Role     string `pg:"role, type:varchar, notnull"`
	Order    int    `pg:"assignee_order, type:integer, notnull, use_zero"`
}

func MakeAssigneeView(ent *AssigneeEntity) *view.Assignee {
	return &view.Assignee{
		User:  ent.User,
		Role:  view.AssigneeRole(ent.Role),
		Order: ent.Order,
	}
}
