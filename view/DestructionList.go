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

package view

import "time"

type DestructionList struct {
	Uuid                   string           `json:"uuid"`
	Name                   string           `json:"name"`
	Author                 string           `json:"author"`
	Comment                string           `json:"comment,omitempty"`
	Status                 ListStatus       `json:"status"`
	ProcessingStatus       ProcessingStatus `json:"processingStatus"`
	StatusChanged          time.Time        `json:"statusChanged"`
	CreatedAt              time.Time        `json:"createdAt"`
	UpdatedAt              time.Time        `json:"updatedAt"`
	Assignee               *Assignee        `json:"assignee,omitempty"`
	Assignees              []Assignee       `json:"assignees,omitempty"`
	PlannedDestructionDate *time.Time       `json:"plannedDestructionDate,omitempty"`
}

type DestructionListItem struct {
	Uuid              string                 `json:"uuid"`
	ZaakUrl           string                 `json:"zaakUrl"`
	Status            ItemStatus             `json:"status"`
	ProcessingStatus  ProcessingStatus       `json:"processingStatus"`
	ExtraZaakData     map[string]interface{} `json:"extraZaakData,omitempty"`
	ExcludedRelations []string               `json:"excludedRelations,omitempty"`
	RelatedCount      *int                   `json:"relatedCount"`
}

type Assignee struct {
	User  string       `json:"user"`
	Role  AssigneeRole `json:"role"`
	Order int          `json:"order"`
}

type CreateDestructionListRequest struct {
	Name                   string              `json:"name" validate:"required"`
	Comment                string              `json:"comment"`
	Reviewers              []AssigneeRequest   `json:"reviewers" validate:"required,min=1,dive"`
	Items                  []CreateItemRequest `json:"items" validate:"required,dive"`
	PlannedDestructionDate *time.Time          `json:"plannedDestructionDate"`
}

type AssigneeRequest struct {
	User string       `json:"user" validate:"required"`
	Role AssigneeRole `json:"role" validate:"required,oneof=main_reviewer co_reviewer"`
}

type CreateItemRequest struct {
	ZaakUrl           string                 `json:"zaakUrl" validate:"required,url"`
	ExtraZaakData     map[string]interface{} `json:"extraZaakData"`
	ExcludedRelations []string               `json:"excludedRelations"`
}

type UpdateDestructionListRequest struct {
	Name    string `json:"name"`
	Comment string `json:"comment"`
}

type ReassignRequest struct {
	Role    AssigneeRole `json:"role" validate:"required,oneof=main_reviewer co_reviewer"`
	OldUser string       `json:"oldUser" validate:"required"`
	NewUser string       `json:"newUser" validate:"required"`
	Comment string       `json:"comment" validate:"required"`
}

type MarkFinalRequest struct {
	Archivist string `json:"archivist" validate:"required"`
	Comment   string `json:"comment"`
}

type CommentRequest struct {
	Comment string `json:"comment"`
}

type PlannedDestructionDateRequest struct {
	Date *time.Time `json:"date"`
}

// ProcessingProgress summarizes a destruction run: the list level status and
// the item tallies per processing status.
type ProcessingProgress struct {
	ListUuid         string           `json:"listUuid"`
	ProcessingStatus ProcessingStatus `json:"processingStatus"`
	ItemCounts       map[string]int   `json:"itemCounts"`
	Tasks            []ProcessingTask `json:"tasks"`
}

type ProcessingTask struct {
	Uuid       string     `json:"uuid"`
	ItemUuid   string     `json:"itemUuid"`
	Status     string     `json:"status"`
	ClaimedBy  string     `json:"claimedBy,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}
