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

import "fmt"

type AssigneeRole string

const (
	RoleAuthor       AssigneeRole = "author"
	RoleMainReviewer AssigneeRole = "main_reviewer"
	RoleCoReviewer   AssigneeRole = "co_reviewer"
	RoleArchivist    AssigneeRole = "archivist"
)

func (r AssigneeRole) String() string {
	return string(r)
}

func ParseAssigneeRole(s string) (AssigneeRole, error) {
	switch AssigneeRole(s) {
	case RoleAuthor, RoleMainReviewer, RoleCoReviewer, RoleArchivist:
		return AssigneeRole(s), nil
	}
	return "", fmt.Errorf("unknown assignee role: %v", s)
}
