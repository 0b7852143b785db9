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

import "time"

// DestructionTaskEntity is the durable task table backing the scheduler; one
// row per queued item. A worker owns an item only while its claim is current.
type DestructionTaskEntity struct {
	tableName struct{} `pg:"destruction_task"`

	Uuid           string     `pg:"uuid, pk, type:uuid"`
	ListUuid       string     `pg:"list_uuid, type:uuid, notnull"`
	ItemUuid       string     `pg:"item_uuid, type:uuid, notnull"`
	Status         string     `pg:"status, type:varchar, notnull, default:'queued'"`
	ClaimedBy      string     `pg:"claimed_by, type:varchar"`
	ClaimExpiresAt *time.Time `pg:"claim_expires_at, type:timestamp without time zone"`
	HeartbeatAt    *time.Time `pg:"heartbeat_at, type:timestamp without time zone"`
	CreatedAt      time.Time  `pg:"created_at, type:timestamp without time zone, notnull"`
	FinishedAt     *time.Time `pg:"finished_at, type:timestamp without time zone"`
}
