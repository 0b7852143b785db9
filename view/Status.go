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

type ListStatus string

const (
	ListStatusNew                ListStatus = "new"
	ListStatusReadyToReview      ListStatus = "ready_to_review"
	ListStatusChangesRequested   ListStatus = "changes_requested"
	ListStatusInternallyReviewed ListStatus = "internally_reviewed"
	ListStatusReadyForArchivist  ListStatus = "ready_for_archivist"
	ListStatusReadyToDelete      ListStatus = "ready_to_delete"
	ListStatusDeleted            ListStatus = "deleted"
)

func (s ListStatus) String() string {
	return string(s)
}

func ParseListStatus(s string) (ListStatus, error) {
	switch ListStatus(s) {
	case ListStatusNew, ListStatusReadyToReview, ListStatusChangesRequested,
		ListStatusInternallyReviewed, ListStatusReadyForArchivist,
		ListStatusReadyToDelete, ListStatusDeleted:
		return ListStatus(s), nil
	}
	return "", fmt.Errorf("unknown destruction list status: %v", s)
}

func ListStatuses() []ListStatus {
	return []ListStatus{
		ListStatusNew,
		ListStatusReadyToReview,
		ListStatusChangesRequested,
		ListStatusInternallyReviewed,
		ListStatusReadyForArchivist,
		ListStatusReadyToDelete,
		ListStatusDeleted,
	}
}

type ProcessingStatus string

const (
	ProcessingStatusNew        ProcessingStatus = "new"
	ProcessingStatusQueued     ProcessingStatus = "queued"
	ProcessingStatusProcessing ProcessingStatus = "processing"
	ProcessingStatusFailed     ProcessingStatus = "failed"
	ProcessingStatusSucceeded  ProcessingStatus = "succeeded"
)

func (s ProcessingStatus) String() string {
	return string(s)
}

func ParseProcessingStatus(s string) (ProcessingStatus, error) {
	switch ProcessingStatus(s) {
	case ProcessingStatusNew, ProcessingStatusQueued, ProcessingStatusProcessing,
		ProcessingStatusFailed, ProcessingStatusSucceeded:
		return ProcessingStatus(s), nil
	}
	return "", fmt.Errorf("unknown processing status: %v", s)
}

type ItemStatus string

const (
	ItemStatusSuggested ItemStatus = "suggested"
	ItemStatusRemoved   ItemStatus = "removed"
)

func ParseItemStatus(s string) (ItemStatus, error) {
	switch ItemStatus(s) {
	case ItemStatusSuggested, ItemStatusRemoved:
		return ItemStatus(s), nil
	}
	return "", fmt.Errorf("unknown item status: %v", s)
}

type ReviewDecision string

const (
	ReviewDecisionAccepted ReviewDecision = "accepted"
	ReviewDecisionRejected ReviewDecision = "rejected"
)

type ItemReviewAction string

const (
	ItemReviewActionKeep   ItemReviewAction = "keep"
	ItemReviewActionRemove ItemReviewAction = "remove"
)
