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

type Review struct {
	Uuid         string         `json:"uuid"`
	ListUuid     string         `json:"listUuid"`
	Author       string         `json:"author"`
	Decision     ReviewDecision `json:"decision"`
	ListFeedback string         `json:"listFeedback,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	ItemReviews  []ItemReview   `json:"itemReviews,omitempty"`
}

type ItemReview struct {
	Uuid    string           `json:"uuid"`
	ZaakUrl string           `json:"zaakUrl"`
	Action  ItemReviewAction `json:"action"`
	Reason  string           `json:"reason"`
}

type CoReview struct {
	Uuid         string    `json:"uuid"`
	ListUuid     string    `json:"listUuid"`
	Author       string    `json:"author"`
	ListFeedback string    `json:"listFeedback"`
	CreatedAt    time.Time `json:"createdAt"`
}

type ReviewResponse struct {
	Uuid          string               `json:"uuid"`
	ReviewUuid    string               `json:"reviewUuid"`
	Comment       string               `json:"comment,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	ItemResponses []ItemReviewResponse `json:"itemResponses"`
}

type ItemReviewResponse struct {
	ItemReviewUuid string           `json:"itemReviewUuid"`
	Action         ItemReviewAction `json:"action"`
	Comment        string           `json:"comment,omitempty"`
}

type SubmitReviewRequest struct {
	Decision     ReviewDecision            `json:"decision" validate:"required,oneof=accepted rejected"`
	ListFeedback string                    `json:"listFeedback"`
	ItemReviews  []SubmitItemReviewRequest `json:"itemReviews" validate:"dive"`
}

type SubmitItemReviewRequest struct {
	ZaakUrl string           `json:"zaakUrl" validate:"required,url"`
	Action  ItemReviewAction `json:"action" validate:"required,oneof=keep remove"`
	Reason  string           `json:"reason" validate:"required"`
}

type SubmitCoReviewRequest struct {
	ListFeedback string `json:"listFeedback" validate:"required"`
}

type SubmitReviewResponseRequest struct {
	Comment       string                      `json:"comment"`
	ItemResponses []SubmitItemResponseRequest `json:"itemResponses" validate:"required,min=1,dive"`
}

type SubmitItemResponseRequest struct {
	ItemReviewUuid string           `json:"itemReviewUuid" validate:"required,uuid"`
	Action         ItemReviewAction `json:"action" validate:"required,oneof=keep remove"`
	Comment        string           `json:"comment"`
}
