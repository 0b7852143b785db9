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

type ReviewEntity struct {
	tableName struct{} `pg:"destruction_list_review"`

	Uuid         string    `pg:"uuid, pk, type:uuid"`
	ListUuid     string    `pg:"list_uuid, type:uuid, notnull"`
	Author       string    `pg:"author, type:varchar, notnull"`
	Decision     string    `pg:"decision, type:varchar, notnull"`
	ListFeedback string    `pg:"list_feedback, type:varchar"`
	CreatedAt    time.Time `pg:"created_at, type:timestamp without time zone, notnull"`
}

type ItemReviewEntity struct {
	tableName struct{} `pg:"destruction_list_item_review"`

	Uuid       string `pg:"uuid, pk, type:uuid"`
	ReviewUuid string `pg:"review_uuid, type:uuid, notnull"`
	ItemUuid   string `pg:"item_uuid, type:uuid, notnull"`
	ZaakUrl    string `pg:"zaak_url, type:varchar, notnull"`
	Action     string `pg:"action, type:varchar, notnull"`
	Reason     string `pg:"reason, type:varchar, notnull"`
}

type CoReviewEntity struct {
	tableName struct{} `pg:"destruction_list_co_review"`

	Uuid         string    `pg:"uuid, pk, type:uuid"`
	ListUuid     string    `pg:"list_uuid, type:uuid, notnull"`
	Author       string    `pg:"author, type:varchar, notnull"`
	ListFeedback string    `pg:"list_feedback, type:varchar, notnull"`
	CreatedAt    time.Time `pg:"created_at, type:timestamp without time zone, notnull"`
}

type ReviewResponseEntity struct {
	tableName struct{} `pg:"destruction_list_review_response"`

	Uuid       string    `pg:"uuid, pk, type:uuid"`
	ReviewUuid string    `pg:"review_uuid, type:uuid, notnull"`
	Comment    string    `pg:"comment, type:varchar"`
	CreatedAt  time.Time `pg:"created_at, type:timestamp without time zone, notnull"`
}

type ItemReviewResponseEntity struct {
	tableName struct{} `pg:"destruction_list_item_review_response"`

	Id             int64  `pg:"id, pk"`
	ResponseUuid   string `pg:"response_uuid, type:uuid, notnull"`
	ItemReviewUuid string `pg:"item_review_uuid, type:uuid, notnull"`
	Action         string `pg:"action, type:varchar, notnull"`
	Comment        string `pg:"comment, type:varchar"`
}

func MakeReviewView(ent *ReviewEntity, itemReviews []ItemReviewEntity) *view.Review {
	result := &view.Review{
		Uuid:         ent.Uuid,
		ListUuid:     ent.ListUuid,
		Author:       ent.Author,
		Decision:     view.ReviewDecision(ent.Decision),
		ListFeedback: ent.ListFeedback,
		CreatedAt:    ent.CreatedAt,
	}
	for _, itemReview := range itemReviews {
		result.ItemReviews = append(result.ItemReviews, view.ItemReview{
			Uuid:    itemReview.Uuid,
			ZaakUrl: itemReview.ZaakUrl,
			Action:  view.ItemReviewAction(itemReview.Action),
			Reason:  itemReview.Reason,
		})
	}
	return result
}

func MakeCoReviewView(ent *CoReviewEntity) *view.CoReview {
	return &view.CoReview{
		Uuid:         ent.Uuid,
		ListUuid:     ent.ListUuid,
		Author:       ent.Author,
		ListFeedback: ent.ListFeedback,
		CreatedAt:    ent.CreatedAt,
	}
}

func MakeReviewResponseView(ent *ReviewResponseEntity, itemResponses []ItemReviewResponseEntity) *view.ReviewResponse {
	result := &view.ReviewResponse{
		Uuid:       ent.Uuid,
		ReviewUuid: ent.ReviewUuid,
		Comment:    ent.Comment,
		CreatedAt:  ent.CreatedAt,
	}
	for _, itemResponse := range itemResponses {
		result.ItemResponses = append(result.ItemResponses, view.ItemReviewResponse{
			ItemReviewUuid: itemResponse.ItemReviewUuid,
			Action:         view.ItemReviewAction(itemResponse.Action),
			Comment:        itemResponse.Comment,
		})
	}
	return result
}
