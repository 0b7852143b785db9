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

package controller

import (
	"net/http"

	"github.com/maykinmedia/archiefbeheer/exception"
	"github.com/maykinmedia/archiefbeheer/service"
	"github.com/maykinmedia/archiefbeheer/utils"
	"github.com/maykinmedia/archiefbeheer/view"
)

type ReviewController interface {
	SubmitReview(w http.ResponseWriter, r *http.Request)
	GetReviews(w http.ResponseWriter, r *http.Request)
	SubmitCoReview(w http.ResponseWriter, r *http.Request)
	GetCoReviews(w http.ResponseWriter, r *http.Request)
	SubmitReviewResponse(w http.ResponseWriter, r *http.Request)
	GetReviewResponse(w http.ResponseWriter, r *http.Request)
}

func NewReviewController(reviewService service.ReviewService) ReviewController {
	return &reviewControllerImpl{reviewService: reviewService}
}

type reviewControllerImpl struct {
	reviewService service.ReviewService
}

func (c reviewControllerImpl) SubmitReview(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	var req view.SubmitReviewRequest
	if customErr := readBody(r, &req); customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	review, err := c.reviewService.SubmitReview(r.Context(), getStringParam(r, "listUuid"), actor, req)
	if err != nil {
		utils.RespondWithError(w, "Failed to submit review", err)
		return
	}
	utils.RespondWithJson(w, http.StatusCreated, review)
}

func (c reviewControllerImpl) GetReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := c.reviewService.GetReviews(r.Context(), getStringParam(r, "listUuid"))
	if err != nil {
		utils.RespondWithError(w, "Failed to get reviews", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, map[string]interface{}{"reviews": reviews})
}

func (c reviewControllerImpl) SubmitCoReview(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	var req view.SubmitCoReviewRequest
	if customErr := readBody(r, &req); customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	coReview, err := c.reviewService.SubmitCoReview(r.Context(), getStringParam(r, "listUuid"), actor, req)
	if err != nil {
		utils.RespondWithError(w, "Failed to submit co-review", err)
		return
	}
	utils.RespondWithJson(w, http.StatusCreated, coReview)
}

func (c reviewControllerImpl) GetCoReviews(w http.ResponseWriter, r *http.Request) {
	coReviews, err := c.reviewService.GetCoReviews(r.Context(), getStringParam(r, "listUuid"))
	if err != nil {
		utils.RespondWithError(w, "Failed to get co-reviews", err)
		return
	}
	utils.RespondWithJson(w, http.StatusOK, map[string]interface{}{"coReviews": coReviews})
}

func (c reviewControllerImpl) SubmitReviewResponse(w http.ResponseWriter, r *http.Request) {
	actor, customErr := getActor(r)
	if customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	var req view.SubmitReviewResponseRequest
	if customErr := readBody(r, &req); customErr != nil {
		utils.RespondWithCustomError(w, customErr)
		return
	}
	response, err := c.reviewService.SubmitReviewResponse(r.Context(), getStringParam(r, "listUuid"), actor, req)
	if err != nil {
		utils.RespondWithError(w, "Failed to submit review response", err)
		return
	}
	utils.RespondWithJson(w, http.StatusCreated, response)
}

func (c reviewControllerImpl) GetReviewResponse(w http.ResponseWriter, r *http.Request) {
	reviewUuid := getStringParam(r, "reviewUuid")
	response, err := c.reviewService.GetReviewResponse(r.Context(), reviewUuid)
	if err != nil {
		utils.RespondWithError(w, "Failed to get review response", err)
		return
	}
	if response == nil {
		utils.RespondWithCustomError(w, &exception.CustomError{
			Status:  http.StatusNotFound,
			Code:    exception.ReviewNotFound,
			Message: exception.ReviewNotFoundMsg,
			Params:  map[string]interface{}{"review": reviewUuid},
		})
		return
	}
	utils.RespondWithJson(w, http.StatusOK, response)
}
