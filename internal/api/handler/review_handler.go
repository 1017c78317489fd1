package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"bookreview/internal/api/middleware"
	"bookreview/internal/app/service"
	"bookreview/internal/common"
	"bookreview/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(rs *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: rs}
}

// RegisterRoutes expects the caller to have applied the Authenticator.
func (h *ReviewHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listReviews)
	r.Get("/my-reviews", h.listMyReviews)
	r.Post("/", h.createReview)
	r.Put("/{reviewID}", h.updateReview)
	r.Delete("/{reviewID}", h.deleteReview)
}

func (h *ReviewHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	req := listRequestFromQuery(r)
	reviews, err := h.reviewService.List(r.Context(), caller, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithList(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) listMyReviews(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	req := listRequestFromQuery(r)
	req.OnlyMine = true
	reviews, err := h.reviewService.List(r.Context(), caller, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithList(w, http.StatusOK, reviews)
}

func (h *ReviewHandler) createReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	review, err := h.reviewService.Create(r.Context(), caller, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) updateReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid review id")
		return
	}

	var req service.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	review, err := h.reviewService.Update(r.Context(), caller, reviewID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, review)
}

func (h *ReviewHandler) deleteReview(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid review id")
		return
	}

	if err := h.reviewService.Delete(r.Context(), caller, reviewID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Review deleted successfully"})
}

func listRequestFromQuery(r *http.Request) service.ListReviewsRequest {
	q := r.URL.Query()

	skip, _ := strconv.Atoi(q.Get("skip"))
	if skip < 0 {
		skip = 0
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	rating, _ := strconv.Atoi(q.Get("rating"))

	return service.ListReviewsRequest{
		Search:   q.Get("search"),
		Genre:    model.Genre(q.Get("genre")),
		Rating:   rating,
		OnlyMine: q.Get("my_reviews") == "true",
		Skip:     skip,
		Limit:    limit,
	}
}
