package handler

import (
	"net/http"
	"strconv"

	"bookreview/internal/api/middleware"
	"bookreview/internal/app/service"
	"bookreview/internal/common"

	"github.com/go-chi/chi/v5"
)

type AdminHandler struct {
	reviewService *service.ReviewService
	userService   *service.UserService
}

func NewAdminHandler(rs *service.ReviewService, us *service.UserService) *AdminHandler {
	return &AdminHandler{reviewService: rs, userService: us}
}

// RegisterRoutes expects Authenticator + AdminOnly to be applied upstream.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reviews", h.listAllReviews)
	r.Post("/reviews/{reviewID}/archive", h.archiveReview)
	r.Get("/users", h.listUsers)
	r.Delete("/users/{userID}", h.deleteUser)
}

func (h *AdminHandler) listAllReviews(w http.ResponseWriter, r *http.Request) {
	caller, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	reviews, err := h.reviewService.List(r.Context(), caller, listRequestFromQuery(r))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithList(w, http.StatusOK, reviews)
}

func (h *AdminHandler) archiveReview(w http.ResponseWriter, r *http.Request) {
	reviewID, err := strconv.ParseInt(chi.URLParam(r, "reviewID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid review id")
		return
	}

	if err := h.reviewService.Archive(r.Context(), reviewID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Review archived successfully"})
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithList(w, http.StatusOK, users)
}

func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid user id")
		return
	}

	if err := h.userService.Delete(r.Context(), actor, userID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}
