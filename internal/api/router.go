package api

import (
	"net/http"
	"time"

	"bookreview/internal/api/handler"
	apimiddleware "bookreview/internal/api/middleware"
	"bookreview/internal/app/service"
	"bookreview/internal/common"
	"bookreview/internal/domain/repository"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(
	authService *service.AuthService,
	reviewService *service.ReviewService,
	userService *service.UserService,
	userRepo repository.UserRepository,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	authenticate := apimiddleware.Authenticator(userRepo)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Book Review Platform API is running"})
	})
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Auth routes (public)
	authHandler := handler.NewAuthHandler(authService)
	r.Route("/auth", authHandler.RegisterRoutes)

	// Review routes (authenticated)
	reviewHandler := handler.NewReviewHandler(reviewService)
	r.Route("/reviews", func(reviews chi.Router) {
		reviews.Use(authenticate)
		reviewHandler.RegisterRoutes(reviews)
	})

	// Admin routes (authenticated + admin role)
	adminHandler := handler.NewAdminHandler(reviewService, userService)
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(authenticate)
		admin.Use(apimiddleware.AdminOnly)
		adminHandler.RegisterRoutes(admin)
	})

	return r
}
