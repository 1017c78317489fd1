package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookreview/internal/api"
	"bookreview/internal/app/service"
	"bookreview/internal/common/security"
	"bookreview/internal/domain/repository"
	"bookreview/internal/platform/cache"
	"bookreview/internal/platform/config"
	"bookreview/internal/platform/database"
)

func main() {
	// 1. Load Configuration
	if err := config.Load(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}
	log.Println("Configuration loaded.")

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize Database
	database.Connect()
	defer database.Close()

	ctx := context.Background()
	if err := database.EnsureSchema(ctx); err != nil {
		log.Fatalf("Schema setup failed: %v", err)
	}
	if err := database.SeedAdmin(ctx); err != nil {
		log.Fatalf("Admin seeding failed: %v", err)
	}

	// 4. Lockout tracker: in-process by default, Redis-backed when multiple
	// instances need to share failed-attempt counters.
	var lockouts service.LockoutTracker
	switch config.AppConfig.LockoutBackend {
	case config.LockoutBackendRedis:
		cache.ConnectRedis()
		defer cache.CloseRedis()
		lockouts = service.NewRedisLockoutTracker(cache.RDB, config.AppConfig.LockoutThreshold, config.AppConfig.LockoutWindow)
	default:
		lockouts = service.NewMemoryLockoutTracker(config.AppConfig.LockoutThreshold, config.AppConfig.LockoutWindow)
	}

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	reviewRepo := repository.NewPgReviewRepository(database.DB)

	// 6. Initialize Services
	pinIssuer := service.NewPinIssuer(userRepo, config.AppConfig.PinLength, config.AppConfig.PinMaxAttempts)
	authService := service.NewAuthService(userRepo, pinIssuer, lockouts)
	reviewService := service.NewReviewService(reviewRepo)
	userService := service.NewUserService(userRepo)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, reviewService, userService, userRepo)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()

	<-stop

	log.Println("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server stopped gracefully.")
}
