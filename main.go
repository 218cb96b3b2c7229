package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/isdelr/diary/internal/api"
	"github.com/isdelr/diary/internal/auth"
	"github.com/isdelr/diary/internal/config"
	"github.com/isdelr/diary/internal/database"
	"github.com/isdelr/diary/internal/logger"
	"github.com/isdelr/diary/internal/services"
	"github.com/isdelr/diary/internal/web"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// A local .env file is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatal().Err(err).Msg("Failed to read .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.LogLevel, !cfg.IsProduction())

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database schema")
	}

	// Set up services
	userService := services.NewUserService(db, cfg.BcryptCost)
	cardService := services.NewCardService(db)
	eventService := services.NewEventService(db)

	if cfg.SeedAllowed() {
		created, err := userService.SeedDefaultUser(context.Background(), cfg.Seed.Email, cfg.Seed.Password)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed default user")
		}
		if created {
			log.Warn().Str("email", cfg.Seed.Email).Msg("Created default account for local testing; set SEED_DEFAULT_USER=false to disable")
		}
	}

	views, err := web.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load templates")
	}

	sessions := auth.NewManager([]byte(cfg.Session.Secret), cfg.Session.TTL, cfg.IsProduction())

	// Set up router
	router := api.NewRouter(sessions, views, userService, cardService, eventService, db, cfg.CORSOrigins)

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
