package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"watchly/db"
	"watchly/internal/app"
	"watchly/internal/config"
	"watchly/internal/handler"
	"watchly/internal/middleware"
	"watchly/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %v", err)
	}

	err = db.Connect(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(context.Background(), db.DB); err != nil {
			log.Fatalf("error migrating DB: %v", err)
		}
	}

	if cfg.Redis.URL != "" {
		if err := db.ConnectRedis(cfg.Redis.URL); err != nil {
			slog.Warn("redis unavailable, metadata cache disabled", "error", err)
		} else {
			defer db.CloseRedis()
		}
	}

	movies := app.NewTMDBClient(cfg, db.Redis)
	recommender := app.NewRecommendService(cfg, movies)

	profileRepo := repository.NewProfileRepository(db.DB)
	followRepo := repository.NewFollowRepository(db.DB)
	logRepo := repository.NewWatchLogRepository(db.DB)

	gin.SetMode(gin.ReleaseMode)
	r := app.NewRouter(app.RouterDeps{
		Health:         handler.NewHealthHandler(db.DB),
		Recommendation: handler.NewRecommendationHandler(recommender),
		Movies:         handler.NewMovieHandler(movies, cfg.TMDB.Region),
		Profiles:       handler.NewProfileHandler(profileRepo, followRepo, logRepo),
		Follows:        handler.NewFollowHandler(followRepo),
		Logs:           handler.NewWatchLogHandler(logRepo, profileRepo),
		Feed:           handler.NewFeedHandler(logRepo, profileRepo),
		JWTSecret:      cfg.Auth.JWTSecret,
		RateLimiter:    middleware.NewRateLimiter(cfg.Recommend.RatePerMinute),
	})

	if cfg.Auth.JWTSecret == "" {
		slog.Warn("JWT_SECRET not set, social routes will refuse requests")
	}

	srv := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.Server.Port),
		Handler: r,
	}

	go func() {
		slog.Info("starting server", "addr", srv.Addr, "llm_provider", cfg.LLMProviderName())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("error starting server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
}
