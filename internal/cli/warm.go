package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"watchly/db"
	"watchly/internal/app"
	"watchly/internal/config"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "warm",
		Short: "Pre-fill the metadata cache with popular movies",
		Long:  "Fetches the popular list and each title's details, credits and providers so the first page views hit redis. Meant for a cron job.",
		Args:  cobra.NoArgs,
		RunE:  runWarm,
	}

	cmd.Flags().IntP("limit", "l", 20, "Number of popular titles to warm")

	RootCmd.AddCommand(cmd)
}

func runWarm(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Redis.URL == "" {
		return errors.New("REDIS_URL is not set, nothing to warm")
	}

	if err := db.ConnectRedis(cfg.Redis.URL); err != nil {
		return fmt.Errorf("error connecting to Redis: %w", err)
	}
	defer db.CloseRedis()

	client := app.NewTMDBClient(cfg, db.Redis)
	ctx := cmd.Context()

	movies, err := client.PopularMovies(ctx)
	if err != nil {
		return fmt.Errorf("error fetching popular movies: %w", err)
	}
	if len(movies) > limit {
		movies = movies[:limit]
	}

	var warmed, failed int
	for _, m := range movies {
		if _, err := client.MovieView(ctx, m.ID, cfg.TMDB.Region); err != nil {
			slog.Error("error warming movie", "tmdb_id", m.ID, "title", m.Title, "error", err)
			failed++
			continue
		}
		warmed++
	}

	slog.Info("warm complete", "warmed", warmed, "errors", failed, "breaker", client.BreakerState())
	fmt.Fprintf(cmd.OutOrStdout(), "warmed %d titles (%d errors)\n", warmed, failed)
	return nil
}
