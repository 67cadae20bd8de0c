package tmdb

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

const (
	maxViewCast     = 6
	unknownDirector = "Unknown"
)

// MovieView merges details, credits and watch providers for one title.
type MovieView struct {
	Details   MovieDetails    `json:"details"`
	Cast      []CastMember    `json:"cast"`
	Director  string          `json:"director"`
	Streaming RegionProviders `json:"streaming"`
	Region    string          `json:"region"`
}

// MovieView fetches details, credits and providers concurrently. Only a
// details failure is returned; credits and providers fall back to empty.
func (c *Client) MovieView(ctx context.Context, id int64, region string) (*MovieView, error) {
	var (
		details   *MovieDetails
		credits   *Credits
		providers *WatchProviders
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d, err := c.MovieDetails(gctx, id)
		if err != nil {
			return fmt.Errorf("movie details %d: %w", id, err)
		}
		details = d
		return nil
	})

	g.Go(func() error {
		cr, err := c.MovieCredits(gctx, id)
		if err != nil {
			slog.Warn("movie credits unavailable", "tmdb_id", id, "error", err)
			return nil
		}
		credits = cr
		return nil
	})

	g.Go(func() error {
		p, err := c.WatchProviders(gctx, id)
		if err != nil {
			slog.Warn("watch providers unavailable", "tmdb_id", id, "error", err)
			return nil
		}
		providers = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	view := &MovieView{
		Details:   *details,
		Cast:      []CastMember{},
		Director:  unknownDirector,
		Streaming: providers.Region(region),
		Region:    region,
	}

	if credits != nil {
		cast := credits.Cast
		if len(cast) > maxViewCast {
			cast = cast[:maxViewCast]
		}
		if cast != nil {
			view.Cast = cast
		}
		if name, ok := credits.Director(); ok {
			view.Director = name
		}
	}

	return view, nil
}

// SearchAll searches movies and TV concurrently, movies first.
func (c *Client) SearchAll(ctx context.Context, query string) ([]MediaItem, error) {
	var (
		movies []Movie
		shows  []TVShow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := c.SearchMovies(gctx, query)
		movies = m
		return err
	})
	g.Go(func() error {
		s, err := c.SearchTV(gctx, query)
		shows = s
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]MediaItem, 0, len(movies)+len(shows))
	for _, m := range movies {
		items = append(items, m.Item())
	}
	for _, s := range shows {
		items = append(items, s.Item())
	}
	return items, nil
}

// RuntimeLabel renders minutes as "2h 22m".
func RuntimeLabel(minutes int) string {
	if minutes <= 0 {
		return ""
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
