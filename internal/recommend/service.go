package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"watchly/internal/model"
	"watchly/pkg/llm"
	"watchly/pkg/tmdb"

	"golang.org/x/sync/errgroup"
)

var (
	ErrMoodRequired     = errors.New("mood is required")
	ErrLLMNotConfigured = errors.New("language model API key not configured")
)

// ConfigError names the provider whose credential is missing.
type ConfigError struct {
	Provider string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s API key not configured", e.Provider)
}

func (e *ConfigError) Is(target error) bool {
	return target == ErrLLMNotConfigured
}

// MovieSearcher is the slice of the metadata client enrichment needs.
type MovieSearcher interface {
	SearchMovies(ctx context.Context, query string) ([]tmdb.Movie, error)
	PosterURL(path, size string) string
	Configured() bool
}

type Result struct {
	Recommendations []model.Recommendation
	Degraded        bool
	ModelUsed       string
}

type Service struct {
	llm          llm.Client
	provider     string
	movies       MovieSearcher
	llmTimeout   time.Duration
	movieTimeout time.Duration
}

type Option func(*Service)

// WithLLMTimeout bounds the completion call. Non-positive keeps the default.
func WithLLMTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.llmTimeout = d
		}
	}
}

func WithMovieTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.movieTimeout = d
		}
	}
}

// NewService builds the pipeline. client may be nil when no credential is
// configured; provider names it for the error message in that case.
func NewService(client llm.Client, provider string, movies MovieSearcher, opts ...Option) *Service {
	s := &Service{
		llm:          client,
		provider:     provider,
		movies:       movies,
		llmTimeout:   30 * time.Second,
		movieTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Recommend(ctx context.Context, mood string) (*Result, error) {
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return nil, ErrMoodRequired
	}

	if s.llm == nil {
		recommendationsTotal.WithLabelValues(outcomeError).Inc()
		return nil, &ConfigError{Provider: s.provider}
	}

	slog.Info("requesting mood recommendations", "mood", mood, "provider", s.llm.Provider(), "prompt_version", llm.MoodPromptVersion())

	llmCtx, cancel := context.WithTimeout(ctx, s.llmTimeout)
	completion, err := s.llm.Complete(llmCtx, llm.MoodPrompt(mood))
	cancel()
	if err != nil {
		recommendationsTotal.WithLabelValues(outcomeError).Inc()
		return nil, fmt.Errorf("recommendation completion: %w", err)
	}

	recs, degraded := ParseRecommendations(completion.Content, model.RecommendationCount)
	if degraded {
		slog.Warn("model reply unusable, substituting fallback titles", "mood", mood, "content", completion.Content)
	}

	s.enrich(ctx, recs)

	outcome := outcomeOK
	if degraded {
		outcome = outcomeDegraded
	}
	recommendationsTotal.WithLabelValues(outcome).Inc()

	return &Result{
		Recommendations: recs,
		Degraded:        degraded,
		ModelUsed:       completion.ModelUsed,
	}, nil
}

// enrich attaches poster and metadata to each record in place, one
// concurrent lookup per record. A failed lookup leaves its record bare.
func (s *Service) enrich(ctx context.Context, recs []model.Recommendation) {
	if s.movies == nil || !s.movies.Configured() {
		slog.Warn("movie metadata not configured, skipping enrichment")
		return
	}

	var g errgroup.Group
	for i := range recs {
		g.Go(func() error {
			lookupCtx, cancel := context.WithTimeout(ctx, s.movieTimeout)
			defer cancel()

			movies, err := s.movies.SearchMovies(lookupCtx, recs[i].Title)
			if err != nil {
				enrichmentFailuresTotal.Inc()
				slog.Error("movie lookup failed", "title", recs[i].Title, "error", err)
				return nil
			}
			if len(movies) == 0 {
				return nil
			}
			s.attach(&recs[i], movies[0])
			return nil
		})
	}
	g.Wait()
}

func (s *Service) attach(rec *model.Recommendation, m tmdb.Movie) {
	id := m.ID
	rec.TMDBID = &id

	if url := s.movies.PosterURL(m.PosterPath, tmdb.PosterSizeList); url != "" {
		rec.PosterURL = &url
	}
	if year, ok := tmdb.ReleaseYear(m.ReleaseDate); ok {
		rec.ReleaseYear = &year
	}
	if m.Overview != "" {
		overview := m.Overview
		rec.Overview = &overview
	}
}
