package app

import (
	"log/slog"
	"strings"

	"watchly/internal/config"
	"watchly/internal/recommend"
	"watchly/pkg/llm"
	"watchly/pkg/tmdb"

	"github.com/redis/go-redis/v9"
)

// NewLLMClient returns nil when the selected provider has no key, so the
// request that needs it can fail with a clear message.
func NewLLMClient(cfg *config.Config) llm.Client {
	apiKey := cfg.LLMAPIKey()
	if apiKey == "" {
		slog.Warn("language model API key not set, recommendations disabled", "provider", cfg.LLMProviderName())
		return nil
	}

	if strings.ToLower(cfg.LLM.Provider) == config.ProviderAnthropic {
		return llm.NewAnthropicClient(apiKey)
	}
	return llm.NewOpenAIClient(apiKey)
}

// NewTMDBClient builds the metadata client. rdb may be nil, which disables
// response caching.
func NewTMDBClient(cfg *config.Config, rdb *redis.Client) *tmdb.Client {
	opts := tmdb.Options{
		APIKey:       cfg.TMDB.APIKey,
		BaseURL:      cfg.TMDB.BaseURL,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Timeout:      cfg.TMDB.Timeout,
		CacheTTL:     cfg.TMDB.CacheTTL,
	}
	if rdb != nil {
		opts.Cache = tmdb.NewRedisCache(rdb)
	}

	client := tmdb.NewClient(opts)
	if !client.Configured() {
		slog.Warn("TMDB_API_KEY not set, movie metadata disabled")
	}
	return client
}

func NewRecommendService(cfg *config.Config, movies recommend.MovieSearcher) *recommend.Service {
	return recommend.NewService(
		NewLLMClient(cfg),
		cfg.LLMProviderName(),
		movies,
		recommend.WithLLMTimeout(cfg.LLM.Timeout),
		recommend.WithMovieTimeout(cfg.TMDB.Timeout),
	)
}
