package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"watchly/internal/config"
	"watchly/internal/handler"
	"watchly/internal/middleware"
	"watchly/internal/recommend"
	"watchly/pkg/tmdb"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{LLM: config.LLMConfig{Provider: config.ProviderOpenAI}}
	movies := tmdb.NewClient(tmdb.Options{})

	return NewRouter(RouterDeps{
		Health:         handler.NewHealthHandler(okPinger{}),
		Recommendation: handler.NewRecommendationHandler(NewRecommendService(cfg, movies)),
		Movies:         handler.NewMovieHandler(movies, "US"),
		Profiles:       handler.NewProfileHandler(nil, nil, nil),
		Follows:        handler.NewFollowHandler(nil),
		Logs:           handler.NewWatchLogHandler(nil, nil),
		Feed:           handler.NewFeedHandler(nil, nil),
		JWTSecret:      "router-test-secret-router-test-secret",
		RateLimiter:    middleware.NewRateLimiter(1),
	})
}

func TestPreflightIsOpen(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/functions/v1/get-mood-recommendations", nil)
	req.Header.Set("Origin", "https://watchly.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "", w.Body.String())
}

func TestRecommendationWithoutKey(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest("POST", "/api/recommendations", strings.NewReader(`{"mood":"cozy"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, `{"error":"OpenAI API key not configured"}`, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/recommendations", strings.NewReader(`{"mood":"cozy"}`))
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSocialRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/feed", "/api/profiles/me", "/api/logs/me"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestMovieRoutesWithoutKey(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/api/movies/popular", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, strings.Contains(w.Body.String(), "watchly_http_request_duration_seconds"))
}

func TestNewLLMClientByProvider(t *testing.T) {
	cfg := &config.Config{LLM: config.LLMConfig{Provider: config.ProviderAnthropic, AnthropicAPIKey: "k"}}
	assert.Equal(t, "Anthropic", NewLLMClient(cfg).Provider())

	cfg = &config.Config{LLM: config.LLMConfig{Provider: config.ProviderOpenAI, OpenAIAPIKey: "k"}}
	assert.Equal(t, "OpenAI", NewLLMClient(cfg).Provider())

	cfg = &config.Config{LLM: config.LLMConfig{Provider: config.ProviderOpenAI}}
	assert.Equal(t, true, NewLLMClient(cfg) == nil)
}

var _ recommend.MovieSearcher = (*tmdb.Client)(nil)
