package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
)

const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p"

	PosterSizeList   = "w500"
	PosterSizeDetail = "w300"
	ProfileSize      = "w185"
	LogoSize         = "w92"
)

var (
	ErrNotFound      = errors.New("tmdb: not found")
	ErrNotConfigured = errors.New("tmdb: api key not configured")
)

// APIError is a non-2xx reply from the metadata API.
type APIError struct {
	Status int
	Path   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tmdb API error: %d on %s", e.Status, e.Path)
}

type Options struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	Timeout      time.Duration
	Cache        Cache
	CacheTTL     time.Duration
	HTTPClient   *http.Client
	Breaker      BreakerConfig
}

type Client struct {
	apiKey       string
	baseURL      string
	imageBaseURL string
	httpClient   *http.Client
	cache        Cache
	cacheTTL     time.Duration
	breaker      *gobreaker.CircuitBreaker[[]byte]
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.ImageBaseURL == "" {
		opts.ImageBaseURL = DefaultImageBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Cache == nil {
		opts.Cache = noopCache{}
	}
	return &Client{
		apiKey:       opts.APIKey,
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		imageBaseURL: strings.TrimRight(opts.ImageBaseURL, "/"),
		httpClient:   httpClient,
		cache:        opts.Cache,
		cacheTTL:     opts.CacheTTL,
		breaker:      newBreaker(opts.Breaker),
	}
}

func (c *Client) Name() string {
	return "TMDB"
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// PosterURL joins a poster path with the image host; empty path gives "".
func (c *Client) PosterURL(path, size string) string {
	if path == "" {
		return ""
	}
	if size == "" {
		size = PosterSizeList
	}
	return c.imageBaseURL + "/" + size + path
}

func (c *Client) SearchMovies(ctx context.Context, query string) ([]Movie, error) {
	if strings.TrimSpace(query) == "" {
		return []Movie{}, nil
	}
	var res searchResponse[Movie]
	if err := c.get(ctx, "/search/movie", url.Values{"query": {query}}, &res); err != nil {
		return nil, err
	}
	if res.Results == nil {
		return []Movie{}, nil
	}
	return res.Results, nil
}

func (c *Client) SearchTV(ctx context.Context, query string) ([]TVShow, error) {
	if strings.TrimSpace(query) == "" {
		return []TVShow{}, nil
	}
	var res searchResponse[TVShow]
	if err := c.get(ctx, "/search/tv", url.Values{"query": {query}}, &res); err != nil {
		return nil, err
	}
	if res.Results == nil {
		return []TVShow{}, nil
	}
	return res.Results, nil
}

func (c *Client) PopularMovies(ctx context.Context) ([]Movie, error) {
	var res searchResponse[Movie]
	params := url.Values{"sort_by": {"popularity.desc"}, "page": {"1"}}
	if err := c.get(ctx, "/discover/movie", params, &res); err != nil {
		return nil, err
	}
	if res.Results == nil {
		return []Movie{}, nil
	}
	return res.Results, nil
}

func (c *Client) MovieDetails(ctx context.Context, id int64) (*MovieDetails, error) {
	var res MovieDetails
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) MovieCredits(ctx context.Context, id int64) (*Credits, error) {
	var res Credits
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10)+"/credits", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) WatchProviders(ctx context.Context, id int64) (*WatchProviders, error) {
	var res WatchProviders
	if err := c.get(ctx, "/movie/"+strconv.FormatInt(id, 10)+"/watch/providers", nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	cacheKey := path
	if len(params) > 0 {
		cacheKey += "?" + params.Encode()
	}

	if body, ok := c.cache.Get(ctx, cacheKey); ok {
		if err := json.Unmarshal(body, out); err == nil {
			return nil
		}
		slog.Warn("discarding undecodable tmdb cache entry", "key", cacheKey)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.fetch(ctx, path, params)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("tmdb unavailable: %w", err)
		}
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("tmdb decode %s: %w", path, err)
	}

	c.cache.Set(ctx, cacheKey, body, c.cacheTTL)
	return nil
}

func (c *Client) fetch(ctx context.Context, path string, params url.Values) ([]byte, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("tmdb request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tmdb fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Path: path}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("tmdb read %s: %w", path, err)
	}
	return body, nil
}
