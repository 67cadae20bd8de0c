package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"watchly/pkg/tmdb"

	"github.com/gin-gonic/gin"
)

type MovieCatalog interface {
	MovieView(ctx context.Context, id int64, region string) (*tmdb.MovieView, error)
	SearchAll(ctx context.Context, query string) ([]tmdb.MediaItem, error)
	SearchMovies(ctx context.Context, query string) ([]tmdb.Movie, error)
	SearchTV(ctx context.Context, query string) ([]tmdb.TVShow, error)
	PopularMovies(ctx context.Context) ([]tmdb.Movie, error)
	PosterURL(path, size string) string
}

type MovieHandler struct {
	catalog MovieCatalog
	region  string
}

func NewMovieHandler(catalog MovieCatalog, region string) *MovieHandler {
	return &MovieHandler{catalog: catalog, region: region}
}

func (h *MovieHandler) GetMovie(c *gin.Context) {
	id := c.Param("id")

	movieID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || movieID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid movie id"})
		return
	}

	region := c.DefaultQuery("region", h.region)

	view, err := h.catalog.MovieView(c.Request.Context(), movieID, region)
	if err != nil {
		if errors.Is(err, tmdb.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Movie details not available"})
			return
		}
		h.upstreamError(c, "error fetching movie", err, "tmdb_id", movieID)
		return
	}

	c.JSON(http.StatusOK, h.toMovieDetailResponse(view))
}

func (h *MovieHandler) SearchMedia(c *gin.Context) {
	items, err := h.catalog.SearchAll(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		h.upstreamError(c, "error searching media", err)
		return
	}
	c.JSON(http.StatusOK, h.toMediaItems(items))
}

func (h *MovieHandler) SearchMovies(c *gin.Context) {
	movies, err := h.catalog.SearchMovies(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		h.upstreamError(c, "error searching movies", err)
		return
	}
	c.JSON(http.StatusOK, h.toMediaItems(movieItems(movies)))
}

func (h *MovieHandler) SearchTV(c *gin.Context) {
	shows, err := h.catalog.SearchTV(c.Request.Context(), strings.TrimSpace(c.Query("q")))
	if err != nil {
		h.upstreamError(c, "error searching tv", err)
		return
	}

	items := make([]tmdb.MediaItem, 0, len(shows))
	for _, s := range shows {
		items = append(items, s.Item())
	}
	c.JSON(http.StatusOK, h.toMediaItems(items))
}

func (h *MovieHandler) GetPopular(c *gin.Context) {
	movies, err := h.catalog.PopularMovies(c.Request.Context())
	if err != nil {
		h.upstreamError(c, "error fetching popular movies", err)
		return
	}
	c.JSON(http.StatusOK, h.toMediaItems(movieItems(movies)))
}

func (h *MovieHandler) upstreamError(c *gin.Context, msg string, err error, args ...interface{}) {
	slog.Error(msg, append([]interface{}{"error", err}, args...)...)

	if errors.Is(err, tmdb.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Movie metadata not configured"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "Movie metadata unavailable"})
}

func movieItems(movies []tmdb.Movie) []tmdb.MediaItem {
	items := make([]tmdb.MediaItem, 0, len(movies))
	for _, m := range movies {
		items = append(items, m.Item())
	}
	return items
}

func (h *MovieHandler) imageURL(path, size string) *string {
	url := h.catalog.PosterURL(path, size)
	if url == "" {
		return nil
	}
	return &url
}

func (h *MovieHandler) toMediaItems(items []tmdb.MediaItem) []MediaItemResponse {
	res := make([]MediaItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, MediaItemResponse{
			MediaType:   string(item.MediaType),
			ID:          item.ID,
			Title:       item.Title,
			ReleaseDate: item.ReleaseDate,
			PosterURL:   h.imageURL(item.PosterPath, tmdb.PosterSizeList),
			Overview:    item.Overview,
			VoteAverage: item.VoteAverage,
		})
	}
	return res
}

func (h *MovieHandler) toProviders(providers []tmdb.Provider) []ProviderResponse {
	res := make([]ProviderResponse, 0, len(providers))
	for _, p := range providers {
		res = append(res, ProviderResponse{
			ID:      p.ProviderID,
			Name:    p.ProviderName,
			LogoURL: h.imageURL(p.LogoPath, tmdb.LogoSize),
		})
	}
	return res
}

func (h *MovieHandler) toMovieDetailResponse(v *tmdb.MovieView) MovieDetailResponse {
	d := v.Details

	genres := make([]string, 0, len(d.Genres))
	for _, g := range d.Genres {
		genres = append(genres, g.Name)
	}

	cast := make([]CastResponse, 0, len(v.Cast))
	for _, m := range v.Cast {
		cast = append(cast, CastResponse{
			ID:        m.ID,
			Name:      m.Name,
			Character: m.Character,
			PhotoURL:  h.imageURL(m.ProfilePath, tmdb.ProfileSize),
		})
	}

	res := MovieDetailResponse{
		ID:           d.ID,
		Title:        d.Title,
		Overview:     d.Overview,
		PosterURL:    h.imageURL(d.PosterPath, tmdb.PosterSizeDetail),
		ReleaseDate:  d.ReleaseDate,
		Runtime:      d.Runtime,
		RuntimeLabel: tmdb.RuntimeLabel(d.Runtime),
		VoteAverage:  d.VoteAverage,
		Genres:       genres,
		Director:     v.Director,
		Cast:         cast,
		Streaming: StreamingResponse{
			Region:   strings.ToUpper(v.Region),
			Link:     v.Streaming.Link,
			Flatrate: h.toProviders(v.Streaming.Flatrate),
			Rent:     h.toProviders(v.Streaming.Rent),
			Buy:      h.toProviders(v.Streaming.Buy),
		},
	}
	if year, ok := tmdb.ReleaseYear(d.ReleaseDate); ok {
		res.ReleaseYear = &year
	}
	return res
}
