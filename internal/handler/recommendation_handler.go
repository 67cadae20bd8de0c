package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"watchly/internal/model"
	"watchly/internal/recommend"

	"github.com/gin-gonic/gin"
)

type Recommender interface {
	Recommend(ctx context.Context, mood string) (*recommend.Result, error)
}

type RecommendationHandler struct {
	service Recommender
}

func NewRecommendationHandler(service Recommender) *RecommendationHandler {
	return &RecommendationHandler{service: service}
}

type moodRequest struct {
	Mood string `json:"mood"`
}

type RecommendationsResponse struct {
	Recommendations []model.Recommendation `json:"recommendations"`
	Degraded        bool                   `json:"degraded,omitempty"`
}

func (h *RecommendationHandler) GetMoodRecommendations(c *gin.Context) {
	var req moodRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	result, err := h.service.Recommend(c.Request.Context(), req.Mood)
	if err != nil {
		var cfgErr *recommend.ConfigError
		switch {
		case errors.Is(err, recommend.ErrMoodRequired):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Mood is required"})
		case errors.As(err, &cfgErr):
			slog.Error("language model credential missing", "provider", cfgErr.Provider)
			c.JSON(http.StatusInternalServerError, gin.H{"error": cfgErr.Error()})
		default:
			slog.Error("error getting mood recommendations", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get recommendations"})
		}
		return
	}

	c.JSON(http.StatusOK, RecommendationsResponse{
		Recommendations: result.Recommendations,
		Degraded:        result.Degraded,
	})
}
