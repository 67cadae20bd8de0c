package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"watchly/internal/middleware"
	"watchly/internal/model"

	"github.com/gin-gonic/gin"
)

type WatchLogStore interface {
	Create(ctx context.Context, l *model.WatchLog) error
	DeleteOwned(ctx context.Context, id, ownerID string) error
	ListByUser(ctx context.Context, userID string, postsOnly bool, limit int) ([]model.WatchLog, error)
	GetFeed(ctx context.Context, viewerID string, limit, offset int) ([]model.WatchLog, error)
	GetFeedTotal(ctx context.Context, viewerID string) (int, error)
}

type FeedHandler struct {
	logs     WatchLogStore
	profiles ProfileStore
}

func NewFeedHandler(logs WatchLogStore, profiles ProfileStore) *FeedHandler {
	return &FeedHandler{logs: logs, profiles: profiles}
}

// GetFeed returns the caller's own logs plus posts from users they follow.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID := middleware.UserID(c)

	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	logs, err := h.logs.GetFeed(ctx, viewerID, limit, offset)
	if err != nil {
		slog.Error("error fetching feed", "error", err, "user_id", viewerID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.logs.GetFeedTotal(ctx, viewerID)
	if err != nil {
		slog.Error("error fetching feed total", "error", err, "user_id", viewerID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	profiles, err := h.profiles.GetByUserIDs(ctx, authorIDs(logs))
	if err != nil {
		slog.Error("error fetching feed profiles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, FeedResponse{
		Logs:   withAuthors(logs, profiles, model.UnknownDisplayName),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	paramLimit := c.Query(name)

	if paramLimit == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(paramLimit)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", paramLimit, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
