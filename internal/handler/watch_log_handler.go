package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"watchly/internal/middleware"
	"watchly/internal/model"
	"watchly/internal/repository"

	"github.com/gin-gonic/gin"
)

type WatchLogHandler struct {
	logs     WatchLogStore
	profiles ProfileStore
}

func NewWatchLogHandler(logs WatchLogStore, profiles ProfileStore) *WatchLogHandler {
	return &WatchLogHandler{logs: logs, profiles: profiles}
}

type createWatchLogRequest struct {
	Title    string `json:"title" binding:"required,max=200"`
	Caption  string `json:"caption" binding:"max=1000"`
	Emoji    string `json:"emoji" binding:"max=16"`
	ImageURL string `json:"image_url" binding:"omitempty,url"`
	IsPost   bool   `json:"is_post"`
}

// optional maps a blank string to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func (h *WatchLogHandler) CreateLog(c *gin.Context) {
	userID := middleware.UserID(c)

	var req createWatchLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	l := &model.WatchLog{
		UserID:   userID,
		Title:    title,
		Caption:  optional(req.Caption),
		Emoji:    optional(req.Emoji),
		ImageURL: optional(req.ImageURL),
		IsPost:   req.IsPost,
	}

	if err := h.logs.Create(c.Request.Context(), l); err != nil {
		slog.Error("error creating watch log", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusCreated, toWatchLogResponse(*l))
}

func (h *WatchLogHandler) GetMyLogs(c *gin.Context) {
	h.listLogs(c, middleware.UserID(c), false, model.SelfDisplayName)
}

// GetUserLogs lists another user's posts; owners see everything.
func (h *WatchLogHandler) GetUserLogs(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	if userID == middleware.UserID(c) {
		h.listLogs(c, userID, false, model.SelfDisplayName)
		return
	}
	h.listLogs(c, userID, true, model.UnknownDisplayName)
}

func (h *WatchLogHandler) listLogs(c *gin.Context, userID string, postsOnly bool, fallbackName string) {
	ctx := c.Request.Context()

	logs, err := h.logs.ListByUser(ctx, userID, postsOnly, 0)
	if err != nil {
		slog.Error("error fetching watch logs", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	profiles, err := h.profiles.GetByUserIDs(ctx, []string{userID})
	if err != nil {
		slog.Error("error fetching profile", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, withAuthors(logs, profiles, fallbackName))
}

func (h *WatchLogHandler) DeleteLog(c *gin.Context) {
	userID := middleware.UserID(c)
	id := c.Param("id")

	err := h.logs.DeleteOwned(c.Request.Context(), id, userID)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Log not found"})
		return
	case errors.Is(err, repository.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to delete this log"})
		return
	case err != nil:
		slog.Error("error deleting watch log", "error", err, "log_id", id)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.Status(http.StatusNoContent)
}
