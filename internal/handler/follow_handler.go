package handler

import (
	"log/slog"
	"net/http"

	"watchly/internal/middleware"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	follows FollowStore
}

func NewFollowHandler(follows FollowStore) *FollowHandler {
	return &FollowHandler{follows: follows}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	followerID := middleware.UserID(c)

	followingID, ok := userIDParam(c)
	if !ok {
		return
	}

	if followingID == followerID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot follow yourself"})
		return
	}

	if err := h.follows.Follow(c.Request.Context(), followerID, followingID); err != nil {
		slog.Error("error following user", "error", err, "follower_id", followerID, "following_id", followingID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	followerID := middleware.UserID(c)

	followingID, ok := userIDParam(c)
	if !ok {
		return
	}

	if err := h.follows.Unfollow(c.Request.Context(), followerID, followingID); err != nil {
		slog.Error("error unfollowing user", "error", err, "follower_id", followerID, "following_id", followingID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.Status(http.StatusNoContent)
}
