package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"watchly/internal/middleware"
	"watchly/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const profileSearchLimit = 10

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (*model.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string]model.Profile, error)
	Upsert(ctx context.Context, p *model.Profile) error
	Search(ctx context.Context, term, excludeUserID string, limit int) ([]model.Profile, error)
}

type FollowStore interface {
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	Counts(ctx context.Context, userID string) (followers, following int, err error)
}

type ProfileHandler struct {
	profiles ProfileStore
	follows  FollowStore
	logs     WatchLogStore
}

func NewProfileHandler(profiles ProfileStore, follows FollowStore, logs WatchLogStore) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, follows: follows, logs: logs}
}

type updateProfileRequest struct {
	DisplayName    string   `json:"display_name" binding:"max=50"`
	AvatarURL      string   `json:"avatar_url" binding:"omitempty,url"`
	Bio            string   `json:"bio" binding:"max=500"`
	FavoriteGenres []string `json:"favorite_genres" binding:"max=20,dive,max=40"`
}

func (h *ProfileHandler) GetMe(c *gin.Context) {
	userID := middleware.UserID(c)

	profile, err := h.profiles.GetByUserID(c.Request.Context(), userID)
	if err != nil {
		slog.Error("error fetching profile", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(*profile))
}

func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserID(c)

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindErrorMessage(err)})
		return
	}

	profile, err := h.profiles.GetByUserID(ctx, userID)
	if err != nil {
		slog.Error("error fetching profile", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if profile == nil {
		profile = &model.Profile{UserID: userID}
	}
	if email := middleware.UserEmail(c); email != "" {
		profile.Email = email
	}
	profile.DisplayName = strings.TrimSpace(req.DisplayName)
	profile.AvatarURL = strings.TrimSpace(req.AvatarURL)
	profile.Bio = strings.TrimSpace(req.Bio)
	profile.FavoriteGenres = normalizeGenres(req.FavoriteGenres)

	if err := h.profiles.Upsert(ctx, profile); err != nil {
		slog.Error("error saving profile", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, toProfileResponse(*profile))
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID := middleware.UserID(c)

	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	profile, err := h.profiles.GetByUserID(ctx, userID)
	if err != nil {
		slog.Error("error fetching profile", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}

	res := toProfileResponse(*profile)
	if userID != viewerID {
		following, err := h.follows.IsFollowing(ctx, viewerID, userID)
		if err != nil {
			slog.Error("error checking follow", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		res.IsFollowing = &following
	}

	c.JSON(http.StatusOK, res)
}

func (h *ProfileHandler) SearchProfiles(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID := middleware.UserID(c)

	term := strings.TrimSpace(c.Query("q"))
	if term == "" {
		c.JSON(http.StatusOK, []ProfileResponse{})
		return
	}

	profiles, err := h.profiles.Search(ctx, term, viewerID, profileSearchLimit)
	if err != nil {
		slog.Error("error searching profiles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res, err := h.withFollowState(ctx, viewerID, profiles)
	if err != nil {
		slog.Error("error fetching follows", "error", err, "user_id", viewerID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *ProfileHandler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()
	viewerID := middleware.UserID(c)

	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	followers, following, err := h.follows.Counts(ctx, userID)
	if err != nil {
		slog.Error("error counting follows", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	logs, err := h.logs.ListByUser(ctx, userID, userID != viewerID, model.RecentLogsLimit)
	if err != nil {
		slog.Error("error fetching recent logs", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	recent := make([]WatchLogResponse, 0, len(logs))
	for _, l := range logs {
		recent = append(recent, toWatchLogResponse(l))
	}

	c.JSON(http.StatusOK, ProfileStatsResponse{
		FollowersCount: followers,
		FollowingCount: following,
		RecentLogs:     recent,
	})
}

func (h *ProfileHandler) GetFollowers(c *gin.Context) {
	h.listConnections(c, h.follows.FollowerIDs)
}

func (h *ProfileHandler) GetFollowing(c *gin.Context) {
	h.listConnections(c, h.follows.FollowingIDs)
}

func (h *ProfileHandler) listConnections(c *gin.Context, list func(context.Context, string) ([]string, error)) {
	ctx := c.Request.Context()
	viewerID := middleware.UserID(c)

	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	ids, err := list(ctx, userID)
	if err != nil {
		slog.Error("error fetching connections", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	profileMap, err := h.profiles.GetByUserIDs(ctx, ids)
	if err != nil {
		slog.Error("error fetching profiles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	profiles := make([]model.Profile, 0, len(ids))
	for _, id := range ids {
		p, ok := profileMap[id]
		if !ok {
			p = model.Profile{UserID: id, DisplayName: model.UnknownDisplayName}
		}
		profiles = append(profiles, p)
	}

	res, err := h.withFollowState(ctx, viewerID, profiles)
	if err != nil {
		slog.Error("error fetching follows", "error", err, "user_id", viewerID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, res)
}

// withFollowState marks which profiles the viewer follows. The viewer's own
// entry carries no flag.
func (h *ProfileHandler) withFollowState(ctx context.Context, viewerID string, profiles []model.Profile) ([]ProfileResponse, error) {
	followingIDs, err := h.follows.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	following := make(map[string]bool, len(followingIDs))
	for _, id := range followingIDs {
		following[id] = true
	}

	res := make([]ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		item := toProfileResponse(p)
		if p.UserID != viewerID {
			isFollowing := following[p.UserID]
			item.IsFollowing = &isFollowing
		}
		res = append(res, item)
	}
	return res, nil
}

// normalizeGenres trims, drops blanks and removes case-insensitive repeats.
func normalizeGenres(genres []string) []string {
	seen := make(map[string]bool, len(genres))
	out := make([]string, 0, len(genres))
	for _, g := range genres {
		g = strings.TrimSpace(g)
		key := strings.ToLower(g)
		if g == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, g)
	}
	return out
}

func userIDParam(c *gin.Context) (string, bool) {
	id := c.Param("userId")
	parsed, err := uuid.Parse(id)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return "", false
	}
	return parsed.String(), true
}
