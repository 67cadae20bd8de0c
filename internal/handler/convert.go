package handler

import (
	"time"

	"watchly/internal/model"
)

func toProfileResponse(p model.Profile) ProfileResponse {
	genres := p.FavoriteGenres
	if genres == nil {
		genres = []string{}
	}
	return ProfileResponse{
		UserID:         p.UserID,
		Email:          p.Email,
		DisplayName:    p.DisplayName,
		AvatarURL:      p.AvatarURL,
		Bio:            p.Bio,
		FavoriteGenres: genres,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
	}
}

func toWatchLogResponse(l model.WatchLog) WatchLogResponse {
	return WatchLogResponse{
		ID:        l.ID,
		UserID:    l.UserID,
		Title:     l.Title,
		Caption:   l.Caption,
		Emoji:     l.Emoji,
		ImageURL:  l.ImageURL,
		IsPost:    l.IsPost,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
	}
}

// withAuthors converts logs and attaches each author's profile. Authors
// without a profile row get fallbackName.
func withAuthors(logs []model.WatchLog, profiles map[string]model.Profile, fallbackName string) []WatchLogResponse {
	res := make([]WatchLogResponse, 0, len(logs))
	for _, l := range logs {
		author := AuthorResponse{UserID: l.UserID, DisplayName: fallbackName}
		if p, ok := profiles[l.UserID]; ok {
			if name := p.Name(); name != "" {
				author.DisplayName = name
			}
			author.AvatarURL = p.AvatarURL
		}

		item := toWatchLogResponse(l)
		item.Profile = &author
		res = append(res, item)
	}
	return res
}

func authorIDs(logs []model.WatchLog) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, l := range logs {
		if !seen[l.UserID] {
			seen[l.UserID] = true
			ids = append(ids, l.UserID)
		}
	}
	return ids
}
