package model

import "time"

const (
	UnknownDisplayName = "Unknown User"
	SelfDisplayName    = "You"
)

type Profile struct {
	UserID         string
	Email          string
	DisplayName    string
	AvatarURL      string
	Bio            string
	FavoriteGenres []string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Name is what a feed shows for the author.
func (p Profile) Name() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Email
}

type ProfileStats struct {
	FollowersCount int
	FollowingCount int
	RecentLogs     []WatchLog
}
