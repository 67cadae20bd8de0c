package model

import "time"

const RecentLogsLimit = 5

type WatchLog struct {
	ID        string
	UserID    string
	Title     string
	Caption   *string
	Emoji     *string
	ImageURL  *string
	IsPost    bool
	CreatedAt time.Time
}

type FeedEntry struct {
	WatchLog
	Author Profile
}
