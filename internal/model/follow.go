package model

import "time"

// Follow is a directed edge: FollowerID subscribes to FollowingID's posts.
type Follow struct {
	ID          string
	FollowerID  string
	FollowingID string
	CreatedAt   time.Time
}
