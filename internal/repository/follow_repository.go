package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type FollowRepository struct {
	db *sql.DB
}

func NewFollowRepository(db *sql.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Follow inserts the edge if absent; following twice is not an error.
func (r *FollowRepository) Follow(ctx context.Context, followerID, followingID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO follows(id, follower_id, following_id, created_at)
		VALUES($1, $2, $3, $4)
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`, uuid.NewString(), followerID, followingID, formatTime(time.Now()))
	return err
}

func (r *FollowRepository) Unfollow(ctx context.Context, followerID, followingID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM follows WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID)
	return err
}

func (r *FollowRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM follows WHERE follower_id = $1 AND following_id = $2
	`, followerID, followingID).Scan(&n)
	return n > 0, err
}

// FollowingIDs lists who userID follows, newest edge first.
func (r *FollowRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return r.ids(ctx, `
		SELECT following_id FROM follows WHERE follower_id = $1 ORDER BY created_at DESC
	`, userID)
}

// FollowerIDs lists who follows userID, newest edge first.
func (r *FollowRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return r.ids(ctx, `
		SELECT follower_id FROM follows WHERE following_id = $1 ORDER BY created_at DESC
	`, userID)
}

func (r *FollowRepository) Counts(ctx context.Context, userID string) (followers, following int, err error) {
	err = r.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM follows WHERE following_id = $1),
			(SELECT COUNT(*) FROM follows WHERE follower_id = $1)
	`, userID).Scan(&followers, &following)
	return followers, following, err
}

func (r *FollowRepository) ids(ctx context.Context, query string, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return ids, nil
}
