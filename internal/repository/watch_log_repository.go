package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"sync"
	"time"

	"watchly/internal/model"

	"github.com/oklog/ulid/v2"
)

type WatchLogRepository struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewWatchLogRepository(db *sql.DB) *WatchLogRepository {
	return &WatchLogRepository{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

func (r *WatchLogRepository) newID(t time.Time) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), r.entropy).String()
}

const watchLogColumns = `id, user_id, title, caption, emoji, image_url, is_post, created_at`

func scanWatchLog(row rowScanner) (*model.WatchLog, error) {
	var l model.WatchLog
	var createdAt string
	err := row.Scan(&l.ID, &l.UserID, &l.Title, &l.Caption, &l.Emoji, &l.ImageURL, &l.IsPost, &createdAt)
	if err != nil {
		return nil, err
	}
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &l, nil
}

func collectWatchLogs(rows *sql.Rows) ([]model.WatchLog, error) {
	logs := []model.WatchLog{}
	for rows.Next() {
		l, err := scanWatchLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

// Create assigns ID and CreatedAt before inserting.
func (r *WatchLogRepository) Create(ctx context.Context, l *model.WatchLog) error {
	now := time.Now().UTC()
	l.ID = r.newID(now)
	l.CreatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO watch_logs(`+watchLogColumns+`)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)
	`, l.ID, l.UserID, l.Title, l.Caption, l.Emoji, l.ImageURL, l.IsPost, formatTime(now))
	return err
}

// GetByID returns nil when no row matches.
func (r *WatchLogRepository) GetByID(ctx context.Context, id string) (*model.WatchLog, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+watchLogColumns+` FROM watch_logs WHERE id = $1`, id)
	l, err := scanWatchLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return l, err
}

// DeleteOwned removes a log only when ownerID wrote it.
func (r *WatchLogRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	l, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l == nil {
		return ErrNotFound
	}
	if l.UserID != ownerID {
		return ErrForbidden
	}

	_, err = r.db.ExecContext(ctx, `DELETE FROM watch_logs WHERE id = $1 AND user_id = $2`, id, ownerID)
	return err
}

// ListByUser returns a user's logs newest first. limit <= 0 means all.
func (r *WatchLogRepository) ListByUser(ctx context.Context, userID string, postsOnly bool, limit int) ([]model.WatchLog, error) {
	query := `SELECT ` + watchLogColumns + ` FROM watch_logs WHERE user_id = $1`
	args := []interface{}{userID}
	if postsOnly {
		query += ` AND is_post = $2`
		args = append(args, true)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if limit > 0 {
		args = append(args, limit)
		query += ` LIMIT ` + placeholders(len(args), 1)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectWatchLogs(rows)
}

const feedCondition = `
	user_id = $1
	OR (is_post = $2 AND user_id IN (SELECT following_id FROM follows WHERE follower_id = $1))`

// GetFeed returns the viewer's own logs plus posts from users they follow,
// newest first.
func (r *WatchLogRepository) GetFeed(ctx context.Context, viewerID string, limit, offset int) ([]model.WatchLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+watchLogColumns+`
		FROM watch_logs
		WHERE `+feedCondition+`
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`, viewerID, true, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectWatchLogs(rows)
}

func (r *WatchLogRepository) GetFeedTotal(ctx context.Context, viewerID string) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM watch_logs WHERE `+feedCondition, viewerID, true).Scan(&total)
	return total, err
}
