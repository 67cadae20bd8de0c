package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"watchly/internal/model"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `user_id, email, display_name, avatar_url, bio, favorite_genres, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProfile(row rowScanner) (*model.Profile, error) {
	var p model.Profile
	var genresJSON, createdAt, updatedAt string
	err := row.Scan(&p.UserID, &p.Email, &p.DisplayName, &p.AvatarURL, &p.Bio, &genresJSON, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(genresJSON), &p.FavoriteGenres); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByUserID returns nil when the user has no profile row.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID)
	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

func (r *ProfileRepository) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]model.Profile, error) {
	profiles := make(map[string]model.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return profiles, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id IN (`+placeholders(1, len(userIDs))+`)`,
		stringArgs(userIDs)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list, err := collectProfiles(rows)
	if err != nil {
		return nil, err
	}
	for _, p := range list {
		profiles[p.UserID] = p
	}
	return profiles, nil
}

// Upsert inserts the profile or updates everything but created_at.
func (r *ProfileRepository) Upsert(ctx context.Context, p *model.Profile) error {
	if p.FavoriteGenres == nil {
		p.FavoriteGenres = []string{}
	}
	genres, err := json.Marshal(p.FavoriteGenres)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles(user_id, email, display_name, avatar_url, bio, favorite_genres, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			email = excluded.email,
			display_name = excluded.display_name,
			avatar_url = excluded.avatar_url,
			bio = excluded.bio,
			favorite_genres = excluded.favorite_genres,
			updated_at = excluded.updated_at
	`, p.UserID, p.Email, p.DisplayName, p.AvatarURL, p.Bio, string(genres), formatTime(now))
	if err != nil {
		return err
	}

	p.UpdatedAt = now
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	return nil
}

// Search matches display name or email case-insensitively, excluding one user.
func (r *ProfileRepository) Search(ctx context.Context, term, excludeUserID string, limit int) ([]model.Profile, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(term))) + "%"

	rows, err := r.db.QueryContext(ctx, `
		SELECT `+profileColumns+`
		FROM profiles
		WHERE user_id <> $1
		  AND (LOWER(display_name) LIKE $2 ESCAPE '\' OR LOWER(email) LIKE $2 ESCAPE '\')
		ORDER BY display_name ASC, user_id ASC
		LIMIT $3
	`, excludeUserID, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectProfiles(rows)
}

func collectProfiles(rows *sql.Rows) ([]model.Profile, error) {
	profiles := []model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return profiles, nil
}
