package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"newsloom/internal/database"
	"newsloom/internal/models"
)

// Preferences provides access to the user_preferences table.
type Preferences struct {
	db *database.DB
}

// NewPreferences creates a new preference repository.
func NewPreferences(db *database.DB) *Preferences {
	return &Preferences{db: db}
}

// Upsert stores the user's preferences, creating the row on first write and
// overwriting the three preference fields afterwards.
func (s *Preferences) Upsert(ctx context.Context, userID int64, sources, categories, authors *string) (*models.UserPreference, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("user id must be positive, got %d", userID)
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, preferred_sources, preferred_categories,
			preferred_authors, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			preferred_sources = excluded.preferred_sources,
			preferred_categories = excluded.preferred_categories,
			preferred_authors = excluded.preferred_authors,
			updated_at = excluded.updated_at`,
		userID, sources, categories, authors, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert preferences for user %d: %w", userID, err)
	}

	return s.GetByUserID(ctx, userID)
}

// GetByUserID fetches a user's preferences. ErrNotFound means the user has
// never set any, which callers must treat as a distinct outcome from
// preferences that match nothing.
func (s *Preferences) GetByUserID(ctx context.Context, userID int64) (*models.UserPreference, error) {
	var p models.UserPreference
	err := s.db.GetContext(ctx, &p, "SELECT * FROM user_preferences WHERE user_id = ?", userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch preferences for user %d: %w", userID, err)
	}
	return &p, nil
}
