package models

import (
	"strings"
	"time"

	"newsloom/internal/hashid"
)

// UserPreference represents a row in the 'user_preferences' table. One row
// per user. The three preference fields are nullable comma-joined lists,
// matched as opaque strings against article columns at query time.
type UserPreference struct {
	ID                  int64     `db:"id" json:"-"`
	UserID              int64     `db:"user_id" json:"-"`
	PreferredSources    *string   `db:"preferred_sources" json:"preferred_sources"`
	PreferredCategories *string   `db:"preferred_categories" json:"preferred_categories"`
	PreferredAuthors    *string   `db:"preferred_authors" json:"preferred_authors"`
	CreatedAt           time.Time `db:"created_at" json:"-"`
	UpdatedAt           time.Time `db:"updated_at" json:"-"`

	XID     string `db:"-" json:"x_id"`
	XUserID string `db:"-" json:"x_user_id"`
}

// TokenProjections declares which derived fields mirror which integer ids.
func (p *UserPreference) TokenProjections() []hashid.Projection {
	return []hashid.Projection{
		{Target: &p.XID, ID: p.ID},
		{Target: &p.XUserID, ID: p.UserID},
	}
}

// SplitList splits a nullable comma-joined preference value into its items.
// Empty items are dropped; a nil or blank value yields no items.
func SplitList(v *string) []string {
	if v == nil {
		return nil
	}
	var items []string
	for _, part := range strings.Split(*v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}
