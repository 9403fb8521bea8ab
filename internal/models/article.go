package models

import (
	"encoding/json"
	"time"

	"newsloom/internal/hashid"
)

// Article represents a row in the 'articles' table. Exactly one row exists
// per distinct article_url; re-ingestion refreshes the other fields.
type Article struct {
	ID          int64     `db:"id" json:"-"`
	Provider    string    `db:"provider" json:"provider"`
	Category    string    `db:"category" json:"category"`
	Source      string    `db:"source" json:"source"`
	Title       string    `db:"title" json:"title"`
	Content     string    `db:"content" json:"content"`
	Summary     string    `db:"summary" json:"summary"`
	Author      *string   `db:"author" json:"author"`
	ArticleURL  string    `db:"article_url" json:"article_url"`
	ImageURL    *string   `db:"image_url" json:"image_url"`
	PublishedAt time.Time `db:"published_at" json:"-"`
	CreatedAt   time.Time `db:"created_at" json:"-"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`

	// XID is the public token for ID, filled by hashid.Apply before the
	// article leaves the process.
	XID string `db:"-" json:"x_id"`
}

// TokenProjections declares which derived fields mirror which integer ids.
func (a *Article) TokenProjections() []hashid.Projection {
	return []hashid.Projection{
		{Target: &a.XID, ID: a.ID},
	}
}

// MarshalJSON renders published_at as a calendar date; time-of-day is not
// part of the stored value's meaning.
func (a Article) MarshalJSON() ([]byte, error) {
	type alias Article
	return json.Marshal(struct {
		alias
		PublishedAt string `json:"published_at"`
	}{
		alias:       alias(a),
		PublishedAt: a.PublishedAt.Format("2006-01-02"),
	})
}
