// Package store implements persistence for articles and user preferences.
// The storage engine's conflict-resolution primitives are the correctness
// boundary for concurrent writes; no locking happens in this package.
package store

import (
	"errors"

	"newsloom/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Filter narrows an article listing. Zero values mean "no constraint".
type Filter struct {
	Keyword  string // substring match over title, content, summary
	Date     string // exact publication date, YYYY-MM-DD
	Category string
	Source   string
	Page     int
	PerPage  int
}

// ArticlePage is one page of an article listing.
type ArticlePage struct {
	Data        []models.Article `json:"data"`
	CurrentPage int              `json:"current_page"`
	PerPage     int              `json:"per_page"`
	Total       int              `json:"total"`
	LastPage    int              `json:"last_page"`
}

func newArticlePage(data []models.Article, page, perPage, total int) *ArticlePage {
	if data == nil {
		data = []models.Article{}
	}
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	return &ArticlePage{
		Data:        data,
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		LastPage:    lastPage,
	}
}
