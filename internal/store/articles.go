package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"newsloom/internal/database"
	"newsloom/internal/models"
)

// Articles provides access to the articles table.
type Articles struct {
	db *database.DB
}

// NewArticles creates a new article repository.
func NewArticles(db *database.DB) *Articles {
	return &Articles{db: db}
}

// Upsert stores an article keyed by its article_url. An existing row with
// the same URL has every other field overwritten with the incoming values;
// otherwise a new row is inserted. The conflict resolution is atomic inside
// SQLite, so concurrent upserts of the same URL are safe here.
func (s *Articles) Upsert(ctx context.Context, a *models.Article) (*models.Article, error) {
	if a.ArticleURL == "" {
		return nil, fmt.Errorf("article_url must not be empty")
	}

	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO articles (provider, category, source, title, content, summary,
			author, article_url, image_url, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(article_url) DO UPDATE SET
			provider = excluded.provider,
			category = excluded.category,
			source = excluded.source,
			title = excluded.title,
			content = excluded.content,
			summary = excluded.summary,
			author = excluded.author,
			image_url = excluded.image_url,
			published_at = excluded.published_at,
			updated_at = excluded.updated_at`,
		a.Provider, a.Category, a.Source, a.Title, a.Content, a.Summary,
		a.Author, a.ArticleURL, a.ImageURL, a.PublishedAt, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert article %s: %w", a.ArticleURL, err)
	}

	var stored models.Article
	if err := s.db.GetContext(ctx, &stored, "SELECT * FROM articles WHERE article_url = ?", a.ArticleURL); err != nil {
		return nil, fmt.Errorf("failed to reload upserted article %s: %w", a.ArticleURL, err)
	}
	return &stored, nil
}

// GetByID fetches a single article by its internal id.
func (s *Articles) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	var a models.Article
	err := s.db.GetContext(ctx, &a, "SELECT * FROM articles WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch article %d: %w", id, err)
	}
	return &a, nil
}

// List returns one page of articles matching the filter, newest first.
func (s *Articles) List(ctx context.Context, f Filter) (*ArticlePage, error) {
	var conds []string
	var args []any

	if f.Keyword != "" {
		pattern := "%" + f.Keyword + "%"
		conds = append(conds, "(title LIKE ? OR content LIKE ? OR summary LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if f.Date != "" {
		conds = append(conds, "date(published_at) = ?")
		args = append(args, f.Date)
	}
	if f.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, f.Category)
	}
	if f.Source != "" {
		conds = append(conds, "source = ?")
		args = append(args, f.Source)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	return s.paginate(ctx, where, args, f.Page, f.PerPage)
}

// Feed returns one page of articles matching the user's preferences,
// OR-combined across preferred sources, categories and authors, newest
// first. Preference values are matched as opaque strings.
func (s *Articles) Feed(ctx context.Context, prefs *models.UserPreference, page, perPage int) (*ArticlePage, error) {
	var conds []string
	var args []any

	appendIn := func(column string, values []string) error {
		if len(values) == 0 {
			return nil
		}
		query, inArgs, err := sqlx.In(column+" IN (?)", values)
		if err != nil {
			return fmt.Errorf("failed to expand %s filter: %w", column, err)
		}
		conds = append(conds, query)
		args = append(args, inArgs...)
		return nil
	}

	if err := appendIn("source", models.SplitList(prefs.PreferredSources)); err != nil {
		return nil, err
	}
	if err := appendIn("category", models.SplitList(prefs.PreferredCategories)); err != nil {
		return nil, err
	}
	if err := appendIn("author", models.SplitList(prefs.PreferredAuthors)); err != nil {
		return nil, err
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE (" + strings.Join(conds, " OR ") + ")"
	}

	return s.paginate(ctx, where, args, page, perPage)
}

func (s *Articles) paginate(ctx context.Context, where string, args []any, page, perPage int) (*ArticlePage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	var total int
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM articles"+where, args...); err != nil {
		return nil, fmt.Errorf("failed to count articles: %w", err)
	}

	var articles []models.Article
	query := "SELECT * FROM articles" + where + " ORDER BY published_at DESC, id DESC LIMIT ? OFFSET ?"
	pageArgs := append(append([]any{}, args...), perPage, (page-1)*perPage)
	if err := s.db.SelectContext(ctx, &articles, query, pageArgs...); err != nil {
		return nil, fmt.Errorf("failed to select articles: %w", err)
	}

	return newArticlePage(articles, page, perPage, total), nil
}
