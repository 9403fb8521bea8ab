// Package api implements the HTTP handlers for the article API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"newsloom/internal/cache"
	"newsloom/internal/hashid"
	"newsloom/internal/ingest"
	"newsloom/internal/server/pagination"
	"newsloom/internal/store"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100

	// userHeader carries the caller's public user token. Credential and
	// session handling live outside this service; the token is the only
	// identity input the core accepts.
	userHeader = "X-User-ID"
)

// Handler holds dependencies for the API handlers. The cache is an
// explicitly injected handle, shared with the ingestion orchestrator.
type Handler struct {
	articles     *store.Articles
	prefs        *store.Preferences
	cache        *cache.Cache
	codec        *hashid.Codec
	orchestrator *ingest.Orchestrator
}

// NewHandler creates a new handler instance.
func NewHandler(articles *store.Articles, prefs *store.Preferences, c *cache.Cache, codec *hashid.Codec, orchestrator *ingest.Orchestrator) *Handler {
	return &Handler{
		articles:     articles,
		prefs:        prefs,
		cache:        c,
		codec:        codec,
		orchestrator: orchestrator,
	}
}

// userID resolves the caller's internal user id from the public token
// header. False means missing or malformed.
func (h *Handler) userID(r *http.Request) (int64, bool) {
	return h.codec.Decode(r.Header.Get(userHeader))
}

// ListArticles handles GET /v1/articles: a filtered, paginated listing.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	params, err := pagination.Parse(query, defaultPerPage, maxPerPage)
	if err != nil {
		writeError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	filter := store.Filter{
		Keyword:  query.Get("keyword"),
		Date:     query.Get("date"),
		Category: query.Get("category"),
		Source:   query.Get("source"),
		Page:     params.Page,
		PerPage:  params.PerPage,
	}

	page, err := h.articles.List(r.Context(), filter)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to list articles")
		writeError(w, r, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := h.presentArticles(page); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to encode article tokens")
		writeError(w, r, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeSuccess(w, r, page, "Articles retrieved successfully")
}

// ShowArticle handles GET /v1/article: a single article looked up by its
// public token, cached for 30 minutes under the article group tag.
func (h *Handler) ShowArticle(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("id")
	if token == "" {
		writeError(w, r, "Article id is required.", http.StatusBadRequest)
		return
	}

	id, ok := h.codec.Decode(token)
	if !ok {
		writeError(w, r, "Invalid or malformed article id.", http.StatusNotFound)
		return
	}

	data, err := h.cache.GetOrCompute(r.Context(), cache.ArticleKey(token), cache.ArticleTTL,
		[]string{cache.TagArticleList},
		func(ctx context.Context) ([]byte, error) {
			article, err := h.articles.GetByID(ctx, id)
			if err != nil {
				return nil, err
			}
			if err := hashid.Apply(h.codec, article); err != nil {
				return nil, err
			}
			return json.Marshal(article)
		})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, r, "Invalid or malformed article id.", http.StatusNotFound)
			return
		}
		hlog.FromRequest(r).Error().Err(err).Str("token", token).Msg("Failed to fetch article")
		writeError(w, r, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeSuccess(w, r, json.RawMessage(data), "Article details retrieved successfully")
}

// preferencesRequest is the body of PUT /v1/preferences.
type preferencesRequest struct {
	PreferredSources    *string `json:"preferred_sources"`
	PreferredCategories *string `json:"preferred_categories"`
	PreferredAuthors    *string `json:"preferred_authors"`
}

// StorePreferences handles PUT /v1/preferences: creates or updates the
// caller's preferences and forgets the caller's cached preference and feed
// entries. The invalidation is user-scoped, narrower than the article
// group flush.
func (h *Handler) StorePreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(r)
	if !ok {
		writeError(w, r, "User not authenticated", http.StatusUnauthorized)
		return
	}

	var body preferencesRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, "Invalid request body", http.StatusBadRequest)
		return
	}

	params, err := pagination.Parse(r.URL.Query(), defaultPerPage, maxPerPage)
	if err != nil {
		writeError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	prefs, err := h.prefs.Upsert(r.Context(), userID, body.PreferredSources, body.PreferredCategories, body.PreferredAuthors)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Int64("user_id", userID).Msg("Failed to store preferences")
		writeError(w, r, "Internal server error", http.StatusInternalServerError)
		return
	}

	keys := []string{
		cache.PreferenceKey(userID),
		cache.FeedKey(userID, params.Page, params.PerPage),
	}
	if err := h.cache.Forget(r.Context(), keys...); err != nil {
		hlog.FromRequest(r).Warn().Err(err).Int64("user_id", userID).Msg("Failed to forget preference cache entries")
	}

	if err := hashid.Apply(h.codec, prefs); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Failed to encode preference tokens")
		writeError(w, r, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeSuccess(w, r, prefs, "Preferences updated successfully")
}

// ShowPreferences handles GET /v1/preferences, cached for 15 minutes. An
// unset preference row is cached and served as null data, not an error.
func (h *Handler) ShowPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(r)
	if !ok {
		writeError(w, r, "User not authenticated", http.StatusUnauthorized)
		return
	}

	data, err := h.cache.GetOrCompute(r.Context(), cache.PreferenceKey(userID), cache.PreferenceTTL, nil,
		func(ctx context.Context) ([]byte, error) {
			prefs, err := h.prefs.GetByUserID(ctx, userID)
			if err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return json.Marshal(nil)
				}
				return nil, err
			}
			if err := hashid.Apply(h.codec, prefs); err != nil {
				return nil, err
			}
			return json.Marshal(prefs)
		})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Int64("user_id", userID).Msg("Failed to fetch preferences")
		writeError(w, r, "Internal server error", http.StatusInternalServerError)
		return
	}

	if string(data) == "null" {
		writeSuccess(w, r, nil, "No preferences set yet")
		return
	}
	writeSuccess(w, r, json.RawMessage(data), "Preferences retrieved successfully")
}

// Feed handles GET /v1/feed: the caller's preference-driven article feed,
// cached for 15 minutes under the article group tag. A caller without
// stored preferences gets a distinct precondition failure, not an empty
// result.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(r)
	if !ok {
		writeError(w, r, "User not authenticated", http.StatusUnauthorized)
		return
	}

	params, err := pagination.Parse(r.URL.Query(), defaultPerPage, maxPerPage)
	if err != nil {
		writeError(w, r, err.Error(), http.StatusBadRequest)
		return
	}

	prefs, err := h.prefs.GetByUserID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, r, "No preferences set. Please set preferences first.", http.StatusBadRequest)
			return
		}
		hlog.FromRequest(r).Error().Err(err).Int64("user_id", userID).Msg("Failed to fetch preferences for feed")
		writeError(w, r, "Internal server error", http.StatusInternalServerError)
		return
	}

	data, err := h.cache.GetOrCompute(r.Context(), cache.FeedKey(userID, params.Page, params.PerPage), cache.FeedTTL,
		[]string{cache.TagArticleList},
		func(ctx context.Context) ([]byte, error) {
			page, err := h.articles.Feed(ctx, prefs, params.Page, params.PerPage)
			if err != nil {
				return nil, err
			}
			if err := h.presentArticles(page); err != nil {
				return nil, err
			}
			return json.Marshal(page)
		})
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Int64("user_id", userID).Msg("Failed to compute feed")
		writeError(w, r, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeSuccess(w, r, json.RawMessage(data), "Personalized feed retrieved successfully")
}

// Ingest handles POST /v1/ingest: runs one ingestion cycle on demand,
// optionally with an explicit search term applied to every provider.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	report := h.orchestrator.Run(r.Context(), r.URL.Query().Get("q"))
	writeSuccess(w, r, report, "Ingestion cycle completed")
}

// presentArticles fills the public tokens on every article in a page.
func (h *Handler) presentArticles(page *store.ArticlePage) error {
	entities := make([]hashid.Tokenizable, len(page.Data))
	for i := range page.Data {
		entities[i] = &page.Data[i]
	}
	return hashid.Apply(h.codec, entities...)
}
