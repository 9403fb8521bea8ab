package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"newsloom/internal/models"
)

const defaultNewsAPIURL = "https://newsapi.org/v2/everything"

// NewsAPI adapts the newsapi.org 'everything' search endpoint.
type NewsAPI struct {
	APIKey  string
	BaseURL string
}

// NewNewsAPI creates the adapter for newsapi.org.
func NewNewsAPI(apiKey string) *NewsAPI {
	return &NewsAPI{APIKey: apiKey, BaseURL: defaultNewsAPIURL}
}

// Name returns the provider name recorded on ingested articles.
func (s *NewsAPI) Name() string { return "NewsAPI" }

// NewRequest builds the search request for the given query.
func (s *NewsAPI) NewRequest(ctx context.Context, query string) (*http.Request, error) {
	params := url.Values{}
	params.Set("apiKey", s.APIKey)
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("pageSize", "20")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build NewsAPI request: %w", err)
	}
	return req, nil
}

type newsAPIResponse struct {
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
	} `json:"articles"`
}

// Parse normalizes a NewsAPI payload. NewsAPI carries no category of its
// own, so the outlet name doubles as the category.
func (s *NewsAPI) Parse(body []byte, now time.Time) ([]models.Article, error) {
	var payload newsAPIResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode NewsAPI response: %w", err)
	}

	articles := make([]models.Article, 0, len(payload.Articles))
	for _, item := range payload.Articles {
		if item.URL == "" {
			continue
		}
		articles = append(articles, models.Article{
			Provider:    s.Name(),
			Category:    orDefault(defaultCategory, item.Source.Name),
			Source:      orDefault(defaultSource, item.Source.Name),
			Title:       orDefault(noTitle, item.Title),
			Content:     orDefault(noContent, item.Content, item.Description),
			Summary:     orDefault(noSummary, item.Description),
			Author:      nullable(item.Author),
			ArticleURL:  item.URL,
			ImageURL:    nullable(item.URLToImage),
			PublishedAt: parseDate(item.PublishedAt, now),
		})
	}
	return articles, nil
}
