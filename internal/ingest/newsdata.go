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

const defaultNewsDataURL = "https://newsdata.io/api/1/latest"

// NewsData adapts the newsdata.io 'latest' endpoint.
type NewsData struct {
	APIKey  string
	BaseURL string
}

// NewNewsData creates the adapter for newsdata.io.
func NewNewsData(apiKey string) *NewsData {
	return &NewsData{APIKey: apiKey, BaseURL: defaultNewsDataURL}
}

// Name returns the provider name recorded on ingested articles.
func (s *NewsData) Name() string { return "NewsData.Io" }

// NewRequest builds the search request for the given query.
func (s *NewsData) NewRequest(ctx context.Context, query string) (*http.Request, error) {
	params := url.Values{}
	params.Set("apikey", s.APIKey)
	params.Set("q", query)
	params.Set("language", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build NewsData request: %w", err)
	}
	return req, nil
}

type newsDataResponse struct {
	Results []struct {
		Category    []string `json:"category"`
		SourceName  string   `json:"source_name"`
		Title       string   `json:"title"`
		Content     string   `json:"content"`
		Description string   `json:"description"`
		Creator     []string `json:"creator"`
		Link        string   `json:"link"`
		ImageURL    string   `json:"image_url"`
		PubDate     string   `json:"pubDate"`
	} `json:"results"`
}

// Parse normalizes a NewsData payload. Category and author arrive as
// arrays; only the first entry of each is kept.
func (s *NewsData) Parse(body []byte, now time.Time) ([]models.Article, error) {
	var payload newsDataResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode NewsData response: %w", err)
	}

	articles := make([]models.Article, 0, len(payload.Results))
	for _, item := range payload.Results {
		if item.Link == "" {
			continue
		}

		category := ""
		if len(item.Category) > 0 {
			category = item.Category[0]
		}
		author := ""
		if len(item.Creator) > 0 {
			author = item.Creator[0]
		}

		articles = append(articles, models.Article{
			Provider:    s.Name(),
			Category:    orDefault(defaultCategory, category),
			Source:      orDefault(defaultSource, item.SourceName),
			Title:       orDefault(noTitle, item.Title),
			Content:     orDefault(noContent, item.Content, item.Description),
			Summary:     orDefault(noSummary, item.Description),
			Author:      nullable(author),
			ArticleURL:  item.Link,
			ImageURL:    nullable(item.ImageURL),
			PublishedAt: parseDate(item.PubDate, now),
		})
	}
	return articles, nil
}
