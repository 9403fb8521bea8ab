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

const defaultGuardianURL = "https://content.guardianapis.com/search"

// Guardian adapts the Guardian content search endpoint.
type Guardian struct {
	APIKey  string
	BaseURL string
}

// NewGuardian creates the adapter for the Guardian content API.
func NewGuardian(apiKey string) *Guardian {
	return &Guardian{APIKey: apiKey, BaseURL: defaultGuardianURL}
}

// Name returns the provider name recorded on ingested articles.
func (s *Guardian) Name() string { return "The Guardian" }

// NewRequest builds the search request for the given query.
func (s *Guardian) NewRequest(ctx context.Context, query string) (*http.Request, error) {
	params := url.Values{}
	params.Set("api-key", s.APIKey)
	params.Set("q", query)
	params.Set("show-fields", "body,trailText,byline,thumbnail")
	params.Set("page-size", "20")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build Guardian request: %w", err)
	}
	return req, nil
}

type guardianResponse struct {
	Response struct {
		Results []struct {
			SectionName        string `json:"sectionName"`
			WebTitle           string `json:"webTitle"`
			WebURL             string `json:"webUrl"`
			WebPublicationDate string `json:"webPublicationDate"`
			Fields             struct {
				Body      string `json:"body"`
				TrailText string `json:"trailText"`
				Byline    string `json:"byline"`
				Thumbnail string `json:"thumbnail"`
			} `json:"fields"`
		} `json:"results"`
	} `json:"response"`
}

// Parse normalizes a Guardian payload. The Guardian is both provider and
// publisher, so the source is fixed.
func (s *Guardian) Parse(body []byte, now time.Time) ([]models.Article, error) {
	var payload guardianResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode Guardian response: %w", err)
	}

	articles := make([]models.Article, 0, len(payload.Response.Results))
	for _, item := range payload.Response.Results {
		if item.WebURL == "" {
			continue
		}
		articles = append(articles, models.Article{
			Provider:    s.Name(),
			Category:    orDefault(defaultCategory, item.SectionName),
			Source:      "The Guardian",
			Title:       orDefault(noTitle, item.WebTitle),
			Content:     orDefault(noContent, item.Fields.Body),
			Summary:     orDefault(noSummary, item.Fields.TrailText),
			Author:      nullable(item.Fields.Byline),
			ArticleURL:  item.WebURL,
			ImageURL:    nullable(item.Fields.Thumbnail),
			PublishedAt: parseDate(item.WebPublicationDate, now),
		})
	}
	return articles, nil
}
