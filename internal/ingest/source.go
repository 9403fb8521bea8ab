// Package ingest fetches articles from the upstream news providers and
// normalizes them into canonical article records.
package ingest

import (
	"context"
	"net/http"
	"time"

	"newsloom/internal/models"
)

// Placeholder values for fields a provider omits entirely.
const (
	noTitle   = "No Title"
	noContent = "No Content"
	noSummary = "No Summary"

	defaultCategory = "general"
	defaultSource   = "Unknown"
)

// Source normalizes one provider's payload into canonical article records.
// All provider-specific shape differences are absorbed behind this
// interface; callers never branch on provider identity.
type Source interface {
	Name() string
	NewRequest(ctx context.Context, query string) (*http.Request, error)
	Parse(body []byte, now time.Time) ([]models.Article, error)
}

// dateOnly truncates a timestamp to its calendar date in UTC.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// providerTimeFormats covers the timestamp shapes the three providers emit.
var providerTimeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate parses a provider timestamp down to a calendar date. A missing
// or unparsable timestamp yields the ingestion run's start date instead.
func parseDate(raw string, fallback time.Time) time.Time {
	if raw != "" {
		for _, format := range providerTimeFormats {
			if t, err := time.Parse(format, raw); err == nil {
				return dateOnly(t)
			}
		}
	}
	return dateOnly(fallback)
}

// orDefault returns the first non-empty value, falling back to def.
func orDefault(def string, values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return def
}

// nullable maps an empty string to a NULL-able nil pointer.
func nullable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
