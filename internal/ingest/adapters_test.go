package ingest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var runStart = time.Date(2025, 2, 24, 13, 45, 0, 0, time.UTC)

func TestNewsAPIParse(t *testing.T) {
	body := []byte(`{
		"status": "ok",
		"articles": [
			{
				"source": {"id": "techcrunch", "name": "TechCrunch"},
				"author": "Jane Doe",
				"title": "AI breakthrough",
				"description": "A short description",
				"url": "https://example.com/ai",
				"urlToImage": "https://example.com/ai.jpg",
				"publishedAt": "2025-02-22T18:30:00Z",
				"content": "Full content here"
			},
			{
				"source": {"id": null, "name": ""},
				"author": null,
				"title": "",
				"description": "",
				"url": "https://example.com/bare",
				"urlToImage": null,
				"publishedAt": "",
				"content": ""
			},
			{
				"source": {"id": null, "name": "NoURL Times"},
				"title": "Dropped",
				"url": ""
			}
		]
	}`)

	articles, err := NewNewsAPI("key").Parse(body, runStart)
	require.NoError(t, err)
	require.Len(t, articles, 2, "items without a URL are skipped")

	full := articles[0]
	assert.Equal(t, "NewsAPI", full.Provider)
	assert.Equal(t, "TechCrunch", full.Category)
	assert.Equal(t, "TechCrunch", full.Source)
	assert.Equal(t, "AI breakthrough", full.Title)
	assert.Equal(t, "Full content here", full.Content)
	assert.Equal(t, "A short description", full.Summary)
	require.NotNil(t, full.Author)
	assert.Equal(t, "Jane Doe", *full.Author)
	assert.Equal(t, "https://example.com/ai", full.ArticleURL)
	require.NotNil(t, full.ImageURL)
	assert.Equal(t, "https://example.com/ai.jpg", *full.ImageURL)
	assert.Equal(t, time.Date(2025, 2, 22, 0, 0, 0, 0, time.UTC), full.PublishedAt,
		"provider timestamp is truncated to its calendar date")

	bare := articles[1]
	assert.Equal(t, "general", bare.Category)
	assert.Equal(t, "Unknown", bare.Source)
	assert.Equal(t, "No Title", bare.Title)
	assert.Equal(t, "No Content", bare.Content)
	assert.Equal(t, "No Summary", bare.Summary)
	assert.Nil(t, bare.Author)
	assert.Nil(t, bare.ImageURL)
	assert.Equal(t, time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC), bare.PublishedAt,
		"missing timestamp falls back to the run's start date")
}

func TestNewsAPIContentFallsBackToDescription(t *testing.T) {
	body := []byte(`{"articles": [{
		"source": {"name": "Wired"},
		"title": "T",
		"description": "Only a description",
		"url": "https://example.com/x",
		"content": ""
	}]}`)

	articles, err := NewNewsAPI("key").Parse(body, runStart)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "Only a description", articles[0].Content)
}

func TestNewsDataParse(t *testing.T) {
	body := []byte(`{
		"status": "success",
		"results": [
			{
				"title": "Pet events this week",
				"link": "https://example.com/pets",
				"creator": ["Carlotta Olson", "Second Author"],
				"description": "Pet related information",
				"content": "ONLY AVAILABLE IN PAID PLANS",
				"pubDate": "2025-02-22 09:15:00",
				"image_url": "https://example.com/pets.jpg",
				"source_name": "Gazette",
				"category": ["sports", "lifestyle"]
			},
			{
				"title": "",
				"link": "https://example.com/minimal",
				"creator": null,
				"description": "",
				"content": null,
				"pubDate": null,
				"image_url": null,
				"source_name": null,
				"category": []
			}
		]
	}`)

	articles, err := NewNewsData("key").Parse(body, runStart)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	full := articles[0]
	assert.Equal(t, "NewsData.Io", full.Provider)
	assert.Equal(t, "sports", full.Category, "first category entry wins")
	assert.Equal(t, "Gazette", full.Source)
	require.NotNil(t, full.Author)
	assert.Equal(t, "Carlotta Olson", *full.Author, "first creator entry wins")
	assert.Equal(t, "ONLY AVAILABLE IN PAID PLANS", full.Content)
	assert.Equal(t, time.Date(2025, 2, 22, 0, 0, 0, 0, time.UTC), full.PublishedAt)

	minimal := articles[1]
	assert.Equal(t, "general", minimal.Category)
	assert.Equal(t, "Unknown", minimal.Source)
	assert.Nil(t, minimal.Author)
	assert.Equal(t, "No Content", minimal.Content)
	assert.Equal(t, time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC), minimal.PublishedAt)
}

func TestGuardianParse(t *testing.T) {
	body := []byte(`{
		"response": {
			"status": "ok",
			"results": [
				{
					"sectionName": "Politics",
					"webTitle": "Parliament report",
					"webUrl": "https://example.com/politics",
					"webPublicationDate": "2025-02-21T23:59:00Z",
					"fields": {
						"body": "<p>Long body</p>",
						"trailText": "Trail text here",
						"byline": "Political Editor",
						"thumbnail": "https://example.com/thumb.jpg"
					}
				},
				{
					"sectionName": "",
					"webTitle": "Fieldless item",
					"webUrl": "https://example.com/fieldless",
					"webPublicationDate": "not-a-date"
				}
			]
		}
	}`)

	articles, err := NewGuardian("key").Parse(body, runStart)
	require.NoError(t, err)
	require.Len(t, articles, 2)

	full := articles[0]
	assert.Equal(t, "The Guardian", full.Provider)
	assert.Equal(t, "Politics", full.Category)
	assert.Equal(t, "The Guardian", full.Source)
	assert.Equal(t, "<p>Long body</p>", full.Content)
	assert.Equal(t, "Trail text here", full.Summary)
	require.NotNil(t, full.Author)
	assert.Equal(t, "Political Editor", *full.Author)
	assert.Equal(t, time.Date(2025, 2, 21, 0, 0, 0, 0, time.UTC), full.PublishedAt)

	fieldless := articles[1]
	assert.Equal(t, "general", fieldless.Category)
	assert.Equal(t, "No Content", fieldless.Content)
	assert.Equal(t, "No Summary", fieldless.Summary)
	assert.Nil(t, fieldless.Author)
	assert.Equal(t, time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC), fieldless.PublishedAt,
		"unparsable timestamp falls back to the run's start date")
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	sources := []Source{NewNewsAPI("k"), NewNewsData("k"), NewGuardian("k")}
	for _, src := range sources {
		_, err := src.Parse([]byte("{not json"), runStart)
		assert.Error(t, err, src.Name())
	}
}

func TestAdapterRequests(t *testing.T) {
	ctx := context.Background()

	req, err := NewNewsAPI("na-key").NewRequest(ctx, "sports")
	require.NoError(t, err)
	q := req.URL.Query()
	assert.Equal(t, "na-key", q.Get("apiKey"))
	assert.Equal(t, "sports", q.Get("q"))
	assert.Equal(t, "en", q.Get("language"))
	assert.Equal(t, "20", q.Get("pageSize"))

	req, err = NewNewsData("nd-key").NewRequest(ctx, "health")
	require.NoError(t, err)
	q = req.URL.Query()
	assert.Equal(t, "nd-key", q.Get("apikey"))
	assert.Equal(t, "health", q.Get("q"))
	assert.Equal(t, "en", q.Get("language"))

	req, err = NewGuardian("g-key").NewRequest(ctx, "world")
	require.NoError(t, err)
	q = req.URL.Query()
	assert.Equal(t, "g-key", q.Get("api-key"))
	assert.Equal(t, "world", q.Get("q"))
	assert.Equal(t, "body,trailText,byline,thumbnail", q.Get("show-fields"))
	assert.Equal(t, "20", q.Get("page-size"))
}
