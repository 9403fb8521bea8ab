package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"newsloom/internal/cache"
	"newsloom/internal/store"
)

const defaultProviderTimeout = 15 * time.Second

// Outcome reports one provider's result within a run: how many articles it
// stored, or why it failed.
type Outcome struct {
	Provider string `json:"provider"`
	Stored   int    `json:"stored"`
	Error    string `json:"error,omitempty"`
}

// Report is the result of one ingestion run.
type Report struct {
	Outcomes []Outcome `json:"outcomes"`
}

// TotalStored returns the number of articles stored across all providers.
func (r Report) TotalStored() int {
	total := 0
	for _, o := range r.Outcomes {
		total += o.Stored
	}
	return total
}

// Orchestrator runs every source against its provider, upserts the
// normalized records, and invalidates the article cache group once per run.
type Orchestrator struct {
	sources  []Source
	client   *http.Client
	articles *store.Articles
	cache    *cache.Cache
	timeout  time.Duration
}

// NewOrchestrator creates an orchestrator over the given sources. The cache
// handle is injected; a timeout of zero falls back to the default.
func NewOrchestrator(sources []Source, articles *store.Articles, c *cache.Cache, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = defaultProviderTimeout
	}
	return &Orchestrator{
		sources:  sources,
		client:   &http.Client{},
		articles: articles,
		cache:    c,
		timeout:  timeout,
	}
}

// Run executes one ingestion cycle. Providers are fetched concurrently and
// independently: one provider's failure never aborts the others, and
// already-committed upserts are never rolled back. The article cache group
// is flushed exactly once, after every provider has finished.
func (o *Orchestrator) Run(ctx context.Context, queryOverride string) Report {
	start := time.Now()
	outcomes := make([]Outcome, len(o.sources))

	var wg sync.WaitGroup
	for i, src := range o.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			outcomes[i] = o.fetchProvider(ctx, src, queryOverride, start)
		}(i, src)
	}
	wg.Wait()

	report := Report{Outcomes: outcomes}

	if report.TotalStored() > 0 {
		if err := o.cache.FlushTag(ctx, cache.TagArticleList); err != nil {
			log.Error().Err(err).Msg("Failed to flush article cache group after ingestion")
		} else {
			log.Debug().Msg("Flushed article cache group")
		}
	}

	log.Info().
		Int("stored", report.TotalStored()).
		Dur("duration", time.Since(start)).
		Msg("Ingestion cycle finished")
	return report
}

// fetchProvider runs one source end to end: term selection, HTTP fetch,
// normalization, upserts. Each call gets its own timeout so one slow
// provider cannot stall the cycle.
func (o *Orchestrator) fetchProvider(ctx context.Context, src Source, queryOverride string, start time.Time) Outcome {
	outcome := Outcome{Provider: src.Name()}
	query := SelectQuery(queryOverride)

	fetchCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	log.Info().
		Str("provider", src.Name()).
		Str("query", query).
		Msg("Fetching provider")

	req, err := src.NewRequest(fetchCtx, query)
	if err != nil {
		outcome.Error = err.Error()
		return outcome
	}

	resp, err := o.client.Do(req)
	if err != nil {
		outcome.Error = fmt.Sprintf("request failed: %v", err)
		log.Error().Err(err).Str("provider", src.Name()).Msg("Provider request failed")
		return outcome
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome.Error = fmt.Sprintf("failed to read response: %v", err)
		log.Error().Err(err).Str("provider", src.Name()).Msg("Failed to read provider response")
		return outcome
	}

	if resp.StatusCode != http.StatusOK {
		outcome.Error = fmt.Sprintf("unexpected status %d", resp.StatusCode)
		log.Error().
			Str("provider", src.Name()).
			Int("status", resp.StatusCode).
			Msg("Provider returned non-success status")
		return outcome
	}

	articles, err := src.Parse(body, start)
	if err != nil {
		outcome.Error = err.Error()
		log.Error().Err(err).Str("provider", src.Name()).Msg("Failed to parse provider response")
		return outcome
	}

	for i := range articles {
		if _, err := o.articles.Upsert(ctx, &articles[i]); err != nil {
			log.Error().
				Err(err).
				Str("provider", src.Name()).
				Str("url", articles[i].ArticleURL).
				Msg("Failed to upsert article")
			continue
		}
		outcome.Stored++
	}

	log.Info().
		Str("provider", src.Name()).
		Int("fetched", len(articles)).
		Int("stored", outcome.Stored).
		Msg("Provider processed")
	return outcome
}
