package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/steamfetch/steam-topsellers/pkg/appid"
	"github.com/steamfetch/steam-topsellers/pkg/client"
)

// itemsPerPage is the storefront's fixed search page size, used only for
// the start banner's item estimate.
const itemsPerPage = 25

// Config holds pipeline configuration.
type Config struct {
	// Pages is the number of search result pages to fetch.
	// Phase 1 runs one worker per page.
	Pages int

	// DetailWorkers is the fixed size of the phase-2 worker pool,
	// independent of how many listings phase 1 produced.
	DetailWorkers int
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() Config {
	return Config{
		Pages:         2,
		DetailWorkers: 10,
	}
}

// Fetcher is the storefront surface the pipeline drives.
// *client.Client implements it.
type Fetcher interface {
	SearchResults(ctx context.Context, page int) ([]client.Listing, error)
	AppDetails(ctx context.Context, id int) (json.RawMessage, error)
}

// Pipeline runs the two-phase fetch and aggregation.
type Pipeline struct {
	fetcher Fetcher
	config  Config
	logger  zerolog.Logger
}

// New creates a new pipeline. Non-positive config values fall back to the
// defaults.
func New(fetcher Fetcher, config Config) *Pipeline {
	if config.Pages <= 0 {
		config.Pages = 2
	}
	if config.DetailWorkers <= 0 {
		config.DetailWorkers = 10
	}

	return &Pipeline{
		fetcher: fetcher,
		config:  config,
		logger:  log.With().Str("component", "pipeline").Logger(),
	}
}

// pageResult is one phase-1 page fetch outcome.
type pageResult struct {
	page  int
	items []client.Listing
	err   error
}

// detailJob is one phase-2 task: a listing whose appid extracted cleanly.
type detailJob struct {
	name  string
	appid int
}

// detailResult is one phase-2 fetch outcome.
type detailResult struct {
	name string
	data json.RawMessage
	err  error
}

// Run executes both phases and returns the collected detail records in
// completion order. A phase-1 failure aborts the run with an error and no
// results; phase-2 failures only omit the affected listings.
func (p *Pipeline) Run(ctx context.Context) ([]json.RawMessage, error) {
	start := time.Now()

	p.logger.Info().
		Int("pages", p.config.Pages).
		Int("games", itemsPerPage*p.config.Pages).
		Msg("Retrieving top sellers from the store")

	listings, err := p.fetchListings(ctx)
	if err != nil {
		return nil, err
	}

	p.logger.Info().
		Int("listings", len(listings)).
		Msg("Search pages merged")

	details := p.fetchDetails(ctx, listings)

	p.logger.Info().
		Int("details", len(details)).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return details, nil
}

// fetchListings runs phase 1: one worker per page, merged in completion
// order. It always drains the pool; if any page failed it returns a single
// aggregated error and no partial listing set.
func (p *Pipeline) fetchListings(ctx context.Context) ([]client.Listing, error) {
	results := make(chan pageResult, p.config.Pages)

	var wg sync.WaitGroup
	for page := 1; page <= p.config.Pages; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			items, err := p.fetcher.SearchResults(ctx, page)
			results <- pageResult{page: page, items: items, err: err}
		}(page)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var merged []client.Listing
	var pageErrs []error

	for result := range results {
		if result.err != nil {
			p.logger.Error().
				Err(result.err).
				Int("page", result.page).
				Msg("Search page fetch failed")
			pageErrs = append(pageErrs, fmt.Errorf("page %d: %w", result.page, result.err))
			continue
		}
		merged = append(merged, result.items...)
	}

	if len(pageErrs) > 0 {
		return nil, fmt.Errorf("fetch listings: %w", errors.Join(pageErrs...))
	}

	return merged, nil
}

// fetchDetails runs phase 2: extraction in listing order, then a fixed
// worker pool for the detail fetches. Results are drained here, on the
// orchestrating goroutine, so no container is shared with the workers.
func (p *Pipeline) fetchDetails(ctx context.Context, listings []client.Listing) []json.RawMessage {
	jobs := make(chan detailJob, len(listings))
	results := make(chan detailResult, len(listings))

	submitted := 0
	skipped := 0
	for _, listing := range listings {
		name := listing.Name
		if name == "" {
			name = "Unknown Game"
		}

		id, err := appid.Extract(listing.Logo)
		if err != nil {
			p.logger.Warn().
				Err(err).
				Str("game", name).
				Msg("Skipping listing")
			skipped++
			continue
		}

		jobs <- detailJob{name: name, appid: id}
		submitted++
	}
	close(jobs)

	var wg sync.WaitGroup
	for i := 0; i < p.config.DetailWorkers; i++ {
		wg.Add(1)
		go p.detailWorker(ctx, jobs, results, &wg)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	details := make([]json.RawMessage, 0, submitted)
	failed := 0

	for result := range results {
		if result.err != nil {
			p.logger.Error().
				Err(result.err).
				Str("game", result.name).
				Msg("Failed to fetch details")
			failed++
			continue
		}

		details = append(details, result.data)
		p.logger.Info().
			Str("game", result.name).
			Msg("Fetched details")
	}

	p.logger.Info().
		Int("fetched", len(details)).
		Int("failed", failed).
		Int("skipped", skipped).
		Msg("Detail phase complete")

	return details
}

// detailWorker processes detail jobs from the queue.
func (p *Pipeline) detailWorker(ctx context.Context, jobs <-chan detailJob, results chan<- detailResult, wg *sync.WaitGroup) {
	defer wg.Done()

	for job := range jobs {
		data, err := p.fetcher.AppDetails(ctx, job.appid)
		results <- detailResult{name: job.name, data: data, err: err}
	}
}
