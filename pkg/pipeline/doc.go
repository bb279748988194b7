// Package pipeline orchestrates the two-phase fetch of storefront top sellers.
//
// Phase 1 fetches every configured search results page in parallel, one
// worker per page, and merges the listings in completion order. Any page
// failure is fatal: the phase drains and Run returns an aggregated error,
// producing no output.
//
// Phase 2 derives an appid from each listing's logo URL and fetches the
// per-app details through a fixed-size worker pool. Failures here are
// isolated: a listing whose appid cannot be extracted or whose detail
// fetch fails is reported and skipped, and the run continues.
//
// Example usage:
//
//	p := pipeline.New(storeClient, pipeline.DefaultConfig())
//	details, err := p.Run(ctx)
//
// Workers never touch shared state; each sends a tagged result over a
// channel that the orchestrating goroutine drains alone, so output order
// is completion order and callers must not rely on it being stable.
package pipeline
