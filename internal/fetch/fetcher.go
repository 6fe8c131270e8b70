package fetch

import "context"

// Response is the raw outcome of a successful fetch.
type Response struct {
	// Body is the page content decoded to UTF-8.
	Body string

	// StatusCode is the HTTP status code. It is nil for backends that
	// cannot observe it (the rendered backend).
	StatusCode *int

	// FinalURL is the URL after redirects, when known.
	FinalURL string
}

// Fetcher retrieves the content of a single page.
// Implementations must be safe for concurrent use and must bound the
// duration of each call with their own timeout.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*Response, error)
}

// FetcherFunc adapts an ordinary function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, pageURL string) (*Response, error)

// Fetch calls f(ctx, pageURL).
func (f FetcherFunc) Fetch(ctx context.Context, pageURL string) (*Response, error) {
	return f(ctx, pageURL)
}

// ConcurrencyLimiter is implemented by backends that cannot run more than
// a fixed number of fetches at once.
type ConcurrencyLimiter interface {
	MaxConcurrency() int
}

// EffectiveWorkers returns the worker count to use with f.
// If f implements ConcurrencyLimiter with a positive limit lower than
// workers, the limit wins.
func EffectiveWorkers(f Fetcher, workers int) int {
	limiter, ok := f.(ConcurrencyLimiter)
	if !ok {
		return workers
	}
	if limit := limiter.MaxConcurrency(); limit > 0 && limit < workers {
		return limit
	}
	return workers
}
