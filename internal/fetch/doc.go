// Package fetch provides the page sources used to verify backlinks.
//
// Two backends implement the Fetcher interface:
//   - HTTPFetcher: a single direct HTTP GET with a fixed browser-like User-Agent
//   - BrowserFetcher: a headless Chrome session (via chromedp) that renders the
//     page, waits for scripts to settle, and captures the resulting document
//
// Both backends report failures as *FetchError values whose Kind is one of
// network, timeout or render. Callers match them with errors.Is against
// ErrNetwork, ErrTimeout and ErrRender.
//
// # Concurrency
//
// A backend may cap the number of concurrent fetches it tolerates by
// implementing ConcurrencyLimiter. BrowserFetcher does so because every
// call launches a full browser process. EffectiveWorkers applies the cap.
//
// # Usage
//
//	f := fetch.NewHTTPFetcher(fetch.WithTimeout(15 * time.Second))
//	resp, err := f.Fetch(ctx, "https://blog.example.net/post")
package fetch
