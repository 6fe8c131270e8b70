package fetch

import (
	"context"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

const (
	// DefaultHTTPTimeout bounds a whole direct fetch, body included.
	DefaultHTTPTimeout = 15 * time.Second

	// DefaultUserAgent is sent with every direct request.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize int64 = 5 * 1024 * 1024
)

// HTTPFetcher fetches pages with a single HTTP GET.
//
// It sends only the User-Agent header: no cookie jar, no authentication,
// and the client's default redirect policy. The status code and body are
// returned verbatim for every HTTP response, including 4xx and 5xx, so that
// the classifier can inspect blocked responses.
type HTTPFetcher struct {
	// client performs the request. Its Timeout bounds each fetch.
	client *http.Client

	// userAgent is the User-Agent header value.
	userAgent string

	// maxBodySize caps the number of body bytes read.
	maxBodySize int64
}

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithHTTPClient replaces the underlying client.
// Mostly useful for tests; the client's Timeout is left untouched.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(f *HTTPFetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout sets the per-fetch timeout.
func WithTimeout(d time.Duration) HTTPOption {
	return func(f *HTTPFetcher) {
		if d > 0 {
			f.client.Timeout = d
		}
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize limits the number of body bytes read.
func WithMaxBodySize(size int64) HTTPOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewHTTPFetcher creates an HTTPFetcher with a 15 second timeout and the
// default User-Agent.
func NewHTTPFetcher(opts ...HTTPOption) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch performs the GET request.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, newFetchError(KindNetwork, pageURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, transportError(pageURL, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, transportError(pageURL, err)
	}

	status := resp.StatusCode
	return &Response{
		Body:       decodeBody(raw, resp.Header.Get("Content-Type")),
		StatusCode: &status,
		FinalURL:   resp.Request.URL.String(),
	}, nil
}

// decodeBody converts raw to UTF-8 using the charset declared in the
// Content-Type header or sniffed from the document. A guessed charset never
// overrides a body that is already valid UTF-8, since sniffing only looks at
// the first 1024 bytes. Undecodable input is returned as-is.
func decodeBody(raw []byte, contentType string) string {
	enc, name, certain := charset.DetermineEncoding(raw, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(raw)) {
		return string(raw)
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
