package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// DefaultPageLoadTimeout bounds the navigation of a rendered fetch.
	DefaultPageLoadTimeout = 30 * time.Second

	// DefaultSettleDelay is the fixed wait after navigation that lets
	// client-side scripts finish building the page.
	DefaultSettleDelay = 5 * time.Second

	// DefaultStartupTimeout bounds browser launch. Together with the page
	// load timeout and the settle delay it forms the deadline of a whole
	// rendered fetch.
	DefaultStartupTimeout = 30 * time.Second

	// BrowserMaxConcurrency is the most browser sessions run at once.
	// Every session is a full Chrome process.
	BrowserMaxConcurrency = 3
)

// browserCandidates are the executable names searched on PATH.
var browserCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"chrome",
	"headless-shell",
	"headless_shell",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// LocateBrowser returns the path of a usable Chrome executable.
// An explicit path must point at an executable regular file; otherwise the
// usual executable names are searched on PATH.
func LocateBrowser(explicit string) (string, error) {
	if explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrBrowserNotFound, explicit, err)
		}
		if info.IsDir() || info.Mode().Perm()&0o111 == 0 {
			return "", fmt.Errorf("%w: %s is not an executable file", ErrBrowserNotFound, explicit)
		}
		return explicit, nil
	}

	for _, name := range browserCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrBrowserNotFound
}

// BrowserFetcher renders pages in headless Chrome.
//
// Every call starts an isolated browser process with its own temporary
// profile and tears it down before returning, whatever the outcome.
// The HTTP status code is never reported.
type BrowserFetcher struct {
	// execPath is the Chrome executable.
	execPath string

	// userAgent overrides the browser's User-Agent when set.
	userAgent string

	// pageLoadTimeout bounds navigation.
	pageLoadTimeout time.Duration

	// settleDelay is waited after navigation and before capture.
	settleDelay time.Duration

	// startupTimeout is the budget for launching the browser.
	startupTimeout time.Duration
}

// BrowserOption configures a BrowserFetcher.
type BrowserOption func(*BrowserFetcher)

// WithPageLoadTimeout sets the navigation timeout.
func WithPageLoadTimeout(d time.Duration) BrowserOption {
	return func(f *BrowserFetcher) {
		if d > 0 {
			f.pageLoadTimeout = d
		}
	}
}

// WithSettleDelay sets the wait between navigation and capture.
// Zero disables the wait.
func WithSettleDelay(d time.Duration) BrowserOption {
	return func(f *BrowserFetcher) {
		if d >= 0 {
			f.settleDelay = d
		}
	}
}

// WithStartupTimeout sets the budget for launching the browser.
func WithStartupTimeout(d time.Duration) BrowserOption {
	return func(f *BrowserFetcher) {
		if d > 0 {
			f.startupTimeout = d
		}
	}
}

// WithBrowserUserAgent overrides the browser's User-Agent.
func WithBrowserUserAgent(ua string) BrowserOption {
	return func(f *BrowserFetcher) {
		f.userAgent = ua
	}
}

// NewBrowserFetcher creates a BrowserFetcher for the given executable,
// usually the result of LocateBrowser.
func NewBrowserFetcher(execPath string, opts ...BrowserOption) *BrowserFetcher {
	f := &BrowserFetcher{
		execPath:        execPath,
		pageLoadTimeout: DefaultPageLoadTimeout,
		settleDelay:     DefaultSettleDelay,
		startupTimeout:  DefaultStartupTimeout,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// MaxConcurrency implements ConcurrencyLimiter.
func (f *BrowserFetcher) MaxConcurrency() int {
	return BrowserMaxConcurrency
}

// allocatorOptions returns the exec allocator flags for one session.
func (f *BrowserFetcher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(f.execPath),
		chromedp.Flag("disable-extensions", true),
	)
	if f.userAgent != "" {
		opts = append(opts, chromedp.UserAgent(f.userAgent))
	}
	return opts
}

// SessionTimeout is the longest a single Fetch may take.
func (f *BrowserFetcher) SessionTimeout() time.Duration {
	return f.startupTimeout + f.pageLoadTimeout + f.settleDelay
}

// Fetch renders pageURL and returns the outer HTML of the document.
//
// The whole session runs under SessionTimeout. When it expires the browser
// is killed and the error matches ErrTimeout.
func (f *BrowserFetcher) Fetch(ctx context.Context, pageURL string) (*Response, error) {
	sessionCtx, cancelSession := context.WithTimeout(ctx, f.SessionTimeout())
	defer cancelSession()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(sessionCtx, f.allocatorOptions()...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// The first Run starts the browser, which then lives as long as
	// sessionCtx. Navigation gets its own shorter deadline so that a slow
	// page aborts without killing the browser first.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, sessionError(sessionCtx, pageURL, fmt.Errorf("start browser: %w", err))
	}

	navCtx, cancelNav := context.WithTimeout(browserCtx, f.pageLoadTimeout)
	defer cancelNav()

	if err := chromedp.Run(navCtx, chromedp.Navigate(pageURL)); err != nil {
		return nil, sessionError(navCtx, pageURL, err)
	}

	var document string
	if err := chromedp.Run(browserCtx,
		chromedp.Sleep(f.settleDelay),
		chromedp.OuterHTML("html", &document, chromedp.ByQuery),
	); err != nil {
		return nil, sessionError(sessionCtx, pageURL, fmt.Errorf("capture document: %w", err))
	}

	return &Response{Body: document, FinalURL: pageURL}, nil
}

// sessionError classifies a browser failure. An expired deadline on ctx,
// or an error caused by one, is a timeout; anything else is a render error.
func sessionError(ctx context.Context, pageURL string, err error) *FetchError {
	if isTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return newFetchError(KindTimeout, pageURL, err)
	}
	return newFetchError(KindRender, pageURL, err)
}
