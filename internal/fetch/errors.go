package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind identifies the failure class of a fetch.
type Kind string

const (
	// KindNetwork covers DNS, connection, TLS and read failures.
	KindNetwork Kind = "network"

	// KindTimeout is used when the backend's deadline expired.
	KindTimeout Kind = "timeout"

	// KindRender covers headless browser failures other than timeouts.
	KindRender Kind = "render"
)

// Sentinel errors for the failure classes. A *FetchError matches the
// sentinel of its Kind with errors.Is.
var (
	// ErrNetwork is matched by network failures.
	ErrNetwork = errors.New("network error")

	// ErrTimeout is matched by fetches that exceeded their deadline.
	ErrTimeout = errors.New("timeout")

	// ErrRender is matched by browser rendering failures.
	ErrRender = errors.New("render error")

	// ErrBrowserNotFound is returned by LocateBrowser when no usable
	// Chrome or Chromium executable exists.
	ErrBrowserNotFound = errors.New("chrome/chromium executable not found")
)

// FetchError describes a failed fetch.
type FetchError struct {
	// Kind is the failure class.
	Kind Kind

	// URL is the page that was being fetched.
	URL string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	return fmt.Sprintf("%s fetching %s: %v", e.Kind, e.URL, e.Err)
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel error of the failure class.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrTimeout:
		return e.Kind == KindTimeout
	case ErrRender:
		return e.Kind == KindRender
	default:
		return false
	}
}

func newFetchError(kind Kind, pageURL string, err error) *FetchError {
	return &FetchError{Kind: kind, URL: pageURL, Err: err}
}

// isTimeout reports whether err was caused by an expired deadline.
// http.Client wraps its own timeout in a *url.Error that implements net.Error.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// transportError converts an HTTP transport failure into a *FetchError.
func transportError(pageURL string, err error) *FetchError {
	if isTimeout(err) {
		return newFetchError(KindTimeout, pageURL, err)
	}
	return newFetchError(KindNetwork, pageURL, err)
}
