package fetch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestEffectiveWorkers tests the concurrency clamp.
func TestEffectiveWorkers(t *testing.T) {
	t.Parallel()

	direct := NewHTTPFetcher()
	rendered := NewBrowserFetcher("/usr/bin/chromium")

	tests := []struct {
		name    string
		fetcher Fetcher
		workers int
		want    int
	}{
		{"direct keeps worker count", direct, 10, 10},
		{"rendered clamps 10 to 3", rendered, 10, 3},
		{"rendered keeps lower count", rendered, 2, 2},
		{"func fetcher keeps worker count", FetcherFunc(func(context.Context, string) (*Response, error) {
			return &Response{}, nil
		}), 7, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := EffectiveWorkers(tt.fetcher, tt.workers); got != tt.want {
				t.Errorf("expected %d workers, got %d", tt.want, got)
			}
		})
	}
}

// TestFetchError tests sentinel matching.
func TestFetchError(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	tests := []struct {
		kind Kind
		want error
	}{
		{KindNetwork, ErrNetwork},
		{KindTimeout, ErrTimeout},
		{KindRender, ErrRender},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()

			err := newFetchError(tt.kind, "https://a.test/", cause)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v to match %v", err, tt.want)
			}
			if !errors.Is(err, cause) {
				t.Error("expected underlying error to be unwrapped")
			}
			for _, other := range []error{ErrNetwork, ErrTimeout, ErrRender} {
				if other != tt.want && errors.Is(err, other) {
					t.Errorf("%v should not match %v", err, other)
				}
			}
		})
	}

	t.Run("deadline exceeded is a timeout", func(t *testing.T) {
		t.Parallel()

		err := transportError("https://a.test/", context.DeadlineExceeded)
		if err.Kind != KindTimeout {
			t.Errorf("expected timeout kind, got %s", err.Kind)
		}
	})
}

// TestLocateBrowser tests executable resolution.
func TestLocateBrowser(t *testing.T) {
	t.Parallel()

	t.Run("accepts explicit executable", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "chrome")
		if err := os.WriteFile(path, []byte("#!/bin/sh\n"), 0o700); err != nil {
			t.Fatalf("failed to write fake browser: %v", err)
		}

		got, err := LocateBrowser(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("rejects missing explicit path", func(t *testing.T) {
		t.Parallel()

		_, err := LocateBrowser(filepath.Join(t.TempDir(), "missing"))
		if !errors.Is(err, ErrBrowserNotFound) {
			t.Errorf("expected ErrBrowserNotFound, got %v", err)
		}
	})

	t.Run("rejects non-executable file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "chrome")
		if err := os.WriteFile(path, []byte("data"), 0o600); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		_, err := LocateBrowser(path)
		if !errors.Is(err, ErrBrowserNotFound) {
			t.Errorf("expected ErrBrowserNotFound, got %v", err)
		}
	})

	t.Run("rejects directory", func(t *testing.T) {
		t.Parallel()

		_, err := LocateBrowser(t.TempDir())
		if !errors.Is(err, ErrBrowserNotFound) {
			t.Errorf("expected ErrBrowserNotFound, got %v", err)
		}
	})
}

// TestNewBrowserFetcher tests browser fetcher defaults and options.
func TestNewBrowserFetcher(t *testing.T) {
	t.Parallel()

	t.Run("uses defaults", func(t *testing.T) {
		t.Parallel()

		f := NewBrowserFetcher("/usr/bin/chromium")
		if f.pageLoadTimeout != 30*time.Second {
			t.Errorf("expected 30s page load timeout, got %v", f.pageLoadTimeout)
		}
		if f.settleDelay != 5*time.Second {
			t.Errorf("expected 5s settle delay, got %v", f.settleDelay)
		}
		if f.MaxConcurrency() != 3 {
			t.Errorf("expected max concurrency 3, got %d", f.MaxConcurrency())
		}
	})

	t.Run("applies options", func(t *testing.T) {
		t.Parallel()

		f := NewBrowserFetcher("/usr/bin/chromium",
			WithPageLoadTimeout(10*time.Second),
			WithSettleDelay(0),
			WithBrowserUserAgent("custom/1.0"),
		)
		if f.pageLoadTimeout != 10*time.Second {
			t.Errorf("expected 10s page load timeout, got %v", f.pageLoadTimeout)
		}
		if f.settleDelay != 0 {
			t.Errorf("expected no settle delay, got %v", f.settleDelay)
		}
		if len(f.allocatorOptions()) == 0 {
			t.Error("expected allocator options")
		}
	})
}
