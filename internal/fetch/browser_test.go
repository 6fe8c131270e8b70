package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"
)

// writeFakeBrowser writes an executable shell script that stands in for
// Chrome and returns its path.
func writeFakeBrowser(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake browser scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-chrome")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o700); err != nil { //nolint:gosec // test executable
		t.Fatalf("failed to write fake browser: %v", err)
	}
	return path
}

// processAlive reports whether pid still exists.
func processAlive(pid int) bool {
	p, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return p.Signal(syscall.Signal(0)) == nil
}

// TestBrowserFetcherSessionTimeout tests the overall deadline of a fetch.
func TestBrowserFetcherSessionTimeout(t *testing.T) {
	t.Parallel()

	f := NewBrowserFetcher("/usr/bin/chromium",
		WithStartupTimeout(2*time.Second),
		WithPageLoadTimeout(3*time.Second),
		WithSettleDelay(time.Second),
	)
	if got := f.SessionTimeout(); got != 6*time.Second {
		t.Errorf("expected 6s session timeout, got %v", got)
	}

	d := NewBrowserFetcher("/usr/bin/chromium")
	want := DefaultStartupTimeout + DefaultPageLoadTimeout + DefaultSettleDelay
	if got := d.SessionTimeout(); got != want {
		t.Errorf("expected %v session timeout, got %v", want, got)
	}
}

// TestBrowserFetcherFetch tests failure handling without a real browser.
func TestBrowserFetcherFetch(t *testing.T) {
	t.Parallel()

	t.Run("browser that exits is classified as ErrRender", func(t *testing.T) {
		t.Parallel()

		execPath := writeFakeBrowser(t, "exit 1")
		f := NewBrowserFetcher(execPath, WithSettleDelay(0))

		resp, err := f.Fetch(context.Background(), "http://127.0.0.1:1/")
		if resp != nil {
			t.Errorf("expected no response, got %+v", resp)
		}
		if !errors.Is(err, ErrRender) {
			t.Fatalf("expected ErrRender, got %v", err)
		}
		if errors.Is(err, ErrTimeout) {
			t.Error("a crashed browser should not match ErrTimeout")
		}
	})

	t.Run("hung browser is bounded and torn down", func(t *testing.T) {
		t.Parallel()

		pidFile := filepath.Join(t.TempDir(), "pid")
		execPath := writeFakeBrowser(t, "echo $$ > "+pidFile+"\nexec sleep 60")
		f := NewBrowserFetcher(execPath,
			WithStartupTimeout(500*time.Millisecond),
			WithPageLoadTimeout(500*time.Millisecond),
			WithSettleDelay(0),
		)

		start := time.Now()
		_, err := f.Fetch(context.Background(), "http://127.0.0.1:1/")
		elapsed := time.Since(start)

		if !errors.Is(err, ErrTimeout) {
			t.Fatalf("expected ErrTimeout, got %v", err)
		}
		if elapsed > 10*time.Second {
			t.Errorf("fetch took %v with a %v session timeout", elapsed, f.SessionTimeout())
		}

		data, err := os.ReadFile(pidFile)
		if err != nil {
			t.Fatalf("fake browser never started: %v", err)
		}
		pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
		if err != nil {
			t.Fatalf("invalid pid %q: %v", data, err)
		}
		deadline := time.Now().Add(2 * time.Second)
		for processAlive(pid) && time.Now().Before(deadline) {
			time.Sleep(20 * time.Millisecond)
		}
		if processAlive(pid) {
			t.Errorf("browser process %d still running after Fetch returned", pid)
		}
	})

	t.Run("cancelled context stops a hung launch", func(t *testing.T) {
		t.Parallel()

		execPath := writeFakeBrowser(t, "exec sleep 60")
		f := NewBrowserFetcher(execPath, WithSettleDelay(0))

		ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := f.Fetch(ctx, "http://127.0.0.1:1/")
		if err == nil {
			t.Fatal("expected error")
		}
		if !errors.Is(err, ErrTimeout) {
			t.Errorf("expected ErrTimeout, got %v", err)
		}
		if elapsed := time.Since(start); elapsed > 10*time.Second {
			t.Errorf("fetch ignored the caller's deadline for %v", elapsed)
		}
	})
}

// TestBrowserFetcherRender renders a local page in a real browser when one
// is installed.
func TestBrowserFetcherRender(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}
	execPath, err := LocateBrowser("")
	if err != nil {
		t.Skip("no Chrome or Chromium installed")
	}
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><body><div id="links"></div><script>
document.getElementById("links").innerHTML = '<a href="https://example.com/">Rendered</a>';
</script></body></html>`))
	}))
	defer server.Close()

	f := NewBrowserFetcher(execPath, WithSettleDelay(200*time.Millisecond))
	resp, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != nil {
		t.Errorf("expected no status code from the rendered backend, got %d", *resp.StatusCode)
	}
	if !strings.Contains(resp.Body, `href="https://example.com/"`) {
		t.Errorf("expected script-built link in rendered body, got %q", resp.Body)
	}
}
