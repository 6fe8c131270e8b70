package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/backlinkscan/internal/fetch"
	"github.com/nao1215/backlinkscan/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "backlinkscan"

	// DefaultWorkers is the number of backlinks checked in parallel.
	// The rendered backend clamps it to fetch.BrowserMaxConcurrency.
	DefaultWorkers = 10

	// DefaultTimeout bounds one direct fetch.
	DefaultTimeout = fetch.DefaultHTTPTimeout

	// DefaultRenderTimeout bounds page navigation in the rendered backend.
	DefaultRenderTimeout = fetch.DefaultPageLoadTimeout

	// DefaultSettleDelay is how long the rendered backend waits for scripts
	// after navigation.
	DefaultSettleDelay = fetch.DefaultSettleDelay

	// DefaultUserAgent is sent by the direct backend.
	DefaultUserAgent = fetch.DefaultUserAgent

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize = fetch.DefaultMaxBodySize
)

// Config holds all options of a verification run.
// It is populated from defaults, the config file, the environment and CLI
// flags, in that order, and passed down explicitly.
type Config struct {
	// Backlinks are the candidate pages to verify, in submission order.
	Backlinks []string

	// Targets are the URLs (or URL fragments) searched for on every page.
	Targets []string

	// Workers is the maximum number of backlinks checked at once.
	Workers int

	// Render selects the headless browser backend instead of direct HTTP.
	Render bool

	// BrowserPath is the Chrome executable for the rendered backend.
	// Empty means search PATH. Prepare fills it in.
	BrowserPath string

	// Timeout bounds one direct fetch, body included.
	Timeout time.Duration

	// RenderTimeout bounds navigation in the rendered backend.
	RenderTimeout time.Duration

	// SettleDelay is waited after navigation in the rendered backend.
	SettleDelay time.Duration

	// Rate limits fetches per second across all workers. 0 disables it.
	Rate float64

	// UserAgent is sent with direct requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// 0 selects DefaultMaxBodySize.
	MaxBodySize int64

	// Verbose enables debug logging.
	Verbose bool

	// Quiet disables live progress output.
	Quiet bool

	// ConfigFilePath is the explicit configuration file, if any.
	ConfigFilePath string

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is where the report is written. Empty means stdout.
	ReportFile string

	// XLSXFile, when set, receives a spreadsheet export of the results.
	XLSXFile string

	// SQLiteFile, when set, receives a SQLite export of the results.
	SQLiteFile string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Workers:       DefaultWorkers,
		Timeout:       DefaultTimeout,
		RenderTimeout: DefaultRenderTimeout,
		SettleDelay:   DefaultSettleDelay,
		UserAgent:     DefaultUserAgent,
		MaxBodySize:   DefaultMaxBodySize,
	}
}

// XDGConfigDir returns the XDG config directory for backlinkscan.
// On Linux: ~/.config/backlinkscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGConfigFile returns the config file path inside XDGConfigDir.
func XDGConfigFile() string {
	return filepath.Join(XDGConfigDir(), "config.yaml")
}

// Backend returns the fetch backend selected by the configuration.
func (c *Config) Backend() model.Backend {
	if c.Render {
		return model.BackendRendered
	}
	return model.BackendDirect
}

// Normalize trims the backlink and target lists and drops empty entries.
func (c *Config) Normalize() {
	c.Backlinks = model.CleanList(c.Backlinks)
	c.Targets = model.CleanList(c.Targets)
}

// Validate normalizes the configuration and checks that it is usable.
// It returns a *ConfigError for the first problem found.
func (c *Config) Validate() error {
	c.Normalize()

	if len(c.Backlinks) == 0 {
		return invalid("backlinks", ErrNoBacklinks)
	}
	if len(c.Targets) == 0 {
		return invalid("targets", ErrNoTargets)
	}
	if c.Workers <= 0 {
		return invalid("workers", ErrInvalidWorkers)
	}
	if c.Timeout <= 0 {
		return invalid("timeout", ErrInvalidTimeout)
	}
	if c.RenderTimeout <= 0 {
		return invalid("render_timeout", ErrInvalidTimeout)
	}
	if c.SettleDelay < 0 {
		return invalid("settle_delay", ErrInvalidTimeout)
	}
	if c.Rate < 0 {
		return invalid("rate", ErrInvalidRate)
	}
	if c.JSONReport && c.MarkdownReport {
		return invalid("", ErrConflictingReportFormats)
	}
	if c.MaxBodySize < 0 {
		return invalid("max_body_size", ErrInvalidMaxBodySize)
	}
	return nil
}

// Prepare resolves the environment a run needs. For the rendered backend
// it locates the browser and records its path; a missing browser is a
// *ConfigError wrapping ErrBrowserUnavailable.
func (c *Config) Prepare() error {
	if !c.Render {
		return nil
	}

	path, err := fetch.LocateBrowser(c.BrowserPath)
	if err != nil {
		return invalid("browser_path", fmt.Errorf("%w: %w", ErrBrowserUnavailable, err))
	}
	c.BrowserPath = path
	return nil
}
