package config

import "time"

// File represents the structure of the backlinkscan configuration file.
// Every field is optional; unset fields leave the current value alone.
type File struct {
	// Targets are the target URLs searched for on every page.
	Targets []string `yaml:"targets,omitempty"`

	// Workers is the number of backlinks checked at once.
	Workers *int `yaml:"workers,omitempty"`

	// Render selects the headless browser backend.
	Render *bool `yaml:"render,omitempty"`

	// BrowserPath is the Chrome executable for the rendered backend.
	BrowserPath string `yaml:"browser_path,omitempty"`

	// Timeout bounds one direct fetch, e.g. "15s".
	Timeout *time.Duration `yaml:"timeout,omitempty"`

	// RenderTimeout bounds page navigation, e.g. "30s".
	RenderTimeout *time.Duration `yaml:"render_timeout,omitempty"`

	// SettleDelay is waited after navigation, e.g. "5s".
	SettleDelay *time.Duration `yaml:"settle_delay,omitempty"`

	// Rate limits fetches per second.
	Rate *float64 `yaml:"rate,omitempty"`

	// UserAgent is sent with direct requests.
	UserAgent string `yaml:"user_agent,omitempty"`

	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize *int64 `yaml:"max_body_size,omitempty"`
}

// Apply copies every field set in f into c.
func (f *File) Apply(c *Config) {
	if f == nil {
		return
	}
	if len(f.Targets) > 0 {
		c.Targets = append([]string(nil), f.Targets...)
	}
	if f.Workers != nil {
		c.Workers = *f.Workers
	}
	if f.Render != nil {
		c.Render = *f.Render
	}
	if f.BrowserPath != "" {
		c.BrowserPath = f.BrowserPath
	}
	if f.Timeout != nil {
		c.Timeout = *f.Timeout
	}
	if f.RenderTimeout != nil {
		c.RenderTimeout = *f.RenderTimeout
	}
	if f.SettleDelay != nil {
		c.SettleDelay = *f.SettleDelay
	}
	if f.Rate != nil {
		c.Rate = *f.Rate
	}
	if f.UserAgent != "" {
		c.UserAgent = f.UserAgent
	}
	if f.MaxBodySize != nil {
		c.MaxBodySize = *f.MaxBodySize
	}
}
