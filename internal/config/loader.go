package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".backlinkscan"

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// Environment variables consulted by ApplyEnv.
const (
	EnvBrowserPath = "BACKLINKSCAN_BROWSER_PATH"
	EnvChromePath  = "CHROME_PATH"
	EnvUserAgent   = "BACKLINKSCAN_USER_AGENT"
)

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .backlinkscan in the current directory
// 3. Look for .backlinkscan in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, XDGConfigFile())

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// LoadDotEnv loads variables from a dotenv file into the process
// environment. Variables that are already set are never overridden.
// A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = DefaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv fills in options from environment variables read through
// getenv. The browser path is only taken when none is configured, and the
// user agent only replaces the built-in default.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if c.BrowserPath == "" {
		if p := getenv(EnvBrowserPath); p != "" {
			c.BrowserPath = p
		} else if p := getenv(EnvChromePath); p != "" {
			c.BrowserPath = p
		}
	}
	if ua := getenv(EnvUserAgent); ua != "" && c.UserAgent == DefaultUserAgent {
		c.UserAgent = ua
	}
}
