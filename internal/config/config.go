package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every tunable the dashboard reads at startup. Values come
// from defaults, the JSON config file, and finally environment overrides.
type Config struct {
	APIBaseURL string `json:"api_base_url"`
	DataDir    string `json:"data_dir"`

	PollInterval    Duration `json:"poll_interval"`
	StalenessWindow Duration `json:"staleness_window"`
	RequestTimeout  Duration `json:"request_timeout"`

	MaxRetries int      `json:"max_retries"`
	RetryDelay Duration `json:"retry_delay"`

	Debug bool `json:"debug"`
}

// Duration marshals as a Go duration string ("60s") inside the JSON config.
type Duration time.Duration

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(time.Duration(d).String())), nil
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("duration must be a string: %w", err)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// DefaultConfig returns the stock configuration rooted at the working
// directory.
func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	return DefaultConfigWithRoot(currentDir)
}

// DefaultConfigWithRoot returns the stock configuration rooted at dir.
func DefaultConfigWithRoot(dir string) *Config {
	return &Config{
		APIBaseURL: "https://api.coingecko.com/api/v3",
		DataDir:    filepath.Join(dir, "data"),

		PollInterval:    Duration(60 * time.Second),
		StalenessWindow: Duration(30 * time.Second),
		RequestTimeout:  Duration(10 * time.Second),

		MaxRetries: 3,
		RetryDelay: Duration(1 * time.Second),

		Debug: false,
	}
}

// LoadEnv layers .env and process environment overrides on top of c.
// Only COINLENS_API_BASE is required by the upstream contract; the rest are
// conveniences.
func (c *Config) LoadEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("COINLENS_API_BASE"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("COINLENS_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("COINLENS_DEBUG"); v != "" {
		c.Debug = v == "1" || v == "true"
	}
}

// Validate rejects configurations the dashboard cannot run with.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url is required")
	}
	if c.PollInterval.Std() <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.StalenessWindow.Std() <= 0 {
		return fmt.Errorf("staleness_window must be positive")
	}
	if c.StalenessWindow.Std() > c.PollInterval.Std() {
		return fmt.Errorf("staleness_window must not exceed poll_interval")
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be at least 1")
	}
	return nil
}

// FavoritesDBPath is where the favorites kv database lives.
func (c *Config) FavoritesDBPath() string {
	return filepath.Join(c.DataDir, "coinlens.db")
}

// EnsureDirectories creates the data directory tree.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return err
	}
	return nil
}
