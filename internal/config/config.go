package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Provider  ProviderConfig  `yaml:"provider" envconfig:"PROVIDER"`
	Analytics AnalyticsConfig `yaml:"analytics" envconfig:"ANALYTICS"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Paths     PathsConfig     `yaml:"paths" envconfig:"PATHS"`
	Refresh   RefreshConfig   `yaml:"refresh" envconfig:"REFRESH"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"PORT"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps" envconfig:"RATE_LIMIT_RPS"`
	RateLimitBurst  int           `yaml:"rate_limit_burst" envconfig:"RATE_LIMIT_BURST"`
}

// ProviderConfig contains market-data provider connection settings
type ProviderConfig struct {
	BaseURL        string        `yaml:"base_url" envconfig:"BASE_URL"`
	APIKey         string        `yaml:"api_key" envconfig:"API_KEY"`
	Timeout        time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	RequestsPerSec float64       `yaml:"requests_per_sec" envconfig:"REQUESTS_PER_SEC"`
	Burst          int           `yaml:"burst" envconfig:"BURST"`
	MaxConcurrent  int           `yaml:"max_concurrent" envconfig:"MAX_CONCURRENT"`
	// UseTotalReturn prefers the total-return field when the provider carries
	// it; price-last is the per-security fallback either way.
	UseTotalReturn bool `yaml:"use_total_return" envconfig:"USE_TOTAL_RETURN"`
}

// AnalyticsConfig contains the comparison universe and rolling windows
type AnalyticsConfig struct {
	// Tickers maps the short column name to the provider security code,
	// e.g. GSOX -> "GSOX Index".
	Tickers    map[string]string `yaml:"tickers" envconfig:"TICKERS"`
	Assets     []string          `yaml:"assets" envconfig:"ASSETS"`
	Benchmarks []string          `yaml:"benchmarks" envconfig:"BENCHMARKS"`
	StartDate  string            `yaml:"start_date" envconfig:"START_DATE"`
	EndDate    string            `yaml:"end_date" envconfig:"END_DATE"`
	// Rolling windows in trading days (roughly 21 per month).
	ReturnWindow int `yaml:"return_window" envconfig:"RETURN_WINDOW"`
	RiskWindow   int `yaml:"risk_window" envconfig:"RISK_WINDOW"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" envconfig:"LEVEL"`
	Output      string `yaml:"output" envconfig:"OUTPUT"`
	FilePath    string `yaml:"file_path" envconfig:"FILE_PATH"`
	Development bool   `yaml:"development" envconfig:"DEVELOPMENT"`
}

// RefreshConfig controls the scheduled report refresh in the web server
type RefreshConfig struct {
	// Schedule is a cron expression; empty disables scheduled refresh.
	Schedule string `yaml:"schedule" envconfig:"SCHEDULE"`
	// CacheRetention bounds the age of cached series files; stale ones are
	// pruned after each scheduled refresh. Zero disables pruning.
	CacheRetention time.Duration `yaml:"cache_retention" envconfig:"CACHE_RETENTION"`
}

// Default returns the configuration defaults. File and environment values
// overlay these, environment winning.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RateLimitRPS:    50,
			RateLimitBurst:  25,
		},
		Provider: ProviderConfig{
			BaseURL:        "http://localhost:8194",
			Timeout:        30 * time.Second,
			RequestsPerSec: 5,
			Burst:          5,
			MaxConcurrent:  4,
		},
		Analytics: AnalyticsConfig{
			Tickers: map[string]string{
				"GSOX":    "GSOX Index",
				"RGUSTSC": "RGUSTSC Index",
				"SPX":     "SPX Index",
				"MXWO":    "MXWO Index",
			},
			Assets:       []string{"GSOX", "RGUSTSC"},
			Benchmarks:   []string{"SPX", "MXWO"},
			StartDate:    "2015-01-01",
			ReturnWindow: 63,
			RiskWindow:   126,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "both",
			FilePath: "logs/relperf.log",
		},
		Paths: PathsConfig{
			DataDir:    "data",
			ReportsDir: "data/reports",
			CacheDir:   "data/cache",
			LogsDir:    "logs",
		},
		Refresh: RefreshConfig{
			CacheRetention: 30 * 24 * time.Hour,
		},
	}
}

// Load loads configuration from the optional YAML file and the environment.
// Precedence: environment over file over defaults.
func Load() (*Config, error) {
	cfg := Default()

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		data, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := envconfig.Process("RELPERF", &cfg); err != nil {
		return nil, fmt.Errorf("load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// getConfigFilePath returns the config file location, overridable via env.
func getConfigFilePath() string {
	if path := os.Getenv("RELPERF_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider base_url is required")
	}
	if c.Analytics.ReturnWindow < 1 {
		return fmt.Errorf("return_window must be positive, got %d", c.Analytics.ReturnWindow)
	}
	if c.Analytics.RiskWindow < 1 {
		return fmt.Errorf("risk_window must be positive, got %d", c.Analytics.RiskWindow)
	}
	if len(c.Analytics.Tickers) == 0 {
		return fmt.Errorf("at least one ticker mapping is required")
	}
	for _, name := range append(append([]string{}, c.Analytics.Assets...), c.Analytics.Benchmarks...) {
		if _, ok := c.Analytics.Tickers[name]; !ok {
			return fmt.Errorf("symbol %q has no ticker mapping", name)
		}
	}
	if c.Analytics.StartDate != "" {
		if _, err := time.Parse("2006-01-02", c.Analytics.StartDate); err != nil {
			return fmt.Errorf("invalid start_date: %w", err)
		}
	}
	if c.Analytics.EndDate != "" {
		if _, err := time.Parse("2006-01-02", c.Analytics.EndDate); err != nil {
			return fmt.Errorf("invalid end_date: %w", err)
		}
	}
	return nil
}

// DateRange resolves the configured date range; an empty end date means today.
func (c *AnalyticsConfig) DateRange() (start, end time.Time, err error) {
	start, err = time.Parse("2006-01-02", c.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse start_date: %w", err)
	}
	if c.EndDate == "" {
		now := time.Now().UTC()
		end = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return start, end, nil
	}
	end, err = time.Parse("2006-01-02", c.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse end_date: %w", err)
	}
	return start, end, nil
}
