package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	ServerPort string `mapstructure:"SERVER_PORT"`
	LogLevel   string `mapstructure:"LOG_LEVEL"`

	PostgresHost     string `mapstructure:"POSTGRES_HOST"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	PostgresUser     string `mapstructure:"POSTGRES_USER"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	// Collection run defaults for the one-shot collector.
	TargetURL     string `mapstructure:"TARGET_URL"`
	DesiredCount  int    `mapstructure:"DESIRED_COUNT"`
	OutputDir     string `mapstructure:"OUTPUT_DIR"`
	TrimOvershoot bool   `mapstructure:"TRIM_OVERSHOOT"`

	// Collection loop.
	MaxAttempts         int `mapstructure:"MAX_ATTEMPTS"`
	WaitTimeoutSecs     int `mapstructure:"WAIT_TIMEOUT_SECONDS"`
	RetryPauseSecs      int `mapstructure:"RETRY_PAUSE_SECONDS"`
	ListWaitSecs        int `mapstructure:"LIST_WAIT_TIMEOUT_SECONDS"`
	PageLoadTimeoutSecs int `mapstructure:"PAGE_LOAD_TIMEOUT_SECONDS"`

	// Browser. USER_AGENTS and PROXY_URLS are comma-separated pools rotated
	// per session; USER_AGENT is used when USER_AGENTS is empty.
	Headless   bool     `mapstructure:"HEADLESS"`
	UserAgent  string   `mapstructure:"USER_AGENT"`
	UserAgents []string `mapstructure:"USER_AGENTS"`
	ProxyURLs  []string `mapstructure:"PROXY_URLS"`

	// Worker.
	WorkerPollIntervalSecs int `mapstructure:"WORKER_POLL_INTERVAL_SECONDS"`
	SubmissionDedupHours   int `mapstructure:"SUBMISSION_DEDUP_HOURS"`
}

// Load reads configuration from an optional .env file and the environment.
// Environment variables take precedence over the file.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// A missing .env is fine; production is configured through the environment.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading .env: %w", err)
		}
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "user")
	v.SetDefault("POSTGRES_PASSWORD", "password")
	v.SetDefault("POSTGRES_DB", "collector")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("TARGET_URL", "https://www.ulta.com/brand/ulta-beauty-collection")
	v.SetDefault("DESIRED_COUNT", 500)
	v.SetDefault("OUTPUT_DIR", "outputs")
	v.SetDefault("TRIM_OVERSHOOT", false)
	v.SetDefault("MAX_ATTEMPTS", 10)
	v.SetDefault("WAIT_TIMEOUT_SECONDS", 15)
	v.SetDefault("RETRY_PAUSE_SECONDS", 2)
	v.SetDefault("LIST_WAIT_TIMEOUT_SECONDS", 15)
	v.SetDefault("PAGE_LOAD_TIMEOUT_SECONDS", 90)
	v.SetDefault("HEADLESS", true)
	v.SetDefault("USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	v.SetDefault("USER_AGENTS", []string{})
	v.SetDefault("PROXY_URLS", []string{})
	v.SetDefault("WORKER_POLL_INTERVAL_SECONDS", 2)
	v.SetDefault("SUBMISSION_DEDUP_HOURS", 48)
}

// PostgresURL builds the pgx connection string.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.PostgresUser, c.PostgresPassword, c.PostgresHost, c.PostgresPort, c.PostgresDB)
}

func (c *Config) WaitTimeout() time.Duration {
	return time.Duration(c.WaitTimeoutSecs) * time.Second
}

func (c *Config) RetryPause() time.Duration {
	return time.Duration(c.RetryPauseSecs) * time.Second
}

func (c *Config) ListWaitTimeout() time.Duration {
	return time.Duration(c.ListWaitSecs) * time.Second
}

func (c *Config) PageLoadTimeout() time.Duration {
	return time.Duration(c.PageLoadTimeoutSecs) * time.Second
}

func (c *Config) WorkerPollInterval() time.Duration {
	return time.Duration(c.WorkerPollIntervalSecs) * time.Second
}

func (c *Config) SubmissionDedup() time.Duration {
	return time.Duration(c.SubmissionDedupHours) * time.Hour
}

// UserAgentPool returns USER_AGENTS, falling back to the single USER_AGENT.
func (c *Config) UserAgentPool() []string {
	if len(c.UserAgents) > 0 {
		return c.UserAgents
	}
	if c.UserAgent == "" {
		return nil
	}
	return []string{c.UserAgent}
}
