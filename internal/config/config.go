package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// defaultBaseURLs is used when api.base_url is left empty.
var defaultBaseURLs = map[string]string{
	"opentdb": "https://opentdb.com",
	"feed":    "http://127.0.0.1:8080",
}

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env     string  `mapstructure:"env"`     // current application environment (local, dev, production)
	Log     Log     `mapstructure:"log"`     // logging section
	API     API     `mapstructure:"api"`     // question source section
	Screen  Screen  `mapstructure:"screen"`  // terminal screen section
	History History `mapstructure:"history"` // answer-check journal section
	Feed    Feed    `mapstructure:"feed"`    // trivia-feed service section
}

type Log struct {
	Level string `mapstructure:"level"` // debug, info, warn, error
	File  string `mapstructure:"file"`  // optional rotated log file
}

type API struct {
	Source      string        `mapstructure:"source"`       // opentdb or feed
	BaseURL     string        `mapstructure:"base_url"`     // base URL of the chosen source
	Amount      int           `mapstructure:"amount"`       // questions per fetch
	Timeout     time.Duration `mapstructure:"timeout"`      // HTTP timeout per fetch
	MinInterval time.Duration `mapstructure:"min_interval"` // minimum spacing between OpenTDB calls
}

type Screen struct {
	Shuffle bool `mapstructure:"shuffle"` // shuffle answers once per question
}

type History struct {
	Path  string `mapstructure:"path"`  // sqlite file; empty disables the journal
	Limit int    `mapstructure:"limit"` // entries shown by the history command
}

type Feed struct {
	Addr string `mapstructure:"addr"` // listen address of the trivia-feed service
}

// Production reports whether the production logger should be used.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// Load reads configuration from an optional .env file, an optional
// config/config.yaml and environment variables, in increasing precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	// Set default values for configuration keys.
	v.SetDefault("env", "local")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("api.source", "opentdb")
	v.SetDefault("api.base_url", "")
	v.SetDefault("api.amount", 10)
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.min_interval", "5s")
	v.SetDefault("screen.shuffle", true)
	v.SetDefault("history.path", "")
	v.SetDefault("history.limit", 10)
	v.SetDefault("feed.addr", ":8080")

	// Map nested keys to ENV style names, e.g. api.base_url -> API_BASE_URL.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.API.Source = strings.ToLower(strings.TrimSpace(c.API.Source))
	switch c.API.Source {
	case "opentdb", "feed":
	default:
		return fmt.Errorf("%w: api.source must be opentdb or feed, got %q", ErrInvalidConfig, c.API.Source)
	}
	c.API.BaseURL = strings.TrimSpace(c.API.BaseURL)
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURLs[c.API.Source]
	}

	if c.API.Amount < 1 || c.API.Amount > 50 {
		return fmt.Errorf("%w: api.amount must be between 1 and 50, got %d", ErrInvalidConfig, c.API.Amount)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("%w: api.timeout must be positive", ErrInvalidConfig)
	}
	if c.API.MinInterval < 0 {
		return fmt.Errorf("%w: api.min_interval must not be negative", ErrInvalidConfig)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("%w: unknown log.level %q", ErrInvalidConfig, c.Log.Level)
	}

	if c.History.Limit <= 0 {
		return fmt.Errorf("%w: history.limit must be positive", ErrInvalidConfig)
	}
	return nil
}
