package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"marketwatch/internal/aggregate"
	"marketwatch/internal/logging"
)

type Server struct {
	Port              string `mapstructure:"port"`
	RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
}

// RequestTimeout bounds one upstream call made on behalf of an API request.
func (s Server) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSec) * time.Second
}

type AlphaVantage struct {
	APIKey               string `mapstructure:"api_key"`
	BaseURL              string `mapstructure:"base_url"`
	MaxRequestsPerMinute int    `mapstructure:"max_requests_per_minute"`
	Burst                int    `mapstructure:"burst"`
	MaxRetries           int    `mapstructure:"max_retries"`
	BreakerFailures      int    `mapstructure:"breaker_failures"`
	BreakerCooldownSec   int    `mapstructure:"breaker_cooldown_sec"`
}

type News struct {
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Language string `mapstructure:"language"`
}

type Watchlist struct {
	MaxStocks          int    `mapstructure:"max_stocks"`
	MaxPairs           int    `mapstructure:"max_pairs"`
	PairPolicy         string `mapstructure:"pair_policy"`
	RefreshConcurrency int    `mapstructure:"refresh_concurrency"`
}

type Content struct {
	// Path overrides the embedded topic catalog when set.
	Path string `mapstructure:"path"`
}

type Config struct {
	Server       Server         `mapstructure:"server"`
	AlphaVantage AlphaVantage   `mapstructure:"alphavantage"`
	News         News           `mapstructure:"news"`
	Watchlist    Watchlist      `mapstructure:"watchlist"`
	Log          logging.Config `mapstructure:"log"`
	Content      Content        `mapstructure:"content"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 10},
		AlphaVantage: AlphaVantage{
			BaseURL:              "https://www.alphavantage.co",
			MaxRequestsPerMinute: 5,
			Burst:                1,
			MaxRetries:           1,
			BreakerFailures:      5,
			BreakerCooldownSec:   30,
		},
		News: News{
			BaseURL:  "https://min-api.cryptocompare.com",
			Language: "EN",
		},
		Watchlist: Watchlist{
			MaxStocks:          5,
			MaxPairs:           5,
			PairPolicy:         aggregate.AppendAlways.String(),
			RefreshConcurrency: 2,
		},
		Log: logging.Config{
			Level:      "info",
			Format:     "json",
			Output:     "stdout",
			FilePath:   "logs/marketwatch.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// envAliases are short variable names accepted next to the derived
// SECTION_KEY form.
var envAliases = map[string]string{
	"server.port":                "PORT",
	"server.request_timeout_sec": "REQUEST_TIMEOUT_SEC",
	"log.level":                  "LOG_LEVEL",
}

// Load reads config from path (JSON, YAML or TOML by extension). If path is
// empty, config.json in the working directory is used when present. A missing
// file yields the defaults. A .env file is loaded first, and environment
// variables override file values, e.g. ALPHAVANTAGE_API_KEY or
// WATCHLIST_PAIR_POLICY.
func Load(path string) (Config, error) {
	loadDotenv()

	cfg := Default()
	v := viper.New()
	setDefaults(v, cfg)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envAliases {
		if err := v.BindEnv(key, strings.ToUpper(strings.NewReplacer(".", "_").Replace(key)), env); err != nil {
			return cfg, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects values no component can run with.
func (c Config) Validate() error {
	var errs []error
	if _, err := aggregate.ParsePolicy(c.Watchlist.PairPolicy); err != nil {
		errs = append(errs, fmt.Errorf("watchlist.pair_policy: %w", err))
	}
	if c.Watchlist.MaxStocks <= 0 {
		errs = append(errs, errors.New("watchlist.max_stocks must be positive"))
	}
	if c.Watchlist.MaxPairs <= 0 {
		errs = append(errs, errors.New("watchlist.max_pairs must be positive"))
	}
	if c.AlphaVantage.MaxRetries < 0 {
		errs = append(errs, errors.New("alphavantage.max_retries must not be negative"))
	}
	if c.Server.RequestTimeoutSec <= 0 {
		errs = append(errs, errors.New("server.request_timeout_sec must be positive"))
	}
	return errors.Join(errs...)
}

// setDefaults registers every key so AutomaticEnv can see it during Unmarshal.
func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.request_timeout_sec", cfg.Server.RequestTimeoutSec)

	v.SetDefault("alphavantage.api_key", cfg.AlphaVantage.APIKey)
	v.SetDefault("alphavantage.base_url", cfg.AlphaVantage.BaseURL)
	v.SetDefault("alphavantage.max_requests_per_minute", cfg.AlphaVantage.MaxRequestsPerMinute)
	v.SetDefault("alphavantage.burst", cfg.AlphaVantage.Burst)
	v.SetDefault("alphavantage.max_retries", cfg.AlphaVantage.MaxRetries)
	v.SetDefault("alphavantage.breaker_failures", cfg.AlphaVantage.BreakerFailures)
	v.SetDefault("alphavantage.breaker_cooldown_sec", cfg.AlphaVantage.BreakerCooldownSec)

	v.SetDefault("news.base_url", cfg.News.BaseURL)
	v.SetDefault("news.api_key", cfg.News.APIKey)
	v.SetDefault("news.language", cfg.News.Language)

	v.SetDefault("watchlist.max_stocks", cfg.Watchlist.MaxStocks)
	v.SetDefault("watchlist.max_pairs", cfg.Watchlist.MaxPairs)
	v.SetDefault("watchlist.pair_policy", cfg.Watchlist.PairPolicy)
	v.SetDefault("watchlist.refresh_concurrency", cfg.Watchlist.RefreshConcurrency)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.output", cfg.Log.Output)
	v.SetDefault("log.file_path", cfg.Log.FilePath)
	v.SetDefault("log.max_size", cfg.Log.MaxSize)
	v.SetDefault("log.max_backups", cfg.Log.MaxBackups)
	v.SetDefault("log.max_age", cfg.Log.MaxAge)
	v.SetDefault("log.compress", cfg.Log.Compress)

	v.SetDefault("content.path", cfg.Content.Path)
}

// loadDotenv loads ENV_FILE, or .env from the working directory. Variables
// already set in the environment win. NO_DOTENV=1 skips it.
func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}
	path := ".env"
	if f := os.Getenv("ENV_FILE"); f != "" {
		path = f
	}
	_ = godotenv.Load(path)
}
