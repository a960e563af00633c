package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	NewsProviderGNews = "gnews"
	NewsProviderRSS   = "rss"

	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Config struct {
	NewsProvider    string  `envconfig:"NEWS_PROVIDER" default:"gnews"`
	GNewsAPIKey     string  `envconfig:"GNEWS_API_KEY"`
	GNewsBaseURL    string  `envconfig:"GNEWS_BASE_URL" default:"https://gnews.io/api/v4"`
	NewsCountry     string  `envconfig:"NEWS_COUNTRY" default:"gb"`
	NewsLanguage    string  `envconfig:"NEWS_LANGUAGE" default:"en"`
	NewsMaxArticles int     `envconfig:"NEWS_MAX_ARTICLES" default:"10"`
	NewsRateLimit   float64 `envconfig:"NEWS_RATE_LIMIT" default:"1"`
	RSSBaseURL      string  `envconfig:"RSS_BASE_URL" default:"https://news.google.com"`

	// LLM要約機能の設定
	LLMProvider    string  `envconfig:"LLM_PROVIDER" default:"noop"`
	LLMAPIKey      string  `envconfig:"LLM_API_KEY"`
	LLMModel       string  `envconfig:"LLM_MODEL"`
	LLMBaseURL     string  `envconfig:"LLM_BASE_URL"`
	LLMRegion      string  `envconfig:"LLM_REGION"`
	LLMMaxTokens   int     `envconfig:"LLM_MAX_TOKENS" default:"0"`
	LLMTimeout     int     `envconfig:"LLM_TIMEOUT" default:"30"`
	LLMTemperature float64 `envconfig:"LLM_TEMPERATURE" default:"0"`

	StorageDriver  string `envconfig:"STORAGE_DRIVER" default:"sqlite"`
	BookmarkDBPath string `envconfig:"BOOKMARK_DB_PATH"`

	// 記事内容が途中で切れている場合にWebページから本文を取得する
	SummaryFetchFullText bool `envconfig:"SUMMARY_FETCH_FULL_TEXT" default:"false"`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LLMConfig はLLM要約機能の設定
type LLMConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Region      string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	c.NewsProvider = strings.ToLower(c.NewsProvider)
	switch c.NewsProvider {
	case NewsProviderGNews, NewsProviderRSS:
	default:
		return fmt.Errorf("unknown NEWS_PROVIDER %q (expected %q or %q)", c.NewsProvider, NewsProviderGNews, NewsProviderRSS)
	}

	c.StorageDriver = strings.ToLower(c.StorageDriver)
	switch c.StorageDriver {
	case StorageSQLite, StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q (expected %q or %q)", c.StorageDriver, StorageSQLite, StorageMemory)
	}

	if c.NewsMaxArticles <= 0 {
		return fmt.Errorf("NEWS_MAX_ARTICLES must be positive, got %d", c.NewsMaxArticles)
	}
	if c.LLMTimeout < 0 {
		return fmt.Errorf("LLM_TIMEOUT must not be negative, got %d", c.LLMTimeout)
	}

	return nil
}

// RequireNewsAPIKey はキーが必要なプロバイダでキーが未設定の場合にエラーを返します
func (c *Config) RequireNewsAPIKey() error {
	if c.NewsProvider == NewsProviderGNews && c.GNewsAPIKey == "" {
		return fmt.Errorf("GNEWS_API_KEY is required when NEWS_PROVIDER is %q", NewsProviderGNews)
	}
	return nil
}

func (c *Config) GetLLMConfig() LLMConfig {
	return LLMConfig{
		Provider:    c.LLMProvider,
		APIKey:      c.LLMAPIKey,
		Model:       c.LLMModel,
		BaseURL:     c.LLMBaseURL,
		Region:      c.LLMRegion,
		MaxTokens:   c.LLMMaxTokens,
		Temperature: c.LLMTemperature,
		Timeout:     c.GetLLMTimeout(),
	}
}

func (c *Config) GetLLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeout) * time.Second
}

// GetBookmarkDBPath はBOOKMARK_DB_PATHを返します。未設定ならXDGデータディレクトリ配下のファイル
func (c *Config) GetBookmarkDBPath() string {
	if c.BookmarkDBPath != "" {
		return c.BookmarkDBPath
	}
	return filepath.Join(xdg.DataHome, "orangenews", "bookmarks.db")
}

// GetLogLevel はLOG_LEVELを解釈します。不明な値はinfoとして扱う
func (c *Config) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
