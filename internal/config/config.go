package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Reddit     RedditConfig     `mapstructure:"reddit"`
	Gemini     GeminiConfig     `mapstructure:"gemini"`
	Processing ProcessingConfig `mapstructure:"processing"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Output     OutputConfig     `mapstructure:"output"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

type RedditConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	UserAgent    string `mapstructure:"user_agent"`
}

type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	BaseURL     string  `mapstructure:"base_url"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// ProcessingConfig controls the triage pipeline and content extraction.
// MaxCommentsProcess caps the heuristic pre-filter before enrichment;
// CommentQualityThreshold gates enriched comments after it. They control
// different stages and stay independent on purpose.
type ProcessingConfig struct {
	MaxCommentsProcess      int     `mapstructure:"max_comments_process"`
	CommentQualityThreshold float64 `mapstructure:"comment_quality_threshold"`
	BatchSize               int     `mapstructure:"batch_size"`
	CacheExpiryHours        int     `mapstructure:"cache_expiry_hours"`
	UseParallelProcessing   bool    `mapstructure:"use_parallel_processing"`
	OCRLanguage             string  `mapstructure:"ocr_language"`
	LinkFetchTimeout        int     `mapstructure:"link_fetch_timeout"` // seconds
}

type CacheConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, postgres
	Path   string `mapstructure:"path"`   // sqlite file path
	DSN    string `mapstructure:"dsn"`    // postgres DSN
}

type OutputConfig struct {
	Format          string `mapstructure:"format"` // json, markdown, both
	OutputDirectory string `mapstructure:"output_directory"`
	SaveToFile      bool   `mapstructure:"save_to_file"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// CacheExpiry returns the configured expiry window as a duration.
func (p ProcessingConfig) CacheExpiry() time.Duration {
	return time.Duration(p.CacheExpiryHours) * time.Hour
}

// LinkTimeout returns the configured link fetch timeout as a duration.
func (p ProcessingConfig) LinkTimeout() time.Duration {
	return time.Duration(p.LinkFetchTimeout) * time.Second
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("reddit.user_agent", "threadlens/0.1")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com/v1beta")
	v.SetDefault("gemini.temperature", 0.3)
	v.SetDefault("gemini.max_tokens", 8192)
	v.SetDefault("processing.max_comments_process", 100)
	v.SetDefault("processing.comment_quality_threshold", 2.0)
	v.SetDefault("processing.batch_size", 20)
	v.SetDefault("processing.cache_expiry_hours", 24)
	v.SetDefault("processing.use_parallel_processing", true)
	v.SetDefault("processing.ocr_language", "en")
	v.SetDefault("processing.link_fetch_timeout", 10)
	v.SetDefault("cache.driver", "sqlite")
	v.SetDefault("cache.path", "./data/threadlens_cache.db")
	v.SetDefault("output.format", "both")
	v.SetDefault("output.output_directory", "./analysis_results")
	v.SetDefault("output.save_to_file", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for credentials
	v.BindEnv("reddit.client_id", "REDDIT_CLIENT_ID")
	v.BindEnv("reddit.client_secret", "REDDIT_CLIENT_SECRET")
	v.BindEnv("reddit.user_agent", "REDDIT_USER_AGENT")
	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
	v.BindEnv("gemini.model", "GEMINI_MODEL")
	v.BindEnv("cache.dsn", "CACHE_DSN")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
