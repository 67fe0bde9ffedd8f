// Package config loads application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Auth      AuthConfig      `yaml:"auth"`
	Blob      BlobConfig      `yaml:"blob"`
	Search    SearchConfig    `yaml:"search"`
	Radio     RadioConfig     `yaml:"radio"`
	Translate TranslateConfig `yaml:"translate"`
	Uptime    UptimeConfig    `yaml:"uptime"`
	Sentry    SentryConfig    `yaml:"sentry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     int    `yaml:"port"`
	BasePath string `yaml:"base_path"`
}

// MongoConfig holds document database settings.
type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// AuthConfig holds authentication settings.
type AuthConfig struct {
	// Secret signs access tokens. Required outside of tests.
	Secret string `yaml:"secret"`
	// TokenLifeMinutes is the access token lifetime. Defaults to 60.
	TokenLifeMinutes int `yaml:"token_life_minutes"`
	// RefreshStorePath is the SQLite file backing the refresh token store.
	// Empty means refresh tokens live in memory only.
	RefreshStorePath string `yaml:"refresh_store_path"`
}

// BlobConfig holds S3-compatible object storage settings.
type BlobConfig struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	Bucket    string `yaml:"bucket"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// SearchConfig holds search index settings.
type SearchConfig struct {
	AppID           string `yaml:"app_id"`
	AdminKey        string `yaml:"admin_key"`
	IndexArtists    string `yaml:"index_artists"`
	IndexShows      string `yaml:"index_shows"`
	IndexRecordings string `yaml:"index_recordings"`
	IndexBlogPosts  string `yaml:"index_blog_posts"`
	IndexProjects   string `yaml:"index_projects"`
	ReindexCron     string `yaml:"reindex_cron"`
	ReindexEnabled  bool   `yaml:"reindex_enabled"`
}

// RadioConfig holds the radio metadata API settings.
type RadioConfig struct {
	BaseURL string `yaml:"base_url"`
}

// TranslateConfig holds the translation progress API settings.
type TranslateConfig struct {
	AccountKey string `yaml:"account_key"`
	Project    string `yaml:"project"`
	Login      string `yaml:"login"`
}

// UptimeConfig holds the uptime monitor API settings.
type UptimeConfig struct {
	APIKey string `yaml:"api_key"`
}

// SentryConfig holds error tracking settings.
type SentryConfig struct {
	DSN         string `yaml:"dsn"`
	Environment string `yaml:"environment"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"`
	FilePath string `yaml:"file_path"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "radiorasclat",
		},
		Auth: AuthConfig{
			TokenLifeMinutes: 60,
		},
		Search: SearchConfig{
			IndexArtists:    "artists",
			IndexShows:      "shows",
			IndexRecordings: "recordings",
			IndexBlogPosts:  "blog_posts",
			IndexProjects:   "projects",
			ReindexCron:     "0 */12 * * *",
			ReindexEnabled:  true,
		},
		Translate: TranslateConfig{
			Project: "radio-rasclat-web",
			Login:   "dmnktoe",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() {
	if v := os.Getenv("RR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("RR_BASE_PATH"); v != "" {
		c.Server.BasePath = v
	}
	if v := os.Getenv("RR_MONGODB_URI"); v != "" {
		c.Mongo.URI = v
	}
	if v := os.Getenv("RR_MONGODB_DATABASE"); v != "" {
		c.Mongo.Database = v
	}
	if v := os.Getenv("RR_AUTH_SECRET"); v != "" {
		c.Auth.Secret = v
	}
	if v := os.Getenv("RR_TOKEN_LIFE_MINUTES"); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil {
			c.Auth.TokenLifeMinutes = minutes
		}
	}
	if v := os.Getenv("RR_REFRESH_STORE_PATH"); v != "" {
		c.Auth.RefreshStorePath = v
	}
	if v := os.Getenv("RR_BLOB_ENDPOINT"); v != "" {
		c.Blob.Endpoint = v
	}
	if v := os.Getenv("RR_BLOB_REGION"); v != "" {
		c.Blob.Region = v
	}
	if v := os.Getenv("RR_BLOB_BUCKET"); v != "" {
		c.Blob.Bucket = v
	}
	if v := os.Getenv("RR_BLOB_ACCESS_KEY"); v != "" {
		c.Blob.AccessKey = v
	}
	if v := os.Getenv("RR_BLOB_SECRET_KEY"); v != "" {
		c.Blob.SecretKey = v
	}
	if v := os.Getenv("RR_ALGOLIA_APP_ID"); v != "" {
		c.Search.AppID = v
	}
	if v := os.Getenv("RR_ALGOLIA_ADMIN_KEY"); v != "" {
		c.Search.AdminKey = v
	}
	if v := os.Getenv("RR_RADIO_URL"); v != "" {
		c.Radio.BaseURL = v
	}
	if v := os.Getenv("RR_CROWDIN_ACCOUNT_KEY"); v != "" {
		c.Translate.AccountKey = v
	}
	if v := os.Getenv("RR_CROWDIN_LOGIN"); v != "" {
		c.Translate.Login = v
	}
	if v := os.Getenv("RR_UPTIME_API_KEY"); v != "" {
		c.Uptime.APIKey = v
	}
	if v := os.Getenv("RR_SENTRY_DSN"); v != "" {
		c.Sentry.DSN = v
	}
	if v := os.Getenv("RR_SENTRY_ENVIRONMENT"); v != "" {
		c.Sentry.Environment = v
	}
	if v := os.Getenv("RR_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("RR_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("RR_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo uri is required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo database name is required")
	}
	if c.Auth.TokenLifeMinutes <= 0 {
		c.Auth.TokenLifeMinutes = 60
	}
	c.Server.BasePath = strings.TrimRight(c.Server.BasePath, "/")
	return nil
}
