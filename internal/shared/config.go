package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Spotify  SpotifyConfig  `toml:"spotify"`
	Redis    RedisConfig    `toml:"redis"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Insight  InsightConfig  `toml:"insight"`
}

// SpotifyConfig contains the registered OAuth client credentials.
//
// These are opaque per-process constants supplied out-of-band, never user input.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
}

// RedisConfig contains token store connection settings.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// DatabaseConfig contains SQLite settings for session-history persistence.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"`
	RateBurst int     `toml:"rate_burst"`
}

// InsightConfig contains settings for the external insight generation service.
type InsightConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path,
// then applies environment variable overrides.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingConfig, err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	config.ApplyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded
// example config, with environment variable overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.ApplyEnv()
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadEnv loads a .env file from the working directory if one exists.
func LoadEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides configuration values from environment variables.
func (c *Config) ApplyEnv() {
	c.Spotify.ClientID = GetEnv("SPOTIFY_CLIENT_ID", c.Spotify.ClientID)
	c.Spotify.ClientSecret = GetEnv("SPOTIFY_CLIENT_SECRET", c.Spotify.ClientSecret)
	c.Spotify.RedirectURI = GetEnv("SPOTIFY_REDIRECT_URI", c.Spotify.RedirectURI)
	c.Redis.Addr = GetEnv("REDIS_URL", c.Redis.Addr)
	c.Redis.Password = GetEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Database.Path = GetEnv("DATABASE_PATH", c.Database.Path)
	c.Server.Host = GetEnv("HOST", c.Server.Host)
	c.Server.Port = GetEnvAsInt("PORT", c.Server.Port)
	c.Insight.URL = GetEnv("INSIGHT_URL", c.Insight.URL)
	c.Insight.APIKey = GetEnv("INSIGHT_API_KEY", c.Insight.APIKey)
}

// Validate checks that the credentials required for the OAuth flow are present.
func (c *Config) Validate() error {
	if c.Spotify.ClientID == "" || c.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: spotify client_id and client_secret are required", ErrMissingCredentials)
	}
	if c.Spotify.RedirectURI == "" {
		return fmt.Errorf("%w: spotify redirect_uri is required", ErrInvalidConfig)
	}
	return nil
}

// GetEnv returns the value of the environment variable or the fallback when unset.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsInt returns the environment variable parsed as an int, or the fallback
// when unset or unparseable.
func GetEnvAsInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
