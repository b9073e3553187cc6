package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	TokenTTL               time.Duration
	InstructorEmail        string
	InstructorPasswordHash string
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	HistoryCacheTTL        time.Duration
	PhotoMaxSizeMB         int
	LoginRateLimit         int
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("DOJO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "DojoTrack API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cloudinary.folder", "dojotrack/profiles")
	v.SetDefault("history.cache_ttl", "5m")
	v.SetDefault("jwt.token_ttl", "24h")
	v.SetDefault("photo.max_size_mb", 5)
	v.SetDefault("login.rate_limit", 5)

	ttlString := v.GetString("history.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	cacheTTL, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid history cache ttl: %w", err)
	}

	tokenTTLString := v.GetString("jwt.token_ttl")
	if tokenTTLString == "" {
		tokenTTLString = "24h"
	}

	tokenTTL, err := time.ParseDuration(tokenTTLString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid token ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		TokenTTL:               tokenTTL,
		InstructorEmail:        strings.ToLower(v.GetString("instructor.email")),
		InstructorPasswordHash: v.GetString("instructor.password_hash"),
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		HistoryCacheTTL:        cacheTTL,
		PhotoMaxSizeMB:         v.GetInt("photo.max_size_mb"),
		LoginRateLimit:         v.GetInt("login.rate_limit"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	if cfg.InstructorEmail == "" || cfg.InstructorPasswordHash == "" {
		return Config{}, fmt.Errorf("instructor credentials must be provided")
	}

	if cfg.PhotoMaxSizeMB <= 0 {
		cfg.PhotoMaxSizeMB = 5
	}

	if cfg.LoginRateLimit <= 0 {
		cfg.LoginRateLimit = 5
	}

	return cfg, nil
}
