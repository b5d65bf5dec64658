package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDrive = "drive"
	StorageLocal = "local"

	CredentialBlob     = "blob"
	CredentialPostgres = "postgres"
)

type Config struct {
	App        AppConfig
	JWT        JWTConfig
	Storage    StorageConfig
	Drive      DriveConfig
	Credential CredentialConfig
	Database   DatabaseConfig
	Cache      CacheConfig
	Retry      RetryConfig
	Warmup     WarmupConfig
	CORS       CORSConfig
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
	Timezone string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

type StorageConfig struct {
	Type      string
	LocalPath string
}

// DriveConfig points at the shared Google Drive folder and the service
// account that can read it.
type DriveConfig struct {
	FolderID           string
	ServiceAccountFile string
	ServiceAccountJSON string
}

type CredentialConfig struct {
	Store string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type CacheConfig struct {
	TTL time.Duration
}

type RetryConfig struct {
	Attempts int
	Delay    time.Duration
}

type WarmupConfig struct {
	Interval time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads the server configuration and validates all of it.
func Load() (*Config, error) {
	config, err := parse()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// LoadStores reads the configuration for tools that only touch the shared
// folder and the credential store.
func LoadStores() (*Config, error) {
	config, err := parse()
	if err != nil {
		return nil, err
	}
	if err := config.ValidateStores(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

func parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	} else if err != nil {
		slog.Debug("No .env file, using process environment")
	}

	config := &Config{}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Timezone: getEnv("APP_TIMEZONE", "Asia/Seoul"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "12h"),
	}

	// Storage configuration
	config.Storage = StorageConfig{
		Type:      getEnv("STORAGE_TYPE", StorageDrive),
		LocalPath: getEnv("LOCAL_STORAGE_PATH", "./data"),
	}
	config.Drive = DriveConfig{
		FolderID:           getEnv("DRIVE_FOLDER_ID", ""),
		ServiceAccountFile: getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		ServiceAccountJSON: getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
	}

	// Credential store configuration
	config.Credential = CredentialConfig{
		Store: getEnv("CREDENTIAL_STORE", CredentialBlob),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "pto"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Cache, retry and warm-up configuration
	if config.Cache.TTL, err = getEnvDuration("CACHE_TTL", "10m"); err != nil {
		return nil, err
	}

	retryAttempts, err := strconv.Atoi(getEnv("RETRY_ATTEMPTS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid RETRY_ATTEMPTS: %w", err)
	}
	config.Retry.Attempts = retryAttempts
	if config.Retry.Delay, err = getEnvDuration("RETRY_DELAY", "1s"); err != nil {
		return nil, err
	}

	if config.Warmup.Interval, err = getEnvDuration("WARMUP_INTERVAL", "0"); err != nil {
		return nil, err
	}

	config.CORS = CORSConfig{
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	return c.ValidateStores()
}

// ValidateStores checks the storage, credential store and retry settings.
func (c *Config) ValidateStores() error {
	switch c.Storage.Type {
	case StorageDrive:
		if c.Drive.FolderID == "" {
			return fmt.Errorf("DRIVE_FOLDER_ID is required")
		}
		if c.Drive.ServiceAccountFile == "" && c.Drive.ServiceAccountJSON == "" {
			return fmt.Errorf("GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON is required")
		}
	case StorageLocal:
		if c.Storage.LocalPath == "" {
			return fmt.Errorf("LOCAL_STORAGE_PATH is required")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.Storage.Type)
	}

	switch c.Credential.Store {
	case CredentialBlob:
	case CredentialPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	default:
		return fmt.Errorf("unknown CREDENTIAL_STORE %q", c.Credential.Store)
	}

	if c.Retry.Attempts < 1 {
		return fmt.Errorf("RETRY_ATTEMPTS must be at least 1")
	}
	return nil
}

// Location returns the civil timezone dates are evaluated in.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.App.Timezone)
}

// LogLevel maps LOG_LEVEL to a slog level; unknown values mean info.
func (c *Config) LogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DriveCredentials returns the service account key, preferring the inline
// JSON over the file.
func (c *Config) DriveCredentials() ([]byte, error) {
	if c.Drive.ServiceAccountJSON != "" {
		return []byte(c.Drive.ServiceAccountJSON), nil
	}
	data, err := os.ReadFile(c.Drive.ServiceAccountFile)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return data, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(getEnv(key, fallback))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSpace(v); v != "" {
			result = append(result, v)
		}
	}
	return result
}
