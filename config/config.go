package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Upload   UploadConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// AuthConfig holds token signing configuration
type AuthConfig struct {
	JWTSecret     string
	TokenTTLHours int // token validity in hours (720 = 30 days)
}

// UploadConfig holds evidence upload configuration
type UploadConfig struct {
	BasePath               string // directory for stored evidence files
	MaxUploadMB            int64  // maximum accepted upload size in MiB
	JanitorIntervalSeconds int    // stale temp-file sweep interval (0 = default)
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnv("DB_PORT", "3306"),
			User:     getEnv("DB_USER", "root"),
			Password: os.Getenv("DB_PASSWORD"),
			DBName:   getEnv("DB_NAME", "crimesafenet"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("PORT", getEnv("SERVER_PORT", "5000")),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", "change-me-in-production"),
			TokenTTLHours: getEnvInt("TOKEN_TTL_HOURS", 720),
		},
		Upload: UploadConfig{
			BasePath:               getEnv("UPLOAD_BASE_PATH", "uploads"),
			MaxUploadMB:            int64(getEnvInt("MAX_UPLOAD_MB", 50)),
			JanitorIntervalSeconds: getEnvInt("UPLOAD_JANITOR_INTERVAL_SECONDS", 0),
		},
	}
}

// MaxUploadBytes returns the upload size cap in bytes.
func (u UploadConfig) MaxUploadBytes() int64 {
	return u.MaxUploadMB * 1024 * 1024
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
