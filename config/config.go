package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	Client    ClientConfig
	DevServer DevServerConfig
}

// ClientConfig holds settings for the API client and terminal UI.
type ClientConfig struct {
	APIBaseURL string // e.g. http://localhost:8000/api
	TokenPath  string // where the bearer credential is persisted
	TimeoutSec int
}

// DevServerConfig holds settings for the local development API server.
type DevServerConfig struct {
	Port               string
	JWTSecret          string
	TokenTTLHours      int
	CORSAllowedOrigins string // comma-separated, or "*" for all
	AdminEmail         string // seeded admin account; empty disables seeding
	AdminPassword      string
	AdminName          string
}

// Load reads configuration from environment, with optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Client: ClientConfig{
			APIBaseURL: getEnv("API_BASE_URL", "http://localhost:8000/api"),
			TokenPath:  getEnv("TOKEN_PATH", defaultTokenPath()),
			TimeoutSec: getEnvInt("HTTP_TIMEOUT_SEC", 30),
		},
		DevServer: DevServerConfig{
			Port:               getEnv("PORT", "8000"),
			JWTSecret:          getEnv("JWT_SECRET", "nosa-terra-secret-key-2024"),
			TokenTTLHours:      getEnvInt("JWT_EXPIRE_HOURS", 30*24),
			CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "*"),
			AdminEmail:         getEnv("ADMIN_EMAIL", ""),
			AdminPassword:      getEnv("ADMIN_PASSWORD", ""),
			AdminName:          getEnv("ADMIN_NAME", "Admin"),
		},
	}
	return cfg, nil
}

func defaultTokenPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", ".comparsa-token")
	}
	return filepath.Join(dir, "comparsa", "token")
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
