// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ServerConfig holds all server-related settings
type ServerConfig struct {
	Port           int
	Host           string
	MetricsEnabled bool
}

// DatabaseConfig holds MongoDB connection settings
type DatabaseConfig struct {
	URI  string
	Name string
}

// AuthConfig holds session token settings
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

// AssetHostConfig holds credentials for the external image host
type AssetHostConfig struct {
	CloudName    string
	APIKey       string
	APISecret    string
	UploadFolder string
}

// Config holds the complete application configuration
type Config struct {
	Server         *ServerConfig
	Database       *DatabaseConfig
	Auth           *AuthConfig
	Assets         *AssetHostConfig
	AllowedOrigins []string
	Debug          bool
}

// DefaultConfig provides default server settings
func DefaultConfig() *ServerConfig {
	return &ServerConfig{
		Port:           8080,
		Host:           "0.0.0.0",
		MetricsEnabled: true,
	}
}

// DefaultDatabaseConfig provides default database settings
func DefaultDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URI:  "mongodb://localhost:27017",
		Name: "lostnfound",
	}
}

// LoadConfig loads configuration from environment variables and applies defaults
func LoadConfig() (*Config, error) {
	// Try to load .env file from multiple possible locations
	envLocations := []string{
		".env",          // Current directory
		"../../.env",    // Project root when running from cmd/server
		"../../../.env", // Even higher directory
		filepath.Join(os.Getenv("GOPATH"), "src/LostnFound/.env"), // GOPATH location
	}

	envLoaded := false
	for _, location := range envLocations {
		if err := godotenv.Load(location); err == nil {
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		// Silent failure if no .env exists, which is fine
		_ = godotenv.Load()
	}

	serverConfig := DefaultConfig()

	if portStr := os.Getenv("PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			serverConfig.Port = port
		}
	}

	if host := os.Getenv("HOST"); host != "" {
		serverConfig.Host = host
	}

	if metricsEnabled := os.Getenv("METRICS_ENABLED"); metricsEnabled != "" {
		serverConfig.MetricsEnabled = metricsEnabled == "true"
	}

	dbConfig := DefaultDatabaseConfig()
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		dbConfig.URI = uri
	}
	if name := os.Getenv("DB_NAME"); name != "" {
		dbConfig.Name = name
	}

	authConfig := &AuthConfig{
		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  24 * time.Hour,
	}
	if authConfig.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if ttlStr := os.Getenv("TOKEN_TTL_HOURS"); ttlStr != "" {
		if hours, err := strconv.Atoi(ttlStr); err == nil && hours > 0 {
			authConfig.TokenTTL = time.Duration(hours) * time.Hour
		}
	}

	assetConfig := &AssetHostConfig{
		CloudName:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		APIKey:       os.Getenv("CLOUDINARY_API_KEY"),
		APISecret:    os.Getenv("CLOUDINARY_API_SECRET"),
		UploadFolder: getEnvOrDefault("CLOUDINARY_FOLDER", "lostnfound"),
	}
	if assetConfig.CloudName == "" || assetConfig.APIKey == "" || assetConfig.APISecret == "" {
		return nil, fmt.Errorf("CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}

	config := &Config{
		Server:         serverConfig,
		Database:       dbConfig,
		Auth:           authConfig,
		Assets:         assetConfig,
		AllowedOrigins: []string{"*"}, // Default to allow all origins
		Debug:          false,
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		config.Debug = true
	}

	return config, nil
}

// Helper function to get environment variable with default fallback
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
