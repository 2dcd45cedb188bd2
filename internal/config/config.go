package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `json:"server"`
	Storage  StorageConfig  `json:"storage"`
	Renderer RendererConfig `json:"renderer"`
	Upload   UploadConfig   `json:"upload"`
	Logging  LoggingConfig  `json:"logging"`
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host             string `json:"host"`
	Port             int    `json:"port"`
	ReadTimeoutSecs  int    `json:"read_timeout_seconds"`
	WriteTimeoutSecs int    `json:"write_timeout_seconds"`
}

// StorageConfig holds object-store defaults for the upload variants.
type StorageConfig struct {
	Region         string `json:"region"`
	Bucket         string `json:"bucket"`
	KeyPrefix      string `json:"key_prefix"`
	PresignTTLSecs int    `json:"presign_ttl_seconds"`
}

// RendererConfig controls the external LibreOffice invocation.
type RendererConfig struct {
	BinaryPath       string `json:"binary_path"`
	Workspace        string `json:"workspace"`
	TimeoutSecs      int    `json:"timeout_seconds"`
	JanitorSchedule  string `json:"janitor_schedule"`
	JanitorMaxAgeMin int    `json:"janitor_max_age_minutes"`
}

// UploadConfig bounds incoming template uploads.
type UploadConfig struct {
	MaxFileBytes int64 `json:"max_file_bytes"`
}

// LoggingConfig
type LoggingConfig struct {
	Level string `json:"level"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// Default config
	config := &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeoutSecs: 30,
			// Must exceed the renderer timeout or long conversions are
			// cut off mid-response.
			WriteTimeoutSecs: 180,
		},
		Storage: StorageConfig{
			Bucket:         "assinaai-temp",
			PresignTTLSecs: 86400,
		},
		Renderer: RendererConfig{
			TimeoutSecs:      120,
			JanitorSchedule:  "@every 30m",
			JanitorMaxAgeMin: 60,
		},
		Upload: UploadConfig{
			MaxFileBytes: 10 * 1024 * 1024,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}

	// Load from file if exists
	if configPath != "" {
		if data, err := os.ReadFile(configPath); err == nil {
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	// Override with environment variables
	overrideWithEnv(config)

	return config, nil
}

func overrideWithEnv(config *Config) {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if timeout := os.Getenv("SERVER_READ_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			config.Server.ReadTimeoutSecs = t
		}
	}
	if timeout := os.Getenv("SERVER_WRITE_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			config.Server.WriteTimeoutSecs = t
		}
	}
	if region := os.Getenv("STORAGE_REGION"); region != "" {
		config.Storage.Region = region
	}
	if bucket := os.Getenv("STORAGE_BUCKET"); bucket != "" {
		config.Storage.Bucket = bucket
	}
	if prefix := os.Getenv("STORAGE_KEY_PREFIX"); prefix != "" {
		config.Storage.KeyPrefix = prefix
	}
	if ttl := os.Getenv("STORAGE_PRESIGN_TTL"); ttl != "" {
		if t, err := strconv.Atoi(ttl); err == nil {
			config.Storage.PresignTTLSecs = t
		}
	}
	if path := os.Getenv("SOFFICE_PATH"); path != "" {
		config.Renderer.BinaryPath = path
	}
	if workspace := os.Getenv("RENDER_WORKSPACE"); workspace != "" {
		config.Renderer.Workspace = workspace
	}
	if timeout := os.Getenv("RENDER_TIMEOUT"); timeout != "" {
		if t, err := strconv.Atoi(timeout); err == nil {
			config.Renderer.TimeoutSecs = t
		}
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// GetServerAddr returns the server address
func (c *ServerConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ReadTimeout returns the server read timeout as a duration.
func (c *ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSecs) * time.Second
}

// WriteTimeout returns the server write timeout as a duration.
func (c *ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSecs) * time.Second
}

// PresignTTL returns the presign TTL as a duration.
func (c *StorageConfig) PresignTTL() time.Duration {
	return time.Duration(c.PresignTTLSecs) * time.Second
}

// Timeout returns the renderer timeout as a duration.
func (c *RendererConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// JanitorMaxAge returns the janitor age cutoff as a duration.
func (c *RendererConfig) JanitorMaxAge() time.Duration {
	return time.Duration(c.JanitorMaxAgeMin) * time.Minute
}
