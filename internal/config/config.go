package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Broadcast BroadcastConfig `yaml:"broadcast"`
}

// AuthConfig holds authentication settings
type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenDuration time.Duration `yaml:"token_duration"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	HTTPPort   int    `yaml:"http_port"`
	StaticDir  string `yaml:"static_dir"`
}

// DatabaseConfig holds SQLite settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// BroadcastConfig holds the embedded message bus settings. Port 0 keeps the
// bus in-process only; a nonzero port also accepts external NATS clients.
type BroadcastConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	Port       int    `yaml:"port"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Set defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = "127.0.0.1"
	}
	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "/var/lib/livescore/livescore.db"
	}
	if cfg.Broadcast.ListenAddr == "" {
		cfg.Broadcast.ListenAddr = "127.0.0.1"
	}
	// Note: StaticDir intentionally has no default - empty means don't serve static files

	// Auth defaults
	if cfg.Auth.TokenDuration == 0 {
		cfg.Auth.TokenDuration = 24 * time.Hour
	}

	return &cfg, nil
}
