package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration
type Config struct {
	Database      DatabaseConfig `yaml:"database,omitempty"`
	Server        ServerConfig   `yaml:"server,omitempty"`
	Gemini        GeminiConfig   `yaml:"gemini,omitempty"`
	MQTT          MQTTConfig     `yaml:"mqtt,omitempty"`
	HomeAssistant HAConfig       `yaml:"home_assistant,omitempty"`
	Log           LogConfig      `yaml:"log,omitempty"`
}

// DatabaseConfig holds the SQLite location
type DatabaseConfig struct {
	Path string `yaml:"path,omitempty"` // default: data.db
}

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Addr            string        `yaml:"addr,omitempty"`             // default: :5000
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout,omitempty"` // default: 10s
}

// GeminiConfig holds the language model settings. An empty APIKey disables
// the model and every analysis uses the built-in rules.
type GeminiConfig struct {
	APIKey          string        `yaml:"api_key,omitempty"`
	Model           string        `yaml:"model,omitempty"`
	Endpoint        string        `yaml:"endpoint,omitempty"`
	MaxOutputTokens int           `yaml:"max_output_tokens,omitempty"`
	Timeout         time.Duration `yaml:"timeout,omitempty"`
}

// MQTTConfig holds MQTT broker settings for publishing analyses
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`                 // e.g., "homeassistant.local:1883"
	Username    string `yaml:"username,omitempty"`
	Password    string `yaml:"password,omitempty"`
	TopicPrefix string `yaml:"topic_prefix,omitempty"` // default: energyadvisor
}

// HAConfig holds Home Assistant HTTP API configuration
type HAConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URL      string `yaml:"url"`       // e.g., "http://homeassistant.local:8123"
	Token    string `yaml:"token"`     // Long-lived access token
	EntityID string `yaml:"entity_id"` // e.g., "sensor.household_monthly_kwh"
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn, error
	Format string `yaml:"format,omitempty"` // text or json
}

// Load reads the config file and applies environment overrides
func Load(configPath string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		// Missing file means defaults
	case err != nil:
		return nil, fmt.Errorf("reading config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentVariables()
	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// applyEnvironmentVariables overrides config with environment variables
func (c *Config) applyEnvironmentVariables() {
	if val := os.Getenv("GEMINI_API_KEY"); val != "" {
		c.Gemini.APIKey = val
	}
	if val := os.Getenv("ENERGYADVISOR_DB"); val != "" {
		c.Database.Path = val
	}
	if val := os.Getenv("ENERGYADVISOR_ADDR"); val != "" {
		c.Server.Addr = val
	}
	if val := os.Getenv("ENERGYADVISOR_LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
}

// Validate checks the sections that are switched on
func (c *Config) Validate() error {
	var problems []string

	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		problems = append(problems, "mqtt.broker is required when mqtt is enabled")
	}
	if c.HomeAssistant.Enabled {
		if c.HomeAssistant.URL == "" {
			problems = append(problems, "home_assistant.url is required when enabled")
		}
		if c.HomeAssistant.Token == "" {
			problems = append(problems, "home_assistant.token is required when enabled")
		}
		if c.HomeAssistant.EntityID == "" {
			problems = append(problems, "home_assistant.entity_id is required when enabled")
		}
	}
	if c.Gemini.MaxOutputTokens < 0 {
		problems = append(problems, "gemini.max_output_tokens must not be negative")
	}
	if f := strings.ToLower(c.Log.Format); f != "" && f != "text" && f != "json" {
		problems = append(problems, "log.format must be text or json")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(problems, "\n  - "))
	}
	return nil
}

// GetDBPath returns the database file path with a default of data.db
func (c *Config) GetDBPath() string {
	if c.Database.Path == "" {
		return "data.db"
	}
	return c.Database.Path
}

// GetAddr returns the HTTP listen address with a default of :5000
func (c *Config) GetAddr() string {
	if c.Server.Addr == "" {
		return ":5000"
	}
	return c.Server.Addr
}

// GetShutdownTimeout returns the graceful shutdown window with a default of 10s
func (c *Config) GetShutdownTimeout() time.Duration {
	if c.Server.ShutdownTimeout <= 0 {
		return 10 * time.Second
	}
	return c.Server.ShutdownTimeout
}

// GetTopicPrefix returns the MQTT topic prefix with a default of energyadvisor
func (c *Config) GetTopicPrefix() string {
	if c.MQTT.TopicPrefix == "" {
		return "energyadvisor"
	}
	return c.MQTT.TopicPrefix
}

// GetLogLevel returns the log level with a default of info
func (c *Config) GetLogLevel() string {
	if c.Log.Level == "" {
		return "info"
	}
	return c.Log.Level
}

// GetLogFormat returns the log format with a default of text
func (c *Config) GetLogFormat() string {
	if c.Log.Format == "" {
		return "text"
	}
	return c.Log.Format
}
