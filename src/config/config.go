package config

import (
	"fmt"
	"os"

	"ofs-monitor/src/helpers"
	"ofs-monitor/src/models"

	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from YAML file
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}
	config.applyDefaults()

	// 3. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, helpers.NewConfigurationError("config validation failed", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

// applyDefaults fills in optional fields left empty in the YAML file
func (c *Config) applyDefaults() {
	if c.Broadcast.PeriodMs == 0 {
		c.Broadcast.PeriodMs = models.DefaultBroadcastPeriodMs
	}
	if c.Broadcast.StaleAfterSeconds == 0 {
		c.Broadcast.StaleAfterSeconds = models.DefaultStaleAfterSeconds
	}
	if c.Collectors.NSE.IntervalSeconds == 0 {
		c.Collectors.NSE.IntervalSeconds = models.DefaultNSEIntervalSeconds
	}
	if c.Collectors.BSE.IntervalSeconds == 0 {
		c.Collectors.BSE.IntervalSeconds = models.DefaultBSEIntervalSeconds
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	// Validate App configuration (Flattened)
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Validate Server configuration (Flattened)
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	// Validate Issue configuration
	if c.Issue.IssueSize <= 0 {
		return fmt.Errorf("issue size must be a positive integer, got %d", c.Issue.IssueSize)
	}
	if c.Issue.FloorPrice <= 0 {
		return fmt.Errorf("floor price must be greater than 0, got %f", c.Issue.FloorPrice)
	}

	// Validate Broadcast configuration
	if c.Broadcast.PeriodMs <= 0 {
		return fmt.Errorf("broadcast period must be greater than 0")
	}
	if c.Broadcast.StaleAfterSeconds <= 0 {
		return fmt.Errorf("stale threshold must be greater than 0")
	}

	// Validate Network configuration
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	// Validate Collector configuration
	if !c.Collectors.NSE.Enabled && !c.Collectors.BSE.Enabled {
		return fmt.Errorf("at least one collector must be enabled")
	}
	if c.Collectors.NSE.Enabled {
		if c.Collectors.NSE.URL == "" {
			return fmt.Errorf("nse collector must have a url")
		}
		if c.Collectors.NSE.IntervalSeconds <= 0 {
			return fmt.Errorf("nse collector interval must be greater than 0")
		}
	}
	if c.Collectors.BSE.Enabled {
		if c.Collectors.BSE.URL == "" {
			return fmt.Errorf("bse collector must have a url")
		}
		if c.Collectors.BSE.IntervalSeconds <= 0 {
			return fmt.Errorf("bse collector interval must be greater than 0")
		}
		if c.Issue.Scripcode == "" {
			return fmt.Errorf("scripcode is required when the bse collector is enabled")
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
