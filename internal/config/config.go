// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides configuration management for helpdesk-relay with
// support for multiple configuration sources and a well-defined precedence
// order.
//
// Configuration sources (in precedence order, highest to lowest):
//  1. Command-line flags
//  2. Environment variables
//  3. Configuration file
//  4. Built-in defaults
//
// The package supports YAML configuration files and provides automatic
// discovery of configuration in standard locations.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from multiple sources and applies them in
// the correct precedence order. If configPath is provided, it loads from
// that specific file. Otherwise, it searches standard locations:
//   - .helpdesk-relay.yaml (current directory)
//   - .helpdesk-relay.yml (current directory)
//   - ~/.helpdesk-relay/config.yaml
//   - ~/.helpdesk-relay/config.yml
//
// Environment variables are applied after loading the config file, allowing
// runtime overrides.
//
// Returns an error if the specified config file cannot be loaded, but will
// succeed with defaults if no config file is found in standard locations.
func LoadConfig(configPath string) (*Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	// Try to load config file if path is provided
	if configPath != "" {
		if err := loadConfigFile(configPath, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to load config file")
		}
	} else {
		// Try default locations
		defaultPaths := []string{
			".helpdesk-relay.yaml",
			".helpdesk-relay.yml",
			filepath.Join(os.Getenv("HOME"), ".helpdesk-relay", "config.yaml"),
			filepath.Join(os.Getenv("HOME"), ".helpdesk-relay", "config.yml"),
		}

		for _, path := range defaultPaths {
			if _, err := os.Stat(path); err == nil {
				if err := loadConfigFile(path, cfg); err != nil {
					return nil, errors.Wrapf(err, "failed to load config from %s", path)
				}
				break
			}
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	return cfg, nil
}

// loadConfigFile reads and parses a YAML config file
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(err, "failed to parse config file %s", path)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config) {
	// Helpdesk account settings
	if subdomain := os.Getenv("HELPDESK_SUBDOMAIN"); subdomain != "" {
		cfg.Helpdesk.Subdomain = subdomain
	}
	if email := os.Getenv("HELPDESK_EMAIL"); email != "" {
		cfg.Helpdesk.Email = email
	}
	if endpoint := os.Getenv("HELPDESK_ENDPOINT"); endpoint != "" {
		cfg.Helpdesk.Endpoint = endpoint
	}

	// Defaults
	if alias := os.Getenv("RELAY_ALIAS"); alias != "" {
		cfg.Defaults.Alias = alias
	}
	if pageSize := os.Getenv("RELAY_PAGE_SIZE"); pageSize != "" {
		if size, err := parsePositiveInt(pageSize); err == nil {
			cfg.Defaults.PageSize = size
		}
	}
	if delay := os.Getenv("RELAY_UPDATE_DELAY"); delay != "" {
		cfg.Defaults.UpdateDelay = delay
	}
}

// parsePositiveInt parses a string to a positive integer
func parsePositiveInt(s string) (int, error) {
	var i int
	_, err := fmt.Sscanf(s, "%d", &i)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to parse integer from '%s'", s)
	}
	if i <= 0 {
		return 0, fmt.Errorf("value must be positive, got: %d", i)
	}
	return i, nil
}

// BaseURL returns the API base URL for the configured account by filling
// the endpoint template with the subdomain.
func (c *Config) BaseURL() string {
	return fmt.Sprintf(c.Helpdesk.Endpoint, c.Helpdesk.Subdomain)
}

// UpdateDelay returns the parsed courtesy delay between update calls.
// Validate must have been called first; a config that fails to parse here
// would have been rejected there.
func (c *Config) UpdateDelay() time.Duration {
	d, err := time.ParseDuration(c.Defaults.UpdateDelay)
	if err != nil {
		return 0
	}
	return d
}

// Validate checks if the configuration contains valid values. It ensures
// the page size is within the API's limits, the endpoint template carries a
// subdomain slot, the update delay parses, and every condition names a role.
// This should be called after loading configuration to catch invalid
// settings early.
func (c *Config) Validate() error {
	if c.Defaults.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got: %d", c.Defaults.PageSize)
	}
	if c.Defaults.PageSize > 100 {
		return fmt.Errorf("page size %d exceeds the API limit of 100", c.Defaults.PageSize)
	}
	if c.Helpdesk.Endpoint == "" {
		return fmt.Errorf("helpdesk endpoint cannot be empty")
	}
	if !strings.Contains(c.Helpdesk.Endpoint, "%s") {
		return fmt.Errorf("helpdesk endpoint %q must contain a %%s subdomain slot", c.Helpdesk.Endpoint)
	}
	if c.Defaults.UpdateDelay != "" {
		if d, err := time.ParseDuration(c.Defaults.UpdateDelay); err != nil {
			return errors.Wrapf(err, "invalid update_delay %q", c.Defaults.UpdateDelay)
		} else if d < 0 {
			return fmt.Errorf("update_delay must not be negative, got: %s", d)
		}
	}
	for i, cond := range c.Conditions {
		if cond.Role == "" {
			return fmt.Errorf("condition %d has an empty role", i)
		}
	}
	return nil
}
