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

// Package config types define the configuration structures used throughout
// helpdesk-relay. These types represent settings that can be loaded from
// YAML configuration files, environment variables, or command-line flags.
package config

// Config represents the complete configuration for helpdesk-relay.
// It consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
// A Config value is built once at process start and passed into the command;
// there is no package-level mutable configuration.
type Config struct {
	Helpdesk   HelpdeskConfig `yaml:"helpdesk"`
	Defaults   DefaultsConfig `yaml:"defaults"`
	Conditions []Condition    `yaml:"conditions"`
}

// HelpdeskConfig contains helpdesk-account settings including the API
// endpoint template and authentication configuration. The endpoint contains
// a single %s slot that is filled with the account subdomain, which allows
// pointing the tool at a sandbox account or a local mock server.
type HelpdeskConfig struct {
	Subdomain string `yaml:"subdomain"`
	Email     string `yaml:"email"`
	TokenEnv  string `yaml:"token_env"`
	Endpoint  string `yaml:"endpoint"`
}

// DefaultsConfig contains default settings that apply to every sync run
// unless overridden by command-line flags. UpdateDelay is a courtesy pause
// inserted between per-user update calls; it is a Go duration string and
// defaults to "0s", meaning no pause. It does not react to the API's actual
// rate-limit responses.
type DefaultsConfig struct {
	Alias       string `yaml:"alias"`
	PageSize    int    `yaml:"page_size"`
	UpdateDelay string `yaml:"update_delay"`
}

// Condition is one acceptance rule for selecting users. A user matches a
// condition when both the role (exact, case-sensitive) and the role_type
// are equal; a user is selected when it matches at least one condition.
type Condition struct {
	Role     string `yaml:"role"`
	RoleType int    `yaml:"role_type"`
}

// DefaultConfig returns a Config with sensible defaults. The endpoint points
// at the production helpdesk API; the token environment variable and the
// per-page size follow the platform's documented conventions.
func DefaultConfig() *Config {
	return &Config{
		Helpdesk: HelpdeskConfig{
			TokenEnv: "HELPDESK_API_TOKEN",
			Endpoint: "https://%s.zendesk.com/api/v2",
		},
		Defaults: DefaultsConfig{
			PageSize:    100,
			UpdateDelay: "0s",
		},
	}
}
