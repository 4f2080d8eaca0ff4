// Package config provides configuration types, loading and validation for
// the reconciliation run.
//
// The run configuration is a YAML file; the network-policy portion
// (exclusions, roles, locations, NAT pairs) may instead live in the sqlite
// store managed by internal/database and be exported into these types.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lirkwood/netdox-sub001/internal/iptools"
)

// envConfigPath overrides the config location when the flag is unset.
const envConfigPath = "NETDOX_CONFIG"

// ResolveConfigPath picks the config file: the explicit flag value, then
// the NETDOX_CONFIG environment variable, then "netdox.yaml".
func ResolveConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv(envConfigPath); env != "" {
		return env
	}
	return "netdox.yaml"
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates and normalizes the configuration.
func (cfg *Config) Validate() error {
	// Normalize the policy: names are identity keys, always lower-case.
	for i, name := range cfg.Network.Exclusions {
		cfg.Network.Exclusions[i] = strings.ToLower(strings.TrimSpace(name))
	}
	for role, rc := range cfg.Network.Roles {
		for i, name := range rc.Domains {
			rc.Domains[i] = strings.ToLower(strings.TrimSpace(name))
		}
		cfg.Network.Roles[role] = rc
	}

	// Locations must name valid subnets.
	for location, subnets := range cfg.Locations {
		for _, subn := range subnets {
			if !iptools.ValidSubnet(subn) {
				return fmt.Errorf("location %q has invalid subnet %q", location, subn)
			}
		}
	}

	// NAT pairs must be addresses on both sides.
	for addr, alias := range cfg.NAT {
		if !iptools.ValidIP(addr) || !iptools.ValidIP(alias) {
			return fmt.Errorf("invalid nat pair %q -> %q", addr, alias)
		}
	}

	// Default snapshot location
	if cfg.Snapshot.Path == "" {
		cfg.Snapshot.Path = "network.json"
	}

	// Default plugin whitelist is wildcard
	if len(cfg.Plugins.Enabled) == 0 {
		cfg.Plugins.Enabled = []string{"*"}
	}

	// Normalize logging
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.StructuredFormat == "" {
		cfg.Logging.StructuredFormat = "json"
	}
	if cfg.Logging.ExtraFields == nil {
		cfg.Logging.ExtraFields = map[string]string{}
	}

	// Normalize the API
	if cfg.API.Host == "" {
		cfg.API.Host = "0.0.0.0"
	}
	if cfg.API.Enabled {
		if err := cfg.API.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// Validate checks the listen settings. Load only applies it when the API
// is enabled, so callers forcing the API on after load (the -serve flag)
// must call it themselves.
func (api *APIConfig) Validate() error {
	if api.Port <= 0 || api.Port > 65535 {
		return errors.New("api.port must be 1..65535")
	}
	return nil
}
