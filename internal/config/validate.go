package config

import (
	"fmt"
	"net/url"
	"strings"
)

var knownCleanupPolicies = map[string]struct{}{
	"never":            {},
	"always":           {},
	"if-job-succeeded": {},
}

var knownActions = map[string]struct{}{
	"none":            {},
	"copy":            {},
	"remote_transfer": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRemote(); err != nil {
		return err
	}
	if err := c.validateHarvest(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRemote() error {
	if strings.TrimSpace(c.Remote.BaseURL) != "" {
		parsed, err := url.Parse(c.Remote.BaseURL)
		if err != nil {
			return fmt.Errorf("remote.base_url: %w", err)
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return fmt.Errorf("remote.base_url must use http or https, got %q", c.Remote.BaseURL)
		}
	}
	return nil
}

func (c *Config) validateHarvest() error {
	if _, ok := knownCleanupPolicies[c.Harvest.CleanupPolicy]; !ok {
		return fmt.Errorf("harvest.cleanup_policy must be one of never, always, if-job-succeeded; got %q", c.Harvest.CleanupPolicy)
	}
	if _, ok := knownActions[c.Harvest.DefaultAction]; !ok {
		return fmt.Errorf("harvest.default_action must be one of none, copy, remote_transfer; got %q", c.Harvest.DefaultAction)
	}
	for _, rule := range c.Harvest.PathRules {
		if _, ok := knownActions[rule.Action]; !ok {
			return fmt.Errorf("harvest.path_rules: action for prefix %q must be one of none, copy, remote_transfer; got %q", rule.Prefix, rule.Action)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error; got %q", c.Logging.Level)
	}
	return nil
}
