package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeRemote(); err != nil {
		return err
	}
	c.normalizeHarvest()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRemote() error {
	if c.Remote.BaseURL == "" {
		if value, ok := os.LookupEnv("STAGEHAND_REMOTE_URL"); ok {
			c.Remote.BaseURL = value
		}
	}
	c.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(c.Remote.BaseURL), "/")
	if strings.TrimSpace(c.Remote.Separator) == "" {
		c.Remote.Separator = defaultRemoteSeparator
	}
	if c.Remote.TimeoutSeconds <= 0 {
		c.Remote.TimeoutSeconds = defaultRemoteTimeoutSeconds
	}
	if strings.TrimSpace(c.Remote.MountDir) != "" {
		expanded, err := expandPath(c.Remote.MountDir)
		if err != nil {
			return fmt.Errorf("remote.mount_dir: %w", err)
		}
		c.Remote.MountDir = expanded
	}
	return nil
}

func (c *Config) normalizeHarvest() {
	c.Harvest.CleanupPolicy = strings.ToLower(strings.TrimSpace(c.Harvest.CleanupPolicy))
	if c.Harvest.CleanupPolicy == "" {
		c.Harvest.CleanupPolicy = defaultCleanupPolicy
	}
	c.Harvest.DefaultAction = strings.ToLower(strings.TrimSpace(c.Harvest.DefaultAction))
	if c.Harvest.DefaultAction == "" {
		c.Harvest.DefaultAction = defaultAction
	}
	rules := c.Harvest.PathRules[:0]
	for _, rule := range c.Harvest.PathRules {
		rule.Prefix = strings.TrimSpace(rule.Prefix)
		rule.Action = strings.ToLower(strings.TrimSpace(rule.Action))
		if rule.Prefix == "" {
			continue
		}
		rules = append(rules, rule)
	}
	c.Harvest.PathRules = rules
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
