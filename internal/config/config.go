// Package config resolves where atlas keeps its state and loads the
// optional config.yaml that tunes save and resume behavior.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	atlaserrors "github.com/daveygoode/atlas/internal/errors"
)

// DefaultTheme names the color theme used when none is configured.
const DefaultTheme = "dark-purple"

// DefaultIdentity is the banner identity line shown by resume.
const DefaultIdentity = "ATLAS - Adaptive Technical Learning and Architecture System"

// Config holds all configuration options
type Config struct {
	User         string `yaml:"user,omitempty"`     // Overrides $USER in session metadata
	Identity     string `yaml:"identity,omitempty"` // Banner identity line
	ListLimit    int    `yaml:"list_limit"`         // Sessions shown by resume --list
	CommitCount  int    `yaml:"commit_count"`       // Recent commits captured per save
	NotifyOnSave bool   `yaml:"notify_on_save"`     // Desktop notification after save
	CopyDigest   bool   `yaml:"copy_digest"`        // Copy the digest to the clipboard by default
	Theme        string `yaml:"theme,omitempty"`    // Color theme for terminal output
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Identity:    DefaultIdentity,
		ListLimit:   20,
		CommitCount: 5,
		Theme:       DefaultTheme,
	}
}

// Load reads path over the defaults. A missing file yields the defaults;
// a malformed or invalid file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, atlaserrors.ConfigLoadFailed(path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, atlaserrors.ConfigLoadFailed(path, err)
	}
	if cfg.Identity == "" {
		cfg.Identity = DefaultIdentity
	}
	if cfg.Theme == "" {
		cfg.Theme = DefaultTheme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.ListLimit <= 0 {
		return atlaserrors.ConfigInvalid(fmt.Sprintf("list_limit must be positive, got %d", c.ListLimit))
	}
	if c.CommitCount <= 0 {
		return atlaserrors.ConfigInvalid(fmt.Sprintf("commit_count must be positive, got %d", c.CommitCount))
	}
	return nil
}

// ResolveUser returns the configured user, then $USER, then "unknown".
func (c *Config) ResolveUser() string {
	if c.User != "" {
		return c.User
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "unknown"
}
