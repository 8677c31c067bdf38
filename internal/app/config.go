package app

import (
	"errors"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ExtensionPath string // hcl file with repo declarations
	RuleKindsPath string // hcl manifests with rule_kind definitions

	// VendorPath optionally points at a vendor configuration file whose
	// ignore/pin lists are applied before the extension is evaluated.
	VendorPath string

	// NamePrefix is prepended to every declared repository name to form
	// its globally unique external identifier. May be empty when the
	// registry runs outside a shared namespace.
	NamePrefix string

	LogFormat string
	LogLevel  string
}

// NewConfig validates and normalizes a Config. Log settings are
// lower-cased and checked here so every later consumer can trust them.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ExtensionPath == "" {
		return nil, errors.New("ExtensionPath is a required configuration field and cannot be empty")
	}
	if cfg.RuleKindsPath == "" {
		return nil, errors.New("RuleKindsPath is a required configuration field and cannot be empty")
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	format, err := parseLogFormat(cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	cfg.LogFormat = format

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := parseLogLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	return &cfg, nil
}
