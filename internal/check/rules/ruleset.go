package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Severity is a lint finding tier. Findings at the highest tier (error) map
// to ERROR violations; everything else maps to WARNING.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// RulesetConfig tunes the schema-recommended lint bundle. Escalations like
// "treat naming-convention findings as errors" belong in SeverityOverrides,
// not in rule code.
type RulesetConfig struct {
	// Disabled lists lint rule ids to skip entirely.
	Disabled []string `yaml:"disabled"`

	// SeverityOverrides remaps the severity of individual rules by id.
	SeverityOverrides map[string]Severity `yaml:"severity_overrides"`
}

// LoadRuleset reads a ruleset config file. An empty path yields the default
// (everything enabled, no overrides).
func LoadRuleset(path string) (RulesetConfig, error) {
	var cfg RulesetConfig
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read ruleset %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse ruleset %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate ruleset %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unknown rule ids and severities so a bad ruleset fails at
// bootstrap.
func (c RulesetConfig) Validate() error {
	known := make(map[string]bool, len(builtinRules))
	for _, r := range builtinRules {
		known[r.id] = true
	}
	known[RuleInvalidSchema] = true

	for _, id := range c.Disabled {
		if !known[id] {
			return fmt.Errorf("disabled rule %q is not a known lint rule", id)
		}
	}
	for id, sev := range c.SeverityOverrides {
		if !known[id] {
			return fmt.Errorf("severity override for unknown lint rule %q", id)
		}
		if sev != SeverityWarning && sev != SeverityError {
			return fmt.Errorf("severity override for %q: invalid severity %q", id, sev)
		}
	}
	return nil
}
