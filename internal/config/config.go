// Package config provides configuration management for the schema warden
// service.
//
// Configuration is loaded from:
// 1. config.yaml file (optional)
// 2. Environment variables (standard names like SERVER_PORT, LOG_LEVEL)
// 3. Default values
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Security SecurityConfig `mapstructure:"security"`
	Platform PlatformConfig `mapstructure:"platform"`
	Check    CheckConfig    `mapstructure:"check"`
	Lint     LintConfig     `mapstructure:"lint"`
	Worker   WorkerConfig   `mapstructure:"worker"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// SecurityConfig contains the shared webhook secret and the API credential
// for collaborator calls. Both are required and never auto-generated: a
// generated HMAC secret would silently reject every inbound webhook.
type SecurityConfig struct {
	WebhookSecret string `mapstructure:"webhook_secret"`
	APIKey        string `mapstructure:"api_key"`
}

// PlatformConfig locates the two collaborators.
type PlatformConfig struct {
	ResolverURL     string        `mapstructure:"resolver_url"`
	OrchestratorURL string        `mapstructure:"orchestrator_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

// CheckConfig tunes the check pipeline.
type CheckConfig struct {
	// Deadline bounds one check run end to end, callback included.
	Deadline time.Duration `mapstructure:"deadline"`

	// Rules names the rule strategies to evaluate, in order.
	Rules []string `mapstructure:"rules"`
}

// LintConfig locates the lint ruleset file. Empty means the default
// schema-recommended bundle with no overrides.
type LintConfig struct {
	RulesetPath string `mapstructure:"ruleset_path"`
}

// WorkerConfig contains worker pool settings.
type WorkerConfig struct {
	EvaluationPoolSize int `mapstructure:"evaluation_pool_size"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/schema-warden")

	// Environment variable override, no prefix: SECURITY_WEBHOOK_SECRET,
	// PLATFORM_RESOLVER_URL, CHECK_DEADLINE, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file is optional, use defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Empty defaults register the keys so AutomaticEnv overrides reach
	// Unmarshal; Validate rejects the ones that stay empty.
	v.SetDefault("security.webhook_secret", "")
	v.SetDefault("security.api_key", "")

	v.SetDefault("platform.resolver_url", "")
	v.SetDefault("platform.orchestrator_url", "")
	v.SetDefault("platform.timeout", 15*time.Second)

	v.SetDefault("check.deadline", 45*time.Second)
	v.SetDefault("check.rules", []string{"contact-directive", "lint"})

	v.SetDefault("lint.ruleset_path", "")

	v.SetDefault("worker.evaluation_pool_size", 50)
}

// Validate checks for critical configuration errors.
func (c *Config) Validate() error {
	if c.Security.WebhookSecret == "" {
		return fmt.Errorf("security.webhook_secret must not be empty")
	}
	if c.Security.APIKey == "" {
		return fmt.Errorf("security.api_key must not be empty")
	}
	if c.Platform.ResolverURL == "" {
		return fmt.Errorf("platform.resolver_url must not be empty")
	}
	if c.Platform.OrchestratorURL == "" {
		return fmt.Errorf("platform.orchestrator_url must not be empty")
	}
	if len(c.Check.Rules) == 0 {
		return fmt.Errorf("check.rules must name at least one rule strategy")
	}
	if c.Check.Deadline <= 0 {
		return fmt.Errorf("check.deadline must be positive")
	}
	return nil
}
