// Package config carries the retry budgets, timing constants and
// operator inputs for module bring-up. Values merge in order: built-in
// baseline, optional YAML file, BG770_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/property"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/retry"
)

// Budget is the YAML shape of one retry budget.
type Budget struct {
	MaxAttempts      int `yaml:"maxAttempts"`
	AttemptTimeoutMs int `yaml:"attemptTimeoutMs"`
	BackoffBaseMs    int `yaml:"backoffBaseMs"`
}

// Policy converts the budget to the retry controller's form.
func (b Budget) Policy() retry.Policy {
	return retry.Policy{
		MaxAttempts:    b.MaxAttempts,
		AttemptTimeout: time.Duration(b.AttemptTimeoutMs) * time.Millisecond,
		BackoffBase:    time.Duration(b.BackoffBaseMs) * time.Millisecond,
	}
}

// Config is the complete bring-up configuration.
type Config struct {
	// Ready-signal synchronization
	ReadyTimeoutMs int `yaml:"readyTimeoutMs"`
	SettleDelayMs  int `yaml:"settleDelayMs"`

	// Retry budget classes. Probe is deliberately short: device presence
	// checks must fail fast.
	Probe   Budget `yaml:"probe"`
	Command Budget `yaml:"command"`
	Read    Budget `yaml:"read"`
	Write   Budget `yaml:"write"`
	Legacy  Budget `yaml:"legacy"`

	// Operator inputs
	URCPort                 string   `yaml:"urcPort"`
	RATPriority             []string `yaml:"ratPriority"`
	SkipOnFlowControlChange bool     `yaml:"skipOnFlowControlChange"`

	// AuditDir is where the bring-up audit trail is written.
	AuditDir string `yaml:"auditDir"`
}

// Defaults returns the baseline configuration.
func Defaults() *Config {
	return &Config{
		ReadyTimeoutMs: 10000,
		SettleDelayMs:  500,

		Probe:   Budget{MaxAttempts: 2, AttemptTimeoutMs: 1000, BackoffBaseMs: 100},
		Command: Budget{MaxAttempts: 3, AttemptTimeoutMs: 2000, BackoffBaseMs: 500},
		Read:    Budget{MaxAttempts: 3, AttemptTimeoutMs: 2000, BackoffBaseMs: 500},
		Write:   Budget{MaxAttempts: 4, AttemptTimeoutMs: 5000, BackoffBaseMs: 1000},
		Legacy:  Budget{MaxAttempts: 3, AttemptTimeoutMs: 5000, BackoffBaseMs: 1000},

		URCPort:                 "main",
		RATPriority:             []string{"ltem", "nbiot"},
		SkipOnFlowControlChange: true,

		AuditDir: "logs",
	}
}

// Load merges Defaults() with the optional YAML file at path (skipped
// when path is empty or missing) and BG770_* environment overrides, then
// validates the result.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := loadFromFile(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load %s: %w", path, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnvOverrides(cfg *Config) {
	cfg.ReadyTimeoutMs = envInt("BG770_READY_TIMEOUT_MS", cfg.ReadyTimeoutMs)
	cfg.SettleDelayMs = envInt("BG770_SETTLE_DELAY_MS", cfg.SettleDelayMs)

	applyBudgetEnv("BG770_PROBE", &cfg.Probe)
	applyBudgetEnv("BG770_COMMAND", &cfg.Command)
	applyBudgetEnv("BG770_READ", &cfg.Read)
	applyBudgetEnv("BG770_WRITE", &cfg.Write)
	applyBudgetEnv("BG770_LEGACY", &cfg.Legacy)

	cfg.URCPort = envString("BG770_URC_PORT", cfg.URCPort)
	if val := os.Getenv("BG770_RAT_PRIORITY"); val != "" {
		cfg.RATPriority = strings.Split(val, ",")
	}
	if val := os.Getenv("BG770_SKIP_ON_FLOW_CONTROL_CHANGE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.SkipOnFlowControlChange = b
		}
	}
	cfg.AuditDir = envString("BG770_AUDIT_DIR", cfg.AuditDir)
}

func applyBudgetEnv(prefix string, b *Budget) {
	b.MaxAttempts = envInt(prefix+"_MAX_ATTEMPTS", b.MaxAttempts)
	b.AttemptTimeoutMs = envInt(prefix+"_ATTEMPT_TIMEOUT_MS", b.AttemptTimeoutMs)
	b.BackoffBaseMs = envInt(prefix+"_BACKOFF_BASE_MS", b.BackoffBaseMs)
}

func envString(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return def
}

// Validate rejects configurations the bring-up core cannot act on.
func (c *Config) Validate() error {
	if c.ReadyTimeoutMs < 0 || c.SettleDelayMs < 0 {
		return fmt.Errorf("ready timing must not be negative")
	}

	for name, b := range map[string]Budget{
		"probe": c.Probe, "command": c.Command, "read": c.Read, "write": c.Write, "legacy": c.Legacy,
	} {
		if b.MaxAttempts < 1 {
			return fmt.Errorf("%s budget: maxAttempts must be at least 1", name)
		}
		if b.AttemptTimeoutMs < 0 || b.BackoffBaseMs < 0 {
			return fmt.Errorf("%s budget: timing must not be negative", name)
		}
	}

	if property.ParseURCPort(c.URCPort) == property.PortUnknown {
		return fmt.Errorf("unknown URC port %q", c.URCPort)
	}

	if _, err := c.ParseRATPriority(); err != nil {
		return err
	}
	return nil
}

// ParseRATPriority resolves the configured technology names into the
// ordered scan priority list. The list carries 1 to 3 entries.
func (c *Config) ParseRATPriority() ([]property.RAT, error) {
	if len(c.RATPriority) < 1 || len(c.RATPriority) > 3 {
		return nil, fmt.Errorf("ratPriority must list 1 to 3 technologies, got %d", len(c.RATPriority))
	}

	rats := make([]property.RAT, 0, len(c.RATPriority))
	for _, name := range c.RATPriority {
		r, ok := property.ParseRAT(strings.TrimSpace(strings.ToLower(name)))
		if !ok {
			return nil, fmt.Errorf("unknown radio access technology %q", name)
		}
		rats = append(rats, r)
	}
	return rats, nil
}

// ReadyTimeout returns the ready-signal wait bound.
func (c *Config) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutMs) * time.Millisecond
}

// SettleDelay returns the fixed post-ready settle delay.
func (c *Config) SettleDelay() time.Duration {
	return time.Duration(c.SettleDelayMs) * time.Millisecond
}
