// Package config resolves the runtime configuration chain once at process
// entry. Decision functions take a Config argument and never read the
// environment themselves.
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables consumed by the CLI
const (
	EnvProjectDir   = "CLAUDE_PROJECT_DIR"
	EnvPluginRoot   = "CLAUDE_PLUGIN_ROOT"
	EnvDataRoot     = "SUPERCHARGE_ROOT"
	EnvMaxDepth     = "SUPERCHARGE_MAX_RECURSION_DEPTH"
	EnvRemaining    = "SUPERCHARGE_RECURSION_REMAINING"
	EnvTaskUUID     = "SUPERCHARGE_TASK_UUID"
	EnvWorkerID     = "SUPERCHARGE_WORKER_ID"
	EnvFastModels   = "SUPERCHARGE_FAST_MODELS"
	EnvSessionHours = "SUPERCHARGE_MEMORY_SESSION_AGE_HOURS"
	EnvStaleDays    = "SUPERCHARGE_MEMORY_STALE_DAYS"
	EnvMaxTurns     = "SUPERCHARGE_MAX_TURNS"
)

// Defaults for the tunable knobs
const (
	DefaultMaxRecursionDepth = 5
	DefaultSessionAgeHours   = 1.0
	DefaultStaleDays         = 2.0
)

// DefaultFastModels is the model substring set that selects fast mode
// when no override is configured.
var DefaultFastModels = []string{"haiku"}

// Config is the resolved configuration for one CLI invocation.
type Config struct {
	// ProjectDir is the project root from the environment. Empty means
	// the workspace resolver falls back to git toplevel, then cwd.
	ProjectDir string

	// PluginRoot is where the host installed the plugin (hooks only).
	PluginRoot string

	// DataRoot overrides prompt/template resolution for development.
	DataRoot string

	// MaxRecursionDepth is the orchestrator-level depth ceiling.
	MaxRecursionDepth int

	// RecursionRemaining is the verbatim inside-worker budget signal.
	// Empty means the signal is absent (orchestrator level).
	RecursionRemaining string

	// TaskUUID is the parent task identifier injected into workers.
	TaskUUID string

	// WorkerID identifies the current deep worker. Set together with
	// TaskUUID it marks the process as running inside a worker session.
	WorkerID string

	// FastModels holds case-insensitive substrings selecting fast mode.
	// A nil slice means the default set; an empty non-nil slice disables
	// fast mode entirely.
	FastModels []string

	// SessionAgeHours is the minimum transcript age before harvesting.
	SessionAgeHours float64

	// StaleDays is the task-folder age threshold for stale detection.
	StaleDays float64

	// MaxTurns caps worker conversation turns. Zero means unlimited.
	MaxTurns int
}

// FastModelSet returns the effective fast-model substrings: the
// default set when no override was configured, the override otherwise.
func (c Config) FastModelSet() []string {
	if c.FastModels == nil {
		return DefaultFastModels
	}
	return c.FastModels
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MaxRecursionDepth: DefaultMaxRecursionDepth,
		SessionAgeHours:   DefaultSessionAgeHours,
		StaleDays:         DefaultStaleDays,
	}
}

// fileConfig is the optional config.yaml overlay in the data root.
// Pointers distinguish "absent" from zero values.
type fileConfig struct {
	FastModels        *[]string `yaml:"fast_models"`
	MaxRecursionDepth *int      `yaml:"max_recursion_depth"`
	SessionAgeHours   *float64  `yaml:"session_age_hours"`
	StaleDays         *float64  `yaml:"stale_days"`
	MaxTurns          *int      `yaml:"max_turns"`
}

// Load resolves the chain defaults -> overlay file -> environment.
// A missing or malformed overlay file is no signal, never fatal.
func Load(overlayPath string) Config {
	cfg := Default()
	if overlayPath != "" {
		applyOverlay(&cfg, overlayPath)
	}
	applyEnv(&cfg)
	return cfg
}

// FromEnv resolves defaults -> environment without an overlay file.
func FromEnv() Config {
	cfg := Default()
	applyEnv(&cfg)
	return cfg
}

func applyOverlay(cfg *Config, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return
	}
	if fc.FastModels != nil {
		cfg.FastModels = normalizeModels(*fc.FastModels)
	}
	if fc.MaxRecursionDepth != nil {
		cfg.MaxRecursionDepth = *fc.MaxRecursionDepth
	}
	if fc.SessionAgeHours != nil {
		cfg.SessionAgeHours = *fc.SessionAgeHours
	}
	if fc.StaleDays != nil {
		cfg.StaleDays = *fc.StaleDays
	}
	if fc.MaxTurns != nil {
		cfg.MaxTurns = *fc.MaxTurns
	}
}

func applyEnv(cfg *Config) {
	cfg.ProjectDir = os.Getenv(EnvProjectDir)
	cfg.PluginRoot = os.Getenv(EnvPluginRoot)
	cfg.DataRoot = os.Getenv(EnvDataRoot)
	cfg.RecursionRemaining = os.Getenv(EnvRemaining)
	cfg.TaskUUID = os.Getenv(EnvTaskUUID)
	cfg.WorkerID = os.Getenv(EnvWorkerID)

	if v, ok := os.LookupEnv(EnvMaxDepth); ok {
		if depth, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.MaxRecursionDepth = depth
		}
	}
	if v, ok := os.LookupEnv(EnvFastModels); ok {
		cfg.FastModels = normalizeModels(strings.Split(v, ","))
	}
	if v, ok := os.LookupEnv(EnvSessionHours); ok {
		if hours, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			cfg.SessionAgeHours = hours
		}
	}
	if v, ok := os.LookupEnv(EnvStaleDays); ok {
		if days, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			cfg.StaleDays = days
		}
	}
	if v, ok := os.LookupEnv(EnvMaxTurns); ok {
		if turns, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.MaxTurns = turns
		}
	}
}

// normalizeModels lowercases and trims entries, dropping blanks.
// The result is never nil so an explicit empty override disables fast mode.
func normalizeModels(entries []string) []string {
	models := make([]string, 0, len(entries))
	for _, e := range entries {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			models = append(models, e)
		}
	}
	return models
}
