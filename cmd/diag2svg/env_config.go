package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/alnah/go-diag2svg/internal/config"
)

// envPrefix is shared by every recognized variable.
const envPrefix = "DIAG2SVG_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        `env:"DIAG2SVG_CONFIG"`
	Timeout    time.Duration `env:"DIAG2SVG_TIMEOUT"`
	Theme      string        `env:"DIAG2SVG_THEME"`
	Scale      int           `env:"DIAG2SVG_SCALE"`
	Format     string        `env:"DIAG2SVG_FORMAT"`
	Browser    string        `env:"DIAG2SVG_BROWSER"`
	AssetPath  string        `env:"DIAG2SVG_ASSET_PATH"`
	OutputDir  string        `env:"DIAG2SVG_OUTPUT_DIR"`
	Workers    int           `env:"DIAG2SVG_WORKERS"`
}

// knownEnvVars lists valid DIAG2SVG_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"DIAG2SVG_CONFIG":     true,
	"DIAG2SVG_TIMEOUT":    true,
	"DIAG2SVG_THEME":      true,
	"DIAG2SVG_SCALE":      true,
	"DIAG2SVG_FORMAT":     true,
	"DIAG2SVG_BROWSER":    true,
	"DIAG2SVG_ASSET_PATH": true,
	"DIAG2SVG_OUTPUT_DIR": true,
	"DIAG2SVG_WORKERS":    true,
	"DIAG2SVG_CONTAINER":  true, // read by doctor
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers or durations are usage errors.
func loadEnvConfig() (*envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEnv, err)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("%w: DIAG2SVG_TIMEOUT must be positive, got %s", ErrInvalidEnv, cfg.Timeout)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("%w: DIAG2SVG_WORKERS must not be negative, got %d", ErrInvalidEnv, cfg.Workers)
	}
	return &cfg, nil
}

// warnUnknownEnvVars logs warnings for unrecognized DIAG2SVG_* variables.
// Helps catch typos like DIAG2SVG_TIMOUT.
func warnUnknownEnvVars(w io.Writer) {
	for _, kv := range os.Environ() {
		if !strings.HasPrefix(kv, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(kv, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig applies environment variable values to cfg.
// A set variable overrides the config file; flags are applied afterwards via
// mergeFlags. Priority: flags > env > config file > defaults.
func applyEnvConfig(e *envConfig, cfg *config.Config) {
	if e.Timeout > 0 {
		cfg.Render.Timeout = e.Timeout.String()
	}
	if e.Theme != "" {
		cfg.Render.Theme = e.Theme
	}
	if e.Scale != 0 {
		cfg.Render.Scale = e.Scale
	}
	if e.Format != "" {
		cfg.Render.Format = e.Format
	}
	if e.Workers > 0 {
		cfg.Render.Workers = e.Workers
	}
	if e.Browser != "" {
		cfg.Browser.Backend = e.Browser
	}
	if e.AssetPath != "" {
		cfg.Assets.BasePath = e.AssetPath
	}
	if e.OutputDir != "" {
		cfg.Output.DefaultDir = e.OutputDir
	}
}
