// Package config loads YAML configuration for the diag2svg command.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-diag2svg/internal/fileutil"
	"github.com/alnah/go-diag2svg/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidValue    = errors.New("invalid config value")
)

// appDir is the directory under the user config dir searched for configs.
const appDir = "go-diag2svg"

// Accepted enum values.
var (
	Themes   = []string{"dark", "light"}
	Formats  = []string{"raw", "embed", "no-font", "path"}
	Backends = []string{"rod", "chromedp"}
)

// MaxWorkers bounds render.workers.
const MaxWorkers = 8

// Config holds all configuration for a conversion run.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Browser BrowserConfig `yaml:"browser"`
	Assets  AssetsConfig  `yaml:"assets"`
	Fonts   FontsConfig   `yaml:"fonts"`
	Output  OutputConfig  `yaml:"output"`
}

// RenderConfig defines export options passed to the renderer.
type RenderConfig struct {
	Theme       string `yaml:"theme"`       // "dark", "light" (default: "dark")
	Background  bool   `yaml:"background"`  // Export the canvas background
	EmbedSource bool   `yaml:"embedSource"` // Embed the scene into the SVG
	Scale       int    `yaml:"scale"`       // 1-3, out of range is clamped at render time
	Format      string `yaml:"format"`      // "raw", "embed", "no-font", "path" (default: "embed")
	Timeout     string `yaml:"timeout"`     // Go duration, e.g. "90s" (default: 60s)
	Workers     int    `yaml:"workers"`     // Parallel renders for batch input (0 = auto)
}

// BrowserConfig selects and configures the headless browser.
type BrowserConfig struct {
	Backend   string `yaml:"backend"`   // "rod", "chromedp" (default: "rod")
	Bin       string `yaml:"bin"`       // Chrome binary (empty = auto-detect)
	NoSandbox bool   `yaml:"noSandbox"` // Disable Chrome sandbox (containers)
}

// AssetsConfig defines bundle loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // Empty = use embedded bundles
}

// FontsConfig defines font resolution options.
type FontsConfig struct {
	RuleScoped bool `yaml:"ruleScoped"` // Read family and file from the same @font-face rule
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Empty = next to the input
}

// Validate checks enum values and ranges. Empty values mean "use the default"
// and are always valid.
func (c *Config) Validate() error {
	if err := validateEnum("render.theme", c.Render.Theme, Themes); err != nil {
		return err
	}
	if err := validateEnum("render.format", c.Render.Format, Formats); err != nil {
		return err
	}
	if err := validateEnum("browser.backend", c.Browser.Backend, Backends); err != nil {
		return err
	}
	if c.Render.Timeout != "" {
		if _, err := c.TimeoutDuration(); err != nil {
			return err
		}
	}
	if c.Render.Scale < 0 {
		return fmt.Errorf("%w: render.scale: must not be negative, got %d", ErrInvalidValue, c.Render.Scale)
	}
	if c.Render.Workers < 0 || c.Render.Workers > MaxWorkers {
		return fmt.Errorf("%w: render.workers: must be between 0 and %d, got %d", ErrInvalidValue, MaxWorkers, c.Render.Workers)
	}
	return nil
}

// TimeoutDuration parses render.timeout. Zero means unset.
func (c *Config) TimeoutDuration() (time.Duration, error) {
	if c.Render.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Render.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: render.timeout: %v", ErrInvalidValue, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: render.timeout: must be positive, got %s", ErrInvalidValue, d)
	}
	return d, nil
}

func validateEnum(field, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s: %q (must be one of %s)", ErrInvalidValue, field, value, strings.Join(allowed, ", "))
}

// DefaultConfig returns a configuration with every field unset.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		p, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Searched: []string{configPath}}
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// NotFoundError lists the paths tried when resolving a config name.
type NotFoundError struct {
	Searched []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%v: tried %s", ErrConfigNotFound, strings.Join(e.Searched, ", "))
}

func (e *NotFoundError) Unwrap() error { return ErrConfigNotFound }

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-diag2svg/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, appDir, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", &NotFoundError{Searched: triedPaths}
}
