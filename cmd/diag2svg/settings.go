package main

import (
	"fmt"
	"log/slog"

	flag "github.com/spf13/pflag"

	diag2svg "github.com/alnah/go-diag2svg"
	"github.com/alnah/go-diag2svg/internal/config"
)

// loadSettings merges every configuration source into one Config.
// Priority: flags > env > config file > defaults.
func loadSettings(fs *flag.FlagSet, common commonFlags, e *envConfig) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := common.config
	if name == "" {
		name = e.ConfigPath
	}
	if name != "" {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		cfg = loaded
	}

	applyEnvConfig(e, cfg)
	mergeFlags(fs, cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags copies explicitly set flags into cfg. Unset flags never clear a
// value coming from the config file or the environment.
func mergeFlags(fs *flag.FlagSet, cfg *config.Config) {
	str := func(name string, dst *string) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	boolean := func(name string, dst *bool) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String() == "true"
		}
	}
	integer := func(name string, dst *int) {
		if f := fs.Lookup(name); f != nil && f.Changed {
			if n, err := fs.GetInt(name); err == nil {
				*dst = n
			}
		}
	}

	str("theme", &cfg.Render.Theme)
	str("format", &cfg.Render.Format)
	str("timeout", &cfg.Render.Timeout)
	boolean("background", &cfg.Render.Background)
	boolean("source", &cfg.Render.EmbedSource)
	integer("scale", &cfg.Render.Scale)
	integer("workers", &cfg.Render.Workers)

	str("browser", &cfg.Browser.Backend)
	str("browser-bin", &cfg.Browser.Bin)
	boolean("no-sandbox", &cfg.Browser.NoSandbox)

	str("asset-path", &cfg.Assets.BasePath)
	boolean("rule-scoped-fonts", &cfg.Fonts.RuleScoped)
}

// converterOptions builds library options from the merged configuration.
func converterOptions(cfg *config.Config, logger *slog.Logger) ([]diag2svg.Option, error) {
	browser, err := diag2svg.ParseBrowser(cfg.Browser.Backend)
	if err != nil {
		return nil, err
	}

	opts := []diag2svg.Option{
		diag2svg.WithLogger(logger),
		diag2svg.WithBrowser(browser),
		diag2svg.WithBrowserBin(cfg.Browser.Bin),
		diag2svg.WithNoSandbox(cfg.Browser.NoSandbox),
		diag2svg.WithAssetPath(cfg.Assets.BasePath),
		diag2svg.WithRuleScopedFonts(cfg.Fonts.RuleScoped),
	}

	timeout, err := cfg.TimeoutDuration()
	if err != nil {
		return nil, err
	}
	if timeout > 0 {
		opts = append(opts, diag2svg.WithTimeout(timeout))
	}

	return opts, nil
}

// renderSettings holds the per-document parameters shared by a batch.
type renderSettings struct {
	inputType string // "" means infer per file
	export    diag2svg.ExportConfig
	format    diag2svg.OutputFormat
}

// buildRenderSettings parses the render section of cfg.
func buildRenderSettings(cfg *config.Config, inputType string) (*renderSettings, error) {
	theme, err := diag2svg.ParseTheme(cfg.Render.Theme)
	if err != nil {
		return nil, err
	}
	format, err := diag2svg.ParseFormat(cfg.Render.Format)
	if err != nil {
		return nil, err
	}
	if inputType != "" {
		if _, err := diag2svg.ParseInputType(inputType); err != nil {
			return nil, err
		}
	}

	return &renderSettings{
		inputType: inputType,
		export: diag2svg.ExportConfig{
			Theme:       theme,
			Background:  cfg.Render.Background,
			EmbedSource: cfg.Render.EmbedSource,
			Scale:       cfg.Render.Scale,
		},
		format: format,
	}, nil
}
