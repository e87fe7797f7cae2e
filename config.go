package markgen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GoCodeAlone/markgen/feeders"
	"github.com/GoCodeAlone/markgen/internal/depgraph"
	"github.com/GoCodeAlone/markgen/internal/emit"
	"github.com/GoCodeAlone/markgen/internal/scan"
	"github.com/GoCodeAlone/markgen/internal/validate"
)

// EnvPrefix prefixes the environment variables read by LoadConfig.
const EnvPrefix = "MARKGEN"

// Config controls one Generator. Zero fields take the value of their
// default tag.
type Config struct {
	// Dir is the directory packages are loaded from.
	Dir string `yaml:"dir" toml:"dir" env:"DIR" default:"." desc:"Directory packages are loaded from"`

	// Patterns are go/packages patterns relative to Dir.
	Patterns []string `yaml:"patterns" toml:"patterns" env:"PATTERNS" default:"./..." desc:"Package patterns to scan"`

	BuildTags []string `yaml:"build_tags" toml:"build_tags" env:"BUILD_TAGS" desc:"Build tags used while loading"`

	// Prefix introduces markers: //<Prefix>:<name>.
	Prefix string `yaml:"prefix" toml:"prefix" env:"PREFIX" default:"markgen" desc:"Marker prefix"`

	// Suffix names generated files and marks them as generated for the
	// scanner and the watcher.
	Suffix string `yaml:"suffix" toml:"suffix" env:"SUFFIX" default:"_gen.go" desc:"Generated file suffix"`

	// ScopeBase is the qualified type whose embedding declares a scope.
	ScopeBase string `yaml:"scope_base" toml:"scope_base" env:"SCOPE_BASE" default:"github.com/GoCodeAlone/markgen/inject.Scope" desc:"Type embedded by scopes"`

	// AllowedTypes are provider parameter types resolved by the caller's
	// scope chain without being provided in the batch.
	AllowedTypes []string `yaml:"allowed_types" toml:"allowed_types" env:"ALLOWED_TYPES" default:"context.Context,*log/slog.Logger" desc:"External provider parameter types"`

	InjectPath string `yaml:"inject_path" toml:"inject_path" env:"INJECT_PATH" default:"github.com/GoCodeAlone/markgen/inject" desc:"Import path of the inject runtime"`
	FSMPath    string `yaml:"fsm_path" toml:"fsm_path" env:"FSM_PATH" default:"github.com/GoCodeAlone/markgen/fsm" desc:"Import path of the fsm runtime"`
	PlugPath   string `yaml:"plug_path" toml:"plug_path" env:"PLUG_PATH" default:"github.com/GoCodeAlone/markgen/plug" desc:"Import path of the plug runtime"`

	// DryRun renders units without writing them.
	DryRun bool `yaml:"dry_run" toml:"dry_run" env:"DRY_RUN" desc:"Render without writing"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	if err := ProcessConfigDefaults(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig reads path, when non-empty, then the MARKGEN_* environment,
// applies defaults and validates the result. The file format follows the
// extension: .yaml, .yml or .toml.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}

	var sources []feeders.Feeder
	if path != "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			sources = append(sources, feeders.NewYamlFeeder(path))
		case ".toml":
			sources = append(sources, feeders.NewTomlFeeder(path))
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
		}
	}
	sources = append(sources, feeders.NewEnvFeeder(EnvPrefix))

	for _, f := range sources {
		if err := f.Feed(cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if err := ProcessConfigDefaults(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadConfig(patterns []string) scan.LoadConfig {
	if len(patterns) == 0 {
		patterns = c.Patterns
	}
	return scan.LoadConfig{
		Dir:       c.Dir,
		Patterns:  patterns,
		BuildTags: c.BuildTags,
		Prefix:    c.Prefix,
	}
}

func (c *Config) resolveOptions() depgraph.Options {
	return depgraph.Options{ScopeBase: c.ScopeBase}
}

func (c *Config) validateOptions() validate.Options {
	return validate.Options{
		AllowedTypes:    c.AllowedTypes,
		GeneratedSuffix: c.Suffix,
	}
}

func (c *Config) emitOptions() emit.Options {
	return emit.Options{
		Suffix:     c.Suffix,
		InjectPath: c.InjectPath,
		FSMPath:    c.FSMPath,
		PlugPath:   c.PlugPath,
	}
}
