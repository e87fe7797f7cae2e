package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/BurntSushi/toml"
	"github.com/GoCodeAlone/markgen"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	ErrConfigExists   = errors.New("config file already exists")
	ErrUnknownFormat  = errors.New("unknown config format")
	initSurveyIO      = DefaultSurveyIO
	promptInitOptions = askInitOptions
)

// InitOptions are the answers collected by init.
type InitOptions struct {
	Format       string
	Patterns     []string
	Prefix       string
	Suffix       string
	AllowedTypes []string
}

// NewInitCommand creates the init command
func NewInitCommand() *cobra.Command {
	var outputDir string
	var format string
	var yes bool
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a markgen config file",
		Long: `Write markgen.yaml or markgen.toml with the marker prefix, generated file
suffix, package patterns and allowed provider parameter types. Prompts for
each value unless --yes is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			defaults := markgen.DefaultConfig()
			options := &InitOptions{
				Format:       format,
				Patterns:     defaults.Patterns,
				Prefix:       defaults.Prefix,
				Suffix:       defaults.Suffix,
				AllowedTypes: defaults.AllowedTypes,
			}
			if !yes {
				if err := promptInitOptions(options); err != nil {
					return err
				}
			}
			path, err := WriteConfigFile(outputDir, options, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", okStyle.Render("wrote"), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", ".", "Directory where the config file is written")
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Config format (yaml or toml)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Use the defaults without prompting")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	return cmd
}

func askInitOptions(options *InitOptions) error {
	questions := []*survey.Question{
		{
			Name: "format",
			Prompt: &survey.Select{
				Message: "Which config format do you want?",
				Options: []string{"yaml", "toml"},
				Default: options.Format,
			},
		},
		{
			Name: "patterns",
			Prompt: &survey.Input{
				Message: "Which packages should be scanned?",
				Default: strings.Join(options.Patterns, " "),
				Help:    "Space-separated go/packages patterns relative to the config file.",
			},
		},
		{
			Name: "prefix",
			Prompt: &survey.Input{
				Message: "Marker prefix:",
				Default: options.Prefix,
				Help:    "Markers are written as //<prefix>:<name>.",
			},
			Validate: survey.Required,
		},
		{
			Name: "suffix",
			Prompt: &survey.Input{
				Message: "Generated file suffix:",
				Default: options.Suffix,
			},
			Validate: survey.Required,
		},
		{
			Name: "allowed",
			Prompt: &survey.Input{
				Message: "Provider parameter types supplied from outside the batch:",
				Default: strings.Join(options.AllowedTypes, ","),
				Help:    "Comma-separated qualified types, for example context.Context.",
			},
		},
	}

	answers := struct {
		Format   string `survey:"format"`
		Patterns string `survey:"patterns"`
		Prefix   string `survey:"prefix"`
		Suffix   string `survey:"suffix"`
		Allowed  string `survey:"allowed"`
	}{}
	if err := survey.Ask(questions, &answers, initSurveyIO.WithStdio()); err != nil {
		return fmt.Errorf("failed to collect init options: %w", err)
	}

	options.Format = answers.Format
	options.Patterns = strings.Fields(answers.Patterns)
	options.Prefix = answers.Prefix
	options.Suffix = answers.Suffix
	options.AllowedTypes = splitList(answers.Allowed)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// WriteConfigFile validates options and writes markgen.<format> into dir.
func WriteConfigFile(dir string, options *InitOptions, force bool) (string, error) {
	cfg := &markgen.Config{
		Patterns:     options.Patterns,
		Prefix:       options.Prefix,
		Suffix:       options.Suffix,
		AllowedTypes: options.AllowedTypes,
	}
	if err := markgen.ProcessConfigDefaults(cfg); err != nil {
		return "", err
	}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	file := struct {
		Patterns     []string `yaml:"patterns" toml:"patterns"`
		Prefix       string   `yaml:"prefix" toml:"prefix"`
		Suffix       string   `yaml:"suffix" toml:"suffix"`
		AllowedTypes []string `yaml:"allowed_types" toml:"allowed_types"`
	}{cfg.Patterns, cfg.Prefix, cfg.Suffix, cfg.AllowedTypes}

	var buf bytes.Buffer
	switch options.Format {
	case "yaml", "":
		options.Format = "yaml"
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(file); err != nil {
			return "", fmt.Errorf("failed to encode yaml: %w", err)
		}
	case "toml":
		if err := toml.NewEncoder(&buf).Encode(file); err != nil {
			return "", fmt.Errorf("failed to encode toml: %w", err)
		}
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, options.Format)
	}

	path := filepath.Join(dir, "markgen."+options.Format)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
