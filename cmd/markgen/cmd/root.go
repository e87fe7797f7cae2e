package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/GoCodeAlone/markgen"
	"github.com/spf13/cobra"
)

// Version information
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// DefaultConfigFiles are looked up in the working directory when --config
// is not given.
var DefaultConfigFiles = []string{"markgen.yaml", "markgen.yml", "markgen.toml"}

// globalOptions are the persistent flags of the root command.
type globalOptions struct {
	configPath string
	dir        string
	verbose    bool
}

// NewRootCommand creates the root command for the markgen application
func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}
	cmd := &cobra.Command{
		Use:   "markgen",
		Short: "markgen - Generate Go code from marker comments",
		Long: `markgen scans Go packages for //markgen: marker comments and generates
dependency providers, state machine dispatchers, plugin invokers and
presenter event delegates next to the marked declarations.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (yaml or toml); defaults to markgen.yaml or markgen.toml when present")
	cmd.PersistentFlags().StringVarP(&opts.dir, "dir", "C", "", "Directory packages are loaded from")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log every stage")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))
	cmd.AddCommand(NewInitCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// NewVersionCommand prints version information.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), PrintVersion())
		},
	}
}

// PrintVersion prints version information
func PrintVersion() string {
	return fmt.Sprintf("markgen v%s (commit: %s, built on: %s)", Version, Commit, Date)
}

// loadConfig reads the config file and environment and applies flag
// overrides.
func (o *globalOptions) loadConfig() (*markgen.Config, error) {
	path := o.configPath
	if path == "" {
		for _, name := range DefaultConfigFiles {
			if _, err := os.Stat(name); err == nil {
				path = name
				break
			}
		}
	}
	cfg, err := markgen.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if o.dir != "" {
		cfg.Dir = o.dir
	}
	return cfg, nil
}

// newGenerator builds a generator logging to stderr.
func (o *globalOptions) newGenerator(stderr io.Writer, cfg *markgen.Config, extra ...markgen.Option) (*markgen.Generator, error) {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	opts := append([]markgen.Option{markgen.WithLogger(markgen.NewSlogLogger(logger))}, extra...)
	return markgen.New(cfg, opts...)
}
