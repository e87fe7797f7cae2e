package feeders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type settings struct {
	Dir      string   `yaml:"dir" toml:"dir" env:"DIR"`
	Patterns []string `yaml:"patterns" toml:"patterns" env:"PATTERNS"`
	DryRun   bool     `yaml:"dry_run" toml:"dry_run" env:"DRY_RUN"`
	Workers  int      `env:"WORKERS"`
	Nested   struct {
		Tag string `yaml:"tag" env:"TAG"`
	} `yaml:"nested"`
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestYamlFeeder(t *testing.T) {
	path := writeFile(t, "markgen.yaml", `
dir: ./src
patterns: [./a/..., ./b]
dry_run: true
nested:
  tag: ui
`)
	var s settings
	require.NoError(t, NewYamlFeeder(path).Feed(&s))
	assert.Equal(t, "./src", s.Dir)
	assert.Equal(t, []string{"./a/...", "./b"}, s.Patterns)
	assert.True(t, s.DryRun)
	assert.Equal(t, "ui", s.Nested.Tag)
}

func TestTomlFeeder(t *testing.T) {
	path := writeFile(t, "markgen.toml", `
dir = "./src"
patterns = ["./..."]
`)
	var s settings
	require.NoError(t, NewTomlFeeder(path).Feed(&s))
	assert.Equal(t, "./src", s.Dir)
	assert.Equal(t, []string{"./..."}, s.Patterns)
}

func TestFileFeedersReportMissingFile(t *testing.T) {
	var s settings
	assert.ErrorIs(t, NewYamlFeeder(filepath.Join(t.TempDir(), "none.yaml")).Feed(&s), ErrFileRead)
	assert.ErrorIs(t, NewTomlFeeder(filepath.Join(t.TempDir(), "none.toml")).Feed(&s), ErrFileRead)
}

func TestEnvFeeder(t *testing.T) {
	t.Setenv("MARKGEN_DIR", "./env")
	t.Setenv("MARKGEN_PATTERNS", "./x/..., ./y,")
	t.Setenv("MARKGEN_DRY_RUN", "true")
	t.Setenv("MARKGEN_WORKERS", "4")
	t.Setenv("MARKGEN_TAG", "nested")

	s := settings{Dir: "keep-me-overridden"}
	require.NoError(t, NewEnvFeeder("markgen").Feed(&s))
	assert.Equal(t, "./env", s.Dir)
	assert.Equal(t, []string{"./x/...", "./y"}, s.Patterns)
	assert.True(t, s.DryRun)
	assert.Equal(t, 4, s.Workers)
	assert.Equal(t, "nested", s.Nested.Tag)
}

func TestEnvFeederLeavesUnsetFields(t *testing.T) {
	s := settings{Dir: "file"}
	require.NoError(t, NewEnvFeeder("MARKGEN_UNSET_PREFIX").Feed(&s))
	assert.Equal(t, "file", s.Dir)
}

func TestEnvFeederErrors(t *testing.T) {
	var s settings
	assert.ErrorIs(t, NewEnvFeeder("").Feed(&s), ErrEnvEmptyPrefix)
	assert.ErrorIs(t, NewEnvFeeder("X").Feed(s), ErrEnvInvalidStructure)

	t.Setenv("MARKGEN_WORKERS", "many")
	assert.Error(t, NewEnvFeeder("MARKGEN").Feed(&s))
}
