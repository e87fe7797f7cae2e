package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/GoCodeAlone/markgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const moduleSource = `package shop

//markgen:scope
type ShopScope struct{}

type Foo struct{}

//markgen:provides
func (s *ShopScope) Foo() *Foo { return &Foo{} }
`

const brokenSource = `package shop

//markgen:scope
type ShopScope struct{}

type Sized struct{}

//markgen:provides
func NewSized(size int) *Sized { return nil }
`

func tempModule(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/shop\n\ngo 1.22\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.go"), []byte(src), 0o600))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "marker comments")
	for _, sub := range []string{"generate", "list", "watch", "init", "version"} {
		assert.Contains(t, out, sub)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "markgen v")
	assert.Equal(t, out, PrintVersion()+"\n")
}

func TestGenerateDryRun(t *testing.T) {
	dir := tempModule(t, moduleSource)

	out, err := execute(t, "generate", "-C", dir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "shopscope_dependencyprovider_gen.go")
	assert.Contains(t, out, "0 written")
	assert.NoFileExists(t, filepath.Join(dir, "shopscope_dependencyprovider_gen.go"))
}

func TestGenerateWritesFiles(t *testing.T) {
	dir := tempModule(t, moduleSource)

	out, err := execute(t, "generate", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "1 written")

	data, err := os.ReadFile(filepath.Join(dir, "shopscope_dependencyprovider_gen.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "func (s *ShopScope) DependencyProvider() inject.Provider")
}

func TestGenerateFailsOnDiagnostics(t *testing.T) {
	dir := tempModule(t, brokenSource)

	out, err := execute(t, "generate", "-C", dir)
	assert.ErrorIs(t, err, markgen.ErrGenerationFailed)
	assert.Contains(t, out, "invalid provider signature")
}

func TestGenerateEventsFlag(t *testing.T) {
	dir := tempModule(t, moduleSource)

	out, err := execute(t, "generate", "-C", dir, "--dry-run", "--events")
	require.NoError(t, err)
	assert.Contains(t, out, `"type":"com.markgen.batch.started"`)
	assert.Contains(t, out, `"type":"com.markgen.unit.emitted"`)
}

func TestListCommand(t *testing.T) {
	dir := tempModule(t, moduleSource)

	out, err := execute(t, "list", "-C", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ShopScope_DependencyProvider")
	assert.Contains(t, out, "provider")
	assert.NoFileExists(t, filepath.Join(dir, "shopscope_dependencyprovider_gen.go"))
}

func TestInitWritesDefaults(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, "init", "--yes", "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "markgen.yaml")

	cfg, err := markgen.LoadConfig(filepath.Join(dir, "markgen.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "_gen.go", cfg.Suffix)

	_, err = execute(t, "init", "--yes", "-o", dir)
	assert.ErrorIs(t, err, ErrConfigExists)

	_, err = execute(t, "init", "--yes", "--force", "-o", dir)
	assert.NoError(t, err)
}

func TestInitUsesPromptAnswers(t *testing.T) {
	prev := promptInitOptions
	defer func() { promptInitOptions = prev }()
	promptInitOptions = func(o *InitOptions) error {
		o.Format = "toml"
		o.Prefix = "gen"
		o.Patterns = []string{"./ui/..."}
		return nil
	}

	dir := t.TempDir()
	_, err := execute(t, "init", "-o", dir)
	require.NoError(t, err)

	cfg, err := markgen.LoadConfig(filepath.Join(dir, "markgen.toml"))
	require.NoError(t, err)
	assert.Equal(t, "gen", cfg.Prefix)
	assert.Equal(t, []string{"./ui/..."}, cfg.Patterns)
}

func TestWriteConfigFileRejectsInvalidAnswers(t *testing.T) {
	_, err := WriteConfigFile(t.TempDir(), &InitOptions{Format: "json"}, false)
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = WriteConfigFile(t.TempDir(), &InitOptions{Suffix: "_gen.txt"}, false)
	assert.ErrorIs(t, err, markgen.ErrInvalidSuffix)
}
