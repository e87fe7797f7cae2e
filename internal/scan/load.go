package scan

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"
)

var (
	ErrNoPackagesFound = errors.New("no packages found")
	ErrPackageErrors   = errors.New("packages contain errors")
	ErrNoModule        = errors.New("no go.mod found")
)

// LoadConfig controls Load.
type LoadConfig struct {
	Dir       string
	Patterns  []string
	BuildTags []string
	Prefix    string
}

// Load type-checks the packages matching cfg.Patterns and indexes their
// markers. Type errors are tolerated and recorded in Program.Warnings so that
// stale generated files do not block regeneration; list and parse errors
// fail the load.
func Load(ctx context.Context, cfg LoadConfig) (*Program, error) {
	fset := token.NewFileSet()
	pcfg := &packages.Config{
		Context: ctx,
		Dir:     cfg.Dir,
		Fset:    fset,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedImports | packages.NeedTypes | packages.NeedTypesSizes |
			packages.NeedSyntax | packages.NeedTypesInfo,
	}
	if len(cfg.BuildTags) > 0 {
		pcfg.BuildFlags = []string{"-tags=" + strings.Join(cfg.BuildTags, ",")}
	}

	patterns := cfg.Patterns
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}
	loaded, err := packages.Load(pcfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages %v: %w", patterns, err)
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrNoPackagesFound, patterns)
	}

	var warnings, failures []string
	pkgs := make([]*Package, 0, len(loaded))
	for _, lp := range loaded {
		for _, e := range lp.Errors {
			if e.Kind == packages.TypeError {
				warnings = append(warnings, e.Error())
				continue
			}
			failures = append(failures, e.Error())
		}
		if lp.Types == nil || lp.TypesInfo == nil {
			continue
		}
		pkgs = append(pkgs, &Package{
			Path:  lp.PkgPath,
			Name:  lp.Name,
			Dir:   packageDir(lp),
			Types: lp.Types,
			Info:  lp.TypesInfo,
			Files: lp.Syntax,
		})
	}
	if len(failures) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrPackageErrors, strings.Join(failures, "; "))
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	prog := NewProgram(fset, pkgs, prefix)
	prog.Warnings = warnings
	if mod, err := FindModule(cfg.Dir); err == nil {
		prog.Module = mod
	}
	return prog, nil
}

func packageDir(p *packages.Package) string {
	files := p.GoFiles
	if len(files) == 0 {
		files = p.CompiledGoFiles
	}
	if len(files) == 0 {
		return ""
	}
	return filepath.Dir(files[0])
}

// FindModule walks up from dir to the nearest go.mod.
func FindModule(dir string) (Module, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return Module{}, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	for {
		data, err := os.ReadFile(filepath.Join(abs, "go.mod"))
		if err == nil {
			path := modfile.ModulePath(data)
			if path == "" {
				return Module{}, fmt.Errorf("%w: %s has no module directive", ErrNoModule, abs)
			}
			return Module{Path: path, Dir: abs}, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return Module{}, fmt.Errorf("%w above %s", ErrNoModule, dir)
		}
		abs = parent
	}
}

// Rel returns filename relative to the module root when it lies inside it.
func (m Module) Rel(filename string) string {
	if m.Dir == "" {
		return filename
	}
	rel, err := filepath.Rel(m.Dir, filename)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filename
	}
	return rel
}
