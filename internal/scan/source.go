package scan

import (
	"fmt"
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"path"
	"sort"
)

// SourcePackage is an in-memory package for Check.
type SourcePackage struct {
	Path  string
	Files map[string]string
}

// Check parses and type-checks packages in order and indexes their markers.
// A package may import any package listed before it and the standard
// library.
func Check(prefix string, sources ...SourcePackage) (*Program, error) {
	fset := token.NewFileSet()
	imp := &sourceImporter{
		checked:  make(map[string]*types.Package),
		fallback: importer.ForCompiler(fset, "source", nil),
	}

	pkgs := make([]*Package, 0, len(sources))
	for _, src := range sources {
		names := make([]string, 0, len(src.Files))
		for name := range src.Files {
			names = append(names, name)
		}
		sort.Strings(names)

		files := make([]*ast.File, 0, len(names))
		for _, name := range names {
			filename := path.Join(src.Path, name)
			f, err := parser.ParseFile(fset, filename, src.Files[name], parser.ParseComments)
			if err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
			}
			files = append(files, f)
		}

		info := &types.Info{
			Types: make(map[ast.Expr]types.TypeAndValue),
			Defs:  make(map[*ast.Ident]types.Object),
			Uses:  make(map[*ast.Ident]types.Object),
		}
		conf := types.Config{Importer: imp}
		tpkg, err := conf.Check(src.Path, fset, files, info)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s: %w", src.Path, err)
		}
		imp.checked[src.Path] = tpkg
		pkgs = append(pkgs, &Package{
			Path:  src.Path,
			Name:  tpkg.Name(),
			Types: tpkg,
			Info:  info,
			Files: files,
		})
	}

	if prefix == "" {
		prefix = DefaultPrefix
	}
	return NewProgram(fset, pkgs, prefix), nil
}

type sourceImporter struct {
	checked  map[string]*types.Package
	fallback types.Importer
}

func (i *sourceImporter) Import(path string) (*types.Package, error) {
	if pkg, ok := i.checked[path]; ok {
		return pkg, nil
	}
	return i.fallback.Import(path)
}
