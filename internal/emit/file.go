package emit

import (
	"bytes"
	"fmt"
	"go/types"
	"path"
	"sort"
	"strconv"

	"golang.org/x/tools/imports"
)

// Header starts every generated file.
const Header = "// Code generated by markgen. DO NOT EDIT."

// ImportSet assigns local names to imported packages. It doubles as the
// types.Qualifier of a File.
type ImportSet struct {
	self     string
	byPath   map[string]string
	names    map[string]bool
	reserved map[string]bool
}

// locals are the identifiers generated bodies declare; imports never take
// these names.
var locals = []string{
	"p", "q", "r", "s", "d", "h", "i", "inv", "ok", "dep", "tag", "text", "checked",
	"scope", "super", "engine", "queue", "target", "plugin", "instance", "registry",
	"created", "marshalled", "presenter", "useMarshalling",
}

// NewImportSet creates the import set of a file in package self.
func NewImportSet(self string) *ImportSet {
	s := &ImportSet{
		self:     self,
		byPath:   make(map[string]string),
		names:    make(map[string]bool),
		reserved: make(map[string]bool, len(locals)),
	}
	for _, name := range locals {
		s.reserved[name] = true
	}
	return s
}

// Add imports pkgPath under name, or a numbered variant of it when name is
// taken, and returns the local name. Adding a path twice returns the first
// name.
func (s *ImportSet) Add(pkgPath, name string) string {
	if pkgPath == s.self {
		return ""
	}
	if local, ok := s.byPath[pkgPath]; ok {
		return local
	}
	if name == "" {
		name = path.Base(pkgPath)
	}
	name = Ident(name)
	local := name
	for i := 2; s.names[local] || s.reserved[local]; i++ {
		local = name + strconv.Itoa(i)
	}
	s.byPath[pkgPath] = local
	s.names[local] = true
	return local
}

// Qualifier implements types.Qualifier.
func (s *ImportSet) Qualifier(p *types.Package) string {
	return s.Add(p.Path(), p.Name())
}

// Write renders the import block.
func (s *ImportSet) Write(buf *bytes.Buffer) {
	if len(s.byPath) == 0 {
		return
	}
	paths := make([]string, 0, len(s.byPath))
	for p := range s.byPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	buf.WriteString("import (\n")
	for _, p := range paths {
		local := s.byPath[p]
		if local == path.Base(p) {
			fmt.Fprintf(buf, "\t%q\n", p)
			continue
		}
		fmt.Fprintf(buf, "\t%s %q\n", local, p)
	}
	buf.WriteString(")\n\n")
}

// File is one generated source file. Type references made while rendering
// the body add the imports they need.
type File struct {
	PkgPath string
	PkgName string
	Imports *ImportSet
	body    bytes.Buffer
}

// NewFile creates an empty file in package pkgName at pkgPath.
func NewFile(pkgPath, pkgName string) *File {
	return &File{
		PkgPath: pkgPath,
		PkgName: pkgName,
		Imports: NewImportSet(pkgPath),
	}
}

// Type renders t as seen from the file's package.
func (f *File) Type(t types.Type) string {
	return types.TypeString(t, f.Imports.Qualifier)
}

// Import adds pkgPath and returns its local name.
func (f *File) Import(pkgPath string) string {
	return f.Imports.Add(pkgPath, "")
}

// Object renders a reference to the package-level obj.
func (f *File) Object(obj types.Object) string {
	if obj.Pkg() == nil {
		return obj.Name()
	}
	if local := f.Imports.Qualifier(obj.Pkg()); local != "" {
		return local + "." + obj.Name()
	}
	return obj.Name()
}

// Ref renders a reference to name declared in package pkgPath called
// pkgName.
func (f *File) Ref(pkgPath, pkgName, name string) string {
	if local := f.Imports.Add(pkgPath, pkgName); local != "" {
		return local + "." + name
	}
	return name
}

// Body is the buffer templates render into.
func (f *File) Body() *bytes.Buffer {
	return &f.body
}

// Bytes assembles the header, package clause, imports and body and formats
// the result.
func (f *File) Bytes(filename string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteString("\n\npackage ")
	buf.WriteString(f.PkgName)
	buf.WriteString("\n\n")
	f.Imports.Write(&buf)
	buf.Write(f.body.Bytes())

	out, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to format %s: %w", filename, err)
	}
	return out, nil
}
