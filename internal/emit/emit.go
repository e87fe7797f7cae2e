// Package emit renders validated descriptors into Go source units.
//
// Every unit is produced by a text/template executed against a view built
// through one File, which owns the import set, the type qualifier and
// identifier escaping. The result is formatted with x/tools/imports.
package emit

import (
	"embed"
	"fmt"
	"path"
	"path/filepath"
	"text/template"

	"github.com/GoCodeAlone/markgen/internal/model"
	"github.com/GoCodeAlone/markgen/internal/scan"
)

// Defaults of Options.
const (
	DefaultSuffix     = "_gen.go"
	DefaultInjectPath = "github.com/GoCodeAlone/markgen/inject"
	DefaultFSMPath    = "github.com/GoCodeAlone/markgen/fsm"
	DefaultPlugPath   = "github.com/GoCodeAlone/markgen/plug"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Kind is the kind of a generated artifact.
type Kind int

const (
	KindProvider Kind = iota
	KindState
	KindPlugInvoker
	KindHandlerInvoker
	KindPlugger
	KindDelegate
)

func (k Kind) String() string {
	switch k {
	case KindState:
		return "state"
	case KindPlugInvoker:
		return "plug-invoker"
	case KindHandlerInvoker:
		return "handler-invoker"
	case KindPlugger:
		return "plugger"
	case KindDelegate:
		return "delegate"
	default:
		return "provider"
	}
}

func (k Kind) template() string {
	switch k {
	case KindState:
		return "state.tmpl"
	case KindPlugInvoker:
		return "invoker.tmpl"
	case KindHandlerInvoker:
		return "handler.tmpl"
	case KindPlugger:
		return "plugger.tmpl"
	case KindDelegate:
		return "delegate.tmpl"
	default:
		return "provider.tmpl"
	}
}

// Artifact is one generated type and the descriptor it is rendered from.
type Artifact struct {
	Name    string
	Kind    Kind
	PkgPath string
	PkgName string
	// Dir is the package directory; empty for in-memory packages.
	Dir     string
	Subject model.Source
	// Skipped is set when validation rejected the descriptor.
	Skipped bool

	desc any
}

// Unit is one finished source file.
type Unit struct {
	Artifact Artifact
	Filename string
	// Path is Filename inside the package directory, or inside the import
	// path when the directory is unknown.
	Path   string
	Source []byte
}

// Options configures an Emitter.
type Options struct {
	Suffix     string
	InjectPath string
	FSMPath    string
	PlugPath   string
}

// Emitter plans and renders artifacts.
type Emitter struct {
	opts      Options
	templates *template.Template
}

// New parses the embedded templates.
func New(opts Options) (*Emitter, error) {
	if opts.Suffix == "" {
		opts.Suffix = DefaultSuffix
	}
	if opts.InjectPath == "" {
		opts.InjectPath = DefaultInjectPath
	}
	if opts.FSMPath == "" {
		opts.FSMPath = DefaultFSMPath
	}
	if opts.PlugPath == "" {
		opts.PlugPath = DefaultPlugPath
	}
	tmpl, err := template.ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Emitter{opts: opts, templates: tmpl}, nil
}

// Suffix returns the generated file suffix.
func (e *Emitter) Suffix() string {
	return e.opts.Suffix
}

// Plan lists every artifact of b in family order. Artifacts whose
// descriptor is invalid are listed as skipped.
func (e *Emitter) Plan(b *model.Batch, table scan.SymbolTable) []Artifact {
	var out []Artifact
	add := func(name string, kind Kind, pkgPath, pkgName string, src model.Source, invalid bool, desc any) {
		a := Artifact{
			Name:    name,
			Kind:    kind,
			PkgPath: pkgPath,
			PkgName: pkgName,
			Subject: src,
			Skipped: invalid,
			desc:    desc,
		}
		if pkg, ok := table.Package(pkgPath); ok {
			a.Dir = pkg.Dir
			a.PkgName = pkg.Name
		}
		out = append(out, a)
	}

	for _, s := range b.Scopes() {
		if !s.Declared {
			continue
		}
		add(s.Name+"_DependencyProvider", KindProvider, s.PkgPath, pkgName(s.Source), s.Source, s.Invalid, s)
	}
	for _, sm := range b.Machines() {
		add("State", KindState, sm.PkgPath, "", sm.Source, sm.Invalid, sm)
	}
	for _, c := range b.Contracts() {
		add(c.Name+"_PlugInvoker", KindPlugInvoker, c.PkgPath, pkgName(c.Source), c.Source, c.Invalid, c)
		if c.Mode == model.ModeBroadcast {
			add(c.Name+"_HandlerInvoker", KindHandlerInvoker, c.PkgPath, pkgName(c.Source), c.Source, c.Invalid, c)
		}
	}
	for _, p := range b.Plugins() {
		if !p.Marked {
			continue
		}
		add(p.Name+"_Plugger", KindPlugger, p.PkgPath, pkgName(p.Source), p.Source, p.Invalid, p)
	}
	for _, d := range b.Delegates() {
		add(d.Name+"_EventsDelegate", KindDelegate, d.PkgPath, pkgName(d.Source), d.Source, d.Invalid, d)
	}
	return out
}

func pkgName(src model.Source) string {
	if src.Obj == nil || src.Obj.Pkg() == nil {
		return ""
	}
	return src.Obj.Pkg().Name()
}

// Render produces the unit of a planned, non-skipped artifact.
func (e *Emitter) Render(a Artifact) (Unit, error) {
	if a.Skipped {
		return Unit{}, fmt.Errorf("artifact %s was rejected by validation", a.Name)
	}
	if a.PkgName == "" {
		return Unit{}, fmt.Errorf("package name of %s is unknown", a.PkgPath)
	}

	f := NewFile(a.PkgPath, a.PkgName)
	var view any
	switch d := a.desc.(type) {
	case *model.ScopeDescriptor:
		view = e.providerView(f, a, d)
	case *model.StateMachineDescriptor:
		view = e.stateView(f, d)
	case *model.PlugInterfaceDescriptor:
		view = e.invokerView(f, d)
	case *model.PluginDescriptor:
		view = e.pluggerView(f, a, d)
	case *model.DelegateDescriptor:
		view = newDelegateView(a, d)
	default:
		return Unit{}, fmt.Errorf("artifact %s has no descriptor", a.Name)
	}

	if err := e.templates.ExecuteTemplate(f.Body(), a.Kind.template(), view); err != nil {
		return Unit{}, fmt.Errorf("failed to render %s: %w", a.Name, err)
	}

	name := Filename(a.Name, e.opts.Suffix)
	u := Unit{Artifact: a, Filename: name, Path: path.Join(a.PkgPath, name)}
	if a.Dir != "" {
		u.Path = filepath.Join(a.Dir, name)
	}
	src, err := f.Bytes(u.Path)
	if err != nil {
		return Unit{}, err
	}
	u.Source = src
	return u, nil
}
