// Package plugmodel builds plug contract and plugin descriptors.
package plugmodel

import (
	"go/types"

	"github.com/GoCodeAlone/markgen/internal/depgraph"
	"github.com/GoCodeAlone/markgen/internal/model"
	"github.com/GoCodeAlone/markgen/internal/scan"
)

// Mode arguments of the plug-interface marker.
const (
	ArgSingle    = "single"
	ArgBroadcast = "broadcast"
)

// Build records contracts, plugins and plug fields. Scopes must already be
// declared on b so that field scopes can be resolved.
func Build(b *model.Batch, table scan.SymbolTable, decls []*scan.Decl) {
	for _, d := range scan.Select(decls, scan.MarkerPlugInterface) {
		addContract(b, table, d)
	}
	for _, d := range scan.Select(decls, scan.MarkerPlugin) {
		p := b.Plugin(d.Source.Name)
		p.Marked = true
		p.Source = d.Source
	}
	for _, d := range scan.Select(decls, scan.MarkerPlug) {
		addField(b, table, d)
	}
	for _, p := range b.Plugins() {
		p.Implements = Implemented(b, p)
	}
}

func addContract(b *model.Batch, table scan.SymbolTable, d *scan.Decl) {
	c := b.Contract(d.Source.Name)
	c.Source = d.Source

	m, _ := d.Marker(scan.MarkerPlugInterface)
	switch arg := m.Arg(0); arg {
	case "", ArgSingle:
		c.Mode = model.ModeSingle
	case ArgBroadcast:
		c.Mode = model.ModeBroadcast
	default:
		c.Invalid = true
		src := d.Source
		src.Pos = m.Pos
		b.Report(model.Errorf(src, model.ErrMarkerArguments,
			"unknown dispatch mode %q; expected %s or %s", arg, ArgSingle, ArgBroadcast))
	}

	c.Methods = nil
	for _, fn := range scan.Flatten(d.Named()) {
		sig := fn.Type().(*types.Signature)
		params := model.Params(sig.Params())
		c.Methods = append(c.Methods, &model.PlugMethod{
			Name:      fn.Name(),
			Params:    params,
			Variadic:  sig.Variadic(),
			Results:   model.Results(sig.Results()),
			Signature: model.Signature(fn.Name(), params, sig.Variadic()),
		})
	}
}

func addField(b *model.Batch, table scan.SymbolTable, d *scan.Decl) {
	owner := d.Owner
	p := b.Plugin(model.QualifiedName(owner))
	if p.Source.Obj == nil {
		p.Source = model.Source{
			Name: model.QualifiedName(owner),
			Pos:  table.Position(owner),
			Obj:  owner,
		}
	}

	f := &model.PlugFieldDescriptor{
		Name:   d.Obj.Name(),
		Type:   d.Obj.Type(),
		Source: d.Source,
	}
	if tn := scan.NamedOf(f.Type); tn != nil && types.IsInterface(tn.Type()) {
		if c, ok := b.LookupContract(model.QualifiedName(tn)); ok {
			f.Contract = c
		}
	}

	m, _ := d.Marker(scan.MarkerPlug)
	if override := m.ArgOrValue("scope"); override != "" {
		f.ScopeOverride = model.Qualify(d.PkgPath(), override)
		if s, ok := b.LookupScope(f.ScopeOverride); ok && s.Declared {
			f.Scope = s
		}
	} else if s, err := depgraph.Nearest(b, d.PkgPath()); err == nil {
		f.Scope = s
		f.Implicit = true
	}
	p.Fields = append(p.Fields, f)
}

// Implemented returns the contracts of b that *P implements, in contract
// order.
func Implemented(b *model.Batch, p *model.PluginDescriptor) []*model.PlugInterfaceDescriptor {
	tn := p.Named()
	if tn == nil {
		return nil
	}
	ptr := types.NewPointer(tn.Type())
	var out []*model.PlugInterfaceDescriptor
	for _, c := range b.Contracts() {
		ctn := c.Named()
		if ctn == nil {
			continue
		}
		iface, ok := ctn.Type().Underlying().(*types.Interface)
		if !ok {
			continue
		}
		if types.Implements(ptr, iface) {
			out = append(out, c)
		}
	}
	return out
}
