// Package statemodel builds state machine descriptors from event and context
// contracts.
package statemodel

import (
	"go/types"

	"github.com/GoCodeAlone/markgen/internal/model"
	"github.com/GoCodeAlone/markgen/internal/scan"
)

// Build records every fsm-events and fsm-context contract on the machine of
// its target. Contracts reached more than once merge into the same members.
func Build(b *model.Batch, table scan.SymbolTable, decls []*scan.Decl) {
	for _, d := range decls {
		if m, ok := d.Marker(scan.MarkerEvents); ok {
			AddEvents(table, machineFor(b, d, m), d.Named())
		}
		if m, ok := d.Marker(scan.MarkerContext); ok {
			AddContext(table, machineFor(b, d, m), d.Named())
		}
	}
}

func machineFor(b *model.Batch, d *scan.Decl, m scan.Marker) *model.StateMachineDescriptor {
	sm := b.Machine(model.Qualify(d.PkgPath(), m.Arg(0)))
	if sm.Source.Obj == nil {
		sm.Source = d.Source
	}
	return sm
}

// AddEvents merges the flattened methods of contract into sm as triggers.
func AddEvents(table scan.SymbolTable, sm *model.StateMachineDescriptor, contract *types.TypeName) {
	sm.AddEvents(contract)
	for _, fn := range scan.Flatten(contract) {
		sig := fn.Type().(*types.Signature)
		params := model.Params(sig.Params())
		sm.AddEventMethod(&model.EventMethodDescriptor{
			Name:      fn.Name(),
			Params:    params,
			Variadic:  sig.Variadic(),
			Results:   model.Results(sig.Results()),
			Signature: model.Signature(fn.Name(), params, sig.Variadic()),
			Source:    scan.MemberSource(table, fn, contract),
		})
	}
}

// AddContext merges the flattened methods of contract into sm as setters.
func AddContext(table scan.SymbolTable, sm *model.StateMachineDescriptor, contract *types.TypeName) {
	sm.AddContext(contract)
	for _, fn := range scan.Flatten(contract) {
		sig := fn.Type().(*types.Signature)
		params := model.Params(sig.Params())
		sm.AddSetter(&model.SetterMethodDescriptor{
			Name:      fn.Name(),
			Params:    params,
			Results:   model.Results(sig.Results()),
			Signature: model.Signature(fn.Name(), params, sig.Variadic()),
			Source:    scan.MemberSource(table, fn, contract),
		})
	}
}
