package model

import (
	"go/types"
)

// PlugMode is the dispatch mode of a plug contract.
type PlugMode int

const (
	// ModeSingle forwards to the first registered implementation.
	ModeSingle PlugMode = iota
	// ModeBroadcast forwards to every implementation, newest first.
	ModeBroadcast
)

func (m PlugMode) String() string {
	if m == ModeBroadcast {
		return "broadcast"
	}
	return "single"
}

// PlugInterfaceDescriptor is a contract invokers are generated for.
type PlugInterfaceDescriptor struct {
	QualifiedName string
	Name          string
	PkgPath       string
	Source        Source
	Mode          PlugMode
	Methods       []*PlugMethod
	Invalid       bool
}

// Named returns the contract type.
func (d *PlugInterfaceDescriptor) Named() *types.TypeName {
	tn, _ := d.Source.Obj.(*types.TypeName)
	return tn
}

// PlugMethod is one flattened contract method.
type PlugMethod struct {
	Name      string
	Params    []Param
	Variadic  bool
	Results   []types.Type
	Signature string
	// Deferred marks value-returning methods of broadcast contracts; they
	// are emitted as an unconditional invocation error.
	Deferred bool
}

// Returns reports whether the method returns values.
func (m *PlugMethod) Returns() bool {
	return len(m.Results) > 0
}

// PluginDescriptor is a struct participating in the plug registry.
type PluginDescriptor struct {
	QualifiedName string
	Name          string
	PkgPath       string
	Source        Source
	// Marked is false when the descriptor was created only by plug fields.
	Marked     bool
	Implements []*PlugInterfaceDescriptor
	Fields     []*PlugFieldDescriptor
	Invalid    bool
}

// Named returns the plugin type.
func (d *PluginDescriptor) Named() *types.TypeName {
	tn, _ := d.Source.Obj.(*types.TypeName)
	return tn
}

// PlugFieldDescriptor is an injection point on a plugin.
type PlugFieldDescriptor struct {
	Name     string
	Type     types.Type
	Source   Source
	Contract *PlugInterfaceDescriptor
	// ScopeOverride is the qualified scope named on the field.
	ScopeOverride string
	// Scope is the override when present, else the nearest scope.
	Scope    *ScopeDescriptor
	Implicit bool
}
