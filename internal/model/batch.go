package model

import (
	"github.com/google/uuid"
)

// ordered is an insertion-ordered map.
type ordered[V any] struct {
	index map[string]V
	order []string
}

func (o *ordered[V]) get(key string) (V, bool) {
	v, ok := o.index[key]
	return v, ok
}

func (o *ordered[V]) getOrCreate(key string, create func() V) V {
	if v, ok := o.index[key]; ok {
		return v
	}
	if o.index == nil {
		o.index = make(map[string]V)
	}
	v := create()
	o.index[key] = v
	o.order = append(o.order, key)
	return v
}

func (o *ordered[V]) values() []V {
	out := make([]V, 0, len(o.order))
	for _, k := range o.order {
		out = append(out, o.index[k])
	}
	return out
}

func (o *ordered[V]) clear() {
	o.index = nil
	o.order = nil
}

// Batch owns every descriptor of one generation run. Stages receive it
// explicitly; it is closed and dropped after emission.
type Batch struct {
	ID string

	scopes     ordered[*ScopeDescriptor]
	providers  []*ProviderDescriptor
	machines   ordered[*StateMachineDescriptor]
	contracts  ordered[*PlugInterfaceDescriptor]
	plugins    ordered[*PluginDescriptor]
	delegates  ordered[*DelegateDescriptor]
	diagnostic []Diagnostic
	reporter   Reporter
	closed     bool
}

// NewBatch starts a batch. Diagnostics are collected and also forwarded to
// reporter when it is non-nil.
func NewBatch(reporter Reporter) *Batch {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Batch{ID: id.String(), reporter: reporter}
}

// Report implements Reporter.
func (b *Batch) Report(d Diagnostic) {
	b.diagnostic = append(b.diagnostic, d)
	if b.reporter != nil {
		b.reporter.Report(d)
	}
}

// Diagnostics returns every diagnostic reported so far.
func (b *Batch) Diagnostics() []Diagnostic {
	return b.diagnostic
}

// ErrorCount counts error-severity diagnostics.
func (b *Batch) ErrorCount() int {
	n := 0
	for _, d := range b.diagnostic {
		if d.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Scope returns the scope for qname, creating an undeclared one on first
// reference.
func (b *Batch) Scope(qname string) *ScopeDescriptor {
	return b.scopes.getOrCreate(qname, func() *ScopeDescriptor {
		pkg, name := SplitQualified(qname)
		return &ScopeDescriptor{QualifiedName: qname, Name: name, PkgPath: pkg}
	})
}

// LookupScope returns the scope for qname without creating it.
func (b *Batch) LookupScope(qname string) (*ScopeDescriptor, bool) {
	return b.scopes.get(qname)
}

// Scopes returns scopes in first-reference order.
func (b *Batch) Scopes() []*ScopeDescriptor {
	return b.scopes.values()
}

// AddProvider records p.
func (b *Batch) AddProvider(p *ProviderDescriptor) {
	b.providers = append(b.providers, p)
}

// Providers returns providers in scan order.
func (b *Batch) Providers() []*ProviderDescriptor {
	return b.providers
}

// Machine returns the state machine for target, creating it on first
// reference.
func (b *Batch) Machine(target string) *StateMachineDescriptor {
	return b.machines.getOrCreate(target, func() *StateMachineDescriptor {
		pkg, name := SplitQualified(target)
		return &StateMachineDescriptor{Target: target, TargetName: name, PkgPath: pkg}
	})
}

// Machines returns state machines in first-reference order.
func (b *Batch) Machines() []*StateMachineDescriptor {
	return b.machines.values()
}

// Contract returns the plug contract for qname, creating it on first
// reference.
func (b *Batch) Contract(qname string) *PlugInterfaceDescriptor {
	return b.contracts.getOrCreate(qname, func() *PlugInterfaceDescriptor {
		pkg, name := SplitQualified(qname)
		return &PlugInterfaceDescriptor{QualifiedName: qname, Name: name, PkgPath: pkg}
	})
}

// LookupContract returns the plug contract for qname without creating it.
func (b *Batch) LookupContract(qname string) (*PlugInterfaceDescriptor, bool) {
	return b.contracts.get(qname)
}

// Contracts returns plug contracts in first-reference order.
func (b *Batch) Contracts() []*PlugInterfaceDescriptor {
	return b.contracts.values()
}

// Plugin returns the plugin for qname, creating it on first reference.
func (b *Batch) Plugin(qname string) *PluginDescriptor {
	return b.plugins.getOrCreate(qname, func() *PluginDescriptor {
		pkg, name := SplitQualified(qname)
		return &PluginDescriptor{QualifiedName: qname, Name: name, PkgPath: pkg}
	})
}

// Plugins returns plugins in first-reference order.
func (b *Batch) Plugins() []*PluginDescriptor {
	return b.plugins.values()
}

// Delegate returns the presenter delegate for qname, creating it on first
// reference.
func (b *Batch) Delegate(qname string) *DelegateDescriptor {
	return b.delegates.getOrCreate(qname, func() *DelegateDescriptor {
		pkg, name := SplitQualified(qname)
		return &DelegateDescriptor{QualifiedName: qname, Name: name, PkgPath: pkg}
	})
}

// Delegates returns presenter delegates in first-reference order.
func (b *Batch) Delegates() []*DelegateDescriptor {
	return b.delegates.values()
}

// Close drops every descriptor. The batch must not be used afterwards.
func (b *Batch) Close() {
	b.scopes.clear()
	b.providers = nil
	b.machines.clear()
	b.contracts.clear()
	b.plugins.clear()
	b.delegates.clear()
	b.closed = true
}

// Closed reports whether Close was called.
func (b *Batch) Closed() bool {
	return b.closed
}
