package inject

// Provider is implemented by every generated <Scope>_DependencyProvider.
type Provider interface {
	// Dependencies offers each bound provider to q. Parameters of
	// constructors and provider methods are resolved through r.
	Dependencies(q *Query, r Resolver)
}

// Resolver answers queries, usually by walking a chain of scopes.
type Resolver interface {
	Resolve(q *Query)
}

// Scope is the base type embedded by scope structs. A scope asks its own
// provider first and then its parent.
type Scope struct {
	provider Provider
	parent   Resolver
}

// NewScope creates a standalone scope.
func NewScope(provider Provider, parent Resolver) *Scope {
	s := &Scope{}
	s.Init(provider, parent)
	return s
}

// Init binds the scope to its provider and parent. Scopes embedding Scope
// call it with their generated DependencyProvider.
func (s *Scope) Init(provider Provider, parent Resolver) {
	s.provider = provider
	s.parent = parent
}

// Parent returns the enclosing resolver, or nil for a root scope.
func (s *Scope) Parent() Resolver {
	return s.parent
}

// Resolve implements Resolver.
func (s *Scope) Resolve(q *Query) {
	if s.provider != nil {
		s.provider.Dependencies(q, s)
	}
	if !q.Done() && s.parent != nil {
		s.parent.Resolve(q)
	}
}

// Lookup resolves the first instance assignable to T.
func Lookup[T any](r Resolver) (T, bool) {
	var zero T
	if r == nil {
		return zero, false
	}
	q := NewQuery[T](FindFirst)
	r.Resolve(q)
	if len(q.found) == 0 {
		return zero, false
	}
	v, ok := q.found[0].(T)
	return v, ok
}

// Get resolves T, returning its zero value when nothing provides it.
func Get[T any](r Resolver) T {
	v, _ := Lookup[T](r)
	return v
}

// All resolves every instance assignable to T, one per concrete type.
func All[T any](r Resolver) []T {
	if r == nil {
		return nil
	}
	q := NewQuery[T](FindAll)
	r.Resolve(q)
	out := make([]T, 0, len(q.found))
	for _, v := range q.found {
		if t, ok := v.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
