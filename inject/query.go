// Package inject is the runtime consumed by generated dependency providers.
//
// A generated <Scope>_DependencyProvider feeds a Query with every provider bound
// to its scope, in declaration order. Types are only compared here; instances
// are always built by direct calls in generated code.
package inject

import (
	"reflect"
)

// Mode selects how many candidates a Query accepts.
type Mode int

const (
	// FindFirst stops at the first accepted candidate.
	FindFirst Mode = iota
	// FindAll collects every candidate with a distinct concrete type.
	FindAll
)

// Query collects the instances that satisfy a request for one type.
type Query struct {
	target reflect.Type
	mode   Mode
	found  []any
	seen   map[reflect.Type]struct{}
}

// NewQuery creates a query for T.
func NewQuery[T any](mode Mode) *Query {
	return &Query{
		target: reflect.TypeFor[T](),
		mode:   mode,
		seen:   make(map[reflect.Type]struct{}),
	}
}

// Target returns the requested type.
func (q *Query) Target() reflect.Type {
	return q.target
}

// Mode returns the query mode.
func (q *Query) Mode() Mode {
	return q.mode
}

// Matches reports whether a provider declaring provided and producing concrete
// can contribute to q. A concrete type that was already accepted never matches
// again, so a find-all query holds at most one instance per concrete type.
func (q *Query) Matches(provided, concrete reflect.Type) bool {
	if !provided.AssignableTo(q.target) {
		return false
	}
	_, dup := q.seen[concrete]
	return !dup
}

// Add accepts v and reports whether the query is satisfied.
func (q *Query) Add(v any) bool {
	if v == nil {
		return false
	}
	key := reflect.TypeOf(v)
	if _, dup := q.seen[key]; dup {
		return q.Done()
	}
	q.seen[key] = struct{}{}
	q.found = append(q.found, v)
	return q.Done()
}

// Done reports whether no further candidates are wanted.
func (q *Query) Done() bool {
	return q.mode == FindFirst && len(q.found) > 0
}

// Results returns the accepted instances in acceptance order.
func (q *Query) Results() []any {
	return q.found
}

// Matches is the typed form of (*Query).Matches used by generated code.
func Matches[P, C any](q *Query) bool {
	return q.Matches(reflect.TypeFor[P](), reflect.TypeFor[C]())
}
