package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeter interface{ Greet() string }

type english struct{}

func (english) Greet() string { return "hello" }

type french struct{}

func (french) Greet() string { return "bonjour" }

type unrelated struct{}

// funcProvider adapts a function to Provider for tests.
type funcProvider func(q *Query, r Resolver)

func (f funcProvider) Dependencies(q *Query, r Resolver) { f(q, r) }

func TestQueryMatchesAssignability(t *testing.T) {
	q := NewQuery[greeter](FindAll)

	assert.True(t, Matches[greeter, english](q))
	assert.True(t, Matches[english, english](q))
	assert.False(t, Matches[unrelated, unrelated](q))
	assert.Equal(t, FindAll, q.Mode())
}

func TestQueryFindFirstStopsAtFirstCandidate(t *testing.T) {
	q := NewQuery[greeter](FindFirst)

	require.False(t, q.Done())
	assert.True(t, q.Add(english{}))
	assert.True(t, q.Done())
	assert.Len(t, q.Results(), 1)
}

// Find-all queries keep one instance per concrete type. Two providers of the
// same concrete type yield one result even when they declare different
// provided types; deduplicating by provided type instead is not done.
func TestQueryFindAllDedupesByConcreteType(t *testing.T) {
	q := NewQuery[greeter](FindAll)

	assert.False(t, q.Add(english{}))
	assert.False(t, Matches[greeter, english](q), "english already accepted")
	assert.True(t, Matches[greeter, french](q))
	assert.False(t, q.Add(french{}))
	assert.False(t, q.Add(english{}))

	require.Len(t, q.Results(), 2)
	assert.Equal(t, "hello", q.Results()[0].(greeter).Greet())
	assert.Equal(t, "bonjour", q.Results()[1].(greeter).Greet())
}

func TestQueryAddIgnoresNil(t *testing.T) {
	q := NewQuery[greeter](FindFirst)
	assert.False(t, q.Add(nil))
	assert.Empty(t, q.Results())
}

func TestScopeResolvesThroughParent(t *testing.T) {
	root := NewScope(funcProvider(func(q *Query, r Resolver) {
		if Matches[greeter, french](q) {
			if q.Add(french{}) {
				return
			}
		}
	}), nil)
	child := NewScope(funcProvider(func(q *Query, r Resolver) {
		if Matches[greeter, english](q) {
			if q.Add(english{}) {
				return
			}
		}
	}), root)

	g, ok := Lookup[greeter](child)
	require.True(t, ok)
	assert.Equal(t, "hello", g.Greet())

	all := All[greeter](child)
	require.Len(t, all, 2)
	assert.Equal(t, "bonjour", all[1].Greet())

	assert.Same(t, root, child.Parent())
}

func TestLookupMisses(t *testing.T) {
	s := NewScope(nil, nil)

	_, ok := Lookup[greeter](s)
	assert.False(t, ok)
	assert.Nil(t, Get[greeter](nil))
	assert.Empty(t, All[greeter](nil))
}
