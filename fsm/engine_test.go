package fsm

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type events interface {
	Ping()
}

// node is a minimal hand-written dispatcher with one trigger.
type node struct {
	Engine[events]
	name  string
	calls *[]string
}

func newEngine(calls *[]string) *node {
	n := &node{name: "engine", calls: calls}
	n.Init(n, nil)
	return n
}

func newNode(engine *node, name string) *node {
	n := &node{name: name, calls: engine.calls}
	n.Init(n, &engine.Engine)
	return n
}

func (n *node) Ping() {
	if n.HasActiveState() {
		n.ActiveState().Ping()
	} else if super, ok := n.SuperState(); ok {
		super.Ping()
	} else {
		n.Unhandled("Ping")
	}
}

type handled struct {
	*node
}

func (h *handled) Ping() {
	*h.calls = append(*h.calls, h.name)
}

func TestUnhandledWithoutStateOrSuperstate(t *testing.T) {
	var calls []string
	e := newEngine(&calls)

	var reported []error
	e.OnError(func(event string, err error) {
		reported = append(reported, err)
	})

	e.Ping()

	assert.Equal(t, []string{"Ping"}, e.UnhandledEvents())
	require.Len(t, reported, 1)
	assert.True(t, errors.Is(reported[0], ErrUnhandledEvent))
	assert.Contains(t, reported[0].Error(), "Ping")
	assert.Empty(t, calls)
}

func TestSuperstateReceivesEventWithoutDiagnostics(t *testing.T) {
	var calls []string
	e := newEngine(&calls)
	e.SetSuperState(&handled{node: newNode(e, "super")})

	e.Ping()

	assert.Equal(t, []string{"super"}, calls)
	assert.Empty(t, e.UnhandledEvents())
}

func TestActiveStateWinsOverSuperstate(t *testing.T) {
	var calls []string
	e := newEngine(&calls)
	e.SetSuperState(&handled{node: newNode(e, "super")})
	e.TransitTo(&handled{node: newNode(e, "active")})

	require.True(t, e.HasActiveState())
	e.Ping()

	assert.Equal(t, []string{"active"}, calls)
}

func TestStateNodeFallsBackToItsSuperstate(t *testing.T) {
	var calls []string
	e := newEngine(&calls)
	parent := &handled{node: newNode(e, "parent")}
	child := newNode(e, "child")
	child.SetSuperState(parent)
	e.TransitTo(child)

	e.Ping()

	assert.Equal(t, []string{"parent"}, calls)
	assert.False(t, child.IsEngine())
	assert.False(t, child.HasActiveState())
	assert.Same(t, e, child.Governor())
}

func TestSuperstateEqualToEngineIsIgnored(t *testing.T) {
	var calls []string
	e := newEngine(&calls)
	leaf := newNode(e, "leaf")
	leaf.SetSuperState(e)
	e.TransitTo(leaf)

	e.Ping()

	assert.Equal(t, []string{"Ping"}, leaf.UnhandledEvents())
	assert.Empty(t, calls)
}
