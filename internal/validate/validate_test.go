package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/GoCodeAlone/markgen/internal/depgraph"
	"github.com/GoCodeAlone/markgen/internal/eventmodel"
	"github.com/GoCodeAlone/markgen/internal/model"
	"github.com/GoCodeAlone/markgen/internal/plugmodel"
	"github.com/GoCodeAlone/markgen/internal/scan"
	"github.com/GoCodeAlone/markgen/internal/statemodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, srcs ...scan.SourcePackage) *model.Batch {
	t.Helper()
	prog, err := scan.Check("", srcs...)
	require.NoError(t, err)
	b := model.NewBatch(nil)
	decls := scan.Scan(prog, b)
	depgraph.Resolve(b, prog, decls, depgraph.Options{})
	statemodel.Build(b, prog, decls)
	plugmodel.Build(b, prog, decls)
	eventmodel.Build(b, prog, decls)
	Validate(b, prog, Options{GeneratedSuffix: "_gen.go"})
	return b
}

func pkg(path, src string) scan.SourcePackage {
	name := path[strings.LastIndex(path, "/")+1:]
	return scan.SourcePackage{Path: path, Files: map[string]string{name + ".go": src}}
}

// messages returns the diagnostics wrapping kind.
func messages(b *model.Batch, kind error) []string {
	var out []string
	for _, d := range b.Diagnostics() {
		if errors.Is(d, kind) {
			out = append(out, d.Error())
		}
	}
	return out
}

func containsAny(msgs []string, sub string) bool {
	for _, m := range msgs {
		if strings.Contains(m, sub) {
			return true
		}
	}
	return false
}

const shopSource = `package shop

import "context"

//markgen:scope
type ShopScope struct{}

type Foo struct{}

//markgen:provides
func (s *ShopScope) Foo() *Foo { return &Foo{} }

//markgen:provides
func NewService(ctx context.Context, f *Foo) *Service { return &Service{} }

type Service struct{}

//markgen:provides
func NewSized(size int) *Sized { return nil }

type Sized struct{}

type Unknown struct{}

//markgen:provides
func NewNeedy(u *Unknown) *Needy { return nil }

type Needy struct{}

//markgen:provides
func Start() {}

//markgen:provides Missing
func NewLost() *Lost { return nil }

type Lost struct{}

type Runner interface{ Run() }

//markgen:provides Runner
func NewIdle() *Idle { return nil }

type Idle struct{}
`

func TestValidateProviders(t *testing.T) {
	b := run(t, pkg("example.com/shop", shopSource))

	msgs := messages(b, model.ErrInvalidProviderSignature)
	assert.Len(t, msgs, 5)
	assert.True(t, containsAny(msgs, "parameter size has basic type int"))
	assert.True(t, containsAny(msgs, "parameter u of type *shop.Unknown is neither provided nor allowed"))
	assert.True(t, containsAny(msgs, "providers must return exactly one value, got 0"))
	assert.True(t, containsAny(msgs, `cannot resolve provided type "Missing"`))
	assert.True(t, containsAny(msgs, "*shop.Idle is not assignable to shop.Runner"))
	assert.False(t, containsAny(msgs, "NewService"), "context.Context is allowed and *Foo is provided")

	scope, ok := b.LookupScope("example.com/shop.ShopScope")
	require.True(t, ok)
	assert.True(t, scope.Invalid)
}

func TestValidateAcceptsProvidedParameters(t *testing.T) {
	b := run(t, pkg("example.com/shop", `package shop

//markgen:scope
type ShopScope struct{}

//markgen:provides
type Foo struct{}

//markgen:provides
func NewBar(f *Foo) *Bar { return &Bar{} }

type Bar struct{}
`))
	assert.Empty(t, b.Diagnostics())
	scope, _ := b.LookupScope("example.com/shop.ShopScope")
	assert.False(t, scope.Invalid)
	assert.Len(t, scope.Providers, 2)
}

func TestValidateRejectsProviderCycles(t *testing.T) {
	b := run(t, pkg("example.com/shop", `package shop

//markgen:scope
type ShopScope struct{}

type A struct{}

type B struct{}

//markgen:provides
func NewA(b *B) *A { return nil }

//markgen:provides
func NewB(a *A) *B { return nil }
`))
	cycles := messages(b, model.ErrCircularDependency)
	require.Len(t, cycles, 1)
	assert.Contains(t, cycles[0], "NewA -> NewB -> NewA")
	assert.Empty(t, messages(b, model.ErrInvalidProviderSignature))

	scope, _ := b.LookupScope("example.com/shop.ShopScope")
	assert.True(t, scope.Invalid)
}

func TestValidateAcceptsSharedDependencies(t *testing.T) {
	b := run(t,
		pkg("example.com/shop", `package shop

//markgen:scope
type ShopScope struct{}

type A struct{}

type B struct{}

type C struct{}

//markgen:provides
func NewA(b *B, c *C) *A { return nil }

//markgen:provides
func NewB(c *C) *B { return nil }

//markgen:provides
func NewC() *C { return nil }
`),
		pkg("example.com/shop/checkout", `package checkout

import "example.com/shop"

//markgen:scope
type CheckoutScope struct{}

type Order struct{}

//markgen:provides
func NewOrder(a *shop.A, c *shop.C) *Order { return nil }
`))
	assert.Empty(t, b.Diagnostics())
	for _, s := range b.Scopes() {
		assert.False(t, s.Invalid, s.Name)
	}
}

const coffeeSource = `package coffee

type Heater struct{}

//markgen:fsm-events Machine
type Events interface {
	Brew(cups int)
	Status() string
	Init()
}

//markgen:fsm-context Machine
type Context interface {
	SetHeater(heater *Heater)
	SetPair(a, b *Heater)
	Brew(h *Heater)
}

//markgen:fsm-events Other
type OtherEvents interface{ Stop() }

//markgen:fsm-events example.com/nowhere.Machine
type Lost interface{ Go() }
`

func TestValidateMachines(t *testing.T) {
	b := run(t, pkg("example.com/coffee", coffeeSource))

	events := messages(b, model.ErrInvalidEventSignature)
	assert.True(t, containsAny(events, "event Status must not return values"))

	setters := messages(b, model.ErrInvalidSetterSignature)
	assert.True(t, containsAny(setters, "setter SetPair must take exactly one parameter"))
	assert.True(t, containsAny(setters, "setter Brew(*coffee.Heater) conflicts with Brew(int)"))

	assert.True(t, containsAny(messages(b, model.ErrReservedName), "Init is a state engine method"))
	assert.True(t, containsAny(messages(b, model.ErrDispatcherConflict), "Machine and Other both generate State"))
	assert.True(t, containsAny(messages(b, model.ErrUnknownTarget), "example.com/nowhere is not loaded"))

	for _, sm := range b.Machines() {
		assert.True(t, sm.Invalid, sm.Target)
	}
}

func TestValidateAcceptsMachine(t *testing.T) {
	b := run(t, pkg("example.com/coffee", `package coffee

type Heater struct{}

//markgen:fsm-events Machine
type Events interface {
	Brew(cups int)
}

//markgen:fsm-context Machine
type Context interface {
	SetHeater(heater *Heater)
}
`))
	assert.Empty(t, b.Diagnostics())
	assert.False(t, b.Machine("example.com/coffee.Machine").Invalid)
}

const clickerSource = `package clicker

//markgen:plug-interface broadcast
type Clicker interface {
	Fire()
	Count() int
}

//markgen:plug-interface
type Namer interface {
	PluginSet()
}

//markgen:plugin
type Button struct {
	clicker Clicker //markgen:plug
	label   *Clicker //markgen:plug
	plain   string  //markgen:plug
}

type Loose struct {
	clicker Clicker //markgen:plug
}

//markgen:plugin
type Counter struct{}

func (c *Counter) PluginSet() {}
`

func TestValidatePlugins(t *testing.T) {
	b := run(t, pkg("example.com/clicker", clickerSource))

	clicker, ok := b.LookupContract("example.com/clicker.Clicker")
	require.True(t, ok)
	assert.False(t, clicker.Invalid)
	assert.False(t, clicker.Methods[0].Deferred)
	assert.True(t, clicker.Methods[1].Deferred)

	var warned bool
	for _, d := range b.Diagnostics() {
		if errors.Is(d, model.ErrBroadcastValue) {
			warned = true
			assert.Equal(t, model.SeverityWarning, d.Severity)
		}
	}
	assert.True(t, warned)

	assert.True(t, containsAny(messages(b, model.ErrReservedName), "PluginSet is generated on the invokers of Namer"))

	fields := messages(b, model.ErrInvalidPlugField)
	assert.True(t, containsAny(fields, "field must have type Clicker"))
	assert.True(t, containsAny(fields, "string is not a plug contract"))
	assert.True(t, containsAny(fields, "Loose is not marked as a plugin"))
	assert.True(t, containsAny(fields, "plugin Counter implements invalid contract Namer"))

	for _, p := range b.Plugins() {
		assert.True(t, p.Invalid, p.Name)
	}
}

func TestValidateDefersBroadcastValueMethods(t *testing.T) {
	b := run(t, pkg("example.com/clicker", `package clicker

//markgen:plug-interface broadcast
type Clicker interface {
	Fire(label string)
	Count() int
}

//markgen:plugin
type Button struct{}

func (b *Button) Fire(label string) {}
func (b *Button) Count() int        { return 0 }
`))
	require.Len(t, b.Diagnostics(), 1)
	d := b.Diagnostics()[0]
	assert.True(t, errors.Is(d, model.ErrBroadcastValue))
	assert.Equal(t, model.SeverityWarning, d.Severity)
	assert.Contains(t, d.Error(), "Count() returns a value")
	assert.Equal(t, 0, b.ErrorCount())

	clicker, ok := b.LookupContract("example.com/clicker.Clicker")
	require.True(t, ok)
	assert.False(t, clicker.Invalid)
	for _, m := range clicker.Methods {
		assert.Equal(t, m.Name == "Count", m.Deferred, m.Name)
	}
}

const presenterSource = `package login

type Presenter interface {
	//markgen:on-click
	OnOkClick()

	//markgen:on-click
	OnOKClick()

	//markgen:on-checked
	OnRememberChecked(on string)

	//markgen:on-text-changed
	OnNameTextChanged(text string) error

	//markgen:on-click
	Submit()
}

type Valid interface {
	//markgen:on-click
	OnOkClick()

	//markgen:on-checked
	OnOkChecked(checked bool)

	//markgen:on-text-changed
	OnNameTextChanged(text string)
}
`

func TestValidateDelegates(t *testing.T) {
	b := run(t, pkg("example.com/login", presenterSource))

	naming := messages(b, model.ErrInvalidHandlerNaming)
	assert.True(t, containsAny(naming, `OnOkClick and OnOKClick share the click tag "ok"`))
	assert.True(t, containsAny(naming, "click handlers must be named On<Tag>Click"))

	shape := messages(b, model.ErrInvalidHandlerSignature)
	assert.True(t, containsAny(shape, "OnRememberChecked must take exactly one bool"))
	assert.True(t, containsAny(shape, "OnNameTextChanged must not return values"))

	for _, d := range b.Delegates() {
		assert.Equal(t, d.Name == "Presenter", d.Invalid, d.Name)
	}
}
