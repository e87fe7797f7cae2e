package eventmodel

import (
	"errors"
	"testing"

	"github.com/GoCodeAlone/markgen/internal/model"
	"github.com/GoCodeAlone/markgen/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

const presenterSource = `package login

type Presenter interface {
	//markgen:on-click
	OnOkClick()

	//markgen:on-checked
	OnRememberChecked(checked bool)

	//markgen:on-text-changed
	OnUserNameTextChanged(text string)

	//markgen:on-click
	Submit()
}

type View struct{}

//markgen:on-click
func (v *View) OnCancelClick() {}
`

func TestBuildGroupsHandlers(t *testing.T) {
	prog, err := scan.Check("", scan.SourcePackage{Path: "example.com/login", Files: map[string]string{"login.go": presenterSource}})
	require.NoError(t, err)
	b := model.NewBatch(nil)
	Build(b, prog, scan.Scan(prog, b))

	delegates := b.Delegates()
	require.Len(t, delegates, 1)
	dl := delegates[0]
	assert.Equal(t, "Presenter", dl.Name)
	require.Len(t, dl.Handlers, 4)

	clicks := dl.Of(model.HandlerClick)
	require.Len(t, clicks, 2)
	assert.Equal(t, "Ok", clicks[0].Tag)
	assert.Equal(t, "ok", clicks[0].Key())
	assert.Equal(t, "", clicks[1].Tag, "Submit does not follow the naming convention")

	checked := dl.Of(model.HandlerChecked)
	require.Len(t, checked, 1)
	assert.Equal(t, "Remember", checked[0].Tag)
	require.Len(t, checked[0].Params, 1)

	text := dl.Of(model.HandlerTextChanged)
	require.Len(t, text, 1)
	assert.Equal(t, "username", text[0].Key())

	require.Len(t, b.Diagnostics(), 1)
	assert.True(t, errors.Is(b.Diagnostics()[0], model.ErrInvalidHandlerSignature))
}

func TestHandlerNameRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		kind := rapid.SampledFrom([]model.HandlerKind{
			model.HandlerClick, model.HandlerChecked, model.HandlerTextChanged,
		}).Draw(t, "kind")
		tag := rapid.StringMatching(`[A-Z][A-Za-z0-9]{0,12}`).Draw(t, "tag")

		name := model.HandlerName(kind, tag)
		got, ok := model.HandlerTag(kind, name)
		if !ok {
			t.Fatalf("%s was not recognised as a %s handler", name, kind)
		}
		if model.HandlerName(kind, got) != name {
			t.Fatalf("round trip of %s produced %s", name, model.HandlerName(kind, got))
		}
	})
}
