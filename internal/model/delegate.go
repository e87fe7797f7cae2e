package model

import (
	"go/types"
	"strings"
)

// HandlerKind is the view event a presenter handler reacts to.
type HandlerKind int

const (
	HandlerClick HandlerKind = iota
	HandlerChecked
	HandlerTextChanged
)

// HandlerPrefix starts every handler name.
const HandlerPrefix = "On"

// Suffix returns the name suffix handlers of kind k carry.
func (k HandlerKind) Suffix() string {
	switch k {
	case HandlerChecked:
		return "Checked"
	case HandlerTextChanged:
		return "TextChanged"
	default:
		return "Click"
	}
}

func (k HandlerKind) String() string {
	return strings.ToLower(k.Suffix())
}

// HandlerName builds On<Tag><Kind>.
func HandlerName(k HandlerKind, tag string) string {
	return HandlerPrefix + tag + k.Suffix()
}

// HandlerTag extracts Tag from On<Tag><Kind>.
func HandlerTag(k HandlerKind, name string) (string, bool) {
	if len(name) <= len(HandlerPrefix)+len(k.Suffix()) {
		return "", false
	}
	if !strings.HasPrefix(name, HandlerPrefix) || !strings.HasSuffix(name, k.Suffix()) {
		return "", false
	}
	return name[len(HandlerPrefix) : len(name)-len(k.Suffix())], true
}

// DelegateDescriptor is one generated <Interface>_EventsDelegate.
type DelegateDescriptor struct {
	QualifiedName string
	Name          string
	PkgPath       string
	Source        Source
	Handlers      []*HandlerDescriptor
	Invalid       bool
}

// Of returns the handlers of kind k in declaration order.
func (d *DelegateDescriptor) Of(k HandlerKind) []*HandlerDescriptor {
	var out []*HandlerDescriptor
	for _, h := range d.Handlers {
		if h.Kind == k {
			out = append(out, h)
		}
	}
	return out
}

// HandlerDescriptor is one marked presenter method.
type HandlerDescriptor struct {
	Kind    HandlerKind
	Name    string
	Tag     string
	Params  []Param
	Results []types.Type
	Source  Source
}

// Key is the tag the generated delegate compares against.
func (h *HandlerDescriptor) Key() string {
	return strings.ToLower(h.Tag)
}
