package scan

import (
	"go/ast"
	"go/token"
	"strings"
)

// DefaultPrefix introduces markers: //markgen:<name> [args...].
const DefaultPrefix = "markgen"

// Marker names.
const (
	MarkerScope         = "scope"
	MarkerProvides      = "provides"
	MarkerEvents        = "fsm-events"
	MarkerContext       = "fsm-context"
	MarkerPlugInterface = "plug-interface"
	MarkerPlugin        = "plugin"
	MarkerPlug          = "plug"
	MarkerOnClick       = "on-click"
	MarkerOnChecked     = "on-checked"
	MarkerOnTextChanged = "on-text-changed"
)

// Marker is one parsed directive comment.
type Marker struct {
	Name  string
	Args  []string
	Named map[string]string
	Pos   token.Position
}

// Arg returns the i'th positional argument, or "".
func (m Marker) Arg(i int) string {
	if i < len(m.Args) {
		return m.Args[i]
	}
	return ""
}

// Value returns a key=value argument.
func (m Marker) Value(key string) (string, bool) {
	v, ok := m.Named[key]
	return v, ok
}

// ArgOrValue returns the named argument key, falling back to the first
// positional argument.
func (m Marker) ArgOrValue(key string) string {
	if v, ok := m.Named[key]; ok {
		return v
	}
	return m.Arg(0)
}

// NumArgs counts positional and named arguments.
func (m Marker) NumArgs() int {
	return len(m.Args) + len(m.Named)
}

// ParseMarkers extracts the markers with prefix from comment groups.
func ParseMarkers(fset *token.FileSet, prefix string, groups ...*ast.CommentGroup) []Marker {
	lead := "//" + prefix + ":"
	var out []Marker
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.List {
			if !strings.HasPrefix(c.Text, lead) {
				continue
			}
			m, ok := parseMarker(strings.TrimPrefix(c.Text, lead))
			if !ok {
				continue
			}
			m.Pos = fset.Position(c.Slash)
			out = append(out, m)
		}
	}
	return out
}

func parseMarker(text string) (Marker, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return Marker{}, false
	}
	m := Marker{Name: fields[0]}
	for _, f := range fields[1:] {
		if k, v, ok := strings.Cut(f, "="); ok && k != "" {
			if m.Named == nil {
				m.Named = make(map[string]string)
			}
			m.Named[k] = v
			continue
		}
		m.Args = append(m.Args, f)
	}
	return m, true
}
