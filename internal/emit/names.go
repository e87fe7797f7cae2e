package emit

import (
	"go/token"
	"go/types"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Ident returns name, suffixed with an underscore when it is a Go keyword or
// a predeclared identifier.
func Ident(name string) string {
	if token.IsKeyword(name) || types.Universe.Lookup(name) != nil {
		return name + "_"
	}
	return name
}

// Local picks a local variable name for name that clashes with no import of
// f and none of taken. Blank and empty names become p<i>.
func (f *File) Local(name string, i int, taken map[string]bool) string {
	if name == "" || name == "_" {
		name = "p" + strconv.Itoa(i)
	}
	name = Ident(name)
	for f.Imports.names[name] || taken[name] {
		name += "_"
	}
	taken[name] = true
	return name
}

// Export upper-cases the first letter of name.
func Export(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}

// Filename is the generated file name of artifact.
func Filename(artifact, suffix string) string {
	return strings.ToLower(artifact) + suffix
}
