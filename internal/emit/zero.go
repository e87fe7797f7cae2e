package emit

import (
	"go/types"
)

// Zero renders the value returned for t when no target is available.
func (f *File) Zero(t types.Type) string {
	switch t := t.(type) {
	case *types.Basic:
		if t.Name() == "rune" {
			return `'\x00'`
		}
	case *types.TypeParam:
		return "*new(" + f.Type(t) + ")"
	}
	switch u := t.Underlying().(type) {
	case *types.Basic:
		switch {
		case u.Info()&types.IsBoolean != 0:
			return "false"
		case u.Info()&types.IsString != 0:
			return `""`
		case u.Info()&types.IsNumeric != 0:
			return "0"
		}
		return "nil"
	case *types.Pointer, *types.Slice, *types.Map, *types.Chan, *types.Signature, *types.Interface:
		return "nil"
	case *types.Struct, *types.Array:
		return f.Type(t) + "{}"
	}
	return "*new(" + f.Type(t) + ")"
}

// Zeros renders the zero values of ts separated by commas.
func (f *File) Zeros(ts []types.Type) string {
	out := ""
	for i, t := range ts {
		if i > 0 {
			out += ", "
		}
		out += f.Zero(t)
	}
	return out
}
