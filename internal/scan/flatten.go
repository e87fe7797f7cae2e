package scan

import (
	"go/types"
	"sort"

	"github.com/GoCodeAlone/markgen/internal/model"
)

// Flatten returns the methods of interface tn followed by those of every
// interface it embeds, depth first, in declaration order. Methods reached
// twice through shared ancestors appear once.
func Flatten(tn *types.TypeName) []*types.Func {
	f := &flattener{
		visited: make(map[*types.TypeName]bool),
		sigs:    make(map[string]bool),
	}
	f.named(tn)
	return f.out
}

type flattener struct {
	visited map[*types.TypeName]bool
	sigs    map[string]bool
	out     []*types.Func
}

func (f *flattener) named(tn *types.TypeName) {
	if tn == nil || f.visited[tn] {
		return
	}
	f.visited[tn] = true
	iface, ok := tn.Type().Underlying().(*types.Interface)
	if !ok {
		return
	}
	f.iface(iface)
}

func (f *flattener) iface(iface *types.Interface) {
	methods := make([]*types.Func, iface.NumExplicitMethods())
	for i := range methods {
		methods[i] = iface.ExplicitMethod(i)
	}
	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Pos() < methods[j].Pos()
	})
	for _, m := range methods {
		sig := m.Type().(*types.Signature)
		key := model.Signature(m.Name(), model.Params(sig.Params()), sig.Variadic())
		if f.sigs[key] {
			continue
		}
		f.sigs[key] = true
		f.out = append(f.out, m)
	}

	for i := 0; i < iface.NumEmbeddeds(); i++ {
		embedded := iface.EmbeddedType(i)
		if tn := NamedOf(embedded); tn != nil {
			f.named(tn)
			continue
		}
		if lit, ok := embedded.(*types.Interface); ok {
			f.iface(lit)
		}
	}
}
