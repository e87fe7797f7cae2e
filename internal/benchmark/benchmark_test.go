// Package benchmark holds baseline benchmarks for generation and for the
// runtime paths generated code calls.
//
// Benchmarks included:
//   - BenchmarkGenerateSources: one full batch over in-memory packages
//   - BenchmarkScopeLookup: repeated lookups through a generated provider
//   - BenchmarkBroadcast: a broadcast call across registered plugins
package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/GoCodeAlone/markgen"
	"github.com/GoCodeAlone/markgen/examples/clicker"
	"github.com/GoCodeAlone/markgen/examples/shop"
	"github.com/GoCodeAlone/markgen/inject"
	"github.com/GoCodeAlone/markgen/plug"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}

// catalogSource declares n providers and n plug contracts in one package.
func catalogSource(n int) string {
	var b strings.Builder
	b.WriteString("package catalog\n\n//markgen:scope\ntype CatalogScope struct{}\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "\ntype Item%[1]d struct{}\n\n//markgen:provides\nfunc NewItem%[1]d() *Item%[1]d { return nil }\n", i)
		fmt.Fprintf(&b, "\n//markgen:plug-interface broadcast\ntype Hook%[1]d interface{ Run%[1]d(int) }\n", i)
	}
	return b.String()
}

func BenchmarkGenerateSources(b *testing.B) {
	for _, n := range []int{1, 10, 50} {
		src := markgen.SourcePackage{
			Path:  "example.com/catalog",
			Files: map[string]string{"catalog.go": catalogSource(n)},
		}
		b.Run(fmt.Sprintf("decls-%d", n), func(b *testing.B) {
			g, err := markgen.New(nil,
				markgen.WithLogger(nopLogger{}),
				markgen.WithDestination(markgen.NewMemoryDestination()))
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				report, err := g.GenerateSources(context.Background(), src)
				if err != nil {
					b.Fatal(err)
				}
				if report.HasErrors() {
					b.Fatal(report.Diagnostics)
				}
			}
		})
	}
}

func BenchmarkScopeLookup(b *testing.B) {
	s := shop.NewShopScope()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := inject.Lookup[*shop.Bar](s); !ok {
			b.Fatal("bar not provided")
		}
	}
}

func BenchmarkBroadcast(b *testing.B) {
	registry := plug.NewRegistry(nil)
	panel := &clicker.Panel{}
	journal := &clicker.Journal{}
	registry.PlugInstance(panel, false)
	for i := 0; i < 8; i++ {
		registry.PlugInstance(clicker.NewButton(fmt.Sprint(i), journal), false)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		journal.Entries = journal.Entries[:0]
		panel.Press("bench")
	}
}
