// Package markgen generates Go source from marker comments.
//
// A run loads packages, scans declarations carrying //markgen:<name>
// markers, builds descriptors for four families of generated code, validates
// them and emits one file per artifact:
//
//   - scopes and providers produce <Scope>_DependencyProvider resolvers;
//   - fsm-events and fsm-context contracts produce a State dispatcher;
//   - plug contracts and plugins produce <Contract>_PlugInvoker,
//     <Contract>_HandlerInvoker and <Plugin>_Plugger types;
//   - presenter handlers produce <Presenter>_EventsDelegate routers.
//
// Declaration defects are reported as diagnostics and skip only the artifact
// they belong to. Everything else in the batch is still generated.
package markgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/GoCodeAlone/markgen/internal/depgraph"
	"github.com/GoCodeAlone/markgen/internal/emit"
	"github.com/GoCodeAlone/markgen/internal/eventmodel"
	"github.com/GoCodeAlone/markgen/internal/model"
	"github.com/GoCodeAlone/markgen/internal/plugmodel"
	"github.com/GoCodeAlone/markgen/internal/scan"
	"github.com/GoCodeAlone/markgen/internal/statemodel"
	"github.com/GoCodeAlone/markgen/internal/validate"
)

// SourcePackage is an in-memory package for GenerateSources.
type SourcePackage = scan.SourcePackage

// Generator runs batches.
type Generator struct {
	cfg     Config
	logger  Logger
	dest    Destination
	subject Subject
	pending []pendingObserver
	emitter *emit.Emitter
}

// New creates a generator. A nil cfg uses DefaultConfig; zero fields of cfg
// take their defaults.
func New(cfg *Config, opts ...Option) (*Generator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	g := &Generator{cfg: *cfg}
	if err := ProcessConfigDefaults(&g.cfg); err != nil {
		return nil, err
	}
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}

	for _, opt := range opts {
		if err := opt(g); err != nil {
			return nil, err
		}
	}
	if g.logger == nil {
		g.logger = NewSlogLogger(nil)
	}
	if g.dest == nil {
		g.dest = NewDirDestination(g.cfg.Dir)
	}
	if g.subject == nil {
		g.subject = NewEventBus(g.logger)
	}
	for _, p := range g.pending {
		if err := g.subject.RegisterObserver(p.observer, p.eventTypes...); err != nil {
			return nil, fmt.Errorf("failed to register observer %s: %w", p.observer.ObserverID(), err)
		}
	}
	g.pending = nil

	emitter, err := emit.New(g.cfg.emitOptions())
	if err != nil {
		return nil, err
	}
	g.emitter = emitter
	return g, nil
}

// Config returns the effective configuration.
func (g *Generator) Config() Config {
	return g.cfg
}

// Subject returns the subject generation events are published to.
func (g *Generator) Subject() Subject {
	return g.subject
}

// Generate loads the packages matching patterns, or Config.Patterns when
// none are given, and runs one batch over them. Load failures are returned;
// declaration defects are in the report.
func (g *Generator) Generate(ctx context.Context, patterns ...string) (*Report, error) {
	lcfg := g.cfg.loadConfig(patterns)
	g.logger.Debug("Loading packages", "dir", lcfg.Dir, "patterns", lcfg.Patterns)
	prog, err := scan.Load(ctx, lcfg)
	if err != nil {
		return nil, err
	}
	for _, w := range prog.Warnings {
		g.logger.Warn("Type error tolerated", "error", w)
	}
	report, err := g.run(ctx, prog)
	if report != nil {
		report.Warnings = prog.Warnings
	}
	return report, err
}

// GenerateSources type-checks srcs in memory and runs one batch over them.
// A package may import the packages listed before it and the standard
// library.
func (g *Generator) GenerateSources(ctx context.Context, srcs ...SourcePackage) (*Report, error) {
	prog, err := scan.Check(g.cfg.Prefix, srcs...)
	if err != nil {
		return nil, err
	}
	return g.run(ctx, prog)
}

// Plan runs every stage but emission over the loaded packages and returns
// the planned units without rendering them.
func (g *Generator) Plan(ctx context.Context, patterns ...string) (*Report, error) {
	prog, err := scan.Load(ctx, g.cfg.loadConfig(patterns))
	if err != nil {
		return nil, err
	}
	b := g.analyze(ctx, prog)
	defer b.Close()

	report := &Report{BatchID: b.ID, Diagnostics: b.Diagnostics(), Warnings: prog.Warnings}
	for _, a := range g.emitter.Plan(b, prog) {
		report.Units = append(report.Units, UnitResult{
			Artifact: a.Name,
			Kind:     a.Kind.String(),
			Package:  a.PkgPath,
			Path:     emit.Filename(a.Name, g.emitter.Suffix()),
			Skipped:  a.Skipped,
		})
	}
	return report, nil
}

func (g *Generator) run(ctx context.Context, table scan.SymbolTable) (*Report, error) {
	b := g.analyze(ctx, table)
	defer b.Close()

	report := &Report{BatchID: b.ID}
	for _, a := range g.emitter.Plan(b, table) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Units = append(report.Units, g.emitUnit(ctx, b.ID, a))
	}
	report.Diagnostics = b.Diagnostics()

	failed := len(report.Failed())
	g.logger.Info("Batch completed", "batch", b.ID, "units", len(report.Units), "written", report.Written(), "errors", len(report.Errors()), "failed", failed)
	g.emit(ctx, EventTypeBatchCompleted, map[string]any{
		"batch":   b.ID,
		"units":   len(report.Units),
		"written": report.Written(),
		"errors":  len(report.Errors()),
		"failed":  failed,
	})
	return report, nil
}

// analyze runs scan, model building and validation.
func (g *Generator) analyze(ctx context.Context, table scan.SymbolTable) *model.Batch {
	var b *model.Batch
	b = model.NewBatch(model.ReporterFunc(func(d model.Diagnostic) {
		g.diagnostic(ctx, b.ID, d)
	}))
	g.logger.Info("Batch started", "batch", b.ID)
	g.emit(ctx, EventTypeBatchStarted, map[string]any{"batch": b.ID})

	decls := scan.Scan(table, b)
	g.logger.Debug("Stage finished", "batch", b.ID, "stage", "scan", "count", len(decls))

	depgraph.Resolve(b, table, decls, g.cfg.resolveOptions())
	g.logger.Debug("Stage finished", "batch", b.ID, "stage", "resolve", "count", len(b.Scopes()))

	statemodel.Build(b, table, decls)
	plugmodel.Build(b, table, decls)
	eventmodel.Build(b, table, decls)
	g.logger.Debug("Stage finished", "batch", b.ID, "stage", "model",
		"count", len(b.Machines())+len(b.Contracts())+len(b.Plugins())+len(b.Delegates()))

	validate.Validate(b, table, g.cfg.validateOptions())
	g.logger.Debug("Stage finished", "batch", b.ID, "stage", "validate", "count", b.ErrorCount())
	return b
}

func (g *Generator) diagnostic(ctx context.Context, batch string, d model.Diagnostic) {
	args := []any{"batch", batch, "subject", d.Subject, "position", d.Position.String(), "error", d.Err}
	if d.Severity == model.SeverityWarning {
		g.logger.Warn("Declaration warning", args...)
	} else {
		g.logger.Error("Declaration error", args...)
	}
	g.emit(ctx, EventTypeDiagnosticReported, map[string]any{
		"batch":    batch,
		"severity": d.Severity.String(),
		"subject":  d.Subject,
		"position": d.Position.String(),
		"message":  d.Err.Error(),
	})
}

func (g *Generator) emitUnit(ctx context.Context, batch string, a emit.Artifact) UnitResult {
	res := UnitResult{
		Artifact: a.Name,
		Kind:     a.Kind.String(),
		Package:  a.PkgPath,
		Skipped:  a.Skipped,
	}
	if a.Skipped {
		g.logger.Debug("Artifact skipped", "batch", batch, "artifact", a.Name, "package", a.PkgPath)
		return res
	}

	u, err := g.emitter.Render(a)
	if err == nil {
		res.Path = u.Path
		if !g.cfg.DryRun {
			err = g.dest.WriteUnit(Unit{
				Artifact: a.Name,
				Kind:     res.Kind,
				Package:  a.PkgPath,
				Filename: u.Filename,
				Path:     u.Path,
				Source:   u.Source,
			})
		}
	}
	if err != nil {
		if !errors.Is(err, ErrEmissionIO) {
			err = fmt.Errorf("%w: %s: %w", ErrEmissionIO, a.Name, err)
		}
		res.Err = err
		g.logger.Error("Unit failed", "batch", batch, "artifact", a.Name, "error", err)
		g.emit(ctx, EventTypeUnitFailed, map[string]any{"batch": batch, "artifact": a.Name, "error": err.Error()})
		return res
	}

	res.Written = !g.cfg.DryRun
	g.logger.Info("Unit emitted", "batch", batch, "artifact", a.Name, "path", res.Path, "dryRun", g.cfg.DryRun)
	g.emit(ctx, EventTypeUnitEmitted, map[string]any{
		"batch":    batch,
		"artifact": a.Name,
		"kind":     res.Kind,
		"path":     res.Path,
		"dryRun":   g.cfg.DryRun,
	})
	return res
}

func (g *Generator) emit(ctx context.Context, eventType string, data map[string]any) {
	event := NewCloudEvent(eventType, EventSource, data, nil)
	if err := g.subject.NotifyObservers(ctx, event); err != nil {
		g.logger.Debug("Failed to notify observers", "event", eventType, "error", err)
	}
}
