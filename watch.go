package markgen

import (
	"context"
	"time"

	"github.com/GoCodeAlone/markgen/internal/watch"
)

// Watch generates once and again whenever a Go source below Config.Dir
// changes, until ctx is done. Each report is passed to onReport, which may
// be nil.
func (g *Generator) Watch(ctx context.Context, debounce time.Duration, onReport func(*Report), patterns ...string) error {
	w, err := watch.New(watch.Options{
		Root:     g.cfg.Dir,
		Suffix:   g.cfg.Suffix,
		Debounce: debounce,
		Logger:   g.logger,
	})
	if err != nil {
		return err
	}
	defer w.Close()

	g.logger.Info("Watching for changes", "dir", g.cfg.Dir)
	return w.Run(ctx, func(ctx context.Context) error {
		report, err := g.Generate(ctx, patterns...)
		if err != nil {
			return err
		}
		if onReport != nil {
			onReport(report)
		}
		return nil
	})
}
