package markgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/cucumber/godog"
)

var (
	errUnitNotWritten  = errors.New("unit was not written")
	errUnitNotSkipped  = errors.New("unit was not skipped")
	errUnexpectedError = errors.New("unexpected error reported")
	errMissingError    = errors.New("expected error was not reported")
	errEventOrder      = errors.New("unexpected event order")
)

const coffeeConflictSource = `package coffee

//markgen:fsm-events %s
type MachineEvents interface{ Brew() }

//markgen:fsm-events %s
type GrinderEvents interface{ Grind() }
`

// generationBDDContext holds the state of one generation scenario.
type generationBDDContext struct {
	sources []SourcePackage
	dest    *MemoryDestination
	report  *Report
	mu      sync.Mutex
	events  []string
}

func (c *generationBDDContext) reset() {
	c.sources = nil
	c.dest = NewMemoryDestination()
	c.report = nil
	c.events = nil
}

func (c *generationBDDContext) aScopeWithProviders(path string) error {
	c.sources = append(c.sources, source(path, shopSource))
	return nil
}

func (c *generationBDDContext) aBrokenPackage(path string) error {
	c.sources = append(c.sources, source(path, brokenSource))
	return nil
}

func (c *generationBDDContext) conflictingTargets(path, first, second string) error {
	c.sources = append(c.sources, source(path, fmt.Sprintf(coffeeConflictSource, first, second)))
	return nil
}

func (c *generationBDDContext) theBatchIsGenerated() error {
	record := func(ctx context.Context, event cloudevents.Event) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.events = append(c.events, event.Type())
		return nil
	}
	g, err := New(nil,
		WithDestination(c.dest),
		WithLogger(&recordingLogger{}),
		WithObserverFunc("bdd", record),
	)
	if err != nil {
		return err
	}
	c.report, err = g.GenerateSources(context.Background(), c.sources...)
	return err
}

func (c *generationBDDContext) unit(name string) (UnitResult, bool) {
	for _, u := range c.report.Units {
		if u.Artifact == name {
			return u, true
		}
	}
	return UnitResult{}, false
}

func (c *generationBDDContext) theUnitIsWritten(name string) error {
	if u, ok := c.unit(name); !ok || !u.Written {
		return fmt.Errorf("%w: %s", errUnitNotWritten, name)
	}
	if _, ok := c.dest.Find(name); !ok {
		return fmt.Errorf("%w: %s missing from destination", errUnitNotWritten, name)
	}
	return nil
}

func (c *generationBDDContext) theUnitIsSkipped(name string) error {
	if u, ok := c.unit(name); !ok || !u.Skipped {
		return fmt.Errorf("%w: %s", errUnitNotSkipped, name)
	}
	return nil
}

func (c *generationBDDContext) noErrorIsReported() error {
	if errs := c.report.Errors(); len(errs) > 0 {
		return fmt.Errorf("%w: %v", errUnexpectedError, errs)
	}
	return nil
}

func (c *generationBDDContext) anErrorIsReported(message string) error {
	for _, d := range c.report.Errors() {
		if strings.Contains(d.Error(), message) {
			return nil
		}
	}
	return fmt.Errorf("%w: %q in %v", errMissingError, message, c.report.Errors())
}

func (c *generationBDDContext) theEventsStartAndEnd(first, last string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.events) < 2 || c.events[0] != first || c.events[len(c.events)-1] != last {
		return fmt.Errorf("%w: %v", errEventOrder, c.events)
	}
	return nil
}

// InitializeGenerationScenario wires the generation steps.
func InitializeGenerationScenario(ctx *godog.ScenarioContext) {
	testCtx := &generationBDDContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		testCtx.reset()
		return ctx, nil
	})

	ctx.Step(`^the package "([^"]*)" declaring a scope with providers$`, testCtx.aScopeWithProviders)
	ctx.Step(`^the package "([^"]*)" declaring a basic-typed provider and a broadcast contract$`, testCtx.aBrokenPackage)
	ctx.Step(`^the package "([^"]*)" declaring events for targets "([^"]*)" and "([^"]*)"$`, testCtx.conflictingTargets)
	ctx.Step(`^the batch is generated$`, testCtx.theBatchIsGenerated)
	ctx.Step(`^the unit "([^"]*)" is written$`, testCtx.theUnitIsWritten)
	ctx.Step(`^the unit "([^"]*)" is skipped$`, testCtx.theUnitIsSkipped)
	ctx.Step(`^no error is reported$`, testCtx.noErrorIsReported)
	ctx.Step(`^an "([^"]*)" error is reported$`, testCtx.anErrorIsReported)
	ctx.Step(`^the events start with "([^"]*)" and end with "([^"]*)"$`, testCtx.theEventsStartAndEnd)
}

// TestGenerationFeature runs the generation feature.
func TestGenerationFeature(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeGenerationScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features/generation.feature"},
			TestingT: t,
			Strict:   true,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
