package forms

import (
	"context"
	"fmt"
	"time"

	"github.com/electrum-nmc/formbuilder/internal/config"
	"github.com/electrum-nmc/formbuilder/internal/logger"
)

// Stage identifies a step of a build reported to an Observer.
type Stage int

const (
	StageCompile Stage = iota
	StagePatch
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageCompile:
		return "compile"
	case StagePatch:
		return "patch"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event describes progress on one form. Index is 1-based; Total is 0 for
// single-form builds outside a run.
type Event struct {
	Stage        Stage
	Form         Form
	Index        int
	Total        int
	Replacements int
	Err          error
}

// Observer receives build progress.
type Observer func(Event)

// Result holds the outcome of a successful run.
type Result struct {
	Forms        []Form
	Replacements int
	Duration     time.Duration
}

// Builder drives the compile-then-patch pipeline over the forms directory.
type Builder struct {
	formsDir string
	pattern  string
	compiler Compiler
	patcher  *Patcher
	observer Observer
}

// New creates a Builder using the forms and patch settings of cfg.
func New(cfg *config.Config, compiler Compiler) *Builder {
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = config.DefaultPattern
	}
	return &Builder{
		formsDir: cfg.GetFormsDir(),
		pattern:  pattern,
		compiler: compiler,
		patcher:  NewPatcher(cfg.Patch.Identifiers...),
	}
}

// SetObserver registers fn to receive progress events.
func (b *Builder) SetObserver(fn Observer) {
	b.observer = fn
}

// FormsDir returns the directory forms are discovered in.
func (b *Builder) FormsDir() string {
	return b.formsDir
}

// Pattern returns the glob used to discover forms.
func (b *Builder) Pattern() string {
	return b.pattern
}

// Check verifies the compiler is installed, when it supports checking.
func (b *Builder) Check() error {
	if c, ok := b.compiler.(Checker); ok {
		return c.Check()
	}
	return nil
}

// Discover lists the forms to build, in glob order.
func (b *Builder) Discover() ([]Form, error) {
	return Discover(b.formsDir, b.pattern)
}

// Run checks the compiler, then compiles and patches every discovered form
// in order. The first failure aborts the run; later forms are not attempted.
func (b *Builder) Run(ctx context.Context) (*Result, error) {
	start := time.Now()

	if err := b.Check(); err != nil {
		return nil, err
	}

	forms, err := b.Discover()
	if err != nil {
		return nil, err
	}

	logger.Info("discovered forms", "dir", b.formsDir, "count", len(forms))

	result := &Result{Forms: make([]Form, 0, len(forms))}
	for i, form := range forms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		n, err := b.build(ctx, form, i+1, len(forms))
		if err != nil {
			return nil, err
		}
		result.Forms = append(result.Forms, form)
		result.Replacements += n
	}

	result.Duration = time.Since(start)
	logger.Info("forms built", "count", len(result.Forms), "replacements", result.Replacements, "duration", result.Duration)

	return result, nil
}

// BuildForm compiles and patches a single form.
func (b *Builder) BuildForm(ctx context.Context, source string) (Form, int, error) {
	form, err := NewForm(source)
	if err != nil {
		return Form{}, 0, err
	}
	if err := b.Check(); err != nil {
		return form, 0, err
	}
	n, err := b.build(ctx, form, 1, 0)
	return form, n, err
}

func (b *Builder) build(ctx context.Context, form Form, index, total int) (int, error) {
	ev := Event{Form: form, Index: index, Total: total}

	ev.Stage = StageCompile
	b.emit(ev)
	logger.Debug("compiling form", "source", form.Source, "output", form.Output)
	if err := b.compiler.Compile(ctx, form.Source, form.Output); err != nil {
		return 0, b.fail(ev, err)
	}

	ev.Stage = StagePatch
	b.emit(ev)
	n, err := b.patcher.PatchFile(form.Output)
	if err != nil {
		return 0, b.fail(ev, fmt.Errorf("failed to patch %s: %w", form.Output, err))
	}
	logger.Debug("patched generated module", "output", form.Output, "replacements", n)

	ev.Stage = StageDone
	ev.Replacements = n
	b.emit(ev)
	return n, nil
}

func (b *Builder) fail(ev Event, err error) error {
	ev.Stage = StageFailed
	ev.Err = err
	b.emit(ev)
	return err
}

func (b *Builder) emit(ev Event) {
	if b.observer != nil {
		b.observer(ev)
	}
}
