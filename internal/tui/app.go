// Package tui provides the terminal progress view for formbuilder.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/electrum-nmc/formbuilder/internal/app"
	"github.com/electrum-nmc/formbuilder/internal/console"
	"github.com/electrum-nmc/formbuilder/internal/forms"
	"github.com/electrum-nmc/formbuilder/internal/tui/styles"
)

// rowState is the progress of one form.
type rowState int

const (
	rowPending rowState = iota
	rowActive
	rowDone
	rowFailed
)

type row struct {
	form         forms.Form
	state        rowState
	stage        forms.Stage
	replacements int
}

// eventMsg carries a build event into the program.
type eventMsg forms.Event

// doneMsg reports the end of the run.
type doneMsg struct {
	result *forms.Result
	err    error
}

// Model is the progress view of a build run.
type Model struct {
	formsDir string
	rows     []row
	index    map[string]int
	spinner  spinner.Model
	width    int
	finished bool
	aborted  bool
	result   *forms.Result
	err      error
	cancel   context.CancelFunc
}

// NewModel creates the view for the given forms. cancel is called when the
// user aborts the run.
func NewModel(formsDir string, list []forms.Form, cancel context.CancelFunc) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.ActiveStyle.UnsetPaddingLeft()

	m := Model{
		formsDir: formsDir,
		rows:     make([]row, 0, len(list)),
		index:    make(map[string]int, len(list)),
		spinner:  s,
		cancel:   cancel,
	}
	for _, f := range list {
		m.index[f.Source] = len(m.rows)
		m.rows = append(m.rows, row{form: f})
	}
	return m
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if !m.finished {
				m.aborted = true
				if m.cancel != nil {
					m.cancel()
				}
			}
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case eventMsg:
		m.apply(forms.Event(msg))
		return m, nil

	case doneMsg:
		m.finished = true
		m.result = msg.result
		m.err = msg.err
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) apply(ev forms.Event) {
	i, ok := m.index[ev.Form.Source]
	if !ok {
		i = len(m.rows)
		m.index[ev.Form.Source] = i
		m.rows = append(m.rows, row{form: ev.Form})
	}

	r := &m.rows[i]
	r.stage = ev.Stage
	switch ev.Stage {
	case forms.StageCompile, forms.StagePatch:
		r.state = rowActive
	case forms.StageDone:
		r.state = rowDone
		r.replacements = ev.Replacements
	case forms.StageFailed:
		r.state = rowFailed
	}
}

// completed counts finished forms.
func (m Model) completed() int {
	n := 0
	for _, r := range m.rows {
		if r.state == rowDone {
			n++
		}
	}
	return n
}

// View renders the progress view.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(fmt.Sprintf("formbuilder v%s", app.Version)))
	b.WriteString("\n")
	b.WriteString(styles.SubtitleStyle.Render("Compiling forms in " + m.formsDir))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(styles.PendingStyle.Render("no forms found"))
		b.WriteString("\n")
	}

	for _, r := range m.rows {
		switch r.state {
		case rowPending:
			b.WriteString(styles.PendingStyle.Render("· " + r.form.Source))
		case rowActive:
			b.WriteString(styles.ActiveStyle.Render(m.spinner.View() + " " + r.form.Source + " (" + r.stage.String() + ")"))
		case rowDone:
			line := fmt.Sprintf("%s %s → %s", styles.CheckMark, r.form.Source, r.form.Output)
			if r.replacements > 0 {
				line += styles.MutedStyle().Render(fmt.Sprintf(" (%d patched)", r.replacements))
			}
			b.WriteString("  " + line)
		case rowFailed:
			b.WriteString("  " + styles.CrossMark.String() + " " + styles.ErrorStyle.Render(r.form.Source))
		}
		b.WriteString("\n")
	}

	total := len(m.rows)
	done := m.completed()
	percent := 1.0
	if total > 0 {
		percent = float64(done) / float64(total)
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %d/%d", styles.ProgressBar(percent, 30), done, total))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(styles.ErrorBoxStyle.Render(errorText(m.err)))
		b.WriteString("\n")
	case m.aborted:
		b.WriteString(styles.FooterStyle.Render(styles.WarningStyle.Render("aborted")))
		b.WriteString("\n")
	case m.finished && m.result != nil:
		b.WriteString(styles.FooterStyle.Render(styles.SuccessStyle.Render(
			fmt.Sprintf("Built %d forms in %s", len(m.result.Forms), m.result.Duration.Round(time.Millisecond)))))
		b.WriteString("\n")
	default:
		b.WriteString(styles.FooterStyle.Render(styles.RenderHelp([2]string{"q", "abort"})))
		b.WriteString("\n")
	}

	return b.String()
}

// errorText formats err with the compiler output, if any.
func errorText(err error) string {
	text := err.Error()
	var compileErr *forms.CompileError
	if errors.As(err, &compileErr) && strings.TrimSpace(compileErr.Output) != "" {
		text += "\n\n" + strings.TrimRight(compileErr.Output, "\n")
	}
	return text
}

// Run builds all forms while showing the progress view. The result and
// error are those of the underlying build.
func Run(ctx context.Context, b *forms.Builder, opts ...tea.ProgramOption) (*forms.Result, error) {
	console.SetTitle(fmt.Sprintf("formbuilder v%s - compiling forms", app.Version))

	if err := b.Check(); err != nil {
		return nil, err
	}

	list, err := b.Discover()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewModel(b.FormsDir(), list, cancel), opts...)
	b.SetObserver(func(ev forms.Event) {
		p.Send(eventMsg(ev))
	})
	defer b.SetObserver(nil)

	g, gctx := errgroup.WithContext(ctx)

	var result *forms.Result
	g.Go(func() error {
		res, err := b.Run(gctx)
		result = res
		p.Send(doneMsg{result: res, err: err})
		return err
	})
	g.Go(func() error {
		final, err := p.Run()
		if err != nil {
			cancel()
			return fmt.Errorf("progress view failed: %w", err)
		}
		if m, ok := final.(Model); ok && m.aborted {
			return context.Canceled
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
