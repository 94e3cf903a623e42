package tui

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/electrum-nmc/formbuilder/internal/config"
	"github.com/electrum-nmc/formbuilder/internal/forms"
)

func testForms() []forms.Form {
	return []forms.Form{
		{Source: "forms/a.ui", Output: "forms/a.py"},
		{Source: "forms/b.ui", Output: "forms/b.py"},
	}
}

func TestModel_Events(t *testing.T) {
	m := NewModel("forms", testForms(), nil)

	next, _ := m.Update(eventMsg{Stage: forms.StageCompile, Form: testForms()[0], Index: 1, Total: 2})
	m = next.(Model)
	assert.Equal(t, rowActive, m.rows[0].state)
	assert.Contains(t, m.View(), "forms/a.ui (compile)")

	next, _ = m.Update(eventMsg{Stage: forms.StageDone, Form: testForms()[0], Index: 1, Total: 2, Replacements: 2})
	m = next.(Model)
	assert.Equal(t, rowDone, m.rows[0].state)
	assert.Equal(t, 1, m.completed())
	assert.Contains(t, m.View(), "1/2")
	assert.Contains(t, m.View(), "2 patched")

	failure := &forms.CompileError{Source: "forms/b.ui", Output: "syntax error in b.ui", Err: errors.New("exit status 1")}
	next, _ = m.Update(eventMsg{Stage: forms.StageFailed, Form: testForms()[1], Index: 2, Total: 2, Err: failure})
	m = next.(Model)
	assert.Equal(t, rowFailed, m.rows[1].state)

	next, cmd := m.Update(doneMsg{err: failure})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.finished)
	assert.Contains(t, m.View(), "syntax error in b.ui")
}

func TestModel_UnknownFormIsAppended(t *testing.T) {
	m := NewModel("forms", nil, nil)
	assert.Contains(t, m.View(), "no forms found")

	next, _ := m.Update(eventMsg{Stage: forms.StageDone, Form: forms.Form{Source: "x.ui", Output: "x.py"}})
	m = next.(Model)
	require.Len(t, m.rows, 1)
	assert.Equal(t, rowDone, m.rows[0].state)
}

func TestModel_Abort(t *testing.T) {
	canceled := false
	m := NewModel("forms", testForms(), func() { canceled = true })

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.aborted)
	assert.True(t, canceled)
	assert.Contains(t, m.View(), "aborted")
}

func TestModel_QuitAfterFinishIsNotAbort(t *testing.T) {
	m := NewModel("forms", testForms(), func() { t.Fatal("cancel must not be called") })
	next, _ := m.Update(doneMsg{result: &forms.Result{}})
	m = next.(Model)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	m = next.(Model)
	assert.False(t, m.aborted)
}

func TestRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FormsDir = t.TempDir()
	for _, name := range []string{"a.ui", "b.ui"} {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.FormsDir, name), []byte("<ui/>"), 0644))
	}

	compiler := forms.CompilerFunc(func(_ context.Context, _, output string) error {
		return os.WriteFile(output, []byte("from qvalidatedlineedit import QValidatedLineEdit\n"), 0644)
	})

	result, err := Run(context.Background(), forms.New(cfg, compiler), tea.WithInput(nil), tea.WithOutput(io.Discard))
	require.NoError(t, err)
	assert.Len(t, result.Forms, 2)
	assert.Equal(t, 2, result.Replacements)
}

func TestRun_Failure(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FormsDir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(cfg.FormsDir, "a.ui"), []byte("<ui/>"), 0644))

	boom := errors.New("boom")
	compiler := forms.CompilerFunc(func(context.Context, string, string) error { return boom })

	_, err := Run(context.Background(), forms.New(cfg, compiler), tea.WithInput(nil), tea.WithOutput(io.Discard))
	assert.ErrorIs(t, err, boom)
}

// uninstalledCompiler fails its tool check and must never be run.
type uninstalledCompiler struct {
	t *testing.T
}

func (c uninstalledCompiler) Check() error {
	return &forms.ToolNotFoundError{Tool: "pyuic5", Hint: "install it"}
}

func (c uninstalledCompiler) Compile(context.Context, string, string) error {
	c.t.Error("compiler ran without passing its check")
	return nil
}

func TestRun_ToolMissingBeforeDiscovery(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.FormsDir = t.TempDir()
	cfg.Pattern = "[" // discovery would fail

	_, err := Run(context.Background(), forms.New(cfg, uninstalledCompiler{t: t}), tea.WithInput(nil), tea.WithOutput(io.Discard))
	assert.ErrorIs(t, err, forms.ErrToolNotFound)
}
