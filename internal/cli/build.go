package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/electrum-nmc/formbuilder/internal/forms"
	"github.com/electrum-nmc/formbuilder/internal/logger"
	"github.com/electrum-nmc/formbuilder/internal/tui"
	"github.com/electrum-nmc/formbuilder/internal/tui/styles"
)

func runBuild(cmd *cobra.Command, st *state) error {
	if err := st.cfg.MustValidate(); err != nil {
		return err
	}

	b := forms.New(st.cfg, forms.NewPyUIC(st.cfg))
	out := cmd.OutOrStdout()

	if st.useTUI {
		if isTerminal(out) && isTerminal(cmd.InOrStdin()) {
			result, err := tui.Run(cmd.Context(), b)
			if err != nil {
				return err
			}
			logger.Debug("build finished", "forms", len(result.Forms))
			return nil
		}
		logger.Warn("progress view needs an interactive terminal; using plain output")
	}

	p := newPrinter(out)
	b.SetObserver(p.observe)

	result, err := b.Run(cmd.Context())
	if err != nil {
		return err
	}

	p.summary(b.FormsDir(), result)
	return nil
}

// isTerminal reports whether v is a file attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printer renders build events as plain lines.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w}
}

func (p *printer) observe(ev forms.Event) {
	switch ev.Stage {
	case forms.StageDone:
		line := fmt.Sprintf("  %s %s → %s", styles.CheckMark, ev.Form.Source, ev.Form.Output)
		if ev.Replacements > 0 {
			line += styles.MutedStyle().Render(fmt.Sprintf(" (%d patched)", ev.Replacements))
		}
		fmt.Fprintln(p.w, line)
	case forms.StageFailed:
		fmt.Fprintf(p.w, "  %s %s\n", styles.CrossMark, styles.ErrorStyle.Render(ev.Form.Source))
	}
}

func (p *printer) summary(formsDir string, result *forms.Result) {
	if len(result.Forms) == 0 {
		fmt.Fprintln(p.w, styles.MutedStyle().Render("No forms found in "+formsDir))
		return
	}
	fmt.Fprintln(p.w, styles.SuccessStyle.Render(
		fmt.Sprintf("Built %d forms in %s", len(result.Forms), result.Duration.Round(time.Millisecond))))
}
