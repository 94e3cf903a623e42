package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/electrum-nmc/formbuilder/internal/forms"
	"github.com/electrum-nmc/formbuilder/internal/logger"
	"github.com/electrum-nmc/formbuilder/internal/tui/styles"
)

func newWatchCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Build all forms, then rebuild forms as they change",
		Long: `Build every form once, then watch the forms directory and rebuild
a form whenever its .ui file is written. Press Ctrl+C to stop.

A form that fails to build is reported and watching continues; a missing
compiler stops the command.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := st.cfg.MustValidate(); err != nil {
				return err
			}

			b := forms.New(st.cfg, forms.NewPyUIC(st.cfg))
			if err := b.Check(); err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			b.SetObserver(p.observe)

			result, err := b.Run(cmd.Context())
			switch {
			case err == nil:
				p.summary(b.FormsDir(), result)
			case cmd.Context().Err() != nil:
				return nil
			default:
				ReportError(cmd.ErrOrStderr(), err)
				logger.Warn("initial build failed", "error", err)
			}
			b.SetObserver(nil)

			fmt.Fprintln(cmd.OutOrStdout(), styles.MutedStyle().Render(
				fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", b.FormsDir())))

			return forms.Watch(cmd.Context(), b, func(ev forms.Event) {
				p.observe(ev)
				if ev.Err != nil {
					ReportError(cmd.ErrOrStderr(), ev.Err)
				}
			})
		},
	}
}
