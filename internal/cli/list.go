package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/electrum-nmc/formbuilder/internal/forms"
	"github.com/electrum-nmc/formbuilder/internal/tui/styles"
)

func newListCmd(st *state) *cobra.Command {
	var staleOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List forms and the state of their generated modules",
		Long: `List every form in the forms directory with its generated module.

A module is "missing" if it was never generated, "stale" if it is older
than its form and "current" otherwise.

Examples:
  formbuilder list
  formbuilder list --stale`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := forms.Discover(st.cfg.GetFormsDir(), st.cfg.Pattern)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(list) == 0 {
				fmt.Fprintf(out, "No forms found in %s\n", st.cfg.GetFormsDir())
				return nil
			}

			t := table.NewWriter()
			t.SetOutputMirror(out)
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"#", "Form", "Module", "Status"})

			shown := 0
			for _, f := range list {
				status, err := forms.StatusOf(f)
				if err != nil {
					return err
				}
				if staleOnly && status == forms.StatusCurrent {
					continue
				}
				shown++
				t.AppendRow(table.Row{shown, f.Source, f.Output, renderStatus(status)})
			}

			t.AppendFooter(table.Row{"", "Total", shown, ""})
			t.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&staleOnly, "stale", false, "only show forms whose module is missing or stale")
	return cmd
}

func renderStatus(s forms.Status) string {
	switch s {
	case forms.StatusCurrent:
		return styles.SuccessStyle.Render(string(s))
	case forms.StatusStale:
		return styles.WarningStyle.Render(string(s))
	default:
		return styles.ErrorStyle.Render(string(s))
	}
}
