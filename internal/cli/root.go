// Package cli provides command-line interface commands for formbuilder.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/electrum-nmc/formbuilder/internal/config"
	"github.com/electrum-nmc/formbuilder/internal/forms"
	"github.com/electrum-nmc/formbuilder/internal/logger"
	"github.com/electrum-nmc/formbuilder/internal/tui/styles"
)

// state is shared by the command tree of one invocation.
type state struct {
	cfgFile   string
	useTUI    bool
	cfg       *config.Config
	logCloser io.Closer
}

// newRootCmd creates the formbuilder command tree. Run without arguments
// it builds every form.
func newRootCmd() (*cobra.Command, *state) {
	st := &state{}

	rootCmd := &cobra.Command{
		Use:   "formbuilder",
		Short: "Regenerate Python form modules from Qt Designer .ui files",
		Long: `formbuilder compiles every Qt Designer form in the forms directory
(electrum/gui/qt/forms/*.ui by default) with pyuic5, writing a sibling .py
module for each, then rewrites the qpaytoedit and qvalidatedlineedit
references in the generated modules into relative ones.

The run stops at the first form that fails to compile.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip config loading for commands that do not need it
			if cmd.Name() == "version" || cmd.Name() == "init" || cmd.Name() == "help" {
				return nil
			}
			return st.load(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd, st)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&st.cfgFile, "config", "c", "", "config file (default is ./"+config.DefaultConfigFile+")")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("forms-dir", "", "directory containing the .ui forms (default "+config.DefaultFormsDir+")")
	rootCmd.Flags().BoolVar(&st.useTUI, "tui", false, "show an interactive progress view")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newListCmd(st))
	rootCmd.AddCommand(newWatchCmd(st))
	rootCmd.AddCommand(newConfigCmd(st))

	return rootCmd, st
}

// load reads the configuration and initializes the logger.
func (st *state) load(cmd *cobra.Command) error {
	cfg, err := config.Load(st.cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	st.cfg = cfg

	closer, err := logger.Init(logger.Config{
		Path:    cfg.Logging.Path,
		Level:   cfg.LogLevel(),
		Console: true,
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to initialize logger: %v\n", err)
		return nil
	}
	st.logCloser = closer
	return nil
}

// close releases the log file. Cobra skips post-run hooks when a command
// fails, so callers close after Execute returns.
func (st *state) close() error {
	if st.logCloser == nil {
		return nil
	}
	err := st.logCloser.Close()
	st.logCloser = nil
	return err
}

// Execute runs the root command and exits with the status of the first
// failing step.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd, st := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	_ = st.close()
	stop()

	if err != nil {
		ReportError(rootCmd.ErrOrStderr(), err)
		os.Exit(ExitCode(err))
	}
}

// ExitCode maps a run error onto a process exit status. Compiler failures
// keep the compiler's own status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var compileErr *forms.CompileError
	if errors.As(err, &compileErr) {
		return compileErr.ExitCode()
	}
	return 1
}

// ReportError prints a diagnostic for err. A failing compiler's own output
// is printed before the error line.
func ReportError(w io.Writer, err error) {
	var compileErr *forms.CompileError
	if errors.As(err, &compileErr) && compileErr.Output != "" {
		fmt.Fprint(w, compileErr.Output)
		if compileErr.Output[len(compileErr.Output)-1] != '\n' {
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w, styles.ErrorStyle.Render("Error:"), err)
}
