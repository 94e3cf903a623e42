package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/electrum-nmc/formbuilder/internal/config"
	"github.com/electrum-nmc/formbuilder/internal/tui/styles"
)

func newConfigCmd(st *state) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "Commands for managing formbuilder configuration",
	}

	configCmd.AddCommand(newConfigInitCmd())
	configCmd.AddCommand(newConfigValidateCmd(st))
	configCmd.AddCommand(newConfigShowCmd(st))

	return configCmd
}

func newConfigInitCmd() *cobra.Command {
	var output string
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new configuration file",
		Long: `Create a new formbuilder.yaml configuration file with defaults.

Examples:
  formbuilder config init
  formbuilder config init -o tools/formbuilder.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(output); err == nil && !force {
				return fmt.Errorf("config file already exists: %s\nUse --output to specify a different path or --force to overwrite", output)
			}

			if err := config.DefaultConfig().Save(output); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration file created: %s\n", styles.CheckMark, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", config.DefaultConfigFile, "output file path")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

func newConfigValidateCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration file",
		Long: `Validate the configuration and check paths.

Examples:
  formbuilder config validate
  formbuilder config validate -c tools/formbuilder.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := st.cfg.Validate()
			fmt.Fprint(cmd.OutOrStdout(), result.String())
			if !result.Valid {
				return fmt.Errorf("configuration validation failed")
			}
			return nil
		},
	}
}

func newConfigShowCmd(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Print the effective configuration, after defaults, file, environment and flags, as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := st.cfg.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
