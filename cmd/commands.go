package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/oakwood-commons/gridx/internal/config"
	"github.com/oakwood-commons/gridx/internal/theme"
	"github.com/oakwood-commons/gridx/pkg/settings"
)

// versionString builds the text printed by the version command and the
// --version flag.
func versionString() string {
	v := settings.VersionInformation
	return fmt.Sprintf("%s (commit %s, built %s, %s)", v.BuildVersion, v.Commit, v.BuildTime, runtime.Version())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", settings.CliBinaryName, versionString())
			return err
		},
	}
}

func newConfigCmd(o *options) *cobra.Command {
	var defaults bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the merged configuration as YAML",
		Long: `Print the configuration gridx runs with: the built-in defaults merged
with the user config file. Use --defaults for the built-in file alone, a
starting point for your own config.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if defaults {
				_, err := cmd.OutOrStdout().Write(config.DefaultYAML())
				return err
			}
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the built-in defaults")
	return cmd
}

func newThemesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the available color themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.loadConfig()
			if err != nil {
				return err
			}
			run := settings.FromContextOrDefault(cmd.Context())
			out := cmd.OutOrStdout()
			for _, name := range cfg.ThemeNames() {
				th, err := theme.Resolve(cfg, name, run.NoColor)
				if err != nil {
					return err
				}
				marker := " "
				if name == cfg.Grid.Theme {
					marker = "*"
				}
				if _, err := fmt.Fprintf(out, "%s %-6s %s\n", marker, name, theme.Swatch(th)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
