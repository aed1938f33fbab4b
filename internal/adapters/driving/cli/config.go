package cli

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/kugarocks/markdown-finder/internal/core/ports/driving"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or create the config file",
	Long: `Prints the settings mdf would run with: defaults, then the config file,
then MDF_* environment variables, then command line flags.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as TOML",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := openSettings()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), svc.Path())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file holding the defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, err := openSettings()
		if err != nil {
			return err
		}
		if err := svc.Init(configForce); err != nil {
			return fmt.Errorf("init config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", svc.Path())
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd, configPathCmd, configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func openSettings() (driving.SettingsService, error) {
	if settingsFactory == nil {
		return nil, errors.New("settings not configured")
	}
	svc, err := settingsFactory(configPath)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	return svc, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svc, err := openSettings()
	if err != nil {
		return err
	}
	settings, err := resolveSettings(cmd, "")
	if err != nil {
		return err
	}
	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", svc.Path(), data)
	return nil
}
