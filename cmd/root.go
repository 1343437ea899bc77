// Package cmd assembles the command line interface.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/planktos/planktos-go/cmd/config"
	"github.com/planktos/planktos-go/cmd/serve"
	"github.com/planktos/planktos-go/internal/buildinfo"
	"github.com/planktos/planktos-go/internal/conf"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "planktos",
		Short:   "Planktos-Go marine microorganism dashboard",
		Version: buildinfo.String(),
	}

	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	rootCmd.AddCommand(
		serve.Command(settings),
		config.Command(settings),
	)

	return rootCmd
}

// setupFlags configures the global flags, bound through viper so the
// precedence stays config file < environment < flag.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")

	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
