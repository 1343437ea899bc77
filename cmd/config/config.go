// Package config implements the config subcommand that writes the current
// settings out as a config.yaml starting point.
package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/planktos/planktos-go/internal/conf"
)

// Command creates the config subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write the effective configuration to a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := outputPath
			if path == "" {
				paths, err := conf.GetDefaultConfigPaths()
				if err != nil {
					return err
				}
				path = filepath.Join(paths[0], "config.yaml")
			}
			if err := conf.SaveSettings(settings, path); err != nil {
				return err
			}
			fmt.Printf("Configuration written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path, defaults to the user config directory")
	return cmd
}
