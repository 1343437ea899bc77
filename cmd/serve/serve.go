// Package serve implements the serve subcommand that runs the dashboard
// server.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/planktos/planktos-go/internal/conf"
	"github.com/planktos/planktos-go/internal/server"
)

// Command creates the serve subcommand.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		Long:  "Serve the dashboard page and API, proxying detection and chat to the configured backend.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(settings).Run(ctx)
		},
	}

	if err := setupFlags(cmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	return cmd
}

func setupFlags(cmd *cobra.Command, settings *conf.Settings) error {
	cmd.Flags().StringVar(&settings.Web.Address, "address", viper.GetString("web.address"), "Listen address")
	cmd.Flags().StringVar(&settings.Web.Port, "port", viper.GetString("web.port"), "Listen port")
	cmd.Flags().StringVar(&settings.Backend.URL, "backend", viper.GetString("backend.url"), "Inference backend base URL")
	cmd.Flags().StringVar(&settings.Gallery.Path, "datapath", viper.GetString("gallery.path"), "Directory holding the gallery slot file")
	cmd.Flags().StringVar(&settings.Export.ShareURL, "sharelink", viper.GetString("export.shareurl"), "Share-target link, empty disables link sharing")

	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}
	return nil
}
