// Package server assembles the dashboard components and runs the HTTP
// server.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/planktos/planktos-go/internal/api"
	"github.com/planktos/planktos-go/internal/assistant"
	"github.com/planktos/planktos-go/internal/conf"
	"github.com/planktos/planktos-go/internal/dashboard"
	"github.com/planktos/planktos-go/internal/export"
	"github.com/planktos/planktos-go/internal/gallery"
	"github.com/planktos/planktos-go/internal/httpclient"
	"github.com/planktos/planktos-go/internal/inference"
	"github.com/planktos/planktos-go/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Server is the assembled dashboard server.
type Server struct {
	echo     *echo.Echo
	settings *conf.Settings
	logger   *slog.Logger
	closeLog func() error
}

// New wires the gallery, backend clients, exporter and dashboard controller
// together and registers the HTTP surface.
func New(settings *conf.Settings) *Server {
	hc := httpclient.New(&httpclient.Config{
		DefaultTimeout: settings.Backend.Timeout,
	})

	store := gallery.NewStore(
		gallery.NewFileSlot(settings.Gallery.Path),
		gallery.WithMaxItems(settings.Gallery.MaxItems),
	)

	dash := dashboard.NewController(dashboard.Config{
		Inference:   inference.New(settings.Backend.URL, hc),
		Assistant:   assistant.New(settings.Backend.URL, hc),
		Gallery:     store,
		Exporter:    export.NewService(settings.Export.Title, settings.Export.ShareURL),
		Greeting:    settings.Chat.Greeting,
		Placeholder: settings.Chat.Placeholder,
		Title:       settings.Export.Title,
	})

	e := echo.New()
	e.HideBanner = true

	api.New(e, dash, settings)

	s := &Server{
		echo:     e,
		settings: settings,
		logger:   logging.ForService("server"),
	}

	if settings.Main.Log.Enabled {
		fileLogger, closeLog, err := logging.NewFileLogger(
			settings.Main.Log.Path, "server", slog.LevelInfo,
			logging.FileLoggerConfig{
				MaxSizeMB:  settings.Main.Log.MaxSize,
				MaxBackups: settings.Main.Log.MaxBackups,
				MaxAgeDays: settings.Main.Log.MaxAge,
			})
		if err != nil {
			s.logger.Warn("file logging disabled", "path", settings.Main.Log.Path, "error", err)
		} else {
			s.logger = fileLogger
			s.closeLog = closeLog
		}
	}

	return s
}

// Run starts the server and blocks until ctx is canceled, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := net.JoinHostPort(s.settings.Web.Address, s.settings.Web.Port)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard server starting",
			"address", addr,
			"backend", s.settings.Backend.URL)
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("dashboard server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := s.echo.Shutdown(shutdownCtx)

	if s.closeLog != nil {
		if closeErr := s.closeLog(); closeErr != nil && err == nil {
			err = closeErr
		}
	}
	return err
}
