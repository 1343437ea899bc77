package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/planktos/planktos-go/cmd"
	"github.com/planktos/planktos-go/internal/conf"
	"github.com/planktos/planktos-go/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if settings.Debug {
		logging.InitWithLevel(slog.LevelDebug)
	} else {
		logging.Init()
	}

	if err := cmd.RootCommand(settings).Execute(); err != nil {
		os.Exit(1)
	}
}
