// Command prism-editor opens the scene editor window.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/prism3d/prism/app"
	"github.com/prism3d/prism/config"
	"github.com/prism3d/prism/logger"
)

func main() {
	configPath := flag.String("config", "", "path to a prism.yaml config file")
	scenePath := flag.String("scene", "", "scene file to open on startup")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "prism-editor: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "prism-editor: init logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *scenePath != "" {
		cfg.Paths.LastScene = *scenePath
	}

	a, err := app.New(cfg)
	if err != nil {
		logger.Log.Error("startup failed", zap.Error(err))
		os.Exit(1)
	}

	if err := a.Run(); err != nil {
		logger.Log.Error("editor exited with error", zap.Error(err))
		os.Exit(1)
	}
}
