// cmd/tidelist/main.go
package main

import (
	"flag"
	"fmt"
	stlog "log" // Use standard log for FATAL errors before logger is ready
	"os"

	"github.com/bethropolis/tidelist/internal/app"
	"github.com/bethropolis/tidelist/internal/config"
	"github.com/bethropolis/tidelist/internal/logger"
)

// version is set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// --- Argument & Flag Parsing ---
	var flags config.Flags
	args, err := flags.ParseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, version)
		return
	}
	var listPath string
	if len(args) > 0 {
		listPath = args[0]
	}

	// --- Configuration ---
	cfg, err := config.LoadConfig(*flags.ConfigFilePath, &flags)
	if err != nil {
		// Defaults are still usable, report and continue.
		stlog.Printf("Warning: %v", err)
	}

	// --- Logger Initialization ---
	logCloser, err := logger.Open(cfg.Logger)
	if err != nil {
		stlog.Fatalf("Failed to open log: %v", err)
	}
	defer logCloser.Close()

	logger.Infof("Starting %s %s...", config.AppName, version)
	if listPath != "" {
		logger.Debugf("List file specified: %s", listPath)
	} else {
		logger.Debugf("No list file specified, starting empty.")
	}

	// --- Create and Run App ---
	listApp, err := app.NewApp(cfg, listPath)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		logCloser.Close()
		stlog.Fatalf("Error initializing application: %v", err)
	}

	if err := listApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		logCloser.Close()
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
}
