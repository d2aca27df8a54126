// Package main is the entry point for the TraceLens TUI. It loads
// configuration, starts the background services, and runs the Bubble
// Tea program.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tracelens/tracelens/internal/app"
	"github.com/tracelens/tracelens/internal/config"
	"github.com/tracelens/tracelens/internal/logger"
	"github.com/tracelens/tracelens/internal/services"
	tabserrors "github.com/tracelens/tracelens/internal/ui/tabs/errors"
	"github.com/tracelens/tracelens/internal/ui/tabs/info"
	"github.com/tracelens/tracelens/internal/ui/tabs/overview"
	"github.com/tracelens/tracelens/internal/version"
)

func main() {
	if len(os.Args) > 1 && (os.Args[1] == "-v" || os.Args[1] == "--version") {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	if len(os.Args) > 1 && (os.Args[1] == "-h" || os.Args[1] == "--help") {
		printUsage()
		os.Exit(0)
	}

	if err := run(); err != nil {
		var confErr *config.ConfigurationError
		if errors.As(err, &confErr) {
			fmt.Fprintf(os.Stderr, "Configuration error: %v\n", confErr)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run contains the main application logic, separated for cleaner error handling.
func run() error {
	// 1. Load configuration from .env files and environment variables
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if os.Getenv("TRACELENS_DEBUG") != "" {
		logger.SetDebug(true)
	}

	// 2. Start the background services: periodic run fetching and the
	// pricing table watcher
	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: error closing services: %v\n", closeErr)
		}
	}()

	// 3. Create the root Bubble Tea model
	model := app.NewModel(svcManager)

	// 4. Initialize tabs with shared state
	state := model.GetState()
	tabs := []app.Tab{
		overview.New(state),
		tabserrors.New(state),
		info.New(state, cfg),
	}
	model.SetTabs(tabs)

	// 5. Graceful shutdown on SIGINT/SIGTERM
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// printUsage prints the command-line usage information.
func printUsage() {
	fmt.Println(`TraceLens - LLM run analytics TUI

Usage:
  tracelens [flags]

Flags:
  -h, --help      Show this help message
  -v, --version   Show version information

Keyboard Shortcuts:
  1-3             Switch between tabs (Overview, Errors, Info)
  Tab/Shift+Tab   Navigate between tabs
  j/k, Up/Down    Scroll
  t               Cycle time range (24h, 7d, 30d, all)
  d               Toggle dense buckets
  r               Refresh data
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  LANGSMITH_API_KEY      API key for the run endpoint (required)
  LANGSMITH_PROJECT      Project to query (default: "default")
  LANGSMITH_ENDPOINT     API base URL
  MODEL_RATES_PATH       JSON pricing table, reloaded on change
  REFRESH_INTERVAL       Fetch polling interval (default: 5m)
  BUCKET_WIDTH           Aggregation bucket width (default: 1h)

Configuration:
  The application looks for .env files in the following locations:
  - Current directory
  - ~/.config/tracelens/.env
  - ~/.tracelens/.env`)
}
