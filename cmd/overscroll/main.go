package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/overscroll/internal/config"
	"github.com/mmcdole/overscroll/internal/feed"
	"github.com/mmcdole/overscroll/internal/log"
	"github.com/mmcdole/overscroll/internal/store"
	"github.com/mmcdole/overscroll/internal/tui"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("overscroll %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("overscroll is interactive and needs a terminal")
	}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting overscroll", "version", Version)

	// Feed cache (memory-only when no cache dir is configured)
	feedStore, err := store.NewFeedStore(cfg.Feed.CacheDir)
	if err != nil {
		return fmt.Errorf("failed to open feed cache: %w", err)
	}
	defer feedStore.Close()

	gen := feed.NewGenerator(cfg.Feed.Seed)
	svc := feed.NewService(gen, feedStore, logger, cfg.Feed.PageSize, cfg.Feed.FailureRate, cfg.Feed.Seed)

	model := tui.NewModel(svc, logger, cfg.Refresh)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}
