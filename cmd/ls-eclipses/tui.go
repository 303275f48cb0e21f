package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/litescript/ls-eclipses/internal/catalog"
	"github.com/litescript/ls-eclipses/internal/logging"
	"github.com/litescript/ls-eclipses/internal/ui"
)

func (a *app) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the interactive planner",
		Args:  cobra.NoArgs,
		RunE:  a.runTUI,
	}
}

func (a *app) runTUI(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("the interactive planner needs a terminal; use the plan or stars commands instead")
	}

	// Bubble Tea owns the terminal, so logs go to a file.
	fileLogger, err := logging.NewFile(a.cfg.Log.File, logging.ParseLevel(a.cfg.Log.Level))
	if err != nil {
		return err
	}
	defer fileLogger.Close()
	a.logger = fileLogger
	a.logger.Info("starting TUI, catalog %s", a.cfg.Catalog.Path)

	store, err := a.openStore()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	resolver, release := a.resolvers(ctx)
	defer release()

	deps := ui.Deps{
		Store:       store,
		Scheduler:   a.scheduler(),
		Positions:   resolver.Positions,
		Ephemerides: resolver.Ephemerides,
		Timeout:     a.cfg.Lookup.Timeout,
		Logger:      a.logger.Named("ui"),
	}

	watcher, err := catalog.NewWatcher(store.Path())
	if err == nil {
		err = watcher.Start()
	}
	if err != nil {
		a.logger.Warn("catalog watch disabled: %v", err)
	} else {
		defer watcher.Stop()
		deps.Changes = watcher.Changes
	}

	p := tea.NewProgram(ui.New(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
