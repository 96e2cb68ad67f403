package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-terrain/internal/platform/tui"
	"github.com/vovakirdan/tui-terrain/internal/session"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start terrain with a start menu",
	Long: `Start terrain in interactive menu mode.

Pick "Sculpt a new terrain" or open a saved snapshot. Quitting a sculpting
session returns to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Open the snapshot browser
  Q            - Quit

Examples:
  terrain menu
  terrain menu --fps 30
  terrain menu --db ./terrain.db`,
	Args: cobra.NoArgs,
	Run:  runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	terrainCfg := loadTerrainConfig()
	cfg := runtimeConfig()

	logger, closeLog := openLogger("terrain")
	defer closeLog()

	store := openStoreBestEffort()

	runErr := tui.RunApp(store, terrainCfg, cfg, tui.Options{
		Store:  store,
		Logger: logger,
		Origin: "local",
		User:   currentUser(),
	}, session.WithLogger(logger))

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running menu: %v\n", runErr)
		os.Exit(1)
	}
}
