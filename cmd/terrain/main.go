// terrain is a terminal terrain sculptor: raise and lower a grid terrain
// with the mouse, grow it tile by tile and save snapshots.
//
// Usage:
//
//	terrain menu                  - Start menu (new terrain or open a snapshot)
//	terrain play                  - Sculpt a new terrain directly
//	terrain play --load <id>      - Sculpt a saved snapshot
//	terrain serve                 - Start SSH server for remote sculpting
//	terrain patterns              - List deformation pattern shapes
//	terrain snapshots             - List, browse, export and import snapshots
//	terrain history               - Show recent sculpting sessions
//	terrain config                - Print the effective terrain configuration
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 60, env TERRAIN_FPS)
//	--seed <value>   - Set RNG seed for highlight colors
//	--db <path>      - Set database path (default: ~/.terrain/terrain.db, env TERRAIN_DB)
//	--config <path>  - Terrain config YAML (env TERRAIN_CONFIG)
//	--log <path>     - Log file for interactive commands (default: ~/.terrain/terrain.log)
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagLogPath  string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "terrain",
	Short: "Terrain - Sculpt a grid terrain in your terminal",
	Long: `Terrain is a terminal sculpting tool. A grid terrain made of square
chunks is shown from above; click to raise it, ctrl+click or right click to
lower it, and use the arrow keys to add chunks around it.

Available commands:
  menu       - Start menu
  play       - Sculpt directly
  serve      - Start SSH server for remote sculpting
  patterns   - List deformation pattern shapes
  snapshots  - Manage saved snapshots
  history    - Show recent sessions
  config     - Print the terrain configuration

Examples:
  terrain menu
  terrain play --ws :8080
  terrain play --load 3
  terrain serve --ssh :2222
  terrain snapshots export 3 hills.terrain`,
}

func init() {
	// A missing .env file is fine; variables may come from the environment.
	_ = godotenv.Load()

	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", envInt("TERRAIN_FPS", 60), "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", envString("TERRAIN_DB", "~/.terrain/terrain.db"), "Path to snapshot database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", envString("TERRAIN_CONFIG", ""), "Path to terrain config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "~/.terrain/terrain.log", "Log file for interactive commands")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(snapshotsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}

func envString(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(name)); err == nil && v > 0 {
		return v
	}
	return fallback
}
