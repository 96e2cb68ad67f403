package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-terrain/internal/config"
)

var flagDefaults bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the terrain configuration",
	Long: `Prints the effective terrain configuration as YAML.

The configuration is read from the first of:
  --config <path> (or TERRAIN_CONFIG)
  ~/.terrain/configs/terrain.yaml
  ./configs/terrain.yaml
  built-in defaults

Examples:
  terrain config
  terrain config --defaults > ~/.terrain/configs/terrain.yaml`,
	Args: cobra.NoArgs,
	Run:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagDefaults, "defaults", false, "Print the built-in default configuration")
}

func runConfig(_ *cobra.Command, _ []string) {
	if flagDefaults {
		os.Stdout.Write(config.DefaultYAML())
		return
	}

	data, err := config.Marshal(loadTerrainConfig())
	if err != nil {
		fail("%v", err)
	}
	fmt.Print(string(data))
}
