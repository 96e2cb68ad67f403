package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-terrain/internal/core"
	"github.com/vovakirdan/tui-terrain/internal/registry"
	"github.com/vovakirdan/tui-terrain/internal/terrain"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List deformation pattern shapes",
	Long: `Shows the registered pattern shapes and the four pattern slots of the
terrain configuration. Each curve maps distance/radius (0 at the hit point,
1 at the brush edge) to a displacement factor.`,
	Args: cobra.NoArgs,
	Run:  runPatterns,
}

var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// sparkline samples c over [0, 1] and draws the values clamped to [0, 1].
func sparkline(c *terrain.Curve, samples int) string {
	var sb strings.Builder
	for i := 0; i < samples; i++ {
		v := core.ClampF(c.Evaluate(float64(i)/float64(samples-1)), 0, 1)
		sb.WriteRune(sparkRunes[int(v*float64(len(sparkRunes)-1)+0.5)])
	}
	return sb.String()
}

func runPatterns(_ *cobra.Command, _ []string) {
	shapes := registry.List()

	if len(shapes) == 0 {
		fmt.Println("No pattern shapes available.")
		return
	}

	fmt.Println("Available shapes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, s := range shapes {
		maxIDLen = max(maxIDLen, len(s.ID))
	}

	fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, "ID", "Curve", "Title")
	fmt.Printf("  %-*s  %-16s  %s\n", maxIDLen, "--", "-----", "-----")
	for _, s := range shapes {
		curve, err := registry.Curve(s.ID)
		if err != nil {
			continue
		}
		fmt.Printf("  %-*s  %s  %s\n", maxIDLen, s.ID, sparkline(curve, 16), s.Title)
	}

	cfg := loadTerrainConfig()
	fmt.Println()
	fmt.Println("Configured slots (P cycles through them):")
	fmt.Println()
	for i, p := range cfg.Patterns {
		source := p.Shape
		if len(p.Keys) > 0 {
			source = fmt.Sprintf("%d custom keys", len(p.Keys))
		}
		line := fmt.Sprintf("  %d  %-10s  %s", i, p.Name, source)
		if curve, err := p.Curve(); err == nil {
			line += "  " + sparkline(curve, 16)
		}
		fmt.Println(line)
	}
}
