package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var flagHistoryLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent sculpting sessions",
	Long: `Display the most recent sessions, local and SSH, with totals over all
recorded sessions.

Examples:
  terrain history
  terrain history --limit 50`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of sessions to show")
}

func runHistory(_ *cobra.Command, _ []string) {
	store := openStore()
	defer store.Close()

	recs, err := store.RecentSessions(flagHistoryLimit)
	if err != nil {
		fail("retrieving sessions: %v", err)
	}

	fmt.Println("Recent sessions")
	fmt.Println()

	if len(recs) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'terrain play' to start sculpting!")
		return
	}

	fmt.Printf("  %-16s  %-5s  %-12s  %-8s  %-6s  %-8s  %s\n", "Date", "From", "User", "Deforms", "Added", "Duration", "Snapshot")
	fmt.Printf("  %-16s  %-5s  %-12s  %-8s  %-6s  %-8s  %s\n", "----", "----", "----", "-------", "-----", "--------", "--------")
	for _, r := range recs {
		snapshot := "-"
		if r.SnapshotID != 0 {
			snapshot = fmt.Sprintf("#%d", r.SnapshotID)
		}
		fmt.Printf("  %-16s  %-5s  %-12s  %-8d  %-6d  %-8s  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Origin, r.User,
			r.Deformations, r.ChunksCreated, time.Duration(r.Duration)*time.Second, snapshot)
	}

	stats, err := store.GetSessionStats()
	if err == nil && stats.Sessions > 0 {
		fmt.Println()
		fmt.Printf("Total: %d sessions, %d deformations, %d chunks added, %s sculpting\n",
			stats.Sessions, stats.Deformations, stats.ChunksCreated, time.Duration(stats.TotalSeconds)*time.Second)
	}
}
