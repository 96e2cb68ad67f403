package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-terrain/internal/meshcodec"
	"github.com/vovakirdan/tui-terrain/internal/platform/tui"
	"github.com/vovakirdan/tui-terrain/internal/storage"
)

var flagSnapshotLimit int

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List saved snapshots",
	Long: `Lists the snapshots saved with ctrl+s, newest first.

Subcommands:
  browse           - Interactive browser; enter opens the snapshot
  delete <id>      - Delete a snapshot
  export <id> <f>  - Write a snapshot to a file
  import <f>       - Store a snapshot file

Examples:
  terrain snapshots
  terrain snapshots browse
  terrain snapshots export 3 hills.terrain
  terrain snapshots import hills.terrain`,
	Args: cobra.NoArgs,
	Run:  runSnapshotsList,
}

var snapshotsBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse snapshots interactively",
	Args:  cobra.NoArgs,
	Run:   runSnapshotsBrowse,
}

var snapshotsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a snapshot",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshotsDelete,
}

var snapshotsExportCmd = &cobra.Command{
	Use:   "export <id> <file>",
	Short: "Write a snapshot to a file",
	Args:  cobra.ExactArgs(2),
	Run:   runSnapshotsExport,
}

var snapshotsImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Store a snapshot file in the database",
	Args:  cobra.ExactArgs(1),
	Run:   runSnapshotsImport,
}

func init() {
	snapshotsCmd.Flags().IntVar(&flagSnapshotLimit, "limit", 20, "Maximum number of snapshots to list")

	snapshotsCmd.AddCommand(snapshotsBrowseCmd)
	snapshotsCmd.AddCommand(snapshotsDeleteCmd)
	snapshotsCmd.AddCommand(snapshotsExportCmd)
	snapshotsCmd.AddCommand(snapshotsImportCmd)
}

func parseID(arg string) int64 {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		fail("invalid snapshot ID %q", arg)
	}
	return id
}

func runSnapshotsList(_ *cobra.Command, _ []string) {
	store := openStore()
	defer store.Close()

	entries, err := store.ListSnapshots(flagSnapshotLimit)
	if err != nil {
		fail("retrieving snapshots: %v", err)
	}

	fmt.Println("Snapshots")
	fmt.Println()

	if len(entries) == 0 {
		fmt.Println("No snapshots saved yet.")
		fmt.Println()
		fmt.Println("Press ctrl+s in 'terrain play' to save one!")
		return
	}

	fmt.Printf("  %-5s  %-28s  %-6s  %-8s  %-7s  %s\n", "ID", "Name", "Chunks", "Vertices", "Size", "Date")
	fmt.Printf("  %-5s  %-28s  %-6s  %-8s  %-7s  %s\n", "--", "----", "------", "--------", "----", "----")
	for _, e := range entries {
		name := e.Name
		if len(name) > 28 {
			name = name[:27] + "."
		}
		fmt.Printf("  %-5d  %-28s  %-6d  %-8d  %-7d  %s\n",
			e.ID, name, e.ChunkCount, e.VertexCount, e.Size, e.CreatedAt.Format("2006-01-02 15:04"))
	}

	fmt.Println()
	fmt.Println("Run 'terrain play --load <id>' to sculpt a snapshot.")
}

func runSnapshotsBrowse(_ *cobra.Command, _ []string) {
	store := openStore()
	cfg := runtimeConfig()

	id, err := tui.RunBrowser(store, cfg.ScreenW, cfg.ScreenH)
	store.Close()
	if err != nil {
		fail("running browser: %v", err)
	}
	if id == 0 {
		return
	}

	flagLoadID = id
	runPlay(nil, nil)
}

func runSnapshotsDelete(_ *cobra.Command, args []string) {
	id := parseID(args[0])

	store := openStore()
	defer store.Close()

	err := store.DeleteSnapshot(id)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		fail("no snapshot with ID %d", id)
	}
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("Deleted snapshot %d\n", id)
}

func runSnapshotsExport(_ *cobra.Command, args []string) {
	id := parseID(args[0])
	path := args[1]

	store := openStore()
	defer store.Close()

	entry, snap, err := store.LoadSnapshot(id)
	if err != nil {
		fail("%v", err)
	}

	data, err := meshcodec.Encode(snap)
	if err != nil {
		fail("%v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fail("writing %s: %v", path, err)
	}
	fmt.Printf("Exported %q (%d chunks) to %s\n", entry.Name, len(snap.Chunks), path)
}

func runSnapshotsImport(_ *cobra.Command, args []string) {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		fail("reading %s: %v", path, err)
	}
	snap, err := meshcodec.Decode(data)
	if err != nil {
		fail("decoding %s: %v", path, err)
	}

	store := openStore()
	defer store.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	id, err := store.SaveSnapshot(name, snap)
	if err != nil {
		fail("%v", err)
	}
	fmt.Printf("Imported %s as snapshot %d (%d chunks)\n", path, id, len(snap.Chunks))
}
