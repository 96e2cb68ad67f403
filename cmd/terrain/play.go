package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-terrain/internal/platform/tui"
	"github.com/vovakirdan/tui-terrain/internal/session"
	"github.com/vovakirdan/tui-terrain/internal/storage"
	"github.com/vovakirdan/tui-terrain/internal/streaming"
)

var (
	flagLoadID int64
	flagWSAddr string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Sculpt a terrain",
	Long: `Start sculpting a new terrain, or a saved snapshot with --load.

Controls:
  Click              - Raise the terrain (hold to keep raising)
  Ctrl/Right click   - Lower the terrain
  [ / ]              - Intensity -/+ 0.5
  - / +              - Radius -/+ 5
  Arrows             - Add a chunk next to every chunk
  M                  - Flash every chunk
  P                  - Next deformation pattern
  F12                - Next material
  F1/F2/F3/F10       - Toggle help, statistics, brush and chunk panels
  W/A/S/D Z/X C      - Pan, zoom, recenter
  Ctrl+S             - Save a snapshot
  Q/Ctrl+C           - Quit

With --ws, chunk updates are streamed as JSON to WebSocket clients
connecting to ws://<addr>/ws.

Examples:
  terrain play
  terrain play --load 3
  terrain play --ws :8080
  terrain play --config ./my-terrain.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().Int64Var(&flagLoadID, "load", 0, "Snapshot ID to sculpt")
	playCmd.Flags().StringVar(&flagWSAddr, "ws", "", "Stream chunk updates over WebSocket on this address (host:port)")
}

func runPlay(_ *cobra.Command, _ []string) {
	terrainCfg := loadTerrainConfig()
	cfg := runtimeConfig()

	logger, closeLog := openLogger("terrain")
	defer closeLog()

	store := openStoreBestEffort()
	if store != nil {
		defer store.Close()
	}

	opts := []session.Option{
		session.WithLogger(logger),
		session.WithViewport(cfg.ScreenW, cfg.ScreenH),
	}
	if cfg.Seed != 0 {
		opts = append(opts, session.WithSeed(cfg.Seed))
	}

	var hub *streaming.Hub
	if flagWSAddr != "" {
		hub = streaming.NewHub(logger.WithPrefix("terrain-ws"))
		opts = append(opts, session.WithListener(hub))
	}

	sess, err := session.New(terrainCfg, opts...)
	if err != nil {
		fail("%v", err)
	}

	if flagLoadID != 0 {
		if store == nil {
			fail("--load needs the snapshot database")
		}
		entry, snap, loadErr := store.LoadSnapshot(flagLoadID)
		if errors.Is(loadErr, storage.ErrSnapshotNotFound) {
			fail("no snapshot with ID %d (see 'terrain snapshots')", flagLoadID)
		}
		if loadErr != nil {
			fail("%v", loadErr)
		}
		if err := sess.Restore(snap); err != nil {
			fail("%v", err)
		}
		logger.Info("snapshot loaded", "id", entry.ID, "name", entry.Name)
	}

	if hub != nil {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		defer hub.Close()
		go func() {
			if err := streaming.ListenAndServe(ctx, flagWSAddr, hub); err != nil {
				logger.Error("websocket server stopped", "addr", flagWSAddr, "error", err)
			}
		}()
	}

	runErr := tui.Run(sess, cfg, tui.Options{
		Store:  store,
		Logger: logger,
		Origin: "local",
		User:   currentUser(),
	})
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running terrain: %v\n", runErr)
		os.Exit(1)
	}
}
