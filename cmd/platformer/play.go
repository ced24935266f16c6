package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-platformer/internal/config"
	"github.com/vovakirdan/tui-platformer/internal/core"
	"github.com/vovakirdan/tui-platformer/internal/platform/tui"
	"github.com/vovakirdan/tui-platformer/internal/registry"
	"github.com/vovakirdan/tui-platformer/internal/signals"
	"github.com/vovakirdan/tui-platformer/internal/storage"
)

const defaultScene = "graveyard"

var playCmd = &cobra.Command{
	Use:   "play [scene]",
	Short: "Play a scene",
	Long: `Start playing the specified scene (default: graveyard).

Controls:
  A/D, Left/Right  - Move
  Space            - Jump (hold for a higher jump)
  E/Right click    - Leave your body as a spirit / return to it
  W/S              - Fly up/down as a spirit
  Esc/P            - Pause (Enter or left click resumes)
  R                - Restart (after game over)
  B                - Back to menu (when paused or game over)
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - More health, slower zombies, starts calm
  normal - Starts at 30% difficulty, progresses to max
  hard   - Less health, faster zombies, starts at 70%
  fixed  - No progression, stays at config's initial level

Examples:
  platformer play
  platformer play crypt --difficulty easy
  platformer play rooftops --config ./my-platformer.yaml`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, args []string) error {
	sceneID := defaultScene
	if len(args) > 0 {
		sceneID = args[0]
	}

	if !registry.Exists(sceneID) {
		return fmt.Errorf("unknown scene %q, run 'platformer scenes' to see available scenes", sceneID)
	}

	gameCfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	cfg := runtimeConfig()
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	useTUILogging()
	game, err := newGame(sceneID, gameCfg)
	if err != nil {
		return err
	}

	if _, err := tui.Run(game, store, cfg); err != nil {
		return fmt.Errorf("error running game: %w", err)
	}
	return nil
}

// loadGameConfig resolves --config and applies --difficulty.
func loadGameConfig() (*config.PlatformerConfig, error) {
	preset, ok := config.ParsePreset(flagDifficulty)
	if !ok {
		return nil, fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", flagDifficulty)
	}

	cfg, err := config.LoadPlatformer(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDifficulty != "" {
		config.ApplyPreset(&cfg, preset)
	}
	return &cfg, nil
}

// newGame creates a scene with a private signal box.
func newGame(sceneID string, cfg *config.PlatformerConfig) (registry.Game, error) {
	logger := log.Default()
	box := signals.NewBox(
		signals.WithLogger(logger.WithPrefix("signals")),
		signals.WithValidation(cfg.Signals.Validate),
	)
	game, err := registry.Create(sceneID, registry.Env{Box: box, Config: cfg, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("error creating game: %w", err)
	}
	return game, nil
}

// runtimeConfig builds the runtime config from the terminal and global flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the scores database. The game still works without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		return nil
	}
	return store
}
