// platformer is a terminal survival platformer: leave your body as a spirit
// to banish zombies before they reach it.
//
// Usage:
//
//	platformer                      - Start menu to pick a scene interactively
//	platformer scenes               - List available scenes
//	platformer play [scene]         - Play a scene
//	platformer serve                - Start SSH server for remote play
//	platformer scores <scene>       - Show high scores for a scene
//	platformer signals              - Show the signals the game publishes
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.platformer/scores.db)
//	--config <path>       - Custom gameplay config YAML
//	--difficulty <name>   - Difficulty preset: easy, normal, hard, fixed
//	--log-level <level>   - debug, info, warn, error
//	--log-file <path>     - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import the game to register its scenes
	_ "github.com/vovakirdan/tui-platformer/internal/games/platformer"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string
)

// logFile is the open --log-file, closed on exit.
var logFile *os.File

func main() {
	err := rootCmd.Execute()
	if logFile != nil {
		logFile.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "platformer",
	Short: "TUI Platformer - survive the graveyard in your terminal",
	Long: `TUI Platformer is a side-scrolling survival game for the terminal.
Zombies chase your body. Leave it as a spirit to banish them, but
watch your mana: when it runs out you are pulled back.

Available commands:
  scenes   - Show all available scenes
  play     - Play a specific scene directly
  menu     - Interactive scene picker (default)
  serve    - Start SSH server for remote play
  scores   - View high scores
  signals  - Inspect the signal bus

Examples:
  platformer
  platformer play crypt --difficulty hard
  platformer serve --ssh :2222
  platformer scores graveyard`,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	RunE:              runMenu,
}

func init() {
	// Global persistent flags
	pf := rootCmd.PersistentFlags()
	pf.IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	pf.Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	pf.StringVar(&flagDBPath, "db", "~/.platformer/scores.db", "Path to scores database")
	pf.StringVar(&flagConfig, "config", "", "Path to custom gameplay config YAML")
	pf.StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	pf.StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	// Add subcommands
	rootCmd.AddCommand(scenesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(signalsCmd)
}

// setupLogging applies --log-level and --log-file to the default logger.
func setupLogging(_ *cobra.Command, _ []string) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	log.SetLevel(level)

	if flagLogFile != "" {
		return openLogFile(flagLogFile)
	}
	return nil
}

// useTUILogging moves logging off the terminal while a TUI owns it.
// An explicit --log-file wins; otherwise logs go to ~/.platformer/platformer.log.
func useTUILogging() {
	if logFile != nil {
		return
	}
	home, err := os.UserHomeDir()
	if err != nil {
		log.SetOutput(io.Discard)
		return
	}
	if err := openLogFile(filepath.Join(home, ".platformer", "platformer.log")); err != nil {
		log.SetOutput(io.Discard)
	}
}

func openLogFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("cannot create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("cannot open log file: %w", err)
	}
	logFile = f
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	return nil
}
