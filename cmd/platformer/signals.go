package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-platformer/internal/games/platformer"
	"github.com/vovakirdan/tui-platformer/internal/signals"
)

var signalsCmd = &cobra.Command{
	Use:   "signals",
	Short: "List the signals the game publishes",
	Long: `Bind every gameplay signal on the process-wide signal box and print
the hash each one is addressed by. Hashes are what external listeners
pass to AddListenerByHash.`,
	Args: cobra.NoArgs,
	RunE: runSignals,
}

func runSignals(_ *cobra.Command, _ []string) error {
	box := signals.Default()
	if err := platformer.BindSignals(box); err != nil {
		return err
	}

	hashes := box.Hashes()
	fmt.Printf("%d signals bound:\n\n", box.Len())
	for _, h := range hashes {
		handlers := 0
		if s, ok := box.Lookup(h); ok {
			handlers = s.Len()
		}
		fmt.Printf("  %s  (%d handlers)\n", h, handlers)
	}

	fmt.Println()
	fmt.Printf("Game over signal: %s\n", platformer.GameOverHash(box))
	return nil
}
