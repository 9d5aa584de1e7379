package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetrabot/internal/bag"
	"github.com/vovakirdan/tetrabot/internal/piece"
	"github.com/vovakirdan/tetrabot/internal/player"
)

var (
	flagQueue string
	flagDepth int
)

var potentialCmd = &cobra.Command{
	Use:   "potential <board-file>",
	Short: "Estimate the attack a board can still produce",
	Long: `Search placement sequences from a board fixture and report the best
attack found after each number of pieces.

The board file holds one line per row, top row first, with '#' for filled
cells. --queue sets the current piece and the ones after it; without it
the seeded bag is used.

Examples:
  tetrabot potential ./boards/tst.txt
  tetrabot potential ./boards/tst.txt --queue TJL --depth 3`,
	Args: cobra.ExactArgs(1),
	Run:  runPotential,
}

func init() {
	potentialCmd.Flags().StringVar(&flagQueue, "queue", "", "Current and upcoming pieces, e.g. TJL")
	potentialCmd.Flags().IntVar(&flagDepth, "depth", 0, "Pieces to look ahead (0 = use config)")
}

func parseQueue(s string) ([]piece.Kind, error) {
	if len(s) > bag.Size {
		return nil, fmt.Errorf("queue %q is longer than %d pieces", s, bag.Size)
	}
	kinds := make([]piece.Kind, 0, len(s))
	for _, r := range s {
		k, err := piece.ParseKind(string(r))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func runPotential(cmd *cobra.Command, args []string) {
	cfg, _, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	depth := cfg.Potential.Depth
	if flagDepth > 0 {
		depth = flagDepth
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading board: %v\n", err)
		os.Exit(1)
	}

	state := player.New(cfg.Run.Seed)
	if err := state.LoadBoard(strings.TrimSpace(string(data))); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if flagQueue != "" {
		kinds, err := parseQueue(flagQueue)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		state.SetQueue(kinds...)
	}

	start := time.Now()
	res := state.AttackPotential(depth, cfg.Potential.Options())
	elapsed := time.Since(start)

	fmt.Print(state.String())
	fmt.Println()

	// Print header
	fmt.Printf("  %-6s  %s\n", "Pieces", "Attack")
	fmt.Printf("  %-6s  %s\n", "------", "------")
	for d, best := range res.Best {
		fmt.Printf("  %-6d  %d\n", d, best)
	}

	fmt.Println()
	fmt.Printf("Checked %s boards, expanded %s, pruned %s in %s\n",
		humanize.Comma(int64(res.Checked)),
		humanize.Comma(int64(res.Expanded)),
		humanize.Comma(int64(res.Pruned())),
		elapsed.Round(time.Millisecond),
	)
}
