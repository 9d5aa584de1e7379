package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetrabot/internal/registry"
	"github.com/vovakirdan/tetrabot/internal/storage"
)

var (
	flagLimit int
	flagClear bool
	flagRunID string
)

var runsCmd = &cobra.Command{
	Use:   "runs [evaluator]",
	Short: "Show the best recorded runs",
	Long: `Display the best runs by attack, optionally for one evaluator only.
Without an evaluator a per-evaluator summary is printed as well.

Examples:
  tetrabot runs
  tetrabot runs features --limit 20
  tetrabot runs --id 0b6f1c1e-6a4f-4d0e-9a57-2f0d4c7e9b11
  tetrabot runs features --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to show")
	runsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the recorded runs of the evaluator")
	runsCmd.Flags().StringVar(&flagRunID, "id", "", "Show a single run by ID")
}

func runRuns(cmd *cobra.Command, args []string) {
	evaluator := ""
	if len(args) == 1 {
		evaluator = args[0]
		// Check if evaluator exists
		if !registry.Exists(evaluator) {
			fmt.Fprintf(os.Stderr, "Error: unknown evaluator %q\n", evaluator)
			fmt.Fprintln(os.Stderr, "Run 'tetrabot evaluators' to see available evaluators.")
			os.Exit(1)
		}
	}

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening run database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagRunID != "" {
		showRun(store, flagRunID)
		return
	}

	if flagClear {
		if evaluator == "" {
			fmt.Fprintln(os.Stderr, "Error: --clear needs an evaluator name")
			os.Exit(1)
		}
		if err := store.ClearRuns(evaluator); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared runs for %s.\n", evaluator)
		return
	}

	runs, err := store.TopRuns(evaluator, flagLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	title := "all evaluators"
	if evaluator != "" {
		title = evaluator
	}
	fmt.Printf("Best Runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Run 'tetrabot run' to record the first one!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %-6s  %-6s  %-6s  %-5s  %-20s  %s\n",
		"Rank", "Evaluator", "Attack", "Pieces", "Lines", "APP", "Seed", "When")
	fmt.Printf("  %-4s  %-10s  %-6s  %-6s  %-6s  %-5s  %-20s  %s\n",
		"----", "---------", "------", "------", "-----", "---", "----", "----")

	for i, r := range runs {
		fmt.Printf("  %-4d  %-10s  %-6d  %-6d  %-6d  %-5.2f  %-20d  %s\n",
			i+1, r.Evaluator, r.Attack, r.Pieces, r.Lines, r.APP(), r.Seed, humanize.Time(r.CreatedAt))
	}

	if evaluator != "" {
		return
	}

	stats, err := store.GetAllStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving evaluator stats: %v\n", err)
		os.Exit(1)
	}
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	for _, name := range names {
		st := stats[name]
		fmt.Printf("%s: %s runs, best %d, average %.1f, %s pieces played, last %s\n",
			name,
			humanize.Comma(int64(st.RunsCount)),
			st.BestAttack,
			st.AvgAttack,
			humanize.Comma(st.TotalPieces),
			humanize.Time(st.LastRun),
		)
	}
}

func showRun(store *storage.Store, id string) {
	r, err := store.RunByID(id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving run: %v\n", err)
		os.Exit(1)
	}
	if r == nil {
		fmt.Fprintf(os.Stderr, "Error: no run with ID %s\n", id)
		os.Exit(1)
	}

	fmt.Printf("Run %s\n", r.ID)
	fmt.Println()
	fmt.Printf("  Evaluator:  %s\n", r.Evaluator)
	if r.Preset != "" {
		fmt.Printf("  Preset:     %s\n", r.Preset)
	}
	fmt.Printf("  Seed:       %d\n", r.Seed)
	fmt.Printf("  Pieces:     %s\n", humanize.Comma(int64(r.Pieces)))
	fmt.Printf("  Lines:      %s\n", humanize.Comma(int64(r.Lines)))
	fmt.Printf("  Attack:     %d (%.2f per piece)\n", r.Attack, r.APP())
	fmt.Printf("  Topped out: %t\n", r.ToppedOut)
	fmt.Printf("  Duration:   %s\n", r.Duration)
	fmt.Printf("  Played:     %s\n", humanize.Time(r.CreatedAt))
}
