package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tetrabot/internal/player"
	"github.com/vovakirdan/tetrabot/internal/registry"
	"github.com/vovakirdan/tetrabot/internal/search"
	"github.com/vovakirdan/tetrabot/internal/storage"
)

var (
	flagPieces int
	flagNoSave bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Let the bot play a seeded game",
	Long: `Play a game with the beam search choosing every move.

The bot keeps placing pieces until the piece limit is reached, the stack
tops out, or the run is interrupted with Ctrl+C. The finished run is stored
in the run history database.

Presets:
  fast   - depth 3, beam 100, 20 children per node
  normal - depth 6, beam 1000, every child
  deep   - depth 10, beam 2000, 100 children per node

Examples:
  tetrabot run
  tetrabot run --seed 42 --pieces 500
  tetrabot run --preset fast --verbose
  tetrabot run --config ./my-bot.yaml --no-save`,
	Args: cobra.NoArgs,
	Run:  runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagPieces, "pieces", 0, "Number of pieces to play (0 = use config)")
	runCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the run")
}

func runRun(cmd *cobra.Command, args []string) {
	logger := newLogger()

	cfg, preset, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagPieces > 0 {
		cfg.Run.Pieces = flagPieces
	}

	evaluator, err := registry.Create(cfg.Evaluator.Name, cfg.Evaluator.Weights)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Run 'tetrabot evaluators' to see available evaluators.")
		os.Exit(1)
	}

	seed := cfg.Run.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	opts := cfg.Search.Options()
	opts.Logger = logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("starting run",
		"seed", seed,
		"evaluator", cfg.Evaluator.Name,
		"pieces", cfg.Run.Pieces,
		"depth", cfg.Search.Depth,
		"beam", cfg.Search.BeamWidth,
	)

	state := player.New(seed)
	logger.Debug("opening queue", "current", state.Piece(), "next", state.Preview(5))
	start := time.Now()
	var nodes int64
	toppedOut := false

	for i := 0; i < cfg.Run.Pieces; i++ {
		res, err := search.Search(ctx, state, evaluator, opts)
		if errors.Is(err, search.ErrNoPlacement) {
			toppedOut = true
			break
		}
		if errors.Is(err, context.Canceled) {
			logger.Warn("run interrupted", "pieces", state.Pieces())
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error searching: %v\n", err)
			os.Exit(1)
		}

		kind := state.Piece()
		cleared := state.Drop(res.Placement)
		nodes += int64(res.Nodes)

		logger.Debug("move",
			"n", i+1,
			"piece", kind,
			"x", res.Placement.X,
			"y", res.Placement.Y,
			"d", res.Placement.D,
			"score", res.Score,
			"nodes", humanize.Comma(int64(res.Nodes)),
		)
		if cleared > 0 {
			logger.Info("lines cleared",
				"n", i+1,
				"lines", cleared,
				"spin", state.Spin(),
				"b2b", state.B2B(),
				"combo", state.Combo(),
				"attack", state.Attack(),
			)
		}

		if state.ToppedOut() {
			toppedOut = true
			break
		}
	}
	elapsed := time.Since(start)

	if toppedOut {
		logger.Warn("stack topped out", "pieces", state.Pieces())
	}

	fmt.Println()
	fmt.Print(state.String())
	fmt.Println()
	fmt.Printf("Pieces:  %d\n", state.Pieces())
	fmt.Printf("Lines:   %d\n", state.Lines())
	fmt.Printf("Attack:  %d\n", state.Attack())
	fmt.Printf("Nodes:   %s in %s\n", humanize.Comma(nodes), elapsed.Round(time.Millisecond))

	if flagNoSave || state.Pieces() == 0 {
		return
	}

	// Open run storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open run database", "error", err)
		return
	}
	defer store.Close()

	run := storage.Run{
		Seed:      seed,
		Evaluator: cfg.Evaluator.Name,
		Preset:    string(preset),
		Pieces:    state.Pieces(),
		Lines:     state.Lines(),
		Attack:    state.Attack(),
		ToppedOut: toppedOut,
		Duration:  elapsed,
	}
	id, newBest, err := recordRun(store, run, logger)
	if err != nil {
		logger.Warn("could not save run", "error", err)
		return
	}
	logger.Info("run saved", "id", id)

	if newBest {
		fmt.Printf("New best attack for %s: %d\n", run.Evaluator, run.Attack)
	}
}

// recordRun saves run and reports whether it beats the evaluator's previous
// best. A failed best lookup is logged and never counts as a new best.
func recordRun(store *storage.Store, run storage.Run, logger *log.Logger) (string, bool, error) {
	best, bestErr := store.BestAttack(run.Evaluator)
	if bestErr != nil {
		logger.Warn("could not read best attack", "evaluator", run.Evaluator, "error", bestErr)
	}

	id, err := store.SaveRun(run)
	if err != nil {
		return "", false, err
	}
	return id, bestErr == nil && run.Attack > best, nil
}
