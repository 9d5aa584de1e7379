// Package search picks moves with a level-synchronous beam search over the
// placement tree of a player.State.
package search

import (
	"cmp"
	"context"
	"errors"
	"io"
	"runtime"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/tetrabot/internal/player"
)

// ErrNoPlacement is returned when every placement of the root piece tops out.
var ErrNoPlacement = errors.New("search: no placement available")

// Evaluator scores a state after a placement; higher is better.
// Evaluate is called from several goroutines at once and must not mutate
// shared data.
type Evaluator interface {
	Evaluate(s *player.State) float64
}

// EvaluatorFunc adapts a plain function to Evaluator.
type EvaluatorFunc func(s *player.State) float64

// Evaluate calls f(s).
func (f EvaluatorFunc) Evaluate(s *player.State) float64 {
	return f(s)
}

// Options configures Search. Zero fields take the DefaultOptions value.
type Options struct {
	// Depth is the number of placements looked ahead, the root move included.
	Depth int
	// BeamWidth is how many nodes of a level are expanded.
	BeamWidth int
	// ChildCap keeps only the best children of each expanded node.
	// Zero means no cap.
	ChildCap int
	// Workers bounds the goroutines used to expand a level.
	Workers int
	// Logger receives per-level statistics at debug level.
	Logger *log.Logger
}

// DefaultOptions returns the search settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		Depth:     6,
		BeamWidth: 1000,
		Workers:   runtime.NumCPU(),
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Depth <= 0 {
		o.Depth = def.Depth
	}
	if o.BeamWidth <= 0 {
		o.BeamWidth = def.BeamWidth
	}
	if o.ChildCap < 0 {
		o.ChildCap = 0
	}
	if o.Workers <= 0 {
		o.Workers = def.Workers
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	return o
}

// Result is the recommended move.
type Result struct {
	// Placement is the root move leading to the best scored descendant.
	Placement player.Placement
	// Score is the evaluation of that descendant.
	Score float64
	// Nodes counts every evaluated state.
	Nodes int
	// Levels is the depth actually reached.
	Levels int
}

type node struct {
	state player.State
	score float64
	root  int
}

// Search runs the beam search from root and returns the best first move.
//
// Level one holds every distinct placement of the current piece that does
// not top out, and ErrNoPlacement is returned when there is none. Each
// following level sorts the previous one by score, keeps BeamWidth nodes and
// expands them in parallel. Children are gathered per node and joined in
// node order, so the result does not depend on Workers or scheduling.
// The search stops after Depth levels or when a level has no children, and
// answers with the root move of the best node of the last level.
//
// ctx is checked between levels. root is not modified.
func Search(ctx context.Context, root player.State, eval Evaluator, opts Options) (Result, error) {
	opts = opts.withDefaults()
	logger := opts.Logger

	var moves []player.Placement
	var frontier []node
	for _, p := range root.UniquePlacements() {
		st := root.Clone()
		st.Drop(p)
		if st.ToppedOut() {
			continue
		}
		frontier = append(frontier, node{state: st, score: eval.Evaluate(&st), root: len(moves)})
		moves = append(moves, p)
	}
	if len(frontier) == 0 {
		return Result{}, ErrNoPlacement
	}
	res := Result{Nodes: len(frontier), Levels: 1}

	for res.Levels < opts.Depth {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		start := time.Now()
		sortByScore(frontier)
		if len(frontier) > opts.BeamWidth {
			frontier = frontier[:opts.BeamWidth]
		}

		next := expand(frontier, eval, opts.Workers, opts.ChildCap)
		if len(next) == 0 {
			logger.Debug("search: no children, stopping early", "level", res.Levels)
			break
		}

		expanded := len(frontier)
		frontier = next
		res.Levels++
		res.Nodes += len(next)
		logger.Debug("search: level done",
			"level", res.Levels,
			"expanded", expanded,
			"children", len(next),
			"elapsed", time.Since(start),
		)
	}

	best := frontier[0]
	for _, n := range frontier[1:] {
		if n.score > best.score {
			best = n
		}
	}
	res.Placement = moves[best.root]
	res.Score = best.score
	return res, nil
}

// sortByScore orders nodes best first. Equal scores keep their order.
func sortByScore(nodes []node) {
	slices.SortStableFunc(nodes, func(a, b node) int {
		return cmp.Compare(b.score, a.score)
	})
}

// expand computes the children of every node on a pool of at most workers
// goroutines. Each node writes only its own buffer.
func expand(frontier []node, eval Evaluator, workers, childCap int) []node {
	buffers := make([][]node, len(frontier))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range frontier {
		i := i
		g.Go(func() error {
			buffers[i] = children(&frontier[i], eval, childCap)
			return nil
		})
	}
	_ = g.Wait()

	total := 0
	for _, b := range buffers {
		total += len(b)
	}
	out := make([]node, 0, total)
	for _, b := range buffers {
		out = append(out, b...)
	}
	return out
}

// children drops each distinct placement of the node's piece, skipping
// results that top out. With a positive limit only the best scored ones are
// kept.
func children(parent *node, eval Evaluator, limit int) []node {
	moves := parent.state.UniquePlacements()
	out := make([]node, 0, len(moves))
	for _, p := range moves {
		st := parent.state.Clone()
		st.Drop(p)
		if st.ToppedOut() {
			continue
		}
		out = append(out, node{state: st, score: eval.Evaluate(&st), root: parent.root})
	}

	if limit > 0 && len(out) > limit {
		sortByScore(out)
		out = out[:limit]
	}
	return out
}
