package player

import (
	"fmt"

	"github.com/vovakirdan/tetrabot/internal/core"
)

// PotentialOptions tunes the pruning of AttackPotential.
type PotentialOptions struct {
	// PerPiece is the most attack a single piece is assumed to add when
	// bounding what a branch can still reach.
	PerPiece int
	// Slack is how far a branch may fall behind one attack per piece before
	// it is dropped.
	Slack int
}

// DefaultPotentialOptions returns the pruning parameters used by the CLI.
func DefaultPotentialOptions() PotentialOptions {
	return PotentialOptions{PerPiece: 1, Slack: 2}
}

// Potential is the result of AttackPotential.
type Potential struct {
	// Best[d] is the most attack found after d placements, relative to the
	// root state's attack.
	Best []int
	// Checked counts visited nodes, Expanded those that were not pruned.
	Checked  int
	Expanded int
}

// Pruned is the number of checked nodes that were not expanded.
func (p Potential) Pruned() int {
	return p.Checked - p.Expanded
}

// AttackPotential explores placement sequences up to maxDepth pieces deep,
// following the queue, and reports the best attack reached at each depth.
//
// The walk is depth-first with a visited set keyed by board, shared across
// depths. A branch is dropped when it cannot beat the best already found at
// its depth even gaining opts.PerPiece per remaining piece, or when its gained
// attack plus opts.Slack is below its depth. The result is a heuristic lower
// bound, not an exhaustive maximum.
// Panics if maxDepth is negative.
func (s *State) AttackPotential(maxDepth int, opts PotentialOptions) Potential {
	if maxDepth < 0 {
		panic(fmt.Sprintf("player: negative potential depth %d", maxDepth))
	}
	root := s.attack
	best := make([]int, maxDepth+1)
	for i := range best {
		best[i] = root
	}

	visited := make(map[core.Grid]struct{}, 4096)
	res := Potential{}

	var walk func(st *State, depth int)
	walk = func(st *State, depth int) {
		res.Checked++
		if st.attack-root+opts.Slack < depth {
			return
		}
		if st.attack+opts.PerPiece*(maxDepth-depth) < best[depth] {
			return
		}
		if _, ok := visited[st.grid]; ok {
			return
		}
		visited[st.grid] = struct{}{}
		res.Expanded++

		best[depth] = max(best[depth], st.attack)
		if depth == maxDepth {
			return
		}
		for _, p := range st.UniquePlacements() {
			next := *st
			next.Drop(p)
			walk(&next, depth+1)
		}
	}

	start := *s
	walk(&start, 0)

	for i := range best {
		best[i] -= root
	}
	res.Best = best
	return res
}
