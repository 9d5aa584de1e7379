package player

import (
	"cmp"
	"slices"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/tetrabot/internal/core"
)

// Placement is a resting position of the falling piece: diagram origin and
// orientation.
type Placement struct {
	X, Y, D int
}

func comparePlacements(a, b Placement) int {
	if c := cmp.Compare(a.D, b.D); c != 0 {
		return c
	}
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	return cmp.Compare(a.Y, b.Y)
}

// placementKey packs a position into a map key. Diagram origins stay within
// [-4, 25] on both axes, so six bits per coordinate are enough.
func placementKey(x, y, d int) uint32 {
	return uint32(x+8) | uint32(y+8)<<6 | uint32(d)<<12
}

// Placements returns every resting position the falling piece can reach from
// its spawn by any sequence of left, right, clockwise, counter-clockwise and
// soft-drop moves, sorted by orientation, column, then row.
// Distinct positions with identical cells are all reported; see
// UniquePlacements. Returns nil when the spawn position is blocked.
// s is not modified.
func (s *State) Placements() []Placement {
	sim := *s
	sim.ResetPosition()
	if !sim.IsValid(sim.x, sim.y, sim.d) {
		return nil
	}

	visited := intmap.New[uint32, struct{}](512)
	stable := intmap.New[uint32, struct{}](64)
	var out []Placement

	var walk func()
	walk = func() {
		x, y, d := sim.x, sim.y, sim.d
		key := placementKey(x, y, d)
		if _, ok := visited.Get(key); ok {
			return
		}
		visited.Put(key, struct{}{})

		for _, move := range [...]func() bool{sim.MoveLeft, sim.MoveRight, sim.RotateCW, sim.RotateCCW} {
			if move() {
				walk()
				sim.x, sim.y, sim.d = x, y, d
			}
		}

		sim.Softdrop()
		rest := placementKey(sim.x, sim.y, sim.d)
		if _, ok := stable.Get(rest); !ok {
			stable.Put(rest, struct{}{})
			out = append(out, Placement{sim.x, sim.y, sim.d})
		}
		walk()
		sim.x, sim.y, sim.d = x, y, d
	}
	walk()

	slices.SortFunc(out, comparePlacements)
	return out
}

// UniquePlacements is Placements with positions that occupy the same cells
// collapsed to the first one in sort order. The O piece, for example, rests
// in the same cells in all four orientations.
func (s *State) UniquePlacements() []Placement {
	all := s.Placements()
	p := s.kind.Piece()

	seen := make(map[core.Grid]struct{}, len(all))
	out := all[:0]
	for _, pl := range all {
		mask, _ := p.Mask(pl.X, pl.Y, pl.D)
		if _, dup := seen[mask]; dup {
			continue
		}
		seen[mask] = struct{}{}
		out = append(out, pl)
	}
	return out
}
