// Package player holds the single-player game state: the board, the falling
// piece, the bag queue and the attack counters, along with the movement
// primitives and the searches built on top of them.
//
// State is a plain value. Copying it (or calling Clone) yields an independent
// state; nothing mutable is shared between copies, so search code clones a
// State per branch.
package player

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tetrabot/internal/bag"
	"github.com/vovakirdan/tetrabot/internal/core"
	"github.com/vovakirdan/tetrabot/internal/piece"
)

// SpawnRow is the row a new piece's diagram origin starts at, just above the
// visible field.
const SpawnRow = core.VisibleHeight

// Kick offsets for the spawn-facing rotation. Other orientations reuse them
// with dx negated for East/South and dy negated for East/West.
var (
	cwKicks  = [5][2]int{{0, 0}, {-1, 0}, {-1, 1}, {0, -2}, {-1, -2}}
	ccwKicks = [5][2]int{{0, 0}, {1, 0}, {1, 1}, {0, -2}, {1, -2}}
)

// State is one player's game state.
type State struct {
	grid core.Grid
	kind piece.Kind

	// Origin of the piece diagram and its orientation.
	x, y, d int

	spin   bool
	b2b    int
	combo  int
	attack int
	lines  int
	pieces int

	queue bag.Queue
}

// New returns a state with an empty board whose queue is seeded with seed.
// The first piece is drawn from the queue.
func New(seed uint64) State {
	s := State{queue: bag.New(seed)}
	s.kind = s.queue.Pop()
	s.ResetPosition()
	return s
}

// Clone returns an independent copy of s.
func (s *State) Clone() State {
	return *s
}

// Grid returns a copy of the board.
func (s *State) Grid() core.Grid { return s.grid }

// Piece returns the kind of the falling piece.
func (s *State) Piece() piece.Kind { return s.kind }

// X returns the column of the piece diagram origin.
func (s *State) X() int { return s.x }

// Y returns the row of the piece diagram origin.
func (s *State) Y() int { return s.y }

// D returns the piece orientation.
func (s *State) D() int { return s.d }

// Spin reports whether the last locked piece could not move left, right or up.
func (s *State) Spin() bool { return s.spin }

// B2B returns the back-to-back streak.
func (s *State) B2B() int { return s.b2b }

// Combo returns the consecutive line-clear streak.
func (s *State) Combo() int { return s.combo }

// Attack returns the accumulated attack.
func (s *State) Attack() int { return s.attack }

// Lines returns the total number of cleared lines.
func (s *State) Lines() int { return s.lines }

// Pieces returns the number of locked pieces.
func (s *State) Pieces() int { return s.pieces }

// Preview returns the next n pieces of the queue without drawing them.
func (s *State) Preview(n int) []piece.Kind {
	return s.queue.Peek(n)
}

// SetPiece replaces the falling piece without moving it.
func (s *State) SetPiece(k piece.Kind) {
	piece.Get(k)
	s.kind = k
}

// SetPosition moves the falling piece without validation.
func (s *State) SetPosition(x, y, d int) {
	s.x, s.y, s.d = x, y, d
}

// SetGrid replaces the board.
func (s *State) SetGrid(g core.Grid) {
	s.grid = g
}

// LoadBoard replaces the board with a fixture in the core.Parse format.
func (s *State) LoadBoard(text string) error {
	g, err := core.Parse(text)
	if err != nil {
		return fmt.Errorf("player: load board: %w", err)
	}
	s.grid = g
	return nil
}

// SetQueue makes kinds[0] the falling piece and the rest the next pieces
// drawn. The piece is moved to its spawn position.
// Panics unless 1 to bag.Size kinds are given.
func (s *State) SetQueue(kinds ...piece.Kind) {
	if len(kinds) == 0 || len(kinds) > bag.Size {
		panic(fmt.Sprintf("player: SetQueue needs 1 to %d pieces, got %d", bag.Size, len(kinds)))
	}
	s.kind = kinds[0]
	s.queue.Override(kinds[1:])
	s.ResetPosition()
}

// ResetPosition puts the falling piece at its spawn position: horizontally
// centered, at SpawnRow, facing north.
func (s *State) ResetPosition() {
	s.x, s.y, s.d = spawnX(s.kind), SpawnRow, piece.North
}

func spawnX(k piece.Kind) int {
	return (core.Width - k.Piece().BoxWidth()) / 2
}

// ToppedOut reports whether the falling piece cannot enter at its spawn
// position.
func (s *State) ToppedOut() bool {
	return !s.IsValid(spawnX(s.kind), SpawnRow, piece.North)
}

// IsValid reports whether the falling piece fits at (x, y) facing d.
func (s *State) IsValid(x, y, d int) bool {
	return !s.kind.Piece().Intersects(s.grid, x, y, d)
}

func (s *State) tryMove(x, y, d int) bool {
	if !s.IsValid(x, y, d) {
		return false
	}
	s.x, s.y, s.d = x, y, d
	return true
}

// MoveLeft shifts the piece one column left if it fits.
func (s *State) MoveLeft() bool {
	return s.tryMove(s.x-1, s.y, s.d)
}

// MoveRight shifts the piece one column right if it fits.
func (s *State) MoveRight() bool {
	return s.tryMove(s.x+1, s.y, s.d)
}

// Softdrop lowers the piece until the row below is blocked.
func (s *State) Softdrop() bool {
	moved := false
	for s.IsValid(s.x, s.y-1, s.d) {
		s.y--
		moved = true
	}
	return moved
}

// RotateCW rotates clockwise, trying each kick offset in order.
func (s *State) RotateCW() bool {
	return s.rotate(&cwKicks, (s.d+1)%piece.NumOrientations)
}

// RotateCCW rotates counter-clockwise, trying each kick offset in order.
func (s *State) RotateCCW() bool {
	return s.rotate(&ccwKicks, (s.d+piece.NumOrientations-1)%piece.NumOrientations)
}

// Rotate180 flips the piece in place. There is no kick table for it.
func (s *State) Rotate180() bool {
	return s.tryMove(s.x, s.y, s.d^2)
}

func (s *State) rotate(kicks *[5][2]int, to int) bool {
	for _, k := range kicks {
		dx, dy := k[0], k[1]
		if s.d == piece.East || s.d == piece.South {
			dx = -dx
		}
		if s.d == piece.East || s.d == piece.West {
			dy = -dy
		}
		if s.tryMove(s.x+dx, s.y+dy, to) {
			return true
		}
	}
	return false
}

// Harddrop drops the piece to rest, locks it, clears lines, scores, and
// spawns the next piece from the queue. Returns the number of cleared lines.
// Panics if the piece is not at a valid position.
func (s *State) Harddrop() int {
	if !s.IsValid(s.x, s.y, s.d) {
		panic(fmt.Sprintf("player: hard drop of %s from invalid position (%d,%d,%d)", s.kind, s.x, s.y, s.d))
	}
	s.Softdrop()

	s.spin = !s.IsValid(s.x-1, s.y, s.d) &&
		!s.IsValid(s.x+1, s.y, s.d) &&
		!s.IsValid(s.x, s.y+1, s.d)

	s.kind.Piece().Place(&s.grid, s.x, s.y, s.d)
	cleared := s.ClearLines()
	s.lines += cleared
	s.pieces++

	s.kind = s.queue.Pop()
	s.ResetPosition()
	return cleared
}

// Drop moves the piece to p and hard-drops it.
func (s *State) Drop(p Placement) int {
	s.x, s.y, s.d = p.X, p.Y, p.D
	return s.Harddrop()
}

// ClearLines removes full rows, compacts the rest downward in one pass and
// applies attack scoring using the current spin flag.
// Returns the number of cleared rows.
func (s *State) ClearLines() int {
	n := 0
	for y := 0; y < core.Height; y++ {
		if s.grid.RowFull(y) {
			n++
			continue
		}
		if n > 0 {
			s.grid.SetRow(y-n, s.grid.Row(y))
		}
	}
	for y := core.Height - n; y < core.Height; y++ {
		s.grid.SetRow(y, 0)
	}

	s.score(n)
	return n
}

func (s *State) score(n int) {
	base := n
	if !s.spin && n >= 1 && n <= 3 {
		base--
	}

	if s.spin || n >= 4 {
		if s.b2b > 0 {
			s.attack++
		}
		s.b2b++
	} else {
		s.b2b = 0
	}

	mult := 1
	if s.spin {
		mult = 2
	}
	s.attack += base * mult

	if n > 0 {
		s.attack += (s.combo + 1) / 3
		s.combo++
	} else {
		s.combo = 0
	}
}

// String renders the falling piece name and the board.
func (s *State) String() string {
	var sb strings.Builder
	sb.WriteString("curr: " + s.kind.String() + "\n")
	sb.WriteString(s.grid.String())
	return sb.String()
}
