package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetrabot/internal/core"
	"github.com/vovakirdan/tetrabot/internal/piece"
)

const (
	tstCW = "##........\n" +
		"#.........\n" +
		"#.########\n" +
		"#..#######\n" +
		"#.########"

	tstCCW = "........##\n" +
		".........#\n" +
		"#.######.#\n" +
		"##.####..#\n" +
		"#.######.#"

	sKick = "####..##.#\n" +
		"###..####."
)

func withBoard(t *testing.T, board string, k piece.Kind) State {
	t.Helper()
	s := New(0)
	require.NoError(t, s.LoadBoard(board))
	s.SetPiece(k)
	s.ResetPosition()
	return s
}

func assertPosition(t *testing.T, s *State, x, y, d int) {
	t.Helper()
	assert.Equal(t, [3]int{x, y, d}, [3]int{s.X(), s.Y(), s.D()}, "position (x, y, d)")
}

func TestNewDrawsFirstPieceFromQueue(t *testing.T) {
	s := New(0)
	assert.Equal(t, piece.I, s.Piece())
	assert.Equal(t, []piece.Kind{piece.J, piece.L, piece.O}, s.Preview(3))
	assertPosition(t, &s, 3, SpawnRow, piece.North)
	assert.True(t, s.Grid().IsZero())
	assert.False(t, s.ToppedOut())
}

func TestSpawnIsCentered(t *testing.T) {
	s := New(0)
	for _, k := range piece.Kinds {
		s.SetPiece(k)
		s.ResetPosition()
		want := 3
		if k == piece.O {
			want = 4
		}
		assert.Equal(t, want, s.X(), "%s spawn column", k)
	}
}

func TestHarddropStacksI(t *testing.T) {
	s := New(0)
	for i := 0; i < 10; i++ {
		s.SetPiece(piece.I)
		s.ResetPosition()
		require.True(t, s.IsValid(s.X(), s.Y(), s.D()))
		s.Softdrop()
		assert.Equal(t, -2+i, s.Y(), "drop %d", i)
		assert.Equal(t, 0, s.Harddrop())
	}

	g := s.Grid()
	for y := 0; y < 10; y++ {
		assert.Equal(t, uint16(0b0001111000), g.Row(y), "row %d", y)
	}
	assert.Equal(t, 10, s.Pieces())
	assert.Equal(t, 0, s.Attack())
}

func TestHarddropStacksZ(t *testing.T) {
	s := New(0)
	for i := 0; i < 5; i++ {
		s.SetPiece(piece.Z)
		s.ResetPosition()
		s.Softdrop()
		assert.Equal(t, -1+2*i, s.Y(), "drop %d", i)
		s.Harddrop()
	}
	assert.Equal(t, 10, s.Grid().StackHeight())
	assert.Equal(t, 20, s.Grid().Count())
}

func TestHarddropSpawnsNextPiece(t *testing.T) {
	s := New(3)
	next := s.Preview(2)
	s.Harddrop()
	assert.Equal(t, next[0], s.Piece())
	assertPosition(t, &s, (core.Width-piece.Get(next[0]).BoxWidth())/2, SpawnRow, piece.North)
	assert.Equal(t, next[1:], s.Preview(1))
}

func TestHarddropPanicsFromInvalidPosition(t *testing.T) {
	s := New(0)
	s.SetPosition(-5, 0, piece.North)
	assert.Panics(t, func() { s.Harddrop() })
}

func TestMoveToWalls(t *testing.T) {
	for _, k := range piece.Kinds {
		t.Run(k.String(), func(t *testing.T) {
			s := New(0)
			s.SetPiece(k)
			s.ResetPosition()
			minX, maxX, _, _ := piece.Get(k).Bounds(piece.North)

			require.True(t, s.MoveLeft())
			for s.MoveLeft() {
			}
			assert.Equal(t, 0, s.X()+minX, "left wall")
			assert.Equal(t, SpawnRow, s.Y(), "moves are horizontal")

			require.True(t, s.MoveRight())
			for s.MoveRight() {
			}
			assert.Equal(t, core.Width-1, s.X()+maxX, "right wall")
			assert.False(t, s.MoveRight(), "blocked move reports false")
		})
	}
}

func TestRotationCycleInOpenAir(t *testing.T) {
	for _, k := range piece.Kinds {
		s := New(0)
		s.SetPiece(k)
		s.ResetPosition()
		x, y := s.X(), s.Y()

		for i := 1; i <= 4; i++ {
			require.True(t, s.RotateCW(), "%s CW %d", k, i)
			assertPosition(t, &s, x, y, i%piece.NumOrientations)
		}
		for i := 1; i <= 4; i++ {
			require.True(t, s.RotateCCW(), "%s CCW %d", k, i)
			assertPosition(t, &s, x, y, (piece.NumOrientations-i)%piece.NumOrientations)
		}
		require.True(t, s.Rotate180())
		assertPosition(t, &s, x, y, piece.South)
		require.True(t, s.Rotate180())
		assertPosition(t, &s, x, y, piece.North)
	}
}

func TestRejectedMoveLeavesStateUnchanged(t *testing.T) {
	s := New(0)
	s.SetPiece(piece.O)
	s.SetPosition(0, 0, piece.North)
	before := s

	assert.False(t, s.MoveLeft())
	assert.False(t, s.Softdrop())
	assert.Equal(t, before, s)
}

func TestTSpinTripleClockwise(t *testing.T) {
	s := withBoard(t, tstCW, piece.T)

	s.Softdrop()
	assert.Equal(t, 2, s.Y())
	for s.MoveLeft() {
	}
	assert.Equal(t, 1, s.X())

	require.True(t, s.RotateCW())
	assertPosition(t, &s, 0, 0, piece.East)

	assert.Equal(t, 3, s.Harddrop())
	assert.True(t, s.Spin())
	assert.Equal(t, 6, s.Attack())
	assert.Equal(t, 1, s.B2B())
	assert.Equal(t, 1, s.Combo())
	assert.Equal(t, 3, s.Lines())
	assert.Equal(t, core.MustParse("##........\n#........."), s.Grid())

	// Follow-up J kicks up into the cleared well and is not a spin.
	require.Equal(t, piece.J, s.Piece())
	s.Softdrop()
	assert.Equal(t, -1, s.Y())
	require.True(t, s.RotateCW())
	assertPosition(t, &s, 2, 0, piece.East)
	assert.Equal(t, 0, s.Harddrop())
	assert.False(t, s.Spin())
	assert.Equal(t, 6, s.Attack())
	assert.Equal(t, 0, s.B2B())
	assert.Equal(t, 0, s.Combo())
}

func TestTSpinCounterClockwise(t *testing.T) {
	s := withBoard(t, tstCCW, piece.T)

	s.Softdrop()
	assert.Equal(t, 2, s.Y())
	for i := 0; i < 4; i++ {
		s.MoveRight()
	}
	assert.Equal(t, 6, s.X())

	require.True(t, s.RotateCCW())
	assertPosition(t, &s, 7, 0, piece.West)

	assert.Equal(t, 0, s.Harddrop())
	assert.True(t, s.Spin())
	assert.Equal(t, 0, s.Attack())
	assert.Equal(t, 1, s.B2B())
}

func TestSKickIsSpin(t *testing.T) {
	s := withBoard(t, sKick, piece.S)

	require.True(t, s.RotateCW())
	require.True(t, s.MoveLeft())
	assert.Equal(t, 2, s.X())
	s.Softdrop()
	assert.Equal(t, 1, s.Y())

	require.True(t, s.RotateCW())
	assertPosition(t, &s, 3, 0, piece.South)

	assert.Equal(t, 0, s.Harddrop())
	assert.True(t, s.Spin())
}

func TestClearLinesCompacts(t *testing.T) {
	s := New(0)
	require.NoError(t, s.LoadBoard("##########\n#.........\n##########"))

	assert.Equal(t, 2, s.ClearLines())
	g := s.Grid()
	assert.True(t, g.Has(0, 0))
	assert.Equal(t, 1, g.Count())
	assert.Equal(t, 1, s.Attack(), "non-spin double sends one")
	assert.Equal(t, 1, s.Combo())
}

func TestScoring(t *testing.T) {
	tests := []struct {
		name  string
		spin  bool
		lines int
		b2b   int
		combo int

		attack, wantB2B, wantCombo int
	}{
		{"nothing", false, 0, 3, 4, 0, 0, 0},
		{"single", false, 1, 0, 0, 0, 0, 1},
		{"double", false, 2, 0, 0, 1, 0, 1},
		{"triple", false, 3, 0, 0, 2, 0, 1},
		{"tetris", false, 4, 0, 0, 4, 1, 1},
		{"back-to-back tetris", false, 4, 1, 0, 5, 2, 1},
		{"single breaks b2b", false, 1, 2, 0, 0, 0, 1},
		{"spin without lines keeps b2b", true, 0, 1, 2, 1, 2, 0},
		{"spin single", true, 1, 0, 0, 2, 1, 1},
		{"spin double", true, 2, 0, 0, 4, 1, 1},
		{"spin triple b2b", true, 3, 1, 0, 7, 2, 1},
		{"combo bonus", false, 1, 0, 2, 1, 0, 3},
		{"long combo", false, 2, 0, 5, 3, 0, 6},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New(0)
			s.spin, s.b2b, s.combo = tc.spin, tc.b2b, tc.combo
			s.score(tc.lines)
			assert.Equal(t, tc.attack, s.Attack(), "attack")
			assert.Equal(t, tc.wantB2B, s.B2B(), "b2b")
			assert.Equal(t, tc.wantCombo, s.Combo(), "combo")
		})
	}
}

func TestSetQueue(t *testing.T) {
	s := New(0)
	s.SetQueue(piece.T, piece.S, piece.Z)
	assert.Equal(t, piece.T, s.Piece())
	assertPosition(t, &s, 3, SpawnRow, piece.North)
	assert.Equal(t, []piece.Kind{piece.S, piece.Z}, s.Preview(2))

	assert.Panics(t, func() { s.SetQueue() })
	assert.Panics(t, func() { s.SetQueue(make([]piece.Kind, 8)...) })
}

func TestLoadBoardRejectsOversize(t *testing.T) {
	s := New(0)
	assert.Error(t, s.LoadBoard("###########"))
}

func TestCloneIsIndependent(t *testing.T) {
	s := New(11)
	c := s.Clone()

	c.Harddrop()
	c.Harddrop()

	assert.True(t, s.Grid().IsZero())
	assert.Equal(t, 0, s.Pieces())
	assert.NotEqual(t, s.Preview(5), c.Preview(5))

	s.Harddrop()
	s.Harddrop()
	assert.Equal(t, c, s, "same moves from the same state converge")
}

func TestToppedOut(t *testing.T) {
	s := New(0)
	g := s.Grid()
	g.SetRow(SpawnRow+1, 1<<core.Width-1)
	g.SetRow(SpawnRow+2, 1<<core.Width-1)
	s.SetGrid(g)

	assert.True(t, s.ToppedOut())
	assert.Empty(t, s.Placements())
}

func TestString(t *testing.T) {
	s := withBoard(t, "#.........", piece.T)
	assert.Equal(t, "curr: T\n#.........\n", s.String())
}
