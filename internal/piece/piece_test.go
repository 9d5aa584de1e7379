package piece

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tetrabot/internal/core"
)

func TestLoadDerivesBoundsFromFilledCells(t *testing.T) {
	tests := []struct {
		kind          Kind
		boxWidth      int
		width, height int
		yOffset       int
	}{
		{I, 4, 3, 3, 0},
		{O, 2, 1, 1, 0},
		{T, 3, 2, 2, 0},
		{S, 3, 2, 2, 0},
	}

	for _, tc := range tests {
		t.Run(tc.kind.String(), func(t *testing.T) {
			p := Get(tc.kind)
			assert.Equal(t, tc.kind.String(), p.Name())
			assert.Equal(t, tc.boxWidth, p.BoxWidth())
			assert.Equal(t, tc.width, p.Width())
			assert.Equal(t, tc.height, p.Height())
			assert.Equal(t, tc.yOffset, p.YOffset())
		})
	}

	// Spawn-facing T sits one row above the diagram floor.
	minX, maxX, minY, maxY := Get(T).Bounds(North)
	assert.Equal(t, [4]int{0, 2, 1, 2}, [4]int{minX, maxX, minY, maxY})
}

func TestLoadIgnoresPadding(t *testing.T) {
	p, err := Load("X", [NumOrientations]string{"....\n.##.\n....", "#", "#", "#"})
	require.NoError(t, err)

	minX, maxX, minY, maxY := p.Bounds(North)
	assert.Equal(t, 1, minX)
	assert.Equal(t, 2, maxX)
	assert.Equal(t, 1, minY)
	assert.Equal(t, 1, maxY)
	assert.Equal(t, 4, p.BoxWidth())
}

func TestLoadRejectsMalformedDiagrams(t *testing.T) {
	_, err := Load("X", [NumOrientations]string{"...", "#", "#", "#"})
	assert.Error(t, err, "orientation without filled cells")

	_, err = Load("X", [NumOrientations]string{"#####", "#", "#", "#"})
	assert.Error(t, err, "diagram wider than four columns")

	_, err = Load("X", [NumOrientations]string{"#\n#\n#\n#\n#", "#", "#", "#"})
	assert.Error(t, err, "diagram taller than four rows")
}

func TestIntersectsAcceptsEveryLegalPositionOnEmptyBoard(t *testing.T) {
	var g core.Grid
	for _, k := range Kinds {
		p := Get(k)
		for d := 0; d < NumOrientations; d++ {
			minX, maxX, minY, maxY := p.Bounds(d)
			for dx := -minX; dx+maxX < core.Width; dx++ {
				for dy := -minY; dy+maxY < core.Height; dy++ {
					if p.Intersects(g, dx, dy, d) {
						t.Fatalf("%s at (%d,%d,%d) rejected on an empty board", k, dx, dy, d)
					}
				}
			}
		}
	}
}

func TestIntersectsRejectsOffBoard(t *testing.T) {
	var g core.Grid
	for _, k := range Kinds {
		p := Get(k)
		for d := 0; d < NumOrientations; d++ {
			minX, maxX, minY, maxY := p.Bounds(d)
			name := fmt.Sprintf("%s/%d", k, d)
			assert.True(t, p.Intersects(g, -minX-1, 0, d), "%s left overflow", name)
			assert.True(t, p.Intersects(g, core.Width-maxX, 0, d), "%s right overflow", name)
			assert.True(t, p.Intersects(g, 0, -minY-1, d), "%s bottom overflow", name)
			assert.True(t, p.Intersects(g, 0, core.Height-maxY, d), "%s top overflow", name)
		}
	}
}

func TestIntersectsDetectsOverlap(t *testing.T) {
	o := Get(O)
	for d := 0; d < NumOrientations; d++ {
		var g core.Grid
		assert.False(t, o.Intersects(g, 1, 0, d), "nothing is on the board")

		o.Place(&g, 0, 0, d)
		assert.True(t, o.Intersects(g, 0, 0, (d+1)%NumOrientations))
		assert.True(t, o.Intersects(g, 1, 1, (d+2)%NumOrientations))
		assert.True(t, o.Intersects(g, 1, 0, (d+3)%NumOrientations))
		assert.False(t, o.Intersects(g, 2, 0, d), "adjacent square does not overlap")
	}
}

func TestPlaceAndRemoveAreInverse(t *testing.T) {
	g := core.MustParse("#.........\n" + "###..#####")
	before := g

	for _, k := range Kinds {
		p := Get(k)
		for d := 0; d < NumOrientations; d++ {
			_, _, minY, _ := p.Bounds(d)
			dy := 4 - minY
			p.Place(&g, 3, dy, d)
			require.NotEqual(t, before, g, "%s/%d placement should change the board", k, d)
			assert.Equal(t, before.Count()+4, g.Count())

			p.Remove(&g, 3, dy, d)
			require.Equal(t, before, g, "%s/%d removal should restore the board", k, d)
		}
	}
}

func TestPlacePanicsOnInvalidPosition(t *testing.T) {
	var g core.Grid
	z := Get(Z)

	assert.Panics(t, func() { z.Place(&g, -1, 0, North) })
	assert.Panics(t, func() { z.Place(&g, core.Width, 0, North) })

	z.Place(&g, 0, 0, North)
	assert.Panics(t, func() { z.Place(&g, 0, 0, North) }, "overlapping placement")
	assert.Panics(t, func() { z.Remove(&g, 4, 4, North) }, "removing a piece that is not there")
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	got, err := ParseKind("t")
	require.NoError(t, err)
	assert.Equal(t, T, got)

	_, err = ParseKind("X")
	assert.Error(t, err)
	assert.Panics(t, func() { Get(NumKinds) })
}

func TestKindPieceIsCatalogEntry(t *testing.T) {
	for _, k := range Kinds {
		assert.Same(t, Get(k), k.Piece())
		assert.Equal(t, k.String(), k.Piece().Name())
	}
}
