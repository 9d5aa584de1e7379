// Package piece holds tetromino geometry: orientation masks loaded from ASCII
// diagrams and the collision and placement checks against a core.Grid.
package piece

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tetrabot/internal/core"
)

// Orientations, clockwise from spawn.
const (
	North = iota
	East
	South
	West
	NumOrientations
)

// maxBox is the largest diagram side accepted by Load.
const maxBox = 4

type bounds struct {
	minX, maxX int
	minY, maxY int
}

// Piece is the immutable geometry of one piece kind.
// Masks are stored at offset (0,0); a position (dx, dy) is the offset of
// the diagram's bottom-left corner on the board.
type Piece struct {
	name     string
	masks    [NumOrientations]core.Grid
	bounds   [NumOrientations]bounds
	boxWidth int
	width    int
	height   int
	yOffset  int
}

// Load builds a piece from one ASCII diagram per orientation (N, E, S, W).
// Rows are newline separated and listed top first; '#' marks a filled cell.
// Bounds are derived from filled cells only, not from the diagram rectangle.
func Load(name string, nesw [NumOrientations]string) (*Piece, error) {
	p := &Piece{name: name, yOffset: maxBox}

	for d, diagram := range nesw {
		lines := strings.Split(strings.TrimRight(diagram, "\n"), "\n")
		if len(lines) > maxBox {
			return nil, fmt.Errorf("piece: %s orientation %d has %d rows, max %d", name, d, len(lines), maxBox)
		}

		b := bounds{minX: maxBox, maxX: -1, minY: maxBox, maxY: -1}
		for k, line := range lines {
			if len(line) > maxBox {
				return nil, fmt.Errorf("piece: %s orientation %d row %d is %d wide, max %d", name, d, k, len(line), maxBox)
			}
			if d == North {
				p.boxWidth = max(p.boxWidth, len(line))
			}
			// Flip vertically so that increasing row index is increasing board row.
			y := len(lines) - 1 - k
			for x, c := range []byte(line) {
				if c != '#' {
					continue
				}
				p.masks[d].Set(x, y)
				b.minX, b.maxX = min(b.minX, x), max(b.maxX, x)
				b.minY, b.maxY = min(b.minY, y), max(b.maxY, y)
			}
		}
		if b.maxX < 0 {
			return nil, fmt.Errorf("piece: %s orientation %d has no filled cells", name, d)
		}

		p.bounds[d] = b
		p.width = max(p.width, b.maxX)
		p.height = max(p.height, b.maxY)
		p.yOffset = min(p.yOffset, b.minY)
	}

	return p, nil
}

// Name returns the piece letter.
func (p *Piece) Name() string { return p.name }

// BoxWidth returns the column count of the spawn diagram.
func (p *Piece) BoxWidth() int { return p.boxWidth }

// Width returns the highest occupied column over all orientations.
func (p *Piece) Width() int { return p.width }

// Height returns the highest occupied row over all orientations.
func (p *Piece) Height() int { return p.height }

// YOffset returns the lowest occupied row over all orientations.
func (p *Piece) YOffset() int { return p.yOffset }

// Bounds returns the occupied column and row range of orientation d,
// relative to the diagram origin.
func (p *Piece) Bounds(d int) (minX, maxX, minY, maxY int) {
	b := p.bounds[d]
	return b.minX, b.maxX, b.minY, b.maxY
}

// Mask returns orientation d positioned at (dx, dy). The second result is
// false when any cell would lie off the board.
func (p *Piece) Mask(dx, dy, d int) (core.Grid, bool) {
	b := p.bounds[d]
	if dx+b.minX < 0 || dy+b.minY < 0 || dx+b.maxX >= core.Width || dy+b.maxY >= core.Height {
		return core.Grid{}, false
	}
	// The bounds test rules out horizontal wrap; the shift itself still has
	// to be lossless for the vertical edges.
	return p.masks[d].Shift(dx + core.Width*dy)
}

// Intersects reports whether orientation d cannot be put at (dx, dy): either
// it overlaps a filled cell of g or part of it lies off the board.
func (p *Piece) Intersects(g core.Grid, dx, dy, d int) bool {
	mask, ok := p.Mask(dx, dy, d)
	if !ok {
		return true
	}
	return mask.Intersects(g)
}

// Place ORs the positioned mask into g.
// Panics if the position was not validated with Intersects first.
func (p *Piece) Place(g *core.Grid, dx, dy, d int) {
	if p.Intersects(*g, dx, dy, d) {
		panic(fmt.Sprintf("piece: invalid placement of %s at (%d,%d,%d)", p.name, dx, dy, d))
	}
	mask, _ := p.Mask(dx, dy, d)
	*g = g.Or(mask)
}

// Remove clears a previously placed mask from g, the exact inverse of Place.
// Panics unless every cell of the positioned mask is filled.
func (p *Piece) Remove(g *core.Grid, dx, dy, d int) {
	mask, ok := p.Mask(dx, dy, d)
	if !ok || !mask.AndNot(*g).IsZero() {
		panic(fmt.Sprintf("piece: no %s placed at (%d,%d,%d)", p.name, dx, dy, d))
	}
	*g = g.Xor(mask)
}
