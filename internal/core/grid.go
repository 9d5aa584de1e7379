// Package core provides the packed board grid shared by the engine packages.
// It contains no external dependencies to keep the bit manipulation pure and
// testable.
package core

import (
	"fmt"
	"math/bits"
	"strings"
)

// Board dimensions. Rows at and above VisibleHeight are the hidden spawn area.
const (
	Width         = 10
	VisibleHeight = 20
	Height        = 25
	Cells         = Width * Height
)

const (
	gridWords = (Cells + 63) / 64
	topMask   = uint64(1)<<(Cells-64*(gridWords-1)) - 1
	rowMask   = uint64(1)<<Width - 1
)

// Grid is a fixed-size packed cell bitmap. Bit i*Width+j holds column j of
// row i, with row 0 at the bottom. Bits past Cells are always zero.
// Grid is a value type: assignment copies it, and it can be used as a map key.
type Grid [gridWords]uint64

// Clear resets all cells.
func (g *Grid) Clear() {
	*g = Grid{}
}

// Has reports whether the cell at column x, row y is filled.
// Out of range cells are reported empty.
func (g Grid) Has(x, y int) bool {
	if !inRange(x, y) {
		return false
	}
	i := y*Width + x
	return g[i/64]>>(i%64)&1 != 0
}

// Set fills the cell at column x, row y. Out of range cells are ignored.
func (g *Grid) Set(x, y int) {
	if !inRange(x, y) {
		return
	}
	i := y*Width + x
	g[i/64] |= 1 << (i % 64)
}

// Unset empties the cell at column x, row y. Out of range cells are ignored.
func (g *Grid) Unset(x, y int) {
	if !inRange(x, y) {
		return
	}
	i := y*Width + x
	g[i/64] &^= 1 << (i % 64)
}

func inRange(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

// IsZero reports whether no cell is filled.
func (g Grid) IsZero() bool {
	return g == Grid{}
}

// Count returns the number of filled cells.
func (g Grid) Count() int {
	n := 0
	for _, w := range g {
		n += bits.OnesCount64(w)
	}
	return n
}

// And returns the cells filled in both grids.
func (g Grid) And(o Grid) Grid {
	for i := range g {
		g[i] &= o[i]
	}
	return g
}

// Or returns the cells filled in either grid.
func (g Grid) Or(o Grid) Grid {
	for i := range g {
		g[i] |= o[i]
	}
	return g
}

// Xor returns the cells filled in exactly one of the grids.
func (g Grid) Xor(o Grid) Grid {
	for i := range g {
		g[i] ^= o[i]
	}
	return g
}

// AndNot returns the cells of g that are not filled in o.
func (g Grid) AndNot(o Grid) Grid {
	for i := range g {
		g[i] &^= o[i]
	}
	return g
}

// Intersects reports whether the two grids share any filled cell.
func (g Grid) Intersects(o Grid) bool {
	for i := range g {
		if g[i]&o[i] != 0 {
			return true
		}
	}
	return false
}

// Shift moves every bit n positions toward higher indexes (n > 0) or lower
// indexes (n < 0). A shift of Width moves the contents up one row.
// The second result is false when any filled cell fell off either end of
// the field, i.e. when shifting back would not restore g.
func (g Grid) Shift(n int) (Grid, bool) {
	if n == 0 {
		return g, true
	}
	if n >= Cells || n <= -Cells {
		return Grid{}, g.IsZero()
	}

	var out Grid
	if n > 0 {
		ws, bs := n/64, uint(n%64)
		for i := gridWords - 1; i >= ws; i-- {
			v := g[i-ws] << bs
			if bs > 0 && i-ws-1 >= 0 {
				v |= g[i-ws-1] >> (64 - bs)
			}
			out[i] = v
		}
	} else {
		n = -n
		ws, bs := n/64, uint(n%64)
		for i := 0; i+ws < gridWords; i++ {
			v := g[i+ws] >> bs
			if bs > 0 && i+ws+1 < gridWords {
				v |= g[i+ws+1] << (64 - bs)
			}
			out[i] = v
		}
	}
	out[gridWords-1] &= topMask

	return out, out.Count() == g.Count()
}

// Row returns the cells of row y as a bitmask, bit j being column j.
func (g Grid) Row(y int) uint16 {
	if y < 0 || y >= Height {
		return 0
	}
	start := y * Width
	w, off := start/64, uint(start%64)
	v := g[w] >> off
	if off+Width > 64 {
		v |= g[w+1] << (64 - off)
	}
	return uint16(v & rowMask)
}

// SetRow replaces the cells of row y with the given bitmask.
func (g *Grid) SetRow(y int, row uint16) {
	if y < 0 || y >= Height {
		return
	}
	start := y * Width
	w, off := start/64, uint(start%64)
	b := uint64(row) & rowMask
	g[w] &^= rowMask << off
	g[w] |= b << off
	if off+Width > 64 {
		g[w+1] &^= rowMask >> (64 - off)
		g[w+1] |= b >> (64 - off)
	}
}

// RowFull reports whether every cell of row y is filled.
func (g Grid) RowFull(y int) bool {
	return uint64(g.Row(y)) == rowMask
}

// ColumnHeight returns one more than the highest filled row of column x,
// or 0 for an empty column.
func (g Grid) ColumnHeight(x int) int {
	for y := Height - 1; y >= 0; y-- {
		if g.Has(x, y) {
			return y + 1
		}
	}
	return 0
}

// StackHeight returns one more than the highest non-empty row.
func (g Grid) StackHeight() int {
	for y := Height - 1; y >= 0; y-- {
		if g.Row(y) != 0 {
			return y + 1
		}
	}
	return 0
}

// Parse reads the board fixture format: one line per row, top row first,
// '#' for a filled cell and any other character for an empty one.
// The last line is row 0.
func Parse(text string) (Grid, error) {
	var g Grid
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > Height {
		return g, fmt.Errorf("core: board has %d rows, max %d", len(lines), Height)
	}
	for k, line := range lines {
		line = strings.TrimRight(line, "\r")
		if len(line) > Width {
			return g, fmt.Errorf("core: row %d has %d columns, max %d", k, len(line), Width)
		}
		y := len(lines) - 1 - k
		for x, c := range []byte(line) {
			if c == '#' {
				g.Set(x, y)
			}
		}
	}
	return g, nil
}

// MustParse is like Parse but panics on malformed input.
// Intended for fixtures.
func MustParse(text string) Grid {
	g, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return g
}

// String renders the occupied rows in the fixture format accepted by Parse.
func (g Grid) String() string {
	var sb strings.Builder
	top := max(g.StackHeight(), 1)
	for y := top - 1; y >= 0; y-- {
		for x := 0; x < Width; x++ {
			if g.Has(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
