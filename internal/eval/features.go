// Package eval provides board evaluators for the move search: a weighted sum
// of classic stacking features, registered under "features", and a pure
// attack evaluator registered under "attack".
package eval

import (
	"fmt"
	"math/bits"
	"sort"
	"strings"

	"github.com/vovakirdan/tetrabot/internal/core"
	"github.com/vovakirdan/tetrabot/internal/player"
	"github.com/vovakirdan/tetrabot/internal/registry"
	"github.com/vovakirdan/tetrabot/internal/search"
)

// Feature indexes a measured board property.
type Feature int

// Features, in weight order.
const (
	Height Feature = iota
	Holes
	Bumpiness
	RowTransitions
	ColTransitions
	Wells
	Attack
	NumFeatures
)

var featureNames = [NumFeatures]string{
	Height:         "height",
	Holes:          "holes",
	Bumpiness:      "bumpiness",
	RowTransitions: "row_transitions",
	ColTransitions: "col_transitions",
	Wells:          "wells",
	Attack:         "attack",
}

func (f Feature) String() string {
	if f < 0 || f >= NumFeatures {
		return fmt.Sprintf("Feature(%d)", int(f))
	}
	return featureNames[f]
}

// Vector holds one value per feature.
type Vector [NumFeatures]float64

// DefaultWeights penalize tall, holey, uneven stacks and reward attack.
var DefaultWeights = Vector{
	Height:         -0.5,
	Holes:          -4,
	Bumpiness:      -0.3,
	RowTransitions: -0.4,
	ColTransitions: -0.6,
	Wells:          -0.3,
	Attack:         2,
}

const (
	fullRow  = 1<<core.Width - 1
	edgeMask = 1<<(core.Width+1) - 1
)

// Measure computes every feature of s.
func Measure(s *player.State) Vector {
	var v Vector
	g := s.Grid()

	var heights [core.Width]int
	for x := range heights {
		heights[x] = g.ColumnHeight(x)
		v[Height] += float64(heights[x])
	}

	for x, h := range heights {
		for y := 0; y < h; y++ {
			if !g.Has(x, y) {
				v[Holes]++
			}
		}
		if x > 0 {
			v[Bumpiness] += float64(abs(h - heights[x-1]))
		}

		// Walls count as infinitely tall neighbours.
		left, right := core.Height, core.Height
		if x > 0 {
			left = heights[x-1]
		}
		if x < core.Width-1 {
			right = heights[x+1]
		}
		if depth := min(left, right) - h; depth > 0 {
			v[Wells] += float64(depth)
		}
	}

	top := g.StackHeight()
	below := uint16(fullRow) // the floor
	for y := 0; y < top; y++ {
		row := g.Row(y)

		// Surround the row with filled walls and count neighbouring pairs
		// that differ. Empty rows above the stack are not counted.
		walled := uint32(1) | uint32(row)<<1 | 1<<(core.Width+1)
		v[RowTransitions] += float64(bits.OnesCount32((walled ^ walled>>1) & edgeMask))

		v[ColTransitions] += float64(bits.OnesCount16(row ^ below))
		below = row
	}
	v[ColTransitions] += float64(bits.OnesCount16(below)) // against the empty row above

	v[Attack] = float64(s.Attack())
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Linear scores a state as the dot product of its features and a weight
// vector. It is safe for concurrent use.
type Linear struct {
	weights Vector
}

// NewLinear returns an evaluator starting from base and overriding the
// weights named in overrides. Unknown names are an error.
func NewLinear(base Vector, overrides map[string]float64) (*Linear, error) {
	w := base
	for name, value := range overrides {
		f, err := ParseFeature(name)
		if err != nil {
			return nil, err
		}
		w[f] = value
	}
	return &Linear{weights: w}, nil
}

// Weights returns the effective weight vector.
func (l *Linear) Weights() Vector {
	return l.weights
}

// Evaluate implements search.Evaluator.
func (l *Linear) Evaluate(s *player.State) float64 {
	v := Measure(s)
	score := 0.0
	for f := range v {
		if l.weights[f] != 0 {
			score += l.weights[f] * v[f]
		}
	}
	return score
}

// ParseFeature resolves a weight name such as "holes".
func ParseFeature(name string) (Feature, error) {
	for f, n := range featureNames {
		if n == name {
			return Feature(f), nil
		}
	}
	names := append([]string(nil), featureNames[:]...)
	sort.Strings(names)
	return 0, fmt.Errorf("eval: unknown feature %q (want one of %s)", name, strings.Join(names, ", "))
}

func linearFactory(base Vector) registry.Factory {
	return func(weights map[string]float64) (search.Evaluator, error) {
		l, err := NewLinear(base, weights)
		if err != nil {
			return nil, err
		}
		return l, nil
	}
}

func init() {
	registry.Register("features", "weighted stack features: height, holes, bumpiness, transitions, wells, attack",
		linearFactory(DefaultWeights))
	registry.Register("attack", "accumulated attack only", linearFactory(Vector{Attack: 1}))
}
