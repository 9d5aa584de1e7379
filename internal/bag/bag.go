// Package bag implements the deterministic 7-bag piece randomizer.
//
// The queue holds two generations of seven pieces in a 14-slot ring. The
// first generation is the fixed opening order I J L O S T Z; every later
// generation is a Fisher-Yates shuffle of that order, driven by Mix iterated
// over a 64-bit state. Two queues built from the same seed produce
// the same infinite sequence.
package bag

import (
	"fmt"

	"github.com/vovakirdan/tetrabot/internal/piece"
)

const (
	// Size is the number of kinds per generation.
	Size     = int(piece.NumKinds)
	ringSize = 2 * Size
)

// Queue is a value type; copying a Queue forks the sequence.
type Queue struct {
	slots  [ringSize]piece.Kind
	cursor int
	curr   int // offset of the current generation, 0 or Size
	rng    uint64
}

// New returns a queue whose opening generation is the canonical order.
func New(seed uint64) Queue {
	q := Queue{rng: Mix(seed)}
	copy(q.slots[:Size], piece.Kinds[:])
	return q
}

// Pop returns the next piece and advances the cursor. Reaching the start of
// either generation generates the one after it.
func (q *Queue) Pop() piece.Kind {
	if q.cursor == ringSize {
		q.cursor = 0
	}
	if q.cursor == 0 || q.cursor == Size {
		q.refresh()
	}
	k := q.slots[q.cursor]
	q.cursor++
	return k
}

// Peek returns the next n pieces without consuming them.
func (q Queue) Peek(n int) []piece.Kind {
	out := make([]piece.Kind, n)
	for i := range out {
		out[i] = q.Pop()
	}
	return out
}

// Override replaces the upcoming pieces with kinds, starting at the cursor.
// The rest of that generation is filled with the kinds not given, in
// canonical order, and later generations are regular shuffled bags.
// Panics when more than one generation is given. Intended for fixtures.
func (q *Queue) Override(kinds []piece.Kind) {
	if len(kinds) > Size {
		panic(fmt.Sprintf("bag: cannot override %d pieces, max %d", len(kinds), Size))
	}
	q.cursor = 0
	q.curr = 0

	var given [piece.NumKinds]bool
	n := copy(q.slots[:Size], kinds)
	for _, k := range kinds {
		given[k] = true
	}
	for _, k := range piece.Kinds {
		if n == Size {
			break
		}
		if !given[k] {
			q.slots[n] = k
			n++
		}
	}
}

// refresh shuffles the canonical order into the other half of the ring and
// makes it current.
func (q *Queue) refresh() {
	next := Size - q.curr
	gen := q.slots[next : next+Size]
	copy(gen, piece.Kinds[:])

	for i := Size - 1; i >= 1; i-- {
		j := int(q.rng % uint64(i+1))
		gen[i], gen[j] = gen[j], gen[i]
		q.rng = Mix(q.rng)
	}
	q.curr = next
}

// Mix is the splitmix64 step: a golden-ratio increment followed by the
// splitmix finalizer. It is a bijection on uint64 with no fixed point at 0.
// Not suitable for cryptographic use.
func Mix(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
