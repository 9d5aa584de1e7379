package piece

import "fmt"

// Kind identifies one of the seven tetrominoes. It indexes the catalog.
type Kind uint8

// Piece kinds, in the order of the opening bag.
const (
	I Kind = iota
	J
	L
	O
	S
	T
	Z
	NumKinds
)

// Kinds lists every kind in canonical order.
var Kinds = [NumKinds]Kind{I, J, L, O, S, T, Z}

const kindLetters = "IJLOSTZ"

// String returns the piece letter.
func (k Kind) String() string {
	if k >= NumKinds {
		return "?"
	}
	return kindLetters[k : k+1]
}

// Piece returns the catalog geometry for k.
func (k Kind) Piece() *Piece {
	return Get(k)
}

// ParseKind converts a piece letter into a Kind.
func ParseKind(s string) (Kind, error) {
	for i := range kindLetters {
		if len(s) == 1 && (s[0] == kindLetters[i] || s[0] == kindLetters[i]+'a'-'A') {
			return Kind(i), nil
		}
	}
	return 0, fmt.Errorf("piece: unknown kind %q", s)
}

// Get returns the shared geometry for k. Panics on an invalid kind.
func Get(k Kind) *Piece {
	if k >= NumKinds {
		panic(fmt.Sprintf("piece: invalid kind %d", k))
	}
	return catalog[k]
}

var catalog = [NumKinds]*Piece{
	I: mustLoad("I", [NumOrientations]string{
		"....\n" +
			"####\n" +
			"....\n" +
			"....",
		"..#.\n" +
			"..#.\n" +
			"..#.\n" +
			"..#.",
		"....\n" +
			"....\n" +
			"####\n" +
			"....",
		".#..\n" +
			".#..\n" +
			".#..\n" +
			".#..",
	}),
	J: mustLoad("J", [NumOrientations]string{
		"#..\n" +
			"###\n" +
			"...",
		".##\n" +
			".#.\n" +
			".#.",
		"...\n" +
			"###\n" +
			"..#",
		".#.\n" +
			".#.\n" +
			"##.",
	}),
	L: mustLoad("L", [NumOrientations]string{
		"..#\n" +
			"###\n" +
			"...",
		".#.\n" +
			".#.\n" +
			".##",
		"...\n" +
			"###\n" +
			"#..",
		"##.\n" +
			".#.\n" +
			".#.",
	}),
	O: mustLoad("O", [NumOrientations]string{
		"##\n##",
		"##\n##",
		"##\n##",
		"##\n##",
	}),
	S: mustLoad("S", [NumOrientations]string{
		".##\n" +
			"##.\n" +
			"...",
		".#.\n" +
			".##\n" +
			"..#",
		"...\n" +
			".##\n" +
			"##.",
		"#..\n" +
			"##.\n" +
			".#.",
	}),
	T: mustLoad("T", [NumOrientations]string{
		".#.\n" +
			"###\n" +
			"...",
		".#.\n" +
			".##\n" +
			".#.",
		"...\n" +
			"###\n" +
			".#.",
		".#.\n" +
			"##.\n" +
			".#.",
	}),
	Z: mustLoad("Z", [NumOrientations]string{
		"##.\n" +
			".##\n" +
			"...",
		"..#\n" +
			".##\n" +
			".#.",
		"...\n" +
			"##.\n" +
			".##",
		".#.\n" +
			"##.\n" +
			"#..",
	}),
}

func mustLoad(name string, nesw [NumOrientations]string) *Piece {
	p, err := Load(name, nesw)
	if err != nil {
		panic(err)
	}
	return p
}
