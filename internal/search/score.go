package search

import (
	"unicode/utf8"

	"github.com/robalobadob/spellcast-solver/internal/board"
)

const (
	bonusMinLength = 6
	lengthBonus    = 10
)

// Score sums the tile points along path and doubles the total once for every
// double-word tile on it.
func Score(g board.Grid, path []board.Pos) int {
	total, mult := 0, 1
	for _, p := range path {
		t := g.Tile(p.Row, p.Col)
		total += t.Points()
		if t.DoubleWord {
			mult *= 2
		}
	}
	return total * mult
}

// LengthBonus is the flat ranking bonus for long words. It is not part of
// the tile score.
func LengthBonus(word string) int {
	if utf8.RuneCountInString(word) >= bonusMinLength {
		return lengthBonus
	}
	return 0
}
