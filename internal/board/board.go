// internal/board/board.go
//
// The 5×5 board and its read-only views.
// Responsibilities:
//   - Construct and validate boards (exact 5×5 shape, coordinates match cells).
//   - Expose the Grid view used by path finding and scoring.
//   - Build Variants: the base board plus an overlay of hypothetical swaps.
//     Variants never write to the base board, so any number of them can be
//     evaluated concurrently against one Board.

package board

import "fmt"

// Grid is a read-only 5×5 view of tiles.
type Grid interface {
	Tile(row, col int) Tile
}

// Board is a grid of tiles addressed by Tiles[row][col].
type Board struct {
	Tiles [][]Tile `json:"tiles"`
}

// New builds a board from rows of tiles. Tile coordinates are overwritten
// with their position in rows and letters are upper-cased.
func New(rows [][]Tile) (*Board, error) {
	b := &Board{Tiles: make([][]Tile, len(rows))}
	for r, row := range rows {
		b.Tiles[r] = make([]Tile, len(row))
		for c, t := range row {
			t.Row, t.Col = r, c
			t.Letter = t.Letter.Upper()
			b.Tiles[r][c] = t
		}
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// FromLetters builds a plain board (no multipliers) from five 5-letter rows.
func FromLetters(rows ...string) (*Board, error) {
	tiles := make([][]Tile, len(rows))
	for r, row := range rows {
		for _, ch := range row {
			tiles[r] = append(tiles[r], Tile{Letter: Letter(ch).Upper()})
		}
	}
	return New(tiles)
}

// Validate checks the 5×5 shape, that every tile knows its own position
// and carries a letter A–Z.
func (b *Board) Validate() error {
	if b == nil {
		return ErrNilBoard
	}
	if len(b.Tiles) != Size {
		return fmt.Errorf("%w: got %d rows", ErrNotSquare, len(b.Tiles))
	}
	for r, row := range b.Tiles {
		if len(row) != Size {
			return fmt.Errorf("%w: row %d has %d cells", ErrNotSquare, r, len(row))
		}
		for c, t := range row {
			if t.Row != r || t.Col != c {
				return fmt.Errorf("%w: tile at (%d,%d) claims (%d,%d)", ErrBadCoords, r, c, t.Row, t.Col)
			}
			if t.Letter == 0 {
				return fmt.Errorf("%w: (%d,%d)", ErrMissingLetter, r, c)
			}
			if u := t.Letter.Upper(); u < 'A' || u > 'Z' {
				return fmt.Errorf("%w: %q at (%d,%d)", ErrBadLetter, rune(t.Letter), r, c)
			}
		}
	}
	return nil
}

// Tile returns the tile at (row, col).
func (b *Board) Tile(row, col int) Tile { return b.Tiles[row][col] }

// AvailableLetters is the set of distinct upper-case letters on the board.
func (b *Board) AvailableLetters() LetterSet {
	var s LetterSet
	for _, row := range b.Tiles {
		for _, t := range row {
			s = s.Add(t.Letter)
		}
	}
	return s
}

// Letters snapshots the board letters, row by row.
func (b *Board) Letters() [Size][Size]Letter {
	var out [Size][Size]Letter
	for r := 0; r < Size && r < len(b.Tiles); r++ {
		for c := 0; c < Size && c < len(b.Tiles[r]); c++ {
			out[r][c] = b.Tiles[r][c].Letter
		}
	}
	return out
}

// Variant returns the board as it would look with swaps applied.
func (b *Board) Variant(swaps ...Swap) Variant {
	return Variant{base: b, swaps: swaps}
}

// Variant is a Board with up to a few cells showing substituted letters.
// The base board is never modified.
type Variant struct {
	base  *Board
	swaps []Swap
}

// Tile returns the base tile with any overlay letter applied.
func (v Variant) Tile(row, col int) Tile {
	t := v.base.Tiles[row][col]
	for _, s := range v.swaps {
		if s.Row == row && s.Col == col {
			t.Letter = s.New
		}
	}
	return t
}

// Swaps returns the overlay applied by this variant.
func (v Variant) Swaps() []Swap { return v.swaps }
