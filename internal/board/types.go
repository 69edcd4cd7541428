// internal/board/types.go
//
// Core type definitions for the letter-tile board.
// Defines:
//   - Letter: a single tile letter (JSON/text encoded as a one-char string).
//   - Tile:   one cell carrying a letter and its multiplier flags.
//   - Pos:    one visited cell of a traced path.
//   - Swap:   a hypothetical letter substitution on one cell.

package board

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

// Size is the fixed edge length of a game board.
const Size = 5

// Letter is a tile letter. Letters are compared case-insensitively.
type Letter rune

// Upper returns the upper-case form of l.
func (l Letter) Upper() Letter { return Letter(unicode.ToUpper(rune(l))) }

func (l Letter) String() string {
	if l == 0 {
		return ""
	}
	return string(rune(l))
}

// MarshalText encodes the letter as a one-character string.
func (l Letter) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText accepts exactly one character.
func (l *Letter) UnmarshalText(b []byte) error {
	r, n := utf8.DecodeRune(b)
	if r == utf8.RuneError || n != len(b) {
		return errors.New("board: letter must be a single character")
	}
	*l = Letter(r)
	return nil
}

// Tile is one cell of the board.
type Tile struct {
	Letter       Letter `json:"letter"`
	Row          int    `json:"row"`
	Col          int    `json:"col"`
	DoubleLetter bool   `json:"doubleLetter,omitempty"`
	TripleLetter bool   `json:"tripleLetter,omitempty"`
	DoubleWord   bool   `json:"doubleWord,omitempty"`
}

// Points is the tile value: base letter points times its own letter
// multipliers. DL and TL compound when both are set.
func (t Tile) Points() int {
	p := LetterPoints(t.Letter)
	if t.DoubleLetter {
		p *= 2
	}
	if t.TripleLetter {
		p *= 3
	}
	return p
}

// Pos identifies a cell; a path is a sequence of Pos in traversal order.
type Pos struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Swap replaces the letter of one cell for the duration of one evaluation.
type Swap struct {
	Row int    `json:"row"`
	Col int    `json:"col"`
	Old Letter `json:"oldLetter"`
	New Letter `json:"newLetter"`
}

// Pos returns the cell the swap applies to.
func (s Swap) Pos() Pos { return Pos{Row: s.Row, Col: s.Col} }
