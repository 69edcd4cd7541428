// internal/board/codec.go
//
// Plain-text board format used by the HTTP API and tests.
//
// One row per line, five rows. Cells are separated by spaces or commas.
// A cell is a single letter optionally followed by multiplier markers:
//
//	C:DL A T:2X S E
//
// Markers (case-insensitive): DL double letter, TL triple letter,
// 2X (or DW) double word. Blank lines and lines starting with '#' are ignored.

package board

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse reads a board from its text form.
func Parse(text string) (*Board, error) {
	var rows [][]Tile
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cells := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
		row := make([]Tile, 0, len(cells))
		for _, cell := range cells {
			t, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", len(rows), err)
			}
			row = append(row, t)
		}
		rows = append(rows, row)
	}
	return New(rows)
}

func parseCell(s string) (Tile, error) {
	parts := strings.Split(s, ":")
	r, n := utf8.DecodeRuneInString(parts[0])
	if u := unicode.ToUpper(r); n == 0 || n != len(parts[0]) || u < 'A' || u > 'Z' {
		return Tile{}, fmt.Errorf("%w: %q", ErrBadToken, s)
	}
	t := Tile{Letter: Letter(r).Upper()}
	for _, m := range parts[1:] {
		switch strings.ToUpper(m) {
		case "DL":
			t.DoubleLetter = true
		case "TL":
			t.TripleLetter = true
		case "2X", "DW":
			t.DoubleWord = true
		default:
			return Tile{}, fmt.Errorf("%w: unknown marker %q in %q", ErrBadToken, m, s)
		}
	}
	return t, nil
}

// String renders the board in the same text form Parse accepts.
func (b *Board) String() string {
	var sb strings.Builder
	for r, row := range b.Tiles {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c, t := range row {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(t.Token())
		}
	}
	return sb.String()
}

// Token renders a single cell, e.g. "A:2X:DL".
func (t Tile) Token() string {
	s := t.Letter.String()
	if t.DoubleWord {
		s += ":2X"
	}
	if t.DoubleLetter {
		s += ":DL"
	}
	if t.TripleLetter {
		s += ":TL"
	}
	return s
}
