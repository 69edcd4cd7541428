package search

import (
	"iter"
	"slices"
	"unicode"

	"github.com/robalobadob/spellcast-solver/internal/board"
)

// Filter lazily yields the words that could plausibly be played given the
// letters available on the board. It is a coarse pre-filter: it may keep
// words the path finder later rejects, never the other way round.
//
// Simple keeps a word when each of its letters appears on the board at least
// once; letter counts are left to the path finder. Advanced keeps a word when
// at most one distinct letter of it is missing from the board.
func Filter(words []string, available board.LetterSet, mode FilterMode) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, w := range words {
			if !keep(w, available, mode) {
				continue
			}
			if !yield(w) {
				return
			}
		}
	}
}

func keep(word string, available board.LetterSet, mode FilterMode) bool {
	if mode == FilterSimple {
		for _, r := range word {
			if !available.Has(board.Letter(r)) {
				return false
			}
		}
		return true
	}

	var missing board.LetterSet
	var others []rune // missing characters outside A–Z
	for _, r := range word {
		l := board.Letter(r)
		if available.Has(l) {
			continue
		}
		if u := l.Upper(); u >= 'A' && u <= 'Z' {
			missing = missing.Add(u)
		} else if !slices.Contains(others, unicode.ToUpper(r)) {
			others = append(others, unicode.ToUpper(r))
		}
		if missing.Len()+len(others) > 1 {
			return false
		}
	}
	return true
}

