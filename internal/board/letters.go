package board

import "strings"

// Alphabet is the full substitution alphabet used by swap searches.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// LetterPoints returns the base value of a letter in the game.
// Unknown characters are worth nothing.
func LetterPoints(l Letter) int {
	switch l.Upper() {
	case 'A', 'E', 'I', 'O':
		return 1
	case 'N', 'R', 'S', 'T':
		return 2
	case 'D', 'G', 'L':
		return 3
	case 'B', 'H', 'M', 'P', 'U', 'Y':
		return 4
	case 'C', 'F', 'V', 'W':
		return 5
	case 'K':
		return 6
	case 'J', 'X':
		return 7
	case 'Q', 'Z':
		return 8
	default:
		return 0
	}
}

// LetterSet is a set of upper-case letters A–Z stored as a bitmask.
// Characters outside A–Z are never members.
type LetterSet uint32

func bit(l Letter) (LetterSet, bool) {
	u := l.Upper()
	if u < 'A' || u > 'Z' {
		return 0, false
	}
	return 1 << uint(u-'A'), true
}

// Add returns s with l included. Non A–Z letters are ignored.
func (s LetterSet) Add(l Letter) LetterSet {
	if b, ok := bit(l); ok {
		return s | b
	}
	return s
}

// Has reports whether l (case-insensitive) is in the set.
func (s LetterSet) Has(l Letter) bool {
	b, ok := bit(l)
	return ok && s&b != 0
}

// Len is the number of letters in the set.
func (s LetterSet) Len() int {
	n := 0
	for x := s; x != 0; x &= x - 1 {
		n++
	}
	return n
}

// Letters lists the members in alphabetical order.
func (s LetterSet) Letters() []Letter {
	out := make([]Letter, 0, s.Len())
	for i := 0; i < 26; i++ {
		if s&(1<<uint(i)) != 0 {
			out = append(out, Letter('A'+i))
		}
	}
	return out
}

func (s LetterSet) String() string {
	var sb strings.Builder
	for _, l := range s.Letters() {
		sb.WriteRune(rune(l))
	}
	return sb.String()
}
