// internal/words/words.go
//
// Dictionary loading for the solver.
//
// Responsibilities:
//   - Load the candidate word list from a file (WORDS_FILE) or fall back to
//     the embedded default list in assets/words.txt.
//   - Normalise entries: trim, upper-case, drop blanks, '#' comments and
//     anything that is not purely A–Z.
//   - Keep dictionary order and drop repeated entries (first one wins).
//
// A Dictionary is read-only once built and safe for concurrent use.

package words

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/robalobadob/spellcast-solver/assets"
)

// ErrEmpty is returned when a word source yields no usable words.
var ErrEmpty = errors.New("words: dictionary is empty")

// Dictionary is an ordered, de-duplicated list of upper-case words.
type Dictionary struct {
	words []string
	set   map[string]struct{}
}

// New builds a dictionary from raw entries.
func New(raw []string) (*Dictionary, error) {
	d := &Dictionary{set: make(map[string]struct{}, len(raw))}
	for _, line := range raw {
		w, ok := normalize(line)
		if !ok {
			continue
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		d.set[w] = struct{}{}
		d.words = append(d.words, w)
	}
	if len(d.words) == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// Load reads the dictionary from path, or the embedded list when path is "".
func Load(path string) (*Dictionary, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Read builds a dictionary from one word per line.
func Read(r io.Reader) (*Dictionary, error) {
	var raw []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		raw = append(raw, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}
	return New(raw)
}

// Default returns the embedded dictionary.
func Default() (*Dictionary, error) {
	raw, err := assets.WordList()
	if err != nil {
		return nil, fmt.Errorf("embedded word list: %w", err)
	}
	return New(raw)
}

// normalize trims and upper-cases a line, rejecting comments and anything
// that is not purely A–Z.
func normalize(line string) (string, bool) {
	w := strings.ToUpper(strings.TrimSpace(line))
	if w == "" || strings.HasPrefix(w, "#") {
		return "", false
	}
	for i := 0; i < len(w); i++ {
		if w[i] < 'A' || w[i] > 'Z' {
			return "", false
		}
	}
	return w, true
}

// Words returns the words in dictionary order. Callers must not modify it.
func (d *Dictionary) Words() []string { return d.words }

// Contains reports whether w (any case) is in the dictionary.
func (d *Dictionary) Contains(w string) bool {
	_, ok := d.set[strings.ToUpper(w)]
	return ok
}

// Len is the number of words.
func (d *Dictionary) Len() int { return len(d.words) }
