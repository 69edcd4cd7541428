package search

import (
	"sort"

	"github.com/robalobadob/spellcast-solver/internal/board"
)

// Result is one playable word.
type Result struct {
	Word string `json:"word"`
	// Score is the ranking score: TileScore plus the long-word bonus.
	Score     int          `json:"score"`
	TileScore int          `json:"tileScore"`
	Path      []board.Pos  `json:"path"`
	Swaps     []board.Swap `json:"swaps"`
}

// collector keeps the best result per word, remembering the order in which
// words were first seen. Equal scores keep the earlier result.
type collector struct {
	index map[string]int
	items []Result
}

func newCollector() *collector {
	return &collector{index: make(map[string]int)}
}

func (c *collector) add(r Result) {
	if i, ok := c.index[r.Word]; ok {
		if r.Score > c.items[i].Score {
			c.items[i] = r
		}
		return
	}
	c.index[r.Word] = len(c.items)
	c.items = append(c.items, r)
}

// Rank deduplicates results by word (keeping the highest score, first one on
// ties), sorts them by descending score and keeps the top n. Results with
// equal scores stay in first-seen order.
func Rank(results []Result, n int) []Result {
	c := newCollector()
	for _, r := range results {
		c.add(r)
	}
	return c.top(n)
}

func (c *collector) top(n int) []Result {
	out := c.items
	if out == nil {
		out = []Result{}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
