// internal/search/path.go
//
// Path finding: can a word be traced on the board, and for how much?
//
// For every start cell a depth-first trace is attempted. Neighbours are tried
// in a fixed order (up-left, up, up-right, left, right, down-left, down,
// down-right) and the trace stops at the first complete continuation, so each
// start cell contributes at most one path. That path is not necessarily the
// best one reachable from that cell. Across start cells the highest scoring
// path wins; an equal score never replaces an earlier path.

package search

import (
	"unicode"

	"github.com/robalobadob/spellcast-solver/internal/board"
)

var directions = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// FindBestPath reports whether word can be traced on g, the best tile score
// among the traced paths and that path.
func FindBestPath(g board.Grid, word string) (bool, int, []board.Pos) {
	letters := []rune(word)
	for i, r := range letters {
		letters[i] = unicode.ToUpper(r)
	}
	if len(letters) == 0 || len(letters) > board.Size*board.Size {
		return false, 0, nil
	}

	var (
		visited [board.Size][board.Size]bool
		path    = make([]board.Pos, 0, len(letters))
	)
	var dfs func(idx, r, c int) bool
	dfs = func(idx, r, c int) bool {
		if idx == len(letters) {
			return true
		}
		if r < 0 || r >= board.Size || c < 0 || c >= board.Size || visited[r][c] {
			return false
		}
		if rune(g.Tile(r, c).Letter.Upper()) != letters[idx] {
			return false
		}
		visited[r][c] = true
		path = append(path, board.Pos{Row: r, Col: c})
		for _, d := range directions {
			if dfs(idx+1, r+d[0], c+d[1]) {
				return true
			}
		}
		path = path[:len(path)-1]
		visited[r][c] = false
		return false
	}

	valid, best := false, 0
	var bestPath []board.Pos
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			visited = [board.Size][board.Size]bool{}
			path = path[:0]
			if !dfs(0, r, c) {
				continue
			}
			score := Score(g, path)
			if !valid || score > best {
				best = score
				bestPath = append([]board.Pos(nil), path...)
			}
			valid = true
		}
	}
	return valid, best, bestPath
}
