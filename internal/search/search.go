// internal/search/search.go
//
// Search orchestration over the three search modes.
// Responsibilities:
//   - Validate inputs up front (board shape, dictionary, config).
//   - Pre-filter the dictionary once per call against the unmodified board.
//   - Enumerate board variants for the selected mode:
//       NoSwap     → the board itself.
//       SingleSwap → every cell × every letter A–Z other than its own.
//       DoubleSwap → every SingleSwap variant × every other cell × every
//                    letter already on the board other than that cell's own.
//   - Evaluate every candidate word on every variant and rank the results.
//
// Notes:
//   - Variants are overlays on the caller's board; nothing is ever written to
//     it, so the board is identical before and after a call.
//   - Swap modes fan out over a worker pool, one unit per first swap. Units are
//     merged in enumeration order, so the output does not depend on scheduling.
//   - The context is checked between units; DoubleSwap can run for minutes.

package search

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/spellcast-solver/internal/board"
)

// Stats describes the work done by one Search call.
type Stats struct {
	Candidates  int           `json:"candidates"`  // words left after filtering
	Variants    int64         `json:"variants"`    // board states evaluated
	Evaluations int64         `json:"evaluations"` // path finder calls
	Duration    time.Duration `json:"-"`
	DurationMs  int64         `json:"durationMs"` // Duration in milliseconds
}

// Search finds the best words playable on b under cfg. An empty result is a
// normal outcome. Invalid input returns ErrInvalidConfig; cancellation
// returns the context error.
func Search(ctx context.Context, b *board.Board, words []string, cfg Config) ([]Result, Stats, error) {
	start := time.Now()
	if err := b.Validate(); err != nil {
		return nil, Stats{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(words) == 0 {
		return nil, Stats{}, fmt.Errorf("%w: dictionary is empty", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, Stats{}, err
	}

	s := &searcher{board: b, cfg: cfg, available: b.AvailableLetters()}
	var units []*board.Swap
	switch cfg.Mode {
	case NoSwap:
		// Words with a missing letter can never be traced without a swap.
		s.candidates = slices.Collect(Filter(words, s.available, FilterSimple))
		units = []*board.Swap{nil}
	case SingleSwap:
		s.candidates = slices.Collect(Filter(withinLengths(words, cfg.SingleSwapLengths), s.available, cfg.Filter))
		units = firstSwaps(b)
	case DoubleSwap:
		s.candidates = slices.Collect(Filter(withinLengths(words, cfg.DoubleSwapLengths), s.available, cfg.Filter))
		s.inner = s.available.Letters()
		units = firstSwaps(b)
	}

	stats := Stats{Candidates: len(s.candidates)}
	var out []Result
	if len(s.candidates) == 0 {
		out = []Result{}
	} else {
		slots, err := s.runAll(ctx, units)
		stats.Variants, stats.Evaluations = s.variants.Load(), s.evaluations.Load()
		if err != nil {
			stats.setDuration(time.Since(start))
			return nil, stats, fmt.Errorf("search %s interrupted: %w", cfg.Mode, err)
		}
		merged := newCollector()
		for _, slot := range slots {
			for _, r := range slot.items {
				merged.add(r)
			}
		}
		out = merged.top(cfg.Results)
	}
	stats.setDuration(time.Since(start))

	log.Debug().
		Str("mode", cfg.Mode.String()).
		Str("filter", cfg.Filter.String()).
		Int("candidates", stats.Candidates).
		Int64("variants", stats.Variants).
		Int64("evaluations", stats.Evaluations).
		Int("results", len(out)).
		Dur("took", stats.Duration).
		Msg("search finished")
	return out, stats, nil
}

func (st *Stats) setDuration(d time.Duration) {
	st.Duration = d
	st.DurationMs = d.Milliseconds()
}

type searcher struct {
	board      *board.Board
	cfg        Config
	available  board.LetterSet
	candidates []string
	inner      []board.Letter // second-swap letters (DoubleSwap)

	variants    atomic.Int64
	evaluations atomic.Int64
}

// runAll evaluates every unit on a bounded worker pool. slots[i] holds the
// results of units[i].
func (s *searcher) runAll(ctx context.Context, units []*board.Swap) ([]*collector, error) {
	workers := s.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(units) {
		workers = len(units)
	}

	slots := make([]*collector, len(units))
	next := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range next {
				slots[i] = s.run(units[i])
			}
		}()
	}

feed:
	for i := range units {
		select {
		case <-ctx.Done():
			break feed
		case next <- i:
		}
	}
	close(next)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// run evaluates all variants that start with the given first swap.
func (s *searcher) run(first *board.Swap) *collector {
	c := newCollector()
	switch {
	case first == nil:
		s.evaluate(c, s.board.Variant())
	case s.cfg.Mode == SingleSwap:
		s.evaluate(c, s.board.Variant(*first))
	case s.cfg.Mode == DoubleSwap:
		for r := 0; r < board.Size; r++ {
			for col := 0; col < board.Size; col++ {
				if r == first.Row && col == first.Col {
					continue
				}
				old := s.board.Tile(r, col).Letter
				for _, l := range s.inner {
					if l == old.Upper() {
						continue
					}
					s.evaluate(c, s.board.Variant(*first, board.Swap{Row: r, Col: col, Old: old, New: l}))
				}
			}
		}
	}
	return c
}

func (s *searcher) evaluate(c *collector, v board.Variant) {
	s.variants.Add(1)
	s.evaluations.Add(int64(len(s.candidates)))
	swaps := v.Swaps()
	if swaps == nil {
		swaps = []board.Swap{}
	}
	for _, w := range s.candidates {
		ok, score, path := FindBestPath(v, w)
		if !ok {
			continue
		}
		c.add(Result{
			Word:      w,
			Score:     score + LengthBonus(w),
			TileScore: score,
			Path:      path,
			Swaps:     swaps,
		})
	}
}

// firstSwaps enumerates every cell × every letter A–Z except the cell's own,
// row-major, alphabetically.
func firstSwaps(b *board.Board) []*board.Swap {
	out := make([]*board.Swap, 0, board.Size*board.Size*(len(board.Alphabet)-1))
	for r := 0; r < board.Size; r++ {
		for c := 0; c < board.Size; c++ {
			old := b.Tile(r, c).Letter
			for _, l := range board.Alphabet {
				if board.Letter(l) == old.Upper() {
					continue
				}
				out = append(out, &board.Swap{Row: r, Col: c, Old: old, New: board.Letter(l)})
			}
		}
	}
	return out
}

func withinLengths(words []string, lr LengthRange) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if lr.Contains(utf8.RuneCountInString(w)) {
			out = append(out, w)
		}
	}
	return out
}
