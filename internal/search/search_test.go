package search

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/spellcast-solver/internal/board"
)

func mustBoard(t *testing.T, rows ...string) *board.Board {
	t.Helper()
	b, err := board.FromLetters(rows...)
	require.NoError(t, err)
	return b
}

// catBoard spells C-A-T along the top row; everything else is Q.
func catBoard(t *testing.T) *board.Board {
	return mustBoard(t, "CATQQ", "QQQQQ", "QQQQQ", "QQQQQ", "QQQQQ")
}

func cfgFor(mode Mode, results int) Config {
	cfg := DefaultConfig()
	cfg.Mode = mode
	cfg.Results = results
	return cfg
}

func TestNoSwapFindsLiteralWord(t *testing.T) {
	b := catBoard(t)
	out, st, err := Search(context.Background(), b, []string{"CAT", "DOG"}, cfgFor(NoSwap, 1))
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, "CAT", out[0].Word)
	assert.Equal(t, 5+1+2, out[0].Score)
	assert.Equal(t, []board.Pos{{0, 0}, {0, 1}, {0, 2}}, out[0].Path)
	assert.NotNil(t, out[0].Swaps)
	assert.Empty(t, out[0].Swaps)
	assert.Equal(t, 1, st.Candidates, "DOG is filtered out")
	assert.EqualValues(t, 1, st.Variants)
}

func TestStatsReportMilliseconds(t *testing.T) {
	_, st, err := Search(context.Background(), catBoard(t), []string{"CAT"}, cfgFor(NoSwap, 1))
	require.NoError(t, err)
	assert.Equal(t, st.Duration.Milliseconds(), st.DurationMs)

	raw, err := json.Marshal(Stats{Candidates: 1, Duration: 1500 * time.Millisecond, DurationMs: 1500})
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.EqualValues(t, 1500, m["durationMs"])
	assert.NotContains(t, m, "duration")
}

func TestSingleSwapCompletesWord(t *testing.T) {
	b := catBoard(t)
	words := []string{"CATS"}

	out, _, err := Search(context.Background(), b, words, cfgFor(NoSwap, 3))
	require.NoError(t, err)
	assert.Empty(t, out)

	cfg := cfgFor(SingleSwap, 3)
	cfg.Filter = FilterAdvanced
	cfg.SingleSwapLengths = LengthRange{Min: 4, Max: 4}
	out, st, err := Search(context.Background(), b, words, cfg)
	require.NoError(t, err)
	require.Len(t, out, 1)

	r := out[0]
	assert.Equal(t, "CATS", r.Word)
	assert.Equal(t, 5+1+2+2, r.Score)
	require.Len(t, r.Swaps, 1)
	assert.Equal(t, board.Swap{Row: 0, Col: 3, Old: 'Q', New: 'S'}, r.Swaps[0])
	assert.Equal(t, []board.Pos{{0, 0}, {0, 1}, {0, 2}, {0, 3}}, r.Path)
	assert.EqualValues(t, 25*25, st.Variants)
}

func TestSingleSwapSimpleFilterNeedsLettersOnBoard(t *testing.T) {
	cfg := cfgFor(SingleSwap, 3)
	cfg.SingleSwapLengths = LengthRange{Min: 4, Max: 4}
	out, st, err := Search(context.Background(), catBoard(t), []string{"CATS"}, cfg)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Zero(t, st.Candidates)
}

func TestDoubleSwapReturnsTwoDistinctSwaps(t *testing.T) {
	b := catBoard(t)
	cfg := cfgFor(DoubleSwap, 5)
	cfg.Filter = FilterAdvanced
	cfg.DoubleSwapLengths = LengthRange{Min: 3, Max: 4}

	out, _, err := Search(context.Background(), b, []string{"CAT", "CATS"}, cfg)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "CATS", out[0].Word)
	assert.Equal(t, "CAT", out[1].Word)
	for _, r := range out {
		require.Len(t, r.Swaps, 2, r.Word)
		assert.NotEqual(t, r.Swaps[0].Pos(), r.Swaps[1].Pos(), r.Word)
	}
}

func TestDoubleSwapSecondLetterComesFromBoard(t *testing.T) {
	b := catBoard(t)
	cfg := cfgFor(DoubleSwap, 10)
	cfg.Filter = FilterAdvanced
	cfg.DoubleSwapLengths = LengthRange{Min: 3, Max: 4}

	out, st, err := Search(context.Background(), b, []string{"CAT", "CATS", "TACT"}, cfg)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	avail := b.AvailableLetters()
	for _, r := range out {
		require.Len(t, r.Swaps, 2, r.Word)
		assert.True(t, avail.Has(r.Swaps[1].New), "%s: second swap %c", r.Word, r.Swaps[1].New)
	}
	// 25 cells × 25 letters, then 24 other cells × the 3 board letters
	// (C, A, T, Q less the cell's own).
	assert.EqualValues(t, 25*25*24*3, st.Variants)
}

func TestSearchLeavesBoardUntouched(t *testing.T) {
	b := mustBoard(t, "CATSE", "RODEO", "PLAYS", "QUICK", "ZEBRA")
	before := b.Letters()
	words := []string{"CAT", "CATS", "RODEO", "PLAYS", "ZEBRA", "QUICK", "SCORE"}

	for _, mode := range []Mode{NoSwap, SingleSwap, DoubleSwap} {
		cfg := cfgFor(mode, 10)
		cfg.Filter = FilterAdvanced
		cfg.SingleSwapLengths = LengthRange{Min: 3, Max: 5}
		cfg.DoubleSwapLengths = LengthRange{Min: 4, Max: 4}
		_, _, err := Search(context.Background(), b, words, cfg)
		require.NoError(t, err, mode.String())
		assert.Equal(t, before, b.Letters(), mode.String())
	}
}

func TestModeSwapCounts(t *testing.T) {
	b := mustBoard(t, "CATSE", "RODEO", "PLAYS", "QUICK", "ZEBRA")
	words := []string{"CAT", "CATS", "COAT", "DOER", "RODE", "TOAD", "SCAT"}

	want := map[Mode]int{NoSwap: 0, SingleSwap: 1}
	for mode, n := range want {
		cfg := cfgFor(mode, 20)
		cfg.Filter = FilterAdvanced
		cfg.SingleSwapLengths = LengthRange{Min: 3, Max: 4}
		out, _, err := Search(context.Background(), b, words, cfg)
		require.NoError(t, err)
		require.NotEmpty(t, out)
		for _, r := range out {
			assert.Len(t, r.Swaps, n, "%s %s", mode, r.Word)
		}
	}
}

func TestSwapSearchIsDeterministicAcrossWorkers(t *testing.T) {
	b := mustBoard(t, "CATSE", "RODEO", "PLAYS", "QUICK", "ZEBRA")
	words := []string{"CAT", "CATS", "COAT", "DOER", "RODE", "TOAD", "SCAT", "TOADS", "ROADS"}

	cfg := cfgFor(SingleSwap, 20)
	cfg.Filter = FilterAdvanced
	cfg.SingleSwapLengths = LengthRange{Min: 3, Max: 5}

	cfg.Workers = 1
	seq, _, err := Search(context.Background(), b, words, cfg)
	require.NoError(t, err)

	cfg.Workers = 8
	par, _, err := Search(context.Background(), b, words, cfg)
	require.NoError(t, err)
	assert.Equal(t, seq, par)
}

func TestLongWordBonus(t *testing.T) {
	b := mustBoard(t, "STRAN", "QQQQD", "QQQQQ", "QQQQQ", "QQQQQ")
	out, _, err := Search(context.Background(), b, []string{"STRAND"}, cfgFor(NoSwap, 1))
	require.NoError(t, err)
	require.Len(t, out, 1)
	tiles := 2 + 2 + 2 + 1 + 2 + 3
	assert.Equal(t, tiles, out[0].TileScore)
	assert.Equal(t, tiles+10, out[0].Score)
}

func TestSearchRejectsMalformedInput(t *testing.T) {
	b := catBoard(t)
	ctx := context.Background()

	_, _, err := Search(ctx, nil, []string{"CAT"}, DefaultConfig())
	require.ErrorIs(t, err, ErrInvalidConfig)
	require.ErrorIs(t, err, board.ErrNilBoard)

	short := &board.Board{Tiles: b.Tiles[:4]}
	_, _, err = Search(ctx, short, []string{"CAT"}, DefaultConfig())
	require.ErrorIs(t, err, board.ErrNotSquare)

	_, _, err = Search(ctx, b, nil, DefaultConfig())
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, _, err = Search(ctx, b, []string{"CAT"}, cfgFor(NoSwap, 0))
	require.ErrorIs(t, err, ErrInvalidConfig)

	cfg := cfgFor(SingleSwap, 1)
	cfg.SingleSwapLengths = LengthRange{Min: 6, Max: 4}
	_, _, err = Search(ctx, b, []string{"CAT"}, cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, _, err = Search(ctx, b, []string{"CAT"}, cfgFor(Mode(9), 1))
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestSearchHonoursCancellation(t *testing.T) {
	b := catBoard(t)
	cfg := cfgFor(DoubleSwap, 3)
	cfg.Filter = FilterAdvanced
	cfg.DoubleSwapLengths = LengthRange{Min: 3, Max: 4}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Search(ctx, b, []string{"CAT", "CATS"}, cfg)
	require.ErrorIs(t, err, context.Canceled)

	ctx, cancel = context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)
	_, _, err = Search(ctx, b, []string{"CAT", "CATS"}, cfg)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestParseModes(t *testing.T) {
	m, err := ParseMode("Single-Swap")
	require.NoError(t, err)
	assert.Equal(t, SingleSwap, m)
	m, err = ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, NoSwap, m)
	m, err = ParseMode("double_swap")
	require.NoError(t, err)
	assert.Equal(t, DoubleSwap, m)
	_, err = ParseMode("triple")
	require.ErrorIs(t, err, ErrInvalidConfig)

	f, err := ParseFilterMode("ADVANCED")
	require.NoError(t, err)
	assert.Equal(t, FilterAdvanced, f)
	_, err = ParseFilterMode("fuzzy")
	require.ErrorIs(t, err, ErrInvalidConfig)
}
