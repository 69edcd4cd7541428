package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/spellcast-solver/internal/search"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "SEARCH_RESULTS", "SEARCH_FILTER", "SWAP_MIN_LEN", "SEARCH_TIMEOUT", "JOB_RETENTION", "NODE_ENV", "WORDS_FILE"} {
		t.Setenv(k, "")
	}
	c := Load()
	assert.Equal(t, "5175", c.Port)
	assert.Equal(t, 3, c.Results)
	assert.Equal(t, 10*time.Second, c.SearchTimeout)
	assert.Equal(t, time.Hour, c.JobRetention)
	assert.False(t, c.Production)
	assert.Empty(t, c.WordsFile)

	sc, err := c.SearchDefaults()
	require.NoError(t, err)
	def := search.DefaultConfig()
	assert.Equal(t, def.Filter, sc.Filter)
	assert.Equal(t, def.Results, sc.Results)
	assert.Equal(t, def.SingleSwapLengths, sc.SingleSwapLengths)
	assert.Equal(t, def.DoubleSwapLengths, sc.DoubleSwapLengths)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SEARCH_RESULTS", "5")
	t.Setenv("SEARCH_FILTER", "Advanced")
	t.Setenv("SWAP_MIN_LEN", "4")
	t.Setenv("SEARCH_TIMEOUT", "250ms")
	t.Setenv("JOB_TIMEOUT", "soon")
	t.Setenv("SEARCH_WORKERS", "x")
	t.Setenv("NODE_ENV", "production")

	c := Load()
	assert.Equal(t, 250*time.Millisecond, c.SearchTimeout)
	assert.Equal(t, 15*time.Minute, c.JobTimeout, "bad durations fall back")
	assert.Zero(t, c.Workers, "bad integers fall back")
	assert.True(t, c.Production)

	sc, err := c.SearchDefaults()
	require.NoError(t, err)
	assert.Equal(t, search.FilterAdvanced, sc.Filter)
	assert.Equal(t, 5, sc.Results)
	assert.Equal(t, search.LengthRange{Min: 4, Max: 10}, sc.SingleSwapLengths)
}

func TestSearchDefaultsRejectsBadRanges(t *testing.T) {
	t.Setenv("DOUBLE_SWAP_MIN_LEN", "20")
	_, err := Load().SearchDefaults()
	require.ErrorIs(t, err, search.ErrInvalidConfig)

	t.Setenv("DOUBLE_SWAP_MIN_LEN", "")
	t.Setenv("SEARCH_FILTER", "fuzzy")
	_, err = Load().SearchDefaults()
	require.ErrorIs(t, err, search.ErrInvalidConfig)
}
