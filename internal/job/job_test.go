package job

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/spellcast-solver/internal/board"
	"github.com/robalobadob/spellcast-solver/internal/search"
)

func newJob(t *testing.T) *Job {
	t.Helper()
	b, err := board.FromLetters("CATQQ", "QQQQQ", "QQQQQ", "QQQQQ", "QQQQQ")
	require.NoError(t, err)
	cfg := search.DefaultConfig()
	cfg.Mode = search.SingleSwap
	return New(b, cfg, "")
}

func TestLifecycle(t *testing.T) {
	j := newJob(t)
	assert.Len(t, j.ID, 16)
	assert.Equal(t, StateQueued, j.State())

	_, finished := j.FinishedAt()
	assert.False(t, finished)

	v := j.Snapshot()
	assert.Equal(t, "swap", v.Mode)
	assert.Nil(t, v.StartedAt)
	assert.Nil(t, v.Stats)

	require.NoError(t, j.Start(func() {}))
	require.ErrorIs(t, j.Start(func() {}), ErrFinished)
	assert.Equal(t, StateRunning, j.State())

	res := []search.Result{{Word: "CAT", Score: 8}}
	select {
	case <-j.Done():
		t.Fatal("running job reported done")
	default:
	}
	require.NoError(t, j.Finish(res, search.Stats{Candidates: 1}))
	<-j.Done()
	assert.False(t, j.Cancel(), "finished jobs cannot be canceled")
	require.ErrorIs(t, j.Fail(errors.New("late")), ErrFinished)

	v = j.Snapshot()
	assert.Equal(t, StateDone, v.State)
	assert.Equal(t, res, v.Results)
	require.NotNil(t, v.Stats)
	assert.Equal(t, 1, v.Stats.Candidates)
	assert.NotNil(t, v.StartedAt)
	require.NotNil(t, v.FinishedAt)
	at, finished := j.FinishedAt()
	assert.True(t, finished)
	assert.Equal(t, *v.FinishedAt, at)
	assert.Empty(t, v.Error)
}

func TestCancelCallsCancelFunc(t *testing.T) {
	j := newJob(t)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, j.Start(cancel))

	assert.True(t, j.Cancel())
	<-j.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
	assert.Equal(t, StateCanceled, j.State())

	require.ErrorIs(t, j.Finish(nil, search.Stats{}), ErrFinished)
	assert.Nil(t, j.Snapshot().Results)
}

func TestFail(t *testing.T) {
	j := newJob(t)
	require.NoError(t, j.Start(func() {}))
	require.NoError(t, j.Fail(errors.New("boom")))
	v := j.Snapshot()
	assert.Equal(t, StateFailed, v.State)
	assert.Equal(t, "boom", v.Error)

	j = newJob(t)
	require.NoError(t, j.Start(func() {}))
	require.NoError(t, j.Fail(context.Canceled))
	assert.Equal(t, StateCanceled, j.State())
	assert.True(t, StateCanceled.Terminal())
	assert.False(t, StateRunning.Terminal())
}

func TestCancelWhileQueued(t *testing.T) {
	j := newJob(t)
	assert.True(t, j.Cancel())
	<-j.Done()
	require.ErrorIs(t, j.Start(func() {}), ErrFinished)
	assert.Equal(t, StateCanceled, j.State())
	assert.Nil(t, j.Snapshot().StartedAt)
}
