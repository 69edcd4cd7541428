// internal/job/job.go
//
// A background search job.
// Responsibilities:
//   - Hold the input of one search (board, mode, settings) and its outcome.
//   - Track state transitions: queued → running → done | failed | canceled.
//   - Hand out consistent snapshots to readers while a worker updates it.
//
// Notes:
//   - A job is mutated by exactly one worker goroutine and read by HTTP
//     handlers, so every field is guarded by the job's mutex.
//   - Once in a terminal state a job never changes again.

package job

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/spellcast-solver/internal/board"
	"github.com/robalobadob/spellcast-solver/internal/search"
)

// State is the lifecycle stage of a job.
type State string

const (
	StateQueued   State = "queued"
	StateRunning  State = "running"
	StateDone     State = "done"
	StateFailed   State = "failed"
	StateCanceled State = "canceled"
)

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateCanceled
}

// ErrFinished is returned when a transition is attempted on a terminal job.
var ErrFinished = errors.New("job: already finished")

// Job is one queued or running search.
type Job struct {
	ID     string
	UserID string // empty for guests
	Board  *board.Board
	Config search.Config

	mu         sync.Mutex
	state      State
	results    []search.Result
	stats      search.Stats
	err        string
	createdAt  time.Time
	startedAt  time.Time
	finishedAt time.Time
	cancel     context.CancelFunc
	done       chan struct{}
}

// New constructs a queued job.
func New(b *board.Board, cfg search.Config, userID string) *Job {
	return &Job{
		ID:        randomID(),
		UserID:    userID,
		Board:     b,
		Config:    cfg,
		state:     StateQueued,
		createdAt: time.Now().UTC(),
		done:      make(chan struct{}),
	}
}

// Start moves a queued job to running. cancel is called by Cancel.
func (j *Job) Start(cancel context.CancelFunc) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state != StateQueued {
		return ErrFinished
	}
	j.state = StateRunning
	j.startedAt = time.Now().UTC()
	j.cancel = cancel
	return nil
}

// Finish records a successful outcome.
func (j *Job) Finish(results []search.Result, stats search.Stats) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return ErrFinished
	}
	j.state = StateDone
	j.results = results
	j.stats = stats
	j.finishLocked()
	return nil
}

// Fail records an error. Context cancellation is recorded as canceled.
func (j *Job) Fail(err error) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return ErrFinished
	}
	j.state = StateFailed
	if errors.Is(err, context.Canceled) {
		j.state = StateCanceled
	}
	j.err = err.Error()
	j.finishLocked()
	return nil
}

// Cancel stops a queued or running job. It reports false if the job had
// already finished.
func (j *Job) Cancel() bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state.Terminal() {
		return false
	}
	if j.cancel != nil {
		j.cancel()
	}
	j.state = StateCanceled
	j.err = context.Canceled.Error()
	j.finishLocked()
	return true
}

func (j *Job) finishLocked() {
	j.finishedAt = time.Now().UTC()
	close(j.done)
}

// Done is closed once the job reaches a terminal state.
func (j *Job) Done() <-chan struct{} { return j.done }

// View is a point-in-time copy of a job, shaped for JSON.
type View struct {
	ID         string          `json:"id"`
	State      State           `json:"state"`
	Mode       string          `json:"mode"`
	Board      string          `json:"board"`
	Results    []search.Result `json:"results,omitempty"`
	Stats      *search.Stats   `json:"stats,omitempty"`
	Error      string          `json:"error,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	StartedAt  *time.Time      `json:"startedAt,omitempty"`
	FinishedAt *time.Time      `json:"finishedAt,omitempty"`
}

// Snapshot returns the job's current view.
func (j *Job) Snapshot() View {
	j.mu.Lock()
	defer j.mu.Unlock()
	v := View{
		ID:        j.ID,
		State:     j.state,
		Mode:      j.Config.Mode.String(),
		Board:     j.Board.String(),
		Error:     j.err,
		CreatedAt: j.createdAt,
	}
	if j.state == StateDone {
		v.Results = j.results
		st := j.stats
		v.Stats = &st
	}
	if !j.startedAt.IsZero() {
		t := j.startedAt
		v.StartedAt = &t
	}
	if !j.finishedAt.IsZero() {
		t := j.finishedAt
		v.FinishedAt = &t
	}
	return v
}

// State reports the current state.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// FinishedAt reports when the job reached a terminal state, if it has.
func (j *Job) FinishedAt() (time.Time, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.finishedAt, !j.finishedAt.IsZero()
}

// randomID returns a compact 16‑hex‑char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
