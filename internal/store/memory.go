// internal/store/memory.go
//
// In-memory implementation of the job Store.
// Jobs live only as long as the process; that is enough for polling a
// running search and fetching its results shortly after.
//
// Characteristics:
//   - Stores *job.Job objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Get returns ErrNotFound for unknown IDs.
//   - Finished jobs are dropped once they are older than the retention
//     window. Pruning happens on Save; queued and running jobs are kept.

package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/robalobadob/spellcast-solver/internal/job"
)

// ErrNotFound is returned for unknown job IDs.
var ErrNotFound = errors.New("store: not found")

// Store defines the persistence interface for search jobs.
type Store interface {
	// Save persists or replaces a job.
	Save(ctx context.Context, j *job.Job) error

	// Get retrieves a job by ID.
	Get(ctx context.Context, id string) (*job.Job, error)

	// List returns a user's jobs, newest first. An empty userID lists guest jobs.
	List(ctx context.Context, userID string) ([]*job.Job, error)
}

type memory struct {
	mu     sync.RWMutex
	jobs   map[string]*job.Job
	retain time.Duration
}

// NewMemoryStore constructs a new in-memory Store that keeps finished jobs
// for retain. A non-positive retain keeps them forever.
func NewMemoryStore(retain time.Duration) Store {
	return &memory{jobs: make(map[string]*job.Job), retain: retain}
}

func (m *memory) Save(ctx context.Context, j *job.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneLocked(time.Now())
	m.jobs[j.ID] = j
	return nil
}

func (m *memory) pruneLocked(now time.Time) {
	if m.retain <= 0 {
		return
	}
	for id, j := range m.jobs {
		if at, ok := j.FinishedAt(); ok && now.Sub(at) > m.retain {
			delete(m.jobs, id)
		}
	}
}

func (m *memory) Get(ctx context.Context, id string) (*job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if j, ok := m.jobs[id]; ok {
		return j, nil
	}
	return nil, ErrNotFound
}

func (m *memory) List(ctx context.Context, userID string) ([]*job.Job, error) {
	m.mu.RLock()
	out := make([]*job.Job, 0)
	for _, j := range m.jobs {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	m.mu.RUnlock()

	views := make(map[string]job.View, len(out))
	for _, j := range out {
		views[j.ID] = j.Snapshot()
	}
	sort.Slice(out, func(a, b int) bool {
		va, vb := views[out[a].ID], views[out[b].ID]
		if !va.CreatedAt.Equal(vb.CreatedAt) {
			return va.CreatedAt.After(vb.CreatedAt)
		}
		return va.ID < vb.ID
	})
	return out, nil
}
