// internal/httpserver/routes_jobs.go
//
// Background search jobs, mounted under /jobs:
//   - POST   /jobs       → queue a search (any mode), returns {"jobId"}
//   - GET    /jobs       → the signed-in caller's jobs, newest first
//   - GET    /jobs/{id}  → job state, plus results once done
//   - DELETE /jobs/{id}  → cancel a queued or running job
//
// Jobs run on the server's base context, not the request's, bounded by
// JOB_TIMEOUT. At most JOB_CONCURRENCY run at once; the rest stay queued.
// A job owned by a user is only visible to that user.

package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/spellcast-solver/internal/job"
	"github.com/robalobadob/spellcast-solver/internal/search"
	"github.com/robalobadob/spellcast-solver/internal/store"
)

func (s *Server) mountJobs(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.Post("/", s.handleNewJob)
		r.With(s.requireAuth()).Get("/", s.handleListJobs)
		r.Get("/{id}", s.handleGetJob)
		r.Delete("/{id}", s.handleCancelJob)
	})
}

type newJobRes struct {
	JobID string `json:"jobId"`
}

func (s *Server) handleNewJob(w http.ResponseWriter, r *http.Request) {
	var req searchReq
	if !decodeJSON(w, r, &req) {
		return
	}
	b, cfg, err := s.resolve(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var owner string
	if me := currentUser(r); me != nil {
		owner = me.ID
	}
	j := job.New(b, cfg, owner)
	if err := s.store.Save(r.Context(), j); err != nil {
		log.Error().Err(err).Msg("save job")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.submit(j)
	writeJSON(w, http.StatusAccepted, newJobRes{JobID: j.ID})
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.store.List(r.Context(), currentUser(r).ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error")
		return
	}
	out := make([]job.View, 0, len(jobs))
	for _, j := range jobs {
		v := j.Snapshot()
		v.Results = nil // summaries only; fetch /jobs/{id} for results
		out = append(out, v)
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	j, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, j.Snapshot())
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	j, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	if !j.Cancel() {
		writeError(w, http.StatusConflict, "job already finished")
		return
	}
	log.Info().Str("jobId", j.ID).Msg("job canceled")
	writeJSON(w, http.StatusOK, j.Snapshot())
}

// lookupJob loads the job named in the URL, answering 404 for unknown IDs
// and for jobs owned by somebody else.
func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) (*job.Job, bool) {
	j, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "store_error")
		return nil, false
	}
	if j.UserID != "" {
		if me := currentUser(r); me == nil || me.ID != j.UserID {
			writeError(w, http.StatusNotFound, "not_found")
			return nil, false
		}
	}
	return j, true
}

// submit runs j in the background once a slot is free.
func (s *Server) submit(j *job.Job) {
	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()

		select {
		case s.slots <- struct{}{}:
		case <-j.Done():
			return
		case <-s.baseCtx.Done():
			_ = j.Fail(s.baseCtx.Err())
			return
		}
		defer func() { <-s.slots }()

		ctx, cancel := context.WithTimeout(s.baseCtx, s.cfg.JobTimeout)
		defer cancel()
		if err := j.Start(cancel); err != nil {
			return
		}
		log.Info().Str("jobId", j.ID).Str("mode", j.Config.Mode.String()).Msg("job started")

		results, stats, err := search.Search(ctx, j.Board, s.dict.Words(), j.Config)
		if err != nil {
			if j.Fail(err) == nil {
				log.Warn().Err(err).Str("jobId", j.ID).Msg("job failed")
			}
			return
		}
		if j.Finish(results, stats) != nil {
			return
		}
		log.Info().Str("jobId", j.ID).Int("results", len(results)).Dur("took", stats.Duration).Msg("job done")

		var owner *authUser
		if j.UserID != "" {
			if u, err := s.findUserByID(context.WithoutCancel(ctx), j.UserID); err == nil {
				owner = &authUser{ID: u.ID, Username: u.Username}
			}
		}
		s.record(ctx, owner, j.Board, j.Config.Mode, results, stats)
	}()
}
