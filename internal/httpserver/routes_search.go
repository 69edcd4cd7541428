// internal/httpserver/routes_search.go
//
// Solver routes.
//   - POST /board/parse   → validate a board and echo it back with its letters
//   - POST /search        → synchronous NoSwap / SingleSwap search, bounded by SEARCH_TIMEOUT
//   - GET  /history/mine  → the caller's recent searches
//   - GET  /leaderboard   → best words found on a day (default today, UTC)
//
// DoubleSwap is refused by /search; it can run for minutes and belongs on /jobs.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/spellcast-solver/internal/board"
	"github.com/robalobadob/spellcast-solver/internal/history"
	"github.com/robalobadob/spellcast-solver/internal/search"
)

// searchReq is the body of /search and /jobs. Exactly one of Board (text
// form) or Tiles should be set; Tiles wins when both are.
type searchReq struct {
	Board   string         `json:"board"`
	Tiles   [][]board.Tile `json:"tiles"`
	Mode    string         `json:"mode"`
	Filter  string         `json:"filter"`
	Results int            `json:"results"`
}

type searchRes struct {
	Results []search.Result `json:"results"`
	Stats   search.Stats    `json:"stats"`
}

// resolve turns a request into a validated board and search settings,
// falling back to the server defaults for omitted fields.
func (s *Server) resolve(req searchReq) (*board.Board, search.Config, error) {
	var (
		b   *board.Board
		err error
	)
	if req.Tiles != nil {
		b, err = board.New(req.Tiles)
	} else {
		b, err = board.Parse(req.Board)
	}
	if err != nil {
		return nil, search.Config{}, err
	}

	cfg := s.defaults
	if cfg.Mode, err = search.ParseMode(req.Mode); err != nil {
		return nil, search.Config{}, err
	}
	if req.Filter != "" {
		if cfg.Filter, err = search.ParseFilterMode(req.Filter); err != nil {
			return nil, search.Config{}, err
		}
	}
	if req.Results != 0 {
		cfg.Results = req.Results
	}
	if err := cfg.Validate(); err != nil {
		return nil, search.Config{}, err
	}
	return b, cfg, nil
}

type parseRes struct {
	Tiles     [][]board.Tile `json:"tiles"`
	Board     string         `json:"board"`
	Available string         `json:"available"`
}

func (s *Server) handleParseBoard(w http.ResponseWriter, r *http.Request) {
	var req searchReq
	if !decodeJSON(w, r, &req) {
		return
	}
	b, _, err := s.resolve(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, parseRes{Tiles: b.Tiles, Board: b.String(), Available: b.AvailableLetters().String()})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchReq
	if !decodeJSON(w, r, &req) {
		return
	}
	b, cfg, err := s.resolve(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if cfg.Mode == search.DoubleSwap {
		writeError(w, http.StatusBadRequest, "doubleswap runs as a job: use POST /jobs")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.SearchTimeout)
	defer cancel()
	results, stats, err := search.Search(ctx, b, s.dict.Words(), cfg)
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "search timed out")
		return
	case errors.Is(err, context.Canceled):
		hlog.FromRequest(r).Info().Msg("search abandoned by client")
		return
	case errors.Is(err, search.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		hlog.FromRequest(r).Error().Err(err).Msg("search")
		writeError(w, http.StatusInternalServerError, "search_failed")
		return
	}

	s.record(r.Context(), currentUser(r), b, cfg.Mode, results, stats)
	writeJSON(w, http.StatusOK, searchRes{Results: results, Stats: stats})
}

// record stores a finished search for signed-in users. Failures are logged
// and otherwise ignored.
func (s *Server) record(ctx context.Context, u *authUser, b *board.Board, mode search.Mode, results []search.Result, stats search.Stats) {
	if u == nil {
		return
	}
	e := history.Entry{
		UserID:    u.ID,
		Mode:      mode.String(),
		Board:     b.String(),
		Results:   len(results),
		ElapsedMs: stats.Duration.Milliseconds(),
	}
	if len(results) > 0 {
		e.BestWord = results[0].Word
		e.BestScore = results[0].Score
	}
	if _, err := s.history.Record(context.WithoutCancel(ctx), e); err != nil {
		log.Warn().Err(err).Str("user", u.ID).Msg("record search")
	}
}

func (s *Server) handleHistoryMine(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	rows, err := s.history.ListByUser(r.Context(), me.ID, 50)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("list history")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

type lbRes struct {
	Date string          `json:"date"`
	Top  []history.LBRow `json:"top"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = history.DateKey(time.Now())
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	rows, err := s.history.Leaderboard(r.Context(), date, 20)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	writeJSON(w, http.StatusOK, lbRes{Date: date, Top: rows})
}
