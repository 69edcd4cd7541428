// internal/history/history.go
//
// Persistent search history and the daily leaderboard.
// Responsibilities:
//   - Record one row per completed search (guests have no user ID).
//   - List a user's most recent searches.
//   - Rank the best words found on a given UTC day across all users.

package history

import (
	"context"
	"database/sql"
	"time"
)

// timeLayout sorts lexically in time order.
const timeLayout = "2006-01-02T15:04:05.000000Z07:00"

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Entry is one recorded search.
type Entry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Date      string    `json:"date"`
	Mode      string    `json:"mode"`
	Board     string    `json:"board"`
	BestWord  string    `json:"bestWord"`
	BestScore int       `json:"bestScore"`
	Results   int       `json:"results"`
	ElapsedMs int64     `json:"elapsedMs"`
	CreatedAt time.Time `json:"createdAt"`
}

// LBRow is one leaderboard line.
type LBRow struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Word     string `json:"word"`
	Score    int    `json:"score"`
	Mode     string `json:"mode"`
}

type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Record inserts e. Date and CreatedAt default to now when zero.
func (s *Store) Record(ctx context.Context, e Entry) (int64, error) {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.Date == "" {
		e.Date = DateKey(e.CreatedAt)
	}
	var user any
	if e.UserID != "" {
		user = e.UserID
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO searches(user_id, date, mode, board, best_word, best_score, results, elapsed_ms, created_at)
		 VALUES(?,?,?,?,?,?,?,?,?)`,
		user, e.Date, e.Mode, e.Board, e.BestWord, e.BestScore, e.Results, e.ElapsedMs,
		e.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListByUser returns the user's searches, newest first.
func (s *Store) ListByUser(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(user_id,''), date, mode, board, best_word, best_score, results, elapsed_ms, created_at
		 FROM searches
		 WHERE user_id=?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.UserID, &e.Date, &e.Mode, &e.Board, &e.BestWord,
			&e.BestScore, &e.Results, &e.ElapsedMs, &created); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(timeLayout, created)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Leaderboard returns the best-scoring words signed-in users found on date.
// Each user appears once, with their best search of the day; ties go to
// whoever got there first.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT s.user_id, u.username, s.best_word, s.best_score, s.mode
		 FROM searches s
		 JOIN users u ON u.id = s.user_id
		 WHERE s.date=? AND s.best_word <> ''
		   AND s.id = (
		     SELECT s2.id FROM searches s2
		     WHERE s2.user_id = s.user_id AND s2.date = s.date AND s2.best_word <> ''
		     ORDER BY s2.best_score DESC, s2.created_at ASC, s2.id ASC
		     LIMIT 1)
		 ORDER BY s.best_score DESC, s.created_at ASC, s.id ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.UserID, &r.Username, &r.Word, &r.Score, &r.Mode); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
