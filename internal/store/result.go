package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deimos993/qprep/internal/grading"
)

// ResultRecord is one finished attempt, as kept in the history table.
type ResultRecord struct {
	AttemptID      string
	QuizID         string
	Score          int
	Total          int
	Passed         bool
	DurationSecs   int
	ObjectiveStats map[string]grading.ObjectiveStat
	TakenAt        time.Time
}

// QuizSummary aggregates the history of one quiz.
type QuizSummary struct {
	QuizID    string
	Attempts  int
	Passes    int
	BestScore int
	LastScore int
	LastTotal int
	LastTaken time.Time
}

// ResultRepo appends and aggregates finished attempts.
type ResultRepo struct {
	db  *sql.DB
	now func() time.Time
}

// Append records one finished attempt. TakenAt defaults to now when zero.
func (r *ResultRepo) Append(ctx context.Context, rec ResultRecord) error {
	stats := rec.ObjectiveStats
	if stats == nil {
		stats = map[string]grading.ObjectiveStat{}
	}
	statsJSON, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal objective stats: %w", err)
	}

	takenAt := rec.TakenAt
	if takenAt.IsZero() {
		takenAt = r.now()
	}

	passed := 0
	if rec.Passed {
		passed = 1
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO results (attempt_id, quiz_id, score, total, passed, duration_secs, objectives_json, taken_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.AttemptID, rec.QuizID, rec.Score, rec.Total, passed, rec.DurationSecs, string(statsJSON), takenAt.Unix())
	if err != nil {
		return fmt.Errorf("append result: %w", err)
	}
	return nil
}

// Summaries returns one aggregate row per quiz, most recently taken first.
func (r *ResultRepo) Summaries(ctx context.Context) ([]QuizSummary, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT quiz_id,
		        COUNT(*),
		        SUM(passed),
		        MAX(score),
		        MAX(taken_at)
		 FROM results
		 GROUP BY quiz_id
		 ORDER BY MAX(taken_at) DESC`)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var out []QuizSummary
	for rows.Next() {
		var s QuizSummary
		var lastTaken int64
		if err := rows.Scan(&s.QuizID, &s.Attempts, &s.Passes, &s.BestScore, &lastTaken); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		s.LastTaken = time.Unix(lastTaken, 0)

		row := r.db.QueryRowContext(ctx,
			`SELECT score, total FROM results WHERE quiz_id = ? ORDER BY taken_at DESC, id DESC LIMIT 1`,
			s.QuizID)
		if err := row.Scan(&s.LastScore, &s.LastTotal); err != nil {
			return nil, fmt.Errorf("scan last result: %w", err)
		}

		out = append(out, s)
	}
	return out, rows.Err()
}

// ObjectiveTotals sums per-objective stats across the whole history,
// optionally restricted to one quiz (empty quizID means all).
func (r *ResultRepo) ObjectiveTotals(ctx context.Context, quizID string) (map[string]grading.ObjectiveStat, error) {
	query := `SELECT objectives_json FROM results`
	args := []any{}
	if quizID != "" {
		query += ` WHERE quiz_id = ?`
		args = append(args, quizID)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query objective totals: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]grading.ObjectiveStat)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan objective stats: %w", err)
		}
		var stats map[string]grading.ObjectiveStat
		if err := json.Unmarshal([]byte(raw), &stats); err != nil {
			continue // tolerate a corrupt row, history is best-effort
		}
		for code, stat := range stats {
			agg := totals[code]
			agg.Correct += stat.Correct
			agg.Incorrect += stat.Incorrect
			agg.Total += stat.Total
			totals[code] = agg
		}
	}
	return totals, rows.Err()
}
