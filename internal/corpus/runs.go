package corpus

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"yashubustudio/chandas/chandas"
)

// RunResult is one stored row of a saved analysis run.
type RunResult struct {
	Position       int     `json:"position"`
	Text           string  `json:"text"`
	Outcome        string  `json:"outcome"`
	BaseFamily     *string `json:"base_family"`
	DeviationD     *int    `json:"deviation_d"`
	DeviationLabel *string `json:"deviation_label"`
	FullLabel      *string `json:"full_label"`
	SyllableCounts string  `json:"syllable_counts"`
}

// SaveRun stores the summaries of a batch analysis and returns the new run id.
func (s *Store) SaveRun(ctx context.Context, analyses []chandas.Analysis) (uuid.UUID, error) {
	id := uuid.New()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin run: %w", err)
	}
	defer tx.Rollback()

	q, args, err := qb.Insert("runs").
		Columns("id", "created_at", "verses").
		Values(id.String(), now(), len(analyses)).
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("build run insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, q, args...); err != nil {
		return uuid.Nil, fmt.Errorf("insert run: %w", err)
	}

	for i, an := range analyses {
		m := an.Meter
		q, args, err := qb.Insert("run_results").
			Columns("run_id", "position", "text", "outcome", "base_family",
				"deviation_d", "deviation_label", "full_label", "syllable_counts").
			Values(id.String(), i, an.Input, m.Outcome, nullable(m.BaseFamily),
				nullable(m.DeviationD), nullable(m.DeviationLabel), nullable(m.FullLabel), an.Features.CountsText).
			ToSql()
		if err != nil {
			return uuid.Nil, fmt.Errorf("build result insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return uuid.Nil, fmt.Errorf("insert result %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return uuid.Nil, fmt.Errorf("commit run: %w", err)
	}
	s.logger.Info("run saved", zap.Stringer("run", id), zap.Int("verses", len(analyses)))
	return id, nil
}

// RunResults returns the rows of a saved run in input order.
func (s *Store) RunResults(ctx context.Context, id uuid.UUID) ([]RunResult, error) {
	q, args, err := qb.Select("COUNT(*)").From("runs").Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build run select: %w", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	q, args, err = qb.Select("position", "text", "outcome", "base_family",
		"deviation_d", "deviation_label", "full_label", "syllable_counts").
		From("run_results").
		Where(sq.Eq{"run_id": id.String()}).
		OrderBy("position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build results select: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []RunResult
	for rows.Next() {
		var (
			r                      RunResult
			family, devLabel, full sql.NullString
			devD                   sql.NullInt64
		)
		if err := rows.Scan(&r.Position, &r.Text, &r.Outcome, &family, &devD, &devLabel, &full, &r.SyllableCounts); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.BaseFamily = nullString(family)
		r.DeviationLabel = nullString(devLabel)
		r.FullLabel = nullString(full)
		if devD.Valid {
			d := int(devD.Int64)
			r.DeviationD = &d
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return out, nil
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
