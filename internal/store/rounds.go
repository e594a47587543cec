package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// roundRepo implements RoundRepo over SQLite.
type roundRepo struct {
	db *sql.DB
}

func (r *roundRepo) AppendRound(ctx context.Context, ev RoundEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	ins := builder().Insert("round_events").
		Columns("id", "course_id", "lesson_id", "task_id", "pairs", "attempts", "started_at", "finished_at").
		Values(ev.ID, ev.CourseID, ev.LessonID, ev.TaskID, ev.Pairs, ev.Attempts,
			ev.StartedAt.UnixMilli(), ev.FinishedAt.UnixMilli())
	if _, err := execBuilt(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save round event: %w", err)
	}
	return nil
}

func (r *roundRepo) RoundSummaries(ctx context.Context, opts QueryOpts) ([]RoundEvent, error) {
	sel := builder().Select("id", "course_id", "lesson_id", "task_id", "pairs", "attempts", "started_at", "finished_at").
		From(entsql.Table("round_events")).
		OrderBy(entsql.Desc("finished_at"), entsql.Desc("id"))
	if opts.CourseID != "" {
		sel.Where(entsql.EQ("course_id", opts.CourseID))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	rows, err := queryBuilt(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query round events: %w", err)
	}
	defer rows.Close()

	var out []RoundEvent
	for rows.Next() {
		var (
			ev                RoundEvent
			started, finished int64
		)
		if err := rows.Scan(&ev.ID, &ev.CourseID, &ev.LessonID, &ev.TaskID, &ev.Pairs, &ev.Attempts, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan round event: %w", err)
		}
		ev.StartedAt = time.UnixMilli(started)
		ev.FinishedAt = time.UnixMilli(finished)
		out = append(out, ev)
	}
	return out, rows.Err()
}
