package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// masteryRepo implements MasteryRepo over SQLite.
type masteryRepo struct {
	db *sql.DB
}

func (r *masteryRepo) Mark(ctx context.Context, courseID, lessonID string, indices []int, at time.Time) error {
	if len(indices) == 0 {
		return nil
	}
	ins := builder().Insert("mastery").
		Columns("course_id", "lesson_id", "item_index", "learned_at").
		OnConflict(
			entsql.ConflictColumns("course_id", "lesson_id", "item_index"),
			entsql.DoNothing(),
		)
	for _, i := range indices {
		if i < 0 {
			return fmt.Errorf("negative item index %d", i)
		}
		ins.Values(courseID, lessonID, i, at.UnixMilli())
	}
	if _, err := execBuilt(ctx, r.db, ins); err != nil {
		return fmt.Errorf("mark mastered: %w", err)
	}
	return nil
}

func (r *masteryRepo) Forget(ctx context.Context, courseID, lessonID string, indices []int) error {
	where := entsql.And(
		entsql.EQ("course_id", courseID),
		entsql.EQ("lesson_id", lessonID),
	)
	if len(indices) > 0 {
		args := make([]any, len(indices))
		for i, idx := range indices {
			args[i] = idx
		}
		where = entsql.And(where, entsql.In("item_index", args...))
	}
	if _, err := execBuilt(ctx, r.db, builder().Delete("mastery").Where(where)); err != nil {
		return fmt.Errorf("forget mastered: %w", err)
	}
	return nil
}

func (r *masteryRepo) MasteredIndices(ctx context.Context, courseID, lessonID string) (map[int]bool, error) {
	sel := builder().Select("item_index").
		From(entsql.Table("mastery")).
		Where(entsql.And(
			entsql.EQ("course_id", courseID),
			entsql.EQ("lesson_id", lessonID),
		))
	rows, err := queryBuilt(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query mastery: %w", err)
	}
	defer rows.Close()

	out := make(map[int]bool)
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("scan mastery: %w", err)
		}
		out[idx] = true
	}
	return out, rows.Err()
}

func (r *masteryRepo) DeleteCourse(ctx context.Context, courseID string) error {
	return deleteCourseMastery(ctx, r.db, courseID)
}

func deleteCourseMastery(ctx context.Context, q querier, courseID string) error {
	del := builder().Delete("mastery").Where(entsql.EQ("course_id", courseID))
	if _, err := execBuilt(ctx, q, del); err != nil {
		return fmt.Errorf("clear mastery: %w", err)
	}
	return nil
}

// MasteryQuery adapts a MasteryRepo to the synchronous lookup the planner
// uses. Lookup errors are logged and read as "nothing mastered".
type MasteryQuery struct {
	Ctx    context.Context
	Repo   MasteryRepo
	Logger *slog.Logger
}

// MasteredIndices implements vocab.MasteryQuery.
func (q MasteryQuery) MasteredIndices(courseID, lessonID string) map[int]bool {
	ctx := q.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	m, err := q.Repo.MasteredIndices(ctx, courseID, lessonID)
	if err != nil {
		if q.Logger != nil {
			q.Logger.Warn("mastery lookup failed", "course", courseID, "lesson", lessonID, "error", err)
		}
		return nil
	}
	return m
}
