package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/lingoz/internal/practice"
	"github.com/abhisek/lingoz/internal/vocab"
)

// taskRepo implements TaskRepo over SQLite.
type taskRepo struct {
	db *sql.DB
}

func (r *taskRepo) SaveCourse(ctx context.Context, courseID string, state CourseState) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := deleteCourseTasks(ctx, tx, courseID); err != nil {
			return err
		}
		for i, t := range state.Tasks {
			ins := builder().Insert("tasks").
				Columns("course_id", "id", "position", "lesson_index", "title", "details", "status", "updated_at").
				Values(courseID, t.ID, i, t.LessonIndex, t.Title, t.Details, string(t.Status), t.UpdatedAt.UnixMilli())
			if _, err := execBuilt(ctx, tx, ins); err != nil {
				return fmt.Errorf("insert task %s: %w", t.ID, err)
			}
			if pool, ok := state.Pools[t.ID]; ok {
				if err := insertPool(ctx, tx, courseID, t.ID, pool); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (r *taskRepo) LoadCourse(ctx context.Context, courseID string) (CourseState, error) {
	state := CourseState{Pools: make(map[string][]vocab.Triple)}

	sel := builder().Select("id", "lesson_index", "title", "details", "status", "updated_at").
		From(entsql.Table("tasks")).
		Where(entsql.EQ("course_id", courseID)).
		OrderBy("position")
	rows, err := queryBuilt(ctx, r.db, sel)
	if err != nil {
		return state, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t       practice.Task
			status  string
			updated int64
		)
		if err := rows.Scan(&t.ID, &t.LessonIndex, &t.Title, &t.Details, &status, &updated); err != nil {
			return state, fmt.Errorf("scan task: %w", err)
		}
		t.CourseID = courseID
		t.Status = practice.ParseStatus(status)
		t.UpdatedAt = time.UnixMilli(updated)
		state.Tasks = append(state.Tasks, t)
	}
	if err := rows.Err(); err != nil {
		return state, fmt.Errorf("iterate tasks: %w", err)
	}

	poolSel := builder().Select("task_id", "native", "script", "phonetic").
		From(entsql.Table("task_pools")).
		Where(entsql.EQ("course_id", courseID)).
		OrderBy("task_id", "position")
	prows, err := queryBuilt(ctx, r.db, poolSel)
	if err != nil {
		return state, fmt.Errorf("query pools: %w", err)
	}
	defer prows.Close()

	for prows.Next() {
		var (
			taskID string
			tr     vocab.Triple
		)
		if err := prows.Scan(&taskID, &tr.Native, &tr.Script, &tr.Phonetic); err != nil {
			return state, fmt.Errorf("scan pool: %w", err)
		}
		state.Pools[taskID] = append(state.Pools[taskID], tr)
	}
	if err := prows.Err(); err != nil {
		return state, fmt.Errorf("iterate pools: %w", err)
	}
	return state, nil
}

func (r *taskRepo) UpdateStatus(ctx context.Context, courseID, taskID string, status practice.Status, at time.Time) error {
	upd := builder().Update("tasks").
		Set("status", string(status)).
		Set("updated_at", at.UnixMilli()).
		Where(entsql.And(
			entsql.EQ("course_id", courseID),
			entsql.EQ("id", taskID),
		))
	res, err := execBuilt(ctx, r.db, upd)
	if err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("task %s/%s: %w", courseID, taskID, ErrNotFound)
	}
	return nil
}

func (r *taskRepo) SavePools(ctx context.Context, courseID string, pools map[string][]vocab.Triple) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		for taskID, pool := range pools {
			del := builder().Delete("task_pools").
				Where(entsql.And(
					entsql.EQ("course_id", courseID),
					entsql.EQ("task_id", taskID),
				))
			if _, err := execBuilt(ctx, tx, del); err != nil {
				return fmt.Errorf("clear pool %s: %w", taskID, err)
			}
			if err := insertPool(ctx, tx, courseID, taskID, pool); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *taskRepo) DeleteCourse(ctx context.Context, courseID string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		return deleteCourseTasks(ctx, tx, courseID)
	})
}

func deleteCourseTasks(ctx context.Context, q querier, courseID string) error {
	for _, table := range []string{"task_pools", "tasks"} {
		del := builder().Delete(table).Where(entsql.EQ("course_id", courseID))
		if _, err := execBuilt(ctx, q, del); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

func insertPool(ctx context.Context, q querier, courseID, taskID string, pool []vocab.Triple) error {
	if len(pool) == 0 {
		return nil
	}
	ins := builder().Insert("task_pools").
		Columns("course_id", "task_id", "position", "native", "script", "phonetic")
	for i, tr := range pool {
		ins.Values(courseID, taskID, i, tr.Native, tr.Script, tr.Phonetic)
	}
	if _, err := execBuilt(ctx, q, ins); err != nil {
		return fmt.Errorf("insert pool %s: %w", taskID, err)
	}
	return nil
}
