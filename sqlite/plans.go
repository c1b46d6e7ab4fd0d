package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"

	"github.com/benjamonnguyen/weekgo"
)

const (
	SelectAll = "SELECT id, weekday, description, start_time, end_time, notified_start, notified_end FROM week_tasks ORDER BY weekday, position"
)

// Transactor runs fn in a transaction carried by its context.
type Transactor interface {
	WithinTransaction(context.Context, func(context.Context) error) error
}

type taskEntity struct {
	ID            string
	Weekday       int
	Description   string
	StartTime     string
	EndTime       string
	NotifiedStart bool
	NotifiedEnd   bool
}

// planRepo keeps one plan. Saving replaces every row in a single
// transaction; plan_saves records the version and time of the last save.
type planRepo struct {
	tx       Transactor
	dbGetter txStdLib.DBGetter
	l        weekgo.Logger
}

var _ weekgo.PlanRepo = (*planRepo)(nil)

func NewPlanRepo(tx Transactor, dbGetter txStdLib.DBGetter, logger weekgo.Logger) weekgo.PlanRepo {
	return &planRepo{
		tx:       tx,
		dbGetter: dbGetter,
		l:        logger,
	}
}

func (r *planRepo) SavePlan(ctx context.Context, p weekgo.Plan) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		db := r.dbGetter(ctx)
		if _, err := db.ExecContext(ctx, "DELETE FROM week_tasks"); err != nil {
			return &weekgo.IoError{Op: "clear tasks", Err: err}
		}

		var count int
		for _, d := range weekgo.Weekdays {
			for i, rec := range p.Days[d] {
				e := mapToTaskEntity(rec)
				args := []any{
					e.ID,
					e.Weekday,
					i,
					e.Description,
					e.StartTime,
					e.EndTime,
					e.NotifiedStart,
					e.NotifiedEnd,
				}
				query := "INSERT INTO week_tasks (id, weekday, position, description, start_time, end_time, notified_start, notified_end) VALUES " + generateParameters(len(args))
				if _, err := db.ExecContext(ctx, query, args...); err != nil {
					return &weekgo.IoError{Op: fmt.Sprintf("insert task %s", e.ID), Err: err}
				}
				count++
			}
		}

		if _, err := db.ExecContext(ctx, "DELETE FROM plan_saves"); err != nil {
			return &weekgo.IoError{Op: "clear plan saves", Err: err}
		}
		args := []any{p.Version, p.SavedAt.Unix()}
		query := "INSERT INTO plan_saves (version, saved_at) VALUES " + generateParameters(len(args))
		if _, err := db.ExecContext(ctx, query, args...); err != nil {
			return &weekgo.IoError{Op: "record plan save", Err: err}
		}

		r.l.Debug("saved plan", "tasks", count, "savedAt", p.SavedAt)
		return nil
	})
}

// LoadPlan returns weekgo.ErrNoPlan until the first SavePlan.
func (r *planRepo) LoadPlan(ctx context.Context) (weekgo.Plan, error) {
	var p weekgo.Plan
	err := r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		db := r.dbGetter(ctx)

		var savedAt int64
		row := db.QueryRowContext(ctx, "SELECT version, saved_at FROM plan_saves ORDER BY id DESC LIMIT 1")
		if err := row.Scan(&p.Version, &savedAt); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return weekgo.ErrNoPlan
			}
			return &weekgo.CorruptDataError{Err: fmt.Errorf("read plan save: %w", err)}
		}
		p.SavedAt = time.Unix(savedAt, 0).Local()

		rows, err := db.QueryContext(ctx, SelectAll)
		if err != nil {
			return fmt.Errorf("query tasks: %w", err)
		}
		p.Days, err = extractDays(rows)
		return err
	})
	if err != nil {
		return weekgo.Plan{}, err
	}

	r.l.Debug("loaded plan", "savedAt", p.SavedAt)
	return p, nil
}

func extractDays(rows *sql.Rows) (map[weekgo.Weekday][]weekgo.TaskRecord, error) {
	defer rows.Close() //nolint:errcheck

	days := make(map[weekgo.Weekday][]weekgo.TaskRecord, len(weekgo.Weekdays))
	for _, d := range weekgo.Weekdays {
		days[d] = []weekgo.TaskRecord{}
	}
	for rows.Next() {
		rec, err := extractTask(rows)
		if err != nil {
			return nil, err
		}
		days[rec.Weekday] = append(days[rec.Weekday], rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &weekgo.CorruptDataError{Err: err}
	}
	return days, nil
}

func extractTask(s scannable) (weekgo.TaskRecord, error) {
	var e taskEntity
	if err := s.Scan(&e.ID, &e.Weekday, &e.Description, &e.StartTime, &e.EndTime, &e.NotifiedStart, &e.NotifiedEnd); err != nil {
		return weekgo.TaskRecord{}, &weekgo.CorruptDataError{Err: fmt.Errorf("scan task: %w", err)}
	}
	if !weekgo.Weekday(e.Weekday).Valid() {
		return weekgo.TaskRecord{}, &weekgo.CorruptDataError{Err: fmt.Errorf("task %s has invalid weekday %d", e.ID, e.Weekday)}
	}
	return mapToTaskRecord(e), nil
}

func mapToTaskEntity(rec weekgo.TaskRecord) taskEntity {
	return taskEntity{
		ID:            rec.ID,
		Weekday:       int(rec.Weekday),
		Description:   rec.Description,
		StartTime:     rec.Start,
		EndTime:       rec.End,
		NotifiedStart: rec.NotifiedStart,
		NotifiedEnd:   rec.NotifiedEnd,
	}
}

func mapToTaskRecord(e taskEntity) weekgo.TaskRecord {
	return weekgo.TaskRecord{
		ID:            e.ID,
		Weekday:       weekgo.Weekday(e.Weekday),
		Description:   e.Description,
		Start:         e.StartTime,
		End:           e.EndTime,
		NotifiedStart: e.NotifiedStart,
		NotifiedEnd:   e.NotifiedEnd,
	}
}
