package weekgo

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const PlanVersion = 1

// PlanRepo stores a whole Plan at once. LoadPlan returns ErrNoPlan if
// nothing was ever saved.
type PlanRepo interface {
	SavePlan(context.Context, Plan) error
	LoadPlan(context.Context) (Plan, error)
}

// Codec turns a Plan into a single blob and back.
type Codec interface {
	Encode(Plan) ([]byte, error)
	Decode([]byte) (Plan, error)
}

// Plan is the persisted form of a WeekStore.
type Plan struct {
	Version int                      `yaml:"version"`
	SavedAt time.Time                `yaml:"saved_at"`
	Days    map[Weekday][]TaskRecord `yaml:"days"`
}

type TaskRecord struct {
	ID            string  `yaml:"id"`
	Description   string  `yaml:"description"`
	Start         string  `yaml:"start"`
	End           string  `yaml:"end"`
	Weekday       Weekday `yaml:"weekday"`
	NotifiedStart bool    `yaml:"notified_start"`
	NotifiedEnd   bool    `yaml:"notified_end"`
}

func recordFromTask(t Task) TaskRecord {
	return TaskRecord{
		ID:            t.ID.String(),
		Description:   t.Description,
		Start:         t.Start.String(),
		End:           t.End.String(),
		Weekday:       t.Weekday,
		NotifiedStart: t.NotifiedStart,
		NotifiedEnd:   t.NotifiedEnd,
	}
}

func (r TaskRecord) toTask() (Task, error) {
	if r.Description == "" {
		return Task{}, corrupt("task %q has no description", r.ID)
	}
	if !r.Weekday.Valid() {
		return Task{}, corrupt("task %q has invalid weekday %d", r.ID, int(r.Weekday))
	}
	start, err := ParseClock(r.Start)
	if err != nil {
		return Task{}, corrupt("task %q start: %w", r.ID, err)
	}
	end, err := parseEndClock(r.End)
	if err != nil {
		return Task{}, corrupt("task %q end: %w", r.ID, err)
	}
	if end <= start {
		return Task{}, corrupt("task %q ends at %s before it starts at %s", r.ID, end, start)
	}

	id, err := uuid.Parse(r.ID)
	if err != nil {
		id = uuid.New()
	}
	return Task{
		ID:            id,
		Description:   r.Description,
		Start:         start,
		End:           end,
		Weekday:       r.Weekday,
		NotifiedStart: r.NotifiedStart,
		NotifiedEnd:   r.NotifiedEnd,
	}, nil
}

// RestoreStore rebuilds a WeekStore from a Plan. Anything that would break
// the store's invariants is reported as a CorruptDataError.
func RestoreStore(p Plan) (*WeekStore, error) {
	if p.Version > PlanVersion {
		return nil, corrupt("plan version %d is newer than supported version %d", p.Version, PlanVersion)
	}

	s := NewWeekStore()
	for d, records := range p.Days {
		if !d.Valid() {
			return nil, corrupt("invalid weekday key %d", int(d))
		}
		for _, r := range records {
			t, err := r.toTask()
			if err != nil {
				return nil, err
			}
			if t.Weekday != d {
				return nil, corrupt("task %q is filed under %s but scheduled on %s", r.ID, d, t.Weekday)
			}
			if err := s.Insert(t); err != nil {
				return nil, &CorruptDataError{Err: err}
			}
		}
	}
	return s, nil
}
