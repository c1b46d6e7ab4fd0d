package weekgo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// memRepo keeps the last saved plan in memory.
type memRepo struct {
	plan    *Plan
	saveErr error
	loadErr error
}

func (r *memRepo) SavePlan(_ context.Context, p Plan) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.plan = &p
	return nil
}

func (r *memRepo) LoadPlan(_ context.Context) (Plan, error) {
	if r.loadErr != nil {
		return Plan{}, r.loadErr
	}
	if r.plan == nil {
		return Plan{}, ErrNoPlan
	}
	return *r.plan, nil
}

func newTestPlanner(repo PlanRepo) *Planner {
	return NewPlanner(repo, log.New(io.Discard))
}

func add(t *testing.T, p *Planner, d Weekday, description, start string, hours, minutes int) Task {
	t.Helper()
	task, err := p.AddOrEdit(AddOrEditRequest{
		Weekday:         d,
		Description:     description,
		Start:           start,
		DurationHours:   hours,
		DurationMinutes: minutes,
	})
	if err != nil {
		t.Fatalf("AddOrEdit(%s %s): %v", description, start, err)
	}
	return task
}

func TestAddOrEdit(t *testing.T) {
	p := newTestPlanner(&memRepo{})
	add(t, p, Monday, "lunch", "12:00", 1, 0)
	add(t, p, Monday, "standup", "09:00", 0, 15)

	edited, err := p.AddOrEdit(AddOrEditRequest{
		Weekday:         Monday,
		Description:     "standup",
		Start:           "09:00",
		DurationMinutes: 30,
		Editing:         &TaskRef{Weekday: Monday, Index: 0},
	})
	if err != nil {
		t.Fatal(err)
	}
	view := p.ListFor(Monday)
	if len(view.Tasks) != 2 || view.Tasks[0].ID != edited.ID {
		t.Fatalf("Monday = %v", descriptions(view.Tasks))
	}
	if view.Total != 90*time.Minute {
		t.Errorf("Total = %s", view.Total)
	}

	moved, err := p.AddOrEdit(AddOrEditRequest{
		Weekday:         Friday,
		Description:     "lunch",
		Start:           "12:30",
		DurationHours:   1,
		DurationMinutes: 0,
		Editing:         &TaskRef{Weekday: Monday, Index: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	if moved.Weekday != Friday {
		t.Errorf("moved to %s", moved.Weekday)
	}
	if got := descriptions(p.ListFor(Monday).Tasks); !equalStrings(got, []string{"standup"}) {
		t.Errorf("Monday = %v", got)
	}
	if got := descriptions(p.ListFor(Friday).Tasks); !equalStrings(got, []string{"lunch"}) {
		t.Errorf("Friday = %v", got)
	}
}

func TestAddOrEditRejectsBeforeMutation(t *testing.T) {
	p := newTestPlanner(&memRepo{})
	add(t, p, Tuesday, "gym", "07:00", 1, 0)
	add(t, p, Wednesday, "gym", "07:00", 1, 0)

	tests := []struct {
		name string
		req  AddOrEditRequest
		want error
	}{
		{"bad start", AddOrEditRequest{Weekday: Tuesday, Description: "x", Start: "25:00", DurationHours: 1}, ErrValidation},
		{"empty description", AddOrEditRequest{Weekday: Tuesday, Start: "10:00", DurationHours: 1}, ErrValidation},
		{"overlap", AddOrEditRequest{Weekday: Tuesday, Description: "x", Start: "07:30", DurationHours: 1}, ErrOverlap},
		{"stale ref", AddOrEditRequest{Weekday: Tuesday, Description: "x", Start: "10:00", DurationHours: 1, Editing: &TaskRef{Weekday: Tuesday, Index: 3}}, ErrNotFound},
		{"move onto overlap", AddOrEditRequest{Weekday: Wednesday, Description: "x", Start: "07:00", DurationHours: 1, Editing: &TaskRef{Weekday: Tuesday, Index: 0}}, ErrOverlap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := p.AddOrEdit(tt.req); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if p.ListFor(Tuesday).Tasks[0].Description != "gym" || len(p.ListFor(Tuesday).Tasks) != 1 {
		t.Errorf("Tuesday = %v", descriptions(p.ListFor(Tuesday).Tasks))
	}
	if len(p.ListFor(Wednesday).Tasks) != 1 {
		t.Errorf("Wednesday = %v", descriptions(p.ListFor(Wednesday).Tasks))
	}
}

func TestPlannerRemoveAndCopy(t *testing.T) {
	p := newTestPlanner(&memRepo{})
	add(t, p, Monday, "gym", "07:00", 1, 0)
	add(t, p, Monday, "work", "09:00", 8, 0)

	if err := p.Copy(Monday, Tuesday); err != nil {
		t.Fatal(err)
	}
	if err := p.Copy(Monday, Tuesday); !errors.Is(err, ErrOverlap) {
		t.Errorf("second copy error = %v, want ErrOverlap", err)
	}

	removed, err := p.Remove(TaskRef{Weekday: Tuesday, Index: 1})
	if err != nil {
		t.Fatal(err)
	}
	if removed.Description != "work" {
		t.Errorf("removed %s", removed)
	}
	if _, err := p.Remove(TaskRef{Weekday: Tuesday, Index: 1}); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}

	week := p.Week()
	if len(week) != 7 || week[0].Weekday != Monday || week[6].Weekday != Sunday {
		t.Fatalf("Week() = %+v", week)
	}
	if week[0].Total != 9*time.Hour || week[1].Total != time.Hour || week[2].Total != 0 {
		t.Errorf("totals = %s, %s, %s", week[0].Total, week[1].Total, week[2].Total)
	}
}

func TestSaveAndLoad(t *testing.T) {
	repo := &memRepo{}
	p := newTestPlanner(repo)
	add(t, p, Thursday, "gym", "07:00", 1, 0)
	p.Store().collectDue(time.Date(2024, 1, 4, 7, 30, 0, 0, time.Local))

	if err := p.Save(context.Background()); err != nil {
		t.Fatal(err)
	}
	if repo.plan == nil || repo.plan.SavedAt.IsZero() {
		t.Fatalf("saved plan = %+v", repo.plan)
	}

	loaded := newTestPlanner(repo)
	store, err := loaded.LoadOrDefault(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if store != loaded.Store() {
		t.Error("LoadOrDefault returned a different store")
	}
	tasks := store.ListFor(Thursday)
	if len(tasks) != 1 || !tasks[0].NotifiedStart || tasks[0].NotifiedEnd {
		t.Errorf("loaded %+v", tasks)
	}
}

func TestLoadOrDefault(t *testing.T) {
	t.Run("missing plan empties the store", func(t *testing.T) {
		p := newTestPlanner(&memRepo{})
		add(t, p, Monday, "gym", "07:00", 1, 0)
		before := p.Store()

		store, err := p.LoadOrDefault(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if store != before {
			t.Error("store pointer changed")
		}
		for _, d := range Weekdays {
			if store.Len(d) != 0 {
				t.Errorf("%s has %d tasks", d, store.Len(d))
			}
		}
	})

	t.Run("load error keeps the store", func(t *testing.T) {
		repo := &memRepo{loadErr: &CorruptDataError{Err: fmt.Errorf("bad yaml")}}
		p := newTestPlanner(repo)
		add(t, p, Monday, "gym", "07:00", 1, 0)

		if _, err := p.LoadOrDefault(context.Background()); !errors.Is(err, ErrCorruptData) {
			t.Errorf("error = %v, want ErrCorruptData", err)
		}
		if p.Store().Len(Monday) != 1 {
			t.Error("store was changed on load failure")
		}
	})

	t.Run("invalid plan keeps the store", func(t *testing.T) {
		repo := &memRepo{plan: &Plan{Version: PlanVersion, Days: map[Weekday][]TaskRecord{
			Monday: {
				{Description: "a", Start: "09:00", End: "10:00", Weekday: Monday},
				{Description: "b", Start: "09:30", End: "10:30", Weekday: Monday},
			},
		}}}
		p := newTestPlanner(repo)
		add(t, p, Sunday, "rest", "10:00", 8, 0)

		if _, err := p.LoadOrDefault(context.Background()); !errors.Is(err, ErrCorruptData) {
			t.Errorf("error = %v, want ErrCorruptData", err)
		}
		if p.Store().Len(Sunday) != 1 || p.Store().Len(Monday) != 0 {
			t.Error("store was changed on restore failure")
		}
	})
}

func TestSaveSurfacesIoError(t *testing.T) {
	repo := &memRepo{saveErr: &IoError{Op: "write plan", Err: errors.New("disk full")}}
	p := newTestPlanner(repo)
	if err := p.Save(context.Background()); !errors.Is(err, ErrIO) {
		t.Errorf("error = %v, want ErrIO", err)
	}
}

func TestPlannerScannerFollowsLoad(t *testing.T) {
	repo := &memRepo{}
	seed := newTestPlanner(repo)
	add(t, seed, Monday, "standup", "09:00", 0, 30)
	if err := seed.Save(context.Background()); err != nil {
		t.Fatal(err)
	}

	p := newTestPlanner(repo)
	sink := &recordingSink{}
	scanner := NewScanner(p.Store(), sink, log.New(io.Discard))
	if _, err := p.LoadOrDefault(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := scanner.ScanAt(monday(9, 0)); len(got) != 1 {
		t.Errorf("scanner created before load saw %d events, want 1", len(got))
	}
}
