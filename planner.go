package weekgo

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Planner is the entry point for callers: it validates input into Tasks,
// applies them to the WeekStore and persists the store through a PlanRepo.
type Planner struct {
	store *WeekStore
	repo  PlanRepo
	l     Logger
}

func NewPlanner(repo PlanRepo, logger Logger) *Planner {
	return &Planner{
		store: NewWeekStore(),
		repo:  repo,
		l:     logger,
	}
}

func (p *Planner) Store() *WeekStore {
	return p.store
}

// AddOrEdit adds a task, or replaces the task at req.Editing. Editing a task
// onto another weekday moves it.
func (p *Planner) AddOrEdit(req AddOrEditRequest) (Task, error) {
	t, err := NewTask(req.Description, req.Start, req.DurationHours, req.DurationMinutes, req.Weekday)
	if err != nil {
		p.l.Debug("rejected task", "request", req, "error", err)
		return Task{}, err
	}

	switch {
	case req.Editing == nil:
		err = p.store.Insert(t)
	case req.Editing.Weekday == t.Weekday:
		err = p.store.Replace(req.Editing.Weekday, req.Editing.Index, t)
	default:
		err = p.store.Move(req.Editing.Weekday, req.Editing.Index, t)
	}
	if err != nil {
		p.l.Warn("failed to schedule task", "task", t, "weekday", t.Weekday, "editing", req.Editing, "error", err)
		return Task{}, err
	}

	p.l.Debug("scheduled task", "task", t, "weekday", t.Weekday, "editing", req.Editing)
	return t, nil
}

func (p *Planner) Remove(ref TaskRef) (Task, error) {
	removed, err := p.store.Remove(ref.Weekday, ref.Index)
	if err != nil {
		p.l.Warn("failed to remove task", "ref", ref, "error", err)
		return Task{}, err
	}
	p.l.Debug("removed task", "task", removed, "weekday", ref.Weekday)
	return removed, nil
}

func (p *Planner) Copy(source, target Weekday) error {
	if err := p.store.CopyDay(source, target); err != nil {
		p.l.Warn("failed to copy day", "source", source, "target", target, "error", err)
		return err
	}
	p.l.Debug("copied day", "source", source, "target", target)
	return nil
}

func (p *Planner) ListFor(d Weekday) DayView {
	return DayView{
		Weekday: d,
		Tasks:   p.store.ListFor(d),
		Total:   p.store.TotalFor(d),
	}
}

// Week lists all seven days, Monday first.
func (p *Planner) Week() []DayView {
	views := make([]DayView, 0, len(Weekdays))
	for _, d := range Weekdays {
		views = append(views, p.ListFor(d))
	}
	return views
}

func (p *Planner) Save(ctx context.Context) error {
	plan := p.store.Snapshot()
	plan.SavedAt = time.Now()
	if err := p.repo.SavePlan(ctx, plan); err != nil {
		p.l.Error("failed to save plan", "error", err)
		return err
	}
	p.l.Info("saved plan", "savedAt", plan.SavedAt)
	return nil
}

// LoadOrDefault replaces the store's contents with the saved plan, or
// empties it if no plan was ever saved. On any other error the store is left
// as it was.
func (p *Planner) LoadOrDefault(ctx context.Context) (*WeekStore, error) {
	plan, err := p.repo.LoadPlan(ctx)
	if errors.Is(err, ErrNoPlan) {
		p.l.Info("no saved plan, starting empty")
		p.store.reset(NewWeekStore())
		return p.store, nil
	}
	if err != nil {
		p.l.Error("failed to load plan", "error", err)
		return p.store, err
	}

	restored, err := RestoreStore(plan)
	if err != nil {
		p.l.Error("failed to restore plan", "error", err)
		return p.store, fmt.Errorf("restore plan saved at %s: %w", plan.SavedAt.Format(time.RFC3339), err)
	}
	p.store.reset(restored)
	p.l.Info("loaded plan", "savedAt", plan.SavedAt)
	return p.store, nil
}

// StartScanner starts a Scanner over the planner's store; see Scanner.Start.
func (p *Planner) StartScanner(ctx context.Context, sink NotificationSink, opts ...ScannerOption) (stop func()) {
	return NewScanner(p.store, sink, p.l, opts...).Start(ctx)
}
