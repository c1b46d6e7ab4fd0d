package weekgo

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// WeekStore holds the tasks of each weekday. Within a weekday no two tasks
// overlap. One mutex guards the whole store, shared by foreground edits and
// the notification scanner.
//
// Indexes passed to Replace, Move and Remove are positions in ListFor order.
type WeekStore struct {
	mu   sync.Mutex
	days [7][]*Task
}

func NewWeekStore() *WeekStore {
	return &WeekStore{}
}

// ListFor returns copies of the day's tasks sorted by start time, stable on
// insertion order.
func (s *WeekStore) ListFor(d Weekday) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !d.Valid() {
		return nil
	}
	order := s.sortedSlots(d)
	tasks := make([]Task, 0, len(order))
	for _, slot := range order {
		tasks = append(tasks, *s.days[d][slot])
	}
	return tasks
}

// TotalFor sums the durations of every task on the day.
func (s *WeekStore) TotalFor(d Weekday) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !d.Valid() {
		return 0
	}
	var total time.Duration
	for _, t := range s.days[d] {
		total += t.Duration()
	}
	return total
}

func (s *WeekStore) Len(d Weekday) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !d.Valid() {
		return 0
	}
	return len(s.days[d])
}

// Insert appends the task to its weekday unless it overlaps an existing one.
func (s *WeekStore) Insert(t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !t.Weekday.Valid() {
		return fmt.Errorf("insert on weekday %d: %w", int(t.Weekday), ErrInvalidArgument)
	}
	if err := s.checkOverlap(t, -1); err != nil {
		return err
	}
	s.days[t.Weekday] = append(s.days[t.Weekday], &t)
	return nil
}

// Replace overwrites the task at index, validating against the other tasks
// of the day. The storage slot is kept.
func (s *WeekStore) Replace(d Weekday, index int, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.resolve(d, index)
	if err != nil {
		return err
	}
	if t.Weekday != d {
		return fmt.Errorf("replace %s task with one on %s: %w", d, t.Weekday, ErrInvalidArgument)
	}
	if err := s.checkOverlap(t, slot); err != nil {
		return err
	}
	s.days[d][slot] = &t
	return nil
}

// Move replaces the task at index on from with t, which belongs to another
// weekday. Either both the removal and the insert happen or neither does.
func (s *WeekStore) Move(from Weekday, index int, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.resolve(from, index)
	if err != nil {
		return err
	}
	if !t.Weekday.Valid() || t.Weekday == from {
		return fmt.Errorf("move %s task to %s: %w", from, t.Weekday, ErrInvalidArgument)
	}
	if err := s.checkOverlap(t, -1); err != nil {
		return err
	}
	s.days[from] = slices.Delete(s.days[from], slot, slot+1)
	s.days[t.Weekday] = append(s.days[t.Weekday], &t)
	return nil
}

// Remove deletes and returns the task at index.
func (s *WeekStore) Remove(d Weekday, index int) (Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, err := s.resolve(d, index)
	if err != nil {
		return Task{}, err
	}
	removed := *s.days[d][slot]
	s.days[d] = slices.Delete(s.days[d], slot, slot+1)
	return removed, nil
}

// CopyDay copies every task of source onto target as fresh tasks. If any
// copy would overlap a task already on target, nothing is copied.
func (s *WeekStore) CopyDay(source, target Weekday) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !source.Valid() || !target.Valid() {
		return fmt.Errorf("copy %s to %s: %w", source, target, ErrInvalidArgument)
	}
	if source == target {
		return fmt.Errorf("copy %s onto itself: %w", source, ErrInvalidArgument)
	}

	copies := make([]*Task, 0, len(s.days[source]))
	for _, slot := range s.sortedSlots(source) {
		c := s.days[source][slot].CopyTo(target)
		if err := s.checkOverlap(c, -1); err != nil {
			return err
		}
		copies = append(copies, &c)
	}
	s.days[target] = append(s.days[target], copies...)
	return nil
}

// resolve maps a listing index to a storage slot.
func (s *WeekStore) resolve(d Weekday, index int) (int, error) {
	if !d.Valid() {
		return 0, fmt.Errorf("weekday %d: %w", int(d), ErrInvalidArgument)
	}
	if index < 0 || index >= len(s.days[d]) {
		return 0, fmt.Errorf("task %d on %s: %w", index, d, ErrNotFound)
	}
	return s.sortedSlots(d)[index], nil
}

func (s *WeekStore) sortedSlots(d Weekday) []int {
	slots := make([]int, len(s.days[d]))
	for i := range slots {
		slots[i] = i
	}
	slices.SortStableFunc(slots, func(a, b int) int {
		return int(s.days[d][a].Start) - int(s.days[d][b].Start)
	})
	return slots
}

// checkOverlap compares t against its weekday, skipping storage slot skip.
func (s *WeekStore) checkOverlap(t Task, skip int) error {
	for i, existing := range s.days[t.Weekday] {
		if i == skip {
			continue
		}
		if t.OverlapsWith(*existing) {
			return &OverlapError{Candidate: t, Conflict: *existing}
		}
	}
	return nil
}

// reset takes over the contents of other, which must not be shared.
func (s *WeekStore) reset(other *WeekStore) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.days = other.days
}

// Snapshot captures every day in listing order, notification flags included.
func (s *WeekStore) Snapshot() Plan {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := Plan{
		Version: PlanVersion,
		Days:    make(map[Weekday][]TaskRecord, len(Weekdays)),
	}
	for _, d := range Weekdays {
		records := make([]TaskRecord, 0, len(s.days[d]))
		for _, slot := range s.sortedSlots(d) {
			records = append(records, recordFromTask(*s.days[d][slot]))
		}
		p.Days[d] = records
	}
	return p
}

// collectDue flips the flags of today's tasks whose boundary has been
// crossed at now and returns the resulting notifications. At most one
// transition per task per call.
func (s *WeekStore) collectDue(now time.Time) []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := WeekdayOf(now)
	var due []Notification
	for _, slot := range s.sortedSlots(today) {
		t := s.days[today][slot]
		// Ends past midnight wrap onto today's date, so they fall due on the
		// first scan after the start.
		start, end := t.Start.On(now), (t.End % minutesPerDay).On(now)
		if !now.Before(start) && !t.NotifiedStart {
			t.NotifiedStart = true
			due = append(due, Notification{Kind: NotifyStart, Task: *t, At: now})
		} else if !now.Before(end) && !t.NotifiedEnd {
			t.NotifiedEnd = true
			due = append(due, Notification{Kind: NotifyEnd, Task: *t, At: now})
		}
	}
	return due
}
