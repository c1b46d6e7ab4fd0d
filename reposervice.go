package weekgo

import "time"

// TaskRef points at a task by weekday and its position in that day's
// listing.
type TaskRef struct {
	Weekday Weekday
	Index   int
}

type AddOrEditRequest struct {
	Weekday         Weekday
	Description     string
	Start           string
	DurationHours   int
	DurationMinutes int

	// Editing is nil when adding a new task.
	Editing *TaskRef
}

// DayView is one weekday as shown to a user.
type DayView struct {
	Weekday Weekday
	Tasks   []Task
	Total   time.Duration
}
