package weekgo

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Weekdays lists every weekday in ordinal order.
var Weekdays = [7]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var weekdayAliases = map[string]Weekday{
	"mon": Monday, "tue": Tuesday, "wed": Wednesday, "thu": Thursday,
	"fri": Friday, "sat": Saturday, "sun": Sunday,
	"月": Monday, "火": Tuesday, "水": Wednesday, "木": Thursday,
	"金": Friday, "土": Saturday, "日": Sunday,
}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Short returns the three letter abbreviation, e.g. "Mon".
func (d Weekday) Short() string {
	return d.String()[:3]
}

// ParseWeekday accepts full English names, three letter abbreviations and
// single-character Japanese names, case-insensitively.
func ParseWeekday(s string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, name := range weekdayNames {
		if strings.ToLower(name) == key {
			return Weekday(i), nil
		}
	}
	// "日曜日" and "日曜" style names
	key = strings.TrimSuffix(strings.TrimSuffix(key, "曜日"), "曜")
	if d, ok := weekdayAliases[key]; ok {
		return d, nil
	}
	return 0, &ValidationError{Field: "weekday", Reason: fmt.Sprintf("unknown weekday %q", s)}
}

// WeekdayOf converts a time to its Monday-based Weekday.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

func (d Weekday) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("marshal weekday %d: %w", int(d), ErrInvalidArgument)
	}
	return []byte(strings.ToLower(d.String())), nil
}

func (d *Weekday) UnmarshalText(b []byte) error {
	parsed, err := ParseWeekday(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Clock is a time of day in minutes since midnight. Computed end clocks may
// run past 24:00.
type Clock int

const minutesPerDay = 24 * 60

// ParseClock parses a 24-hour "HH:MM" start time.
func ParseClock(s string) (Clock, error) {
	c, err := parseHHMM(s, "start", 2)
	if err != nil {
		return 0, err
	}
	if c >= minutesPerDay {
		return 0, &ValidationError{Field: "start", Reason: fmt.Sprintf("%q is not a 24-hour clock time", s)}
	}
	return c, nil
}

// parseEndClock parses a stored end time, which may run past 24:00 by any
// number of hours.
func parseEndClock(s string) (Clock, error) {
	return parseHHMM(s, "end", 0)
}

// parseHHMM accepts only ASCII digits around the colon. maxHourDigits of 0
// leaves the hour width unbounded.
func parseHHMM(s, field string, maxHourDigits int) (Clock, error) {
	invalid := &ValidationError{Field: field, Reason: fmt.Sprintf("%q is not a valid HH:MM time", s)}
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || !isDigits(h) || len(m) != 2 || !isDigits(m) {
		return 0, invalid
	}
	if maxHourDigits > 0 && len(h) > maxHourDigits {
		return 0, invalid
	}
	hours, err := strconv.Atoi(h)
	if err != nil {
		return 0, invalid
	}
	minutes, _ := strconv.Atoi(m)
	if minutes > 59 {
		return 0, invalid
	}
	return Clock(hours*60 + minutes), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func (c Clock) Hour() int   { return int(c) / 60 }
func (c Clock) Minute() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// On anchors the clock to the calendar day of t.
func (c Clock) On(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, t.Location()).Add(time.Duration(c) * time.Minute)
}

// Task is a single scheduled activity on a weekday. Tasks are replaced, not
// edited; only the scanner flips the notification flags.
type Task struct {
	ID            uuid.UUID
	Description   string
	Start         Clock
	End           Clock
	Weekday       Weekday
	NotifiedStart bool
	NotifiedEnd   bool
}

// NewTask validates its input and computes the end time once.
func NewTask(description, start string, durationHours, durationMinutes int, weekday Weekday) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, &ValidationError{Field: "description", Reason: "description is required"}
	}
	if !weekday.Valid() {
		return Task{}, &ValidationError{Field: "weekday", Reason: fmt.Sprintf("invalid weekday %d", int(weekday))}
	}
	s, err := ParseClock(start)
	if err != nil {
		return Task{}, err
	}
	if durationHours < 0 || durationMinutes < 0 {
		return Task{}, &ValidationError{Field: "duration", Reason: "duration must not be negative"}
	}
	if durationMinutes >= 60 {
		return Task{}, &ValidationError{Field: "duration", Reason: "duration minutes must be less than 60"}
	}
	total := durationHours*60 + durationMinutes
	if total == 0 {
		return Task{}, &ValidationError{Field: "duration", Reason: "duration must be positive"}
	}

	return Task{
		ID:          uuid.New(),
		Description: description,
		Start:       s,
		End:         s + Clock(total),
		Weekday:     weekday,
	}, nil
}

// OverlapsWith reports whether both tasks share a weekday and their
// half-open [Start, End) intervals intersect.
func (t Task) OverlapsWith(other Task) bool {
	return t.Weekday == other.Weekday && !(t.End <= other.Start || t.Start >= other.End)
}

func (t Task) Duration() time.Duration {
	return time.Duration(t.End-t.Start) * time.Minute
}

// DurationParts splits the duration into the hours and minutes it was
// entered as.
func (t Task) DurationParts() (hours, minutes int) {
	d := int(t.End - t.Start)
	return d / 60, d % 60
}

// CopyTo returns a fresh task on another weekday with reset notification
// flags.
func (t Task) CopyTo(weekday Weekday) Task {
	return Task{
		ID:          uuid.New(),
		Description: t.Description,
		Start:       t.Start,
		End:         t.End,
		Weekday:     weekday,
	}
}

func (t Task) String() string {
	return fmt.Sprintf("%s (%s - %s)", t.Description, t.Start, t.End)
}

// FormatDuration renders a duration as e.g. "2h 05m".
func FormatDuration(d time.Duration) string {
	mins := int(d / time.Minute)
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}
