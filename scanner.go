package weekgo

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const DefaultScanInterval = time.Minute

type NotificationKind int

const (
	NotifyStart NotificationKind = iota
	NotifyEnd
)

func (k NotificationKind) String() string {
	if k == NotifyEnd {
		return "end"
	}
	return "start"
}

type Notification struct {
	Kind NotificationKind
	Task Task
	At   time.Time
}

// NotificationSink receives boundary events from the Scanner. Notify is
// called on the scanner's goroutine; implementations that drive a UI must
// hand the event over to the UI's own goroutine and return promptly.
type NotificationSink interface {
	Notify(NotificationKind, Task) error
}

type SinkFunc func(NotificationKind, Task) error

func (f SinkFunc) Notify(k NotificationKind, t Task) error { return f(k, t) }

// Scanner periodically checks today's tasks against the wall clock and
// emits each start and end event at most once per task. Detection is
// level-triggered, so a late tick still fires a boundary it missed.
type Scanner struct {
	store    *WeekStore
	sink     NotificationSink
	l        Logger
	interval time.Duration
	now      func() time.Time
}

type ScannerOption func(*Scanner)

func WithInterval(d time.Duration) ScannerOption {
	return func(s *Scanner) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithClock replaces time.Now, for tests and simulations.
func WithClock(now func() time.Time) ScannerOption {
	return func(s *Scanner) {
		if now != nil {
			s.now = now
		}
	}
}

func NewScanner(store *WeekStore, sink NotificationSink, logger Logger, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		store:    store,
		sink:     sink,
		l:        logger,
		interval: DefaultScanInterval,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanAt runs a single tick as if the current time were now and returns the
// notifications it emitted. Flags are flipped under the store lock; the sink
// is called after the lock is released. A failed delivery is logged and the
// task stays notified.
func (s *Scanner) ScanAt(now time.Time) []Notification {
	due := s.store.collectDue(now)
	for _, n := range due {
		s.l.Debug("task boundary crossed", "kind", n.Kind, "task", n.Task.Description, "weekday", n.Task.Weekday)
		if err := s.sink.Notify(n.Kind, n.Task); err != nil {
			s.l.Warn("failed notification delivery", "kind", n.Kind, "task", n.Task.Description, "error", err)
		}
	}
	return due
}

// Start scans once right away and then every interval until ctx is done or
// stop is called. stop blocks until a running tick has finished.
func (s *Scanner) Start(ctx context.Context) (stop func()) {
	cl := cronLogger{l: s.l}
	job := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).
		Then(cron.FuncJob(func() { s.ScanAt(s.now()) }))

	c := cron.New(cron.WithLogger(cl))
	c.Schedule(cron.Every(s.interval), job)

	job.Run()
	c.Start()
	s.l.Info("started notification scanner", "interval", s.interval)

	done := make(chan struct{})
	var once sync.Once
	stop = func() {
		once.Do(func() {
			close(done)
			<-c.Stop().Done()
			s.l.Info("stopped notification scanner")
		})
	}
	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-done:
		}
	}()
	return stop
}

// cronLogger routes robfig/cron diagnostics into a Logger.
type cronLogger struct {
	l Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "error", err)...)
}
