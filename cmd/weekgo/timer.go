package main

import (
	"fmt"
	"time"

	"github.com/benjamonnguyen/weekgo"
	"github.com/charmbracelet/bubbles/timer"
)

// taskTimer counts down to the end of the task that last started.
type taskTimer struct {
	timer.Model
	task weekgo.Task
}

func newTaskTimer(t weekgo.Task, d time.Duration) taskTimer {
	return taskTimer{
		Model: timer.New(d),
		task:  t,
	}
}

func (t taskTimer) View() string {
	dur := ""
	if t.Timeout > time.Minute {
		dur = fmt.Sprintf("%dm", int(t.Timeout.Minutes()))
	} else {
		dur = fmt.Sprintf("%ds", int(t.Timeout.Seconds()))
	}
	return fmt.Sprintf("%q ends in %s", t.task.Description, dur)
}
