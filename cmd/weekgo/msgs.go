package main

import (
	"github.com/benjamonnguyen/weekgo"
)

// NotificationMsg is posted by the scanner through tea.Program.Send.
type NotificationMsg struct {
	kind weekgo.NotificationKind
	task weekgo.Task
}

type SavedMsg struct{}

type EndProgramMsg struct {
	save bool
}

type ErrorMsg struct {
	err error
}
