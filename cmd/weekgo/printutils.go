package main

import (
	"fmt"
	"strings"

	"github.com/benjamonnguyen/weekgo"
	"github.com/charmbracelet/lipgloss"
)

const (
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorReset  = "\033[0m"
	dash        = '─'
)

var (
	faintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Bold(false)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("221")).Bold(true)
)

func line(length int) string {
	var sb strings.Builder
	for range length {
		sb.WriteRune(dash)
	}
	return sb.String()
}

func colorize(color string, s string) string {
	return color + s + colorReset
}

func renderTabs(selected weekgo.Weekday) string {
	tabs := make([]string, 0, len(weekgo.Weekdays))
	for _, d := range weekgo.Weekdays {
		if d == selected {
			tabs = append(tabs, selectedStyle.Render("["+d.Short()+"]"))
		} else {
			tabs = append(tabs, faintStyle.Render(" "+d.Short()+" "))
		}
	}
	return strings.Join(tabs, " ")
}

// formatTask renders a task with its 1-based listing number.
func formatTask(n int, t weekgo.Task) string {
	s := fmt.Sprintf("%2d. %s - %s  %s", n, t.Start, t.End, t.Description)
	switch {
	case t.NotifiedEnd:
		return faintStyle.Render(s + " (done)")
	case t.NotifiedStart:
		return colorize(colorGreen, s+" (in progress)")
	}
	return s
}

func renderDay(v weekgo.DayView) string {
	header := fmt.Sprintf("%s  total %s", v.Weekday, weekgo.FormatDuration(v.Total))
	lines := []string{
		header,
		line(lipgloss.Width(header)),
	}
	if len(v.Tasks) == 0 {
		lines = append(lines, faintStyle.Render("  no tasks"))
	}
	for i, t := range v.Tasks {
		lines = append(lines, formatTask(i+1, t))
	}
	return strings.Join(lines, "\n")
}

func renderWeek(views []weekgo.DayView) string {
	days := make([]string, 0, len(views))
	for _, v := range views {
		days = append(days, renderDay(v))
	}
	return strings.Join(days, "\n\n")
}

func formatNotification(k weekgo.NotificationKind, t weekgo.Task) string {
	if k == weekgo.NotifyEnd {
		return fmt.Sprintf("Finished: %s", t)
	}
	return fmt.Sprintf("Starting: %s", t)
}
