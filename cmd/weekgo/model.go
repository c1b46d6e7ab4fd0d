package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/benjamonnguyen/weekgo"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const logo = `
	██╗    ██╗███████╗███████╗██╗  ██╗ ██████╗  ██████╗
	██║    ██║██╔════╝██╔════╝██║ ██╔╝██╔════╝ ██╔═══██╗
	██║ █╗ ██║█████╗  █████╗  █████╔╝ ██║  ███╗██║   ██║
	██║███╗██║██╔══╝  ██╔══╝  ██╔═██╗ ██║   ██║██║   ██║
	╚███╔███╔╝███████╗███████╗██║  ██╗╚██████╔╝╚██████╔╝
	 ╚══╝╚══╝ ╚══════╝╚══════╝╚═╝  ╚═╝ ╚═════╝  ╚═════╝`

const programUsage = `Usage:
  weekgo: plan today
  weekgo <day>: plan the given day (monday, mon, 月...)
  weekgo /l: print the whole week and exit`

const commandHelp = `COMMANDS:
  /d <day>: show a day (tab and shift+tab also switch days)
  /a <HH:MM> <hours> <minutes> <task>: add a task to the shown day
  /e <n> [day] <HH:MM> <hours> <minutes> <task>: replace task n; giving a day moves it
  /x <n>: remove task n
  /c <day>: copy the shown day's tasks onto another day
  /l: toggle the week view

  /w: save
  /q: save and quit
  /o: quit without saving
`

type model struct {
	// children
	vp        viewport.Model
	userinput textinput.Model
	taskTimer taskTimer

	// supplied
	l       weekgo.Logger
	planner *weekgo.Planner

	// state
	day      weekgo.Weekday
	showWeek bool
	alerts   []string
	quitting bool
	h        int

	// configuration
	cmdTimeout time.Duration
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var tiCmd, vpCmd, ttCmd, cmd tea.Cmd

	m, cmd = m.updateParent(msg)

	// update children

	m.userinput, tiCmd = m.userinput.Update(msg)
	m.taskTimer.Model, ttCmd = m.taskTimer.Update(msg)

	switch msg.(type) {
	case tea.KeyMsg:
		// vp updates on KeyMsg cause the view to flicker
	default:
		m.vp, vpCmd = m.vp.Update(msg)
	}

	return m, tea.Batch(tiCmd, vpCmd, cmd, ttCmd)
}

func (m model) updateParent(msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case ErrorMsg:
		m.addAlert(msg.err.Error(), colorRed)
		m.refresh()
		return m, nil
	case SavedMsg:
		m.addAlert("plan saved", colorCyan)
		m.refresh()
		return m, nil
	case NotificationMsg:
		cmd := m.notify(msg.kind, msg.task)
		m.refresh()
		return m, cmd
	case tea.WindowSizeMsg:
		m.h = msg.Height
		m.userinput.Width = msg.Width
		m.vp.Width = msg.Width
		m.refresh()
		return m, nil
	case EndProgramMsg:
		return m.endProgram(msg.save)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			input := strings.TrimSpace(m.userinput.Value())
			m.userinput.Reset()
			if input == "" {
				return m, nil
			}

			var cmd tea.Cmd
			m.alerts = nil
			m, cmd = m.handleInput(input)
			m.refresh()
			return m, cmd
		case tea.KeyTab:
			m.day = (m.day + 1) % weekgo.Weekday(len(weekgo.Weekdays))
			m.showWeek = false
			m.refresh()
			return m, nil
		case tea.KeyShiftTab:
			m.day = (m.day + weekgo.Weekday(len(weekgo.Weekdays)) - 1) % weekgo.Weekday(len(weekgo.Weekdays))
			m.showWeek = false
			m.refresh()
			return m, nil
		case tea.KeyCtrlC:
			return m.endProgram(true)
		}
	}
	return m, nil
}

// notify shows a scanner event. A start also counts down to the task's end.
func (m *model) notify(k weekgo.NotificationKind, t weekgo.Task) tea.Cmd {
	m.l.Debug("received notification", "kind", k, "task", t)
	m.addAlert(formatNotification(k, t), colorCyan)

	if k == weekgo.NotifyEnd {
		if m.taskTimer.task.ID == t.ID {
			m.taskTimer = taskTimer{}
		}
		return nil
	}
	d := time.Until(t.End.On(time.Now()))
	if d <= 0 {
		return nil
	}
	m.taskTimer = newTaskTimer(t, d)
	return m.taskTimer.Init()
}

func (m model) endProgram(save bool) (model, tea.Cmd) {
	m.quitting = true
	if save {
		timeout, cancel := m.newTimeout()
		defer cancel()
		if err := m.planner.Save(timeout); err != nil {
			m.l.Error("failed save on exit", "error", err)
		}
	}
	m.refresh()
	return m, tea.Quit
}

func (m model) save() tea.Msg {
	timeout, cancel := m.newTimeout()
	defer cancel()
	if err := m.planner.Save(timeout); err != nil {
		return ErrorMsg{
			err: err,
		}
	}
	return SavedMsg{}
}

func (m model) renderFooter() string {
	if m.quitting {
		return ""
	}

	var footer strings.Builder
	footer.WriteRune('\n')
	footer.WriteString(m.userinput.View())
	footer.WriteString("\n\n")

	showQuit := true
	if !m.taskTimer.Timedout() {
		footer.WriteString(m.taskTimer.View())
		footer.WriteString("\n\n")
		showQuit = false
	}

	if len(m.alerts) > 0 {
		footer.WriteString(strings.Join(m.alerts, "\n"))
		footer.WriteString("\n\n")
		showQuit = false
	}

	if showQuit {
		footer.WriteString(faintStyle.Render("(ctrl+c to save and quit)"))
		footer.WriteRune('\n')
	}

	return footer.String()
}

func (m model) renderPlan() string {
	if m.showWeek {
		return renderWeek(m.planner.Week())
	}
	return renderTabs(m.day) + "\n\n" + renderDay(m.planner.ListFor(m.day))
}

func (m model) View() string {
	return lipgloss.JoinVertical(0, m.vp.View(), m.renderFooter())
}

func (m model) newTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), m.cmdTimeout)
}

func (m *model) addAlert(alert string, c string) {
	m.alerts = append(m.alerts, colorize(c, alert))
}

func (m *model) usage(cmd string) {
	m.addAlert(commandUsage[cmd], colorYellow)
}

// refresh re-renders the plan and fits the viewport above the footer.
func (m *model) refresh() {
	plan := m.renderPlan()
	m.vp.SetContent(plan)
	footerHeight := lipgloss.Height(m.renderFooter())
	m.vp.Height = max(0, min(lipgloss.Height(plan), m.h-footerHeight))
}

func (m model) handleInput(input string) (model, tea.Cmd) {
	if !strings.HasPrefix(input, "/") {
		m.addAlert(`unknown input, enter "/h" for help`, colorYellow)
		return m, nil
	}

	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "/d":
		if len(args) == 0 {
			m.usage(cmd)
			return m, nil
		}
		d, err := weekgo.ParseWeekday(strings.Join(args, " "))
		if err != nil {
			m.addAlert(err.Error(), colorRed)
			return m, nil
		}
		m.day = d
		m.showWeek = false
		return m, nil
	case "/a":
		a, err := parseTaskArgs(args)
		if err != nil {
			m.usage(cmd)
			return m, nil
		}
		t, err := m.planner.AddOrEdit(a.request(m.day))
		if err != nil {
			m.addAlert(err.Error(), colorRed)
			return m, nil
		}
		m.addAlert(fmt.Sprintf("added %s on %s", t, t.Weekday), colorCyan)
		return m, nil
	case "/e":
		e, err := parseEditArgs(args)
		if err != nil {
			m.usage(cmd)
			return m, nil
		}
		target := m.day
		if e.hasWeekday {
			target = e.weekday
		}
		req := e.request(target)
		req.Editing = &weekgo.TaskRef{Weekday: m.day, Index: e.index}
		t, err := m.planner.AddOrEdit(req)
		if err != nil {
			m.addAlert(err.Error(), colorRed)
			return m, nil
		}
		m.addAlert(fmt.Sprintf("updated %s on %s", t, t.Weekday), colorCyan)
		return m, nil
	case "/x":
		if len(args) != 1 {
			m.usage(cmd)
			return m, nil
		}
		index, err := parseIndex(args[0])
		if err != nil {
			m.usage(cmd)
			return m, nil
		}
		removed, err := m.planner.Remove(weekgo.TaskRef{Weekday: m.day, Index: index})
		if err != nil {
			m.addAlert(err.Error(), colorRed)
			return m, nil
		}
		m.addAlert(fmt.Sprintf("removed %s", removed), colorCyan)
		return m, nil
	case "/c":
		if len(args) == 0 {
			m.usage(cmd)
			return m, nil
		}
		target, err := weekgo.ParseWeekday(strings.Join(args, " "))
		if err != nil {
			m.addAlert(err.Error(), colorRed)
			return m, nil
		}
		if err := m.planner.Copy(m.day, target); err != nil {
			m.addAlert(err.Error(), colorRed)
			return m, nil
		}
		m.addAlert(fmt.Sprintf("copied %s to %s", m.day, target), colorCyan)
		return m, nil
	case "/l":
		m.showWeek = !m.showWeek
		return m, nil
	case "/w":
		return m, m.save
	case "/h":
		m.addAlert(commandHelp, colorYellow)
		return m, nil
	case "/q":
		return m, func() tea.Msg {
			return EndProgramMsg{
				save: true,
			}
		}
	case "/o":
		return m, func() tea.Msg {
			return EndProgramMsg{}
		}
	}

	m.addAlert(fmt.Sprintf(`unknown command %q, enter "/h" for help`, cmd), colorYellow)
	return m, nil
}
