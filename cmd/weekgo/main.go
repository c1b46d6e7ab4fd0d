package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/benjamonnguyen/weekgo"
	"github.com/benjamonnguyen/weekgo/charmlog"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var logger weekgo.Logger

func main() {
	// conf
	conf, err := weekgo.LoadConfig(os.Getenv("WEEKGO_CONFIG"))
	if err != nil {
		fmt.Println(colorize(colorRed, err.Error()))
		os.Exit(1)
	}
	l, logFile, err := charmlog.NewFileLogger(conf.LogPath, conf.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logFile.Close() //nolint:errcheck
	logger = l
	logger.Info("loaded config", "config", conf)

	// repo
	repo, closeRepo, err := openRepo(conf, logger)
	if err != nil {
		logger.Error("failed repo open", "store", conf.Store, "error", err)
		fmt.Println(colorize(colorRed, err.Error()))
		os.Exit(1)
	}
	defer closeRepo() //nolint:errcheck

	// planner
	planner := weekgo.NewPlanner(repo, logger)
	timeout, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if _, err := planner.LoadOrDefault(timeout); err != nil {
		logger.Error("failed plan load", "error", err)
		fmt.Println(colorize(colorRed, err.Error()))
		os.Exit(1)
	}

	// handle initial args
	opts, err := parseProgramArgs(os.Args[1:], weekgo.WeekdayOf(time.Now()))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if opts.showHelp {
		fmt.Println(colorize(colorYellow, programUsage))
		os.Exit(0)
	}
	if opts.printWeek {
		fmt.Println(renderWeek(planner.Week()))
		os.Exit(0)
	}

	// start program
	fmt.Println(colorize(colorYellow, logo))
	fmt.Printf("\nEnter \"/h\" for help\n\n")

	userinput := textinput.New()
	userinput.Focus()
	userinput.CharLimit = 280
	userinput.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("221"))

	m := model{
		l:          logger,
		planner:    planner,
		cmdTimeout: 3 * time.Second,
		userinput:  userinput,
		vp:         viewport.New(0, 0),
		day:        opts.day,
	}
	m.refresh()

	p := tea.NewProgram(m)

	// Send blocks until the program's event loop runs, so the scanner's
	// first tick happens off the main goroutine.
	scanCtx, stopScan := context.WithCancel(context.Background())
	scanDone := make(chan struct{})
	go func() {
		defer close(scanDone)
		stop := planner.StartScanner(scanCtx, programSink{p: p}, weekgo.WithInterval(conf.ScanInterval))
		<-scanCtx.Done()
		stop()
	}()

	if _, err := p.Run(); err != nil {
		logger.Error(err.Error())
	}
	stopScan()
	<-scanDone
}

// programSink hands scanner events to the bubbletea event loop.
type programSink struct {
	p *tea.Program
}

func (s programSink) Notify(k weekgo.NotificationKind, t weekgo.Task) error {
	s.p.Send(NotificationMsg{
		kind: k,
		task: t,
	})
	return nil
}
