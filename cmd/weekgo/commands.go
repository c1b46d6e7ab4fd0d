package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/benjamonnguyen/weekgo"
)

var errUsage = errors.New("bad arguments")

var commandUsage = map[string]string{
	"/d": "usage: /d <day>",
	"/a": "usage: /a <HH:MM> <hours> <minutes> <task>",
	"/e": "usage: /e <n> [day] <HH:MM> <hours> <minutes> <task>",
	"/x": "usage: /x <n>",
	"/c": "usage: /c <day>",
}

// taskArgs are the trailing arguments of /a and /e.
type taskArgs struct {
	start       string
	hours       int
	minutes     int
	description string
}

func parseTaskArgs(fields []string) (taskArgs, error) {
	if len(fields) < 4 {
		return taskArgs{}, errUsage
	}
	hours, err := strconv.Atoi(fields[1])
	if err != nil {
		return taskArgs{}, fmt.Errorf("hours %q: %w", fields[1], errUsage)
	}
	minutes, err := strconv.Atoi(fields[2])
	if err != nil {
		return taskArgs{}, fmt.Errorf("minutes %q: %w", fields[2], errUsage)
	}
	return taskArgs{
		start:       fields[0],
		hours:       hours,
		minutes:     minutes,
		description: strings.Join(fields[3:], " "),
	}, nil
}

// parseIndex converts a listing number as displayed (1-based) into an index.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("task number %q: %w", s, errUsage)
	}
	return n - 1, nil
}

type editArgs struct {
	taskArgs
	index      int
	weekday    weekgo.Weekday
	hasWeekday bool
}

func parseEditArgs(fields []string) (editArgs, error) {
	if len(fields) == 0 {
		return editArgs{}, errUsage
	}
	index, err := parseIndex(fields[0])
	if err != nil {
		return editArgs{}, err
	}

	e := editArgs{index: index}
	rest := fields[1:]
	if len(rest) > 0 {
		if d, err := weekgo.ParseWeekday(rest[0]); err == nil {
			e.weekday, e.hasWeekday = d, true
			rest = rest[1:]
		}
	}
	e.taskArgs, err = parseTaskArgs(rest)
	if err != nil {
		return editArgs{}, err
	}
	return e, nil
}

func (a taskArgs) request(d weekgo.Weekday) weekgo.AddOrEditRequest {
	return weekgo.AddOrEditRequest{
		Weekday:         d,
		Description:     a.description,
		Start:           a.start,
		DurationHours:   a.hours,
		DurationMinutes: a.minutes,
	}
}

type options struct {
	day       weekgo.Weekday
	showHelp  bool
	printWeek bool
}

func parseProgramArgs(args []string, today weekgo.Weekday) (options, error) {
	opts := options{day: today}
	if len(args) == 0 {
		return opts, nil
	}

	switch args[0] {
	case "/l":
		opts.printWeek = true
	case "/h", "-h", "--help":
		opts.showHelp = true
	default:
		d, err := weekgo.ParseWeekday(strings.Join(args, " "))
		if err != nil {
			return options{}, err
		}
		opts.day = d
	}
	return opts, nil
}
