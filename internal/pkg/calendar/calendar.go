package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	// DateLayout is the layout of START_DATE and END_DATE.
	DateLayout = "2006-01-02"

	// DisplayLayout renders a matching date as "2024-06-01 (Saturday)".
	DisplayLayout = "2006-01-02 (Monday)"
)

var ErrInvalidWindow = errors.New("invalid availability window")

// Window is the requested date interval plus the weekdays inside it that
// are worth camping on. Start and End are UTC midnights.
type Window struct {
	Start    time.Time
	End      time.Time
	Weekdays map[time.Weekday]struct{}
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight.
func ParseDate(value string) (time.Time, error) {
	date, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: error parsing date %q: %w", ErrInvalidWindow, value, err)
	}

	return date, nil
}

// ParseWeekdays parses a comma separated list of weekday codes where
// 0 is Sunday and 6 is Saturday.
func ParseWeekdays(value string) ([]time.Weekday, error) {
	weekdays := make([]time.Weekday, 0)

	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		code, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("%w: error parsing weekday %q: %w", ErrInvalidWindow, field, err)
		}

		if code < int(time.Sunday) || code > int(time.Saturday) {
			return nil, fmt.Errorf("%w: weekday %d is not between 0 and 6", ErrInvalidWindow, code)
		}

		weekdays = append(weekdays, time.Weekday(code))
	}

	if len(weekdays) == 0 {
		return nil, fmt.Errorf("%w: no weekdays to include", ErrInvalidWindow)
	}

	return weekdays, nil
}

// NewWindow builds a Window from raw configuration values. An empty end
// date means the single night starting on the start date.
func NewWindow(startDate, endDate string, weekdays []time.Weekday) (Window, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return Window{}, err
	}

	end := start.AddDate(0, 0, 1)
	if strings.TrimSpace(endDate) != "" {
		end, err = ParseDate(endDate)
		if err != nil {
			return Window{}, err
		}
	}

	if end.Before(start) {
		return Window{}, fmt.Errorf("%w: end date %s is before start date %s",
			ErrInvalidWindow, end.Format(DateLayout), start.Format(DateLayout))
	}

	set := make(map[time.Weekday]struct{}, len(weekdays))
	for _, day := range weekdays {
		set[day] = struct{}{}
	}

	return Window{Start: start, End: end, Weekdays: set}, nil
}

// MonthStart is the first day of the month containing the start date.
// The availability API answers one month per request, keyed by this date.
func (w Window) MonthStart() time.Time {
	return firstOfMonth(w.Start)
}

// Months lists the first day of every month from the start date's month
// through the end date's month.
func (w Window) Months() []time.Time {
	months := make([]time.Time, 0, 1)

	last := firstOfMonth(w.End)
	for month := w.MonthStart(); !month.After(last); month = month.AddDate(0, 1, 0) {
		months = append(months, month)
	}

	return months
}

// Contains reports whether t falls on an included UTC weekday within the
// inclusive [Start, End] interval. End is midnight of the end date, so
// only a midnight timestamp on that day is inside.
func (w Window) Contains(t time.Time) bool {
	if _, ok := w.Weekdays[t.UTC().Weekday()]; !ok {
		return false
	}

	return !t.Before(w.Start) && !t.After(w.End)
}

// FormatDate renders t the way it appears in notifications.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DisplayLayout)
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
