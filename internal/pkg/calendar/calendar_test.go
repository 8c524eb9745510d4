package calendar_test

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/adiazny/recgov-campsite-lambda/internal/pkg/calendar"
)

func mustWindow(t *testing.T, start, end string, days ...time.Weekday) calendar.Window {
	t.Helper()

	w, err := calendar.NewWindow(start, end, days)
	if err != nil {
		t.Fatal(err)
	}

	return w
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    []time.Weekday
		wantErr bool
	}{
		{
			name:  "monday and saturday",
			value: "1,6",
			want:  []time.Weekday{time.Monday, time.Saturday},
		},
		{
			name:  "spaces and trailing comma",
			value: " 0, 5 ,",
			want:  []time.Weekday{time.Sunday, time.Friday},
		},
		{
			name:    "out of range",
			value:   "7",
			wantErr: true,
		},
		{
			name:    "not a number",
			value:   "sat",
			wantErr: true,
		},
		{
			name:    "empty",
			value:   "",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got, err := calendar.ParseWeekdays(tt.value)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseWeekdays() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if err != nil && !errors.Is(err, calendar.ErrInvalidWindow) {
				t.Errorf("ParseWeekdays() error = %v, want ErrInvalidWindow", err)
			}

			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseWeekdays() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewWindow(t *testing.T) {
	t.Run("end defaults to next day", func(t *testing.T) {
		w := mustWindow(t, "2024-06-30", "", time.Sunday)

		if !w.End.Equal(date(2024, time.July, 1)) {
			t.Errorf("End = %v, want 2024-07-01", w.End)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		_, err := calendar.NewWindow("2024-06-03", "2024-06-01", []time.Weekday{time.Monday})
		if !errors.Is(err, calendar.ErrInvalidWindow) {
			t.Errorf("NewWindow() error = %v, want ErrInvalidWindow", err)
		}
	})

	t.Run("malformed start", func(t *testing.T) {
		_, err := calendar.NewWindow("06/01/2024", "", []time.Weekday{time.Monday})
		if !errors.Is(err, calendar.ErrInvalidWindow) {
			t.Errorf("NewWindow() error = %v, want ErrInvalidWindow", err)
		}
	})
}

func TestWindow_MonthStart(t *testing.T) {
	w := mustWindow(t, "2024-06-17", "2024-06-20", time.Monday)

	if got := w.MonthStart(); !got.Equal(date(2024, time.June, 1)) {
		t.Errorf("MonthStart() = %v, want 2024-06-01", got)
	}
}

func TestWindow_Months(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
		want  []time.Time
	}{
		{
			name:  "single month",
			start: "2024-06-01",
			end:   "2024-06-30",
			want:  []time.Time{date(2024, time.June, 1)},
		},
		{
			name:  "crosses month boundary",
			start: "2024-06-28",
			end:   "2024-07-02",
			want:  []time.Time{date(2024, time.June, 1), date(2024, time.July, 1)},
		},
		{
			name:  "crosses year boundary",
			start: "2024-12-30",
			end:   "2025-02-01",
			want: []time.Time{
				date(2024, time.December, 1),
				date(2025, time.January, 1),
				date(2025, time.February, 1),
			},
		},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			w := mustWindow(t, tt.start, tt.end, time.Monday)

			if got := w.Months(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Months() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWindow_Contains(t *testing.T) {
	// 2024-06-01 is a Saturday, 2024-06-03 a Monday.
	w := mustWindow(t, "2024-06-01", "2024-06-03", time.Monday, time.Saturday)

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{name: "start edge saturday", t: date(2024, time.June, 1), want: true},
		{name: "end edge monday", t: date(2024, time.June, 3), want: true},
		{name: "sunday in range", t: date(2024, time.June, 2), want: false},
		{name: "saturday before range", t: date(2024, time.May, 25), want: false},
		{name: "saturday after range", t: date(2024, time.June, 8), want: false},
		{name: "end day afternoon", t: time.Date(2024, time.June, 3, 15, 0, 0, 0, time.UTC), want: false},
		{name: "start day afternoon", t: time.Date(2024, time.June, 1, 15, 0, 0, 0, time.UTC), want: true},
	}
	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			if got := w.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	if got := calendar.FormatDate(date(2024, time.June, 1)); got != "2024-06-01 (Saturday)" {
		t.Errorf("FormatDate() = %q", got)
	}
}
