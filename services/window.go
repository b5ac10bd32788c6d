package services

import (
	"fmt"
	"time"
)

const (
	dateLayout  = time.DateOnly
	clockLayout = "15:04"
)

// ServiceWindow is the inclusive range of reservable times of day.
type ServiceWindow struct {
	Open  time.Duration
	Close time.Duration
}

func DefaultServiceWindow() ServiceWindow {
	return ServiceWindow{Open: 11 * time.Hour, Close: 23*time.Hour + 59*time.Minute}
}

// ParseServiceWindow builds a window from two HH:MM strings.
func ParseServiceWindow(open, close string) (ServiceWindow, error) {
	o, err := parseClock(open)
	if err != nil {
		return ServiceWindow{}, fmt.Errorf("service window open %q: %w", open, err)
	}
	c, err := parseClock(close)
	if err != nil {
		return ServiceWindow{}, fmt.Errorf("service window close %q: %w", close, err)
	}
	if c < o {
		return ServiceWindow{}, fmt.Errorf("service window closes (%s) before it opens (%s)", close, open)
	}
	return ServiceWindow{Open: o, Close: c}, nil
}

// Contains reports whether the HH:MM value lies inside the window.
func (w ServiceWindow) Contains(hhmm string) bool {
	d, err := parseClock(hhmm)
	if err != nil {
		return false
	}
	return d >= w.Open && d <= w.Close
}

func (w ServiceWindow) String() string {
	return formatClock(w.Open) + "-" + formatClock(w.Close)
}

func (w ServiceWindow) invalidTime() *Error {
	return newError(KindInvalidTime, fmt.Sprintf("Reservation time must be between %s and %s",
		formatClock(w.Open), formatClock(w.Close)))
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d.Hours()), int(d.Minutes())%60)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}
