package entities

import (
	"fmt"
	"time"
)

// Standing is one row of the leaderboard
type Standing struct {
	Rank     int
	UserID   int64
	Username string
	Points   int64
}

// Window is a leaderboard time range policy
type Window string

const (
	WindowDaily   Window = "daily"
	WindowWeekly  Window = "weekly"
	WindowMonthly Window = "monthly"
)

// ParseWindow accepts daily, weekly or monthly
func ParseWindow(s string) (Window, error) {
	switch w := Window(s); w {
	case WindowDaily, WindowWeekly, WindowMonthly:
		return w, nil
	default:
		return "", fmt.Errorf("unknown leaderboard window %q", s)
	}
}

// Start returns the beginning of the window ending at now. Daily starts at
// midnight in loc; weekly and monthly trail now by 7 and 30 days.
func (w Window) Start(now time.Time, loc *time.Location) time.Time {
	switch w {
	case WindowWeekly:
		return now.Add(-7 * 24 * time.Hour)
	case WindowMonthly:
		return now.Add(-30 * 24 * time.Hour)
	default:
		if loc == nil {
			loc = time.UTC
		}
		local := now.In(loc)
		return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	}
}
