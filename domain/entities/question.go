package entities

import (
	"fmt"
	"strings"
	"time"
)

// Option is one side of a binary question
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
)

// ParseOption accepts "a", "A", "b" or "B"
func ParseOption(s string) (Option, error) {
	switch Option(strings.ToUpper(strings.TrimSpace(s))) {
	case OptionA:
		return OptionA, nil
	case OptionB:
		return OptionB, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOption, s)
	}
}

// IsValid returns true for A or B
func (o Option) IsValid() bool {
	return o == OptionA || o == OptionB
}

// Question is a daily binary proposition users pick a side on
type Question struct {
	ID            int64     `db:"id"`
	Category      string    `db:"category"`
	Subject       string    `db:"subject"`
	Prompt        string    `db:"prompt"`
	OptionA       string    `db:"option_a"`
	OptionB       string    `db:"option_b"`
	LockTime      time.Time `db:"lock_time"`
	WinningOption *Option   `db:"winning_option"` // nil until decided
	ScheduledDate time.Time `db:"scheduled_date"`
	CreatedAt     time.Time `db:"created_at"`
}

// IsLocked returns true once the lock deadline has passed
func (q *Question) IsLocked(now time.Time) bool {
	return !now.Before(q.LockTime)
}

// IsDecided returns true when a winning option has been set
func (q *Question) IsDecided() bool {
	return q.WinningOption != nil
}

// IsLive returns true while the question is locked but not yet decided
func (q *Question) IsLive(now time.Time) bool {
	return q.IsLocked(now) && !q.IsDecided()
}

// Label returns the display text for an option
func (q *Question) Label(o Option) string {
	if o == OptionB {
		return q.OptionB
	}
	return q.OptionA
}

// Resolve sets the winning option. Once decided the outcome can only be
// restated, never changed.
func (q *Question) Resolve(o Option) error {
	if !o.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidOption, o)
	}
	if q.WinningOption != nil {
		if *q.WinningOption == o {
			return nil
		}
		return fmt.Errorf("%w: question %d already resolved to %s", ErrAlreadyResolved, q.ID, *q.WinningOption)
	}
	q.WinningOption = &o
	return nil
}
