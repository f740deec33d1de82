package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TicketStatus is the stored settlement flag of a ticket
type TicketStatus string

const (
	TicketStatusOpen    TicketStatus = "open"
	TicketStatusClaimed TicketStatus = "claimed"
	TicketStatusVoided  TicketStatus = "voided"
)

// TicketState is the lifecycle state derived from the stored status and the
// current resolution of the ticket's questions
type TicketState string

const (
	TicketStateOpen        TicketState = "OPEN"
	TicketStateReady       TicketState = "READY"
	TicketStateSettledWon  TicketState = "SETTLED_WON"
	TicketStateSettledLost TicketState = "SETTLED_LOST"
	TicketStateVoided      TicketState = "VOIDED"
)

// IsTerminal returns true for settled and voided states
func (s TicketState) IsTerminal() bool {
	return s == TicketStateSettledWon || s == TicketStateSettledLost || s == TicketStateVoided
}

// TicketFilter selects tickets for history listings
type TicketFilter string

const (
	TicketFilterOpen   TicketFilter = "open"
	TicketFilterClosed TicketFilter = "closed"
	TicketFilterAll    TicketFilter = "all"
)

// Statuses returns the stored statuses matching the filter
func (f TicketFilter) Statuses() []TicketStatus {
	switch f {
	case TicketFilterOpen:
		return []TicketStatus{TicketStatusOpen}
	case TicketFilterClosed:
		return []TicketStatus{TicketStatusClaimed, TicketStatusVoided}
	default:
		return []TicketStatus{TicketStatusOpen, TicketStatusClaimed, TicketStatusVoided}
	}
}

// Leg is one pick on a ticket
type Leg struct {
	QuestionID int64  `db:"question_id"`
	Selected   Option `db:"selected_option"`
}

// Ticket is a user's multi-leg wager. Legs and wager never change after creation.
type Ticket struct {
	ID        int64        `db:"id"`
	Reference uuid.UUID    `db:"reference"`
	UserID    int64        `db:"user_id"`
	Legs      []Leg        `db:"-"` // Populated from ticket_legs
	Wager     int64        `db:"wager"`
	Status    TicketStatus `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
	SettledAt *time.Time   `db:"settled_at"`
}

// Outcome is the settlement result of a ticket against the current questions
type Outcome struct {
	AllSettled bool
	AllCorrect bool // meaningful only when AllSettled
}

// Won returns true when every leg has been decided in the ticket's favour
func (o Outcome) Won() bool {
	return o.AllSettled && o.AllCorrect
}

// ValidateLegs checks a selection before a ticket is built from it
func ValidateLegs(legs []Leg) error {
	if len(legs) == 0 {
		return ErrEmptySelection
	}
	seen := make(map[int64]struct{}, len(legs))
	for _, leg := range legs {
		if !leg.Selected.IsValid() {
			return fmt.Errorf("%w: %q on question %d", ErrInvalidOption, leg.Selected, leg.QuestionID)
		}
		if _, dup := seen[leg.QuestionID]; dup {
			return fmt.Errorf("%w: question %d", ErrDuplicateLeg, leg.QuestionID)
		}
		seen[leg.QuestionID] = struct{}{}
	}
	return nil
}

// QuestionIDs returns the question ids referenced by the ticket in leg order
func (t *Ticket) QuestionIDs() []int64 {
	ids := make([]int64, len(t.Legs))
	for i, leg := range t.Legs {
		ids[i] = leg.QuestionID
	}
	return ids
}

// Payout returns the points the ticket pays if it wins
func (t *Ticket) Payout() int64 {
	return CalculatePayout(len(t.Legs), t.Wager)
}

// Evaluate folds the ticket's legs against the given questions.
// A leg whose question is missing counts as unsettled.
func (t *Ticket) Evaluate(questions map[int64]*Question) Outcome {
	outcome := Outcome{AllSettled: len(t.Legs) > 0, AllCorrect: true}
	for _, leg := range t.Legs {
		q, ok := questions[leg.QuestionID]
		if !ok || !q.IsDecided() {
			outcome.AllSettled = false
			continue
		}
		if *q.WinningOption != leg.Selected {
			outcome.AllCorrect = false
		}
	}
	if !outcome.AllSettled {
		outcome.AllCorrect = false
	}
	return outcome
}

// State derives the lifecycle state. READY is never stored.
func (t *Ticket) State(questions map[int64]*Question) TicketState {
	switch t.Status {
	case TicketStatusVoided:
		return TicketStateVoided
	case TicketStatusClaimed:
		if t.Evaluate(questions).Won() {
			return TicketStateSettledWon
		}
		return TicketStateSettledLost
	default:
		if t.Evaluate(questions).AllSettled {
			return TicketStateReady
		}
		return TicketStateOpen
	}
}

// CheckClaimable returns nil when the ticket may be claimed now
func (t *Ticket) CheckClaimable(questions map[int64]*Question) error {
	switch t.Status {
	case TicketStatusClaimed:
		return ErrAlreadyClaimed
	case TicketStatusVoided:
		return ErrAlreadyVoided
	}
	if !t.Evaluate(questions).AllSettled {
		return fmt.Errorf("%w: ticket %d has undecided legs", ErrInvalidState, t.ID)
	}
	return nil
}

// CheckCancellable returns nil when the ticket may still be voided
func (t *Ticket) CheckCancellable() error {
	switch t.Status {
	case TicketStatusClaimed:
		return ErrAlreadyClaimed
	case TicketStatusVoided:
		return ErrAlreadyVoided
	}
	return nil
}

// IsOwnedBy checks ticket ownership
func (t *Ticket) IsOwnedBy(userID int64) bool {
	return t.UserID == userID
}
