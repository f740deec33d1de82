package entities

import "errors"

// Ledger failures. Callers match these with errors.Is.
var (
	ErrInsufficientTokens = errors.New("insufficient tokens")
	ErrMarketClosed       = errors.New("market closed")
	ErrEmptySelection     = errors.New("empty selection")
	ErrNotFound           = errors.New("not found")
	ErrNotOwner           = errors.New("ticket not owned by caller")
	ErrAlreadyClaimed     = errors.New("ticket already claimed")
	ErrAlreadyVoided      = errors.New("ticket already voided")
	ErrInvalidState       = errors.New("invalid ticket state")

	ErrInvalidWager    = errors.New("invalid wager")
	ErrDuplicateLeg    = errors.New("duplicate question in selection")
	ErrInvalidOption   = errors.New("invalid option")
	ErrAlreadyResolved = errors.New("question already resolved")
	ErrTooManyLegs     = errors.New("too many legs")
	ErrPayoutOverflow  = errors.New("payout out of range")
)

// IsTerminalError reports whether err means the ticket already reached a
// terminal state. Retrying such an operation can never succeed.
func IsTerminalError(err error) bool {
	return errors.Is(err, ErrAlreadyClaimed) || errors.Is(err, ErrAlreadyVoided)
}
