package entities

// Profile summarises a user's balance and settled ticket record
type Profile struct {
	User          *User
	Wins          int
	Losses        int
	Voided        int
	OpenTickets   int
	PointsWon     int64
	RecentTickets []*TicketView
}

// WinRate returns the integer percentage of claimed tickets that won
func (p *Profile) WinRate() int {
	total := p.Wins + p.Losses
	if total == 0 {
		return 0
	}
	return p.Wins * 100 / total
}

// TicketView is a ticket together with its derived state
type TicketView struct {
	Ticket          *Ticket
	State           TicketState
	Outcome         Outcome
	PotentialPayout int64
}
