package entities

// ClaimResult describes the effect of a successful claim
type ClaimResult struct {
	TicketID       int64
	Won            bool
	Points         int64 // 0 when lost
	TokensReturned int64
}

// ClaimAllResult reports a batch claim. Failures are keyed by ticket id.
type ClaimAllResult struct {
	Results  []*ClaimResult
	Failures map[int64]error
}

// Succeeded returns how many tickets were claimed
func (r *ClaimAllResult) Succeeded() int {
	return len(r.Results)
}

// TotalPoints sums the points credited by the batch
func (r *ClaimAllResult) TotalPoints() int64 {
	var total int64
	for _, res := range r.Results {
		total += res.Points
	}
	return total
}

// TotalTokens sums the tokens returned by the batch
func (r *ClaimAllResult) TotalTokens() int64 {
	var total int64
	for _, res := range r.Results {
		total += res.TokensReturned
	}
	return total
}
