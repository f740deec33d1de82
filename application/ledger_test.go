package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"parlay/application"
	"parlay/config"
	"parlay/domain/entities"
	"parlay/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a settable clock shared by the ledger and the store
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type ledgerFixture struct {
	ledger *application.Ledger
	clock  *fakeClock
	store  *memory.Store
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	cfg := config.Get()
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := memory.NewStore(clock.Now)
	ledger := application.NewLedger(
		memory.NewUnitOfWorkFactory(store, nil),
		application.LedgerConfig{
			StartingTokens: cfg.StartingTokens,
			MinWager:       cfg.MinWager,
			MaxWager:       cfg.MaxWager,
			Location:       cfg.Location(),
			Now:            clock.Now,
		},
		nil,
	)
	return &ledgerFixture{ledger: ledger, clock: clock, store: store}
}

// addQuestion creates a question locking lockIn from the fixture's now
func (f *ledgerFixture) addQuestion(t *testing.T, prompt string, lockIn time.Duration) *entities.Question {
	t.Helper()

	now := f.clock.Now()
	q := &entities.Question{
		Category:      "sports",
		Prompt:        prompt,
		OptionA:       "Yes",
		OptionB:       "No",
		LockTime:      now.Add(lockIn),
		ScheduledDate: now,
	}
	require.NoError(t, f.ledger.CreateQuestion(t.Context(), q))
	require.NotZero(t, q.ID)
	return q
}

func (f *ledgerFixture) addUser(t *testing.T, id int64, name string) {
	t.Helper()
	user, err := f.ledger.EnsureUser(t.Context(), id, name)
	require.NoError(t, err)
	require.Equal(t, int64(5), user.Tokens)
}

func (f *ledgerFixture) resolve(t *testing.T, q *entities.Question, option entities.Option) {
	t.Helper()
	_, err := f.ledger.ResolveQuestion(t.Context(), q.ID, option)
	require.NoError(t, err)
}

func (f *ledgerFixture) balance(t *testing.T, userID int64) (tokens, points int64) {
	t.Helper()
	profile, err := f.ledger.GetProfile(t.Context(), userID)
	require.NoError(t, err)
	return profile.User.Tokens, profile.User.Points
}

func legs(questions []*entities.Question, options ...entities.Option) []entities.Leg {
	out := make([]entities.Leg, len(questions))
	for i, q := range questions {
		out[i] = entities.Leg{QuestionID: q.ID, Selected: options[i]}
	}
	return out
}

func TestLedger_WinningParlayScenario(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := t.Context()
	f.addUser(t, 1, "alice")

	questions := []*entities.Question{
		f.addQuestion(t, "Q1", time.Hour),
		f.addQuestion(t, "Q2", time.Hour),
		f.addQuestion(t, "Q3", time.Hour),
	}
	picks := legs(questions, entities.OptionA, entities.OptionB, entities.OptionA)

	// A wager above the configured maximum is rejected before the balance is looked at
	_, err := f.ledger.CreateTicket(ctx, 1, picks, 6)
	require.ErrorIs(t, err, entities.ErrInvalidWager)

	ticket, err := f.ledger.CreateTicket(ctx, 1, picks, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(800), ticket.Payout())

	tokens, points := f.balance(t, 1)
	assert.Equal(t, int64(3), tokens)
	assert.Equal(t, int64(0), points)

	// Not claimable until every leg is decided
	_, err = f.ledger.Claim(ctx, 1, ticket.ID)
	assert.ErrorIs(t, err, entities.ErrInvalidState)

	f.clock.Advance(2 * time.Hour)
	f.resolve(t, questions[0], entities.OptionA)
	f.resolve(t, questions[1], entities.OptionB)
	f.resolve(t, questions[2], entities.OptionA)

	views, err := f.ledger.ListTickets(ctx, 1, entities.TicketFilterOpen, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, entities.TicketStateReady, views[0].State)

	result, err := f.ledger.Claim(ctx, 1, ticket.ID)
	require.NoError(t, err)
	assert.True(t, result.Won)
	assert.Equal(t, int64(800), result.Points)
	assert.Equal(t, int64(2), result.TokensReturned)

	tokens, points = f.balance(t, 1)
	assert.Equal(t, int64(5), tokens)
	assert.Equal(t, int64(800), points)

	// Claim is exactly once
	_, err = f.ledger.Claim(ctx, 1, ticket.ID)
	assert.ErrorIs(t, err, entities.ErrAlreadyClaimed)
	tokens, points = f.balance(t, 1)
	assert.Equal(t, int64(5), tokens)
	assert.Equal(t, int64(800), points)

	views, err = f.ledger.ListTickets(ctx, 1, entities.TicketFilterClosed, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, entities.TicketStateSettledWon, views[0].State)
}

func TestLedger_CancelScenario(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := t.Context()
	f.addUser(t, 1, "alice")

	q := f.addQuestion(t, "Q1", time.Hour)
	ticket, err := f.ledger.CreateTicket(ctx, 1, legs([]*entities.Question{q}, entities.OptionB), 3)
	require.NoError(t, err)

	tokens, _ := f.balance(t, 1)
	assert.Equal(t, int64(2), tokens)

	voided, err := f.ledger.Cancel(ctx, 1, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.TicketStatusVoided, voided.Status)

	tokens, points := f.balance(t, 1)
	assert.Equal(t, int64(5), tokens)
	assert.Equal(t, int64(0), points)

	_, err = f.ledger.Claim(ctx, 1, ticket.ID)
	assert.ErrorIs(t, err, entities.ErrAlreadyVoided)

	_, err = f.ledger.Cancel(ctx, 1, ticket.ID)
	assert.ErrorIs(t, err, entities.ErrAlreadyVoided)
}

func TestLedger_LosingClaimReturnsTokensOnly(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := t.Context()
	f.addUser(t, 1, "alice")

	q1 := f.addQuestion(t, "Q1", time.Minute)
	q2 := f.addQuestion(t, "Q2", time.Minute)
	ticket, err := f.ledger.CreateTicket(ctx, 1, legs([]*entities.Question{q1, q2}, entities.OptionA, entities.OptionA), 4)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	f.resolve(t, q1, entities.OptionA)
	f.resolve(t, q2, entities.OptionB)

	result, err := f.ledger.Claim(ctx, 1, ticket.ID)
	require.NoError(t, err)
	assert.False(t, result.Won)
	assert.Zero(t, result.Points)

	tokens, points := f.balance(t, 1)
	assert.Equal(t, int64(5), tokens)
	assert.Zero(t, points)

	// A lost ticket can no longer be cancelled
	_, err = f.ledger.Cancel(ctx, 1, ticket.ID)
	assert.ErrorIs(t, err, entities.ErrAlreadyClaimed)
}

func TestLedger_CreateTicketRejections(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := t.Context()
	f.addUser(t, 1, "alice")

	open := f.addQuestion(t, "open", time.Hour)
	locked := f.addQuestion(t, "locked", time.Minute)
	f.clock.Advance(time.Minute)

	tests := []struct {
		name    string
		legs    []entities.Leg
		wager   int64
		userID  int64
		wantErr error
	}{
		{"empty selection", nil, 1, 1, entities.ErrEmptySelection},
		{"locked question", legs([]*entities.Question{open, locked}, entities.OptionA, entities.OptionA), 1, 1, entities.ErrMarketClosed},
		{"duplicate leg", []entities.Leg{{QuestionID: open.ID, Selected: entities.OptionA}, {QuestionID: open.ID, Selected: entities.OptionB}}, 1, 1, entities.ErrDuplicateLeg},
		{"unknown question", []entities.Leg{{QuestionID: 999, Selected: entities.OptionA}}, 1, 1, entities.ErrNotFound},
		{"unknown user", legs([]*entities.Question{open}, entities.OptionA), 1, 42, entities.ErrNotFound},
		{"wager above max", legs([]*entities.Question{open}, entities.OptionA), 6, 1, entities.ErrInvalidWager},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.CreateTicket(ctx, tt.userID, tt.legs, tt.wager)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Nothing was debited by any rejection
	tokens, _ := f.balance(t, 1)
	assert.Equal(t, int64(5), tokens)

	// Two stakes that together overdraw: the second fails
	_, err := f.ledger.CreateTicket(ctx, 1, legs([]*entities.Question{open}, entities.OptionA), 4)
	require.NoError(t, err)
	_, err = f.ledger.CreateTicket(ctx, 1, legs([]*entities.Question{open}, entities.OptionB), 2)
	assert.ErrorIs(t, err, entities.ErrInsufficientTokens)
}

func TestLedger_LegLimit(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := t.Context()
	f.addUser(t, 1, "alice")

	questions := make([]*entities.Question, entities.DefaultMaxLegs+1)
	options := make([]entities.Option, len(questions))
	for i := range questions {
		questions[i] = f.addQuestion(t, fmt.Sprintf("Q%d", i+1), time.Hour)
		options[i] = entities.OptionA
	}

	_, err := f.ledger.CreateTicket(ctx, 1, legs(questions, options...), 1)
	require.ErrorIs(t, err, entities.ErrTooManyLegs)

	tokens, _ := f.balance(t, 1)
	assert.Equal(t, int64(5), tokens)

	maxed := questions[:entities.DefaultMaxLegs]
	ticket, err := f.ledger.CreateTicket(ctx, 1, legs(maxed, options[:len(maxed)]...), 1)
	require.NoError(t, err)

	f.clock.Advance(2 * time.Hour)
	for _, q := range maxed {
		f.resolve(t, q, entities.OptionA)
	}

	result, err := f.ledger.Claim(ctx, 1, ticket.ID)
	require.NoError(t, err)
	assert.True(t, result.Won)
	assert.Equal(t, int64(100)<<(entities.DefaultMaxLegs-1), result.Points)
}

func TestLedger_RejectsUnrepresentablePayout(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := memory.NewStore(clock.Now)
	factory := memory.NewUnitOfWorkFactory(store, nil)
	ledger := application.NewLedger(factory, application.LedgerConfig{
		StartingTokens: 5,
		MinWager:       1,
		MaxWager:       5,
		MaxLegs:        70,
		Now:            clock.Now,
	}, nil)
	f := &ledgerFixture{ledger: ledger, clock: clock, store: store}
	ctx := t.Context()
	f.addUser(t, 1, "alice")

	questions := make([]*entities.Question, 70)
	options := make([]entities.Option, len(questions))
	for i := range questions {
		questions[i] = f.addQuestion(t, fmt.Sprintf("Q%d", i+1), time.Hour)
		options[i] = entities.OptionA
	}

	// 100 * 2^56 * 5 no longer fits in an int64
	_, err := ledger.CreateTicket(ctx, 1, legs(questions[:57], options[:57]...), 5)
	require.ErrorIs(t, err, entities.ErrPayoutOverflow)
	_, err = ledger.CreateTicket(ctx, 1, legs(questions, options...), 1)
	require.ErrorIs(t, err, entities.ErrPayoutOverflow)

	tokens, _ := f.balance(t, 1)
	assert.Equal(t, int64(5), tokens)

	// A stored ticket past the limit is refused at claim instead of crediting a wrapped payout
	uow := factory.Create()
	require.NoError(t, uow.Begin(ctx))
	stored := &entities.Ticket{
		Reference: uuid.New(),
		UserID:    1,
		Legs:      legs(questions, options...),
		Wager:     1,
		Status:    entities.TicketStatusOpen,
	}
	require.NoError(t, uow.TicketRepository().Create(ctx, stored))
	require.NoError(t, uow.Commit())

	clock.Advance(2 * time.Hour)
	for _, q := range questions {
		f.resolve(t, q, entities.OptionA)
	}

	_, err = ledger.Claim(ctx, 1, stored.ID)
	require.ErrorIs(t, err, entities.ErrPayoutOverflow)

	_, points := f.balance(t, 1)
	assert.Equal(t, int64(0), points)
}

func TestLedger_ConcurrentClaimsSucceedOnce(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := t.Context()
	f.addUser(t, 1, "alice")

	q := f.addQuestion(t, "Q1", time.Minute)
	ticket, err := f.ledger.CreateTicket(ctx, 1, legs([]*entities.Question{q}, entities.OptionA), 5)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	f.resolve(t, q, entities.OptionA)

	const callers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		failures  []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = f.ledger.Claim(ctx, 1, ticket.ID)
			} else {
				_, err = f.ledger.Cancel(ctx, 1, ticket.ID)
			}
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else {
				failures = append(failures, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	require.Len(t, failures, callers-1)
	for _, err := range failures {
		assert.True(t, entities.IsTerminalError(err), "unexpected error: %v", err)
	}

	// Whichever won, the stake came back exactly once
	tokens, points := f.balance(t, 1)
	assert.Equal(t, int64(5), tokens)
	assert.Contains(t, []int64{0, 100 * 5}, points)
}

func TestLedger_BalanceHistoryNetsToZeroPerTicket(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := t.Context()
	f.addUser(t, 1, "alice")

	q1 := f.addQuestion(t, "Q1", time.Minute)
	q2 := f.addQuestion(t, "Q2", time.Minute)
	claimed, err := f.ledger.CreateTicket(ctx, 1, legs([]*entities.Question{q1}, entities.OptionA), 2)
	require.NoError(t, err)
	voided, err := f.ledger.CreateTicket(ctx, 1, legs([]*entities.Question{q2}, entities.OptionA), 3)
	require.NoError(t, err)

	_, err = f.ledger.Cancel(ctx, 1, voided.ID)
	require.NoError(t, err)
	f.clock.Advance(time.Hour)
	f.resolve(t, q1, entities.OptionB)
	_, err = f.ledger.Claim(ctx, 1, claimed.ID)
	require.NoError(t, err)

	readers := memory.NewUnitOfWorkFactory(f.store, nil).Readers()
	for _, ticketID := range []int64{claimed.ID, voided.ID} {
		entries, err := readers.BalanceHistoryRepository().GetByTicket(ctx, ticketID)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var net int64
		for _, e := range entries {
			net += e.TokenDelta
		}
		assert.Zero(t, net, "ticket %d", ticketID)
	}
}

func TestLedger_ClaimAll(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := t.Context()
	f.addUser(t, 1, "alice")

	q1 := f.addQuestion(t, "Q1", time.Minute)
	q2 := f.addQuestion(t, "Q2", time.Minute)
	pending := f.addQuestion(t, "Q3", time.Minute)

	win, err := f.ledger.CreateTicket(ctx, 1, legs([]*entities.Question{q1, q2}, entities.OptionA, entities.OptionA), 1)
	require.NoError(t, err)
	lose, err := f.ledger.CreateTicket(ctx, 1, legs([]*entities.Question{q2}, entities.OptionB), 1)
	require.NoError(t, err)
	waiting, err := f.ledger.CreateTicket(ctx, 1, legs([]*entities.Question{q1, pending}, entities.OptionA, entities.OptionA), 1)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	f.resolve(t, q1, entities.OptionA)
	f.resolve(t, q2, entities.OptionA)

	result, err := f.ledger.ClaimAll(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Succeeded())
	assert.Empty(t, result.Failures)
	assert.Equal(t, int64(200), result.TotalPoints())
	assert.Equal(t, int64(2), result.TotalTokens())

	claimedIDs := []int64{result.Results[0].TicketID, result.Results[1].TicketID}
	assert.ElementsMatch(t, []int64{win.ID, lose.ID}, claimedIDs)

	tokens, points := f.balance(t, 1)
	assert.Equal(t, int64(4), tokens)
	assert.Equal(t, int64(200), points)

	// The undecided ticket is untouched and a second pass finds nothing
	views, err := f.ledger.ListTickets(ctx, 1, entities.TicketFilterOpen, 0)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, waiting.ID, views[0].Ticket.ID)

	again, err := f.ledger.ClaimAll(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, again.Succeeded())
}

func TestLedger_Leaderboard(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := t.Context()
	f.addUser(t, 1, "alice")
	f.addUser(t, 2, "bob")
	f.addUser(t, 3, "carol")

	q := f.addQuestion(t, "Q1", time.Minute)
	bobTicket, err := f.ledger.CreateTicket(ctx, 2, legs([]*entities.Question{q}, entities.OptionA), 3)
	require.NoError(t, err)
	carolTicket, err := f.ledger.CreateTicket(ctx, 3, legs([]*entities.Question{q}, entities.OptionB), 5)
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	f.resolve(t, q, entities.OptionA)
	_, err = f.ledger.Claim(ctx, 2, bobTicket.ID)
	require.NoError(t, err)
	_, err = f.ledger.Claim(ctx, 3, carolTicket.ID)
	require.NoError(t, err)

	standings, err := f.ledger.Leaderboard(ctx, entities.WindowDaily, 0)
	require.NoError(t, err)
	require.Len(t, standings, 3)

	assert.Equal(t, "bob", standings[0].Username)
	assert.Equal(t, int64(300), standings[0].Points)
	assert.Equal(t, 1, standings[0].Rank)
	// Zero-filled in roster order
	assert.Equal(t, "alice", standings[1].Username)
	assert.Zero(t, standings[1].Points)
	assert.Equal(t, "carol", standings[2].Username)
	assert.Zero(t, standings[2].Points)

	top, err := f.ledger.Leaderboard(ctx, entities.WindowWeekly, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, int64(2), top[0].UserID)

	// Tickets created before the window start do not count
	later, err := f.ledger.LeaderboardSince(ctx, f.clock.Now())
	require.NoError(t, err)
	for _, s := range later {
		assert.Zero(t, s.Points)
	}
}

func TestLedger_ResolveQuestion(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := t.Context()
	q := f.addQuestion(t, "Q1", time.Minute)

	resolved, err := f.ledger.ResolveQuestion(ctx, q.ID, entities.OptionB)
	require.NoError(t, err)
	require.NotNil(t, resolved.WinningOption)
	assert.Equal(t, entities.OptionB, *resolved.WinningOption)

	_, err = f.ledger.ResolveQuestion(ctx, q.ID, entities.OptionA)
	assert.ErrorIs(t, err, entities.ErrAlreadyResolved)

	board, err := f.ledger.GetBoard(ctx, f.clock.Now())
	require.NoError(t, err)
	require.Len(t, board, 1)
	assert.True(t, board[0].IsDecided())
}

// recordingMetrics captures ledger metric calls
type recordingMetrics struct {
	mu           sync.Mutex
	operations   map[string]int
	openTickets  int64
	transactions []string
}

func (r *recordingMetrics) RecordTicketOperation(operation, result string, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.operations == nil {
		r.operations = make(map[string]int)
	}
	r.operations[operation+"/"+result]++
}

func (r *recordingMetrics) UpdateOpenTickets(delta int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openTickets += delta
}

func (r *recordingMetrics) RecordBalanceTransaction(transactionType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transactions = append(r.transactions, transactionType)
}

func TestLedger_RecordsMetrics(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)}
	store := memory.NewStore(clock.Now)
	metrics := &recordingMetrics{}
	ledger := application.NewLedger(memory.NewUnitOfWorkFactory(store, nil), application.LedgerConfig{
		StartingTokens: 5,
		MinWager:       1,
		MaxWager:       5,
		Now:            clock.Now,
	}, metrics)
	ctx := context.Background()

	_, err := ledger.EnsureUser(ctx, 1, "alice")
	require.NoError(t, err)
	q := &entities.Question{Prompt: "Q", OptionA: "Yes", OptionB: "No", LockTime: clock.Now().Add(time.Hour), ScheduledDate: clock.Now()}
	require.NoError(t, ledger.CreateQuestion(ctx, q))

	ticket, err := ledger.CreateTicket(ctx, 1, []entities.Leg{{QuestionID: q.ID, Selected: entities.OptionA}}, 1)
	require.NoError(t, err)
	_, err = ledger.Claim(ctx, 1, ticket.ID)
	require.Error(t, err)
	_, err = ledger.Cancel(ctx, 1, ticket.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, metrics.operations["create_ticket/success"])
	assert.Equal(t, 1, metrics.operations["claim/rejected"])
	assert.Equal(t, 1, metrics.operations["cancel/success"])
	assert.Zero(t, metrics.openTickets)
	assert.Equal(t, []string{"ticket_stake", "ticket_void"}, metrics.transactions)
}

func TestLedger_CommitFailureSurfacesMarketClosed(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := t.Context()
	f.addUser(t, 1, "alice")
	q := f.addQuestion(t, "Q1", 30*time.Minute)

	racing := application.NewLedger(
		&advancingFactory{inner: memory.NewUnitOfWorkFactory(f.store, nil), clock: f.clock, step: time.Hour},
		application.LedgerConfig{StartingTokens: 5, MinWager: 1, MaxWager: 5, Now: f.clock.Now},
		nil,
	)

	// The clock passes the lock between the service's checks and commit
	_, err := racing.CreateTicket(ctx, 1, legs([]*entities.Question{q}, entities.OptionA), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrMarketClosed))

	profile, err := f.ledger.GetProfile(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(5), profile.User.Tokens)
	assert.Zero(t, profile.OpenTickets)

	views, err := f.ledger.ListTickets(ctx, 1, entities.TicketFilterAll, 0)
	require.NoError(t, err)
	assert.Empty(t, views)
}

// advancingFactory moves the clock forward right before each commit
type advancingFactory struct {
	inner application.UnitOfWorkFactory
	clock *fakeClock
	step  time.Duration
}

func (f *advancingFactory) Create() application.UnitOfWork {
	return &advancingUnitOfWork{UnitOfWork: f.inner.Create(), factory: f}
}

func (f *advancingFactory) Readers() application.Repositories {
	return f.inner.Readers()
}

type advancingUnitOfWork struct {
	application.UnitOfWork
	factory *advancingFactory
}

func (u *advancingUnitOfWork) Commit() error {
	u.factory.clock.Advance(u.factory.step)
	return u.UnitOfWork.Commit()
}
