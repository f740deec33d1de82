package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"parlay/domain/entities"
	"parlay/domain/interfaces"

	"golang.org/x/sync/errgroup"
)

// leaderboardService derives standings from claimed tickets on every call
type leaderboardService struct {
	userRepo     interfaces.UserRepository
	ticketRepo   interfaces.TicketRepository
	questionRepo interfaces.QuestionRepository
	location     *time.Location
	now          func() time.Time
}

// NewLeaderboardService creates a new leaderboard service. The repositories
// must be safe for concurrent use since the roster and tickets load in parallel.
func NewLeaderboardService(
	userRepo interfaces.UserRepository,
	ticketRepo interfaces.TicketRepository,
	questionRepo interfaces.QuestionRepository,
	location *time.Location,
	now func() time.Time,
) interfaces.LeaderboardService {
	if location == nil {
		location = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &leaderboardService{
		userRepo:     userRepo,
		ticketRepo:   ticketRepo,
		questionRepo: questionRepo,
		location:     location,
		now:          now,
	}
}

// RankWindow resolves a window policy and ranks from its start
func (s *leaderboardService) RankWindow(ctx context.Context, window entities.Window) ([]*entities.Standing, error) {
	return s.Rank(ctx, window.Start(s.now(), s.location))
}

// Rank returns every user's points from claimed tickets created in [windowStart, now]
func (s *leaderboardService) Rank(ctx context.Context, windowStart time.Time) ([]*entities.Standing, error) {
	now := s.now()

	var (
		users   []*entities.User
		tickets []*entities.Ticket
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.userRepo.GetAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to get users: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tickets, err = s.ticketRepo.GetClaimedSince(gctx, windowStart, now)
		if err != nil {
			return fmt.Errorf("failed to get claimed tickets: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	questions := map[int64]*entities.Question{}
	if len(tickets) > 0 {
		var err error
		questions, err = s.questionRepo.GetByIDs(ctx, collectQuestionIDs(tickets))
		if err != nil {
			return nil, fmt.Errorf("failed to get questions: %w", err)
		}
	}

	return RankStandings(users, tickets, questions), nil
}

// RankStandings folds claimed tickets into per-user totals over the full
// roster. Only winning claimed tickets score. Equal totals keep roster order.
func RankStandings(users []*entities.User, tickets []*entities.Ticket, questions map[int64]*entities.Question) []*entities.Standing {
	totals := make(map[int64]int64, len(users))
	for _, ticket := range tickets {
		if ticket.Status != entities.TicketStatusClaimed {
			continue
		}
		if ticket.Evaluate(questions).Won() {
			totals[ticket.UserID] += ticket.Payout()
		}
	}

	standings := make([]*entities.Standing, 0, len(users))
	for _, user := range users {
		standings = append(standings, &entities.Standing{
			UserID:   user.ID,
			Username: user.Username,
			Points:   totals[user.ID],
		})
	}

	slices.SortStableFunc(standings, func(a, b *entities.Standing) int {
		return cmp.Compare(b.Points, a.Points)
	})
	for i, standing := range standings {
		standing.Rank = i + 1
	}
	return standings
}
