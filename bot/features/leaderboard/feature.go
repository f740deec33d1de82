package leaderboard

import (
	"context"

	"parlay/bot/common"
	"parlay/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// Ranker computes standings over a window
type Ranker interface {
	Leaderboard(ctx context.Context, window entities.Window, limit int) ([]*entities.Standing, error)
}

// Feature shows the points leaderboard
type Feature struct {
	ledger Ranker
	limit  int
}

// New creates a new leaderboard feature. limit caps the ranked rows.
func New(ledger Ranker, limit int) *Feature {
	return &Feature{
		ledger: ledger,
		limit:  limit,
	}
}

// HandleCommand handles /leaderboard [window]
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	window := entities.WindowDaily
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name != "window" {
			continue
		}
		parsed, err := entities.ParseWindow(opt.StringValue())
		if err != nil {
			common.RespondWithError(s, i, "Pick daily, weekly or monthly.")
			return
		}
		window = parsed
	}

	standings, err := f.ledger.Leaderboard(ctx, window, f.limit)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	var callerID int64
	if id, err := common.ParseUserID(common.InteractionUserID(i)); err == nil {
		callerID = id
	}

	common.RespondWithEmbed(s, i, BuildLeaderboardEmbed(window, standings, callerID), nil, false)
}
