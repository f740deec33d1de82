package board

import (
	"context"
	"time"

	"parlay/bot/common"
	"parlay/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// BoardReader lists the questions scheduled for a day
type BoardReader interface {
	GetBoard(ctx context.Context, date time.Time) ([]*entities.Question, error)
}

// Feature shows the daily question board
type Feature struct {
	ledger   BoardReader
	location *time.Location
	now      func() time.Time
}

// New creates a new board feature
func New(ledger BoardReader, location *time.Location) *Feature {
	if location == nil {
		location = time.UTC
	}
	return &Feature{
		ledger:   ledger,
		location: location,
		now:      time.Now,
	}
}

// HandleCommand handles /board [date]
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	now := f.now()

	date := now.In(f.location)
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name != "date" {
			continue
		}
		parsed, err := time.ParseInLocation(time.DateOnly, opt.StringValue(), f.location)
		if err != nil {
			common.RespondWithError(s, i, "Dates look like 2025-06-01.")
			return
		}
		date = parsed
	}

	questions, err := f.ledger.GetBoard(ctx, date)
	if err != nil {
		log.WithError(err).Error("Failed to load board")
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithEmbed(s, i, BuildBoardEmbed(date, questions, now), nil, false)
}
