package profile

import (
	"context"

	"parlay/bot/common"
	"parlay/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Reader loads a player's profile
type Reader interface {
	EnsureUser(ctx context.Context, userID int64, username string) (*entities.User, error)
	GetProfile(ctx context.Context, userID int64) (*entities.Profile, error)
}

// Feature shows a player's balance and record
type Feature struct {
	ledger Reader
}

// New creates a new profile feature
func New(ledger Reader) *Feature {
	return &Feature{ledger: ledger}
}

// HandleCommand handles /profile
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	user := common.InteractionUser(i)
	if user == nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}
	userID, err := common.ParseUserID(user.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", user.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	if _, err := f.ledger.EnsureUser(ctx, userID, user.Username); err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	profile, err := f.ledger.GetProfile(ctx, userID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithEmbed(s, i, BuildProfileEmbed(profile), nil, true)
}
