package tickets

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"parlay/bot/common"
	"parlay/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Component custom ID prefixes
const (
	claimButtonPrefix  = "ticket_claim_"
	cancelButtonPrefix = "ticket_cancel_"
)

// historyLimit caps how many tickets /tickets shows
const historyLimit = 10

// Ledger is the subset of ledger operations the tickets feature drives
type Ledger interface {
	EnsureUser(ctx context.Context, userID int64, username string) (*entities.User, error)
	CreateTicket(ctx context.Context, userID int64, legs []entities.Leg, wager int64) (*entities.Ticket, error)
	Claim(ctx context.Context, userID, ticketID int64) (*entities.ClaimResult, error)
	ClaimAll(ctx context.Context, userID int64) (*entities.ClaimAllResult, error)
	Cancel(ctx context.Context, userID, ticketID int64) (*entities.Ticket, error)
	ListTickets(ctx context.Context, userID int64, filter entities.TicketFilter, limit int) ([]*entities.TicketView, error)
}

// Feature handles ticket placement, history, claims and cancellation
type Feature struct {
	ledger Ledger
}

// New creates a new tickets feature
func New(ledger Ledger) *Feature {
	return &Feature{ledger: ledger}
}

// HandleCommand routes ticket slash commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "ticket":
		f.handleCreate(s, i)
	case "tickets":
		f.handleHistory(s, i)
	case "claim":
		f.handleClaim(s, i)
	case "claimall":
		f.handleClaimAll(s, i)
	case "cancel":
		f.handleCancel(s, i)
	}
}

// HandleInteraction handles the claim and cancel buttons
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()
	customID := i.MessageComponentData().CustomID

	userID, ok := f.resolveUser(s, i)
	if !ok {
		return
	}

	switch {
	case strings.HasPrefix(customID, claimButtonPrefix):
		ticketID, err := strconv.ParseInt(strings.TrimPrefix(customID, claimButtonPrefix), 10, 64)
		if err != nil {
			log.Errorf("Invalid claim button ID %q", customID)
			return
		}
		result, err := f.ledger.Claim(ctx, userID, ticketID)
		if err != nil {
			common.HandleError(s, i, err, false)
			return
		}
		common.UpdateComponentMessage(s, i, BuildClaimEmbed(result), nil)

	case strings.HasPrefix(customID, cancelButtonPrefix):
		ticketID, err := strconv.ParseInt(strings.TrimPrefix(customID, cancelButtonPrefix), 10, 64)
		if err != nil {
			log.Errorf("Invalid cancel button ID %q", customID)
			return
		}
		ticket, err := f.ledger.Cancel(ctx, userID, ticketID)
		if err != nil {
			common.HandleError(s, i, err, false)
			return
		}
		common.UpdateComponentMessage(s, i, BuildCancelEmbed(ticket), nil)
	}
}

func (f *Feature) handleCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	var (
		picks   string
		wager   int64
		preview bool
	)
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "picks":
			picks = opt.StringValue()
		case "wager":
			wager = opt.IntValue()
		case "preview":
			preview = opt.BoolValue()
		}
	}

	legs, err := ParsePicks(picks)
	if err != nil {
		if errors.Is(err, ErrBadPick) {
			common.RespondWithError(s, i, "Picks look like `12A 13B`: a question number followed by A or B.")
			return
		}
		common.HandleError(s, i, err, false)
		return
	}

	if preview {
		common.RespondWithEmbed(s, i, BuildSlipPreviewEmbed(legs, wager), nil, true)
		return
	}

	userID, ok := f.resolveUser(s, i)
	if !ok {
		return
	}

	ticket, err := f.ledger.CreateTicket(ctx, userID, legs, wager)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithEmbed(s, i, BuildTicketCreatedEmbed(ticket), []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			discordgo.Button{
				Label:    "Cancel ticket",
				Style:    discordgo.DangerButton,
				CustomID: cancelButtonPrefix + strconv.FormatInt(ticket.ID, 10),
			},
		}},
	}, true)
}

func (f *Feature) handleHistory(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	filter := entities.TicketFilterOpen
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "filter" {
			filter = entities.TicketFilter(opt.StringValue())
		}
	}

	userID, ok := f.resolveUser(s, i)
	if !ok {
		return
	}

	views, err := f.ledger.ListTickets(ctx, userID, filter, historyLimit)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	common.RespondWithEmbed(s, i, BuildHistoryEmbed(filter, views), claimButtons(views), true)
}

func (f *Feature) handleClaim(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	ticketID := ticketIDOption(i)
	userID, ok := f.resolveUser(s, i)
	if !ok {
		return
	}

	result, err := f.ledger.Claim(ctx, userID, ticketID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, BuildClaimEmbed(result), nil, false)
}

func (f *Feature) handleClaimAll(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, ok := f.resolveUser(s, i)
	if !ok {
		return
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Error deferring claimall response: %v", err)
		return
	}

	result, err := f.ledger.ClaimAll(ctx, userID)
	if err != nil {
		common.HandleError(s, i, err, true)
		return
	}
	common.FollowUpWithEmbed(s, i, BuildClaimAllEmbed(result), nil, false)
}

func (f *Feature) handleCancel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	ticketID := ticketIDOption(i)
	userID, ok := f.resolveUser(s, i)
	if !ok {
		return
	}

	ticket, err := f.ledger.Cancel(ctx, userID, ticketID)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}
	common.RespondWithEmbed(s, i, BuildCancelEmbed(ticket), nil, true)
}

// resolveUser registers the invoking user on first contact and returns their ID
func (f *Feature) resolveUser(s *discordgo.Session, i *discordgo.InteractionCreate) (int64, bool) {
	user := common.InteractionUser(i)
	if user == nil {
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return 0, false
	}

	userID, err := common.ParseUserID(user.ID)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", user.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return 0, false
	}

	if _, err := f.ledger.EnsureUser(context.Background(), userID, user.Username); err != nil {
		common.HandleError(s, i, err, false)
		return 0, false
	}
	return userID, true
}

func ticketIDOption(i *discordgo.InteractionCreate) int64 {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "id" {
			return opt.IntValue()
		}
	}
	return 0
}

// claimButtons offers a claim button for each ready ticket, up to one row
func claimButtons(views []*entities.TicketView) []discordgo.MessageComponent {
	var buttons []discordgo.MessageComponent
	for _, view := range views {
		if view.State != entities.TicketStateReady {
			continue
		}
		buttons = append(buttons, discordgo.Button{
			Label:    "Claim #" + strconv.FormatInt(view.Ticket.ID, 10),
			Style:    discordgo.SuccessButton,
			CustomID: claimButtonPrefix + strconv.FormatInt(view.Ticket.ID, 10),
		})
		if len(buttons) == 5 {
			break
		}
	}
	if len(buttons) == 0 {
		return nil
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}
