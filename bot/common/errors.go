package common

import (
	"errors"
	"fmt"

	"parlay/domain/entities"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// genericErrorMessage is shown when an error has no user-facing meaning
const genericErrorMessage = "Something went wrong. Please try again later."

// userMessages maps each ledger failure to what the player sees
var userMessages = []struct {
	err     error
	message string
}{
	{entities.ErrInsufficientTokens, "You don't have enough tokens for that wager."},
	{entities.ErrMarketClosed, "One of those questions has already locked. Pick from the open questions on the board."},
	{entities.ErrEmptySelection, "Pick at least one question before placing a ticket."},
	{entities.ErrNotOwner, "That ticket belongs to someone else."},
	{entities.ErrAlreadyClaimed, "That ticket has already been claimed."},
	{entities.ErrAlreadyVoided, "That ticket was cancelled."},
	{entities.ErrInvalidState, "That ticket isn't ready yet. Every question needs a result first."},
	{entities.ErrInvalidWager, "That wager is outside the allowed range."},
	{entities.ErrDuplicateLeg, "Each question can only appear once on a ticket."},
	{entities.ErrTooManyLegs, "That ticket has too many picks."},
	{entities.ErrPayoutOverflow, "That ticket's payout is too large to settle."},
	{entities.ErrInvalidOption, "Picks must be A or B."},
	{entities.ErrAlreadyResolved, "That question already has a result."},
	{entities.ErrNotFound, "Couldn't find that ticket or question."},
}

// ErrorMessage returns the user-facing message for a ledger error
func ErrorMessage(err error) string {
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			return m.message
		}
	}
	return genericErrorMessage
}

// IsUserError reports whether err is an expected rejection rather than a fault
func IsUserError(err error) bool {
	return ErrorMessage(err) != genericErrorMessage
}

// RespondWithError sends an error message as an interaction response
func RespondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("❌ %s", message),
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Errorf("Error sending error response: %v", err)
	}
}

// FollowUpWithError sends an error message as a follow-up to a deferred interaction
func FollowUpWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	_, err := s.FollowupMessageCreate(i.Interaction, false, &discordgo.WebhookParams{
		Content: fmt.Sprintf("❌ %s", message),
		Flags:   discordgo.MessageFlagsEphemeral,
	})
	if err != nil {
		log.Errorf("Error sending follow-up error message: %v", err)
	}
}

// HandleError logs err and tells the user what went wrong
func HandleError(s *discordgo.Session, i *discordgo.InteractionCreate, err error, deferred bool) {
	fields := log.Fields{
		"user_id": InteractionUserID(i),
		"error":   err.Error(),
	}
	if i.Type == discordgo.InteractionApplicationCommand {
		fields["command"] = i.ApplicationCommandData().Name
	}

	if IsUserError(err) {
		log.WithFields(fields).Debug("Rejected ledger request")
	} else {
		log.WithFields(fields).Error("Unexpected error in bot command")
	}

	message := ErrorMessage(err)
	if deferred {
		FollowUpWithError(s, i, message)
	} else {
		RespondWithError(s, i, message)
	}
}
