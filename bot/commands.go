package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

var minWagerValue = 1.0

// slashCommands are the commands registered with Discord
var slashCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "board",
		Description: "Show today's questions",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "date",
				Description: "Another day, as YYYY-MM-DD",
				Required:    false,
			},
		},
	},
	{
		Name:        "ticket",
		Description: "Place a parlay ticket",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "picks",
				Description: "Question numbers with your side, e.g. 12A 13B",
				Required:    true,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "wager",
				Description: "Tokens to stake",
				Required:    true,
				MinValue:    &minWagerValue,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "preview",
				Description: "Show the potential win without placing the ticket",
				Required:    false,
			},
		},
	},
	{
		Name:        "tickets",
		Description: "List your tickets",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "filter",
				Description: "Which tickets to show",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Open", Value: "open"},
					{Name: "Closed", Value: "closed"},
					{Name: "All", Value: "all"},
				},
			},
		},
	},
	{
		Name:        "claim",
		Description: "Claim a ticket whose questions are all decided",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "id",
				Description: "Ticket number",
				Required:    true,
			},
		},
	},
	{
		Name:        "claimall",
		Description: "Claim every ticket that is ready",
	},
	{
		Name:        "cancel",
		Description: "Cancel an unsettled ticket and get your tokens back",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "id",
				Description: "Ticket number",
				Required:    true,
			},
		},
	},
	{
		Name:        "leaderboard",
		Description: "Show the points leaderboard",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "window",
				Description: "Time range",
				Required:    false,
				Choices: []*discordgo.ApplicationCommandOptionChoice{
					{Name: "Daily", Value: "daily"},
					{Name: "Weekly", Value: "weekly"},
					{Name: "Monthly", Value: "monthly"},
				},
			},
		},
	},
	{
		Name:        "profile",
		Description: "Show your tokens, points and record",
	},
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range slashCommands {
		if _, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd); err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	log.WithField("count", len(slashCommands)).Info("Registered slash commands")
	return nil
}
