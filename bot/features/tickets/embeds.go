package tickets

import (
	"fmt"
	"sort"
	"strings"

	"parlay/bot/common"
	"parlay/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// BuildTicketCreatedEmbed confirms a placed ticket with its potential win
func BuildTicketCreatedEmbed(ticket *entities.Ticket) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🎟️ Ticket #%d placed", ticket.ID),
		Description: common.FormatLegs(ticket.Legs, nil),
		Color:       common.ColorOpen,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wager", Value: common.FormatTokens(ticket.Wager), Inline: true},
			{Name: "Legs", Value: fmt.Sprintf("%d", len(ticket.Legs)), Inline: true},
			{Name: "Potential win", Value: common.FormatPointsLabel(ticket.Payout()), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Ref " + ticket.Reference.String()},
	}
}

// BuildSlipPreviewEmbed shows what a slip would pay without placing it
func BuildSlipPreviewEmbed(legs []entities.Leg, wager int64) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🧾 Ticket preview",
		Description: common.FormatLegs(legs, nil),
		Color:       common.ColorNeutral,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Wager", Value: common.FormatTokens(wager), Inline: true},
			{Name: "Legs", Value: fmt.Sprintf("%d", len(legs)), Inline: true},
			{Name: "Potential win", Value: common.FormatPointsLabel(entities.PreviewPayout(legs, wager)), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Run /ticket without preview to place it"},
	}
}

// BuildHistoryEmbed lists tickets newest first with their state
func BuildHistoryEmbed(filter entities.TicketFilter, views []*entities.TicketView) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🎟️ Your %s tickets", filter),
		Color: common.ColorNeutral,
	}
	if len(views) == 0 {
		embed.Description = "No tickets here yet."
		return embed
	}

	for _, view := range views {
		t := view.Ticket
		value := fmt.Sprintf("%s · %s · %d %s\n%s",
			common.StateLabel(view.State),
			common.FormatTokens(t.Wager),
			len(t.Legs), pluralLegs(len(t.Legs)),
			common.FormatLegs(t.Legs, nil))
		if view.State == entities.TicketStateOpen || view.State == entities.TicketStateReady {
			value += "\nPays " + common.FormatPointsLabel(view.PotentialPayout)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d · %s", t.ID, common.FormatDiscordTimestamp(t.CreatedAt, "R")),
			Value: value,
		})
	}
	return embed
}

// BuildClaimEmbed reports a single claim
func BuildClaimEmbed(result *entities.ClaimResult) *discordgo.MessageEmbed {
	if result.Won {
		return &discordgo.MessageEmbed{
			Title: fmt.Sprintf("🏆 Ticket #%d won!", result.TicketID),
			Description: fmt.Sprintf("You earned **%s** and got **%s** back.",
				common.FormatPointsLabel(result.Points), common.FormatTokens(result.TokensReturned)),
			Color: common.ColorWon,
		}
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("💀 Ticket #%d lost", result.TicketID),
		Description: fmt.Sprintf("No points this time. **%s** returned.", common.FormatTokens(result.TokensReturned)),
		Color:       common.ColorLost,
	}
}

// BuildClaimAllEmbed summarises a batch claim, listing failures separately
func BuildClaimAllEmbed(result *entities.ClaimAllResult) *discordgo.MessageEmbed {
	if result.Succeeded() == 0 && len(result.Failures) == 0 {
		return &discordgo.MessageEmbed{
			Title:       "Nothing to claim",
			Description: "None of your tickets are ready yet.",
			Color:       common.ColorNeutral,
		}
	}

	wins := 0
	for _, r := range result.Results {
		if r.Won {
			wins++
		}
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🧾 Claimed %d %s", result.Succeeded(), pluralTickets(result.Succeeded())),
		Description: fmt.Sprintf("%d won · %d lost\n+**%s** · **%s** returned",
			wins, result.Succeeded()-wins,
			common.FormatPointsLabel(result.TotalPoints()), common.FormatTokens(result.TotalTokens())),
		Color: common.ColorWon,
	}

	if len(result.Failures) > 0 {
		ids := make([]int64, 0, len(result.Failures))
		for id := range result.Failures {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

		var lines []string
		for _, id := range ids {
			lines = append(lines, fmt.Sprintf("#%d: %s", id, common.ErrorMessage(result.Failures[id])))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Not claimed",
			Value: strings.Join(lines, "\n"),
		})
		embed.Color = common.ColorReady
	}
	return embed
}

// BuildCancelEmbed confirms a voided ticket
func BuildCancelEmbed(ticket *entities.Ticket) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("🚫 Ticket #%d cancelled", ticket.ID),
		Description: fmt.Sprintf("**%s** returned.", common.FormatTokens(ticket.Wager)),
		Color:       common.ColorVoided,
	}
}

func pluralLegs(n int) string {
	if n == 1 {
		return "leg"
	}
	return "legs"
}

func pluralTickets(n int) string {
	if n == 1 {
		return "ticket"
	}
	return "tickets"
}
