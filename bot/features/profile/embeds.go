package profile

import (
	"fmt"
	"strings"

	"parlay/bot/common"
	"parlay/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// BuildProfileEmbed summarises balance, record and recent tickets
func BuildProfileEmbed(profile *entities.Profile) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("👤 %s", profile.User.Username),
		Color: common.ColorNeutral,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Tokens", Value: common.FormatTokens(profile.User.Tokens), Inline: true},
			{Name: "Points", Value: common.FormatPointsLabel(profile.User.Points), Inline: true},
			{Name: "Open tickets", Value: fmt.Sprintf("%d", profile.OpenTickets), Inline: true},
			{Name: "Record", Value: fmt.Sprintf("%dW · %dL · %d cancelled", profile.Wins, profile.Losses, profile.Voided), Inline: true},
			{Name: "Win rate", Value: fmt.Sprintf("%d%%", profile.WinRate()), Inline: true},
			{Name: "Points won", Value: common.FormatPointsLabel(profile.PointsWon), Inline: true},
		},
	}

	if len(profile.RecentTickets) > 0 {
		var lines []string
		for _, view := range profile.RecentTickets {
			lines = append(lines, fmt.Sprintf("#%d · %s · %s",
				view.Ticket.ID, common.StateLabel(view.State), common.FormatTokens(view.Ticket.Wager)))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Recent tickets",
			Value: strings.Join(lines, "\n"),
		})
	}
	return embed
}
