package leaderboard

import (
	"fmt"
	"strings"

	"parlay/bot/common"
	"parlay/domain/entities"
	"parlay/domain/utils"

	"github.com/bwmarrin/discordgo"
)

// shownRows is how many standings the embed lists
const shownRows = 10

var medals = map[int]string{1: "🥇", 2: "🥈", 3: "🥉"}

var windowTitles = map[entities.Window]string{
	entities.WindowDaily:   "Today",
	entities.WindowWeekly:  "Last 7 days",
	entities.WindowMonthly: "Last 30 days",
}

// BuildLeaderboardEmbed lists the top standings and the caller's position
func BuildLeaderboardEmbed(window entities.Window, standings []*entities.Standing, callerID int64) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("🏆 Leaderboard · %s", windowTitles[window]),
		Color: common.ColorNeutral,
	}
	if len(standings) == 0 {
		embed.Description = "No players yet."
		return embed
	}

	var b strings.Builder
	for idx, s := range standings {
		if idx == shownRows {
			break
		}
		b.WriteString(formatRow(s, s.UserID == callerID))
		b.WriteByte('\n')
	}
	embed.Description = strings.TrimRight(b.String(), "\n")

	for _, s := range standings[min(len(standings), shownRows):] {
		if s.UserID == callerID {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
				Name:  "Your position",
				Value: formatRow(s, true),
			})
			break
		}
	}
	return embed
}

func formatRow(s *entities.Standing, highlight bool) string {
	rank := fmt.Sprintf("`#%d`", s.Rank)
	if medal, ok := medals[s.Rank]; ok {
		rank = medal
	}
	row := fmt.Sprintf("%s %s · %s pts", rank, s.Username, utils.FormatPoints(s.Points))
	if highlight {
		row = "**" + row + "**"
	}
	return row
}
