package board

import (
	"fmt"
	"time"

	"parlay/bot/common"
	"parlay/domain/entities"

	"github.com/bwmarrin/discordgo"
)

// maxEmbedFields is Discord's field limit per embed
const maxEmbedFields = 25

// BuildBoardEmbed lists a day's questions with their lock status
func BuildBoardEmbed(date time.Time, questions []*entities.Question, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("📋 Board for %s", date.Format("Monday, Jan 2")),
		Color: common.ColorNeutral,
	}

	if len(questions) == 0 {
		embed.Description = "No questions scheduled for this day."
		return embed
	}

	open := 0
	for _, q := range questions {
		if !q.IsLocked(now) {
			open++
		}
	}
	embed.Description = fmt.Sprintf("%d open of %d. Build a ticket with `/ticket picks:<id><A|B> ...`.", open, len(questions))

	for idx, q := range questions {
		if idx == maxEmbedFields {
			break
		}
		name := fmt.Sprintf("Q%d", q.ID)
		if q.Category != "" {
			name = fmt.Sprintf("Q%d · %s", q.ID, q.Category)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: name,
			Value: fmt.Sprintf("%s\n**A** %s · **B** %s\n%s",
				q.Prompt, q.OptionA, q.OptionB, questionStatus(q, now)),
		})
	}
	return embed
}

func questionStatus(q *entities.Question, now time.Time) string {
	switch {
	case q.IsDecided():
		return fmt.Sprintf("✅ Result: **%s** (%s)", *q.WinningOption, q.Label(*q.WinningOption))
	case q.IsLive(now):
		return "🔴 Live, awaiting result"
	default:
		return "🟢 Locks " + common.FormatDiscordTimestamp(q.LockTime, "R")
	}
}
