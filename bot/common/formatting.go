package common

import (
	"fmt"
	"strings"
	"time"

	"parlay/domain/entities"
	"parlay/domain/utils"
)

// Embed colors
const (
	ColorOpen    = 0x3498DB
	ColorReady   = 0xF1C40F
	ColorWon     = 0x2ECC71
	ColorLost    = 0xE74C3C
	ColorVoided  = 0x95A5A6
	ColorNeutral = 0x5865F2
)

// FormatTokens renders a token amount with its unit
func FormatTokens(tokens int64) string {
	return fmt.Sprintf("%s %s", utils.FormatPoints(tokens), utils.Pluralize(tokens, "token", "tokens"))
}

// FormatPointsLabel renders a point amount with its unit
func FormatPointsLabel(points int64) string {
	return fmt.Sprintf("%s %s", utils.FormatPoints(points), utils.Pluralize(points, "point", "points"))
}

// FormatDiscordTimestamp formats a time as a Discord timestamp that displays in user's local timezone
// Format types: "t" = short time, "T" = long time, "d" = short date, "D" = long date,
// "f" = short date/time, "F" = long date/time, "R" = relative time
func FormatDiscordTimestamp(t time.Time, format string) string {
	return fmt.Sprintf("<t:%d:%s>", t.Unix(), format)
}

// StateLabel returns an emoji label for a ticket state
func StateLabel(state entities.TicketState) string {
	switch state {
	case entities.TicketStateOpen:
		return "🕒 Open"
	case entities.TicketStateReady:
		return "🔔 Ready to claim"
	case entities.TicketStateSettledWon:
		return "🏆 Won"
	case entities.TicketStateSettledLost:
		return "💀 Lost"
	case entities.TicketStateVoided:
		return "🚫 Cancelled"
	default:
		return string(state)
	}
}

// StateColor returns the embed color for a ticket state
func StateColor(state entities.TicketState) int {
	switch state {
	case entities.TicketStateReady:
		return ColorReady
	case entities.TicketStateSettledWon:
		return ColorWon
	case entities.TicketStateSettledLost:
		return ColorLost
	case entities.TicketStateVoided:
		return ColorVoided
	default:
		return ColorOpen
	}
}

// FormatLegs renders a ticket's picks, one per line, marking decided legs
func FormatLegs(legs []entities.Leg, questions map[int64]*entities.Question) string {
	var b strings.Builder
	for _, leg := range legs {
		mark := "▫️"
		label := fmt.Sprintf("Q%d", leg.QuestionID)
		if q, ok := questions[leg.QuestionID]; ok {
			label = fmt.Sprintf("Q%d %s", q.ID, q.Prompt)
			if q.IsDecided() {
				mark = "❌"
				if *q.WinningOption == leg.Selected {
					mark = "✅"
				}
			}
		}
		fmt.Fprintf(&b, "%s %s → **%s**\n", mark, label, leg.Selected)
	}
	return strings.TrimRight(b.String(), "\n")
}
