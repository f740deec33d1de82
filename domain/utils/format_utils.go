package utils

import (
	"fmt"
	"strings"
)

// FormatPoints renders a point total with thousands separators
func FormatPoints(points int64) string {
	negative := points < 0
	if negative {
		points = -points
	}

	digits := fmt.Sprintf("%d", points)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	if negative {
		return "-" + b.String()
	}
	return b.String()
}

// Pluralize returns singular for a count of one and plural otherwise
func Pluralize(count int64, singular, plural string) string {
	if count == 1 {
		return singular
	}
	return plural
}
