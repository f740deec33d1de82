package tickets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"parlay/domain/entities"
)

// ErrBadPick is returned when a pick can't be read
var ErrBadPick = errors.New("unreadable pick")

// ParsePicks reads a slip like "12A 13b" or "12:A, 13=B" into legs in the order given
func ParsePicks(input string) ([]entities.Leg, error) {
	fields := strings.FieldsFunc(input, func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '\t'
	})
	if len(fields) == 0 {
		return nil, entities.ErrEmptySelection
	}

	legs := make([]entities.Leg, 0, len(fields))
	for _, field := range fields {
		leg, err := parsePick(field)
		if err != nil {
			return nil, err
		}
		legs = append(legs, leg)
	}
	return legs, nil
}

func parsePick(field string) (entities.Leg, error) {
	if len(field) < 2 {
		return entities.Leg{}, fmt.Errorf("%w: %q", ErrBadPick, field)
	}

	idPart := strings.TrimRight(field[:len(field)-1], ":=")
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return entities.Leg{}, fmt.Errorf("%w: %q", ErrBadPick, field)
	}

	option, err := entities.ParseOption(field[len(field)-1:])
	if err != nil {
		return entities.Leg{}, err
	}
	return entities.Leg{QuestionID: id, Selected: option}, nil
}
