package sslapi

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/riskibarqy/ssl-bot/internal/domain/leader"
	"github.com/riskibarqy/ssl-bot/internal/domain/standing"
	"github.com/riskibarqy/ssl-bot/internal/usecase"
)

// PlaceholderTeam stands in for rows that arrive without a team name.
const PlaceholderTeam = "N/A"

// NormalizeStandings maps upstream standings records onto standing.Row.
// Missing numbers become zero and a missing matchday means the row is not
// divided. matchtype is mandatory.
func NormalizeStandings(raw []map[string]any) ([]standing.Row, error) {
	rows := make([]standing.Row, 0, len(raw))
	for i, item := range raw {
		leagueType, err := parseLeagueType(item["matchtype"])
		if err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", usecase.ErrMalformedData, i, err)
		}

		team := stringField(item, "team")
		if team == "" {
			team = PlaceholderTeam
		}
		division := standing.Division(strings.ToUpper(stringField(item, "matchday")))
		if division == "" {
			division = standing.DivisionAll
		}

		rows = append(rows, standing.Row{
			Team:           team,
			MatchesPlayed:  intField(item, "mp"),
			Wins:           intField(item, "w"),
			Draws:          intField(item, "d"),
			Losses:         intField(item, "l"),
			GoalsFor:       intField(item, "gf"),
			GoalsAgainst:   intField(item, "ga"),
			GoalDifference: intField(item, "gd"),
			Points:         intField(item, "p"),
			Division:       division,
			LeagueType:     leagueType,
		})
	}
	return rows, nil
}

// NormalizeDraftClass maps upstream draft-class records onto leader.Row.
func NormalizeDraftClass(raw []map[string]any) []leader.Row {
	rows := make([]leader.Row, 0, len(raw))
	for _, item := range raw {
		rows = append(rows, leader.Row{
			TPE:      intField(item, "tpe"),
			Name:     stringField(item, "name"),
			Username: stringField(item, "username"),
		})
	}
	return rows
}

func parseLeagueType(value any) (standing.LeagueType, error) {
	switch v := value.(type) {
	case nil:
		return 0, fmt.Errorf("matchtype is missing")
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("matchtype %v is not an integer", v)
		}
		return standing.LeagueType(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("matchtype %q is not an integer", v)
		}
		return standing.LeagueType(n), nil
	default:
		return 0, fmt.Errorf("matchtype has unsupported type %T", value)
	}
}

func stringField(item map[string]any, key string) string {
	switch v := item[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func intField(item map[string]any, key string) int {
	switch v := item[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return int(n)
	default:
		return 0
	}
}
