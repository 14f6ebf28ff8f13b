package standing

import (
	"sort"
	"strings"
)

// Division tags a row with the bracket it was played in.
type Division string

const (
	DivisionOne Division = "1"
	DivisionTwo Division = "2"
	DivisionAll Division = "ALL"
)

// ParseDivision accepts the user-facing selector ("1", "2", "all" in any case).
func ParseDivision(raw string) (Division, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "1":
		return DivisionOne, true
	case "2":
		return DivisionTwo, true
	case "ALL", "":
		return DivisionAll, true
	default:
		return "", false
	}
}

// LeagueType is the upstream numeric league identifier carried per row.
type LeagueType int

const (
	LeagueTypeOther LeagueType = 0
	LeagueTypeMajor LeagueType = 1
	LeagueTypeMinor LeagueType = 2
)

// Row is one team's record for one competition context.
type Row struct {
	Team           string
	MatchesPlayed  int
	Wins           int
	Draws          int
	Losses         int
	GoalsFor       int
	GoalsAgainst   int
	GoalDifference int
	Points         int
	Division       Division
	LeagueType     LeagueType
}

// SortByRanking orders rows by points, goal difference, then goals for, all
// descending. Ties keep upstream order.
func SortByRanking(rows []Row) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.GoalsFor > b.GoalsFor
	})
	return out
}

// Split partitions rows by division tag, keeping relative order.
type Split struct {
	DivisionOne []Row
	DivisionTwo []Row
	Undivided   []Row
}

func SplitByDivision(rows []Row) Split {
	var out Split
	for _, row := range rows {
		switch row.Division {
		case DivisionOne:
			out.DivisionOne = append(out.DivisionOne, row)
		case DivisionTwo:
			out.DivisionTwo = append(out.DivisionTwo, row)
		default:
			out.Undivided = append(out.Undivided, row)
		}
	}
	return out
}
