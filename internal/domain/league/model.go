package league

import "strings"

// DivisionsIntroducedSeason is the first season split into two divisions.
const DivisionsIntroducedSeason = 24

// Tier drives accent colors, trophies and the side label.
type Tier int

const (
	TierMinor Tier = iota
	TierMajor
)

func (t Tier) String() string {
	if t == TierMajor {
		return "major"
	}
	return "minor"
}

// SideLabel is the rotated watermark printed beside the trophy.
func (t Tier) SideLabel() string {
	if t == TierMajor {
		return "MAJORS"
	}
	return "MINORS"
}

// TierFromName classifies a competition display name by its prefix.
func TierFromName(name string) Tier {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(name)), "major") {
		return TierMajor
	}
	return TierMinor
}

// League is a competition the standings command can be asked about.
type League struct {
	Key  string
	Name string
	ID   int
}

// HasStandings reports whether the upstream API serves a league table for it.
func (l League) HasStandings() bool {
	return l.ID != 0
}

func (l League) Tier() Tier {
	return TierFromName(l.Name)
}

var leagues = map[string]League{
	"majors":     {Key: "majors", Name: "Majors", ID: 1},
	"minors":     {Key: "minors", Name: "Minors", ID: 2},
	"ssl cup":    {Key: "ssl cup", Name: "Ssl Cup", ID: 0},
	"ssl shield": {Key: "ssl shield", Name: "Ssl Shield", ID: 0},
}

// Lookup resolves a user supplied league name, case-insensitively.
func Lookup(name string) (League, bool) {
	l, ok := leagues[strings.ToLower(strings.TrimSpace(name))]
	return l, ok
}

// Keys lists the league names accepted by Lookup.
func Keys() []string {
	return []string{"majors", "minors", "ssl cup", "ssl shield"}
}

// HasDivisions reports whether a season was played in two divisions.
func HasDivisions(season int) bool {
	return season >= DivisionsIntroducedSeason
}
