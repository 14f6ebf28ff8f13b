package league

import "strings"

var majorTeams = []string{
	"CA Buenos Aires", "Tokyo S.C.", "Hollywood FC", "CF Catalunya", "A.C. Romana",
	"União São Paulo", "Reykjavik United", "Schwarzwälder FV", "Shanghai Dragons FC",
	"CD Tenochtitlan", "Xelajú Cósmico FC", "Liffeyside Celtic FC",
}

var minorTeams = []string{
	"AS Paris", "Montréal United", "Rapid Magyar SC", "Inter London", "Krung Thep FC",
	"North Shore United", "Athênai F.C.", "Cairo City", "Seoul MFC", "F.C. Kaapstad",
	"AF Masques Sacrés", "CS Rova Mpanjaka",
}

// academyTeams is empty until academy logos ship.
var academyTeams []string

var aliases = map[string]string{
	"usp": "União São Paulo", "sao paulo": "União São Paulo", "uniao": "União São Paulo",
	"asp": "AS Paris", "paris": "AS Paris", "asparis": "AS Paris", "par": "AS Paris",
	"cdt": "CD Tenochtitlan", "tenochtitlan": "CD Tenochtitlan",
	"acr": "A.C. Romana", "romana": "A.C. Romana", "roma": "A.C. Romana",
	"sfv": "Schwarzwälder FV", "schwarzwalder": "Schwarzwälder FV", "black forest": "Schwarzwälder FV",
	"reyk": "Reykjavik United", "rkv": "Reykjavik United", "reykjavik": "Reykjavik United",
	"cata": "CF Catalunya", "cat": "CF Catalunya", "catalunya": "CF Catalunya",
	"hol": "Hollywood FC", "hfc": "Hollywood FC", "hollywood": "Hollywood FC",
	"tok": "Tokyo S.C.", "tokyo": "Tokyo S.C.",
	"sha": "Shanghai Dragons FC", "shanghai": "Shanghai Dragons FC",
	"caba": "CA Buenos Aires", "buenos aires": "CA Buenos Aires",
	"mont": "Montréal United", "mtl": "Montréal United", "mon": "Montréal United", "montreal": "Montréal United",
	"magyar": "Rapid Magyar SC", "mag": "Rapid Magyar SC", "rapid magyar": "Rapid Magyar SC",
	"london": "Inter London", "lon": "Inter London", "inter": "Inter London",
	"ktp": "Krung Thep FC", "kth": "Krung Thep FC", "krung thep": "Krung Thep FC",
	"nsu": "North Shore United", "north shore": "North Shore United",
	"athenai": "Athênai F.C.", "ath": "Athênai F.C.",
	"cairo": "Cairo City", "cai": "Cairo City",
	"seoul": "Seoul MFC", "seo": "Seoul MFC",
	"kaapstad": "F.C. Kaapstad", "fck": "F.C. Kaapstad",
	"xelaju": "Xelajú Cósmico FC", "xcfc": "Xelajú Cósmico FC", "xlc": "Xelajú Cósmico FC",
	"afmsd": "AF Masques Sacrés", "msd": "AF Masques Sacrés",
	"liffeyside": "Liffeyside Celtic FC", "lcfc": "Liffeyside Celtic FC", "lif": "Liffeyside Celtic FC",
	"csrm": "CS Rova Mpanjaka", "rmp": "CS Rova Mpanjaka", "rova": "CS Rova Mpanjaka",
}

// TeamKind says which logo family a team belongs to.
type TeamKind int

const (
	TeamUnknown TeamKind = iota
	TeamMain
	TeamAcademy
)

var teamIndex = buildTeamIndex()

func buildTeamIndex() map[string]TeamKind {
	index := make(map[string]TeamKind, len(majorTeams)+len(minorTeams)+len(academyTeams))
	for _, name := range majorTeams {
		index[strings.ToLower(name)] = TeamMain
	}
	for _, name := range minorTeams {
		index[strings.ToLower(name)] = TeamMain
	}
	for _, name := range academyTeams {
		if _, ok := index[strings.ToLower(name)]; !ok {
			index[strings.ToLower(name)] = TeamAcademy
		}
	}
	return index
}

// ClassifyTeam matches a team name case-insensitively against the known sets.
func ClassifyTeam(name string) TeamKind {
	return teamIndex[strings.ToLower(strings.TrimSpace(name))]
}

// CanonicalTeam expands a known abbreviation to the full team name.
// Unknown input is returned unchanged.
func CanonicalTeam(name string) string {
	trimmed := strings.TrimSpace(name)
	if full, ok := aliases[strings.ToLower(trimmed)]; ok {
		return full
	}
	return trimmed
}

func MajorTeams() []string {
	return append([]string(nil), majorTeams...)
}

func MinorTeams() []string {
	return append([]string(nil), minorTeams...)
}
