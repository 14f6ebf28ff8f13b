package leader

import (
	"sort"
	"strconv"
)

// DefaultLimit is how many players the class leaders sheet shows.
const DefaultLimit = 5

// Row is one player's standing inside a draft class.
type Row struct {
	TPE      int
	Name     string
	Username string
}

// Top returns the n highest rows by TPE. Equal TPE keeps upstream order.
func Top(rows []Row, n int) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool { return out[i].TPE > out[j].TPE })
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ClassLabel names a draft class: "Academy" when no class is given, else "S<n>".
func ClassLabel(class *int) string {
	if class == nil {
		return "Academy"
	}
	return "S" + strconv.Itoa(*class)
}
