package league

import "testing"

func TestLookup(t *testing.T) {
	t.Parallel()

	majors, ok := Lookup(" MAJORS ")
	if !ok || majors.ID != 1 || !majors.HasStandings() {
		t.Fatalf("unexpected majors lookup: %+v ok=%v", majors, ok)
	}
	if majors.Tier() != TierMajor {
		t.Fatalf("majors should be major tier")
	}

	cup, ok := Lookup("ssl cup")
	if !ok || cup.HasStandings() {
		t.Fatalf("ssl cup should be known without standings: %+v ok=%v", cup, ok)
	}

	if _, ok := Lookup("premier"); ok {
		t.Fatalf("unknown league should not resolve")
	}
}

func TestTierFromName(t *testing.T) {
	t.Parallel()

	cases := map[string]Tier{
		"Majors":            TierMajor,
		"Major Division 1":  TierMajor,
		"Minors Division 2": TierMinor,
		"Ssl Cup":           TierMinor,
	}
	for name, want := range cases {
		if got := TierFromName(name); got != want {
			t.Fatalf("TierFromName(%q) = %v, want %v", name, got, want)
		}
	}
	if TierMajor.SideLabel() != "MAJORS" || TierMinor.SideLabel() != "MINORS" {
		t.Fatalf("unexpected side labels")
	}
}

func TestClassifyTeamAndAliases(t *testing.T) {
	t.Parallel()

	if got := ClassifyTeam("tokyo s.c."); got != TeamMain {
		t.Fatalf("expected case-insensitive main team match, got %v", got)
	}
	if got := ClassifyTeam("Unknown Team XYZ"); got != TeamUnknown {
		t.Fatalf("expected unknown team, got %v", got)
	}
	if got := CanonicalTeam("NSU"); got != "North Shore United" {
		t.Fatalf("CanonicalTeam(NSU) = %q", got)
	}
	if got := CanonicalTeam("Cairo City"); got != "Cairo City" {
		t.Fatalf("CanonicalTeam should pass through full names, got %q", got)
	}
}

func TestHasDivisions(t *testing.T) {
	t.Parallel()

	if HasDivisions(23) || !HasDivisions(24) {
		t.Fatalf("divisions start at season %d", DivisionsIntroducedSeason)
	}
}
