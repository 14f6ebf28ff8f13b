package leader

import "testing"

func TestTop(t *testing.T) {
	t.Parallel()

	rows := []Row{
		{TPE: 120, Name: "a"}, {TPE: 450, Name: "b"}, {TPE: 300, Name: "c"},
		{TPE: 450, Name: "d"}, {TPE: 90, Name: "e"}, {TPE: 310, Name: "f"},
	}
	got := Top(rows, DefaultLimit)
	if len(got) != DefaultLimit {
		t.Fatalf("len = %d, want %d", len(got), DefaultLimit)
	}
	want := []string{"b", "d", "f", "c", "a"}
	for i := range want {
		if got[i].Name != want[i] {
			t.Fatalf("rank %d = %q, want %q", i+1, got[i].Name, want[i])
		}
	}
}

func TestClassLabel(t *testing.T) {
	t.Parallel()

	if got := ClassLabel(nil); got != "Academy" {
		t.Fatalf("ClassLabel(nil) = %q", got)
	}
	season := 26
	if got := ClassLabel(&season); got != "S26" {
		t.Fatalf("ClassLabel(26) = %q", got)
	}
}
