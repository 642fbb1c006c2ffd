package prefs

import "testing"

func TestExamTypeRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	p := Load()
	if got := p.ExamType(); got != "" {
		t.Fatalf("fresh prefs exam type = %q, want empty", got)
	}
	if p.HotReload() {
		t.Fatal("hot reload should default to off")
	}

	if err := p.SetExamType("lateral"); err != nil {
		t.Fatal(err)
	}

	reloaded := Load()
	if got := reloaded.ExamType(); got != "lateral" {
		t.Errorf("reloaded exam type = %q, want %q", got, "lateral")
	}
}
