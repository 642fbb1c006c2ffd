package mainwindow

import "testing"

func TestDirtyTitle(t *testing.T) {
	cases := []struct {
		in       string
		modified bool
		want     string
	}{
		{"SpineView - a.png", true, "SpineView - a.png *"},
		{"SpineView - a.png *", true, "SpineView - a.png *"},
		{"SpineView - a.png *", false, "SpineView - a.png"},
		{"SpineView - a.png", false, "SpineView - a.png"},
	}
	for _, c := range cases {
		if got := dirtyTitle(c.in, c.modified); got != c.want {
			t.Errorf("dirtyTitle(%q, %v) = %q, want %q", c.in, c.modified, got, c.want)
		}
	}
}
