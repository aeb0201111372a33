package version

import (
	"strings"
	"testing"
)

func TestCheckAppBuild(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"beta-1", "beta-1"},
		{"dirty.tree", ""},
		{"spaces not allowed", ""},
	}

	for _, test := range tests {
		if got := checkAppBuild(test.in); got != test.want {
			t.Errorf("checkAppBuild(%q): got %q, want %q", test.in, got, test.want)
		}
	}
}

func TestVersion(t *testing.T) {
	got := Version()
	if !strings.HasPrefix(got, "0.1.0") {
		t.Errorf("Version: got %s, want a 0.1.0 prefix", got)
	}
	if strings.ContainsAny(got, "/:()") {
		t.Errorf("Version: %s contains characters reserved by the user agent format", got)
	}
}
