package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestThemeCycle(t *testing.T) {
	if diff := cmp.Diff([]string{"Mocha", "Gruvbox", "Paper"}, ThemeNames()); diff != "" {
		t.Fatalf("ThemeNames (-want +got):\n%s", diff)
	}
	for current, want := range map[string]string{
		"Mocha":   "Gruvbox",
		"Paper":   "Mocha",
		"Unknown": "Mocha",
	} {
		if got := NextTheme(current); got != want {
			t.Errorf("NextTheme(%q) = %q, want %q", current, got, want)
		}
	}
}

func TestGetTheme_FallsBackToFirst(t *testing.T) {
	if got := GetTheme("Gruvbox").Name; got != "Gruvbox" {
		t.Fatalf("GetTheme(Gruvbox).Name = %q", got)
	}
	if got := GetTheme("Dracula").Name; got != "Mocha" {
		t.Fatalf("GetTheme(Dracula).Name = %q, want Mocha", got)
	}
}

func TestEveryThemeDefinesCoreColors(t *testing.T) {
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for label, color := range map[string]string{
			"Background": th.Background, "Surface": th.Surface, "Raised": th.Raised,
			"Text": th.Text, "Accent": th.Accent, "Danger": th.Danger, "BorderFocus": th.BorderFocus,
		} {
			if color == "" {
				t.Errorf("%s: %s is empty", name, label)
			}
		}
	}
}

func TestLevelStyle(t *testing.T) {
	s := GetTheme("Mocha").Styles()
	if got, want := s.LevelStyle("ERROR").GetForeground(), s.DangerText.GetForeground(); got != want {
		t.Fatalf("ERROR foreground = %v, want %v", got, want)
	}
	if got, want := s.LevelStyle("trace").GetForeground(), s.MutedText.GetForeground(); got != want {
		t.Fatalf("unknown level foreground = %v, want %v", got, want)
	}
}
