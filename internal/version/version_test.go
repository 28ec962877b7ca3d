package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestBanner(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate }()

	Version, GitCommit, BuildDate = "1.2.3", "", ""
	if got := Banner(false); got != "csorder 1.2.3" {
		t.Fatalf("banner %q", got)
	}

	GitCommit, BuildDate = "abc123", "2024-01-15"
	if got := Banner(false); got != "csorder 1.2.3 (abc123) built 2024-01-15" {
		t.Fatalf("banner %q", got)
	}
}

func TestColoredKeepsSuffix(t *testing.T) {
	origVersion, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = origVersion, origNoColor }()

	// без цвета Sprint возвращает строку как есть
	color.NoColor = true
	for _, v := range []string{"0.1.0-dev", "1.2.3", "2.0.0-rc.1", "7"} {
		Version = v
		if got := Colored(); got != v {
			t.Fatalf("Colored(%q) = %q", v, got)
		}
	}
}
