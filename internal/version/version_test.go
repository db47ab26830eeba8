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

func TestWatermarkIsPlain(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "1.2.3"
	if got := Watermark(); got != "cyannotate 1.2.3" {
		t.Errorf("Watermark() = %q", got)
	}
}

func TestPretty(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = true

	cases := []string{
		"0.1.0",
		"1.2.3",
		"2.0.0-alpha",
		"1.2.3-rc.1+build.123",
		"dev",
		"1.2",
	}
	for _, v := range cases {
		Version = v
		if got := Pretty(); got != v {
			t.Errorf("Pretty() with colors off = %q, want %q", got, v)
		}
	}
}

func TestPrettyColors(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = false

	Version = "1.2.3-dev"
	if got := Pretty(); got == Version {
		t.Error("expected colored output")
	}
}
