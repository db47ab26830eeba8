package version

import (
	"strings"

	"github.com/fatih/color"
)

// Build metadata of the cyannotate CLI.
// These variables can be overridden at build time via -ldflags.
var (
	// Version is the semantic version. It is embedded in every report
	// watermark, so it stays free of terminal escapes.
	Version = "0.4.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Watermark is the generator name written into reports.
func Watermark() string {
	return "cyannotate " + Version
}

// Pretty returns Version with major, minor and patch colored for terminals.
// Anything after the patch number (pre-release, build) is left plain.
func Pretty() string {
	core, suffix := Version, ""
	if i := strings.IndexAny(core, "-+"); i >= 0 {
		core, suffix = core[:i], core[i:]
	}
	parts := strings.SplitN(core, ".", 3)
	if len(parts) != 3 {
		return Version
	}
	return majorColor.Sprint(parts[0]) + "." + minorColor.Sprint(parts[1]) + "." + patchColor.Sprint(parts[2]) + suffix
}
