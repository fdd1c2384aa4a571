package config

import (
	"os"
	"strings"
)

// ProjectConfigName is the file name the project configuration is staged as.
const ProjectConfigName = "platformio.ini"

// SourcePatterns returns args when non-empty, otherwise the colon separated
// patterns from EnvSource. Empty segments are dropped so an unset or empty
// variable yields no patterns.
func SourcePatterns(args []string) []string {
	if len(args) > 0 {
		return args
	}
	return SplitPatternList(os.Getenv(EnvSource))
}

// SplitPatternList splits a colon separated pattern list. Segments are kept
// verbatim, surrounding whitespace included.
func SplitPatternList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ":") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
