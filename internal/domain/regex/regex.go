// Package regex compiles and caches various regex expressions. Expressions
// are compiled eagerly at init so the accessors are safe from concurrent
// jobs and stream goroutines.
package regex

import (
	"regexp"
)

var (
	ansiEscape   = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	downloadPct  = regexp.MustCompile(`\[download\]\s+([0-9]+(?:\.[0-9]+)?)% of`)
	extraSpaces  = regexp.MustCompile(`\s+`)
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1F]`)
)

// AnsiEscapeCompile returns the regex for ANSI escape codes.
func AnsiEscapeCompile() *regexp.Regexp {
	return ansiEscape
}

// DownloadPctCompile returns the regex for yt-dlp download percentage markers.
func DownloadPctCompile() *regexp.Regexp {
	return downloadPct
}

// ExtraSpacesCompile returns the regex for extra spaces.
func ExtraSpacesCompile() *regexp.Regexp {
	return extraSpaces
}

// InvalidCharsCompile returns the regex for filesystem-hostile characters.
func InvalidCharsCompile() *regexp.Regexp {
	return invalidChars
}
