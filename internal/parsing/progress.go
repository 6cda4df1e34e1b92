// Package parsing scans raw tool output fragments for known progress and
// error signals. Matching is pure and stateless; fragments that match no
// pattern yield no event.
package parsing

import (
	"strconv"
	"strings"

	"fetcharr/internal/domain/consts"
	"fetcharr/internal/domain/regex"
	"fetcharr/internal/models"
)

// errMarker is the explicit error token yt-dlp prints on stderr.
const errMarker = "ERROR:"

// sizeMarker appears in ffmpeg stats lines. ffmpeg has no native percentage
// output, so its presence maps to a single fixed coarse percentage.
const sizeMarker = "size="

// MatchProgress scans a stdout fragment for progress markers. Only the
// first percentage match per fragment is reported.
func MatchProgress(fragment string) (models.ProgressEvent, bool) {
	fragment = stripAnsi(fragment)

	if matches := regex.DownloadPctCompile().FindStringSubmatch(fragment); len(matches) == 2 {
		pct, err := strconv.ParseFloat(matches[1], 64)
		if err == nil {
			return models.ProgressPctEvent(pct), true
		}
	}

	if strings.Contains(fragment, sizeMarker) {
		return models.ProgressPctEvent(consts.ConvertPct), true
	}

	return models.ProgressEvent{}, false
}

// MatchError scans a stderr fragment for the explicit error marker,
// returning the full fragment text as the event message.
func MatchError(fragment string) (models.ProgressEvent, bool) {
	fragment = stripAnsi(fragment)
	if !strings.Contains(fragment, errMarker) {
		return models.ProgressEvent{}, false
	}
	return models.ErrorEvent(strings.TrimSpace(fragment)), true
}

// stripAnsi removes terminal color codes some tools emit even when piped.
func stripAnsi(fragment string) string {
	return regex.AnsiEscapeCompile().ReplaceAllString(fragment, "")
}
