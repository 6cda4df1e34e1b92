package jobs

import "strings"

// User-facing failure categories. The peer never sees raw tool diagnostics.
const (
	CategoryNotAvailable     = "not-available"
	CategoryAccessRestricted = "access-restricted"
	CategoryRegionRestricted = "region-restricted"
	CategoryRightsRestricted = "rights-restricted"
	CategoryGeneric          = "generic"
)

// Messages surfaced to the peer per category.
const (
	MsgNotAvailable     = "The requested format is not available for this video."
	MsgAccessRestricted = "This video is private or requires a login."
	MsgRegionRestricted = "This video is not available in your region."
	MsgRightsRestricted = "This video is unavailable due to a rights restriction."
	MsgGeneric          = "The download failed. Please try again later."
)

// Classify maps raw diagnostic text to a user-facing category and message.
// First match wins, in fixed order.
func Classify(diag string) (category, message string) {
	lower := strings.ToLower(diag)

	switch {
	case strings.Contains(lower, "format is not available"):
		return CategoryNotAvailable, MsgNotAvailable
	case strings.Contains(lower, "private"), strings.Contains(lower, "login"):
		return CategoryAccessRestricted, MsgAccessRestricted
	case strings.Contains(lower, "geo"):
		return CategoryRegionRestricted, MsgRegionRestricted
	case strings.Contains(lower, "copyright"):
		return CategoryRightsRestricted, MsgRightsRestricted
	default:
		return CategoryGeneric, MsgGeneric
	}
}
