// Package consts holds various global, unchanging values.
package consts

// Output formats a client may request.
const (
	FormatMP3  = "mp3"
	FormatM4A  = "m4a"
	FormatMP4  = "mp4"
	FormatWebM = "webm"
)

// QualityAuto selects the best available streams.
const QualityAuto = "auto"

// AudioFormats maps the audio output formats to validity.
var AudioFormats = map[string]bool{
	FormatMP3: true,
	FormatM4A: true,
}

// VideoFormats maps the video output formats to validity.
var VideoFormats = map[string]bool{
	FormatMP4:  true,
	FormatWebM: true,
}

// FallbackTitle is used when a source yields no usable title.
const FallbackTitle = "download"

// JobStatus models the lifecycle state of a job record.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Channel message types (peer-facing).
const (
	MsgDownloadRequest = "download-request"
	MsgStatus          = "status"
	MsgProgress        = "progress"
	MsgError           = "error"
	MsgDownloadReady   = "download-ready"
)

// DownloadRoute is the path prefix artifacts are retrieved from.
const DownloadRoute = "/download/"

// ConvertPct is the fixed coarse percentage reported while ffmpeg runs.
// ffmpeg emits no native percentage, only "size=" markers.
const ConvertPct = 90.0
