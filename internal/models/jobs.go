// Package models holds the data models shared across fetcharr.
package models

import (
	"time"

	"fetcharr/internal/domain/consts"
)

// JobRequest is a client-submitted fetch request. Immutable once accepted;
// format and quality are validated lazily inside the pipeline.
type JobRequest struct {
	URL     string `json:"url"`
	Format  string `json:"format"`
	Quality string `json:"quality"`
}

// InboundMessage is the envelope for peer-to-server channel messages.
type InboundMessage struct {
	Type    string     `json:"type"`
	Payload JobRequest `json:"payload"`
}

// ProgressEvent is a server-to-peer channel message. Type discriminates
// the union; unused fields are omitted on the wire.
type ProgressEvent struct {
	Type     string  `json:"type"`
	Message  string  `json:"message,omitempty"`
	Percent  float64 `json:"percent,omitempty"`
	Filename string  `json:"filename,omitempty"`
	Size     int64   `json:"size,omitempty"`
	URL      string  `json:"url,omitempty"`
}

// StatusEvent builds a status message with a coarse completion percentage.
func StatusEvent(message string, percent float64) ProgressEvent {
	return ProgressEvent{Type: consts.MsgStatus, Message: message, Percent: percent}
}

// ProgressPctEvent builds a bare progress percentage update.
func ProgressPctEvent(percent float64) ProgressEvent {
	return ProgressEvent{Type: consts.MsgProgress, Percent: percent}
}

// ErrorEvent builds a terminal error message.
func ErrorEvent(message string) ProgressEvent {
	return ProgressEvent{Type: consts.MsgError, Message: message}
}

// ReadyEvent builds the terminal download-ready descriptor.
func ReadyEvent(filename string, size int64, url string) ProgressEvent {
	return ProgressEvent{Type: consts.MsgDownloadReady, Filename: filename, Size: size, URL: url}
}

// Artifact describes a finalized file in the staging area.
type Artifact struct {
	Path     string
	Filename string
	Size     int64
}

// Job is the persisted record of one fetch job.
type Job struct {
	ID        string           `json:"id"`
	URL       string           `json:"url"`
	Format    string           `json:"format"`
	Quality   string           `json:"quality"`
	Title     string           `json:"title,omitempty"`
	Status    consts.JobStatus `json:"status"`
	Percent   float64          `json:"percent"`
	Error     string           `json:"error,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// StatusUpdate models updates to the stored state of a job.
type StatusUpdate struct {
	JobID   string
	Status  consts.JobStatus
	Percent float64
	Error   string
}
