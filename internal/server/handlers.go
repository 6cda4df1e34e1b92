package server

import (
	"encoding/json"
	"net/http"

	"fetcharr/internal/command/builder"
	cmdc "fetcharr/internal/domain/command"
	"fetcharr/internal/metrics"
	"fetcharr/internal/models"
	"fetcharr/internal/utils/logging"

	"github.com/go-chi/chi/v5"
)

// ytdlpMeta mirrors the fields consumed from the extraction tool's JSON
// metadata dump.
type ytdlpMeta struct {
	Title     string  `json:"title"`
	Duration  float64 `json:"duration"`
	Uploader  string  `json:"uploader"`
	Thumbnail string  `json:"thumbnail"`
	Formats   []struct {
		FormatID string  `json:"format_id"`
		Ext      string  `json:"ext"`
		Height   int     `json:"height"`
		Filesize int64   `json:"filesize"`
	} `json:"formats"`
}

// infoFormat is one stream option in the metadata response.
type infoFormat struct {
	ID       string `json:"id"`
	Ext      string `json:"ext"`
	Height   int    `json:"height"`
	Filesize int64  `json:"filesize"`
}

// infoResponse is the metadata endpoint payload.
type infoResponse struct {
	Title     string       `json:"title"`
	Duration  float64      `json:"duration"`
	Uploader  string       `json:"uploader"`
	Thumbnail string       `json:"thumbnail"`
	Formats   []infoFormat `json:"formats"`
}

// handleInfo synchronously dumps source metadata for a URL.
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	ytdlp := s.tools.Ytdlp
	if ytdlp == "" {
		ytdlp = cmdc.YTDLP
	}

	out, err := s.runner.Run(r.Context(), ytdlp, builder.MetadataArgs(url, s.tools.CookiesFile), nil)
	if err != nil {
		logging.E("Metadata fetch failed for %q: %v", url, err)
		http.Error(w, "could not retrieve info", http.StatusInternalServerError)
		return
	}

	var meta ytdlpMeta
	if err := json.Unmarshal([]byte(out), &meta); err != nil {
		logging.E("Metadata parse failed for %q: %v", url, err)
		http.Error(w, "could not retrieve info", http.StatusInternalServerError)
		return
	}

	resp := infoResponse{
		Title:     meta.Title,
		Duration:  meta.Duration,
		Uploader:  meta.Uploader,
		Thumbnail: meta.Thumbnail,
		Formats:   make([]infoFormat, 0, len(meta.Formats)),
	}
	for _, f := range meta.Formats {
		resp.Formats = append(resp.Formats, infoFormat{
			ID:       f.FormatID,
			Ext:      f.Ext,
			Height:   f.Height,
			Filesize: f.Filesize,
		})
	}

	writeJSON(w, resp)
}

// handleDownload streams a claimed artifact exactly once, deleting it
// after the transfer regardless of outcome.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	path, displayName, ok := s.artifacts.Redeem(name)
	if !ok {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}
	defer s.artifacts.Release(path)

	w.Header().Set("Content-Disposition", `attachment; filename="`+displayName+`"`)
	http.ServeFile(w, r, path)
	metrics.ArtifactsServed.Inc()
}

// handleRecentJobs lists the most recent job records.
func (s *Server) handleRecentJobs(w http.ResponseWriter, r *http.Request) {
	const recentJobsLimit = 25

	recent, err := s.history.GetRecentJobs(r.Context(), recentJobsLimit)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if recent == nil {
		recent = []*models.Job{}
	}

	writeJSON(w, recent)
}

// writeJSON encodes v to the response with the JSON content type.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode JSON", http.StatusInternalServerError)
	}
}
