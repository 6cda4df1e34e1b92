// Package server sets up the fetcharr HTTP server and job channels.
package server

import (
	"context"
	"net/http"

	"fetcharr/internal/command/execute"
	"fetcharr/internal/jobs"
	"fetcharr/internal/models"
	"fetcharr/internal/storage"
	"fetcharr/internal/utils/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/semaphore"
)

// JobRunner executes one fetch job, emitting progress along the way.
type JobRunner interface {
	Run(ctx context.Context, jobID string, req models.JobRequest, emit jobs.EmitFunc) (*models.Artifact, error)
}

// JobHistory persists job records for the history API.
type JobHistory interface {
	AddJob(ctx context.Context, job *models.Job) error
	SetJobTitle(ctx context.Context, jobID, title string) error
	GetRecentJobs(ctx context.Context, limit uint64) ([]*models.Job, error)
}

// Server wires the router, the per-connection job channels, and the
// one-time artifact retrieval route.
type Server struct {
	artifacts *storage.ArtifactStore
	history   JobHistory
	tracker   *jobs.Tracker
	pipeline  JobRunner
	runner    execute.Runner
	tools     jobs.ToolPaths
	sem       *semaphore.Weighted
	upgrader  websocket.Upgrader
}

// NewServer returns a server with injected collaborators. maxJobs caps the
// number of simultaneously running jobs across all connections.
func NewServer(artifacts *storage.ArtifactStore, history JobHistory, tracker *jobs.Tracker,
	pipeline JobRunner, runner execute.Runner, tools jobs.ToolPaths, maxJobs int64) *Server {

	if maxJobs <= 0 {
		maxJobs = 1
	}
	return &Server{
		artifacts: artifacts,
		history:   history,
		tracker:   tracker,
		pipeline:  pipeline,
		runner:    runner,
		tools:     tools,
		sem:       semaphore.NewWeighted(maxJobs),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Router returns the http Handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/ws", s.handleSocket)
	r.Get("/download/{name}", s.handleDownload)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/info", s.handleInfo)
		r.Get("/jobs", s.handleRecentJobs)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// StartServer starts the HTTP server on the specified address.
func StartServer(addr string, s *Server) error {
	logging.S("fetcharr server running on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Router())
}
