package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"fetcharr/internal/domain/consts"
	"fetcharr/internal/domain/errtypes"
	"fetcharr/internal/jobs"
	"fetcharr/internal/metrics"
	"fetcharr/internal/models"
	"fetcharr/internal/utils/logging"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// progressChannel is a stateful duplex channel bound 1:1 to one client
// connection. It accepts one job request at a time and forwards pipeline
// events to the peer verbatim, in arrival order.
type progressChannel struct {
	conn    *websocket.Conn
	srv     *Server
	writeMu sync.Mutex
	active  atomic.Bool
}

// handleSocket upgrades the connection and serves the job channel.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.E("WebSocket upgrade failed: %v", err)
		return
	}

	ch := &progressChannel{conn: conn, srv: s}
	ch.serve()
}

// serve reads inbound messages until the peer disconnects. Disconnect
// cancels the channel context, which propagates to any in-flight job's
// subprocess tree.
func (ch *progressChannel) serve() {
	defer ch.conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		_, data, err := ch.conn.ReadMessage()
		if err != nil {
			logging.D(1, "Job channel closed: %v", err)
			return
		}

		var msg models.InboundMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			ch.send(models.ErrorEvent("Invalid request."))
			continue
		}

		if msg.Type != consts.MsgDownloadRequest {
			ch.send(models.ErrorEvent("Unsupported message type."))
			continue
		}

		if msg.Payload.URL == "" {
			ch.send(models.ErrorEvent("Missing URL."))
			continue
		}

		// One job per channel at a time; concurrent requests are
		// rejected rather than queued.
		if !ch.active.CompareAndSwap(false, true) {
			ch.send(models.ErrorEvent("A job is already running on this connection."))
			continue
		}

		go ch.runJob(ctx, msg.Payload)
	}
}

// runJob drives one job through the pipeline, forwarding events to the
// peer and mirroring coarse status into the job history.
func (ch *progressChannel) runJob(ctx context.Context, req models.JobRequest) {
	defer ch.active.Store(false)

	s := ch.srv

	if !s.sem.TryAcquire(1) {
		ch.send(models.ErrorEvent("The server is at capacity. Please try again shortly."))
		return
	}
	defer s.sem.Release(1)

	jobID := uuid.NewString()
	now := time.Now()
	record := &models.Job{
		ID:        jobID,
		URL:       req.URL,
		Format:    req.Format,
		Quality:   req.Quality,
		Status:    consts.JobStatusRunning,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.history.AddJob(ctx, record); err != nil {
		logging.E("Failed to record job %s: %v", jobID, err)
	}

	metrics.JobsStarted.Inc()
	metrics.ActiveJobs.Inc()
	defer metrics.ActiveJobs.Dec()

	emit := func(ev models.ProgressEvent) {
		ch.send(ev)
		if ev.Type == consts.MsgProgress || ev.Type == consts.MsgStatus {
			s.tracker.Send(models.StatusUpdate{
				JobID:   jobID,
				Status:  consts.JobStatusRunning,
				Percent: ev.Percent,
			})
		}
	}

	artifact, err := ch.safeRun(ctx, jobID, req, emit)
	if err != nil {
		category, msg := jobs.Classify(err.Error())
		metrics.IncFailed(category)
		s.tracker.Send(models.StatusUpdate{JobID: jobID, Status: consts.JobStatusFailed, Error: category})

		if ctx.Err() != nil {
			logging.I("Job %s ended after peer disconnect: %v", jobID, ctx.Err())
			return
		}
		ch.send(models.ErrorEvent(msg))
		return
	}

	title := strings.TrimSuffix(artifact.Filename, filepath.Ext(artifact.Filename))
	if err := s.history.SetJobTitle(context.WithoutCancel(ctx), jobID, title); err != nil {
		logging.E("Failed to record title for job %s: %v", jobID, err)
	}

	// Peer gone; no one can retrieve the artifact.
	if ctx.Err() != nil {
		s.artifacts.Release(artifact.Path)
		s.tracker.Send(models.StatusUpdate{JobID: jobID, Status: consts.JobStatusFailed, Error: "abandoned"})
		return
	}

	handle := s.artifacts.Claim(artifact.Path, artifact.Filename)
	metrics.JobsCompleted.Inc()
	s.tracker.Send(models.StatusUpdate{JobID: jobID, Status: consts.JobStatusCompleted, Percent: 100})

	ch.send(models.ReadyEvent(artifact.Filename, artifact.Size, consts.DownloadRoute+handle))
}

// safeRun confines a panicking job to its own goroutine boundary, surfacing
// it as an internal failure instead of crashing the process.
func (ch *progressChannel) safeRun(ctx context.Context, jobID string, req models.JobRequest,
	emit jobs.EmitFunc) (artifact *models.Artifact, err error) {

	defer func() {
		if r := recover(); r != nil {
			logging.E("Job %s panicked: %v", jobID, r)
			artifact, err = nil, &errtypes.InternalFailure{Reason: fmt.Sprint(r)}
		}
	}()
	return ch.srv.pipeline.Run(ctx, jobID, req, emit)
}

// writeWait bounds each peer write. Emit callbacks run on the subprocess
// stream read loops, so a stalled peer must never block a write forever.
const writeWait = 10 * time.Second

// send writes one event to the peer. Writes are serialized and bounded by
// writeWait; a failed or timed-out write closes the connection so the read
// loop unwinds and cancels the job context.
func (ch *progressChannel) send(ev models.ProgressEvent) {
	ch.writeMu.Lock()
	defer ch.writeMu.Unlock()

	if err := ch.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return
	}
	if err := ch.conn.WriteJSON(ev); err != nil {
		logging.D(1, "Failed to write %s event to peer: %v", ev.Type, err)
		ch.conn.Close()
	}
}
