package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"fetcharr/internal/cfg"
	"fetcharr/internal/command/execute"
	"fetcharr/internal/database"
	"fetcharr/internal/domain/keys"
	"fetcharr/internal/jobs"
	"fetcharr/internal/repo"
	"fetcharr/internal/server"
	"fetcharr/internal/storage"
	"fetcharr/internal/utils/logging"
)

var startTime time.Time

func init() {
	startTime = time.Now()
}

func main() {
	if err := cfg.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if !cfg.GetBool(keys.Execute) {
		return // Exit early if not meant to execute
	}

	if err := logging.Setup(cfg.GetInt(keys.DebugLevel), cfg.GetString(keys.LogFile)); err != nil {
		fmt.Fprintf(os.Stderr, "Notice: log setup failed: %v\n", err)
	}
	logging.I("fetcharr started at: %v", startTime.Format("2006-01-02 15:04:05.00 MST"))

	if err := run(); err != nil {
		logging.E("%v", err)
		os.Exit(1)
	}
}

// run wires the staging area, database, tracker, pipeline, and server.
func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	artifacts := storage.NewArtifactStore(cfg.GetString(keys.StagingDir))
	if err := artifacts.EnsureStagingArea(); err != nil {
		return err
	}

	dbPath := cfg.GetString(keys.DBPath)
	if dbPath == "" {
		dbPath = filepath.Join(artifacts.Dir(), "fetcharr.db")
	}
	db, err := database.Open(dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	jobStore := repo.GetJobStore(db)

	tracker := jobs.NewTracker(jobStore)
	tracker.Start(ctx)
	defer tracker.Stop()

	tools := jobs.ToolPaths{
		Ytdlp:       cfg.GetString(keys.YtdlpPath),
		FFmpeg:      cfg.GetString(keys.FFmpegPath),
		CookiesFile: cfg.GetString(keys.CookiesFile),
	}
	runner := execute.NewRunner()
	pipeline := jobs.NewPipeline(artifacts, runner, tools)

	srv := server.NewServer(artifacts, jobStore, tracker, pipeline, runner, tools,
		int64(cfg.GetInt(keys.MaxJobs)))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.StartServer(":"+cfg.GetString(keys.Port), srv)
	}()

	select {
	case <-ctx.Done():
		logging.I("fetcharr shutting down")
		return nil
	case err := <-errCh:
		return err
	}
}
