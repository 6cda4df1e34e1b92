// Package jobs orchestrates fetch jobs end-to-end: title resolution,
// extraction, conditional remux, validation, and the final descriptor.
package jobs

import (
	"context"
	"path/filepath"
	"strings"

	"fetcharr/internal/command/builder"
	"fetcharr/internal/command/execute"
	cmdc "fetcharr/internal/domain/command"
	"fetcharr/internal/domain/consts"
	"fetcharr/internal/domain/regex"
	"fetcharr/internal/models"
	"fetcharr/internal/storage"
	"fetcharr/internal/utils/logging"
)

// Phase names a pipeline state.
type Phase string

const (
	PhaseFetchingTitle Phase = "fetching-title"
	PhaseDownloading   Phase = "downloading"
	PhaseConverting    Phase = "converting"
	PhaseValidating    Phase = "validating"
	PhaseReady         Phase = "ready"
	PhaseFailed        Phase = "failed"
)

// EmitFunc forwards a progress event toward the peer.
type EmitFunc func(ev models.ProgressEvent)

// ToolPaths names the external executables the pipeline drives.
type ToolPaths struct {
	Ytdlp       string
	FFmpeg      string
	CookiesFile string
}

// Pipeline runs one job at a time per invocation. Safe for concurrent use:
// all per-job state lives in the jobContext owned by each Run call.
type Pipeline struct {
	store  *storage.ArtifactStore
	runner execute.Runner
	tools  ToolPaths
}

// jobContext is the ephemeral per-job state, owned exclusively by the Run
// invocation that created it.
type jobContext struct {
	id       string
	req      models.JobRequest
	title    string
	prefix   string
	template string
	workPath string
	phase    Phase
}

// NewPipeline returns a pipeline using the given store, runner, and tools.
func NewPipeline(store *storage.ArtifactStore, runner execute.Runner, tools ToolPaths) *Pipeline {
	if tools.Ytdlp == "" {
		tools.Ytdlp = cmdc.YTDLP
	}
	if tools.FFmpeg == "" {
		tools.FFmpeg = cmdc.FFmpeg
	}
	return &Pipeline{
		store:  store,
		runner: runner,
		tools:  tools,
	}
}

// Run executes one job and returns the final artifact descriptor. Progress
// is emitted through emit in arrival order. On failure, partial artifacts
// for this job are released before returning; no partial artifact from a
// failed job is retained.
func (p *Pipeline) Run(ctx context.Context, jobID string, req models.JobRequest, emit EmitFunc) (*models.Artifact, error) {
	jc := &jobContext{
		id:     jobID,
		req:    req,
		prefix: storage.WorkingPrefix(jobID, storage.URLFingerprint(req.URL)),
	}
	jc.template = p.store.NewWorkingName(jobID, storage.URLFingerprint(req.URL))

	artifact, err := p.run(ctx, jc, emit)
	if err != nil {
		jc.phase = PhaseFailed
		p.store.ReleaseByPrefix(jc.prefix)
		return nil, err
	}
	return artifact, nil
}

func (p *Pipeline) run(ctx context.Context, jc *jobContext, emit EmitFunc) (*models.Artifact, error) {
	emit(models.StatusEvent("Fetching video info...", 5))

	jc.phase = PhaseFetchingTitle
	if err := p.fetchTitle(ctx, jc); err != nil {
		return nil, err
	}
	emit(models.StatusEvent("Found: "+jc.title, 10))

	jc.phase = PhaseDownloading
	if consts.AudioFormats[jc.req.Format] {
		emit(models.StatusEvent("Downloading audio...", 20))
	} else {
		emit(models.StatusEvent("Downloading video...", 20))
	}
	if err := p.download(ctx, jc, emit); err != nil {
		return nil, err
	}

	if needsConversion(jc.workPath, jc.req.Format) {
		jc.phase = PhaseConverting
		emit(models.StatusEvent("Converting to "+jc.req.Format+"...", 80))
		if err := p.convert(ctx, jc, emit); err != nil {
			return nil, err
		}
	}

	jc.phase = PhaseValidating
	size, err := p.store.Finalize(jc.workPath)
	if err != nil {
		return nil, err
	}

	jc.phase = PhaseReady
	logging.S("Job %s ready: %s (%d bytes)", jc.id, jc.workPath, size)

	return &models.Artifact{
		Path:     jc.workPath,
		Filename: jc.title + "." + jc.req.Format,
		Size:     size,
	}, nil
}

// fetchTitle runs the extraction tool in title-only mode and sanitizes the
// result for filesystem use.
func (p *Pipeline) fetchTitle(ctx context.Context, jc *jobContext) error {
	out, err := p.runner.Run(ctx, p.tools.Ytdlp, builder.TitleArgs(jc.req.URL, p.tools.CookiesFile), nil)
	if err != nil {
		return err
	}
	jc.title = SanitizeTitle(out)
	return nil
}

// download runs the main extraction and locates the produced file by the
// job's working prefix, since the container extension is resolved by the
// tool.
func (p *Pipeline) download(ctx context.Context, jc *jobContext, emit EmitFunc) error {
	args, err := builder.DownloadArgs(jc.req.URL, jc.req.Format, jc.req.Quality, jc.template, p.tools.CookiesFile)
	if err != nil {
		return err
	}

	if _, err := p.runner.Run(ctx, p.tools.Ytdlp, args, execute.EventFunc(emit)); err != nil {
		return err
	}

	located, err := p.store.LocateByPrefix(jc.prefix)
	if err != nil {
		return err
	}
	jc.workPath = located
	return nil
}

// convert remuxes the located file into the requested container via
// stream-copy, then removes the pre-conversion file.
func (p *Pipeline) convert(ctx context.Context, jc *jobContext, emit EmitFunc) error {
	src := jc.workPath
	dst := strings.TrimSuffix(src, filepath.Ext(src)) + "." + jc.req.Format

	if _, err := p.runner.Run(ctx, p.tools.FFmpeg, builder.RemuxArgs(src, dst), execute.EventFunc(emit)); err != nil {
		return err
	}

	p.store.Release(src)
	jc.workPath = dst
	return nil
}

// needsConversion reports whether the located file's container differs from
// the requested output format. Audio targets are extracted directly to the
// requested codec by the extraction tool and never convert.
func needsConversion(path, format string) bool {
	if consts.AudioFormats[format] {
		return false
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	return !strings.EqualFold(ext, format)
}

// SanitizeTitle strips filesystem-hostile characters and collapses
// whitespace, falling back to a fixed placeholder when nothing usable
// remains.
func SanitizeTitle(raw string) string {
	title := regex.InvalidCharsCompile().ReplaceAllString(raw, "")
	title = regex.ExtraSpacesCompile().ReplaceAllString(title, " ")
	title = strings.TrimSpace(title)
	if title == "" {
		return consts.FallbackTitle
	}
	return title
}
