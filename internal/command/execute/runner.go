// Package execute runs external tool commands, capturing their output
// streams incrementally and surfacing parsed progress signals.
package execute

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"fetcharr/internal/domain/errtypes"
	"fetcharr/internal/models"
	"fetcharr/internal/parsing"
	"fetcharr/internal/utils/logging"
)

// EventFunc receives a recognized progress or error event. Callbacks are
// invoked synchronously from the stream read loops and must not block.
type EventFunc func(ev models.ProgressEvent)

// Runner executes an external command and returns its accumulated stdout.
type Runner interface {
	Run(ctx context.Context, bin string, args []string, onEvent EventFunc) (string, error)
}

// CmdRunner is the exec-backed Runner used in production.
type CmdRunner struct{}

// NewRunner returns the exec-backed runner.
func NewRunner() *CmdRunner {
	return &CmdRunner{}
}

// Run spawns bin with args, reads stdout and stderr in chunks, invokes
// onEvent for each recognized progress or error fragment, and resolves with
// the full stdout on exit status 0. A non-zero exit yields a ProcessFailure
// carrying the accumulated stderr. The process is reaped on every path;
// context cancellation kills the subprocess.
func (r *CmdRunner) Run(ctx context.Context, bin string, args []string, onEvent EventFunc) (string, error) {
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.WaitDelay = 5 * time.Second

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", &errtypes.InternalFailure{Reason: fmt.Sprintf("stdout pipe: %v", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", &errtypes.InternalFailure{Reason: fmt.Sprintf("stderr pipe: %v", err)}
	}

	logging.D(1, "Executing: %s %s", bin, strings.Join(args, " "))

	if err := cmd.Start(); err != nil {
		return "", &errtypes.ProcessFailure{Tool: bin, Stderr: err.Error()}
	}

	var (
		outBuf, errBuf strings.Builder
		wg             sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		scanChunks(stdout, func(chunk string) {
			outBuf.WriteString(chunk)
			if onEvent == nil {
				return
			}
			if ev, ok := parsing.MatchProgress(chunk); ok {
				onEvent(ev)
			}
		})
	}()
	go func() {
		defer wg.Done()
		scanChunks(stderr, func(chunk string) {
			errBuf.WriteString(chunk)
			if onEvent == nil {
				return
			}
			if ev, ok := parsing.MatchError(chunk); ok {
				onEvent(ev)
			}
		})
	}()

	wg.Wait()

	if err := cmd.Wait(); err != nil {
		diag := strings.TrimSpace(errBuf.String())
		if diag == "" {
			diag = err.Error()
		}
		return "", &errtypes.ProcessFailure{Tool: bin, Stderr: diag}
	}

	return outBuf.String(), nil
}

// scanChunks reads r incrementally, passing each chunk to fn as it arrives.
// Chunks are not line-buffered; partial lines are tolerated downstream.
func scanChunks(r io.Reader, fn func(chunk string)) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			fn(string(buf[:n]))
		}
		if err != nil {
			if err != io.EOF {
				logging.D(2, "Stream read ended: %v", err)
			}
			return
		}
	}
}
