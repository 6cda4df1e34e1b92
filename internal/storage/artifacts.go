// Package storage manages the transient staging area that holds in-progress
// and completed job artifacts.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	cmdc "fetcharr/internal/domain/command"
	"fetcharr/internal/domain/errtypes"
	"fetcharr/internal/utils/logging"
)

// ErrNotFound is returned when no staging entry matches a prefix.
var ErrNotFound = errors.New("no artifact matches prefix")

// partSuffix marks in-flight partial downloads written by the extraction
// tool; these are never valid locate results.
const partSuffix = ".part"

// ArtifactStore owns the staging directory namespace. Per-job unique
// working names keep jobs collision-free without locking; the claims map is
// the only shared state and guards one-time retrieval handoff.
type ArtifactStore struct {
	dir string

	mu     sync.Mutex
	claims map[string]string // working basename -> display filename
}

// NewArtifactStore returns a store rooted at dir.
func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{
		dir:    dir,
		claims: make(map[string]string),
	}
}

// Dir returns the staging directory path.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// EnsureStagingArea creates the staging directory if needed. Idempotent;
// an existing directory is not an error.
func (s *ArtifactStore) EnsureStagingArea() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return &errtypes.StorageFailure{Op: "create staging directory", Err: err}
	}
	return nil
}

// URLFingerprint derives a short stable fingerprint from a request URL,
// used in working names alongside the random job identifier.
func URLFingerprint(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:4])
}

// NewWorkingName returns the output template path for a job: a
// collision-resistant name inside the staging directory with an extension
// placeholder the extraction tool resolves.
func (s *ArtifactStore) NewWorkingName(jobID, urlFingerprint string) string {
	return filepath.Join(s.dir, WorkingPrefix(jobID, urlFingerprint)+"."+cmdc.ExtPlaceholder)
}

// WorkingPrefix combines the job identifier and URL fingerprint into the
// filename prefix used to locate the job's produced file.
func WorkingPrefix(jobID, urlFingerprint string) string {
	return jobID + "_" + urlFingerprint
}

// LocateByPrefix scans the staging directory for the entry whose name
// starts with prefix, skipping partial downloads. The produced extension is
// not known in advance, so exact names cannot be used.
func (s *ArtifactStore) LocateByPrefix(prefix string) (string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return "", &errtypes.StorageFailure{Op: "scan staging directory", Err: err}
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasSuffix(name, partSuffix) {
			continue
		}
		if strings.HasPrefix(name, prefix) {
			return filepath.Join(s.dir, name), nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
}

// Finalize stats a produced artifact, returning its byte size. A zero-byte
// artifact is a hard failure.
func (s *ArtifactStore) Finalize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, &errtypes.StorageFailure{Op: "stat artifact", Err: err}
	}
	if info.Size() == 0 {
		return 0, errtypes.ErrEmptyArtifact
	}
	return info.Size(), nil
}

// Release deletes an artifact. Best-effort: failures are logged and never
// propagated, so cleanup cannot mask a primary result.
func (s *ArtifactStore) Release(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.E("Failed to release artifact %q: %v", path, err)
		return
	}
	logging.D(1, "Released artifact: %s", path)
}

// ReleaseByPrefix deletes every staging entry matching a job's working
// prefix. Used after a failed job so no partial artifact is retained.
func (s *ArtifactStore) ReleaseByPrefix(prefix string) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		logging.E("Failed to scan staging directory for cleanup: %v", err)
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasPrefix(entry.Name(), prefix) {
			s.Release(filepath.Join(s.dir, entry.Name()))
		}
	}
}

// Claim registers a finalized artifact for one-time retrieval, returning
// the opaque handle the peer presents to the download route.
func (s *ArtifactStore) Claim(path, displayName string) string {
	base := filepath.Base(path)
	s.mu.Lock()
	s.claims[base] = displayName
	s.mu.Unlock()
	return base
}

// Redeem resolves a retrieval handle to its staging path and display name,
// removing the claim so a second redemption misses. The handle is confined
// to a bare basename inside the staging directory.
func (s *ArtifactStore) Redeem(handle string) (path, displayName string, ok bool) {
	if handle == "" || handle != filepath.Base(handle) {
		return "", "", false
	}

	s.mu.Lock()
	displayName, ok = s.claims[handle]
	if ok {
		delete(s.claims, handle)
	}
	s.mu.Unlock()

	if !ok {
		return "", "", false
	}
	return filepath.Join(s.dir, handle), displayName, true
}

// Forget drops a claim without deleting the file. Used when a claimed
// artifact is released through failure cleanup instead of retrieval.
func (s *ArtifactStore) Forget(handle string) {
	s.mu.Lock()
	delete(s.claims, handle)
	s.mu.Unlock()
}
