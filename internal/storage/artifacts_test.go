package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fetcharr/internal/domain/errtypes"
)

// TestEnsureStagingArea verifies staging directory creation is idempotent.
func TestEnsureStagingArea(t *testing.T) {
	t.Parallel()

	store := NewArtifactStore(filepath.Join(t.TempDir(), "staging"))

	if err := store.EnsureStagingArea(); err != nil {
		t.Fatalf("first EnsureStagingArea failed: %v", err)
	}
	if err := store.EnsureStagingArea(); err != nil {
		t.Fatalf("second EnsureStagingArea should be a no-op, got: %v", err)
	}

	info, err := os.Stat(store.Dir())
	if err != nil || !info.IsDir() {
		t.Fatalf("staging directory missing after EnsureStagingArea: %v", err)
	}
}

// TestNewWorkingName verifies the output template composition.
func TestNewWorkingName(t *testing.T) {
	t.Parallel()

	store := NewArtifactStore(t.TempDir())
	fp := URLFingerprint("https://example.com/watch?v=abc")

	tmpl := store.NewWorkingName("job-1", fp)
	if !strings.HasPrefix(filepath.Base(tmpl), "job-1_"+fp+".") {
		t.Fatalf("template base should start with the working prefix, got %q", tmpl)
	}
	if !strings.HasSuffix(tmpl, "%(ext)s") {
		t.Fatalf("template should end with the extension placeholder, got %q", tmpl)
	}
	if filepath.Dir(tmpl) != store.Dir() {
		t.Fatalf("template should live in the staging directory, got %q", tmpl)
	}
}

// TestURLFingerprintStable verifies fingerprints are stable and distinct.
func TestURLFingerprintStable(t *testing.T) {
	t.Parallel()

	a := URLFingerprint("https://example.com/a")
	b := URLFingerprint("https://example.com/b")

	if a != URLFingerprint("https://example.com/a") {
		t.Fatal("fingerprint should be stable for the same URL")
	}
	if a == b {
		t.Fatal("fingerprints for distinct URLs should differ")
	}
	if len(a) != 8 {
		t.Fatalf("fingerprint length mismatch: got %d want 8", len(a))
	}
}

// TestLocateByPrefix verifies produced-file lookup skips partials and
// misses unknown prefixes.
func TestLocateByPrefix(t *testing.T) {
	t.Parallel()

	store := NewArtifactStore(t.TempDir())
	writeStagingFile(t, store, "job-1_abcd1234.webm", "data")
	writeStagingFile(t, store, "job-1_abcd1234.webm.part", "partial")
	writeStagingFile(t, store, "job-2_ffff0000.mp4", "other")

	path, err := store.LocateByPrefix("job-1_abcd1234")
	if err != nil {
		t.Fatalf("LocateByPrefix failed: %v", err)
	}
	if filepath.Base(path) != "job-1_abcd1234.webm" {
		t.Fatalf("located wrong entry: %q", path)
	}

	if _, err := store.LocateByPrefix("job-9_00000000"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown prefix, got: %v", err)
	}
}

// TestLocateByPrefixSkipsPartialOnly verifies a prefix whose only entry is
// an in-flight partial is treated as not found.
func TestLocateByPrefixSkipsPartialOnly(t *testing.T) {
	t.Parallel()

	store := NewArtifactStore(t.TempDir())
	writeStagingFile(t, store, "job-1_abcd1234.webm.part", "partial")

	if _, err := store.LocateByPrefix("job-1_abcd1234"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("partial download should not locate, got: %v", err)
	}
}

// TestFinalize verifies size reporting and the zero-byte failure.
func TestFinalize(t *testing.T) {
	t.Parallel()

	store := NewArtifactStore(t.TempDir())
	full := writeStagingFile(t, store, "job-1_abcd1234.mp3", "hello")
	empty := writeStagingFile(t, store, "job-2_ffff0000.mp3", "")

	size, err := store.Finalize(full)
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if size != int64(len("hello")) {
		t.Fatalf("size mismatch: got %d want %d", size, len("hello"))
	}

	if _, err := store.Finalize(empty); !errors.Is(err, errtypes.ErrEmptyArtifact) {
		t.Fatalf("zero-byte artifact should fail finalization, got: %v", err)
	}

	if _, err := store.Finalize(filepath.Join(store.Dir(), "missing.mp3")); err == nil {
		t.Fatal("finalizing a missing file should fail")
	}
}

// TestRelease verifies deletion and that a missing target is tolerated.
func TestRelease(t *testing.T) {
	t.Parallel()

	store := NewArtifactStore(t.TempDir())
	path := writeStagingFile(t, store, "job-1_abcd1234.mp3", "data")

	store.Release(path)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("artifact should be gone after release, stat: %v", err)
	}

	// Repeat release and empty path must not panic or error out loud.
	store.Release(path)
	store.Release("")
}

// TestReleaseByPrefix verifies failure cleanup removes every entry for a
// job, partials included, without touching other jobs.
func TestReleaseByPrefix(t *testing.T) {
	t.Parallel()

	store := NewArtifactStore(t.TempDir())
	writeStagingFile(t, store, "job-1_abcd1234.webm", "data")
	writeStagingFile(t, store, "job-1_abcd1234.webm.part", "partial")
	other := writeStagingFile(t, store, "job-2_ffff0000.mp4", "other")

	store.ReleaseByPrefix("job-1_abcd1234")

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("failed to read staging dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != filepath.Base(other) {
		t.Fatalf("cleanup should leave only the other job's file, got %d entries", len(entries))
	}
}

// TestClaimRedeemOnce verifies the one-time retrieval handoff.
func TestClaimRedeemOnce(t *testing.T) {
	t.Parallel()

	store := NewArtifactStore(t.TempDir())
	path := writeStagingFile(t, store, "job-1_abcd1234.mp3", "data")

	handle := store.Claim(path, "My Song.mp3")
	if handle != "job-1_abcd1234.mp3" {
		t.Fatalf("handle should be the working basename, got %q", handle)
	}

	gotPath, displayName, ok := store.Redeem(handle)
	if !ok {
		t.Fatal("first redemption should succeed")
	}
	if gotPath != path {
		t.Fatalf("redeemed path mismatch: got %q want %q", gotPath, path)
	}
	if displayName != "My Song.mp3" {
		t.Fatalf("display name mismatch: got %q", displayName)
	}

	if _, _, ok := store.Redeem(handle); ok {
		t.Fatal("second redemption of the same handle should miss")
	}
}

// TestRedeemRejectsPathHandles verifies handles are confined to bare
// basenames inside the staging directory.
func TestRedeemRejectsPathHandles(t *testing.T) {
	t.Parallel()

	store := NewArtifactStore(t.TempDir())
	path := writeStagingFile(t, store, "job-1_abcd1234.mp3", "data")
	store.Claim(path, "My Song.mp3")

	for _, handle := range []string{"", "../job-1_abcd1234.mp3", "/etc/passwd", "a/b"} {
		if _, _, ok := store.Redeem(handle); ok {
			t.Fatalf("handle %q should be rejected", handle)
		}
	}
}

// TestForget verifies a dropped claim can no longer be redeemed.
func TestForget(t *testing.T) {
	t.Parallel()

	store := NewArtifactStore(t.TempDir())
	path := writeStagingFile(t, store, "job-1_abcd1234.mp3", "data")

	handle := store.Claim(path, "My Song.mp3")
	store.Forget(handle)

	if _, _, ok := store.Redeem(handle); ok {
		t.Fatal("forgotten claim should not redeem")
	}
}

// writeStagingFile creates a file inside the store's staging directory.
func writeStagingFile(t *testing.T, store *ArtifactStore, name, content string) string {
	t.Helper()

	path := filepath.Join(store.Dir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write staging file %q: %v", name, err)
	}
	return path
}
