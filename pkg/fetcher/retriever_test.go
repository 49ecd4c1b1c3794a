package fetcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRetrieveTruncatesExistingFile(t *testing.T) {
	archive := newFakeArchive()
	archive.cwd = "/gnss/products/2295"
	archive.addFile("/gnss/products/2295", orbit("001"), []byte("new"))

	out := t.TempDir()
	dest := filepath.Join(out, orbit("001"))
	if err := os.WriteFile(dest, []byte("old and much longer content"), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	r := NewRetriever(archive, out)
	n, err := r.Retrieve(orbit("001"))
	if err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if n != 3 {
		t.Errorf("Retrieve wrote %d bytes, want 3", n)
	}
	got, _ := os.ReadFile(dest)
	if string(got) != "new" {
		t.Errorf("local file = %q, want %q", got, "new")
	}
}

func TestRetrieveCreatesOutputDir(t *testing.T) {
	archive := newFakeArchive()
	archive.addFile("/", "IGS0OPSFIN_x_ORB.SP3.gz", []byte("data"))

	out := filepath.Join(t.TempDir(), "orbits", "2295")
	r := NewRetriever(archive, out)
	if _, err := r.Retrieve("IGS0OPSFIN_x_ORB.SP3.gz"); err != nil {
		t.Fatalf("Retrieve failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "IGS0OPSFIN_x_ORB.SP3.gz")); err != nil {
		t.Errorf("file not written into a new output directory: %v", err)
	}
}

func TestRetrieveDefaultsToWorkingDir(t *testing.T) {
	r := NewRetriever(newFakeArchive(), "")
	if got := r.LocalPath("a.gz"); got != "a.gz" {
		t.Errorf("LocalPath() = %q, want a.gz", got)
	}
}

func TestRetrieveRejectsUnsafeNames(t *testing.T) {
	archive := newFakeArchive()
	r := NewRetriever(archive, t.TempDir())

	for _, name := range []string{"", ".", "..", "../escape.gz", "sub/file.gz", `sub\file.gz`} {
		_, err := r.Retrieve(name)
		if !errors.Is(err, ErrUnsafeName) || !IsKind(err, KindTransfer) {
			t.Errorf("Retrieve(%q) error = %v, want unsafe name transfer error", name, err)
		}
	}
	if len(archive.calls) != 0 {
		t.Errorf("unsafe names should not reach the server, calls: %v", archive.calls)
	}
}

func TestRetrieveRemoteFailure(t *testing.T) {
	archive := newFakeArchive()
	out := t.TempDir()
	r := NewRetriever(archive, out)

	_, err := r.Retrieve(orbit("001"))
	if !IsKind(err, KindTransfer) {
		t.Fatalf("expected transfer error, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(out, orbit("001"))); !os.IsNotExist(statErr) {
		t.Error("no local file should be created when the remote file is missing")
	}
}

func TestRetrieveInterruptedTransfer(t *testing.T) {
	archive := newFakeArchive()
	archive.addFile("/", orbit("001"), []byte("partial"))
	archive.failRead[orbit("001")] = errBoom

	out := t.TempDir()
	r := NewRetriever(archive, out)
	n, err := r.Retrieve(orbit("001"))
	if !IsKind(err, KindTransfer) || !errors.Is(err, errBoom) {
		t.Fatalf("expected transfer error wrapping the read failure, got %v", err)
	}
	if n != int64(len("partial")) {
		t.Errorf("expected the partial byte count, got %d", n)
	}
	if _, statErr := os.Stat(filepath.Join(out, orbit("001"))); !os.IsNotExist(statErr) {
		t.Error("partial file should be removed")
	}
}

func TestRetrieveKeepsEntryItCouldNotOpen(t *testing.T) {
	archive := newFakeArchive()
	archive.addFile("/", orbit("001"), []byte("data"))

	out := t.TempDir()
	existing := filepath.Join(out, orbit("001"))
	if err := os.Mkdir(existing, 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}

	r := NewRetriever(archive, out)
	_, err := r.Retrieve(orbit("001"))
	var fe *Error
	if !errors.As(err, &fe) || fe.Kind != KindTransfer || fe.Op != "write" {
		t.Errorf("expected a write transfer error, got %v", err)
	}
	info, statErr := os.Stat(existing)
	if statErr != nil {
		t.Fatalf("pre-existing entry was removed: %v", statErr)
	}
	if !info.IsDir() {
		t.Error("pre-existing directory was replaced")
	}
}

func TestRetrieveLocalWriteFailure(t *testing.T) {
	archive := newFakeArchive()
	archive.addFile("/", orbit("001"), []byte("data"))

	// a regular file where the output directory should be
	blocker := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatalf("failed to create blocker: %v", err)
	}

	r := NewRetriever(archive, blocker)
	_, err := r.Retrieve(orbit("001"))
	var fe *Error
	if !errors.As(err, &fe) || fe.Kind != KindTransfer || fe.Op != "write" {
		t.Errorf("expected a write transfer error, got %v", err)
	}
}

func TestProgressReaderCountsBytes(t *testing.T) {
	archive := newFakeArchive()
	archive.addFile("/", orbit("001"), make([]byte, 64*1024))

	r := NewRetriever(archive, t.TempDir())
	r.logInterval = 0
	var n int64
	var err error
	output := captureStdout(t, func() {
		n, err = r.Retrieve(orbit("001"))
	})
	if err != nil || n != 64*1024 {
		t.Fatalf("Retrieve() = (%d, %v)", n, err)
	}
	if output == "" {
		t.Error("expected progress output with a zero log interval")
	}
}
