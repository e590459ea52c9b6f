package feed

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shah253kt/udp-to-serial-forwarder/internal/testutil/testlog"
)

func writeFeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "payload.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	return path
}

func TestNextReturnsLinesInFileOrder(t *testing.T) {
	testlog.Start(t)
	src, err := Open(writeFeed(t, "alpha\nbravo\ncharlie\n"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	for _, want := range []string{"alpha", "bravo", "charlie"} {
		got, err := src.Next()
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if got != want {
			t.Fatalf("got %q want %q", got, want)
		}
	}
}

func TestNextWrapsToFirstLine(t *testing.T) {
	testlog.Start(t)
	src, err := Open(writeFeed(t, "L1\nL2\n"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	var got []string
	for i := 0; i < 3; i++ {
		line, err := src.Next()
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		got = append(got, line)
	}
	want := []string{"L1", "L2", "L1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("wrap sequence mismatch: got=%v want=%v", got, want)
		}
	}
}

func TestNextStripsCarriageReturn(t *testing.T) {
	testlog.Start(t)
	src, err := Open(writeFeed(t, "one\r\ntwo\r\n"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	got, err := src.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if got != "one" {
		t.Fatalf("expected CR stripped, got %q", got)
	}
}

func TestNextEmptyFileReturnsErrNoLines(t *testing.T) {
	testlog.Start(t)
	src, err := Open(writeFeed(t, ""))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	if _, err := src.Next(); !errors.Is(err, ErrNoLines) {
		t.Fatalf("expected ErrNoLines, got %v", err)
	}
}

func TestNextPicksUpEditsAfterWrap(t *testing.T) {
	testlog.Start(t)
	path := writeFeed(t, "old\n")
	src, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	if line, _ := src.Next(); line != "old" {
		t.Fatalf("unexpected first line: %q", line)
	}
	if err := os.WriteFile(path, []byte("new\n"), 0o644); err != nil {
		t.Fatalf("rewrite feed: %v", err)
	}
	line, err := src.Next()
	if err != nil {
		t.Fatalf("next after edit: %v", err)
	}
	if line != "new" {
		t.Fatalf("expected reopened content, got %q", line)
	}
}

func TestNextSkipsOversizedLine(t *testing.T) {
	testlog.Start(t)
	long := strings.Repeat("x", maxLineBytes+1)
	src, err := Open(writeFeed(t, long+"\nshort\n"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	// The oversized line is dropped on every pass, including the wraps.
	for i := 0; i < 3; i++ {
		line, err := src.Next()
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if line != "short" {
			t.Fatalf("next %d: got %q want %q", i, line, "short")
		}
	}
}

func TestNextOnlyOversizedLineRecoversAfterRewrite(t *testing.T) {
	testlog.Start(t)
	path := writeFeed(t, strings.Repeat("x", maxLineBytes+1)+"\n")
	src, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()

	if _, err := src.Next(); !errors.Is(err, ErrNoLines) {
		t.Fatalf("expected ErrNoLines, got %v", err)
	}

	if err := os.WriteFile(path, []byte("ok\n"), 0o644); err != nil {
		t.Fatalf("rewrite feed: %v", err)
	}
	line, err := src.Next()
	if err != nil {
		t.Fatalf("next after rewrite: %v", err)
	}
	if line != "ok" {
		t.Fatalf("expected recovery after rewrite, got %q", line)
	}
}

func TestOpenMissingFileFails(t *testing.T) {
	testlog.Start(t)
	if _, err := Open(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestOpenDirectoryFails(t *testing.T) {
	testlog.Start(t)
	if _, err := Open(t.TempDir()); !errors.Is(err, ErrNotRegularFile) {
		t.Fatalf("expected ErrNotRegularFile, got %v", err)
	}
}

func TestNextAfterCloseFails(t *testing.T) {
	testlog.Start(t)
	src, err := Open(writeFeed(t, "x\n"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := src.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, err := src.Next(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}
