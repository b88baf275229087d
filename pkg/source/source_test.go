package source

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestExpandGlobs_GlobPattern(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"c.log", "a.log", "b.txt"} {
		writeFile(t, filepath.Join(dir, f), "test")
	}

	result, err := ExpandGlobs([]string{filepath.Join(dir, "*.log")})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}

	want := []string{filepath.Join(dir, "a.log"), filepath.Join(dir, "c.log")}
	if len(result) != len(want) {
		t.Fatalf("ExpandGlobs() = %v, want %v", result, want)
	}
	for i := range want {
		if result[i] != want[i] {
			t.Errorf("ExpandGlobs()[%d] = %s, want %s", i, result[i], want[i])
		}
	}
}

func TestExpandGlobs_NoMatchKeptLiteral(t *testing.T) {
	pattern := filepath.Join(t.TempDir(), "missing.log")

	result, err := ExpandGlobs([]string{pattern})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(result) != 1 || result[0] != pattern {
		t.Errorf("ExpandGlobs() = %v, want [%s]", result, pattern)
	}
}

func TestExpandGlobs_Deduplication(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "test.log")
	writeFile(t, file, "test")

	result, err := ExpandGlobs([]string{file, filepath.Join(dir, "*.log"), file})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(result) != 1 {
		t.Errorf("ExpandGlobs() returned %d files, want 1 (deduplicated)", len(result))
	}
}

func TestExpandGlobs_SkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "archive.log"), 0755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(dir, "app.log"), "test")

	result, err := ExpandGlobs([]string{filepath.Join(dir, "*.log")})
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(result) != 1 || filepath.Base(result[0]) != "app.log" {
		t.Errorf("ExpandGlobs() = %v, want only app.log", result)
	}
}

func TestExpandGlobs_InvalidPattern(t *testing.T) {
	if _, err := ExpandGlobs([]string{"[invalid"}); err == nil {
		t.Error("ExpandGlobs() expected error for invalid pattern")
	}
}

func TestExpandGlobs_EmptyInput(t *testing.T) {
	result, err := ExpandGlobs(nil)
	if err != nil {
		t.Fatalf("ExpandGlobs() error = %v", err)
	}
	if len(result) != 0 {
		t.Errorf("ExpandGlobs(nil) = %v, want empty", result)
	}
}

func TestOpen_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.log")

	_, err := Open(path)
	if err == nil {
		t.Fatal("Open() expected error for missing file")
	}
	if !errors.Is(err, ErrOpen) {
		t.Errorf("errors.Is(err, ErrOpen) = false for %v", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("errors.Is(err, os.ErrNotExist) = false for %v", err)
	}

	var openErr *OpenError
	if !errors.As(err, &openErr) {
		t.Fatalf("errors.As(*OpenError) failed for %T", err)
	}
	if openErr.Path != path {
		t.Errorf("OpenError.Path = %q, want %q", openErr.Path, path)
	}
}

func TestOpen_Directory(t *testing.T) {
	if _, err := Open(t.TempDir()); !errors.Is(err, ErrOpen) {
		t.Errorf("Open(dir) error = %v, want ErrOpen", err)
	}
}

func TestReadAll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")
	writeFile(t, path, "total errors: 42 found")

	got, err := ReadAll(path, 0)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if got != "total errors: 42 found" {
		t.Errorf("ReadAll() = %q", got)
	}
}

func TestReadAll_Limit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.log")
	writeFile(t, path, "0123456789")

	if _, err := ReadAll(path, 10); err != nil {
		t.Errorf("ReadAll() at exact limit error = %v", err)
	}
	if _, err := ReadAll(path, 9); !errors.Is(err, ErrTooLarge) {
		t.Errorf("ReadAll() over limit error = %v, want ErrTooLarge", err)
	}
}

func TestReadAll_Missing(t *testing.T) {
	_, err := ReadAll(filepath.Join(t.TempDir(), "nope.log"), 0)
	if !errors.Is(err, ErrOpen) {
		t.Errorf("ReadAll() error = %v, want ErrOpen", err)
	}
}
