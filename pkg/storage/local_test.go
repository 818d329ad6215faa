package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeTree creates files below root from a path -> content map
func writeTree(t *testing.T, root string, files map[string][]byte) {
	t.Helper()
	for path, content := range files {
		fullPath := filepath.Join(root, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			t.Fatalf("failed to create dir: %v", err)
		}
		if err := os.WriteFile(fullPath, content, 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}
	}
}

// TestNewLocal tests the Local backend constructor
func TestNewLocal(t *testing.T) {
	t.Run("ValidDirectory", func(t *testing.T) {
		tempDir := t.TempDir()

		local, err := NewLocal(tempDir)
		if err != nil {
			t.Fatalf("NewLocal() error = %v", err)
		}
		if local == nil {
			t.Fatal("NewLocal() returned nil")
		}
		defer local.Close()

		if !filepath.IsAbs(local.Root()) {
			t.Errorf("Root() = %s, want absolute path", local.Root())
		}
	})

	t.Run("NonExistentPath", func(t *testing.T) {
		_, err := NewLocal("/nonexistent/path/that/does/not/exist")
		if err == nil {
			t.Error("NewLocal() should fail for non-existent path")
		}
	})

	t.Run("FileNotDirectory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "file.txt")
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatalf("failed to create file: %v", err)
		}

		_, err := NewLocal(path)
		if err == nil {
			t.Error("NewLocal() should fail for file path (not directory)")
		}
	})
}

// TestLocalList tests the List method
func TestLocalList(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string][]byte{
		"file1.txt":        []byte("content1"),
		"file2.txt":        []byte("content2"),
		"subdir/file3.txt": []byte("content3"),
		"subdir/file4.txt": []byte("content4"),
	})

	local, err := NewLocal(tempDir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	defer local.Close()

	ctx := context.Background()

	t.Run("ListAll", func(t *testing.T) {
		entries, err := local.List(ctx, "", nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}

		// subdir + 4 files, root itself is not listed
		if len(entries) != 5 {
			t.Errorf("List() returned %d entries, expected 5", len(entries))
		}

		regular := 0
		for _, e := range entries {
			if e.IsRegular() {
				regular++
			}
			if filepath.IsAbs(e.RelativePath) {
				t.Errorf("RelativePath %s should be relative", e.RelativePath)
			}
		}
		if regular != 4 {
			t.Errorf("List() found %d regular files, expected 4", regular)
		}
	})

	t.Run("LexicalOrder", func(t *testing.T) {
		entries, err := local.List(ctx, "", nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		want := []string{
			"file1.txt",
			"file2.txt",
			"subdir",
			filepath.Join("subdir", "file3.txt"),
			filepath.Join("subdir", "file4.txt"),
		}
		for i, e := range entries {
			if e.RelativePath != want[i] {
				t.Errorf("entry %d = %s, want %s", i, e.RelativePath, want[i])
			}
		}
	})

	t.Run("ListSubdir", func(t *testing.T) {
		entries, err := local.List(ctx, "subdir", nil)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(entries) != 2 {
			t.Errorf("List() returned %d entries, expected 2 files", len(entries))
		}
	})

	t.Run("ContextCancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := local.List(ctx, "", nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("List() error = %v, want context.Canceled", err)
		}
	})

	t.Run("MissingPath", func(t *testing.T) {
		_, err := local.List(ctx, "missing", nil)
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("List() error = %v, want fs.ErrNotExist", err)
		}
	})
}

// TestLocalListSymlink verifies symlinks are listed but not regular
func TestLocalListSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on Windows")
	}

	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string][]byte{"target.txt": []byte("x")})
	if err := os.Symlink(filepath.Join(tempDir, "target.txt"), filepath.Join(tempDir, "link.txt")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	local, err := NewLocal(tempDir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	entries, err := local.List(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, e := range entries {
		if e.RelativePath == "link.txt" && e.IsRegular() {
			t.Error("symlink should not be reported as a regular file")
		}
	}
}

// TestNewLocalSymlinkedRoot verifies a symlinked root is walked as the real directory
func TestNewLocalSymlinkedRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlinks require privileges on Windows")
	}

	realDir := filepath.Join(t.TempDir(), "real")
	writeTree(t, realDir, map[string][]byte{"report.txt": []byte("hello")})
	link := filepath.Join(t.TempDir(), "link")
	if err := os.Symlink(realDir, link); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	local, err := NewLocal(link)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	wantRoot, err := filepath.EvalSymlinks(realDir)
	if err != nil {
		t.Fatalf("EvalSymlinks() error = %v", err)
	}
	if local.Root() != wantRoot {
		t.Errorf("Root() = %s, want %s", local.Root(), wantRoot)
	}

	entries, err := local.List(context.Background(), "", nil)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].RelativePath != "report.txt" {
		t.Errorf("List() = %v, want report.txt only", entries)
	}
}

// TestLocalListSkip verifies skipped directories are not descended into
func TestLocalListSkip(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string][]byte{
		"keep.txt":           []byte("k"),
		"drop.tmp":           []byte("d"),
		"cache/inner.txt":    []byte("i"),
		"cache/deep/low.txt": []byte("l"),
	})

	local, err := NewLocal(tempDir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	var seen []string
	skip := func(fi FileInfo) bool {
		seen = append(seen, fi.RelativePath)
		return fi.RelativePath == "cache" || filepath.Ext(fi.RelativePath) == ".tmp"
	}

	entries, err := local.List(context.Background(), "", skip)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 || entries[0].RelativePath != "keep.txt" {
		t.Errorf("List() = %v, want keep.txt only", entries)
	}
	for _, p := range seen {
		if strings.HasPrefix(p, "cache"+string(filepath.Separator)) {
			t.Errorf("skip called for %s below a skipped directory", p)
		}
	}
}

// TestLocalListSkipUnreadable verifies an unreadable skipped directory is never opened
func TestLocalListSkipUnreadable(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("needs POSIX permissions enforced for the current user")
	}

	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string][]byte{
		"keep.txt":           []byte("k"),
		"cache/locked/x.txt": []byte("x"),
	})
	locked := filepath.Join(tempDir, "cache", "locked")
	if err := os.Chmod(locked, 0); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0755) })

	local, err := NewLocal(tempDir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	if _, err := local.List(context.Background(), "", nil); err == nil {
		t.Fatal("List() without skip should fail on the unreadable directory")
	}

	entries, err := local.List(context.Background(), "", func(fi FileInfo) bool {
		return fi.RelativePath == "cache"
	})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("List() returned %d entries, want 1", len(entries))
	}
}

// TestLocalRead tests the Read method
func TestLocalRead(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string][]byte{"read.txt": []byte("test content for reading")})

	local, err := NewLocal(tempDir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	defer local.Close()

	ctx := context.Background()

	t.Run("ReadExistingFile", func(t *testing.T) {
		reader, err := local.Read(ctx, "read.txt")
		if err != nil {
			t.Fatalf("Read() error = %v", err)
		}
		defer reader.Close()

		data, err := io.ReadAll(reader)
		if err != nil {
			t.Fatalf("ReadAll() error = %v", err)
		}
		if string(data) != "test content for reading" {
			t.Errorf("Read() content = %s, want 'test content for reading'", string(data))
		}
	})

	t.Run("ReadNonExistentFile", func(t *testing.T) {
		_, err := local.Read(ctx, "nonexistent.txt")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Read() error = %v, want fs.ErrNotExist", err)
		}
	})
}

// TestLocalDelete tests the Delete method
func TestLocalDelete(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string][]byte{
		"to_delete.txt":  []byte("bye"),
		"keep.txt":       []byte("stay"),
		"dir/nested.txt": []byte("nested"),
	})

	local, err := NewLocal(tempDir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	defer local.Close()

	ctx := context.Background()

	t.Run("DeleteFile", func(t *testing.T) {
		if err := local.Delete(ctx, "to_delete.txt"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(tempDir, "to_delete.txt")); !os.IsNotExist(err) {
			t.Error("file should have been deleted")
		}
		if _, err := os.Stat(filepath.Join(tempDir, "keep.txt")); err != nil {
			t.Errorf("unrelated file should be untouched: %v", err)
		}
	})

	t.Run("DeleteDirectoryRefused", func(t *testing.T) {
		err := local.Delete(ctx, "dir")
		if !errors.Is(err, ErrIsDirectory) {
			t.Errorf("Delete(dir) error = %v, want ErrIsDirectory", err)
		}
		if _, err := os.Stat(filepath.Join(tempDir, "dir", "nested.txt")); err != nil {
			t.Errorf("directory content should be untouched: %v", err)
		}
	})

	t.Run("DeleteNonExistent", func(t *testing.T) {
		err := local.Delete(ctx, "nonexistent.txt")
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Delete() error = %v, want fs.ErrNotExist", err)
		}
	})
}

// TestLocalExists tests the Exists method
func TestLocalExists(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, map[string][]byte{"exists.txt": []byte("x")})

	local, err := NewLocal(tempDir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	ctx := context.Background()

	if ok, err := local.Exists(ctx, "exists.txt"); err != nil || !ok {
		t.Errorf("Exists(exists.txt) = %v, %v; want true, nil", ok, err)
	}
	if ok, err := local.Exists(ctx, "missing.txt"); err != nil || ok {
		t.Errorf("Exists(missing.txt) = %v, %v; want false, nil", ok, err)
	}
}

// TestLocalStat tests the Stat method
func TestLocalStat(t *testing.T) {
	tempDir := t.TempDir()
	content := []byte("stat test content")
	writeTree(t, tempDir, map[string][]byte{"stat.txt": content})

	local, err := NewLocal(tempDir)
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	ctx := context.Background()

	info, err := local.Stat(ctx, "stat.txt")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Size != int64(len(content)) {
		t.Errorf("Size = %d, want %d", info.Size, len(content))
	}
	if !info.IsRegular() || info.IsDir {
		t.Error("stat.txt should be a regular file")
	}
	if info.RelativePath != "stat.txt" {
		t.Errorf("RelativePath = %s, want stat.txt", info.RelativePath)
	}

	if _, err := local.Stat(ctx, "nonexistent.txt"); err == nil {
		t.Error("Stat() should fail for non-existent file")
	}
}

// TestBackendInterface verifies Local implements Backend interface
func TestBackendInterface(t *testing.T) {
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}
	defer local.Close()

	var _ Backend = local
}
