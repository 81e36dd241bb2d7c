package fsutil

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"testing"
)

func TestOSFileSystem_RoundTrip(t *testing.T) {
	fsys := OSFileSystem{}
	path := filepath.Join(t.TempDir(), "scans", "lidar1.toml")

	if err := EnsureParentDir(fsys, path); err != nil {
		t.Fatalf("EnsureParentDir failed: %v", err)
	}
	if err := fsys.WriteFile(path, []byte("[scan]\n"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := fsys.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "[scan]\n" {
		t.Errorf("expected %q, got %q", "[scan]\n", data)
	}

	info, err := fsys.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Size() != int64(len("[scan]\n")) {
		t.Errorf("size = %d", info.Size())
	}
}

func TestMemoryFileSystem_WriteAndRead(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.WriteFile("/scan.toml", []byte("ranges = [1.0]"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := mfs.ReadFile("/scan.toml")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "ranges = [1.0]" {
		t.Errorf("got %q", data)
	}

	// Returned slices are copies.
	data[0] = 'X'
	again, _ := mfs.ReadFile("/scan.toml")
	if again[0] != 'r' {
		t.Error("ReadFile must not expose internal storage")
	}
}

func TestMemoryFileSystem_CreateVisibleOnClose(t *testing.T) {
	mfs := NewMemoryFileSystem()

	w, err := mfs.Create("out/report.svg")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := w.Write([]byte("<svg/>")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, _ := mfs.ReadFile("out/report.svg")
	if len(data) != 0 {
		t.Errorf("expected empty file before Close, got %q", data)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	data, err = mfs.ReadFile("out/report.svg")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "<svg/>" {
		t.Errorf("got %q", data)
	}
}

func TestMemoryFileSystem_Missing(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if _, err := mfs.ReadFile("/nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile err = %v, want ErrNotExist", err)
	}
	if _, err := mfs.Stat("/nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat err = %v, want ErrNotExist", err)
	}
}

func TestMemoryFileSystem_MkdirAllAndStat(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.MkdirAll("/data/runs/a", 0755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	for _, dir := range []string{"/data", "/data/runs", "/data/runs/a"} {
		if !mfs.HasDir(dir) {
			t.Errorf("expected %s to exist", dir)
		}
	}

	info, err := mfs.Stat("/data/runs")
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected directory")
	}
}

func TestEnsureParentDir(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := EnsureParentDir(mfs, "output1.svg"); err != nil {
		t.Fatalf("EnsureParentDir failed: %v", err)
	}
	if len(mfs.dirs) != 0 {
		t.Errorf("bare file name should create no dirs, got %v", mfs.dirs)
	}

	if err := EnsureParentDir(mfs, "data/plots/output1.svg"); err != nil {
		t.Fatalf("EnsureParentDir failed: %v", err)
	}
	if !mfs.HasDir("data/plots") || !mfs.HasDir("data") {
		t.Errorf("expected data/plots to be created, got %v", mfs.dirs)
	}
}

func TestMemoryFileSystem_PathCleaning(t *testing.T) {
	mfs := NewMemoryFileSystem()

	if err := mfs.WriteFile("./dirty/../clean.toml", []byte("clean"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	files := mfs.Files()
	sort.Strings(files)
	if len(files) != 1 || files[0] != "clean.toml" {
		t.Errorf("files = %v, want [clean.toml]", files)
	}
}
