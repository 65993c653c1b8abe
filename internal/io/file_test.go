package ioutils

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/handiism/jimeng-imagegen/internal/model"
)

func TestWriteFile_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "task_0.jpg")

	if err := WriteFile(context.Background(), path, []byte("first")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteFile(context.Background(), path, []byte("second")); err != nil {
		t.Fatalf("WriteFile overwrite: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}
}

func TestWriteFile_Errors(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, nil, 0644); err != nil {
		t.Fatal(err)
	}

	err := WriteFile(context.Background(), filepath.Join(blocker, "x.jpg"), []byte("x"))
	var ioErr *model.IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("err = %v, want *model.IOError", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = WriteFile(ctx, filepath.Join(dir, "y.jpg"), []byte("y"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if _, statErr := os.Stat(filepath.Join(dir, "y.jpg")); !os.IsNotExist(statErr) {
		t.Error("file written despite cancelled context")
	}
}

func TestEnsureDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested")
	for i := 0; i < 2; i++ {
		if err := EnsureDir(path); err != nil {
			t.Fatalf("EnsureDir call %d: %v", i, err)
		}
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}
