package ioutils

import (
	"context"
	"os"
	"path/filepath"

	"github.com/handiism/jimeng-imagegen/internal/model"
)

// WriteFile writes data to a file, creating it and its parent directories
// if necessary.
//
// The file is created with mode 0644. If the file already exists, it is
// truncated before writing.
//
// Parameters:
//   - ctx: Context for cancellation; checked before touching the disk
//   - path: File path to write to
//   - data: Bytes to write
//
// Example:
//
//	err := WriteFile(ctx, "generated_images/7392616336519610409_0.jpg", data)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return &model.IOError{Op: "write", Path: path, Err: err}
	}
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &model.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return &model.IOError{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}
