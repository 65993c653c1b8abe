// Package ioutils provides file system and image utilities.
//
// This package contains functions for:
//   - Writing files, creating parent directories on the way
//   - Directory creation
//   - Normalising downloaded images to JPEG
//
// # File Operations
//
//	// Write data to file, creating /out if needed
//	err := ioutils.WriteFile(ctx, "/out/123_0.jpg", data)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/out")
//
// Failures are reported as *model.IOError.
//
// # Image Processing
//
// Artifacts are always named .jpg. ImageService re-encodes PNG, GIF and WebP
// payloads so the name matches the content:
//
//	svc := ioutils.NewImageService()
//	jpeg, converted, err := svc.NormalizeJPEG(ctx, data)
package ioutils
