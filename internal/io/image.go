package ioutils

import (
	"bytes"
	"context"
	"image"
	_ "image/gif" // GIF decoder registration
	"image/jpeg"
	_ "image/png" // PNG decoder registration

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder registration
)

// jpegQuality matches the quality used for every re-encode.
const jpegQuality = 90

// ImageService converts downloaded images to JPEG.
//
// Example usage:
//
//	svc := NewImageService()
//	data, _ := client.DownloadBytes(ctx, url)
//	jpg, converted, err := svc.NormalizeJPEG(ctx, data)
type ImageService struct{}

// NewImageService creates a new ImageService.
func NewImageService() *ImageService {
	return &ImageService{}
}

// NormalizeJPEG returns data as JPEG.
//
// JPEG input and input that no registered decoder recognises are returned
// unchanged with converted=false. PNG, GIF and WebP input is decoded,
// flattened onto white and encoded as JPEG with converted=true.
//
// An error means the payload claimed a known format but could not be decoded
// or re-encoded; the caller still has the original bytes.
func (s *ImageService) NormalizeJPEG(ctx context.Context, data []byte) ([]byte, bool, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || format == "jpeg" {
		return data, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, err
	}

	out, err := encodeJPEG(img)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// encodeJPEG draws img over a white background, since JPEG has no alpha
// channel, and encodes the result.
func encodeJPEG(img image.Image) ([]byte, error) {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
