package ioutils

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func testImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 4))
	for x := 0; x < 8; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 30), G: 100, B: 200, A: 255})
		}
	}
	return img
}

func TestNormalizeJPEG_PassThrough(t *testing.T) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, testImage(), nil); err != nil {
		t.Fatal(err)
	}
	svc := NewImageService()

	for name, input := range map[string][]byte{
		"jpeg":    buf.Bytes(),
		"unknown": []byte("not an image at all"),
	} {
		t.Run(name, func(t *testing.T) {
			out, converted, err := svc.NormalizeJPEG(context.Background(), input)
			if err != nil {
				t.Fatalf("NormalizeJPEG: %v", err)
			}
			if converted {
				t.Error("converted = true, want false")
			}
			if !bytes.Equal(out, input) {
				t.Error("pass-through input was modified")
			}
		})
	}
}

func TestNormalizeJPEG_ConvertsPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatal(err)
	}

	out, converted, err := NewImageService().NormalizeJPEG(context.Background(), buf.Bytes())
	if err != nil {
		t.Fatalf("NormalizeJPEG: %v", err)
	}
	if !converted {
		t.Fatal("converted = false, want true")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if cfg.Width != 8 || cfg.Height != 4 {
		t.Errorf("size = %dx%d, want 8x4", cfg.Width, cfg.Height)
	}
}

func TestNormalizeJPEG_TruncatedPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage()); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:40]

	_, converted, err := NewImageService().NormalizeJPEG(context.Background(), truncated)
	if err == nil {
		t.Error("expected error for truncated PNG")
	}
	if converted {
		t.Error("converted = true for a failed decode")
	}
}
