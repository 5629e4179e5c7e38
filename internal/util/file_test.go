package util

import (
	"bytes"
	"testing"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 13, 'I', 'H', 'D', 'R'}

func TestValidateMimeType(t *testing.T) {
	mime, err := ValidateMimeType(bytes.NewReader(pngHeader), AllowedImageMimeTypes)
	if err != nil {
		t.Fatalf("ValidateMimeType: %v", err)
	}
	if mime != "image/png" {
		t.Fatalf("mime = %q, want image/png", mime)
	}

	// 扩展名骗不过内容嗅探
	if _, err := ValidateMimeType(bytes.NewReader([]byte("#!/bin/sh\nrm -rf /")), AllowedImageMimeTypes); err == nil {
		t.Fatalf("script content must be rejected as image")
	}
}

func TestImageExtension(t *testing.T) {
	cases := map[string]string{
		"image/jpeg":      ".jpg",
		"image/png":       ".png",
		"image/webp":      ".webp",
		"application/pdf": ".bin",
	}
	for mime, want := range cases {
		if got := ImageExtension(mime); got != want {
			t.Fatalf("ImageExtension(%q) = %q, want %q", mime, got, want)
		}
	}
}
