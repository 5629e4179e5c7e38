package service

import (
	"context"
	"os"
	"path/filepath"
	"stareduca_backend/internal/config"
	"strings"
	"testing"
)

func TestLocalStorageProvider_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	provider := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir}}

	url, err := provider.Upload(context.Background(), "posts/abc/foto.jpg", strings.NewReader("jpegdata"), 8, "image/jpeg")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "/uploads/posts/abc/foto.jpg" {
		t.Fatalf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(dir, "posts/abc/foto.jpg"))
	if err != nil {
		t.Fatalf("read uploaded file: %v", err)
	}
	if string(data) != "jpegdata" {
		t.Fatalf("content = %q", data)
	}

	if err := provider.Delete(context.Background(), "posts/abc/foto.jpg"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "posts/abc/foto.jpg")); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err = %v", err)
	}
}

func TestLocalStorageProvider_UploadFile(t *testing.T) {
	dir := t.TempDir()
	provider := &LocalStorageProvider{Config: &config.StorageConfig{LocalPath: dir}}

	src := filepath.Join(t.TempDir(), "video.mp4")
	if err := os.WriteFile(src, []byte("mp4data"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	url, err := provider.UploadFile(context.Background(), "lessons/l1/video.mp4", src, "video/mp4")
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if url != "/uploads/lessons/l1/video.mp4" {
		t.Fatalf("url = %q", url)
	}
}

func TestNewStorageService_FallsBackToLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = "local"
	cfg.Storage.LocalPath = t.TempDir()

	svc := NewStorageService(cfg)
	if _, ok := svc.Provider.(*LocalStorageProvider); !ok {
		t.Fatalf("provider = %T, want LocalStorageProvider", svc.Provider)
	}
}
