package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageUploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	path := "execucoes/abc/foto.jpg"
	storagePath, publicURL, err := s.Upload(ctx, strings.NewReader("jpeg-bytes"), path)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if storagePath != path {
		t.Errorf("storagePath = %q, want %q", storagePath, path)
	}
	if publicURL != "/uploads/"+path {
		t.Errorf("publicURL = %q, want %q", publicURL, "/uploads/"+path)
	}

	data, err := os.ReadFile(filepath.Join(dir, path))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("stored content = %q", data)
	}

	exists, err := s.Exists(ctx, path)
	if err != nil || !exists {
		t.Errorf("Exists = %v, %v; want true, nil", exists, err)
	}

	if err := s.Delete(ctx, path); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	exists, err = s.Exists(ctx, path)
	if err != nil || exists {
		t.Errorf("Exists after delete = %v, %v; want false, nil", exists, err)
	}
}

func TestLocalStorageDeleteMissingIsNoError(t *testing.T) {
	s := NewLocalStorage(t.TempDir())
	if err := s.Delete(context.Background(), "nao-existe.jpg"); err != nil {
		t.Errorf("Delete of missing file: %v", err)
	}
}

func TestLocalStorageGetReader(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir)
	ctx := context.Background()

	if _, _, err := s.Upload(ctx, strings.NewReader("conteudo"), "a/b.jpg"); err != nil {
		t.Fatalf("Upload: %v", err)
	}

	r, err := s.GetReader(ctx, "a/b.jpg")
	if err != nil {
		t.Fatalf("GetReader: %v", err)
	}
	defer r.Close()

	buf := make([]byte, 16)
	n, _ := r.Read(buf)
	if string(buf[:n]) != "conteudo" {
		t.Errorf("read %q, want %q", buf[:n], "conteudo")
	}
}

func TestNewDriverSelection(t *testing.T) {
	d, err := NewDriver(&Config{Driver: "local", UploadsPath: t.TempDir()})
	if err != nil {
		t.Fatalf("NewDriver(local): %v", err)
	}
	if _, ok := d.(*LocalStorage); !ok {
		t.Errorf("NewDriver(local) = %T, want *LocalStorage", d)
	}

	if _, err := NewDriver(&Config{Driver: "ftp"}); err == nil {
		t.Error("NewDriver(ftp) succeeded, want error")
	}

	if _, err := NewDriver(&Config{Driver: "s3"}); err == nil {
		t.Error("NewDriver(s3) without bucket succeeded, want error")
	}
}
