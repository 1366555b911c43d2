package sniff

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

var (
	jpegHead = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46, 0x00, 0x01}
	pngHead  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D}
	mp4Head  = []byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p', 'i', 's', 'o', 'm'}
	movHead  = []byte{0x00, 0x00, 0x00, 0x14, 'f', 't', 'y', 'p', 'q', 't', ' ', ' '}
	zipHead  = []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x00, 0x00}
	gzipHead = []byte{0x1F, 0x8B, 0x08, 0x00, 0x00, 0x00, 0x00, 0x00}
)

func TestDetectBytes(t *testing.T) {
	cases := []struct {
		name     string
		head     []byte
		wantKind Kind
		wantExt  string
		wantErr  bool
	}{
		{name: "jpeg", head: jpegHead, wantKind: KindImage, wantExt: ".jpg"},
		{name: "png", head: pngHead, wantKind: KindImage, wantExt: ".png"},
		{name: "mp4", head: mp4Head, wantKind: KindVideo, wantExt: ".mp4"},
		{name: "mov brand maps to mp4", head: movHead, wantKind: KindVideo, wantExt: ".mp4"},
		{name: "text", head: []byte("hello world, not media"), wantErr: true},
		{name: "empty", head: nil, wantErr: true},
		{name: "truncated jpeg", head: []byte{0xFF, 0xD8}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, ext, err := DetectBytes(tc.head)
			if tc.wantErr {
				if !errors.Is(err, ErrUnsupportedType) {
					t.Fatalf("err = %v, want ErrUnsupportedType", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("DetectBytes: %v", err)
			}
			if kind != tc.wantKind || ext != tc.wantExt {
				t.Errorf("got (%v, %q), want (%v, %q)", kind, ext, tc.wantKind, tc.wantExt)
			}
		})
	}
}

func TestDetectFile(t *testing.T) {
	dir := t.TempDir()

	// The nominal extension must not matter: a JPEG named .png is a JPEG.
	path := filepath.Join(dir, "mislabeled.png")
	if err := os.WriteFile(path, jpegHead, 0o644); err != nil {
		t.Fatal(err)
	}

	kind, ext, err := DetectFile(path)
	if err != nil {
		t.Fatalf("DetectFile: %v", err)
	}
	if kind != KindImage || ext != ".jpg" {
		t.Errorf("got (%v, %q), want (KindImage, .jpg)", kind, ext)
	}
}

func TestDetectFile_Unsupported(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := DetectFile(path); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestIsZip(t *testing.T) {
	if !IsZipBytes(zipHead) {
		t.Error("zip header not recognized")
	}
	if IsZipBytes(jpegHead) {
		t.Error("jpeg header misread as zip")
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "bundle.zip")
	if err := os.WriteFile(path, zipHead, 0o644); err != nil {
		t.Fatal(err)
	}
	if !IsZipFile(path) {
		t.Error("IsZipFile: zip file not recognized")
	}
}

func TestIsOpaqueArchive(t *testing.T) {
	dir := t.TempDir()
	gz := filepath.Join(dir, "export.gz")
	if err := os.WriteFile(gz, gzipHead, 0o644); err != nil {
		t.Fatal(err)
	}
	if !IsOpaqueArchive(gz) {
		t.Error("gzip not recognized as opaque archive")
	}

	jpg := filepath.Join(dir, "photo.jpg")
	if err := os.WriteFile(jpg, jpegHead, 0o644); err != nil {
		t.Fatal(err)
	}
	if IsOpaqueArchive(jpg) {
		t.Error("jpeg misread as opaque archive")
	}
}

func TestDetectFile_ShortFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny")
	if err := os.WriteFile(path, []byte{0x00}, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, err := DetectFile(path); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}
