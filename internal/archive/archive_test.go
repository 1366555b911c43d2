package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/backmassage/snapmerge/internal/classify"
)

func TestResolve(t *testing.T) {
	tmpRoot := t.TempDir()
	t.Setenv("TMPDIR", tmpRoot)

	dir := t.TempDir()
	zp := filepath.Join(dir, "memory.zip")
	writeZip(t, zp, map[string][]byte{
		"a_main.jpg":    jpegBytes(t, 8, 8),
		"a_overlay.png": pngBytes(t, 4, 4),
	})

	ex, err := Resolve(zp)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	if filepath.Base(ex.MediaPath) != "a_main.jpg" {
		t.Errorf("media = %s", ex.MediaPath)
	}
	if filepath.Base(ex.OverlayPath) != "a_overlay.png" {
		t.Errorf("overlay = %s", ex.OverlayPath)
	}
	for _, p := range []string{ex.MediaPath, ex.OverlayPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("extracted entry missing: %v", err)
		}
	}

	if err := ex.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := os.Stat(ex.MediaPath); !os.IsNotExist(err) {
		t.Error("extraction dir not removed by Close")
	}
	// Close is idempotent.
	if err := ex.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}

func TestResolve_EntryCount(t *testing.T) {
	tmpRoot := t.TempDir()
	t.Setenv("TMPDIR", tmpRoot)

	dir := t.TempDir()

	cases := []struct {
		name    string
		members map[string][]byte
	}{
		{"one entry", map[string][]byte{
			"a_main.jpg": jpegBytes(t, 8, 8),
		}},
		{"three entries", map[string][]byte{
			"a_main.jpg":    jpegBytes(t, 8, 8),
			"a_overlay.png": pngBytes(t, 4, 4),
			"extra.txt":     []byte("x"),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			zp := filepath.Join(dir, tc.name+".zip")
			writeZip(t, zp, tc.members)

			if _, err := Resolve(zp); !errors.Is(err, ErrEntryCount) {
				t.Errorf("err = %v, want ErrEntryCount", err)
			}
			assertNoResidue(t, tmpRoot)
		})
	}
}

func TestResolve_RoleMatch(t *testing.T) {
	tmpRoot := t.TempDir()
	t.Setenv("TMPDIR", tmpRoot)

	dir := t.TempDir()

	cases := []struct {
		name    string
		members map[string][]byte
	}{
		{"neither matches", map[string][]byte{
			"a.jpg": jpegBytes(t, 8, 8),
			"b.png": pngBytes(t, 4, 4),
		}},
		{"both are overlays", map[string][]byte{
			"a_overlay.png": pngBytes(t, 4, 4),
			"b_overlay.png": pngBytes(t, 4, 4),
		}},
		{"both are mains", map[string][]byte{
			"a_main.jpg": jpegBytes(t, 8, 8),
			"b_main.jpg": jpegBytes(t, 8, 8),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			zp := filepath.Join(dir, tc.name+".zip")
			writeZip(t, zp, tc.members)

			if _, err := Resolve(zp); !errors.Is(err, classify.ErrRoleMatch) {
				t.Errorf("err = %v, want ErrRoleMatch", err)
			}
			assertNoResidue(t, tmpRoot)
		})
	}
}

func TestResolve_NotAZip(t *testing.T) {
	tmpRoot := t.TempDir()
	t.Setenv("TMPDIR", tmpRoot)

	dir := t.TempDir()
	path := filepath.Join(dir, "fake.zip")
	if err := os.WriteFile(path, []byte("this is not a zip"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Resolve(path); !errors.Is(err, ErrArchiveFormat) {
		t.Errorf("err = %v, want ErrArchiveFormat", err)
	}
	assertNoResidue(t, tmpRoot)
}

func TestResolve_EmptyFile(t *testing.T) {
	tmpRoot := t.TempDir()
	t.Setenv("TMPDIR", tmpRoot)

	dir := t.TempDir()
	path := filepath.Join(dir, "empty.zip")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Resolve(path); !errors.Is(err, ErrArchiveFormat) {
		t.Errorf("err = %v, want ErrArchiveFormat", err)
	}
	assertNoResidue(t, tmpRoot)
}

func TestResolve_NestedDirCountsAsEntry(t *testing.T) {
	tmpRoot := t.TempDir()
	t.Setenv("TMPDIR", tmpRoot)

	dir := t.TempDir()
	zp := filepath.Join(dir, "nested.zip")
	writeZip(t, zp, map[string][]byte{
		"a_main.jpg":          jpegBytes(t, 8, 8),
		"a_overlay.png":       pngBytes(t, 4, 4),
		"extras/thumbnail.jpg": jpegBytes(t, 2, 2),
	})

	if _, err := Resolve(zp); !errors.Is(err, ErrEntryCount) {
		t.Errorf("err = %v, want ErrEntryCount", err)
	}
	assertNoResidue(t, tmpRoot)
}

// assertNoResidue fails the test if a failed Resolve left an extraction
// directory behind under tmpRoot.
func assertNoResidue(t *testing.T, tmpRoot string) {
	t.Helper()
	entries, err := os.ReadDir(tmpRoot)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("residual temp entries after failure: %d", len(entries))
	}
}

// --- Helpers ---

func writeZip(t *testing.T, path string, members map[string][]byte) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range members {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 255, A: 128})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
