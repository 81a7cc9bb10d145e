package extract

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test image: %v", err)
	}
	return buf.Bytes()
}

func TestFileCoverStore_SavesJPEG(t *testing.T) {
	dir := t.TempDir()
	store := FileCoverStore{Dir: dir}

	path, err := store.SaveCover("abc123", pngBytes(t))
	if err != nil {
		t.Fatalf("SaveCover error: %v", err)
	}
	if want := filepath.Join(dir, "abc123.jpg"); path != want {
		t.Fatalf("SaveCover path = %q, want %q", path, want)
	}

	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved cover: %v", err)
	}
	if len(saved) < 3 || saved[0] != 0xFF || saved[1] != 0xD8 {
		t.Fatalf("saved cover does not start with a JPEG marker: % x", saved[:3])
	}
}

func TestFileCoverStore_RejectsGarbage(t *testing.T) {
	store := FileCoverStore{Dir: t.TempDir()}
	if _, err := store.SaveCover("bad", []byte("not an image at all")); err == nil {
		t.Fatal("SaveCover of garbage bytes succeeded, want error")
	}
}
