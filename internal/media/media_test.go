package media

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"mediagen/internal/domain"
)

func writeTestImage(t *testing.T, width, height int) string {
	t.Helper()
	img := imaging.New(width, height, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	path := filepath.Join(t.TempDir(), "fixture.png")
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("save fixture: %v", err)
	}
	return path
}

func TestIsImage(t *testing.T) {
	imgPath := writeTestImage(t, 32, 32)
	ok, err := IsImage(imgPath)
	if err != nil {
		t.Fatalf("sniff image: %v", err)
	}
	if !ok {
		t.Fatal("png fixture should be an image")
	}

	txtPath := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(txtPath, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("write text fixture: %v", err)
	}
	ok, err = IsImage(txtPath)
	if err != nil {
		t.Fatalf("sniff text: %v", err)
	}
	if ok {
		t.Fatal("text file misdetected as image")
	}
}

func TestResizeForVisionShrinksWideImages(t *testing.T) {
	path := writeTestImage(t, 2048, 1024)

	resized, cleanup, err := ResizeForVision(path)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	defer cleanup()

	img, err := imaging.Open(resized)
	if err != nil {
		t.Fatalf("open resized: %v", err)
	}
	if got := img.Bounds().Dx(); got != VisionWidth {
		t.Fatalf("width = %d, want %d", got, VisionWidth)
	}
	// Aspect ratio is preserved.
	if got := img.Bounds().Dy(); got != VisionWidth/2 {
		t.Fatalf("height = %d, want %d", got, VisionWidth/2)
	}
}

func TestResizeForVisionKeepsSmallImages(t *testing.T) {
	path := writeTestImage(t, 100, 80)

	resized, cleanup, err := ResizeForVision(path)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	defer cleanup()

	img, err := imaging.Open(resized)
	if err != nil {
		t.Fatalf("open resized: %v", err)
	}
	if got := img.Bounds(); got != image.Rect(0, 0, 100, 80) {
		t.Fatalf("small image should be untouched, got %v", got)
	}
}

func TestResizeForVisionCleanupRemovesTempFile(t *testing.T) {
	path := writeTestImage(t, 700, 700)

	resized, cleanup, err := ResizeForVision(path)
	if err != nil {
		t.Fatalf("resize: %v", err)
	}
	if _, err := os.Stat(resized); err != nil {
		t.Fatalf("temp file missing before cleanup: %v", err)
	}
	cleanup()
	if _, err := os.Stat(resized); !os.IsNotExist(err) {
		t.Fatalf("temp file should be removed, stat err: %v", err)
	}
}

func TestResizeForVisionRejectsNonImages(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, _, err := ResizeForVision(path); !errors.Is(err, domain.ErrNotAnImage) {
		t.Fatalf("expected ErrNotAnImage, got %v", err)
	}
}

func TestSniffExtension(t *testing.T) {
	path := writeTestImage(t, 10, 10)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	if got := SniffExtension(data); got != ".png" {
		t.Fatalf("extension = %q, want .png", got)
	}
}
