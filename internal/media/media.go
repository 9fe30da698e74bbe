package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"mediagen/internal/domain"
)

// VisionWidth is the edge length images are downscaled to before being
// sent to the vision model; full-size uploads waste tokens and time.
const VisionWidth = 512

// IsImage sniffs the file's content type.
func IsImage(path string) (bool, error) {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return false, fmt.Errorf("media: sniff %s: %w", filepath.Base(path), err)
	}
	return strings.HasPrefix(mime.String(), "image/"), nil
}

// SniffExtension returns a file extension for raw image bytes.
func SniffExtension(data []byte) string {
	ext := mimetype.Detect(data).Extension()
	if ext == "" {
		return ".jpeg"
	}
	return ext
}

// ResizeForVision downscales the image at path into a temp file and
// returns its path together with a cleanup func. The caller must invoke
// cleanup on every exit path; the temp file never outlives the request.
func ResizeForVision(path string) (string, func(), error) {
	ok, err := IsImage(path)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, domain.ErrNotAnImage
	}

	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return "", nil, fmt.Errorf("media: open image: %w", err)
	}
	if img.Bounds().Dx() > VisionWidth {
		img = imaging.Resize(img, VisionWidth, 0, imaging.Lanczos)
	}

	tmp, err := os.CreateTemp("", "vision-*.jpeg")
	if err != nil {
		return "", nil, fmt.Errorf("media: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	_ = tmp.Close()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if err := imaging.Save(img, tmpPath, imaging.JPEGQuality(85)); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("media: save resized image: %w", err)
	}
	return tmpPath, cleanup, nil
}
