// Package media stores uploaded picture originals and derives the resized
// variants served by the site.
package media

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"

	// image.Decode expects decoders to be registered in the global image
	// package; importing these packages registers the ones we accept.
	_ "golang.org/x/image/webp"
)

const (
	thumbWidth = 150
	largeWidth = 800
)

// A Store writes originals and derivatives under one base directory.
type Store struct {
	base   string
	logger *slog.Logger
}

// NewStore returns a Store rooted at base.
func NewStore(base string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{base: base, logger: logger}
}

// SaveOriginal writes the uploaded image under a fresh name and returns the
// stored filename.
func (s *Store) SaveOriginal(r io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.base, 0o755); err != nil {
		return "", err
	}
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "" {
		ext = "jpg"
	}
	name := fmt.Sprintf("%s.%s", uuid.New(), ext)

	f, err := os.Create(filepath.Join(s.base, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", err
	}
	return name, f.Close()
}

// Path returns the filesystem path of a stored file.
func (s *Store) Path(name string) string {
	return filepath.Join(s.base, name)
}

// Derive produces the thumb and large variants of a stored original. The
// original is left untouched; a failed variant leaves no partial file.
func (s *Store) Derive(name string) error {
	f, err := os.Open(s.Path(name))
	if err != nil {
		return err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("derive %s: decode: %w", name, err)
	}

	for variant, width := range map[string]uint{"thumb": thumbWidth, "large": largeWidth} {
		scaled := resize.Resize(width, 0, img, resize.Lanczos3)
		if err := s.write(variantName(name, variant), scaled, format); err != nil {
			return fmt.Errorf("derive %s: %s: %w", name, variant, err)
		}
	}
	s.logger.Debug("derived image variants", "name", name, "format", format)
	return nil
}

// write encodes the image in the original's format; formats without an
// encoder fall back to jpeg.
func (s *Store) write(name string, img image.Image, format string) error {
	f, err := os.Create(filepath.Join(s.base, name))
	if err != nil {
		return err
	}
	switch format {
	case "png":
		err = png.Encode(f, img)
	case "gif":
		err = gif.Encode(f, img, nil)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// variantName inserts the variant tag before the extension.
func variantName(name, variant string) string {
	ext := filepath.Ext(name)
	return strings.TrimSuffix(name, ext) + "_" + variant + ext
}
