package imagepkg

import (
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"
)

// Format is the output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"

	defaultJPEGQuality = 90
)

// ParseFormat accepts png, jpeg and jpg. Empty means PNG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// ContentType is the MIME type for f.
func (f Format) ContentType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Ext is the file extension for f, without the dot.
func (f Format) Ext() string {
	if f == JPEG {
		return "jpg"
	}
	return "png"
}

// Encode writes img in the given format. quality only applies to JPEG;
// values outside 1..100 use the default.
func Encode(w io.Writer, img image.Image, f Format, quality int) error {
	if f == JPEG {
		if quality < 1 || quality > 100 {
			quality = defaultJPEGQuality
		}
		if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return fmt.Errorf("encode jpeg: %w", err)
		}
		return nil
	}
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
