package imagepkg

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Fonts holds the parsed regular and bold typefaces. Parsed fonts are safe
// to share; faces are created per render.
type Fonts struct {
	Regular *opentype.Font
	Bold    *opentype.Font
}

var (
	defaultOnce  sync.Once
	defaultFonts *Fonts
	defaultErr   error
)

// DefaultFonts returns the embedded Go fonts. They carry no Japanese glyphs;
// use LoadFonts with a CJK font for real song titles.
func DefaultFonts() (*Fonts, error) {
	defaultOnce.Do(func() {
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			defaultErr = fmt.Errorf("parse embedded regular font: %w", err)
			return
		}
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			defaultErr = fmt.Errorf("parse embedded bold font: %w", err)
			return
		}
		defaultFonts = &Fonts{Regular: regular, Bold: bold}
	})
	return defaultFonts, defaultErr
}

// LoadFonts parses TTF/OTF files. An empty path keeps the embedded font for
// that weight; an empty bold path with a regular path reuses the regular file.
func LoadFonts(regularPath, boldPath string) (*Fonts, error) {
	base, err := DefaultFonts()
	if err != nil {
		return nil, err
	}
	out := *base

	regularPath = strings.TrimSpace(regularPath)
	boldPath = strings.TrimSpace(boldPath)
	if regularPath != "" {
		if out.Regular, err = parseFontFile(regularPath); err != nil {
			return nil, err
		}
		out.Bold = out.Regular
	}
	if boldPath != "" {
		if out.Bold, err = parseFontFile(boldPath); err != nil {
			return nil, err
		}
	}
	return &out, nil
}

// Covers reports whether both weights have a glyph for every rune of s.
func (f *Fonts) Covers(s string) bool {
	var buf sfnt.Buffer
	for _, face := range []*opentype.Font{f.Regular, f.Bold} {
		for _, r := range s {
			idx, err := face.GlyphIndex(&buf, r)
			if err != nil || idx == 0 {
				return false
			}
		}
	}
	return true
}

func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %q: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %q: %w", path, err)
	}
	return f, nil
}

// faceSet creates and remembers faces for one render.
type faceSet struct {
	fonts *Fonts
	faces map[faceKey]font.Face
}

type faceKey struct {
	bold bool
	size float64
}

func newFaceSet(f *Fonts) *faceSet {
	return &faceSet{fonts: f, faces: map[faceKey]font.Face{}}
}

func (s *faceSet) face(bold bool, size float64) (font.Face, error) {
	key := faceKey{bold: bold, size: size}
	if f, ok := s.faces[key]; ok {
		return f, nil
	}
	src := s.fonts.Regular
	if bold {
		src = s.fonts.Bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create font face (size %.0f): %w", size, err)
	}
	s.faces[key] = f
	return f, nil
}

func (s *faceSet) Close() {
	for _, f := range s.faces {
		_ = f.Close()
	}
}
