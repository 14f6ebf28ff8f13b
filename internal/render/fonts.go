package render

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Fonts holds the parsed typeface shared by every render. Faces are created
// per render because font.Face implementations are not safe for concurrent use.
type Fonts struct {
	font     *opentype.Font
	path     string
	fallback bool
}

// LoadFonts parses the TrueType file at path. When the file is missing or
// unreadable it falls back to the embedded Go Regular face and returns the
// usable Fonts together with an *AssetError describing the miss.
func LoadFonts(path string) (*Fonts, error) {
	fallback := func(cause error) (*Fonts, error) {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("parse embedded font: %w", err)
		}
		return &Fonts{font: f, path: "goregular", fallback: true}, &AssetError{Kind: AssetFont, Path: path, Err: cause}
	}

	if strings.TrimSpace(path) == "" {
		return fallback(errAssetPathEmpty)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fallback(err)
	}
	f, err := opentype.Parse(raw)
	if err != nil {
		return fallback(err)
	}
	return &Fonts{font: f, path: path}, nil
}

// MustDefaultFonts returns the embedded Go Regular face.
func MustDefaultFonts() *Fonts {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err)
	}
	return &Fonts{font: f, path: "goregular", fallback: true}
}

func (f *Fonts) Path() string {
	return f.path
}

func (f *Fonts) IsFallback() bool {
	return f.fallback
}

// Face returns a new face at size pixels. Callers own the face.
func (f *Fonts) Face(size float64) (font.Face, error) {
	face, err := opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face size %.0f: %w", size, err)
	}
	return face, nil
}

// faceSet memoizes faces by size for one render call.
type faceSet struct {
	fonts *Fonts
	faces map[float64]font.Face
}

func newFaceSet(fonts *Fonts) *faceSet {
	return &faceSet{fonts: fonts, faces: make(map[float64]font.Face)}
}

func (s *faceSet) get(size float64) (font.Face, error) {
	if face, ok := s.faces[size]; ok {
		return face, nil
	}
	face, err := s.fonts.Face(size)
	if err != nil {
		return nil, err
	}
	s.faces[size] = face
	return face, nil
}

func (s *faceSet) Close() {
	for size, face := range s.faces {
		_ = face.Close()
		delete(s.faces, size)
	}
}
