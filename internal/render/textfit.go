package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

type FitOptions struct {
	MinSize      int
	MaxSize      int
	FallbackSize int
	Color        color.Color
}

// Glyph is a pre-rendered, rotated label.
type Glyph struct {
	Image    *image.NRGBA
	Size     int
	Fallback bool
}

func (g Glyph) Width() int {
	if g.Image == nil {
		return 0
	}
	return g.Image.Bounds().Dx()
}

func (g Glyph) Height() int {
	if g.Image == nil {
		return 0
	}
	return g.Image.Bounds().Dy()
}

// FitRotatedLabel scans font sizes upward from MinSize and keeps the largest
// one whose 90° counter-clockwise rotation is at most maxHeight tall. The scan
// stops at the first size that does not fit. When even MinSize overflows the
// label is rendered at FallbackSize and allowed to overflow.
func FitRotatedLabel(fonts *Fonts, text string, maxHeight int, opts FitOptions) (Glyph, error) {
	if opts.MinSize <= 0 {
		opts.MinSize = 16
	}
	if opts.MaxSize < opts.MinSize {
		opts.MaxSize = opts.MinSize
	}
	if opts.FallbackSize <= 0 {
		opts.FallbackSize = 20
	}
	if opts.Color == nil {
		opts.Color = color.White
	}

	chosen := 0
	for size := opts.MinSize; size <= opts.MaxSize; size++ {
		face, err := fonts.Face(float64(size))
		if err != nil {
			return Glyph{}, err
		}
		// Rotating a quarter turn turns the ink width into the height.
		rotatedHeight := measure(face, text).w
		_ = face.Close()

		if rotatedHeight > maxHeight {
			break
		}
		chosen = size
	}

	glyph := Glyph{Size: chosen}
	if chosen == 0 {
		glyph.Size = opts.FallbackSize
		glyph.Fallback = true
	}

	face, err := fonts.Face(float64(glyph.Size))
	if err != nil {
		return Glyph{}, err
	}
	defer face.Close()

	glyph.Image = imaging.Rotate90(renderTextImage(face, text, opts.Color))
	return glyph, nil
}

// PlaceSideLabel centers the glyph horizontally in the panel and anchors its
// bottom edge at bottom, never going above minTop.
func PlaceSideLabel(panelX, panelW, bottom, minTop int, g Glyph) image.Point {
	x := panelX + (panelW-g.Width())/2
	y := bottom - g.Height()
	if y < minTop {
		y = minTop
	}
	return image.Pt(x, y)
}
