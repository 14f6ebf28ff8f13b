package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// inkBox is the tight bounding box of rendered glyphs relative to the pen
// origin on the baseline.
type inkBox struct {
	minX, minY int
	w, h       int
}

func measure(face font.Face, s string) inkBox {
	bounds, _ := font.BoundString(face, s)
	minX, minY := bounds.Min.X.Floor(), bounds.Min.Y.Floor()
	maxX, maxY := bounds.Max.X.Ceil(), bounds.Max.Y.Ceil()
	return inkBox{minX: minX, minY: minY, w: maxX - minX, h: maxY - minY}
}

// drawText places the ink box of s with its top-left corner at (x, y).
func drawText(dc *gg.Context, face font.Face, s string, x, y int, c color.Color) inkBox {
	box := measure(face, s)
	dc.SetFontFace(face)
	dc.SetColor(c)
	dc.DrawString(s, float64(x-box.minX), float64(y-box.minY))
	return box
}

// alignX positions a w-wide element inside a column span.
func alignX(align Align, colX, colW, w, inset int) int {
	switch align {
	case AlignCenter:
		return colX + (colW-w)/2
	case AlignRight:
		return colX + colW - w - inset
	default:
		return colX + inset
	}
}

// renderTextImage draws s onto a transparent canvas sized to its ink box.
func renderTextImage(face font.Face, s string, c color.Color) *image.RGBA {
	box := measure(face, s)
	w, h := box.w, box.h
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dc := gg.NewContext(w, h)
	drawText(dc, face, s, 0, 0, c)
	return dc.Image().(*image.RGBA)
}
