package render

import (
	"context"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/riskibarqy/ssl-bot/internal/domain/league"
)

// fillGradient paints a vertical gradient from the tier accent at the top to
// the gradient end color at the bottom over the whole canvas.
func (r *Renderer) fillGradient(dc *gg.Context, tier league.Tier) {
	w, h := float64(dc.Width()), float64(dc.Height())

	dc.SetColor(r.theme.Palette.Background.NRGBA())
	dc.Clear()

	grad := gg.NewLinearGradient(0, 0, 0, h)
	grad.AddColorStop(0, r.theme.Accent(tier))
	grad.AddColorStop(1, r.theme.Palette.GradientEnd.NRGBA())
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, w, h)
	dc.Fill()
}

// trophyPanel describes where the trophy and its side label go.
type trophyPanel struct {
	origin     image.Point
	tier       league.Tier
	sources    []string
	showLabel  bool
	labelTop   int
	labelFloor int
}

// drawTrophyPanel pastes the scaled trophy with a blurred drop shadow and,
// above it, the rotated tier label fitted to the free height. A trophy that
// cannot be loaded skips the whole panel.
func (r *Renderer) drawTrophyPanel(ctx context.Context, dc *gg.Context, p trophyPanel) error {
	tl := r.theme.Trophy
	src := r.decoration(ctx, AssetTrophy, image.Point{}, p.sources...)
	if src == nil {
		return nil
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil
	}
	scale := min(float64(tl.Width)/float64(b.Dx()), float64(tl.Height)/float64(b.Dy()))
	w, h := int(float64(b.Dx())*scale), int(float64(b.Dy())*scale)
	if w < 1 || h < 1 {
		return nil
	}
	trophy := imaging.Resize(src, w, h, imaging.Lanczos)

	x := p.origin.X + (tl.Width-w)/2
	y := p.origin.Y + (tl.Height-h)/2

	dc.DrawImage(r.trophyShadow(trophy), x+tl.ShadowOffset, y+tl.ShadowOffset)
	dc.DrawImage(trophy, x, y)

	if !p.showLabel {
		return nil
	}

	sl := r.theme.SideLabel
	bottom := y - sl.BottomGap
	available := max(sl.MinAvailable, bottom-p.labelTop)

	glyph, err := FitRotatedLabel(r.fonts, p.tier.SideLabel(), available, FitOptions{
		MinSize:      sl.MinSize,
		MaxSize:      sl.MaxSize,
		FallbackSize: sl.FallbackSize,
		Color:        r.theme.SideLabelColor(p.tier),
	})
	if err != nil {
		return err
	}
	at := PlaceSideLabel(p.origin.X, tl.Width, bottom, p.labelFloor, glyph)
	dc.DrawImage(glyph.Image, at.X, at.Y)
	return nil
}

// trophyShadow is the trophy silhouette in translucent black, blurred.
func (r *Renderer) trophyShadow(trophy image.Image) *image.NRGBA {
	alpha := uint32(r.theme.Trophy.ShadowAlpha)
	silhouette := imaging.AdjustFunc(trophy, func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{A: uint8(uint32(c.A) * alpha / 255)}
	})
	if r.theme.Trophy.ShadowBlur <= 0 {
		return silhouette
	}
	return imaging.Blur(silhouette, r.theme.Trophy.ShadowBlur)
}
