package render

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

type BannerInput struct {
	GuildName   string
	MemberName  string
	MemberCount int
	// Avatar is optional; the ring is drawn either way.
	Avatar image.Image
	// Background overrides the random pick from the welcome images folder.
	Background string
}

// RenderWelcomeBanner draws the join greeting: background, circular avatar
// with a ring, and two centered lines of text.
func (r *Renderer) RenderWelcomeBanner(ctx context.Context, in BannerInput) (img image.Image, err error) {
	defer r.guard(ctx, "welcome_banner", &img, &err)

	wl := r.theme.Welcome
	faces := newFaceSet(r.fonts)
	defer faces.Close()
	titleFace, err := faces.get(wl.TitleSize)
	if err != nil {
		return nil, err
	}
	subtitleFace, err := faces.get(wl.SubtitleSize)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(wl.Width, wl.Height)
	dc.SetColor(wl.Fallback.NRGBA())
	dc.Clear()
	if bg := r.decoration(ctx, AssetBackground, image.Pt(wl.Width, wl.Height), r.backgroundCandidates(ctx, in.Background)...); bg != nil {
		dc.DrawImage(bg, 0, 0)
	}

	radius := float64(wl.AvatarSize) / 2
	cx, cy := float64(wl.AvatarX)+radius, float64(wl.AvatarY)+radius
	if in.Avatar != nil {
		avatar := imaging.Fill(in.Avatar, wl.AvatarSize, wl.AvatarSize, imaging.Center, imaging.Lanczos)
		dc.DrawCircle(cx, cy, radius)
		dc.Clip()
		dc.DrawImage(avatar, wl.AvatarX, wl.AvatarY)
		dc.ResetClip()
	}
	dc.SetColor(wl.Ring.NRGBA())
	dc.SetLineWidth(wl.RingWidth)
	dc.DrawEllipse(cx, cy, radius, radius)
	dc.Stroke()

	text := wl.Text.NRGBA()
	centerX := wl.Width / 2

	title := "Welcome to " + in.GuildName
	box := measure(titleFace, title)
	drawText(dc, titleFace, title, centerX-box.w/2, wl.TitleY, text)

	subtitle := fmt.Sprintf("%s is member #%d here!", in.MemberName, in.MemberCount)
	box = measure(subtitleFace, subtitle)
	drawText(dc, subtitleFace, subtitle, centerX-box.w/2, wl.SubtitleY, text)

	return dc.Image(), nil
}

func (r *Renderer) backgroundCandidates(ctx context.Context, override string) []string {
	if override != "" {
		return []string{override}
	}
	paths, err := r.resolver.WelcomeBackgrounds()
	if err != nil {
		r.logger.DebugContext(ctx, "welcome backgrounds unavailable", "error", err)
		return nil
	}
	if len(paths) == 0 {
		return nil
	}
	first := r.pick(len(paths))
	// Start at the random pick and fall through the rest so a corrupt file
	// does not blank the banner.
	ordered := make([]string, 0, len(paths))
	ordered = append(ordered, paths[first:]...)
	return append(ordered, paths[:first]...)
}
