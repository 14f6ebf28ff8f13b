package render

import (
	"context"
	"image"
	"strconv"

	"github.com/fogleman/gg"

	"github.com/riskibarqy/ssl-bot/internal/domain/leader"
)

var leaderColumns = []struct {
	label string
	x     int
}{
	{"TPE", 40},
	{"PLAYER", 140},
	{"USER", 360},
}

// LeadersSize reports the sheet size for n players.
func (r *Renderer) LeadersSize(n int) image.Point {
	ll := r.theme.Leaders
	return image.Pt(ll.Width, ll.HeaderHeight+n*ll.RowHeight+ll.BottomMargin)
}

// RenderLeaders draws the "<label> Class Leaders" sheet for the top players by TPE.
func (r *Renderer) RenderLeaders(ctx context.Context, label string, rows []leader.Row) (img image.Image, err error) {
	defer r.guard(ctx, "leaders", &img, &err)

	ll := r.theme.Leaders
	rows = leader.Top(rows, ll.Limit)

	faces := newFaceSet(r.fonts)
	defer faces.Close()
	titleFace, err := faces.get(ll.TitleSize)
	if err != nil {
		return nil, err
	}
	rowFace, err := faces.get(ll.RowSize)
	if err != nil {
		return nil, err
	}

	size := r.LeadersSize(len(rows))
	dc := gg.NewContext(size.X, size.Y)
	dc.SetColor(ll.Background.NRGBA())
	dc.Clear()
	dc.DrawRectangle(0, 0, float64(size.X), float64(ll.HeaderHeight))
	dc.Fill()

	title := label + " Class Leaders"
	box := measure(titleFace, title)
	drawText(dc, titleFace, title, (size.X-box.w)/2, 20-box.h/2, ll.Title.NRGBA())

	text := ll.Text.NRGBA()
	labelY := ll.HeaderHeight + 10
	for _, col := range leaderColumns {
		drawText(dc, rowFace, col.label, col.x, labelY, text)
	}

	lineY := float64(ll.HeaderHeight + 40)
	dc.SetColor(ll.Background.NRGBA())
	dc.SetLineWidth(3)
	dc.DrawLine(30, lineY, float64(size.X-30), lineY)
	dc.Stroke()

	y := ll.HeaderHeight + 50
	for _, row := range rows {
		values := []string{strconv.Itoa(row.TPE), row.Name, row.Username}
		for i, col := range leaderColumns {
			drawText(dc, rowFace, values[i], col.x, y, text)
		}
		y += ll.RowHeight
	}

	return dc.Image(), nil
}
