package render

import (
	"context"
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/ssl-bot/internal/domain/league"
	"github.com/riskibarqy/ssl-bot/internal/domain/standing"
)

// PageSize reports the composite canvas for sub-tables of n1 and n2 rows.
func (r *Renderer) PageSize(n1, n2 int) image.Point {
	tl, cl := r.theme.Table, r.theme.Composite
	return image.Pt(
		tl.CanvasWidth(false),
		cl.HeaderHeight+tl.CanvasHeight(n1)+tl.CanvasHeight(n2)+cl.BottomMargin,
	)
}

// RenderTwoDivisionPage stacks bare Division 1 and Division 2 tables under
// their labels and draws one shared background, trophy and side label.
func (r *Renderer) RenderTwoDivisionPage(ctx context.Context, div1, div2 []standing.Row, competition string, season int) (img image.Image, err error) {
	defer r.guard(ctx, "two_division_page", &img, &err)

	tables := make([]image.Image, 2)
	p := pool.New().WithErrors().WithContext(ctx)
	for i, rows := range [][]standing.Row{div1, div2} {
		rc := BareContext(fmt.Sprintf("%s Division %d", competition, i+1), season)
		p.Go(func(ctx context.Context) error {
			table, err := r.RenderTable(ctx, rows, rc)
			if err != nil {
				return fmt.Errorf("division %d table: %w", i+1, err)
			}
			tables[i] = table
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, err
	}

	faces := newFaceSet(r.fonts)
	defer faces.Close()

	return r.composePage(ctx, faces, tables[0], tables[1], league.TierFromName(competition))
}

func (r *Renderer) composePage(ctx context.Context, faces *faceSet, top, bottom image.Image, tier league.Tier) (image.Image, error) {
	tl, cl := r.theme.Table, r.theme.Composite
	tableWidth := tl.TableWidth()
	h1, h2 := top.Bounds().Dy(), bottom.Bounds().Dy()

	dc := gg.NewContext(tl.CanvasWidth(false), cl.HeaderHeight+h1+h2+cl.BottomMargin)
	r.fillGradient(dc, tier)

	labelFace, err := faces.get(r.theme.Fonts.Division)
	if err != nil {
		return nil, err
	}
	text := r.theme.Palette.Text.NRGBA()

	y := cl.HeaderHeight
	for i, table := range []image.Image{top, bottom} {
		label := fmt.Sprintf("Division %d", i+1)
		box := measure(labelFace, label)
		drawText(dc, labelFace, label, cl.LeftMargin+(tableWidth-box.w)/2, y, text)

		tableY := y + box.h + cl.LabelGap
		dc.DrawImage(table, cl.LeftMargin, tableY)
		y = tableY + table.Bounds().Dy() + cl.TableGap
	}

	labelTop := r.theme.SideLabel.TopLimit + cl.HeaderHeight
	err = r.drawTrophyPanel(ctx, dc, trophyPanel{
		origin:     image.Pt(tableWidth+r.theme.Trophy.OffsetX, cl.HeaderHeight+h1+h2-r.theme.Trophy.BottomOffset),
		tier:       tier,
		sources:    []string{r.resolver.TierLogo(tier), r.resolver.Trophy(tier)},
		showLabel:  true,
		labelTop:   labelTop,
		labelFloor: labelTop,
	})
	if err != nil {
		return nil, err
	}

	return dc.Image(), nil
}
