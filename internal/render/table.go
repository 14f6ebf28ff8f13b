package render

import (
	"context"
	"image"
	"strconv"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/riskibarqy/ssl-bot/internal/domain/league"
	"github.com/riskibarqy/ssl-bot/internal/domain/standing"
)

// RenderContext configures one table render.
type RenderContext struct {
	// Competition is the display name, e.g. "Majors Division 1".
	Competition string
	Tier        league.Tier
	Season      int
	Division    standing.Division

	// Bare tables are sub-images for a composite page: no background, no trophy.
	Bare          bool
	ShowTrophy    bool
	ShowSideLabel bool
	ShowHeader    bool
}

// NewRenderContext derives tier and division from the competition name and
// enables the trophy panel and side label.
func NewRenderContext(competition string, season int) RenderContext {
	return RenderContext{
		Competition:   competition,
		Tier:          league.TierFromName(competition),
		Season:        season,
		Division:      divisionFromName(competition),
		ShowTrophy:    true,
		ShowSideLabel: true,
	}
}

// BareContext is the sub-table variant used by RenderTwoDivisionPage.
func BareContext(competition string, season int) RenderContext {
	rc := NewRenderContext(competition, season)
	rc.Bare = true
	rc.ShowTrophy = false
	rc.ShowSideLabel = false
	return rc
}

func divisionFromName(name string) standing.Division {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "division 1"):
		return standing.DivisionOne
	case strings.Contains(lower, "division 2"):
		return standing.DivisionTwo
	default:
		return standing.DivisionAll
	}
}

// TableSize reports the canvas a table of n rows renders to.
func (r *Renderer) TableSize(n int, bare bool) image.Point {
	tl := r.theme.Table
	return image.Pt(tl.CanvasWidth(bare), tl.CanvasHeight(n))
}

// RenderTable draws rows in the given order; rank is the 1-based position.
func (r *Renderer) RenderTable(ctx context.Context, rows []standing.Row, rc RenderContext) (img image.Image, err error) {
	defer r.guard(ctx, "table", &img, &err)

	faces := newFaceSet(r.fonts)
	defer faces.Close()

	return r.renderTable(ctx, faces, rows, rc)
}

func (r *Renderer) renderTable(ctx context.Context, faces *faceSet, rows []standing.Row, rc RenderContext) (image.Image, error) {
	tl := r.theme.Table
	size := r.TableSize(len(rows), rc.Bare)
	tableWidth := tl.TableWidth()
	tableHeight := tl.TableHeight(len(rows))

	dc := gg.NewContext(size.X, size.Y)
	switch bg := r.theme.Palette.BareBackground; {
	case !rc.Bare:
		r.fillGradient(dc, rc.Tier)
	case bg.A > 0:
		dc.SetColor(bg.NRGBA())
		dc.Clear()
	}

	if rc.ShowTrophy && !rc.Bare {
		sources := []string{
			r.resolver.LeagueLogo(rc.Competition, rc.Division),
			r.resolver.Trophy(rc.Tier),
		}
		err := r.drawTrophyPanel(ctx, dc, trophyPanel{
			origin:     image.Pt(tableWidth+r.theme.Trophy.OffsetX, tableHeight-r.theme.Trophy.BottomOffset),
			tier:       rc.Tier,
			sources:    sources,
			showLabel:  rc.ShowSideLabel,
			labelTop:   r.theme.SideLabel.TopLimit,
			labelFloor: r.theme.SideLabel.MinTop,
		})
		if err != nil {
			return nil, err
		}
	}

	if rc.ShowHeader {
		if err := r.drawTitle(ctx, dc, faces, rc); err != nil {
			return nil, err
		}
	}

	headerFace, err := faces.get(r.theme.Fonts.Header)
	if err != nil {
		return nil, err
	}
	rowFace, err := faces.get(r.theme.Fonts.Row)
	if err != nil {
		return nil, err
	}

	text := r.theme.Palette.Text.NRGBA()
	headerY := tl.HeaderTop

	dc.SetColor(r.theme.Palette.HeaderBackground.NRGBA())
	dc.DrawRectangle(float64(tl.Padding), float64(headerY), float64(tableWidth), float64(tl.RowHeight))
	dc.Fill()

	x := tl.Padding
	for _, col := range tl.Columns {
		box := measure(headerFace, col.Label)
		drawText(dc, headerFace, col.Label, alignX(col.Align, x, col.Width, box.w, tl.CellInset), headerY+(tl.RowHeight-box.h)/2, text)
		x += col.Width
	}

	y := headerY + tl.RowHeight
	for i, row := range rows {
		rank := i + 1
		style := r.theme.RowStyle(Classify(rank, len(rows), rc.Division, rc.Season), rank, rc.Tier)

		dc.SetColor(style.Fill)
		dc.DrawRectangle(float64(tl.Padding), float64(y), float64(tableWidth), float64(tl.RowHeight))
		dc.Fill()

		x = tl.Padding
		for _, col := range tl.Columns {
			switch col.Key {
			case ColumnTeam:
				r.drawTeamCell(ctx, dc, rowFace, row.Team, x, y)
			default:
				value := cellValue(col.Key, rank, row)
				box := measure(rowFace, value)
				inset := tl.StatInset
				if col.Key == ColumnRank {
					inset = tl.CellInset
				}
				drawText(dc, rowFace, value, alignX(col.Align, x, col.Width, box.w, inset), y+(tl.RowHeight-box.h)/2, text)
			}
			x += col.Width
		}
		y += tl.RowHeight
	}

	dividerY := float64(headerY + tl.RowHeight)
	dc.SetColor(r.theme.Accent(rc.Tier))
	dc.SetLineWidth(tl.DividerWidth)
	dc.DrawLine(float64(tl.Padding), dividerY, float64(tableWidth+tl.Padding), dividerY)
	dc.Stroke()

	return dc.Image(), nil
}

// drawTeamCell pastes the team logo, when one can be loaded, followed by the
// name. The name position does not depend on whether the logo was drawn.
func (r *Renderer) drawTeamCell(ctx context.Context, dc *gg.Context, face font.Face, team string, x, y int) {
	tl := r.theme.Table
	logoSize := image.Pt(tl.LogoSize, tl.LogoSize)
	logo := r.decoration(ctx, AssetTeamLogo, logoSize, r.resolver.TeamLogo(team), r.resolver.DefaultLogo())
	if logo != nil {
		dc.DrawImage(logo, x+tl.CellInset, y+(tl.RowHeight-tl.LogoSize)/2)
	}

	box := measure(face, team)
	drawText(dc, face, team, x+tl.LogoSize+2*tl.CellInset, y+(tl.RowHeight-box.h)/2, r.theme.Palette.Text.NRGBA())
}

// drawTitle writes the competition title and badge into the header zone.
func (r *Renderer) drawTitle(ctx context.Context, dc *gg.Context, faces *faceSet, rc RenderContext) error {
	tl := r.theme.Table
	titleFace, err := faces.get(r.theme.Fonts.Title)
	if err != nil {
		return err
	}

	x := tl.Padding + tl.CellInset
	badgeSize := tl.HeaderTop - tl.CellInset
	if badge := r.decoration(ctx, AssetLeagueLogo, image.Pt(badgeSize, badgeSize), r.resolver.LeagueLogo(rc.Competition, rc.Division), r.resolver.TierLogo(rc.Tier)); badge != nil {
		dc.DrawImage(badge, x, (tl.HeaderTop-badgeSize)/2)
		x += badgeSize + tl.CellInset
	}

	title := rc.Competition
	if rc.Season > 0 {
		title += " S" + strconv.Itoa(rc.Season)
	}
	box := measure(titleFace, title)
	drawText(dc, titleFace, title, x, (tl.HeaderTop-box.h)/2, r.theme.Palette.Text.NRGBA())
	return nil
}

func cellValue(key string, rank int, row standing.Row) string {
	switch key {
	case ColumnRank:
		return strconv.Itoa(rank)
	case ColumnTeam:
		return row.Team
	case ColumnPlayed:
		return strconv.Itoa(row.MatchesPlayed)
	case ColumnWins:
		return strconv.Itoa(row.Wins)
	case ColumnDraws:
		return strconv.Itoa(row.Draws)
	case ColumnLosses:
		return strconv.Itoa(row.Losses)
	case ColumnFor:
		return strconv.Itoa(row.GoalsFor)
	case ColumnAgainst:
		return strconv.Itoa(row.GoalsAgainst)
	case ColumnDiff:
		return strconv.Itoa(row.GoalDifference)
	case ColumnPoints:
		return strconv.Itoa(row.Points)
	default:
		return ""
	}
}
