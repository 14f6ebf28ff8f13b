package render

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/riskibarqy/ssl-bot/internal/domain/league"
)

// HexColor is a color that round-trips through "#RRGGBB" or "#RRGGBBAA" text.
type HexColor color.NRGBA

func (c HexColor) NRGBA() color.NRGBA {
	return color.NRGBA(c)
}

func (c HexColor) MarshalText() ([]byte, error) {
	if c.A == 255 {
		return []byte(fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)), nil
	}
	return []byte(fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)), nil
}

func (c *HexColor) UnmarshalText(text []byte) error {
	parsed, err := ParseHexColor(string(text))
	if err != nil {
		return err
	}
	*c = HexColor(parsed)
	return nil
}

// ParseHexColor parses "#RRGGBB" (opaque) or "#RRGGBBAA".
func ParseHexColor(hex string) (color.NRGBA, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(raw) != 6 && len(raw) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: must be 6 or 8 hex digits", hex)
	}
	v, err := strconv.ParseUint(raw, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", hex, err)
	}
	if len(raw) == 6 {
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Column keys understood by the table renderer.
const (
	ColumnRank    = "rank"
	ColumnTeam    = "team"
	ColumnPlayed  = "mp"
	ColumnWins    = "w"
	ColumnDraws   = "d"
	ColumnLosses  = "l"
	ColumnFor     = "gf"
	ColumnAgainst = "ga"
	ColumnDiff    = "gd"
	ColumnPoints  = "p"
)

type Column struct {
	Key   string `toml:"key"`
	Label string `toml:"label"`
	Width int    `toml:"width"`
	Align Align  `toml:"align"`
}

type Palette struct {
	MajorAccent      HexColor `toml:"major_accent"`
	MinorAccent      HexColor `toml:"minor_accent"`
	Background       HexColor `toml:"background"`
	GradientEnd      HexColor `toml:"gradient_end"`
	HeaderBackground HexColor `toml:"header_background"`
	RowEven          HexColor `toml:"row_even"`
	RowOdd           HexColor `toml:"row_odd"`
	Promotion        HexColor `toml:"promotion"`
	Playoff          HexColor `toml:"playoff"`
	Relegation       HexColor `toml:"relegation"`
	Text             HexColor `toml:"text"`
	LeaderShade      float64  `toml:"leader_shade"`
	LeaderAlpha      uint8    `toml:"leader_alpha"`
	SideLabelShade   float64  `toml:"side_label_shade"`
	SideLabelAlpha   uint8    `toml:"side_label_alpha"`
	// BareBackground fills bare tables before rows are drawn. The zero value
	// keeps them transparent so a composite page gradient shows through.
	BareBackground HexColor `toml:"bare_background"`
}

type FontSizes struct {
	Title    float64 `toml:"title"`
	Header   float64 `toml:"header"`
	Row      float64 `toml:"row"`
	Division float64 `toml:"division"`
}

type TableLayout struct {
	LogoSize     int      `toml:"logo_size"`
	RowHeight    int      `toml:"row_height"`
	Padding      int      `toml:"padding"`
	HeaderTop    int      `toml:"header_top"`
	HeaderZone   int      `toml:"header_zone"`
	BottomMargin int      `toml:"bottom_margin"`
	PanelWidth   int      `toml:"panel_width"`
	CellInset    int      `toml:"cell_inset"`
	StatInset    int      `toml:"stat_inset"`
	DividerWidth float64  `toml:"divider_width"`
	Columns      []Column `toml:"columns"`
}

type TrophyLayout struct {
	OffsetX      int     `toml:"offset_x"`
	BottomOffset int     `toml:"bottom_offset"`
	Width        int     `toml:"width"`
	Height       int     `toml:"height"`
	ShadowAlpha  uint8   `toml:"shadow_alpha"`
	ShadowBlur   float64 `toml:"shadow_blur"`
	ShadowOffset int     `toml:"shadow_offset"`
}

type SideLabelLayout struct {
	MinSize      int `toml:"min_size"`
	MaxSize      int `toml:"max_size"`
	FallbackSize int `toml:"fallback_size"`
	TopLimit     int `toml:"top_limit"`
	BottomGap    int `toml:"bottom_gap"`
	MinAvailable int `toml:"min_available"`
	MinTop       int `toml:"min_top"`
}

type CompositeLayout struct {
	HeaderHeight int `toml:"header_height"`
	LeftMargin   int `toml:"left_margin"`
	LabelGap     int `toml:"label_gap"`
	TableGap     int `toml:"table_gap"`
	BottomMargin int `toml:"bottom_margin"`
}

type LeadersLayout struct {
	Width        int      `toml:"width"`
	HeaderHeight int      `toml:"header_height"`
	RowHeight    int      `toml:"row_height"`
	BottomMargin int      `toml:"bottom_margin"`
	Limit        int      `toml:"limit"`
	TitleSize    float64  `toml:"title_size"`
	RowSize      float64  `toml:"row_size"`
	Background   HexColor `toml:"background"`
	Title        HexColor `toml:"title"`
	Text         HexColor `toml:"text"`
}

type WelcomeLayout struct {
	Width        int      `toml:"width"`
	Height       int      `toml:"height"`
	AvatarSize   int      `toml:"avatar_size"`
	AvatarX      int      `toml:"avatar_x"`
	AvatarY      int      `toml:"avatar_y"`
	RingWidth    float64  `toml:"ring_width"`
	TitleSize    float64  `toml:"title_size"`
	TitleY       int      `toml:"title_y"`
	SubtitleSize float64  `toml:"subtitle_size"`
	SubtitleY    int      `toml:"subtitle_y"`
	Ring         HexColor `toml:"ring"`
	Text         HexColor `toml:"text"`
	Fallback     HexColor `toml:"fallback"`
}

// Theme holds every color, font size and layout constant the renderers use.
type Theme struct {
	Palette   Palette         `toml:"palette"`
	Fonts     FontSizes       `toml:"fonts"`
	Table     TableLayout     `toml:"table"`
	Trophy    TrophyLayout    `toml:"trophy"`
	SideLabel SideLabelLayout `toml:"side_label"`
	Composite CompositeLayout `toml:"composite"`
	Leaders   LeadersLayout   `toml:"leaders"`
	Welcome   WelcomeLayout   `toml:"welcome"`
}

func DefaultTheme() Theme {
	return Theme{
		Palette: Palette{
			MajorAccent:      HexColor{R: 218, G: 185, B: 45, A: 255},
			MinorAccent:      HexColor{R: 176, G: 40, B: 49, A: 255},
			Background:       HexColor{R: 30, G: 30, B: 30, A: 255},
			GradientEnd:      HexColor{R: 46, G: 46, B: 46, A: 255},
			HeaderBackground: HexColor{R: 48, G: 48, B: 48, A: 255},
			RowEven:          HexColor{R: 38, G: 38, B: 38, A: 255},
			RowOdd:           HexColor{R: 26, G: 26, B: 26, A: 255},
			Promotion:        HexColor{R: 39, G: 174, B: 96, A: 120},
			Playoff:          HexColor{R: 41, G: 128, B: 185, A: 120},
			Relegation:       HexColor{R: 169, G: 50, B: 38, A: 120},
			Text:             HexColor{R: 255, G: 255, B: 255, A: 255},
			LeaderShade:      0.85,
			LeaderAlpha:      120,
			SideLabelShade:   0.6,
			SideLabelAlpha:   102,
		},
		Fonts: FontSizes{Title: 52, Header: 28, Row: 22, Division: 32},
		Table: TableLayout{
			LogoSize:     48,
			RowHeight:    64,
			Padding:      12,
			HeaderTop:    80,
			HeaderZone:   100,
			BottomMargin: 40,
			PanelWidth:   260,
			CellInset:    12,
			StatInset:    10,
			DividerWidth: 3,
			Columns: []Column{
				{Key: ColumnRank, Label: "#", Width: 40, Align: AlignCenter},
				{Key: ColumnTeam, Label: "Team", Width: 330, Align: AlignLeft},
				{Key: ColumnPlayed, Label: "P", Width: 50, Align: AlignCenter},
				{Key: ColumnWins, Label: "W", Width: 50, Align: AlignCenter},
				{Key: ColumnDraws, Label: "D", Width: 50, Align: AlignCenter},
				{Key: ColumnLosses, Label: "L", Width: 50, Align: AlignCenter},
				{Key: ColumnFor, Label: "GF", Width: 50, Align: AlignCenter},
				{Key: ColumnAgainst, Label: "GA", Width: 50, Align: AlignCenter},
				{Key: ColumnDiff, Label: "GD", Width: 52, Align: AlignCenter},
				{Key: ColumnPoints, Label: "Pts", Width: 54, Align: AlignCenter},
			},
		},
		Trophy: TrophyLayout{
			OffsetX:      40,
			BottomOffset: 360,
			Width:        200,
			Height:       340,
			ShadowAlpha:  180,
			ShadowBlur:   6,
			ShadowOffset: 8,
		},
		SideLabel: SideLabelLayout{
			MinSize:      16,
			MaxSize:      110,
			FallbackSize: 20,
			TopLimit:     20,
			BottomGap:    10,
			MinAvailable: 60,
			MinTop:       10,
		},
		Composite: CompositeLayout{
			HeaderHeight: 30,
			LeftMargin:   20,
			LabelGap:     10,
			TableGap:     20,
			BottomMargin: 100,
		},
		Leaders: LeadersLayout{
			Width:        600,
			HeaderHeight: 60,
			RowHeight:    50,
			BottomMargin: 40,
			Limit:        5,
			TitleSize:    32,
			RowSize:      24,
			Background:   HexColor{R: 0x07, G: 0x0B, B: 0x51, A: 255},
			Title:        HexColor{R: 0xED, G: 0x95, B: 0x23, A: 255},
			Text:         HexColor{R: 255, G: 255, B: 255, A: 255},
		},
		Welcome: WelcomeLayout{
			Width:        1920,
			Height:       1080,
			AvatarSize:   250,
			AvatarX:      835,
			AvatarY:      340,
			RingWidth:    5,
			TitleSize:    80,
			TitleY:       620,
			SubtitleSize: 40,
			SubtitleY:    740,
			Ring:         HexColor{R: 0xED, G: 0x95, B: 0x23, A: 255},
			Text:         HexColor{R: 0x07, G: 0x0B, B: 0x51, A: 255},
			Fallback:     HexColor{R: 0xF2, G: 0xF2, B: 0xF2, A: 255},
		},
	}
}

// LoadTheme overlays a TOML file on DefaultTheme. An empty path returns the defaults.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()
	if strings.TrimSpace(path) == "" {
		return theme, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("read theme %s: %w", path, err)
	}
	return DecodeTheme(string(raw))
}

// DecodeTheme overlays TOML text on DefaultTheme.
func DecodeTheme(doc string) (Theme, error) {
	theme := DefaultTheme()
	defaultColumns := theme.Table.Columns
	theme.Table.Columns = nil

	if _, err := toml.Decode(doc, &theme); err != nil {
		return Theme{}, fmt.Errorf("decode theme: %w", err)
	}
	if len(theme.Table.Columns) == 0 {
		theme.Table.Columns = defaultColumns
	}
	if err := theme.Validate(); err != nil {
		return Theme{}, err
	}
	return theme, nil
}

func (t Theme) Validate() error {
	tl := t.Table
	if tl.RowHeight <= 0 || tl.LogoSize <= 0 || tl.Padding < 0 {
		return fmt.Errorf("table row_height and logo_size must be > 0")
	}
	seen := make(map[string]bool, len(tl.Columns))
	for _, col := range tl.Columns {
		if col.Width <= 0 {
			return fmt.Errorf("column %q width must be > 0", col.Key)
		}
		switch col.Key {
		case ColumnRank, ColumnTeam, ColumnPlayed, ColumnWins, ColumnDraws, ColumnLosses,
			ColumnFor, ColumnAgainst, ColumnDiff, ColumnPoints:
		default:
			return fmt.Errorf("unknown column key %q", col.Key)
		}
		if seen[col.Key] {
			return fmt.Errorf("duplicate column key %q", col.Key)
		}
		seen[col.Key] = true
	}
	if t.SideLabel.MinSize <= 0 || t.SideLabel.MaxSize < t.SideLabel.MinSize {
		return fmt.Errorf("side_label sizes must satisfy 0 < min_size <= max_size")
	}
	if t.Fonts.Row <= 0 || t.Fonts.Header <= 0 || t.Fonts.Division <= 0 {
		return fmt.Errorf("font sizes must be > 0")
	}
	if t.Leaders.Limit <= 0 || t.Leaders.Width <= 0 || t.Leaders.RowHeight <= 0 {
		return fmt.Errorf("leaders limit, width and row_height must be > 0")
	}
	if t.Welcome.Width <= 0 || t.Welcome.Height <= 0 || t.Welcome.AvatarSize <= 0 {
		return fmt.Errorf("welcome width, height and avatar_size must be > 0")
	}
	return nil
}

// Accent is the tier's signature color.
func (t Theme) Accent(tier league.Tier) color.NRGBA {
	if tier == league.TierMajor {
		return t.Palette.MajorAccent.NRGBA()
	}
	return t.Palette.MinorAccent.NRGBA()
}

// LeaderTint is the accent darkened for the first-place row.
func (t Theme) LeaderTint(tier league.Tier) color.NRGBA {
	return shade(t.Accent(tier), t.Palette.LeaderShade, t.Palette.LeaderAlpha)
}

// SideLabelColor is the translucent darker accent used for the rotated watermark.
func (t Theme) SideLabelColor(tier league.Tier) color.NRGBA {
	return shade(t.Accent(tier), t.Palette.SideLabelShade, t.Palette.SideLabelAlpha)
}

func shade(c color.NRGBA, factor float64, alpha uint8) color.NRGBA {
	scale := func(v uint8) uint8 {
		out := int(float64(v) * factor)
		if out < 0 {
			return 0
		}
		if out > 255 {
			return 255
		}
		return uint8(out)
	}
	return color.NRGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: alpha}
}

// TableWidth is the sum of column widths plus padding on both sides.
func (tl TableLayout) TableWidth() int {
	total := 0
	for _, col := range tl.Columns {
		total += col.Width
	}
	return total + tl.Padding*2
}

// TableHeight covers the header zone, the column header row and n data rows.
func (tl TableLayout) TableHeight(n int) int {
	if n < 0 {
		n = 0
	}
	return tl.HeaderZone + tl.RowHeight*(n+1) + tl.Padding*2
}

func (tl TableLayout) CanvasHeight(n int) int {
	return tl.TableHeight(n) + tl.BottomMargin
}

func (tl TableLayout) CanvasWidth(bare bool) int {
	if bare {
		return tl.TableWidth()
	}
	return tl.TableWidth() + tl.PanelWidth
}
