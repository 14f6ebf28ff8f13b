package usecase

import (
	"context"
	"fmt"
	"image"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/ssl-bot/internal/domain/league"
	"github.com/riskibarqy/ssl-bot/internal/domain/standing"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/render"
)

const (
	StandingsFilename = "standings.png"

	noticeDivisionsIntroduced = "Divisions were introduced in Season 24.\nShowing the full table instead."
)

type StandingsSource interface {
	FetchStandings(ctx context.Context, season, leagueID int) ([]standing.Row, error)
}

type StandingsRenderer interface {
	RenderTable(ctx context.Context, rows []standing.Row, rc render.RenderContext) (image.Image, error)
	RenderTwoDivisionPage(ctx context.Context, div1, div2 []standing.Row, competition string, season int) (image.Image, error)
}

type StandingsQuery struct {
	League string
	// Season zero means the current season.
	Season   int
	Division string
	// ShowHeader draws the competition title above single tables.
	ShowHeader bool
}

type StandingsImage struct {
	PNG      []byte
	Title    string
	Filename string
	// Notices are informational messages for the requester, e.g. a division
	// selector that was ignored.
	Notices []string
}

type StandingsService struct {
	source        StandingsSource
	renderer      StandingsRenderer
	pool          *RenderPool
	currentSeason int
	logger        *logging.Logger
}

func NewStandingsService(source StandingsSource, renderer StandingsRenderer, pool *RenderPool, currentSeason int, logger *logging.Logger) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		source:        source,
		renderer:      renderer,
		pool:          pool,
		currentSeason: currentSeason,
		logger:        logger,
	}
}

func (s *StandingsService) CurrentSeason() int {
	return s.currentSeason
}

// Render fetches a league table and draws it. Seasons with divisions render
// both divisions on one page unless a single division is selected.
func (s *StandingsService) Render(ctx context.Context, query StandingsQuery) (out StandingsImage, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Render",
		attribute.String("league", query.League),
		attribute.Int("season", query.Season),
		attribute.String("division", query.Division),
	)
	defer func() { endSpan(span, err) }()

	lg, ok := league.Lookup(query.League)
	if !ok || !lg.HasStandings() {
		return StandingsImage{}, publicError(ErrInvalidInput, "Standings are only available for Majors and Minors leagues.")
	}

	season := query.Season
	if season == 0 {
		season = s.currentSeason
	}
	if season < 0 {
		return StandingsImage{}, publicError(ErrInvalidInput, "Season must be a positive number.")
	}

	var notices []string
	hasDivisions := league.HasDivisions(season)
	rawDivision := strings.TrimSpace(query.Division)
	if !hasDivisions && rawDivision != "" && !strings.EqualFold(rawDivision, "all") {
		notices = append(notices, noticeDivisionsIntroduced)
		rawDivision = "all"
	}
	division, ok := standing.ParseDivision(rawDivision)
	if !ok {
		return StandingsImage{}, publicError(ErrInvalidInput, "Invalid division option. Use 1, 2, or All.")
	}

	rows, err := s.source.FetchStandings(ctx, season, lg.ID)
	if err != nil {
		return StandingsImage{}, fmt.Errorf("fetch standings: %w", err)
	}
	rows = standing.SortByRanking(rows)
	if len(rows) == 0 {
		return StandingsImage{}, publicError(ErrNotFound, fmt.Sprintf("No standings data found for %s Season %d.", lg.Name, season))
	}

	competition := lg.Name
	if hasDivisions && division != standing.DivisionAll {
		competition = fmt.Sprintf("%s Division %s", lg.Name, division)
	}

	var img image.Image
	renderErr := s.pool.Do(ctx, func(ctx context.Context) error {
		var err error
		if hasDivisions && division == standing.DivisionAll {
			split := standing.SplitByDivision(rows)
			img, err = s.renderer.RenderTwoDivisionPage(ctx, split.DivisionOne, split.DivisionTwo, lg.Name, season)
			return err
		}

		tableRows := rows
		if hasDivisions {
			split := standing.SplitByDivision(rows)
			if division == standing.DivisionOne {
				tableRows = split.DivisionOne
			} else {
				tableRows = split.DivisionTwo
			}
		}
		rc := render.NewRenderContext(competition, season)
		rc.ShowHeader = query.ShowHeader
		rc.ShowSideLabel = !(hasDivisions && division != standing.DivisionAll)
		img, err = s.renderer.RenderTable(ctx, tableRows, rc)
		return err
	})
	if renderErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return StandingsImage{}, ctxErr
		}
		s.logger.ErrorContext(ctx, "render standings failed", "league", lg.Key, "season", season, "error", renderErr)
		return StandingsImage{}, publicError(ErrRenderFailed, "Failed to generate standings image.")
	}

	png, err := render.EncodePNG(img)
	if err != nil {
		s.logger.ErrorContext(ctx, "encode standings failed", "league", lg.Key, "season", season, "error", err)
		return StandingsImage{}, publicError(ErrRenderFailed, "Failed to generate standings image.")
	}

	return StandingsImage{
		PNG:      png,
		Title:    fmt.Sprintf("%s Standings - Season %d", competition, season),
		Filename: StandingsFilename,
		Notices:  notices,
	}, nil
}
