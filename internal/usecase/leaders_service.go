package usecase

import (
	"context"
	"fmt"
	"image"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/ssl-bot/internal/domain/leader"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/render"
)

const LeadersFilename = "classleaders.png"

type DraftClassSource interface {
	FetchDraftClass(ctx context.Context, class *int) ([]leader.Row, error)
}

type LeadersRenderer interface {
	RenderLeaders(ctx context.Context, label string, rows []leader.Row) (image.Image, error)
}

type LeadersImage struct {
	PNG      []byte
	Title    string
	Filename string
}

type LeadersService struct {
	source   DraftClassSource
	renderer LeadersRenderer
	pool     *RenderPool
	logger   *logging.Logger
}

func NewLeadersService(source DraftClassSource, renderer LeadersRenderer, pool *RenderPool, logger *logging.Logger) *LeadersService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadersService{
		source:   source,
		renderer: renderer,
		pool:     pool,
		logger:   logger,
	}
}

// Render draws the TPE leaders of a draft class. A nil class is the academy.
func (s *LeadersService) Render(ctx context.Context, class *int) (out LeadersImage, err error) {
	label := leader.ClassLabel(class)
	ctx, span := startUsecaseSpan(ctx, "usecase.LeadersService.Render", attribute.String("class", label))
	defer func() { endSpan(span, err) }()

	if class != nil && *class <= 0 {
		return LeadersImage{}, publicError(ErrInvalidInput, "Draft class must be a positive number.")
	}

	rows, err := s.source.FetchDraftClass(ctx, class)
	if err != nil {
		return LeadersImage{}, fmt.Errorf("fetch draft class: %w", err)
	}
	if len(rows) == 0 {
		return LeadersImage{}, publicError(ErrNotFound, fmt.Sprintf("No players found for the %s class.", label))
	}

	var img image.Image
	renderErr := s.pool.Do(ctx, func(ctx context.Context) error {
		var err error
		img, err = s.renderer.RenderLeaders(ctx, label, rows)
		return err
	})
	if renderErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return LeadersImage{}, ctxErr
		}
		s.logger.ErrorContext(ctx, "render class leaders failed", "class", label, "error", renderErr)
		return LeadersImage{}, publicError(ErrRenderFailed, "Failed to generate class leaders image.")
	}

	png, err := render.EncodePNG(img)
	if err != nil {
		s.logger.ErrorContext(ctx, "encode class leaders failed", "class", label, "error", err)
		return LeadersImage{}, publicError(ErrRenderFailed, "Failed to generate class leaders image.")
	}

	return LeadersImage{
		PNG:      png,
		Title:    label + " Class Leaders",
		Filename: LeadersFilename,
	}, nil
}
