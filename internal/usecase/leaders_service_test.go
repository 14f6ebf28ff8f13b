package usecase

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/riskibarqy/ssl-bot/internal/domain/leader"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
)

type draftClassStub struct {
	rows  []leader.Row
	class *int
}

func (s *draftClassStub) FetchDraftClass(_ context.Context, class *int) ([]leader.Row, error) {
	s.class = class
	return s.rows, nil
}

type leadersRendererStub struct {
	label string
	rows  []leader.Row
}

func (r *leadersRendererStub) RenderLeaders(_ context.Context, label string, rows []leader.Row) (image.Image, error) {
	r.label = label
	r.rows = rows
	return image.NewNRGBA(image.Rect(0, 0, 2, 2)), nil
}

func TestLeadersService_Render(t *testing.T) {
	t.Parallel()

	source := &draftClassStub{rows: []leader.Row{{TPE: 300, Name: "A"}, {TPE: 500, Name: "B"}}}
	renderer := &leadersRendererStub{}
	service := NewLeadersService(source, renderer, newTestPool(t), logging.NewNop())

	class := 12
	out, err := service.Render(context.Background(), &class)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if source.class == nil || *source.class != 12 {
		t.Fatalf("expected class 12 to be requested")
	}
	if renderer.label != "S12" {
		t.Fatalf("unexpected label %q", renderer.label)
	}
	if out.Title != "S12 Class Leaders" || out.Filename != LeadersFilename || len(out.PNG) == 0 {
		t.Fatalf("unexpected output: title=%q file=%q", out.Title, out.Filename)
	}
}

func TestLeadersService_Render_AcademyAndEmpty(t *testing.T) {
	t.Parallel()

	renderer := &leadersRendererStub{}
	service := NewLeadersService(&draftClassStub{}, renderer, newTestPool(t), logging.NewNop())

	_, err := service.Render(context.Background(), nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got := PublicMessage(err, ""); got != "No players found for the Academy class." {
		t.Fatalf("unexpected public message %q", got)
	}

	zero := 0
	if _, err := service.Render(context.Background(), &zero); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
