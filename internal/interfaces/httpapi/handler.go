package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/usecase"
)

const noticeHeader = "X-Render-Notice"

type StandingsImager interface {
	Render(ctx context.Context, query usecase.StandingsQuery) (usecase.StandingsImage, error)
}

type LeadersImager interface {
	Render(ctx context.Context, class *int) (usecase.LeadersImage, error)
}

type WelcomeManager interface {
	Status(ctx context.Context, guildID string) (welcome.Toggle, error)
	SetStatus(ctx context.Context, guildID string, enabled bool) (welcome.Toggle, error)
	Preview(ctx context.Context, join welcome.MemberJoin) (usecase.WelcomePost, error)
}

// JoinDispatcher posts the greeting for a membership event. A nil dispatcher
// disables the join route.
type JoinDispatcher interface {
	Dispatch(ctx context.Context, join welcome.MemberJoin) (bool, error)
}

type Handler struct {
	standings StandingsImager
	leaders   LeadersImager
	welcome   WelcomeManager
	joins     JoinDispatcher
	logger    *logging.Logger
	validator *validator.Validate
}

func NewHandler(
	standings StandingsImager,
	leaders LeadersImager,
	welcomeManager WelcomeManager,
	joins JoinDispatcher,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		standings: standings,
		leaders:   leaders,
		welcome:   welcomeManager,
		joins:     joins,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetStandingsImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetStandingsImage", attribute.String("league", r.PathValue("league")))
	defer span.End()

	query := r.URL.Query()
	season, err := optionalInt(query.Get("season"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: season must be a number", usecase.ErrInvalidInput))
		return
	}
	showHeader, err := optionalBool(query.Get("header"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: header must be true or false", usecase.ErrInvalidInput))
		return
	}

	leagueName := r.PathValue("league")
	img, err := h.standings.Render(ctx, usecase.StandingsQuery{
		League:     leagueName,
		Season:     valueOrZero(season),
		Division:   query.Get("division"),
		ShowHeader: showHeader,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "render standings image failed", "league", leagueName, "error", err)
		writeError(ctx, w, err)
		return
	}

	for _, notice := range img.Notices {
		w.Header().Add(noticeHeader, strings.ReplaceAll(notice, "\n", " "))
	}
	writePNG(ctx, w, img.Filename, img.PNG)
}

func (h *Handler) GetLeadersImage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeadersImage")
	defer span.End()

	class, err := optionalInt(r.URL.Query().Get("season"))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: season must be a number", usecase.ErrInvalidInput))
		return
	}

	img, err := h.leaders.Render(ctx, class)
	if err != nil {
		h.logger.WarnContext(ctx, "render class leaders image failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writePNG(ctx, w, img.Filename, img.PNG)
}

func (h *Handler) GetWelcomeStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWelcomeStatus", guildAttr(r.PathValue("guildID")))
	defer span.End()

	guildID := strings.TrimSpace(r.PathValue("guildID"))
	toggle, err := h.welcome.Status(ctx, guildID)
	if err != nil {
		h.logger.WarnContext(ctx, "get welcome status failed", "guild_id", guildID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, welcomeToggleToDTO(toggle))
}

func (h *Handler) PutWelcomeStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutWelcomeStatus", guildAttr(r.PathValue("guildID")))
	defer span.End()

	var req putWelcomeRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	guildID := strings.TrimSpace(r.PathValue("guildID"))
	toggle, err := h.welcome.SetStatus(ctx, guildID, *req.Enabled)
	if err != nil {
		h.logger.WarnContext(ctx, "set welcome status failed", "guild_id", guildID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, welcomeToggleToDTO(toggle))
}

func (h *Handler) PreviewWelcome(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PreviewWelcome", guildAttr(r.PathValue("guildID")))
	defer span.End()

	var req previewWelcomeRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	guildID := strings.TrimSpace(r.PathValue("guildID"))
	post, err := h.welcome.Preview(ctx, welcome.MemberJoin{
		Guild: welcome.Guild{
			ID:          guildID,
			Name:        req.GuildName,
			MemberCount: req.MemberCount,
		},
		Member: welcome.Member{
			ID:        req.MemberID,
			Name:      req.MemberName,
			AvatarURL: req.AvatarURL,
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "preview welcome failed", "guild_id", guildID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writePNG(ctx, w, post.Filename, post.PNG)
}

func (h *Handler) PostMemberJoin(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PostMemberJoin", guildAttr(r.PathValue("guildID")))
	defer span.End()

	if h.joins == nil {
		writeError(ctx, w, fmt.Errorf("%w: chat platform delivery is disabled", usecase.ErrDependencyUnavailable))
		return
	}

	var req memberJoinRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	guildID := strings.TrimSpace(r.PathValue("guildID"))
	posted, err := h.joins.Dispatch(ctx, welcome.MemberJoin{
		Guild: welcome.Guild{
			ID:              guildID,
			Name:            req.GuildName,
			MemberCount:     req.MemberCount,
			SystemChannelID: req.SystemChannelID,
		},
		Member: welcome.Member{
			ID:        req.MemberID,
			Name:      req.MemberName,
			AvatarURL: req.AvatarURL,
		},
	})
	if err != nil {
		h.logger.WarnContext(ctx, "dispatch member join failed", "guild_id", guildID, "member_id", req.MemberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusAccepted, memberJoinDTO{GuildID: guildID, Posted: posted})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type putWelcomeRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type previewWelcomeRequest struct {
	GuildName   string `json:"guild_name" validate:"required,max=100"`
	MemberID    string `json:"member_id" validate:"omitempty,max=32"`
	MemberName  string `json:"member_name" validate:"required,max=64"`
	MemberCount int    `json:"member_count" validate:"gte=0"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,url"`
}

type memberJoinRequest struct {
	GuildName       string `json:"guild_name" validate:"required,max=100"`
	SystemChannelID string `json:"system_channel_id" validate:"omitempty,numeric"`
	MemberID        string `json:"member_id" validate:"required,numeric"`
	MemberName      string `json:"member_name" validate:"required,max=64"`
	MemberCount     int    `json:"member_count" validate:"gte=0"`
	AvatarURL       string `json:"avatar_url" validate:"omitempty,url"`
}

type memberJoinDTO struct {
	GuildID string `json:"guild_id"`
	Posted  bool   `json:"posted"`
}

type welcomeToggleDTO struct {
	GuildID   string `json:"guild_id"`
	Enabled   bool   `json:"enabled"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func welcomeToggleToDTO(toggle welcome.Toggle) welcomeToggleDTO {
	dto := welcomeToggleDTO{
		GuildID: toggle.GuildID,
		Enabled: toggle.Enabled,
	}
	if !toggle.UpdatedAt.IsZero() {
		dto.UpdatedAt = toggle.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return dto
}

func optionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func optionalBool(raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}

func valueOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
