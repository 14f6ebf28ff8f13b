package discord

import (
	"context"
	"crypto/ed25519"
	"io"
	"net/http"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/riskibarqy/ssl-bot/external/discordrest"
	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
	idgen "github.com/riskibarqy/ssl-bot/internal/platform/id"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/usecase"
)

const (
	cdnBaseURL       = "https://cdn.discordapp.com"
	maxBodyBytes     = 1 << 20
	jobReadyTimeout  = 5 * time.Second
	defaultJobBudget = 30 * time.Second
)

type StandingsImager interface {
	Render(ctx context.Context, query usecase.StandingsQuery) (usecase.StandingsImage, error)
}

type LeadersImager interface {
	Render(ctx context.Context, class *int) (usecase.LeadersImage, error)
}

type WelcomeToggler interface {
	SetStatus(ctx context.Context, guildID string, enabled bool) (welcome.Toggle, error)
}

type JoinDispatcher interface {
	Dispatch(ctx context.Context, join welcome.MemberJoin) (bool, error)
}

// Messenger delivers follow-ups and looks up guilds on the chat platform.
type Messenger interface {
	Followup(ctx context.Context, applicationID, interactionToken string, msg discordrest.Message) error
	GetGuild(ctx context.Context, guildID string) (discordrest.Guild, error)
}

// Runner executes deferred command jobs off the request goroutine.
type Runner interface {
	Go(fn func()) error
}

type Config struct {
	PublicKey     ed25519.PublicKey
	ApplicationID string
	// JobTimeout bounds a deferred command from acknowledgement to its last
	// follow-up.
	JobTimeout time.Duration
}

type Services struct {
	Standings StandingsImager
	Leaders   LeadersImager
	Welcome   WelcomeToggler
	Joins     JoinDispatcher
}

// Handler serves the interaction webhook.
type Handler struct {
	cfg       Config
	services  Services
	messenger Messenger
	runner    Runner
	jobIDs    idgen.Generator
	logger    *logging.Logger
}

func NewHandler(cfg Config, services Services, messenger Messenger, runner Runner, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = defaultJobBudget
	}
	return &Handler{
		cfg:       cfg,
		services:  services,
		messenger: messenger,
		runner:    runner,
		jobIDs:    idgen.NewRandomGenerator(idgen.WithPrefix("job_")),
		logger:    logger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "discord.Handler.ServeHTTP")
	defer span.End()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "unable to read body", http.StatusBadRequest)
		return
	}
	if !verifySignature(h.cfg.PublicKey, r.Header.Get("X-Signature-Ed25519"), r.Header.Get("X-Signature-Timestamp"), body) {
		h.logger.WarnContext(ctx, "interaction signature rejected")
		http.Error(w, "invalid request signature", http.StatusUnauthorized)
		return
	}

	var in interaction
	if err := sonic.Unmarshal(body, &in); err != nil {
		http.Error(w, "invalid interaction payload", http.StatusBadRequest)
		return
	}

	switch in.Type {
	case interactionTypePing:
		writeResponse(w, interactionResponse{Type: responseTypePong})
	case interactionTypeApplicationCommand:
		h.dispatch(ctx, w, in)
	default:
		http.Error(w, "unsupported interaction type", http.StatusBadRequest)
	}
}

func (h *Handler) dispatch(ctx context.Context, w http.ResponseWriter, in interaction) {
	if in.Data == nil {
		writeEphemeral(w, "Unknown command.")
		return
	}

	name := strings.ToLower(strings.TrimSpace(in.Data.Name))
	h.logger.InfoContext(ctx, "interaction command received", "command", name, "guild_id", in.GuildID, "user_id", in.invoker().ID)

	switch name {
	case "leaguestandings":
		h.leagueStandings(ctx, w, in)
	case "classleaders":
		h.classLeaders(ctx, w, in)
	case "welcome":
		h.welcomeToggle(ctx, w, in)
	case "test_join":
		h.testJoin(ctx, w, in)
	default:
		writeEphemeral(w, "Unknown command.")
	}
}

// deferJob acknowledges the interaction and runs job once the acknowledgement
// has been written. Follow-ups sent before the acknowledgement are rejected
// by the platform.
func (h *Handler) deferJob(ctx context.Context, w http.ResponseWriter, in interaction, command string, job func(ctx context.Context) error) {
	ready := make(chan struct{})
	applicationID := h.applicationID(in)
	logger := h.logger.With("command", command, "job_id", h.newJobID())

	err := h.runner.Go(func() {
		select {
		case <-ready:
		case <-time.After(jobReadyTimeout):
			logger.Warn("deferred interaction was never acknowledged")
			return
		}

		jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.cfg.JobTimeout)
		defer cancel()

		started := time.Now()
		if err := job(jobCtx); err != nil {
			logger.WarnContext(jobCtx, "interaction command failed", "error", err, "duration_ms", time.Since(started).Milliseconds())
			h.followupEphemeral(jobCtx, applicationID, in.Token, usecase.PublicMessage(err, "Something went wrong, please try again later."))
			return
		}
		logger.InfoContext(jobCtx, "interaction command completed", "duration_ms", time.Since(started).Milliseconds())
	})
	if err != nil {
		logger.ErrorContext(ctx, "submit interaction job failed", "error", err)
		writeEphemeral(w, "The bot is busy, please try again shortly.")
		return
	}

	writeResponse(w, interactionResponse{Type: responseTypeDeferredChannelMessage})
	close(ready)
}

func (h *Handler) newJobID() string {
	id, err := h.jobIDs.NewID()
	if err != nil {
		return "unknown"
	}
	return id
}

func (h *Handler) followupEphemeral(ctx context.Context, applicationID, token, content string) {
	err := h.messenger.Followup(ctx, applicationID, token, discordrest.Message{
		Content: content,
		Flags:   discordrest.FlagEphemeral,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "send ephemeral follow-up failed", "error", err)
	}
}

func (h *Handler) applicationID(in interaction) string {
	if strings.TrimSpace(in.ApplicationID) != "" {
		return in.ApplicationID
	}
	return h.cfg.ApplicationID
}

func writeEphemeral(w http.ResponseWriter, content string) {
	writeResponse(w, interactionResponse{
		Type: responseTypeChannelMessage,
		Data: &responseData{Content: content, Flags: discordrest.FlagEphemeral},
	})
}

func writeResponse(w http.ResponseWriter, resp interactionResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(resp)
}
