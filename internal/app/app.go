package app

import (
	"fmt"
	"image"
	"net/http"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/riskibarqy/ssl-bot/external/avatar"
	"github.com/riskibarqy/ssl-bot/external/discordrest"
	"github.com/riskibarqy/ssl-bot/external/sslapi"
	"github.com/riskibarqy/ssl-bot/internal/config"
	"github.com/riskibarqy/ssl-bot/internal/interfaces/discord"
	"github.com/riskibarqy/ssl-bot/internal/interfaces/httpapi"
	"github.com/riskibarqy/ssl-bot/internal/platform/cache"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/platform/resilience"
	"github.com/riskibarqy/ssl-bot/internal/render"
	"github.com/riskibarqy/ssl-bot/internal/usecase"
)

const interactionWorkers = 32

// Server is the assembled service plus the resources it owns.
type Server struct {
	HTTP *http.Server

	closers []func() error
}

// Close releases pools and database handles in reverse construction order.
func (s *Server) Close() error {
	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	srv := &Server{}
	fail := func(err error) (*Server, error) {
		_ = srv.Close()
		return nil, err
	}

	welcomeRepo, closeRepo, err := newWelcomeRepository(cfg, logger)
	if err != nil {
		return fail(err)
	}
	srv.closers = append(srv.closers, closeRepo)

	renderer, err := newRenderer(cfg, logger)
	if err != nil {
		return fail(err)
	}

	renderPool, err := usecase.NewRenderPool(cfg.RenderWorkers, logger, usecase.WithJobTimeout(cfg.RenderTimeout))
	if err != nil {
		return fail(err)
	}
	srv.closers = append(srv.closers, releaser(renderPool))

	sslClient := sslapi.NewClient(sslapi.ClientConfig{
		BaseURL:    cfg.SSLAPIBaseURL,
		Timeout:    cfg.SSLAPITimeout,
		MaxRetries: cfg.SSLAPIMaxRetries,
		Logger:     logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SSLAPICircuitEnabled,
			FailureThreshold: cfg.SSLAPICircuitFailureCount,
			OpenTimeout:      cfg.SSLAPICircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SSLAPICircuitHalfOpenMaxReq,
		},
	})
	avatars := avatar.NewFetcher(avatar.FetcherConfig{
		Timeout:    cfg.SSLAPITimeout,
		MaxRetries: 1,
		Logger:     logger,
	})

	standingsSvc := usecase.NewStandingsService(sslClient, renderer, renderPool, cfg.CurrentSeason, logger)
	leadersSvc := usecase.NewLeadersService(sslClient, renderer, renderPool, logger)
	welcomeSvc := usecase.NewWelcomeService(welcomeRepo, avatars, renderer, renderPool, usecase.WelcomeConfig{
		MainServerID:            cfg.SSLMainServerID,
		HelpChannelID:           cfg.SSLHelpChannelID,
		NewPlayerGuideChannelID: cfg.SSLNewPlayerGuideChannelID,
		BoardRoleID:             cfg.SSLBoardRoleID,
		AcademyCoachesRoleID:    cfg.SSLAcademyCoachesRoleID,
	}, logger)

	var (
		interactions http.Handler
		joins        httpapi.JoinDispatcher
	)
	if cfg.DiscordEnabled {
		publicKey, err := discord.ParsePublicKey(cfg.DiscordPublicKey)
		if err != nil {
			return fail(fmt.Errorf("parse DISCORD_PUBLIC_KEY: %w", err))
		}

		jobPool, err := usecase.NewRenderPool(interactionWorkers, logger)
		if err != nil {
			return fail(err)
		}
		srv.closers = append(srv.closers, releaser(jobPool))

		rest := discordrest.NewClient(discordrest.ClientConfig{
			BaseURL:        cfg.DiscordAPIBaseURL,
			BotToken:       cfg.DiscordBotToken,
			Timeout:        cfg.DiscordTimeout,
			Logger:         logger,
			CircuitBreaker: resilience.DefaultCircuitBreakerConfig(),
		})
		dispatcher := discord.NewWelcomeDispatcher(welcomeSvc, rest, logger)
		joins = dispatcher
		interactions = discord.NewHandler(
			discord.Config{
				PublicKey:     publicKey,
				ApplicationID: cfg.DiscordApplicationID,
				JobTimeout:    cfg.DiscordJobTimeout,
			},
			discord.Services{
				Standings: standingsSvc,
				Leaders:   leadersSvc,
				Welcome:   welcomeSvc,
				Joins:     dispatcher,
			},
			rest,
			jobPool,
			logger,
		)
	}

	handler := httpapi.NewHandler(standingsSvc, leadersSvc, welcomeSvc, joins, logger)
	router := httpapi.NewRouter(handler, interactions, logger, httpapi.RouterConfig{
		SwaggerEnabled:     cfg.SwaggerEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:         cfg.AdminToken,
	})

	srv.HTTP = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return srv, nil
}

func newRenderer(cfg config.Config, logger *logging.Logger) (*render.Renderer, error) {
	var (
		theme    render.Theme
		fonts    *render.Fonts
		themeErr error
		fontErr  error
	)

	// Theme decoding and font parsing are independent file reads.
	var wg conc.WaitGroup
	wg.Go(func() { theme, themeErr = render.LoadTheme(cfg.ThemeFile) })
	wg.Go(func() { fonts, fontErr = render.LoadFonts(cfg.FontPath) })
	wg.Wait()

	if themeErr != nil {
		return nil, fmt.Errorf("load theme: %w", themeErr)
	}
	if fontErr != nil {
		if fonts == nil {
			return nil, fmt.Errorf("load fonts: %w", fontErr)
		}
		logger.Warn("font missing, using embedded fallback", "path", cfg.FontPath, "error", fontErr)
	}

	assets := render.NewAssetLoader(cache.NewStore[image.Image](0))
	return render.NewRenderer(theme, fonts, render.NewAssetResolver(cfg.AssetsDir), assets, render.WithLogger(logger)), nil
}

func releaser(pool *usecase.RenderPool) func() error {
	return func() error {
		pool.Release()
		return nil
	}
}
