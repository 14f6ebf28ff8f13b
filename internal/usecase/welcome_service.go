package usecase

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/render"
)

const WelcomeFilename = "welcome.png"

type AvatarFetcher interface {
	Fetch(ctx context.Context, url string) (image.Image, error)
}

type BannerRenderer interface {
	RenderWelcomeBanner(ctx context.Context, in render.BannerInput) (image.Image, error)
}

// WelcomeConfig names the main league server and the channels and roles its
// greeting links to.
type WelcomeConfig struct {
	MainServerID            string
	HelpChannelID           string
	NewPlayerGuideChannelID string
	BoardRoleID             string
	AcademyCoachesRoleID    string
}

type WelcomePost struct {
	ChannelID string
	Content   string
	PNG       []byte
	Filename  string
}

type WelcomeService struct {
	repo     welcome.Repository
	avatars  AvatarFetcher
	renderer BannerRenderer
	pool     *RenderPool
	cfg      WelcomeConfig
	logger   *logging.Logger
	now      func() time.Time
}

func NewWelcomeService(repo welcome.Repository, avatars AvatarFetcher, renderer BannerRenderer, pool *RenderPool, cfg WelcomeConfig, logger *logging.Logger) *WelcomeService {
	if logger == nil {
		logger = logging.Default()
	}
	return &WelcomeService{
		repo:     repo,
		avatars:  avatars,
		renderer: renderer,
		pool:     pool,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
	}
}

// Status returns the stored toggle. Guilds that never set one are disabled.
func (s *WelcomeService) Status(ctx context.Context, guildID string) (welcome.Toggle, error) {
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return welcome.Toggle{}, fmt.Errorf("%w: guild id is required", ErrInvalidInput)
	}

	toggle, exists, err := s.repo.GetByGuildID(ctx, guildID)
	if err != nil {
		return welcome.Toggle{}, fmt.Errorf("get welcome toggle: %w", err)
	}
	if !exists {
		return welcome.Toggle{GuildID: guildID}, nil
	}
	return toggle, nil
}

func (s *WelcomeService) SetStatus(ctx context.Context, guildID string, enabled bool) (welcome.Toggle, error) {
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return welcome.Toggle{}, fmt.Errorf("%w: guild id is required", ErrInvalidInput)
	}

	toggle := welcome.Toggle{
		GuildID:   guildID,
		Enabled:   enabled,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, toggle); err != nil {
		return welcome.Toggle{}, fmt.Errorf("upsert welcome toggle: %w", err)
	}

	s.logger.InfoContext(ctx, "welcome toggle updated", "guild_id", guildID, "enabled", enabled)
	return toggle, nil
}

// HandleMemberJoin builds the greeting for a join. The bool is false when the
// guild has no system channel or greetings are switched off.
func (s *WelcomeService) HandleMemberJoin(ctx context.Context, join welcome.MemberJoin) (post WelcomePost, ok bool, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WelcomeService.HandleMemberJoin",
		attribute.String("guild_id", join.Guild.ID),
	)
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(join.Guild.SystemChannelID) == "" {
		s.logger.DebugContext(ctx, "skip welcome: no system channel", "guild_id", join.Guild.ID)
		return WelcomePost{}, false, nil
	}

	toggle, err := s.Status(ctx, join.Guild.ID)
	if err != nil {
		return WelcomePost{}, false, err
	}
	if !toggle.Enabled {
		s.logger.DebugContext(ctx, "skip welcome: disabled", "guild_id", join.Guild.ID)
		return WelcomePost{}, false, nil
	}

	post, err = s.Preview(ctx, join)
	if err != nil {
		return WelcomePost{}, false, err
	}
	post.ChannelID = join.Guild.SystemChannelID
	return post, true, nil
}

// Preview renders the greeting regardless of the toggle.
func (s *WelcomeService) Preview(ctx context.Context, join welcome.MemberJoin) (WelcomePost, error) {
	if strings.TrimSpace(join.Guild.Name) == "" || strings.TrimSpace(join.Member.Name) == "" {
		return WelcomePost{}, fmt.Errorf("%w: guild name and member name are required", ErrInvalidInput)
	}

	var avatar image.Image
	if join.Member.AvatarURL != "" && s.avatars != nil {
		img, err := s.avatars.Fetch(ctx, join.Member.AvatarURL)
		if err != nil {
			s.logger.WarnContext(ctx, "avatar unavailable, drawing banner without it", "member_id", join.Member.ID, "error", err)
		} else {
			avatar = img
		}
	}

	var banner image.Image
	renderErr := s.pool.Do(ctx, func(ctx context.Context) error {
		var err error
		banner, err = s.renderer.RenderWelcomeBanner(ctx, render.BannerInput{
			GuildName:   join.Guild.Name,
			MemberName:  join.Member.Name,
			MemberCount: join.Guild.MemberCount,
			Avatar:      avatar,
		})
		return err
	})
	if renderErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return WelcomePost{}, ctxErr
		}
		return WelcomePost{}, fmt.Errorf("%w: welcome banner: %v", ErrRenderFailed, renderErr)
	}

	png, err := render.EncodePNG(banner)
	if err != nil {
		return WelcomePost{}, fmt.Errorf("%w: encode welcome banner: %v", ErrRenderFailed, err)
	}

	return WelcomePost{
		Content:  s.message(join),
		PNG:      png,
		Filename: WelcomeFilename,
	}, nil
}

func (s *WelcomeService) message(join welcome.MemberJoin) string {
	if s.cfg.MainServerID == "" || join.Guild.ID != s.cfg.MainServerID {
		return fmt.Sprintf("Hello there %s, welcome to %s!", join.Member.Name, join.Guild.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hey %s! Welcome to %s!\n\n", join.Member.Name, join.Guild.Name)
	b.WriteString("The SSL is a simulation league within the world of soccer/football. ")
	b.WriteString("The league takes the Be-a-pro game mode to a multiplayer environment where users from across the globe create their own player, ")
	b.WriteString("join one of the teams, fight for the league or cup championships and watch commentated games simulated through Football Manager.\n\n")
	fmt.Fprintf(&b, "Read more about how you can start your career in the <#%s>.\n\n", s.cfg.NewPlayerGuideChannelID)
	fmt.Fprintf(&b, "If you need any help you can contact any of the <@&%s> or <@&%s>, and of course you can always ask question in <#%s>",
		s.cfg.BoardRoleID, s.cfg.AcademyCoachesRoleID, s.cfg.HelpChannelID)
	return b.String()
}
