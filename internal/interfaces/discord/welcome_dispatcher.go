package discord

import (
	"context"
	"fmt"

	"github.com/riskibarqy/ssl-bot/external/discordrest"
	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/usecase"
)

type WelcomePlanner interface {
	HandleMemberJoin(ctx context.Context, join welcome.MemberJoin) (usecase.WelcomePost, bool, error)
}

type ChannelPoster interface {
	CreateMessage(ctx context.Context, channelID string, msg discordrest.Message) error
}

// WelcomeDispatcher turns membership events into greeting posts in the
// guild's system channel.
type WelcomeDispatcher struct {
	planner WelcomePlanner
	poster  ChannelPoster
	logger  *logging.Logger
}

func NewWelcomeDispatcher(planner WelcomePlanner, poster ChannelPoster, logger *logging.Logger) *WelcomeDispatcher {
	if logger == nil {
		logger = logging.Default()
	}
	return &WelcomeDispatcher{planner: planner, poster: poster, logger: logger}
}

// Dispatch reports whether a greeting was posted.
func (d *WelcomeDispatcher) Dispatch(ctx context.Context, join welcome.MemberJoin) (bool, error) {
	post, ok, err := d.planner.HandleMemberJoin(ctx, join)
	if err != nil {
		return false, err
	}
	if !ok {
		d.logger.DebugContext(ctx, "welcome skipped", "guild_id", join.Guild.ID)
		return false, nil
	}

	err = d.poster.CreateMessage(ctx, post.ChannelID, discordrest.Message{
		Content: post.Content,
		File:    &discordrest.File{Name: post.Filename, Data: post.PNG},
	})
	if err != nil {
		return false, fmt.Errorf("post welcome guild_id=%s channel_id=%s: %w", join.Guild.ID, post.ChannelID, err)
	}

	d.logger.InfoContext(ctx, "welcome posted", "guild_id", join.Guild.ID, "member_id", join.Member.ID)
	return true, nil
}
