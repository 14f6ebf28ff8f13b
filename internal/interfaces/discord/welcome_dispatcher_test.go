package discord

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/ssl-bot/external/discordrest"
	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/usecase"
)

type plannerStub struct {
	post usecase.WelcomePost
	ok   bool
}

func (p plannerStub) HandleMemberJoin(context.Context, welcome.MemberJoin) (usecase.WelcomePost, bool, error) {
	return p.post, p.ok, nil
}

type posterStub struct {
	channelID string
	msg       discordrest.Message
	calls     int
}

func (p *posterStub) CreateMessage(_ context.Context, channelID string, msg discordrest.Message) error {
	p.calls++
	p.channelID, p.msg = channelID, msg
	return nil
}

func TestWelcomeDispatcher_PostsToSystemChannel(t *testing.T) {
	poster := &posterStub{}
	dispatcher := NewWelcomeDispatcher(plannerStub{
		ok:   true,
		post: usecase.WelcomePost{ChannelID: "77", Content: "Hello there newbie, welcome to SSL!", PNG: []byte("png"), Filename: "welcome.png"},
	}, poster, logging.NewNop())

	posted, err := dispatcher.Dispatch(context.Background(), welcome.MemberJoin{Guild: welcome.Guild{ID: "42"}})
	require.NoError(t, err)
	require.True(t, posted)
	require.Equal(t, "77", poster.channelID)
	require.Equal(t, "Hello there newbie, welcome to SSL!", poster.msg.Content)
	require.Equal(t, "welcome.png", poster.msg.File.Name)
}

func TestWelcomeDispatcher_SkipsWhenPlannerDeclines(t *testing.T) {
	poster := &posterStub{}
	dispatcher := NewWelcomeDispatcher(plannerStub{}, poster, logging.NewNop())

	posted, err := dispatcher.Dispatch(context.Background(), welcome.MemberJoin{Guild: welcome.Guild{ID: "42"}})
	require.NoError(t, err)
	require.False(t, posted)
	require.Zero(t, poster.calls)
}
