package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
	"github.com/riskibarqy/ssl-bot/internal/platform/logging"
	"github.com/riskibarqy/ssl-bot/internal/usecase"
)

type standingsStub struct {
	got usecase.StandingsQuery
	out usecase.StandingsImage
	err error
}

func (s *standingsStub) Render(_ context.Context, query usecase.StandingsQuery) (usecase.StandingsImage, error) {
	s.got = query
	return s.out, s.err
}

type leadersStub struct {
	got *int
	out usecase.LeadersImage
	err error
}

func (s *leadersStub) Render(_ context.Context, class *int) (usecase.LeadersImage, error) {
	s.got = class
	return s.out, s.err
}

type welcomeStub struct {
	toggles map[string]welcome.Toggle
	preview welcome.MemberJoin
}

func (s *welcomeStub) Status(_ context.Context, guildID string) (welcome.Toggle, error) {
	return s.toggles[guildID], nil
}

func (s *welcomeStub) SetStatus(_ context.Context, guildID string, enabled bool) (welcome.Toggle, error) {
	toggle := welcome.Toggle{GuildID: guildID, Enabled: enabled, UpdatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}
	s.toggles[guildID] = toggle
	return toggle, nil
}

func (s *welcomeStub) Preview(_ context.Context, join welcome.MemberJoin) (usecase.WelcomePost, error) {
	s.preview = join
	return usecase.WelcomePost{PNG: []byte("png"), Filename: usecase.WelcomeFilename}, nil
}

type joinStub struct {
	got    welcome.MemberJoin
	posted bool
}

func (s *joinStub) Dispatch(_ context.Context, join welcome.MemberJoin) (bool, error) {
	s.got = join
	return s.posted, nil
}

func newTestRouter(standings *standingsStub, leaders *leadersStub, welcomes *welcomeStub) http.Handler {
	return newTestRouterWithJoins(standings, leaders, welcomes, nil)
}

func newTestRouterWithJoins(standings *standingsStub, leaders *leadersStub, welcomes *welcomeStub, joins JoinDispatcher) http.Handler {
	handler := NewHandler(standings, leaders, welcomes, joins, logging.NewNop())
	return NewRouter(handler, nil, logging.NewNop(), RouterConfig{AdminToken: "secret"})
}

func TestGetStandingsImage_PassesQueryAndNotices(t *testing.T) {
	standings := &standingsStub{out: usecase.StandingsImage{
		PNG:      []byte("png"),
		Filename: usecase.StandingsFilename,
		Notices:  []string{"Divisions were introduced in Season 24.\nShowing the full table instead."},
	}}
	router := newTestRouter(standings, &leadersStub{}, &welcomeStub{})

	req := httptest.NewRequest(http.MethodGet, "/v1/standings/majors/image?season=20&division=1&header=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "Divisions were introduced in Season 24. Showing the full table instead.", rec.Header().Get(noticeHeader))
	require.Equal(t, usecase.StandingsQuery{League: "majors", Season: 20, Division: "1", ShowHeader: true}, standings.got)
	require.Equal(t, "png", rec.Body.String())
}

func TestGetStandingsImage_RejectsNonNumericSeason(t *testing.T) {
	router := newTestRouter(&standingsStub{}, &leadersStub{}, &welcomeStub{})

	req := httptest.NewRequest(http.MethodGet, "/v1/standings/majors/image?season=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetStandingsImage_MapsPublicError(t *testing.T) {
	standings := &standingsStub{err: &usecase.PublicError{
		Kind:    usecase.ErrInvalidInput,
		Message: "Standings are only available for Majors and Minors leagues.",
	}}
	router := newTestRouter(standings, &leadersStub{}, &welcomeStub{})

	req := httptest.NewRequest(http.MethodGet, "/v1/standings/wsfc/image", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "Standings are only available for Majors and Minors leagues.")
}

func TestGetLeadersImage_OptionalClass(t *testing.T) {
	leaders := &leadersStub{out: usecase.LeadersImage{PNG: []byte("png"), Filename: usecase.LeadersFilename}}
	router := newTestRouter(&standingsStub{}, leaders, &welcomeStub{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leaders/image", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Nil(t, leaders.got)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/leaders/image?season=18", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, leaders.got)
	require.Equal(t, 18, *leaders.got)
}

func TestPutWelcomeStatus_RequiresAdminToken(t *testing.T) {
	welcomes := &welcomeStub{toggles: map[string]welcome.Toggle{}}
	router := newTestRouter(&standingsStub{}, &leadersStub{}, welcomes)

	req := httptest.NewRequest(http.MethodPut, "/v1/guilds/42/welcome", strings.NewReader(`{"enabled":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPut, "/v1/guilds/42/welcome", strings.NewReader(`{"enabled":true}`))
	req.Header.Set("Authorization", "Bearer wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Empty(t, welcomes.toggles)
}

func TestPutWelcomeStatus_TogglesGuild(t *testing.T) {
	welcomes := &welcomeStub{toggles: map[string]welcome.Toggle{}}
	router := newTestRouter(&standingsStub{}, &leadersStub{}, welcomes)

	req := httptest.NewRequest(http.MethodPut, "/v1/guilds/42/welcome", strings.NewReader(`{"enabled":true}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, welcomes.toggles["42"].Enabled)
	require.Contains(t, rec.Body.String(), `"enabled":true`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/guilds/42/welcome", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"guild_id":"42"`)
}

func TestPutWelcomeStatus_RejectsMissingField(t *testing.T) {
	welcomes := &welcomeStub{toggles: map[string]welcome.Toggle{}}
	router := newTestRouter(&standingsStub{}, &leadersStub{}, welcomes)

	req := httptest.NewRequest(http.MethodPut, "/v1/guilds/42/welcome", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Empty(t, welcomes.toggles)
}

func TestPreviewWelcome_BuildsMemberJoin(t *testing.T) {
	welcomes := &welcomeStub{toggles: map[string]welcome.Toggle{}}
	router := newTestRouter(&standingsStub{}, &leadersStub{}, welcomes)

	body := `{"guild_name":"Simulation Soccer League","member_name":"newbie","member_count":1200,"avatar_url":"https://cdn.example.com/a.png"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/guilds/42/welcome/preview", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, welcome.MemberJoin{
		Guild:  welcome.Guild{ID: "42", Name: "Simulation Soccer League", MemberCount: 1200},
		Member: welcome.Member{Name: "newbie", AvatarURL: "https://cdn.example.com/a.png"},
	}, welcomes.preview)
}

func TestPostMemberJoin_Dispatches(t *testing.T) {
	joins := &joinStub{posted: true}
	router := newTestRouterWithJoins(&standingsStub{}, &leadersStub{}, &welcomeStub{}, joins)

	body := `{"guild_name":"SSL","system_channel_id":"77","member_id":"123","member_name":"newbie","member_count":10}`
	req := httptest.NewRequest(http.MethodPost, "/v1/guilds/42/members/join", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)
	require.Contains(t, rec.Body.String(), `"posted":true`)
	require.Equal(t, "77", joins.got.Guild.SystemChannelID)
	require.Equal(t, "123", joins.got.Member.ID)
}

func TestPostMemberJoin_DisabledWithoutDispatcher(t *testing.T) {
	router := newTestRouter(&standingsStub{}, &leadersStub{}, &welcomeStub{})

	body := `{"guild_name":"SSL","member_id":"123","member_name":"newbie"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/guilds/42/members/join", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRecoverPanic_WritesInternalError(t *testing.T) {
	next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})
	rec := httptest.NewRecorder()
	recoverPanic(logging.NewNop(), next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestNormalizeIP(t *testing.T) {
	require.Equal(t, "203.0.113.7", normalizeIP("203.0.113.7, 10.0.0.1"))
	require.Equal(t, "198.51.100.2", normalizeIP("198.51.100.2:443"))
	require.Equal(t, "", normalizeIP("not-an-ip"))
}
