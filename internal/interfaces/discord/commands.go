package discord

import (
	"context"
	"fmt"
	"net/http"

	"github.com/riskibarqy/ssl-bot/external/discordrest"
	"github.com/riskibarqy/ssl-bot/internal/domain/league"
	"github.com/riskibarqy/ssl-bot/internal/domain/welcome"
	"github.com/riskibarqy/ssl-bot/internal/usecase"
)

const (
	colorStandings = 0x9B59B6
	colorLeaders   = 0xBD9523
)

func (h *Handler) leagueStandings(ctx context.Context, w http.ResponseWriter, in interaction) {
	leagueName := in.Data.stringOption("league")
	if lg, ok := league.Lookup(leagueName); !ok || !lg.HasStandings() {
		writeEphemeral(w, "Standings are only available for Majors and Minors leagues.")
		return
	}

	season, _ := in.Data.intOption("season")
	query := usecase.StandingsQuery{
		League:   leagueName,
		Season:   season,
		Division: in.Data.stringOption("division"),
	}

	applicationID := h.applicationID(in)
	h.deferJob(ctx, w, in, "leaguestandings", func(ctx context.Context) error {
		img, err := h.services.Standings.Render(ctx, query)
		if err != nil {
			return err
		}
		for _, notice := range img.Notices {
			h.followupEphemeral(ctx, applicationID, in.Token, notice)
		}
		return h.messenger.Followup(ctx, applicationID, in.Token, imageMessage(img.Title, colorStandings, img.Filename, img.PNG))
	})
}

func (h *Handler) classLeaders(ctx context.Context, w http.ResponseWriter, in interaction) {
	var class *int
	if season, ok := in.Data.intOption("season"); ok {
		class = &season
	}

	applicationID := h.applicationID(in)
	h.deferJob(ctx, w, in, "classleaders", func(ctx context.Context) error {
		img, err := h.services.Leaders.Render(ctx, class)
		if err != nil {
			return err
		}
		return h.messenger.Followup(ctx, applicationID, in.Token, imageMessage(img.Title, colorLeaders, img.Filename, img.PNG))
	})
}

func (h *Handler) welcomeToggle(ctx context.Context, w http.ResponseWriter, in interaction) {
	if in.GuildID == "" {
		writeEphemeral(w, "This command can only be used in a server.")
		return
	}
	if !in.hasPermission(permissionManageGuild) {
		writeEphemeral(w, "You need the Manage Server permission to change welcome messages.")
		return
	}
	enabled, ok := in.Data.boolOption("enabled")
	if !ok {
		writeEphemeral(w, "Please choose whether welcome messages should be enabled.")
		return
	}

	if _, err := h.services.Welcome.SetStatus(ctx, in.GuildID, enabled); err != nil {
		h.logger.WarnContext(ctx, "set welcome status failed", "guild_id", in.GuildID, "error", err)
		writeEphemeral(w, usecase.PublicMessage(err, "Failed to update welcome messages."))
		return
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	writeEphemeral(w, fmt.Sprintf("Welcome messages are now %s.", state))
}

func (h *Handler) testJoin(ctx context.Context, w http.ResponseWriter, in interaction) {
	if in.GuildID == "" {
		writeEphemeral(w, "This command can only be used in a server.")
		return
	}

	invoker := in.invoker()
	applicationID := h.applicationID(in)
	h.deferJob(ctx, w, in, "test_join", func(ctx context.Context) error {
		guild, err := h.messenger.GetGuild(ctx, in.GuildID)
		if err != nil {
			return err
		}

		join := welcome.MemberJoin{
			Guild: welcome.Guild{
				ID:              guild.ID,
				Name:            guild.Name,
				MemberCount:     guild.ApproximateMemberCount,
				SystemChannelID: guild.SystemChannelID,
			},
			Member: welcome.Member{
				ID:        invoker.ID,
				Name:      displayName(invoker),
				AvatarURL: avatarURL(invoker),
			},
		}
		if _, err := h.services.Joins.Dispatch(ctx, join); err != nil {
			return err
		}
		return h.messenger.Followup(ctx, applicationID, in.Token, discordrest.Message{Content: "Simulated join event triggered."})
	})
}

func imageMessage(title string, color int, filename string, png []byte) discordrest.Message {
	return discordrest.Message{
		Embeds: []discordrest.Embed{{
			Title: title,
			Color: color,
			Image: &discordrest.EmbedImage{URL: "attachment://" + filename},
		}},
		File: &discordrest.File{Name: filename, Data: png},
	}
}
