package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kyogre/pkg/logging"
)

func guildJoinedHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildCreate) {
	return func(_ *discordgo.Session, g *discordgo.GuildCreate) {
		l := a.Log().With(slog.String(logging.KeyGuildID, g.ID))
		l.Info(fmt.Sprintf("Joined guild %s", g.Name))

		// Increment the total number of guilds.
		TotalDiscordGuilds.Inc()

		// GuildCreate also fires for every guild on connect; only missing documents are created.
		if err := a.SettingsDal().CreateSettings(context.Background(), g.ID); err != nil {
			l.Error("Error creating guild settings", slog.String(logging.KeyError, err.Error()))
		}

		if err := a.RegisterCommands(g.ID); err != nil {
			l.Error("Error registering commands", slog.String(logging.KeyError, err.Error()))
		}
	}
}

func guildLeaveHandler(a IApp) func(s *discordgo.Session, g *discordgo.GuildDelete) {
	return func(_ *discordgo.Session, g *discordgo.GuildDelete) {
		l := a.Log().With(slog.String(logging.KeyGuildID, g.ID))

		// An unavailable guild is an outage, the bot is still a member.
		if g.Unavailable {
			l.Warn("Guild became unavailable")
			return
		}

		l.Info(fmt.Sprintf("Left guild %s", g.Name))

		// Decrement the total number of guilds.
		TotalDiscordGuilds.Dec()

		a.ForgetCommands(g.ID)

		if err := a.SettingsDal().DeleteSettings(context.Background(), g.ID); err != nil {
			l.Error("Error deleting guild settings", slog.String(logging.KeyError, err.Error()))
		}
	}
}
