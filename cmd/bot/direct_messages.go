package main

import (
	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kyogre/pkg/prompt"
)

// directMessageHandler hands messages to the configuration session of their author.
func directMessageHandler(a IApp) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(_ *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}

		a.Broker().Dispatch(prompt.Message{
			AuthorID:  m.Author.ID,
			ChannelID: m.ChannelID,
			GuildID:   m.GuildID,
			Content:   m.Content,
		})
	}
}
