package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kyogre/pkg/community"
	"github.com/Jacobbrewer1/kyogre/pkg/configuration"
	"github.com/Jacobbrewer1/kyogre/pkg/messages"
	"github.com/Jacobbrewer1/kyogre/pkg/prompt"
)

const (
	// configureCmdName is the command that starts a configuration session.
	configureCmdName = "configure"

	// sectionsOptionName is the option listing the sections to configure.
	sectionsOptionName = "sections"
)

// adminPermission hides the command from members who are not administrators.
var adminPermission int64 = discordgo.PermissionAdministrator

var configureCmd = &discordgo.ApplicationCommand{
	Name:                     configureCmdName,
	Type:                     discordgo.ChatApplicationCommand,
	Description:              "Configure Kyogre for this server over direct messages.",
	DefaultMemberPermissions: &adminPermission,
	Options: []*discordgo.ApplicationCommandOption{
		{
			Name:        sectionsOptionName,
			Type:        discordgo.ApplicationCommandOptionString,
			Description: fmt.Sprintf("Sections to configure, separated by commas. Defaults to %s.", configuration.AllSections),
			Required:    false,
		},
	},
}

// configureCmdProcessor opens a configuration session with the administrator who ran the command.
func configureCmdProcessor(a IApp, i *discordgo.InteractionCreate) error {
	// Ensure the user is an administrator.
	if i.Member == nil || i.Member.User == nil || i.Member.Permissions&discordgo.PermissionAdministrator != discordgo.PermissionAdministrator {
		return respondEphemeral(a, i, messages.ErrAdminOnly)
	}

	sections := parseSections(i.ApplicationCommandData().Options)
	if _, err := configuration.ExpandSections(sections); err != nil {
		return respondEphemeral(a, i, configuration.UnknownSectionsMessage(err))
	}

	sess, err := a.Broker().Open(i.Member.User.ID)
	if errors.Is(err, prompt.ErrSessionActive) {
		return respondEphemeral(a, i, messages.ErrSessionActive)
	} else if err != nil {
		return fmt.Errorf("error opening session: %w", err)
	}

	if err := sess.Tell(context.Background(), fmt.Sprintf(messages.SessionIntro, guildName(a.Session(), i.GuildID))); err != nil {
		sess.Close()
		if errors.Is(err, community.ErrDirectMessagesClosed) {
			return respondEphemeral(a, i, messages.ErrDirectMessages)
		}
		return fmt.Errorf("error sending session intro: %w", err)
	}

	if err := respondEphemeral(a, i, messages.ConfigureStarted); err != nil {
		sess.Close()
		return fmt.Errorf("error responding to interaction: %w", err)
	}

	a.StartConfiguration(sess, i.GuildID, sections)
	return nil
}

// parseSections reads the sections option. Sections may be separated by commas or spaces.
func parseSections(opts []*discordgo.ApplicationCommandInteractionDataOption) []string {
	for _, opt := range opts {
		if opt.Name != sectionsOptionName || opt.Type != discordgo.ApplicationCommandOptionString {
			continue
		}

		return strings.FieldsFunc(opt.StringValue(), func(r rune) bool {
			return r == ',' || unicode.IsSpace(r)
		})
	}
	return nil
}

func guildName(s *discordgo.Session, guildID string) string {
	if s != nil && s.State != nil {
		if g, err := s.State.Guild(guildID); err == nil && g.Name != "" {
			return g.Name
		}
	}
	return "your server"
}

