// Package community adapts a Discord session to the collaborators the configuration wizard needs:
// the guild directory, direct messages, channel permission overwrites and role creation.
package community

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kyogre/pkg/logging"
)

// ErrDirectMessagesClosed is returned when a user does not accept direct messages from the bot.
var ErrDirectMessagesClosed = errors.New("user does not accept direct messages")

// BotAccess is the overwrite the bot gives itself on every channel it is configured for.
const BotAccess = discordgo.PermissionViewChannel |
	discordgo.PermissionSendMessages |
	discordgo.PermissionReadMessageHistory |
	discordgo.PermissionManageRoles

// Community talks to Discord on behalf of the configuration wizard.
type Community struct {
	l *slog.Logger
	s *discordgo.Session

	mtx sync.Mutex

	// dms caches the direct message channel of each user.
	dms map[string]string
}

// New creates a new Community.
func New(l *slog.Logger, s *discordgo.Session) *Community {
	return &Community{
		l:   l,
		s:   s,
		dms: make(map[string]string),
	}
}

// Channels returns the channels of a guild from the state cache, falling back to the API.
func (c *Community) Channels(ctx context.Context, guildID string) ([]*discordgo.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if g, err := c.s.State.Guild(guildID); err == nil && len(g.Channels) > 0 {
		return g.Channels, nil
	}

	channels, err := c.s.GuildChannels(guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting channels of guild %s: %w", guildID, err)
	}
	return channels, nil
}

// Roles returns the roles of a guild from the state cache, falling back to the API.
func (c *Community) Roles(ctx context.Context, guildID string) ([]*discordgo.Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if g, err := c.s.State.Guild(guildID); err == nil && len(g.Roles) > 0 {
		return g.Roles, nil
	}

	roles, err := c.s.GuildRoles(guildID)
	if err != nil {
		return nil, fmt.Errorf("error getting roles of guild %s: %w", guildID, err)
	}
	return roles, nil
}

// SendDirect sends a direct message to a user.
func (c *Community) SendDirect(ctx context.Context, userID, content string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	channelID, err := c.dmChannel(userID)
	if err != nil {
		return err
	}

	if _, err := c.s.ChannelMessageSend(channelID, content); err != nil {
		if isRESTCode(err, discordgo.ErrCodeCannotSendMessagesToThisUser) {
			return fmt.Errorf("%w: %s", ErrDirectMessagesClosed, userID)
		}
		return fmt.Errorf("error sending direct message: %w", err)
	}
	return nil
}

func (c *Community) dmChannel(userID string) (string, error) {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	if id, ok := c.dms[userID]; ok {
		return id, nil
	}

	ch, err := c.s.UserChannelCreate(userID)
	if err != nil {
		return "", fmt.Errorf("error opening direct message channel: %w", err)
	}
	c.dms[userID] = ch.ID
	return ch.ID, nil
}

// GrantBotAccess sets the bot's member overwrite on a channel.
func (c *Community) GrantBotAccess(ctx context.Context, channelID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if c.s.State.User == nil {
		return errors.New("bot user is unknown, the session is not ready")
	}

	err := c.s.ChannelPermissionSet(channelID, c.s.State.User.ID, discordgo.PermissionOverwriteTypeMember, BotAccess, 0)
	if err != nil {
		return fmt.Errorf("error setting permissions on channel %s: %w", channelID, err)
	}

	c.l.Debug("Bot access granted", slog.String("channel_id", channelID))
	return nil
}

// CreateRole creates a mentionable role with no permissions.
func (c *Community) CreateRole(ctx context.Context, guildID, name string) (*discordgo.Role, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	role, err := c.s.GuildRoleCreate(guildID, RoleParams(name))
	if err != nil {
		return nil, fmt.Errorf("error creating role %s: %w", name, err)
	}

	c.l.Info("Role created",
		slog.String(logging.KeyGuildID, guildID),
		slog.String("role", name),
		slog.String("role_id", role.ID),
	)
	return role, nil
}

// RoleParams are the parameters of a role created for a team or region.
func RoleParams(name string) *discordgo.RoleParams {
	var (
		mentionable       = true
		permissions int64 = 0
	)
	return &discordgo.RoleParams{
		Name:        name,
		Permissions: &permissions,
		Mentionable: &mentionable,
	}
}

func isRESTCode(err error, code int) bool {
	var restErr *discordgo.RESTError
	return errors.As(err, &restErr) && restErr.Message != nil && restErr.Message.Code == code
}
