// Package configuration runs the guided configuration of a guild. An administrator answers
// prompts over direct messages, section by section, and the resulting settings document is
// committed in a single write once every requested section has completed.
package configuration

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/resolver"
)

// AllSections is the keyword selecting every section.
const AllSections = "all"

// Conversation is the exchange with the administrator running the configuration.
type Conversation interface {
	// Ask sends a prompt and returns the reply. It returns prompt.ErrCancelled or
	// prompt.ErrTimeout when the administrator cancels or stops answering.
	Ask(ctx context.Context, prompt string) (string, error)

	// Tell sends a message that expects no reply.
	Tell(ctx context.Context, msg string) error
}

// Permissions sets the bot's permission overwrite on channels.
type Permissions interface {
	GrantBotAccess(ctx context.Context, channelID string) error
}

// Roles creates roles in a guild.
type Roles interface {
	CreateRole(ctx context.Context, guildID, name string) (*discordgo.Role, error)
}

// Store holds the committed settings documents.
type Store interface {
	GetSettings(ctx context.Context, guildID string) (*entities.Settings, error)
	ReplaceSettings(ctx context.Context, settings *entities.Settings) error
}

// section configures one section of the working copy.
type section func(ctx context.Context, r *run) error

// Configurator runs configuration sessions.
type Configurator struct {
	l        *slog.Logger
	store    Store
	resolver *resolver.Resolver
	perms    Permissions
	roles    Roles
	sections map[string]section

	// exact resolves without the fuzzy fallback, so existing roles are never mistaken for new ones.
	exact *resolver.Resolver
}

// NewConfigurator creates a new Configurator.
func NewConfigurator(l *slog.Logger, store Store, res *resolver.Resolver, perms Permissions, roles Roles) *Configurator {
	c := &Configurator{
		l:        l,
		store:    store,
		resolver: res,
		exact:    res.WithFuzzyDistance(0),
		perms:    perms,
		roles:    roles,
		sections: map[string]section{
			entities.SectionTeam:     configureTeam,
			entities.SectionWelcome:  configureWelcome,
			entities.SectionRegions:  configureRegions,
			entities.SectionCounters: configureCounters,
			entities.SectionArchive:  configureArchive,
			entities.SectionJoin:     configureJoin,
			entities.SectionAdmin:    configureAdmin,
		},
	}
	for name, desc := range reportDescriptors {
		c.sections[name] = reportSection(desc)
	}
	for name, desc := range channelDescriptors {
		c.sections[name] = channelSection(desc)
	}
	return c
}

// UnknownSectionsError is returned when a requested section does not exist.
type UnknownSectionsError struct {
	Names []string
}

func (e *UnknownSectionsError) Error() string {
	return fmt.Sprintf("unknown sections: %s", strings.Join(e.Names, ", "))
}

// ExpandSections turns the sections an administrator asked for into the ordered list to run.
// An empty request or the keyword "all" selects every section. Repeated names run once.
func ExpandSections(requested []string) ([]string, error) {
	var (
		out     []string
		unknown []string
		seen    = make(map[string]bool)
	)
	for _, name := range requested {
		name = strings.ToLower(strings.TrimSpace(name))
		switch {
		case name == "":
			continue
		case name == AllSections:
			return append([]string(nil), entities.SectionNames...), nil
		case !entities.IsSection(name):
			unknown = append(unknown, name)
		case !seen[name]:
			seen[name] = true
			out = append(out, name)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, &UnknownSectionsError{Names: unknown}
	}
	if len(out) == 0 {
		return append([]string(nil), entities.SectionNames...), nil
	}
	return out, nil
}
