package configuration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/prompt"
	"github.com/Jacobbrewer1/kyogre/pkg/resolver"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

const testGuildID = "guild-1"

// fakeConversation answers prompts from a script. Once the script runs out it times out.
type fakeConversation struct {
	replies []string
	prompts []string
	told    []string

	// tellErr fails every Tell once set.
	tellErr error
}

func newConversation(replies ...string) *fakeConversation {
	return &fakeConversation{replies: replies}
}

func (f *fakeConversation) Ask(_ context.Context, p string) (string, error) {
	f.prompts = append(f.prompts, p)
	if len(f.replies) == 0 {
		return "", prompt.ErrTimeout
	}

	reply := f.replies[0]
	f.replies = f.replies[1:]
	if strings.EqualFold(strings.TrimSpace(reply), prompt.CancelKeyword) {
		return "", prompt.ErrCancelled
	}
	return reply, nil
}

func (f *fakeConversation) Tell(_ context.Context, msg string) error {
	if f.tellErr != nil {
		return f.tellErr
	}
	f.told = append(f.told, msg)
	return nil
}

func (f *fakeConversation) lastTold() string {
	if len(f.told) == 0 {
		return ""
	}
	return f.told[len(f.told)-1]
}

// toldContaining returns the first message that contains every part.
func (f *fakeConversation) toldContaining(parts ...string) string {
next:
	for _, msg := range f.told {
		for _, p := range parts {
			if !strings.Contains(msg, p) {
				continue next
			}
		}
		return msg
	}
	return ""
}

type fakeDirectory struct {
	mtx      sync.Mutex
	channels []*discordgo.Channel
	roles    []*discordgo.Role
}

func (f *fakeDirectory) Channels(_ context.Context, _ string) ([]*discordgo.Channel, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return append([]*discordgo.Channel(nil), f.channels...), nil
}

func (f *fakeDirectory) Roles(_ context.Context, _ string) ([]*discordgo.Role, error) {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return append([]*discordgo.Role(nil), f.roles...), nil
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		channels: []*discordgo.Channel{
			{ID: "100", Name: "Raid Reports", Type: discordgo.ChannelTypeGuildCategory},
			{ID: "101", Name: "kansas-city-raids", Type: discordgo.ChannelTypeGuildText},
			{ID: "102", Name: "hull-raids", Type: discordgo.ChannelTypeGuildText},
			{ID: "103", Name: "hull-raids", Type: discordgo.ChannelTypeGuildText},
			{ID: "104", Name: "general", Type: discordgo.ChannelTypeGuildText},
			{ID: "106", Name: "Ex Raids!", Type: discordgo.ChannelTypeGuildCategory},
		},
		roles: []*discordgo.Role{
			{ID: "200", Name: "Team Mystic"},
			{ID: "201", Name: "valor"},
		},
	}
}

// fakeRoles creates roles in the fake directory so later lookups find them.
type fakeRoles struct {
	dir     *fakeDirectory
	created []string
	err     error
}

func (f *fakeRoles) CreateRole(_ context.Context, _, name string) (*discordgo.Role, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.created = append(f.created, name)
	role := &discordgo.Role{ID: fmt.Sprintf("9%02d", len(f.created)), Name: name}

	f.dir.mtx.Lock()
	f.dir.roles = append(f.dir.roles, role)
	f.dir.mtx.Unlock()
	return role, nil
}

type fakePermissions struct {
	granted []string
	fail    map[string]bool
}

func (f *fakePermissions) GrantBotAccess(_ context.Context, channelID string) error {
	if f.fail[channelID] {
		return errors.New("missing access")
	}
	f.granted = append(f.granted, channelID)
	return nil
}

type fakeStore struct {
	docs       map[string]*entities.Settings
	replaced   int
	getErr     error
	replaceErr error
}

func newFakeStore(docs ...*entities.Settings) *fakeStore {
	s := &fakeStore{docs: make(map[string]*entities.Settings)}
	for _, d := range docs {
		s.docs[d.GuildID] = d.Clone()
	}
	return s
}

func (f *fakeStore) GetSettings(_ context.Context, guildID string) (*entities.Settings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.docs[guildID]
	if !ok {
		return nil, fmt.Errorf("settings for %s: %w", guildID, mongo.ErrNoDocuments)
	}
	return doc.Clone(), nil
}

func (f *fakeStore) ReplaceSettings(_ context.Context, settings *entities.Settings) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.replaced++
	f.docs[settings.GuildID] = settings.Clone()
	return nil
}

type fixture struct {
	dir   *fakeDirectory
	roles *fakeRoles
	perms *fakePermissions
	store *fakeStore
	c     *Configurator
}

func newFixture(docs ...*entities.Settings) *fixture {
	dir := newFakeDirectory()
	f := &fixture{
		dir:   dir,
		roles: &fakeRoles{dir: dir},
		perms: &fakePermissions{fail: make(map[string]bool)},
		store: newFakeStore(docs...),
	}
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.c = NewConfigurator(l, f.store, resolver.New(dir), f.perms, f.roles)
	return f
}

// runSection runs one section against working and returns the conversation it had.
func (f *fixture) runSection(t *testing.T, name string, working *entities.Settings, replies ...string) (*fakeConversation, error) {
	t.Helper()

	fn, ok := f.c.sections[name]
	require.True(t, ok, "no section %s", name)

	conv := newConversation(replies...)
	r := &run{
		Configurator: f.c,
		guildID:      testGuildID,
		conv:         conv,
		l:            f.c.l,
		working:      working,
	}
	return conv, fn(context.Background(), r)
}

// withRegions returns a document with the kansas city and hull regions enabled.
func withRegions() *entities.Settings {
	s := entities.NewSettings(testGuildID)
	s.Regions.Enabled = true
	s.Regions.Info = map[string]entities.RegionInfo{
		"kansas city": {Location: "kansas city mo", RoleID: "300", RaidRoleID: "301"},
		"hull":        {Location: "hull uk", RoleID: "302", RaidRoleID: "303"},
	}
	return s
}
