package resolver

import (
	"context"
	"errors"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	channels []*discordgo.Channel
	roles    []*discordgo.Role
	err      error
}

func (f *fakeDirectory) Channels(_ context.Context, _ string) ([]*discordgo.Channel, error) {
	return f.channels, f.err
}

func (f *fakeDirectory) Roles(_ context.Context, _ string) ([]*discordgo.Role, error) {
	return f.roles, f.err
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		channels: []*discordgo.Channel{
			{ID: "100", Name: "Raid Reports", Type: discordgo.ChannelTypeGuildCategory},
			{ID: "101", Name: "kansas-city-raids", Type: discordgo.ChannelTypeGuildText},
			{ID: "102", Name: "hull-raids", Type: discordgo.ChannelTypeGuildText},
			{ID: "103", Name: "hull-raids", Type: discordgo.ChannelTypeGuildText},
			{ID: "104", Name: "voice", Type: discordgo.ChannelTypeGuildVoice},
			{ID: "105", Name: "announcements", Type: discordgo.ChannelTypeGuildNews},
			{ID: "106", Name: "Ex Raids!", Type: discordgo.ChannelTypeGuildCategory},
			{ID: "107", Name: "2024", Type: discordgo.ChannelTypeGuildText},
		},
		roles: []*discordgo.Role{
			{ID: "200", Name: "Team Mystic"},
			{ID: "201", Name: "valor"},
		},
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Kansas City Raids", want: "kansas-city-raids"},
		{in: "  hull   raids ", want: "hull-raids"},
		{in: "Ex Raids!", want: "ex-raids"},
		{in: "trade_chat", want: "trade_chat"},
		{in: "🐉 dragons", want: "dragons"},
		{in: "!!!", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestResolve(t *testing.T) {
	r := New(newFakeDirectory())
	ctx := context.Background()

	tests := []struct {
		name    string
		kind    Kind
		token   string
		wantID  string
		wantErr error
	}{
		{name: "ByID", kind: KindTextChannel, token: "102", wantID: "102"},
		{name: "ByMention", kind: KindTextChannel, token: "<#101>", wantID: "101"},
		{name: "RoleMention", kind: KindRole, token: "<@&201>", wantID: "201"},
		{name: "IDOfOtherKind", kind: KindTextChannel, token: "100", wantErr: ErrNotFound},
		{name: "ByNameCaseInsensitive", kind: KindTextChannel, token: "Kansas City Raids", wantID: "101"},
		{name: "DuplicateNamesPickFirst", kind: KindTextChannel, token: "hull-raids", wantID: "102"},
		{name: "NewsIsText", kind: KindTextChannel, token: "announcements", wantID: "105"},
		{name: "VoiceIsNotText", kind: KindTextChannel, token: "voice", wantErr: ErrNotFound},
		{name: "Category", kind: KindCategory, token: "raid reports", wantID: "100"},
		{name: "CategoryPunctuation", kind: KindCategory, token: "ex raids", wantID: "106"},
		{name: "RoleWithSpaces", kind: KindRole, token: "team mystic", wantID: "200"},
		{name: "FuzzyTypo", kind: KindTextChannel, token: "kansas-city-raid", wantID: "101"},
		{name: "FuzzyDuplicateNamesPickFirst", kind: KindTextChannel, token: "hull-raid", wantID: "102"},
		{name: "NumericName", kind: KindTextChannel, token: "2024", wantID: "107"},
		{name: "NumericNameNotFuzzy", kind: KindTextChannel, token: "2025", wantErr: ErrNotFound},
		{name: "MentionNeverMatchesName", kind: KindTextChannel, token: "<#2024>", wantErr: ErrNotFound},
		{name: "TooFar", kind: KindTextChannel, token: "leeds-raids", wantErr: ErrNotFound},
		{name: "Empty", kind: KindTextChannel, token: "   ", wantErr: ErrNotFound},
		{name: "UnknownID", kind: KindRole, token: "999", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(ctx, "guild", tt.kind, tt.token)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, got.ID)
			require.Equal(t, tt.kind, got.Kind)
		})
	}
}

func TestResolveFuzzyDisabled(t *testing.T) {
	r := New(newFakeDirectory()).WithFuzzyDistance(0)

	_, err := r.Resolve(context.Background(), "guild", KindTextChannel, "kansas-city-raid")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveFuzzyTie(t *testing.T) {
	dir := &fakeDirectory{
		channels: []*discordgo.Channel{
			{ID: "1", Name: "raid-a", Type: discordgo.ChannelTypeGuildText},
			{ID: "2", Name: "raid-b", Type: discordgo.ChannelTypeGuildText},
		},
	}

	_, err := New(dir).Resolve(context.Background(), "guild", KindTextChannel, "raid-c")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveRoundTrip(t *testing.T) {
	dir := newFakeDirectory()
	r := New(dir)

	for _, ch := range dir.channels {
		kind := channelKind(ch)
		if kind != KindTextChannel && kind != KindCategory {
			continue
		}

		t.Run(ch.Name, func(t *testing.T) {
			got, err := r.Resolve(context.Background(), "guild", kind, Normalize(ch.Name))
			require.NoError(t, err)
			require.Equal(t, Normalize(ch.Name), Normalize(got.Name))

			// Duplicate names resolve to the first channel with the name.
			if ch.ID != "103" {
				require.Equal(t, ch.ID, got.ID)
			}
		})
	}
}

func TestResolveAll(t *testing.T) {
	r := New(newFakeDirectory())

	resolved, unmatched, err := r.ResolveAll(context.Background(), "guild", KindTextChannel,
		[]string{"hull-raids", "nowhere", "101", "somewhere-else"})
	require.NoError(t, err)
	require.Equal(t, []string{"nowhere", "somewhere-else"}, unmatched)
	require.Len(t, resolved, 2)
	require.Equal(t, "102", resolved[0].ID)
	require.Equal(t, "101", resolved[1].ID)
}

func TestResolveDirectoryError(t *testing.T) {
	dir := newFakeDirectory()
	dir.err = errors.New("boom")

	_, err := New(dir).Resolve(context.Background(), "guild", KindRole, "valor")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)

	_, _, err = New(dir).ResolveAll(context.Background(), "guild", KindTextChannel, []string{"x"})
	require.Error(t, err)
}
