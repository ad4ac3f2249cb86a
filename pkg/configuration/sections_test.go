package configuration

import (
	"errors"
	"strings"
	"testing"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/prompt"
	"github.com/stretchr/testify/require"
)

func TestParseLevels(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  []string
	}{
		{name: "levels and ex", reply: "3,4,5,ex", want: []string{"3", "4", "5", "EX"}},
		{name: "keeps order", reply: "EX, 1, 5", want: []string{"EX", "1", "5"}},
		{name: "drops repeats", reply: "5, 05, 5, Ex, EX", want: []string{"5", "EX"}},
		{name: "drops invalid", reply: "0, 6, 7, abc, 2", want: []string{"2"}},
		{name: "nothing valid", reply: "7,abc", want: nil},
		{name: "empty", reply: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, parseLevels(tt.reply))
		})
	}
}

func TestCounters(t *testing.T) {
	tests := []struct {
		name        string
		replies     []string
		wantEnabled bool
		wantLevels  []string
		wantPrompts int
	}{
		{
			name:        "levels",
			replies:     []string{"3,4,5,ex"},
			wantEnabled: true,
			wantLevels:  []string{"3", "4", "5", "EX"},
			wantPrompts: 1,
		},
		{
			name:        "no valid level re-prompts",
			replies:     []string{"7,abc", "5"},
			wantEnabled: true,
			wantLevels:  []string{"5"},
			wantPrompts: 2,
		},
		{
			name:        "disable",
			replies:     []string{"n"},
			wantEnabled: false,
			wantPrompts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			working := entities.NewSettings(testGuildID)

			conv, err := f.runSection(t, entities.SectionCounters, working, tt.replies...)
			require.NoError(t, err)
			require.Len(t, conv.prompts, tt.wantPrompts)
			require.Equal(t, tt.wantEnabled, working.Counters.Enabled)
			if tt.wantEnabled {
				require.Equal(t, tt.wantLevels, working.Counters.AutoLevels)
			}
		})
	}
}

func TestCounters_EmptySetNeverCommitted(t *testing.T) {
	f := newFixture()
	working := entities.NewSettings(testGuildID)

	conv, err := f.runSection(t, entities.SectionCounters, working, "7,abc", "cancel")
	require.ErrorIs(t, err, prompt.ErrCancelled)
	require.NotEmpty(t, conv.toldContaining(`"7,abc"`))
	require.False(t, working.Counters.Enabled)
	require.Empty(t, working.Counters.AutoLevels)
}

func TestArchive(t *testing.T) {
	tests := []struct {
		name         string
		replies      []string
		wantEnabled  bool
		wantCategory string
		wantList     []string
	}{
		{
			name:         "same category with phrases",
			replies:      []string{"same", "spoofing, gps"},
			wantEnabled:  true,
			wantCategory: entities.ArchiveCategorySame,
			wantList:     []string{"spoofing", "gps"},
		},
		{
			name:         "named category without phrases",
			replies:      []string{"raid reports", "none"},
			wantEnabled:  true,
			wantCategory: "100",
			wantList:     []string{},
		},
		{
			name:         "phrases are lower cased",
			replies:      []string{"106", "Spoofing,  GPS Joystick "},
			wantEnabled:  true,
			wantCategory: "106",
			wantList:     []string{"spoofing", "gps joystick"},
		},
		{
			name:         "unknown category re-prompts",
			replies:      []string{"somewhere else entirely", "same", "none"},
			wantEnabled:  true,
			wantCategory: entities.ArchiveCategorySame,
			wantList:     []string{},
		},
		{
			name:         "disable",
			replies:      []string{"N"},
			wantEnabled:  false,
			wantCategory: entities.ArchiveCategorySame,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			working := entities.NewSettings(testGuildID)

			_, err := f.runSection(t, entities.SectionArchive, working, tt.replies...)
			require.NoError(t, err)
			require.Equal(t, tt.wantEnabled, working.Archive.Enabled)
			require.Equal(t, tt.wantCategory, working.Archive.Category)
			if tt.wantEnabled {
				require.Equal(t, tt.wantList, working.Archive.List)
			}
		})
	}
}

func TestNormalizeInvite(t *testing.T) {
	tests := []struct {
		link   string
		want   string
		wantOk bool
	}{
		{link: "https://discord.gg/abc123", want: "https://discord.gg/abc123", wantOk: true},
		{link: "discord.gg/abc123", want: "https://discord.gg/abc123", wantOk: true},
		{link: "http://discord.gg/abc123", want: "https://discord.gg/abc123", wantOk: true},
		{link: "https://discord.com/invite/abc123", want: "https://discord.com/invite/abc123", wantOk: true},
		{link: "https://discordapp.com/invite/abc123", want: "https://discordapp.com/invite/abc123", wantOk: true},
		{link: "https://discord.gg/", wantOk: false},
		{link: "https://discord.com/abc123", wantOk: false},
		{link: "https://example.com/abc123", wantOk: false},
		{link: "ftp://discord.gg/abc123", wantOk: false},
		{link: "hello", wantOk: false},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, ok := normalizeInvite(tt.link)
			require.Equal(t, tt.wantOk, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestJoin(t *testing.T) {
	f := newFixture()
	working := entities.NewSettings(testGuildID)

	conv, err := f.runSection(t, entities.SectionJoin, working, "https://example.com/abc", "discord.gg/kyogre")
	require.NoError(t, err)
	require.NotEmpty(t, conv.toldContaining(`"https://example.com/abc"`))
	require.True(t, working.Join.Enabled)
	require.Equal(t, "https://discord.gg/kyogre", working.Join.Link)

	_, err = f.runSection(t, entities.SectionJoin, working, "n")
	require.NoError(t, err)
	require.False(t, working.Join.Enabled)
}

func TestWelcome(t *testing.T) {
	tests := []struct {
		name        string
		replies     []string
		wantEnabled bool
		wantChannel string
		wantMessage string
	}{
		{
			name:        "custom message by dm",
			replies:     []string{"y", "Welcome {@member}!", "dm"},
			wantEnabled: true,
			wantChannel: entities.WelcomeChannelDM,
			wantMessage: "Welcome {@member}!",
		},
		{
			name:        "default message in a channel",
			replies:     []string{"Y", "n", "general"},
			wantEnabled: true,
			wantChannel: "104",
			wantMessage: entities.WelcomeMessageDefault,
		},
		{
			name:        "message too long",
			replies:     []string{"y", strings.Repeat("a", maxWelcomeLength+1), strings.Repeat("a", maxWelcomeLength), "dm"},
			wantEnabled: true,
			wantChannel: entities.WelcomeChannelDM,
			wantMessage: strings.Repeat("a", maxWelcomeLength),
		},
		{
			name:        "unknown channel re-prompts",
			replies:     []string{"y", "n", "lobby of doom", "general"},
			wantEnabled: true,
			wantChannel: "104",
			wantMessage: entities.WelcomeMessageDefault,
		},
		{
			name:        "unclear enablement re-prompts",
			replies:     []string{"maybe", "n"},
			wantEnabled: false,
			wantChannel: entities.WelcomeChannelDM,
			wantMessage: entities.WelcomeMessageDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			working := entities.NewSettings(testGuildID)

			conv, err := f.runSection(t, entities.SectionWelcome, working, tt.replies...)
			require.NoError(t, err)
			require.Len(t, conv.prompts, len(tt.replies))
			require.Equal(t, tt.wantEnabled, working.Welcome.Enabled)
			require.Equal(t, tt.wantChannel, working.Welcome.Channel)
			require.Equal(t, tt.wantMessage, working.Welcome.Message)
		})
	}
}

func TestTeam_DefaultRoles(t *testing.T) {
	f := newFixture()
	working := entities.NewSettings(testGuildID)

	_, err := f.runSection(t, entities.SectionTeam, working, "y")
	require.NoError(t, err)

	require.Equal(t, []string{"mystic", "instinct"}, f.roles.created)
	require.True(t, working.Team.Enabled)
	require.Equal(t, map[string]string{
		"mystic":   "901",
		"valor":    "201",
		"instinct": "902",
	}, working.Team.Roles)
}

func TestTeam_CustomRoles(t *testing.T) {
	f := newFixture()
	working := entities.NewSettings(testGuildID)

	conv, err := f.runSection(t, entities.SectionTeam, working,
		"Team Mystic, valor",
		"Team Mystic, Team Valor, Team Instinct",
	)
	require.NoError(t, err)

	require.NotEmpty(t, conv.toldContaining("teams (3)", "roles (2)"))
	require.Equal(t, []string{"Team Valor", "Team Instinct"}, f.roles.created)
	require.Equal(t, map[string]string{
		"mystic":   "200",
		"valor":    "901",
		"instinct": "902",
	}, working.Team.Roles)
}

func TestTeam_RoleCreationFails(t *testing.T) {
	f := newFixture()
	f.roles.err = errors.New("missing permissions")
	working := entities.NewSettings(testGuildID)

	_, err := f.runSection(t, entities.SectionTeam, working, "y")
	require.ErrorContains(t, err, "missing permissions")
	require.False(t, working.Team.Enabled)
	require.Empty(t, working.Team.Roles)
}

func TestRegions(t *testing.T) {
	f := newFixture()
	working := entities.NewSettings(testGuildID)

	conv, err := f.runSection(t, entities.SectionRegions, working,
		"Kansas City, Hull, hull",
		"Kansas  City, Hull",
		"kansas city mo",
		"kansas city mo, hull uk",
	)
	require.NoError(t, err)

	require.NotEmpty(t, conv.toldContaining("Regions given more than once: hull"))
	require.NotEmpty(t, conv.toldContaining("regions (2)", "locations (1)"))

	require.Equal(t, []string{"kansas city", "kansas city-raids", "hull", "hull-raids"}, f.roles.created)
	require.True(t, working.Regions.Enabled)
	require.Equal(t, map[string]entities.RegionInfo{
		"kansas city": {Location: "kansas city mo", RoleID: "901", RaidRoleID: "902"},
		"hull":        {Location: "hull uk", RoleID: "903", RaidRoleID: "904"},
	}, working.Regions.Info)
}

func TestRegions_Disable(t *testing.T) {
	f := newFixture()
	working := withRegions()

	_, err := f.runSection(t, entities.SectionRegions, working, "n")
	require.NoError(t, err)
	require.False(t, working.Regions.Enabled)
	require.Empty(t, f.roles.created)
}

func TestAdmin(t *testing.T) {
	tests := []struct {
		name         string
		replies      []string
		wantEnabled  bool
		wantPrefix   string
		wantOffset   float64
		wantChannels []string
	}{
		{
			name:        "keep everything",
			replies:     []string{"skip", "skip", "n"},
			wantEnabled: false,
			wantPrefix:  entities.DefaultPrefix,
		},
		{
			name:         "change everything",
			replies:      []string{"??????", "? x", "?", "15", "east", "-5.5", "general, general"},
			wantEnabled:  true,
			wantPrefix:   "?",
			wantOffset:   -5.5,
			wantChannels: []string{"104"},
		},
		{
			name:        "offset bounds",
			replies:     []string{"skip", "-12", "n"},
			wantEnabled: false,
			wantPrefix:  entities.DefaultPrefix,
			wantOffset:  -12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			working := entities.NewSettings(testGuildID)

			conv, err := f.runSection(t, entities.SectionAdmin, working, tt.replies...)
			require.NoError(t, err)
			require.Len(t, conv.prompts, len(tt.replies))
			require.Equal(t, tt.wantEnabled, working.Admin.Enabled)
			require.Equal(t, tt.wantPrefix, working.Admin.Prefix)
			require.Equal(t, tt.wantOffset, working.Admin.Offset)
			if tt.wantEnabled {
				require.Equal(t, tt.wantChannels, working.Admin.CommandChannels)
			}
		})
	}
}

func TestChannelSections(t *testing.T) {
	for _, name := range []string{entities.SectionSubscriptions, entities.SectionPvP, entities.SectionTrade} {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			working := entities.NewSettings(testGuildID)

			_, err := f.runSection(t, name, working, "kansas-city-raids, <#102>, kansas-city-raids")
			require.NoError(t, err)

			cfg, err := working.Channels(name)
			require.NoError(t, err)
			require.True(t, cfg.Enabled)
			require.Equal(t, []string{"101", "102"}, cfg.ReportChannels)
			require.Equal(t, []string{"101", "102"}, f.perms.granted)

			_, err = f.runSection(t, name, working, "n")
			require.NoError(t, err)
			require.False(t, working.Enabled(name))
		})
	}
}
