package entities

import (
	"fmt"
	"time"
)

// Settings is the configuration document for a guild.
// A section with Enabled set to false must not have its other fields read.
type Settings struct {
	// GuildID is the ID of the guild.
	GuildID string `json:"guild_id" bson:"guild_id"`

	Team          TeamConfig     `json:"team" bson:"team"`
	Welcome       WelcomeConfig  `json:"welcome" bson:"welcome"`
	Regions       RegionsConfig  `json:"regions" bson:"regions"`
	Raid          ReportConfig   `json:"raid" bson:"raid"`
	ExRaid        ReportConfig   `json:"exraid" bson:"exraid"`
	Wild          ReportConfig   `json:"wild" bson:"wild"`
	Research      ReportConfig   `json:"research" bson:"research"`
	Lure          ReportConfig   `json:"lure" bson:"lure"`
	Meetup        ReportConfig   `json:"meetup" bson:"meetup"`
	Counters      CountersConfig `json:"counters" bson:"counters"`
	Archive       ArchiveConfig  `json:"archive" bson:"archive"`
	Subscriptions ChannelsConfig `json:"subscriptions" bson:"subscriptions"`
	PvP           ChannelsConfig `json:"pvp" bson:"pvp"`
	Join          JoinConfig     `json:"join" bson:"join"`
	Trade         ChannelsConfig `json:"trade" bson:"trade"`
	Admin         AdminConfig    `json:"admin" bson:"admin"`

	// UpdatedAt is when the document was last committed.
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// TeamConfig is the team role configuration.
type TeamConfig struct {
	Enabled bool `json:"enabled" bson:"enabled"`

	// Roles maps a team name to its role ID.
	Roles map[string]string `json:"roles" bson:"roles"`
}

// WelcomeConfig is the welcome message configuration.
type WelcomeConfig struct {
	Enabled bool `json:"enabled" bson:"enabled"`

	// Channel is a channel ID or WelcomeChannelDM.
	Channel string `json:"channel" bson:"channel"`

	// Message is the custom message or WelcomeMessageDefault.
	Message string `json:"message" bson:"message"`
}

// RegionInfo is the reference data for one region.
type RegionInfo struct {
	// Location is the location label used when searching for gyms.
	Location string `json:"location" bson:"location"`

	// RoleID is the ID of the role members of the region get.
	RoleID string `json:"role_id" bson:"role_id"`

	// RaidRoleID is the ID of the role notified of raids in the region.
	RaidRoleID string `json:"raid_role_id" bson:"raid_role_id"`
}

// RegionsConfig is the region configuration other sections validate against.
type RegionsConfig struct {
	Enabled bool `json:"enabled" bson:"enabled"`

	// Info maps a region name to its reference data.
	Info map[string]RegionInfo `json:"info" bson:"info"`
}

// Names returns the configured region names in no particular order.
func (r *RegionsConfig) Names() []string {
	names := make([]string, 0, len(r.Info))
	for name := range r.Info {
		names = append(names, name)
	}
	return names
}

// ReportConfig is the configuration of a channel scoped reporting feature (raid, wild, research...).
type ReportConfig struct {
	Enabled bool `json:"enabled" bson:"enabled"`

	// ReportChannels maps a channel ID to the region name or location label reports in it belong to.
	ReportChannels map[string]string `json:"report_channels" bson:"report_channels"`

	// CategoryMode is where channels created from reports go.
	CategoryMode CategoryMode `json:"category_mode" bson:"category_mode"`

	// Categories maps a channel ID (by-region) or raid level (by-level) to a category ID.
	Categories map[string]string `json:"categories" bson:"categories"`

	// Permissions is the visibility of created channels. Only used by ex-raids.
	Permissions string `json:"permissions,omitempty" bson:"permissions,omitempty"`
}

// CountersConfig is the automatic counters configuration.
type CountersConfig struct {
	Enabled bool `json:"enabled" bson:"enabled"`

	// AutoLevels are the raid levels counters are generated for, in the order given.
	AutoLevels []string `json:"auto_levels" bson:"auto_levels"`
}

// ArchiveConfig is the channel archiving configuration.
type ArchiveConfig struct {
	Enabled bool `json:"enabled" bson:"enabled"`

	// Category is a category ID or ArchiveCategorySame.
	Category string `json:"category" bson:"category"`

	// List is the phrases that trigger an archive when found in a channel.
	List []string `json:"list" bson:"list"`
}

// ChannelsConfig is the configuration of a feature bound to a set of channels.
type ChannelsConfig struct {
	Enabled bool `json:"enabled" bson:"enabled"`

	// ReportChannels is the set of channel IDs.
	ReportChannels []string `json:"report_channels" bson:"report_channels"`
}

// JoinConfig is the invite link configuration.
type JoinConfig struct {
	Enabled bool `json:"enabled" bson:"enabled"`

	// Link is the invite link handed out by the join command.
	Link string `json:"link" bson:"link"`
}

// AdminConfig is the guild wide bot settings.
type AdminConfig struct {
	// Enabled restricts admin commands to CommandChannels.
	Enabled bool `json:"enabled" bson:"enabled"`

	// Prefix is the command prefix.
	Prefix string `json:"prefix" bson:"prefix"`

	// Offset is the guild's UTC offset in hours.
	Offset float64 `json:"offset" bson:"offset"`

	// CommandChannels are the channel IDs admin commands are accepted in.
	CommandChannels []string `json:"command_channels" bson:"command_channels"`
}

// NewSettings creates the document a guild gets when the bot joins it. Every section is disabled.
func NewSettings(guildID string) *Settings {
	s := &Settings{
		GuildID: guildID,
		Team:    TeamConfig{Roles: map[string]string{}},
		Welcome: WelcomeConfig{
			Channel: WelcomeChannelDM,
			Message: WelcomeMessageDefault,
		},
		Regions: RegionsConfig{Info: map[string]RegionInfo{}},
		Archive: ArchiveConfig{Category: ArchiveCategorySame},
		Admin:   AdminConfig{Prefix: DefaultPrefix},
	}
	for _, r := range s.reports() {
		*r = ReportConfig{
			ReportChannels: map[string]string{},
			CategoryMode:   CategoryNone,
			Categories:     map[string]string{},
		}
	}
	s.ExRaid.Permissions = ExRaidPermissionsEveryone
	return s
}

// Report returns the reporting section with the given name.
func (s *Settings) Report(name string) (*ReportConfig, error) {
	switch name {
	case SectionRaid:
		return &s.Raid, nil
	case SectionExRaid:
		return &s.ExRaid, nil
	case SectionWild:
		return &s.Wild, nil
	case SectionResearch:
		return &s.Research, nil
	case SectionLure:
		return &s.Lure, nil
	case SectionMeetup:
		return &s.Meetup, nil
	default:
		return nil, fmt.Errorf("%s is not a reporting section", name)
	}
}

// Channels returns the channel set section with the given name.
func (s *Settings) Channels(name string) (*ChannelsConfig, error) {
	switch name {
	case SectionSubscriptions:
		return &s.Subscriptions, nil
	case SectionPvP:
		return &s.PvP, nil
	case SectionTrade:
		return &s.Trade, nil
	default:
		return nil, fmt.Errorf("%s is not a channel section", name)
	}
}

// Enabled reports whether the named section is enabled.
func (s *Settings) Enabled(name string) bool {
	switch name {
	case SectionTeam:
		return s.Team.Enabled
	case SectionWelcome:
		return s.Welcome.Enabled
	case SectionRegions:
		return s.Regions.Enabled
	case SectionCounters:
		return s.Counters.Enabled
	case SectionArchive:
		return s.Archive.Enabled
	case SectionJoin:
		return s.Join.Enabled
	case SectionAdmin:
		return s.Admin.Enabled
	}
	if r, err := s.Report(name); err == nil {
		return r.Enabled
	}
	if c, err := s.Channels(name); err == nil {
		return c.Enabled
	}
	return false
}

func (s *Settings) reports() []*ReportConfig {
	return []*ReportConfig{&s.Raid, &s.ExRaid, &s.Wild, &s.Research, &s.Lure, &s.Meetup}
}

// Clone returns a deep copy of the document. Changes to the copy never reach s.
func (s *Settings) Clone() *Settings {
	c := *s
	c.Team.Roles = cloneMap(s.Team.Roles)

	c.Regions.Info = make(map[string]RegionInfo, len(s.Regions.Info))
	for k, v := range s.Regions.Info {
		c.Regions.Info[k] = v
	}

	for i, r := range c.reports() {
		src := s.reports()[i]
		r.ReportChannels = cloneMap(src.ReportChannels)
		r.Categories = cloneMap(src.Categories)
	}

	c.Counters.AutoLevels = cloneSlice(s.Counters.AutoLevels)
	c.Archive.List = cloneSlice(s.Archive.List)
	c.Subscriptions.ReportChannels = cloneSlice(s.Subscriptions.ReportChannels)
	c.PvP.ReportChannels = cloneSlice(s.PvP.ReportChannels)
	c.Trade.ReportChannels = cloneSlice(s.Trade.ReportChannels)
	c.Admin.CommandChannels = cloneSlice(s.Admin.CommandChannels)
	return &c
}

func cloneMap(m map[string]string) map[string]string {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

func cloneSlice(s []string) []string {
	if s == nil {
		return nil
	}
	c := make([]string, len(s))
	copy(c, s)
	return c
}
