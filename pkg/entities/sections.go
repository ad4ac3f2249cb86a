package entities

const (
	SectionTeam          = "team"
	SectionWelcome       = "welcome"
	SectionRegions       = "regions"
	SectionRaid          = "raid"
	SectionExRaid        = "exraid"
	SectionWild          = "wild"
	SectionResearch      = "research"
	SectionLure          = "lure"
	SectionMeetup        = "meetup"
	SectionCounters      = "counters"
	SectionArchive       = "archive"
	SectionSubscriptions = "subscriptions"
	SectionPvP           = "pvp"
	SectionJoin          = "join"
	SectionTrade         = "trade"
	SectionAdmin         = "admin"
)

// SectionNames is every section in the order a full configuration run visits them.
// Regions come before the reporting sections because those read the configured regions.
var SectionNames = []string{
	SectionTeam,
	SectionWelcome,
	SectionRegions,
	SectionRaid,
	SectionExRaid,
	SectionWild,
	SectionResearch,
	SectionLure,
	SectionMeetup,
	SectionCounters,
	SectionArchive,
	SectionSubscriptions,
	SectionPvP,
	SectionJoin,
	SectionTrade,
	SectionAdmin,
}

// IsSection reports whether name is a known section.
func IsSection(name string) bool {
	for _, s := range SectionNames {
		if s == name {
			return true
		}
	}
	return false
}

// CategoryMode is where report channels created for a section are placed.
type CategoryMode string

const (
	// CategoryNone leaves created channels outside any category.
	CategoryNone CategoryMode = "none"

	// CategorySame places created channels in the report channel's category.
	CategorySame CategoryMode = "same"

	// CategoryByRegion places created channels in a category chosen per report channel.
	CategoryByRegion CategoryMode = "by-region"

	// CategoryByLevel places created channels in a category chosen per raid level.
	CategoryByLevel CategoryMode = "by-level"
)

const (
	// ExRaidPermissionsEveryone lets everyone see ex-raid channels.
	ExRaidPermissionsEveryone = "everyone"

	// ExRaidPermissionsSame copies the report channel's permissions to ex-raid channels.
	ExRaidPermissionsSame = "same"
)

const (
	// WelcomeChannelDM sends welcome messages as a direct message.
	WelcomeChannelDM = "dm"

	// WelcomeMessageDefault uses the built-in welcome message.
	WelcomeMessageDefault = "default"

	// ArchiveCategorySame archives channels in place.
	ArchiveCategorySame = "same"

	// DefaultPrefix is the command prefix of a new guild.
	DefaultPrefix = "!"
)

// Teams are the Pokémon GO teams in role order.
var Teams = []string{"mystic", "valor", "instinct"}

// RaidLevels are the raid tiers that can be given their own category.
var RaidLevels = []string{"1", "2", "3", "4", "5"}
