package resolver

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/agnivade/levenshtein"
)

// ErrNotFound is returned when no entity matches a token.
var ErrNotFound = errors.New("not found")

// Kind is the kind of guild entity a token resolves to.
type Kind int

const (
	KindTextChannel Kind = iota
	KindRole
	KindCategory
)

func (k Kind) String() string {
	switch k {
	case KindTextChannel:
		return "text channel"
	case KindRole:
		return "role"
	case KindCategory:
		return "category"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Entity is a resolved channel, role or category.
type Entity struct {
	ID   string
	Name string
	Kind Kind
}

// Directory gives read access to the live entities of a guild.
type Directory interface {
	// Channels returns every channel of the guild, categories included.
	Channels(ctx context.Context, guildID string) ([]*discordgo.Channel, error)

	// Roles returns every role of the guild.
	Roles(ctx context.Context, guildID string) ([]*discordgo.Role, error)
}

var (
	// disallowedChars is everything a name keeps out after normalization.
	disallowedChars = regexp.MustCompile(`[^\p{L}\p{N} _-]`)

	// spaces is a run of whitespace.
	spaces = regexp.MustCompile(`\s+`)

	// mention matches a channel or role mention such as <#123> or <@&123>.
	mention = regexp.MustCompile(`^<(?:#|@&)(\d+)>$`)

	// numeric is a token made only of digits.
	numeric = regexp.MustCompile(`^\d+$`)
)

// DefaultFuzzyDistance is the largest edit distance the fuzzy fallback accepts.
const DefaultFuzzyDistance = 2

// Resolver maps free text typed by a user to entities of a guild.
type Resolver struct {
	dir Directory

	// fuzzyDistance is the largest edit distance accepted when no name matches exactly. Zero disables it.
	fuzzyDistance int
}

// New creates a resolver with the default fuzzy fallback.
func New(dir Directory) *Resolver {
	return &Resolver{
		dir:           dir,
		fuzzyDistance: DefaultFuzzyDistance,
	}
}

// WithFuzzyDistance returns a copy of the resolver using distance for the fuzzy fallback.
func (r *Resolver) WithFuzzyDistance(distance int) *Resolver {
	c := *r
	c.fuzzyDistance = distance
	return &c
}

// Normalize turns a name into the form channel names take: punctuation is dropped,
// whitespace becomes a hyphen and everything is lower case.
func Normalize(name string) string {
	name = disallowedChars.ReplaceAllString(name, "")
	name = spaces.ReplaceAllString(strings.TrimSpace(name), "-")
	return strings.ToLower(name)
}

// Resolve finds the entity of the given kind that token names.
func (r *Resolver) Resolve(ctx context.Context, guildID string, kind Kind, token string) (*Entity, error) {
	candidates, err := r.entities(ctx, guildID, kind)
	if err != nil {
		return nil, err
	}
	return match(candidates, token, r.fuzzyDistance)
}

// ResolveAll resolves every token against a single fetch of the guild's entities.
// Resolved entities keep the order of their tokens. Every token that could not be
// resolved is returned in unmatched.
func (r *Resolver) ResolveAll(ctx context.Context, guildID string, kind Kind, tokens []string) (resolved []*Entity, unmatched []string, err error) {
	candidates, err := r.entities(ctx, guildID, kind)
	if err != nil {
		return nil, nil, err
	}

	for _, token := range tokens {
		e, err := match(candidates, token, r.fuzzyDistance)
		if errors.Is(err, ErrNotFound) {
			unmatched = append(unmatched, token)
			continue
		} else if err != nil {
			return nil, nil, err
		}
		resolved = append(resolved, e)
	}
	return resolved, unmatched, nil
}

func (r *Resolver) entities(ctx context.Context, guildID string, kind Kind) ([]*Entity, error) {
	switch kind {
	case KindRole:
		roles, err := r.dir.Roles(ctx, guildID)
		if err != nil {
			return nil, fmt.Errorf("error getting roles: %w", err)
		}
		out := make([]*Entity, 0, len(roles))
		for _, role := range roles {
			out = append(out, &Entity{ID: role.ID, Name: role.Name, Kind: KindRole})
		}
		return out, nil
	case KindTextChannel, KindCategory:
		channels, err := r.dir.Channels(ctx, guildID)
		if err != nil {
			return nil, fmt.Errorf("error getting channels: %w", err)
		}
		out := make([]*Entity, 0, len(channels))
		for _, ch := range channels {
			if channelKind(ch) != kind {
				continue
			}
			out = append(out, &Entity{ID: ch.ID, Name: ch.Name, Kind: kind})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown kind %s", kind)
	}
}

func channelKind(ch *discordgo.Channel) Kind {
	switch ch.Type {
	case discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews:
		return KindTextChannel
	case discordgo.ChannelTypeGuildCategory:
		return KindCategory
	default:
		return -1
	}
}

func match(candidates []*Entity, token string, fuzzyDistance int) (*Entity, error) {
	token = strings.TrimSpace(token)
	if m := mention.FindStringSubmatch(token); m != nil {
		for _, e := range candidates {
			if e.ID == m[1] {
				return e, nil
			}
		}
		return nil, ErrNotFound
	}

	// A numeric token is an ID first. Names made of digits only match exactly.
	isNumeric := numeric.MatchString(token)
	if isNumeric {
		for _, e := range candidates {
			if e.ID == token {
				return e, nil
			}
		}
	}

	want := Normalize(token)
	if want == "" {
		return nil, ErrNotFound
	}

	for _, e := range candidates {
		if Normalize(e.Name) == want {
			return e, nil
		}
	}

	if fuzzyDistance <= 0 || isNumeric {
		return nil, ErrNotFound
	}

	// Only accept a fuzzy match when exactly one name is the closest. Entities sharing
	// that name resolve to the first of them, as an exact match does.
	var (
		best     *Entity
		bestName string
		bestDist = fuzzyDistance + 1
		tied     bool
	)
	for _, e := range candidates {
		name := Normalize(e.Name)
		d := levenshtein.ComputeDistance(want, name)
		switch {
		case d < bestDist:
			best, bestName, bestDist, tied = e, name, d, false
		case d == bestDist && best != nil && name != bestName:
			tied = true
		}
	}
	if best == nil || tied {
		return nil, ErrNotFound
	}
	return best, nil
}
