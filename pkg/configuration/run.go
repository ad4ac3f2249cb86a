package configuration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/logging"
	"github.com/Jacobbrewer1/kyogre/pkg/resolver"
)

// Replies understood by more than one section.
const (
	replyNo   = "n"
	replyYes  = "y"
	replyNone = "none"
	replySame = "same"
	replySkip = "skip"
)

// run is the state of one configuration session.
type run struct {
	*Configurator

	guildID string
	conv    Conversation
	l       *slog.Logger

	// working is the uncommitted copy every section writes to.
	working *entities.Settings
}

func (r *run) ask(ctx context.Context, prompt string) (string, error) {
	return r.conv.Ask(ctx, prompt)
}

func (r *run) tell(ctx context.Context, format string, args ...any) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	if err := r.conv.Tell(ctx, msg); err != nil {
		return fmt.Errorf("error sending message: %w", err)
	}
	return nil
}

// splitList splits a comma separated reply, dropping blank items.
func splitList(reply string) []string {
	parts := strings.Split(reply, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// is reports whether the reply is one of the words, ignoring case.
func is(reply string, words ...string) bool {
	for _, w := range words {
		if strings.EqualFold(strings.TrimSpace(reply), w) {
			return true
		}
	}
	return false
}

// resolveEach resolves every item of a list, keeping order and repeats. When any item
// cannot be resolved the administrator is told about every one of them and ok is false.
func (r *run) resolveEach(ctx context.Context, kind resolver.Kind, tokens []string) (out []*resolver.Entity, ok bool, err error) {
	if len(tokens) == 0 {
		return nil, false, r.tell(ctx, "I couldn't see any %s in your reply. Please try again.", plural(kind))
	}

	resolved, unmatched, err := r.resolver.ResolveAll(ctx, r.guildID, kind, tokens)
	if err != nil {
		return nil, false, fmt.Errorf("error resolving %s: %w", plural(kind), err)
	}

	if len(unmatched) > 0 {
		return nil, false, r.tell(ctx, "I couldn't find the following %s in this server: %s\nCheck the spelling, or use their IDs, and try again.",
			plural(kind), strings.Join(unmatched, ", "))
	}
	return resolved, true, nil
}

// resolveList resolves a comma separated reply into a set of entities.
func (r *run) resolveList(ctx context.Context, kind resolver.Kind, reply string) ([]*resolver.Entity, bool, error) {
	resolved, ok, err := r.resolveEach(ctx, kind, splitList(reply))
	if !ok || err != nil {
		return nil, ok, err
	}

	out := make([]*resolver.Entity, 0, len(resolved))
	seen := make(map[string]bool, len(resolved))
	for _, e := range resolved {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out, true, nil
}

// grantAccess gives the bot access to the channels. Failures are reported to the
// administrator as a warning and do not stop the section.
func (r *run) grantAccess(ctx context.Context, channels []*resolver.Entity) error {
	var failed []string
	for _, ch := range channels {
		if err := r.perms.GrantBotAccess(ctx, ch.ID); err != nil {
			PermissionFailures.Inc()
			r.l.Warn("Could not set channel permissions",
				slog.String("channel_id", ch.ID),
				slog.String(logging.KeyError, err.Error()),
			)
			failed = append(failed, "#"+ch.Name)
		}
	}

	if len(failed) == 0 {
		return nil
	}
	return r.tell(ctx, "Warning: I couldn't update my permissions in %s. Make sure I can read, send messages and manage roles there.",
		strings.Join(failed, ", "))
}

// ensureRole returns the ID of the role with exactly this name, creating it when missing.
func (r *run) ensureRole(ctx context.Context, name string) (string, error) {
	e, err := r.exact.Resolve(ctx, r.guildID, resolver.KindRole, name)
	if err == nil {
		return e.ID, nil
	} else if !errors.Is(err, resolver.ErrNotFound) {
		return "", fmt.Errorf("error resolving role %s: %w", name, err)
	}

	role, err := r.roles.CreateRole(ctx, r.guildID, name)
	if err != nil {
		return "", fmt.Errorf("error creating role %s: %w", name, err)
	}

	r.l.Info("Role created", slog.String("role", name), slog.String("role_id", role.ID))
	return role.ID, nil
}

// mismatch describes two lists that should have been the same length.
func mismatch(leftName string, left []string, rightName string, right []string) string {
	return fmt.Sprintf("The number of %s (%d) doesn't match the number of %s (%d).\n%s: %s\n%s: %s\nPlease try again.",
		leftName, len(left), rightName, len(right),
		leftName, strings.Join(left, ", "),
		rightName, strings.Join(right, ", "),
	)
}

// regionName is the canonical form of a region name.
func regionName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// regionNames returns the regions of the working copy, sorted.
func (r *run) regionNames() []string {
	names := r.working.Regions.Names()
	sort.Strings(names)
	return names
}

func plural(k resolver.Kind) string {
	if k == resolver.KindCategory {
		return "categories"
	}
	return k.String() + "s"
}

func entityNames(es []*resolver.Entity) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.Name)
	}
	return out
}

func entityIDs(es []*resolver.Entity) []string {
	out := make([]string, 0, len(es))
	for _, e := range es {
		out = append(out, e.ID)
	}
	return out
}
