package configuration

import (
	"context"
	"net/url"
	"strings"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
)

// inviteHosts are the hosts a Discord invite link can point at.
var inviteHosts = map[string]string{
	"discord.gg":      "/",
	"discord.com":     "/invite/",
	"discordapp.com":  "/invite/",
	"www.discord.com": "/invite/",
}

func configureJoin(ctx context.Context, r *run) error {
	draft := r.working.Join

	m := newMachine(r.l, entities.SectionJoin, map[state]stateFn{
		stateAwaitLink: func(ctx context.Context) (state, error) {
			reply, err := r.ask(ctx, "**Join Link**\n"+
				"The **!join** command hands out an invite link to your server.\n"+
				"Reply with the invite link, for example https://discord.gg/abc123\n"+
				"Reply with **N** to disable the join command.")
			if err != nil {
				return "", err
			}

			if is(reply, replyNo) {
				draft.Enabled = false
				return stateDone, r.tell(ctx, "Join command disabled.")
			}

			link, ok := normalizeInvite(reply)
			if !ok {
				return stateAwaitLink, r.tell(ctx, "%q doesn't look like a Discord invite link. It should look like https://discord.gg/abc123. Please try again.", reply)
			}

			draft.Enabled = true
			draft.Link = link
			return stateDone, nil
		},
	})
	if err := m.run(ctx, stateAwaitLink); err != nil {
		return err
	}

	r.working.Join = draft
	return nil
}

// normalizeInvite validates an invite link and returns it with an https scheme.
func normalizeInvite(link string) (string, bool) {
	link = strings.TrimSpace(link)
	if !strings.Contains(link, "://") {
		link = "https://" + link
	}

	u, err := url.Parse(link)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return "", false
	}

	prefix, ok := inviteHosts[strings.ToLower(u.Host)]
	if !ok || !strings.HasPrefix(u.Path, prefix) {
		return "", false
	}

	code := strings.TrimPrefix(u.Path, prefix)
	if code == "" || strings.Contains(code, "/") {
		return "", false
	}

	u.Scheme = "https"
	return u.String(), true
}
