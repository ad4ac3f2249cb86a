package configuration

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
)

func configureTeam(ctx context.Context, r *run) error {
	draft := r.working.Team

	m := newMachine(r.l, entities.SectionTeam, map[state]stateFn{
		stateAwaitEnablement: func(ctx context.Context) (state, error) {
			reply, err := r.ask(ctx, fmt.Sprintf("**Team Assignment**\n"+
				"The **!team** command lets members give themselves a team role.\n"+
				"Reply with **Y** to use roles named %s.\n"+
				"Or reply with the names of your own roles for %s, in that order and separated by commas.\n"+
				"Reply with **N** to disable team assignment.",
				strings.Join(entities.Teams, ", "), strings.Join(entities.Teams, ", ")))
			if err != nil {
				return "", err
			}

			var names []string
			switch {
			case is(reply, replyNo):
				draft.Enabled = false
				return stateDone, r.tell(ctx, "Team assignment disabled.")
			case is(reply, replyYes):
				names = entities.Teams
			default:
				names = splitList(reply)
				if len(names) != len(entities.Teams) {
					return stateAwaitEnablement, r.tell(ctx, mismatch("teams", entities.Teams, "roles", names))
				}
			}

			roles := make(map[string]string, len(entities.Teams))
			for i, team := range entities.Teams {
				id, err := r.ensureRole(ctx, names[i])
				if err != nil {
					return "", err
				}
				roles[team] = id
			}

			draft.Enabled = true
			draft.Roles = roles
			return stateDone, nil
		},
	})
	if err := m.run(ctx, stateAwaitEnablement); err != nil {
		return err
	}

	r.working.Team = draft
	return nil
}
