package configuration

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
)

// raidRoleSuffix is appended to a region name to name the role notified of its raids.
const raidRoleSuffix = "-raids"

func configureRegions(ctx context.Context, r *run) error {
	draft := r.working.Regions

	// names are the regions in the order they were given.
	var names []string

	awaitEnablement := func(ctx context.Context) (state, error) {
		reply, err := r.ask(ctx, "**Regions**\n"+
			"Regions split your server into areas. Members join the regions they play in, and reports are tagged with the region they are for.\n"+
			"Reply with the names of your regions, separated by commas.\n"+
			"Reply with **N** to disable regions.")
		if err != nil {
			return "", err
		}

		if is(reply, replyNo) {
			draft.Enabled = false
			return stateDone, r.tell(ctx, "Regions disabled.")
		}

		given := splitList(reply)
		if len(given) == 0 {
			return stateAwaitEnablement, r.tell(ctx, "I couldn't see any region names in your reply. Please try again.")
		}

		var (
			repeated []string
			seen     = make(map[string]bool, len(given))
		)
		names = names[:0]
		for _, g := range given {
			name := regionName(g)
			if seen[name] {
				repeated = append(repeated, name)
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
		if len(repeated) > 0 {
			return stateAwaitEnablement, r.tell(ctx, "Regions given more than once: %s\nEvery region needs a unique name. Please try again.",
				strings.Join(repeated, ", "))
		}
		return stateAwaitLocations, nil
	}

	awaitLocations := func(ctx context.Context) (state, error) {
		reply, err := r.ask(ctx, fmt.Sprintf("For each region, tell me its location, in the same order and separated by commas.\n"+
			"I'll use it to search for gyms and stops, so something like \"kansas city mo\" works best.\nRegions: %s",
			strings.Join(names, ", ")))
		if err != nil {
			return "", err
		}

		locations := splitList(reply)
		if len(locations) != len(names) {
			return stateAwaitLocations, r.tell(ctx, mismatch("regions", names, "locations", locations))
		}

		info := make(map[string]entities.RegionInfo, len(names))
		for i, name := range names {
			roleID, err := r.ensureRole(ctx, name)
			if err != nil {
				return "", err
			}
			raidRoleID, err := r.ensureRole(ctx, name+raidRoleSuffix)
			if err != nil {
				return "", err
			}
			info[name] = entities.RegionInfo{
				Location:   locations[i],
				RoleID:     roleID,
				RaidRoleID: raidRoleID,
			}
		}

		draft.Enabled = true
		draft.Info = info
		return stateDone, nil
	}

	m := newMachine(r.l, entities.SectionRegions, map[state]stateFn{
		stateAwaitEnablement: awaitEnablement,
		stateAwaitLocations:  awaitLocations,
	})
	if err := m.run(ctx, stateAwaitEnablement); err != nil {
		return err
	}

	r.working.Regions = draft
	return nil
}
