package configuration

import (
	"context"
	"strconv"
	"strings"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
)

// levelEX is the tier label of EX raids.
const levelEX = "EX"

func configureCounters(ctx context.Context, r *run) error {
	draft := r.working.Counters

	m := newMachine(r.l, entities.SectionCounters, map[state]stateFn{
		stateAwaitLevels: func(ctx context.Context) (state, error) {
			reply, err := r.ask(ctx, "**Automatic Counters**\n"+
				"I can post counters for a raid boss as soon as its raid channel is created.\n"+
				"Reply with the raid levels I should do this for, separated by commas. Levels are 1 to 5 and EX, for example: 3, 4, 5, EX\n"+
				"Reply with **N** to disable automatic counters.")
			if err != nil {
				return "", err
			}

			if is(reply, replyNo) {
				draft.Enabled = false
				return stateDone, r.tell(ctx, "Automatic counters disabled.")
			}

			levels := parseLevels(reply)
			if len(levels) == 0 {
				return stateAwaitLevels, r.tell(ctx, "None of %q are raid levels. Levels are 1 to 5 and EX. Please try again.", reply)
			}

			draft.Enabled = true
			draft.AutoLevels = levels
			return stateDone, nil
		},
	})
	if err := m.run(ctx, stateAwaitLevels); err != nil {
		return err
	}

	r.working.Counters = draft
	return nil
}

// parseLevels keeps the items that are raid levels, in order and without repeats.
// Anything that is not 1 to 5 or EX is dropped.
func parseLevels(reply string) []string {
	var (
		levels []string
		seen   = make(map[string]bool)
	)
	for _, item := range splitList(reply) {
		level := ""
		if strings.EqualFold(item, levelEX) {
			level = levelEX
		} else if n, err := strconv.Atoi(item); err == nil && n >= 1 && n <= 5 {
			level = strconv.Itoa(n)
		}

		if level == "" || seen[level] {
			continue
		}
		seen[level] = true
		levels = append(levels, level)
	}
	return levels
}
