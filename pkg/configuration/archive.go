package configuration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/resolver"
)

func configureArchive(ctx context.Context, r *run) error {
	draft := r.working.Archive

	awaitCategory := func(ctx context.Context) (state, error) {
		reply, err := r.ask(ctx, "**Channel Archiving**\n"+
			"I can archive raid channels instead of deleting them, keeping their messages for your moderators.\n"+
			"Reply with **same** to archive channels in place, or with the name or ID of the category to move archived channels to.\n"+
			"Reply with **N** to disable archiving.")
		if err != nil {
			return "", err
		}

		switch {
		case is(reply, replyNo):
			draft.Enabled = false
			return stateDone, r.tell(ctx, "Archiving disabled.")
		case is(reply, replySame):
			draft.Enabled = true
			draft.Category = entities.ArchiveCategorySame
			return stateAwaitPhrases, nil
		}

		category, err := r.resolver.Resolve(ctx, r.guildID, resolver.KindCategory, reply)
		if errors.Is(err, resolver.ErrNotFound) {
			return stateAwaitCategory, r.tell(ctx, "I couldn't find a category called %q. Please try again.", reply)
		} else if err != nil {
			return "", fmt.Errorf("error resolving archive category: %w", err)
		}

		draft.Enabled = true
		draft.Category = category.ID
		return stateAwaitPhrases, nil
	}

	awaitPhrases := func(ctx context.Context) (state, error) {
		reply, err := r.ask(ctx, "I can also archive a channel automatically when one of a list of phrases is said in it.\n"+
			"Reply with the phrases separated by commas, or **none** to only archive on request.")
		if err != nil {
			return "", err
		}

		if is(reply, replyNone) {
			draft.List = []string{}
			return stateDone, nil
		}

		phrases := splitList(reply)
		if len(phrases) == 0 {
			return stateAwaitPhrases, r.tell(ctx, "I couldn't see any phrases in your reply. Please try again.")
		}
		for i := range phrases {
			phrases[i] = strings.ToLower(phrases[i])
		}
		draft.List = phrases
		return stateDone, nil
	}

	m := newMachine(r.l, entities.SectionArchive, map[state]stateFn{
		stateAwaitCategory: awaitCategory,
		stateAwaitPhrases:  awaitPhrases,
	})
	if err := m.run(ctx, stateAwaitCategory); err != nil {
		return err
	}

	r.working.Archive = draft
	return nil
}
