package configuration

import (
	"context"
	"fmt"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/resolver"
)

// channelDescriptor describes a feature that is only bound to a set of channels.
type channelDescriptor struct {
	name        string
	title       string
	description string
}

var channelDescriptors = map[string]channelDescriptor{
	entities.SectionSubscriptions: {
		name:        entities.SectionSubscriptions,
		title:       "Subscriptions",
		description: "The **!subscription** commands let members subscribe to notifications for the raid bosses, wild spawns and research rewards they want.",
	},
	entities.SectionPvP: {
		name:        entities.SectionPvP,
		title:       "PvP",
		description: "The **!pvp** commands let members post battle requests and register their friend codes.",
	},
	entities.SectionTrade: {
		name:        entities.SectionTrade,
		title:       "Trading",
		description: "The **!trade** commands let members list Pokémon they want to trade and receive offers.",
	},
}

func channelSection(desc channelDescriptor) section {
	return func(ctx context.Context, r *run) error {
		cfg, err := r.working.Channels(desc.name)
		if err != nil {
			return err
		}
		draft := *cfg

		m := newMachine(r.l, desc.name, map[state]stateFn{
			stateAwaitChannels: func(ctx context.Context) (state, error) {
				reply, err := r.ask(ctx, fmt.Sprintf("**%s**\n%s\n"+
					"Reply with the channels these commands can be used in, separated by commas (names or IDs).\n"+
					"Reply with **N** to disable them.", desc.title, desc.description))
				if err != nil {
					return "", err
				}

				if is(reply, replyNo) {
					draft.Enabled = false
					return stateDone, r.tell(ctx, "%s disabled.", desc.title)
				}

				channels, ok, err := r.resolveList(ctx, resolver.KindTextChannel, reply)
				if err != nil || !ok {
					return stateAwaitChannels, err
				}

				if err := r.grantAccess(ctx, channels); err != nil {
					return "", err
				}

				draft.Enabled = true
				draft.ReportChannels = entityIDs(channels)
				return stateDone, nil
			},
		})
		if err := m.run(ctx, stateAwaitChannels); err != nil {
			return err
		}

		*cfg = draft
		return nil
	}
}
