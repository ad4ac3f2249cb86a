package configuration

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/resolver"
)

// maxWelcomeLength is the longest custom welcome message accepted.
const maxWelcomeLength = 500

func configureWelcome(ctx context.Context, r *run) error {
	draft := r.working.Welcome

	awaitEnablement := func(ctx context.Context) (state, error) {
		reply, err := r.ask(ctx, "**Welcome Message**\n"+
			"I can welcome new members when they join the server.\n"+
			"Reply with **Y** to enable welcome messages or **N** to disable them.")
		if err != nil {
			return "", err
		}

		switch {
		case is(reply, replyNo):
			draft.Enabled = false
			return stateDone, r.tell(ctx, "Welcome messages disabled.")
		case is(reply, replyYes):
			return stateAwaitMessage, nil
		}
		return stateAwaitEnablement, r.tell(ctx, "I don't understand %q. Please reply with **Y** or **N**.", reply)
	}

	awaitMessage := func(ctx context.Context) (state, error) {
		reply, err := r.ask(ctx, fmt.Sprintf("Reply with the welcome message to send, up to %d characters. "+
			"{@member} is replaced with a mention of the new member and {server} with the server's name.\n"+
			"Reply with **N** to use the default message.", maxWelcomeLength))
		if err != nil {
			return "", err
		}

		if is(reply, replyNo) {
			draft.Message = entities.WelcomeMessageDefault
			return stateAwaitChannel, nil
		}

		if n := utf8.RuneCountInString(reply); n > maxWelcomeLength {
			return stateAwaitMessage, r.tell(ctx, "Your message is %d characters long. The limit is %d. Please try again.", n, maxWelcomeLength)
		}
		draft.Message = reply
		return stateAwaitChannel, nil
	}

	awaitChannel := func(ctx context.Context) (state, error) {
		reply, err := r.ask(ctx, "Reply with **dm** to send the welcome message as a direct message, "+
			"or with the name or ID of the channel to post it in.")
		if err != nil {
			return "", err
		}

		if is(reply, entities.WelcomeChannelDM) {
			draft.Enabled = true
			draft.Channel = entities.WelcomeChannelDM
			return stateDone, nil
		}

		ch, err := r.resolver.Resolve(ctx, r.guildID, resolver.KindTextChannel, reply)
		if errors.Is(err, resolver.ErrNotFound) {
			return stateAwaitChannel, r.tell(ctx, "I couldn't find a text channel called %q. Please try again.", reply)
		} else if err != nil {
			return "", fmt.Errorf("error resolving welcome channel: %w", err)
		}

		if err := r.grantAccess(ctx, []*resolver.Entity{ch}); err != nil {
			return "", err
		}

		draft.Enabled = true
		draft.Channel = ch.ID
		return stateDone, nil
	}

	m := newMachine(r.l, entities.SectionWelcome, map[state]stateFn{
		stateAwaitEnablement: awaitEnablement,
		stateAwaitMessage:    awaitMessage,
		stateAwaitChannel:    awaitChannel,
	})
	if err := m.run(ctx, stateAwaitEnablement); err != nil {
		return err
	}

	r.working.Welcome = draft
	return nil
}
