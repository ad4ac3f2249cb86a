package configuration

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/resolver"
)

const (
	maxPrefixLength = 5
	minOffset       = -12
	maxOffset       = 14
)

func configureAdmin(ctx context.Context, r *run) error {
	draft := r.working.Admin

	awaitPrefix := func(ctx context.Context) (state, error) {
		reply, err := r.ask(ctx, "**Bot Settings**\n"+
			"Reply with the prefix commands should start with, up to 5 characters with no spaces.\n"+
			"The current prefix is **"+draft.Prefix+"**. Reply with **skip** to keep it.")
		if err != nil {
			return "", err
		}

		if is(reply, replySkip) {
			return stateAwaitOffset, nil
		}

		prefix := strings.TrimSpace(reply)
		if n := utf8.RuneCountInString(prefix); n == 0 || n > maxPrefixLength || strings.ContainsAny(prefix, " \t\n") {
			return stateAwaitPrefix, r.tell(ctx, "%q can't be used as a prefix. It must be 1 to %d characters with no spaces. Please try again.", reply, maxPrefixLength)
		}
		draft.Prefix = prefix
		return stateAwaitOffset, nil
	}

	awaitOffset := func(ctx context.Context) (state, error) {
		reply, err := r.ask(ctx, "Reply with the server's UTC offset in hours, for example -5 or 5.5. I use it to show times in your time zone.\n"+
			"The current offset is **"+strconv.FormatFloat(draft.Offset, 'f', -1, 64)+"**. Reply with **skip** to keep it.")
		if err != nil {
			return "", err
		}

		if is(reply, replySkip) {
			return stateAwaitChannels, nil
		}

		offset, err := strconv.ParseFloat(strings.TrimSpace(reply), 64)
		if err != nil || offset < minOffset || offset > maxOffset {
			return stateAwaitOffset, r.tell(ctx, "%q isn't a UTC offset. It must be a number from %d to %d. Please try again.", reply, minOffset, maxOffset)
		}
		draft.Offset = offset
		return stateAwaitChannels, nil
	}

	awaitChannels := func(ctx context.Context) (state, error) {
		reply, err := r.ask(ctx, "Reply with the channels admin commands can be used in, separated by commas (names or IDs).\n"+
			"Reply with **N** to accept admin commands in any channel.")
		if err != nil {
			return "", err
		}

		if is(reply, replyNo) {
			draft.Enabled = false
			return stateDone, nil
		}

		channels, ok, err := r.resolveList(ctx, resolver.KindTextChannel, reply)
		if err != nil || !ok {
			return stateAwaitChannels, err
		}

		if err := r.grantAccess(ctx, channels); err != nil {
			return "", err
		}

		draft.Enabled = true
		draft.CommandChannels = entityIDs(channels)
		return stateDone, nil
	}

	m := newMachine(r.l, entities.SectionAdmin, map[state]stateFn{
		stateAwaitPrefix:   awaitPrefix,
		stateAwaitOffset:   awaitOffset,
		stateAwaitChannels: awaitChannels,
	})
	if err := m.run(ctx, stateAwaitPrefix); err != nil {
		return err
	}

	r.working.Admin = draft
	return nil
}

