package configuration

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Jacobbrewer1/kyogre/pkg/logging"
)

// state is a point in a section's conversation.
type state string

const (
	stateAwaitEnablement      state = "AwaitEnablement"
	stateAwaitChannels        state = "AwaitChannels"
	stateAwaitChannel         state = "AwaitChannel"
	stateAwaitLocations       state = "AwaitLocations"
	stateAwaitPermissions     state = "AwaitPermissions"
	stateAwaitCategoryMode    state = "AwaitCategoryMode"
	stateAwaitCategories      state = "AwaitCategories"
	stateAwaitLevelCategories state = "AwaitLevelCategories"
	stateAwaitLevels          state = "AwaitLevels"
	stateAwaitCategory        state = "AwaitCategory"
	stateAwaitPhrases         state = "AwaitPhrases"
	stateAwaitMessage         state = "AwaitMessage"
	stateAwaitLink            state = "AwaitLink"
	stateAwaitPrefix          state = "AwaitPrefix"
	stateAwaitOffset          state = "AwaitOffset"
	stateDone                 state = "Done"
)

// stateFn handles one state and returns the next. Returning the same state re-prompts.
type stateFn func(ctx context.Context) (state, error)

// machine drives one section from its start state to stateDone.
type machine struct {
	section string
	l       *slog.Logger
	states  map[state]stateFn
}

func newMachine(l *slog.Logger, section string, states map[state]stateFn) *machine {
	return &machine{
		section: section,
		l:       l.With(slog.String(logging.KeySection, section)),
		states:  states,
	}
}

// run executes states until Done. Errors from a state, cancellation included, stop the machine.
func (m *machine) run(ctx context.Context, start state) error {
	for st := start; st != stateDone; {
		fn, ok := m.states[st]
		if !ok {
			return fmt.Errorf("%s: no handler for state %s", m.section, st)
		}

		next, err := fn(ctx)
		if err != nil {
			return err
		}

		if next == st {
			PromptRetries.WithLabelValues(m.section, string(st)).Inc()
			m.l.Debug("Re-prompting after invalid reply", slog.String("state", string(st)))
		}
		st = next
	}
	return nil
}
