package configuration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/logging"
	"github.com/Jacobbrewer1/kyogre/pkg/messages"
	"github.com/Jacobbrewer1/kyogre/pkg/prompt"
	"go.mongodb.org/mongo-driver/mongo"
)

// Run configures the requested sections of a guild over the conversation. Reporting sections
// left without a channel for every region are set up again before the commit. The committed
// document is replaced once every section has completed; on any error it is left untouched.
func (c *Configurator) Run(ctx context.Context, guildID string, conv Conversation, requested []string) error {
	l := c.l.With(slog.String(logging.KeyGuildID, guildID))

	names, err := ExpandSections(requested)
	if err != nil {
		SessionsTotal.WithLabelValues(outcomeFailed).Inc()
		if tellErr := conv.Tell(ctx, UnknownSectionsMessage(err)); tellErr != nil {
			l.Warn("Could not tell the operator about unknown sections", slog.String(logging.KeyError, tellErr.Error()))
		}
		return err
	}

	committed, err := c.store.GetSettings(ctx, guildID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		l.Info("No settings found for guild, starting from defaults")
		committed = entities.NewSettings(guildID)
	} else if err != nil {
		return c.abort(ctx, l, conv, fmt.Errorf("error getting settings: %w", err))
	}

	r := &run{
		Configurator: c,
		guildID:      guildID,
		conv:         conv,
		l:            l,
		working:      committed.Clone(),
	}

	for _, name := range names {
		start := time.Now()
		err := c.sections[name](ctx, r)
		SectionDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil {
			return c.abort(ctx, l, conv, fmt.Errorf("section %s: %w", name, err))
		}
		l.Debug("Section configured", slog.String(logging.KeySection, name), slog.Bool("enabled", r.working.Enabled(name)))
	}

	repaired, err := c.coverRegions(ctx, r)
	if err != nil {
		return c.abort(ctx, l, conv, err)
	}
	for _, name := range repaired {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	r.working.GuildID = guildID
	if err := c.store.ReplaceSettings(ctx, r.working); err != nil {
		return c.abort(ctx, l, conv, fmt.Errorf("error committing settings: %w", err))
	}

	SessionsTotal.WithLabelValues(outcomeCompleted).Inc()
	l.Info("Settings committed", slog.String("sections", strings.Join(names, ",")))

	// The settings are saved, so a lost summary does not fail the session.
	if err := r.tell(ctx, summary(r.working, names)); err != nil {
		l.Warn("Could not send the configuration summary", slog.String(logging.KeyError, err.Error()))
	}
	return nil
}

// abort records the outcome of a session that stopped before its commit and tells the operator.
func (c *Configurator) abort(ctx context.Context, l *slog.Logger, conv Conversation, err error) error {
	outcome, msg := outcomeFailed, messages.SessionFailed
	switch {
	case errors.Is(err, prompt.ErrCancelled), errors.Is(err, context.Canceled):
		outcome, msg = outcomeCancelled, messages.SessionCancelled
	case errors.Is(err, prompt.ErrTimeout):
		outcome, msg = outcomeTimeout, messages.SessionTimedOut
	}
	SessionsTotal.WithLabelValues(outcome).Inc()

	if outcome == outcomeFailed {
		l.Error("Configuration failed", slog.String(logging.KeyError, err.Error()))
	} else {
		l.Info("Configuration stopped", slog.String("outcome", outcome))
	}

	if errors.Is(err, prompt.ErrClosed) {
		return err
	}
	if tellErr := conv.Tell(context.WithoutCancel(ctx), msg); tellErr != nil {
		l.Warn("Could not tell the operator the session ended", slog.String(logging.KeyError, tellErr.Error()))
	}
	return err
}

// summary lists the configured sections by whether they ended up enabled.
func summary(s *entities.Settings, names []string) string {
	var enabled, disabled []string
	for _, name := range names {
		if s.Enabled(name) {
			enabled = append(enabled, name)
		} else {
			disabled = append(disabled, name)
		}
	}
	return fmt.Sprintf(messages.SessionSaved, listOrNone(enabled), listOrNone(disabled))
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return replyNone
	}
	return strings.Join(names, ", ")
}

// UnknownSectionsMessage describes an ExpandSections error to the operator.
func UnknownSectionsMessage(err error) string {
	var unknown *UnknownSectionsError
	if !errors.As(err, &unknown) {
		return messages.ErrUserErrorProcessing
	}
	return fmt.Sprintf(messages.ErrUnknownSections, strings.Join(unknown.Names, ", "), strings.Join(entities.SectionNames, ", "))
}
