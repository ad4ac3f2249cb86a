package configuration

import (
	"context"
	"fmt"
	"strings"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/resolver"
)

// reportDescriptor describes a channel scoped reporting feature. Every reporting
// section runs the same conversation; the descriptor switches its optional steps on.
type reportDescriptor struct {
	name    string
	title   string
	command string
	reports string

	// categories enables the category placement step.
	categories bool

	// levelCategories offers a category per raid level.
	levelCategories bool

	// permissions asks who may see created channels.
	permissions bool
}

var reportDescriptors = map[string]reportDescriptor{
	entities.SectionRaid: {
		name:            entities.SectionRaid,
		title:           "Raid Reporting",
		command:         "raid",
		reports:         "raids",
		categories:      true,
		levelCategories: true,
	},
	entities.SectionExRaid: {
		name:        entities.SectionExRaid,
		title:       "EX Raid Reporting",
		command:     "exraid",
		reports:     "EX raids",
		categories:  true,
		permissions: true,
	},
	entities.SectionWild: {
		name:    entities.SectionWild,
		title:   "Wild Reporting",
		command: "wild",
		reports: "wild spawns",
	},
	entities.SectionResearch: {
		name:    entities.SectionResearch,
		title:   "Research Reporting",
		command: "research",
		reports: "field research tasks",
	},
	entities.SectionLure: {
		name:    entities.SectionLure,
		title:   "Lure Reporting",
		command: "lure",
		reports: "lures",
	},
	entities.SectionMeetup: {
		name:       entities.SectionMeetup,
		title:      "Meetup Reporting",
		command:    "meetup",
		reports:    "community meetups",
		categories: true,
	},
}

type reportWizard struct {
	*run

	desc  reportDescriptor
	draft entities.ReportConfig

	// channels are the resolved report channels, in the order they were given.
	channels []*resolver.Entity
}

func reportSection(desc reportDescriptor) section {
	return func(ctx context.Context, r *run) error {
		cfg, err := r.working.Report(desc.name)
		if err != nil {
			return err
		}

		w := &reportWizard{
			run:   r,
			desc:  desc,
			draft: *cfg,
		}

		m := newMachine(r.l, desc.name, map[state]stateFn{
			stateAwaitChannels:        w.awaitChannels,
			stateAwaitLocations:       w.awaitLocations,
			stateAwaitPermissions:     w.awaitPermissions,
			stateAwaitCategoryMode:    w.awaitCategoryMode,
			stateAwaitCategories:      w.awaitCategories,
			stateAwaitLevelCategories: w.awaitLevelCategories,
		})
		if err := m.run(ctx, stateAwaitChannels); err != nil {
			return err
		}

		*cfg = w.draft
		return nil
	}
}

func (w *reportWizard) awaitChannels(ctx context.Context) (state, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n", w.desc.title)
	fmt.Fprintf(&b, "The **!%s** command lets members report %s, and I'll create a channel for each report.\n", w.desc.command, w.desc.reports)
	b.WriteString("Reply with the channels I should accept reports in, separated by commas (names or IDs).\n")
	if w.working.Regions.Enabled {
		regions := w.regionNames()
		fmt.Fprintf(&b, "Regions are enabled, so give exactly one channel per region (%d): %s.\n", len(regions), strings.Join(regions, ", "))
	}
	fmt.Fprintf(&b, "Reply with **N** to disable %s reporting.", w.desc.command)

	reply, err := w.ask(ctx, b.String())
	if err != nil {
		return "", err
	}

	if is(reply, replyNo) {
		w.draft.Enabled = false
		return stateDone, w.tell(ctx, "%s disabled.", w.desc.title)
	}

	channels, ok, err := w.resolveList(ctx, resolver.KindTextChannel, reply)
	if err != nil || !ok {
		return stateAwaitChannels, err
	}

	if w.working.Regions.Enabled {
		if regions := w.regionNames(); len(channels) != len(regions) {
			return stateAwaitChannels, w.tell(ctx, mismatch("channels", entityNames(channels), "regions", regions))
		}
	}

	if err := w.grantAccess(ctx, channels); err != nil {
		return "", err
	}

	w.channels = channels
	return stateAwaitLocations, nil
}

func (w *reportWizard) awaitLocations(ctx context.Context) (state, error) {
	if w.working.Regions.Enabled {
		return w.awaitRegions(ctx)
	}

	reply, err := w.ask(ctx, fmt.Sprintf("For each channel, tell me the location its reports are in, in the same order and separated by commas.\n"+
		"I'll use it to search for gyms and stops, so something like \"kansas city mo\" works best.\nChannels: %s",
		strings.Join(entityNames(w.channels), ", ")))
	if err != nil {
		return "", err
	}

	locations := splitList(reply)
	if len(locations) != len(w.channels) {
		return stateAwaitLocations, w.tell(ctx, mismatch("channels", entityNames(w.channels), "locations", locations))
	}

	w.draft.ReportChannels = make(map[string]string, len(w.channels))
	for i, ch := range w.channels {
		w.draft.ReportChannels[ch.ID] = locations[i]
	}
	return w.afterLocations(), nil
}

func (w *reportWizard) awaitRegions(ctx context.Context) (state, error) {
	regions := w.regionNames()
	reply, err := w.ask(ctx, fmt.Sprintf("Which region does each channel cover? Reply with the region names in the same order as the channels, separated by commas.\n"+
		"Channels: %s\nRegions: %s",
		strings.Join(entityNames(w.channels), ", "), strings.Join(regions, ", ")))
	if err != nil {
		return "", err
	}

	answers := splitList(reply)
	for i := range answers {
		answers[i] = regionName(answers[i])
	}
	if len(answers) != len(w.channels) {
		return stateAwaitLocations, w.tell(ctx, mismatch("channels", entityNames(w.channels), "regions", answers))
	}

	if problems := coverageProblems(w.working.Regions.Info, answers); len(problems) > 0 {
		return stateAwaitLocations, w.tell(ctx, strings.Join(problems, "\n")+"\nEvery region needs exactly one channel. Please try again.")
	}

	w.draft.ReportChannels = make(map[string]string, len(w.channels))
	for i, ch := range w.channels {
		w.draft.ReportChannels[ch.ID] = answers[i]
	}
	return w.afterLocations(), nil
}

func (w *reportWizard) afterLocations() state {
	w.draft.Enabled = true
	switch {
	case w.desc.permissions:
		return stateAwaitPermissions
	case w.desc.categories:
		return stateAwaitCategoryMode
	default:
		w.setCategories(entities.CategoryNone, nil)
		return stateDone
	}
}

func (w *reportWizard) awaitPermissions(ctx context.Context) (state, error) {
	reply, err := w.ask(ctx, fmt.Sprintf("Who should be able to see the channels I create for %s?\n"+
		"Reply with **everyone** to let everyone see them, or **same** to copy the permissions of the channel the report was made in.", w.desc.reports))
	if err != nil {
		return "", err
	}

	switch {
	case is(reply, entities.ExRaidPermissionsEveryone):
		w.draft.Permissions = entities.ExRaidPermissionsEveryone
	case is(reply, entities.ExRaidPermissionsSame):
		w.draft.Permissions = entities.ExRaidPermissionsSame
	default:
		return stateAwaitPermissions, w.tell(ctx, "I don't understand %q. Please reply with **everyone** or **same**.", reply)
	}

	if w.desc.categories {
		return stateAwaitCategoryMode, nil
	}
	w.setCategories(entities.CategoryNone, nil)
	return stateDone, nil
}

func (w *reportWizard) awaitCategoryMode(ctx context.Context) (state, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Where should I put the channels I create for %s?\n", w.desc.reports)
	b.WriteString("**none** - outside of any category\n")
	b.WriteString("**same** - in the same category as the report channel\n")
	b.WriteString("**region** - in a category you choose for each report channel")
	if w.desc.levelCategories {
		b.WriteString("\n**level** - in a category you choose for each raid level")
	}

	reply, err := w.ask(ctx, b.String())
	if err != nil {
		return "", err
	}

	switch {
	case is(reply, replyNone):
		w.setCategories(entities.CategoryNone, nil)
		return stateDone, nil
	case is(reply, replySame):
		w.setCategories(entities.CategorySame, nil)
		return stateDone, nil
	case is(reply, "region", string(entities.CategoryByRegion)):
		return stateAwaitCategories, nil
	case w.desc.levelCategories && is(reply, "level", string(entities.CategoryByLevel)):
		return stateAwaitLevelCategories, nil
	}

	options := "none, same or region"
	if w.desc.levelCategories {
		options = "none, same, region or level"
	}
	return stateAwaitCategoryMode, w.tell(ctx, "I don't understand %q. Please reply with %s.", reply, options)
}

func (w *reportWizard) awaitCategories(ctx context.Context) (state, error) {
	names := entityNames(w.channels)
	reply, err := w.ask(ctx, fmt.Sprintf("Reply with a category for each report channel, in the same order and separated by commas (names or IDs).\nChannels: %s",
		strings.Join(names, ", ")))
	if err != nil {
		return "", err
	}

	tokens := splitList(reply)
	if len(tokens) != len(w.channels) {
		return stateAwaitCategories, w.tell(ctx, mismatch("channels", names, "categories", tokens))
	}

	categories, ok, err := w.resolveEach(ctx, resolver.KindCategory, tokens)
	if err != nil || !ok {
		return stateAwaitCategories, err
	}

	byChannel := make(map[string]string, len(w.channels))
	for i, ch := range w.channels {
		byChannel[ch.ID] = categories[i].ID
	}
	w.setCategories(entities.CategoryByRegion, byChannel)
	return stateDone, nil
}

func (w *reportWizard) awaitLevelCategories(ctx context.Context) (state, error) {
	reply, err := w.ask(ctx, fmt.Sprintf("Reply with a category for each raid level from %s to %s, in order and separated by commas (names or IDs).",
		entities.RaidLevels[0], entities.RaidLevels[len(entities.RaidLevels)-1]))
	if err != nil {
		return "", err
	}

	tokens := splitList(reply)
	if len(tokens) != len(entities.RaidLevels) {
		return stateAwaitLevelCategories, w.tell(ctx, mismatch("raid levels", entities.RaidLevels, "categories", tokens))
	}

	categories, ok, err := w.resolveEach(ctx, resolver.KindCategory, tokens)
	if err != nil || !ok {
		return stateAwaitLevelCategories, err
	}

	byLevel := make(map[string]string, len(entities.RaidLevels))
	for i, level := range entities.RaidLevels {
		byLevel[level] = categories[i].ID
	}
	w.setCategories(entities.CategoryByLevel, byLevel)
	return stateDone, nil
}

func (w *reportWizard) setCategories(mode entities.CategoryMode, categories map[string]string) {
	if categories == nil {
		categories = make(map[string]string)
	}
	w.draft.CategoryMode = mode
	w.draft.Categories = categories
}
