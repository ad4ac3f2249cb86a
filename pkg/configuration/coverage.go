package configuration

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/Jacobbrewer1/kyogre/pkg/entities"
	"github.com/Jacobbrewer1/kyogre/pkg/logging"
)

// coverageProblems itemizes how tags fail to name every configured region exactly once.
func coverageProblems(regions map[string]entities.RegionInfo, tags []string) []string {
	var (
		unknown, repeated []string
		seen              = make(map[string]bool, len(tags))
	)
	for _, t := range tags {
		switch _, ok := regions[t]; {
		case !ok:
			unknown = append(unknown, t)
		case seen[t]:
			repeated = append(repeated, t)
		}
		seen[t] = true
	}

	var missing []string
	for name := range regions {
		if !seen[name] {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)

	var problems []string
	if len(unknown) > 0 {
		problems = append(problems, "Unknown regions: "+strings.Join(unknown, ", "))
	}
	if len(repeated) > 0 {
		problems = append(problems, "Regions given more than once: "+strings.Join(repeated, ", "))
	}
	if len(missing) > 0 {
		problems = append(problems, "Regions without a channel: "+strings.Join(missing, ", "))
	}
	return problems
}

// reportCoverage checks an enabled reporting section against the regions of the document.
// Nothing is reported while regions are disabled.
func reportCoverage(s *entities.Settings, cfg *entities.ReportConfig) []string {
	if !s.Regions.Enabled || !cfg.Enabled {
		return nil
	}

	tags := make([]string, 0, len(cfg.ReportChannels))
	for _, tag := range cfg.ReportChannels {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return coverageProblems(s.Regions.Info, tags)
}

// coverRegions runs every enabled reporting section again whose channels no longer cover the
// configured regions, which happens when regions change after the section was set up.
// It returns the sections it ran.
func (c *Configurator) coverRegions(ctx context.Context, r *run) ([]string, error) {
	var ran []string
	for _, name := range entities.SectionNames {
		desc, ok := reportDescriptors[name]
		if !ok {
			continue
		}

		cfg, err := r.working.Report(name)
		if err != nil {
			return nil, err
		}
		problems := reportCoverage(r.working, cfg)
		if len(problems) == 0 {
			continue
		}

		r.l.Info("Reporting section does not cover the regions",
			slog.String(logging.KeySection, name),
			slog.String("problems", strings.Join(problems, "; ")),
		)
		if err := r.tell(ctx, "%s no longer matches your regions.\n%s\nLet's set it up again.", desc.title, strings.Join(problems, "\n")); err != nil {
			return nil, err
		}

		start := time.Now()
		err = c.sections[name](ctx, r)
		SectionDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", name, err)
		}
		if problems := reportCoverage(r.working, cfg); len(problems) > 0 {
			return nil, fmt.Errorf("section %s does not cover the regions: %s", name, strings.Join(problems, "; "))
		}
		ran = append(ran, name)
	}
	return ran, nil
}
