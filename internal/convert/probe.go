package convert

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	clierrors "github.com/firefly-engineering/wolfi-dev/internal/errors"
	"github.com/firefly-engineering/wolfi-dev/internal/logging"
	"github.com/firefly-engineering/wolfi-dev/internal/probe"
)

// sectionProbe is the outcome for one upstream section.
type sectionProbe struct {
	section string
	url     string
	result  probe.Result
	err     error
}

// FindUpstream probes every configured section concurrently and returns the
// first section, in declared order, that has a recipe for pkg. When no
// section has one the error is NotFound if every probe answered, or
// ProbeFailed if at least one could not.
func (c *Converter) FindUpstream(ctx context.Context, pkg string) (string, error) {
	sections := c.Config.Upstream.AlpineSections
	probes := make([]sectionProbe, len(sections))

	g, gctx := errgroup.WithContext(ctx)
	for i, section := range sections {
		i := i
		url := c.Config.AlpineRecipeURL(section, pkg)
		probes[i] = sectionProbe{section: section, url: url}
		g.Go(func() error {
			result, err := c.Prober.Probe(gctx, url)
			probes[i].result = result
			probes[i].err = err
			return nil
		})
	}
	_ = g.Wait()

	var failed *sectionProbe
	for i := range probes {
		p := &probes[i]
		logging.Debug("upstream probe", "section", p.section, "result", p.result)
		switch p.result {
		case probe.Found:
			return p.section, nil
		case probe.Failed:
			if failed == nil {
				failed = p
			}
		}
	}

	if failed != nil {
		err := failed.err
		if err == nil {
			err = fmt.Errorf("probe failed")
		}
		return "", clierrors.ProbeFailed(failed.url, err)
	}
	return "", clierrors.NotFound(fmt.Sprintf("APKBUILD for %s in sections %s", pkg, strings.Join(sections, ", ")))
}

// checkPublished fails when the recipe already exists in the published
// package repository.
func (c *Converter) checkPublished(ctx context.Context, pkg string) error {
	url := c.Config.PublishedRecipeURL(pkg)
	result, err := c.Prober.Probe(ctx, url)
	switch result {
	case probe.Found:
		return clierrors.AlreadyExists(fmt.Sprintf("%s.yaml (published at %s)", pkg, url))
	case probe.NotFound:
		return nil
	default:
		if err == nil {
			err = fmt.Errorf("probe failed")
		}
		return clierrors.ProbeFailed(url, err)
	}
}
