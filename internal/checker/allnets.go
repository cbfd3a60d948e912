// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package checker

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	checkererrors "github.com/exa-laboratories/antennacheck/internal/errors"
	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

// AllNetsResult is checkAllNets's return value (§4.5, §6).
type AllNetsResult struct {
	NetViolationCount int
	PinViolationCount int
	Violations        []techdata.Violation
	NetResults        []NetResult

	// NetsSkipped counts nets CheckAllNets did not evaluate, by reason
	// ("special", "empty"), for callers that want to feed this into
	// metrics.Metrics.RecordSkip.
	NetsSkipped map[string]int
}

// CheckAllNets iterates every non-special net (§4.5: "checkAllNets(...)
// iterating over non-special nets"). workers > 1 runs nets concurrently
// with a bounded errgroup; report text is buffered per net and flushed
// in net-enumeration order afterward to preserve the determinism
// invariant (§8 property 3) regardless of completion order.
func (c *Checker) CheckAllNets(nets []techdata.Net, opts Options, workers int) (AllNetsResult, error) {
	routable := false
	for _, n := range nets {
		if len(n.Wires) > 0 {
			routable = true
			break
		}
	}
	if len(nets) > 0 && !routable {
		return AllNetsResult{}, checkererrors.New(checkererrors.KindPreconditionError, "no routes exist for any net")
	}

	skipped := map[string]int{"special": 0, "empty": 0}
	var toCheck []techdata.Net
	for _, n := range nets {
		if n.Special {
			skipped["special"]++
			continue
		}
		if len(n.Wires) == 0 {
			skipped["empty"]++
		}
		toCheck = append(toCheck, n)
	}

	results := make([]NetResult, len(toCheck))
	errs := make([]error, len(toCheck))

	c.suppressAutoFlush = true
	if workers <= 1 {
		for i, n := range toCheck {
			results[i], errs[i] = c.checkNetRecovered(n, opts)
		}
	} else {
		g, _ := errgroup.WithContext(context.Background())
		g.SetLimit(workers)
		for i, n := range toCheck {
			i, n := i, n
			g.Go(func() error {
				results[i], errs[i] = c.checkNetRecovered(n, opts)
				return nil
			})
		}
		_ = g.Wait()
	}
	c.suppressAutoFlush = false

	out := AllNetsResult{NetsSkipped: skipped}
	for i, res := range results {
		if errs[i] != nil {
			c.logger.Warn("net check failed", "net", toCheck[i].Name, "error", errs[i])
			continue
		}
		out.NetResults = append(out.NetResults, res)
		out.Violations = append(out.Violations, res.Violations...)
		out.PinViolationCount += res.PinViolationCount
		if res.NetViolated {
			out.NetViolationCount++
		}
		if c.reportSink != nil && res.ReportText != "" && (res.NetViolated || opts.ReportIfNoViolation) {
			fmt.Fprintln(c.reportSink, res.ReportText)
		}
	}
	return out, nil
}

// checkNetRecovered wraps CheckNet so a panic in one net's worker cannot
// take down the whole fan-out (§10.5).
func (c *Checker) checkNetRecovered(net techdata.Net, opts Options) (result NetResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = checkererrors.Attr(
				checkererrors.Errorf(checkererrors.KindInternal, "panic while checking net: %v", r),
				"net", net.Name,
			)
		}
	}()
	return c.CheckNet(net, opts)
}
