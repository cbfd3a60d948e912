// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package checker implements Checker (§4.5): drives the per-net pipeline
// (geometry -> connectivity -> ratio -> threshold compare -> optional
// diode loop -> report) as a sequence of named stages, accumulates
// violation counts, and renders the human-readable report.
package checker

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/exa-laboratories/antennacheck/internal/connectivity"
	checkererrors "github.com/exa-laboratories/antennacheck/internal/errors"
	"github.com/exa-laboratories/antennacheck/internal/geometry"
	"github.com/exa-laboratories/antennacheck/internal/logging"
	"github.com/exa-laboratories/antennacheck/internal/ratio"
	"github.com/exa-laboratories/antennacheck/internal/report"
	"github.com/exa-laboratories/antennacheck/internal/rules"
	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

// DefaultMaxDiodeCountPerGate is the fixed cap §4.5 mentions as the
// diode-loop circuit breaker.
const DefaultMaxDiodeCountPerGate = 8

// Options configures one checkNet/checkAllNets invocation (§6 "Inputs to
// a checker run").
type Options struct {
	Verbose             bool
	ReportIfNoViolation bool
	DiodeMTerm          *techdata.MTerm
	RatioMargin         float64

	// MaxDiodeCountPerGate overrides DefaultMaxDiodeCountPerGate when
	// nonzero.
	MaxDiodeCountPerGate int
}

func (o Options) maxDiodeCount() int {
	if o.MaxDiodeCountPerGate > 0 {
		return o.MaxDiodeCountPerGate
	}
	return DefaultMaxDiodeCountPerGate
}

// NetResult is checkNet's return value.
type NetResult struct {
	NetName           string
	NetViolated       bool
	PinViolationCount int
	Violations        []techdata.Violation
	ReportText        string
}

// Checker drives the pipeline across one design's nets, sharing the
// immutable RuleStore and layer Stack built once per design (§5).
type Checker struct {
	store  *rules.Store
	stack  *techdata.Stack
	logger *logging.Logger

	reportSink io.Writer

	// suppressAutoFlush is set for the duration of a CheckAllNets run,
	// which buffers and flushes report text itself in net-enumeration
	// order (§5 determinism) rather than letting each CheckNet write
	// directly (in completion order, when workers run concurrently).
	suppressAutoFlush bool
}

// New builds a Checker bound to a design's RuleStore and layer Stack.
func New(store *rules.Store, stack *techdata.Stack, logger *logging.Logger) *Checker {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Checker{store: store, stack: stack, logger: logger}
}

// SetReportSink directs report text to w, or to nowhere if w is nil
// (§4.5: "setReportSink(path | none)").
func (c *Checker) SetReportSink(w io.Writer) {
	c.reportSink = w
}

type checkFinding struct {
	gate         techdata.GateID
	layer        string
	routingLevel int
	isVia        bool
	rec          *techdata.InfoRecord
	par          checkOutcome
	psr          checkOutcome
	car          checkOutcome
	csr          checkOutcome
	violated     bool
}

type checkOutcome struct {
	applicable bool
	required   float64
	violated   bool
	usedDiff   bool
}

// stageResult records how one named stage of CheckNet's pipeline ran:
// whether it was skipped (the diode-repair stage when no diode mterm was
// configured), how long it took, and whether it failed. CheckNet's
// stages never actually fail today (geometry/connectivity/ratio have no
// error return), but the shape leaves room for a stage to start
// reporting one without changing every caller.
type stageResult struct {
	name     string
	skipped  bool
	duration time.Duration
	err      error
}

func runStage(name string, fn func() error) stageResult {
	start := time.Now()
	err := fn()
	return stageResult{name: name, duration: time.Since(start), err: err}
}

func skippedStage(name string) stageResult {
	return stageResult{name: name, skipped: true}
}

func logStages(log *logging.Logger, stages []stageResult) {
	for _, s := range stages {
		switch {
		case s.err != nil:
			log.Warn("stage failed", "stage", s.name, "error", s.err)
		case s.skipped:
			log.Debug("stage skipped", "stage", s.name)
		default:
			log.Debug("stage complete", "stage", s.name, "duration", s.duration)
		}
	}
}

// CheckNet runs the pipeline for one net (§4.5 behavior steps 1-4).
func (c *Checker) CheckNet(net techdata.Net, opts Options) (NetResult, error) {
	runID := uuid.NewString()
	log := c.logger.With("run_id", runID, "net", net.Name)

	if net.Special {
		return NetResult{NetName: net.Name}, checkererrors.Attr(
			checkererrors.New(checkererrors.KindInputError, "checker invoked on special net"),
			"net", net.Name,
		)
	}

	result := NetResult{NetName: net.Name}
	if len(net.Wires) == 0 {
		return result, nil
	}

	var stages []stageResult

	var graph *techdata.LayeredGraph
	var geomWarnings []geometry.Warning
	stages = append(stages, runStage("geometry", func() error {
		graph, geomWarnings = geometry.Build(net, c.stack)
		return nil
	}))
	for _, w := range geomWarnings {
		log.Warn("geometry data warning", "layer", w.Layer, "detail", w.Message)
	}

	var conn *connectivity.Result
	stages = append(stages, runStage("connectivity", func() error {
		conn = connectivity.Build(graph, net, c.stack)
		return nil
	}))

	var records []*techdata.InfoRecord
	stages = append(stages, runStage("ratio", func() error {
		records = ratio.Compute(net, graph, conn, c.store, c.stack)
		return nil
	}))

	var findings []*checkFinding
	stages = append(stages, runStage("evaluate", func() error {
		findings = c.evaluateRecords(records, opts)
		return nil
	}))

	if opts.DiodeMTerm != nil {
		stages = append(stages, runStage("diode_repair", func() error {
			c.runDiodeLoop(findings, opts, log, conn)
			return nil
		}))
	} else {
		stages = append(stages, skippedStage("diode_repair"))
	}

	violations, pinsViolated := collectViolations(findings)
	result.Violations = violations
	result.PinViolationCount = len(pinsViolated)
	result.NetViolated = len(pinsViolated) > 0

	stages = append(stages, runStage("report", func() error {
		result.ReportText = c.renderReport(net, findings, opts)
		c.flushReport(result, opts)
		return nil
	}))

	logStages(log, stages)

	return result, nil
}

// flushReport writes result's report text to the configured sink, if
// any, when the net earned one (§6: violated, or the caller asked to
// always see a header).
func (c *Checker) flushReport(result NetResult, opts Options) {
	if c.suppressAutoFlush {
		return
	}
	if c.reportSink != nil && (result.NetViolated || opts.ReportIfNoViolation) {
		fmt.Fprintln(c.reportSink, result.ReportText)
	}
}

// evaluateRecords is §4.5 step 2: per-record threshold checks.
func (c *Checker) evaluateRecords(records []*techdata.InfoRecord, opts Options) []*checkFinding {
	findings := make([]*checkFinding, 0, len(records))
	for _, rec := range records {
		layer, ok := c.stack.Get(rec.Layer)
		if !ok {
			continue
		}
		model, ok := c.store.Model(rec.Layer)
		if !ok {
			// RuleGap: layer has no antenna rule, silently not checked.
			continue
		}
		if rec.IntermGateArea == 0 {
			// PAR=0 implies the gate/layer pair is not checked (§3 invariant).
			continue
		}

		f := &checkFinding{gate: rec.Gate, layer: rec.Layer, routingLevel: layer.RoutingLevel, isVia: layer.IsVia(), rec: rec}
		f.par = evaluateCheck(model.PAR, model.DiffPAR, rec.PAR, rec.DiffPAR, rec.IntermDiffArea, opts.RatioMargin)
		f.car = evaluateCheck(model.CAR, model.DiffCAR, rec.CAR, rec.DiffCAR, rec.IntermDiffArea, opts.RatioMargin)
		if !layer.IsVia() {
			f.psr = evaluateCheck(model.PSR, model.DiffPSR, rec.PSR, rec.DiffPSR, rec.IntermDiffArea, opts.RatioMargin)
			f.csr = evaluateCheck(model.CSR, model.DiffCSR, rec.CSR, rec.DiffCSR, rec.IntermDiffArea, opts.RatioMargin)
		}
		f.violated = f.par.violated || f.psr.violated || f.car.violated || f.csr.violated
		findings = append(findings, f)
	}
	return findings
}

// evaluateCheck implements §4.5's "fixed-ratio if nonzero, else PWL-diff
// threshold if nonzero, else skipped" rule, with the fixed threshold
// scaled down by ratioMargin (a percentage reduction).
func evaluateCheck(fixed float64, pwl techdata.PWLTable, value, diffValue, diffArea, marginPct float64) checkOutcome {
	if fixed != 0 {
		required := fixed * (1 - marginPct/100)
		return checkOutcome{applicable: true, required: required, violated: value > required}
	}
	if !pwl.IsEmpty() {
		required := pwl.Eval(diffArea, 0)
		return checkOutcome{applicable: true, required: required, violated: diffValue > required, usedDiff: true}
	}
	return checkOutcome{}
}

// runDiodeLoop is §4.5 step 3.
func (c *Checker) runDiodeLoop(findings []*checkFinding, opts Options, log *logging.Logger, conn *connectivity.Result) {
	diodeDiff := opts.DiodeMTerm.MaxDiffArea()
	maxCount := opts.maxDiodeCount()

	for _, f := range findings {
		if f.isVia || !f.violated {
			continue
		}
		model, ok := c.store.Model(f.layer)
		if !ok {
			continue
		}

		k := recordGateMultiplicity(f.rec, conn)
		count := 0
		for {
			parPasses := !f.par.applicable || !f.par.violated
			psrPasses := !f.psr.applicable || !f.psr.violated
			if parPasses && psrPasses {
				break
			}
			if count >= maxCount {
				log.Warn("diode repair saturation", "gate", f.gate.Instance, "layer", f.layer, "diode_count", count)
				break
			}

			f.rec.IntermDiffArea += diodeDiff * float64(k)
			count++

			par, psr, diffPAR, diffPSR := recomputePARPSR(f.rec, model, false)
			f.rec.PAR, f.rec.PSR, f.rec.DiffPAR, f.rec.DiffPSR = par, psr, diffPAR, diffPSR
			f.par = evaluateCheck(model.PAR, model.DiffPAR, par, diffPAR, f.rec.IntermDiffArea, opts.RatioMargin)
			f.psr = evaluateCheck(model.PSR, model.DiffPSR, psr, diffPSR, f.rec.IntermDiffArea, opts.RatioMargin)
		}
		f.rec.DiodeCount = count
	}
}

// recordGateMultiplicity implements §4.5's "k = |gates on this record|":
// the largest gate-set size of any island contributing area to this
// record, since diode diffusion area added for this gate is shared with
// every other gate fabricated on the same island.
func recordGateMultiplicity(rec *techdata.InfoRecord, conn *connectivity.Result) int {
	k := 1
	for _, id := range rec.Islands {
		if n := len(conn.GateSet(id)); n > k {
			k = n
		}
	}
	return k
}

// recomputePARPSR re-derives PAR/PSR (and their diff variants) for a
// record after the diode loop has raised its diffusion area, using the
// same formula RatioEngine uses (duplicated here in miniature rather than
// re-running the whole engine, since only one record's derived quantity
// changed).
func recomputePARPSR(rec *techdata.InfoRecord, model *rules.AntennaModel, isVia bool) (par, psr, diffPAR, diffPSR float64) {
	A, S := rec.Area, rec.SideArea
	Gg, Gd := rec.IntermGateArea, rec.IntermDiffArea
	if Gg == 0 {
		return 0, 0, 0, 0
	}
	R := model.AreaDiffReduce.Eval(Gd, model.DiffMetalReduceFactor)

	metalFactor, diffMetalFactor := model.MetalFactor, model.DiffMetalFactor
	sideFactor, diffSideFactor := model.SideMetalFactor, model.DiffSideMetalFactor
	if isVia {
		metalFactor, diffMetalFactor = model.CutFactor, model.DiffCutFactor
		sideFactor, diffSideFactor = 0, 0
	}

	if Gd != 0 {
		par = (diffMetalFactor * A) / Gg
		psr = (diffSideFactor * S) / Gg
		diffPAR = (diffMetalFactor*A*R - model.MinusDiffFactor*Gd) / (Gg + model.PlusDiffFactor*Gd)
		diffPSR = (diffSideFactor*S*R - model.MinusDiffFactor*Gd) / (Gg + model.PlusDiffFactor*Gd)
	} else {
		par = metalFactor * A / Gg
		psr = sideFactor * S / Gg
		diffPAR = metalFactor * A * R / Gg
		diffPSR = sideFactor * S * R / Gg
	}
	if isVia {
		psr, diffPSR = 0, 0
	}
	return par, psr, diffPAR, diffPSR
}

// collectViolations builds the final Violation list and the set of
// distinct violated gates (§4.5 step 4: pinViolationCount).
func collectViolations(findings []*checkFinding) ([]techdata.Violation, map[techdata.GateID]struct{}) {
	var violations []techdata.Violation
	pinsViolated := make(map[techdata.GateID]struct{})

	for _, f := range findings {
		if !f.violated {
			continue
		}
		pinsViolated[f.gate] = struct{}{}

		violations = append(violations, techdata.Violation{
			RoutingLevel:      f.routingLevel,
			Layer:             f.layer,
			Gates:             []techdata.GateID{f.gate},
			DiodeCountPerGate: f.rec.DiodeCount,
		})
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].Layer != violations[j].Layer {
			return violations[i].Layer < violations[j].Layer
		}
		return violations[i].Gates[0].Instance < violations[j].Gates[0].Instance
	})

	return violations, pinsViolated
}
