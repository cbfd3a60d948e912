// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package checker

import (
	"sort"

	"github.com/exa-laboratories/antennacheck/internal/report"
	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

// renderReport builds the report text for one net (§6), honoring verbose
// (echo non-violating records) and reportIfNoViolation (always emit the
// net header even with nothing to show).
func (c *Checker) renderReport(net techdata.Net, findings []*checkFinding, opts Options) string {
	byGate := make(map[techdata.GateID][]*checkFinding)
	var gateOrder []techdata.GateID
	for _, f := range findings {
		if !opts.Verbose && !f.violated {
			continue
		}
		if _, seen := byGate[f.gate]; !seen {
			gateOrder = append(gateOrder, f.gate)
		}
		byGate[f.gate] = append(byGate[f.gate], f)
	}
	sort.Slice(gateOrder, func(i, j int) bool {
		if gateOrder[i].Instance != gateOrder[j].Instance {
			return gateOrder[i].Instance < gateOrder[j].Instance
		}
		return gateOrder[i].Pin < gateOrder[j].Pin
	})

	b := report.NewBuilder()
	b.BeginNet(net.Name)
	if len(gateOrder) == 0 {
		return b.String()
	}

	for _, gate := range gateOrder {
		gateFindings := byGate[gate]
		sort.SliceStable(gateFindings, func(i, j int) bool {
			li, _ := c.stack.IndexOf(gateFindings[i].layer)
			lj, _ := c.stack.IndexOf(gateFindings[j].layer)
			return li < lj
		})

		b.BeginPin(gate.Instance + "/" + gate.Pin)
		for _, f := range gateFindings {
			blocks := []report.Block{areaBlock(f)}
			if !f.isVia {
				blocks = append(blocks, sideBlock(f))
			}
			b.AddLayer(f.layer, blocks...)
		}
	}

	return b.String()
}

func areaBlock(f *checkFinding) report.Block {
	blk := report.Block{}
	if f.par.applicable {
		blk.Partial = &report.Ratio{Value: displayValue(f.rec.PAR, f.rec.DiffPAR, f.par), Required: f.par.required, Kind: "Gate area", Violated: f.par.violated}
	}
	if f.car.applicable {
		blk.Cumulative = &report.Ratio{Value: displayValue(f.rec.CAR, f.rec.DiffCAR, f.car), Required: f.car.required, Kind: "Cumulative area", Violated: f.car.violated}
	}
	return blk
}

func sideBlock(f *checkFinding) report.Block {
	blk := report.Block{}
	if f.psr.applicable {
		blk.Partial = &report.Ratio{Value: displayValue(f.rec.PSR, f.rec.DiffPSR, f.psr), Required: f.psr.required, Kind: "Side area", Violated: f.psr.violated}
	}
	if f.csr.applicable {
		blk.Cumulative = &report.Ratio{Value: displayValue(f.rec.CSR, f.rec.DiffCSR, f.csr), Required: f.csr.required, Kind: "Cumulative side area", Violated: f.csr.violated}
	}
	return blk
}

func displayValue(plain, diff float64, outcome checkOutcome) float64 {
	if outcome.usedDiff {
		return diff
	}
	return plain
}
