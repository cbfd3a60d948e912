// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package ratio implements RatioEngine (§4.4): per-(gate,layer) InfoRecord
// aggregation and the PAR/PSR/CAR/CSR formulas, including the
// diffusion-area PWL branch and the legacy "cumulative includes cuts"
// rule.
package ratio

import (
	"sort"

	"github.com/exa-laboratories/antennacheck/internal/connectivity"
	"github.com/exa-laboratories/antennacheck/internal/rules"
	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

type runningSum struct {
	par, psr, diffPAR, diffPSR float64
}

type viaContribution struct {
	islandID      int
	par, diffPAR  float64
}

// Compute builds every (gate,layer) InfoRecord for one net, in
// deterministic bottom-to-top, gate-name order (§5 ordering guarantee).
func Compute(net techdata.Net, graph *techdata.LayeredGraph, conn *connectivity.Result, store *rules.Store, stack *techdata.Stack) []*techdata.InfoRecord {
	gateMTerm := make(map[techdata.GateID]techdata.MTerm)
	for _, p := range net.Pins {
		if p.IsGate() {
			gateMTerm[p.ID()] = p.MTerm
		}
	}

	type key struct {
		gate  techdata.GateID
		layer string
	}
	recordAt := make(map[key]*techdata.InfoRecord)
	recordIslands := make(map[key][]int)
	var order []key

	for _, layerName := range graph.LayerOrder {
		layer, _ := stack.Get(layerName)
		for _, isl := range graph.ByLayer[layerName] {
			for _, gate := range conn.GateSet(isl.ID) {
				k := key{gate: gate, layer: layerName}
				rec, ok := recordAt[k]
				if !ok {
					rec = &techdata.InfoRecord{Gate: gate, Layer: layerName}
					recordAt[k] = rec
					order = append(order, k)
				}
				rec.Area += isl.Area()
				if !layer.IsVia() {
					rec.SideArea += isl.Perimeter() * layer.Thickness
				}
				recordIslands[k] = append(recordIslands[k], isl.ID)
				rec.Islands = append(rec.Islands, isl.ID)
			}
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		oi, oj := order[i], order[j]
		li, _ := stack.IndexOf(oi.layer)
		lj, _ := stack.IndexOf(oj.layer)
		if li != lj {
			return li < lj
		}
		if oi.gate.Instance != oj.gate.Instance {
			return oi.gate.Instance < oj.gate.Instance
		}
		return oi.gate.Pin < oj.gate.Pin
	})

	sumWire := make(map[techdata.GateID]*runningSum)
	sumVia := make(map[techdata.GateID]*runningSum)
	viaContribs := make(map[techdata.GateID][]viaContribution)

	var records []*techdata.InfoRecord
	for _, k := range order {
		rec := recordAt[k]
		mterm := gateMTerm[rec.Gate]
		rec.IntermGateArea = mterm.MaxGateArea()
		rec.IntermDiffArea = mterm.MaxDiffArea()

		layer, _ := stack.Get(k.layer)
		model, hasModel := store.Model(k.layer)
		if !hasModel {
			records = append(records, rec)
			continue
		}

		par, psr, diffPAR, diffPSR := computePAR(rec, model, layer.IsVia())

		if sumWire[rec.Gate] == nil {
			sumWire[rec.Gate] = &runningSum{}
		}
		if sumVia[rec.Gate] == nil {
			sumVia[rec.Gate] = &runningSum{}
		}

		if layer.IsVia() {
			sv := sumVia[rec.Gate]
			sv.par += par
			sv.diffPAR += diffPAR
			rec.CAR = sv.par
			rec.DiffCAR = sv.diffPAR
			rec.CSR = 0
			rec.DiffCSR = 0

			for _, id := range recordIslands[k] {
				viaContribs[rec.Gate] = append(viaContribs[rec.Gate], viaContribution{islandID: id, par: par, diffPAR: diffPAR})
			}
		} else {
			sw := sumWire[rec.Gate]
			sw.par += par
			sw.psr += psr
			sw.diffPAR += diffPAR
			sw.diffPSR += diffPSR
			rec.CAR = sw.par
			rec.CSR = sw.psr
			rec.DiffCAR = sw.diffPAR
			rec.DiffCSR = sw.diffPSR

			if model.CumulativeIncludesCuts {
				var extraPAR, extraDiffPAR float64
				for _, vc := range viaContribs[rec.Gate] {
					if sameSetAsAny(conn, vc.islandID, recordIslands[k]) {
						extraPAR += vc.par
						extraDiffPAR += vc.diffPAR
					}
				}
				rec.CAR += extraPAR
				rec.DiffCAR += extraDiffPAR
			}
		}

		rec.PAR, rec.PSR, rec.DiffPAR, rec.DiffPSR = par, psr, diffPAR, diffPSR
		records = append(records, rec)
	}

	return records
}

func sameSetAsAny(conn *connectivity.Result, id int, ids []int) bool {
	for _, other := range ids {
		if conn.SameComponent(id, other) {
			return true
		}
	}
	return false
}

// computePAR implements §4.4's per-record formula table.
func computePAR(rec *techdata.InfoRecord, model *rules.AntennaModel, isVia bool) (par, psr, diffPAR, diffPSR float64) {
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

	diffConnected := Gd != 0

	if diffConnected {
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
