// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package connectivity implements Connectivity (§4.3): disjoint-set union
// across a net's islands, attaching each island the set of gates
// fabricated at or below it.
package connectivity

import (
	"sort"

	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

// Result is the per-net output of Build: for every island id, the set of
// gates electrically connected to it once the net is fabricated up to and
// including that island's layer.
type Result struct {
	gateSets map[int]map[techdata.GateID]struct{}
	d        *dsu
}

// SameComponent reports whether two island ids are in the same DSU set,
// i.e. electrically connected once the net is fully fabricated. Used by
// RatioEngine's "cumulative includes cuts" legacy rule (§4.4), which
// matches via islands to a metal island by DSU root rather than by
// layer-local adjacency.
func (r *Result) SameComponent(a, b int) bool {
	if r.d == nil {
		return a == b
	}
	return r.d.find(a) == r.d.find(b)
}

// GateSet returns the gates attached to island id, in a stable order.
func (r *Result) GateSet(islandID int) []techdata.GateID {
	set := r.gateSets[islandID]
	if len(set) == 0 {
		return nil
	}
	out := make([]techdata.GateID, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Instance != out[j].Instance {
			return out[i].Instance < out[j].Instance
		}
		return out[i].Pin < out[j].Pin
	})
	return out
}

// Build computes connectivity for one net's already-constructed
// LayeredGraph (§4.3 steps 1-4).
func Build(graph *techdata.LayeredGraph, net techdata.Net, stack *techdata.Stack) *Result {
	pinIslands := recordPinIslands(graph, net, stack)

	d := newDSU(len(graph.ByID))
	res := &Result{gateSets: make(map[int]map[techdata.GateID]struct{}), d: d}

	for _, layerName := range graph.LayerOrder {
		layer, _ := stack.Get(layerName)
		islands := graph.ByLayer[layerName]

		if layer.IsVia() {
			for _, vi := range islands {
				for _, lowerID := range vi.ViaLowerIslands {
					d.union(vi.ID, lowerID)
				}
				for _, upperID := range vi.ViaUpperIslands {
					d.union(vi.ID, upperID)
				}
			}
		}

		for _, isl := range islands {
			root := d.find(isl.ID)
			set := res.gateSets[isl.ID]
			if set == nil {
				set = make(map[techdata.GateID]struct{})
				res.gateSets[isl.ID] = set
			}
			for gate, ids := range pinIslands {
				for _, id := range ids {
					if d.find(id) == root {
						set[gate] = struct{}{}
						break
					}
				}
			}
		}
	}

	return res
}

// recordPinIslands is §4.3 step 1: for every gate pin, the island ids on
// its own/upper/lower routing layer that its footprint intersects.
func recordPinIslands(graph *techdata.LayeredGraph, net techdata.Net, stack *techdata.Stack) map[techdata.GateID][]int {
	out := make(map[techdata.GateID][]int)
	for _, p := range net.Pins {
		if !p.IsGate() {
			continue
		}
		gid := p.ID()
		var ids []int
		for _, fp := range p.Footprints() {
			ids = append(ids, intersectingIslandIDs(graph, fp.Layer, fp.Rect)...)

			if upper, ok := stack.Upper(fp.Layer); ok {
				ids = append(ids, intersectingIslandIDs(graph, upper.Name, fp.Rect)...)
			}
			if lower, ok := stack.Lower(fp.Layer); ok {
				ids = append(ids, intersectingIslandIDs(graph, lower.Name, fp.Rect)...)
			}
		}
		if len(ids) > 0 {
			out[gid] = append(out[gid], ids...)
		}
	}
	return out
}

// intersectingIslandIDs finds islands touching footprint. LayerGeometry
// already subtracted every pin footprint out of its layer's wiring
// (footprints are terminals, not conductor), so a pin's own island never
// strictly overlaps its footprint post-subtraction — only borders it.
// Touches (boundary-inclusive) is therefore the correct test here, not
// Intersects.
func intersectingIslandIDs(graph *techdata.LayeredGraph, layer string, footprint techdata.Rect) []int {
	var ids []int
	for _, isl := range graph.ByLayer[layer] {
		for _, r := range isl.Rects {
			if r.Touches(footprint) {
				ids = append(ids, isl.ID)
				break
			}
		}
	}
	return ids
}
