// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package geometry implements LayerGeometry (§4.2): turns one net's wires
// and vias into per-layer islands, subtracts pin footprints, and records
// via-to-metal adjacency, using internal/geometry/polyset for the
// underlying rectangle boolean ops.
package geometry

import (
	"fmt"
	"sort"

	"github.com/exa-laboratories/antennacheck/internal/geometry/polyset"
	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

// Warning is a non-fatal data-model issue raised while building geometry
// (§7 DataWarning: "via with >2 adjacent islands").
type Warning struct {
	Layer   string
	Message string
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.Layer, w.Message) }

// Build constructs the LayeredGraph for one net (§4.2 steps 1-4). stack
// supplies fabrication order and upper/lower layer lookups.
func Build(net techdata.Net, stack *techdata.Stack) (*techdata.LayeredGraph, []Warning) {
	raw := make(map[string][]techdata.Rect)
	for _, w := range net.Wires {
		raw[w.Layer] = append(raw[w.Layer], w.Rect)
	}
	for _, v := range net.Vias {
		raw[v.LowerLayer] = append(raw[v.LowerLayer], v.LowerRect)
		raw[v.CutLayer] = append(raw[v.CutLayer], v.CutRect)
		raw[v.UpperLayer] = append(raw[v.UpperLayer], v.UpperRect)
	}

	footprints := make(map[string][]techdata.Rect)
	for _, p := range net.Pins {
		for _, fp := range p.Footprints() {
			footprints[fp.Layer] = append(footprints[fp.Layer], fp.Rect)
		}
	}

	graph := &techdata.LayeredGraph{ByLayer: make(map[string][]*techdata.Island)}
	nextID := 0

	for _, l := range stack.Layers {
		rects, ok := raw[l.Name]
		if !ok || len(rects) == 0 {
			continue
		}
		unioned := polyset.Union(rects)
		if fp := footprints[l.Name]; len(fp) > 0 {
			unioned = polyset.Subtract(unioned, fp)
		}
		if len(unioned) == 0 {
			continue
		}

		islands := groupIslands(unioned)
		layerIslands := make([]*techdata.Island, 0, len(islands))
		for _, rs := range islands {
			isl := &techdata.Island{ID: nextID, Layer: l.Name, Rects: rs}
			nextID++
			layerIslands = append(layerIslands, isl)
			graph.ByID = append(graph.ByID, isl)
		}
		graph.ByLayer[l.Name] = layerIslands
		graph.LayerOrder = append(graph.LayerOrder, l.Name)
	}

	var warnings []Warning
	for _, l := range stack.Layers {
		if !l.IsVia() {
			continue
		}
		viaIslands := graph.ByLayer[l.Name]
		if len(viaIslands) == 0 {
			continue
		}
		lower, hasLower := stack.Lower(l.Name)
		upper, hasUpper := stack.Upper(l.Name)

		for _, vi := range viaIslands {
			if hasLower {
				vi.ViaLowerIslands = intersectingIDs(vi, graph.ByLayer[lower.Name])
				if len(vi.ViaLowerIslands) > 2 {
					warnings = append(warnings, Warning{
						Layer:   l.Name,
						Message: fmt.Sprintf("via island %d touches %d lower-layer islands on %s (expected <= 2)", vi.ID, len(vi.ViaLowerIslands), lower.Name),
					})
				}
			}
			if hasUpper {
				vi.ViaUpperIslands = intersectingIDs(vi, graph.ByLayer[upper.Name])
				if len(vi.ViaUpperIslands) > 2 {
					warnings = append(warnings, Warning{
						Layer:   l.Name,
						Message: fmt.Sprintf("via island %d touches %d upper-layer islands on %s (expected <= 2)", vi.ID, len(vi.ViaUpperIslands), upper.Name),
					})
				}
			}
		}
	}

	return graph, warnings
}

func intersectingIDs(via *techdata.Island, candidates []*techdata.Island) []int {
	var ids []int
	for _, c := range candidates {
		if islandsIntersect(via, c) {
			ids = append(ids, c.ID)
		}
	}
	sort.Ints(ids)
	return ids
}

func islandsIntersect(a, b *techdata.Island) bool {
	for _, ra := range a.Rects {
		for _, rb := range b.Rects {
			if ra.Intersects(rb) {
				return true
			}
		}
	}
	return false
}

// groupIslands partitions a non-overlapping rectangle decomposition into
// maximal touching-connected components (§4.2 contract).
func groupIslands(rects []techdata.Rect) [][]techdata.Rect {
	n := len(rects)
	visited := make([]bool, n)
	var groups [][]techdata.Rect

	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		queue := []int{i}
		visited[i] = true
		var comp []techdata.Rect
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			comp = append(comp, rects[cur])
			for j := 0; j < n; j++ {
				if !visited[j] && rects[cur].Touches(rects[j]) {
					visited[j] = true
					queue = append(queue, j)
				}
			}
		}
		groups = append(groups, comp)
	}
	return groups
}
