// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package geometry

import (
	"testing"

	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

func toyStack() *techdata.Stack {
	return techdata.NewStack([]techdata.Layer{
		{Name: "M1", RoutingLevel: 1},
		{Name: "V1", RoutingLevel: 0},
		{Name: "M2", RoutingLevel: 2},
	})
}

func TestBuildSingleWireOneIsland(t *testing.T) {
	net := techdata.Net{
		Wires: []techdata.Wire{
			{Layer: "M1", Rect: techdata.Rect{XLo: 0, YLo: 0, XHi: 10, YHi: 1}},
		},
	}
	graph, warnings := Build(net, toyStack())
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	islands := graph.ByLayer["M1"]
	if len(islands) != 1 {
		t.Fatalf("len(islands) = %d, want 1", len(islands))
	}
	if got, want := islands[0].Area(), 10.0; got != want {
		t.Fatalf("Area = %v, want %v", got, want)
	}
}

func TestBuildSubtractsPinFootprint(t *testing.T) {
	net := techdata.Net{
		Wires: []techdata.Wire{
			{Layer: "M1", Rect: techdata.Rect{XLo: 0, YLo: 0, XHi: 10, YHi: 1}},
		},
		Pins: []techdata.Pin{
			{
				Instance: "U1",
				MTerm: techdata.MTerm{
					Name:  "A",
					Boxes: []techdata.MTermBox{{Layer: "M1", Rect: techdata.Rect{XLo: 0, YLo: 0, XHi: 2, YHi: 1}}},
				},
			},
		},
	}
	graph, _ := Build(net, toyStack())
	islands := graph.ByLayer["M1"]
	var total float64
	for _, isl := range islands {
		total += isl.Area()
	}
	if got, want := total, 8.0; got != want {
		t.Fatalf("remaining area = %v, want %v", got, want)
	}
}

func TestBuildViaLinksAdjacentMetalIslands(t *testing.T) {
	net := techdata.Net{
		Wires: []techdata.Wire{
			{Layer: "M1", Rect: techdata.Rect{XLo: 0, YLo: 0, XHi: 10, YHi: 1}},
			{Layer: "M2", Rect: techdata.Rect{XLo: 0, YLo: 0, XHi: 10, YHi: 1}},
		},
		Vias: []techdata.Via{
			{
				LowerLayer: "M1", CutLayer: "V1", UpperLayer: "M2",
				LowerRect: techdata.Rect{XLo: 4, YLo: 0, XHi: 6, YHi: 1},
				CutRect:   techdata.Rect{XLo: 4, YLo: 0, XHi: 6, YHi: 1},
				UpperRect: techdata.Rect{XLo: 4, YLo: 0, XHi: 6, YHi: 1},
			},
		},
	}
	graph, warnings := Build(net, toyStack())
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	viaIslands := graph.ByLayer["V1"]
	if len(viaIslands) != 1 {
		t.Fatalf("len(viaIslands) = %d, want 1", len(viaIslands))
	}
	vi := viaIslands[0]
	if len(vi.ViaLowerIslands) != 1 {
		t.Fatalf("ViaLowerIslands = %v, want 1 entry", vi.ViaLowerIslands)
	}
	if len(vi.ViaUpperIslands) != 1 {
		t.Fatalf("ViaUpperIslands = %v, want 1 entry", vi.ViaUpperIslands)
	}
}

func TestBuildEmptyNetYieldsNoIslands(t *testing.T) {
	graph, warnings := Build(techdata.Net{}, toyStack())
	if len(graph.LayerOrder) != 0 {
		t.Fatalf("expected no layers for an empty net, got %v", graph.LayerOrder)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestBuildWarnsOnTooManyViaNeighbors(t *testing.T) {
	net := techdata.Net{
		Wires: []techdata.Wire{
			{Layer: "M1", Rect: techdata.Rect{XLo: 0, YLo: 0, XHi: 2, YHi: 1}},
			{Layer: "M1", Rect: techdata.Rect{XLo: 10, YLo: 0, XHi: 12, YHi: 1}},
			{Layer: "M1", Rect: techdata.Rect{XLo: 20, YLo: 0, XHi: 22, YHi: 1}},
		},
		// The via's lower enclosure covers only the first wire, so the three
		// M1 wires stay three separate islands while the wide cut overlaps
		// all of them.
		Vias: []techdata.Via{
			{
				LowerLayer: "M1", CutLayer: "V1", UpperLayer: "M2",
				LowerRect: techdata.Rect{XLo: 0, YLo: 0, XHi: 2, YHi: 1},
				CutRect:   techdata.Rect{XLo: 0, YLo: 0, XHi: 22, YHi: 1},
				UpperRect: techdata.Rect{XLo: 0, YLo: 0, XHi: 22, YHi: 1},
			},
		},
	}
	_, warnings := Build(net, toyStack())
	if len(warnings) != 1 {
		t.Fatalf("len(warnings) = %d, want 1", len(warnings))
	}
}
