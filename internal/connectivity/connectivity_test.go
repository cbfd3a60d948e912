// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package connectivity

import (
	"testing"

	"github.com/exa-laboratories/antennacheck/internal/geometry"
	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

func toyStack() *techdata.Stack {
	return techdata.NewStack([]techdata.Layer{
		{Name: "M1", RoutingLevel: 1},
		{Name: "V1", RoutingLevel: 0},
		{Name: "M2", RoutingLevel: 2},
	})
}

// gateMTerm builds an input mterm with a single box on layer covering
// box, carrying nonzero gate area so IsGate() is true.
func gateMTerm(name, layer string, box techdata.Rect) techdata.MTerm {
	return techdata.MTerm{
		Name:     name,
		IsInput:  true,
		Boxes:    []techdata.MTermBox{{Layer: layer, Rect: box}},
		GateArea: map[string]float64{layer: 20},
	}
}

func TestConnectivityAttachesDirectlyTouchingGate(t *testing.T) {
	net := techdata.Net{
		Wires: []techdata.Wire{
			{Layer: "M1", Rect: techdata.Rect{XLo: 0, YLo: 0, XHi: 10, YHi: 1}},
		},
		Pins: []techdata.Pin{
			{Instance: "U1", MTerm: gateMTerm("A", "M1", techdata.Rect{XLo: 9, YLo: 0, XHi: 10, YHi: 1})},
		},
	}
	stack := toyStack()
	graph, _ := geometry.Build(net, stack)
	result := Build(graph, net, stack)

	islands := graph.ByLayer["M1"]
	if len(islands) != 1 {
		t.Fatalf("len(islands) = %d, want 1", len(islands))
	}
	gates := result.GateSet(islands[0].ID)
	if len(gates) != 1 || gates[0].Instance != "U1" {
		t.Fatalf("GateSet = %+v, want [U1/A]", gates)
	}
}

func TestConnectivityPropagatesThroughVia(t *testing.T) {
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
		Pins: []techdata.Pin{
			{Instance: "U1", MTerm: gateMTerm("A", "M2", techdata.Rect{XLo: 9, YLo: 0, XHi: 10, YHi: 1})},
		},
	}
	stack := toyStack()
	graph, _ := geometry.Build(net, stack)
	result := Build(graph, net, stack)

	m1 := graph.ByLayer["M1"][0]
	gates := result.GateSet(m1.ID)
	if len(gates) != 1 || gates[0].Instance != "U1" {
		t.Fatalf("gate on M2 should propagate down through the via to M1, got %+v", gates)
	}
}

func TestConnectivityIsolatesUnconnectedIslands(t *testing.T) {
	net := techdata.Net{
		Wires: []techdata.Wire{
			{Layer: "M1", Rect: techdata.Rect{XLo: 0, YLo: 0, XHi: 2, YHi: 1}},
			{Layer: "M1", Rect: techdata.Rect{XLo: 100, YLo: 0, XHi: 102, YHi: 1}},
		},
		Pins: []techdata.Pin{
			{Instance: "U1", MTerm: gateMTerm("A", "M1", techdata.Rect{XLo: 0, YLo: 0, XHi: 1, YHi: 1})},
		},
	}
	stack := toyStack()
	graph, _ := geometry.Build(net, stack)
	result := Build(graph, net, stack)

	var farIsland *techdata.Island
	for _, isl := range graph.ByLayer["M1"] {
		if isl.Rects[0].XLo > 50 {
			farIsland = isl
		}
	}
	if farIsland == nil {
		t.Fatal("expected a far island")
	}
	if gates := result.GateSet(farIsland.ID); len(gates) != 0 {
		t.Fatalf("disconnected island should have no gates, got %+v", gates)
	}
}
