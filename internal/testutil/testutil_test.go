// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package testutil

import "testing"

func TestNetBuilderAssemblesFixture(t *testing.T) {
	net := NewNet("N1").
		Wire("M1", 0, 0, 10, 1).
		Gate("U1", "M1", 10, 20, 0).
		Build()

	if len(net.Wires) != 1 || len(net.Pins) != 1 {
		t.Fatalf("unexpected net: %+v", net)
	}
	if !net.Pins[0].IsGate() {
		t.Fatalf("expected pin to be a gate: %+v", net.Pins[0])
	}
	fp := net.Pins[0].Footprints()
	if len(fp) != 1 || fp[0].Rect.XLo != 10 || fp[0].Rect.XHi != 11 {
		t.Fatalf("expected footprint flush with wire's right edge, got %+v", fp)
	}
}

func TestNetBuilderSpecial(t *testing.T) {
	net := NewNet("VDD").Special().Build()
	if !net.Special {
		t.Fatal("expected net to be special")
	}
}

func TestToyStackHasThreeLayers(t *testing.T) {
	stack := ToyStack(ToyRule(1.0, 0, 0, 0))
	if len(stack.Layers) != 3 {
		t.Fatalf("len(stack.Layers) = %d, want 3", len(stack.Layers))
	}
	m1, ok := stack.Get("M1")
	if !ok || m1.Rule == nil || m1.Rule.PAR != 1.0 {
		t.Fatalf("unexpected M1 layer: %+v", m1)
	}
}
