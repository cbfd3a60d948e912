// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package testutil holds small helpers shared across this module's test
// files: a fluent net/stack fixture builder and an environment-gated
// skip for tests that regenerate golden output.
package testutil

import (
	"os"
	"testing"

	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

// RequireGoldenUpdate skips the test unless ANTENNACHECK_UPDATE_GOLDEN is
// set, for tests that regenerate a golden report file rather than just
// compare against one.
func RequireGoldenUpdate(t *testing.T) {
	t.Helper()
	if os.Getenv("ANTENNACHECK_UPDATE_GOLDEN") == "" {
		t.Skip("skipping: set ANTENNACHECK_UPDATE_GOLDEN=1 to regenerate golden output")
	}
}

// NetBuilder assembles a techdata.Net fixture with a fluent API, so
// scenario tests can read as a sequence of wires/vias/pins instead of a
// single large struct literal.
type NetBuilder struct {
	net techdata.Net
}

// NewNet starts a NetBuilder for a net with the given name.
func NewNet(name string) *NetBuilder {
	return &NetBuilder{net: techdata.Net{Name: name}}
}

// Special marks the net special (power/ground), which the checker
// rejects outright (§4.5 step 1).
func (b *NetBuilder) Special() *NetBuilder {
	b.net.Special = true
	return b
}

// Wire adds a routed rectangle on layer.
func (b *NetBuilder) Wire(layer string, xlo, ylo, xhi, yhi float64) *NetBuilder {
	b.net.Wires = append(b.net.Wires, techdata.Wire{
		Layer: layer,
		Rect:  techdata.Rect{XLo: xlo, YLo: ylo, XHi: xhi, YHi: yhi},
	})
	return b
}

// Via adds a cut crossing lower/upper layers, using the same square for
// all three of the via's geometric parts (lower/cut/upper), the common
// case for a fixture that doesn't need to exercise via-enclosure
// mismatches.
func (b *NetBuilder) Via(lower, cut, upper string, xlo, ylo, xhi, yhi float64) *NetBuilder {
	rect := techdata.Rect{XLo: xlo, YLo: ylo, XHi: xhi, YHi: yhi}
	b.net.Vias = append(b.net.Vias, techdata.Via{
		LowerLayer: lower, CutLayer: cut, UpperLayer: upper,
		LowerRect: rect, CutRect: rect, UpperRect: rect,
	})
	return b
}

// Gate adds an input pin on layer whose footprint sits flush against,
// but entirely outside, a wire's right edge at wireXHi: it borders the wire for DSU
// attachment (Touches) without overlapping it for pin-subtraction
// purposes, so the wire's full area survives LayerGeometry's subtract
// step. gateArea/diffArea populate the mterm's per-layer tables used by
// PAR/PSR/diff_PAR/diff_PSR.
func (b *NetBuilder) Gate(instance, layer string, wireXHi, gateArea, diffArea float64) *NetBuilder {
	b.net.Pins = append(b.net.Pins, techdata.Pin{
		Instance: instance,
		MTerm: techdata.MTerm{
			Name:     "A",
			IsInput:  true,
			Boxes:    []techdata.MTermBox{{Layer: layer, Rect: techdata.Rect{XLo: wireXHi, YLo: 0, XHi: wireXHi + 1, YHi: 1}}},
			GateArea: map[string]float64{layer: gateArea},
			DiffArea: map[string]float64{layer: diffArea},
		},
	})
	return b
}

// Build returns the assembled net.
func (b *NetBuilder) Build() techdata.Net {
	return b.net
}

// ToyRule returns a single-layer antenna rule with unit area/side-area
// factors and the given fixed thresholds, the same toy tech used by the
// concrete scenarios in spec §8.
func ToyRule(par, psr, car, csr float64) *techdata.AntennaRule {
	return &techdata.AntennaRule{
		AreaFactor:     1,
		SideAreaFactor: 1,
		PAR:            par,
		PSR:            psr,
		CAR:            car,
		CSR:            csr,
	}
}

// ToyStack returns the two-metal, one-via routing stack used across
// this module's scenario tests: unit width/thickness, rule applied to
// every metal layer.
func ToyStack(rule *techdata.AntennaRule) *techdata.Stack {
	return techdata.NewStack([]techdata.Layer{
		{Name: "M1", RoutingLevel: 1, Width: 1, Thickness: 1, Rule: rule},
		{Name: "V1", RoutingLevel: 0, Width: 1, Thickness: 1},
		{Name: "M2", RoutingLevel: 2, Width: 1, Thickness: 1, Rule: rule},
	})
}
