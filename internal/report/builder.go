// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package report builds the human-readable violation report text (§6):
// accumulate structured lines through a small set of Begin/Add/End
// calls, then flatten to text once at the end, rather than interleaving
// string concatenation with the traversal that produces it.
package report

import (
	"fmt"
	"strings"
)

// Ratio is one reported ratio line plus its paired threshold (§6:
// "Partial area ratio: <x.xx> / Required ratio: <y.yy> (Gate area)
// [(VIOLATED)]").
type Ratio struct {
	Value    float64
	Required float64
	Kind     string // "Gate area", "Side area", "Cumulative area", "Cumulative side area"
	Violated bool
}

// Builder accumulates one report's lines across nets, pins and layers.
type Builder struct {
	lines      []string
	netOpen    bool
	pinOpen    bool
	firstInNet bool
}

// NewBuilder returns an empty report builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BeginNet starts a new net section, blank-line-separated from any prior
// net (§6: "Blank lines separate pins and nets").
func (b *Builder) BeginNet(name string) {
	if b.pinOpen {
		b.EndPin()
	}
	if b.netOpen {
		b.lines = append(b.lines, "")
	}
	b.lines = append(b.lines, fmt.Sprintf("Net: %s", name))
	b.netOpen = true
	b.firstInNet = true
}

// BeginPin starts a new pin (gate) section within the current net.
func (b *Builder) BeginPin(gateName string) {
	if b.pinOpen && !b.firstInNet {
		b.lines = append(b.lines, "")
	}
	b.lines = append(b.lines, fmt.Sprintf("  Pin: %s", gateName))
	b.pinOpen = true
	b.firstInNet = false
}

// EndPin closes the current pin section. Blank-line separation before the
// next pin/net is applied lazily by the next Begin call.
func (b *Builder) EndPin() {
	b.pinOpen = false
}

// Block is one area-dimension's worth of ratio lines: the area dimension
// (PAR/CAR, kinds "Gate area"/"Cumulative area") and the side-area
// dimension (PSR/CSR, kinds "Side area"/"Cumulative side area") each
// produce one Block under the same layer header.
type Block struct {
	Partial    *Ratio
	Cumulative *Ratio
}

// AddLayer emits a layer header followed by one repeated 4-line block per
// dimension that applies to this layer:
//
//	Layer: <layer-name>
//	  Partial area ratio:   <x.xx>
//	  Required ratio:       <y.yy> (Gate area|Side area) [(VIOLATED)]
//	  Cumulative area ratio: <x.xx>
//	  Required ratio:       <y.yy> (Cumulative area|Cumulative side area) [(VIOLATED)]
//
// A via layer supplies only the area-dimension Block (no side-area rule
// applies to cuts).
func (b *Builder) AddLayer(layer string, blocks ...Block) {
	b.lines = append(b.lines, fmt.Sprintf("    Layer: %s", layer))
	for _, blk := range blocks {
		if blk.Partial != nil {
			b.lines = append(b.lines, fmt.Sprintf("      Partial area ratio:   %.2f", blk.Partial.Value))
			b.lines = append(b.lines, requiredLine(*blk.Partial))
		}
		if blk.Cumulative != nil {
			b.lines = append(b.lines, fmt.Sprintf("      Cumulative area ratio: %.2f", blk.Cumulative.Value))
			b.lines = append(b.lines, requiredLine(*blk.Cumulative))
		}
	}
}

func requiredLine(r Ratio) string {
	line := fmt.Sprintf("      Required ratio:       %.2f (%s)", r.Required, r.Kind)
	if r.Violated {
		line += " (VIOLATED)"
	}
	return line
}

// String flattens the accumulated lines into the final report text.
func (b *Builder) String() string {
	return strings.Join(b.lines, "\n")
}
