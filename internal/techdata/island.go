// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package techdata

// Island is a maximal polygon on one layer, formed by unioning every
// touching wire/via shape on that layer after subtracting pin footprints
// (§3, §4.2). Its polygon is kept as a set of non-overlapping rectilinear
// rectangles rather than a general polygon representation, since routed
// wires and via shapes are always axis-aligned rectangles and unioning
// rectangles never requires anything richer.
type Island struct {
	ID    int
	Layer string
	Rects []Rect

	// ViaLowerIslands/ViaUpperIslands are populated only for an island on
	// a via layer: the ids of the islands it overlaps (positive shared
	// area) on the immediate lower/upper routing layer (§4.2 step 3).
	ViaLowerIslands []int
	ViaUpperIslands []int
}

// Area is the sum of the island's rectangle areas. Because the
// rectangles composing one island are kept non-overlapping (§4.2
// contract), a plain sum is exact.
func (isl *Island) Area() float64 {
	var total float64
	for _, r := range isl.Rects {
		total += r.Area()
	}
	return total
}

// Perimeter sums each rectangle's perimeter. This over-counts the shared
// boundary between two rectangles of the same island that merely touch
// edge-to-edge rather than overlap, which is the same approximation the
// legacy polygon-set checker uses (true rectilinear-polygon perimeter
// would require tracing the outer boundary) and is acceptable because
// side-area ratios are a secondary, usually-looser check compared to PAR.
func (isl *Island) Perimeter() float64 {
	var total float64
	for _, r := range isl.Rects {
		if r.Empty() {
			continue
		}
		total += 2 * (r.Width() + r.Height())
	}
	return total
}

// LayeredGraph is the per-net output of LayerGeometry (§3, §4.2): islands
// grouped by layer, plus the dense island-id space used by Connectivity's
// DSU.
type LayeredGraph struct {
	// LayerOrder lists every layer that carries at least one island on
	// this net, in bottom-to-top fabrication order.
	LayerOrder []string
	ByLayer    map[string][]*Island
	ByID       []*Island
}

// InfoRecord is the accumulated per-gate, per-layer quantity record of
// §3, populated by the ratio package and consulted by the checker.
type InfoRecord struct {
	Gate  GateID
	Layer string

	// Islands lists the island ids whose area/perimeter were folded into
	// this record, needed by the diode loop to size the "gates per
	// record" multiplicity (§4.5 step 3).
	Islands []int

	Area     float64
	SideArea float64

	IntermGateArea float64
	IntermDiffArea float64

	PAR, PSR         float64
	DiffPAR, DiffPSR float64

	CAR, CSR         float64
	DiffCAR, DiffCSR float64

	DiodeCount int
}

// DiffConnected reports whether this record's gate already has diffusion
// area attached, selecting the diff-aware PAR/PSR formula branch of
// §4.4.
func (r *InfoRecord) DiffConnected() bool { return r.IntermDiffArea != 0 }
