// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package techdata

import "sort"

// PWLPoint is one (index, ratio) sample of a piecewise-linear table, per
// §3: areaDiffReduce and the diffPAR/diffPSR/diffCAR/diffCSR threshold
// tables are all PWL functions of diffusion area.
type PWLPoint struct {
	Index float64
	Ratio float64
}

// PWLTable evaluates by linear interpolation between consecutive points
// and linear extrapolation using the last slope outside the range. A
// single-point table is constant. An empty table returns the caller's
// default.
type PWLTable struct {
	Points []PWLPoint
}

// NewPWLTable builds a table from unordered points, sorting by Index.
func NewPWLTable(points ...PWLPoint) PWLTable {
	pts := append([]PWLPoint(nil), points...)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Index < pts[j].Index })
	return PWLTable{Points: pts}
}

// IsEmpty reports whether the table carries no points, i.e. the rule
// simply doesn't define this threshold (§4.5: "skipped" in that case).
func (t PWLTable) IsEmpty() bool {
	return len(t.Points) == 0
}

// Eval interpolates/extrapolates the table at x. def is returned for an
// empty table.
func (t PWLTable) Eval(x float64, def float64) float64 {
	n := len(t.Points)
	if n == 0 {
		return def
	}
	if n == 1 {
		return t.Points[0].Ratio
	}

	if x <= t.Points[0].Index {
		return extrapolate(t.Points[0], t.Points[1], x)
	}
	if x >= t.Points[n-1].Index {
		return extrapolate(t.Points[n-2], t.Points[n-1], x)
	}

	// Interior: find the bracketing segment and interpolate.
	for i := 0; i < n-1; i++ {
		lo, hi := t.Points[i], t.Points[i+1]
		if x >= lo.Index && x <= hi.Index {
			if hi.Index == lo.Index {
				return lo.Ratio
			}
			frac := (x - lo.Index) / (hi.Index - lo.Index)
			return lo.Ratio + frac*(hi.Ratio-lo.Ratio)
		}
	}
	// Unreachable given the bounds checks above.
	return t.Points[n-1].Ratio
}

func extrapolate(a, b PWLPoint, x float64) float64 {
	if b.Index == a.Index {
		return a.Ratio
	}
	slope := (b.Ratio - a.Ratio) / (b.Index - a.Index)
	return a.Ratio + slope*(x-a.Index)
}
