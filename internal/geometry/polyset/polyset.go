// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package polyset implements rectilinear polygon-set boolean operations
// (union, subtraction) over axis-aligned rectangles, the one subsystem of
// the antenna checker with no corpus library to ground on — no
// third-party Go module in the reference set does rectilinear polygon
// boolean ops, so this is hand-rolled standard-library code (see
// DESIGN.md). The algorithm is the standard vertical-strip interval-merge
// construction: bucket input rectangles into strips between consecutive
// distinct x coordinates, merge the y-intervals active in each strip, then
// coalesce horizontally-adjacent strips that carry identical y-intervals
// back into wider rectangles.
package polyset

import (
	"sort"

	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

type yspan struct {
	lo, hi float64
}

// Union returns the canonical non-overlapping rectangle decomposition of
// the union of rects. Degenerate (empty) input rectangles are ignored.
func Union(rects []techdata.Rect) []techdata.Rect {
	live := make([]techdata.Rect, 0, len(rects))
	for _, r := range rects {
		if !r.Empty() {
			live = append(live, r)
		}
	}
	if len(live) == 0 {
		return nil
	}

	xs := distinctSorted(func(yield func(float64)) {
		for _, r := range live {
			yield(r.XLo)
			yield(r.XHi)
		}
	})
	if len(xs) < 2 {
		return nil
	}

	type strip struct {
		xlo, xhi float64
		spans    []yspan
	}
	strips := make([]strip, 0, len(xs)-1)
	for i := 0; i < len(xs)-1; i++ {
		xlo, xhi := xs[i], xs[i+1]
		var ys []yspan
		for _, r := range live {
			if r.XLo <= xlo && r.XHi >= xhi {
				ys = append(ys, yspan{r.YLo, r.YHi})
			}
		}
		if len(ys) == 0 {
			continue
		}
		strips = append(strips, strip{xlo: xlo, xhi: xhi, spans: mergeSpans(ys)})
	}

	var out []techdata.Rect
	i := 0
	for i < len(strips) {
		j := i + 1
		for j < len(strips) && strips[j].xlo == strips[j-1].xhi && sameSpans(strips[j].spans, strips[i].spans) {
			j++
		}
		for _, sp := range strips[i].spans {
			out = append(out, techdata.Rect{
				XLo: strips[i].xlo, XHi: strips[j-1].xhi,
				YLo: sp.lo, YHi: sp.hi,
			})
		}
		i = j
	}
	return out
}

// Subtract removes every rectangle in subs from every rectangle in base,
// returning the remaining (possibly re-split) non-overlapping rectangles.
func Subtract(base []techdata.Rect, subs []techdata.Rect) []techdata.Rect {
	pieces := append([]techdata.Rect(nil), base...)
	for _, s := range subs {
		if s.Empty() {
			continue
		}
		var next []techdata.Rect
		for _, p := range pieces {
			next = append(next, subtractOne(p, s)...)
		}
		pieces = next
	}
	var out []techdata.Rect
	for _, p := range pieces {
		if !p.Empty() {
			out = append(out, p)
		}
	}
	return out
}

// subtractOne splits r into up to four rectangles covering r minus its
// overlap with cut.
func subtractOne(r, cut techdata.Rect) []techdata.Rect {
	ix := r.Intersection(cut)
	if ix.Empty() {
		return []techdata.Rect{r}
	}
	var out []techdata.Rect
	if r.YLo < ix.YLo {
		out = append(out, techdata.Rect{XLo: r.XLo, YLo: r.YLo, XHi: r.XHi, YHi: ix.YLo})
	}
	if ix.YHi < r.YHi {
		out = append(out, techdata.Rect{XLo: r.XLo, YLo: ix.YHi, XHi: r.XHi, YHi: r.YHi})
	}
	if r.XLo < ix.XLo {
		out = append(out, techdata.Rect{XLo: r.XLo, YLo: ix.YLo, XHi: ix.XLo, YHi: ix.YHi})
	}
	if ix.XHi < r.XHi {
		out = append(out, techdata.Rect{XLo: ix.XHi, YLo: ix.YLo, XHi: r.XHi, YHi: ix.YHi})
	}
	filtered := out[:0]
	for _, o := range out {
		if !o.Empty() {
			filtered = append(filtered, o)
		}
	}
	return filtered
}

func mergeSpans(spans []yspan) []yspan {
	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })
	var out []yspan
	for _, s := range spans {
		if len(out) > 0 && s.lo <= out[len(out)-1].hi {
			if s.hi > out[len(out)-1].hi {
				out[len(out)-1].hi = s.hi
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

func sameSpans(a, b []yspan) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func distinctSorted(iterate func(yield func(float64))) []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	iterate(func(v float64) {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	})
	sort.Float64s(out)
	return out
}
