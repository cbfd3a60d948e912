// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package polyset

import (
	"testing"

	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

func totalArea(rects []techdata.Rect) float64 {
	var total float64
	for _, r := range rects {
		total += r.Area()
	}
	return total
}

func TestUnionOfDisjointRectsPreservesArea(t *testing.T) {
	in := []techdata.Rect{
		{XLo: 0, YLo: 0, XHi: 10, YHi: 1},
		{XLo: 20, YLo: 0, XHi: 30, YHi: 1},
	}
	out := Union(in)
	if got, want := totalArea(out), 20.0; got != want {
		t.Fatalf("area = %v, want %v", got, want)
	}
}

func TestUnionMergesOverlappingRects(t *testing.T) {
	in := []techdata.Rect{
		{XLo: 0, YLo: 0, XHi: 10, YHi: 1},
		{XLo: 5, YLo: 0, XHi: 15, YHi: 1},
	}
	out := Union(in)
	if got, want := totalArea(out), 15.0; got != want {
		t.Fatalf("area = %v, want %v", got, want)
	}
}

func TestUnionMergesAbuttingRectsArea(t *testing.T) {
	in := []techdata.Rect{
		{XLo: 0, YLo: 0, XHi: 10, YHi: 1},
		{XLo: 10, YLo: 0, XHi: 20, YHi: 1},
	}
	out := Union(in)
	if got, want := totalArea(out), 20.0; got != want {
		t.Fatalf("area = %v, want %v", got, want)
	}
	// abutting same-height rects should coalesce into one rectangle.
	if len(out) != 1 {
		t.Fatalf("len(out) = %d, want 1 (coalesced)", len(out))
	}
}

func TestUnionResultIsNonOverlapping(t *testing.T) {
	in := []techdata.Rect{
		{XLo: 0, YLo: 0, XHi: 10, YHi: 10},
		{XLo: 5, YLo: 5, XHi: 15, YHi: 15},
		{XLo: 8, YLo: -5, XHi: 20, YHi: 3},
	}
	out := Union(in)
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[i].Intersects(out[j]) {
				t.Fatalf("result rects %+v and %+v overlap", out[i], out[j])
			}
		}
	}
}

func TestSubtractRemovesFullyContainedHole(t *testing.T) {
	base := []techdata.Rect{{XLo: 0, YLo: 0, XHi: 10, YHi: 10}}
	subs := []techdata.Rect{{XLo: 4, YLo: 4, XHi: 6, YHi: 6}}
	out := Subtract(base, subs)
	if got, want := totalArea(out), 96.0; got != want {
		t.Fatalf("area = %v, want %v", got, want)
	}
}

func TestSubtractNonOverlappingLeavesUnchanged(t *testing.T) {
	base := []techdata.Rect{{XLo: 0, YLo: 0, XHi: 10, YHi: 10}}
	subs := []techdata.Rect{{XLo: 100, YLo: 100, XHi: 200, YHi: 200}}
	out := Subtract(base, subs)
	if got, want := totalArea(out), 100.0; got != want {
		t.Fatalf("area = %v, want %v", got, want)
	}
}

func TestSubtractFullyCoveringBaseLeavesNothing(t *testing.T) {
	base := []techdata.Rect{{XLo: 0, YLo: 0, XHi: 10, YHi: 10}}
	subs := []techdata.Rect{{XLo: -5, YLo: -5, XHi: 15, YHi: 15}}
	out := Subtract(base, subs)
	if len(out) != 0 {
		t.Fatalf("expected fully-covered base to vanish, got %+v", out)
	}
}
