// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package techdata

import "testing"

func TestPWLTableEmptyReturnsDefault(t *testing.T) {
	var tbl PWLTable
	if got := tbl.Eval(10, 3.5); got != 3.5 {
		t.Fatalf("Eval on empty table = %v, want 3.5", got)
	}
	if !tbl.IsEmpty() {
		t.Fatal("expected IsEmpty true")
	}
}

func TestPWLTableSinglePointIsConstant(t *testing.T) {
	tbl := NewPWLTable(PWLPoint{Index: 100, Ratio: 400})
	if got := tbl.Eval(0, 0); got != 400 {
		t.Fatalf("Eval(0) = %v, want 400", got)
	}
	if got := tbl.Eval(1e6, 0); got != 400 {
		t.Fatalf("Eval(1e6) = %v, want 400", got)
	}
}

func TestPWLTableInterpolatesBetweenPoints(t *testing.T) {
	tbl := NewPWLTable(
		PWLPoint{Index: 0, Ratio: 100},
		PWLPoint{Index: 100, Ratio: 300},
	)
	if got := tbl.Eval(50, 0); got != 200 {
		t.Fatalf("Eval(50) = %v, want 200", got)
	}
}

func TestPWLTableSortsOutOfOrderPoints(t *testing.T) {
	tbl := NewPWLTable(
		PWLPoint{Index: 100, Ratio: 300},
		PWLPoint{Index: 0, Ratio: 100},
	)
	if got := tbl.Eval(50, 0); got != 200 {
		t.Fatalf("Eval(50) = %v, want 200 after sort", got)
	}
}

func TestPWLTableExtrapolatesBelowRange(t *testing.T) {
	tbl := NewPWLTable(
		PWLPoint{Index: 10, Ratio: 100},
		PWLPoint{Index: 20, Ratio: 200},
	)
	// slope 10/unit; at x=0, expect 100 - 10*10 = 0
	if got := tbl.Eval(0, 0); got != 0 {
		t.Fatalf("Eval(0) = %v, want 0", got)
	}
}

func TestPWLTableExtrapolatesAboveRange(t *testing.T) {
	tbl := NewPWLTable(
		PWLPoint{Index: 10, Ratio: 100},
		PWLPoint{Index: 20, Ratio: 200},
	)
	if got := tbl.Eval(30, 0); got != 300 {
		t.Fatalf("Eval(30) = %v, want 300", got)
	}
}

func TestPWLTableThreePointInterior(t *testing.T) {
	tbl := NewPWLTable(
		PWLPoint{Index: 0, Ratio: 0},
		PWLPoint{Index: 10, Ratio: 100},
		PWLPoint{Index: 20, Ratio: 120},
	)
	if got := tbl.Eval(15, 0); got != 110 {
		t.Fatalf("Eval(15) = %v, want 110", got)
	}
}
