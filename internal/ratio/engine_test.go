// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package ratio

import (
	"testing"

	"github.com/exa-laboratories/antennacheck/internal/rules"
	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

func toyModel() *rules.AntennaModel {
	s, _ := rules.NewStore([]techdata.Layer{
		{Name: "M1", RoutingLevel: 1, Thickness: 1, Rule: &techdata.AntennaRule{
			AreaFactor:     1,
			SideAreaFactor: 1,
			PAR:            1.0,
		}},
	})
	m, _ := s.Model("M1")
	return m
}

func TestComputePARMatchesS1Clean(t *testing.T) {
	rec := &techdata.InfoRecord{Area: 10, IntermGateArea: 20}
	par, _, _, _ := computePAR(rec, toyModel(), false)
	if got, want := par, 0.5; got != want {
		t.Fatalf("PAR = %v, want %v", got, want)
	}
}

func TestComputePARMatchesS2Violation(t *testing.T) {
	rec := &techdata.InfoRecord{Area: 40, IntermGateArea: 20}
	par, _, _, _ := computePAR(rec, toyModel(), false)
	if got, want := par, 2.0; got != want {
		t.Fatalf("PAR = %v, want %v", got, want)
	}
}

func TestComputePARMatchesS3DiffusionProtected(t *testing.T) {
	s, _ := rules.NewStore([]techdata.Layer{
		{Name: "M1", RoutingLevel: 1, Thickness: 1, Rule: &techdata.AntennaRule{
			AreaFactor:     1,
			SideAreaFactor: 1,
			PAR:            1.0,
			DiffPAR: techdata.NewPWLTable(
				techdata.PWLPoint{Index: 0, Ratio: 1},
				techdata.PWLPoint{Index: 10, Ratio: 3},
			),
		}},
	})
	model, _ := s.Model("M1")
	rec := &techdata.InfoRecord{Area: 40, IntermGateArea: 20, IntermDiffArea: 5}
	par, _, diffPAR, _ := computePAR(rec, model, false)
	if got, want := par, 2.0; got != want {
		t.Fatalf("PAR = %v, want %v", got, want)
	}
	if got, want := diffPAR, 2.0; got != want {
		t.Fatalf("diff_PAR = %v, want %v", got, want)
	}
}

func TestComputePARViaOmitsSideRatio(t *testing.T) {
	s, _ := rules.NewStore([]techdata.Layer{
		{Name: "V1", RoutingLevel: 0, Rule: &techdata.AntennaRule{
			CutFactor: 1,
			CAR:       1.0,
		}},
	})
	model, _ := s.Model("V1")
	rec := &techdata.InfoRecord{Area: 5, SideArea: 100, IntermGateArea: 10}
	par, psr, _, _ := computePAR(rec, model, true)
	if got, want := par, 0.5; got != want {
		t.Fatalf("PAR = %v, want %v", got, want)
	}
	if psr != 0 {
		t.Fatalf("via PSR = %v, want 0", psr)
	}
}

func TestComputePARZeroGateAreaIsNotChecked(t *testing.T) {
	rec := &techdata.InfoRecord{Area: 10, IntermGateArea: 0}
	par, psr, diffPAR, diffPSR := computePAR(rec, toyModel(), false)
	if par != 0 || psr != 0 || diffPAR != 0 || diffPSR != 0 {
		t.Fatalf("expected all-zero ratios for zero gate area, got %v %v %v %v", par, psr, diffPAR, diffPSR)
	}
}
