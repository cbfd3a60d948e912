// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package rules implements RuleStore (§4.1): a cache of per-layer
// antenna parameters derived from the tech database once, at design load,
// so the hot per-net checking path never has to re-derive a factor or
// branch on "is this diffusion-use-only" more than once per layer. Built
// once from read-only input and served as immutable reads afterward, no
// locking needed since nothing mutates post-construction.
package rules

import (
	"fmt"

	"github.com/exa-laboratories/antennacheck/internal/techdata"
)

// AntennaModel is the derived, hot-path-friendly form of a layer's
// AntennaRule (§4.1).
type AntennaModel struct {
	MetalFactor     float64
	DiffMetalFactor float64

	CutFactor     float64
	DiffCutFactor float64

	SideMetalFactor     float64
	DiffSideMetalFactor float64

	MinusDiffFactor float64
	PlusDiffFactor  float64

	// DiffMetalReduceFactor is the default (1.0); the real per-island
	// value comes from evaluating AreaDiffReduce against that island's
	// diffusion area.
	DiffMetalReduceFactor float64
	AreaDiffReduce        techdata.PWLTable

	PAR, PSR, CAR, CSR float64

	DiffPAR, DiffPSR, DiffCAR, DiffCSR techdata.PWLTable

	CumulativeIncludesCuts bool
}

// Warning is a non-fatal data issue surfaced during construction (§7
// DataWarning), returned rather than logged so the caller picks the sink.
type Warning struct {
	Layer   string
	Message string
}

func (w Warning) String() string { return fmt.Sprintf("%s: %s", w.Layer, w.Message) }

// Store is the immutable Layer -> AntennaModel map, built once per
// design and shared read-only across every net (§5).
type Store struct {
	models map[string]*AntennaModel
}

// NewStore derives an AntennaModel for every layer that carries an
// AntennaRule. Layers with no rule are simply absent from the map (§7
// RuleGap: "silently not checked").
func NewStore(layers []techdata.Layer) (*Store, []Warning) {
	s := &Store{models: make(map[string]*AntennaModel, len(layers))}
	var warnings []Warning

	for _, l := range layers {
		if l.Rule == nil {
			continue
		}
		m := deriveModel(*l.Rule)
		s.models[l.Name] = m

		if l.Rule.SideAreaFactor != 0 && !l.IsVia() && l.Thickness == 0 {
			warnings = append(warnings, Warning{
				Layer:   l.Name,
				Message: "side-area rule defined but layer thickness is zero",
			})
		}
	}
	return s, warnings
}

// deriveModel applies §4.1's derivation rules.
func deriveModel(r techdata.AntennaRule) *AntennaModel {
	m := &AntennaModel{
		MinusDiffFactor:        r.MinusDiffFactor,
		PlusDiffFactor:         r.PlusDiffFactor,
		DiffMetalReduceFactor:  1.0,
		AreaDiffReduce:         r.AreaDiffReduce,
		PAR:                    r.PAR,
		PSR:                    r.PSR,
		CAR:                    r.CAR,
		CSR:                    r.CSR,
		DiffPAR:                r.DiffPAR,
		DiffPSR:                r.DiffPSR,
		DiffCAR:                r.DiffCAR,
		DiffCSR:                r.DiffCSR,
		CumulativeIncludesCuts: r.CumulativeIncludesCuts,
	}

	if r.AreaFactorDiffOnly {
		m.MetalFactor = 1.0
		m.DiffMetalFactor = r.AreaFactor
	} else {
		m.MetalFactor = r.AreaFactor
		m.DiffMetalFactor = r.AreaFactor
	}

	if r.CutFactorDiffOnly {
		m.CutFactor = 1.0
		m.DiffCutFactor = r.CutFactor
	} else {
		m.CutFactor = r.CutFactor
		m.DiffCutFactor = r.CutFactor
	}

	if r.SideAreaFactorDiffOnly {
		m.SideMetalFactor = 1.0
		m.DiffSideMetalFactor = r.SideAreaFactor
	} else {
		m.SideMetalFactor = r.SideAreaFactor
		m.DiffSideMetalFactor = r.SideAreaFactor
	}

	return m
}

// Model returns the derived model for a layer, and whether one exists
// (a missing model means the layer has no antenna rule: §7 RuleGap).
func (s *Store) Model(layer string) (*AntennaModel, bool) {
	m, ok := s.models[layer]
	return m, ok
}
