// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package fixture implements db.Database by decoding a design snapshot
// from HCL into a tagged struct via hclsimple.Decode. A design snapshot
// is read once and never edited or written back, so there is no
// round-trip hclwrite side to this package.
package fixture

import (
	"os"

	"github.com/hashicorp/hcl/v2/hclsimple"

	checkererrors "github.com/exa-laboratories/antennacheck/internal/errors"
	"github.com/exa-laboratories/antennacheck/internal/techdata"
	"github.com/exa-laboratories/antennacheck/internal/validation"
)

type snapshot struct {
	DBUPerMicron float64          `hcl:"dbu_per_micron,optional"`
	Layers       []layerBlock     `hcl:"layer,block"`
	MTerms       []mtermBlock     `hcl:"mterm,block"`
	Nets         []netBlock       `hcl:"net,block"`
}

type layerBlock struct {
	Name         string            `hcl:"name,label"`
	RoutingLevel int               `hcl:"routing_level"`
	Direction    string            `hcl:"direction,optional"`
	Width        float64           `hcl:"width,optional"`
	Thickness    float64           `hcl:"thickness,optional"`
	Rule         *antennaRuleBlock `hcl:"antenna_rule,block"`
}

type antennaRuleBlock struct {
	AreaFactor             float64         `hcl:"area_factor,optional"`
	AreaFactorDiffOnly     bool            `hcl:"area_factor_diff_only,optional"`
	SideAreaFactor         float64         `hcl:"side_area_factor,optional"`
	SideAreaFactorDiffOnly bool            `hcl:"side_area_factor_diff_only,optional"`
	CutFactor              float64         `hcl:"cut_factor,optional"`
	CutFactorDiffOnly      bool            `hcl:"cut_factor_diff_only,optional"`
	MinusDiffFactor        float64         `hcl:"minus_diff_factor,optional"`
	PlusDiffFactor         float64         `hcl:"plus_diff_factor,optional"`
	PAR                    float64         `hcl:"par,optional"`
	PSR                    float64         `hcl:"psr,optional"`
	CAR                    float64         `hcl:"car,optional"`
	CSR                    float64         `hcl:"csr,optional"`
	CumulativeIncludesCuts bool            `hcl:"cumulative_includes_cuts,optional"`
	AreaDiffReduce         []pwlPointBlock `hcl:"area_diff_reduce_point,block"`
	DiffPAR                []pwlPointBlock `hcl:"diff_par_point,block"`
	DiffPSR                []pwlPointBlock `hcl:"diff_psr_point,block"`
	DiffCAR                []pwlPointBlock `hcl:"diff_car_point,block"`
	DiffCSR                []pwlPointBlock `hcl:"diff_csr_point,block"`
}

type pwlPointBlock struct {
	Index float64 `hcl:"index"`
	Ratio float64 `hcl:"ratio"`
}

type mtermBlock struct {
	Name     string             `hcl:"name,label"`
	IsInput  bool               `hcl:"is_input,optional"`
	GateArea map[string]float64 `hcl:"gate_area,optional"`
	DiffArea map[string]float64 `hcl:"diff_area,optional"`
	Boxes    []boxBlock         `hcl:"box,block"`
}

type boxBlock struct {
	Layer string  `hcl:"layer"`
	XLo   float64 `hcl:"xlo"`
	YLo   float64 `hcl:"ylo"`
	XHi   float64 `hcl:"xhi"`
	YHi   float64 `hcl:"yhi"`
}

type netBlock struct {
	Name    string      `hcl:"name,label"`
	Special bool        `hcl:"special,optional"`
	Wires   []wireBlock `hcl:"wire,block"`
	Vias    []viaBlock  `hcl:"via,block"`
	Pins    []pinBlock  `hcl:"pin,block"`
}

type wireBlock struct {
	Layer string  `hcl:"layer"`
	XLo   float64 `hcl:"xlo"`
	YLo   float64 `hcl:"ylo"`
	XHi   float64 `hcl:"xhi"`
	YHi   float64 `hcl:"yhi"`
}

type viaBlock struct {
	LowerLayer string  `hcl:"lower_layer"`
	CutLayer   string  `hcl:"cut_layer"`
	UpperLayer string  `hcl:"upper_layer"`
	XLo        float64 `hcl:"xlo"`
	YLo        float64 `hcl:"ylo"`
	XHi        float64 `hcl:"xhi"`
	YHi        float64 `hcl:"yhi"`
}

type pinBlock struct {
	Instance string  `hcl:"instance"`
	MTerm    string  `hcl:"mterm"`
	DX       float64 `hcl:"dx,optional"`
	DY       float64 `hcl:"dy,optional"`
	Orient   string  `hcl:"orient,optional"`
}

// Database is an in-memory db.Database loaded from a single HCL snapshot
// file (§6 "Database interface").
type Database struct {
	dbuPerMicron float64
	layers       []techdata.Layer
	nets         []techdata.Net
	mterms       map[string]techdata.MTerm
}

// Load decodes path into a Database. The snapshot format mirrors the
// data model of spec.md §3: layers with optional antenna rules, mterms
// carrying per-layer gate/diff area tables and pin boxes, and nets
// referencing those mterms by name.
func Load(path string) (*Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, checkererrors.Wrap(err, checkererrors.KindInternal, "reading design snapshot")
	}
	return decode(path, data)
}

func decode(filename string, data []byte) (*Database, error) {
	var snap snapshot
	if err := hclsimple.Decode(filename, data, nil, &snap); err != nil {
		return nil, checkererrors.Wrap(err, checkererrors.KindInputError, "decoding design snapshot")
	}

	db := &Database{
		dbuPerMicron: snap.DBUPerMicron,
		mterms:       make(map[string]techdata.MTerm, len(snap.MTerms)),
	}
	if db.dbuPerMicron == 0 {
		db.dbuPerMicron = 1000
	}

	for _, l := range snap.Layers {
		if err := validation.ValidateIdentifier(l.Name); err != nil {
			return nil, err
		}
		layer := techdata.Layer{
			Name:         l.Name,
			RoutingLevel: l.RoutingLevel,
			Direction:    l.Direction,
			Width:        l.Width,
			Thickness:    l.Thickness,
		}
		if l.Rule != nil {
			layer.Rule = &techdata.AntennaRule{
				AreaFactor:             l.Rule.AreaFactor,
				AreaFactorDiffOnly:     l.Rule.AreaFactorDiffOnly,
				SideAreaFactor:         l.Rule.SideAreaFactor,
				SideAreaFactorDiffOnly: l.Rule.SideAreaFactorDiffOnly,
				CutFactor:              l.Rule.CutFactor,
				CutFactorDiffOnly:      l.Rule.CutFactorDiffOnly,
				MinusDiffFactor:        l.Rule.MinusDiffFactor,
				PlusDiffFactor:         l.Rule.PlusDiffFactor,
				AreaDiffReduce:         toPWL(l.Rule.AreaDiffReduce),
				PAR:                    l.Rule.PAR,
				PSR:                    l.Rule.PSR,
				CAR:                    l.Rule.CAR,
				CSR:                    l.Rule.CSR,
				DiffPAR:                toPWL(l.Rule.DiffPAR),
				DiffPSR:                toPWL(l.Rule.DiffPSR),
				DiffCAR:                toPWL(l.Rule.DiffCAR),
				DiffCSR:                toPWL(l.Rule.DiffCSR),
				CumulativeIncludesCuts: l.Rule.CumulativeIncludesCuts,
			}
		}
		db.layers = append(db.layers, layer)
	}

	for _, m := range snap.MTerms {
		if err := validation.ValidateIdentifier(m.Name); err != nil {
			return nil, err
		}
		db.mterms[m.Name] = toMTerm(m)
	}

	for _, n := range snap.Nets {
		if err := validation.ValidateIdentifier(n.Name); err != nil {
			return nil, err
		}
		net := techdata.Net{Name: n.Name, Special: n.Special}
		for _, w := range n.Wires {
			net.Wires = append(net.Wires, techdata.Wire{Layer: w.Layer, Rect: toRect(w.XLo, w.YLo, w.XHi, w.YHi)})
		}
		for _, v := range n.Vias {
			rect := toRect(v.XLo, v.YLo, v.XHi, v.YHi)
			net.Vias = append(net.Vias, techdata.Via{
				LowerLayer: v.LowerLayer, CutLayer: v.CutLayer, UpperLayer: v.UpperLayer,
				LowerRect: rect, CutRect: rect, UpperRect: rect,
			})
		}
		for _, p := range n.Pins {
			if err := validation.ValidateIdentifier(p.Instance); err != nil {
				return nil, err
			}
			mterm, ok := db.mterms[p.MTerm]
			if !ok {
				return nil, checkererrors.Attr(
					checkererrors.Errorf(checkererrors.KindInputError, "pin references unknown mterm %q", p.MTerm),
					"net", n.Name,
				)
			}
			net.Pins = append(net.Pins, techdata.Pin{
				Instance:  p.Instance,
				MTerm:     mterm,
				Transform: techdata.Transform{DX: p.DX, DY: p.DY, Orient: parseOrient(p.Orient)},
			})
		}
		db.nets = append(db.nets, net)
	}

	return db, nil
}

func toMTerm(m mtermBlock) techdata.MTerm {
	mterm := techdata.MTerm{
		Name:     m.Name,
		IsInput:  m.IsInput,
		GateArea: m.GateArea,
		DiffArea: m.DiffArea,
	}
	for _, b := range m.Boxes {
		mterm.Boxes = append(mterm.Boxes, techdata.MTermBox{Layer: b.Layer, Rect: toRect(b.XLo, b.YLo, b.XHi, b.YHi)})
	}
	return mterm
}

func toRect(xlo, ylo, xhi, yhi float64) techdata.Rect {
	return techdata.Rect{XLo: xlo, YLo: ylo, XHi: xhi, YHi: yhi}
}

func toPWL(points []pwlPointBlock) techdata.PWLTable {
	if len(points) == 0 {
		return techdata.PWLTable{}
	}
	pts := make([]techdata.PWLPoint, len(points))
	for i, p := range points {
		pts[i] = techdata.PWLPoint{Index: p.Index, Ratio: p.Ratio}
	}
	return techdata.NewPWLTable(pts...)
}

func parseOrient(o string) techdata.Orient {
	switch o {
	case "R90":
		return techdata.R90
	case "R180":
		return techdata.R180
	case "R270":
		return techdata.R270
	case "MX":
		return techdata.MX
	case "MY":
		return techdata.MY
	case "MX90":
		return techdata.MX90
	case "MY90":
		return techdata.MY90
	default:
		return techdata.R0
	}
}

func (db *Database) Layers() []techdata.Layer { return db.layers }

func (db *Database) Nets() []techdata.Net { return db.nets }

func (db *Database) ToMicrons(dbu int64) float64 { return float64(dbu) / db.dbuPerMicron }

func (db *Database) DiodeCell(name string) (techdata.MTerm, bool) {
	m, ok := db.mterms[name]
	return m, ok
}
