// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package db defines Database, the read-only query surface the checker
// pipeline drives against a placed-and-routed chip database (§6 "Database
// interface (read-only)"). Rule parsing, routing, and placement are out
// of scope (spec.md §1 Non-goals): Database only exposes already-
// interpreted layers, nets, and pins.
package db

import "github.com/exa-laboratories/antennacheck/internal/techdata"

// Database is the chip database query surface a Checker run is built
// against (§6). Implementations load a design snapshot once and serve
// immutable reads afterward, mirroring RuleStore's own immutability.
type Database interface {
	// Layers returns the routing stack, bottom to top.
	Layers() []techdata.Layer

	// Nets returns every net in the design, in a stable, deterministic
	// order (§5 determinism).
	Nets() []techdata.Net

	// ToMicrons converts a distance expressed in the database's native
	// distance units (DBU) to microns, the unit every Rect in techdata
	// is expressed in (§6: "query ... with coordinates").
	ToMicrons(dbu int64) float64

	// DiodeCell looks up a diode master terminal by cell/pin name, for
	// Checker's optional diode-insertion loop (§4.5 step 3).
	DiodeCell(name string) (techdata.MTerm, bool)
}
