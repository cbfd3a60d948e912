// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package api exposes a read-only HTTP view of a completed checker run:
// a handlers struct holding whatever it serves, a constructor, and
// RegisterRoutes wiring a *mux.Router.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/exa-laboratories/antennacheck/internal/checker"
)

// ViolationHandlers serves the violations produced by one completed
// CheckAllNets run. It holds a snapshot, not a live reference: a new
// run requires a new ViolationHandlers (or a call to Replace).
type ViolationHandlers struct {
	result checker.AllNetsResult
}

// NewViolationHandlers wraps result for serving.
func NewViolationHandlers(result checker.AllNetsResult) *ViolationHandlers {
	return &ViolationHandlers{result: result}
}

// Replace swaps in a newer run's result, for a long-lived server process
// that re-checks the design periodically.
func (h *ViolationHandlers) Replace(result checker.AllNetsResult) {
	h.result = result
}

// RegisterRoutes registers the read-only violation endpoints.
func (h *ViolationHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/violations", h.handleListViolations).Methods("GET")
	router.HandleFunc("/violations/{net}", h.handleNetViolations).Methods("GET")
	router.HandleFunc("/summary", h.handleSummary).Methods("GET")
	router.HandleFunc("/health", h.handleHealthCheck).Methods("GET")
}

// handleListViolations returns every violation from the most recent run.
func (h *ViolationHandlers) handleListViolations(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.result.Violations)
}

// handleNetViolations returns one net's checked result by name, 404 if
// the net was not part of the most recent run.
func (h *ViolationHandlers) handleNetViolations(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["net"]
	for _, res := range h.result.NetResults {
		if res.NetName == name {
			respondWithJSON(w, http.StatusOK, res)
			return
		}
	}
	http.Error(w, "net not found in most recent run", http.StatusNotFound)
}

// handleSummary returns the run's aggregate counters.
func (h *ViolationHandlers) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary := map[string]any{
		"net_violation_count": h.result.NetViolationCount,
		"pin_violation_count": h.result.PinViolationCount,
		"nets_checked":        len(h.result.NetResults),
	}
	respondWithJSON(w, http.StatusOK, summary)
}

// handleHealthCheck reports that the server is serving a run, even an
// empty one.
func (h *ViolationHandlers) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

// respondWithJSON sends a JSON response.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
