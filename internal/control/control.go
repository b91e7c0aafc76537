// Package control derives each region's control tag from its pieces and
// refreshes it after any mutation (spec §4.2). The algorithm itself is a
// pure function of a region cell's pieces (state.DeriveControl); this
// package is the orchestration layer every mutating component calls.
package control

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/state"
)

// Refresh recomputes and stores the control tag for a single region.
func Refresh(s *state.State, r catalog.Region) {
	cell := s.Region(r)
	cell.Control = state.DeriveControl(cell, s.Scenario)
}

// RefreshAll recomputes control for every region. Called by every
// command, special activity, battle resolution, and Winter step that
// changes pieces (spec §4.2, Triggers). Idempotent: calling it twice in a
// row changes nothing (spec §8.1, Control determinism).
func RefreshAll(s *state.State) {
	for _, r := range catalog.AllRegions() {
		Refresh(s, r)
	}
}

// Of returns a region's current control tag without recomputing it.
func Of(s *state.State, r catalog.Region) catalog.Faction {
	return s.Region(r).Control
}
