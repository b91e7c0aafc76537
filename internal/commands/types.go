// Package commands implements the four Sequence-of-Play commands
// (Rally/Recruit, March, Raid, Seize). Every command follows the shared
// contract of spec §4.3: verify cost, subtract resources (refunding on
// failure), check the leader-proximity and Frost gates, mutate pieces
// through internal/pieces, and finish with control.RefreshAll.
package commands

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/state"
)

// Result reports what a command did, for logging and replay.
type Result struct {
	Faction    catalog.Faction
	Name       string
	Regions    []catalog.Region
	ResourceCost int
}

// RegionPlacement describes one region's worth of Rally/Recruit placement
// requests, left to the caller (a policy implementation) to choose.
type RegionPlacement struct {
	Region      catalog.Region
	Legions     int
	Auxilia     int
	Warbands    int
	Allies      int // at a Subdued tribe in Region
	Citadels    int
	Settlements int
}

// ProximityOK implements the "within-1 or Successor" gate used by the
// Scout SA's marking step (specialact.ScoutMark): leaderRegion is where the
// named faction's leader currently sits. Successor discs satisfy the gate
// only in their own region (spec §4.4, SA table header).
func ProximityOK(s *state.State, target catalog.Region, leaderRegion catalog.Region, leaderID catalog.LeaderID, found bool) bool {
	if !found {
		return false
	}
	if leaderID.IsSuccessor() {
		return leaderRegion == target
	}
	if leaderRegion == target {
		return true
	}
	_, adjacent := catalog.IsAdjacent(leaderRegion, target)
	return adjacent
}

// frostBlocks reports whether the Frost marker currently forbids March
// (spec §2.3.8). Commands other than March are unaffected.
func frostBlocks(s *state.State) bool {
	return s.HasGlobalMarker(catalog.MarkerFrost)
}
