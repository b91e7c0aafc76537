package state_test

import (
	"testing"

	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/state"
)

// placeRomanFort places the one piece every scenario's skeleton needs
// before Validate can pass (spec Invariant 3, Provincia's permanent Fort).
func placeRomanFort(t *testing.T, s *state.State) {
	t.Helper()
	if err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Fort, 1, pieces.PlaceOpts{}); err != nil {
		t.Fatalf("place Provincia Fort: %v", err)
	}
}

// loadLegionsTrack puts every Legion the scenario fields on the Legions
// track, lowest rows first, as scenario setup does. state.New leaves the
// track empty, which Validate's Legion conservation check rejects.
func loadLegionsTrack(s *state.State) {
	total := catalog.LegionCap(s.Scenario)
	rowCap := catalog.LegionsTrackRowCap(s.Scenario)
	for _, row := range []*int{&s.LegionsTrack.Bottom, &s.LegionsTrack.Middle, &s.LegionsTrack.Top} {
		n := total
		if n > rowCap {
			n = rowCap
		}
		*row += n
		total -= n
	}
}

func TestValidateFreshSkeletonHasNoLeaderViolations(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	placeRomanFort(t, s)
	loadLegionsTrack(s)
	control.RefreshAll(s)

	for _, err := range s.Validate() {
		if isInvariantViolation(err) {
			t.Errorf("fresh skeleton (no Leaders placed) reports: %v", err)
		}
	}
}

func TestValidateRejectsSameDiscInTwoRegions(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	placeRomanFort(t, s)

	caesar := catalog.Caesar
	if err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Leader, 1, pieces.PlaceOpts{LeaderID: &caesar}); err != nil {
		t.Fatalf("place Caesar: %v", err)
	}
	// Bypass Place's own stacking guard to simulate a corrupted state:
	// the same disc appearing in a second region.
	bucket := s.Region(catalog.Aedui_).Bucket(catalog.Romans)
	id := catalog.Caesar
	bucket.Leader = &id

	control.RefreshAll(s)
	found := false
	for _, err := range s.Validate() {
		if isInvariantViolation(err) {
			found = true
		}
	}
	if !found {
		t.Fatal("Validate did not flag a Leader disc appearing in two regions")
	}
}

func TestValidatePlacingNamedLeaderLeavesSuccessorAvailable(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	placeRomanFort(t, s)
	loadLegionsTrack(s)

	caesar := catalog.Caesar
	if err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Leader, 1, pieces.PlaceOpts{LeaderID: &caesar}); err != nil {
		t.Fatalf("place Caesar: %v", err)
	}
	control.RefreshAll(s)

	if got := s.Available[catalog.Romans][catalog.Leader]; got != 1 {
		t.Errorf("Available Roman Leader discs = %d, want 1 (the unplaced Successor)", got)
	}
	for _, err := range s.Validate() {
		if isInvariantViolation(err) {
			t.Errorf("placing Caesar alone reports: %v", err)
		}
	}
}

func isInvariantViolation(err error) bool {
	return gameerr.Is(err, gameerr.InvariantViolation)
}
