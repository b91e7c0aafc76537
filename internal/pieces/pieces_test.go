package pieces_test

import (
	"testing"

	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/state"
)

func TestPlaceWarbandDecrementsAvailable(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	before := s.Available[catalog.Arverni][catalog.Warband]

	if err := pieces.Place(s, catalog.Arverni_, catalog.Arverni, catalog.Warband, 5, pieces.PlaceOpts{}); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if got := s.Available[catalog.Arverni][catalog.Warband]; got != before-5 {
		t.Errorf("Available after placing 5 = %d, want %d", got, before-5)
	}
	bucket := s.Region(catalog.Arverni_).Bucket(catalog.Arverni)
	if got := bucket.ByState[catalog.Hidden].Warband; got != 5 {
		t.Errorf("Hidden Warbands in region = %d, want 5", got)
	}
}

func TestPlaceWarbandRejectsOverAvailable(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	avail := s.Available[catalog.Arverni][catalog.Warband]

	err := pieces.Place(s, catalog.Arverni_, catalog.Arverni, catalog.Warband, avail+1, pieces.PlaceOpts{})
	if !gameerr.Is(err, gameerr.NoAvailable) {
		t.Fatalf("Place beyond Available = %v, want NoAvailable", err)
	}
}

func TestPlaceThenRemoveWarbandRoundTrips(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	before := s.Available[catalog.Aedui][catalog.Warband]

	if err := pieces.Place(s, catalog.Aedui_, catalog.Aedui, catalog.Warband, 3, pieces.PlaceOpts{}); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if err := pieces.Remove(s, catalog.Aedui_, catalog.Aedui, catalog.Warband, 3, pieces.RemoveOpts{}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := s.Available[catalog.Aedui][catalog.Warband]; got != before {
		t.Errorf("Available after round trip = %d, want %d", got, before)
	}
	bucket := s.Region(catalog.Aedui_).Bucket(catalog.Aedui)
	if got := bucket.ByState[catalog.Hidden].Warband; got != 0 {
		t.Errorf("Hidden Warbands after removal = %d, want 0", got)
	}
}

func TestPlaceLeaderRequiresLeaderID(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Leader, 1, pieces.PlaceOpts{})
	if !gameerr.Is(err, gameerr.UnknownLeader) {
		t.Fatalf("Place Leader without LeaderID = %v, want UnknownLeader", err)
	}
}

func TestPlaceLeaderRejectsSecondDiscInSameRegion(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	caesar := catalog.Caesar
	if err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Leader, 1, pieces.PlaceOpts{LeaderID: &caesar}); err != nil {
		t.Fatalf("first Place: %v", err)
	}
	successor := catalog.SuccessorRomans
	err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Leader, 1, pieces.PlaceOpts{LeaderID: &successor})
	if !gameerr.Is(err, gameerr.StackingViolation) {
		t.Fatalf("second Leader in same region = %v, want StackingViolation", err)
	}
}

func TestRemoveLeaderReturnsItToAvailable(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	caesar := catalog.Caesar
	if err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Leader, 1, pieces.PlaceOpts{LeaderID: &caesar}); err != nil {
		t.Fatalf("Place: %v", err)
	}
	before := s.Available[catalog.Romans][catalog.Leader]

	if err := pieces.Remove(s, catalog.Provincia, catalog.Romans, catalog.Leader, 1, pieces.RemoveOpts{}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if got := s.Available[catalog.Romans][catalog.Leader]; got != before+1 {
		t.Errorf("Available Leader discs after Remove = %d, want %d", got, before+1)
	}
	if bucket := s.Region(catalog.Provincia).Bucket(catalog.Romans); bucket.Leader != nil {
		t.Error("bucket still holds a Leader after Remove")
	}
}

func TestRemoveDiviciacusToRemovedNeverReturnsToAvailable(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	d := catalog.Diviciacus
	if err := pieces.Place(s, catalog.Aedui_, catalog.Aedui, catalog.Leader, 1, pieces.PlaceOpts{LeaderID: &d}); err != nil {
		t.Fatalf("Place: %v", err)
	}
	before := s.Available[catalog.Aedui][catalog.Leader]

	if err := pieces.Remove(s, catalog.Aedui_, catalog.Aedui, catalog.Leader, 1, pieces.RemoveOpts{ToRemoved: true}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !s.DiviciacusRemoved {
		t.Error("DiviciacusRemoved should be true")
	}
	if got := s.Available[catalog.Aedui][catalog.Leader]; got != before {
		t.Errorf("Available Leader discs after Removed-routing = %d, want unchanged %d", got, before)
	}
}

func TestPlaceFortRejectsSecondFortInRegion(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	if err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Fort, 1, pieces.PlaceOpts{}); err != nil {
		t.Fatalf("first Fort: %v", err)
	}
	err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Fort, 1, pieces.PlaceOpts{})
	if !gameerr.Is(err, gameerr.StackingViolation) {
		t.Fatalf("second Fort in same region = %v, want StackingViolation", err)
	}
}

func TestRemovePermanentProvinciaFortIsProtected(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	if err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Fort, 1, pieces.PlaceOpts{}); err != nil {
		t.Fatalf("Place: %v", err)
	}
	err := pieces.Remove(s, catalog.Provincia, catalog.Romans, catalog.Fort, 1, pieces.RemoveOpts{})
	if !gameerr.Is(err, gameerr.PermanentFortProtection) {
		t.Fatalf("removing Provincia's only Fort = %v, want PermanentFortProtection", err)
	}
}

func TestPlaceLegionFromTrackDrainsHighestRowFirst(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	legionCap := catalog.LegionCap(catalog.GreatRevolt)
	rowCap := catalog.LegionsTrackRowCap(catalog.GreatRevolt)
	s.LegionsTrack.Bottom = legionCap - rowCap
	s.LegionsTrack.Top = rowCap

	if err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Legion, rowCap, pieces.PlaceOpts{}); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if s.LegionsTrack.Top != 0 {
		t.Errorf("Top row after draining = %d, want 0", s.LegionsTrack.Top)
	}
	if s.LegionsTrack.Bottom != legionCap-rowCap {
		t.Errorf("Bottom row should be untouched, got %d", s.LegionsTrack.Bottom)
	}
	bucket := s.Region(catalog.Provincia).Bucket(catalog.Romans)
	if bucket.Legions != rowCap {
		t.Errorf("Legions on map = %d, want %d", bucket.Legions, rowCap)
	}
}

func TestRemoveLegionDefaultsToFallen(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	rowCap := catalog.LegionsTrackRowCap(catalog.GreatRevolt)
	s.LegionsTrack.Top = rowCap
	if err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Legion, 2, pieces.PlaceOpts{}); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if err := pieces.Remove(s, catalog.Provincia, catalog.Romans, catalog.Legion, 2, pieces.RemoveOpts{}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if s.FallenLegions != 2 {
		t.Errorf("FallenLegions = %d, want 2", s.FallenLegions)
	}
}

func TestRemoveRejectsWhenNotPresent(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	err := pieces.Remove(s, catalog.Arverni_, catalog.Arverni, catalog.Warband, 1, pieces.RemoveOpts{})
	if !gameerr.Is(err, gameerr.NotPresent) {
		t.Fatalf("Remove from empty region = %v, want NotPresent", err)
	}
}

func TestPlaceZeroCountIsANoOp(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	before := s.Available[catalog.Arverni][catalog.Warband]
	if err := pieces.Place(s, catalog.Arverni_, catalog.Arverni, catalog.Warband, 0, pieces.PlaceOpts{}); err != nil {
		t.Fatalf("Place 0: %v", err)
	}
	if got := s.Available[catalog.Arverni][catalog.Warband]; got != before {
		t.Errorf("Available after placing 0 = %d, want unchanged %d", got, before)
	}
}
