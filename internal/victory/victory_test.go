package victory_test

import (
	"testing"

	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/state"
	"github.com/talgya/gallia-engine/internal/victory"
)

// TestScoreArverniDualCondition reproduces spec §8.4 Scenario E: Arverni's
// victory requires both off-map Legions and Allies+Citadels to meet their
// thresholds; margin is the minimum of the two component margins, and
// losing either component alone fails the whole condition.
func TestScoreArverniDualCondition(t *testing.T) {
	s := state.New(catalog.GreatRevolt, 1)
	s.FallenLegions = victory.ArverniLegionsA // exactly at threshold A

	half := victory.ArverniAlliesB / 2
	placeArverniAllies(t, s, catalog.Atrebates, half)
	placeArverniAllies(t, s, catalog.Bellovaci, victory.ArverniAlliesB-half) // total == threshold B

	sc := scoreArverniFor(s)
	if !sc.Met {
		t.Fatalf("Arverni condition Met = false, want true (value %d, margin %d)", sc.Value, sc.Margin)
	}
	if sc.Margin != 0 {
		t.Errorf("Margin = %d, want 0 (both components exactly at threshold)", sc.Margin)
	}

	// Remove one Ally: component B now falls one short, and the dual
	// condition as a whole must fail even though component A still holds.
	if err := pieces.Remove(s, catalog.Bellovaci, catalog.Arverni, catalog.Ally, 1, pieces.RemoveOpts{ToAvailable: true}); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	sc = scoreArverniFor(s)
	if sc.Met {
		t.Errorf("Arverni condition Met = true after dropping one Ally, want false")
	}
	if sc.Margin != -1 {
		t.Errorf("Margin = %d, want -1 (component B one short)", sc.Margin)
	}
}

func placeArverniAllies(t *testing.T, s *state.State, r catalog.Region, n int) {
	t.Helper()
	if err := pieces.Place(s, r, catalog.Arverni, catalog.Ally, n, pieces.PlaceOpts{}); err != nil {
		t.Fatalf("Place Ally: %v", err)
	}
}

func scoreArverniFor(s *state.State) victory.Score {
	return victory.ScoreAll(s)[catalog.Arverni]
}
