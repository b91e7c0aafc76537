package winter_test

import (
	"testing"

	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/setup"
	"github.com/talgya/gallia-engine/internal/winter"
)

// TestRunSenateShiftsTowardAdulation reproduces spec §8.4 Scenario D: with
// the Senate at Intrigue (not Firm) and Fallen Legions below the low
// threshold, the Senate phase shifts one box toward Adulation.
func TestRunSenateShiftsTowardAdulation(t *testing.T) {
	res, err := setup.New(catalog.GreatRevolt, 11)
	if err != nil {
		t.Fatalf("setup.New: %v", err)
	}
	s := res.State
	s.Senate.Position = catalog.Intrigue
	s.Senate.Firm = false
	s.FallenLegions = 5 // <= SenateLowFallenThreshold (6)

	report, err := winter.Run(s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.GameOver {
		t.Fatalf("game should not be over from a fresh setup's scores")
	}
	if s.Senate.Position != catalog.Adulation {
		t.Errorf("Senate.Position = %s, want Adulation", s.Senate.Position)
	}
	if report.SenateShift != catalog.Adulation {
		t.Errorf("report.SenateShift = %s, want Adulation", report.SenateShift)
	}
}

// TestRunSenateNoShiftInMiddleBand checks that a Fallen-Legion count
// strictly between the two thresholds produces no Senate movement.
func TestRunSenateNoShiftInMiddleBand(t *testing.T) {
	res, err := setup.New(catalog.GreatRevolt, 12)
	if err != nil {
		t.Fatalf("setup.New: %v", err)
	}
	s := res.State
	s.Senate.Position = catalog.Intrigue
	s.Senate.Firm = false
	s.FallenLegions = 8 // strictly between 6 and 9

	if _, err := winter.Run(s); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if s.Senate.Position != catalog.Intrigue {
		t.Errorf("Senate.Position = %s, want unchanged Intrigue", s.Senate.Position)
	}
}

// TestRunSpringResetsEligibility marks every SoP faction Ineligible, runs
// a full Winter Round, and checks that Spring makes every faction Eligible
// again and that the resulting state passes Validate.
func TestRunSpringResetsEligibility(t *testing.T) {
	res, err := setup.New(catalog.GreatRevolt, 13)
	if err != nil {
		t.Fatalf("setup.New: %v", err)
	}
	s := res.State
	for _, f := range catalog.SoPFactions(catalog.GreatRevolt) {
		s.Eligible[f] = false
	}

	if _, err := winter.Run(s); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, f := range catalog.SoPFactions(catalog.GreatRevolt) {
		if !s.Eligible[f] {
			t.Errorf("%s.Eligible = false after Spring, want true", f)
		}
	}
	if errs := s.Validate(); len(errs) != 0 {
		t.Fatalf("state unsound after Winter Round: %v", errs[0])
	}
}
