package sop_test

import (
	"testing"

	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/setup"
	"github.com/talgya/gallia-engine/internal/sop"
	"github.com/talgya/gallia-engine/internal/state"
)

// alwaysPass is a Policy that never acts, used to exercise the cascade
// and Winter Round machinery without depending on any particular
// Command/SA choice.
type alwaysPass struct{}

func (alwaysPass) Decide(*state.State, catalog.Faction, sop.AllowedActions, sop.Position) sop.ActionDecision {
	return sop.ActionDecision{Kind: sop.DecPass}
}

func policiesFor(scenario catalog.Scenario) map[catalog.Faction]sop.Policy {
	out := map[catalog.Faction]sop.Policy{}
	for _, f := range catalog.SoPFactions(scenario) {
		out[f] = alwaysPass{}
	}
	return out
}

func TestEngineRunToWinterWithAllPasses(t *testing.T) {
	res, err := setup.New(catalog.GreatRevolt, 5)
	if err != nil {
		t.Fatalf("setup.New: %v", err)
	}
	e := sop.New(res.State, res.Deck, policiesFor(catalog.GreatRevolt), nil)

	outcomes, err := e.RunToWinter()
	if err != nil {
		t.Fatalf("RunToWinter: %v", err)
	}
	if len(outcomes) == 0 {
		t.Fatal("RunToWinter produced no outcomes")
	}
	last := outcomes[len(outcomes)-1]
	if !last.Card.Winter {
		t.Fatalf("last outcome's card is not Winter: %+v", last.Card)
	}
	if errs := res.State.Validate(); len(errs) != 0 {
		t.Fatalf("state unsound after RunToWinter: %d violation(s), first: %v", len(errs), errs[0])
	}
	for _, f := range catalog.SoPFactions(catalog.GreatRevolt) {
		if !res.State.Eligible[f] {
			t.Errorf("%s is ineligible after an all-Pass run, want eligible", f)
		}
	}
}

func TestEngineDeckExhaustedAfterLastCard(t *testing.T) {
	res, err := setup.New(catalog.PaxGallica, 3)
	if err != nil {
		t.Fatalf("setup.New: %v", err)
	}
	e := sop.New(res.State, res.Deck, policiesFor(catalog.PaxGallica), nil)

	for range res.Deck {
		if _, err := e.PlayCard(); err != nil {
			t.Fatalf("PlayCard: %v", err)
		}
	}
	if _, err := e.PlayCard(); err != sop.ErrDeckExhausted {
		t.Fatalf("PlayCard after deck exhausted = %v, want ErrDeckExhausted", err)
	}
}
