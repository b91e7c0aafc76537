package commands

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/state"
)

// Forage resource amounts. The rules give per-tribe Forage yields that
// depend on tribe type; the spec names only "fixed resources per Subdued
// tribe and per Dispersed tribe" without numbers, so this engine uses 1
// Resource per tribe of either status.
const (
	ForagePerSubdued   = 1
	ForagePerDispersed = 1
)

// RallyOpportunity is a free Rally chance handed to a non-Roman faction
// after a tribe is newly Dispersed (spec §4.3.4, step 2). The Seize
// procedure only reports these; the Sequence-of-Play engine is
// responsible for dispatching them to the faction's policy.
type RallyOpportunity struct {
	Faction catalog.Faction
	Region  catalog.Region
}

// SeizeResult extends Result with what Seize's Dispersal step newly
// dispersed, for the caller to award Rally-check opportunities and report
// Forage/Harassment outcomes.
type SeizeResult struct {
	Result
	Dispersed    []catalog.Tribe
	Opportunities []RallyOpportunity
	ForageGain   int
	Losses       int
}

// Seize is the Roman-only four-step procedure run against one
// Roman-Controlled region (spec §4.3.4): Dispersal, Rally-check, Forage,
// Harassment.
func Seize(s *state.State, region catalog.Region, harassment HarassmentDecider) (*SeizeResult, error) {
	if control.Of(s, region) != Romans {
		return nil, gameerr.Newf(gameerr.ProximityViolation, "Seize requires Roman Control of %s", region)
	}

	// Step 1: Dispersal.
	budget := catalog.DispersedMarkerBudget(s.Scenario) - countDispersed(s)
	var dispersed []catalog.Tribe
	for _, t := range catalog.TribesIn(region) {
		if budget <= 0 {
			break
		}
		rec := s.Tribes[t]
		if rec.Status != catalog.StatusSubdued {
			continue
		}
		rec.Status = catalog.StatusDispersed
		dispersed = append(dispersed, t)
		budget--
	}

	// Step 2: Rally-check. Arverni and Belgae each get a free Rally
	// opportunity adjacent to every newly-Dispersed tribe's region.
	var opportunities []RallyOpportunity
	if len(dispersed) > 0 {
		for _, e := range catalog.Adjacent(region) {
			opportunities = append(opportunities,
				RallyOpportunity{Faction: Arverni, Region: e.B},
				RallyOpportunity{Faction: Belgae, Region: e.B})
		}
	}

	// Step 3: Forage.
	gain := 0
	for _, t := range catalog.TribesIn(region) {
		switch s.Tribes[t].Status {
		case catalog.StatusSubdued:
			gain += ForagePerSubdued
		case catalog.StatusDispersed, catalog.StatusDispersedGathering:
			gain += ForagePerDispersed
		}
	}
	s.Resources[Romans] += gain

	// Step 4: Harassment against the Romans present in region.
	losses, err := seizeHarassment(s, region, harassment)
	if err != nil {
		return nil, err
	}

	control.RefreshAll(s)
	return &SeizeResult{
		Result:        Result{Faction: Romans, Name: "Seize", Regions: []catalog.Region{region}},
		Dispersed:     dispersed,
		Opportunities: opportunities,
		ForageGain:    gain,
		Losses:        losses,
	}, nil
}

func countDispersed(s *state.State) int {
	n := 0
	for _, t := range catalog.AllTribes() {
		st := s.Tribes[t].Status
		if st == catalog.StatusDispersed || st == catalog.StatusDispersedGathering {
			n++
		}
	}
	return n
}

// seizeHarassment lets any faction with enough Hidden Warbands in region
// inflict losses on the stationary Roman force there, using the same
// threshold and decision contract as March's Harassment.
func seizeHarassment(s *state.State, region catalog.Region, decide HarassmentDecider) (int, error) {
	if decide == nil {
		return 0, nil
	}
	total := 0
	for _, other := range catalog.AllFactions() {
		if other == Romans {
			continue
		}
		hidden := pieces.CountByState(s, region, other, catalog.Warband, catalog.Hidden)
		if hidden < HarassmentThreshold {
			continue
		}
		romanGroup := MarchGroup{
			Legions: pieces.Count(s, region, Romans, catalog.Legion),
			Auxilia: pieces.CountByState(s, region, Romans, catalog.Auxilia, catalog.Revealed),
		}
		kind, count := decide(region, other, hidden, romanGroup)
		if count <= 0 {
			continue
		}
		opts := pieces.RemoveOpts{}
		if kind == catalog.Legion {
			opts.ToFallen = true
		} else {
			opts.State = catalog.Revealed
		}
		have := pieces.Count(s, region, Romans, kind)
		if have < count {
			count = have
		}
		if count <= 0 {
			continue
		}
		if err := pieces.Remove(s, region, Romans, kind, count, opts); err != nil {
			return total, err
		}
		total += count
	}
	return total, nil
}
