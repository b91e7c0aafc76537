package commands

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/state"
)

// RaidChoice says, for one flipped Warband, whether the faction takes its
// own Resource or steals one from a present enemy.
type RaidChoice struct {
	StealFrom *catalog.Faction // nil: gain 1 Resource instead of stealing
}

// Raid flips count Hidden Warbands of f to Revealed in region and resolves
// choices (len(choices) must equal count) gain-or-steal per flipped
// Warband (spec §4.3.3). Germans may Raid inline only outside the base
// game; base-game Germans Raid solely through the Germans Phase.
func Raid(s *state.State, f catalog.Faction, region catalog.Region, count int, choices []RaidChoice) (*Result, error) {
	if f == Germans && !s.Scenario.IsAriovistusRuleset() {
		return nil, gameerr.New(gameerr.EligibilityViolation, "Germans may Raid only via the Germans Phase")
	}
	if count <= 0 || len(choices) != count {
		return nil, gameerr.New(gameerr.UnknownPieceKind, "Raid requires one choice per flipped Warband")
	}
	hidden := pieces.CountByState(s, region, f, catalog.Warband, catalog.Hidden)
	if hidden < count {
		return nil, gameerr.Newf(gameerr.NotPresent, "%s has %d Hidden Warbands in %s, need %d", f, hidden, region, count)
	}
	for _, c := range choices {
		if c.StealFrom != nil && *c.StealFrom == f {
			return nil, gameerr.New(gameerr.UnknownPieceKind, "a faction cannot steal from itself")
		}
	}
	devastated := s.Region(region).HasMarker(catalog.MarkerDevastated)

	if err := pieces.Flip(s, region, f, catalog.Warband, count, catalog.Hidden, catalog.Revealed); err != nil {
		return nil, err
	}

	for _, c := range choices {
		if c.StealFrom == nil {
			if !devastated {
				s.Resources[f]++
			}
			continue
		}
		target := *c.StealFrom
		if raidBlockedByFortOrCitadel(s, region, target) {
			continue
		}
		if s.Resources[target] > 0 {
			s.Resources[target]--
			s.Resources[f]++
		}
	}

	control.RefreshAll(s)
	return &Result{Faction: f, Name: "Raid", Regions: []catalog.Region{region}}, nil
}

// raidBlockedByFortOrCitadel reports whether target's Fort or Citadel in
// region blocks theft (spec §4.3.3); a Raid-granting capability can lift
// this, checked by key "Raid" in Capabilities (true = lifted).
func raidBlockedByFortOrCitadel(s *state.State, region catalog.Region, target catalog.Faction) bool {
	if s.Capabilities["Raid"] {
		return false
	}
	b, ok := s.Region(region).Pieces[target]
	if !ok {
		return false
	}
	return b.Forts > 0 || b.Citadels > 0
}
