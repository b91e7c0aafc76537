package commands

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/state"
)

// rallyCostPerRegion returns the per-region Rally/Recruit cost for a
// faction in a region, including the Cisalpina exemption (0 in Cisalpina)
// (spec §4.3.1).
func rallyCostPerRegion(s *state.State, f catalog.Faction, r catalog.Region) int {
	if r == catalog.Cisalpina {
		return 0
	}
	switch f {
	case Romans:
		return 2
	case Arverni:
		if id, ok := pieces.LeaderInRegion(s, r, Arverni); ok && id == catalog.Vercingetorix &&
			s.Region(r).HasMarker(catalog.MarkerDevastated) {
			return 1
		}
		return 2
	case Aedui:
		if catalog.IsHomeRegion(Aedui, r) {
			return 1
		}
		return 2
	case Belgae:
		if catalog.InGroup(r, catalog.GroupBelgica) {
			return 1
		}
		return 2
	case Germans:
		switch {
		case catalog.InGroup(r, catalog.GroupGermania):
			return 1
		case pieces.Count(s, r, Germans, catalog.Settlement) > 0:
			return 1
		default:
			return 2
		}
	default:
		return 2
	}
}

// Aliases so the per-faction branches above read like the spec's prose.
const (
	Romans  = catalog.Romans
	Arverni = catalog.Arverni
	Aedui   = catalog.Aedui
	Belgae  = catalog.Belgae
	Germans = catalog.Germans
)

// Rally executes Rally (Gallic/Germanic) or Recruit (Roman): place Legions
// (Romans only, from the Track), Auxilia/Warbands (Hidden), Allies at
// Subdued tribes, Citadels at existing Allies, and (Germans, Ariovistus)
// Settlements, across the given regions, for a total resource cost.
func Rally(s *state.State, f catalog.Faction, placements []RegionPlacement) (*Result, error) {
	total := 0
	needAuxilia, needWarband, needAllies, needCitadels, needSettlements := 0, 0, 0, 0, 0
	for _, p := range placements {
		total += rallyCostPerRegion(s, f, p.Region)
		needAuxilia += p.Auxilia
		needWarband += p.Warbands
		needAllies += p.Allies
		needCitadels += p.Citadels
		needSettlements += p.Settlements
	}
	if s.Resources[f] < total {
		return nil, gameerr.Newf(gameerr.ResourceShortfall, "%s has %d resources, Rally needs %d", f, s.Resources[f], total)
	}
	if pieces.Available(s, f, catalog.Auxilia) < needAuxilia {
		return nil, gameerr.Newf(gameerr.NoAvailable, "%s lacks %d Available Auxilia", f, needAuxilia)
	}
	if pieces.Available(s, f, catalog.Warband) < needWarband {
		return nil, gameerr.Newf(gameerr.NoAvailable, "%s lacks %d Available Warbands", f, needWarband)
	}
	if pieces.Available(s, f, catalog.Ally) < needAllies {
		return nil, gameerr.Newf(gameerr.NoAvailable, "%s lacks %d Available Allies", f, needAllies)
	}
	if pieces.Available(s, f, catalog.Citadel) < needCitadels {
		return nil, gameerr.Newf(gameerr.NoAvailable, "%s lacks %d Available Citadels", f, needCitadels)
	}
	if pieces.Available(s, f, catalog.Settlement) < needSettlements {
		return nil, gameerr.Newf(gameerr.NoAvailable, "%s lacks %d Available Settlements", f, needSettlements)
	}

	// Validate every region's placement-specific preconditions before
	// mutating anything, so a late failure can never leave earlier
	// regions' pieces placed for a refunded cost.
	for _, p := range placements {
		if p.Legions > 0 && f != Romans {
			return nil, gameerr.New(gameerr.UnknownPieceKind, "only Romans may Rally Legions")
		}
		if p.Allies > 0 {
			if err := requireSubduedTribe(s, f, p.Region); err != nil {
				return nil, err
			}
		}
		if p.Citadels > 0 {
			existingAllies := s.Region(p.Region).Bucket(f).Allies
			if p.Allies > 0 {
				existingAllies += p.Allies
			}
			if existingAllies < p.Citadels {
				return nil, gameerr.Newf(gameerr.StackingViolation, "Citadel requires an existing Ally in %s", p.Region)
			}
		}
	}

	s.Resources[f] -= total

	var touched []catalog.Region
	for _, p := range placements {
		touched = append(touched, p.Region)
		if p.Legions > 0 {
			if err := pieces.Place(s, p.Region, f, catalog.Legion, p.Legions, pieces.PlaceOpts{}); err != nil {
				s.Resources[f] += total
				return nil, err
			}
		}
		if p.Auxilia > 0 {
			if err := pieces.Place(s, p.Region, f, catalog.Auxilia, p.Auxilia, pieces.PlaceOpts{}); err != nil {
				s.Resources[f] += total
				return nil, err
			}
		}
		if p.Warbands > 0 {
			if err := pieces.Place(s, p.Region, f, catalog.Warband, p.Warbands, pieces.PlaceOpts{}); err != nil {
				s.Resources[f] += total
				return nil, err
			}
		}
		if p.Allies > 0 {
			if err := pieces.Place(s, p.Region, f, catalog.Ally, p.Allies, pieces.PlaceOpts{}); err != nil {
				s.Resources[f] += total
				return nil, err
			}
		}
		if p.Citadels > 0 {
			if err := pieces.Place(s, p.Region, f, catalog.Citadel, p.Citadels, pieces.PlaceOpts{}); err != nil {
				s.Resources[f] += total
				return nil, err
			}
		}
		if p.Settlements > 0 {
			if err := pieces.Place(s, p.Region, f, catalog.Settlement, p.Settlements, pieces.PlaceOpts{}); err != nil {
				s.Resources[f] += total
				return nil, err
			}
		}
	}

	control.RefreshAll(s)
	return &Result{Faction: f, Name: "Rally", Regions: touched, ResourceCost: total}, nil
}

// requireSubduedTribe enforces that at least one Subdued tribe in region
// accepts faction's Ally (tribe restriction, spec §4.3.1).
func requireSubduedTribe(s *state.State, f catalog.Faction, r catalog.Region) error {
	for _, t := range catalog.TribesIn(r) {
		rec := s.Tribes[t]
		if rec.Status != catalog.StatusSubdued {
			continue
		}
		if restrict, ok := t.AllyRestriction(); ok && restrict != f {
			continue
		}
		return nil
	}
	return gameerr.Newf(gameerr.NotPresent, "%s has no Subdued tribe accepting %s's Ally", r, f)
}
