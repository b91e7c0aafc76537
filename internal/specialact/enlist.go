package specialact

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/state"
)

// EnlistEligible reports whether region qualifies for Belgae's Enlist
// activity: in or adjacent to Germania, or already holding Germanic
// pieces (spec §4.4 table, Enlist).
func EnlistEligible(s *state.State, region catalog.Region) bool {
	if catalog.InGroup(region, catalog.GroupGermania) {
		return true
	}
	for _, e := range catalog.Adjacent(region) {
		if catalog.InGroup(e.B, catalog.GroupGermania) {
			return true
		}
	}
	if b, ok := s.Region(region).Pieces[catalog.Germans]; ok {
		return !b.Empty()
	}
	return false
}

// EnlistAsBelgic validates treating region's Germanic Warbands as Belgic
// for the currently-attached command. The Ariovistus total-German-pieces
// cap and the "not Ariovistus's own region" restriction are checked here;
// the caller is responsible for actually folding the Warband count into
// the Belgic command's force computation (spec §4.4 table, Enlist).
func EnlistAsBelgic(s *state.State, region catalog.Region) error {
	if err := enlistGate(s, region); err != nil {
		return err
	}
	if pieces.CountByState(s, region, catalog.Germans, catalog.Warband, catalog.Hidden)+
		pieces.CountByState(s, region, catalog.Germans, catalog.Warband, catalog.Revealed) == 0 {
		return gameerr.Newf(gameerr.NotPresent, "Germans have no Warbands in %s to Enlist", region)
	}
	return nil
}

// EnlistFreeGermanicCommand validates the alternative half of Enlist: a
// free Germanic Limited Command. If the attached command is Battle, the
// free command must be an Ambush (spec §4.4 table, Enlist). The caller
// dispatches the actual Limited Command through the normal commands
// package; this only checks eligibility.
func EnlistFreeGermanicCommand(s *state.State, region catalog.Region, attachedIsBattle, isAmbush bool) error {
	if err := enlistGate(s, region); err != nil {
		return err
	}
	if attachedIsBattle && !isAmbush {
		return gameerr.New(gameerr.UnknownPieceKind, "Enlist's free Germanic command attached to Battle must be an Ambush")
	}
	return nil
}

func enlistGate(s *state.State, region catalog.Region) error {
	if !EnlistEligible(s, region) {
		return gameerr.New(gameerr.ProximityViolation, "Enlist requires a region in/adjacent-to Germania or holding Germanic pieces")
	}
	if s.Scenario.IsAriovistusRuleset() {
		if ariovistusRegion, ok := pieces.FindLeader(s, catalog.Germans); ok && ariovistusRegion == region {
			if id, _ := pieces.LeaderInRegion(s, region, catalog.Germans); id == catalog.Ariovistus_ {
				return gameerr.New(gameerr.ProximityViolation, "Enlist may not target Ariovistus's own region")
			}
		}
		if totalGermanPieces(s) >= 4 {
			return gameerr.New(gameerr.StackingViolation, "Ariovistus limits Enlist to 4 German pieces total")
		}
	}
	return nil
}

func totalGermanPieces(s *state.State) int {
	n := 0
	for _, r := range catalog.AllRegions() {
		if b, ok := s.Region(r).Pieces[catalog.Germans]; ok {
			n += b.Total(false)
		}
	}
	return n
}
