package commands

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/state"
)

// HarassmentThreshold is the minimum count of an opposing faction's Hidden
// Warbands in a region a March group passes through before that faction
// may inflict Harassment losses (spec §4.3.2, Harassment). The rules give
// no single number usable across every scenario's army sizes; 2 is the
// smallest count that reads as "a credible ambush force".
const HarassmentThreshold = 2

// MarchGroup is the set of pieces moving together, all belonging to f.
// AuxiliaState/WarbandState name which flippable state is being moved;
// Leader is optional.
type MarchGroup struct {
	LeaderID     *catalog.LeaderID
	Legions      int
	Auxilia      int
	AuxiliaState catalog.PieceState
	Warbands     int
	WarbandState catalog.PieceState
}

func (g MarchGroup) empty() bool {
	return g.LeaderID == nil && g.Legions == 0 && g.Auxilia == 0 && g.Warbands == 0
}

// MarchStep is one region the group passes through, and how much of the
// group it leaves behind there (drop-off, spec §4.3.2).
type MarchStep struct {
	Region  catalog.Region
	DropOff MarchGroup
}

// HarassmentDecider lets a policy choose whether a harassing faction
// inflicts losses on the marching group passing through its region, and
// which piece to sacrifice. A nil decider always declines.
type HarassmentDecider func(region catalog.Region, harasser catalog.Faction, maxLosses int, group MarchGroup) (lossKind catalog.PieceKind, count int)

// MarchOpts carries the optional Harassment callback.
type MarchOpts struct {
	Harassment HarassmentDecider
}

// marchCostPerRegion is the per-region-marched-into cost (spec §4.3.2).
func marchCostPerRegion(f catalog.Faction, into catalog.Region) int {
	if f == Germans && catalog.IsHomeRegion(Germans, into) {
		return 0
	}
	return 1
}

// March moves group from origin through path, charging resources,
// enforcing Frost and river/coastal/Britannia crossing rules, running
// Harassment at each intermediate stop, dropping off pieces per step, and
// revealing Hidden pieces that end their march alongside foreign pieces.
func March(s *state.State, f catalog.Faction, origin catalog.Region, group MarchGroup, path []MarchStep, opts MarchOpts) (*Result, error) {
	if frostBlocks(s) {
		return nil, gameerr.New(gameerr.FrostRestriction, "March is unavailable under Frost")
	}
	if len(path) == 0 || group.empty() {
		return nil, gameerr.New(gameerr.UnknownRegion, "March requires a non-empty group and at least one destination")
	}

	total := 0
	cur := origin
	for _, step := range path {
		if err := checkCrossing(s, f, cur, step.Region, group); err != nil {
			return nil, err
		}
		total += marchCostPerRegion(f, step.Region)
		cur = step.Region
	}
	if s.Resources[f] < total {
		return nil, gameerr.Newf(gameerr.ResourceShortfall, "%s has %d resources, March needs %d", f, s.Resources[f], total)
	}
	s.Resources[f] -= total

	remaining := group
	cur = origin
	var touched []catalog.Region
	for _, step := range path {
		touched = append(touched, step.Region)

		if err := runHarassment(s, f, cur, &remaining, opts.Harassment); err != nil {
			s.Resources[f] += total
			return nil, err
		}

		moveKind := remaining
		moveKind.Legions = remaining.Legions - step.DropOff.Legions
		moveKind.Auxilia = remaining.Auxilia - step.DropOff.Auxilia
		moveKind.Warbands = remaining.Warbands - step.DropOff.Warbands

		if err := moveGroup(s, cur, step.Region, f, step.DropOff, remaining, false); err != nil {
			s.Resources[f] += total
			return nil, err
		}
		remaining.Legions = moveKind.Legions
		remaining.Auxilia = moveKind.Auxilia
		remaining.Warbands = moveKind.Warbands
		if step.DropOff.LeaderID != nil {
			remaining.LeaderID = nil
		}
		cur = step.Region
	}

	revealArrivingHiddenPieces(s, cur, f)
	control.RefreshAll(s)
	return &Result{Faction: f, Name: "March", Regions: touched, ResourceCost: total}, nil
}

// moveGroup moves the dropped portion into dst (ending its march there)
// and the carried-forward portion through dst en route, recombining the
// pieces destined to continue with whatever stays. Since internal/pieces
// has no notion of "in transit", both portions are written to dst; the
// carried-forward portion is then moved again on the next step.
func moveGroup(s *state.State, src, dst catalog.Region, f catalog.Faction, drop MarchGroup, all MarchGroup, _ bool) error {
	if all.LeaderID != nil {
		if err := pieces.Move(s, src, dst, f, catalog.Leader, 1, pieces.MoveOpts{}); err != nil {
			return err
		}
	}
	if all.Legions > 0 {
		if err := pieces.Move(s, src, dst, f, catalog.Legion, all.Legions, pieces.MoveOpts{}); err != nil {
			return err
		}
	}
	if all.Auxilia > 0 {
		if err := pieces.Move(s, src, dst, f, catalog.Auxilia, all.Auxilia, pieces.MoveOpts{State: all.AuxiliaState}); err != nil {
			return err
		}
	}
	if all.Warbands > 0 {
		if err := pieces.Move(s, src, dst, f, catalog.Warband, all.Warbands, pieces.MoveOpts{State: all.WarbandState}); err != nil {
			return err
		}
	}
	return nil
}

// checkCrossing enforces Rhenus/coastal/Britannia edge restrictions (spec
// §4.3.2, Crossings). Conditions under which Romans may cross the Rhenus
// with Legions are scenario/card-specific and not named by the spec; this
// engine blocks Roman Legion Rhenus and coastal crossings unconditionally.
func checkCrossing(s *state.State, f catalog.Faction, from, to catalog.Region, group MarchGroup) error {
	kind, adjacent := catalog.IsAdjacent(from, to)
	if !adjacent {
		return gameerr.Newf(gameerr.UnknownRegion, "%s is not adjacent to %s", to, from)
	}
	switch kind {
	case catalog.EdgeRhenus:
		if f == Romans && group.Legions > 0 {
			return gameerr.Newf(gameerr.ProximityViolation, "Roman Legions may not cross the Rhenus at %s/%s", from, to)
		}
	case catalog.EdgeCoastal:
		if group.Legions > 0 {
			return gameerr.Newf(gameerr.ProximityViolation, "Legions may not cross the coastal route %s/%s", from, to)
		}
	case catalog.EdgeBritannia:
		if group.Legions > 0 {
			return gameerr.Newf(gameerr.ProximityViolation, "Legions may not cross to Britannia")
		}
	}
	return nil
}

// runHarassment lets the Harassment policy inflict losses on the marching
// group as it passes through region, when an opposing faction holds at
// least HarassmentThreshold Hidden Warbands there (spec §4.3.2).
func runHarassment(s *state.State, f catalog.Faction, region catalog.Region, group *MarchGroup, decide HarassmentDecider) error {
	if f == Germans {
		return nil // a Germanic marching group is never harassed
	}
	for _, other := range catalog.AllFactions() {
		if other == f {
			continue
		}
		hidden := pieces.CountByState(s, region, other, catalog.Warband, catalog.Hidden)
		if hidden < HarassmentThreshold {
			continue
		}
		if decide == nil {
			continue
		}
		kind, count := decide(region, other, hidden, *group)
		if count <= 0 {
			continue
		}
		opts := pieces.RemoveOpts{}
		if kind == catalog.Legion {
			opts.ToFallen = true
			if group.Legions < count {
				count = group.Legions
			}
			group.Legions -= count
		} else {
			if kind == catalog.Auxilia {
				opts.State = group.AuxiliaState
				if group.Auxilia < count {
					count = group.Auxilia
				}
				group.Auxilia -= count
			} else {
				opts.State = group.WarbandState
				if group.Warbands < count {
					count = group.Warbands
				}
				group.Warbands -= count
			}
		}
		if count <= 0 {
			continue
		}
		if err := pieces.Remove(s, region, f, kind, count, opts); err != nil {
			return err
		}
	}
	return nil
}

// revealArrivingHiddenPieces flips f's Hidden Auxilia/Warbands in region to
// Revealed if any other faction holds a piece there (spec §4.3.2,
// Flipping: "become Revealed when they would be seen").
func revealArrivingHiddenPieces(s *state.State, region catalog.Region, f catalog.Faction) {
	cell := s.Region(region)
	seen := false
	for other, b := range cell.Pieces {
		if other != f && !b.Empty() {
			seen = true
			break
		}
	}
	if !seen {
		return
	}
	hiddenAux := pieces.CountByState(s, region, f, catalog.Auxilia, catalog.Hidden)
	if hiddenAux > 0 {
		_ = pieces.Flip(s, region, f, catalog.Auxilia, hiddenAux, catalog.Hidden, catalog.Revealed)
	}
	hiddenWb := pieces.CountByState(s, region, f, catalog.Warband, catalog.Hidden)
	if hiddenWb > 0 {
		_ = pieces.Flip(s, region, f, catalog.Warband, hiddenWb, catalog.Hidden, catalog.Revealed)
	}
}
