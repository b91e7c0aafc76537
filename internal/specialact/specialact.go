// Package specialact implements the twelve Special Activities of spec
// §4.4. Each attaches to a subset of {Rally/Recruit, March, Raid, Battle};
// callers are responsible for verifying the attachment and for Frost
// gating (SAs do not independently check Frost). Scout's marking step
// uses commands.ProximityOK for its "within-1 or Successor" gate.
package specialact

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/commands"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/state"
)

// Result reports what an SA did.
type Result = commands.Result

// Ambush validates the Arv/Aed/Bel/Ger Ambush gate: the attacker's Hidden
// count must exceed the defender's Hidden count. The battle effect itself
// (suppressed rolls) is realised by internal/battle; this is the
// pre-battle legality check (spec §4.4 table, §4.5 Step 3).
func Ambush(s *state.State, region catalog.Region, attacker, defender catalog.Faction) error {
	attHidden := hiddenTotal(s, region, attacker)
	defHidden := hiddenTotal(s, region, defender)
	if attHidden <= defHidden {
		return gameerr.Newf(gameerr.ProximityViolation, "%s has %d Hidden in %s, needs more than defender's %d to Ambush", attacker, attHidden, region, defHidden)
	}
	return nil
}

func hiddenTotal(s *state.State, region catalog.Region, f catalog.Faction) int {
	return pieces.CountByState(s, region, f, catalog.Auxilia, catalog.Hidden) +
		pieces.CountByState(s, region, f, catalog.Warband, catalog.Hidden)
}

// ScoutMove relocates one Roman Auxilia across a single adjacency,
// preserving its flip state, as part of the Scout SA's movement half
// (spec §4.4 table, Scout (a)). Each Auxilia may move at most once per
// Scout activation; callers must not call ScoutMove twice for one piece.
func ScoutMove(s *state.State, from, to catalog.Region, st catalog.PieceState) error {
	if _, adjacent := catalog.IsAdjacent(from, to); !adjacent {
		return gameerr.Newf(gameerr.UnknownRegion, "%s is not adjacent to %s", to, from)
	}
	if st == catalog.Scouted {
		return gameerr.New(gameerr.UnknownPieceKind, "a Scouted piece cannot itself be moved by Scout")
	}
	if err := pieces.Move(s, from, to, catalog.Romans, catalog.Auxilia, 1, pieces.MoveOpts{State: st}); err != nil {
		return err
	}
	control.RefreshAll(s)
	return nil
}

// ScoutMark places a Scouted marker on an enemy Hidden Warband within 1 of
// Caesar, flipping the scouting Auxilia to Revealed in the process (spec
// §4.4 table, Scout (b)).
func ScoutMark(s *state.State, region catalog.Region, target catalog.Faction) error {
	leaderRegion, found := pieces.FindLeader(s, catalog.Romans)
	id, _ := pieces.LeaderInRegion(s, leaderRegion, catalog.Romans)
	if !commands.ProximityOK(s, region, leaderRegion, id, found) || id != catalog.Caesar {
		return gameerr.New(gameerr.ProximityViolation, "Scout marking requires Caesar within 1")
	}
	if pieces.CountByState(s, region, target, catalog.Warband, catalog.Hidden) == 0 {
		return gameerr.Newf(gameerr.NotPresent, "%s has no Hidden Warband in %s to Scout", target, region)
	}
	if err := pieces.Flip(s, region, catalog.Romans, catalog.Auxilia, 1, catalog.Hidden, catalog.Revealed); err != nil {
		return err
	}
	return pieces.Flip(s, region, target, catalog.Warband, 1, catalog.Hidden, catalog.Scouted)
}

// Build places a Roman Fort and/or performs one Subdue-or-Ally action in
// region, each costing 2 Resources (spec §4.4 table, Build).
func Build(s *state.State, region catalog.Region, placeFort bool, subdueOrAllyTribe catalog.Tribe, placeAlly bool, isSeizeTarget bool) (*Result, error) {
	cost := 0
	if placeFort {
		cost += 2
	}
	doSubdueOrAlly := subdueOrAllyTribe != 0 || placeAlly
	if doSubdueOrAlly {
		if control.Of(s, region) != catalog.Romans {
			return nil, gameerr.Newf(gameerr.ProximityViolation, "Build's Subdue/Ally action requires Roman Control of %s", region)
		}
		if isSeizeTarget {
			return nil, gameerr.New(gameerr.ProximityViolation, "Build's Subdue/Ally action may not target the Seize region")
		}
		cost += 2
	}
	if s.Resources[catalog.Romans] < cost {
		return nil, gameerr.Newf(gameerr.ResourceShortfall, "Build needs %d Resources", cost)
	}
	s.Resources[catalog.Romans] -= cost

	if placeFort {
		if err := pieces.Place(s, region, catalog.Romans, catalog.Fort, 1, pieces.PlaceOpts{}); err != nil {
			s.Resources[catalog.Romans] += cost
			return nil, err
		}
	}
	if doSubdueOrAlly {
		rec := s.Tribes[subdueOrAllyTribe]
		switch {
		case placeAlly:
			if rec.Status != catalog.StatusSubdued {
				s.Resources[catalog.Romans] += cost
				return nil, gameerr.Newf(gameerr.NotPresent, "%v is not Subdued", subdueOrAllyTribe)
			}
			if restrict, ok := subdueOrAllyTribe.AllyRestriction(); ok && restrict != catalog.Romans {
				s.Resources[catalog.Romans] += cost
				return nil, gameerr.Newf(gameerr.StackingViolation, "%v's Ally is restricted to %s", subdueOrAllyTribe, restrict)
			}
			if err := pieces.Place(s, region, catalog.Romans, catalog.Ally, 1, pieces.PlaceOpts{}); err != nil {
				s.Resources[catalog.Romans] += cost
				return nil, err
			}
			romans := catalog.Romans
			rec.Status = catalog.StatusAllied
			rec.AlliedFaction = &romans
		default:
			rec.Status = catalog.StatusSubdued
		}
	}
	control.RefreshAll(s)
	return &Result{Faction: catalog.Romans, Name: "Build", Regions: []catalog.Region{region}, ResourceCost: cost}, nil
}

// Besiege removes one Defender Citadel, Ally, or (Ariovistus) Settlement
// before battle losses. Halving from a Citadel/Fort present at the start
// of battle persists even after this removal (spec §4.4 table, §4.5
// invariants); callers must snapshot citadel_at_start/fort_at_start
// themselves before calling Besiege.
func Besiege(s *state.State, region catalog.Region, defender catalog.Faction) error {
	b, ok := s.Region(region).Pieces[defender]
	if !ok {
		return gameerr.Newf(gameerr.NotPresent, "%s has no pieces in %s", defender, region)
	}
	switch {
	case b.Citadels > 0:
		return pieces.Remove(s, region, defender, catalog.Citadel, 1, pieces.RemoveOpts{})
	case b.Allies > 0:
		return pieces.Remove(s, region, defender, catalog.Ally, 1, pieces.RemoveOpts{})
	case s.Scenario.IsAriovistusRuleset() && b.Settlements > 0:
		return pieces.Remove(s, region, defender, catalog.Settlement, 1, pieces.RemoveOpts{})
	default:
		return gameerr.Newf(gameerr.NotPresent, "%s has no Citadel, Ally, or Settlement in %s to Besiege", defender, region)
	}
}

// Entreat replaces one non-Arverni Warband/Auxilia with an Arverni
// Warband, and (if Arverni-Controlled) may replace a non-Roman enemy Ally
// with an Arverni Ally. If no Arverni piece is Available, the target is
// simply removed (spec §4.4 table, Entreat).
func Entreat(s *state.State, region catalog.Region, targetFaction catalog.Faction, targetKind catalog.PieceKind, targetState catalog.PieceState) (*Result, error) {
	const cost = 1
	if s.Resources[catalog.Arverni] < cost {
		return nil, gameerr.Newf(gameerr.ResourceShortfall, "Entreat needs %d Resource", cost)
	}
	if targetFaction == catalog.Arverni {
		return nil, gameerr.New(gameerr.UnknownPieceKind, "Entreat cannot target Arverni's own pieces")
	}
	removeOpts := pieces.RemoveOpts{State: targetState}
	if targetKind != catalog.Ally && targetKind != catalog.Warband && targetKind != catalog.Auxilia {
		return nil, gameerr.New(gameerr.UnknownPieceKind, "Entreat cannot target Citadels")
	}
	if targetKind == catalog.Ally {
		if control.Of(s, region) != catalog.Arverni {
			return nil, gameerr.New(gameerr.ProximityViolation, "Entreat's Ally replacement requires Arverni Control")
		}
		if targetFaction == catalog.Romans {
			return nil, gameerr.New(gameerr.UnknownPieceKind, "Entreat cannot replace a Roman Ally")
		}
	}
	if err := pieces.Remove(s, region, targetFaction, targetKind, 1, removeOpts); err != nil {
		return nil, err
	}
	s.Resources[catalog.Arverni] -= cost

	placeKind := catalog.Warband
	if targetKind == catalog.Ally {
		placeKind = catalog.Ally
	}
	if pieces.Available(s, catalog.Arverni, placeKind) > 0 {
		if err := pieces.Place(s, region, catalog.Arverni, placeKind, 1, pieces.PlaceOpts{}); err != nil {
			return nil, err
		}
	}
	control.RefreshAll(s)
	return &Result{Faction: catalog.Arverni, Name: "Entreat", Regions: []catalog.Region{region}, ResourceCost: cost}, nil
}

// Devastate removes a quarter of Arverni's own Warbands, a third of every
// other faction's mobile forces (Legions to Fallen), and places the
// Devastated marker, in an Arverni-Controlled region (spec §4.4 table,
// Devastate).
func Devastate(s *state.State, region catalog.Region) (*Result, error) {
	if control.Of(s, region) != catalog.Arverni {
		return nil, gameerr.New(gameerr.ProximityViolation, "Devastate requires Arverni Control")
	}
	cell := s.Region(region)
	if own, ok := cell.Pieces[catalog.Arverni]; ok {
		n := own.ByState[catalog.Hidden].Warband + own.ByState[catalog.Revealed].Warband
		loss := n / 4
		if loss > 0 {
			if err := removeMobileWarbands(s, region, catalog.Arverni, loss); err != nil {
				return nil, err
			}
		}
	}
	for _, f := range catalog.AllFactions() {
		if f == catalog.Arverni {
			continue
		}
		b, ok := cell.Pieces[f]
		if !ok {
			continue
		}
		mobile := b.Legions + b.ByState[catalog.Hidden].Auxilia + b.ByState[catalog.Revealed].Auxilia +
			b.ByState[catalog.Hidden].Warband + b.ByState[catalog.Revealed].Warband
		loss := mobile / 3
		if loss == 0 {
			continue
		}
		if err := removeMobileForces(s, region, f, loss); err != nil {
			return nil, err
		}
	}
	cell.Markers[catalog.MarkerDevastated] = true
	control.RefreshAll(s)
	return &Result{Faction: catalog.Arverni, Name: "Devastate", Regions: []catalog.Region{region}}, nil
}

func removeMobileWarbands(s *state.State, region catalog.Region, f catalog.Faction, n int) error {
	for _, st := range [2]catalog.PieceState{catalog.Revealed, catalog.Hidden} {
		if n == 0 {
			return nil
		}
		have := pieces.CountByState(s, region, f, catalog.Warband, st)
		take := min(have, n)
		if take == 0 {
			continue
		}
		if err := pieces.Remove(s, region, f, catalog.Warband, take, pieces.RemoveOpts{State: st}); err != nil {
			return err
		}
		n -= take
	}
	return nil
}

func removeMobileForces(s *state.State, region catalog.Region, f catalog.Faction, n int) error {
	if n == 0 {
		return nil
	}
	if have := pieces.Count(s, region, f, catalog.Legion); have > 0 {
		take := min(have, n)
		if err := pieces.Remove(s, region, f, catalog.Legion, take, pieces.RemoveOpts{ToFallen: true}); err != nil {
			return err
		}
		n -= take
	}
	for _, kind := range [2]catalog.PieceKind{catalog.Warband, catalog.Auxilia} {
		for _, st := range [2]catalog.PieceState{catalog.Revealed, catalog.Hidden} {
			if n == 0 {
				return nil
			}
			have := pieces.CountByState(s, region, f, kind, st)
			take := min(have, n)
			if take == 0 {
				continue
			}
			if err := pieces.Remove(s, region, f, kind, take, pieces.RemoveOpts{State: st}); err != nil {
				return err
			}
			n -= take
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Trade gains the Aedui faction Resources for each of its Allies/Citadels,
// each Subdued tribe in an Aedui-controlled supply-line region, and (if
// Romans agree) each Roman Ally, doubled to 2 with Roman agreement (spec
// §4.4 table, Trade).
func Trade(s *state.State, romansAgree bool, supplyLinePass func(catalog.Region) bool) (*Result, error) {
	gain := 0
	for _, r := range catalog.AllRegions() {
		b, ok := s.Region(r).Pieces[catalog.Aedui]
		if !ok {
			continue
		}
		gain += b.Allies + b.Citadels
	}
	for _, r := range catalog.PlayableRegions() {
		if control.Of(s, r) != catalog.Aedui {
			continue
		}
		if !hasSupplyLineTo(s.Scenario, r, supplyLinePass) {
			continue
		}
		for _, t := range catalog.TribesIn(r) {
			if s.Tribes[t].Status == catalog.StatusSubdued {
				gain++
			}
		}
	}
	if romansAgree {
		perAlly := 2
		for _, r := range catalog.AllRegions() {
			b, ok := s.Region(r).Pieces[catalog.Romans]
			if !ok {
				continue
			}
			gain += b.Allies * perAlly
		}
	}
	s.Resources[catalog.Aedui] += gain
	return &Result{Faction: catalog.Aedui, Name: "Trade", ResourceCost: -gain}, nil
}

func hasSupplyLineTo(scn catalog.Scenario, r catalog.Region, pass func(catalog.Region) bool) bool {
	return pass != nil && pass(r)
}

// SubornOp is one of up to 3 Suborn operations in a single region.
type SubornOp struct {
	Place       bool // true = place, false = remove
	Faction     catalog.Faction
	Kind        catalog.PieceKind // Ally, Warband, or Auxilia
	TargetTribe catalog.Tribe     // only used when Kind == Ally and Place
}

// Suborn lets the Aedui perform up to 3 place-or-remove operations (at
// most 1 Ally) in a region with a Hidden Aedui Warband, costing 2 per Ally
// and 1 per Warband/Auxilia (spec §4.4 table, Suborn).
func Suborn(s *state.State, region catalog.Region, ops []SubornOp) (*Result, error) {
	if len(ops) > 3 {
		return nil, gameerr.New(gameerr.UnknownPieceKind, "Suborn allows at most 3 operations")
	}
	if pieces.CountByState(s, region, catalog.Aedui, catalog.Warband, catalog.Hidden) == 0 {
		return nil, gameerr.New(gameerr.ProximityViolation, "Suborn requires a Hidden Aedui Warband in the region")
	}
	allies := 0
	cost := 0
	for _, op := range ops {
		if op.Kind == catalog.Ally {
			allies++
			cost += 2
		} else {
			cost++
		}
	}
	if allies > 1 {
		return nil, gameerr.New(gameerr.UnknownPieceKind, "Suborn allows at most 1 Ally operation")
	}
	if s.Resources[catalog.Aedui] < cost {
		return nil, gameerr.Newf(gameerr.ResourceShortfall, "Suborn needs %d Resources", cost)
	}
	s.Resources[catalog.Aedui] -= cost
	for _, op := range ops {
		var err error
		if op.Place {
			if op.Kind == catalog.Ally {
				if restrict, ok := op.TargetTribe.AllyRestriction(); ok && restrict != op.Faction {
					err = gameerr.Newf(gameerr.StackingViolation, "%v's Ally is restricted to %s", op.TargetTribe, restrict)
				} else {
					err = pieces.Place(s, region, op.Faction, op.Kind, 1, pieces.PlaceOpts{})
				}
			} else {
				err = pieces.Place(s, region, op.Faction, op.Kind, 1, pieces.PlaceOpts{})
			}
		} else {
			err = pieces.Remove(s, region, op.Faction, op.Kind, 1, pieces.RemoveOpts{})
		}
		if err != nil {
			s.Resources[catalog.Aedui] += cost
			return nil, err
		}
	}
	control.RefreshAll(s)
	return &Result{Faction: catalog.Aedui, Name: "Suborn", Regions: []catalog.Region{region}, ResourceCost: cost}, nil
}

// Rampage flips count Hidden Belgic Warbands to Revealed and lets the
// target faction (which must have no Leader, Citadel, or Fort there, and
// not be Germanic) remove or retreat one piece per flipped Warband (spec
// §4.4 table, Rampage). retreatTo is nil for a removal.
func Rampage(s *state.State, region catalog.Region, count int, target catalog.Faction, retreatTo []*catalog.Region) (*Result, error) {
	if target == catalog.Germans {
		return nil, gameerr.New(gameerr.UnknownPieceKind, "Rampage cannot target Germans")
	}
	b, ok := s.Region(region).Pieces[target]
	if ok && (b.Leader != nil || b.Citadels > 0 || b.Forts > 0) {
		return nil, gameerr.New(gameerr.ProximityViolation, "Rampage's target must have no Leader, Citadel, or Fort in the region")
	}
	if pieces.CountByState(s, region, catalog.Belgae, catalog.Warband, catalog.Hidden) < count {
		return nil, gameerr.Newf(gameerr.NotPresent, "Belgae lack %d Hidden Warbands in %s", count, region)
	}
	if len(retreatTo) != count {
		return nil, gameerr.New(gameerr.UnknownPieceKind, "Rampage requires one retreat-or-remove decision per flipped Warband")
	}
	if err := pieces.Flip(s, region, catalog.Belgae, catalog.Warband, count, catalog.Hidden, catalog.Revealed); err != nil {
		return nil, err
	}
	for _, dest := range retreatTo {
		kind, st, ok2 := pickMobilePiece(s, region, target)
		if !ok2 {
			break
		}
		if dest == nil {
			if err := pieces.Remove(s, region, target, kind, 1, pieces.RemoveOpts{State: st, ToFallen: kind == catalog.Legion}); err != nil {
				return nil, err
			}
			continue
		}
		if err := pieces.Move(s, region, *dest, target, kind, 1, pieces.MoveOpts{State: st}); err != nil {
			return nil, err
		}
	}
	control.RefreshAll(s)
	return &Result{Faction: catalog.Belgae, Name: "Rampage", Regions: []catalog.Region{region}}, nil
}

func pickMobilePiece(s *state.State, region catalog.Region, f catalog.Faction) (catalog.PieceKind, catalog.PieceState, bool) {
	if pieces.Count(s, region, f, catalog.Legion) > 0 {
		return catalog.Legion, catalog.Hidden, true
	}
	for _, st := range [2]catalog.PieceState{catalog.Revealed, catalog.Hidden} {
		if pieces.CountByState(s, region, f, catalog.Auxilia, st) > 0 {
			return catalog.Auxilia, st, true
		}
		if pieces.CountByState(s, region, f, catalog.Warband, st) > 0 {
			return catalog.Warband, st, true
		}
	}
	if pieces.Count(s, region, f, catalog.Leader) > 0 {
		return catalog.Leader, catalog.Hidden, true
	}
	return 0, 0, false
}

// Settle places a Germanic Settlement (Ariovistus only) in a
// Germanic-Controlled region outside Germania, adjacent to Germania or an
// existing Settlement, costing 2 (4 if Devastated). A region gains
// Settlement-adjacency for later calls in the same activation via
// extraAdjacent (spec §4.4 table, Settle).
func Settle(s *state.State, region catalog.Region, extraAdjacent map[catalog.Region]bool) (*Result, error) {
	if !s.Scenario.IsAriovistusRuleset() {
		return nil, gameerr.New(gameerr.EligibilityViolation, "Settle is an Ariovistus-only activity")
	}
	if catalog.InGroup(region, catalog.GroupGermania) {
		return nil, gameerr.New(gameerr.ProximityViolation, "Settle targets a region outside Germania")
	}
	if control.Of(s, region) != catalog.Germans {
		return nil, gameerr.New(gameerr.ProximityViolation, "Settle requires Germanic Control")
	}
	adjacentOK := extraAdjacent[region]
	if !adjacentOK {
		for _, e := range catalog.Adjacent(region) {
			if catalog.InGroup(e.B, catalog.GroupGermania) || pieces.Count(s, e.B, catalog.Germans, catalog.Settlement) > 0 {
				adjacentOK = true
				break
			}
		}
	}
	if !adjacentOK {
		return nil, gameerr.New(gameerr.ProximityViolation, "Settle requires adjacency to Germania or an existing Settlement")
	}
	cost := 2
	if s.Region(region).HasMarker(catalog.MarkerDevastated) {
		cost = 4
	}
	if s.Resources[catalog.Germans] < cost {
		return nil, gameerr.Newf(gameerr.ResourceShortfall, "Settle needs %d Resources", cost)
	}
	s.Resources[catalog.Germans] -= cost
	if err := pieces.Place(s, region, catalog.Germans, catalog.Settlement, 1, pieces.PlaceOpts{}); err != nil {
		s.Resources[catalog.Germans] += cost
		return nil, err
	}
	if extraAdjacent != nil {
		extraAdjacent[region] = true
	}
	control.RefreshAll(s)
	return &Result{Faction: catalog.Germans, Name: "Settle", Regions: []catalog.Region{region}, ResourceCost: cost}, nil
}

// Intimidate flips 1 or 2 Hidden Germanic Warbands, places the Intimidated
// marker, and removes that many Warbands/Auxilia/Allies of one enemy
// faction with no Leader in the region (spec §4.4 table, Intimidate).
func Intimidate(s *state.State, region catalog.Region, flipCount int, target catalog.Faction) (*Result, error) {
	if !s.Scenario.IsAriovistusRuleset() {
		return nil, gameerr.New(gameerr.EligibilityViolation, "Intimidate is an Ariovistus-only activity")
	}
	if flipCount != 1 && flipCount != 2 {
		return nil, gameerr.New(gameerr.UnknownPieceKind, "Intimidate flips 1 or 2 Warbands")
	}
	if b, ok := s.Region(region).Pieces[target]; ok && b.Leader != nil {
		return nil, gameerr.New(gameerr.ProximityViolation, "Intimidate's target must have no Leader in the region")
	}
	if pieces.CountByState(s, region, catalog.Germans, catalog.Warband, catalog.Hidden) < flipCount {
		return nil, gameerr.Newf(gameerr.NotPresent, "Germans lack %d Hidden Warbands in %s", flipCount, region)
	}
	if err := pieces.Flip(s, region, catalog.Germans, catalog.Warband, flipCount, catalog.Hidden, catalog.Revealed); err != nil {
		return nil, err
	}
	s.Region(region).Markers[catalog.MarkerIntimidated] = true

	removed := 0
	for _, kind := range [3]catalog.PieceKind{catalog.Warband, catalog.Auxilia, catalog.Ally} {
		for removed < flipCount {
			var st catalog.PieceState
			have := 0
			if kind == catalog.Ally {
				have = pieces.Count(s, region, target, kind)
			} else {
				for _, s2 := range [2]catalog.PieceState{catalog.Revealed, catalog.Hidden} {
					if n := pieces.CountByState(s, region, target, kind, s2); n > 0 {
						have = n
						st = s2
						break
					}
				}
			}
			if have == 0 {
				break
			}
			if err := pieces.Remove(s, region, target, kind, 1, pieces.RemoveOpts{State: st}); err != nil {
				return nil, err
			}
			removed++
		}
	}
	control.RefreshAll(s)
	return &Result{Faction: catalog.Germans, Name: "Intimidate", Regions: []catalog.Region{region}}, nil
}
