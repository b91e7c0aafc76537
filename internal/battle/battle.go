// Package battle implements resolve_battle, the branching state machine
// of spec §4.5. Every step matches the spec's phase order exactly;
// internal helper names (retreat, attackLosses, counterattack, reveal)
// mirror the spec's phase names rather than the teacher's original combat
// code, since the teacher has no combat system of its own to follow —
// this package instead follows the teacher's style of a single ordered
// tick function (_examples/tobyjaguar-mini-world/internal/engine/tick.go)
// dispatching to phase helpers.
package battle

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/specialact"
	"github.com/talgya/gallia-engine/internal/state"
)

// absorbThreshold is the hard-target die-roll absorption threshold: a roll
// at or below this value means the rolled piece absorbs the loss
// (Diviciacus lowers it, spec §A1.4).
func absorbThreshold(defenderLeader catalog.LeaderID, defenderHasLeader bool) int {
	if defenderHasLeader && defenderLeader == catalog.Diviciacus {
		return 2
	}
	return 3
}

// caesarRetainThreshold is the die-roll threshold at or above which
// Caesar's ambush defense retains normal rolls and unlocks a counterattack
// (spec §4.5 Step 3, supplemented by original_source/fs_bot).
func caesarRetainThreshold(attacker catalog.Faction) int {
	if attacker == catalog.Belgae {
		return 5
	}
	return 4
}

// Params is resolve_battle's full argument set (spec §4.5).
type Params struct {
	Region        catalog.Region
	Attacker      catalog.Faction
	Defender      catalog.Faction
	IsAmbush      bool
	BesiegeTarget bool

	Retreat       bool
	RetreatRegion *catalog.Region

	AttackLossOrder []catalog.PieceKind
	DefendLossOrder []catalog.PieceKind
}

// Outcome reports what resolve_battle did.
type Outcome struct {
	AttackLosses      int
	CounterLosses     int
	DefenderRetreated bool
	CaesarRetained    bool
	RemovedAttacker   []catalog.PieceKind
	RemovedDefender   []catalog.PieceKind
}

// Resolve runs the full battle state machine for one region (spec §4.5).
// Targeting (Step 1) is caller-supplied via Params.
func Resolve(s *state.State, p Params) (*Outcome, error) {
	out := &Outcome{}

	citadelAtStart := pieces.Count(s, p.Region, p.Defender, catalog.Citadel) > 0
	fortAtStart := pieces.Count(s, p.Region, p.Defender, catalog.Fort) > 0

	retreatEligible := canRetreat(s, p)
	if p.Retreat && !retreatEligible {
		return nil, gameerr.New(gameerr.ProximityViolation, "defender is not eligible to retreat")
	}

	if p.BesiegeTarget {
		if err := specialact.Besiege(s, p.Region, p.Defender); err != nil {
			return nil, err
		}
	}
	retreatEligible = canRetreat(s, p)
	if p.Retreat && !retreatEligible {
		return nil, gameerr.New(gameerr.ProximityViolation, "defender lost retreat eligibility after Besiege")
	}

	suppressRolls := (p.IsAmbush || (p.Attacker == catalog.Germans && !s.Scenario.IsAriovistusRuleset())) &&
		!citadelAtStart && !fortAtStart

	caesarRetained := false
	if p.IsAmbush && !citadelAtStart && !fortAtStart {
		if id, ok := pieces.LeaderInRegion(s, p.Region, p.Defender); ok && id == catalog.Caesar {
			roll := s.RNG.D6()
			if roll >= caesarRetainThreshold(p.Attacker) {
				caesarRetained = true
				suppressRolls = false
			}
		}
	}
	out.CaesarRetained = caesarRetained

	attackLosses := computeAttackLosses(s, p, citadelAtStart, fortAtStart, p.Retreat)
	removed, err := resolveLosses(s, p.Region, p.Defender, attackLosses, suppressRolls, p.DefendLossOrder)
	if err != nil {
		return nil, err
	}
	out.AttackLosses = attackLosses
	out.RemovedDefender = removed

	if !p.Retreat && !(p.IsAmbush && !caesarRetained) {
		counterLosses := computeCounterLosses(s, p)
		removedC, err := resolveLosses(s, p.Region, p.Attacker, counterLosses, false, p.AttackLossOrder)
		if err != nil {
			return nil, err
		}
		out.CounterLosses = counterLosses
		out.RemovedAttacker = removedC
	}

	if !p.Retreat {
		revealSurvivors(s, p.Region, p.Attacker)
		revealSurvivors(s, p.Region, p.Defender)
	} else {
		out.DefenderRetreated = true
		if err := executeRetreat(s, p); err != nil {
			return nil, err
		}
	}

	control.RefreshAll(s)
	return out, nil
}

// canRetreat implements Step 2's eligibility rule (spec §4.5).
func canRetreat(s *state.State, p Params) bool {
	if p.IsAmbush {
		return false
	}
	if p.Attacker == catalog.Germans && !s.Scenario.IsAriovistusRuleset() {
		return false
	}
	if s.Scenario.IsAriovistusRuleset() && p.Defender == catalog.Arverni {
		return false
	}
	return hasMobilePieces(s, p.Region, p.Defender)
}

func hasMobilePieces(s *state.State, region catalog.Region, f catalog.Faction) bool {
	b, ok := s.Region(region).Pieces[f]
	if !ok {
		return false
	}
	if b.Leader != nil || b.Legions > 0 {
		return true
	}
	for _, fc := range b.ByState {
		if fc.Auxilia > 0 || fc.Warband > 0 {
			return true
		}
	}
	return false
}

// computeAttackLosses implements Step 3's strength formula (spec §4.5).
func computeAttackLosses(s *state.State, p Params, citadelAtStart, fortAtStart, defenderRetreats bool) int {
	leaderID, hasLeader := pieces.LeaderInRegion(s, p.Region, p.Attacker)
	legions := pieces.Count(s, p.Region, p.Attacker, catalog.Legion)
	warbands := totalFlippable(s, p.Region, p.Attacker, catalog.Warband)
	auxilia := totalFlippable(s, p.Region, p.Attacker, catalog.Auxilia)

	var a float64
	switch {
	case hasLeader && leaderID == catalog.Caesar:
		a = 2 * float64(legions)
	case hasLeader && leaderID == catalog.Ambiorix:
		a = float64(warbands)
	default:
		a = float64(legions) + 0.5*float64(warbands)
	}

	b := 0.5 * float64(auxilia)
	if hasLeader {
		b += 1
	}
	total := a + b

	if hasLeader && leaderID == catalog.Ariovistus_ && p.Attacker == catalog.Germans &&
		!citadelAtStart && !fortAtStart {
		total *= 2
	}

	if defenderRetreats || citadelAtStart || fortAtStart {
		total /= 2
	}
	return int(total)
}

// computeCounterLosses mirrors Step 4's counterattack as the defender's
// strength computed the same way, with no halving (the counterattack is
// not itself subject to retreat/Citadel/Fort halving, spec §4.5 Step 4).
func computeCounterLosses(s *state.State, p Params) int {
	mirrored := Params{Region: p.Region, Attacker: p.Defender, Defender: p.Attacker}
	return computeAttackLosses(s, mirrored, false, false, false)
}

func totalFlippable(s *state.State, region catalog.Region, f catalog.Faction, kind catalog.PieceKind) int {
	return pieces.CountByState(s, region, f, kind, catalog.Hidden) +
		pieces.CountByState(s, region, f, kind, catalog.Revealed) +
		pieces.CountByState(s, region, f, kind, catalog.Scouted)
}

// revealSurvivors flips every surviving Hidden flippable to Revealed and
// clears Scouted markers (spec §4.5 Step 5).
func revealSurvivors(s *state.State, region catalog.Region, f catalog.Faction) {
	for _, kind := range [2]catalog.PieceKind{catalog.Auxilia, catalog.Warband} {
		if n := pieces.CountByState(s, region, f, kind, catalog.Hidden); n > 0 {
			_ = pieces.Flip(s, region, f, kind, n, catalog.Hidden, catalog.Revealed)
		}
		if n := pieces.CountByState(s, region, f, kind, catalog.Scouted); n > 0 {
			_ = pieces.Flip(s, region, f, kind, n, catalog.Scouted, catalog.Revealed)
		}
	}
}

// executeRetreat implements Step 6 for the defending faction (spec §4.5).
func executeRetreat(s *state.State, p Params) error {
	if p.RetreatRegion == nil {
		return gameerr.New(gameerr.UnknownRegion, "retreat requires a destination region")
	}
	dest := *p.RetreatRegion
	if _, adjacent := catalog.IsAdjacent(p.Region, dest); !adjacent {
		return gameerr.Newf(gameerr.UnknownRegion, "retreat destination %s is not adjacent to %s", dest, p.Region)
	}
	f := p.Defender
	b, ok := s.Region(p.Region).Pieces[f]
	if !ok {
		return nil
	}

	romanAttack := p.Attacker == catalog.Romans
	if b.Leader != nil {
		id := *b.Leader
		if romanAttack {
			if err := pieces.Move(s, p.Region, dest, f, catalog.Leader, 1, pieces.MoveOpts{}); err != nil {
				return err
			}
		} else {
			if id.IsSuccessor() || f == catalog.Germans {
				return gameerr.New(gameerr.ProximityViolation, "leader retreat under non-Roman attack requires move-or-remove decision from the caller")
			}
			if err := pieces.Move(s, p.Region, dest, f, catalog.Leader, 1, pieces.MoveOpts{}); err != nil {
				return err
			}
		}
	}
	if b.Legions > 0 {
		if err := pieces.Move(s, p.Region, dest, f, catalog.Legion, b.Legions, pieces.MoveOpts{}); err != nil {
			return err
		}
	}
	if n := pieces.CountByState(s, p.Region, f, catalog.Auxilia, catalog.Revealed); n > 0 {
		if err := pieces.Move(s, p.Region, dest, f, catalog.Auxilia, n, pieces.MoveOpts{State: catalog.Revealed}); err != nil {
			return err
		}
	}
	if n := pieces.CountByState(s, p.Region, f, catalog.Auxilia, catalog.Hidden); n > 0 {
		if err := pieces.Move(s, p.Region, dest, f, catalog.Auxilia, n, pieces.MoveOpts{State: catalog.Hidden}); err != nil {
			return err
		}
	}
	if romanAttack {
		if n := pieces.CountByState(s, p.Region, f, catalog.Warband, catalog.Hidden); n > 0 {
			if err := pieces.Move(s, p.Region, dest, f, catalog.Warband, n, pieces.MoveOpts{State: catalog.Hidden}); err != nil {
				return err
			}
		}
	}
	if n := pieces.CountByState(s, p.Region, f, catalog.Warband, catalog.Revealed); n > 0 {
		if err := pieces.Move(s, p.Region, dest, f, catalog.Warband, n, pieces.MoveOpts{State: catalog.Revealed}); err != nil {
			return err
		}
	}
	return nil
}
