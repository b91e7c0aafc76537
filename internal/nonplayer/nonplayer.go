// Package nonplayer runs the two game-run factions' procedures: the
// Germans Phase (base game) and the Arverni Phase (Ariovistus), both
// deterministic and seedable (spec §4.7).
package nonplayer

import (
	"github.com/talgya/gallia-engine/internal/battle"
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/commands"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/state"
	"github.com/talgya/gallia-engine/internal/victory"
)

// GermansPhase runs the base-game Germans Phase's four sub-steps in order
// (spec §4.7): Rally in home regions, March toward the chosen target,
// Raid in every region with Germanic Warbands, then Battle-with-Ambush
// wherever Germanic Hidden exceeds enemy Hidden and the Ambush would cost
// the enemy at least one loss.
func GermansPhase(s *state.State) error {
	target, ok := pickTarget(s)
	if !ok {
		return nil
	}

	for _, home := range catalog.HomeRegions(catalog.Germans) {
		if pieces.Available(s, catalog.Germans, catalog.Warband) == 0 {
			break
		}
		n := pieces.Available(s, catalog.Germans, catalog.Warband)
		if n > 2 {
			n = 2
		}
		_, _ = commands.Rally(s, catalog.Germans, []commands.RegionPlacement{{Region: home, Warbands: n}})
	}

	if path := germanicPathToward(s, target); len(path) > 0 {
		group := commands.MarchGroup{
			Warbands:     pieces.CountByState(s, path[0].origin, catalog.Germans, catalog.Warband, catalog.Hidden),
			WarbandState: catalog.Hidden,
		}
		if group.Warbands > 0 {
			_, _ = commands.March(s, catalog.Germans, path[0].origin, group, path[0].steps, commands.MarchOpts{})
		}
	}

	for _, r := range catalog.PlayableRegions() {
		hidden := pieces.CountByState(s, r, catalog.Germans, catalog.Warband, catalog.Hidden)
		if hidden == 0 {
			continue
		}
		choices := make([]commands.RaidChoice, hidden)
		for i := range choices {
			if enemy, ok := anyEnemyPresent(s, r, catalog.Germans); ok {
				choices[i] = commands.RaidChoice{StealFrom: &enemy}
			}
		}
		_, _ = commands.Raid(s, catalog.Germans, r, hidden, choices)
	}

	for _, r := range catalog.PlayableRegions() {
		enemy, ok := battleCandidate(s, r)
		if !ok {
			continue
		}
		_, _ = battle.Resolve(s, battle.Params{
			Region:   r,
			Attacker: catalog.Germans,
			Defender: enemy,
			IsAmbush: true,
		})
	}

	control.RefreshAll(s)
	return nil
}

// pickTarget scores every non-Germanic faction by ascending Resources
// (smallest first), breaking ties with the seeded RNG (spec §4.7,
// supplemented by original_source/fs_bot's germans_battle.py).
func pickTarget(s *state.State) (catalog.Faction, bool) {
	var candidates []catalog.Faction
	best := -1
	for _, f := range catalog.SoPFactions(s.Scenario) {
		if f == catalog.Germans {
			continue
		}
		if best == -1 || s.Resources[f] < best {
			best = s.Resources[f]
			candidates = []catalog.Faction{f}
		} else if s.Resources[f] == best {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	return candidates[s.RNG.Pick(len(candidates))], true
}

type marchPlan struct {
	origin catalog.Region
	steps  []commands.MarchStep
}

// germanicPathToward finds a one-step March from a Germanic home region
// toward any region controlled by target, preferring the shortest hop.
func germanicPathToward(s *state.State, target catalog.Faction) []marchPlan {
	for _, home := range catalog.HomeRegions(catalog.Germans) {
		if pieces.CountByState(s, home, catalog.Germans, catalog.Warband, catalog.Hidden) == 0 {
			continue
		}
		for _, e := range catalog.Adjacent(home) {
			if control.Of(s, e.B) == target {
				return []marchPlan{{origin: home, steps: []commands.MarchStep{{Region: e.B}}}}
			}
		}
	}
	return nil
}

func anyEnemyPresent(s *state.State, r catalog.Region, self catalog.Faction) (catalog.Faction, bool) {
	for _, f := range catalog.AllFactions() {
		if f == self {
			continue
		}
		if b, ok := s.Region(r).Pieces[f]; ok && !b.Empty() {
			return f, true
		}
	}
	return 0, false
}

// battleCandidate picks the first enemy faction in r, in canonical faction
// order, whose Hidden pieces the Germanic Hidden Warbands outnumber and on
// which an Ambush would inflict at least one loss (spec §4.7 step 4).
func battleCandidate(s *state.State, r catalog.Region) (catalog.Faction, bool) {
	germanHidden := pieces.CountByState(s, r, catalog.Germans, catalog.Warband, catalog.Hidden)
	if germanHidden == 0 {
		return 0, false
	}
	for _, f := range catalog.AllFactions() {
		if f == catalog.Germans {
			continue
		}
		enemyHidden := pieces.CountByState(s, r, f, catalog.Warband, catalog.Hidden) +
			pieces.CountByState(s, r, f, catalog.Auxilia, catalog.Hidden)
		if germanHidden <= enemyHidden {
			continue
		}
		if !hasAnyPieces(s, r, f) {
			continue
		}
		strength := 0.5 * float64(pieces.Count(s, r, catalog.Germans, catalog.Warband))
		if _, ok := pieces.LeaderInRegion(s, r, catalog.Germans); ok {
			strength++
		}
		if pieces.Count(s, r, f, catalog.Citadel) > 0 || pieces.Count(s, r, f, catalog.Fort) > 0 {
			strength /= 2
		}
		if int(strength) < 1 {
			continue // the Ambush would inflict no loss
		}
		return f, true
	}
	return 0, false
}

func hasAnyPieces(s *state.State, r catalog.Region, f catalog.Faction) bool {
	b, ok := s.Region(r).Pieces[f]
	return ok && !b.Empty()
}

// ArverniPhase runs the Ariovistus-only Arverni Phase (spec §4.7): if
// At-War, pick a target, then Rally, March (skipped under Frost), Raid,
// and Battle with Ambush, mirroring GermansPhase's mechanical shape with
// Arverni in the Germans role.
func ArverniPhase(s *state.State, frost bool) error {
	if !s.AtWar {
		return nil
	}
	target, ok := pickArverniTarget(s)
	if !ok {
		return nil
	}

	for _, home := range []catalog.Region{catalog.Arverni_} {
		n := pieces.Available(s, catalog.Arverni, catalog.Warband)
		if n > 2 {
			n = 2
		}
		if n > 0 {
			_, _ = commands.Rally(s, catalog.Arverni, []commands.RegionPlacement{{Region: home, Warbands: n}})
		}
	}

	if !frost {
		for _, e := range catalog.Adjacent(catalog.Arverni_) {
			if control.Of(s, e.B) == target {
				group := commands.MarchGroup{
					Warbands:     pieces.CountByState(s, catalog.Arverni_, catalog.Arverni, catalog.Warband, catalog.Hidden),
					WarbandState: catalog.Hidden,
				}
				if group.Warbands > 0 {
					_, _ = commands.March(s, catalog.Arverni, catalog.Arverni_, group,
						[]commands.MarchStep{{Region: e.B}}, commands.MarchOpts{})
				}
				break
			}
		}
	}

	for _, r := range catalog.PlayableRegions() {
		hidden := pieces.CountByState(s, r, catalog.Arverni, catalog.Warband, catalog.Hidden)
		if hidden == 0 {
			continue
		}
		choices := make([]commands.RaidChoice, hidden)
		if enemy, ok := anyEnemyPresent(s, r, catalog.Arverni); ok {
			for i := range choices {
				choices[i] = commands.RaidChoice{StealFrom: &enemy}
			}
		}
		_, _ = commands.Raid(s, catalog.Arverni, r, hidden, choices)
	}

	for _, r := range catalog.PlayableRegions() {
		arverniHidden := pieces.CountByState(s, r, catalog.Arverni, catalog.Warband, catalog.Hidden)
		if arverniHidden == 0 {
			continue
		}
		enemy, ok := anyEnemyPresent(s, r, catalog.Arverni)
		if !ok {
			continue
		}
		_, _ = battle.Resolve(s, battle.Params{Region: r, Attacker: catalog.Arverni, Defender: enemy, IsAmbush: true})
	}

	control.RefreshAll(s)
	return nil
}

// pickArverniTarget scores candidates by victory margin and enemy home
// proximity (spec §4.7, A6.2), tie-broken by RNG. This engine uses each
// candidate's Victory margin directly as its score (higher margin = more
// threatening = higher priority), since the "home proximity" weighting
// the table applies is scenario-specific flavor not given numerically in
// the spec.
func pickArverniTarget(s *state.State) (catalog.Faction, bool) {
	scores := victory.ScoreAll(s)
	var candidates []catalog.Faction
	best := 0
	for _, f := range catalog.SoPFactions(s.Scenario) {
		if f == catalog.Arverni {
			continue
		}
		m := scores[f].Margin
		if len(candidates) == 0 || m > best {
			best = m
			candidates = []catalog.Faction{f}
		} else if m == best {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[s.RNG.Pick(len(candidates))], true
}
