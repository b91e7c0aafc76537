// Package victory scores each faction (spec §4.9) and determines whether
// the game ends at a Winter Victory phase.
package victory

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/state"
)

// Thresholds (spec §4.9; Arverni's dual-condition A/B pair and Belgae's/
// Germans' CV thresholds are scenario constants the base rules fix at the
// values below).
const (
	RomanThreshold   = 13
	ArverniLegionsA  = 4
	ArverniAlliesB   = 6
	BelgicThreshold  = 20
	GermanThreshold  = 15
)

// Score is one faction's computed margin toward its own Victory
// condition. For Arverni's dual condition, Margin is the minimum of the
// two component margins (spec §4.9).
type Score struct {
	Faction catalog.Faction
	Value   int
	Margin  int
	Met     bool
}

// ScoreAll computes every in-play faction's score (spec §4.9).
func ScoreAll(s *state.State) map[catalog.Faction]Score {
	out := make(map[catalog.Faction]Score)
	for _, f := range catalog.SoPFactions(s.Scenario) {
		out[f] = scoreFaction(s, f)
	}
	return out
}

func scoreFaction(s *state.State, f catalog.Faction) Score {
	switch f {
	case catalog.Romans:
		return scoreRomans(s)
	case catalog.Arverni:
		return scoreArverni(s)
	case catalog.Aedui:
		return scoreAedui(s)
	case catalog.Belgae:
		return scoreBelgae(s)
	case catalog.Germans:
		return scoreGermans(s)
	default:
		return Score{Faction: f}
	}
}

func scoreRomans(s *state.State) Score {
	value := 0
	for _, t := range catalog.AllTribes() {
		switch s.Tribes[t].Status {
		case catalog.StatusDispersed, catalog.StatusDispersedGathering:
			value++
		}
	}
	for _, r := range catalog.AllRegions() {
		if b, ok := s.Region(r).Pieces[catalog.Romans]; ok {
			value += b.Allies
		}
	}
	for _, t := range catalog.AllTribes() {
		if s.Tribes[t].Status == catalog.StatusSubdued {
			value++
		}
	}
	if s.Scenario.IsAriovistusRuleset() {
		for _, r := range catalog.AllRegions() {
			if b, ok := s.Region(r).Pieces[catalog.Germans]; ok {
				value -= b.Settlements
			}
		}
	}
	margin := value - RomanThreshold
	return Score{Faction: catalog.Romans, Value: value, Margin: margin, Met: margin >= 0}
}

func scoreArverni(s *state.State) Score {
	legionsOff := s.FallenLegions + s.RemovedLegions + s.LegionsTrack.Total()
	allies := 0
	for _, r := range catalog.AllRegions() {
		if b, ok := s.Region(r).Pieces[catalog.Arverni]; ok {
			allies += b.Allies + b.Citadels
		}
	}
	marginA := legionsOff - ArverniLegionsA
	marginB := allies - ArverniAlliesB
	margin := marginA
	if marginB < margin {
		margin = marginB
	}
	return Score{Faction: catalog.Arverni, Value: legionsOff, Margin: margin, Met: marginA >= 0 && marginB >= 0}
}

func scoreAedui(s *state.State) Score {
	scores := map[catalog.Faction]int{}
	for _, f := range catalog.SoPFactions(s.Scenario) {
		if f == catalog.Aedui {
			continue
		}
		scores[f] = scoreFaction(s, f).Value
	}
	own := aeduiInfluence(s)
	best := -1
	for _, v := range scores {
		if v > best {
			best = v
		}
	}
	return Score{Faction: catalog.Aedui, Value: own, Margin: own - best, Met: own > best}
}

// aeduiInfluence is Aedui's own comparable value: Allies + Citadels +
// Subdued-tribe count in Aedui-Controlled regions, the closest analogue to
// the other factions' scoring bases (spec §4.9, "must exceed every other
// player's score individually" without naming Aedui's own formula).
func aeduiInfluence(s *state.State) int {
	value := 0
	for _, r := range catalog.AllRegions() {
		if b, ok := s.Region(r).Pieces[catalog.Aedui]; ok {
			value += b.Allies + b.Citadels
		}
	}
	for _, r := range catalog.PlayableRegions() {
		if control.Of(s, r) != catalog.Aedui {
			continue
		}
		for _, t := range catalog.TribesIn(r) {
			if s.Tribes[t].Status == catalog.StatusSubdued {
				value++
			}
		}
	}
	return value
}

func scoreBelgae(s *state.State) Score {
	value := 0
	for _, r := range catalog.PlayableRegions() {
		if control.Of(s, r) != catalog.Belgae {
			continue
		}
		value += catalog.ControlValue(r)
	}
	for _, r := range catalog.AllRegions() {
		if b, ok := s.Region(r).Pieces[catalog.Belgae]; ok {
			value += b.Allies + b.Citadels
		}
	}
	if s.HasGlobalMarker(catalog.MarkerColony) {
		value += 2
	}
	for _, t := range catalog.AllTribes() {
		if s.Tribes[t].Status == catalog.StatusDispersed || s.Tribes[t].Status == catalog.StatusDispersedGathering {
			value--
		}
	}
	margin := value - BelgicThreshold
	return Score{Faction: catalog.Belgae, Value: value, Margin: margin, Met: margin >= 0}
}

func scoreGermans(s *state.State) Score {
	value := 0
	for _, r := range catalog.AllRegions() {
		if b, ok := s.Region(r).Pieces[catalog.Germans]; ok {
			value += b.Settlements + b.Allies
		}
	}
	for _, r := range catalog.PlayableRegions() {
		if control.Of(s, r) == catalog.Germans {
			value += catalog.ControlValue(r)
		}
	}
	margin := value - GermanThreshold
	return Score{Faction: catalog.Germans, Value: value, Margin: margin, Met: margin >= 0}
}

// Winner applies the scenario's tie-break order to every faction whose
// condition is Met, returning the highest-priority one. Returns false if
// no faction met its condition.
func Winner(s *state.State, scores map[catalog.Faction]Score) (catalog.Faction, bool) {
	for _, f := range catalog.VictoryTieBreakOrder(s.Scenario) {
		if sc, ok := scores[f]; ok && sc.Met {
			return f, true
		}
	}
	return catalog.NoControl, false
}

// Rank orders every faction by margin descending, for the final-Winter
// ranking pass run even without a threshold-met winner (spec §4.8).
func Rank(scores map[catalog.Faction]Score) []catalog.Faction {
	order := catalog.CanonicalFactionOrder()
	ranked := make([]catalog.Faction, 0, len(order))
	for _, f := range order {
		if _, ok := scores[f]; ok {
			ranked = append(ranked, f)
		}
	}
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && scores[ranked[j]].Margin > scores[ranked[j-1]].Margin; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}
	return ranked
}
