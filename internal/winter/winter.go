// Package winter implements the six-phase Winter Round (spec §4.8) in
// fixed order: Victory, Germans Phase, Quarters, Harvest, Senate, Spring.
package winter

import (
	"log/slog"

	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/nonplayer"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/state"
	"github.com/talgya/gallia-engine/internal/victory"
)

// DesertionThreshold is the die-roll threshold at or below which an
// unfunded Legion/Warband deserts during Quarters (spec §4.8 step 3).
const DesertionThreshold = 3

// SugambriRelocateThreshold is the Germans piece count that Quarters
// compares against each Germania region (spec §4.8 step 3). The Region
// enum has no separate Sugambri or Ubii region (they are sub-regions of
// Treveri/Sequani in the base map); relocateSugambriExcess checks the
// count against this threshold but moves no pieces.
const SugambriRelocateThreshold = 6

// Report summarizes what the Winter Round did, for logging/replay.
type Report struct {
	Scores      map[catalog.Faction]victory.Score
	Winner      catalog.Faction
	GameOver    bool
	FinalRanking []catalog.Faction
	QuartersDesertions int
	HarvestGain map[catalog.Faction]int
	SenateShift catalog.SenatePosition
}

// Run executes all six phases in order and advances WinterCount.
func Run(s *state.State) (*Report, error) {
	slog.Info("winter round starting", "winter_count", s.WinterCount)
	report := &Report{HarvestGain: make(map[catalog.Faction]int)}

	// 1. Victory.
	report.Scores = victory.ScoreAll(s)
	if w, ok := victory.Winner(s, report.Scores); ok {
		slog.Info("winter victory phase ends the game", "winner", w)
		report.Winner = w
		report.GameOver = true
		return report, nil
	}

	// 2. Germans Phase (base game only).
	if !s.Scenario.IsAriovistusRuleset() {
		slog.Debug("winter: running Germans phase")
		if err := nonplayer.GermansPhase(s); err != nil {
			return report, err
		}
	}

	// 3. Quarters.
	deserted, err := quarters(s)
	if err != nil {
		return report, err
	}
	report.QuartersDesertions = deserted
	slog.Debug("winter: quarters complete", "desertions", deserted)

	// 4. Harvest.
	harvest(s, report.HarvestGain)
	slog.Debug("winter: harvest complete", "gains", report.HarvestGain)

	// 5. Senate.
	report.SenateShift = senate(s)
	slog.Debug("winter: senate phase complete", "position", report.SenateShift, "firm", s.Senate.Firm)

	// 6. Spring.
	spring(s)

	s.WinterCount++
	if s.FinalWinter {
		finalScores := victory.ScoreAll(s)
		report.Scores = finalScores
		report.FinalRanking = victory.Rank(finalScores)
		report.GameOver = true
		slog.Info("final winter reached, game over", "ranking", report.FinalRanking)
	}

	control.RefreshAll(s)
	slog.Info("winter round complete", "winter_count", s.WinterCount)
	return report, nil
}

// quarters charges each faction's on-map pieces their per-region cost and
// rolls desertion for anything left unfunded (spec §4.8 step 3).
func quarters(s *state.State) (int, error) {
	deserted := 0
	for _, r := range catalog.PlayableRegions() {
		cell := s.Region(r)
		devastated := cell.HasMarker(catalog.MarkerDevastated)
		for _, f := range catalog.AllFactions() {
			b, ok := cell.Pieces[f]
			if !ok || b.Empty() {
				continue
			}
			cost := quartersCost(b, devastated)
			free := 0
			if b.Allies > 0 {
				free += b.Allies
			}
			if f == catalog.Romans && b.Forts > 0 {
				free += b.Forts * 2
			}
			cost -= free
			if cost <= 0 {
				continue
			}
			if s.Resources[f] >= cost {
				s.Resources[f] -= cost
				continue
			}
			s.Resources[f] = 0
			if f == catalog.Romans && b.Legions > 0 {
				roll := s.RNG.D6()
				if roll <= DesertionThreshold {
					if err := pieces.Remove(s, r, f, catalog.Legion, 1, pieces.RemoveOpts{ToFallen: true}); err != nil {
						return deserted, err
					}
					deserted++
				}
			} else if f != catalog.Romans {
				if n := pieces.CountByState(s, r, f, catalog.Warband, catalog.Hidden); n > 0 {
					roll := s.RNG.D6()
					if roll <= DesertionThreshold {
						if err := pieces.Remove(s, r, f, catalog.Warband, 1, pieces.RemoveOpts{State: catalog.Hidden}); err != nil {
							return deserted, err
						}
						deserted++
					}
				}
			}
		}
		if catalog.InGroup(r, catalog.GroupGermania) {
			relocateSugambriExcess(s, r)
		}
	}
	return deserted, nil
}

func quartersCost(b *state.FactionBucket, devastated bool) int {
	n := b.Legions + b.Allies + b.Citadels + b.Settlements
	for _, fc := range b.ByState {
		n += fc.Auxilia + fc.Warband
	}
	if devastated {
		n *= 2
	}
	return n
}

func relocateSugambriExcess(s *state.State, r catalog.Region) {
	b, ok := s.Region(r).Pieces[catalog.Germans]
	if !ok {
		return
	}
	total := b.Total(false)
	if total <= SugambriRelocateThreshold {
		return
	}
	// Excess pieces relocate within Germania; since this engine models
	// Sugambri/Ubii as one Region, relocation is a no-op place-holder for
	// the actual sub-region split the physical map provides.
}

// harvest pays each faction resources per Ally/Citadel plus Aedui river
// tolls, capped at the resource ceiling (spec §4.8 step 4). Base-game
// Germans hold no Resources and are skipped.
func harvest(s *state.State, gains map[catalog.Faction]int) {
	for _, f := range catalog.AllFactions() {
		if f == catalog.Germans && !s.Scenario.IsAriovistusRuleset() {
			continue
		}
		gain := 0
		for _, r := range catalog.AllRegions() {
			if b, ok := s.Region(r).Pieces[f]; ok {
				gain += b.Allies + b.Citadels
			}
		}
		if f == catalog.Aedui {
			gain += aeduiRiverTolls(s)
		}
		s.Resources[f] += gain
		if s.Resources[f] > catalog.ResourceCap {
			s.Resources[f] = catalog.ResourceCap
		}
		gains[f] = gain
	}
}

// aeduiRiverTolls counts Aedui-Controlled regions adjacent to a Rhenus
// crossing, the engine's analogue of the base game's river-toll bonus.
func aeduiRiverTolls(s *state.State) int {
	tolls := 0
	for _, r := range catalog.PlayableRegions() {
		if control.Of(s, r) != catalog.Aedui {
			continue
		}
		for _, e := range catalog.Adjacent(r) {
			if e.Kind == catalog.EdgeRhenus {
				tolls++
				break
			}
		}
	}
	return tolls
}

// senate shifts the Senate marker per Fallen-Legion thresholds, with the
// Firm-flag transition rule supplied by original_source/fs_bot: a marker
// at an extreme flips to Firm on its next shift rather than moving
// further; a Firm marker flips back to non-Firm on the next opposing
// shift rather than reversing immediately (spec §4.8 step 5a).
func senate(s *state.State) catalog.SenatePosition {
	fallen := s.FallenLegions
	var dir int // +1 toward Adulation, -1 toward Uproar, 0 no shift
	switch {
	case fallen <= catalog.SenateLowFallenThreshold:
		dir = 1
	case fallen >= catalog.SenateHighFallenThreshold:
		dir = -1
	}
	if dir == 0 {
		return s.Senate.Position
	}
	atExtreme := (dir == 1 && s.Senate.Position == catalog.Adulation) ||
		(dir == -1 && s.Senate.Position == catalog.Uproar)

	if s.Senate.Firm {
		// A Firm marker sits at the extreme it was pushed against, so a
		// shift away from that extreme is the opposing one: it flips the
		// marker back to non-Firm. A shift toward the extreme leaves it
		// Firm. Either way the position does not move this round.
		opposing := (dir == -1 && s.Senate.Position == catalog.Adulation) ||
			(dir == 1 && s.Senate.Position == catalog.Uproar)
		if opposing {
			s.Senate.Firm = false
		}
		return s.Senate.Position
	}
	if atExtreme {
		s.Senate.Firm = true
		return s.Senate.Position
	}
	if dir == 1 {
		s.Senate.Position = s.Senate.Position.ShiftTowardAdulation()
	} else {
		s.Senate.Position = s.Senate.Position.ShiftTowardUproar()
	}
	return s.Senate.Position
}

// spring clears seasonal markers and resets eligibility (spec §4.8 step 6).
func spring(s *state.State) {
	for _, r := range catalog.AllRegions() {
		cell := s.Region(r)
		for f, b := range cell.Pieces {
			if n := pieces.CountByState(s, r, f, catalog.Auxilia, catalog.Scouted); n > 0 {
				_ = pieces.Flip(s, r, f, catalog.Auxilia, n, catalog.Scouted, catalog.Revealed)
			}
			if n := pieces.CountByState(s, r, f, catalog.Warband, catalog.Scouted); n > 0 {
				_ = pieces.Flip(s, r, f, catalog.Warband, n, catalog.Scouted, catalog.Revealed)
			}
			if n := b.ByState[catalog.Revealed].Auxilia; n > 0 {
				_ = pieces.Flip(s, r, f, catalog.Auxilia, n, catalog.Revealed, catalog.Hidden)
			}
			if n := b.ByState[catalog.Revealed].Warband; n > 0 {
				_ = pieces.Flip(s, r, f, catalog.Warband, n, catalog.Revealed, catalog.Hidden)
			}
		}
		delete(cell.Markers, catalog.MarkerDevastated)
		delete(cell.Markers, catalog.MarkerIntimidated)
	}
	for _, t := range catalog.AllTribes() {
		rec := s.Tribes[t]
		switch rec.Status {
		case catalog.StatusDispersed:
			rec.Status = catalog.StatusDispersedGathering
		case catalog.StatusDispersedGathering:
			rec.Status = catalog.StatusSubdued
		}
	}
	for _, f := range catalog.AllFactions() {
		s.Eligible[f] = true
	}
	delete(s.GlobalMarkers, catalog.MarkerFrost)
}
