package state

import (
	"fmt"

	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/gameerr"
)

// Validate checks every conservation invariant (spec §3, Invariants 1-8)
// and returns every violation found. An empty slice means the state is
// sound. Callers that treat any violation as fatal should wrap the
// result in gameerr.InvariantViolation, per spec §7's propagation policy.
func (s *State) Validate() []error {
	var errs []error
	errs = append(errs, s.checkPieceConservation()...)
	errs = append(errs, s.checkLeaderUniqueness()...)
	errs = append(errs, s.checkStacking()...)
	errs = append(errs, s.checkTribeCoherence()...)
	errs = append(errs, s.checkResourceCap()...)
	errs = append(errs, s.checkControlDerived()...)
	errs = append(errs, s.checkScenarioFactionSet()...)
	errs = append(errs, s.checkDispersedBudget()...)
	return errs
}

// checkPieceConservation verifies invariant 1: for every (faction, kind)
// other than Legion, on-map + Available == cap; for Legion, on-map +
// on-track + Fallen + Removed == cap.
func (s *State) checkPieceConservation() []error {
	var errs []error
	legionsOnMap := 0
	for _, f := range catalog.AllFactions() {
		onMap := map[catalog.PieceKind]int{}
		for _, r := range catalog.AllRegions() {
			b, ok := s.Regions[r].Pieces[f]
			if !ok {
				continue
			}
			if b.Leader != nil {
				onMap[catalog.Leader]++
			}
			onMap[catalog.Legion] += b.Legions
			onMap[catalog.Fort] += b.Forts
			onMap[catalog.Ally] += b.Allies
			onMap[catalog.Citadel] += b.Citadels
			onMap[catalog.Settlement] += b.Settlements
			for _, fc := range b.ByState {
				onMap[catalog.Auxilia] += fc.Auxilia
				onMap[catalog.Warband] += fc.Warband
			}
		}
		legionsOnMap += onMap[catalog.Legion]

		for k := catalog.Leader; k <= catalog.Settlement; k++ {
			if k == catalog.Legion {
				// Legions are a single pool shared across every faction's
				// on-map holdings (in practice only Romans, or Germans
				// under Ariovistus, ever hold any); checked once below,
				// not per faction, since the track/Fallen/Removed pools
				// are global rather than per-faction.
				continue
			}
			cap := catalog.Cap(s.Scenario, f, k)
			if cap == 0 && onMap[k] == 0 && s.Available[f][k] == 0 {
				continue
			}
			if k == catalog.Leader {
				// Leader uniqueness is checked separately (invariant 2);
				// Available for Leader is 0 or 1, never a conserved pool
				// in the same sense as stacked pieces.
				continue
			}
			total := onMap[k] + s.Available[f][k]
			if total != cap {
				errs = append(errs, gameerr.Newf(gameerr.InvariantViolation,
					"%s %s: on-map %d + available %d = %d, want cap %d",
					f, k, onMap[k], s.Available[f][k], total, cap))
			}
		}
	}

	legionCap := catalog.LegionCap(s.Scenario)
	legionTotal := legionsOnMap + s.LegionsTrack.Total() + s.FallenLegions + s.RemovedLegions
	if legionTotal != legionCap {
		errs = append(errs, gameerr.Newf(gameerr.InvariantViolation,
			"Legions: on-map %d + track %d + fallen %d + removed %d = %d, want cap %d",
			legionsOnMap, s.LegionsTrack.Total(), s.FallenLegions, s.RemovedLegions, legionTotal, legionCap))
	}
	return errs
}

// checkLeaderUniqueness verifies invariant 2: each leader disc exists in
// exactly one place (a region's faction bucket, Available, or Removed),
// and at most one of a faction's discs sits on the map at a time.
// Available[f][Leader] is one shared counter across every disc a faction
// owns (Place's Leader case decrements it regardless of which disc is
// placed), so the reconciliation is done per faction against that
// faction's total disc count (catalog.leaderDiscCount), not per disc
// against a hardcoded 1.
func (s *State) checkLeaderUniqueness() []error {
	var errs []error
	leaders := []catalog.LeaderID{
		catalog.Caesar, catalog.Vercingetorix, catalog.Ambiorix,
		catalog.Ariovistus_, catalog.Diviciacus, catalog.Boduognatus,
		catalog.SuccessorRomans, catalog.SuccessorArverni, catalog.SuccessorAedui,
		catalog.SuccessorBelgae, catalog.SuccessorGermans,
	}

	discsByFaction := map[catalog.Faction][]catalog.LeaderID{}
	for _, l := range leaders {
		discsByFaction[l.Owner()] = append(discsByFaction[l.Owner()], l)
	}

	for _, f := range catalog.AllFactions() {
		discs := discsByFaction[f]
		onMap := 0
		removed := 0
		for _, l := range discs {
			seen := 0
			for _, r := range catalog.AllRegions() {
				b, ok := s.Regions[r].Pieces[f]
				if ok && b.Leader != nil && *b.Leader == l {
					seen++
				}
			}
			if seen > 1 {
				errs = append(errs, gameerr.Newf(gameerr.InvariantViolation,
					"leader %s appears in %d regions", l, seen))
			}
			onMap += seen
			if l == catalog.Diviciacus && s.DiviciacusRemoved {
				removed++
			}
		}
		if onMap > 1 {
			errs = append(errs, gameerr.Newf(gameerr.InvariantViolation,
				"%s has %d Leader discs on the map at once, want at most 1", f, onMap))
		}
		wantAvailable := len(discs) - onMap - removed
		if got := s.Available[f][catalog.Leader]; got != wantAvailable {
			errs = append(errs, gameerr.Newf(gameerr.InvariantViolation,
				"%s Leader discs: on-map %d + available %d + removed %d = %d, want %d total",
				f, onMap, got, removed, onMap+got+removed, len(discs)))
		}
	}
	return errs
}

// checkStacking verifies invariant 3: at most 1 Fort and 1 Settlement per
// region, and Provincia's permanent Fort can never reach zero.
func (s *State) checkStacking() []error {
	var errs []error
	for _, r := range catalog.AllRegions() {
		forts, setts := 0, 0
		for _, b := range s.Regions[r].Pieces {
			forts += b.Forts
			setts += b.Settlements
		}
		if forts > 1 {
			errs = append(errs, gameerr.Newf(gameerr.InvariantViolation, "region %s has %d Forts, max 1", r, forts))
		}
		if setts > 1 {
			errs = append(errs, gameerr.Newf(gameerr.InvariantViolation, "region %s has %d Settlements, max 1", r, setts))
		}
	}
	if b, ok := s.Regions[catalog.Provincia].Pieces[catalog.Romans]; !ok || b.Forts < 1 {
		errs = append(errs, gameerr.New(gameerr.InvariantViolation, "Provincia's permanent Fort is missing"))
	}
	return errs
}

// checkTribeCoherence verifies invariant 4 in one direction: every tribe
// whose allied-faction is set must have exactly one Ally of that faction
// in its region.
func (s *State) checkTribeCoherence() []error {
	var errs []error
	for _, t := range catalog.AllTribes() {
		rec := s.Tribes[t]
		if rec.AlliedFaction == nil {
			continue
		}
		cell := s.Regions[t.Region()]
		b, ok := cell.Pieces[*rec.AlliedFaction]
		if !ok || b.Allies != 1 {
			errs = append(errs, gameerr.Newf(gameerr.InvariantViolation,
				"tribe %v claims Ally of %s but region %s does not hold exactly one", t, *rec.AlliedFaction, t.Region()))
		}
	}
	return errs
}

// checkResourceCap verifies invariant 5.
func (s *State) checkResourceCap() []error {
	var errs []error
	for _, f := range catalog.AllFactions() {
		r := s.Resources[f]
		if r < 0 || r > catalog.ResourceCap {
			errs = append(errs, gameerr.Newf(gameerr.InvariantViolation, "%s resources %d out of [0,%d]", f, r, catalog.ResourceCap))
		}
	}
	return errs
}

// checkControlDerived verifies invariant 6 by recomputing control and
// comparing. The algorithm is deriveControl (control_calc.go), which
// internal/control reaches through DeriveControl; this check only
// asserts that the stored tag matches a freshly derived one, to catch
// any code path that mutated pieces without calling refresh.
func (s *State) checkControlDerived() []error {
	var errs []error
	for _, r := range catalog.AllRegions() {
		want := deriveControl(s.Regions[r], s.Scenario)
		if s.Regions[r].Control != want {
			errs = append(errs, gameerr.Newf(gameerr.InvariantViolation,
				"region %s control tag is %s, derivation says %s", r, s.Regions[r].Control, want))
		}
	}
	return errs
}

// checkScenarioFactionSet verifies invariant 7.
func (s *State) checkScenarioFactionSet() []error {
	var errs []error
	if !s.Scenario.IsAriovistusRuleset() {
		if s.Resources[catalog.Germans] != 0 {
			errs = append(errs, gameerr.New(gameerr.InvariantViolation, "base-game Germans must not hold Resources"))
		}
	} else {
		for _, r := range catalog.AllRegions() {
			b, ok := s.Regions[r].Pieces[catalog.Arverni]
			if ok && b.Leader != nil {
				errs = append(errs, gameerr.Newf(gameerr.InvariantViolation,
					"Ariovistus Arverni has a Leader in %s, only the At-War indicator is allowed", r))
			}
		}
	}
	return errs
}

// checkDispersedBudget verifies invariant 8.
func (s *State) checkDispersedBudget() []error {
	count := 0
	for _, t := range s.Tribes {
		if t.Status == catalog.StatusDispersed || t.Status == catalog.StatusDispersedGathering {
			count++
		}
	}
	budget := catalog.DispersedMarkerBudget(s.Scenario)
	if count > budget {
		return []error{gameerr.Newf(gameerr.InvariantViolation, "%d Dispersed/Dispersed-Gathering markers exceeds budget %d", count, budget)}
	}
	return nil
}

// AssertSound panics-free fatal check: returns a single InvariantViolation
// error wrapping every violation found, or nil if the state is sound.
// Callers treat a non-nil result as poisoning the state (spec §7).
func (s *State) AssertSound() error {
	errs := s.Validate()
	if len(errs) == 0 {
		return nil
	}
	msg := fmt.Sprintf("%d invariant violation(s), first: %v", len(errs), errs[0])
	return gameerr.New(gameerr.InvariantViolation, msg)
}
