package battle

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/state"
)

// defaultLossPriority absorbs soft (non-hard-target) pieces first, hard
// targets last, with Allies/Forts/Citadels absorbed only once every
// mobile piece is gone (spec §4.2.3 language, §4.5 Loss resolution §2).
var defaultLossPriority = []catalog.PieceKind{
	catalog.Auxilia, catalog.Warband,
	catalog.Leader, catalog.Legion,
	catalog.Ally, catalog.Fort, catalog.Citadel, catalog.Settlement,
}

// resolveLosses implements the Loss resolution contract (spec §4.5): try
// each loss one at a time against priority (falling back to
// defaultLossPriority), rolling for hard targets unless suppressed.
func resolveLosses(s *state.State, region catalog.Region, f catalog.Faction, count int, suppressRolls bool, priority []catalog.PieceKind) ([]catalog.PieceKind, error) {
	if count <= 0 {
		return nil, nil
	}
	order := priority
	if len(order) == 0 {
		order = defaultLossPriority
	}
	leaderID, hasLeader := pieces.LeaderInRegion(s, region, f)

	var removed []catalog.PieceKind
	for i := 0; i < count; i++ {
		kind, st, ok := nextAbsorber(s, region, f, order)
		if !ok {
			break // nothing left to absorb
		}
		if !kind.HardTarget() {
			if err := remove(s, region, f, kind, st); err != nil {
				return removed, err
			}
			removed = append(removed, kind)
			continue
		}
		if suppressRolls {
			if err := removeHardTarget(s, region, f, kind, order); err != nil {
				return removed, err
			}
			removed = append(removed, kind)
			continue
		}
		roll := s.RNG.D6()
		threshold := absorbThreshold(leaderID, hasLeader)
		if roll <= threshold {
			if err := removeHardTarget(s, region, f, kind, order); err != nil {
				return removed, err
			}
			removed = append(removed, kind)
			continue
		}
		// Owner must pick a non-hard piece to absorb instead; if none
		// remain, the hard piece falls anyway.
		altKind, altState, found := nextSoftAbsorber(s, region, f)
		if found {
			if err := remove(s, region, f, altKind, altState); err != nil {
				return removed, err
			}
			removed = append(removed, altKind)
		} else {
			if err := removeHardTarget(s, region, f, kind, order); err != nil {
				return removed, err
			}
			removed = append(removed, kind)
		}
	}
	return removed, nil
}

// nextAbsorber finds the highest-priority piece kind still present,
// preferring Revealed over Hidden over Scouted for flippables.
func nextAbsorber(s *state.State, region catalog.Region, f catalog.Faction, order []catalog.PieceKind) (catalog.PieceKind, catalog.PieceState, bool) {
	for _, kind := range order {
		if kind == catalog.Auxilia || kind == catalog.Warband {
			for _, st := range [3]catalog.PieceState{catalog.Revealed, catalog.Hidden, catalog.Scouted} {
				if pieces.CountByState(s, region, f, kind, st) > 0 {
					return kind, st, true
				}
			}
			continue
		}
		if pieces.Count(s, region, f, kind) > 0 {
			return kind, catalog.Hidden, true
		}
	}
	return 0, 0, false
}

func nextSoftAbsorber(s *state.State, region catalog.Region, f catalog.Faction) (catalog.PieceKind, catalog.PieceState, bool) {
	return nextAbsorber(s, region, f, []catalog.PieceKind{catalog.Auxilia, catalog.Warband})
}

func remove(s *state.State, region catalog.Region, f catalog.Faction, kind catalog.PieceKind, st catalog.PieceState) error {
	opts := pieces.RemoveOpts{State: st}
	if kind == catalog.Legion {
		opts.ToFallen = true
	}
	err := pieces.Remove(s, region, f, kind, 1, opts)
	if gameerr.Is(err, gameerr.PermanentFortProtection) {
		// The loss is redirected to the next priority piece (spec §4.5
		// Invariants: "the loss is redirected to the next priority piece").
		return removeExcluding(s, region, f, catalog.Fort)
	}
	return err
}

func removeHardTarget(s *state.State, region catalog.Region, f catalog.Faction, kind catalog.PieceKind, order []catalog.PieceKind) error {
	opts := pieces.RemoveOpts{}
	if kind == catalog.Legion {
		opts.ToFallen = true
	}
	err := pieces.Remove(s, region, f, kind, 1, opts)
	if gameerr.Is(err, gameerr.PermanentFortProtection) {
		return removeExcluding(s, region, f, catalog.Fort)
	}
	return err
}

// removeExcluding absorbs one loss with the next-priority piece other than
// excluded, used when excluded's removal was refused by a permanent
// protection (only ever the Provincia Fort, spec §4.5 Invariants).
func removeExcluding(s *state.State, region catalog.Region, f catalog.Faction, excluded catalog.PieceKind) error {
	var order []catalog.PieceKind
	for _, k := range defaultLossPriority {
		if k != excluded {
			order = append(order, k)
		}
	}
	next, st, found := nextAbsorber(s, region, f, order)
	if !found {
		return nil
	}
	if !next.HardTarget() {
		return remove(s, region, f, next, st)
	}
	return removeHardTarget(s, region, f, next, order)
}
