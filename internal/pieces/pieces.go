package pieces

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/state"
)

// Place moves count pieces of kind from an off-map pool into region for
// faction. Flippables default to Hidden if opts.State is the zero value.
// Leaders require opts.LeaderID. Fails with NoAvailable, StackingViolation,
// or UnknownPieceKind (spec §4.1).
func Place(s *state.State, region catalog.Region, f catalog.Faction, kind catalog.PieceKind, count int, opts PlaceOpts) error {
	if count <= 0 {
		return nil
	}
	cell := s.Region(region)
	bucket := cell.Bucket(f)

	switch kind {
	case catalog.Leader:
		if count != 1 {
			return gameerr.New(gameerr.StackingViolation, "exactly one Leader may be placed at a time")
		}
		if opts.LeaderID == nil {
			return gameerr.New(gameerr.UnknownLeader, "Place Leader requires LeaderID")
		}
		if bucket.Leader != nil {
			return gameerr.Newf(gameerr.StackingViolation, "region %s already holds %s's Leader", region, f)
		}
		if s.Available[f][catalog.Leader] < 1 {
			return gameerr.Newf(gameerr.NoAvailable, "%s's Leader is not Available", f)
		}
		s.Available[f][catalog.Leader]--
		id := *opts.LeaderID
		bucket.Leader = &id
		return nil

	case catalog.Legion:
		if opts.FromFallen {
			if s.FallenLegions < count {
				return gameerr.Newf(gameerr.NoAvailable, "only %d Legions in Fallen, need %d", s.FallenLegions, count)
			}
			s.FallenLegions -= count
		} else {
			if err := removeFromTrack(s, count); err != nil {
				return err
			}
		}
		bucket.Legions += count
		return nil

	case catalog.Auxilia, catalog.Warband:
		if s.Available[f][kind] < count {
			return gameerr.Newf(gameerr.NoAvailable, "%s has %d %s Available, need %d", f, s.Available[f][kind], kind, count)
		}
		s.Available[f][kind] -= count
		st := opts.State // zero value is Hidden
		bucket.ByState[st].Add(kind, count)
		return nil

	case catalog.Fort:
		if fortCount(cell) > 0 {
			return gameerr.Newf(gameerr.StackingViolation, "region %s already has a Fort", region)
		}
		if s.Available[f][catalog.Fort] < count {
			return gameerr.Newf(gameerr.NoAvailable, "%s has %d Forts Available, need %d", f, s.Available[f][catalog.Fort], count)
		}
		s.Available[f][catalog.Fort] -= count
		bucket.Forts += count
		return nil

	case catalog.Settlement:
		if settlementCount(cell) > 0 {
			return gameerr.Newf(gameerr.StackingViolation, "region %s already has a Settlement", region)
		}
		if s.Available[f][catalog.Settlement] < count {
			return gameerr.Newf(gameerr.NoAvailable, "%s has %d Settlements Available, need %d", f, s.Available[f][catalog.Settlement], count)
		}
		s.Available[f][catalog.Settlement] -= count
		bucket.Settlements += count
		return nil

	case catalog.Ally, catalog.Citadel:
		avail := s.Available[f][kind]
		if avail < count {
			return gameerr.Newf(gameerr.NoAvailable, "%s has %d %s Available, need %d", f, avail, kind, count)
		}
		s.Available[f][kind] -= count
		if kind == catalog.Ally {
			bucket.Allies += count
		} else {
			bucket.Citadels += count
		}
		return nil

	default:
		return gameerr.Newf(gameerr.UnknownPieceKind, "%v", kind)
	}
}

func fortCount(cell *state.RegionCell) int {
	n := 0
	for _, b := range cell.Pieces {
		n += b.Forts
	}
	return n
}

func settlementCount(cell *state.RegionCell) int {
	n := 0
	for _, b := range cell.Pieces {
		n += b.Settlements
	}
	return n
}

// removeFromTrack takes count Legions off the Legions track, preferring
// the Top row, then Middle, then Bottom. The rules do not mandate a
// specific row order for Rally/Recruit placement; this is a deterministic
// implementation choice.
func removeFromTrack(s *state.State, count int) error {
	if s.LegionsTrack.Total() < count {
		return gameerr.Newf(gameerr.NoAvailable, "only %d Legions on the track, need %d", s.LegionsTrack.Total(), count)
	}
	remaining := count
	take := func(row *int) {
		if remaining == 0 {
			return
		}
		n := remaining
		if n > *row {
			n = *row
		}
		*row -= n
		remaining -= n
	}
	take(&s.LegionsTrack.Top)
	take(&s.LegionsTrack.Middle)
	take(&s.LegionsTrack.Bottom)
	return nil
}

// addToTrack returns count Legions to the track, filling the lowest rows
// first up to their row cap (the Senate phase's "fill lowest rows" rule,
// spec §4.8.5b, applies the same idiom on placement rather than return;
// this helper is used when a Legion is routed back to the track directly,
// e.g. by a card effect).
func addToTrack(s *state.State, count int, rowCap int) error {
	remaining := count
	fill := func(row *int) {
		if remaining == 0 {
			return
		}
		room := rowCap - *row
		if room <= 0 {
			return
		}
		n := remaining
		if n > room {
			n = room
		}
		*row += n
		remaining -= n
	}
	fill(&s.LegionsTrack.Bottom)
	fill(&s.LegionsTrack.Middle)
	fill(&s.LegionsTrack.Top)
	if remaining > 0 {
		return gameerr.Newf(gameerr.StackingViolation, "Legions track has no room for %d more Legions", remaining)
	}
	return nil
}
