package pieces

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/state"
)

// Remove takes count pieces of kind for faction out of region, routing
// them to one of the four off-map pools. Legions default to Fallen when
// no routing flag is set. Diviciacus removal must set opts.ToRemoved;
// Diviciacus can never return to Available. Fails with NotPresent,
// PermanentFortProtection, or UnknownPieceKind (spec §4.1).
func Remove(s *state.State, region catalog.Region, f catalog.Faction, kind catalog.PieceKind, count int, opts RemoveOpts) error {
	if count <= 0 {
		return nil
	}
	cell := s.Region(region)
	bucket, ok := cell.Pieces[f]
	if !ok {
		return gameerr.Newf(gameerr.NotPresent, "%s has no pieces in %s", f, region)
	}

	switch kind {
	case catalog.Leader:
		if bucket.Leader == nil {
			return gameerr.Newf(gameerr.NotPresent, "%s has no Leader in %s", f, region)
		}
		id := *bucket.Leader
		if id == catalog.Diviciacus && opts.ToRemoved {
			bucket.Leader = nil
			s.DiviciacusRemoved = true
			return nil
		}
		bucket.Leader = nil
		s.Available[f][catalog.Leader]++
		return nil

	case catalog.Legion:
		if bucket.Legions < count {
			return gameerr.Newf(gameerr.NotPresent, "%s has %d Legions in %s, need %d", f, bucket.Legions, region, count)
		}
		bucket.Legions -= count
		switch {
		case opts.ToAvailable:
			return gameerr.New(gameerr.UnknownPieceKind, "Legions never route to Available")
		case opts.ToTrack:
			rowCap := catalog.LegionsTrackRowCap(s.Scenario)
			if err := addToTrack(s, count, rowCap); err != nil {
				bucket.Legions += count
				return err
			}
		default:
			s.FallenLegions += count
		}
		return nil

	case catalog.Fort:
		if region == catalog.Provincia && f == catalog.Romans && bucket.Forts-count < 1 {
			return gameerr.New(gameerr.PermanentFortProtection, "Provincia's permanent Fort cannot be removed")
		}
		if bucket.Forts < count {
			return gameerr.Newf(gameerr.NotPresent, "%s has %d Forts in %s, need %d", f, bucket.Forts, region, count)
		}
		bucket.Forts -= count
		s.Available[f][catalog.Fort] += count
		return nil

	case catalog.Ally:
		if bucket.Allies < count {
			return gameerr.Newf(gameerr.NotPresent, "%s has %d Allies in %s, need %d", f, bucket.Allies, region, count)
		}
		bucket.Allies -= count
		s.Available[f][catalog.Ally] += count
		return nil

	case catalog.Citadel:
		if bucket.Citadels < count {
			return gameerr.Newf(gameerr.NotPresent, "%s has %d Citadels in %s, need %d", f, bucket.Citadels, region, count)
		}
		bucket.Citadels -= count
		s.Available[f][catalog.Citadel] += count
		return nil

	case catalog.Settlement:
		if bucket.Settlements < count {
			return gameerr.Newf(gameerr.NotPresent, "%s has %d Settlements in %s, need %d", f, bucket.Settlements, region, count)
		}
		bucket.Settlements -= count
		s.Available[f][catalog.Settlement] += count
		return nil

	case catalog.Auxilia, catalog.Warband:
		have := bucket.ByState[opts.State].Get(kind)
		if have < count {
			return gameerr.Newf(gameerr.NotPresent, "%s has %d %s %s in %s, need %d", f, have, opts.State, kind, region, count)
		}
		bucket.ByState[opts.State].Add(kind, -count)
		s.Available[f][kind] += count
		return nil

	default:
		return gameerr.Newf(gameerr.UnknownPieceKind, "%v", kind)
	}
}
