package pieces

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/state"
)

// Move atomically transfers count pieces of kind for faction from src to
// dst without touching Available. Leaders carry identity; flippables
// carry opts.State; Legions move as Legions (spec §4.1).
func Move(s *state.State, src, dst catalog.Region, f catalog.Faction, kind catalog.PieceKind, count int, opts MoveOpts) error {
	if count <= 0 {
		return nil
	}
	if src == dst {
		return nil
	}
	srcCell := s.Region(src)
	srcBucket, ok := srcCell.Pieces[f]
	if !ok {
		return gameerr.Newf(gameerr.NotPresent, "%s has no pieces in %s", f, src)
	}
	dstBucket := s.Region(dst).Bucket(f)

	switch kind {
	case catalog.Leader:
		if srcBucket.Leader == nil {
			return gameerr.Newf(gameerr.NotPresent, "%s has no Leader in %s", f, src)
		}
		if dstBucket.Leader != nil {
			return gameerr.Newf(gameerr.StackingViolation, "%s already has %s's Leader in %s", dst, f, dst)
		}
		id := *srcBucket.Leader
		srcBucket.Leader = nil
		dstBucket.Leader = &id

	case catalog.Legion:
		if srcBucket.Legions < count {
			return gameerr.Newf(gameerr.NotPresent, "%s has %d Legions in %s, need %d", f, srcBucket.Legions, src, count)
		}
		srcBucket.Legions -= count
		dstBucket.Legions += count

	case catalog.Fort:
		if fortCount(s.Region(dst)) > 0 {
			return gameerr.Newf(gameerr.StackingViolation, "region %s already has a Fort", dst)
		}
		if srcBucket.Forts < count {
			return gameerr.Newf(gameerr.NotPresent, "%s has %d Forts in %s", f, srcBucket.Forts, src)
		}
		srcBucket.Forts -= count
		dstBucket.Forts += count

	case catalog.Ally:
		if srcBucket.Allies < count {
			return gameerr.Newf(gameerr.NotPresent, "%s has %d Allies in %s", f, srcBucket.Allies, src)
		}
		srcBucket.Allies -= count
		dstBucket.Allies += count

	case catalog.Citadel:
		if srcBucket.Citadels < count {
			return gameerr.Newf(gameerr.NotPresent, "%s has %d Citadels in %s", f, srcBucket.Citadels, src)
		}
		srcBucket.Citadels -= count
		dstBucket.Citadels += count

	case catalog.Settlement:
		if settlementCount(s.Region(dst)) > 0 {
			return gameerr.Newf(gameerr.StackingViolation, "region %s already has a Settlement", dst)
		}
		if srcBucket.Settlements < count {
			return gameerr.Newf(gameerr.NotPresent, "%s has %d Settlements in %s", f, srcBucket.Settlements, src)
		}
		srcBucket.Settlements -= count
		dstBucket.Settlements += count

	case catalog.Auxilia, catalog.Warband:
		have := srcBucket.ByState[opts.State].Get(kind)
		if have < count {
			return gameerr.Newf(gameerr.NotPresent, "%s has %d %s %s in %s, need %d", f, have, opts.State, kind, src, count)
		}
		srcBucket.ByState[opts.State].Add(kind, -count)
		dstBucket.ByState[opts.State].Add(kind, count)

	default:
		return gameerr.Newf(gameerr.UnknownPieceKind, "%v", kind)
	}
	return nil
}
