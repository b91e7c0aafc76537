package pieces

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/state"
)

// Flip transitions count flippable pieces from one state to another.
// Scouted -> Hidden is reinterpreted as Scouted -> Revealed: the Scouted
// marker is stripped rather than the piece being re-hidden (spec §4.1).
func Flip(s *state.State, region catalog.Region, f catalog.Faction, kind catalog.PieceKind, count int, from, to catalog.PieceState) error {
	if !kind.Flippable() {
		return gameerr.Newf(gameerr.UnknownPieceKind, "%v is not flippable", kind)
	}
	if count <= 0 {
		return nil
	}
	if from == catalog.Scouted && to == catalog.Hidden {
		to = catalog.Revealed
	}
	bucket, ok := s.Region(region).Pieces[f]
	if !ok {
		return gameerr.Newf(gameerr.NotPresent, "%s has no pieces in %s", f, region)
	}
	have := bucket.ByState[from].Get(kind)
	if have < count {
		return gameerr.Newf(gameerr.NotPresent, "%s has %d %s %s in %s, need %d", f, have, from, kind, region, count)
	}
	bucket.ByState[from].Add(kind, -count)
	bucket.ByState[to].Add(kind, count)
	return nil
}
