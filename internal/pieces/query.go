package pieces

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/state"
)

// Count returns the total count of kind for faction in region, summed
// across all states for flippables.
func Count(s *state.State, region catalog.Region, f catalog.Faction, kind catalog.PieceKind) int {
	b, ok := s.Region(region).Pieces[f]
	if !ok {
		return 0
	}
	switch kind {
	case catalog.Leader:
		if b.Leader != nil {
			return 1
		}
		return 0
	case catalog.Legion:
		return b.Legions
	case catalog.Fort:
		return b.Forts
	case catalog.Ally:
		return b.Allies
	case catalog.Citadel:
		return b.Citadels
	case catalog.Settlement:
		return b.Settlements
	case catalog.Auxilia, catalog.Warband:
		total := 0
		for _, fc := range b.ByState {
			total += fc.Get(kind)
		}
		return total
	default:
		return 0
	}
}

// CountByState returns the count of a flippable kind in a specific state.
func CountByState(s *state.State, region catalog.Region, f catalog.Faction, kind catalog.PieceKind, st catalog.PieceState) int {
	b, ok := s.Region(region).Pieces[f]
	if !ok {
		return 0
	}
	return b.ByState[st].Get(kind)
}

// Available returns the count of kind in faction's Available pool.
func Available(s *state.State, f catalog.Faction, kind catalog.PieceKind) int {
	return s.Available[f][kind]
}

// LeaderInRegion returns the faction's leader id in region, if present.
func LeaderInRegion(s *state.State, region catalog.Region, f catalog.Faction) (catalog.LeaderID, bool) {
	b, ok := s.Region(region).Pieces[f]
	if !ok || b.Leader == nil {
		return 0, false
	}
	return *b.Leader, true
}

// FindLeader searches every region for faction's leader and returns its
// location.
func FindLeader(s *state.State, f catalog.Faction) (catalog.Region, bool) {
	for _, r := range catalog.AllRegions() {
		if b, ok := s.Region(r).Pieces[f]; ok && b.Leader != nil {
			return r, true
		}
	}
	return 0, false
}
