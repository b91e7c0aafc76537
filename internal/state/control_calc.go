package state

import "github.com/talgya/gallia-engine/internal/catalog"

// deriveControl computes a region's control tag from its current pieces
// (spec §4.2). It lives alongside RegionCell because the algorithm is a
// pure function of that data; internal/control is the orchestration layer
// that calls DeriveControl for every region and writes the result back.
func deriveControl(cell *RegionCell, scenario catalog.Scenario) catalog.Faction {
	totalOthers := func(exclude catalog.Faction) int {
		sum := 0
		for f, b := range cell.Pieces {
			if f == exclude {
				continue
			}
			sum += b.Total(f == catalog.Romans)
		}
		return sum
	}
	// At most one faction can strictly exceed the sum of every other
	// faction's count, so the first match found is the only match.
	for _, f := range catalog.AllFactions() {
		b, ok := cell.Pieces[f]
		if !ok {
			continue
		}
		count := b.Total(f == catalog.Romans)
		if count > 0 && count > totalOthers(f) {
			return f
		}
	}
	return catalog.NoControl
}

// DeriveControl is the exported form used by internal/control.
func DeriveControl(cell *RegionCell, scenario catalog.Scenario) catalog.Faction {
	return deriveControl(cell, scenario)
}
