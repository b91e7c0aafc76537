// Package mapdata answers region/tribe/adjacency queries and scenario-gated
// playability checks. It owns no mutable state; all state-dependent
// queries (supply lines, control-dependent paths) take a passability
// predicate supplied by the caller, following the teacher's world.Map
// read-only query surface (_examples/tobyjaguar-mini-world/internal/world/map.go).
package mapdata

import "github.com/talgya/gallia-engine/internal/catalog"

// Playable reports whether a region is in play for the given scenario.
// Britannia is removed from play in scenarios where the
// Britannia-Not-In-Play marker is scenario-fixed (Pax Gallica and
// Reconquest, the two short scenarios that predate the Britannia
// expedition).
func Playable(s catalog.Scenario, r catalog.Region) bool {
	if r == catalog.Britannia {
		return s != catalog.PaxGallica && s != catalog.Reconquest
	}
	return true
}

// Adjacent is a thin re-export of catalog.Adjacent restricted to regions
// playable in the given scenario.
func Adjacent(s catalog.Scenario, r catalog.Region) []catalog.Edge {
	var out []catalog.Edge
	for _, e := range catalog.Adjacent(r) {
		if Playable(s, e.B) {
			out = append(out, e)
		}
	}
	return out
}

// BFSPath finds a shortest path from src to dst, considering only edges
// where pass(region) is true for every intermediate region (src and dst
// are never tested). Returns nil if no path exists. Used by
// supply-line checks (Roman Recruit, Build, Aedui Trade) where "passable"
// means "not controlled by a hostile faction", a state-dependent notion
// the caller computes and passes in.
func BFSPath(s catalog.Scenario, src, dst catalog.Region, pass func(catalog.Region) bool) []catalog.Region {
	if src == dst {
		return []catalog.Region{src}
	}
	visited := map[catalog.Region]bool{src: true}
	prev := map[catalog.Region]catalog.Region{}
	queue := []catalog.Region{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range Adjacent(s, cur) {
			if visited[e.B] {
				continue
			}
			if e.B != dst && !pass(e.B) {
				continue
			}
			visited[e.B] = true
			prev[e.B] = cur
			if e.B == dst {
				return reconstruct(prev, src, dst)
			}
			queue = append(queue, e.B)
		}
	}
	return nil
}

func reconstruct(prev map[catalog.Region]catalog.Region, src, dst catalog.Region) []catalog.Region {
	path := []catalog.Region{dst}
	cur := dst
	for cur != src {
		cur = prev[cur]
		path = append([]catalog.Region{cur}, path...)
	}
	return path
}

// HasSupplyLine reports whether a path exists from r to Cisalpina through
// regions satisfying pass (spec Glossary, Supply line).
func HasSupplyLine(s catalog.Scenario, r catalog.Region, pass func(catalog.Region) bool) bool {
	return BFSPath(s, r, catalog.Cisalpina, pass) != nil
}
