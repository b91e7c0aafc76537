package catalog

// ResourceCap is the hard ceiling on any faction's resource pool (spec
// Invariant 5).
const ResourceCap = 45

// Cap returns the scenario-fixed maximum count for a (faction, piece kind)
// pair. Legions are capped separately by the Legions track (LegionCap).
func Cap(s Scenario, f Faction, k PieceKind) int {
	switch k {
	case Leader:
		return leaderDiscCount(f)
	case Legion:
		return LegionCap(s)
	case Auxilia:
		if f == Romans {
			return 8
		}
		return 0
	case Warband:
		switch f {
		case Arverni, Aedui, Belgae:
			return 20
		case Germans:
			return 12
		default:
			return 0
		}
	case Fort:
		if f == Romans {
			return 6
		}
		return 0
	case Ally:
		switch f {
		case Romans:
			return 8
		case Arverni, Aedui, Belgae, Germans:
			return 10
		default:
			return 0
		}
	case Citadel:
		switch f {
		case Arverni, Aedui, Belgae:
			return 4
		default:
			return 0
		}
	case Settlement:
		if f == Germans && s.IsAriovistusRuleset() {
			return 8
		}
		return 0
	default:
		return 0
	}
}

// leaderDiscCount returns how many Leader discs a faction owns: its named
// leader(s) plus its generic Successor (spec §3, "plus a 'Successor' disc
// per faction"). Belgae alone owns two named discs (Ambiorix,
// Boduognatus) in addition to its Successor; every other faction owns
// one named disc plus its Successor. Available[f][Leader] is a single
// shared counter across all of a faction's discs (see Place's Leader
// case), so this total — not a hardcoded 1 — is what "on-map + Available
// + Removed" must reconcile to (spec Invariant 2).
func leaderDiscCount(f Faction) int {
	if f == Belgae {
		return 3
	}
	return 2
}

// LegionCap is the total number of Legion pieces in the game, across map,
// track, Fallen, and Removed.
func LegionCap(s Scenario) int {
	if s.IsAriovistusRuleset() {
		return 12
	}
	return 10
}

// LegionsTrackRowCap is the scenario-fixed capacity of each Legions track
// row (Bottom/Middle/Top).
func LegionsTrackRowCap(s Scenario) int {
	return LegionCap(s) / 2
}

// HomeRegions returns a faction's home-region list, used for reduced
// Rally/Recruit costs (spec §4.3.1).
func HomeRegions(f Faction) []Region {
	switch f {
	case Arverni:
		return []Region{Arverni_}
	case Aedui:
		return []Region{Aedui_, Bituriges}
	case Belgae:
		return []Region{Atrebates, Bellovaci, Remi, Treveri}
	case Germans:
		return []Region{Treveri, Sequani}
	default:
		return nil
	}
}

// IsHomeRegion reports whether r is one of f's home regions.
func IsHomeRegion(f Faction, r Region) bool {
	for _, hr := range HomeRegions(f) {
		if hr == r {
			return true
		}
	}
	return false
}
