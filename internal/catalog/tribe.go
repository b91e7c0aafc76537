package catalog

// Tribe is a closed enumeration of named tribe tokens, each pinned to a
// specific region (spec §3, Tribes).
type Tribe uint8

const (
	TribeAmbiani Tribe = iota
	TribeAtrebates
	TribeMorini
	TribeBellovaci
	TribeSuessiones
	TribeRemi
	TribeTreveri
	TribeEburones
	TribeSenones
	TribeCarnutes
	TribeAlesia    // City tribe, Mandubii
	TribeSequani
	TribeVesontio // City tribe, Sequani
	TribeHelvetii
	TribeBibracte // City tribe, Aedui
	TribeGergovia // City tribe, Arverni
	TribeAvaricum // City tribe, Bituriges
	TribePictones
	TribeCenabum // City tribe, Carnutes
	TribeAquitani
)

// tribeRegion pins each tribe to its home region.
var tribeRegion = map[Tribe]Region{
	TribeAmbiani: Atrebates, TribeAtrebates: Atrebates,
	TribeMorini: Bellovaci, TribeBellovaci: Bellovaci, TribeSuessiones: Bellovaci,
	TribeRemi: Remi,
	TribeTreveri: Treveri, TribeEburones: Treveri,
	TribeSenones: Senones,
	TribeCarnutes: Carnutes, TribeCenabum: Carnutes,
	TribeAlesia: Mandubii,
	TribeSequani: Sequani, TribeVesontio: Sequani,
	TribeHelvetii: Helvetii,
	TribeBibracte: Aedui_,
	TribeGergovia: Arverni_,
	TribeAvaricum: Bituriges,
	TribePictones: Pictones,
	TribeAquitani: Aquitani,
}

// Region returns the tribe's pinned region.
func (t Tribe) Region() Region {
	return tribeRegion[t]
}

// cityTribes is the subset of tribes that are City tribes.
var cityTribes = map[Tribe]bool{
	TribeGergovia: true, TribeBibracte: true, TribeAvaricum: true,
	TribeAlesia: true, TribeCenabum: true, TribeVesontio: true,
}

// IsCity reports whether a tribe is one of the six City tribes.
func (t Tribe) IsCity() bool {
	return cityTribes[t]
}

// allyRestriction gives the faction a tribe's Ally placement is restricted
// to, if any. Most tribes accept any faction's Ally.
var allyRestriction = map[Tribe]Faction{
	TribeBibracte: Aedui,
	TribeGergovia: Arverni,
}

// AllyRestriction returns the faction a tribe's Ally is restricted to, and
// whether a restriction exists.
func (t Tribe) AllyRestriction() (Faction, bool) {
	f, ok := allyRestriction[t]
	return f, ok
}

// AllTribes returns every tribe in canonical declaration order.
func AllTribes() []Tribe {
	out := make([]Tribe, 0, 19)
	for t := Tribe(0); t <= TribeAquitani; t++ {
		out = append(out, t)
	}
	return out
}

// TribesIn returns every tribe pinned to region r, in canonical order.
func TribesIn(r Region) []Tribe {
	var out []Tribe
	for _, t := range AllTribes() {
		if tribeRegion[t] == r {
			out = append(out, t)
		}
	}
	return out
}
