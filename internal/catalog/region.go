package catalog

// Region is a closed enumeration of every space on the board: the 14
// playable Gallic regions plus Britannia, Provincia, and Cisalpina
// (spec §3, Regions).
type Region uint8

const (
	Atrebates Region = iota
	Bellovaci
	Remi
	Treveri
	Senones
	Mandubii
	Sequani
	Helvetii
	Aedui_ // region named for the Aedui home territory; distinct from the Faction constant
	Arverni_
	Bituriges
	Pictones
	Carnutes
	Aquitani
	Britannia
	Provincia
	Cisalpina
	numRegions
)

var regionNames = map[Region]string{
	Atrebates: "Atrebates", Bellovaci: "Bellovaci", Remi: "Remi", Treveri: "Treveri",
	Senones: "Senones", Mandubii: "Mandubii", Sequani: "Sequani", Helvetii: "Helvetii",
	Aedui_: "Aedui", Arverni_: "Arverni", Bituriges: "Bituriges", Pictones: "Pictones",
	Carnutes: "Carnutes", Aquitani: "Aquitani",
	Britannia: "Britannia", Provincia: "Provincia", Cisalpina: "Cisalpina",
}

func (r Region) String() string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return "UnknownRegion"
}

// RegionGroup labels a region's broader territory, used by scenario rules
// (e.g. Gallic Rally home-region cost, Enlist's Germania-adjacency gate).
type RegionGroup uint8

const (
	GroupCeltica RegionGroup = iota
	GroupBelgica
	GroupGermania
	GroupNone // Britannia, Provincia, Cisalpina carry no Gallic region-group
)

func (g RegionGroup) String() string {
	switch g {
	case GroupCeltica:
		return "Celtica"
	case GroupBelgica:
		return "Belgica"
	case GroupGermania:
		return "Germania"
	default:
		return "None"
	}
}

// regionGroups assigns every playable region to its region-group. Treveri
// and Sequani border the Rhenus and carry the Germania label in addition
// to their home group for Enlist/Settle adjacency purposes; RegionGroups
// returns all labels that apply.
var regionGroups = map[Region][]RegionGroup{
	Atrebates: {GroupBelgica},
	Bellovaci: {GroupBelgica},
	Remi:      {GroupBelgica},
	Treveri:   {GroupBelgica, GroupGermania},
	Senones:   {GroupCeltica},
	Mandubii:  {GroupCeltica},
	Sequani:   {GroupCeltica, GroupGermania},
	Helvetii:  {GroupCeltica},
	Aedui_:    {GroupCeltica},
	Arverni_:  {GroupCeltica},
	Bituriges: {GroupCeltica},
	Pictones:  {GroupCeltica},
	Carnutes:  {GroupCeltica},
	Aquitani:  {GroupCeltica},
	Britannia: {GroupNone},
	Provincia: {GroupNone},
	Cisalpina: {GroupNone},
}

// RegionGroups returns every region-group label that applies to a region.
func RegionGroups(r Region) []RegionGroup {
	return regionGroups[r]
}

// InGroup reports whether a region carries the given region-group label.
func InGroup(r Region, g RegionGroup) bool {
	for _, rg := range regionGroups[r] {
		if rg == g {
			return true
		}
	}
	return false
}

// controlValues gives each region's Control Value, used by Belgic and
// Germanic scoring.
var controlValues = map[Region]int{
	Atrebates: 2, Bellovaci: 2, Remi: 2, Treveri: 2,
	Senones: 1, Mandubii: 2, Sequani: 2, Helvetii: 1,
	Aedui_: 3, Arverni_: 3, Bituriges: 2, Pictones: 1,
	Carnutes: 2, Aquitani: 1,
	Britannia: 0, Provincia: 0, Cisalpina: 0,
}

// ControlValue returns a region's Control Value.
func ControlValue(r Region) int {
	return controlValues[r]
}

// AllRegions returns every region in canonical declaration order (spec §5,
// Ordering guarantees: all iteration over regions uses this order).
func AllRegions() []Region {
	out := make([]Region, 0, int(numRegions))
	for r := Region(0); r < numRegions; r++ {
		out = append(out, r)
	}
	return out
}

// PlayableRegions returns the 14 Gallic regions, excluding Britannia,
// Provincia, and Cisalpina.
func PlayableRegions() []Region {
	out := make([]Region, 0, 14)
	for _, r := range AllRegions() {
		if r != Britannia && r != Provincia && r != Cisalpina {
			out = append(out, r)
		}
	}
	return out
}

// EdgeKind labels the character of an adjacency edge.
type EdgeKind uint8

const (
	EdgeNormal EdgeKind = iota
	EdgeRhenus           // Rhenus-river crossing: restricts Roman Legion movement
	EdgeCoastal          // coastal crossing: may disallow Legions depending on scenario
	EdgeBritannia        // sea crossing to/from Britannia; Legions may not March across it
)

// Edge is one adjacency relation between two regions.
type Edge struct {
	A, B Region
	Kind EdgeKind
}

// adjacency is the closed adjacency graph. Every edge, EdgeBritannia
// included, can be crossed in both directions; no per-leader gating is
// applied to Britannia crossings.
var adjacency = []Edge{
	{Atrebates, Bellovaci, EdgeNormal},
	{Atrebates, Britannia, EdgeBritannia},
	{Bellovaci, Remi, EdgeNormal},
	{Bellovaci, Senones, EdgeNormal},
	{Remi, Treveri, EdgeNormal},
	{Remi, Senones, EdgeNormal},
	{Treveri, Sequani, EdgeRhenus},
	{Senones, Mandubii, EdgeNormal},
	{Senones, Carnutes, EdgeNormal},
	{Mandubii, Sequani, EdgeNormal},
	{Mandubii, Aedui_, EdgeNormal},
	{Sequani, Helvetii, EdgeRhenus},
	{Helvetii, Aedui_, EdgeNormal},
	{Aedui_, Arverni_, EdgeNormal},
	{Aedui_, Bituriges, EdgeNormal},
	{Arverni_, Bituriges, EdgeNormal},
	{Arverni_, Aquitani, EdgeNormal},
	{Bituriges, Carnutes, EdgeNormal},
	{Bituriges, Pictones, EdgeNormal},
	{Carnutes, Pictones, EdgeCoastal},
	{Pictones, Aquitani, EdgeNormal},
	{Pictones, Britannia, EdgeBritannia},
	{Arverni_, Provincia, EdgeNormal},
	{Helvetii, Provincia, EdgeNormal},
	{Provincia, Cisalpina, EdgeNormal},
}

// Adjacent returns every region adjacent to r, paired with the edge kind
// used to reach it.
func Adjacent(r Region) []Edge {
	var out []Edge
	for _, e := range adjacency {
		switch r {
		case e.A:
			out = append(out, Edge{e.A, e.B, e.Kind})
		case e.B:
			out = append(out, Edge{e.B, e.A, e.Kind})
		}
	}
	return out
}

// IsAdjacent reports whether two regions share any edge, and returns its
// kind.
func IsAdjacent(a, b Region) (EdgeKind, bool) {
	for _, e := range Adjacent(a) {
		if e.B == b {
			return e.Kind, true
		}
	}
	return EdgeNormal, false
}
