// Package state defines the game state container: region cells, tribe
// records, the Legions track, Available pools, resources, eligibility,
// capabilities, Senate, deck, and the RNG. It also validates the
// conservation invariants every mutation must preserve (spec §3,
// Invariants). No component other than internal/pieces writes piece
// counts directly — state only holds data.
package state

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/rng"
)

// FlippableCounts holds Auxilia/Warband counts for one piece state
// (Hidden, Revealed, or Scouted).
type FlippableCounts struct {
	Auxilia int
	Warband int
}

// Get returns the count for the given flippable kind.
func (c FlippableCounts) Get(k catalog.PieceKind) int {
	switch k {
	case catalog.Auxilia:
		return c.Auxilia
	case catalog.Warband:
		return c.Warband
	default:
		return 0
	}
}

// Add adjusts the count for the given flippable kind by delta.
func (c *FlippableCounts) Add(k catalog.PieceKind, delta int) {
	switch k {
	case catalog.Auxilia:
		c.Auxilia += delta
	case catalog.Warband:
		c.Warband += delta
	}
}

// FactionBucket is one faction's piece holdings within a single region.
type FactionBucket struct {
	Leader      *catalog.LeaderID
	Legions     int
	Forts       int
	Allies      int
	Citadels    int
	Settlements int
	ByState     [3]FlippableCounts // indexed by catalog.PieceState
}

// Total returns the faction's force count in this region for control
// calculation (spec §4.2): Leader(1) + Legions + Forts(Romans only,
// handled by caller) + Allies + Citadels + Settlements + all flippables
// in every state.
func (b *FactionBucket) Total(includeForts bool) int {
	if b == nil {
		return 0
	}
	total := b.Legions + b.Allies + b.Citadels + b.Settlements
	if b.Leader != nil {
		total++
	}
	if includeForts {
		total += b.Forts
	}
	for _, fc := range b.ByState {
		total += fc.Auxilia + fc.Warband
	}
	return total
}

// Empty reports whether the bucket holds no pieces at all, so the caller
// can prune it from the region map.
func (b *FactionBucket) Empty() bool {
	return b.Total(true) == 0
}

// RegionCell holds one region's piece buckets, derived control, and
// markers.
type RegionCell struct {
	Region  catalog.Region
	Pieces  map[catalog.Faction]*FactionBucket
	Control catalog.Faction // catalog.NoControl if no faction controls
	Markers map[catalog.Marker]bool
}

func newRegionCell(r catalog.Region) *RegionCell {
	return &RegionCell{
		Region:  r,
		Pieces:  make(map[catalog.Faction]*FactionBucket),
		Control: catalog.NoControl,
		Markers: make(map[catalog.Marker]bool),
	}
}

// Bucket returns the faction's bucket in this region, creating it if
// absent. Only internal/pieces should call this with intent to mutate.
func (c *RegionCell) Bucket(f catalog.Faction) *FactionBucket {
	b, ok := c.Pieces[f]
	if !ok {
		b = &FactionBucket{}
		c.Pieces[f] = b
	}
	return b
}

// HasMarker reports whether a marker is set on this region.
func (c *RegionCell) HasMarker(m catalog.Marker) bool {
	return c.Markers[m]
}

// TribeRecord is one tribe's allegiance and status.
type TribeRecord struct {
	Tribe         catalog.Tribe
	AlliedFaction *catalog.Faction
	Status        catalog.TribeStatus
}

// LegionsTrack holds the three rows of off-map Legions awaiting Rally or
// placement by the Senate phase.
type LegionsTrack struct {
	Bottom, Middle, Top int
}

// Total returns the number of Legions currently on the track.
func (t LegionsTrack) Total() int {
	return t.Bottom + t.Middle + t.Top
}

// Senate holds the Senate marker's position and Firm flag.
type Senate struct {
	Position catalog.SenatePosition
	Firm     bool
}

// Capabilities records which side (true=Shaded, false=Unshaded) of a
// capability-granting card is currently active. A later activation
// overwrites an earlier one for the same key (spec §5.1.2, "duelling
// events").
type Capabilities map[string]bool

// State is the complete game state container for one game (spec §3,
// Lifecycle: constructed once by scenario setup, lives for the whole
// game).
type State struct {
	Scenario catalog.Scenario

	Regions map[catalog.Region]*RegionCell
	Tribes  map[catalog.Tribe]*TribeRecord

	LegionsTrack   LegionsTrack
	FallenLegions  int
	RemovedLegions int

	// Available pools: faction -> piece kind -> count. Legions never use
	// this map; they live on LegionsTrack, on the map, in Fallen, or
	// Removed.
	Available map[catalog.Faction]map[catalog.PieceKind]int

	// DiviciacusRemoved is true once Diviciacus has been removed from
	// play (spec Invariant 2: the only leader that can be Removed rather
	// than cycled through Available).
	DiviciacusRemoved bool

	Resources map[catalog.Faction]int

	Eligible map[catalog.Faction]bool

	Capabilities Capabilities

	Senate Senate

	// AtWar is the Arverni-At-War derived flag (Ariovistus only),
	// recomputed by the carnyx trigger check (spec §4.6).
	AtWar bool

	// EventModifiers is the per-card-turn scratch area event handlers
	// write into and commands read from in the same turn (spec §6.2,
	// Design Notes "Event modifiers as a transient map"). The SoP engine
	// creates it at turn start and discards it at turn end; no component
	// may assume it survives across card boundaries.
	EventModifiers map[string]any

	// DeferredIneligible holds factions whose LimitedCommand this card
	// turn defers their Ineligible flag to the *next* card rather than
	// this one (spec §2.3.6, §4.6 "Eligibility after action"). The SoP
	// engine applies and clears these at the start of the following card
	// turn.
	DeferredIneligible map[catalog.Faction]bool

	// GlobalMarkers holds board-wide (not per-region) markers: Frost,
	// Winter, Gallia-Togata, Circumvallation, Colony, Britannia-Not-In-Play.
	GlobalMarkers map[catalog.Marker]bool

	Deck         []CardID
	PlayedCards  []CardID
	CurrentCard  CardID
	DeckPos      int
	WinterCount  int
	FinalWinter  bool

	RNG *rng.Source
}

// CardID identifies a card in the deck (spec §3, Deck).
type CardID int

// New builds the empty skeleton for a scenario. The caller (scenario
// setup) must then place every starting piece through internal/pieces,
// set Senate/resources/tribe allegiances/deck, and finally call
// Validate.
func New(scenario catalog.Scenario, seed int64) *State {
	s := &State{
		Scenario:     scenario,
		Regions:      make(map[catalog.Region]*RegionCell),
		Tribes:       make(map[catalog.Tribe]*TribeRecord),
		Available:    make(map[catalog.Faction]map[catalog.PieceKind]int),
		Resources:    make(map[catalog.Faction]int),
		Eligible:     make(map[catalog.Faction]bool),
		Capabilities:  make(Capabilities),
		GlobalMarkers: make(map[catalog.Marker]bool),
		EventModifiers: make(map[string]any),
		DeferredIneligible: make(map[catalog.Faction]bool),
		RNG:           rng.New(seed),
	}
	for _, r := range catalog.AllRegions() {
		s.Regions[r] = newRegionCell(r)
	}
	for _, t := range catalog.AllTribes() {
		s.Tribes[t] = &TribeRecord{Tribe: t, Status: catalog.StatusSubdued}
	}
	for _, f := range catalog.AllFactions() {
		s.Available[f] = make(map[catalog.PieceKind]int)
		for k := catalog.Leader; k <= catalog.Settlement; k++ {
			s.Available[f][k] = catalog.Cap(scenario, f, k)
		}
		s.Eligible[f] = true
	}
	return s
}

// Region returns the cell for r, which always exists after New.
func (s *State) Region(r catalog.Region) *RegionCell {
	return s.Regions[r]
}

// HasGlobalMarker reports whether a board-wide marker is currently set.
func (s *State) HasGlobalMarker(m catalog.Marker) bool {
	return s.GlobalMarkers[m]
}
