package persistence

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/state"
)

// Snapshot is the JSON-able reference shape spec §6.3 describes
// informatively: every field of state.State except EventModifiers (see
// Snap) and the RNG (which has no exported internals — math/rand exposes
// no stream-position export), in its place the seed it was constructed
// from.
type Snapshot struct {
	Scenario catalog.Scenario

	Regions map[catalog.Region]*state.RegionCell
	Tribes  map[catalog.Tribe]*state.TribeRecord

	LegionsTrack   state.LegionsTrack
	FallenLegions  int
	RemovedLegions int

	Available         map[catalog.Faction]map[catalog.PieceKind]int
	DiviciacusRemoved bool

	Resources map[catalog.Faction]int
	Eligible  map[catalog.Faction]bool

	Capabilities state.Capabilities
	Senate       state.Senate
	AtWar        bool

	DeferredIneligible map[catalog.Faction]bool

	GlobalMarkers map[catalog.Marker]bool

	Deck        []state.CardID
	PlayedCards []state.CardID
	CurrentCard state.CardID
	DeckPos     int
	WinterCount int
	FinalWinter bool

	RNGSeed int64
}

// Snap extracts a Snapshot from a live state. EventModifiers is
// deliberately not captured: it is turn-scratch, discarded between card
// turns (spec §6.2, Design Notes), and a save point is only ever taken
// between cards.
func Snap(s *state.State) *Snapshot {
	return &Snapshot{
		Scenario:          s.Scenario,
		Regions:           s.Regions,
		Tribes:            s.Tribes,
		LegionsTrack:      s.LegionsTrack,
		FallenLegions:     s.FallenLegions,
		RemovedLegions:    s.RemovedLegions,
		Available:         s.Available,
		DiviciacusRemoved: s.DiviciacusRemoved,
		Resources:         s.Resources,
		Eligible:          s.Eligible,
		Capabilities:      s.Capabilities,
		Senate:            s.Senate,
		AtWar:             s.AtWar,
		DeferredIneligible: s.DeferredIneligible,
		GlobalMarkers:     s.GlobalMarkers,
		Deck:              s.Deck,
		PlayedCards:       s.PlayedCards,
		CurrentCard:       s.CurrentCard,
		DeckPos:           s.DeckPos,
		WinterCount:       s.WinterCount,
		FinalWinter:       s.FinalWinter,
		RNGSeed:           s.RNG.Seed(),
	}
}

// Restore rebuilds a *state.State from a Snapshot. The rebuilt state's
// RNG resumes from the stored seed rather than the exact mid-game stream
// position (see Snapshot's doc comment); every other field round-trips
// exactly.
func Restore(snap *Snapshot) *state.State {
	s := state.New(snap.Scenario, snap.RNGSeed)
	s.Regions = snap.Regions
	s.Tribes = snap.Tribes
	s.LegionsTrack = snap.LegionsTrack
	s.FallenLegions = snap.FallenLegions
	s.RemovedLegions = snap.RemovedLegions
	s.Available = snap.Available
	s.DiviciacusRemoved = snap.DiviciacusRemoved
	s.Resources = snap.Resources
	s.Eligible = snap.Eligible
	s.Capabilities = snap.Capabilities
	s.Senate = snap.Senate
	s.AtWar = snap.AtWar
	if snap.DeferredIneligible != nil {
		s.DeferredIneligible = snap.DeferredIneligible
	}
	s.GlobalMarkers = snap.GlobalMarkers
	s.Deck = snap.Deck
	s.PlayedCards = snap.PlayedCards
	s.CurrentCard = snap.CurrentCard
	s.DeckPos = snap.DeckPos
	s.WinterCount = snap.WinterCount
	s.FinalWinter = snap.FinalWinter
	return s
}
