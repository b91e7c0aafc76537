package sop

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/state"
)

// CardMeta is the engine-relevant slice of a card: its Sequence-of-Play
// faction order and its Winter/carnyx flags (spec §3, Deck). The
// card-specific Event text (the 70+-entry table) is out of scope (spec
// §1, OUT OF SCOPE) and is dispatched separately, see dispatch.go.
type CardMeta struct {
	ID       state.CardID
	Order    []catalog.Faction // SoP-active factions, in this card's order
	Winter   bool
	Carnyx   bool // Ariovistus only: carries the carnyx symbol (spec §4.6)
}

// pileLayout gives each scenario's deck shape: how many non-Winter cards
// per pile, and how many piles. A Winter card follows every pile; the
// last pile's Winter card is the Final Winter (spec §4.8, "if this is the
// final Winter"). The rules' actual card identities are out of scope, so
// pile sizes are a deliberate Open-Question-style implementation choice,
// chosen to match the named scenarios' approximate campaign lengths and
// recorded in DESIGN.md.
func pileLayout(s catalog.Scenario) (piles, cardsPerPile int) {
	switch s {
	case catalog.PaxGallica:
		return 2, 8
	case catalog.Reconquest:
		return 2, 10
	case catalog.GreatRevolt:
		return 3, 16
	case catalog.Ariovistus, catalog.GallicWar:
		return 3, 18
	default:
		return 3, 16
	}
}

// BuildDeck constructs the scenario's deck, shuffling each pile
// independently with the state's RNG and interleaving a Winter card after
// every pile (spec §3, Deck; §4.6, Winter card). The SoP-active faction
// order on a card is drawn uniformly per card, since the actual card
// faces (which fix a specific order) are out of scope here.
func BuildDeck(s *state.State) []CardMeta {
	piles, perPile := pileLayout(s.Scenario)
	factions := catalog.SoPFactions(s.Scenario)
	var deck []CardMeta
	id := state.CardID(1)
	for p := 0; p < piles; p++ {
		ids := make([]int, perPile)
		for i := range ids {
			ids[i] = i
		}
		s.RNG.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
		for range ids {
			order := append([]catalog.Faction(nil), factions...)
			s.RNG.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
			carnyx := s.Scenario.IsAriovistusRuleset() && s.RNG.Intn(2) == 0
			deck = append(deck, CardMeta{ID: id, Order: order, Carnyx: carnyx})
			id++
		}
		deck = append(deck, CardMeta{ID: id, Winter: true})
		id++
	}
	return deck
}
