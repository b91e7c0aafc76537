// Package setup builds a valid starting State for any scenario (spec §3,
// Lifecycle: "constructed once by scenario setup"). It follows the
// original rules' own setup procedure in spirit — place every piece
// through internal/pieces, never touch a FactionBucket directly, then
// assert the result is sound — but the source retrieval pack's
// state/setup.py was filtered down to its generic helpers only; the
// per-scenario piece-placement tables (which tribe gets which Ally, the
// exact Legion count on map at start, and so on) were not present in the
// corpus. The starting layouts below are this package's own deliberate,
// documented choice: internally consistent, scenario-shaped, and built
// entirely through Place so every conservation invariant holds, but not
// a transcription of the printed scenario cards (see DESIGN.md).
package setup

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/pieces"
	"github.com/talgya/gallia-engine/internal/sop"
	"github.com/talgya/gallia-engine/internal/state"
)

// Result bundles the freshly built state with the deck metadata the
// caller needs to drive a sop.Engine (state.Deck only records card ids,
// not the Sequence-of-Play order each card carries).
type Result struct {
	State *state.State
	Deck  []sop.CardMeta
}

// leaderID returns the LeaderID for the "main" disc a faction starts
// the game with.
func leaderID(f catalog.Faction) catalog.LeaderID {
	switch f {
	case catalog.Romans:
		return catalog.Caesar
	case catalog.Arverni:
		return catalog.Vercingetorix
	case catalog.Aedui:
		return catalog.Diviciacus
	case catalog.Belgae:
		return catalog.Ambiorix
	case catalog.Germans:
		return catalog.Ariovistus_
	default:
		return catalog.SuccessorRomans
	}
}

// layout is this package's internal description of one scenario's
// starting position.
type layout struct {
	senate       catalog.SenatePosition
	senateFirm   bool
	resources    map[catalog.Faction]int
	legionsMap   int  // Legions placed in Provincia at start
	warbandsPer  int  // Hidden Warbands placed per faction home region
	togata       bool // Gallia Togata marker (Provincia-adjacent Cisalpina control, base game)
	britanniaOut bool // Britannia-Not-In-Play marker (shorter scenarios)
}

func layoutFor(sc catalog.Scenario) layout {
	switch sc {
	case catalog.PaxGallica:
		return layout{senate: catalog.Adulation, resources: map[catalog.Faction]int{
			catalog.Romans: 15, catalog.Arverni: 6, catalog.Aedui: 10, catalog.Belgae: 6,
		}, legionsMap: 2, warbandsPer: 2, britanniaOut: true}
	case catalog.Reconquest:
		return layout{senate: catalog.Intrigue, resources: map[catalog.Faction]int{
			catalog.Romans: 12, catalog.Arverni: 8, catalog.Aedui: 9, catalog.Belgae: 7,
		}, legionsMap: 3, warbandsPer: 3, britanniaOut: true}
	case catalog.GreatRevolt:
		return layout{senate: catalog.Intrigue, resources: map[catalog.Faction]int{
			catalog.Romans: 10, catalog.Arverni: 8, catalog.Aedui: 10, catalog.Belgae: 8,
		}, legionsMap: 2, warbandsPer: 4, togata: true}
	case catalog.Ariovistus:
		return layout{senate: catalog.Uproar, resources: map[catalog.Faction]int{
			catalog.Romans: 8, catalog.Aedui: 8, catalog.Belgae: 8, catalog.Germans: 6,
		}, legionsMap: 1, warbandsPer: 3}
	case catalog.GallicWar:
		return layout{senate: catalog.Intrigue, resources: map[catalog.Faction]int{
			catalog.Romans: 10, catalog.Aedui: 9, catalog.Belgae: 8, catalog.Germans: 5,
		}, legionsMap: 2, warbandsPer: 3, togata: true}
	default:
		return layout{senate: catalog.Intrigue}
	}
}

// New builds a complete, validated starting State for scenario, seeded
// with seed, and the deck to drive it. It places the permanent Provincia
// Fort, each playable faction's Leader and starting Warbands in
// its home regions, a Legion garrison in Provincia plus the rest on the
// Legions track, opening resources and Senate position, home-region
// tribe allegiances, and scenario markers — then builds and attaches the
// deck and asserts the result against every conservation invariant.
func New(scenario catalog.Scenario, seed int64) (*Result, error) {
	s := state.New(scenario, seed)
	lay := layoutFor(scenario)

	if err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Fort, 1, pieces.PlaceOpts{}); err != nil {
		return nil, err
	}

	legionCap := catalog.LegionCap(scenario)
	rowCap := catalog.LegionsTrackRowCap(scenario)
	if err := seedLegionsTrack(s, legionCap, rowCap); err != nil {
		return nil, err
	}
	if lay.legionsMap > 0 {
		if err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Legion, lay.legionsMap, pieces.PlaceOpts{}); err != nil {
			return nil, err
		}
	}
	caesar := catalog.Caesar
	if err := pieces.Place(s, catalog.Provincia, catalog.Romans, catalog.Leader, 1, pieces.PlaceOpts{LeaderID: &caesar}); err != nil {
		return nil, err
	}

	// SoPFactions already excludes the scenario's Non-Player faction
	// (Germans base-game, Arverni in the Ariovistus ruleset) from the
	// set that gets a placed Leader; see catalog.SoPFactions.
	for _, f := range catalog.SoPFactions(scenario) {
		if f == catalog.Romans {
			continue
		}
		if err := placeGallicFaction(s, f, lay.warbandsPer); err != nil {
			return nil, err
		}
	}
	if !scenario.IsAriovistusRuleset() {
		// Germans are the base-game Non-Player faction: no Leader, no
		// Resources, but they do hold their home-region Warbands.
		if err := placeGermanWarbands(s, lay.warbandsPer); err != nil {
			return nil, err
		}
	}

	for f, amount := range lay.resources {
		s.Resources[f] = amount
	}
	s.Senate = state.Senate{Position: lay.senate, Firm: lay.senateFirm}

	if lay.togata {
		s.GlobalMarkers[catalog.MarkerGalliaTogata] = true
	}
	if lay.britanniaOut {
		s.GlobalMarkers[catalog.MarkerBritanniaNotInPlay] = true
	}

	if err := assignHomeTribes(s); err != nil {
		return nil, err
	}

	control.RefreshAll(s)

	deck := sop.BuildDeck(s)
	ids := make([]state.CardID, len(deck))
	for i, c := range deck {
		ids[i] = c.ID
	}
	s.Deck = ids
	s.DeckPos = 0

	if err := s.AssertSound(); err != nil {
		return nil, gameerr.Newf(gameerr.InvariantViolation, "scenario setup produced an unsound state: %v", err)
	}

	return &Result{State: s, Deck: deck}, nil
}

// seedLegionsTrack loads the Legions track with every Legion this
// scenario fields, filling the lowest rows first up to rowCap — the same
// "fill lowest rows" idiom pieces uses when a Legion is removed to the
// track (RemoveOpts.ToTrack) — so that later Place calls can pull Legions onto the map
// without ever touching Available directly.
func seedLegionsTrack(s *state.State, total, rowCap int) error {
	fill := func(row *int) {
		if total == 0 {
			return
		}
		n := total
		if n > rowCap {
			n = rowCap
		}
		*row += n
		total -= n
	}
	fill(&s.LegionsTrack.Bottom)
	fill(&s.LegionsTrack.Middle)
	fill(&s.LegionsTrack.Top)
	if total > 0 {
		return gameerr.Newf(gameerr.StackingViolation, "Legions track has no room for %d Legions at setup", total)
	}
	return nil
}

// placeGallicFaction places a playable Gallic faction's Leader and
// starting Hidden Warbands across its home regions.
func placeGallicFaction(s *state.State, f catalog.Faction, warbandsPer int) error {
	homes := catalog.HomeRegions(f)
	if len(homes) == 0 {
		return nil
	}
	id := leaderID(f)
	if err := pieces.Place(s, homes[0], f, catalog.Leader, 1, pieces.PlaceOpts{LeaderID: &id}); err != nil {
		return err
	}
	for _, r := range homes {
		if err := pieces.Place(s, r, f, catalog.Warband, warbandsPer, pieces.PlaceOpts{}); err != nil {
			return err
		}
	}
	return nil
}

// placeGermanWarbands places the base-game Non-Player Germans' starting
// Warbands in their home regions, without a Leader or Resources (spec
// Invariant 7).
func placeGermanWarbands(s *state.State, warbandsPer int) error {
	for _, r := range catalog.HomeRegions(catalog.Germans) {
		if err := pieces.Place(s, r, catalog.Germans, catalog.Warband, warbandsPer, pieces.PlaceOpts{}); err != nil {
			return err
		}
	}
	return nil
}

// assignHomeTribes sets one tribe per faction home region Allied to that
// faction, placing the matching Ally piece, and leaves every other tribe
// Subdued. A region's bucket tracks an Ally count, not a per-tribe
// identity (spec §3, Region cell), so tribe coherence (Invariant 4) can
// only distinguish one Allied tribe per faction per region; this is a
// simplified stand-in for the scenario cards' named tribe-by-tribe
// allegiance list (see package doc), consistent with that constraint.
func assignHomeTribes(s *state.State) error {
	for _, f := range catalog.AllFactions() {
		if f == catalog.Romans {
			continue
		}
		for _, r := range catalog.HomeRegions(f) {
			for _, t := range catalog.TribesIn(r) {
				rec := s.Tribes[t]
				if rec.Status != catalog.StatusSubdued {
					// Already claimed by an earlier faction sharing this
					// region (e.g. Treveri is both Belgic and Germanic).
					continue
				}
				if restrict, ok := t.AllyRestriction(); ok && restrict != f {
					continue
				}
				if err := pieces.Place(s, r, f, catalog.Ally, 1, pieces.PlaceOpts{}); err != nil {
					return err
				}
				faction := f
				rec.Status = catalog.StatusAllied
				rec.AlliedFaction = &faction
				break // one Allied tribe per faction per region, see doc above
			}
		}
	}
	return nil
}
