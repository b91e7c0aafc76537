// Command gallia is a reference driver for the rules engine (spec §6.4,
// CLI surface — not part of the core library): create a game, inspect
// it, step it one card at a time, or run it unattended to the next
// Winter. new writes a fresh save to a SQLite file; every other
// subcommand loads the save from that file, and play-card, act and
// run-to-winter apply one operation and write it back, while status and
// dump-json only read it. There is no long-lived process state between
// invocations.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/persistence"
	"github.com/talgya/gallia-engine/internal/setup"
	"github.com/talgya/gallia-engine/internal/sop"
	"github.com/talgya/gallia-engine/internal/state"
	"github.com/talgya/gallia-engine/internal/victory"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "new":
		err = cmdNew(os.Args[2:])
	case "status":
		err = cmdStatus(os.Args[2:])
	case "play-card":
		err = cmdPlayCard(os.Args[2:])
	case "act":
		err = cmdAct(os.Args[2:])
	case "run-to-winter":
		err = cmdRunToWinter(os.Args[2:])
	case "dump-json":
		err = cmdDumpJSON(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		slog.Error(os.Args[1]+" failed", "error", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `gallia <command> [flags]

Commands:
  new           --db PATH --scenario NAME --seed N
  status        --db PATH --save ID
  play-card     --db PATH --save ID
  act           --db PATH --save ID --faction NAME --decision pass
  run-to-winter --db PATH --save ID
  dump-json     --db PATH --save ID

Scenarios: pax-gallica, reconquest, great-revolt, ariovistus, gallic-war
Factions:  romans, arverni, aedui, belgae, germans`)
}

func cmdNew(args []string) error {
	fs := flag.NewFlagSet("new", flag.ExitOnError)
	dbPath := fs.String("db", "gallia.db", "save database path")
	scenarioName := fs.String("scenario", "great-revolt", "scenario name")
	seed := fs.Int64("seed", 1, "RNG seed")
	fs.Parse(args)

	sc, ok := catalog.ParseScenario(*scenarioName)
	if !ok {
		return fmt.Errorf("unknown scenario %q", *scenarioName)
	}

	res, err := setup.New(sc, *seed)
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}

	db, err := persistence.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	id, err := db.Save(persistence.Snap(res.State))
	if err != nil {
		return err
	}
	slog.Info("new game created", "scenario", sc, "save_id", id, "deck_size", len(res.Deck))
	fmt.Println(id)
	return nil
}

func cmdStatus(args []string) error {
	s, db, _, err := loadSave(args)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Printf("Scenario:     %s\n", s.Scenario)
	fmt.Printf("Winter count: %d\n", s.WinterCount)
	fmt.Printf("Senate:       %s (firm=%v)\n", s.Senate.Position, s.Senate.Firm)
	fmt.Printf("Deck:         card %d of %d\n", s.DeckPos, len(s.Deck))
	fmt.Println()

	for _, f := range catalog.SoPFactions(s.Scenario) {
		sc := victory.ScoreAll(s)[f]
		fmt.Printf("%-8s resources=%-4s eligible=%-5v score=%-4d margin=%d%s\n",
			f, humanize.Comma(int64(s.Resources[f])), s.Eligible[f], sc.Value, sc.Margin,
			metIndicator(sc.Met))
	}
	return nil
}

func metIndicator(met bool) string {
	if met {
		return "  (condition met)"
	}
	return ""
}

func cmdPlayCard(args []string) error {
	s, db, id, err := loadSave(args)
	if err != nil {
		return err
	}
	defer db.Close()

	outcome, err := runCard(s)
	if err != nil {
		return err
	}
	if err := db.SaveAs(id, persistence.Snap(s)); err != nil {
		return err
	}
	reportOutcome(outcome)
	return nil
}

func cmdAct(args []string) error {
	fs := flag.NewFlagSet("act", flag.ExitOnError)
	dbPath := fs.String("db", "gallia.db", "save database path")
	saveID := fs.String("save", "", "save id")
	factionName := fs.String("faction", "", "acting faction")
	decision := fs.String("decision", "pass", "decision kind (only \"pass\" is driven from the CLI)")
	fs.Parse(args)

	if *saveID == "" {
		return fmt.Errorf("--save is required")
	}
	f, ok := catalog.ParseFaction(*factionName)
	if !ok {
		return fmt.Errorf("unknown faction %q", *factionName)
	}
	if *decision != "pass" {
		return fmt.Errorf("decision %q not supported by this CLI; use the engine API directly for Commands/Special Activities/Events", *decision)
	}

	db, err := persistence.Open(*dbPath)
	if err != nil {
		return err
	}
	defer db.Close()
	snap, err := db.Load(*saveID)
	if err != nil {
		return err
	}
	s := persistence.Restore(snap)

	outcome, err := runCard(s, f)
	if err != nil {
		return err
	}
	if err := db.SaveAs(*saveID, persistence.Snap(s)); err != nil {
		return err
	}
	reportOutcome(outcome)
	return nil
}

// runCard plays exactly one card. force names a faction that must Pass
// this card regardless of cascade order (used by act); every other
// faction in the cascade also Passes, since the CLI has no way to author
// a Command/Special Activity/Event from flags.
func runCard(s *state.State, force ...catalog.Faction) (*sop.CardOutcome, error) {
	deck := sop.BuildDeck(s)
	pos := s.DeckPos
	if pos >= len(deck) {
		return nil, sop.ErrDeckExhausted
	}
	policies := make(map[catalog.Faction]sop.Policy, len(catalog.SoPFactions(s.Scenario)))
	for _, f := range catalog.SoPFactions(s.Scenario) {
		policies[f] = passPolicy{}
	}
	e := sop.New(s, deck, policies, nil)
	e.Pos = pos
	outcome, err := e.PlayCard()
	s.DeckPos = e.Pos
	if len(force) > 0 {
		slog.Info("acted", "faction", force[0], "decision", "pass")
	}
	return outcome, err
}

// passPolicy always Passes; the CLI exposes no way to author a Command,
// Special Activity, or Event decision from flags (see act's usage note).
type passPolicy struct{}

func (passPolicy) Decide(*state.State, catalog.Faction, sop.AllowedActions, sop.Position) sop.ActionDecision {
	return sop.ActionDecision{Kind: sop.DecPass}
}

func cmdRunToWinter(args []string) error {
	s, db, id, err := loadSave(args)
	if err != nil {
		return err
	}
	defer db.Close()

	policies := make(map[catalog.Faction]sop.Policy, len(catalog.SoPFactions(s.Scenario)))
	for _, f := range catalog.SoPFactions(s.Scenario) {
		policies[f] = passPolicy{}
	}
	deck := sop.BuildDeck(s)
	e := sop.New(s, deck, policies, nil)
	e.Pos = s.DeckPos

	outcomes, err := e.RunToWinter()
	s.DeckPos = e.Pos
	if saveErr := db.SaveAs(id, persistence.Snap(s)); saveErr != nil && err == nil {
		err = saveErr
	}
	if err != nil {
		return err
	}

	control.RefreshAll(s)
	for _, o := range outcomes {
		reportOutcome(o)
	}
	return nil
}

func reportOutcome(o *sop.CardOutcome) {
	fmt.Printf("card %d: winter=%v arverni_phase=%v decisions=%d game_over=%v\n",
		o.Card.ID, o.Card.Winter, o.ArverniPhase, len(o.Decisions), o.GameOver)
	if r := o.WinterReport; r != nil {
		fmt.Printf("  senate=%s desertions=%d\n", r.SenateShift, r.QuartersDesertions)
		if r.GameOver {
			fmt.Printf("  game over, winner=%s\n", r.Winner)
		}
	}
}

func cmdDumpJSON(args []string) error {
	s, db, _, err := loadSave(args)
	if err != nil {
		return err
	}
	defer db.Close()

	blob, err := json.MarshalIndent(persistence.Snap(s), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(blob))
	return nil
}

func loadSave(args []string) (*state.State, *persistence.DB, string, error) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	dbPath := fs.String("db", "gallia.db", "save database path")
	saveID := fs.String("save", "", "save id")
	fs.Parse(args)

	if *saveID == "" {
		return nil, nil, "", fmt.Errorf("--save is required")
	}
	db, err := persistence.Open(*dbPath)
	if err != nil {
		return nil, nil, "", err
	}
	snap, err := db.Load(*saveID)
	if err != nil {
		db.Close()
		return nil, nil, "", err
	}
	return persistence.Restore(snap), db, *saveID, nil
}
