package sop

import (
	"log/slog"

	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/gameerr"
	"github.com/talgya/gallia-engine/internal/nonplayer"
	"github.com/talgya/gallia-engine/internal/state"
	"github.com/talgya/gallia-engine/internal/winter"
)

// Engine runs the Sequence of Play (spec §4.6) over a *state.State:
// drawing cards, running the carnyx and Winter triggers, cascading the
// eligibility order through up to two Policy callbacks per card, and
// applying the resulting eligibility/resource bookkeeping.
type Engine struct {
	State    *state.State
	Deck     []CardMeta
	Pos      int
	Policies map[catalog.Faction]Policy
	Events   EventRegistry
}

// New builds an Engine over an already-constructed, validated State and a
// freshly-built deck (see BuildDeck). Policies must have an entry for
// every SoP-active faction of the state's scenario; the Non-Player
// faction (spec §4.6) is never asked.
func New(s *state.State, deck []CardMeta, policies map[catalog.Faction]Policy, events EventRegistry) *Engine {
	if events == nil {
		events = NewEventRegistry()
	}
	return &Engine{State: s, Deck: deck, Policies: policies, Events: events}
}

// CardOutcome summarizes one PlayCard call, for logging/replay.
type CardOutcome struct {
	Card         CardMeta
	ArverniPhase bool
	WinterReport *winter.Report
	Decisions    []FactionDecision
	GameOver     bool
}

// FactionDecision records what one faction did on this card.
type FactionDecision struct {
	Faction  catalog.Faction
	Position Position
	Decision ActionDecision
	Err      error // non-nil if the action was rejected and rolled back to Pass
}

// ErrDeckExhausted is returned by PlayCard when the deck has been fully
// drawn (the caller is expected to have stopped at the Final Winter's
// GameOver report; this only fires if play continues past it).
var ErrDeckExhausted = gameerr.New(gameerr.UnknownRegion, "deck is exhausted")

// PlayCard draws the next card and runs one full card turn (spec §4.6):
// applies last card's deferred ineligibility, checks the carnyx trigger,
// runs the Winter Round on a Winter card, or else cascades the
// eligibility order through up to two Policy decisions.
func (e *Engine) PlayCard() (*CardOutcome, error) {
	if e.Pos >= len(e.Deck) {
		return nil, ErrDeckExhausted
	}
	card := e.Deck[e.Pos]
	e.Pos++
	slog.Info("card turn starting", "card_id", card.ID, "winter", card.Winter, "carnyx", card.Carnyx)

	applyDeferredIneligibility(e.State)
	e.State.CurrentCard = card.ID
	e.State.EventModifiers = make(map[string]any)

	outcome := &CardOutcome{Card: card}

	if card.Carnyx {
		e.State.AtWar = isArverniAtWar(e.State)
	}
	if card.Carnyx && e.State.AtWar {
		slog.Info("carnyx trigger: running Arverni phase", "card_id", card.ID)
		if err := nonplayer.ArverniPhase(e.State, e.State.HasGlobalMarker(catalog.MarkerFrost)); err != nil {
			return outcome, err
		}
		outcome.ArverniPhase = true
	}

	if card.Winter {
		report, err := winter.Run(e.State)
		if err != nil {
			return outcome, err
		}
		outcome.WinterReport = report
		outcome.GameOver = report.GameOver
		e.State.PlayedCards = append(e.State.PlayedCards, card.ID)
		e.State.EventModifiers = nil
		return outcome, nil
	}

	var prior *ActionDecision
	pos := FirstEligible
	acted := 0
	for _, f := range card.Order {
		if acted >= 2 {
			break
		}
		if !e.State.Eligible[f] {
			continue
		}
		allowed := restrictCmdsToFaction(allowedFor(e.State, pos, prior), f)
		policy := e.Policies[f]
		decision := policy.Decide(e.State, f, allowed, pos)

		err := e.apply(f, decision, allowed)
		outcome.Decisions = append(outcome.Decisions, FactionDecision{Faction: f, Position: pos, Decision: decision, Err: err})
		if err != nil {
			if gameerr.Is(err, gameerr.InvariantViolation) {
				return outcome, err
			}
			slog.Warn("decision rejected, faction recorded as passed", "faction", f, "position", pos, "err", err)
		} else {
			slog.Debug("decision applied", "faction", f, "position", pos, "kind", decision.Kind)
		}

		acted++
		prior = &decision
		pos = SecondEligible
	}

	e.State.PlayedCards = append(e.State.PlayedCards, card.ID)
	e.State.EventModifiers = nil
	return outcome, nil
}

// apply executes one faction's decision and updates eligibility/resources
// per spec §4.6's "Eligibility after action" table. A domain-error
// rejection does not cascade: the faction's turn is rolled back (the
// underlying Command/SA call already refunded any partial cost) and
// recorded as having effectively passed, without granting pass resources
// it never chose to take (spec §7, Propagation policy).
func (e *Engine) apply(f catalog.Faction, d ActionDecision, allowed AllowedActions) error {
	s := e.State
	switch d.Kind {
	case DecEvent:
		if !allowed.Event {
			return gameerr.New(gameerr.EligibilityViolation, "Event is not available at this cascade position")
		}
		if err := e.Events.Execute(s, s.CurrentCard, d.EventShaded, d.EventParams); err != nil {
			return err
		}
		s.Eligible[f] = false

	case DecCommandWithSA:
		if !allowed.CommandWithSA {
			return gameerr.New(gameerr.EligibilityViolation, "Command+SA is not available at this cascade position")
		}
		if d.Command == nil || d.SA == nil {
			return gameerr.New(gameerr.EligibilityViolation, "Command+SA requires both a command and a Special Activity")
		}
		if !allowed.HasCmd(d.Command.Kind()) {
			return gameerr.Newf(gameerr.EligibilityViolation, "%s may not choose %s this turn", f, d.Command.Kind())
		}
		if !Attaches(d.SA.Kind(), d.Command.Kind()) {
			return gameerr.Newf(gameerr.EligibilityViolation, "%s does not attach to %s", d.SA.Kind(), d.Command.Kind())
		}
		if _, err := d.Command.Execute(s); err != nil {
			return err
		}
		if err := d.SA.Execute(s); err != nil {
			return err
		}
		s.Eligible[f] = false

	case DecCommand:
		if !allowed.Command {
			return gameerr.New(gameerr.EligibilityViolation, "Command is not available at this cascade position")
		}
		if d.Command == nil || !allowed.HasCmd(d.Command.Kind()) {
			return gameerr.New(gameerr.EligibilityViolation, "no legal command supplied")
		}
		if _, err := d.Command.Execute(s); err != nil {
			return err
		}
		s.Eligible[f] = false

	case DecLimitedCommand:
		if !allowed.LimitedCommand {
			return gameerr.New(gameerr.EligibilityViolation, "LimitedCommand is not available at this cascade position")
		}
		if d.Command == nil || !allowed.HasCmd(d.Command.Kind()) {
			return gameerr.New(gameerr.EligibilityViolation, "no legal command supplied")
		}
		if _, err := d.Command.Execute(s); err != nil {
			return err
		}
		// Eligibility is deferred to the next card rather than lost now
		// (spec §2.3.6).
		s.DeferredIneligible[f] = true

	case DecPass:
		s.Eligible[f] = true
		grantResources(s, f, passGain(f, s.Scenario))

	default:
		return gameerr.Newf(gameerr.EligibilityViolation, "unknown decision kind %d", d.Kind)
	}

	control.RefreshAll(s)
	return nil
}

// RunToWinter plays cards until a Winter card has been resolved (or the
// deck is exhausted), returning every CardOutcome produced along the way.
// A fatal InvariantViolation or game-over stops the run early.
func (e *Engine) RunToWinter() ([]*CardOutcome, error) {
	var outcomes []*CardOutcome
	for {
		outcome, err := e.PlayCard()
		if outcome != nil {
			outcomes = append(outcomes, outcome)
		}
		if err != nil {
			return outcomes, err
		}
		if outcome.GameOver {
			return outcomes, nil
		}
		if outcome.Card.Winter {
			return outcomes, nil
		}
	}
}
