package sop

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/state"
)

// Position names a faction's place in a card's eligibility cascade (spec
// §4.6, Card turn). The engine only ever solicits a first and a second
// eligible faction per card; factions further down the order act on a
// later card, unaffected by this one.
type Position uint8

const (
	FirstEligible Position = iota
	SecondEligible
)

func (p Position) String() string {
	if p == FirstEligible {
		return "First Eligible"
	}
	return "Second Eligible"
}

// DecisionKind is the tag of the ActionDecision union (spec §6.1).
type DecisionKind uint8

const (
	DecEvent DecisionKind = iota
	DecCommandWithSA
	DecCommand
	DecLimitedCommand
	DecPass
)

func (k DecisionKind) String() string {
	switch k {
	case DecEvent:
		return "Event"
	case DecCommandWithSA:
		return "Command+SA"
	case DecCommand:
		return "Command"
	case DecLimitedCommand:
		return "LimitedCommand"
	case DecPass:
		return "Pass"
	default:
		return "UnknownDecision"
	}
}

// ActionDecision is the tagged union a Policy returns from Decide (spec
// §6.1). Exactly the fields relevant to Kind are read; the zero value
// (DecPass) is always a legal decision.
type ActionDecision struct {
	Kind DecisionKind

	// EventShaded selects the Event's side; only read when Kind is
	// DecEvent. EventParams carries the card-specific parameters the
	// handler requires (spec §6.2).
	EventShaded bool
	EventParams map[string]any

	// Command carries the command to execute for DecCommandWithSA,
	// DecCommand, and DecLimitedCommand. For DecLimitedCommand the
	// policy is responsible for supplying parameters already scoped to
	// the card's Limited restriction (typically a single region); the
	// engine does not itself truncate a full command's scope.
	Command CommandInvocation

	// SA carries the attached Special Activity; only read when Kind is
	// DecCommandWithSA. The engine validates SA.Kind() attaches to
	// Command.Kind() via Attaches before executing either.
	SA SAInvocation
}

// AllowedActions is the filtered option set passed to a Policy's Decide
// call (spec §6.1). Pass is always legal; the rest are gated by Frost,
// eligibility, and the cascade restriction described at Position.
type AllowedActions struct {
	Event          bool
	CommandWithSA  bool
	Command        bool
	LimitedCommand bool
	Pass           bool

	// AllowedCmds is the set of CmdKind legal to choose this turn (Seize
	// restricted to Romans, March excluded under Frost).
	AllowedCmds []CmdKind
}

// HasCmd reports whether k is in AllowedCmds.
func (a AllowedActions) HasCmd(k CmdKind) bool {
	for _, c := range a.AllowedCmds {
		if c == k {
			return true
		}
	}
	return false
}

// Policy answers the engine's decide(state, faction, allowed, position)
// callback (spec §6.1). Implementations must return a member of allowed;
// the engine does not re-validate the legality of the chosen category
// beyond the Kind-level AllowedActions flags. Policy must not mutate the
// passed state (spec §5, Suspension points).
type Policy interface {
	Decide(s *state.State, f catalog.Faction, allowed AllowedActions, pos Position) ActionDecision
}
