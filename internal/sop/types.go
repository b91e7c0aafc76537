// Package sop implements the Sequence-of-Play engine (spec §4.6): the
// deck, the eligibility cascade, the carnyx and winter triggers, and the
// Command/SA/Battle dispatch that turns a policy's ActionDecision into
// state mutations. It is the orchestrator that ties every other package
// together, mirroring the teacher's single ordered tick function
// (_examples/tobyjaguar-mini-world/internal/engine/tick.go) dispatching
// to phase helpers, generalized here to a card-by-card cascade instead
// of a fixed per-tick phase list.
package sop

import (
	"github.com/talgya/gallia-engine/internal/battle"
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/commands"
	"github.com/talgya/gallia-engine/internal/specialact"
	"github.com/talgya/gallia-engine/internal/state"
)

// CmdKind is a closed enumeration of the four Sequence-of-Play commands,
// plus Battle, which a Gallic faction may choose directly as an action
// (spec §4.3, §4.5).
type CmdKind uint8

const (
	CmdRally CmdKind = iota
	CmdMarch
	CmdRaid
	CmdSeize
	CmdBattle
)

func (k CmdKind) String() string {
	switch k {
	case CmdRally:
		return "Rally"
	case CmdMarch:
		return "March"
	case CmdRaid:
		return "Raid"
	case CmdSeize:
		return "Seize"
	case CmdBattle:
		return "Battle"
	default:
		return "UnknownCommand"
	}
}

// SaKind is a closed enumeration of the twelve Special Activities (spec
// §4.4).
type SaKind uint8

const (
	SaNone SaKind = iota
	SaAmbush
	SaScout
	SaBuild
	SaBesiege
	SaEntreat
	SaDevastate
	SaTrade
	SaSuborn
	SaEnlist
	SaRampage
	SaSettle
	SaIntimidate
)

func (k SaKind) String() string {
	switch k {
	case SaAmbush:
		return "Ambush"
	case SaScout:
		return "Scout"
	case SaBuild:
		return "Build"
	case SaBesiege:
		return "Besiege"
	case SaEntreat:
		return "Entreat"
	case SaDevastate:
		return "Devastate"
	case SaTrade:
		return "Trade"
	case SaSuborn:
		return "Suborn"
	case SaEnlist:
		return "Enlist"
	case SaRampage:
		return "Rampage"
	case SaSettle:
		return "Settle"
	case SaIntimidate:
		return "Intimidate"
	default:
		return "None"
	}
}

// attachesTo is the SA table's "attaches to" column (spec §4.4). A nil/
// missing entry means the SA attaches to nothing (should not occur for a
// real SaKind other than SaNone).
var attachesTo = map[SaKind][]CmdKind{
	SaAmbush:     {CmdBattle},
	SaScout:      {CmdRally, CmdMarch, CmdRaid, CmdSeize, CmdBattle},
	SaBuild:      {CmdRally, CmdMarch, CmdSeize},
	SaBesiege:    {CmdBattle},
	SaEntreat:    {CmdRally, CmdMarch, CmdRaid, CmdSeize, CmdBattle},
	SaDevastate:  {CmdRally, CmdMarch, CmdRaid, CmdSeize, CmdBattle},
	SaTrade:      {CmdRally, CmdMarch, CmdRaid, CmdSeize, CmdBattle},
	SaSuborn:     {CmdRally, CmdMarch, CmdRaid},
	SaEnlist:     {CmdRally, CmdMarch, CmdRaid, CmdSeize, CmdBattle},
	SaRampage:    {CmdRally, CmdRaid, CmdBattle},
	SaSettle:     {CmdRally, CmdMarch},
	SaIntimidate: {CmdMarch, CmdRaid, CmdBattle},
}

// Attaches reports whether sa may legally attach to cmd.
func Attaches(sa SaKind, cmd CmdKind) bool {
	for _, c := range attachesTo[sa] {
		if c == cmd {
			return true
		}
	}
	return false
}

// CommandInvocation is supplied by the policy layer already carrying
// validated parameters for exactly one command. Kind identifies which
// command it is (for attachment/eligibility checks); Execute performs it.
// Concrete adapters (RallyCmd, MarchCmd, RaidCmd, SeizeCmd, BattleCmd)
// wrap the parameter structs each command package already defines.
type CommandInvocation interface {
	Kind() CmdKind
	Execute(s *state.State) (*commands.Result, error)
}

// SAInvocation is supplied by the policy layer already carrying validated
// parameters for exactly one Special Activity.
type SAInvocation interface {
	Kind() SaKind
	Execute(s *state.State) error
}

// RallyCmd wraps commands.Rally.
type RallyCmd struct {
	Faction    catalog.Faction
	Placements []commands.RegionPlacement
}

func (c RallyCmd) Kind() CmdKind { return CmdRally }
func (c RallyCmd) Execute(s *state.State) (*commands.Result, error) {
	return commands.Rally(s, c.Faction, c.Placements)
}

// MarchCmd wraps commands.March.
type MarchCmd struct {
	Faction catalog.Faction
	Origin  catalog.Region
	Group   commands.MarchGroup
	Path    []commands.MarchStep
	Opts    commands.MarchOpts
}

func (c MarchCmd) Kind() CmdKind { return CmdMarch }
func (c MarchCmd) Execute(s *state.State) (*commands.Result, error) {
	return commands.March(s, c.Faction, c.Origin, c.Group, c.Path, c.Opts)
}

// RaidCmd wraps commands.Raid.
type RaidCmd struct {
	Faction catalog.Faction
	Region  catalog.Region
	Count   int
	Choices []commands.RaidChoice
}

func (c RaidCmd) Kind() CmdKind { return CmdRaid }
func (c RaidCmd) Execute(s *state.State) (*commands.Result, error) {
	return commands.Raid(s, c.Faction, c.Region, c.Count, c.Choices)
}

// SeizeCmd wraps commands.Seize. Seize's richer SeizeResult is reduced to
// the embedded Result for the CommandInvocation interface; callers that
// need Dispersed/Opportunities/ForageGain should call commands.Seize
// directly and drive the engine through a custom Policy instead.
type SeizeCmd struct {
	Region     catalog.Region
	Harassment commands.HarassmentDecider
}

func (c SeizeCmd) Kind() CmdKind { return CmdSeize }
func (c SeizeCmd) Execute(s *state.State) (*commands.Result, error) {
	res, err := commands.Seize(s, c.Region, c.Harassment)
	if err != nil {
		return nil, err
	}
	return &res.Result, nil
}

// BattleCmd wraps battle.Resolve. Battle has no per-faction resource cost
// of its own, so Execute returns a synthesized Result for uniform
// reporting.
type BattleCmd struct {
	Params battle.Params
}

func (c BattleCmd) Kind() CmdKind { return CmdBattle }
func (c BattleCmd) Execute(s *state.State) (*commands.Result, error) {
	_, err := battle.Resolve(s, c.Params)
	if err != nil {
		return nil, err
	}
	return &commands.Result{Faction: c.Params.Attacker, Name: "Battle", Regions: []catalog.Region{c.Params.Region}}, nil
}

// AmbushSA wraps specialact.Ambush.
type AmbushSA struct{ Region catalog.Region; Attacker, Defender catalog.Faction }

func (a AmbushSA) Kind() SaKind { return SaAmbush }
func (a AmbushSA) Execute(s *state.State) error {
	return specialact.Ambush(s, a.Region, a.Attacker, a.Defender)
}

// ScoutMoveSA wraps specialact.ScoutMove (the movement half of Scout).
type ScoutMoveSA struct {
	From, To catalog.Region
	State    catalog.PieceState
}

func (a ScoutMoveSA) Kind() SaKind { return SaScout }
func (a ScoutMoveSA) Execute(s *state.State) error {
	return specialact.ScoutMove(s, a.From, a.To, a.State)
}

// ScoutMarkSA wraps specialact.ScoutMark (the marking half of Scout).
type ScoutMarkSA struct {
	Region catalog.Region
	Target catalog.Faction
}

func (a ScoutMarkSA) Kind() SaKind { return SaScout }
func (a ScoutMarkSA) Execute(s *state.State) error {
	return specialact.ScoutMark(s, a.Region, a.Target)
}

// BuildSA wraps specialact.Build.
type BuildSA struct {
	Region                         catalog.Region
	PlaceFort                      bool
	SubdueOrAllyTribe              catalog.Tribe
	PlaceAlly                      bool
	IsSeizeTarget                  bool
}

func (a BuildSA) Kind() SaKind { return SaBuild }
func (a BuildSA) Execute(s *state.State) error {
	_, err := specialact.Build(s, a.Region, a.PlaceFort, a.SubdueOrAllyTribe, a.PlaceAlly, a.IsSeizeTarget)
	return err
}

// BesiegeSA wraps specialact.Besiege. In normal play this fires as a side
// effect of BattleCmd.Params.BesiegeTarget; this adapter exists so the
// attachment table and eligibility bookkeeping can still name it as the
// chosen SA for a CommandWithSA decision.
type BesiegeSA struct {
	Region   catalog.Region
	Defender catalog.Faction
}

func (a BesiegeSA) Kind() SaKind { return SaBesiege }
func (a BesiegeSA) Execute(s *state.State) error {
	return specialact.Besiege(s, a.Region, a.Defender)
}

// EntreatSA wraps specialact.Entreat.
type EntreatSA struct {
	Region       catalog.Region
	TargetFaction catalog.Faction
	TargetKind   catalog.PieceKind
	TargetState  catalog.PieceState
}

func (a EntreatSA) Kind() SaKind { return SaEntreat }
func (a EntreatSA) Execute(s *state.State) error {
	_, err := specialact.Entreat(s, a.Region, a.TargetFaction, a.TargetKind, a.TargetState)
	return err
}

// DevastateSA wraps specialact.Devastate.
type DevastateSA struct{ Region catalog.Region }

func (a DevastateSA) Kind() SaKind { return SaDevastate }
func (a DevastateSA) Execute(s *state.State) error {
	_, err := specialact.Devastate(s, a.Region)
	return err
}

// TradeSA wraps specialact.Trade.
type TradeSA struct {
	RomansAgree    bool
	SupplyLinePass func(catalog.Region) bool
}

func (a TradeSA) Kind() SaKind { return SaTrade }
func (a TradeSA) Execute(s *state.State) error {
	_, err := specialact.Trade(s, a.RomansAgree, a.SupplyLinePass)
	return err
}

// SubornSA wraps specialact.Suborn.
type SubornSA struct {
	Region catalog.Region
	Ops    []specialact.SubornOp
}

func (a SubornSA) Kind() SaKind { return SaSuborn }
func (a SubornSA) Execute(s *state.State) error {
	_, err := specialact.Suborn(s, a.Region, a.Ops)
	return err
}

// EnlistAsBelgicSA wraps specialact.EnlistAsBelgic.
type EnlistAsBelgicSA struct{ Region catalog.Region }

func (a EnlistAsBelgicSA) Kind() SaKind { return SaEnlist }
func (a EnlistAsBelgicSA) Execute(s *state.State) error {
	return specialact.EnlistAsBelgic(s, a.Region)
}

// EnlistFreeCommandSA wraps specialact.EnlistFreeGermanicCommand.
type EnlistFreeCommandSA struct {
	Region            catalog.Region
	AttachedIsBattle  bool
	IsAmbush          bool
}

func (a EnlistFreeCommandSA) Kind() SaKind { return SaEnlist }
func (a EnlistFreeCommandSA) Execute(s *state.State) error {
	return specialact.EnlistFreeGermanicCommand(s, a.Region, a.AttachedIsBattle, a.IsAmbush)
}

// RampageSA wraps specialact.Rampage.
type RampageSA struct {
	Region    catalog.Region
	Count     int
	Target    catalog.Faction
	RetreatTo []*catalog.Region
}

func (a RampageSA) Kind() SaKind { return SaRampage }
func (a RampageSA) Execute(s *state.State) error {
	_, err := specialact.Rampage(s, a.Region, a.Count, a.Target, a.RetreatTo)
	return err
}

// SettleSA wraps specialact.Settle.
type SettleSA struct {
	Region        catalog.Region
	ExtraAdjacent map[catalog.Region]bool
}

func (a SettleSA) Kind() SaKind { return SaSettle }
func (a SettleSA) Execute(s *state.State) error {
	_, err := specialact.Settle(s, a.Region, a.ExtraAdjacent)
	return err
}

// IntimidateSA wraps specialact.Intimidate.
type IntimidateSA struct {
	Region    catalog.Region
	FlipCount int
	Target    catalog.Faction
}

func (a IntimidateSA) Kind() SaKind { return SaIntimidate }
func (a IntimidateSA) Execute(s *state.State) error {
	_, err := specialact.Intimidate(s, a.Region, a.FlipCount, a.Target)
	return err
}
