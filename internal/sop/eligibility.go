package sop

import (
	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/control"
	"github.com/talgya/gallia-engine/internal/state"
)

// allowedFor computes the filtered option set for f at position pos,
// given what the prior actor this card (if any) decided (spec §4.6, Card
// turn). The restriction table matches the spec's own example literally:
// "if first plays Event, second may still Command."
func allowedFor(s *state.State, pos Position, prior *ActionDecision) AllowedActions {
	aa := AllowedActions{Pass: true}

	frost := s.HasGlobalMarker(catalog.MarkerFrost)
	cmds := []CmdKind{CmdRally, CmdRaid, CmdSeize, CmdBattle}
	if !frost {
		cmds = append(cmds, CmdMarch)
	}
	aa.AllowedCmds = cmds

	if pos == FirstEligible || prior == nil || prior.Kind == DecPass {
		aa.Event = true
		aa.CommandWithSA = true
		aa.Command = true
		return aa
	}
	switch prior.Kind {
	case DecEvent:
		aa.CommandWithSA = true
		aa.Command = true
	case DecCommand, DecCommandWithSA:
		aa.LimitedCommand = true
	case DecLimitedCommand:
		aa.LimitedCommand = true
	}
	return aa
}

// restrictCmdsToFaction narrows AllowedCmds to what f may legally choose
// (Seize is Roman-only; base-game Germans/Ariovistus Arverni never act in
// the SoP cascade at all, since they are the Non-Player faction and the
// caller never reaches allowedFor for them).
func restrictCmdsToFaction(aa AllowedActions, f catalog.Faction) AllowedActions {
	if f == catalog.Romans {
		return aa
	}
	out := aa
	out.AllowedCmds = nil
	for _, c := range aa.AllowedCmds {
		if c == CmdSeize {
			continue
		}
		out.AllowedCmds = append(out.AllowedCmds, c)
	}
	return out
}

// passGain is the resource award for a faction choosing Pass (spec
// §4.6, "Eligibility after action").
func passGain(f catalog.Faction, s catalog.Scenario) int {
	switch {
	case f == catalog.Romans:
		return 3
	case f == catalog.Germans && s.IsAriovistusRuleset():
		return 2
	default:
		return 1
	}
}

func grantResources(s *state.State, f catalog.Faction, n int) {
	total := s.Resources[f] + n
	if total > catalog.ResourceCap {
		total = catalog.ResourceCap
	}
	s.Resources[f] = total
}

// isArverniAtWar derives the Ariovistus At-War flag (spec §4.6, Carnyx
// trigger; Glossary "At War"): true if any enemy piece sits in an Arverni
// home region, or any enemy holds an Ally in an Arverni-Controlled
// Celtica region.
func isArverniAtWar(s *state.State) bool {
	for _, r := range catalog.HomeRegions(catalog.Arverni) {
		cell := s.Region(r)
		for f, b := range cell.Pieces {
			if f == catalog.Arverni {
				continue
			}
			if b.Total(f == catalog.Romans) > 0 {
				return true
			}
		}
	}
	for _, r := range catalog.PlayableRegions() {
		if !catalog.InGroup(r, catalog.GroupCeltica) {
			continue
		}
		if control.Of(s, r) != catalog.Arverni {
			continue
		}
		for f, b := range s.Region(r).Pieces {
			if f == catalog.Arverni {
				continue
			}
			if b.Allies > 0 {
				return true
			}
		}
	}
	return false
}

// applyDeferredIneligibility applies last card's LimitedCommand deferral
// (spec §2.3.6) at the start of this card turn, then clears the flags.
func applyDeferredIneligibility(s *state.State) {
	for f, deferred := range s.DeferredIneligible {
		if deferred {
			s.Eligible[f] = false
		}
	}
	s.DeferredIneligible = make(map[catalog.Faction]bool)
}
