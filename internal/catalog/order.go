package catalog

// CanonicalFactionOrder returns the fixed tie-break order used wherever a
// deterministic faction ordering is required but no card-specific order
// applies (spec §5, Ordering guarantees).
func CanonicalFactionOrder() []Faction {
	return AllFactions()
}

// VictoryTieBreakOrder returns the scenario-specific faction ranking used
// to break a tied Victory check (spec §4.9, Tie-breaking).
func VictoryTieBreakOrder(s Scenario) []Faction {
	if s.IsAriovistusRuleset() {
		return []Faction{Romans, Germans, Aedui, Belgae}
	}
	return []Faction{Romans, Arverni, Aedui, Belgae}
}
