package catalog_test

import (
	"testing"

	"github.com/talgya/gallia-engine/internal/catalog"
)

func TestCapLeaderDiscCountPerFaction(t *testing.T) {
	cases := []struct {
		faction catalog.Faction
		want    int
	}{
		{catalog.Romans, 2},
		{catalog.Arverni, 2},
		{catalog.Aedui, 2},
		{catalog.Belgae, 3},
		{catalog.Germans, 2},
	}
	for _, c := range cases {
		t.Run(c.faction.String(), func(t *testing.T) {
			if got := catalog.Cap(catalog.GreatRevolt, c.faction, catalog.Leader); got != c.want {
				t.Errorf("Cap(_, %s, Leader) = %d, want %d", c.faction, got, c.want)
			}
		})
	}
}

func TestCapLegionScalesByRuleset(t *testing.T) {
	if got := catalog.Cap(catalog.GreatRevolt, catalog.Romans, catalog.Legion); got != 10 {
		t.Errorf("base-game Legion cap = %d, want 10", got)
	}
	if got := catalog.Cap(catalog.Ariovistus, catalog.Romans, catalog.Legion); got != 12 {
		t.Errorf("Ariovistus Legion cap = %d, want 12", got)
	}
}

func TestCapSettlementOnlyGermansUnderAriovistus(t *testing.T) {
	if got := catalog.Cap(catalog.Ariovistus, catalog.Germans, catalog.Settlement); got != 8 {
		t.Errorf("Ariovistus Germans Settlement cap = %d, want 8", got)
	}
	if got := catalog.Cap(catalog.GreatRevolt, catalog.Germans, catalog.Settlement); got != 0 {
		t.Errorf("base-game Germans Settlement cap = %d, want 0", got)
	}
	if got := catalog.Cap(catalog.Ariovistus, catalog.Aedui, catalog.Settlement); got != 0 {
		t.Errorf("Ariovistus Aedui Settlement cap = %d, want 0", got)
	}
}

func TestLegionsTrackRowCapIsHalfLegionCap(t *testing.T) {
	for _, sc := range []catalog.Scenario{catalog.GreatRevolt, catalog.Ariovistus} {
		want := catalog.LegionCap(sc) / 2
		if got := catalog.LegionsTrackRowCap(sc); got != want {
			t.Errorf("%s: LegionsTrackRowCap = %d, want %d", sc, got, want)
		}
	}
}

func TestHomeRegionsRomansHaveNone(t *testing.T) {
	if got := catalog.HomeRegions(catalog.Romans); got != nil {
		t.Errorf("HomeRegions(Romans) = %v, want nil", got)
	}
}

func TestIsHomeRegion(t *testing.T) {
	if !catalog.IsHomeRegion(catalog.Arverni, catalog.Arverni_) {
		t.Error("Arverni_ should be Arverni's home region")
	}
	if catalog.IsHomeRegion(catalog.Arverni, catalog.Provincia) {
		t.Error("Provincia should not be Arverni's home region")
	}
}

func TestParseScenarioRoundTrips(t *testing.T) {
	cases := []struct {
		name string
		want catalog.Scenario
	}{
		{"pax-gallica", catalog.PaxGallica},
		{"reconquest", catalog.Reconquest},
		{"great-revolt", catalog.GreatRevolt},
		{"ariovistus", catalog.Ariovistus},
		{"gallic-war", catalog.GallicWar},
	}
	for _, c := range cases {
		got, ok := catalog.ParseScenario(c.name)
		if !ok || got != c.want {
			t.Errorf("ParseScenario(%q) = (%v, %v), want (%v, true)", c.name, got, ok, c.want)
		}
	}
	if _, ok := catalog.ParseScenario("not-a-scenario"); ok {
		t.Error("ParseScenario(\"not-a-scenario\") should report !ok")
	}
}

func TestParseFactionRoundTrips(t *testing.T) {
	for _, f := range catalog.AllFactions() {
		name := map[catalog.Faction]string{
			catalog.Romans:  "romans",
			catalog.Arverni: "arverni",
			catalog.Aedui:   "aedui",
			catalog.Belgae:  "belgae",
			catalog.Germans: "germans",
		}[f]
		got, ok := catalog.ParseFaction(name)
		if !ok || got != f {
			t.Errorf("ParseFaction(%q) = (%v, %v), want (%v, true)", name, got, ok, f)
		}
	}
	if _, ok := catalog.ParseFaction("gauls"); ok {
		t.Error("ParseFaction(\"gauls\") should report !ok")
	}
}
