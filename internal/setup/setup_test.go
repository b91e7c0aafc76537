package setup_test

import (
	"testing"

	"github.com/talgya/gallia-engine/internal/catalog"
	"github.com/talgya/gallia-engine/internal/setup"
)

func TestNewAllScenariosAreSound(t *testing.T) {
	scenarios := []catalog.Scenario{
		catalog.PaxGallica,
		catalog.Reconquest,
		catalog.GreatRevolt,
		catalog.Ariovistus,
		catalog.GallicWar,
	}
	for _, sc := range scenarios {
		sc := sc
		t.Run(sc.String(), func(t *testing.T) {
			res, err := setup.New(sc, 42)
			if err != nil {
				t.Fatalf("setup.New(%s) = %v, want nil", sc, err)
			}
			if errs := res.State.Validate(); len(errs) != 0 {
				t.Fatalf("setup.New(%s) produced %d invariant violation(s), first: %v", sc, len(errs), errs[0])
			}
		})
	}
}

func TestNewProvinciaHasPermanentFort(t *testing.T) {
	res, err := setup.New(catalog.GreatRevolt, 1)
	if err != nil {
		t.Fatalf("setup.New: %v", err)
	}
	b, ok := res.State.Region(catalog.Provincia).Pieces[catalog.Romans]
	if !ok || b.Forts != 1 {
		t.Fatalf("Provincia Roman Forts = %v, want 1", b)
	}
}

func TestNewBaseGameGermansHaveNoLeaderOrResources(t *testing.T) {
	res, err := setup.New(catalog.GreatRevolt, 7)
	if err != nil {
		t.Fatalf("setup.New: %v", err)
	}
	s := res.State
	if s.Resources[catalog.Germans] != 0 {
		t.Errorf("base-game Germans Resources = %d, want 0", s.Resources[catalog.Germans])
	}
	for _, r := range catalog.AllRegions() {
		b, ok := s.Region(r).Pieces[catalog.Germans]
		if ok && b.Leader != nil {
			t.Errorf("base-game Germans have a Leader in %s, want none", r)
		}
	}
}

func TestNewAriovistusArverniHasNoLeader(t *testing.T) {
	res, err := setup.New(catalog.Ariovistus, 7)
	if err != nil {
		t.Fatalf("setup.New: %v", err)
	}
	for _, r := range catalog.AllRegions() {
		b, ok := res.State.Region(r).Pieces[catalog.Arverni]
		if ok && b.Leader != nil {
			t.Errorf("Ariovistus Arverni have a Leader in %s, want none", r)
		}
	}
}

func TestNewDeckMatchesStateDeckIDs(t *testing.T) {
	res, err := setup.New(catalog.GreatRevolt, 99)
	if err != nil {
		t.Fatalf("setup.New: %v", err)
	}
	if len(res.Deck) != len(res.State.Deck) {
		t.Fatalf("len(res.Deck) = %d, len(state.Deck) = %d, want equal", len(res.Deck), len(res.State.Deck))
	}
	for i, c := range res.Deck {
		if res.State.Deck[i] != c.ID {
			t.Errorf("state.Deck[%d] = %v, want %v", i, res.State.Deck[i], c.ID)
		}
	}
}

func TestNewIsDeterministicForSameSeed(t *testing.T) {
	a, err := setup.New(catalog.GreatRevolt, 123)
	if err != nil {
		t.Fatalf("setup.New: %v", err)
	}
	b, err := setup.New(catalog.GreatRevolt, 123)
	if err != nil {
		t.Fatalf("setup.New: %v", err)
	}
	if len(a.Deck) != len(b.Deck) {
		t.Fatalf("deck lengths differ: %d vs %d", len(a.Deck), len(b.Deck))
	}
	for i := range a.Deck {
		if a.Deck[i].ID != b.Deck[i].ID || a.Deck[i].Winter != b.Deck[i].Winter {
			t.Fatalf("deck[%d] differs between identical-seed runs: %+v vs %+v", i, a.Deck[i], b.Deck[i])
		}
	}
}
