package ai

import (
	"math/rand"
	"testing"

	"github.com/evglabs/superdeck/internal/game"
)

func testHand() []*game.Card {
	return []*game.Card{
		{ID: 1, Name: "Slash", Type: game.CardTypeAttack, Suit: game.SuitBlade},
		{ID: 2, Name: "Guard", Type: game.CardTypeDefense, Suit: game.SuitShield},
		{ID: 3, Name: "Focus", Type: game.CardTypeSkill, Suit: game.SuitArcane},
		{ID: 4, Name: "Lunge", Type: game.CardTypeAttack, Suit: game.SuitSwift},
		{ID: 5, Name: "Brace", Type: game.CardTypeDefense, Suit: game.SuitShield},
	}
}

func combatant(hp, maxHP int) *game.Combatant {
	return &game.Combatant{HP: hp, MaxHP: maxHP}
}

func TestSelectCards_ReturnsDistinctCardsFromHand(t *testing.T) {
	hand := testHand()
	rng := rand.New(rand.NewSource(7))
	picked := SelectCards(hand, 3, DefaultProfile(), combatant(50, 50), combatant(50, 50), rng)
	if len(picked) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(picked))
	}
	seen := map[uint]bool{}
	for _, c := range picked {
		if seen[c.ID] {
			t.Fatalf("card %d picked twice", c.ID)
		}
		seen[c.ID] = true
		found := false
		for _, h := range hand {
			if h == c {
				found = true
			}
		}
		if !found {
			t.Fatalf("picked card %d not from the original hand", c.ID)
		}
	}
}

func TestSelectCards_SlotsClampedToHandSize(t *testing.T) {
	hand := testHand()[:2]
	rng := rand.New(rand.NewSource(1))
	picked := SelectCards(hand, 5, DefaultProfile(), combatant(50, 50), combatant(50, 50), rng)
	if len(picked) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(picked))
	}
}

func TestSelectCards_DefensiveBoostWhenLow(t *testing.T) {
	hand := testHand()
	// At 10/50 HP with the defensive profile the doubled defense weight
	// should dominate the jitter and put a defense card first.
	prof := LookupProfile("defensive")
	defenseFirst := 0
	for seed := int64(0); seed < 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		picked := SelectCards(hand, 1, prof, combatant(10, 50), combatant(50, 50), rng)
		if picked[0].Type == game.CardTypeDefense {
			defenseFirst++
		}
	}
	if defenseFirst < 18 {
		t.Fatalf("expected defense cards to dominate when low, got %d/20", defenseFirst)
	}
}

func TestSelectCards_FallbackPrefersAttack(t *testing.T) {
	hand := testHand()
	rng := rand.New(rand.NewSource(3))
	picked := SelectCards(hand, 2, nil, combatant(50, 50), combatant(50, 50), rng)
	if len(picked) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(picked))
	}
	for _, c := range picked {
		if c.Type != game.CardTypeAttack {
			t.Fatalf("fallback should pick the two attack cards first, got %s", c.Type)
		}
	}
}

func TestSelectCards_DeterministicForSeed(t *testing.T) {
	hand := testHand()
	pick := func() []uint {
		rng := rand.New(rand.NewSource(99))
		picked := SelectCards(hand, 3, DefaultProfile(), combatant(30, 50), combatant(40, 50), rng)
		ids := make([]uint, len(picked))
		for i, c := range picked {
			ids[i] = c.ID
		}
		return ids
	}
	a, b := pick(), pick()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("selection not deterministic: %v vs %v", a, b)
		}
	}
}

func TestLookupProfile_UnknownIsNil(t *testing.T) {
	if LookupProfile("no-such-profile") != nil {
		t.Fatalf("expected nil for unknown profile")
	}
}
