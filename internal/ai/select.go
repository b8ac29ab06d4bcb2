package ai

import (
	"math/rand"

	"github.com/evglabs/superdeck/internal/game"
)

// Profile is a weighted-preference behavior used to score candidate cards.
type Profile struct {
	Name        string                     `json:"name"`
	TypeWeights map[game.CardType]float64  `json:"type_weights"`
	SuitWeights map[game.Suit]float64      `json:"suit_weights"`
	// DefensiveThreshold is the fraction of max HP below which defense
	// cards get a 2x score boost.
	DefensiveThreshold float64 `json:"defensive_threshold"`
	// RandomnessFactor jitters every score by up to ±factor so repeated
	// battles against the same profile do not play identically.
	RandomnessFactor float64 `json:"randomness_factor"`
}

var profiles = map[string]*Profile{
	"balanced": {
		Name: "balanced",
		TypeWeights: map[game.CardType]float64{
			game.CardTypeAttack:  1.0,
			game.CardTypeDefense: 1.0,
			game.CardTypeSkill:   1.0,
		},
		SuitWeights:        map[game.Suit]float64{},
		DefensiveThreshold: 0.35,
		RandomnessFactor:   0.15,
	},
	"aggressive": {
		Name: "aggressive",
		TypeWeights: map[game.CardType]float64{
			game.CardTypeAttack:  1.6,
			game.CardTypeDefense: 0.6,
			game.CardTypeSkill:   0.9,
		},
		SuitWeights:        map[game.Suit]float64{game.SuitBlade: 1.2},
		DefensiveThreshold: 0.2,
		RandomnessFactor:   0.2,
	},
	"defensive": {
		Name: "defensive",
		TypeWeights: map[game.CardType]float64{
			game.CardTypeAttack:  0.7,
			game.CardTypeDefense: 1.5,
			game.CardTypeSkill:   1.0,
		},
		SuitWeights:        map[game.Suit]float64{game.SuitShield: 1.2},
		DefensiveThreshold: 0.5,
		RandomnessFactor:   0.1,
	},
}

// LookupProfile returns a named behavior profile, or nil when unknown so
// callers fall back to the default heuristic.
func LookupProfile(name string) *Profile { return profiles[name] }

// DefaultProfile is used when auto-play is enabled without a profile.
func DefaultProfile() *Profile { return profiles["balanced"] }

// SelectCards greedily picks up to slots cards from hand, scoring every
// remaining candidate each iteration and taking the single best. It is
// deliberately greedy per slot, not globally optimal, so selection stays
// cheap and reproducible under a seeded random source. The HP-advantage
// comparison is evaluated once for the whole call, not per pick.
func SelectCards(hand []*game.Card, slots int, profile *Profile, self, opponent *game.Combatant, rng *rand.Rand) []*game.Card {
	if slots > len(hand) {
		slots = len(hand)
	}
	if slots <= 0 {
		return nil
	}
	if profile == nil {
		return selectFallback(hand, slots, rng)
	}

	lowHP := self.MaxHP > 0 && float64(self.HP) <= profile.DefensiveThreshold*float64(self.MaxHP)
	hasAdvantage := hpRatio(self) > hpRatio(opponent)

	pool := make([]*game.Card, len(hand))
	copy(pool, hand)

	picked := make([]*game.Card, 0, slots)
	for len(picked) < slots && len(pool) > 0 {
		bestIdx := 0
		bestScore := -1.0
		for i, c := range pool {
			score := scoreCard(c, profile, lowHP, hasAdvantage, rng)
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		picked = append(picked, pool[bestIdx])
		pool = append(pool[:bestIdx], pool[bestIdx+1:]...)
	}
	return picked
}

func scoreCard(c *game.Card, p *Profile, lowHP, hasAdvantage bool, rng *rand.Rand) float64 {
	score := weightOr(p.TypeWeights[c.Type], 1.0)
	if lowHP && c.Type == game.CardTypeDefense {
		score *= 2.0
	}
	if hasAdvantage && c.Type == game.CardTypeAttack {
		score *= 1.5
	}
	score *= weightOr(p.SuitWeights[c.Suit], 1.0)
	score *= 1.0 + (rng.Float64()*2-1)*p.RandomnessFactor
	return score
}

func weightOr(w, fallback float64) float64 {
	if w == 0 {
		return fallback
	}
	return w
}

func hpRatio(c *game.Combatant) float64 {
	if c.MaxHP == 0 {
		return 0
	}
	return float64(c.HP) / float64(c.MaxHP)
}

// selectFallback prefers attack, then defense, then anything else, with
// random tie-breaks inside each band.
func selectFallback(hand []*game.Card, slots int, rng *rand.Rand) []*game.Card {
	rank := func(c *game.Card) int {
		switch c.Type {
		case game.CardTypeAttack:
			return 0
		case game.CardTypeDefense:
			return 1
		default:
			return 2
		}
	}
	pool := make([]*game.Card, len(hand))
	copy(pool, hand)
	// random shuffle first so equal ranks break ties randomly
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	for i := 1; i < len(pool); i++ {
		for j := i; j > 0 && rank(pool[j]) < rank(pool[j-1]); j-- {
			pool[j], pool[j-1] = pool[j-1], pool[j]
		}
	}
	if slots > len(pool) {
		slots = len(pool)
	}
	return pool[:slots]
}
