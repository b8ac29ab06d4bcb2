package cardlib

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/evglabs/superdeck/internal/game"
)

// libraryFile is the top-level YAML structure of a card library file.
type libraryFile struct {
	Cards []*game.Card `yaml:"cards"`
}

// Library is the pooled, read-only card catalog. Definitions are shared;
// callers clone before handing cards to a battle.
type Library struct {
	mu      sync.RWMutex
	byID    map[uint]*game.Card
	ordered []*game.Card
}

// Load reads and validates a YAML card library file.
func Load(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lf libraryFile
	if err := yaml.Unmarshal(data, &lf); err != nil {
		return nil, fmt.Errorf("parse card library YAML: %w", err)
	}
	if len(lf.Cards) == 0 {
		return nil, fmt.Errorf("card library %s defines no cards", path)
	}

	lib := &Library{byID: make(map[uint]*game.Card, len(lf.Cards))}
	for _, c := range lf.Cards {
		if err := validate(c); err != nil {
			return nil, fmt.Errorf("card %q: %w", c.Name, err)
		}
		if _, dup := lib.byID[c.ID]; dup {
			return nil, fmt.Errorf("duplicate card id %d", c.ID)
		}
		lib.byID[c.ID] = c
		lib.ordered = append(lib.ordered, c)
	}
	sort.Slice(lib.ordered, func(i, j int) bool { return lib.ordered[i].ID < lib.ordered[j].ID })
	return lib, nil
}

func validate(c *game.Card) error {
	if c.ID == 0 {
		return fmt.Errorf("missing id")
	}
	if c.Name == "" {
		return fmt.Errorf("missing name")
	}
	switch c.Type {
	case game.CardTypeAttack, game.CardTypeDefense, game.CardTypeSkill:
	default:
		return fmt.Errorf("invalid type %q", c.Type)
	}
	switch c.Suit {
	case game.SuitBlade, game.SuitShield, game.SuitSwift, game.SuitArcane:
	default:
		return fmt.Errorf("invalid suit %q", c.Suit)
	}
	if c.Effect == nil && c.Grant == nil {
		return fmt.Errorf("defines neither an effect nor a status grant")
	}
	if c.Effect != nil {
		if c.Effect.Script == "" {
			return fmt.Errorf("empty effect script")
		}
		if err := validateSelector(c.Effect.Target); err != nil {
			return err
		}
	}
	if c.Grant != nil {
		if err := validateSelector(c.Grant.Target); err != nil {
			return err
		}
		st := c.Grant.Status
		if st.Name == "" {
			return fmt.Errorf("status grant missing name")
		}
		if st.Duration < 1 {
			return fmt.Errorf("status %q duration must be at least 1", st.Name)
		}
		for hook := range st.Hooks {
			if !game.ValidHookPoint(hook) {
				return fmt.Errorf("status %q references unknown hook %q", st.Name, hook)
			}
		}
	}
	return nil
}

func validateSelector(t game.TargetSelector) error {
	switch t {
	case game.TargetSelf, game.TargetOpponent:
		return nil
	default:
		return fmt.Errorf("invalid target selector %q", t)
	}
}

// Get returns the pooled definition for an id, or nil.
func (l *Library) Get(id uint) *game.Card {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.byID[id]
}

// All returns the pooled definitions in id order.
func (l *Library) All() []*game.Card {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]*game.Card, len(l.ordered))
	copy(out, l.ordered)
	return out
}

// Size returns the number of card definitions.
func (l *Library) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ordered)
}

// BuildDeck resolves a list of card ids into battle-ready clones. Unknown
// ids are an error so a stale persisted deck fails loudly.
func (l *Library) BuildDeck(ids []uint) ([]*game.Card, error) {
	deck := make([]*game.Card, 0, len(ids))
	for _, id := range ids {
		def := l.Get(id)
		if def == nil {
			return nil, fmt.Errorf("unknown card id %d", id)
		}
		deck = append(deck, def.Clone())
	}
	return deck, nil
}

// CardsBySuit returns the pooled definitions of one suit, used when
// synthesizing a default opponent deck.
func (l *Library) CardsBySuit(suit game.Suit) []*game.Card {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []*game.Card
	for _, c := range l.ordered {
		if c.Suit == suit {
			out = append(out, c)
		}
	}
	return out
}
