package game

// Suit groups cards into thematic families used by the AI preference
// profiles and booster generation.
type Suit string

const (
	SuitBlade  Suit = "blade"
	SuitShield Suit = "shield"
	SuitSwift  Suit = "swift"
	SuitArcane Suit = "arcane"
)

// BasicSuits are the suits used when synthesizing a default opponent deck.
var BasicSuits = []Suit{SuitBlade, SuitShield, SuitSwift}

type CardType string

const (
	CardTypeAttack  CardType = "attack"
	CardTypeDefense CardType = "defense"
	CardTypeSkill   CardType = "skill"
	CardTypeWait    CardType = "wait"
)

type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityEpic     Rarity = "epic"
)

// TargetSelector resolves which combatant a card effect or status grant
// applies to, relative to the caster.
type TargetSelector string

const (
	TargetSelf     TargetSelector = "self"
	TargetOpponent TargetSelector = "opponent"
)

// CardEffect is an immediate effect script attached to a card.
type CardEffect struct {
	Target TargetSelector `json:"target" yaml:"target"`
	Script string         `json:"script" yaml:"script"`
}

// StatusGrant attaches a status definition to a card; playing the card
// applies the status to the selected side.
type StatusGrant struct {
	Target TargetSelector   `json:"target" yaml:"target"`
	Status StatusDefinition `json:"status" yaml:"status"`
}

// Card is an immutable definition cloned per deck instance. Runtime flags
// (IsWait, IsGhostCopy, ForceSelfTarget) belong to the clone, never to the
// pooled library definition.
type Card struct {
	ID          uint         `json:"id" yaml:"id"`
	Name        string       `json:"name" yaml:"name"`
	Suit        Suit         `json:"suit" yaml:"suit"`
	Type        CardType     `json:"type" yaml:"type"`
	Rarity      Rarity       `json:"rarity" yaml:"rarity"`
	Description string       `json:"description" yaml:"description"`
	Effect      *CardEffect  `json:"effect,omitempty" yaml:"effect,omitempty"`
	Grant       *StatusGrant `json:"grant,omitempty" yaml:"grant,omitempty"`

	IsWait          bool `json:"is_wait" yaml:"-"`
	IsGhostCopy     bool `json:"is_ghost_copy" yaml:"-"`
	ForceSelfTarget bool `json:"force_self_target" yaml:"force_self_target"`
}

// Clone returns a deep copy of the card so per-battle runtime flags and
// status definitions never leak back into the shared library pool.
func (c *Card) Clone() *Card {
	cp := *c
	if c.Effect != nil {
		eff := *c.Effect
		cp.Effect = &eff
	}
	if c.Grant != nil {
		g := *c.Grant
		if c.Grant.Status.Hooks != nil {
			hooks := make(map[HookPoint]string, len(c.Grant.Status.Hooks))
			for k, v := range c.Grant.Status.Hooks {
				hooks[k] = v
			}
			g.Status.Hooks = hooks
		}
		cp.Grant = &g
	}
	return &cp
}

// NewWaitCard builds the synthetic no-op card used to pad queues up to the
// required slot count.
func NewWaitCard() *Card {
	return &Card{
		Name:        "Wait",
		Type:        CardTypeWait,
		Rarity:      RarityCommon,
		Description: "Bide your time.",
		IsWait:      true,
	}
}
