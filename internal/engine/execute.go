package engine

import (
	"math"

	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/script"
)

// maxDamageDepth caps nested damage: past it the damage still lands but
// no further damage hooks fire.
const maxDamageDepth = 8

// dealDamage applies damage from attacker to defender. Scaled damage runs
// through the attacker's attack scaling and the defender's defense scaling;
// raw damage skips both. Either way the defender's OnTakeDamage hooks (and
// the attacker's OnDealDamage hooks) adjust the in-flight value before it
// is finalized.
func (e *Engine) dealDamage(attacker, defender *game.Combatant, amount float64, raw bool) {
	if e.b.Complete || amount <= 0 {
		return
	}
	e.damageDepth++
	defer func() { e.damageDepth-- }()

	outgoing := amount
	if !raw {
		outgoing = amount * (1.0 + float64(attacker.Attack)/100.0)
	}
	if e.damageDepth <= maxDamageDepth {
		e.fireHooks(attacker, game.HookDealDamage, func(ctx *script.Context, _ *game.StatusInstance) func() {
			ctx.OutgoingDamage = outgoing
			return func() { outgoing = ctx.OutgoingDamage }
		})
	}

	incoming := outgoing
	if !raw {
		incoming = outgoing * 100.0 / (100.0 + float64(defender.Defense))
	}
	if e.damageDepth <= maxDamageDepth {
		e.fireHooks(defender, game.HookTakeDamage, func(ctx *script.Context, _ *game.StatusInstance) func() {
			ctx.IncomingDamage = incoming
			return func() { incoming = ctx.IncomingDamage }
		})
	}

	dmg := int(math.Round(incoming))
	if dmg < 0 {
		dmg = 0
	}
	defender.HP -= dmg
	e.b.Logf("%s takes %d damage (%d HP left)", defender.Name, dmg, defender.HP)
	e.b.Emit(game.BattleEvent{
		Type:   game.EventDamage,
		Actor:  defender.ID,
		Value:  dmg,
		Detail: defender.Name + " takes damage",
	})
}

// heal restores HP to c, clamped to max HP. OnHeal hooks may adjust the
// amount before it is applied.
func (e *Engine) heal(c *game.Combatant, amount float64) {
	if e.b.Complete || amount <= 0 {
		return
	}
	e.fireHooks(c, game.HookHeal, func(ctx *script.Context, _ *game.StatusInstance) func() {
		ctx.Amount = amount
		return func() { amount = ctx.Amount }
	})
	n := int(math.Round(amount))
	if n < 0 {
		n = 0
	}
	c.HP += n
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	e.b.Logf("%s heals %d HP (%d HP)", c.Name, n, c.HP)
	e.b.Emit(game.BattleEvent{Type: game.EventHeal, Actor: c.ID, Value: n, Detail: c.Name + " heals"})
}

func (e *Engine) removeStatus(c *game.Combatant, name string) {
	kept := c.Statuses[:0]
	removed := false
	for _, st := range c.Statuses {
		if !removed && st.Name == name {
			removed = true
			continue
		}
		kept = append(kept, st)
	}
	c.Statuses = kept
	if removed {
		e.b.Logf("%s loses status %s", c.Name, name)
		e.b.Emit(game.BattleEvent{Type: game.EventStatusExpired, Actor: c.ID, Detail: c.Name + " loses " + name})
	}
}

// drawCards moves n cards from deck to hand, recycling the discard pile
// into a reshuffled deck whenever the deck runs dry.
func (e *Engine) drawCards(c *game.Combatant, n int) {
	for i := 0; i < n; i++ {
		if len(c.Deck) == 0 {
			if len(c.Discard) == 0 {
				return
			}
			c.Deck = append(c.Deck, c.Discard...)
			c.Discard = c.Discard[:0]
			e.rng.Shuffle(len(c.Deck), func(i, j int) { c.Deck[i], c.Deck[j] = c.Deck[j], c.Deck[i] })
			e.b.Logf("%s recycles the discard pile into a fresh deck", c.Name)
		}
		card := c.Deck[0]
		c.Deck = c.Deck[1:]
		c.Hand = append(c.Hand, card)
	}
}

// discardCards moves up to n cards from the back of the hand to discard.
func (e *Engine) discardCards(c *game.Combatant, n int) {
	for i := 0; i < n && len(c.Hand) > 0; i++ {
		last := len(c.Hand) - 1
		card := c.Hand[last]
		c.Hand = c.Hand[:last]
		if !card.IsWait {
			c.Discard = append(c.Discard, card)
		}
		e.b.Logf("%s discards %s", c.Name, card.Name)
	}
}

// applyGrant attaches the card's granted status to the selected side.
func (e *Engine) applyGrant(caster *game.Combatant, card *game.Card) {
	grant := card.Grant
	if grant == nil {
		return
	}
	side := caster
	if grant.Target == game.TargetOpponent && !card.ForceSelfTarget {
		side = e.b.Other(caster)
	}
	inst := game.NewStatusInstance(grant.Status, card.ID)
	side.Statuses = append(side.Statuses, inst)
	e.b.Logf("%s gains status %s (%d rounds)", side.Name, inst.Name, inst.Total)
	e.b.Emit(game.BattleEvent{
		Type:   game.EventStatusGained,
		Actor:  side.ID,
		Card:   card.Name,
		Detail: side.Name + " gains " + inst.Name,
	})
	e.fireSimpleHooks(side, game.HookStatusGained)
}

// selfDestruct permanently removes card from every pile on both sides.
func (e *Engine) selfDestruct(card *game.Card) {
	strip := func(pile []*game.Card) []*game.Card {
		out := pile[:0]
		for _, c := range pile {
			if c != card {
				out = append(out, c)
			}
		}
		return out
	}
	for _, side := range []*game.Combatant{e.b.Player, e.b.Opponent} {
		side.Deck = strip(side.Deck)
		side.Hand = strip(side.Hand)
		side.Queue = strip(side.Queue)
		side.Discard = strip(side.Discard)
	}
	e.b.Logf("%s is destroyed", card.Name)
}

// ExecuteCard resolves one played card: opponent-reaction hooks, the
// immediate effect, the status grant, play hooks and a stat recompute, in
// that fixed order. Wait cards short-circuit to a no-op log line.
func (e *Engine) ExecuteCard(caster *game.Combatant, card *game.Card) {
	if card.IsWait {
		e.b.Logf("%s waits", caster.Name)
		return
	}
	target := e.b.Other(caster)

	e.b.Logf("%s plays %s", caster.Name, card.Name)
	e.b.Emit(game.BattleEvent{
		Type:   game.EventCardPlayed,
		Actor:  caster.ID,
		Card:   card.Name,
		Detail: caster.Name + " plays " + card.Name,
	})

	e.fireSimpleHooks(target, game.HookOpponentPlay)

	if card.Effect != nil {
		resolved := target
		if card.Effect.Target == game.TargetSelf || card.ForceSelfTarget {
			resolved = caster
		}
		e.runCardEffect(caster, resolved, card)
	}

	if card.Grant != nil {
		e.applyGrant(caster, card)
	}

	e.fireSimpleHooks(caster, game.HookPlay)
	e.fireSimpleHooks(e.b.Player, game.HookCardResolve)
	e.fireSimpleHooks(e.b.Opponent, game.HookCardResolve)

	e.recomputeStats(e.b.Player)
	e.recomputeStats(e.b.Opponent)
}

// runCardEffect compiles and runs a card's immediate effect. Compilation
// and execution failures each cost exactly one log line; the battle
// continues as if the script ran with no mutation.
func (e *Engine) runCardEffect(caster, target *game.Combatant, card *game.Card) {
	prog, err := script.Compile(card.Effect.Script)
	if err != nil {
		e.b.Logf("card %s effect failed to compile: %v", card.Name, err)
		return
	}
	ctx := e.hookContext(caster, target, card, nil)
	if err := script.Run(prog, ctx, e.scriptOptions()); err != nil {
		e.b.Logf("card %s effect failed: %v", card.Name, err)
	}
}
