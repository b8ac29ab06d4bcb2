package engine

import (
	"math"

	"github.com/evglabs/superdeck/internal/ai"
	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/script"
)

// runDrawPhase starts a round: turn-start hooks, card draw, queue slot
// reset and the transition into the queue phase.
func (e *Engine) runDrawPhase() {
	b := e.b
	b.Phase = game.PhaseDraw
	b.Logf("--- round %d ---", b.Round)
	b.Emit(game.BattleEvent{Type: game.EventRoundStart, Detail: "round begins"})

	for _, c := range []*game.Combatant{b.Player, b.Opponent} {
		e.fireSimpleHooks(c, game.HookTurnStart)
		e.fireSimpleHooks(c, game.HookDrawPhase)
	}

	n := e.cfg.DrawPerTurn
	if b.Round == 1 {
		n = e.cfg.StartingHandSize
	}
	for _, c := range []*game.Combatant{b.Player, b.Opponent} {
		e.drawCards(c, n)
		c.QueueCap = e.cfg.BaseQueueSlots
		c.QueueConfirmed = false
		// OnQueuePhaseStart hooks may raise this round's slot capacity
		// through the shared amount.
		cap := float64(c.QueueCap)
		e.fireHooks(c, game.HookQueuePhaseStart, func(ctx *script.Context, _ *game.StatusInstance) func() {
			ctx.Amount = cap
			return func() { cap = ctx.Amount }
		})
		if int(cap) > 0 {
			c.QueueCap = int(cap)
		}
	}

	b.Phase = game.PhaseQueue
}

// QueueCard moves one hand card into the side's queue. The move is a
// single atomic swap; an OnQueue hook may veto the placement, in which
// case the card stays in hand.
func (e *Engine) QueueCard(side *game.Combatant, handIndex int) error {
	b := e.b
	if b.Phase != game.PhaseQueue {
		return validationf("cannot queue a card during the %s phase", b.Phase)
	}
	if side.QueueConfirmed {
		return validationf("queue already confirmed")
	}
	if handIndex < 0 || handIndex >= len(side.Hand) {
		return validationf("invalid hand index %d", handIndex)
	}
	if len(side.Queue) >= side.QueueCap {
		return validationf("queue is full (%d slots)", side.QueueCap)
	}

	card := side.Hand[handIndex]
	vetoed := false
	e.fireHooks(side, game.HookQueue, func(ctx *script.Context, _ *game.StatusInstance) func() {
		ctx.PreventQueue = func() { vetoed = true }
		return nil
	})
	if vetoed {
		return validationf("a status prevents queueing %s", card.Name)
	}

	side.Hand = append(side.Hand[:handIndex], side.Hand[handIndex+1:]...)
	side.Queue = append(side.Queue, card)
	b.Logf("%s queues %s", side.Name, card.Name)
	return nil
}

// ConfirmQueue commits the player's queue: wait-card padding, AI fill for
// the opponent, BeforeQueueResolve hooks, then the whole round resolves
// synchronously through resolution and cleanup.
func (e *Engine) ConfirmQueue(profile *ai.Profile) error {
	b := e.b
	if b.Phase != game.PhaseQueue {
		return validationf("cannot confirm during the %s phase", b.Phase)
	}
	if b.Player.QueueConfirmed {
		return validationf("queue already confirmed")
	}
	b.Player.QueueConfirmed = true
	e.padQueue(b.Player)

	e.aiFillQueue(b.Opponent, profile)
	b.Opponent.QueueConfirmed = true
	e.padQueue(b.Opponent)

	e.fireSimpleHooks(b.Player, game.HookBeforeQueueResolve)
	e.fireSimpleHooks(b.Opponent, game.HookBeforeQueueResolve)

	e.runResolution()
	if !b.Complete {
		e.runCleanup()
	}
	return nil
}

// AutoQueue lets the AI pick the player's cards, then confirms as usual.
func (e *Engine) AutoQueue(profile *ai.Profile) error {
	b := e.b
	if b.Phase != game.PhaseQueue {
		return validationf("cannot auto-queue during the %s phase", b.Phase)
	}
	if b.Player.QueueConfirmed {
		return validationf("queue already confirmed")
	}
	e.aiFillQueue(b.Player, profile)
	return e.ConfirmQueue(profile)
}

// aiFillQueue scores the side's hand and queues the picks, skipping any
// placement an OnQueue hook vetoes.
func (e *Engine) aiFillQueue(side *game.Combatant, profile *ai.Profile) {
	slots := side.QueueCap - len(side.Queue)
	if slots <= 0 {
		return
	}
	picked := ai.SelectCards(side.Hand, slots, profile, side, e.b.Other(side), e.rng)
	for _, card := range picked {
		idx := -1
		for i, h := range side.Hand {
			if h == card {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}
		if err := e.QueueCard(side, idx); err != nil {
			e.b.Logf("%s cannot queue %s: %v", side.Name, card.Name, err)
		}
	}
}

// padQueue fills the remaining slots with inert wait cards.
func (e *Engine) padQueue(side *game.Combatant) {
	for len(side.Queue) < side.QueueCap {
		side.Queue = append(side.Queue, game.NewWaitCard())
	}
}

// rollTurnOrder re-rolls who acts first this round: a uniform draw against
// playerSpeed / (playerSpeed + opponentSpeed), speeds floored at 1.
func (e *Engine) rollTurnOrder() {
	b := e.b
	ps := e.effectiveStat(b.Player, game.HookCalculateSpeed, b.Player.BaseSpeed)
	os := e.effectiveStat(b.Opponent, game.HookCalculateSpeed, b.Opponent.BaseSpeed)
	if ps < 1 {
		ps = 1
	}
	if os < 1 {
		os = 1
	}
	b.PlayerFirst = e.rng.Float64() < float64(ps)/float64(ps+os)
	first, _ := b.Sides()
	b.Logf("%s acts first this round (speed %d vs %d)", first.Name, ps, os)
	b.Emit(game.BattleEvent{
		Type:   game.EventSpeedRoll,
		Actor:  first.ID,
		Detail: first.Name + " acts first",
	})
}

// runResolution walks the queued slots in turn order, resolving each
// card and checking the win condition after every resolution step.
func (e *Engine) runResolution() {
	b := e.b
	b.Phase = game.PhaseResolution
	e.rollTurnOrder()

	first, second := b.Sides()

	// Card effects (self_destruct) may strip cards out of the live queues
	// mid-resolution; walk snapshots so every committed slot still resolves.
	firstQueue := append([]*game.Card(nil), first.Queue...)
	secondQueue := append([]*game.Card(nil), second.Queue...)
	slots := len(firstQueue)
	if len(secondQueue) > slots {
		slots = len(secondQueue)
	}

	for i := 0; i < slots && !b.Complete; i++ {
		if i < len(firstQueue) {
			e.ExecuteCard(first, firstQueue[i])
			if e.checkWin(first) {
				return
			}
		}
		if i < len(secondQueue) {
			e.ExecuteCard(second, secondQueue[i])
			if e.checkWin(second) {
				return
			}
		}
	}
}

// checkWin resolves the win condition. On a simultaneous KO the side that
// acted last in the step that caused it is favored.
func (e *Engine) checkWin(lastActor *game.Combatant) bool {
	b := e.b
	if b.Complete {
		return true
	}
	pDead := b.Player.HP <= 0
	oDead := b.Opponent.HP <= 0
	switch {
	case pDead && oDead:
		b.Logf("both combatants fall; %s stood last", lastActor.Name)
		e.endBattle(lastActor)
	case oDead:
		e.endBattle(b.Player)
	case pDead:
		e.endBattle(b.Opponent)
	}
	return b.Complete
}

func (e *Engine) endBattle(winner *game.Combatant) {
	e.fireSimpleHooks(e.b.Player, game.HookBattleEnd)
	e.fireSimpleHooks(e.b.Opponent, game.HookBattleEnd)
	e.b.SetWinner(winner)
}

// runCleanup discards the round's queues, ticks statuses, applies late
// round system damage and either starts the next round or ends the battle.
func (e *Engine) runCleanup() {
	b := e.b
	b.Phase = game.PhaseCleanup

	for _, c := range []*game.Combatant{b.Player, b.Opponent} {
		for _, card := range c.Queue {
			if !card.IsWait {
				c.Discard = append(c.Discard, card)
			}
		}
		c.Queue = c.Queue[:0]
	}
	for _, c := range []*game.Combatant{b.Player, b.Opponent} {
		e.fireSimpleHooks(c, game.HookDiscard)
		e.fireSimpleHooks(c, game.HookTurnEnd)
	}

	for _, c := range []*game.Combatant{b.Player, b.Opponent} {
		e.tickStatuses(c)
		e.recomputeStats(c)
	}

	e.applySystemDamage()

	_, second := b.Sides()
	if e.checkWin(second) {
		return
	}

	b.Round++
	e.runDrawPhase()
}

// tickStatuses decrements every status's remaining duration, skipping
// instances applied this round. An expiring status fires OnBuffExpire
// first; the hook may prevent the expiry, extending the status one tick.
func (e *Engine) tickStatuses(c *game.Combatant) {
	// Expire hooks may remove other statuses, so iterate a snapshot and
	// defer the actual removals until every instance has ticked.
	snapshot := append([]*game.StatusInstance(nil), c.Statuses...)
	expired := make(map[*game.StatusInstance]bool)
	for _, st := range snapshot {
		if !hasInstance(c.Statuses, st) {
			continue
		}
		if st.JustApplied {
			st.JustApplied = false
			continue
		}
		st.Remaining--
		if st.Remaining > 0 {
			continue
		}
		st.PreventExpire = false
		e.fireExpireHook(c, st)
		if st.PreventExpire {
			st.PreventExpire = false
			st.Remaining = 1
			e.b.Logf("status %s refuses to expire", st.Name)
			continue
		}
		expired[st] = true
		e.b.Logf("status %s expires on %s", st.Name, c.Name)
		e.b.Emit(game.BattleEvent{
			Type:   game.EventStatusExpired,
			Actor:  c.ID,
			Detail: st.Name + " expires",
		})
	}
	kept := c.Statuses[:0]
	for _, st := range c.Statuses {
		if !expired[st] {
			kept = append(kept, st)
		}
	}
	c.Statuses = kept
}

func hasInstance(list []*game.StatusInstance, st *game.StatusInstance) bool {
	for _, s := range list {
		if s == st {
			return true
		}
	}
	return false
}

// fireExpireHook runs only the expiring status's own OnBuffExpire script.
func (e *Engine) fireExpireHook(c *game.Combatant, st *game.StatusInstance) {
	src, ok := st.Hooks[game.HookBuffExpire]
	if !ok || src == "" {
		return
	}
	prog, err := script.Compile(src)
	if err != nil {
		e.logScriptFailure(c, st, game.HookBuffExpire, err)
		return
	}
	ctx := e.hookContext(c, e.b.Other(c), nil, st)
	if err := script.Run(prog, ctx, e.scriptOptions()); err != nil {
		e.logScriptFailure(c, st, game.HookBuffExpire, err)
	}
}

// applySystemDamage wears both sides down once battles drag past the
// configured round threshold.
func (e *Engine) applySystemDamage() {
	b := e.b
	if b.Round < e.cfg.SystemDamageRound {
		return
	}
	past := b.Round - e.cfg.SystemDamageRound
	dmg := int(math.Pow(e.cfg.SystemDamageBase, float64(past))) + e.cfg.SystemDamagePerRound*past
	if dmg <= 0 {
		return
	}
	for _, c := range []*game.Combatant{b.Player, b.Opponent} {
		c.HP -= dmg
		b.Logf("%s takes %d system damage (%d HP left)", c.Name, dmg, c.HP)
		b.Emit(game.BattleEvent{Type: game.EventDamage, Actor: c.ID, Value: dmg, Detail: c.Name + " takes system damage"})
	}
}
