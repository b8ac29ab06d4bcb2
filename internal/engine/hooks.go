package engine

import (
	"github.com/evglabs/superdeck/internal/constants"
	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/logging"
	"github.com/evglabs/superdeck/internal/script"
)

// hookContext builds the execution context for one script invocation. The
// full mutation surface is wired for every invocation; caster is the
// status owner (or card player) and target the opposing side unless the
// card's selector resolved otherwise.
func (e *Engine) hookContext(caster, target *game.Combatant, card *game.Card, status *game.StatusInstance) *script.Context {
	ctx := &script.Context{
		Round: float64(e.b.Round),
		Rand:  func(max float64) float64 { return e.rng.Float64() * max },
		Lookup: func(name string) (float64, bool) {
			return lookupField(name, caster, target, status)
		},
		HasStatus: func(name string) bool {
			for _, st := range caster.Statuses {
				if st.Name == name {
					return true
				}
			}
			return false
		},
		DealDamage: func(amount float64, raw bool) error {
			e.dealDamage(caster, target, amount, raw)
			return nil
		},
		Heal: func(amount float64) error {
			e.heal(caster, amount)
			return nil
		},
		RemoveStatus: func(name string) error {
			e.removeStatus(caster, name)
			return nil
		},
		Draw: func(n int) error {
			e.drawCards(caster, n)
			return nil
		},
		DiscardCards: func(n int) error {
			e.discardCards(caster, n)
			return nil
		},
		Shuffle: func() error {
			e.rng.Shuffle(len(caster.Deck), func(i, j int) {
				caster.Deck[i], caster.Deck[j] = caster.Deck[j], caster.Deck[i]
			})
			e.b.Logf("%s shuffles their deck", caster.Name)
			return nil
		},
	}
	if status != nil {
		ctx.Custom = status.Custom
		ctx.CustomLists = status.CustomLists
		ctx.PreventExpire = func() { status.PreventExpire = true }
	}
	if card != nil {
		if card.Grant != nil {
			ctx.ApplyStatus = func() error {
				e.applyGrant(caster, card)
				return nil
			}
		}
		ctx.SelfDestruct = func() error {
			e.selfDestruct(card)
			return nil
		}
	}
	return ctx
}

func lookupField(name string, caster, target *game.Combatant, status *game.StatusInstance) (float64, bool) {
	side := func(c *game.Combatant, field string) (float64, bool) {
		if c == nil {
			return 0, false
		}
		switch field {
		case "hp":
			return float64(c.HP), true
		case "max_hp":
			return float64(c.MaxHP), true
		case "attack":
			return float64(c.Attack), true
		case "defense":
			return float64(c.Defense), true
		case "speed":
			return float64(c.Speed), true
		case "level":
			return float64(c.Level), true
		case "hand_count":
			return float64(len(c.Hand)), true
		case "deck_count":
			return float64(len(c.Deck)), true
		case "discard_count":
			return float64(len(c.Discard)), true
		case "queue_count":
			return float64(len(c.Queue)), true
		}
		return 0, false
	}
	const casterPrefix, targetPrefix = "caster.", "target."
	switch {
	case len(name) > len(casterPrefix) && name[:len(casterPrefix)] == casterPrefix:
		return side(caster, name[len(casterPrefix):])
	case len(name) > len(targetPrefix) && name[:len(targetPrefix)] == targetPrefix:
		return side(target, name[len(targetPrefix):])
	case name == "status.remaining":
		if status == nil {
			return 0, false
		}
		return float64(status.Remaining), true
	case name == "status.total":
		if status == nil {
			return 0, false
		}
		return float64(status.Total), true
	}
	return 0, false
}

// fireHooks invokes every status script registered for hook on owner, in
// the order the statuses were applied. Each script gets a fresh context;
// a failing script logs one error line and the remaining hooks still run.
// The optional adjust callback customizes the context before the run and
// reads results after a successful one.
func (e *Engine) fireHooks(owner *game.Combatant, hook game.HookPoint, adjust func(ctx *script.Context, st *game.StatusInstance) func()) {
	statuses := make([]*game.StatusInstance, len(owner.Statuses))
	copy(statuses, owner.Statuses)
	for _, st := range statuses {
		src, ok := st.Hooks[hook]
		if !ok || src == "" {
			continue
		}
		prog, err := script.Compile(src)
		if err != nil {
			e.logScriptFailure(owner, st, hook, err)
			continue
		}
		ctx := e.hookContext(owner, e.b.Other(owner), nil, st)
		var commit func()
		if adjust != nil {
			commit = adjust(ctx, st)
		}
		if err := script.Run(prog, ctx, e.scriptOptions()); err != nil {
			e.logScriptFailure(owner, st, hook, err)
			continue
		}
		if commit != nil {
			commit()
		}
		e.b.Emit(game.BattleEvent{
			Type:   game.EventStatusTriggered,
			Actor:  owner.ID,
			Detail: st.Name + " triggers " + string(hook),
		})
	}
}

// fireSimpleHooks runs hooks that mutate state but carry no shared value.
func (e *Engine) fireSimpleHooks(owner *game.Combatant, hook game.HookPoint) {
	e.fireHooks(owner, hook, nil)
}

func (e *Engine) logScriptFailure(owner *game.Combatant, st *game.StatusInstance, hook game.HookPoint, err error) {
	e.b.Logf("status %s hook %s failed: %v", st.Name, hook, err)
	logging.Error("status hook failed", err, logging.Fields{
		constants.LogFieldBattleID: e.b.ID,
		constants.LogFieldStatus:   st.Name,
		constants.LogFieldHook:     string(hook),
		constants.LogFieldRound:    e.b.Round,
	})
}

// effectiveStat runs a stat-calculation hook chain over base. Each hook
// accumulates into the shared amount; the final value, floored at zero,
// becomes the effective stat.
func (e *Engine) effectiveStat(c *game.Combatant, hook game.HookPoint, base int) int {
	amount := float64(base)
	e.fireHooks(c, hook, func(ctx *script.Context, _ *game.StatusInstance) func() {
		ctx.Amount = amount
		return func() { amount = ctx.Amount }
	})
	if amount < 0 {
		amount = 0
	}
	return int(amount)
}

// recomputeStats refreshes a side's effective attack/defense/speed from
// its base battle stats through the stat-calculation hook chain.
func (e *Engine) recomputeStats(c *game.Combatant) {
	c.Attack = e.effectiveStat(c, game.HookCalculateAttack, c.BaseAttack)
	c.Defense = e.effectiveStat(c, game.HookCalculateDefense, c.BaseDefense)
	c.Speed = e.effectiveStat(c, game.HookCalculateSpeed, c.BaseSpeed)
}
