package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/script"
)

// Config carries the battle tuning knobs. Zero values are replaced by
// DefaultConfig at construction.
type Config struct {
	StartingHandSize int
	DrawPerTurn      int
	BaseQueueSlots   int

	// System damage starts once the round counter reaches
	// SystemDamageRound and scales as base^roundsPast + perRound*roundsPast.
	SystemDamageRound    int
	SystemDamageBase     float64
	SystemDamagePerRound int

	ScriptTimeout        time.Duration
	ScriptMemoryLimit    int64
	ScriptSampleInterval time.Duration
}

// DefaultConfig returns the standard battle tuning.
func DefaultConfig() Config {
	return Config{
		StartingHandSize:     5,
		DrawPerTurn:          2,
		BaseQueueSlots:       3,
		SystemDamageRound:    10,
		SystemDamageBase:     2.0,
		SystemDamagePerRound: 2,
		ScriptTimeout:        script.DefaultTimeout,
		ScriptMemoryLimit:    script.DefaultMemoryLimit,
		ScriptSampleInterval: script.DefaultSampleInterval,
	}
}

// ValidationError rejects an action that is invalid for the current battle
// state. The battle is left unchanged and the caller gets the message.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// Engine advances one battle through its phases. All randomness (shuffles,
// turn-order rolls, script rand) draws from the single seeded source so a
// fixed seed reproduces the battle byte for byte.
type Engine struct {
	b   *game.Battle
	rng *rand.Rand
	cfg Config

	// damageDepth bounds damage triggered from damage hooks, so two
	// retaliation statuses cannot ping-pong forever.
	damageDepth int
}

// New wraps a battle with its deterministic random source.
func New(b *game.Battle, rng *rand.Rand, cfg Config) *Engine {
	def := DefaultConfig()
	if cfg.StartingHandSize <= 0 {
		cfg.StartingHandSize = def.StartingHandSize
	}
	if cfg.DrawPerTurn <= 0 {
		cfg.DrawPerTurn = def.DrawPerTurn
	}
	if cfg.BaseQueueSlots <= 0 {
		cfg.BaseQueueSlots = def.BaseQueueSlots
	}
	if cfg.SystemDamageRound <= 0 {
		cfg.SystemDamageRound = def.SystemDamageRound
	}
	if cfg.SystemDamageBase <= 0 {
		cfg.SystemDamageBase = def.SystemDamageBase
	}
	if cfg.ScriptTimeout <= 0 {
		cfg.ScriptTimeout = def.ScriptTimeout
	}
	if cfg.ScriptMemoryLimit <= 0 {
		cfg.ScriptMemoryLimit = def.ScriptMemoryLimit
	}
	if cfg.ScriptSampleInterval <= 0 {
		cfg.ScriptSampleInterval = def.ScriptSampleInterval
	}
	return &Engine{b: b, rng: rng, cfg: cfg}
}

// Battle exposes the wrapped battle state.
func (e *Engine) Battle() *game.Battle { return e.b }

// Begin moves a fresh battle out of NotStarted: both decks are shuffled,
// effective stats initialized, and the first draw phase runs.
func (e *Engine) Begin() error {
	if e.b.Phase != game.PhaseNotStarted {
		return validationf("battle already started")
	}
	e.b.Round = 1
	for _, c := range []*game.Combatant{e.b.Player, e.b.Opponent} {
		e.rng.Shuffle(len(c.Deck), func(i, j int) { c.Deck[i], c.Deck[j] = c.Deck[j], c.Deck[i] })
		c.Attack = c.BaseAttack
		c.Defense = c.BaseDefense
		c.Speed = c.BaseSpeed
	}
	e.runDrawPhase()
	return nil
}

// Forfeit immediately ends the battle in the opponent's favor, bypassing
// normal resolution.
func (e *Engine) Forfeit(loser *game.Combatant) error {
	if e.b.Complete {
		return validationf("battle is already over")
	}
	winner := e.b.Other(loser)
	e.b.Logf("%s forfeits", loser.Name)
	e.b.Emit(game.BattleEvent{Type: game.EventMessage, Actor: loser.ID, Detail: loser.Name + " forfeits"})
	e.b.SetWinner(winner)
	return nil
}

func (e *Engine) scriptOptions() script.Options {
	return script.Options{
		Timeout:        e.cfg.ScriptTimeout,
		MemoryLimit:    e.cfg.ScriptMemoryLimit,
		SampleInterval: e.cfg.ScriptSampleInterval,
	}
}
