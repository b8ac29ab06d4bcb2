package game

import "fmt"

type Phase string

const (
	PhaseNotStarted Phase = "not_started"
	PhaseDraw       Phase = "draw"
	PhaseQueue      Phase = "queue"
	PhaseResolution Phase = "resolution"
	PhaseCleanup    Phase = "cleanup"
	PhaseEnded      Phase = "ended"
)

// ActionKind tags a player action submitted by the presentation layer.
type ActionKind string

const (
	ActionQueueCard    ActionKind = "queue_card"
	ActionConfirmQueue ActionKind = "confirm_queue"
	ActionAutoQueue    ActionKind = "auto_queue"
	ActionForfeit      ActionKind = "forfeit"
)

// Action is the tagged action protocol consumed by the orchestration layer.
type Action struct {
	Kind      ActionKind `json:"kind"`
	HandIndex int        `json:"hand_index"`
}

// Combatant is one side of a battle: a clone of a persisted character (or
// a synthesized ghost) whose state is mutated only within the battle.
type Combatant struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level"`

	BaseAttack  int `json:"base_attack"`
	BaseDefense int `json:"base_defense"`
	BaseSpeed   int `json:"base_speed"`

	MaxHP int `json:"max_hp"`
	HP    int `json:"hp"`

	// Effective battle stats, recomputed through the stat-calculation
	// hook chain after every card resolution and cleanup.
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`

	Rating  int  `json:"rating"`
	IsGhost bool `json:"is_ghost"`

	Statuses []*StatusInstance `json:"statuses"`

	Deck    []*Card `json:"-"`
	Hand    []*Card `json:"hand"`
	Queue   []*Card `json:"queue"`
	Discard []*Card `json:"-"`

	QueueCap       int  `json:"queue_cap"`
	QueueConfirmed bool `json:"queue_confirmed"`
}

// PileSizes returns the card counts of every pile, used by invariant checks
// and API summaries.
func (c *Combatant) PileSizes() (deck, hand, queue, discard int) {
	return len(c.Deck), len(c.Hand), len(c.Queue), len(c.Discard)
}

// Battle holds all mutable state for one unit of play. Once Complete is
// set no further mutation may occur other than read-only finalize.
type Battle struct {
	ID    string `json:"id"`
	Round int    `json:"round"`
	Phase Phase  `json:"phase"`

	Player   *Combatant `json:"player"`
	Opponent *Combatant `json:"opponent"`

	// PlayerFirst is the turn-order flag for the current round,
	// re-rolled every round from the effective speeds.
	PlayerFirst bool `json:"player_first"`

	WinnerID string `json:"winner_id,omitempty"`
	Complete bool   `json:"complete"`

	Log    []string      `json:"log"`
	Events []BattleEvent `json:"events"`

	eventSeq int
}

// Logf appends a formatted line to the free-text battle log.
func (b *Battle) Logf(format string, args ...interface{}) {
	b.Log = append(b.Log, fmt.Sprintf(format, args...))
}

// Emit appends ev to the ordered event stream, assigning its sequence
// number and a default playback delay when none was supplied.
func (b *Battle) Emit(ev BattleEvent) {
	b.eventSeq++
	ev.Seq = b.eventSeq
	if ev.Round == 0 {
		ev.Round = b.Round
	}
	if ev.DelayMS == 0 {
		ev.DelayMS = defaultDelayMS(ev.Type)
	}
	b.Events = append(b.Events, ev)
}

// Other returns the combatant opposing c.
func (b *Battle) Other(c *Combatant) *Combatant {
	if c == b.Player {
		return b.Opponent
	}
	return b.Player
}

// Sides returns both combatants ordered by the current turn-order flag.
func (b *Battle) Sides() (first, second *Combatant) {
	if b.PlayerFirst {
		return b.Player, b.Opponent
	}
	return b.Opponent, b.Player
}

// SetWinner marks the battle complete. Subsequent calls are ignored so the
// first resolved win condition sticks.
func (b *Battle) SetWinner(c *Combatant) {
	if b.Complete {
		return
	}
	b.Complete = true
	b.WinnerID = c.ID
	b.Phase = PhaseEnded
	b.Logf("%s wins the battle", c.Name)
	b.Emit(BattleEvent{Type: EventBattleEnd, Actor: c.ID, Detail: c.Name + " wins the battle"})
}
