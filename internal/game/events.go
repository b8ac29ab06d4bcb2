package game

import "fmt"

// EventType enumerates all observable battle events.
type EventType int

const (
	EventRoundStart EventType = iota
	EventSpeedRoll
	EventCardPlayed
	EventDamage
	EventHeal
	EventStatusGained
	EventStatusExpired
	EventStatusTriggered
	EventBattleEnd
	EventMessage
)

func (e EventType) String() string {
	switch e {
	case EventRoundStart:
		return "RoundStart"
	case EventSpeedRoll:
		return "SpeedRoll"
	case EventCardPlayed:
		return "CardPlayed"
	case EventDamage:
		return "Damage"
	case EventHeal:
		return "Heal"
	case EventStatusGained:
		return "StatusGained"
	case EventStatusExpired:
		return "StatusExpired"
	case EventStatusTriggered:
		return "StatusTriggered"
	case EventBattleEnd:
		return "BattleEnd"
	case EventMessage:
		return "Message"
	default:
		return "Unknown"
	}
}

// BattleEvent is a single entry in the replay-oriented event stream. Seq is
// assigned by the battle when the event is emitted; DelayMS is a suggested
// client playback delay before showing the next event.
type BattleEvent struct {
	Seq     int       `json:"seq"`
	Round   int       `json:"round"`
	Type    EventType `json:"type"`
	Actor   string    `json:"actor,omitempty"`
	Card    string    `json:"card,omitempty"`
	Value   int       `json:"value,omitempty"`
	Detail  string    `json:"detail"`
	DelayMS int       `json:"delay_ms"`
}

// defaultDelayMS suggests a playback pause per event type.
func defaultDelayMS(t EventType) int {
	switch t {
	case EventCardPlayed, EventDamage, EventHeal:
		return 800
	case EventStatusGained, EventStatusExpired, EventStatusTriggered:
		return 600
	case EventBattleEnd:
		return 1500
	default:
		return 300
	}
}

// FormatEvent renders an event as a human-readable line.
func FormatEvent(e BattleEvent) string {
	return fmt.Sprintf("R%-2d %-16s %s", e.Round, e.Type.String(), e.Detail)
}
