package api

import (
	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/session"
)

// battleView is the player-facing battle state. The opponent's hand and
// deck order are hidden; only pile counts are exposed.
type battleView struct {
	BattleID string     `json:"battle_id"`
	Round    int        `json:"round"`
	Phase    game.Phase `json:"phase"`

	Player   playerView   `json:"player"`
	Opponent opponentView `json:"opponent"`

	PlayerFirst bool     `json:"player_first"`
	WinnerID    string   `json:"winner_id,omitempty"`
	Complete    bool     `json:"complete"`
	AutoPlay    bool     `json:"auto_play"`
	Log         []string `json:"log"`
}

type playerView struct {
	combatantView
	Hand     []*game.Card `json:"hand"`
	Queue    []*game.Card `json:"queue"`
	QueueCap int          `json:"queue_cap"`
}

type opponentView struct {
	combatantView
	HandCount  int `json:"hand_count"`
	QueueCount int `json:"queue_count"`
}

type combatantView struct {
	ID       string                 `json:"id"`
	Name     string                 `json:"name"`
	Level    int                    `json:"level"`
	HP       int                    `json:"hp"`
	MaxHP    int                    `json:"max_hp"`
	Attack   int                    `json:"attack"`
	Defense  int                    `json:"defense"`
	Speed    int                    `json:"speed"`
	IsGhost  bool                   `json:"is_ghost"`
	Statuses []*game.StatusInstance `json:"statuses"`
	Deck     int                    `json:"deck_count"`
	Discard  int                    `json:"discard_count"`
}

func viewOf(sess *session.Session) battleView {
	b := sess.Engine.Battle()
	pDeck, _, _, pDisc := b.Player.PileSizes()
	oDeck, oHand, oQueue, oDisc := b.Opponent.PileSizes()
	return battleView{
		BattleID:    b.ID,
		Round:       b.Round,
		Phase:       b.Phase,
		PlayerFirst: b.PlayerFirst,
		WinnerID:    b.WinnerID,
		Complete:    b.Complete,
		AutoPlay:    sess.AutoPlay,
		Log:         b.Log,
		Player: playerView{
			combatantView: summarize(b.Player, pDeck, pDisc),
			Hand:          b.Player.Hand,
			Queue:         b.Player.Queue,
			QueueCap:      b.Player.QueueCap,
		},
		Opponent: opponentView{
			combatantView: summarize(b.Opponent, oDeck, oDisc),
			HandCount:     oHand,
			QueueCount:    oQueue,
		},
	}
}

func summarize(c *game.Combatant, deck, discard int) combatantView {
	return combatantView{
		ID:       c.ID,
		Name:     c.Name,
		Level:    c.Level,
		HP:       c.HP,
		MaxHP:    c.MaxHP,
		Attack:   c.Attack,
		Defense:  c.Defense,
		Speed:    c.Speed,
		IsGhost:  c.IsGhost,
		Statuses: c.Statuses,
		Deck:     deck,
		Discard:  discard,
	}
}
