package game

import (
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// Character is a persisted, player-owned combatant template. Battle code
// never mutates a Character directly; it clones one into a Combatant at
// battle start and writes results back through the repository at finalize.
type Character struct {
	gorm.Model
	PlayerID uint   `json:"-" gorm:"index"`
	Name     string `json:"name"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`

	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`

	Rating int `json:"rating" gorm:"index"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`

	// DeckCards stores the deck as a comma-separated list of card library
	// ids. Card definitions themselves live in the external card library,
	// not the database.
	DeckCards string `json:"deck_cards"`
}

func (Character) TableName() string { return "characters" }

// MaxHP derives the character's hit point maximum from level and defense.
func (c *Character) MaxHP() int {
	return DeriveMaxHP(c.Level, c.Defense)
}

// DeriveMaxHP is the single source of the max-HP formula so synthesized
// opponents and persisted characters always agree.
func DeriveMaxHP(level, defense int) int {
	return 40 + 8*level + 3*defense
}

// DeckCardIDs parses the stored comma-separated deck list.
func (c *Character) DeckCardIDs() []uint {
	return ParseCardIDs(c.DeckCards)
}

// ParseCardIDs decodes a comma-separated id list, skipping malformed parts.
func ParseCardIDs(s string) []uint {
	parts := strings.Split(s, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			continue
		}
		ids = append(ids, uint(n))
	}
	return ids
}

// JoinCardIDs is the inverse of ParseCardIDs.
func JoinCardIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

// PlayerProfile stores unique player identity and aggregate stats.
type PlayerProfile struct {
	gorm.Model
	PlayerUUID    string `json:"player_uuid" gorm:"index"`
	PlayerName    string `json:"player_name"`
	Email         string `json:"email" gorm:"uniqueIndex"`
	BattlesPlayed int    `json:"battles_played"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
}

func (PlayerProfile) TableName() string { return "player_profiles" }

// GhostSnapshot is a point-in-time copy of a character used as a
// substitute opponent. Snapshots keep their own win/loss/rating record,
// updated with the mirrored rating delta after each battle they fight.
type GhostSnapshot struct {
	gorm.Model
	CharacterID uint   `json:"-" gorm:"index"`
	Name        string `json:"name"`
	Level       int    `json:"level"`

	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`

	Rating int `json:"rating" gorm:"index"`
	Wins   int `json:"wins"`
	Losses int `json:"losses"`

	DeckCards string `json:"deck_cards"`
}

func (GhostSnapshot) TableName() string { return "ghost_snapshots" }

// SnapshotOf captures a character's current shape as a ghost.
func SnapshotOf(c *Character) *GhostSnapshot {
	return &GhostSnapshot{
		CharacterID: c.ID,
		Name:        c.Name,
		Level:       c.Level,
		Attack:      c.Attack,
		Defense:     c.Defense,
		Speed:       c.Speed,
		Rating:      c.Rating,
		DeckCards:   c.DeckCards,
	}
}
