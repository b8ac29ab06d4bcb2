package storage

import (
	"github.com/evglabs/superdeck/internal/game"
)

type Repository interface {
	CreateCharacter(c *game.Character) error
	GetCharacterByID(id uint) (*game.Character, error)
	GetCharactersByPlayer(playerID uint) ([]game.Character, error)
	UpdateCharacter(c *game.Character) error

	UpsertPlayerProfile(email, uuid, name string) error
	GetPlayerProfileByUUID(uuid string) (*game.PlayerProfile, error)
	UpdatePlayerProfile(p *game.PlayerProfile) error

	// Ghost snapshots are the frozen character copies used as battle
	// opponents. CreateGhostSnapshot replaces any previous snapshot of
	// the same character so matchmaking always sees the latest build.
	CreateGhostSnapshot(g *game.GhostSnapshot) error
	GetGhostSnapshotByID(id uint) (*game.GhostSnapshot, error)
	// FindGhostsByRatingRange returns up to limit snapshots whose rating
	// falls inside [min, max], excluding snapshots of excludeCharacterID.
	FindGhostsByRatingRange(min, max, limit int, excludeCharacterID uint) ([]game.GhostSnapshot, error)
	UpdateGhostSnapshot(g *game.GhostSnapshot) error

	// Leaderboard
	GetTopCharacters(limit int) ([]game.Character, error)
}
