package storage

import (
	"github.com/evglabs/superdeck/internal/game"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type sqliteRepository struct {
	db *gorm.DB
}

func NewSQLiteRepository(db *gorm.DB) Repository {
	return &sqliteRepository{db: db}
}

func (r *sqliteRepository) CreateCharacter(c *game.Character) error {
	return r.db.Create(c).Error
}

func (r *sqliteRepository) GetCharacterByID(id uint) (*game.Character, error) {
	var c game.Character
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *sqliteRepository) GetCharactersByPlayer(playerID uint) ([]game.Character, error) {
	var out []game.Character
	err := r.db.Where("player_id = ?", playerID).Order("id").Find(&out).Error
	return out, err
}

func (r *sqliteRepository) UpdateCharacter(c *game.Character) error {
	return r.db.Save(c).Error
}

func (r *sqliteRepository) UpsertPlayerProfile(email, uuid, name string) error {
	u := game.PlayerProfile{Email: email, PlayerUUID: uuid, PlayerName: name}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"player_uuid", "player_name"}),
	}).Create(&u).Error
}

func (r *sqliteRepository) GetPlayerProfileByUUID(uuid string) (*game.PlayerProfile, error) {
	var p game.PlayerProfile
	if err := r.db.Where("player_uuid = ?", uuid).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *sqliteRepository) UpdatePlayerProfile(p *game.PlayerProfile) error {
	return r.db.Save(p).Error
}

func (r *sqliteRepository) CreateGhostSnapshot(g *game.GhostSnapshot) error {
	// One snapshot per character: drop the stale one first.
	if g.CharacterID != 0 {
		if err := r.db.Where("character_id = ?", g.CharacterID).Delete(&game.GhostSnapshot{}).Error; err != nil {
			return err
		}
	}
	return r.db.Create(g).Error
}

func (r *sqliteRepository) GetGhostSnapshotByID(id uint) (*game.GhostSnapshot, error) {
	var g game.GhostSnapshot
	if err := r.db.First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *sqliteRepository) FindGhostsByRatingRange(min, max, limit int, excludeCharacterID uint) ([]game.GhostSnapshot, error) {
	var out []game.GhostSnapshot
	q := r.db.Where("rating BETWEEN ? AND ?", min, max)
	if excludeCharacterID != 0 {
		q = q.Where("character_id != ?", excludeCharacterID)
	}
	err := q.Order("rating").Limit(limit).Find(&out).Error
	return out, err
}

func (r *sqliteRepository) UpdateGhostSnapshot(g *game.GhostSnapshot) error {
	return r.db.Save(g).Error
}

func (r *sqliteRepository) GetTopCharacters(limit int) ([]game.Character, error) {
	var out []game.Character
	err := r.db.Order("rating DESC, wins DESC, id").Limit(limit).Find(&out).Error
	return out, err
}
