package storage

import (
	"github.com/evglabs/superdeck/internal/game"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// Keep schema updated via AutoMigrate; the card library lives in the
	// YAML config file and is never persisted to the database.
	err = db.AutoMigrate(&game.Character{}, &game.PlayerProfile{}, &game.GhostSnapshot{})
	if err != nil {
		return nil, err
	}

	// Rating-band matchmaking scans ghost snapshots by rating.
	if execErr := db.Exec("CREATE INDEX IF NOT EXISTS idx_ghost_snapshots_rating ON ghost_snapshots(rating);").Error; execErr != nil {
		return nil, execErr
	}
	return db, nil
}
