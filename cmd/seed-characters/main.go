// Command seed-characters populates the database with a batch of starter
// characters and ghost snapshots so a fresh install has opponents to
// match against.
package main

import (
	"flag"
	"fmt"
	"math/rand"

	"github.com/evglabs/superdeck/internal/cardlib"
	"github.com/evglabs/superdeck/internal/config"
	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/logging"
	"github.com/evglabs/superdeck/internal/service"
	"github.com/evglabs/superdeck/internal/session"
	"github.com/evglabs/superdeck/internal/storage"
)

var seedNames = []string{
	"Vanguard", "Nightshade", "Emberwing", "Stonewall", "Quickstep",
	"Hexweaver", "Ironclad", "Galeheart", "Duskblade", "Sunspire",
}

func main() {
	count := flag.Int("count", 10, "number of characters to seed")
	deckSize := flag.Int("deck-size", 12, "cards per seeded deck")
	seed := flag.Int64("seed", 1, "random seed for stat and deck rolls")
	flag.Parse()

	cfg, err := config.Load(config.DefaultConfigPath)
	if err != nil {
		logging.Fatal("Missing or invalid superdeck configuration", err, nil)
	}
	library, err := cardlib.Load(cfg.CardLibraryPath)
	if err != nil {
		logging.Fatal("Missing or invalid card library", err, logging.Fields{"cards_path": cfg.CardLibraryPath})
	}
	db, err := storage.OpenAndMigrate(cfg.DBPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	repo := storage.NewSQLiteRepository(db)
	svc := service.New(repo, session.NewRegistry(), library, cfg)

	rng := rand.New(rand.NewSource(*seed))
	all := library.All()
	for i := 0; i < *count; i++ {
		name := seedNames[i%len(seedNames)]
		if i >= len(seedNames) {
			name = fmt.Sprintf("%s %d", name, i/len(seedNames)+1)
		}

		// Spread a fixed stat budget randomly per character.
		stats := [3]int{1, 1, 1}
		for p := 3; p < 12; p++ {
			stats[rng.Intn(3)]++
		}
		deck := make([]uint, *deckSize)
		for j := range deck {
			deck[j] = all[rng.Intn(len(all))].ID
		}

		c, err := svc.CreateCharacter(service.CreateCharacterRequest{
			Name:    name,
			Attack:  stats[0],
			Defense: stats[1],
			Speed:   stats[2],
			DeckIDs: deck,
		})
		if err != nil {
			logging.Fatal("Failed to seed character", err, logging.Fields{"name": name})
		}
		if err := repo.CreateGhostSnapshot(game.SnapshotOf(c)); err != nil {
			logging.Fatal("Failed to snapshot seeded character", err, logging.Fields{"name": name})
		}
		logging.Info("seeded character", logging.Fields{
			"name":    c.Name,
			"attack":  c.Attack,
			"defense": c.Defense,
			"speed":   c.Speed,
		})
	}
}
