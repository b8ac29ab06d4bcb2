package main

import (
	"github.com/evglabs/superdeck/internal/cardlib"
	"github.com/evglabs/superdeck/internal/config"
	"github.com/evglabs/superdeck/internal/logging"
	"github.com/evglabs/superdeck/internal/storage"
)

func loadConfigOrExit(path string) *config.LoadedConfig {
	cfg, err := config.Load(path)
	if err != nil {
		logging.Fatal("Missing or invalid superdeck configuration", err, logging.Fields{"config_path": path})
	}
	return cfg
}

func loadLibraryOrExit(path string) *cardlib.Library {
	lib, err := cardlib.Load(path)
	if err != nil {
		logging.Fatal("Missing or invalid card library", err, logging.Fields{"cards_path": path, "hint": "provide a YAML file with a 'cards' array (id,name,suit,type,effect/grant)"})
	}
	return lib
}

func createRepositoryOrExit(dbPath string) storage.Repository {
	db, err := storage.OpenAndMigrate(dbPath)
	if err != nil {
		logging.Fatal("Failed to initialize database", err, nil)
	}
	return storage.NewSQLiteRepository(db)
}
