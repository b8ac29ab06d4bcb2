package main

import (
	"time"

	"github.com/evglabs/superdeck/internal/api"
	"github.com/evglabs/superdeck/internal/config"
	"github.com/evglabs/superdeck/internal/constants"
	"github.com/evglabs/superdeck/internal/logging"
	"github.com/evglabs/superdeck/internal/service"
	"github.com/evglabs/superdeck/internal/session"
)

func main() {
	cfg := loadConfigOrExit(config.DefaultConfigPath)
	library := loadLibraryOrExit(cfg.CardLibraryPath)
	repo := createRepositoryOrExit(cfg.DBPath)

	sessions := session.NewRegistry()
	svc := service.New(repo, sessions, library, cfg)

	// Background sweeper: forfeit battles abandoned past the idle TTL and
	// purge aged-out finished sessions.
	stop := make(chan struct{})
	go svc.RunSweeper(time.Minute, stop)
	defer close(stop)

	handler := api.NewBattleHandler(svc)
	router := api.NewRouter(handler)

	addr := cfg.ServerAddress
	logging.Info("Server started", logging.Fields{
		constants.LogFieldAddr: addr,
		"cards":                library.Size(),
	})
	if err := router.Run(addr); err != nil {
		logging.Fatal("Failed to start server", err, nil)
	}
}
