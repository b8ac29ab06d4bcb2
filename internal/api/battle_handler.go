package api

import (
	"github.com/evglabs/superdeck/internal/service"
)

// BattleHandler groups all battle-related HTTP handlers.
type BattleHandler struct {
	svc *service.Service
}

// NewBattleHandler creates a BattleHandler backed by the battle service.
func NewBattleHandler(svc *service.Service) *BattleHandler {
	return &BattleHandler{svc: svc}
}
