package api

import (
	"net/http"

	"github.com/evglabs/superdeck/internal/constants"
	"github.com/evglabs/superdeck/internal/service"

	"github.com/gin-gonic/gin"
)

type RegisterPlayerRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RegisterPlayer creates or refreshes a player profile and returns it,
// including the player UUID used by all battle endpoints.
func (h *BattleHandler) RegisterPlayer(c *gin.Context) {
	var req RegisterPlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	p, err := h.svc.RegisterPlayer(req.Email, req.Name)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// ListPlayerCharacters returns every character owned by a player.
func (h *BattleHandler) ListPlayerCharacters(c *gin.Context) {
	chars, err := h.svc.PlayerCharacters(c.Param("playerUUID"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": chars})
}

type CreateCharacterRequest struct {
	PlayerUUID string `json:"player_uuid"`
	Name       string `json:"name"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	Speed      int    `json:"speed"`
	DeckIDs    []uint `json:"deck_ids"`
}

// CreateCharacter persists a new character with the given stat line and
// deck.
func (h *BattleHandler) CreateCharacter(c *gin.Context) {
	var req CreateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	char, err := h.svc.CreateCharacter(service.CreateCharacterRequest{
		PlayerUUID: req.PlayerUUID,
		Name:       req.Name,
		Attack:     req.Attack,
		Defense:    req.Defense,
		Speed:      req.Speed,
		DeckIDs:    req.DeckIDs,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, char)
}
