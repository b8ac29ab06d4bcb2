package api

import (
	"net/http"
	"strconv"

	"github.com/evglabs/superdeck/internal/constants"

	"github.com/gin-gonic/gin"
)

// Leaderboard returns the top characters by rating.
func (h *BattleHandler) Leaderboard(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	chars, err := h.svc.Leaderboard(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": chars})
}

// GetCharacter returns a persisted character by id.
func (h *BattleHandler) GetCharacter(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("characterID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	ch, err := h.svc.GetCharacter(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
		return
	}
	c.JSON(http.StatusOK, ch)
}
