package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/evglabs/superdeck/internal/constants"
	"github.com/evglabs/superdeck/internal/engine"
	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/service"

	"github.com/gin-gonic/gin"
)

type StartBattleRequest struct {
	CharacterID uint   `json:"character_id"`
	PlayerUUID  string `json:"player_uuid"`
	Seed        int64  `json:"seed"`
	AutoPlay    bool   `json:"auto_play"`
	ProfileID   string `json:"profile_id"`
}

// StartBattle opens a new battle for a character and returns the opening
// state.
func (h *BattleHandler) StartBattle(c *gin.Context) {
	var req StartBattleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	sess, err := h.svc.StartBattle(service.StartBattleRequest{
		CharacterID: req.CharacterID,
		PlayerUUID:  req.PlayerUUID,
		Seed:        req.Seed,
		AutoPlay:    req.AutoPlay,
		ProfileID:   req.ProfileID,
	})
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(sess))
}

// GetBattle returns the current player-facing state of a battle.
func (h *BattleHandler) GetBattle(c *gin.Context) {
	sess, err := h.svc.Get(c.Param("battleID"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

type ActionRequest struct {
	Kind       string `json:"kind"`
	HandIndex  int    `json:"hand_index"`
	PlayerUUID string `json:"player_uuid"`
}

// SubmitAction applies one player action. Engine validation failures are
// reported as a 400 with valid=false and the rejection message; the
// battle state in the response is unchanged in that case.
func (h *BattleHandler) SubmitAction(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	sess, err := h.svc.SubmitAction(c.Param("battleID"), req.PlayerUUID, game.Action{
		Kind:      game.ActionKind(req.Kind),
		HandIndex: req.HandIndex,
	})
	if err != nil {
		var ve *engine.ValidationError
		if errors.As(err, &ve) {
			c.JSON(http.StatusBadRequest, gin.H{
				"valid":   false,
				"message": ve.Msg,
				"state":   viewOf(sess),
			})
			return
		}
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "state": viewOf(sess)})
}

type AutoPlayRequest struct {
	Enabled    bool   `json:"enabled"`
	ProfileID  string `json:"profile_id"`
	PlayerUUID string `json:"player_uuid"`
}

// ToggleAutoPlay flips auto-play for a battle; enabling it plays the
// battle out immediately.
func (h *BattleHandler) ToggleAutoPlay(c *gin.Context) {
	var req AutoPlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
		return
	}
	sess, err := h.svc.ToggleAutoPlay(c.Param("battleID"), req.PlayerUUID, req.Enabled, req.ProfileID)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

// GetEvents returns the battle's typed event stream, optionally from a
// sequence offset so clients can poll incrementally.
func (h *BattleHandler) GetEvents(c *gin.Context) {
	sess, err := h.svc.Get(c.Param("battleID"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	since := 0
	if v := c.Query("since"); v != "" {
		n, convErr := strconv.Atoi(v)
		if convErr != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: constants.ErrInvalidRequest})
			return
		}
		since = n
	}
	events := sess.Engine.Battle().Events
	out := make([]game.BattleEvent, 0, len(events))
	for _, ev := range events {
		if ev.Seq > since {
			out = append(out, ev)
		}
	}
	if c.Query("format") == "text" {
		lines := make([]string, len(out))
		for i, ev := range out {
			lines[i] = game.FormatEvent(ev)
		}
		c.String(http.StatusOK, strings.Join(lines, "\n"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": out})
}

func (h *BattleHandler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBattleNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrBattleNotFound})
	case errors.Is(err, service.ErrCharacterNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrCharacterNotFound})
	case errors.Is(err, service.ErrPlayerNotFound):
		c.JSON(http.StatusNotFound, gin.H{constants.JSONKeyError: constants.ErrPlayerNotFound})
	case errors.Is(err, service.ErrBattleFinished):
		c.JSON(http.StatusConflict, gin.H{constants.JSONKeyError: constants.ErrBattleComplete})
	case errors.Is(err, service.ErrNotYourBattle):
		c.JSON(http.StatusForbidden, gin.H{constants.JSONKeyError: err.Error()})
	case errors.Is(err, service.ErrUnknownAction), errors.Is(err, service.ErrEmptyDeck),
		errors.Is(err, service.ErrPlayerEmailNeeded), errors.Is(err, service.ErrCharacterNameRequired),
		errors.Is(err, service.ErrDeckTooSmall):
		c.JSON(http.StatusBadRequest, gin.H{constants.JSONKeyError: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{constants.JSONKeyError: err.Error()})
	}
}
