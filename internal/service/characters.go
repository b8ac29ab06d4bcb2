package service

import (
	"errors"
	"fmt"

	"github.com/evglabs/superdeck/internal/constants"
	"github.com/evglabs/superdeck/internal/game"
)

var (
	ErrCharacterNameRequired = errors.New("character name is required")
	ErrDeckTooSmall          = errors.New("deck must hold at least one card")
)

// CreateCharacterRequest describes a new character. Stats are taken as
// given; the caller (seed tool or future builder UI) owns point budgets.
type CreateCharacterRequest struct {
	PlayerID uint
	// PlayerUUID resolves to PlayerID when set; web clients only hold
	// the uuid.
	PlayerUUID string
	Name       string
	Attack     int
	Defense    int
	Speed      int
	DeckIDs    []uint
}

// CreateCharacter validates the deck against the card library and
// persists a fresh level-1 character.
func (s *Service) CreateCharacter(req CreateCharacterRequest) (*game.Character, error) {
	if req.Name == "" {
		return nil, ErrCharacterNameRequired
	}
	if len(req.DeckIDs) == 0 {
		return nil, ErrDeckTooSmall
	}
	for _, id := range req.DeckIDs {
		if s.library.Get(id) == nil {
			return nil, fmt.Errorf("deck references unknown card id %d", id)
		}
	}
	if req.PlayerID == 0 && req.PlayerUUID != "" {
		p, err := s.repo.GetPlayerProfileByUUID(req.PlayerUUID)
		if err != nil || p == nil {
			return nil, ErrPlayerNotFound
		}
		req.PlayerID = p.ID
	}

	c := &game.Character{
		PlayerID:  req.PlayerID,
		Name:      req.Name,
		Level:     1,
		Attack:    req.Attack,
		Defense:   req.Defense,
		Speed:     req.Speed,
		Rating:    constants.DefaultStartingRating,
		DeckCards: game.JoinCardIDs(req.DeckIDs),
	}
	if err := s.repo.CreateCharacter(c); err != nil {
		return nil, err
	}
	return c, nil
}
