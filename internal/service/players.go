package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/evglabs/superdeck/internal/constants"
	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/logging"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrPlayerEmailNeeded = errors.New("player email is required")
)

// RegisterPlayer creates or refreshes the profile for an email address and
// returns it. Registering an existing email issues a fresh player UUID,
// which doubles as a credential reset.
func (s *Service) RegisterPlayer(email, name string) (*game.PlayerProfile, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, ErrPlayerEmailNeeded
	}
	if name == "" {
		name = email
		if i := strings.IndexByte(email, '@'); i > 0 {
			name = email[:i]
		}
	}
	id := uuid.NewString()
	if err := s.repo.UpsertPlayerProfile(email, id, name); err != nil {
		return nil, err
	}
	p, err := s.repo.GetPlayerProfileByUUID(id)
	if err != nil || p == nil {
		return nil, ErrPlayerNotFound
	}
	logging.Info("player registered", logging.Fields{
		constants.LogFieldPlayerUUID: p.PlayerUUID,
	})
	return p, nil
}

// PlayerCharacters lists the characters owned by a player.
func (s *Service) PlayerCharacters(playerUUID string) ([]game.Character, error) {
	p, err := s.repo.GetPlayerProfileByUUID(playerUUID)
	if err != nil || p == nil {
		return nil, ErrPlayerNotFound
	}
	return s.repo.GetCharactersByPlayer(p.ID)
}
