package service

import (
	"errors"

	"github.com/evglabs/superdeck/internal/cardlib"
	"github.com/evglabs/superdeck/internal/config"
	"github.com/evglabs/superdeck/internal/engine"
	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/session"
)

var (
	ErrBattleNotFound    = errors.New("battle not found")
	ErrCharacterNotFound = errors.New("character not found")
	ErrBattleFinished    = errors.New("battle is already finished")
	ErrNotYourBattle     = errors.New("battle belongs to another player")
	ErrUnknownAction     = errors.New("unknown action kind")
	ErrEmptyDeck         = errors.New("character has no deck")
)

// Repo is the slice of the storage layer the battle service needs. Using a
// small interface simplifies testing.
type Repo interface {
	GetCharacterByID(id uint) (*game.Character, error)
	GetCharactersByPlayer(playerID uint) ([]game.Character, error)
	CreateCharacter(c *game.Character) error
	UpdateCharacter(c *game.Character) error

	UpsertPlayerProfile(email, uuid, name string) error
	GetPlayerProfileByUUID(uuid string) (*game.PlayerProfile, error)
	UpdatePlayerProfile(p *game.PlayerProfile) error

	CreateGhostSnapshot(g *game.GhostSnapshot) error
	GetGhostSnapshotByID(id uint) (*game.GhostSnapshot, error)
	FindGhostsByRatingRange(min, max, limit int, excludeCharacterID uint) ([]game.GhostSnapshot, error)
	UpdateGhostSnapshot(g *game.GhostSnapshot) error

	GetTopCharacters(limit int) ([]game.Character, error)
}

// Service orchestrates battles: it owns the live session registry and
// mediates between the HTTP layer, the engine and the storage layer.
type Service struct {
	repo     Repo
	sessions *session.Registry
	library  *cardlib.Library
	cfg      *config.LoadedConfig
}

func New(repo Repo, sessions *session.Registry, library *cardlib.Library, cfg *config.LoadedConfig) *Service {
	return &Service{repo: repo, sessions: sessions, library: library, cfg: cfg}
}

// Get returns the live session for a battle id.
func (s *Service) Get(battleID string) (*session.Session, error) {
	sess := s.sessions.Get(battleID)
	if sess == nil {
		return nil, ErrBattleNotFound
	}
	return sess, nil
}

// Leaderboard returns the top characters by rating.
func (s *Service) Leaderboard(limit int) ([]game.Character, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.repo.GetTopCharacters(limit)
}

// GetCharacter loads a persisted character.
func (s *Service) GetCharacter(id uint) (*game.Character, error) {
	c, err := s.repo.GetCharacterByID(id)
	if err != nil || c == nil {
		return nil, ErrCharacterNotFound
	}
	return c, nil
}

// engineConfig translates the loaded config into engine tuning. Zero
// values fall through to the engine defaults.
func (s *Service) engineConfig() engine.Config {
	cfg := engine.Config{
		StartingHandSize:     s.cfg.Battle.StartingHandSize,
		DrawPerTurn:          s.cfg.Battle.DrawPerTurn,
		BaseQueueSlots:       s.cfg.Battle.BaseQueueSlots,
		SystemDamageRound:    s.cfg.Battle.SystemDamageRound,
		SystemDamageBase:     s.cfg.Battle.SystemDamageBase,
		SystemDamagePerRound: s.cfg.Battle.SystemDamagePerRound,
		ScriptTimeout:        s.cfg.ScriptTimeout(),
		ScriptMemoryLimit:    s.cfg.ScriptMemoryLimit(),
		ScriptSampleInterval: s.cfg.ScriptSampleInterval(),
	}
	return cfg
}
