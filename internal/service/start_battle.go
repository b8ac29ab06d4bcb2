package service

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/evglabs/superdeck/internal/constants"
	"github.com/evglabs/superdeck/internal/engine"
	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/logging"
	"github.com/evglabs/superdeck/internal/session"
)

// StartBattleRequest carries everything needed to open a battle.
type StartBattleRequest struct {
	CharacterID uint
	PlayerUUID  string
	// Seed pins the battle's random source; zero means derive one from
	// the clock.
	Seed      int64
	AutoPlay  bool
	ProfileID string
}

// matchmakingPoolSize bounds how many ghost candidates are scanned per
// matchmaking query.
const matchmakingPoolSize = 32

// StartBattle opens a new battle for a character: a ghost opponent is
// matched from the rating band (or synthesized when none exists), decks
// are built from the card library, and the engine runs the opening draw.
func (s *Service) StartBattle(req StartBattleRequest) (*session.Session, error) {
	c, err := s.repo.GetCharacterByID(req.CharacterID)
	if err != nil || c == nil {
		return nil, ErrCharacterNotFound
	}
	deckIDs := c.DeckCardIDs()
	if len(deckIDs) == 0 {
		return nil, ErrEmptyDeck
	}
	deck, err := s.library.BuildDeck(deckIDs)
	if err != nil {
		return nil, fmt.Errorf("build deck for character %d: %w", c.ID, err)
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	player := &game.Combatant{
		ID:          fmt.Sprintf("char-%d", c.ID),
		Name:        c.Name,
		Level:       c.Level,
		BaseAttack:  c.Attack,
		BaseDefense: c.Defense,
		BaseSpeed:   c.Speed,
		MaxHP:       c.MaxHP(),
		HP:          c.MaxHP(),
		Rating:      c.Rating,
	}

	opponent, ghostID, err := s.matchOpponent(c, rng, len(deck))
	if err != nil {
		return nil, err
	}

	player.Deck = deck
	b := &game.Battle{
		Phase:    game.PhaseNotStarted,
		Player:   player,
		Opponent: opponent,
	}

	eng := engine.New(b, rng, s.engineConfig())
	sess := s.sessions.Create(&session.Session{
		Engine:              eng,
		Rng:                 rng,
		PlayerUUID:          req.PlayerUUID,
		CharacterID:         c.ID,
		GhostID:             ghostID,
		PlayerRatingAtStart: c.Rating,
		GhostRatingAtStart:  opponent.Rating,
		AutoPlay:            req.AutoPlay,
		ProfileID:           req.ProfileID,
	})
	b.ID = sess.ID

	if err := eng.Begin(); err != nil {
		s.sessions.Remove(sess.ID)
		return nil, err
	}
	logging.Info("battle started", logging.Fields{
		constants.LogFieldBattleID:    sess.ID,
		constants.LogFieldCharacterID: c.ID,
		constants.LogFieldGhostID:     ghostID,
		constants.LogFieldSeed:        seed,
	})

	if sess.AutoPlay {
		s.runAutoPlay(sess)
		if err := s.finalizeIfComplete(sess); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// matchOpponent picks a ghost snapshot from the rating band, uniformly at
// random over the candidates. When the band is empty a default opponent
// is synthesized at the character's own level.
func (s *Service) matchOpponent(c *game.Character, rng *rand.Rand, deckSize int) (*game.Combatant, uint, error) {
	band := s.cfg.Rating.Band
	ghosts, err := s.repo.FindGhostsByRatingRange(c.Rating-band, c.Rating+band, matchmakingPoolSize, c.ID)
	if err != nil {
		return nil, 0, err
	}
	if len(ghosts) == 0 {
		return s.synthesizeOpponent(c, rng, deckSize), 0, nil
	}

	g := ghosts[rng.Intn(len(ghosts))]
	deck, err := s.library.BuildDeck(game.ParseCardIDs(g.DeckCards))
	if err != nil || len(deck) == 0 {
		logging.Warn("ghost deck unusable; synthesizing opponent", logging.Fields{constants.LogFieldGhostID: g.ID})
		return s.synthesizeOpponent(c, rng, deckSize), 0, nil
	}
	for _, card := range deck {
		card.IsGhostCopy = true
	}

	maxHP := game.DeriveMaxHP(g.Level, g.Defense)
	return &game.Combatant{
		ID:          fmt.Sprintf("ghost-%d", g.ID),
		Name:        g.Name,
		Level:       g.Level,
		BaseAttack:  g.Attack,
		BaseDefense: g.Defense,
		BaseSpeed:   g.Speed,
		MaxHP:       maxHP,
		HP:          maxHP,
		Rating:      g.Rating,
		IsGhost:     true,
		Deck:        deck,
	}, g.ID, nil
}

// synthesizeOpponent builds a stand-in at the character's level: the same
// stat budget spread randomly across attack, defense and speed, with a
// deck drawn from the basic suits.
func (s *Service) synthesizeOpponent(c *game.Character, rng *rand.Rand, deckSize int) *game.Combatant {
	budget := c.Attack + c.Defense + c.Speed
	if budget < 3 {
		budget = 3
	}
	stats := [3]int{1, 1, 1}
	for i := 3; i < budget; i++ {
		stats[rng.Intn(3)]++
	}

	var pool []*game.Card
	for _, suit := range game.BasicSuits {
		pool = append(pool, s.library.CardsBySuit(suit)...)
	}
	if deckSize < 1 {
		deckSize = 1
	}
	deck := make([]*game.Card, 0, deckSize)
	if len(pool) > 0 {
		for i := 0; i < deckSize; i++ {
			card := pool[rng.Intn(len(pool))].Clone()
			card.IsGhostCopy = true
			deck = append(deck, card)
		}
	}

	maxHP := game.DeriveMaxHP(c.Level, stats[1])
	return &game.Combatant{
		ID:          "ghost-default",
		Name:        "Echo of " + c.Name,
		Level:       c.Level,
		BaseAttack:  stats[0],
		BaseDefense: stats[1],
		BaseSpeed:   stats[2],
		MaxHP:       maxHP,
		HP:          maxHP,
		Rating:      c.Rating,
		IsGhost:     true,
		Deck:        deck,
	}
}
