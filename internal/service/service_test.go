package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/evglabs/superdeck/internal/cardlib"
	"github.com/evglabs/superdeck/internal/config"
	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/session"
)

type mockRepo struct {
	characters map[uint]*game.Character
	profiles   map[string]*game.PlayerProfile
	ghosts     map[uint]*game.GhostSnapshot

	updatedCharacter *game.Character
	updatedGhost     *game.GhostSnapshot
	snapshots        []*game.GhostSnapshot
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		characters: make(map[uint]*game.Character),
		profiles:   make(map[string]*game.PlayerProfile),
		ghosts:     make(map[uint]*game.GhostSnapshot),
	}
}

func (m *mockRepo) GetCharacterByID(id uint) (*game.Character, error) {
	if c, ok := m.characters[id]; ok {
		return c, nil
	}
	return nil, ErrCharacterNotFound
}

func (m *mockRepo) CreateCharacter(c *game.Character) error {
	c.ID = uint(len(m.characters) + 1)
	m.characters[c.ID] = c
	return nil
}

func (m *mockRepo) UpdateCharacter(c *game.Character) error {
	m.updatedCharacter = c
	m.characters[c.ID] = c
	return nil
}

func (m *mockRepo) GetCharactersByPlayer(playerID uint) ([]game.Character, error) {
	var out []game.Character
	for _, c := range m.characters {
		if c.PlayerID == playerID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockRepo) UpsertPlayerProfile(email, uuid, name string) error {
	for old, p := range m.profiles {
		if p.Email == email {
			delete(m.profiles, old)
			p.PlayerUUID = uuid
			p.PlayerName = name
			m.profiles[uuid] = p
			return nil
		}
	}
	p := &game.PlayerProfile{PlayerUUID: uuid, PlayerName: name, Email: email}
	p.ID = uint(len(m.profiles) + 1)
	m.profiles[uuid] = p
	return nil
}

func (m *mockRepo) GetPlayerProfileByUUID(uuid string) (*game.PlayerProfile, error) {
	if p, ok := m.profiles[uuid]; ok {
		return p, nil
	}
	return nil, ErrPlayerNotFound
}

func (m *mockRepo) UpdatePlayerProfile(p *game.PlayerProfile) error {
	m.profiles[p.PlayerUUID] = p
	return nil
}

func (m *mockRepo) CreateGhostSnapshot(g *game.GhostSnapshot) error {
	g.ID = uint(len(m.ghosts) + 100)
	m.ghosts[g.ID] = g
	m.snapshots = append(m.snapshots, g)
	return nil
}

func (m *mockRepo) GetGhostSnapshotByID(id uint) (*game.GhostSnapshot, error) {
	if g, ok := m.ghosts[id]; ok {
		return g, nil
	}
	return nil, ErrBattleNotFound
}

func (m *mockRepo) FindGhostsByRatingRange(min, max, limit int, excludeCharacterID uint) ([]game.GhostSnapshot, error) {
	var out []game.GhostSnapshot
	for _, g := range m.ghosts {
		if g.Rating >= min && g.Rating <= max && g.CharacterID != excludeCharacterID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *mockRepo) UpdateGhostSnapshot(g *game.GhostSnapshot) error {
	m.updatedGhost = g
	m.ghosts[g.ID] = g
	return nil
}

func (m *mockRepo) GetTopCharacters(limit int) ([]game.Character, error) {
	var out []game.Character
	for _, c := range m.characters {
		out = append(out, *c)
	}
	return out, nil
}

const testCardsYAML = `
cards:
  - id: 1
    name: Slash
    suit: blade
    type: attack
    effect: {target: opponent, script: damage(6)}
  - id: 2
    name: Ward
    suit: shield
    type: defense
    grant:
      target: self
      status: {name: Warded, duration: 2, hooks: {on_take_damage: "incoming -= 2"}}
  - id: 3
    name: Dash
    suit: swift
    type: skill
    effect: {target: self, script: draw(1)}
`

func testLibrary(t *testing.T) *cardlib.Library {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.yaml")
	if err := os.WriteFile(path, []byte(testCardsYAML), 0o600); err != nil {
		t.Fatalf("write cards: %v", err)
	}
	lib, err := cardlib.Load(path)
	if err != nil {
		t.Fatalf("load cards: %v", err)
	}
	return lib
}

func testConfig(t *testing.T) *config.LoadedConfig {
	t.Helper()
	lc, err := config.Load("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	return lc
}

func newTestService(t *testing.T, repo Repo) *Service {
	t.Helper()
	return New(repo, session.NewRegistry(), testLibrary(t), testConfig(t))
}

func seedCharacter(m *mockRepo) *game.Character {
	c := &game.Character{
		Name:      "Aster",
		Level:     2,
		Attack:    5,
		Defense:   4,
		Speed:     3,
		Rating:    1000,
		DeckCards: "1,1,2,3,1,2,1,3,1,1",
	}
	c.ID = 1
	m.characters[1] = c
	return c
}

func TestStartBattle_SynthesizesOpponentWhenNoGhosts(t *testing.T) {
	m := newMockRepo()
	seedCharacter(m)
	svc := newTestService(t, m)

	sess, err := svc.StartBattle(StartBattleRequest{CharacterID: 1, Seed: 11})
	if err != nil {
		t.Fatalf("start battle: %v", err)
	}
	b := sess.Engine.Battle()
	if !b.Opponent.IsGhost || sess.GhostID != 0 {
		t.Fatalf("expected a synthesized ghost opponent, got %+v", b.Opponent)
	}
	if got := b.Opponent.BaseAttack + b.Opponent.BaseDefense + b.Opponent.BaseSpeed; got != 5+4+3 {
		t.Fatalf("synthesized opponent must share the stat budget, got %d", got)
	}
	if b.Phase != game.PhaseQueue {
		t.Fatalf("expected battle in queue phase, got %s", b.Phase)
	}
	if len(b.Player.Hand) == 0 {
		t.Fatalf("expected an opening hand")
	}
}

func TestStartBattle_MatchesGhostInBand(t *testing.T) {
	m := newMockRepo()
	seedCharacter(m)
	ghost := &game.GhostSnapshot{
		CharacterID: 9,
		Name:        "Rival",
		Level:       2,
		Attack:      4,
		Defense:     4,
		Speed:       4,
		Rating:      1050,
		DeckCards:   "1,2,3,1,2",
	}
	ghost.ID = 100
	m.ghosts[100] = ghost
	svc := newTestService(t, m)

	sess, err := svc.StartBattle(StartBattleRequest{CharacterID: 1, Seed: 7})
	if err != nil {
		t.Fatalf("start battle: %v", err)
	}
	if sess.GhostID != 100 {
		t.Fatalf("expected ghost 100 to be matched, got %d", sess.GhostID)
	}
	opp := sess.Engine.Battle().Opponent
	if opp.Name != "Rival" || !opp.IsGhost {
		t.Fatalf("unexpected opponent %+v", opp)
	}
	for _, card := range opp.Deck {
		if !card.IsGhostCopy {
			t.Fatalf("ghost deck cards must be marked as copies")
		}
	}
}

func TestStartBattle_UnknownCharacter(t *testing.T) {
	svc := newTestService(t, newMockRepo())
	if _, err := svc.StartBattle(StartBattleRequest{CharacterID: 42}); err != ErrCharacterNotFound {
		t.Fatalf("expected ErrCharacterNotFound, got %v", err)
	}
}

func TestSubmitAction_QueueAndConfirm(t *testing.T) {
	m := newMockRepo()
	seedCharacter(m)
	svc := newTestService(t, m)
	sess, err := svc.StartBattle(StartBattleRequest{CharacterID: 1, Seed: 3})
	if err != nil {
		t.Fatalf("start battle: %v", err)
	}

	if _, err := svc.SubmitAction(sess.ID, "", game.Action{Kind: game.ActionQueueCard, HandIndex: 0}); err != nil {
		t.Fatalf("queue: %v", err)
	}
	sess2, err := svc.SubmitAction(sess.ID, "", game.Action{Kind: game.ActionConfirmQueue})
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	b := sess2.Engine.Battle()
	if !b.Complete && b.Round != 2 {
		t.Fatalf("expected round 2 after confirm, got %d", b.Round)
	}
}

func TestSubmitAction_UnknownBattle(t *testing.T) {
	svc := newTestService(t, newMockRepo())
	if _, err := svc.SubmitAction("nope", "", game.Action{Kind: game.ActionForfeit}); err != ErrBattleNotFound {
		t.Fatalf("expected ErrBattleNotFound, got %v", err)
	}
}

func TestSubmitAction_WrongPlayer(t *testing.T) {
	m := newMockRepo()
	seedCharacter(m)
	svc := newTestService(t, m)
	sess, err := svc.StartBattle(StartBattleRequest{CharacterID: 1, PlayerUUID: "owner", Seed: 3})
	if err != nil {
		t.Fatalf("start battle: %v", err)
	}
	if _, err := svc.SubmitAction(sess.ID, "intruder", game.Action{Kind: game.ActionForfeit}); err != ErrNotYourBattle {
		t.Fatalf("expected ErrNotYourBattle, got %v", err)
	}
}

func TestForfeit_FinalizesRatingsAndRecord(t *testing.T) {
	m := newMockRepo()
	c := seedCharacter(m)
	ghost := &game.GhostSnapshot{CharacterID: 9, Name: "Rival", Level: 2, Attack: 4, Defense: 4, Speed: 4, Rating: 1000, DeckCards: "1,2,3"}
	ghost.ID = 100
	m.ghosts[100] = ghost
	svc := newTestService(t, m)
	sess, err := svc.StartBattle(StartBattleRequest{CharacterID: 1, Seed: 7})
	if err != nil {
		t.Fatalf("start battle: %v", err)
	}

	if _, err := svc.SubmitAction(sess.ID, "", game.Action{Kind: game.ActionForfeit}); err != nil {
		t.Fatalf("forfeit: %v", err)
	}
	if !sess.Finalized {
		t.Fatalf("expected session finalized after forfeit")
	}
	if c.Losses != 1 || c.Rating >= 1000 {
		t.Fatalf("expected a loss and a rating drop, got losses=%d rating=%d", c.Losses, c.Rating)
	}
	if ghost.Wins != 1 || ghost.Rating <= 1000 {
		t.Fatalf("expected mirrored ghost win, got wins=%d rating=%d", ghost.Wins, ghost.Rating)
	}
	// Equal starting ratings: the deltas must cancel exactly.
	if (1000-c.Rating) != (ghost.Rating - 1000) {
		t.Fatalf("rating deltas must mirror: player %d ghost %d", c.Rating, ghost.Rating)
	}

	if _, err := svc.SubmitAction(sess.ID, "", game.Action{Kind: game.ActionForfeit}); err != ErrBattleFinished {
		t.Fatalf("expected ErrBattleFinished on a finished battle, got %v", err)
	}
	if c.Losses != 1 {
		t.Fatalf("finalize must run once, losses=%d", c.Losses)
	}
}

func TestAutoPlay_RunsBattleToCompletion(t *testing.T) {
	m := newMockRepo()
	c := seedCharacter(m)
	svc := newTestService(t, m)
	sess, err := svc.StartBattle(StartBattleRequest{CharacterID: 1, Seed: 13, AutoPlay: true})
	if err != nil {
		t.Fatalf("start battle: %v", err)
	}
	if !sess.Engine.Battle().Complete {
		t.Fatalf("auto-play battle should run to completion")
	}
	if !sess.Finalized {
		t.Fatalf("completed auto-play battle must be finalized")
	}
	if c.Wins+c.Losses != 1 {
		t.Fatalf("expected exactly one recorded result, got %d", c.Wins+c.Losses)
	}
}

func TestCreateCharacter_ValidatesDeck(t *testing.T) {
	svc := newTestService(t, newMockRepo())
	if _, err := svc.CreateCharacter(CreateCharacterRequest{Name: "X", DeckIDs: []uint{99}}); err == nil {
		t.Fatalf("expected error for unknown card id")
	}
	c, err := svc.CreateCharacter(CreateCharacterRequest{
		Name: "X", Attack: 3, Defense: 3, Speed: 3, DeckIDs: []uint{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	if c.Level != 1 || c.Rating != 1000 {
		t.Fatalf("unexpected defaults: level=%d rating=%d", c.Level, c.Rating)
	}
}

func TestSweepIdle_ForfeitsStaleBattles(t *testing.T) {
	m := newMockRepo()
	c := seedCharacter(m)
	svc := newTestService(t, m)
	sess, err := svc.StartBattle(StartBattleRequest{CharacterID: 1, Seed: 5})
	if err != nil {
		t.Fatalf("start battle: %v", err)
	}

	if n := svc.SweepIdle(time.Now()); n != 0 {
		t.Fatalf("fresh battle must not be swept, got %d", n)
	}
	if n := svc.SweepIdle(time.Now().Add(time.Hour)); n != 1 {
		t.Fatalf("expected one idle forfeit, got %d", n)
	}
	if !sess.Engine.Battle().Complete {
		t.Fatalf("swept battle must be complete")
	}
	if c.Losses != 1 {
		t.Fatalf("idle forfeit must count as a loss, got %d", c.Losses)
	}
}

func TestRegisterPlayer_CreatesProfileAndListsCharacters(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(t, repo)

	p, err := svc.RegisterPlayer("Ada@Example.com", "")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if p.PlayerUUID == "" {
		t.Fatalf("expected a player uuid")
	}
	if p.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", p.Email)
	}
	if p.PlayerName != "ada" {
		t.Fatalf("expected name derived from email, got %q", p.PlayerName)
	}

	c, err := svc.CreateCharacter(CreateCharacterRequest{
		PlayerUUID: p.PlayerUUID,
		Name:       "Vanguard",
		Attack:     4,
		Defense:    4,
		Speed:      4,
		DeckIDs:    []uint{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("create character: %v", err)
	}
	if c.PlayerID != p.ID {
		t.Fatalf("character must link to the profile, got player id %d", c.PlayerID)
	}

	chars, err := svc.PlayerCharacters(p.PlayerUUID)
	if err != nil {
		t.Fatalf("list characters: %v", err)
	}
	if len(chars) != 1 || chars[0].Name != "Vanguard" {
		t.Fatalf("expected the created character back, got %+v", chars)
	}
}

func TestRegisterPlayer_SameEmailIssuesFreshUUID(t *testing.T) {
	repo := newMockRepo()
	svc := newTestService(t, repo)

	first, err := svc.RegisterPlayer("ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("first register: %v", err)
	}
	firstUUID, firstID := first.PlayerUUID, first.ID

	second, err := svc.RegisterPlayer("ada@example.com", "Ada")
	if err != nil {
		t.Fatalf("second register: %v", err)
	}
	if second.PlayerUUID == firstUUID {
		t.Fatalf("re-registering must rotate the uuid")
	}
	if second.ID != firstID {
		t.Fatalf("re-registering must keep the same profile row")
	}
	if _, err := svc.PlayerCharacters(firstUUID); err == nil {
		t.Fatalf("old uuid must stop resolving after rotation")
	}
}

func TestRegisterPlayer_RequiresEmail(t *testing.T) {
	svc := newTestService(t, newMockRepo())
	if _, err := svc.RegisterPlayer("   ", "Ada"); err != ErrPlayerEmailNeeded {
		t.Fatalf("expected ErrPlayerEmailNeeded, got %v", err)
	}
}

func TestPlayerCharacters_UnknownPlayer(t *testing.T) {
	svc := newTestService(t, newMockRepo())
	if _, err := svc.PlayerCharacters("nope"); err != ErrPlayerNotFound {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}
