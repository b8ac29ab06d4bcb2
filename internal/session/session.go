package session

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/evglabs/superdeck/internal/engine"
)

// Session is one live battle held in memory. Persisted state (character,
// ratings, ghosts) is only touched when the battle finalizes.
type Session struct {
	ID string

	Engine *engine.Engine
	Rng    *rand.Rand

	PlayerUUID  string
	CharacterID uint
	// GhostID is zero when the opponent was synthesized instead of
	// matched from a stored snapshot.
	GhostID uint

	// Ratings captured at battle start so the Elo delta is computed
	// against the numbers both sides actually entered with.
	PlayerRatingAtStart int
	GhostRatingAtStart  int

	AutoPlay  bool
	ProfileID string

	CreatedAt  time.Time
	LastActive time.Time

	Finalized bool
}

// Registry tracks live sessions by battle id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// finalize collapses concurrent finalization attempts for the same
	// battle into a single execution.
	finalize singleflight.Group
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Create registers a new session and assigns its battle id.
func (r *Registry) Create(s *Session) *Session {
	now := time.Now()
	s.ID = uuid.NewString()
	s.CreatedAt = now
	s.LastActive = now

	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session for a battle id, or nil.
func (r *Registry) Get(id string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sessions[id]
}

// Touch refreshes the idle clock for a session.
func (r *Registry) Touch(id string) {
	r.mu.Lock()
	if s, ok := r.sessions[id]; ok {
		s.LastActive = time.Now()
	}
	r.mu.Unlock()
}

// Remove drops a session from the registry.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// IdleSince returns the sessions whose last activity is at or before the
// cutoff and whose battle has not finished yet.
func (r *Registry) IdleSince(cutoff time.Time) []*Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*Session
	for _, s := range r.sessions {
		if s.LastActive.After(cutoff) {
			continue
		}
		if s.Engine.Battle().Complete {
			continue
		}
		out = append(out, s)
	}
	return out
}

// PurgeFinished drops finalized sessions whose last activity is at or
// before the cutoff, returning how many were removed. A finished battle
// stays readable for a while so clients can fetch the final state.
func (r *Registry) PurgeFinished(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		if s.Finalized && !s.LastActive.After(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n
}

// FinalizeOnce runs fn exactly once per battle id even under concurrent
// callers; later callers share the first result.
func (r *Registry) FinalizeOnce(id string, fn func() error) error {
	_, err, _ := r.finalize.Do(id, func() (interface{}, error) {
		return nil, fn()
	})
	return err
}
