package service

import (
	"time"

	"github.com/evglabs/superdeck/internal/constants"
	"github.com/evglabs/superdeck/internal/logging"
)

// SweepIdle forfeits battles with no player activity for the configured
// TTL, awarding the win to the opponent, and purges finished sessions
// that have aged out. Returns how many battles were forfeited.
func (s *Service) SweepIdle(now time.Time) int {
	cutoff := now.Add(-s.cfg.SessionIdleTTL)
	forfeited := 0
	for _, sess := range s.sessions.IdleSince(cutoff) {
		b := sess.Engine.Battle()
		if err := sess.Engine.Forfeit(b.Player); err != nil {
			continue
		}
		if err := s.finalizeIfComplete(sess); err != nil {
			logging.Error("failed to finalize idle battle", err, logging.Fields{
				constants.LogFieldBattleID: sess.ID,
			})
			continue
		}
		logging.Warn("idle battle forfeited", logging.Fields{
			constants.LogFieldBattleID:    sess.ID,
			constants.LogFieldCharacterID: sess.CharacterID,
			constants.LogFieldPhase:       string(b.Phase),
		})
		forfeited++
	}
	s.sessions.PurgeFinished(cutoff)
	return forfeited
}

// RunSweeper loops SweepIdle on the given interval until stop is closed.
// The caller runs it in a goroutine at startup.
func (s *Service) RunSweeper(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.SweepIdle(now)
		case <-stop:
			return
		}
	}
}
