package service

import (
	"fmt"

	"github.com/evglabs/superdeck/internal/constants"
	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/logging"
	"github.com/evglabs/superdeck/internal/rating"
	"github.com/evglabs/superdeck/internal/session"
)

// finalizeIfComplete persists the outcome of a finished battle exactly
// once: rating deltas for both sides, XP and level-ups for the character,
// a fresh ghost snapshot on level-up and the mirrored ghost record.
func (s *Service) finalizeIfComplete(sess *session.Session) error {
	b := sess.Engine.Battle()
	if !b.Complete {
		return nil
	}
	return s.sessions.FinalizeOnce(sess.ID, func() error {
		if sess.Finalized {
			return nil
		}
		if err := s.finalize(sess); err != nil {
			return err
		}
		sess.Finalized = true
		return nil
	})
}

func (s *Service) finalize(sess *session.Session) error {
	b := sess.Engine.Battle()
	won := b.WinnerID == b.Player.ID

	c, err := s.repo.GetCharacterByID(sess.CharacterID)
	if err != nil || c == nil {
		return fmt.Errorf("finalize battle %s: character %d gone", sess.ID, sess.CharacterID)
	}

	delta := rating.DeltaFull(sess.PlayerRatingAtStart, sess.GhostRatingAtStart, won,
		s.cfg.Rating.KFactor, float64(s.cfg.Rating.Divisor))
	c.Rating += delta
	if c.Rating < 0 {
		c.Rating = 0
	}

	xp := s.cfg.Progress.XPLoss
	if won {
		c.Wins++
		xp = s.cfg.Progress.XPWin
	} else {
		c.Losses++
	}
	c.XP += xp

	leveled := false
	for c.XP >= s.cfg.Progress.XPPerLevel {
		c.XP -= s.cfg.Progress.XPPerLevel
		c.Level++
		leveled = true
	}
	if err := s.repo.UpdateCharacter(c); err != nil {
		return err
	}
	if leveled {
		if err := s.repo.CreateGhostSnapshot(game.SnapshotOf(c)); err != nil {
			logging.Error("failed to snapshot leveled character", err, logging.Fields{
				constants.LogFieldCharacterID: c.ID,
			})
		}
	}

	s.updateProfileStats(sess, won)
	s.updateGhostRecord(sess, won, delta)

	logging.Info("battle finalized", logging.Fields{
		constants.LogFieldBattleID:    sess.ID,
		constants.LogFieldCharacterID: c.ID,
		constants.LogFieldWinner:      b.WinnerID,
		"won":                         won,
		"rating_delta":                delta,
		"level":                       c.Level,
	})
	return nil
}

func (s *Service) updateProfileStats(sess *session.Session, won bool) {
	if sess.PlayerUUID == "" {
		return
	}
	p, err := s.repo.GetPlayerProfileByUUID(sess.PlayerUUID)
	if err != nil || p == nil {
		return
	}
	p.BattlesPlayed++
	if won {
		p.Wins++
	} else {
		p.Losses++
	}
	if err := s.repo.UpdatePlayerProfile(p); err != nil {
		logging.Error("failed to update player profile stats", err, logging.Fields{
			constants.LogFieldPlayerUUID: sess.PlayerUUID,
		})
	}
}

// updateGhostRecord mirrors the outcome onto the stored snapshot so ghost
// ratings drift with their real results.
func (s *Service) updateGhostRecord(sess *session.Session, playerWon bool, playerDelta int) {
	if sess.GhostID == 0 {
		return
	}
	g, err := s.repo.GetGhostSnapshotByID(sess.GhostID)
	if err != nil || g == nil {
		return
	}
	g.Rating -= playerDelta
	if g.Rating < 0 {
		g.Rating = 0
	}
	if playerWon {
		g.Losses++
	} else {
		g.Wins++
	}
	if err := s.repo.UpdateGhostSnapshot(g); err != nil {
		logging.Error("failed to update ghost record", err, logging.Fields{
			constants.LogFieldGhostID: sess.GhostID,
		})
	}
}
