package service

import (
	"github.com/evglabs/superdeck/internal/ai"
	"github.com/evglabs/superdeck/internal/constants"
	"github.com/evglabs/superdeck/internal/game"
	"github.com/evglabs/superdeck/internal/logging"
	"github.com/evglabs/superdeck/internal/session"
)

// autoPlayRoundCap bounds the auto-play loop. System damage guarantees
// termination long before this.
const autoPlayRoundCap = 500

// SubmitAction applies one player action to a live battle. Engine
// validation errors are returned to the caller with the battle unchanged;
// a completed battle is finalized before returning.
func (s *Service) SubmitAction(battleID, playerUUID string, action game.Action) (*session.Session, error) {
	sess, err := s.authorized(battleID, playerUUID)
	if err != nil {
		return nil, err
	}
	b := sess.Engine.Battle()
	if b.Complete {
		return sess, ErrBattleFinished
	}
	s.sessions.Touch(battleID)

	profile := s.profile(sess)
	switch action.Kind {
	case game.ActionQueueCard:
		err = sess.Engine.QueueCard(b.Player, action.HandIndex)
	case game.ActionConfirmQueue:
		err = sess.Engine.ConfirmQueue(profile)
	case game.ActionAutoQueue:
		err = sess.Engine.AutoQueue(profile)
	case game.ActionForfeit:
		err = sess.Engine.Forfeit(b.Player)
	default:
		return sess, ErrUnknownAction
	}
	if err != nil {
		return sess, err
	}
	logging.Debug("action applied", logging.Fields{
		constants.LogFieldBattleID: sess.ID,
		constants.LogFieldRound:    b.Round,
		"kind":                     string(action.Kind),
	})

	if sess.AutoPlay && !b.Complete {
		s.runAutoPlay(sess)
	}
	if err := s.finalizeIfComplete(sess); err != nil {
		return sess, err
	}
	return sess, nil
}

// ToggleAutoPlay flips auto-play for a battle. Enabling it immediately
// plays the battle out to completion.
func (s *Service) ToggleAutoPlay(battleID, playerUUID string, enabled bool, profileID string) (*session.Session, error) {
	sess, err := s.authorized(battleID, playerUUID)
	if err != nil {
		return nil, err
	}
	s.sessions.Touch(battleID)
	sess.AutoPlay = enabled
	if profileID != "" {
		sess.ProfileID = profileID
	}
	if enabled && !sess.Engine.Battle().Complete {
		s.runAutoPlay(sess)
		if err := s.finalizeIfComplete(sess); err != nil {
			return sess, err
		}
	}
	return sess, nil
}

func (s *Service) authorized(battleID, playerUUID string) (*session.Session, error) {
	sess := s.sessions.Get(battleID)
	if sess == nil {
		return nil, ErrBattleNotFound
	}
	if sess.PlayerUUID != "" && playerUUID != "" && sess.PlayerUUID != playerUUID {
		return nil, ErrNotYourBattle
	}
	return sess, nil
}

func (s *Service) profile(sess *session.Session) *ai.Profile {
	if p := ai.LookupProfile(sess.ProfileID); p != nil {
		return p
	}
	return ai.DefaultProfile()
}

// runAutoPlay drives the battle with AI picks until it completes.
func (s *Service) runAutoPlay(sess *session.Session) {
	profile := s.profile(sess)
	b := sess.Engine.Battle()
	for i := 0; i < autoPlayRoundCap && !b.Complete; i++ {
		if err := sess.Engine.AutoQueue(profile); err != nil {
			b.Logf("auto-play stopped: %v", err)
			return
		}
	}
}
