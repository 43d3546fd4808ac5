package session

import (
	"errors"
	"time"

	"github.com/chiptally/chiptally-backend/internal/activity"
	"github.com/chiptally/chiptally-backend/internal/pkg/model"
	"github.com/chiptally/chiptally-backend/internal/pkg/reject"
	"gorm.io/gorm"
)

type sessionService struct {
	db       *gorm.DB
	cache    *sessionCache
	activity *activity.Service
}

type RejoinResult struct {
	Player    *model.Player `json:"player"`
	SessionId string        `json:"sessionId"`
	TableId   string        `json:"tableId"`
}

// rejoin re-authenticates a returning client from its bearer session id.
// Idempotent: a repeated call with a valid session just refreshes timestamps.
func (s *sessionService) rejoin(sessionId string) (*RejoinResult, *reject.ProblemWithTrace) {
	sess, found := s.cache.Get(sessionId)
	if !found {
		result := s.db.Where("id = ?", sessionId).First(&sess)
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &reject.ProblemWithTrace{
				Problem: reject.NotFoundProblem("Session not found or expired"),
				Cause:   result.Error,
			}
		}
		if result.Error != nil {
			return nil, &reject.ProblemWithTrace{
				Problem: reject.DatabaseProblem(result.Error),
				Cause:   result.Error,
			}
		}
	}

	var player model.Player
	var logged *model.ActivityLog
	now := time.Now().UTC()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", sess.PlayerId).First(&player)
		if result.Error != nil {
			// an orphaned session is as good as no session
			return result.Error
		}

		wasActive := player.IsActive
		player.IsActive = true
		player.LastSeen = now
		result = tx.Model(&model.Player{}).
			Where("id = ?", player.Id).
			Updates(map[string]any{"is_active": true, "last_seen": now})
		if result.Error != nil {
			return result.Error
		}

		result = tx.Model(&model.Session{}).
			Where("id = ?", sess.Id).
			Update("last_active_at", now)
		if result.Error != nil {
			return result.Error
		}

		if !wasActive {
			var appendErr error
			logged, appendErr = s.activity.Append(tx, sess.TableId, player.Id, model.ActionJoined, nil)
			if appendErr != nil {
				return appendErr
			}
		}
		return nil
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		s.cache.Remove(sessionId)
		return nil, &reject.ProblemWithTrace{
			Problem: reject.NotFoundProblem("Session not found or expired"),
			Cause:   err,
		}
	}
	if err != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.DatabaseProblem(err),
			Cause:   err,
		}
	}

	sess.LastActiveAt = now
	s.cache.Add(sess)
	s.activity.Announce(logged, player.Name)

	return &RejoinResult{
		Player:    &player,
		SessionId: sess.Id,
		TableId:   sess.TableId,
	}, nil
}

// heartbeat refreshes last_active_at only. Liveness (recent heartbeat) and
// presence (open connection) are tracked independently; this never touches
// the player's is_active flag.
func (s *sessionService) heartbeat(sessionId string) *reject.ProblemWithTrace {
	now := time.Now().UTC()
	result := s.db.Model(&model.Session{}).
		Where("id = ?", sessionId).
		Update("last_active_at", now)

	if result.Error != nil {
		return &reject.ProblemWithTrace{
			Problem: reject.DatabaseProblem(result.Error),
			Cause:   result.Error,
		}
	}
	if result.RowsAffected == 0 {
		return &reject.ProblemWithTrace{
			Problem: reject.NotFoundProblem("Session not found"),
			Cause:   gorm.ErrRecordNotFound,
		}
	}

	if sess, found := s.cache.Get(sessionId); found {
		sess.LastActiveAt = now
		s.cache.Add(sess)
	}
	return nil
}
