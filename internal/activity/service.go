package activity

import (
	"time"

	"github.com/chiptally/chiptally-backend/internal/pkg/model"
	"github.com/chiptally/chiptally-backend/internal/pkg/pubsub"
	"github.com/chiptally/chiptally-backend/internal/pkg/reject"
	ws "github.com/chiptally/chiptally-backend/internal/pkg/ws"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Service appends to and reads the per-table activity feed. Append runs
// inside the caller's transaction so a mutation and its log row commit or
// roll back together; Announce runs after commit and is best-effort.
type Service struct {
	Db  *gorm.DB
	Hub *ws.RoomHub
}

// FeedItem is one activity row joined with the acting player's display name.
type FeedItem struct {
	Id         uint64           `json:"id"`
	TableId    string           `json:"table_id"`
	PlayerId   string           `json:"player_id"`
	PlayerName string           `json:"player_name"`
	ActionType model.ActionType `json:"action_type"`
	Amount     *int64           `json:"amount"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (s *Service) Append(tx *gorm.DB, tableId string, playerId string, action model.ActionType, amount *int64) (*model.ActivityLog, error) {
	entry := &model.ActivityLog{
		TableId:    tableId,
		PlayerId:   playerId,
		ActionType: action,
		Amount:     amount,
		CreatedAt:  time.Now().UTC(),
	}

	result := tx.Create(entry)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, "appending activity log")
	}
	return entry, nil
}

// Announce pushes the committed entry to the table's live room and to the
// Pub/Sub exporter. Neither delivery is guaranteed; clients reconcile by
// re-fetching the feed.
func (s *Service) Announce(entry *model.ActivityLog, playerName string) {
	if entry == nil {
		return
	}

	s.Hub.Broadcast(entry.TableId, "activity", feedPayload{
		PlayerName: playerName,
		Action:     entry.ActionType,
		Amount:     entry.Amount,
		Timestamp:  entry.CreatedAt,
	})

	if pubsub.Enabled() {
		pubsub.Publish(Event{
			TableId:    entry.TableId,
			PlayerId:   entry.PlayerId,
			PlayerName: playerName,
			ActionType: entry.ActionType,
			Amount:     entry.Amount,
			CreatedAt:  entry.CreatedAt,
		})
	}
}

type feedPayload struct {
	PlayerName string           `json:"playerName"`
	Action     model.ActionType `json:"action"`
	Amount     *int64           `json:"amount,omitempty"`
	Timestamp  time.Time        `json:"timestamp"`
}

func (s *Service) Recent(tableId string, limit int) ([]FeedItem, *reject.ProblemWithTrace) {
	items := []FeedItem{}

	result := s.Db.Raw(`
		SELECT activity_logs.id
		     , activity_logs.table_id
		     , activity_logs.player_id
		     , players.name AS player_name
		     , activity_logs.action_type
		     , activity_logs.amount
		     , activity_logs.created_at
		  FROM activity_logs
		 INNER JOIN players ON players.id = activity_logs.player_id
		 WHERE activity_logs.table_id = ?
		 ORDER BY activity_logs.created_at DESC
		 LIMIT ?`, tableId, limit).
		Scan(&items)

	if result.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.DatabaseProblem(result.Error),
			Cause:   result.Error,
		}
	}

	return items, nil
}
