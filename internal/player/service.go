package player

import (
	"errors"
	"time"

	"github.com/chiptally/chiptally-backend/internal/activity"
	"github.com/chiptally/chiptally-backend/internal/pkg/model"
	"github.com/chiptally/chiptally-backend/internal/pkg/reject"
	"github.com/chiptally/chiptally-backend/internal/pkg/tablelock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultInitialChips int64 = 1000

var ErrInvalidChips = errors.New("initialChips must be a non-negative integer")

// PlayerService owns player lifecycle: joining a table, listing active
// players, stepping away and the legacy direct chip patch. The websocket
// presence layer reuses GetById and Deactivate.
type PlayerService struct {
	Db       *gorm.DB
	Activity *activity.Service
	Locks    *tablelock.KeyedMutex
}

type JoinResult struct {
	Player    *model.Player `json:"player"`
	SessionId string        `json:"sessionId"`
}

// Join creates the player row and its bearer session in one transaction and
// logs the join. New players start active; initialChips nil means the house
// default.
func (s *PlayerService) Join(tableId string, name string, initialChips *int64) (*JoinResult, *reject.ProblemWithTrace) {
	chips := DefaultInitialChips
	if initialChips != nil {
		if *initialChips < 0 {
			return nil, &reject.ProblemWithTrace{
				Problem: reject.ValidationProblem("initialChips must be a non-negative integer"),
				Cause:   ErrInvalidChips,
			}
		}
		chips = *initialChips
	}

	now := time.Now().UTC()
	player := &model.Player{
		Id:         uuid.NewString(),
		TableId:    tableId,
		Name:       name,
		MoneyCount: chips,
		IsActive:   true,
		LastSeen:   now,
	}
	sess := &model.Session{
		Id:           uuid.NewString(),
		TableId:      tableId,
		PlayerId:     player.Id,
		CreatedAt:    now,
		LastActiveAt: now,
	}

	var logged *model.ActivityLog
	err := s.Db.Transaction(func(tx *gorm.DB) error {
		var table model.Table
		result := tx.Where("id = ?", tableId).First(&table)
		if result.Error != nil {
			return result.Error
		}

		if result := tx.Create(player); result.Error != nil {
			return result.Error
		}
		if result := tx.Create(sess); result.Error != nil {
			return result.Error
		}

		var appendErr error
		logged, appendErr = s.Activity.Append(tx, tableId, player.Id, model.ActionJoined, nil)
		return appendErr
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.NotFoundProblem("Table not found"),
			Cause:   err,
		}
	}
	if err != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.DatabaseProblem(err),
			Cause:   err,
		}
	}

	s.Activity.Announce(logged, player.Name)

	return &JoinResult{Player: player, SessionId: sess.Id}, nil
}

// ActiveByTable lists the table's active players, longest-unseen first.
func (s *PlayerService) ActiveByTable(tableId string) ([]model.Player, *reject.ProblemWithTrace) {
	players := []model.Player{}
	result := s.Db.
		Where("table_id = ? AND is_active = true", tableId).
		Order("last_seen ASC").
		Find(&players)

	if result.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.DatabaseProblem(result.Error),
			Cause:   result.Error,
		}
	}
	return players, nil
}

func (s *PlayerService) GetById(playerId string) (*model.Player, error) {
	var player model.Player
	result := s.Db.Where("id = ?", playerId).First(&player)
	if result.Error != nil {
		return nil, result.Error
	}
	return &player, nil
}

// Deactivate marks the player as stepped away and logs it, once. Repeated
// calls on an already-inactive player only refresh last_seen. The session
// is left alone so rejoin keeps working.
func (s *PlayerService) Deactivate(playerId string) (*model.Player, *reject.ProblemWithTrace) {
	var player model.Player
	var logged *model.ActivityLog
	now := time.Now().UTC()

	err := s.Db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", playerId).First(&player)
		if result.Error != nil {
			return result.Error
		}

		wasActive := player.IsActive
		player.IsActive = false
		player.LastSeen = now
		result = tx.Model(&model.Player{}).
			Where("id = ?", playerId).
			Updates(map[string]any{"is_active": false, "last_seen": now})
		if result.Error != nil {
			return result.Error
		}

		if wasActive {
			var appendErr error
			logged, appendErr = s.Activity.Append(tx, player.TableId, playerId, model.ActionLeft, nil)
			return appendErr
		}
		return nil
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.NotFoundProblem("Player not found"),
			Cause:   err,
		}
	}
	if err != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.DatabaseProblem(err),
			Cause:   err,
		}
	}

	s.Activity.Announce(logged, player.Name)
	return &player, nil
}

// SetChips overwrites the player's balance. This is the legacy unauthorized
// variant of the admin chip edit; it stays on the surface for old clients
// but is logged the same way so the audit trail has no holes.
func (s *PlayerService) SetChips(playerId string, amount int64) (*model.Player, *reject.ProblemWithTrace) {
	var player model.Player
	result := s.Db.Where("id = ?", playerId).First(&player)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.NotFoundProblem("Player not found"),
			Cause:   result.Error,
		}
	}
	if result.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.DatabaseProblem(result.Error),
			Cause:   result.Error,
		}
	}

	s.Locks.Lock(player.TableId)
	defer s.Locks.Unlock(player.TableId)

	var logged *model.ActivityLog
	err := s.Db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Player{}).
			Where("id = ?", playerId).
			Update("money_count", amount)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		player.MoneyCount = amount

		var appendErr error
		logged, appendErr = s.Activity.Append(tx, player.TableId, playerId, model.ActionChipsEdited, &amount)
		return appendErr
	})

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.NotFoundProblem("Player not found"),
			Cause:   err,
		}
	}
	if err != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.DatabaseProblem(err),
			Cause:   err,
		}
	}

	s.Activity.Announce(logged, player.Name)
	return &player, nil
}
