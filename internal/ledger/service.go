package ledger

import (
	"errors"
	"time"

	"github.com/chiptally/chiptally-backend/internal/activity"
	"github.com/chiptally/chiptally-backend/internal/pkg/model"
	"github.com/chiptally/chiptally-backend/internal/pkg/reject"
	"github.com/chiptally/chiptally-backend/internal/pkg/tablelock"
	ws "github.com/chiptally/chiptally-backend/internal/pkg/ws"
	"gorm.io/gorm"
)

var (
	errTableNotFound     = errors.New("table not found")
	errPlayerNotFound    = errors.New("player not found")
	errInsufficientChips = errors.New("insufficient chips")
	errPotUnderflow      = errors.New("pot underflow")
	errNotAdmin          = errors.New("requester is not the table creator")
)

// ledgerService applies every pot and balance mutation. Each operation takes
// the table's lock for its whole span, transaction and broadcast included, so
// same-table read-modify-writes never interleave and the room sees events in
// commit order. The guarded UPDATE ... WHERE clauses are the second line of
// defense at the store: a balance or pot can never go negative even if the
// lock discipline is ever broken.
type ledgerService struct {
	db       *gorm.DB
	hub      *ws.RoomHub
	activity *activity.Service
	locks    *tablelock.KeyedMutex
}

type MutationResult struct {
	NewPot      int64 `json:"newPot"`
	PlayerChips int64 `json:"playerChips"`
}

// placeBet moves amount from the player's stack into the pot as one unit.
func (s *ledgerService) placeBet(tableId string, playerId string, amount int64) (*MutationResult, *reject.ProblemWithTrace) {
	if !validMutationAmount(amount) {
		return nil, invalidAmountProblem()
	}

	s.locks.Lock(tableId)
	defer s.locks.Unlock(tableId)

	var player model.Player
	var newChips, newPot int64
	var logged *model.ActivityLog
	now := time.Now().UTC()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("id = ? AND table_id = ?", playerId, tableId).First(&player); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return errPlayerNotFound
			}
			return result.Error
		}

		result := tx.Raw(`
			UPDATE players
			   SET money_count = money_count - ?, last_seen = ?
			 WHERE id = ? AND money_count >= ?
			 RETURNING money_count`, amount, now, playerId, amount).
			Scan(&newChips)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errInsufficientChips
		}

		result = tx.Raw(`
			UPDATE tables
			   SET current_pot = current_pot + ?
			 WHERE id = ?
			 RETURNING current_pot`, amount, tableId).
			Scan(&newPot)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errTableNotFound
		}

		var appendErr error
		logged, appendErr = s.activity.Append(tx, tableId, playerId, model.ActionBet, &amount)
		return appendErr
	})

	if err != nil {
		return nil, s.mutationProblem(err)
	}

	s.hub.Broadcast(tableId, "bet-placed", BetPlacedEvent{
		PlayerId:    playerId,
		PlayerName:  player.Name,
		Amount:      amount,
		NewPot:      newPot,
		PlayerChips: newChips,
	})
	s.activity.Announce(logged, player.Name)

	return &MutationResult{NewPot: newPot, PlayerChips: newChips}, nil
}

// takeFromPot is the inverse transfer, gated by the pot holding enough.
func (s *ledgerService) takeFromPot(tableId string, playerId string, amount int64) (*MutationResult, *reject.ProblemWithTrace) {
	if !validMutationAmount(amount) {
		return nil, invalidAmountProblem()
	}

	s.locks.Lock(tableId)
	defer s.locks.Unlock(tableId)

	var player model.Player
	var table model.Table
	var newChips, newPot int64
	var logged *model.ActivityLog
	now := time.Now().UTC()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("id = ?", tableId).First(&table); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return errTableNotFound
			}
			return result.Error
		}
		if result := tx.Where("id = ? AND table_id = ?", playerId, tableId).First(&player); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return errPlayerNotFound
			}
			return result.Error
		}

		result := tx.Raw(`
			UPDATE tables
			   SET current_pot = current_pot - ?
			 WHERE id = ? AND current_pot >= ?
			 RETURNING current_pot`, amount, tableId, amount).
			Scan(&newPot)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errPotUnderflow
		}

		result = tx.Raw(`
			UPDATE players
			   SET money_count = money_count + ?, last_seen = ?
			 WHERE id = ?
			 RETURNING money_count`, amount, now, playerId).
			Scan(&newChips)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errPlayerNotFound
		}

		var appendErr error
		logged, appendErr = s.activity.Append(tx, tableId, playerId, model.ActionTake, &amount)
		return appendErr
	})

	if err != nil {
		return nil, s.mutationProblem(err)
	}

	s.hub.Broadcast(tableId, "chips-taken", ChipsTakenEvent{
		PlayerId:    playerId,
		PlayerName:  player.Name,
		Amount:      amount,
		NewPot:      newPot,
		PlayerChips: newChips,
	})
	s.activity.Announce(logged, player.Name)

	return &MutationResult{NewPot: newPot, PlayerChips: newChips}, nil
}

// resetPot zeroes the pot unconditionally. Creator only.
func (s *ledgerService) resetPot(tableId string, requesterId string) *reject.ProblemWithTrace {
	s.locks.Lock(tableId)
	defer s.locks.Unlock(tableId)

	var requester model.Player
	var logged *model.ActivityLog

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var table model.Table
		if result := tx.Where("id = ?", tableId).First(&table); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return errTableNotFound
			}
			return result.Error
		}
		if !isCreator(&table, requesterId) {
			return errNotAdmin
		}
		if result := tx.Where("id = ?", requesterId).First(&requester); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return errPlayerNotFound
			}
			return result.Error
		}

		result := tx.Model(&model.Table{}).
			Where("id = ?", tableId).
			Update("current_pot", 0)
		if result.Error != nil {
			return result.Error
		}

		var appendErr error
		logged, appendErr = s.activity.Append(tx, tableId, requesterId, model.ActionResetPot, nil)
		return appendErr
	})

	if err != nil {
		return s.mutationProblem(err)
	}

	s.hub.Broadcast(tableId, "pot-reset", PotResetEvent{
		PlayerId:   requesterId,
		PlayerName: requester.Name,
	})
	s.activity.Announce(logged, requester.Name)

	return nil
}

// adminSetChips overwrites the target's balance without touching the pot.
// Unlike bet/take this is not a conserved transfer; the log records the new
// absolute balance so the correction stays auditable.
func (s *ledgerService) adminSetChips(tableId string, adminId string, targetId string, newAmount int64) (*model.Player, *reject.ProblemWithTrace) {
	if newAmount < 0 {
		return nil, invalidAmountProblem()
	}

	s.locks.Lock(tableId)
	defer s.locks.Unlock(tableId)

	var admin, target model.Player
	var logged *model.ActivityLog

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var table model.Table
		if result := tx.Where("id = ?", tableId).First(&table); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return errTableNotFound
			}
			return result.Error
		}
		if !isCreator(&table, adminId) {
			return errNotAdmin
		}
		if result := tx.Where("id = ?", adminId).First(&admin); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return errPlayerNotFound
			}
			return result.Error
		}
		if result := tx.Where("id = ? AND table_id = ?", targetId, tableId).First(&target); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return errPlayerNotFound
			}
			return result.Error
		}

		result := tx.Model(&model.Player{}).
			Where("id = ?", targetId).
			Update("money_count", newAmount)
		if result.Error != nil {
			return result.Error
		}
		target.MoneyCount = newAmount

		var appendErr error
		logged, appendErr = s.activity.Append(tx, tableId, adminId, model.ActionChipsEdited, &newAmount)
		return appendErr
	})

	if err != nil {
		return nil, s.mutationProblem(err)
	}

	s.hub.Broadcast(tableId, "chips-updated", ChipsUpdatedEvent{
		PlayerId:   target.Id,
		PlayerName: target.Name,
		NewAmount:  newAmount,
		AdminName:  admin.Name,
	})
	s.activity.Announce(logged, admin.Name)

	return &target, nil
}

func (s *ledgerService) mutationProblem(err error) *reject.ProblemWithTrace {
	var problem reject.Problem
	switch err {
	case errTableNotFound:
		problem = reject.NotFoundProblem("Table not found")
	case errPlayerNotFound:
		problem = reject.NotFoundProblem("Player not found")
	case errInsufficientChips:
		problem = reject.InsufficientChipsProblem()
	case errPotUnderflow:
		problem = reject.PotUnderflowProblem()
	case errNotAdmin:
		problem = reject.NotAdminProblem("Only the table creator can do this")
	default:
		problem = reject.DatabaseProblem(err)
	}
	return &reject.ProblemWithTrace{Problem: problem, Cause: err}
}

func validMutationAmount(amount int64) bool {
	return amount > 0
}

func isCreator(table *model.Table, playerId string) bool {
	return table.CreatedBy != nil && *table.CreatedBy == playerId && playerId != ""
}

func invalidAmountProblem() *reject.ProblemWithTrace {
	return &reject.ProblemWithTrace{
		Problem: reject.ValidationProblem("Valid playerId and amount required"),
		Cause:   errors.New("invalid amount"),
	}
}
