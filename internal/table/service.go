package table

import (
	"errors"
	"time"

	"github.com/chiptally/chiptally-backend/internal/activity"
	"github.com/chiptally/chiptally-backend/internal/pkg/model"
	"github.com/chiptally/chiptally-backend/internal/pkg/reject"
	"github.com/chiptally/chiptally-backend/internal/player"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tableService struct {
	db       *gorm.DB
	activity *activity.Service
}

type CreateTableResult struct {
	Table     *model.Table  `json:"table"`
	Player    *model.Player `json:"player"`
	SessionId string        `json:"sessionId"`
}

// createTable creates the table, its first player and that player's session
// in one transaction, and binds the player as creator. created_by is set
// exactly here and never again; this player is the table's sole admin.
func (s *tableService) createTable(tableName string, playerName string, initialChips *int64) (*CreateTableResult, *reject.ProblemWithTrace) {
	chips := player.DefaultInitialChips
	if initialChips != nil {
		if *initialChips < 0 {
			return nil, &reject.ProblemWithTrace{
				Problem: reject.ValidationProblem("initialChips must be a non-negative integer"),
				Cause:   player.ErrInvalidChips,
			}
		}
		chips = *initialChips
	}

	now := time.Now().UTC()
	creatorId := uuid.NewString()

	tbl := &model.Table{
		Id:         uuid.NewString(),
		Name:       tableName,
		CreatedAt:  now,
		CreatedBy:  &creatorId,
		CurrentPot: 0,
	}
	creator := &model.Player{
		Id:         creatorId,
		TableId:    tbl.Id,
		Name:       playerName,
		MoneyCount: chips,
		IsActive:   true,
		LastSeen:   now,
	}
	sess := &model.Session{
		Id:           uuid.NewString(),
		TableId:      tbl.Id,
		PlayerId:     creatorId,
		CreatedAt:    now,
		LastActiveAt: now,
	}

	var logged *model.ActivityLog
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if result := tx.Create(tbl); result.Error != nil {
			return result.Error
		}
		if result := tx.Create(creator); result.Error != nil {
			return result.Error
		}
		if result := tx.Create(sess); result.Error != nil {
			return result.Error
		}

		var appendErr error
		logged, appendErr = s.activity.Append(tx, tbl.Id, creatorId, model.ActionJoined, nil)
		return appendErr
	})

	if err != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.DatabaseProblem(err),
			Cause:   err,
		}
	}

	s.activity.Announce(logged, creator.Name)

	return &CreateTableResult{
		Table:     tbl,
		Player:    creator,
		SessionId: sess.Id,
	}, nil
}

func (s *tableService) getTable(tableId string) (*model.Table, *reject.ProblemWithTrace) {
	var tbl model.Table
	result := s.db.Where("id = ?", tableId).First(&tbl)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.NotFoundProblem("Table not found"),
			Cause:   result.Error,
		}
	}
	if result.Error != nil {
		return nil, &reject.ProblemWithTrace{
			Problem: reject.DatabaseProblem(result.Error),
			Cause:   result.Error,
		}
	}

	return &tbl, nil
}
