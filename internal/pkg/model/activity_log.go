package model

import (
	"time"
)

type ActionType string

const (
	ActionJoined      ActionType = "joined"
	ActionLeft        ActionType = "left"
	ActionBet         ActionType = "bet"
	ActionTake        ActionType = "take"
	ActionResetPot    ActionType = "reset_pot"
	ActionChipsEdited ActionType = "chips_edited"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionJoined, ActionLeft, ActionBet, ActionTake, ActionResetPot, ActionChipsEdited:
		return true
	}
	return false
}

// ActivityLog rows are append-only. Amount holds the delta for bet/take and
// the new absolute balance for chips_edited; nil for joined/left/reset_pot.
type ActivityLog struct {
	Id         uint64     `json:"id" gorm:"primaryKey"`
	TableId    string     `json:"table_id"`
	PlayerId   string     `json:"player_id"`
	ActionType ActionType `json:"action_type"`
	Amount     *int64     `json:"amount"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
