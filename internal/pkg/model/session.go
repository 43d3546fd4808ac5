package model

import (
	"time"
)

// Session is the bearer credential handed to the client on join. Possession
// of the id is the sole authentication factor.
type Session struct {
	Id           string    `json:"id"`
	TableId      string    `json:"table_id"`
	PlayerId     string    `json:"player_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

func (Session) TableName() string {
	return "sessions"
}
