package model

import (
	"time"
)

type Player struct {
	Id         string    `json:"id"`
	TableId    string    `json:"table_id"`
	Name       string    `json:"name"`
	MoneyCount int64     `json:"money_count"`
	IsActive   bool      `json:"is_active"`
	LastSeen   time.Time `json:"last_seen"`
}

func (Player) TableName() string {
	return "players"
}
