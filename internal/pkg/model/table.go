package model

import (
	"time"
)

type Table struct {
	Id         string    `json:"id"`
	Name       string    `json:"name"`
	CreatedAt  time.Time `json:"created_at"`
	CreatedBy  *string   `json:"created_by"`
	CurrentPot int64     `json:"current_pot"`
}

func (Table) TableName() string {
	return "tables"
}
