package activity

import (
	"time"

	"github.com/chiptally/chiptally-backend/internal/pkg/model"
	"github.com/spf13/viper"
)

const defaultActivityTopic = "chip-ledger-activity"

// Event is the Pub/Sub shape of a committed activity entry, consumed by
// out-of-process subscribers (audit, analytics).
type Event struct {
	TableId    string           `json:"tableId"`
	PlayerId   string           `json:"playerId"`
	PlayerName string           `json:"playerName"`
	ActionType model.ActionType `json:"actionType"`
	Amount     *int64           `json:"amount,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
}

func (Event) GetEventTopicName() string {
	if topic, ok := viper.Get("ACTIVITY_TOPIC").(string); ok && topic != "" {
		return topic
	}
	return defaultActivityTopic
}
