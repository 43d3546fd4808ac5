package activity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/chiptally/chiptally-backend/internal/pkg/model"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTopicDefaultsAndOverrides(t *testing.T) {
	viper.Set("ACTIVITY_TOPIC", "")
	assert.Equal(t, defaultActivityTopic, Event{}.GetEventTopicName())

	viper.Set("ACTIVITY_TOPIC", "custom-activity")
	defer viper.Set("ACTIVITY_TOPIC", "")
	assert.Equal(t, "custom-activity", Event{}.GetEventTopicName())
}

func TestEventOmitsNilAmount(t *testing.T) {
	raw, err := json.Marshal(Event{
		TableId:    "table-1",
		PlayerId:   "player-1",
		PlayerName: "Alice",
		ActionType: model.ActionResetPot,
		CreatedAt:  time.Unix(0, 0).UTC(),
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	_, present := got["amount"]
	assert.False(t, present, "reset_pot event must not carry an amount")
	assert.Equal(t, "reset_pot", got["actionType"])
}

func TestActionTypeEnum(t *testing.T) {
	valid := []model.ActionType{
		model.ActionJoined,
		model.ActionLeft,
		model.ActionBet,
		model.ActionTake,
		model.ActionResetPot,
		model.ActionChipsEdited,
	}
	for _, action := range valid {
		assert.True(t, action.Valid(), "expected %q to be valid", action)
	}
	assert.False(t, model.ActionType("folded").Valid())
	assert.False(t, model.ActionType("").Valid())
}
