package ledger

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/chiptally/chiptally-backend/internal/pkg/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestValidMutationAmount(t *testing.T) {
	testCases := []struct {
		amount   int64
		expected bool
	}{
		{amount: -100, expected: false},
		{amount: -1, expected: false},
		{amount: 0, expected: false},
		{amount: 1, expected: true},
		{amount: 1000, expected: true},
	}

	for _, tc := range testCases {
		if got := validMutationAmount(tc.amount); got != tc.expected {
			t.Errorf("validMutationAmount(%d) = %v, expected %v", tc.amount, got, tc.expected)
		}
	}
}

func TestIsCreator(t *testing.T) {
	creatorId := "player-1"

	testCases := []struct {
		name     string
		table    model.Table
		playerId string
		expected bool
	}{
		{
			name:     "creator matches",
			table:    model.Table{CreatedBy: &creatorId},
			playerId: "player-1",
			expected: true,
		},
		{
			name:     "different player",
			table:    model.Table{CreatedBy: &creatorId},
			playerId: "player-2",
			expected: false,
		},
		{
			name:     "unbound table",
			table:    model.Table{CreatedBy: nil},
			playerId: "player-1",
			expected: false,
		},
		{
			name:     "empty requester never matches",
			table:    model.Table{CreatedBy: new(string)},
			playerId: "",
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, isCreator(&tc.table, tc.playerId))
		})
	}
}

func TestMutationProblemMapping(t *testing.T) {
	s := &ledgerService{}

	testCases := []struct {
		err            error
		expectedStatus int
	}{
		{err: errTableNotFound, expectedStatus: http.StatusNotFound},
		{err: errPlayerNotFound, expectedStatus: http.StatusNotFound},
		{err: errInsufficientChips, expectedStatus: http.StatusBadRequest},
		{err: errPotUnderflow, expectedStatus: http.StatusBadRequest},
		{err: errNotAdmin, expectedStatus: http.StatusForbidden},
		{err: assert.AnError, expectedStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		problem := s.mutationProblem(tc.err)
		assert.Equal(t, tc.expectedStatus, problem.Problem.Status, "status for %v", tc.err)
		assert.Equal(t, tc.err, problem.Cause)
	}
}

// The broadcast payload field names are part of the client contract.
func TestBetPlacedEventWireShape(t *testing.T) {
	raw, err := json.Marshal(BetPlacedEvent{
		PlayerId:    "p1",
		PlayerName:  "Alice",
		Amount:      200,
		NewPot:      200,
		PlayerChips: 800,
	})
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}

	expected := map[string]any{
		"playerId":    "p1",
		"playerName":  "Alice",
		"amount":      float64(200),
		"newPot":      float64(200),
		"playerChips": float64(800),
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("bet-placed payload mismatch (-expected +got):\n%s", diff)
	}
}

func TestChipsUpdatedEventWireShape(t *testing.T) {
	raw, err := json.Marshal(ChipsUpdatedEvent{
		PlayerId:   "p2",
		PlayerName: "Bob",
		NewAmount:  650,
		AdminName:  "Alice",
	})
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}

	expected := map[string]any{
		"playerId":   "p2",
		"playerName": "Bob",
		"newAmount":  float64(650),
		"adminName":  "Alice",
	}
	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("chips-updated payload mismatch (-expected +got):\n%s", diff)
	}
}
