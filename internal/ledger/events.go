package ledger

// Broadcast payloads for the table room. Amounts are deltas except
// NewAmount on ChipsUpdatedEvent, which is the new absolute balance.

type BetPlacedEvent struct {
	PlayerId    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	Amount      int64  `json:"amount"`
	NewPot      int64  `json:"newPot"`
	PlayerChips int64  `json:"playerChips"`
}

type ChipsTakenEvent struct {
	PlayerId    string `json:"playerId"`
	PlayerName  string `json:"playerName"`
	Amount      int64  `json:"amount"`
	NewPot      int64  `json:"newPot"`
	PlayerChips int64  `json:"playerChips"`
}

type PotResetEvent struct {
	PlayerId   string `json:"playerId"`
	PlayerName string `json:"playerName"`
}

type ChipsUpdatedEvent struct {
	PlayerId   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	NewAmount  int64  `json:"newAmount"`
	AdminName  string `json:"adminName"`
}
