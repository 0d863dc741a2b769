package ludo

// CapturedToken identifies an opposing token sent back home by a move.
type CapturedToken struct {
	PlayerID string `json:"player_id"`
	TokenID  string `json:"token_id"`
}

// MoveResult is the outcome of a single MoveToken call. Success=false with
// NeedsExactRoll=true means the move overshot the goal; plain Success=false
// means a precondition failed (unknown token, token at goal, no six for a
// home token).
type MoveResult struct {
	Success        bool            `json:"success"`
	CapturedTokens []CapturedToken `json:"captured_tokens,omitempty"`
	ReachedEnd     bool            `json:"reached_end,omitempty"`
	HasWon         bool            `json:"has_won,omitempty"`
	NeedsExactRoll bool            `json:"needs_exact_roll,omitempty"`
}
