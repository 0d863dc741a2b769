package event

import (
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
	"github.com/rocketscienceinc/ludo-backend/internal/ludo"
)

// Outbound notification types, broadcast to every subscriber of a room.
const (
	TypeRoomUpdate    = "room:update"
	TypeGameStarted   = "game:started"
	TypeDiceRolled    = "game:dice"
	TypeTokenMoved    = "game:move"
	TypeTokenCaptured = "game:captured"
	TypeTurnAdvanced  = "game:turn"
	TypePlayerWon     = "game:won"
	TypeMoveRejected  = "game:rejected"
)

// Rejection reason codes carried by TypeMoveRejected.
const (
	ReasonNeedsExactRoll = "needs_exact_roll"
	ReasonDiceNotRolled  = "dice_not_rolled"
	ReasonUnknownToken   = "unknown_token"
	ReasonWrongSteps     = "wrong_steps"
	ReasonIllegalMove    = "illegal_move"
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type RoomUpdate struct {
	Room *entity.Room `json:"room"`
}

type GameStarted struct {
	RoomID        string         `json:"room_id"`
	CurrentPlayer *entity.Player `json:"current_player"`
}

type DiceRolled struct {
	PlayerID  string `json:"player_id"`
	Value     int    `json:"value"`
	RollAgain bool   `json:"roll_again"`
}

type TokenMoved struct {
	PlayerID   string               `json:"player_id"`
	TokenID    string               `json:"token_id"`
	Position   int                  `json:"position"`
	Captured   []ludo.CapturedToken `json:"captured,omitempty"`
	ReachedEnd bool                 `json:"reached_end,omitempty"`
}

type TokenCaptured struct {
	PlayerID string `json:"player_id"`
	TokenID  string `json:"token_id"`
}

type TurnAdvanced struct {
	PlayerID  string `json:"player_id"`
	RollAgain bool   `json:"roll_again"`
	AutoSkip  bool   `json:"auto_skip,omitempty"`
	Timeout   bool   `json:"timeout,omitempty"`
}

type PlayerWon struct {
	PlayerID string `json:"player_id"`
}

type MoveRejected struct {
	PlayerID string `json:"player_id"`
	Reason   string `json:"reason"`
}
