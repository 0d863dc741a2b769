package websocket

import (
	"github.com/rocketscienceinc/ludo-backend/internal/board"
	"github.com/rocketscienceinc/ludo-backend/internal/entity"
)

// Payload is the closed set of fields an inbound or outbound message may
// carry. Malformed input is rejected here, never deep in engine logic.
type Payload struct {
	RoomID  string `json:"room_id,omitempty"`
	Name    string `json:"name,omitempty"`
	Ready   *bool  `json:"ready,omitempty"`
	TokenID string `json:"token_id,omitempty"`
	Steps   *int   `json:"steps,omitempty"`

	Player       *entity.Player      `json:"player,omitempty"`
	Room         *entity.Room        `json:"room,omitempty"`
	Session      *entity.GameSession `json:"session,omitempty"`
	EntryOffsets map[board.Color]int `json:"entry_offsets,omitempty"`
	Error        string              `json:"error,omitempty"`
}
